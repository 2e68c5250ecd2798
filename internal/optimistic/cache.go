package optimistic

import (
	"sync"
	"time"

	"github.com/yukikurage/project-board/internal/dto"
)

// DefaultStaleTime is how long a fetched project counts as fresh.
const DefaultStaleTime = 30 * time.Second

type entry struct {
	project   dto.ProjectDTO
	fetchedAt time.Time
}

// Cache holds the last known snapshot of each project. Snapshots are values
// built by path-copying edits, so handing one out never exposes later writes.
type Cache struct {
	mu        sync.RWMutex
	entries   map[string]entry
	staleTime time.Duration
	nowFunc   func() time.Time
}

// NewCache returns an empty cache. A non-positive staleTime uses
// DefaultStaleTime.
func NewCache(staleTime time.Duration) *Cache {
	if staleTime <= 0 {
		staleTime = DefaultStaleTime
	}
	return &Cache{
		entries:   make(map[string]entry),
		staleTime: staleTime,
		nowFunc:   time.Now,
	}
}

// Get returns the cached snapshot of projectID.
func (c *Cache) Get(projectID string) (dto.ProjectDTO, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[projectID]
	return e.project, ok
}

// Fresh reports whether projectID is cached and younger than the stale time.
func (c *Cache) Fresh(projectID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[projectID]
	return ok && c.nowFunc().Sub(e.fetchedAt) < c.staleTime
}

// Set stores a snapshot fetched from the server.
func (c *Cache) Set(project dto.ProjectDTO) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[project.ID] = entry{project: project, fetchedAt: c.nowFunc()}
}

// Patch replaces the snapshot of projectID with fn(snapshot) and returns the
// snapshot it replaced. When fn fails the cache is left untouched.
func (c *Cache) Patch(projectID string, fn func(dto.ProjectDTO) (dto.ProjectDTO, error)) (dto.ProjectDTO, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[projectID]
	if !ok {
		return dto.ProjectDTO{}, ErrNotLoaded
	}
	next, err := fn(e.project)
	if err != nil {
		return e.project, err
	}
	c.entries[projectID] = entry{project: next, fetchedAt: e.fetchedAt}
	return e.project, nil
}

// Restore puts a previously captured snapshot back.
func (c *Cache) Restore(previous dto.ProjectDTO) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entries[previous.ID]
	c.entries[previous.ID] = entry{project: previous, fetchedAt: e.fetchedAt}
}

// Invalidate drops projectID so the next Load fetches it.
func (c *Cache) Invalidate(projectID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, projectID)
}
