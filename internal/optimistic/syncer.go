package optimistic

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/yukikurage/project-board/internal/dto"
	"github.com/yukikurage/project-board/internal/logging"
	"github.com/yukikurage/project-board/internal/tasktree"
)

// TempIDPrefix marks ids handed out locally for records the server has not
// created yet.
const TempIDPrefix = "temp-"

var (
	ErrEmptyTitle       = fmt.Errorf("%w: title is required", tasktree.ErrRejected)
	ErrEmptyName        = fmt.Errorf("%w: name is required", tasktree.ErrRejected)
	ErrPendingReference = fmt.Errorf("%w: record is not saved yet", tasktree.ErrRejected)
	ErrSubtaskGroup     = fmt.Errorf("%w: a subtask stays in its parent's group", tasktree.ErrRejected)
)

// Remote is the board API as the sync layer sees it.
type Remote interface {
	GetProject(ctx context.Context, projectID string) (dto.ProjectDTO, error)
	CreateTask(ctx context.Context, projectID string, req dto.CreateTaskRequest) (dto.TaskDTO, error)
	UpdateTask(ctx context.Context, projectID, taskID string, req dto.UpdateTaskRequest) (dto.TaskDTO, error)
	DeleteTask(ctx context.Context, projectID, taskID string) error
	ReorderTasks(ctx context.Context, projectID string, items []dto.ReorderItem) error
	CreateTaskGroup(ctx context.Context, projectID string, req dto.CreateTaskGroupRequest) (dto.TaskGroupDTO, error)
	UpdateTaskGroup(ctx context.Context, projectID, groupID string, req dto.UpdateTaskGroupRequest) (dto.TaskGroupDTO, error)
	DeleteTaskGroup(ctx context.Context, projectID, groupID string) error
}

// Syncer runs optimistic mutations against one cache. It is safe for
// concurrent use; mutations in flight at the same time each keep their own
// rollback snapshot.
type Syncer struct {
	remote Remote
	cache  *Cache
	logger *slog.Logger
	newID  func() string
}

// NewSyncer wires remote to cache. A nil cache gets a fresh one with the
// default stale time, and a nil logger discards.
func NewSyncer(remote Remote, cache *Cache, logger *slog.Logger) *Syncer {
	if cache == nil {
		cache = NewCache(DefaultStaleTime)
	}
	return &Syncer{
		remote: remote,
		cache:  cache,
		logger: logging.OrDiscard(logger),
		newID: func() string {
			return TempIDPrefix + uuid.NewString()
		},
	}
}

// IsTemporary reports whether id was handed out locally.
func IsTemporary(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}

// Cache returns the cache the syncer writes to.
func (s *Syncer) Cache() *Cache {
	return s.cache
}

// Snapshot returns the cached project without fetching.
func (s *Syncer) Snapshot(projectID string) (dto.ProjectDTO, bool) {
	return s.cache.Get(projectID)
}

// Load returns the cached project while it is fresh and fetches it otherwise.
func (s *Syncer) Load(ctx context.Context, projectID string) (dto.ProjectDTO, error) {
	if s.cache.Fresh(projectID) {
		if p, ok := s.cache.Get(projectID); ok {
			return p, nil
		}
	}
	return s.Refresh(ctx, projectID)
}

// Refresh fetches the project and replaces the cached snapshot.
func (s *Syncer) Refresh(ctx context.Context, projectID string) (dto.ProjectDTO, error) {
	p, err := s.remote.GetProject(ctx, projectID)
	if err != nil {
		return dto.ProjectDTO{}, fmt.Errorf("failed to load project %s: %w", projectID, err)
	}
	if p.ID == "" {
		p.ID = projectID
	}
	// Rebuild the nesting so sibling order follows orderIndex whatever the
	// server sent.
	p.Tasks = tasktree.Nest(tasktree.Collect(p.Tasks))
	s.cache.Set(p)
	s.logger.Debug("project loaded", "project_id", projectID, "tasks", len(tasktree.Collect(p.Tasks)))
	return p, nil
}

func (s *Syncer) ensure(ctx context.Context, projectID string) error {
	if _, ok := s.cache.Get(projectID); ok {
		return nil
	}
	_, err := s.Refresh(ctx, projectID)
	return err
}

func checkSaved(ids ...*string) error {
	for _, id := range ids {
		if id != nil && IsTemporary(*id) {
			return ErrPendingReference
		}
	}
	return nil
}

func hasGroup(p dto.ProjectDTO, groupID string) bool {
	for _, g := range p.TaskGroups {
		if g.ID == groupID {
			return true
		}
	}
	return false
}
