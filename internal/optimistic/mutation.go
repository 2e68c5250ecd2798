// Package optimistic applies board mutations to a local project snapshot
// before the server confirms them, and rolls the snapshot back when it does
// not.
//
// Every mutation runs the same three phases: Apply computes the new snapshot
// and commits it to the cache, Send performs the remote write, and Merge folds
// the server's answer into whatever the cache holds by then. A failed Send
// restores the snapshot captured just before Apply, unless some of its writes
// already landed, in which case the project is reloaded from the server.
package optimistic

import (
	"context"
	"errors"

	"github.com/yukikurage/project-board/internal/dto"
	"github.com/yukikurage/project-board/internal/tasktree"
)

// ErrNotLoaded is returned when a mutation targets a project the cache has
// never seen and loading it failed to produce one.
var ErrNotLoaded = errors.New("project is not loaded")

// errDiverged marks a Send error returned after part of the write reached the
// server, so the captured snapshot no longer matches it.
var errDiverged = errors.New("remote write partially applied")

// Mutation describes one optimistic write. Merge may be nil when the server's
// answer adds nothing to the optimistic snapshot.
type Mutation[T any] struct {
	Name      string
	ProjectID string
	Apply     func(dto.ProjectDTO) (dto.ProjectDTO, error)
	Send      func(ctx context.Context) (T, error)
	Merge     func(dto.ProjectDTO, T) dto.ProjectDTO
}

// Result is the outcome of a mutation: the server's value on success, or the
// error together with the snapshot taken before Apply. Previous is nil when
// nothing was applied, as for a rejected mutation.
type Result[T any] struct {
	Value    T
	Err      error
	Previous *dto.ProjectDTO
}

// OK reports whether the mutation was confirmed by the server.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Rejected reports whether the mutation was refused locally and never sent.
func (r Result[T]) Rejected() bool {
	return errors.Is(r.Err, tasktree.ErrRejected)
}

// Run executes m against s's cache. It loads the project first when it is not
// cached yet.
func Run[T any](ctx context.Context, s *Syncer, m Mutation[T]) Result[T] {
	if err := s.ensure(ctx, m.ProjectID); err != nil {
		return Result[T]{Err: err}
	}

	previous, err := s.cache.Patch(m.ProjectID, func(p dto.ProjectDTO) (dto.ProjectDTO, error) {
		next, err := m.Apply(p)
		if err != nil {
			return p, err
		}
		next.Progress = tasktree.Progress(next.Tasks)
		return next, nil
	})
	if err != nil {
		if errors.Is(err, tasktree.ErrRejected) {
			s.logger.Warn("mutation rejected",
				"mutation", m.Name,
				"project_id", m.ProjectID,
				"reason", err.Error(),
			)
		}
		return Result[T]{Err: err}
	}

	value, err := m.Send(ctx)
	if errors.Is(err, errDiverged) {
		s.cache.Invalidate(m.ProjectID)
		if _, rerr := s.Refresh(ctx, m.ProjectID); rerr != nil {
			s.logger.Warn("failed to reload project after partial write",
				"mutation", m.Name,
				"project_id", m.ProjectID,
				"error", rerr,
			)
		}
		s.logger.Warn("remote write partially applied, project reloaded",
			"mutation", m.Name,
			"project_id", m.ProjectID,
			"error", err,
		)
		return Result[T]{Err: err, Previous: &previous}
	}
	if err != nil {
		s.cache.Restore(previous)
		s.logger.Warn("remote write failed, snapshot restored",
			"mutation", m.Name,
			"project_id", m.ProjectID,
			"error", err,
		)
		return Result[T]{Err: err, Previous: &previous}
	}

	if m.Merge != nil {
		_, _ = s.cache.Patch(m.ProjectID, func(p dto.ProjectDTO) (dto.ProjectDTO, error) {
			next := m.Merge(p, value)
			next.Progress = tasktree.Progress(next.Tasks)
			return next, nil
		})
	}
	return Result[T]{Value: value}
}
