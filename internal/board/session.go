// Package board runs drag gestures on one project's task board: it feeds
// pointer events to a dragdrop.Resolver and applies the resolved intent
// through the optimistic Syncer.
package board

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/yukikurage/project-board/internal/dragdrop"
	"github.com/yukikurage/project-board/internal/dto"
	"github.com/yukikurage/project-board/internal/logging"
	"github.com/yukikurage/project-board/internal/optimistic"
	"github.com/yukikurage/project-board/internal/tasktree"
)

// Highlight is the transient state a board view renders while dragging.
type Highlight struct {
	ActiveTaskID string
	Over         dragdrop.Target
	Position     dragdrop.Position
}

// Session is safe for concurrent use. Only one gesture is tracked at a time.
type Session struct {
	mu        sync.Mutex
	projectID string
	resolver  *dragdrop.Resolver
	syncer    *optimistic.Syncer
	logger    *slog.Logger
}

func NewSession(projectID string, syncer *optimistic.Syncer, logger *slog.Logger) *Session {
	return &Session{
		projectID: projectID,
		resolver:  dragdrop.NewResolver(),
		syncer:    syncer,
		logger:    logging.OrDiscard(logger),
	}
}

// PickUp starts dragging taskID.
func (s *Session) PickUp(taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolver.PickUp(taskID)
}

// HoverTask reports the cursor over a task row whose bounds are rect.
func (s *Session) HoverTask(targetID string, cursorY float64, rect dragdrop.Rect) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolver.HoverTask(targetID, cursorY, rect)
}

// HoverTaskAt reports the cursor over a task with an already known zone.
func (s *Session) HoverTaskAt(targetID string, pos dragdrop.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolver.Hover(dragdrop.OverTask(targetID), pos)
}

// HoverGroup reports the cursor over a group; nil is the ungrouped bucket.
func (s *Session) HoverGroup(groupID *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolver.HoverGroup(groupID)
}

// Leave reports the cursor outside every drop target.
func (s *Session) Leave() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolver.Leave()
}

// Cancel abandons the gesture.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolver.Cancel()
}

// Highlight returns what the board should show for the current gesture.
func (s *Session) Highlight() Highlight {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Highlight{
		ActiveTaskID: s.resolver.Active(),
		Over:         s.resolver.Over(),
		Position:     s.resolver.Position(),
	}
}

// Release drops the dragged task. It returns the intent that was applied. A
// drop the tree rules refuse is logged and yields IntentNone with a nil
// error; a failed remote write is returned after the snapshot was rolled
// back.
func (s *Session) Release(ctx context.Context) (dragdrop.Intent, error) {
	project, err := s.syncer.Load(ctx, s.projectID)
	if err != nil {
		s.Cancel()
		return dragdrop.Intent{}, err
	}

	s.mu.Lock()
	over := s.resolver.Over()
	intent, err := s.resolver.Drop(project.Tasks)
	s.mu.Unlock()

	if err != nil {
		if errors.Is(err, tasktree.ErrRejected) {
			s.logger.Warn("drop rejected",
				"task_id", intent.TaskID,
				"target_id", targetID(over),
				"reason", err.Error(),
			)
			return dragdrop.Intent{Kind: dragdrop.IntentNone, TaskID: intent.TaskID}, nil
		}
		return intent, err
	}

	return intent, s.apply(ctx, intent)
}

func (s *Session) apply(ctx context.Context, intent dragdrop.Intent) error {
	var err error
	switch intent.Kind {
	case dragdrop.IntentNone:
		return nil
	case dragdrop.IntentNest:
		err = s.syncer.UpdateTask(ctx, s.projectID, intent.TaskID, dto.UpdateTaskRequest{
			ParentID:       intent.ParentID,
			TaskGroupID:    intent.GroupID,
			ClearTaskGroup: intent.GroupID == nil,
		}).Err
	case dragdrop.IntentPlaceBefore, dragdrop.IntentPlaceAfter:
		after := intent.Kind == dragdrop.IntentPlaceAfter
		err = s.syncer.MoveTask(ctx, s.projectID, intent.TaskID, intent.TargetID, after).Err
	case dragdrop.IntentRegroup:
		err = s.syncer.UpdateTask(ctx, s.projectID, intent.TaskID, dto.UpdateTaskRequest{
			TaskGroupID:    intent.GroupID,
			ClearTaskGroup: intent.GroupID == nil,
			ClearParent:    true,
		}).Err
	}

	// The syncer logs its own rejections; the snapshot may have moved on since
	// the intent was resolved.
	if errors.Is(err, tasktree.ErrRejected) {
		return nil
	}
	return err
}

func targetID(t dragdrop.Target) string {
	switch t.Kind {
	case dragdrop.TargetTask:
		return t.TaskID
	case dragdrop.TargetGroup:
		if t.GroupID == nil {
			return "ungrouped"
		}
		return *t.GroupID
	}
	return ""
}
