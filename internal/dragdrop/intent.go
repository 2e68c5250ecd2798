package dragdrop

import (
	"fmt"

	"github.com/yukikurage/project-board/internal/dto"
	"github.com/yukikurage/project-board/internal/tasktree"
)

// TargetKind tells what the cursor is over.
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetTask
	TargetGroup
)

// Target is the element under the cursor. GroupID nil on a group target means
// the ungrouped bucket.
type Target struct {
	Kind    TargetKind
	TaskID  string
	GroupID *string
}

// OverTask targets a task row.
func OverTask(taskID string) Target {
	return Target{Kind: TargetTask, TaskID: taskID}
}

// OverGroup targets a group header or body.
func OverGroup(groupID *string) Target {
	return Target{Kind: TargetGroup, GroupID: groupID}
}

// IntentKind is the mutation a drop asks for.
type IntentKind int

const (
	IntentNone IntentKind = iota
	IntentNest
	IntentPlaceBefore
	IntentPlaceAfter
	IntentRegroup
)

func (k IntentKind) String() string {
	switch k {
	case IntentNest:
		return "nest"
	case IntentPlaceBefore:
		return "place_before"
	case IntentPlaceAfter:
		return "place_after"
	case IntentRegroup:
		return "regroup"
	default:
		return "none"
	}
}

// Intent is a resolved drop. ParentID and GroupID are where the task ends up.
type Intent struct {
	Kind     IntentKind
	TaskID   string
	TargetID string
	ParentID *string
	GroupID  *string
}

// Resolve decides what dropping draggedID at (over, pos) means for tasks,
// which may be nested or flat. A drop with nothing to do yields IntentNone
// and no error; a drop that would break the tree yields an error wrapping
// tasktree.ErrRejected.
func Resolve(tasks []dto.TaskDTO, draggedID string, over Target, pos Position) (Intent, error) {
	none := Intent{Kind: IntentNone, TaskID: draggedID}
	if over.Kind == TargetNone {
		return none, nil
	}

	lookup := tasktree.NewLookup(tasks)
	dragged, ok := tasktree.Find(tasks, draggedID)
	if !ok {
		return none, tasktree.ErrTaskNotFound
	}

	if over.Kind == TargetGroup {
		if tasktree.SameID(dragged.TaskGroupID, over.GroupID) && dragged.ParentID == nil {
			return none, nil
		}
		return Intent{Kind: IntentRegroup, TaskID: draggedID, GroupID: over.GroupID}, nil
	}

	if over.TaskID == draggedID {
		return none, tasktree.ErrSelfDrop
	}
	target, ok := tasktree.Find(tasks, over.TaskID)
	if !ok {
		return none, tasktree.ErrStaleReference
	}

	switch pos {
	case PositionTop, PositionBottom:
		if err := tasktree.CheckPlaceBeside(draggedID, target.ID, lookup); err != nil {
			return none, err
		}
		kind := IntentPlaceBefore
		if pos == PositionBottom {
			kind = IntentPlaceAfter
		}
		return Intent{
			Kind:     kind,
			TaskID:   draggedID,
			TargetID: target.ID,
			ParentID: target.ParentID,
			GroupID:  target.TaskGroupID,
		}, nil
	case PositionCenter, PositionNone:
		if err := tasktree.CheckNest(draggedID, target.ID, lookup); err != nil {
			return none, err
		}
		parentID := target.ID
		return Intent{
			Kind:     IntentNest,
			TaskID:   draggedID,
			TargetID: target.ID,
			ParentID: &parentID,
			GroupID:  target.TaskGroupID,
		}, nil
	default:
		return none, fmt.Errorf("unknown drop position %q", pos)
	}
}
