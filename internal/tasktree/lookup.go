package tasktree

import (
	"github.com/yukikurage/project-board/internal/constants"
	"github.com/yukikurage/project-board/internal/dto"
)

// MaxDepth is the deepest nesting level allowed (a root sits at depth 0).
const MaxDepth = constants.MaxTaskDepth

// Lookup indexes tasks by id through their ParentID fields. It is the single
// source the depth and cycle predicates read from.
type Lookup struct {
	parent   map[string]*string
	children map[string][]string
}

// NewLookup indexes tasks, which may be flat or nested.
func NewLookup(tasks []dto.TaskDTO) Lookup {
	l := Lookup{
		parent:   make(map[string]*string),
		children: make(map[string][]string),
	}
	var walk func([]dto.TaskDTO)
	walk = func(list []dto.TaskDTO) {
		for _, t := range list {
			l.parent[t.ID] = t.ParentID
			if t.ParentID != nil {
				l.children[*t.ParentID] = append(l.children[*t.ParentID], t.ID)
			}
			walk(t.Children)
		}
	}
	walk(tasks)
	return l
}

// Has reports whether id is indexed.
func (l Lookup) Has(id string) bool {
	_, ok := l.parent[id]
	return ok
}

// Len returns the number of indexed tasks.
func (l Lookup) Len() int {
	return len(l.parent)
}

// DepthOf counts parent hops from taskID up to a task without a parent.
// Unknown ids have depth 0. A hop to a parent that is not indexed still counts.
func DepthOf(taskID string, l Lookup) int {
	depth := 0
	current := taskID
	for hops := 0; hops <= l.Len(); hops++ {
		parentID, ok := l.parent[current]
		if !ok || parentID == nil {
			return depth
		}
		depth++
		current = *parentID
	}
	// Corrupted data with a parent cycle; every task on it is too deep.
	return MaxDepth + 1
}

// IsDescendant reports whether nodeID sits anywhere below candidateAncestorID.
// A task is not its own descendant.
func IsDescendant(candidateAncestorID, nodeID string, l Lookup) bool {
	current := nodeID
	for hops := 0; hops <= l.Len(); hops++ {
		parentID, ok := l.parent[current]
		if !ok || parentID == nil {
			return false
		}
		if *parentID == candidateAncestorID {
			return true
		}
		current = *parentID
	}
	return false
}

// SubtreeHeight is the number of levels below taskID (0 for a leaf).
func SubtreeHeight(taskID string, l Lookup) int {
	var height func(id string, budget int) int
	height = func(id string, budget int) int {
		if budget == 0 {
			return 0
		}
		best := 0
		for _, child := range l.children[id] {
			if h := 1 + height(child, budget-1); h > best {
				best = h
			}
		}
		return best
	}
	return height(taskID, l.Len())
}

// CheckNest validates making taskID a child of parentID.
func CheckNest(taskID, parentID string, l Lookup) error {
	switch {
	case taskID == parentID:
		return ErrSelfDrop
	case !l.Has(taskID):
		return ErrTaskNotFound
	case !l.Has(parentID):
		return ErrStaleReference
	case IsDescendant(taskID, parentID, l):
		return ErrCycle
	case DepthOf(parentID, l)+1+SubtreeHeight(taskID, l) > MaxDepth:
		return ErrDepthExceeded
	}
	return nil
}

// CheckPlaceBeside validates making taskID a sibling of targetID.
func CheckPlaceBeside(taskID, targetID string, l Lookup) error {
	switch {
	case taskID == targetID:
		return ErrSelfDrop
	case !l.Has(taskID), !l.Has(targetID):
		return ErrTaskNotFound
	case IsDescendant(taskID, targetID, l):
		return ErrCycle
	case DepthOf(targetID, l)+SubtreeHeight(taskID, l) > MaxDepth:
		return ErrDepthExceeded
	}
	return nil
}

// CheckReparent validates moving taskID under newParentID (nil = top level).
func CheckReparent(taskID string, newParentID *string, l Lookup) error {
	if newParentID == nil {
		if !l.Has(taskID) {
			return ErrTaskNotFound
		}
		return nil
	}
	return CheckNest(taskID, *newParentID, l)
}
