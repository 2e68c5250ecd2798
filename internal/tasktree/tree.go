// Package tasktree holds the task forest and the pure edits the board applies
// to it.
//
// Every edit copies only the path from the root to the changed node and shares
// everything else with its input, so an earlier []dto.TaskDTO stays valid as a
// snapshot. Nothing here writes into a slice it did not allocate.
package tasktree

import (
	"github.com/yukikurage/project-board/internal/dto"
)

// Find returns the task with id anywhere in the tree.
func Find(tasks []dto.TaskDTO, id string) (dto.TaskDTO, bool) {
	for _, task := range tasks {
		if task.ID == id {
			return task, true
		}
		if found, ok := Find(task.Children, id); ok {
			return found, true
		}
	}
	return dto.TaskDTO{}, false
}

// FindAndRemove detaches the task with targetID, together with its children.
// When the task does not exist the input is returned and removed is nil.
func FindAndRemove(tasks []dto.TaskDTO, targetID string) (result []dto.TaskDTO, removed *dto.TaskDTO) {
	for i, task := range tasks {
		if task.ID == targetID {
			found := task
			out := make([]dto.TaskDTO, 0, len(tasks)-1)
			out = append(out, tasks[:i]...)
			out = append(out, tasks[i+1:]...)
			return out, &found
		}

		if !task.HasChildren() {
			continue
		}
		children, found := FindAndRemove(task.Children, targetID)
		if found == nil {
			continue
		}
		if len(children) == 0 {
			children = nil
		}
		return replaceAt(tasks, i, withChildren(task, children)), found
	}
	return tasks, nil
}

// InsertUnderParent appends task as the last child of parentID, or to the top
// level when parentID is nil. It reports false, leaving tasks untouched, when
// the parent cannot be found.
func InsertUnderParent(tasks []dto.TaskDTO, task dto.TaskDTO, parentID *string) ([]dto.TaskDTO, bool) {
	if parentID == nil {
		return appendCopy(tasks, task), true
	}

	for i, t := range tasks {
		if t.ID == *parentID {
			return replaceAt(tasks, i, withChildren(t, appendCopy(t.Children, task))), true
		}
		if !t.HasChildren() {
			continue
		}
		if children, ok := InsertUnderParent(t.Children, task, parentID); ok {
			return replaceAt(tasks, i, withChildren(t, children)), true
		}
	}
	return tasks, false
}

// InsertBeside places task directly before (or after) targetID inside the
// target's own sibling list.
func InsertBeside(tasks []dto.TaskDTO, task dto.TaskDTO, targetID string, after bool) ([]dto.TaskDTO, bool) {
	for i, t := range tasks {
		if t.ID == targetID {
			at := i
			if after {
				at = i + 1
			}
			out := make([]dto.TaskDTO, 0, len(tasks)+1)
			out = append(out, tasks[:at]...)
			out = append(out, task)
			out = append(out, tasks[at:]...)
			return out, true
		}
		if !t.HasChildren() {
			continue
		}
		if children, ok := InsertBeside(t.Children, task, targetID, after); ok {
			return replaceAt(tasks, i, withChildren(t, children)), true
		}
	}
	return tasks, false
}

// Update replaces the task with id by fn(task). Children returned by fn are kept
// as they are.
func Update(tasks []dto.TaskDTO, id string, fn func(dto.TaskDTO) dto.TaskDTO) ([]dto.TaskDTO, bool) {
	for i, t := range tasks {
		if t.ID == id {
			return replaceAt(tasks, i, fn(t)), true
		}
		if !t.HasChildren() {
			continue
		}
		if children, ok := Update(t.Children, id, fn); ok {
			return replaceAt(tasks, i, withChildren(t, children)), true
		}
	}
	return tasks, false
}

// UpdateSubtree applies fn to the task with id and to every descendant.
func UpdateSubtree(tasks []dto.TaskDTO, id string, fn func(dto.TaskDTO) dto.TaskDTO) ([]dto.TaskDTO, bool) {
	return Update(tasks, id, func(t dto.TaskDTO) dto.TaskDTO {
		return mapAll(t, fn)
	})
}

// UpdateWhere applies fn to every task matching match.
func UpdateWhere(tasks []dto.TaskDTO, match func(dto.TaskDTO) bool, fn func(dto.TaskDTO) dto.TaskDTO) []dto.TaskDTO {
	out := make([]dto.TaskDTO, len(tasks))
	for i, t := range tasks {
		if t.HasChildren() {
			t = withChildren(t, UpdateWhere(t.Children, match, fn))
		}
		if match(t) {
			t = fn(t)
		}
		out[i] = t
	}
	return out
}

// Remove deletes the task with id and its whole subtree.
func Remove(tasks []dto.TaskDTO, id string) ([]dto.TaskDTO, bool) {
	out, removed := FindAndRemove(tasks, id)
	return out, removed != nil
}

// ReorderSiblings returns a copy of siblings whose OrderIndex values are
// 0..n-1 in slice order.
func ReorderSiblings(siblings []dto.TaskDTO) []dto.TaskDTO {
	out := make([]dto.TaskDTO, len(siblings))
	for i, t := range siblings {
		index := i
		t.OrderIndex = &index
		out[i] = t
	}
	return out
}

// ReorderItems lists the id/orderIndex pairs the server persists for siblings.
func ReorderItems(siblings []dto.TaskDTO) []dto.ReorderItem {
	items := make([]dto.ReorderItem, len(siblings))
	for i, t := range siblings {
		items[i] = dto.ReorderItem{ID: t.ID, OrderIndex: i}
	}
	return items
}

// SiblingsOf returns the list that taskID sits in: its parent's children, or
// the top-level tasks sharing its group.
func SiblingsOf(tasks []dto.TaskDTO, taskID string) ([]dto.TaskDTO, bool) {
	task, ok := Find(tasks, taskID)
	if !ok {
		return nil, false
	}
	if task.ParentID != nil {
		if parent, ok := Find(tasks, *task.ParentID); ok {
			return parent.Children, true
		}
	}

	var roots []dto.TaskDTO
	for _, t := range tasks {
		if sameID(t.TaskGroupID, task.TaskGroupID) {
			roots = append(roots, t)
		}
	}
	return roots, true
}

// ApplyOrder puts the sibling tasks named by ids into that order, reusing the
// slots they occupy, and numbers them 0..n-1. All ids must share one parent,
// and top-level ids one group.
func ApplyOrder(tasks []dto.TaskDTO, ids []string) ([]dto.TaskDTO, []dto.ReorderItem, error) {
	if len(ids) == 0 {
		return tasks, nil, nil
	}

	first, ok := Find(tasks, ids[0])
	if !ok {
		return tasks, nil, ErrTaskNotFound
	}
	position := make(map[string]int, len(ids))
	for i, id := range ids {
		t, ok := Find(tasks, id)
		if !ok {
			return tasks, nil, ErrTaskNotFound
		}
		if _, dup := position[id]; dup || !sameID(t.ParentID, first.ParentID) {
			return tasks, nil, ErrStaleReference
		}
		if first.ParentID == nil && !sameID(t.TaskGroupID, first.TaskGroupID) {
			return tasks, nil, ErrStaleReference
		}
		position[id] = i
	}

	items := make([]dto.ReorderItem, len(ids))
	for i, id := range ids {
		items[i] = dto.ReorderItem{ID: id, OrderIndex: i}
	}

	if first.ParentID != nil {
		if parent, ok := Find(tasks, *first.ParentID); ok {
			children, ok := reorderList(parent.Children, ids, position)
			if !ok {
				return tasks, nil, ErrStaleReference
			}
			out, _ := Update(tasks, parent.ID, func(p dto.TaskDTO) dto.TaskDTO {
				return withChildren(p, children)
			})
			return out, items, nil
		}
	}

	out, ok := reorderList(tasks, ids, position)
	if !ok {
		return tasks, nil, ErrStaleReference
	}
	return out, items, nil
}

// reorderList fills the slots held by the listed tasks with ids in order and
// numbers them. It fails when some id is not in list.
func reorderList(list []dto.TaskDTO, ids []string, position map[string]int) ([]dto.TaskDTO, bool) {
	byID := make(map[string]dto.TaskDTO, len(ids))
	slots := make([]int, 0, len(ids))
	for i, t := range list {
		if _, ok := position[t.ID]; ok {
			byID[t.ID] = t
			slots = append(slots, i)
		}
	}
	if len(slots) != len(ids) {
		return list, false
	}

	out := make([]dto.TaskDTO, len(list))
	copy(out, list)
	for k, slot := range slots {
		t := byID[ids[k]]
		index := k
		t.OrderIndex = &index
		out[slot] = t
	}
	return out, true
}

func withChildren(t dto.TaskDTO, children []dto.TaskDTO) dto.TaskDTO {
	t.Children = children
	return t
}

func mapAll(t dto.TaskDTO, fn func(dto.TaskDTO) dto.TaskDTO) dto.TaskDTO {
	t = fn(t)
	if t.HasChildren() {
		children := make([]dto.TaskDTO, len(t.Children))
		for i, c := range t.Children {
			children[i] = mapAll(c, fn)
		}
		t.Children = children
	}
	return t
}

func replaceAt(tasks []dto.TaskDTO, i int, t dto.TaskDTO) []dto.TaskDTO {
	out := make([]dto.TaskDTO, len(tasks))
	copy(out, tasks)
	out[i] = t
	return out
}

func appendCopy(tasks []dto.TaskDTO, t dto.TaskDTO) []dto.TaskDTO {
	out := make([]dto.TaskDTO, 0, len(tasks)+1)
	out = append(out, tasks...)
	return append(out, t)
}

func sameID(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// WithGroup returns an edit that moves a task to groupID (nil = ungrouped).
func WithGroup(groupID *string) func(dto.TaskDTO) dto.TaskDTO {
	return func(t dto.TaskDTO) dto.TaskDTO {
		t.TaskGroupID = groupID
		return t
	}
}

// SameID compares two optional references.
func SameID(a, b *string) bool {
	return sameID(a, b)
}
