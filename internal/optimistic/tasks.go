package optimistic

import (
	"context"
	"fmt"
	"strings"

	"github.com/yukikurage/project-board/internal/dto"
	"github.com/yukikurage/project-board/internal/models"
	"github.com/yukikurage/project-board/internal/tasktree"
)

// UpdateTask applies a partial update. Moving the task to another parent or
// group is checked against the cycle and depth rules first, and a new group
// is applied to the whole subtree.
func (s *Syncer) UpdateTask(ctx context.Context, projectID, taskID string, req dto.UpdateTaskRequest) Result[dto.TaskDTO] {
	return Run(ctx, s, Mutation[dto.TaskDTO]{
		Name:      "update_task",
		ProjectID: projectID,
		Apply: func(p dto.ProjectDTO) (dto.ProjectDTO, error) {
			tasks, err := applyUpdate(p, taskID, req)
			if err != nil {
				return p, err
			}
			p.Tasks = tasks
			return p, nil
		},
		Send: func(ctx context.Context) (dto.TaskDTO, error) {
			return s.remote.UpdateTask(ctx, projectID, taskID, req)
		},
		Merge: func(p dto.ProjectDTO, server dto.TaskDTO) dto.ProjectDTO {
			p.Tasks = confirmTask(p.Tasks, server, req)
			return p
		},
	})
}

// ToggleStatus flips a task between COMPLETED and IN_PROGRESS (any status
// other than COMPLETED becomes COMPLETED).
func (s *Syncer) ToggleStatus(ctx context.Context, projectID, taskID string) Result[dto.TaskDTO] {
	var req dto.UpdateTaskRequest
	return Run(ctx, s, Mutation[dto.TaskDTO]{
		Name:      "toggle_status",
		ProjectID: projectID,
		Apply: func(p dto.ProjectDTO) (dto.ProjectDTO, error) {
			task, ok := tasktree.Find(p.Tasks, taskID)
			if !ok {
				return p, tasktree.ErrTaskNotFound
			}
			next := task.Status.Toggled()
			req = dto.UpdateTaskRequest{Status: &next}
			tasks, err := applyUpdate(p, taskID, req)
			if err != nil {
				return p, err
			}
			p.Tasks = tasks
			return p, nil
		},
		Send: func(ctx context.Context) (dto.TaskDTO, error) {
			return s.remote.UpdateTask(ctx, projectID, taskID, req)
		},
		Merge: func(p dto.ProjectDTO, server dto.TaskDTO) dto.ProjectDTO {
			p.Tasks = confirmTask(p.Tasks, server, req)
			return p
		},
	})
}

// MoveTask places taskID directly before (or after) targetID as its sibling,
// taking over the target's parent and group, and renumbers the sibling list.
// The server receives the parent/group change, when there is one, followed
// by one reorder batch. When only the reorder fails the project is reloaded.
func (s *Syncer) MoveTask(ctx context.Context, projectID, taskID, targetID string, after bool) Result[[]dto.ReorderItem] {
	var (
		items   []dto.ReorderItem
		update  dto.UpdateTaskRequest
		changed bool
	)
	return Run(ctx, s, Mutation[[]dto.ReorderItem]{
		Name:      "move_task",
		ProjectID: projectID,
		Apply: func(p dto.ProjectDTO) (dto.ProjectDTO, error) {
			if err := tasktree.CheckPlaceBeside(taskID, targetID, tasktree.NewLookup(p.Tasks)); err != nil {
				return p, err
			}
			if err := checkSaved(&taskID, &targetID); err != nil {
				return p, err
			}
			task, _ := tasktree.Find(p.Tasks, taskID)
			target, _ := tasktree.Find(p.Tasks, targetID)

			changed = !tasktree.SameID(task.ParentID, target.ParentID) ||
				!tasktree.SameID(task.TaskGroupID, target.TaskGroupID)
			update = relocation(target.ParentID, target.TaskGroupID)

			rest, removed := tasktree.FindAndRemove(p.Tasks, taskID)
			moved := *removed
			moved.ParentID = target.ParentID
			moved.TaskGroupID = target.TaskGroupID
			tasks, ok := tasktree.InsertBeside(rest, moved, targetID, after)
			if !ok {
				return p, tasktree.ErrStaleReference
			}
			tasks, _ = tasktree.UpdateSubtree(tasks, taskID, tasktree.WithGroup(target.TaskGroupID))

			siblings, _ := tasktree.SiblingsOf(tasks, taskID)
			tasks, reordered, err := tasktree.ApplyOrder(tasks, taskIDs(siblings))
			if err != nil {
				return p, err
			}
			items = reordered
			p.Tasks = tasks
			return p, nil
		},
		Send: func(ctx context.Context) ([]dto.ReorderItem, error) {
			if changed {
				if _, err := s.remote.UpdateTask(ctx, projectID, taskID, update); err != nil {
					return nil, err
				}
			}
			if err := s.remote.ReorderTasks(ctx, projectID, items); err != nil {
				if changed {
					return nil, fmt.Errorf("%w: %w", errDiverged, err)
				}
				return nil, err
			}
			return items, nil
		},
	})
}

// ReorderTasks puts the sibling tasks ids into the given order and numbers
// them 0..n-1 in a single batch write.
func (s *Syncer) ReorderTasks(ctx context.Context, projectID string, ids []string) Result[[]dto.ReorderItem] {
	var items []dto.ReorderItem
	return Run(ctx, s, Mutation[[]dto.ReorderItem]{
		Name:      "reorder_tasks",
		ProjectID: projectID,
		Apply: func(p dto.ProjectDTO) (dto.ProjectDTO, error) {
			for i := range ids {
				if err := checkSaved(&ids[i]); err != nil {
					return p, err
				}
			}
			tasks, reordered, err := tasktree.ApplyOrder(p.Tasks, ids)
			if err != nil {
				return p, err
			}
			items = reordered
			p.Tasks = tasks
			return p, nil
		},
		Send: func(ctx context.Context) ([]dto.ReorderItem, error) {
			if len(items) == 0 {
				return items, nil
			}
			return items, s.remote.ReorderTasks(ctx, projectID, items)
		},
	})
}

// CreateTask appends a task under its parent (or to the top level) with a
// temporary id, which is replaced by the server's id once the create is
// confirmed. A subtask without a group inherits the parent's group.
func (s *Syncer) CreateTask(ctx context.Context, projectID string, req dto.CreateTaskRequest) Result[dto.TaskDTO] {
	tempID := s.newID()
	return Run(ctx, s, Mutation[dto.TaskDTO]{
		Name:      "create_task",
		ProjectID: projectID,
		Apply: func(p dto.ProjectDTO) (dto.ProjectDTO, error) {
			if strings.TrimSpace(req.Title) == "" {
				return p, ErrEmptyTitle
			}
			if err := checkSaved(req.ParentID, req.TaskGroupID); err != nil {
				return p, err
			}

			group := req.TaskGroupID
			order := 0
			if req.ParentID != nil {
				parent, ok := tasktree.Find(p.Tasks, *req.ParentID)
				if !ok {
					return p, tasktree.ErrStaleReference
				}
				if tasktree.DepthOf(parent.ID, tasktree.NewLookup(p.Tasks))+1 > tasktree.MaxDepth {
					return p, tasktree.ErrDepthExceeded
				}
				if group == nil {
					group = parent.TaskGroupID
				}
				order = len(parent.Children)
			}
			if group != nil && !hasGroup(p, *group) {
				return p, tasktree.ErrStaleReference
			}
			if req.ParentID == nil {
				for _, t := range p.Tasks {
					if tasktree.SameID(t.TaskGroupID, group) {
						order++
					}
				}
			}

			task := dto.TaskDTO{
				ID:          tempID,
				Title:       req.Title,
				Description: req.Description,
				Status:      models.TaskStatusPending,
				Priority:    req.Priority,
				StartDate:   req.StartDate,
				EndDate:     req.EndDate,
				TaskGroupID: group,
				OrderIndex:  &order,
				ParentID:    req.ParentID,
			}
			if req.Status != nil {
				task.Status = *req.Status
			}
			if req.AssigneeID != nil {
				task.Assignee = &dto.AssigneeDTO{ID: *req.AssigneeID}
			}

			tasks, ok := tasktree.InsertUnderParent(p.Tasks, task, req.ParentID)
			if !ok {
				return p, tasktree.ErrStaleReference
			}
			p.Tasks = tasks
			return p, nil
		},
		Send: func(ctx context.Context) (dto.TaskDTO, error) {
			return s.remote.CreateTask(ctx, projectID, req)
		},
		Merge: func(p dto.ProjectDTO, server dto.TaskDTO) dto.ProjectDTO {
			p.Tasks = replaceTemporary(p.Tasks, tempID, server)
			return p
		},
	})
}

// DeleteTask removes a task and its subtree.
func (s *Syncer) DeleteTask(ctx context.Context, projectID, taskID string) Result[struct{}] {
	return Run(ctx, s, Mutation[struct{}]{
		Name:      "delete_task",
		ProjectID: projectID,
		Apply: func(p dto.ProjectDTO) (dto.ProjectDTO, error) {
			if err := checkSaved(&taskID); err != nil {
				return p, err
			}
			tasks, ok := tasktree.Remove(p.Tasks, taskID)
			if !ok {
				return p, tasktree.ErrTaskNotFound
			}
			p.Tasks = tasks
			return p, nil
		},
		Send: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.remote.DeleteTask(ctx, projectID, taskID)
		},
	})
}

// applyUpdate computes the tree after req is applied to taskID.
func applyUpdate(p dto.ProjectDTO, taskID string, req dto.UpdateTaskRequest) ([]dto.TaskDTO, error) {
	current, ok := tasktree.Find(p.Tasks, taskID)
	if !ok {
		return nil, tasktree.ErrTaskNotFound
	}
	if err := checkSaved(&taskID); err != nil {
		return nil, err
	}

	if req.ChangesGroup() {
		if g := req.NewTaskGroupID(); g != nil && !hasGroup(p, *g) {
			return nil, tasktree.ErrStaleReference
		}
	}
	moving := req.ChangesParent() && !tasktree.SameID(req.NewParentID(), current.ParentID)
	if moving {
		if err := checkSaved(req.NewParentID()); err != nil {
			return nil, err
		}
		if err := tasktree.CheckReparent(taskID, req.NewParentID(), tasktree.NewLookup(p.Tasks)); err != nil {
			return nil, err
		}
	}

	updated := req.ApplyTo(current)
	regroup := req.ChangesGroup()
	if updated.ParentID != nil {
		parent, ok := tasktree.Find(p.Tasks, *updated.ParentID)
		if !ok {
			return nil, tasktree.ErrStaleReference
		}
		if req.ChangesGroup() && !moving && !tasktree.SameID(req.NewTaskGroupID(), parent.TaskGroupID) {
			return nil, ErrSubtaskGroup
		}
		regroup = regroup || !tasktree.SameID(current.TaskGroupID, parent.TaskGroupID)
		updated.TaskGroupID = parent.TaskGroupID
	}

	tasks := p.Tasks
	if moving {
		rest, _ := tasktree.FindAndRemove(tasks, taskID)
		var inserted bool
		if tasks, inserted = tasktree.InsertUnderParent(rest, updated, req.NewParentID()); !inserted {
			return nil, tasktree.ErrStaleReference
		}
	} else {
		tasks, _ = tasktree.Update(tasks, taskID, func(dto.TaskDTO) dto.TaskDTO { return updated })
	}

	if regroup {
		tasks, _ = tasktree.UpdateSubtree(tasks, taskID, tasktree.WithGroup(updated.TaskGroupID))
	}
	if moving {
		siblings, _ := tasktree.SiblingsOf(tasks, taskID)
		last := len(siblings) - 1
		tasks, _ = tasktree.Update(tasks, taskID, func(t dto.TaskDTO) dto.TaskDTO {
			t.OrderIndex = &last
			return t
		})
	}
	return tasks, nil
}

// confirmTask copies from the server's record the fields req touched, leaving
// the rest of the local record alone so edits made while the request was in
// flight survive. A parent the server reports differently moves the task.
func confirmTask(tasks []dto.TaskDTO, server dto.TaskDTO, req dto.UpdateTaskRequest) []dto.TaskDTO {
	local, ok := tasktree.Find(tasks, server.ID)
	if !ok {
		return tasks
	}

	merged := local
	if req.Title != nil {
		merged.Title = server.Title
	}
	if req.Status != nil {
		merged.Status = server.Status
	}
	if req.Description != nil || req.ClearDescription {
		merged.Description = server.Description
	}
	if req.Priority != nil || req.ClearPriority {
		merged.Priority = server.Priority
	}
	if req.StartDate != nil || req.ClearStartDate {
		merged.StartDate = server.StartDate
	}
	if req.EndDate != nil || req.ClearEndDate {
		merged.EndDate = server.EndDate
	}
	if req.AssigneeID != nil || req.ClearAssignee {
		merged.Assignee = server.Assignee
	}
	regroup := false
	if req.ChangesGroup() || req.ChangesParent() {
		regroup = !tasktree.SameID(local.TaskGroupID, server.TaskGroupID)
		merged.TaskGroupID = server.TaskGroupID
	}

	out := tasks
	if !req.ChangesParent() || tasktree.SameID(local.ParentID, server.ParentID) {
		out, _ = tasktree.Update(out, server.ID, func(dto.TaskDTO) dto.TaskDTO { return merged })
	} else {
		merged.ParentID = server.ParentID
		merged.OrderIndex = server.OrderIndex
		rest, _ := tasktree.FindAndRemove(out, server.ID)
		var ok bool
		if out, ok = tasktree.InsertUnderParent(rest, merged, server.ParentID); !ok {
			out, _ = tasktree.Update(tasks, server.ID, func(dto.TaskDTO) dto.TaskDTO { return merged })
		}
	}
	if regroup {
		out, _ = tasktree.UpdateSubtree(out, server.ID, tasktree.WithGroup(server.TaskGroupID))
	}
	return out
}

// replaceTemporary swaps the optimistic record tempID for the server's and
// points any children at the new id.
func replaceTemporary(tasks []dto.TaskDTO, tempID string, server dto.TaskDTO) []dto.TaskDTO {
	out, ok := tasktree.Update(tasks, tempID, func(local dto.TaskDTO) dto.TaskDTO {
		server.Children = local.Children
		return server
	})
	if !ok {
		return tasks
	}
	return tasktree.UpdateWhere(out,
		func(t dto.TaskDTO) bool { return t.ParentID != nil && *t.ParentID == tempID },
		func(t dto.TaskDTO) dto.TaskDTO {
			id := server.ID
			t.ParentID = &id
			return t
		},
	)
}

// relocation is the partial update that moves a task under parentID in
// groupID, with nil meaning top level and ungrouped.
func relocation(parentID, groupID *string) dto.UpdateTaskRequest {
	req := dto.UpdateTaskRequest{ParentID: parentID, TaskGroupID: groupID}
	req.ClearParent = parentID == nil
	req.ClearTaskGroup = groupID == nil
	return req
}

func taskIDs(tasks []dto.TaskDTO) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}
