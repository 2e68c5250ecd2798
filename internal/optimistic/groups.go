package optimistic

import (
	"context"
	"strings"

	"github.com/yukikurage/project-board/internal/dto"
	"github.com/yukikurage/project-board/internal/tasktree"
)

// CreateTaskGroup appends a visible group at the end with a temporary id.
func (s *Syncer) CreateTaskGroup(ctx context.Context, projectID string, req dto.CreateTaskGroupRequest) Result[dto.TaskGroupDTO] {
	tempID := s.newID()
	return Run(ctx, s, Mutation[dto.TaskGroupDTO]{
		Name:      "create_task_group",
		ProjectID: projectID,
		Apply: func(p dto.ProjectDTO) (dto.ProjectDTO, error) {
			if strings.TrimSpace(req.Name) == "" {
				return p, ErrEmptyName
			}
			groups := make([]dto.TaskGroupDTO, 0, len(p.TaskGroups)+1)
			groups = append(groups, p.TaskGroups...)
			p.TaskGroups = append(groups, dto.TaskGroupDTO{
				ID:          tempID,
				Name:        req.Name,
				Description: req.Description,
				Color:       req.Color,
				Icon:        req.Icon,
				OrderIndex:  len(p.TaskGroups),
				IsVisible:   true,
				ProjectID:   p.ID,
			})
			return p, nil
		},
		Send: func(ctx context.Context) (dto.TaskGroupDTO, error) {
			return s.remote.CreateTaskGroup(ctx, projectID, req)
		},
		Merge: func(p dto.ProjectDTO, server dto.TaskGroupDTO) dto.ProjectDTO {
			p.TaskGroups = replaceGroup(p.TaskGroups, tempID, server)
			return p
		},
	})
}

// UpdateTaskGroup applies a partial update to a group.
func (s *Syncer) UpdateTaskGroup(ctx context.Context, projectID, groupID string, req dto.UpdateTaskGroupRequest) Result[dto.TaskGroupDTO] {
	return Run(ctx, s, Mutation[dto.TaskGroupDTO]{
		Name:      "update_task_group",
		ProjectID: projectID,
		Apply: func(p dto.ProjectDTO) (dto.ProjectDTO, error) {
			if err := checkSaved(&groupID); err != nil {
				return p, err
			}
			if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
				return p, ErrEmptyName
			}
			i := groupIndex(p.TaskGroups, groupID)
			if i < 0 {
				return p, tasktree.ErrStaleReference
			}
			groups := make([]dto.TaskGroupDTO, len(p.TaskGroups))
			copy(groups, p.TaskGroups)
			groups[i] = req.ApplyTo(groups[i])
			p.TaskGroups = groups
			return p, nil
		},
		Send: func(ctx context.Context) (dto.TaskGroupDTO, error) {
			return s.remote.UpdateTaskGroup(ctx, projectID, groupID, req)
		},
		Merge: func(p dto.ProjectDTO, server dto.TaskGroupDTO) dto.ProjectDTO {
			p.TaskGroups = replaceGroup(p.TaskGroups, groupID, server)
			return p
		},
	})
}

// DeleteTaskGroup removes a group. Its tasks stay, ungrouped.
func (s *Syncer) DeleteTaskGroup(ctx context.Context, projectID, groupID string) Result[struct{}] {
	return Run(ctx, s, Mutation[struct{}]{
		Name:      "delete_task_group",
		ProjectID: projectID,
		Apply: func(p dto.ProjectDTO) (dto.ProjectDTO, error) {
			if err := checkSaved(&groupID); err != nil {
				return p, err
			}
			i := groupIndex(p.TaskGroups, groupID)
			if i < 0 {
				return p, tasktree.ErrStaleReference
			}
			groups := make([]dto.TaskGroupDTO, 0, len(p.TaskGroups)-1)
			groups = append(groups, p.TaskGroups[:i]...)
			p.TaskGroups = append(groups, p.TaskGroups[i+1:]...)
			p.Tasks = tasktree.UpdateWhere(p.Tasks,
				func(t dto.TaskDTO) bool { return t.TaskGroupID != nil && *t.TaskGroupID == groupID },
				tasktree.WithGroup(nil),
			)
			return p, nil
		},
		Send: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.remote.DeleteTaskGroup(ctx, projectID, groupID)
		},
	})
}

func groupIndex(groups []dto.TaskGroupDTO, id string) int {
	for i, g := range groups {
		if g.ID == id {
			return i
		}
	}
	return -1
}

func replaceGroup(groups []dto.TaskGroupDTO, id string, server dto.TaskGroupDTO) []dto.TaskGroupDTO {
	i := groupIndex(groups, id)
	if i < 0 {
		return groups
	}
	out := make([]dto.TaskGroupDTO, len(groups))
	copy(out, groups)
	out[i] = server
	return out
}
