package dto

import (
	"time"

	"github.com/yukikurage/project-board/internal/models"
)

// AssigneeDTO is the compact user shown on a task
type AssigneeDTO struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar"`
}

// TaskDTO is the task record exchanged with the board API. Children is only
// populated in tree views; the authoritative relation is ParentID.
type TaskDTO struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description *string              `json:"description"`
	Status      models.TaskStatus    `json:"status"`
	Priority    *models.TaskPriority `json:"priority"`
	StartDate   *time.Time           `json:"startDate"`
	EndDate     *time.Time           `json:"endDate"`
	TaskGroupID *string              `json:"taskGroupId"`
	OrderIndex  *int                 `json:"orderIndex,omitempty"`
	ParentID    *string              `json:"parentId"`
	Children    []TaskDTO            `json:"children,omitempty"`
	Assignee    *AssigneeDTO         `json:"assignee"`
}

// HasChildren reports whether the task carries nested children
func (t TaskDTO) HasChildren() bool {
	return len(t.Children) > 0
}

// TaskGroupDTO represents a task group in API responses
type TaskGroupDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Color       *string   `json:"color"`
	Icon        *string   `json:"icon"`
	OrderIndex  int       `json:"orderIndex"`
	IsVisible   bool      `json:"isVisible"`
	ProjectID   string    `json:"projectId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateTaskRequest is the body of a task create call
type CreateTaskRequest struct {
	Title       string               `json:"title" binding:"required"`
	Description *string              `json:"description,omitempty"`
	Status      *models.TaskStatus   `json:"status,omitempty"`
	Priority    *models.TaskPriority `json:"priority,omitempty"`
	StartDate   *time.Time           `json:"startDate,omitempty"`
	EndDate     *time.Time           `json:"endDate,omitempty"`
	TaskGroupID *string              `json:"taskGroupId,omitempty"`
	ParentID    *string              `json:"parentId,omitempty"`
	AssigneeID  *string              `json:"assigneeId,omitempty"`
}

// ReorderItem assigns a position to one task
type ReorderItem struct {
	ID         string `json:"id"`
	OrderIndex int    `json:"orderIndex"`
}

// ReorderRequest is sent as a single batch write
type ReorderRequest struct {
	Tasks []ReorderItem `json:"tasks" binding:"required"`
}

// CreateTaskGroupRequest is the body of a task group create call
type CreateTaskGroupRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
	Icon        *string `json:"icon,omitempty"`
}

// UpdateTaskGroupRequest is a partial task group update
type UpdateTaskGroupRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	OrderIndex  *int    `json:"orderIndex,omitempty"`
	IsVisible   *bool   `json:"isVisible,omitempty"`
}

// ApplyTo returns g with the request's fields applied
func (r UpdateTaskGroupRequest) ApplyTo(g TaskGroupDTO) TaskGroupDTO {
	if r.Name != nil {
		g.Name = *r.Name
	}
	if r.Description != nil {
		g.Description = r.Description
	}
	if r.Color != nil {
		g.Color = r.Color
	}
	if r.Icon != nil {
		g.Icon = r.Icon
	}
	if r.OrderIndex != nil {
		g.OrderIndex = *r.OrderIndex
	}
	if r.IsVisible != nil {
		g.IsVisible = *r.IsVisible
	}
	return g
}

// Conversion functions

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	orderIndex := task.OrderIndex
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		StartDate:   task.StartDate,
		EndDate:     task.EndDate,
		TaskGroupID: task.TaskGroupID,
		OrderIndex:  &orderIndex,
		ParentID:    task.ParentID,
	}

	// Include assignee if preloaded
	if task.Assignee != nil && task.Assignee.ID != "" {
		dto.Assignee = &AssigneeDTO{
			ID:     task.Assignee.ID,
			Name:   task.Assignee.Name,
			Avatar: task.Assignee.Avatar,
		}
	}

	return dto
}

// ToTaskDTOs converts a slice of Task models
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}

// ToTaskGroupDTO converts a TaskGroup model to TaskGroupDTO
func ToTaskGroupDTO(group models.TaskGroup) TaskGroupDTO {
	return TaskGroupDTO{
		ID:          group.ID,
		Name:        group.Name,
		Description: group.Description,
		Color:       group.Color,
		Icon:        group.Icon,
		OrderIndex:  group.OrderIndex,
		IsVisible:   group.IsVisible,
		ProjectID:   group.ProjectID,
		CreatedAt:   group.CreatedAt,
		UpdatedAt:   group.UpdatedAt,
	}
}
