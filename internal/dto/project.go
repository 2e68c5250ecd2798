package dto

import (
	"time"

	"github.com/yukikurage/project-board/internal/models"
)

// ProjectMemberDTO represents a project team member
type ProjectMemberDTO struct {
	ID   string             `json:"id"`
	Role models.ProjectRole `json:"role"`
	User UserDTO            `json:"user"`
}

// ActivityDTO represents an entry of the project activity feed
type ActivityDTO struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"`
	Action      string      `json:"action"`
	Description *string     `json:"description"`
	CreatedAt   time.Time   `json:"createdAt"`
	User        AssigneeDTO `json:"user"`
}

// ProjectDTO is the detailed project snapshot the board works from.
// Tasks holds the root tasks with their children nested.
type ProjectDTO struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Description  *string              `json:"description"`
	Date         *time.Time           `json:"date"`
	EndDate      *time.Time           `json:"endDate"`
	Location     *string              `json:"location"`
	Client       *string              `json:"client"`
	Status       models.ProjectStatus `json:"status"`
	Type         string               `json:"type"`
	GuestCount   int                  `json:"guestCount"`
	Progress     int                  `json:"progress"`
	IsPublic     bool                 `json:"isPublic"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
	Organization OrganizationDTO      `json:"organization"`
	Tasks        []TaskDTO            `json:"tasks"`
	TaskGroups   []TaskGroupDTO       `json:"taskGroups"`
	Members      []ProjectMemberDTO   `json:"members"`
	Activities   []ActivityDTO        `json:"activities"`
}

// ProjectSummaryDTO is a project in list responses
type ProjectSummaryDTO struct {
	ID             string               `json:"id"`
	OrganizationID string               `json:"organizationId"`
	Name           string               `json:"name"`
	Status         models.ProjectStatus `json:"status"`
	Date           *time.Time           `json:"date"`
	EndDate        *time.Time           `json:"endDate"`
	CreatedAt      time.Time            `json:"createdAt"`
}

// CreateProjectRequest is the body of a project create call
type CreateProjectRequest struct {
	Name        string                `json:"name" binding:"required"`
	Description *string               `json:"description,omitempty"`
	Status      *models.ProjectStatus `json:"status,omitempty"`
	Type        string                `json:"type,omitempty"`
	Date        *time.Time            `json:"date,omitempty"`
	EndDate     *time.Time            `json:"endDate,omitempty"`
	Location    *string               `json:"location,omitempty"`
	Client      *string               `json:"client,omitempty"`
	GuestCount  int                   `json:"guestCount,omitempty"`
	IsPublic    bool                  `json:"isPublic,omitempty"`
}

// UpdateProjectRequest is a partial project update
type UpdateProjectRequest struct {
	Name        *string               `json:"name,omitempty"`
	Description *string               `json:"description,omitempty"`
	Status      *models.ProjectStatus `json:"status,omitempty"`
	Date        *time.Time            `json:"date,omitempty"`
	EndDate     *time.Time            `json:"endDate,omitempty"`
	Location    *string               `json:"location,omitempty"`
	Client      *string               `json:"client,omitempty"`
	GuestCount  *int                  `json:"guestCount,omitempty"`
	IsPublic    *bool                 `json:"isPublic,omitempty"`
}

// AddMemberRequest adds an existing user to a project team
type AddMemberRequest struct {
	Email string             `json:"email" binding:"required"`
	Role  models.ProjectRole `json:"role" binding:"required"`
}

// PaginatedProjects is a page of project summaries
type PaginatedProjects struct {
	Projects []ProjectSummaryDTO `json:"projects"`
	Page     int                 `json:"page"`
	Limit    int                 `json:"limit"`
	Total    int64               `json:"total"`
}

// ToProjectDTO converts a Project model to the detailed snapshot. tasks must
// already be nested.
func ToProjectDTO(project models.Project, tasks []TaskDTO, progress int) ProjectDTO {
	dto := ProjectDTO{
		ID:           project.ID,
		Name:         project.Name,
		Description:  project.Description,
		Date:         project.Date,
		EndDate:      project.EndDate,
		Location:     project.Location,
		Client:       project.Client,
		Status:       project.Status,
		Type:         project.Type,
		GuestCount:   project.GuestCount,
		Progress:     progress,
		IsPublic:     project.IsPublic,
		CreatedAt:    project.CreatedAt,
		UpdatedAt:    project.UpdatedAt,
		Organization: ToOrganizationDTO(project.Organization, false),
		Tasks:        tasks,
		TaskGroups:   make([]TaskGroupDTO, len(project.TaskGroups)),
		Members:      make([]ProjectMemberDTO, len(project.Members)),
		Activities:   make([]ActivityDTO, len(project.Activities)),
	}
	if dto.Tasks == nil {
		dto.Tasks = []TaskDTO{}
	}

	for i, group := range project.TaskGroups {
		dto.TaskGroups[i] = ToTaskGroupDTO(group)
	}
	for i, member := range project.Members {
		dto.Members[i] = ProjectMemberDTO{
			ID:   member.ProjectID + ":" + member.UserID,
			Role: member.Role,
			User: ToUserDTO(member.User),
		}
	}
	for i, activity := range project.Activities {
		dto.Activities[i] = ActivityDTO{
			ID:          activity.ID,
			Type:        string(activity.Type),
			Action:      string(activity.Action),
			Description: activity.Description,
			CreatedAt:   activity.CreatedAt,
			User: AssigneeDTO{
				ID:     activity.User.ID,
				Name:   activity.User.Name,
				Avatar: activity.User.Avatar,
			},
		}
	}

	return dto
}

// ToProjectSummaryDTO converts a Project model to a list item
func ToProjectSummaryDTO(project models.Project) ProjectSummaryDTO {
	return ProjectSummaryDTO{
		ID:             project.ID,
		OrganizationID: project.OrganizationID,
		Name:           project.Name,
		Status:         project.Status,
		Date:           project.Date,
		EndDate:        project.EndDate,
		CreatedAt:      project.CreatedAt,
	}
}
