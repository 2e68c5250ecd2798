package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/project-board/internal/constants"
	"github.com/yukikurage/project-board/internal/dto"
	"github.com/yukikurage/project-board/internal/models"
	"github.com/yukikurage/project-board/internal/repository"
	"github.com/yukikurage/project-board/internal/tasktree"
	"github.com/yukikurage/project-board/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound      = errors.New("project not found")
	ErrProjectNameRequired  = errors.New("project name is required")
	ErrInvalidProjectStatus = errors.New("invalid project status")
	ErrInvalidProjectRole   = errors.New("invalid project role")
	ErrAlreadyProjectMember = errors.New("user is already a member of this project")
	ErrInvalidDateRange     = errors.New("end date is before start date")
)

// ProjectService handles project business logic
type ProjectService struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	userRepo    repository.UserRepository
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository, userRepo repository.UserRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		userRepo:    userRepo,
	}
}

// CreateProject creates a project in the organization. The creator becomes its OWNER.
func (s *ProjectService) CreateProject(organizationID, creatorID string, req dto.CreateProjectRequest) (*models.Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrProjectNameRequired
	}

	status := models.ProjectStatusDraft
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, ErrInvalidProjectStatus
		}
		status = *req.Status
	}
	if req.Date != nil && req.EndDate != nil && req.EndDate.Before(*req.Date) {
		return nil, ErrInvalidDateRange
	}

	project := &models.Project{
		OrganizationID: organizationID,
		Name:           name,
		Description:    req.Description,
		Status:         status,
		Type:           req.Type,
		Date:           req.Date,
		EndDate:        req.EndDate,
		Location:       req.Location,
		Client:         req.Client,
		GuestCount:     req.GuestCount,
		IsPublic:       req.IsPublic,
	}

	owner := &models.ProjectMember{
		UserID: creatorID,
		Role:   models.ProjectRoleOwner,
	}

	if err := s.projectRepo.CreateWithOwner(project, owner); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// ListProjects returns one page of an organization's projects, newest first
func (s *ProjectService) ListProjects(organizationID string, params utils.PaginationParams) ([]models.Project, int64, error) {
	projects, total, err := s.projectRepo.ListByOrganization(organizationID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// GetProject returns a project without relations
func (s *ProjectService) GetProject(id string) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// GetProjectDetail builds the board snapshot: nested tasks, groups, team,
// the latest activities and the completion percentage.
func (s *ProjectService) GetProjectDetail(id string) (dto.ProjectDTO, error) {
	project, err := s.projectRepo.FindDetail(id, constants.MaxProjectActivities)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProjectDTO{}, ErrProjectNotFound
		}
		return dto.ProjectDTO{}, fmt.Errorf("failed to load project: %w", err)
	}

	tasks, err := s.taskRepo.ListByProject(id)
	if err != nil {
		return dto.ProjectDTO{}, fmt.Errorf("failed to load tasks: %w", err)
	}

	flat := dto.ToTaskDTOs(tasks)
	return dto.ToProjectDTO(*project, tasktree.Nest(flat), tasktree.Progress(flat)), nil
}

// UpdateProject applies a partial update
func (s *ProjectService) UpdateProject(id string, req dto.UpdateProjectRequest) (*models.Project, error) {
	project, err := s.GetProject(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrProjectNameRequired
		}
		project.Name = name
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, ErrInvalidProjectStatus
		}
		project.Status = *req.Status
	}
	if req.Description != nil {
		project.Description = req.Description
	}
	if req.Date != nil {
		project.Date = req.Date
	}
	if req.EndDate != nil {
		project.EndDate = req.EndDate
	}
	if req.Location != nil {
		project.Location = req.Location
	}
	if req.Client != nil {
		project.Client = req.Client
	}
	if req.GuestCount != nil {
		project.GuestCount = *req.GuestCount
	}
	if req.IsPublic != nil {
		project.IsPublic = *req.IsPublic
	}
	if project.Date != nil && project.EndDate != nil && project.EndDate.Before(*project.Date) {
		return nil, ErrInvalidDateRange
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// AddMember adds an existing user to the project team
func (s *ProjectService) AddMember(projectID string, req dto.AddMemberRequest) (*models.ProjectMember, error) {
	if !req.Role.Valid() {
		return nil, ErrInvalidProjectRole
	}

	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.projectRepo.FindMember(projectID, user.ID); err == nil {
		return nil, ErrAlreadyProjectMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify project membership: %w", err)
	}

	member := &models.ProjectMember{
		ProjectID: projectID,
		UserID:    user.ID,
		Role:      req.Role,
	}
	if err := s.projectRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add project member: %w", err)
	}

	member.User = *user
	return member, nil
}
