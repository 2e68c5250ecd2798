package repository

import (
	"errors"
	"time"

	"github.com/yukikurage/project-board/internal/dto"
	"github.com/yukikurage/project-board/internal/models"
	"github.com/yukikurage/project-board/internal/utils"
)

// ErrForeignTask is returned when a batch names a task outside the project.
var ErrForeignTask = errors.New("repository: task does not belong to project")

// UserRepository defines the interface for user data access
type UserRepository interface {
	// CreateWithPersonalOrganization creates a user, their personal organization,
	// and corresponding membership within a single transaction.
	CreateWithPersonalOrganization(user *models.User, org *models.Organization, member *models.OrganizationMember) error

	// FindByID finds a user by ID
	FindByID(id string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}

// TokenRepository stores the hashes of issued API tokens
type TokenRepository interface {
	Create(token *models.APIToken) error

	// FindActive finds an unexpired token by hash
	FindActive(hash string, now time.Time) (*models.APIToken, error)

	Delete(hash string) error
}

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// Create inserts an organization together with its owner membership
	Create(org *models.Organization, ownerID string) (*models.OrganizationMember, error)

	FindByInviteCode(code string) (*models.Organization, error)

	// Join adds a plain member; ErrAlreadyMember when the user is one already
	Join(org *models.Organization, userID string) (*models.OrganizationMember, error)

	FindMember(organizationID, userID string) (*models.OrganizationMember, error)

	ListMemberships(userID string) ([]models.OrganizationMember, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// CreateWithOwner creates a project and its OWNER member
	CreateWithOwner(project *models.Project, owner *models.ProjectMember) error

	// FindByID finds a project without relations
	FindByID(id string) (*models.Project, error)

	// FindDetail loads a project with everything the board view shows
	// except tasks, which are loaded flat through the TaskRepository.
	FindDetail(id string, activityLimit int) (*models.Project, error)

	// ListByOrganization returns one page of an organization's projects
	ListByOrganization(organizationID string, params utils.PaginationParams) ([]models.Project, int64, error)

	Update(project *models.Project) error

	// AddMember adds a user to the project team
	AddMember(member *models.ProjectMember) error

	FindMember(projectID, userID string) (*models.ProjectMember, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task of the project
	FindByID(projectID, id string) (*models.Task, error)

	// ListByProject returns every task of the project in sibling order
	ListByProject(projectID string) ([]models.Task, error)

	// CountSiblings counts the tasks sharing a parent. Root tasks are
	// counted per group.
	CountSiblings(projectID string, parentID, taskGroupID *string) (int64, error)

	// Update saves a task and moves the listed descendants to its group
	Update(task *models.Task, descendantIDs []string) error

	// Reorder writes a batch of order indices in one transaction
	Reorder(projectID string, items []dto.ReorderItem) error

	// DeleteMany soft deletes the listed tasks of the project
	DeleteMany(projectID string, ids []string) error
}

// TaskGroupRepository defines the interface for task group data access
type TaskGroupRepository interface {
	Create(group *models.TaskGroup) error

	FindByID(projectID, id string) (*models.TaskGroup, error)

	Count(projectID string) (int64, error)

	Update(group *models.TaskGroup) error

	// Delete removes the group and ungroups its tasks
	Delete(projectID, id string) error
}

// ActivityRepository appends to the project activity feed
type ActivityRepository interface {
	Create(activity *models.Activity) error
}
