package repository

import (
	"github.com/yukikurage/project-board/internal/database"
	"github.com/yukikurage/project-board/internal/models"
	"github.com/yukikurage/project-board/internal/utils"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

func (r *GormProjectRepository) CreateWithOwner(project *models.Project, owner *models.ProjectMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}

		owner.ProjectID = project.ID
		return tx.Create(owner).Error
	})
}

func (r *GormProjectRepository) FindByID(id string) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *GormProjectRepository) FindDetail(id string, activityLimit int) (*models.Project, error) {
	var project models.Project
	err := r.db.
		Preload("Organization").
		Preload("TaskGroups", func(db *gorm.DB) *gorm.DB {
			return database.SiblingOrder(db)
		}).
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Members.User").
		Preload("Activities", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC").Limit(activityLimit)
		}).
		Preload("Activities.User").
		First(&project, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *GormProjectRepository) ListByOrganization(organizationID string, params utils.PaginationParams) ([]models.Project, int64, error) {
	query := r.db.Model(&models.Project{}).Where("organization_id = ?", organizationID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []models.Project
	if err := query.Order("created_at DESC").Scopes(database.Paginate(params)).Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Omit("Organization", "Tasks", "TaskGroups", "Members", "Activities").Save(project).Error
}

func (r *GormProjectRepository) AddMember(member *models.ProjectMember) error {
	return r.db.Create(member).Error
}

func (r *GormProjectRepository) FindMember(projectID, userID string) (*models.ProjectMember, error) {
	var member models.ProjectMember
	if err := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}
