package repository

import (
	"github.com/yukikurage/project-board/internal/database"
	"github.com/yukikurage/project-board/internal/models"
	"gorm.io/gorm"
)

// GormTaskGroupRepository is a GORM implementation of TaskGroupRepository
type GormTaskGroupRepository struct {
	db *gorm.DB
}

func NewTaskGroupRepository(db *gorm.DB) TaskGroupRepository {
	return &GormTaskGroupRepository{db: db}
}

func (r *GormTaskGroupRepository) Create(group *models.TaskGroup) error {
	return r.db.Create(group).Error
}

func (r *GormTaskGroupRepository) FindByID(projectID, id string) (*models.TaskGroup, error) {
	var group models.TaskGroup
	if err := r.db.Scopes(database.InProject(projectID)).First(&group, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *GormTaskGroupRepository) Count(projectID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.TaskGroup{}).Scopes(database.InProject(projectID)).Count(&count).Error
	return count, err
}

func (r *GormTaskGroupRepository) Update(group *models.TaskGroup) error {
	return r.db.Save(group).Error
}

// Delete removes the group and ungroups its tasks in a transaction
func (r *GormTaskGroupRepository) Delete(projectID, id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).
			Scopes(database.InProject(projectID)).
			Where("task_group_id = ?", id).
			Update("task_group_id", nil).Error; err != nil {
			return err
		}

		return tx.Scopes(database.InProject(projectID)).
			Where("id = ?", id).
			Delete(&models.TaskGroup{}).Error
	})
}

// GormActivityRepository is a GORM implementation of ActivityRepository
type GormActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &GormActivityRepository{db: db}
}

func (r *GormActivityRepository) Create(activity *models.Activity) error {
	return r.db.Omit("User").Create(activity).Error
}
