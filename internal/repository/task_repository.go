package repository

import (
	"github.com/yukikurage/project-board/internal/database"
	"github.com/yukikurage/project-board/internal/dto"
	"github.com/yukikurage/project-board/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task of the project with its assignee
func (r *GormTaskRepository) FindByID(projectID, id string) (*models.Task, error) {
	var task models.Task
	if err := r.db.Preload("Assignee").
		Scopes(database.InProject(projectID)).
		First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByProject returns every task of the project in sibling order
func (r *GormTaskRepository) ListByProject(projectID string) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Preload("Assignee").
		Scopes(database.InProject(projectID), database.SiblingOrder).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// CountSiblings counts the tasks sharing a parent. Root tasks are counted per group.
func (r *GormTaskRepository) CountSiblings(projectID string, parentID, taskGroupID *string) (int64, error) {
	query := r.db.Model(&models.Task{}).Scopes(database.InProject(projectID))
	if parentID != nil {
		query = query.Where("parent_id = ?", *parentID)
	} else {
		query = query.Where("parent_id IS NULL")
		if taskGroupID != nil {
			query = query.Where("task_group_id = ?", *taskGroupID)
		} else {
			query = query.Where("task_group_id IS NULL")
		}
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}

// Update saves a task and moves the listed descendants to its group
func (r *GormTaskRepository) Update(task *models.Task, descendantIDs []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Assignee").Save(task).Error; err != nil {
			return err
		}

		if len(descendantIDs) == 0 {
			return nil
		}

		return tx.Model(&models.Task{}).
			Scopes(database.InProject(task.ProjectID)).
			Where("id IN ?", descendantIDs).
			Update("task_group_id", task.TaskGroupID).Error
	})
}

// Reorder writes a batch of order indices in one transaction. Any id outside
// the project fails the whole batch with ErrForeignTask.
func (r *GormTaskRepository) Reorder(projectID string, items []dto.ReorderItem) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if !seen[item.ID] {
			seen[item.ID] = true
			ids = append(ids, item.ID)
		}
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Task{}).
			Scopes(database.InProject(projectID)).
			Where("id IN ?", ids).
			Count(&count).Error; err != nil {
			return err
		}
		if count != int64(len(ids)) {
			return ErrForeignTask
		}

		for _, item := range items {
			if err := tx.Model(&models.Task{}).
				Scopes(database.InProject(projectID)).
				Where("id = ?", item.ID).
				Update("order_index", item.OrderIndex).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// DeleteMany soft deletes the listed tasks of the project
func (r *GormTaskRepository) DeleteMany(projectID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Scopes(database.InProject(projectID)).
		Where("id IN ?", ids).
		Delete(&models.Task{}).Error
}
