package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/project-board/internal/utils"
)

// Paginate limits a query to one page.
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset()).Limit(params.Limit)
	}
}

// InProject restricts a query to one project's rows.
func InProject(projectID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("project_id = ?", projectID)
	}
}

// SiblingOrder orders rows the way the board lists siblings.
func SiblingOrder(db *gorm.DB) *gorm.DB {
	return db.Order("order_index ASC").Order("created_at ASC")
}
