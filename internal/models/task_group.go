package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskGroup struct {
	ID          string         `gorm:"type:varchar(36);primarykey" json:"id"`
	ProjectID   string         `gorm:"type:varchar(36);not null" json:"project_id"`
	Name        string         `gorm:"type:varchar(100);not null" json:"name"`
	Description *string        `gorm:"type:text" json:"description"`
	Color       *string        `gorm:"type:varchar(20)" json:"color"`
	Icon        *string        `gorm:"type:varchar(50)" json:"icon"`
	OrderIndex  int            `gorm:"not null;default:0" json:"order_index"`
	IsVisible   bool           `gorm:"not null;default:true" json:"is_visible"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
