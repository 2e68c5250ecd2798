package models

import "time"

type ActivityType string

const (
	ActivityTypeTask      ActivityType = "task"
	ActivityTypeTaskGroup ActivityType = "task_group"
	ActivityTypeProject   ActivityType = "project"
)

type ActivityAction string

const (
	ActivityCreated   ActivityAction = "created"
	ActivityUpdated   ActivityAction = "updated"
	ActivityReordered ActivityAction = "reordered"
	ActivityDeleted   ActivityAction = "deleted"
)

type Activity struct {
	ID          string         `gorm:"type:varchar(36);primarykey" json:"id"`
	ProjectID   string         `gorm:"type:varchar(36);not null" json:"project_id"`
	UserID      string         `gorm:"type:varchar(36);not null" json:"user_id"`
	Type        ActivityType   `gorm:"type:varchar(20);not null" json:"type"`
	Action      ActivityAction `gorm:"type:varchar(20);not null" json:"action"`
	Description *string        `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
