package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusReview     TaskStatus = "REVIEW"
	TaskStatusCancelled  TaskStatus = "CANCELLED"
	TaskStatusOnHold     TaskStatus = "ON_HOLD"
)

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted,
		TaskStatusReview, TaskStatusCancelled, TaskStatusOnHold:
		return true
	}
	return false
}

// Toggled returns the status a completion toggle moves to:
// COMPLETED goes back to IN_PROGRESS, everything else becomes COMPLETED.
func (s TaskStatus) Toggled() TaskStatus {
	if s == TaskStatusCompleted {
		return TaskStatusInProgress
	}
	return TaskStatusCompleted
}

type TaskPriority string

const (
	TaskPriorityLow      TaskPriority = "LOW"
	TaskPriorityMedium   TaskPriority = "MEDIUM"
	TaskPriorityHigh     TaskPriority = "HIGH"
	TaskPriorityCritical TaskPriority = "CRITICAL"
)

// Valid reports whether p is a known task priority.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityCritical:
		return true
	}
	return false
}

type Task struct {
	ID          string         `gorm:"type:varchar(36);primarykey" json:"id"`
	ProjectID   string         `gorm:"type:varchar(36);not null" json:"project_id"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Description *string        `gorm:"type:text" json:"description"`
	Status      TaskStatus     `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	Priority    *TaskPriority  `gorm:"type:varchar(20)" json:"priority"`
	StartDate   *time.Time     `json:"start_date"`
	EndDate     *time.Time     `json:"end_date"`
	TaskGroupID *string        `gorm:"type:varchar(36)" json:"task_group_id"`
	ParentID    *string        `gorm:"type:varchar(36)" json:"parent_id"`
	OrderIndex  int            `gorm:"not null;default:0" json:"order_index"`
	AssigneeID  *string        `gorm:"type:varchar(36)" json:"assignee_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Assignee *User `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
}
