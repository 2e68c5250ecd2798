package models

import (
	"time"

	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectStatusDraft      ProjectStatus = "DRAFT"
	ProjectStatusPlanning   ProjectStatus = "PLANNING"
	ProjectStatusInProgress ProjectStatus = "IN_PROGRESS"
	ProjectStatusReview     ProjectStatus = "REVIEW"
	ProjectStatusCompleted  ProjectStatus = "COMPLETED"
	ProjectStatusArchived   ProjectStatus = "ARCHIVED"
	ProjectStatusCancelled  ProjectStatus = "CANCELLED"
)

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusDraft, ProjectStatusPlanning, ProjectStatusInProgress, ProjectStatusReview,
		ProjectStatusCompleted, ProjectStatusArchived, ProjectStatusCancelled:
		return true
	}
	return false
}

type Project struct {
	ID             string         `gorm:"type:varchar(36);primarykey" json:"id"`
	OrganizationID string         `gorm:"type:varchar(36);not null;index" json:"organization_id"`
	Name           string         `gorm:"type:varchar(255);not null" json:"name"`
	Description    *string        `gorm:"type:text" json:"description"`
	Status         ProjectStatus  `gorm:"type:varchar(20);not null;default:'DRAFT'" json:"status"`
	Type           string         `gorm:"type:varchar(50)" json:"type"`
	Date           *time.Time     `json:"date"`
	EndDate        *time.Time     `json:"end_date"`
	Location       *string        `gorm:"type:varchar(255)" json:"location"`
	Client         *string        `gorm:"type:varchar(255)" json:"client"`
	GuestCount     int            `gorm:"not null;default:0" json:"guest_count"`
	IsPublic       bool           `gorm:"not null;default:false" json:"is_public"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Organization Organization    `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Tasks        []Task          `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
	TaskGroups   []TaskGroup     `gorm:"foreignKey:ProjectID" json:"task_groups,omitempty"`
	Members      []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
	Activities   []Activity      `gorm:"foreignKey:ProjectID" json:"activities,omitempty"`
}

type ProjectRole string

const (
	ProjectRoleOwner  ProjectRole = "OWNER"
	ProjectRoleAdmin  ProjectRole = "ADMIN"
	ProjectRoleEditor ProjectRole = "EDITOR"
	ProjectRoleViewer ProjectRole = "VIEWER"
	ProjectRoleGuest  ProjectRole = "GUEST"
)

// Valid reports whether r is a known project role.
func (r ProjectRole) Valid() bool {
	switch r {
	case ProjectRoleOwner, ProjectRoleAdmin, ProjectRoleEditor, ProjectRoleViewer, ProjectRoleGuest:
		return true
	}
	return false
}

type ProjectMember struct {
	ProjectID string      `gorm:"type:varchar(36);primarykey" json:"project_id"`
	UserID    string      `gorm:"type:varchar(36);primarykey" json:"user_id"`
	Role      ProjectRole `gorm:"type:varchar(20);not null" json:"role"`
	CreatedAt time.Time   `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
