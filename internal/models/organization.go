package models

import (
	"time"

	"gorm.io/gorm"
)

// Organization owns projects. Every user gets a personal one at signup and
// can join others with an invite code.
type Organization struct {
	ID         string         `gorm:"type:varchar(36);primarykey" json:"id"`
	Name       string         `gorm:"type:varchar(255);not null" json:"name"`
	Logo       *string        `gorm:"type:varchar(512)" json:"logo"`
	InviteCode string         `gorm:"type:varchar(14);uniqueIndex;not null" json:"invite_code"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Members  []OrganizationMember `gorm:"foreignKey:OrganizationID" json:"members,omitempty"`
	Projects []Project            `gorm:"foreignKey:OrganizationID" json:"projects,omitempty"`
}

type OrganizationRole string

const (
	OrganizationRoleOwner  OrganizationRole = "OWNER"
	OrganizationRoleMember OrganizationRole = "MEMBER"
)

// OrganizationMember grants a user access to every project of the
// organization. The pair (OrganizationID, UserID) is the key.
type OrganizationMember struct {
	OrganizationID string           `gorm:"type:varchar(36);primarykey" json:"organization_id"`
	UserID         string           `gorm:"type:varchar(36);primarykey" json:"user_id"`
	Role           OrganizationRole `gorm:"type:varchar(20);not null" json:"role"`
	JoinedAt       time.Time        `gorm:"not null" json:"joined_at"`

	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	User         User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// IsOwner reports whether the member may see the invite code.
func (m OrganizationMember) IsOwner() bool {
	return m.Role == OrganizationRoleOwner
}
