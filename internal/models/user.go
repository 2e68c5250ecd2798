package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           string         `gorm:"type:varchar(36);primarykey" json:"id"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Avatar       *string        `gorm:"type:varchar(512)" json:"avatar"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Organizations []OrganizationMember `gorm:"foreignKey:UserID" json:"-"`
	Tokens        []APIToken           `gorm:"foreignKey:UserID" json:"-"`
}

// APIToken is a bearer credential issued at login. Only the sha256 of the
// token is stored.
type APIToken struct {
	TokenHash string    `gorm:"type:varchar(64);primarykey" json:"-"`
	UserID    string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
