package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// newID fills an empty string primary key with a random UUID.
func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	newID(&u.ID)
	return nil
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	newID(&o.ID)
	return nil
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	newID(&p.ID)
	return nil
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	newID(&t.ID)
	return nil
}

func (g *TaskGroup) BeforeCreate(tx *gorm.DB) error {
	newID(&g.ID)
	return nil
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	newID(&a.ID)
	return nil
}
