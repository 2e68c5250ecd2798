package repository

import (
	"errors"
	"time"

	"github.com/yukikurage/project-board/internal/models"
	"gorm.io/gorm"
)

// ErrAlreadyMember is returned by Join when the user belongs to the
// organization already.
var ErrAlreadyMember = errors.New("organization repository: already a member")

type GormOrganizationRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &GormOrganizationRepository{db: db, now: time.Now}
}

// Create inserts org and makes ownerID its owner in one transaction. The
// returned membership carries the organization.
func (r *GormOrganizationRepository) Create(org *models.Organization, ownerID string) (*models.OrganizationMember, error) {
	owner := &models.OrganizationMember{
		UserID:   ownerID,
		Role:     models.OrganizationRoleOwner,
		JoinedAt: r.now(),
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(org).Error; err != nil {
			return err
		}
		owner.OrganizationID = org.ID
		return tx.Omit("Organization", "User").Create(owner).Error
	})
	if err != nil {
		return nil, err
	}
	owner.Organization = *org
	return owner, nil
}

func (r *GormOrganizationRepository) FindByInviteCode(code string) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.First(&org, "invite_code = ?", code).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// Join adds userID to org as a plain member.
func (r *GormOrganizationRepository) Join(org *models.Organization, userID string) (*models.OrganizationMember, error) {
	member := &models.OrganizationMember{
		OrganizationID: org.ID,
		UserID:         userID,
		Role:           models.OrganizationRoleMember,
		JoinedAt:       r.now(),
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.OrganizationMember{}).
			Where("organization_id = ? AND user_id = ?", org.ID, userID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyMember
		}
		return tx.Omit("Organization", "User").Create(member).Error
	})
	if err != nil {
		return nil, err
	}
	member.Organization = *org
	return member, nil
}

func (r *GormOrganizationRepository) FindMember(organizationID, userID string) (*models.OrganizationMember, error) {
	var member models.OrganizationMember
	if err := r.db.Preload("Organization").
		First(&member, "organization_id = ? AND user_id = ?", organizationID, userID).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMemberships lists the user's memberships, oldest first, with their
// organizations loaded.
func (r *GormOrganizationRepository) ListMemberships(userID string) ([]models.OrganizationMember, error) {
	var memberships []models.OrganizationMember
	if err := r.db.Preload("Organization").
		Where("user_id = ?", userID).
		Order("joined_at ASC").
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}
