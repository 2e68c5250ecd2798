package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/project-board/internal/constants"
	"github.com/yukikurage/project-board/internal/models"
	"github.com/yukikurage/project-board/internal/repository"
	"github.com/yukikurage/project-board/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrNotOrganizationMember     = errors.New("user is not a member of the organization")
	ErrOrganizationNameRequired  = errors.New("organization name is required")
	ErrOrganizationNameTooLong   = errors.New("organization name is too long")
	ErrInvalidInviteCode         = errors.New("invalid invite code")
	ErrAlreadyOrganizationMember = errors.New("user is already a member of this organization")
)

// OrganizationService manages organizations and who belongs to them. Project
// access is derived from these memberships.
type OrganizationService struct {
	orgRepo repository.OrganizationRepository
}

func NewOrganizationService(orgRepo repository.OrganizationRepository) *OrganizationService {
	return &OrganizationService{orgRepo: orgRepo}
}

// CreateOrganization creates an organization owned by ownerID and returns the
// owner's membership.
func (s *OrganizationService) CreateOrganization(ownerID, name string) (*models.OrganizationMember, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return nil, ErrOrganizationNameRequired
	case len([]rune(name)) > constants.MaxNameLength:
		return nil, ErrOrganizationNameTooLong
	}

	inviteCode, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invite code: %w", err)
	}

	owner, err := s.orgRepo.Create(&models.Organization{Name: name, InviteCode: inviteCode}, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}
	return owner, nil
}

func (s *OrganizationService) ListMemberships(userID string) ([]models.OrganizationMember, error) {
	memberships, err := s.orgRepo.ListMemberships(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	return memberships, nil
}

// GetMembership returns the user's membership, or ErrNotOrganizationMember.
func (s *OrganizationService) GetMembership(orgID, userID string) (*models.OrganizationMember, error) {
	member, err := s.orgRepo.FindMember(orgID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotOrganizationMember
		}
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}
	return member, nil
}

// JoinByInviteCode makes userID a member of the organization the code
// belongs to. Codes are matched case-insensitively.
func (s *OrganizationService) JoinByInviteCode(userID, inviteCode string) (*models.OrganizationMember, error) {
	org, err := s.orgRepo.FindByInviteCode(utils.NormalizeInviteCode(inviteCode))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInviteCode
		}
		return nil, fmt.Errorf("failed to find organization by invite code: %w", err)
	}

	member, err := s.orgRepo.Join(org, userID)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyMember) {
			return nil, ErrAlreadyOrganizationMember
		}
		return nil, fmt.Errorf("failed to join organization: %w", err)
	}
	return member, nil
}
