package dto

import (
	"github.com/yukikurage/project-board/internal/models"
)

// OrganizationDTO represents an organization in API responses
type OrganizationDTO struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Logo       *string `json:"logo"`
	InviteCode string  `json:"inviteCode,omitempty"`
}

// OrganizationWithRoleDTO represents an organization with the user's role
type OrganizationWithRoleDTO struct {
	OrganizationDTO
	Role models.OrganizationRole `json:"role"`
}

// ToOrganizationDTO converts an Organization model to OrganizationDTO
func ToOrganizationDTO(org models.Organization, includeInviteCode bool) OrganizationDTO {
	dto := OrganizationDTO{
		ID:   org.ID,
		Name: org.Name,
		Logo: org.Logo,
	}
	if includeInviteCode {
		dto.InviteCode = org.InviteCode
	}
	return dto
}

// ToOrganizationWithRoleDTO converts an organization member to DTO with role.
// Owners see the invite code.
func ToOrganizationWithRoleDTO(member models.OrganizationMember) OrganizationWithRoleDTO {
	return OrganizationWithRoleDTO{
		OrganizationDTO: ToOrganizationDTO(member.Organization, member.IsOwner()),
		Role:            member.Role,
	}
}
