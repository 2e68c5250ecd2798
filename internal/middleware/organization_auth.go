package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-board/internal/constants"
	apierrors "github.com/yukikurage/project-board/internal/errors"
	"github.com/yukikurage/project-board/internal/models"
	"github.com/yukikurage/project-board/internal/services"
)

// RequireOrganizationAccess lets members of the organization in the :id
// parameter through. Anyone else gets 404.
func RequireOrganizationAccess(orgService *services.OrganizationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			return
		}

		member, err := orgService.GetMembership(c.Param("id"), userID)
		switch {
		case errors.Is(err, services.ErrNotOrganizationMember):
			apierrors.NotFound(c, "Organization not found")
			return
		case err != nil:
			apierrors.InternalError(c, "Failed to verify membership")
			return
		}

		c.Set(constants.ContextKeyMember, *member)
		c.Next()
	}
}

// GetOrganizationMember returns the membership set by RequireOrganizationAccess
func GetOrganizationMember(c *gin.Context) (models.OrganizationMember, bool) {
	value, ok := c.Get(constants.ContextKeyMember)
	if !ok {
		return models.OrganizationMember{}, false
	}
	member, ok := value.(models.OrganizationMember)
	return member, ok
}
