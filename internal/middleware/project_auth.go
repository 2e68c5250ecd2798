package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-board/internal/constants"
	"github.com/yukikurage/project-board/internal/database"
	apierrors "github.com/yukikurage/project-board/internal/errors"
	"github.com/yukikurage/project-board/internal/models"
)

// RequireProjectAccess checks that the user belongs to the organization
// owning the project in the :id parameter
func RequireProjectAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID := c.Param("id")

		// Get current user ID
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			return
		}

		var project models.Project
		if err := database.GetDB().First(&project, "id = ?", projectID).Error; err != nil {
			apierrors.NotFound(c, "Project not found")
			return
		}

		var member models.OrganizationMember
		err := database.GetDB().
			Where("organization_id = ? AND user_id = ?", project.OrganizationID, userID).
			First(&member).Error
		if err != nil {
			// Same 404 as a missing project.
			apierrors.NotFound(c, "Project not found")
			return
		}

		c.Set(constants.ContextKeyProject, project)
		c.Next()
	}
}

// GetProject returns the project set by RequireProjectAccess
func GetProject(c *gin.Context) (models.Project, bool) {
	value, ok := c.Get(constants.ContextKeyProject)
	if !ok {
		return models.Project{}, false
	}
	project, ok := value.(models.Project)
	return project, ok
}
