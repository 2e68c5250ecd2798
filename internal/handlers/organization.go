package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-board/internal/dto"
	apierrors "github.com/yukikurage/project-board/internal/errors"
	"github.com/yukikurage/project-board/internal/middleware"
	"github.com/yukikurage/project-board/internal/services"
	"github.com/yukikurage/project-board/internal/utils"
)

type OrganizationHandler struct {
	orgService     *services.OrganizationService
	projectService *services.ProjectService
}

func NewOrganizationHandler(orgService *services.OrganizationService, projectService *services.ProjectService) *OrganizationHandler {
	return &OrganizationHandler{
		orgService:     orgService,
		projectService: projectService,
	}
}

// CreateOrganization creates a new organization
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateOrgRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req CreateOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	owner, err := h.orgService.CreateOrganization(userID, req.Name)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrganizationWithRoleDTO(*owner))
}

// ListOrganizations returns all organizations the user is a member of
func (h *OrganizationHandler) ListOrganizations(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	memberships, err := h.orgService.ListMemberships(userID)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	organizations := make([]dto.OrganizationWithRoleDTO, len(memberships))
	for i, m := range memberships {
		organizations[i] = dto.ToOrganizationWithRoleDTO(m)
	}

	c.JSON(http.StatusOK, gin.H{
		"organizations": organizations,
	})
}

// JoinOrganization adds the user to the organization owning the invite code
func (h *OrganizationHandler) JoinOrganization(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type JoinRequest struct {
		InviteCode string `json:"inviteCode" binding:"required"`
	}

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.orgService.JoinByInviteCode(userID, req.InviteCode)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationWithRoleDTO(*member))
}

// ListProjects returns a page of the organization's projects
func (h *OrganizationHandler) ListProjects(c *gin.Context) {
	params := utils.ParsePagination(c)

	projects, total, err := h.projectService.ListProjects(c.Param("id"), params)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	items := make([]dto.ProjectSummaryDTO, len(projects))
	for i, p := range projects {
		items[i] = dto.ToProjectSummaryDTO(p)
	}

	c.JSON(http.StatusOK, dto.PaginatedProjects{
		Projects: items,
		Page:     params.Page,
		Limit:    params.Limit,
		Total:    total,
	})
}

// CreateProject creates a project in the organization
func (h *OrganizationHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(c.Param("id"), userID, req)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectSummaryDTO(*project))
}

func respondOrganizationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOrganizationNameRequired),
		errors.Is(err, services.ErrOrganizationNameTooLong):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInvalidInviteCode):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrAlreadyOrganizationMember):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrNotOrganizationMember):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
