package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-board/internal/dto"
	apierrors "github.com/yukikurage/project-board/internal/errors"
	"github.com/yukikurage/project-board/internal/middleware"
	"github.com/yukikurage/project-board/internal/services"
)

type TaskGroupHandler struct {
	groupService *services.TaskGroupService
}

func NewTaskGroupHandler(groupService *services.TaskGroupService) *TaskGroupHandler {
	return &TaskGroupHandler{groupService: groupService}
}

func (h *TaskGroupHandler) CreateTaskGroup(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req dto.CreateTaskGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	group, err := h.groupService.CreateTaskGroup(c.Param("id"), userID, req)
	if err != nil {
		respondTaskGroupError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskGroupDTO(*group))
}

func (h *TaskGroupHandler) UpdateTaskGroup(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req dto.UpdateTaskGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	group, err := h.groupService.UpdateTaskGroup(c.Param("id"), c.Param("groupId"), userID, req)
	if err != nil {
		respondTaskGroupError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskGroupDTO(*group))
}

// DeleteTaskGroup deletes the group; its tasks stay, ungrouped
func (h *TaskGroupHandler) DeleteTaskGroup(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.groupService.DeleteTaskGroup(c.Param("id"), c.Param("groupId"), userID); err != nil {
		respondTaskGroupError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task group deleted successfully",
	})
}

func respondTaskGroupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskGroupNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrGroupNameRequired),
		errors.Is(err, services.ErrGroupNameTooLong):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
