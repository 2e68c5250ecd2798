package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/yukikurage/project-board/internal/dto"
)

func projectPath(projectID string, rest ...string) string {
	p := "/api/projects/" + url.PathEscape(projectID)
	for _, r := range rest {
		p += "/" + r
	}
	return p
}

// Login exchanges credentials for an API token. It does not use the client's
// Credentials.
func (c *Client) Login(ctx context.Context, email, password string) (dto.LoginResponse, error) {
	var out dto.LoginResponse
	in := dto.LoginRequest{Email: email, Password: password}
	err := c.do(ctx, http.MethodPost, "/api/auth/login", false, in, &out)
	return out, err
}

// Signup registers a new account. Like Login it sends no token.
func (c *Client) Signup(ctx context.Context, email, name, password string) (dto.UserDTO, error) {
	var out dto.UserDTO
	in := dto.SignupRequest{Email: email, Name: name, Password: password}
	err := c.do(ctx, http.MethodPost, "/api/auth/signup", false, in, &out)
	return out, err
}

// Logout revokes the token the client presents.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", true, nil, nil)
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (dto.UserDTO, error) {
	var out dto.UserDTO
	err := c.do(ctx, http.MethodGet, "/api/auth/me", true, nil, &out)
	return out, err
}

// ListOrganizations returns the organizations the user belongs to.
func (c *Client) ListOrganizations(ctx context.Context) ([]dto.OrganizationWithRoleDTO, error) {
	var out struct {
		Organizations []dto.OrganizationWithRoleDTO `json:"organizations"`
	}
	err := c.do(ctx, http.MethodGet, "/api/organizations", true, nil, &out)
	return out.Organizations, err
}

// ListProjects returns one page of an organization's projects.
func (c *Client) ListProjects(ctx context.Context, organizationID string, page, limit int) (dto.PaginatedProjects, error) {
	var out dto.PaginatedProjects
	path := fmt.Sprintf("/api/organizations/%s/projects?page=%d&limit=%d", url.PathEscape(organizationID), page, limit)
	err := c.do(ctx, http.MethodGet, path, true, nil, &out)
	return out, err
}

func (c *Client) CreateProject(ctx context.Context, organizationID string, req dto.CreateProjectRequest) (dto.ProjectSummaryDTO, error) {
	var out dto.ProjectSummaryDTO
	path := "/api/organizations/" + url.PathEscape(organizationID) + "/projects"
	err := c.do(ctx, http.MethodPost, path, true, req, &out)
	return out, err
}

// GetProject returns the detailed project with its nested task tree.
func (c *Client) GetProject(ctx context.Context, projectID string) (dto.ProjectDTO, error) {
	var out dto.ProjectDTO
	err := c.do(ctx, http.MethodGet, projectPath(projectID), true, nil, &out)
	return out, err
}

func (c *Client) CreateTask(ctx context.Context, projectID string, req dto.CreateTaskRequest) (dto.TaskDTO, error) {
	var out dto.TaskDTO
	err := c.do(ctx, http.MethodPost, projectPath(projectID, "tasks"), true, req, &out)
	return out, err
}

// UpdateTask sends a partial update; cleared fields go out as JSON null.
func (c *Client) UpdateTask(ctx context.Context, projectID, taskID string, req dto.UpdateTaskRequest) (dto.TaskDTO, error) {
	var out dto.TaskDTO
	err := c.do(ctx, http.MethodPatch, projectPath(projectID, "tasks", url.PathEscape(taskID)), true, req, &out)
	return out, err
}

func (c *Client) DeleteTask(ctx context.Context, projectID, taskID string) error {
	return c.do(ctx, http.MethodDelete, projectPath(projectID, "tasks", url.PathEscape(taskID)), true, nil, nil)
}

// ReorderTasks persists a batch of sibling positions in one request.
func (c *Client) ReorderTasks(ctx context.Context, projectID string, items []dto.ReorderItem) error {
	return c.do(ctx, http.MethodPatch, projectPath(projectID, "tasks", "reorder"), true, dto.ReorderRequest{Tasks: items}, nil)
}

func (c *Client) CreateTaskGroup(ctx context.Context, projectID string, req dto.CreateTaskGroupRequest) (dto.TaskGroupDTO, error) {
	var out dto.TaskGroupDTO
	err := c.do(ctx, http.MethodPost, projectPath(projectID, "task-groups"), true, req, &out)
	return out, err
}

func (c *Client) UpdateTaskGroup(ctx context.Context, projectID, groupID string, req dto.UpdateTaskGroupRequest) (dto.TaskGroupDTO, error) {
	var out dto.TaskGroupDTO
	err := c.do(ctx, http.MethodPatch, projectPath(projectID, "task-groups", url.PathEscape(groupID)), true, req, &out)
	return out, err
}

func (c *Client) DeleteTaskGroup(ctx context.Context, projectID, groupID string) error {
	return c.do(ctx, http.MethodDelete, projectPath(projectID, "task-groups", url.PathEscape(groupID)), true, nil, nil)
}
