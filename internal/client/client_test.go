package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-board/internal/dto"
	"github.com/yukikurage/project-board/internal/optimistic"
)

var _ optimistic.Remote = (*Client)(nil)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, StaticToken("secret-token-123"))
}

func TestClient_SendsBearerToken(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret-token-123", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/auth/me", r.URL.Path)
		_ = json.NewEncoder(w).Encode(dto.UserDTO{ID: "u1", Email: "a@example.com", Name: "Ann"})
	})

	user, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
}

func TestClient_LoginIsUnauthenticated(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@example.com", body["email"])
		_ = json.NewEncoder(w).Encode(dto.LoginResponse{Token: "tok"})
	})

	resp, err := c.Login(context.Background(), "a@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)
}

func TestClient_UpdateTaskSendsNulls(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/projects/p1/tasks/t1", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body, "parentId")
		assert.Nil(t, body["parentId"])
		assert.Equal(t, "g1", body["taskGroupId"])
		assert.NotContains(t, body, "title")

		_ = json.NewEncoder(w).Encode(dto.TaskDTO{ID: "t1"})
	})

	group := "g1"
	task, err := c.UpdateTask(context.Background(), "p1", "t1", dto.UpdateTaskRequest{ClearParent: true, TaskGroupID: &group})
	require.NoError(t, err)
	assert.Equal(t, "t1", task.ID)
}

func TestClient_ReorderBody(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/projects/p1/tasks/reorder", r.URL.Path)
		var body dto.ReorderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []dto.ReorderItem{{ID: "c", OrderIndex: 0}, {ID: "a", OrderIndex: 1}}, body.Tasks)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message":"Tasks reordered successfully"}`))
	})

	err := c.ReorderTasks(context.Background(), "p1", []dto.ReorderItem{{ID: "c", OrderIndex: 0}, {ID: "a", OrderIndex: 1}})
	assert.NoError(t, err)
}

func TestClient_DecodesAPIError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"code":"INVALID_OPERATION","message":"maximum nesting depth exceeded"}`))
	})

	_, err := c.UpdateTask(context.Background(), "p1", "t1", dto.UpdateTaskRequest{})

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnprocessableEntity, httpErr.StatusCode)
	assert.Equal(t, "INVALID_OPERATION", httpErr.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, StatusCode(err))
}

func TestClient_PlainTextError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	err := c.DeleteTask(context.Background(), "p1", "t1")

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, "upstream down", httpErr.Message)
}

func TestClient_MissingToken(t *testing.T) {
	c := New("http://127.0.0.1:1", nil)

	_, err := c.GetProject(context.Background(), "p1")
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestClient_ContextCancel(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.GetProject(ctx, "p1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_ListProjectsQuery(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/organizations/o1/projects", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		_ = json.NewEncoder(w).Encode(dto.PaginatedProjects{Page: 2, Projects: []dto.ProjectSummaryDTO{{ID: "p1"}}})
	})

	page, err := c.ListProjects(context.Background(), "o1", 2, 10)
	require.NoError(t, err)
	assert.Len(t, page.Projects, 1)
}

func TestStaticToken_String(t *testing.T) {
	assert.Equal(t, "secr****", StaticToken("secret-token-123").String())
	assert.Equal(t, "****", StaticToken("short").String())
}
