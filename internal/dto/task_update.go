package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yukikurage/project-board/internal/models"
)

// UpdateTaskRequest is a partial task update. A nil pointer leaves the field
// alone; the Clear flags send an explicit JSON null.
type UpdateTaskRequest struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	StartDate   *time.Time
	EndDate     *time.Time
	TaskGroupID *string
	ParentID    *string
	AssigneeID  *string

	ClearDescription bool
	ClearPriority    bool
	ClearStartDate   bool
	ClearEndDate     bool
	ClearTaskGroup   bool
	ClearParent      bool
	ClearAssignee    bool
}

// ChangesParent reports whether the request touches parentId
func (r UpdateTaskRequest) ChangesParent() bool {
	return r.ParentID != nil || r.ClearParent
}

// ChangesGroup reports whether the request touches taskGroupId
func (r UpdateTaskRequest) ChangesGroup() bool {
	return r.TaskGroupID != nil || r.ClearTaskGroup
}

// NewParentID returns the parent the request moves the task under (nil = top level).
// Only meaningful when ChangesParent is true.
func (r UpdateTaskRequest) NewParentID() *string {
	if r.ClearParent {
		return nil
	}
	return r.ParentID
}

// NewTaskGroupID returns the group the request moves the task to (nil = ungrouped).
// Only meaningful when ChangesGroup is true.
func (r UpdateTaskRequest) NewTaskGroupID() *string {
	if r.ClearTaskGroup {
		return nil
	}
	return r.TaskGroupID
}

// IsEmpty reports whether the request changes nothing
func (r UpdateTaskRequest) IsEmpty() bool {
	b, _ := r.MarshalJSON()
	return bytes.Equal(b, []byte("{}"))
}

// ApplyTo returns t with the request's fields applied. Children are kept.
func (r UpdateTaskRequest) ApplyTo(t TaskDTO) TaskDTO {
	if r.Title != nil {
		t.Title = *r.Title
	}
	if r.Status != nil {
		t.Status = *r.Status
	}
	t.Description = pick(t.Description, r.Description, r.ClearDescription)
	t.Priority = pick(t.Priority, r.Priority, r.ClearPriority)
	t.StartDate = pick(t.StartDate, r.StartDate, r.ClearStartDate)
	t.EndDate = pick(t.EndDate, r.EndDate, r.ClearEndDate)
	t.TaskGroupID = pick(t.TaskGroupID, r.TaskGroupID, r.ClearTaskGroup)
	t.ParentID = pick(t.ParentID, r.ParentID, r.ClearParent)
	if r.ClearAssignee {
		t.Assignee = nil
	} else if r.AssigneeID != nil && (t.Assignee == nil || t.Assignee.ID != *r.AssigneeID) {
		// Only the id is known locally; the server fills in the rest.
		t.Assignee = &AssigneeDTO{ID: *r.AssigneeID}
	}
	return t
}

func pick[T any](current, next *T, clear bool) *T {
	if clear {
		return nil
	}
	if next != nil {
		return next
	}
	return current
}

// MarshalJSON writes only the fields that are set, with null for cleared ones
func (r UpdateTaskRequest) MarshalJSON() ([]byte, error) {
	out := make(map[string]any)
	put := func(key string, value any, isSet, clear bool) {
		switch {
		case clear:
			out[key] = nil
		case isSet:
			out[key] = value
		}
	}

	put("title", r.Title, r.Title != nil, false)
	put("status", r.Status, r.Status != nil, false)
	put("description", r.Description, r.Description != nil, r.ClearDescription)
	put("priority", r.Priority, r.Priority != nil, r.ClearPriority)
	put("startDate", r.StartDate, r.StartDate != nil, r.ClearStartDate)
	put("endDate", r.EndDate, r.EndDate != nil, r.ClearEndDate)
	put("taskGroupId", r.TaskGroupID, r.TaskGroupID != nil, r.ClearTaskGroup)
	put("parentId", r.ParentID, r.ParentID != nil, r.ClearParent)
	put("assigneeId", r.AssigneeID, r.AssigneeID != nil, r.ClearAssignee)

	return json.Marshal(out)
}

// UnmarshalJSON reads a partial update, telling absent keys from explicit nulls
func (r *UpdateTaskRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = UpdateTaskRequest{}
	fields := []struct {
		key   string
		dest  any
		clear *bool
	}{
		{"title", &r.Title, nil},
		{"status", &r.Status, nil},
		{"description", &r.Description, &r.ClearDescription},
		{"priority", &r.Priority, &r.ClearPriority},
		{"startDate", &r.StartDate, &r.ClearStartDate},
		{"endDate", &r.EndDate, &r.ClearEndDate},
		{"taskGroupId", &r.TaskGroupID, &r.ClearTaskGroup},
		{"parentId", &r.ParentID, &r.ClearParent},
		{"assigneeId", &r.AssigneeID, &r.ClearAssignee},
	}

	for _, f := range fields {
		value, ok := raw[f.key]
		if !ok {
			continue
		}
		if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			if f.clear != nil {
				*f.clear = true
			}
			continue
		}
		if err := json.Unmarshal(value, f.dest); err != nil {
			return fmt.Errorf("invalid %s: %w", f.key, err)
		}
	}

	return nil
}
