package tasktree

import (
	"github.com/yukikurage/project-board/internal/dto"
	"github.com/yukikurage/project-board/internal/models"
)

func strPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

// newTask builds a flat task record; empty parent or group means none.
func newTask(id, parent, group string) dto.TaskDTO {
	t := dto.TaskDTO{ID: id, Title: "Task " + id, Status: models.TaskStatusPending}
	if parent != "" {
		t.ParentID = strPtr(parent)
	}
	if group != "" {
		t.TaskGroupID = strPtr(group)
	}
	return t
}

func ids(tasks []dto.TaskDTO) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

// sampleTree is a -> b -> d, plus c at the top level.
func sampleTree() []dto.TaskDTO {
	return Nest([]dto.TaskDTO{
		newTask("a", "", ""),
		newTask("b", "a", ""),
		newTask("c", "", ""),
		newTask("d", "b", ""),
	})
}
