package optimistic

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/yukikurage/project-board/internal/dto"
	"github.com/yukikurage/project-board/internal/tasktree"
)

var errBoom = errors.New("remote unavailable")

// fakeRemote keeps a flat server-side copy of one project.
type fakeRemote struct {
	mu       sync.Mutex
	project  dto.ProjectDTO
	tasks    []dto.TaskDTO
	fetches  int
	created  int
	fail     error
	// failOnly limits fail to writes with this name when set.
	failOnly string
	calls    []string
	updates  []dto.UpdateTaskRequest
	reorders [][]dto.ReorderItem
	// inFlight runs while a write is being "sent", before it returns.
	inFlight func()
}

func newFakeRemote(project dto.ProjectDTO) *fakeRemote {
	flat := tasktree.Collect(project.Tasks)
	project.Tasks = nil
	return &fakeRemote{project: project, tasks: flat}
}

func (f *fakeRemote) write(name string) error {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	hook, fail := f.inFlight, f.fail
	if f.failOnly != "" && f.failOnly != name {
		fail = nil
	}
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return fail
}

func (f *fakeRemote) callNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeRemote) GetProject(_ context.Context, projectID string) (dto.ProjectDTO, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if projectID != f.project.ID {
		return dto.ProjectDTO{}, fmt.Errorf("project %s not found", projectID)
	}
	p := f.project
	p.Tasks = tasktree.Nest(f.tasks)
	return p, nil
}

func (f *fakeRemote) CreateTask(_ context.Context, _ string, req dto.CreateTaskRequest) (dto.TaskDTO, error) {
	if err := f.write("create_task"); err != nil {
		return dto.TaskDTO{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created++
	group := req.TaskGroupID
	if req.ParentID != nil && group == nil {
		for _, t := range f.tasks {
			if t.ID == *req.ParentID {
				group = t.TaskGroupID
			}
		}
	}
	task := dto.TaskDTO{
		ID:          fmt.Sprintf("srv-%d", f.created),
		Title:       req.Title,
		Status:      "PENDING",
		TaskGroupID: group,
		ParentID:    req.ParentID,
	}
	f.tasks = append(f.tasks, task)
	return task, nil
}

func (f *fakeRemote) UpdateTask(_ context.Context, _ string, taskID string, req dto.UpdateTaskRequest) (dto.TaskDTO, error) {
	if err := f.write("update_task"); err != nil {
		return dto.TaskDTO{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, req)
	for i, t := range f.tasks {
		if t.ID != taskID {
			continue
		}
		updated := req.ApplyTo(t)
		if updated.ParentID != nil {
			if parent, ok := f.find(*updated.ParentID); ok {
				updated.TaskGroupID = parent.TaskGroupID
			}
		}
		f.tasks[i] = updated
		if !tasktree.SameID(t.TaskGroupID, updated.TaskGroupID) {
			f.regroupChildren(taskID, updated.TaskGroupID)
		}
		return updated, nil
	}
	return dto.TaskDTO{}, fmt.Errorf("task %s not found", taskID)
}

func (f *fakeRemote) find(id string) (dto.TaskDTO, bool) {
	for _, t := range f.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return dto.TaskDTO{}, false
}

func (f *fakeRemote) regroupChildren(parentID string, groupID *string) {
	for i, t := range f.tasks {
		if t.ParentID != nil && *t.ParentID == parentID {
			f.tasks[i].TaskGroupID = groupID
			f.regroupChildren(t.ID, groupID)
		}
	}
}

// server returns the server-side record of id.
func (f *fakeRemote) server(id string) dto.TaskDTO {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, _ := f.find(id)
	return t
}

func (f *fakeRemote) DeleteTask(_ context.Context, _ string, taskID string) error {
	return f.write("delete_task")
}

func (f *fakeRemote) ReorderTasks(_ context.Context, _ string, items []dto.ReorderItem) error {
	if err := f.write("reorder_tasks"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reorders = append(f.reorders, items)
	return nil
}

func (f *fakeRemote) CreateTaskGroup(_ context.Context, projectID string, req dto.CreateTaskGroupRequest) (dto.TaskGroupDTO, error) {
	if err := f.write("create_task_group"); err != nil {
		return dto.TaskGroupDTO{}, err
	}
	return dto.TaskGroupDTO{ID: "grp-srv", Name: req.Name, ProjectID: projectID, IsVisible: true}, nil
}

func (f *fakeRemote) UpdateTaskGroup(_ context.Context, projectID, groupID string, req dto.UpdateTaskGroupRequest) (dto.TaskGroupDTO, error) {
	if err := f.write("update_task_group"); err != nil {
		return dto.TaskGroupDTO{}, err
	}
	return req.ApplyTo(dto.TaskGroupDTO{ID: groupID, ProjectID: projectID}), nil
}

func (f *fakeRemote) DeleteTaskGroup(_ context.Context, _ string, _ string) error {
	return f.write("delete_task_group")
}
