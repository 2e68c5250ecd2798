package board

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-board/internal/dragdrop"
	"github.com/yukikurage/project-board/internal/dto"
	"github.com/yukikurage/project-board/internal/logging"
	"github.com/yukikurage/project-board/internal/optimistic"
	"github.com/yukikurage/project-board/internal/tasktree"
)

type stubRemote struct {
	mu      sync.Mutex
	tasks   []dto.TaskDTO
	groups  []dto.TaskGroupDTO
	fail    error
	writes  []string
	updates []dto.UpdateTaskRequest
}

func (r *stubRemote) record(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = append(r.writes, name)
	return r.fail
}

func (r *stubRemote) GetProject(_ context.Context, projectID string) (dto.ProjectDTO, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return dto.ProjectDTO{ID: projectID, Tasks: tasktree.Nest(r.tasks), TaskGroups: r.groups}, nil
}

func (r *stubRemote) CreateTask(context.Context, string, dto.CreateTaskRequest) (dto.TaskDTO, error) {
	return dto.TaskDTO{}, r.record("create_task")
}

func (r *stubRemote) UpdateTask(_ context.Context, _ string, taskID string, req dto.UpdateTaskRequest) (dto.TaskDTO, error) {
	if err := r.record("update_task"); err != nil {
		return dto.TaskDTO{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, req)
	for i, t := range r.tasks {
		if t.ID == taskID {
			r.tasks[i] = req.ApplyTo(t)
			return r.tasks[i], nil
		}
	}
	return dto.TaskDTO{}, errors.New("not found")
}

func (r *stubRemote) DeleteTask(context.Context, string, string) error {
	return r.record("delete_task")
}

func (r *stubRemote) ReorderTasks(context.Context, string, []dto.ReorderItem) error {
	return r.record("reorder_tasks")
}

func (r *stubRemote) CreateTaskGroup(context.Context, string, dto.CreateTaskGroupRequest) (dto.TaskGroupDTO, error) {
	return dto.TaskGroupDTO{}, r.record("create_task_group")
}

func (r *stubRemote) UpdateTaskGroup(context.Context, string, string, dto.UpdateTaskGroupRequest) (dto.TaskGroupDTO, error) {
	return dto.TaskGroupDTO{}, r.record("update_task_group")
}

func (r *stubRemote) DeleteTaskGroup(context.Context, string, string) error {
	return r.record("delete_task_group")
}

func ref(s string) *string {
	return &s
}

type fixture struct {
	remote  *stubRemote
	syncer  *optimistic.Syncer
	session *Session
	logs    *bytes.Buffer
}

// a -> b, and c at the top level, all ungrouped; group g1 exists but is empty.
func newFixture(t *testing.T) fixture {
	t.Helper()
	remote := &stubRemote{
		tasks: []dto.TaskDTO{
			{ID: "a", Title: "a"},
			{ID: "b", Title: "b", ParentID: ref("a")},
			{ID: "c", Title: "c"},
		},
		groups: []dto.TaskGroupDTO{{ID: "g1", Name: "Stage"}},
	}
	logs := &bytes.Buffer{}
	logger := logging.NewLogger(logging.Options{Level: "debug", Writer: logs})
	syncer := optimistic.NewSyncer(remote, nil, logger)
	return fixture{
		remote:  remote,
		syncer:  syncer,
		session: NewSession("p1", syncer, logger),
		logs:    logs,
	}
}

func (f fixture) task(t *testing.T, id string) dto.TaskDTO {
	t.Helper()
	p, ok := f.syncer.Snapshot("p1")
	require.True(t, ok)
	task, ok := tasktree.Find(p.Tasks, id)
	require.True(t, ok)
	return task
}

func TestSession_DropOnCenterNests(t *testing.T) {
	f := newFixture(t)

	f.session.PickUp("c")
	require.NoError(t, f.session.HoverTask("a", 25, dragdrop.Rect{Top: 0, Height: 50}))
	assert.Equal(t, dragdrop.PositionCenter, f.session.Highlight().Position)

	intent, err := f.session.Release(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dragdrop.IntentNest, intent.Kind)

	c := f.task(t, "c")
	require.NotNil(t, c.ParentID)
	assert.Equal(t, "a", *c.ParentID)
	p, _ := f.syncer.Snapshot("p1")
	assert.Equal(t, 1, tasktree.DepthOf("c", tasktree.NewLookup(p.Tasks)))
	assert.Equal(t, Highlight{}, f.session.Highlight(), "highlight is cleared on release")
}

func TestSession_CycleRejectedAndLogged(t *testing.T) {
	f := newFixture(t)
	_, err := f.syncer.Load(context.Background(), "p1")
	require.NoError(t, err)
	before, _ := f.syncer.Snapshot("p1")

	f.session.PickUp("a")
	require.NoError(t, f.session.HoverTaskAt("b", dragdrop.PositionCenter))
	intent, err := f.session.Release(context.Background())

	require.NoError(t, err)
	assert.Equal(t, dragdrop.IntentNone, intent.Kind)
	after, _ := f.syncer.Snapshot("p1")
	assert.Equal(t, before.Tasks, after.Tasks)
	assert.Empty(t, f.remote.writes)
	assert.Contains(t, f.logs.String(), `"msg":"drop rejected"`)
	assert.Contains(t, f.logs.String(), `"target_id":"b"`)
}

func TestSession_SelfDropIsNoop(t *testing.T) {
	f := newFixture(t)

	f.session.PickUp("c")
	require.NoError(t, f.session.HoverTaskAt("c", dragdrop.PositionBottom))
	intent, err := f.session.Release(context.Background())

	require.NoError(t, err)
	assert.Equal(t, dragdrop.IntentNone, intent.Kind)
	assert.Empty(t, f.remote.writes)
}

func TestSession_DropOnGroupRegroupsAndLifts(t *testing.T) {
	f := newFixture(t)

	f.session.PickUp("b")
	require.NoError(t, f.session.HoverGroup(ref("g1")))
	assert.Equal(t, dragdrop.PositionNone, f.session.Highlight().Position)
	_, err := f.session.Release(context.Background())
	require.NoError(t, err)

	b := f.task(t, "b")
	assert.Nil(t, b.ParentID)
	require.NotNil(t, b.TaskGroupID)
	assert.Equal(t, "g1", *b.TaskGroupID)
	require.Len(t, f.remote.updates, 1)
	assert.True(t, f.remote.updates[0].ClearParent)
}

func TestSession_EdgeDropMovesAsSibling(t *testing.T) {
	f := newFixture(t)

	f.session.PickUp("c")
	require.NoError(t, f.session.HoverTask("b", 49, dragdrop.Rect{Top: 0, Height: 50}))
	_, err := f.session.Release(context.Background())
	require.NoError(t, err)

	a := f.task(t, "a")
	assert.Equal(t, []string{"b", "c"}, []string{a.Children[0].ID, a.Children[1].ID})
	assert.Equal(t, []string{"update_task", "reorder_tasks"}, f.remote.writes)
}

func TestSession_RemoteFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	f.remote.fail = errors.New("offline")

	f.session.PickUp("c")
	require.NoError(t, f.session.HoverTaskAt("a", dragdrop.PositionCenter))
	_, err := f.session.Release(context.Background())

	assert.EqualError(t, err, "offline")
	assert.Nil(t, f.task(t, "c").ParentID)
}

func TestSession_CancelAndEmptyDrop(t *testing.T) {
	f := newFixture(t)

	f.session.PickUp("c")
	f.session.Cancel()
	assert.Equal(t, Highlight{}, f.session.Highlight())

	f.session.PickUp("c")
	require.NoError(t, f.session.Leave())
	intent, err := f.session.Release(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dragdrop.IntentNone, intent.Kind)
	assert.Empty(t, f.remote.writes)
}

func TestSession_ReleaseWithoutPickUp(t *testing.T) {
	f := newFixture(t)

	_, err := f.session.Release(context.Background())
	assert.ErrorIs(t, err, dragdrop.ErrNotDragging)
}
