package optimistic

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/project-board/internal/dto"
	"github.com/yukikurage/project-board/internal/models"
	"github.com/yukikurage/project-board/internal/tasktree"
)

const projectID = "p1"

func strPtr(s string) *string {
	return &s
}

func task(id, parent, group string, status models.TaskStatus) dto.TaskDTO {
	t := dto.TaskDTO{ID: id, Title: "Task " + id, Status: status}
	if parent != "" {
		t.ParentID = strPtr(parent)
	}
	if group != "" {
		t.TaskGroupID = strPtr(group)
	}
	return t
}

type SyncerTestSuite struct {
	suite.Suite
	ctx    context.Context
	remote *fakeRemote
	syncer *Syncer
}

func (suite *SyncerTestSuite) SetupTest() {
	suite.ctx = context.Background()
	// a -> b -> d and c at the top level; a, b and d live in g1
	suite.remote = newFakeRemote(dto.ProjectDTO{
		ID:   projectID,
		Name: "Launch",
		Tasks: []dto.TaskDTO{
			task("a", "", "g1", models.TaskStatusPending),
			task("b", "a", "g1", models.TaskStatusCompleted),
			task("c", "", "", models.TaskStatusInProgress),
			task("d", "b", "g1", models.TaskStatusPending),
		},
		TaskGroups: []dto.TaskGroupDTO{{ID: "g1", Name: "Venue", ProjectID: projectID}},
	})
	suite.syncer = NewSyncer(suite.remote, NewCache(time.Minute), nil)

	_, err := suite.syncer.Load(suite.ctx, projectID)
	suite.Require().NoError(err)
}

func (suite *SyncerTestSuite) snapshot() dto.ProjectDTO {
	p, ok := suite.syncer.Snapshot(projectID)
	suite.Require().True(ok)
	return p
}

func (suite *SyncerTestSuite) find(id string) dto.TaskDTO {
	t, ok := tasktree.Find(suite.snapshot().Tasks, id)
	suite.Require().True(ok, "task %s should be in the snapshot", id)
	return t
}

func (suite *SyncerTestSuite) TestLoad_UsesFreshCache() {
	_, err := suite.syncer.Load(suite.ctx, projectID)
	suite.NoError(err)
	suite.Equal(1, suite.remote.fetches)

	cache := suite.syncer.Cache()
	cache.nowFunc = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = suite.syncer.Load(suite.ctx, projectID)
	suite.NoError(err)
	suite.Equal(2, suite.remote.fetches)
}

func (suite *SyncerTestSuite) TestLoad_NestsTasks() {
	p := suite.snapshot()
	suite.Len(p.Tasks, 2)

	a := suite.find("a")
	suite.Require().Len(a.Children, 1)
	suite.Equal("b", a.Children[0].ID)
}

func (suite *SyncerTestSuite) TestMutationLoadsUncachedProject() {
	syncer := NewSyncer(suite.remote, nil, nil)

	res := syncer.ToggleStatus(suite.ctx, projectID, "c")
	suite.NoError(res.Err)
	_, ok := syncer.Snapshot(projectID)
	suite.True(ok)
}

func (suite *SyncerTestSuite) TestUpdateTask_AppliesBeforeServerAnswers() {
	title := "X"
	var during string
	suite.remote.inFlight = func() {
		during = suite.find("a").Title
	}

	res := suite.syncer.UpdateTask(suite.ctx, projectID, "a", dto.UpdateTaskRequest{Title: &title})

	suite.NoError(res.Err)
	suite.Equal("X", during)
	suite.Equal("X", res.Value.Title)
	suite.Equal("X", suite.find("a").Title)
}

func (suite *SyncerTestSuite) TestUpdateTask_RemoteFailureRestoresTitle() {
	suite.remote.fail = errBoom
	title := "X"

	res := suite.syncer.UpdateTask(suite.ctx, projectID, "a", dto.UpdateTaskRequest{Title: &title})

	suite.ErrorIs(res.Err, errBoom)
	suite.False(res.Rejected())
	suite.Require().NotNil(res.Previous)
	suite.Equal("Task a", suite.find("a").Title)
	original, _ := tasktree.Find(res.Previous.Tasks, "a")
	suite.Equal("Task a", original.Title)
}

func (suite *SyncerTestSuite) TestUpdateTask_MergeKeepsLaterLocalEdits() {
	title := "Renamed"
	note := "edited while saving"
	suite.remote.inFlight = func() {
		_, err := suite.syncer.Cache().Patch(projectID, func(p dto.ProjectDTO) (dto.ProjectDTO, error) {
			p.Tasks, _ = tasktree.Update(p.Tasks, "a", func(t dto.TaskDTO) dto.TaskDTO {
				t.Description = &note
				return t
			})
			return p, nil
		})
		suite.NoError(err)
	}

	res := suite.syncer.UpdateTask(suite.ctx, projectID, "a", dto.UpdateTaskRequest{Title: &title})

	suite.NoError(res.Err)
	a := suite.find("a")
	suite.Equal("Renamed", a.Title)
	suite.Require().NotNil(a.Description)
	suite.Equal(note, *a.Description)
	suite.Len(a.Children, 1, "children survive the merge")
}

func (suite *SyncerTestSuite) TestUpdateTask_ReparentMovesSubtree() {
	res := suite.syncer.UpdateTask(suite.ctx, projectID, "c", dto.UpdateTaskRequest{ParentID: strPtr("a")})

	suite.NoError(res.Err)
	c := suite.find("c")
	suite.Equal("a", *c.ParentID)
	suite.Equal(1, tasktree.DepthOf("c", tasktree.NewLookup(suite.snapshot().Tasks)))
	suite.Equal([]string{"b", "c"}, taskIDs(suite.find("a").Children))
}

func (suite *SyncerTestSuite) TestUpdateTask_CycleRejectedWithoutRemoteCall() {
	res := suite.syncer.UpdateTask(suite.ctx, projectID, "a", dto.UpdateTaskRequest{ParentID: strPtr("d")})

	suite.ErrorIs(res.Err, tasktree.ErrCycle)
	suite.True(res.Rejected())
	suite.Nil(res.Previous)
	suite.Empty(suite.remote.callNames())
	suite.Nil(suite.find("a").ParentID)
}

func (suite *SyncerTestSuite) TestUpdateTask_StaleGroupRejected() {
	res := suite.syncer.UpdateTask(suite.ctx, projectID, "c", dto.UpdateTaskRequest{TaskGroupID: strPtr("gone")})

	suite.ErrorIs(res.Err, tasktree.ErrStaleReference)
	suite.Empty(suite.remote.callNames())
}

func (suite *SyncerTestSuite) TestUpdateTask_ReparentTakesParentGroup() {
	res := suite.syncer.UpdateTask(suite.ctx, projectID, "b", dto.UpdateTaskRequest{ParentID: strPtr("c")})
	suite.Require().NoError(res.Err)
	for _, id := range []string{"b", "d"} {
		suite.Nil(suite.find(id).TaskGroupID, id)
		suite.Nil(suite.remote.server(id).TaskGroupID, id)
	}

	res = suite.syncer.UpdateTask(suite.ctx, projectID, "d", dto.UpdateTaskRequest{ParentID: strPtr("a")})
	suite.Require().NoError(res.Err)
	suite.Equal("g1", *suite.find("d").TaskGroupID)
	suite.Equal("g1", *suite.remote.server("d").TaskGroupID)
}

func (suite *SyncerTestSuite) TestUpdateTask_SubtaskGroupChangeRejected() {
	res := suite.syncer.UpdateTask(suite.ctx, projectID, "b", dto.UpdateTaskRequest{ClearTaskGroup: true})

	suite.ErrorIs(res.Err, ErrSubtaskGroup)
	suite.True(res.Rejected())
	suite.Empty(suite.remote.callNames())
	suite.Equal("g1", *suite.find("b").TaskGroupID)

	res = suite.syncer.UpdateTask(suite.ctx, projectID, "b", dto.UpdateTaskRequest{TaskGroupID: strPtr("g1"), Title: strPtr("Book hall")})
	suite.NoError(res.Err, "keeping the parent's group is allowed")
}

func (suite *SyncerTestSuite) TestUpdateTask_RegroupCascades() {
	res := suite.syncer.UpdateTask(suite.ctx, projectID, "a", dto.UpdateTaskRequest{ClearTaskGroup: true})

	suite.NoError(res.Err)
	for _, id := range []string{"a", "b", "d"} {
		suite.Nil(suite.find(id).TaskGroupID, id)
	}
}

func (suite *SyncerTestSuite) TestToggleStatus() {
	res := suite.syncer.ToggleStatus(suite.ctx, projectID, "b")
	suite.NoError(res.Err)
	suite.Equal(models.TaskStatusInProgress, suite.find("b").Status, "COMPLETED toggles back to IN_PROGRESS")

	res = suite.syncer.ToggleStatus(suite.ctx, projectID, "a")
	suite.NoError(res.Err)
	suite.Equal(models.TaskStatusCompleted, suite.find("a").Status)

	suite.Require().Len(suite.remote.updates, 2)
	suite.Equal(models.TaskStatusInProgress, *suite.remote.updates[0].Status)
	suite.Equal(models.TaskStatusCompleted, *suite.remote.updates[1].Status)
	suite.Equal(25, suite.snapshot().Progress)
}

func (suite *SyncerTestSuite) TestToggleStatus_FailureRestoresStatus() {
	suite.remote.fail = errBoom

	res := suite.syncer.ToggleStatus(suite.ctx, projectID, "c")

	suite.ErrorIs(res.Err, errBoom)
	suite.Equal(models.TaskStatusInProgress, suite.find("c").Status)
}

func (suite *SyncerTestSuite) TestMoveTask_BesideSubtask() {
	res := suite.syncer.MoveTask(suite.ctx, projectID, "c", "b", false)

	suite.Require().NoError(res.Err)
	suite.Equal([]dto.ReorderItem{{ID: "c", OrderIndex: 0}, {ID: "b", OrderIndex: 1}}, res.Value)
	suite.Equal([]string{"c", "b"}, taskIDs(suite.find("a").Children))
	suite.Equal("g1", *suite.find("c").TaskGroupID)

	suite.Equal([]string{"update_task", "reorder_tasks"}, suite.remote.callNames())
	suite.Equal("a", *suite.remote.updates[0].ParentID)
}

func (suite *SyncerTestSuite) TestMoveTask_SameListSendsOnlyReorder() {
	res := suite.syncer.MoveTask(suite.ctx, projectID, "c", "a", false)
	suite.Require().NoError(res.Err)
	suite.Equal([]string{"update_task", "reorder_tasks"}, suite.remote.callNames(), "c joins g1")
	suite.Equal([]string{"c", "a"}, taskIDs(suite.snapshot().Tasks))

	suite.remote.calls = nil
	res = suite.syncer.MoveTask(suite.ctx, projectID, "a", "c", false)
	suite.Require().NoError(res.Err)
	suite.Equal([]string{"reorder_tasks"}, suite.remote.callNames())
	suite.Equal([]string{"a", "c"}, taskIDs(suite.snapshot().Tasks))
}

func (suite *SyncerTestSuite) TestMoveTask_ReorderFailureRollsBack() {
	before := suite.snapshot()
	suite.remote.fail = errBoom

	res := suite.syncer.MoveTask(suite.ctx, projectID, "c", "b", true)

	suite.ErrorIs(res.Err, errBoom)
	suite.Equal(before.Tasks, suite.snapshot().Tasks)
}

func (suite *SyncerTestSuite) TestMoveTask_PartialFailureReloads() {
	suite.remote.fail = errBoom
	suite.remote.failOnly = "reorder_tasks"

	res := suite.syncer.MoveTask(suite.ctx, projectID, "c", "b", false)

	suite.ErrorIs(res.Err, errBoom)
	suite.NotNil(res.Previous)
	suite.Equal([]string{"update_task", "reorder_tasks"}, suite.remote.callNames())
	suite.Equal(2, suite.remote.fetches, "the project is fetched again")
	c := suite.find("c")
	suite.Require().NotNil(c.ParentID)
	suite.Equal("a", *c.ParentID, "the cache follows the parent the server kept")
	suite.Equal("g1", *c.TaskGroupID)
}

func (suite *SyncerTestSuite) TestMoveTask_ReorderOnlyFailureRestores() {
	created := suite.syncer.CreateTask(suite.ctx, projectID, dto.CreateTaskRequest{Title: "e", ParentID: strPtr("a")})
	suite.Require().NoError(created.Err)
	before := suite.snapshot()
	suite.remote.fail = errBoom
	suite.remote.failOnly = "reorder_tasks"

	res := suite.syncer.MoveTask(suite.ctx, projectID, "srv-1", "b", false)

	suite.ErrorIs(res.Err, errBoom)
	suite.Equal(1, suite.remote.fetches, "nothing reached the server, so the snapshot is restored")
	suite.Equal(before.Tasks, suite.snapshot().Tasks)
}

func (suite *SyncerTestSuite) TestReorderTasks() {
	res := suite.syncer.CreateTask(suite.ctx, projectID, dto.CreateTaskRequest{Title: "e", ParentID: strPtr("a")})
	suite.Require().NoError(res.Err)
	res = suite.syncer.CreateTask(suite.ctx, projectID, dto.CreateTaskRequest{Title: "f", ParentID: strPtr("a")})
	suite.Require().NoError(res.Err)

	reorder := suite.syncer.ReorderTasks(suite.ctx, projectID, []string{"srv-2", "b", "srv-1"})

	suite.Require().NoError(reorder.Err)
	suite.Equal([]string{"srv-2", "b", "srv-1"}, taskIDs(suite.find("a").Children))
	got := map[string]int{}
	for _, item := range reorder.Value {
		got[item.ID] = item.OrderIndex
	}
	suite.Equal(map[string]int{"srv-2": 0, "b": 1, "srv-1": 2}, got)
	suite.Len(suite.remote.reorders, 1)
}

func (suite *SyncerTestSuite) TestReorderTasks_MixedParentsRejected() {
	res := suite.syncer.ReorderTasks(suite.ctx, projectID, []string{"a", "d"})

	suite.True(res.Rejected())
	suite.Empty(suite.remote.reorders)
}

func (suite *SyncerTestSuite) TestReorderTasks_MixedGroupsRejected() {
	res := suite.syncer.ReorderTasks(suite.ctx, projectID, []string{"c", "a"})

	suite.ErrorIs(res.Err, tasktree.ErrStaleReference)
	suite.Empty(suite.remote.reorders)
	suite.Equal([]string{"a", "c"}, taskIDs(suite.snapshot().Tasks))
}

func (suite *SyncerTestSuite) TestCreateTask_TemporaryIDReplaced() {
	var tempID string
	suite.remote.inFlight = func() {
		for _, t := range suite.snapshot().Tasks {
			if IsTemporary(t.ID) {
				tempID = t.ID
			}
		}
	}

	res := suite.syncer.CreateTask(suite.ctx, projectID, dto.CreateTaskRequest{Title: "New"})

	suite.Require().NoError(res.Err)
	suite.NotEmpty(tempID, "optimistic task is visible while the create is in flight")
	suite.Equal("srv-1", res.Value.ID)
	_, stillTemp := tasktree.Find(suite.snapshot().Tasks, tempID)
	suite.False(stillTemp)
	suite.Equal([]string{"a", "c", "srv-1"}, taskIDs(suite.snapshot().Tasks))
}

func (suite *SyncerTestSuite) TestCreateTask_SubtaskInheritsGroup() {
	var group *string
	suite.remote.inFlight = func() {
		b := suite.find("b")
		for _, c := range b.Children {
			if IsTemporary(c.ID) {
				group = c.TaskGroupID
			}
		}
	}

	res := suite.syncer.CreateTask(suite.ctx, projectID, dto.CreateTaskRequest{Title: "sub", ParentID: strPtr("b")})

	suite.Require().NoError(res.Err)
	suite.Require().NotNil(group)
	suite.Equal("g1", *group)
}

func (suite *SyncerTestSuite) TestCreateTask_Rejections() {
	res := suite.syncer.CreateTask(suite.ctx, projectID, dto.CreateTaskRequest{Title: "too deep", ParentID: strPtr("d")})
	suite.ErrorIs(res.Err, tasktree.ErrDepthExceeded)

	res = suite.syncer.CreateTask(suite.ctx, projectID, dto.CreateTaskRequest{Title: "  "})
	suite.ErrorIs(res.Err, ErrEmptyTitle)

	res = suite.syncer.CreateTask(suite.ctx, projectID, dto.CreateTaskRequest{Title: "x", ParentID: strPtr("gone")})
	suite.ErrorIs(res.Err, tasktree.ErrStaleReference)

	suite.Empty(suite.remote.callNames())
}

func (suite *SyncerTestSuite) TestCreateTask_FailureRemovesOptimisticTask() {
	suite.remote.fail = errBoom

	res := suite.syncer.CreateTask(suite.ctx, projectID, dto.CreateTaskRequest{Title: "New"})

	suite.ErrorIs(res.Err, errBoom)
	suite.Len(tasktree.Collect(suite.snapshot().Tasks), 4)
}

func (suite *SyncerTestSuite) TestDeleteTask_RemovesSubtree() {
	res := suite.syncer.DeleteTask(suite.ctx, projectID, "a")

	suite.NoError(res.Err)
	suite.Equal([]string{"c"}, taskIDs(tasktree.Collect(suite.snapshot().Tasks)))

	res = suite.syncer.DeleteTask(suite.ctx, projectID, "a")
	suite.ErrorIs(res.Err, tasktree.ErrTaskNotFound)
}

func (suite *SyncerTestSuite) TestTaskGroups() {
	created := suite.syncer.CreateTaskGroup(suite.ctx, projectID, dto.CreateTaskGroupRequest{Name: "Catering"})
	suite.Require().NoError(created.Err)
	suite.Equal([]string{"g1", "grp-srv"}, groupIDs(suite.snapshot().TaskGroups))

	name := "Hall"
	updated := suite.syncer.UpdateTaskGroup(suite.ctx, projectID, "g1", dto.UpdateTaskGroupRequest{Name: &name})
	suite.Require().NoError(updated.Err)
	suite.Equal("Hall", suite.snapshot().TaskGroups[0].Name)

	deleted := suite.syncer.DeleteTaskGroup(suite.ctx, projectID, "g1")
	suite.Require().NoError(deleted.Err)
	suite.Equal([]string{"grp-srv"}, groupIDs(suite.snapshot().TaskGroups))
	for _, id := range []string{"a", "b", "d"} {
		suite.Nil(suite.find(id).TaskGroupID, "tasks of a deleted group become ungrouped")
	}
	suite.Len(tasktree.Collect(suite.snapshot().Tasks), 4)
}

func (suite *SyncerTestSuite) TestDeleteTaskGroup_FailureRestoresGroupAndTasks() {
	suite.remote.fail = errBoom

	res := suite.syncer.DeleteTaskGroup(suite.ctx, projectID, "g1")

	suite.ErrorIs(res.Err, errBoom)
	suite.Equal([]string{"g1"}, groupIDs(suite.snapshot().TaskGroups))
	suite.Equal("g1", *suite.find("d").TaskGroupID)
}

func (suite *SyncerTestSuite) TestUpdateTaskGroup_Missing() {
	name := "x"
	res := suite.syncer.UpdateTaskGroup(suite.ctx, projectID, "nope", dto.UpdateTaskGroupRequest{Name: &name})
	suite.ErrorIs(res.Err, tasktree.ErrStaleReference)
}

func (suite *SyncerTestSuite) TestPendingRecordsAreNotSent() {
	res := suite.syncer.UpdateTask(suite.ctx, projectID, "temp-123", dto.UpdateTaskRequest{})
	suite.ErrorIs(res.Err, tasktree.ErrTaskNotFound)

	res = suite.syncer.CreateTask(suite.ctx, projectID, dto.CreateTaskRequest{Title: "x", ParentID: strPtr("temp-1")})
	suite.ErrorIs(res.Err, ErrPendingReference)
}

func groupIDs(groups []dto.TaskGroupDTO) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.ID
	}
	return out
}

func TestSyncerTestSuite(t *testing.T) {
	suite.Run(t, new(SyncerTestSuite))
}
