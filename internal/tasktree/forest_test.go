package tasktree

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-board/internal/dto"
	"github.com/yukikurage/project-board/internal/models"
)

type structural struct {
	id, parent, group string
}

func shape(tasks []dto.TaskDTO) []structural {
	out := make([]structural, len(tasks))
	for i, t := range tasks {
		s := structural{id: t.ID}
		if t.ParentID != nil {
			s.parent = *t.ParentID
		}
		if t.TaskGroupID != nil {
			s.group = *t.TaskGroupID
		}
		out[i] = s
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

func TestBuildForest_GroupsAndNesting(t *testing.T) {
	flat := []dto.TaskDTO{
		newTask("a", "", "g1"),
		newTask("b", "a", "g1"),
		newTask("c", "", ""),
		newTask("d", "", "g2"),
	}
	groups := []dto.TaskGroupDTO{
		{ID: "g2", Name: "Second", OrderIndex: 1},
		{ID: "g1", Name: "First", OrderIndex: 0},
	}

	forest := BuildForest(flat, groups)
	require.Len(t, forest.Groups, 3)

	assert.Equal(t, "First", forest.Groups[0].Name())
	assert.Equal(t, []string{"a"}, ids(forest.Groups[0].Tasks))
	assert.Equal(t, []string{"b"}, ids(forest.Groups[0].Tasks[0].Children))
	assert.Equal(t, "Second", forest.Groups[1].Name())
	assert.Nil(t, forest.Groups[2].ID)
	assert.Equal(t, []string{"c"}, ids(forest.Ungrouped().Tasks))
}

func TestBuildForest_OrderIndexWithStableTies(t *testing.T) {
	a := newTask("a", "", "")
	a.OrderIndex = intPtr(1)
	b := newTask("b", "", "")
	b.OrderIndex = intPtr(0)
	c := newTask("c", "", "")
	c.OrderIndex = intPtr(1)
	d := newTask("d", "", "")

	forest := BuildForest([]dto.TaskDTO{a, b, c, d}, nil)

	assert.Equal(t, []string{"b", "a", "c", "d"}, ids(forest.Ungrouped().Tasks))
}

func TestBuildForest_UnknownGroupGoesUngrouped(t *testing.T) {
	forest := BuildForest([]dto.TaskDTO{newTask("a", "", "gone")}, []dto.TaskGroupDTO{})

	require.Len(t, forest.Groups, 1)
	assert.Equal(t, []string{"a"}, ids(forest.Ungrouped().Tasks))
}

func TestBuildForest_ParentInOtherGroupBecomesRoot(t *testing.T) {
	forest := BuildForest([]dto.TaskDTO{
		newTask("a", "", "g1"),
		newTask("b", "a", "g2"),
	}, nil)

	g2, ok := forest.Group(strPtr("g2"))
	require.True(t, ok)
	assert.Equal(t, []string{"b"}, ids(g2.Tasks))
}

func TestBuildForest_FlattenRoundTrip(t *testing.T) {
	flat := []dto.TaskDTO{
		newTask("a", "", "g1"),
		newTask("b", "a", "g1"),
		newTask("c", "b", "g1"),
		newTask("d", "", ""),
		newTask("e", "d", ""),
		newTask("f", "missing", ""),
		newTask("g", "a", "g2"),
		newTask("h", "i", ""),
		newTask("i", "h", ""),
	}
	groups := []dto.TaskGroupDTO{{ID: "g1", Name: "One"}}

	for _, gs := range [][]dto.TaskGroupDTO{groups, nil} {
		out := Flatten(BuildForest(flat, gs))
		assert.Equal(t, shape(flat), shape(out))
		for _, task := range out {
			assert.Nil(t, task.Children)
		}
	}
}

func TestNest_OrphanAndCycle(t *testing.T) {
	tree := Nest([]dto.TaskDTO{
		newTask("x", "ghost", ""),
		newTask("h", "i", ""),
		newTask("i", "h", ""),
	})

	all := Collect(tree)
	assert.ElementsMatch(t, []string{"x", "h", "i"}, ids(all))
	assert.Contains(t, ids(tree), "x")
}

func TestProgress(t *testing.T) {
	tree := sampleTree()
	assert.Equal(t, 0, Progress(tree))

	tree, _ = Update(tree, "d", func(task dto.TaskDTO) dto.TaskDTO {
		task.Status = models.TaskStatusCompleted
		return task
	})
	assert.Equal(t, 25, Progress(tree))
	assert.Equal(t, 0, Progress(nil))
}
