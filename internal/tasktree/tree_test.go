package tasktree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-board/internal/dto"
)

func TestFind_Nested(t *testing.T) {
	tree := sampleTree()

	found, ok := Find(tree, "d")
	require.True(t, ok)
	assert.Equal(t, "d", found.ID)

	_, ok = Find(tree, "missing")
	assert.False(t, ok)
}

func TestFindAndRemove_RemovesSubtree(t *testing.T) {
	tree := sampleTree()

	out, removed := FindAndRemove(tree, "b")
	require.NotNil(t, removed)
	assert.Equal(t, "b", removed.ID)
	assert.Equal(t, []string{"d"}, ids(removed.Children))

	a, ok := Find(out, "a")
	require.True(t, ok)
	assert.Nil(t, a.Children, "emptied children collapse to nil")
	_, ok = Find(out, "d")
	assert.False(t, ok)
}

func TestFindAndRemove_NotFound(t *testing.T) {
	tree := sampleTree()

	out, removed := FindAndRemove(tree, "zzz")
	assert.Nil(t, removed)
	assert.Equal(t, tree, out)
}

func TestFindAndRemove_LeavesInputIntact(t *testing.T) {
	tree := sampleTree()
	before := Collect(tree)

	_, _ = FindAndRemove(tree, "d")

	assert.Equal(t, before, Collect(tree))
}

func TestInsertUnderParent(t *testing.T) {
	tree := sampleTree()
	x := newTask("x", "b", "")

	out, ok := InsertUnderParent(tree, x, strPtr("b"))
	require.True(t, ok)
	b, _ := Find(out, "b")
	assert.Equal(t, []string{"d", "x"}, ids(b.Children))

	// The original tree is a valid snapshot still.
	b, _ = Find(tree, "b")
	assert.Equal(t, []string{"d"}, ids(b.Children))
}

func TestInsertUnderParent_TopLevel(t *testing.T) {
	out, ok := InsertUnderParent(sampleTree(), newTask("x", "", ""), nil)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "c", "x"}, ids(out))
}

func TestInsertUnderParent_MissingParent(t *testing.T) {
	tree := sampleTree()

	out, ok := InsertUnderParent(tree, newTask("x", "nope", ""), strPtr("nope"))
	assert.False(t, ok)
	assert.Equal(t, tree, out)
}

func TestInsertUnderParent_DoesNotAliasSpareCapacity(t *testing.T) {
	base := make([]dto.TaskDTO, 1, 4)
	base[0] = newTask("a", "", "")

	first, _ := InsertUnderParent(base, newTask("x", "", ""), nil)
	second, _ := InsertUnderParent(base, newTask("y", "", ""), nil)

	assert.Equal(t, []string{"a", "x"}, ids(first))
	assert.Equal(t, []string{"a", "y"}, ids(second))
}

func TestInsertBeside(t *testing.T) {
	tree := sampleTree()

	before, ok := InsertBeside(tree, newTask("x", "a", ""), "b", false)
	require.True(t, ok)
	a, _ := Find(before, "a")
	assert.Equal(t, []string{"x", "b"}, ids(a.Children))

	after, ok := InsertBeside(tree, newTask("y", "", ""), "a", true)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "y", "c"}, ids(after))
}

func TestUpdateSubtree(t *testing.T) {
	out, ok := UpdateSubtree(sampleTree(), "a", func(task dto.TaskDTO) dto.TaskDTO {
		task.TaskGroupID = strPtr("g1")
		return task
	})
	require.True(t, ok)

	for _, id := range []string{"a", "b", "d"} {
		task, _ := Find(out, id)
		require.NotNil(t, task.TaskGroupID, id)
		assert.Equal(t, "g1", *task.TaskGroupID, id)
	}
	c, _ := Find(out, "c")
	assert.Nil(t, c.TaskGroupID)
}

func TestReorderSiblings(t *testing.T) {
	// [a,b,c] reordered to [c,a,b]
	out := ReorderSiblings([]dto.TaskDTO{newTask("c", "", ""), newTask("a", "", ""), newTask("b", "", "")})

	got := map[string]int{}
	for _, task := range out {
		got[task.ID] = *task.OrderIndex
	}
	assert.Equal(t, map[string]int{"c": 0, "a": 1, "b": 2}, got)
}

func TestApplyOrder_TopLevel(t *testing.T) {
	tree := Nest([]dto.TaskDTO{newTask("a", "", ""), newTask("b", "", ""), newTask("c", "", "")})

	out, items, err := ApplyOrder(tree, []string{"c", "a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, ids(out))
	assert.Equal(t, []dto.ReorderItem{{ID: "c", OrderIndex: 0}, {ID: "a", OrderIndex: 1}, {ID: "b", OrderIndex: 2}}, items)
	for i, task := range out {
		assert.Equal(t, i, *task.OrderIndex)
	}
}

func TestApplyOrder_Children(t *testing.T) {
	tree := Nest([]dto.TaskDTO{
		newTask("p", "", ""),
		newTask("x", "p", ""),
		newTask("y", "p", ""),
	})

	out, _, err := ApplyOrder(tree, []string{"y", "x"})
	require.NoError(t, err)
	p, _ := Find(out, "p")
	assert.Equal(t, []string{"y", "x"}, ids(p.Children))
}

func TestApplyOrder_MixedParentsRejected(t *testing.T) {
	tree := sampleTree()

	out, items, err := ApplyOrder(tree, []string{"a", "b"})
	assert.ErrorIs(t, err, ErrRejected)
	assert.Nil(t, items)
	assert.Equal(t, tree, out)
}

func TestApplyOrder_MixedGroupsRejected(t *testing.T) {
	tree := Nest([]dto.TaskDTO{
		newTask("a", "", "g1"),
		newTask("b", "", "g2"),
		newTask("c", "", "g1"),
	})

	out, items, err := ApplyOrder(tree, []string{"b", "a"})
	assert.ErrorIs(t, err, ErrStaleReference)
	assert.Nil(t, items)
	assert.Equal(t, tree, out)

	_, items, err = ApplyOrder(tree, []string{"c", "a"})
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestApplyOrder_UnknownTask(t *testing.T) {
	_, _, err := ApplyOrder(sampleTree(), []string{"a", "ghost"})
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestSiblingsOf(t *testing.T) {
	tree := Nest([]dto.TaskDTO{
		newTask("a", "", "g1"),
		newTask("b", "", "g2"),
		newTask("c", "", "g1"),
		newTask("d", "a", "g1"),
	})

	roots, ok := SiblingsOf(tree, "c")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "c"}, ids(roots))

	kids, ok := SiblingsOf(tree, "d")
	require.True(t, ok)
	assert.Equal(t, []string{"d"}, ids(kids))
}
