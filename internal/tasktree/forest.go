package tasktree

import (
	"math"
	"sort"

	"github.com/yukikurage/project-board/internal/dto"
	"github.com/yukikurage/project-board/internal/models"
)

// Group is one tree of the forest. ID is nil for the synthetic ungrouped
// bucket, which has no Info.
type Group struct {
	ID    *string
	Info  *dto.TaskGroupDTO
	Tasks []dto.TaskDTO
}

// Name returns the group's display name.
func (g Group) Name() string {
	if g.Info != nil {
		return g.Info.Name
	}
	if g.ID != nil {
		return *g.ID
	}
	return "Ungrouped"
}

// Forest is the per-group view of a project's tasks.
type Forest struct {
	Groups []Group
}

// Ungrouped returns the synthetic bucket.
func (f Forest) Ungrouped() Group {
	for _, g := range f.Groups {
		if g.ID == nil {
			return g
		}
	}
	return Group{}
}

// Group returns the bucket for id (nil = ungrouped).
func (f Forest) Group(id *string) (Group, bool) {
	for _, g := range f.Groups {
		if sameID(g.ID, id) {
			return g, true
		}
	}
	return Group{}, false
}

// BuildForest buckets flat tasks by TaskGroupID and nests each bucket by
// ParentID. Buckets follow the groups' OrderIndex with the ungrouped bucket
// last; tasks naming an unknown group go to the ungrouped bucket. When groups
// is nil the buckets come from the tasks themselves in first-seen order.
//
// A task whose parent is missing or lives in another bucket becomes a root.
// Records keep their own ParentID and TaskGroupID, so Flatten gives them back.
func BuildForest(flat []dto.TaskDTO, groups []dto.TaskGroupDTO) Forest {
	var order []*string
	known := make(map[string]*dto.TaskGroupDTO)

	if groups != nil {
		sorted := make([]dto.TaskGroupDTO, len(groups))
		copy(sorted, groups)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].OrderIndex < sorted[j].OrderIndex
		})
		for i := range sorted {
			g := &sorted[i]
			known[g.ID] = g
			id := g.ID
			order = append(order, &id)
		}
	} else {
		for _, t := range flat {
			if t.TaskGroupID == nil {
				continue
			}
			if _, seen := known[*t.TaskGroupID]; !seen {
				known[*t.TaskGroupID] = nil
				id := *t.TaskGroupID
				order = append(order, &id)
			}
		}
	}

	buckets := make(map[string][]dto.TaskDTO)
	var ungrouped []dto.TaskDTO
	for _, t := range flat {
		if t.TaskGroupID != nil {
			if _, ok := known[*t.TaskGroupID]; ok {
				buckets[*t.TaskGroupID] = append(buckets[*t.TaskGroupID], t)
				continue
			}
		}
		ungrouped = append(ungrouped, t)
	}

	forest := Forest{Groups: make([]Group, 0, len(order)+1)}
	for _, id := range order {
		forest.Groups = append(forest.Groups, Group{
			ID:    id,
			Info:  known[*id],
			Tasks: Nest(buckets[*id]),
		})
	}
	forest.Groups = append(forest.Groups, Group{Tasks: Nest(ungrouped)})
	return forest
}

// Flatten is the inverse of BuildForest: a pre-order list of every task with
// Children cleared.
func Flatten(forest Forest) []dto.TaskDTO {
	var out []dto.TaskDTO
	for _, g := range forest.Groups {
		out = append(out, Collect(g.Tasks)...)
	}
	return out
}

// Collect lists a nested tree in pre-order with Children cleared.
func Collect(tasks []dto.TaskDTO) []dto.TaskDTO {
	var out []dto.TaskDTO
	var walk func([]dto.TaskDTO)
	walk = func(list []dto.TaskDTO) {
		for _, t := range list {
			children := t.Children
			t.Children = nil
			out = append(out, t)
			walk(children)
		}
	}
	walk(tasks)
	return out
}

// Nest builds parent/child nesting from ParentID. Siblings are ordered by
// OrderIndex, ties (and missing indexes, which sort last) keep list order.
// Tasks caught in a parent cycle are promoted to roots so none is lost.
func Nest(flat []dto.TaskDTO) []dto.TaskDTO {
	if len(flat) == 0 {
		return nil
	}

	byID := make(map[string]int, len(flat))
	for i, t := range flat {
		if _, dup := byID[t.ID]; !dup {
			byID[t.ID] = i
		}
	}

	children := make(map[int][]int)
	var roots []int
	for i, t := range flat {
		if t.ParentID != nil {
			if p, ok := byID[*t.ParentID]; ok && p != i {
				children[p] = append(children[p], i)
				continue
			}
		}
		roots = append(roots, i)
	}

	visited := make([]bool, len(flat))
	var build func(i int) dto.TaskDTO
	build = func(i int) dto.TaskDTO {
		visited[i] = true
		t := flat[i]
		t.Children = nil
		kids := sortedByOrder(flat, children[i])
		for _, k := range kids {
			if !visited[k] {
				t.Children = append(t.Children, build(k))
			}
		}
		return t
	}

	var out []dto.TaskDTO
	for _, r := range sortedByOrder(flat, roots) {
		out = append(out, build(r))
	}
	for i := range flat {
		if !visited[i] {
			out = append(out, build(i))
		}
	}
	return out
}

func sortedByOrder(flat []dto.TaskDTO, indexes []int) []int {
	out := make([]int, len(indexes))
	copy(out, indexes)
	key := func(i int) int {
		if flat[i].OrderIndex == nil {
			return math.MaxInt
		}
		return *flat[i].OrderIndex
	}
	sort.SliceStable(out, func(a, b int) bool {
		return key(out[a]) < key(out[b])
	})
	return out
}

// Progress is the share of completed tasks in whole percent, rounded down.
// tasks may be flat or nested.
func Progress(tasks []dto.TaskDTO) int {
	all := Collect(tasks)
	if len(all) == 0 {
		return 0
	}
	done := 0
	for _, t := range all {
		if t.Status == models.TaskStatusCompleted {
			done++
		}
	}
	return done * 100 / len(all)
}
