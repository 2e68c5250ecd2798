package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/yukikurage/project-board/internal/dto"
	"github.com/yukikurage/project-board/internal/models"
	"github.com/yukikurage/project-board/internal/tasktree"
)

func renderTree(w io.Writer, project dto.ProjectDTO) error {
	out := bufio.NewWriter(w)
	fmt.Fprintf(out, "%s  (%d%% done)\n", project.Name, project.Progress)

	forest := tasktree.BuildForest(tasktree.Collect(project.Tasks), project.TaskGroups)
	for _, group := range forest.Groups {
		if group.ID == nil && len(group.Tasks) == 0 {
			continue
		}
		header := group.Name()
		if group.Info != nil && !group.Info.IsVisible {
			header += " (hidden)"
		}
		fmt.Fprintf(out, "\n== %s\n", header)
		if len(group.Tasks) == 0 {
			fmt.Fprintln(out, "  (empty)")
			continue
		}
		writeTasks(out, group.Tasks, 1)
	}
	return out.Flush()
}

func writeTasks(out io.Writer, tasks []dto.TaskDTO, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, t := range tasks {
		fmt.Fprintf(out, "%s%s %s  %s\n", indent, statusMark(t.Status), t.Title, t.ID)
		writeTasks(out, t.Children, depth+1)
	}
}

func statusMark(status models.TaskStatus) string {
	switch status {
	case models.TaskStatusCompleted:
		return "[x]"
	case models.TaskStatusInProgress, models.TaskStatusReview:
		return "[~]"
	case models.TaskStatusCancelled:
		return "[-]"
	}
	return "[ ]"
}
