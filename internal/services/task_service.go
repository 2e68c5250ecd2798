package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yukikurage/project-board/internal/constants"
	"github.com/yukikurage/project-board/internal/dto"
	"github.com/yukikurage/project-board/internal/models"
	"github.com/yukikurage/project-board/internal/repository"
	"github.com/yukikurage/project-board/internal/tasktree"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrTitleRequired     = errors.New("title is required")
	ErrTitleTooLong      = errors.New("title is too long")
	ErrInvalidTaskStatus = errors.New("invalid task status")
	ErrInvalidPriority   = errors.New("invalid task priority")
	ErrAssigneeNotFound  = errors.New("assignee not found")
	ErrInvalidReorder    = errors.New("reorder batch names a task outside the project")
	ErrInvalidOperation  = errors.New("invalid task operation")
	ErrParentNotFound    = fmt.Errorf("%w: parent task not found in project", ErrInvalidOperation)
	ErrUnknownTaskGroup  = fmt.Errorf("%w: task group not found in project", ErrInvalidOperation)
	ErrSelfParent        = fmt.Errorf("%w: task cannot be its own parent", ErrInvalidOperation)
	ErrTaskCycle         = fmt.Errorf("%w: task cannot move under its own descendant", ErrInvalidOperation)
	ErrTaskDepthExceeded = fmt.Errorf("%w: maximum nesting depth exceeded", ErrInvalidOperation)
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo   repository.TaskRepository
	groupRepo  repository.TaskGroupRepository
	userRepo   repository.UserRepository
	activities *ActivityRecorder
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, groupRepo repository.TaskGroupRepository, userRepo repository.UserRepository, activities *ActivityRecorder) *TaskService {
	return &TaskService{
		taskRepo:   taskRepo,
		groupRepo:  groupRepo,
		userRepo:   userRepo,
		activities: activities,
	}
}

// CreateTask appends a task as the last sibling under its parent (or group).
// A subtask takes its parent's group.
func (s *TaskService) CreateTask(projectID, actorID string, req dto.CreateTaskRequest) (*models.Task, error) {
	title, err := validTitle(req.Title)
	if err != nil {
		return nil, err
	}

	status := models.TaskStatusPending
	if req.Status != nil {
		status = *req.Status
	}
	if err := validateEnums(&status, req.Priority); err != nil {
		return nil, err
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, ErrInvalidDateRange
	}
	if err := s.ensureAssignee(req.AssigneeID); err != nil {
		return nil, err
	}

	groupID := req.TaskGroupID
	if req.ParentID != nil {
		parent, err := s.taskRepo.FindByID(projectID, *req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, fmt.Errorf("failed to find parent task: %w", err)
		}

		lookup, err := s.lookup(projectID)
		if err != nil {
			return nil, err
		}
		if tasktree.DepthOf(parent.ID, lookup)+1 > tasktree.MaxDepth {
			return nil, ErrTaskDepthExceeded
		}
		groupID = parent.TaskGroupID
	} else if err := s.ensureGroup(projectID, groupID); err != nil {
		return nil, err
	}

	siblings, err := s.taskRepo.CountSiblings(projectID, req.ParentID, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to count sibling tasks: %w", err)
	}

	task := &models.Task{
		ProjectID:   projectID,
		Title:       title,
		Description: req.Description,
		Status:      status,
		Priority:    req.Priority,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		TaskGroupID: groupID,
		ParentID:    req.ParentID,
		OrderIndex:  int(siblings),
		AssigneeID:  req.AssigneeID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.activities.Record(projectID, actorID, models.ActivityTypeTask, models.ActivityCreated,
		fmt.Sprintf("created task %q", task.Title))

	return s.taskRepo.FindByID(projectID, task.ID)
}

// UpdateTask applies a partial update. A move to another parent or group is
// validated against the project's tree and appends the task at the end of
// its new sibling list; a group change carries the whole subtree along.
func (s *TaskService) UpdateTask(projectID, taskID, actorID string, req dto.UpdateTaskRequest) (*models.Task, error) {
	task, err := s.findTask(projectID, taskID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title, err := validTitle(*req.Title)
		if err != nil {
			return nil, err
		}
		task.Title = title
	}
	if err := validateEnums(req.Status, req.Priority); err != nil {
		return nil, err
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if err := s.ensureAssignee(req.AssigneeID); err != nil {
		return nil, err
	}

	task.Description = pick(task.Description, req.Description, req.ClearDescription)
	task.Priority = pick(task.Priority, req.Priority, req.ClearPriority)
	task.StartDate = pick(task.StartDate, req.StartDate, req.ClearStartDate)
	task.EndDate = pick(task.EndDate, req.EndDate, req.ClearEndDate)
	task.AssigneeID = pick(task.AssigneeID, req.AssigneeID, req.ClearAssignee)
	if task.StartDate != nil && task.EndDate != nil && task.EndDate.Before(*task.StartDate) {
		return nil, ErrInvalidDateRange
	}

	var descendants []string
	if req.ChangesParent() || req.ChangesGroup() {
		descendants, err = s.relocate(task, req)
		if err != nil {
			return nil, err
		}
	}

	if err := s.taskRepo.Update(task, descendants); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.activities.Record(projectID, actorID, models.ActivityTypeTask, models.ActivityUpdated,
		fmt.Sprintf("updated task %q", task.Title))

	return s.taskRepo.FindByID(projectID, task.ID)
}

// relocate validates and applies a parent or group change to task. It returns
// the descendant ids whose group must follow.
func (s *TaskService) relocate(task *models.Task, req dto.UpdateTaskRequest) ([]string, error) {
	all, err := s.taskRepo.ListByProject(task.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load task tree: %w", err)
	}
	flat := dto.ToTaskDTOs(all)

	parentID := task.ParentID
	if req.ChangesParent() {
		parentID = req.NewParentID()
		if err := tasktree.CheckReparent(task.ID, parentID, tasktree.NewLookup(flat)); err != nil {
			return nil, treeError(err)
		}
	}

	groupID := task.TaskGroupID
	if req.ChangesGroup() {
		groupID = req.NewTaskGroupID()
	}
	if parentID != nil {
		for _, t := range flat {
			if t.ID == *parentID {
				groupID = t.TaskGroupID
				break
			}
		}
	} else if err := s.ensureGroup(task.ProjectID, groupID); err != nil {
		return nil, err
	}

	moved := !tasktree.SameID(parentID, task.ParentID) ||
		(parentID == nil && !tasktree.SameID(groupID, task.TaskGroupID))
	if moved {
		siblings, err := s.taskRepo.CountSiblings(task.ProjectID, parentID, groupID)
		if err != nil {
			return nil, fmt.Errorf("failed to count sibling tasks: %w", err)
		}
		task.OrderIndex = int(siblings)
	}

	var descendants []string
	if !tasktree.SameID(groupID, task.TaskGroupID) {
		descendants = descendantIDs(flat, task.ID)
	}

	task.ParentID = parentID
	task.TaskGroupID = groupID
	return descendants, nil
}

// ReorderTasks writes a batch of sibling positions in one transaction
func (s *TaskService) ReorderTasks(projectID, actorID string, items []dto.ReorderItem) error {
	if err := s.taskRepo.Reorder(projectID, items); err != nil {
		if errors.Is(err, repository.ErrForeignTask) {
			return ErrInvalidReorder
		}
		return fmt.Errorf("failed to reorder tasks: %w", err)
	}

	if len(items) > 0 {
		s.activities.Record(projectID, actorID, models.ActivityTypeTask, models.ActivityReordered,
			fmt.Sprintf("reordered %d tasks", len(items)))
	}
	return nil
}

// DeleteTask deletes a task together with its descendants
func (s *TaskService) DeleteTask(projectID, taskID, actorID string) error {
	task, err := s.findTask(projectID, taskID)
	if err != nil {
		return err
	}

	all, err := s.taskRepo.ListByProject(projectID)
	if err != nil {
		return fmt.Errorf("failed to load task tree: %w", err)
	}
	ids := append([]string{task.ID}, descendantIDs(dto.ToTaskDTOs(all), task.ID)...)

	if err := s.taskRepo.DeleteMany(projectID, ids); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.activities.Record(projectID, actorID, models.ActivityTypeTask, models.ActivityDeleted,
		fmt.Sprintf("deleted task %q", task.Title))
	return nil
}

func (s *TaskService) findTask(projectID, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(projectID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func (s *TaskService) lookup(projectID string) (tasktree.Lookup, error) {
	all, err := s.taskRepo.ListByProject(projectID)
	if err != nil {
		return tasktree.Lookup{}, fmt.Errorf("failed to load task tree: %w", err)
	}
	return tasktree.NewLookup(dto.ToTaskDTOs(all)), nil
}

func (s *TaskService) ensureGroup(projectID string, groupID *string) error {
	if groupID == nil {
		return nil
	}
	if _, err := s.groupRepo.FindByID(projectID, *groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnknownTaskGroup
		}
		return fmt.Errorf("failed to find task group: %w", err)
	}
	return nil
}

func (s *TaskService) ensureAssignee(assigneeID *string) error {
	if assigneeID == nil {
		return nil
	}
	if _, err := s.userRepo.FindByID(*assigneeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssigneeNotFound
		}
		return fmt.Errorf("failed to find assignee: %w", err)
	}
	return nil
}

func validTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	switch {
	case title == "":
		return "", ErrTitleRequired
	case utf8.RuneCountInString(title) > constants.MaxTitleLength:
		return "", ErrTitleTooLong
	}
	return title, nil
}

func validateEnums(status *models.TaskStatus, priority *models.TaskPriority) error {
	if status != nil && !status.Valid() {
		return ErrInvalidTaskStatus
	}
	if priority != nil && !priority.Valid() {
		return ErrInvalidPriority
	}
	return nil
}

// treeError maps a tasktree rejection onto the service's sentinels
func treeError(err error) error {
	switch {
	case errors.Is(err, tasktree.ErrSelfDrop):
		return ErrSelfParent
	case errors.Is(err, tasktree.ErrCycle):
		return ErrTaskCycle
	case errors.Is(err, tasktree.ErrDepthExceeded):
		return ErrTaskDepthExceeded
	case errors.Is(err, tasktree.ErrTaskNotFound):
		return ErrTaskNotFound
	default:
		return ErrParentNotFound
	}
}

// descendantIDs lists every task below id in the flat list
func descendantIDs(flat []dto.TaskDTO, id string) []string {
	node, ok := tasktree.Find(tasktree.Nest(flat), id)
	if !ok {
		return nil
	}
	var ids []string
	for _, t := range tasktree.Collect(node.Children) {
		ids = append(ids, t.ID)
	}
	return ids
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
