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
	"gorm.io/gorm"
)

var (
	ErrTaskGroupNotFound = errors.New("task group not found")
	ErrGroupNameRequired = errors.New("task group name is required")
	ErrGroupNameTooLong  = errors.New("task group name is too long")
)

// TaskGroupService handles task group business logic
type TaskGroupService struct {
	groupRepo  repository.TaskGroupRepository
	activities *ActivityRecorder
}

func NewTaskGroupService(groupRepo repository.TaskGroupRepository, activities *ActivityRecorder) *TaskGroupService {
	return &TaskGroupService{groupRepo: groupRepo, activities: activities}
}

// CreateTaskGroup appends a visible group after the existing ones
func (s *TaskGroupService) CreateTaskGroup(projectID, actorID string, req dto.CreateTaskGroupRequest) (*models.TaskGroup, error) {
	name, err := validGroupName(req.Name)
	if err != nil {
		return nil, err
	}

	count, err := s.groupRepo.Count(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to count task groups: %w", err)
	}

	group := &models.TaskGroup{
		ProjectID:   projectID,
		Name:        name,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
		OrderIndex:  int(count),
		IsVisible:   true,
	}
	if err := s.groupRepo.Create(group); err != nil {
		return nil, fmt.Errorf("failed to create task group: %w", err)
	}

	s.activities.Record(projectID, actorID, models.ActivityTypeTaskGroup, models.ActivityCreated,
		fmt.Sprintf("created task group %q", group.Name))
	return group, nil
}

func (s *TaskGroupService) UpdateTaskGroup(projectID, groupID, actorID string, req dto.UpdateTaskGroupRequest) (*models.TaskGroup, error) {
	group, err := s.findGroup(projectID, groupID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name, err := validGroupName(*req.Name)
		if err != nil {
			return nil, err
		}
		req.Name = &name
	}

	updated := req.ApplyTo(dto.ToTaskGroupDTO(*group))
	group.Name = updated.Name
	group.Description = updated.Description
	group.Color = updated.Color
	group.Icon = updated.Icon
	group.OrderIndex = updated.OrderIndex
	group.IsVisible = updated.IsVisible

	if err := s.groupRepo.Update(group); err != nil {
		return nil, fmt.Errorf("failed to update task group: %w", err)
	}

	s.activities.Record(projectID, actorID, models.ActivityTypeTaskGroup, models.ActivityUpdated,
		fmt.Sprintf("updated task group %q", group.Name))
	return group, nil
}

// DeleteTaskGroup removes the group; its tasks become ungrouped
func (s *TaskGroupService) DeleteTaskGroup(projectID, groupID, actorID string) error {
	group, err := s.findGroup(projectID, groupID)
	if err != nil {
		return err
	}

	if err := s.groupRepo.Delete(projectID, group.ID); err != nil {
		return fmt.Errorf("failed to delete task group: %w", err)
	}

	s.activities.Record(projectID, actorID, models.ActivityTypeTaskGroup, models.ActivityDeleted,
		fmt.Sprintf("deleted task group %q", group.Name))
	return nil
}

func (s *TaskGroupService) findGroup(projectID, groupID string) (*models.TaskGroup, error) {
	group, err := s.groupRepo.FindByID(projectID, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskGroupNotFound
		}
		return nil, fmt.Errorf("failed to find task group: %w", err)
	}
	return group, nil
}

func validGroupName(name string) (string, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return "", ErrGroupNameRequired
	case utf8.RuneCountInString(name) > constants.MaxGroupNameLength:
		return "", ErrGroupNameTooLong
	}
	return name, nil
}
