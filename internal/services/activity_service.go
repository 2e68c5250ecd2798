package services

import (
	"log/slog"

	"github.com/yukikurage/project-board/internal/models"
	"github.com/yukikurage/project-board/internal/repository"
)

// ActivityRecorder appends entries to a project's activity feed. A failed
// write is logged and does not fail the mutation that caused it.
type ActivityRecorder struct {
	repo   repository.ActivityRepository
	logger *slog.Logger
}

func NewActivityRecorder(repo repository.ActivityRepository, logger *slog.Logger) *ActivityRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityRecorder{repo: repo, logger: logger}
}

func (r *ActivityRecorder) Record(projectID, userID string, kind models.ActivityType, action models.ActivityAction, description string) {
	activity := &models.Activity{
		ProjectID: projectID,
		UserID:    userID,
		Type:      kind,
		Action:    action,
	}
	if description != "" {
		activity.Description = &description
	}

	if err := r.repo.Create(activity); err != nil {
		r.logger.Warn("failed to record activity",
			"project_id", projectID,
			"type", kind,
			"action", action,
			"error", err,
		)
	}
}
