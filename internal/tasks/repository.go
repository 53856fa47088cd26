package tasks

import (
	"context"
	"time"

	"github.com/olegsavin/taskboard/internal/domain"
)

// Repository defines the interface for task storage.
type Repository interface {
	CreateTask(ctx context.Context, task *domain.Task) error
	ListWithAssignees(ctx context.Context) ([]*domain.TaskWithAssignee, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.TaskWithAssignee, error)
	UpdateDeadline(ctx context.Context, taskID string, deadline time.Time) error
	UpdateStatus(ctx context.Context, taskID string, status domain.TaskStatus) error
	DeleteTask(ctx context.Context, taskID string) error
}
