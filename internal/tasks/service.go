// Package tasks implements task management and assignment notification.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/olegsavin/taskboard/internal/domain"
	"github.com/olegsavin/taskboard/internal/identity"
	"github.com/olegsavin/taskboard/internal/pkg/ctxlog"
)

// UserDirectory resolves assignees. Backed by the identity repository.
type UserDirectory interface {
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
}

// Notifier delivers the assignment email to a task's assignee.
type Notifier interface {
	NotifyAssignment(ctx context.Context, user *domain.User, task *domain.Task) error
}

// Service implements task business logic.
type Service struct {
	repo     Repository
	users    UserDirectory
	notifier Notifier
}

// NewService creates a new task service.
func NewService(repo Repository, users UserDirectory, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		notifier: notifier,
	}
}

// CreateTaskInput holds data for creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	Deadline    *time.Time
	Status      domain.TaskStatus
	AssignedTo  string
}

// CreateTaskResult separates the persisted task from the notification
// outcome, so "task created, email failed" is observable as such.
type CreateTaskResult struct {
	Task            *domain.Task
	NotificationErr error
}

// CreateTask validates the assignee, inserts the task and sends the
// assignment email. The assignee lookup happens before the insert, so a
// missing user never leaves a task row behind. A failed send does not
// roll anything back; it is reported in the result.
func (s *Service) CreateTask(ctx context.Context, input CreateTaskInput) (*CreateTaskResult, error) {
	assignee, err := s.users.GetUserByID(ctx, input.AssignedTo)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return nil, ErrAssigneeNotFound
		}
		return nil, fmt.Errorf("lookup assignee: %w", err)
	}

	status := input.Status
	if status == "" {
		status = domain.TaskStatusPending
	}

	task := &domain.Task{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Description: input.Description,
		Deadline:    input.Deadline,
		Status:      status,
		AssignedTo:  assignee.ID,
	}

	if err := s.repo.CreateTask(ctx, task); err != nil {
		return nil, err
	}

	result := &CreateTaskResult{Task: task}
	if err := s.notifier.NotifyAssignment(ctx, assignee, task); err != nil {
		ctxlog.FromContext(ctx).Error("assignment notification failed",
			"task_id", task.ID,
			"assignee", assignee.ID,
			"error", err,
		)
		result.NotificationErr = err
	}
	return result, nil
}

// ListWithAssignees returns all tasks joined with their assignees.
// Tasks whose assignee no longer resolves still appear, with empty
// assignee fields. Newest first.
func (s *Service) ListWithAssignees(ctx context.Context) ([]*domain.TaskWithAssignee, error) {
	return s.repo.ListWithAssignees(ctx)
}

// ListByUser returns the tasks assigned to one user, newest first.
// Only tasks with a resolvable assignee are included.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]*domain.TaskWithAssignee, error) {
	return s.repo.ListByUser(ctx, userID)
}

// UpdateDeadline sets a task's deadline.
func (s *Service) UpdateDeadline(ctx context.Context, taskID string, deadline time.Time) error {
	return s.repo.UpdateDeadline(ctx, taskID, deadline)
}

// UpdateStatus sets a task's status. The status set is open-ended, so
// no enum check happens here; only existence of the task is enforced.
func (s *Service) UpdateStatus(ctx context.Context, taskID string, status domain.TaskStatus) error {
	return s.repo.UpdateStatus(ctx, taskID, status)
}

// DeleteTask removes a task by id.
func (s *Service) DeleteTask(ctx context.Context, taskID string) error {
	return s.repo.DeleteTask(ctx, taskID)
}
