package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/olegsavin/taskboard/internal/domain"
	"github.com/olegsavin/taskboard/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRepository implements Repository for testing.
type mockRepository struct {
	tasks         map[string]*domain.Task
	createTaskErr error
	byUser        map[string][]*domain.TaskWithAssignee
	withAssignees []*domain.TaskWithAssignee
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		tasks:  make(map[string]*domain.Task),
		byUser: make(map[string][]*domain.TaskWithAssignee),
	}
}

func (m *mockRepository) CreateTask(_ context.Context, task *domain.Task) error {
	if m.createTaskErr != nil {
		return m.createTaskErr
	}
	m.tasks[task.ID] = task
	return nil
}

func (m *mockRepository) ListWithAssignees(_ context.Context) ([]*domain.TaskWithAssignee, error) {
	return m.withAssignees, nil
}

func (m *mockRepository) ListByUser(_ context.Context, userID string) ([]*domain.TaskWithAssignee, error) {
	return m.byUser[userID], nil
}

func (m *mockRepository) UpdateDeadline(_ context.Context, taskID string, deadline time.Time) error {
	task, ok := m.tasks[taskID]
	if !ok {
		return ErrTaskNotFound
	}
	task.Deadline = &deadline
	return nil
}

func (m *mockRepository) UpdateStatus(_ context.Context, taskID string, status domain.TaskStatus) error {
	task, ok := m.tasks[taskID]
	if !ok {
		return ErrTaskNotFound
	}
	task.Status = status
	return nil
}

func (m *mockRepository) DeleteTask(_ context.Context, taskID string) error {
	if _, ok := m.tasks[taskID]; !ok {
		return ErrTaskNotFound
	}
	delete(m.tasks, taskID)
	return nil
}

// mockDirectory implements UserDirectory for testing.
type mockDirectory struct {
	users map[string]*domain.User
}

func newMockDirectory(users ...*domain.User) *mockDirectory {
	m := &mockDirectory{users: make(map[string]*domain.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockDirectory) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, identity.ErrUserNotFound
}

// mockNotifier implements Notifier and records every delivery.
type mockNotifier struct {
	err      error
	calls    int
	lastUser *domain.User
	lastTask *domain.Task
}

func (m *mockNotifier) NotifyAssignment(_ context.Context, user *domain.User, task *domain.Task) error {
	m.calls++
	m.lastUser = user
	m.lastTask = task
	return m.err
}

func testAssignee() *domain.User {
	return &domain.User{
		ID:    "user-1",
		Email: "assignee@example.com",
		Name:  "Assignee",
		Role:  domain.RoleUser,
	}
}

func TestCreateTask_SendsExactlyOneNotification(t *testing.T) {
	repo := newMockRepository()
	assignee := testAssignee()
	notifier := &mockNotifier{}
	service := NewService(repo, newMockDirectory(assignee), notifier)

	result, err := service.CreateTask(context.Background(), CreateTaskInput{
		Title:      "Write report",
		AssignedTo: assignee.ID,
	})

	require.NoError(t, err)
	require.NotNil(t, result.Task)
	assert.NoError(t, result.NotificationErr)

	assert.Equal(t, 1, notifier.calls)
	assert.Equal(t, assignee.Email, notifier.lastUser.Email)
	assert.Equal(t, result.Task.ID, notifier.lastTask.ID)
}

func TestCreateTask_DefaultsStatusToPending(t *testing.T) {
	repo := newMockRepository()
	assignee := testAssignee()
	service := NewService(repo, newMockDirectory(assignee), &mockNotifier{})

	result, err := service.CreateTask(context.Background(), CreateTaskInput{
		Title:      "No status given",
		AssignedTo: assignee.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusPending, result.Task.Status)

	result, err = service.CreateTask(context.Background(), CreateTaskInput{
		Title:      "Explicit status",
		Status:     domain.TaskStatusInProgress,
		AssignedTo: assignee.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusInProgress, result.Task.Status)
}

func TestCreateTask_UnknownAssignee(t *testing.T) {
	repo := newMockRepository()
	notifier := &mockNotifier{}
	service := NewService(repo, newMockDirectory(), notifier)

	result, err := service.CreateTask(context.Background(), CreateTaskInput{
		Title:      "Orphan task",
		AssignedTo: "missing-user",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAssigneeNotFound)
	assert.Nil(t, result)
	// The assignee check happens before the insert, so nothing persists
	// and nothing is sent.
	assert.Empty(t, repo.tasks)
	assert.Zero(t, notifier.calls)
}

func TestCreateTask_NotificationFailureDoesNotRollBack(t *testing.T) {
	repo := newMockRepository()
	assignee := testAssignee()
	notifier := &mockNotifier{err: errors.New("smtp down")}
	service := NewService(repo, newMockDirectory(assignee), notifier)

	result, err := service.CreateTask(context.Background(), CreateTaskInput{
		Title:      "Still created",
		AssignedTo: assignee.ID,
	})

	require.NoError(t, err)
	require.NotNil(t, result.Task)
	assert.Error(t, result.NotificationErr)
	assert.Contains(t, repo.tasks, result.Task.ID)
	assert.Equal(t, 1, notifier.calls)
}

func TestCreateTask_RepositoryFailureSkipsNotification(t *testing.T) {
	repo := newMockRepository()
	repo.createTaskErr = errors.New("insert failed")
	assignee := testAssignee()
	notifier := &mockNotifier{}
	service := NewService(repo, newMockDirectory(assignee), notifier)

	_, err := service.CreateTask(context.Background(), CreateTaskInput{
		Title:      "Never stored",
		AssignedTo: assignee.ID,
	})

	require.Error(t, err)
	assert.Zero(t, notifier.calls)
}

func TestUpdateDeadline(t *testing.T) {
	repo := newMockRepository()
	assignee := testAssignee()
	service := NewService(repo, newMockDirectory(assignee), &mockNotifier{})

	result, err := service.CreateTask(context.Background(), CreateTaskInput{
		Title:      "Dated",
		AssignedTo: assignee.ID,
	})
	require.NoError(t, err)

	deadline := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, service.UpdateDeadline(context.Background(), result.Task.ID, deadline))
	require.NotNil(t, repo.tasks[result.Task.ID].Deadline)
	assert.Equal(t, deadline, *repo.tasks[result.Task.ID].Deadline)

	err = service.UpdateDeadline(context.Background(), "missing-task", deadline)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestUpdateStatus(t *testing.T) {
	repo := newMockRepository()
	assignee := testAssignee()
	service := NewService(repo, newMockDirectory(assignee), &mockNotifier{})

	result, err := service.CreateTask(context.Background(), CreateTaskInput{
		Title:      "Progressing",
		AssignedTo: assignee.ID,
	})
	require.NoError(t, err)

	require.NoError(t, service.UpdateStatus(context.Background(), result.Task.ID, domain.TaskStatusDone))
	assert.Equal(t, domain.TaskStatusDone, repo.tasks[result.Task.ID].Status)

	err = service.UpdateStatus(context.Background(), "missing-task", domain.TaskStatusDone)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestDeleteTask(t *testing.T) {
	repo := newMockRepository()
	assignee := testAssignee()
	service := NewService(repo, newMockDirectory(assignee), &mockNotifier{})

	result, err := service.CreateTask(context.Background(), CreateTaskInput{
		Title:      "Short lived",
		AssignedTo: assignee.ID,
	})
	require.NoError(t, err)

	require.NoError(t, service.DeleteTask(context.Background(), result.Task.ID))
	assert.Empty(t, repo.tasks)

	err = service.DeleteTask(context.Background(), result.Task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}
