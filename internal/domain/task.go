package domain

import "time"

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusInProgress TaskStatus = "InProgress"
	TaskStatusDone       TaskStatus = "Done"
)

type Task struct {
	ID          string
	Title       string
	Description string
	Deadline    *time.Time
	Status      TaskStatus
	AssignedTo  string
	CreatedAt   time.Time
}

// TaskWithAssignee is a task row joined with its assigned user.
// Assignee fields are nil when the assignment no longer resolves.
type TaskWithAssignee struct {
	TaskID        string     `json:"task_id"`
	Title         string     `json:"title"`
	Description   *string    `json:"description"`
	Deadline      *string    `json:"deadline"`
	Status        TaskStatus `json:"status"`
	UserID        *string    `json:"user_id"`
	AssignedUser  *string    `json:"assigned_user"`
	AssignedEmail *string    `json:"assigned_email"`
}
