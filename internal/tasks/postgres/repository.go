// Package postgres provides PostgreSQL implementation of the tasks repository.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/olegsavin/taskboard/internal/domain"
	"github.com/olegsavin/taskboard/internal/tasks"
)

// Repository implements tasks.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateTask inserts a new task.
func (r *Repository) CreateTask(ctx context.Context, task *domain.Task) error {
	query := `
		INSERT INTO tasks (id, title, description, deadline, status, assigned_to)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query,
		task.ID,
		task.Title,
		nullIfEmpty(task.Description),
		task.Deadline,
		task.Status,
		task.AssignedTo,
	).Scan(&task.CreatedAt)

	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// ListWithAssignees retrieves all tasks joined with their assignees.
// LEFT JOIN keeps tasks whose assignee is gone; their assignee columns
// come back NULL.
func (r *Repository) ListWithAssignees(ctx context.Context) ([]*domain.TaskWithAssignee, error) {
	query := `
		SELECT
			t.id,
			t.title,
			t.description,
			to_char(t.deadline, 'YYYY-MM-DD'),
			t.status,
			u.id,
			u.name,
			u.email
		FROM tasks t
		LEFT JOIN users u ON t.assigned_to = u.id
		ORDER BY t.created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	return scanTaskRows(rows)
}

// ListByUser retrieves tasks assigned to one user. INNER JOIN drops
// tasks with no resolvable assignee.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]*domain.TaskWithAssignee, error) {
	query := `
		SELECT
			t.id,
			t.title,
			t.description,
			to_char(t.deadline, 'YYYY-MM-DD'),
			t.status,
			u.id,
			u.name,
			u.email
		FROM tasks t
		JOIN users u ON t.assigned_to = u.id
		WHERE u.id = $1
		ORDER BY t.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks by user: %w", err)
	}
	defer rows.Close()

	return scanTaskRows(rows)
}

// UpdateDeadline sets a task's deadline.
func (r *Repository) UpdateDeadline(ctx context.Context, taskID string, deadline time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE tasks SET deadline = $1 WHERE id = $2`, deadline, taskID)
	if err != nil {
		return fmt.Errorf("update deadline: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tasks.ErrTaskNotFound
	}
	return nil
}

// UpdateStatus sets a task's status.
func (r *Repository) UpdateStatus(ctx context.Context, taskID string, status domain.TaskStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE tasks SET status = $1 WHERE id = $2`, status, taskID)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tasks.ErrTaskNotFound
	}
	return nil
}

// DeleteTask removes a task by id.
func (r *Repository) DeleteTask(ctx context.Context, taskID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, taskID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tasks.ErrTaskNotFound
	}
	return nil
}

func scanTaskRows(rows pgx.Rows) ([]*domain.TaskWithAssignee, error) {
	result := make([]*domain.TaskWithAssignee, 0)
	for rows.Next() {
		var t domain.TaskWithAssignee
		err := rows.Scan(
			&t.TaskID,
			&t.Title,
			&t.Description,
			&t.Deadline,
			&t.Status,
			&t.UserID,
			&t.AssignedUser,
			&t.AssignedEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		result = append(result, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return result, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
