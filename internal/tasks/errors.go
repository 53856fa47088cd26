package tasks

import "errors"

var (
	ErrTaskNotFound     = errors.New("Task not found")
	ErrAssigneeNotFound = errors.New("Assigned user not found")
)
