package identity

import "errors"

var (
	ErrUserNotFound       = errors.New("User not found")
	ErrEmailExists        = errors.New("Email already registered")
	ErrInvalidCredentials = errors.New("Invalid email or password")
)
