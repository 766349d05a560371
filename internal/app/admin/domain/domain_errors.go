package domain

import (
	"errors"
	"fmt"
)

// Admin user domain errors
var (
	ErrAdminNotFound    = errors.New("admin user not found")
	ErrEmailTaken       = errors.New("email already in use")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrEmptyName        = errors.New("admin name cannot be empty")
	ErrInvalidRole      = errors.New("invalid role")
	ErrWeakPassword     = errors.New("password must be at least 8 characters")
	ErrWrongPassword    = errors.New("wrong password")
	ErrAdminInactive    = errors.New("admin user is inactive")
	ErrPermissionDenied = errors.New("permission denied")
)

// PermissionError reports which actor was denied which action.
type PermissionError struct {
	ActorID string
	Role    Role
	Action  Action
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("admin %s (%s) is not allowed to %s", e.ActorID, e.Role, e.Action)
}

// Is makes errors.Is(err, ErrPermissionDenied) work for typed denials.
func (e *PermissionError) Is(target error) bool {
	return target == ErrPermissionDenied
}
