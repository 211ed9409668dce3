package services

import (
	"errors"
	"fmt"
)

// Error kinds. Every error a service returns for a caller mistake wraps
// exactly one of these, so callers can classify with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation failed")
	ErrForbidden    = errors.New("forbidden")
)

var (
	ErrUserNotFound         = fmt.Errorf("user %w", ErrNotFound)
	ErrGroupNotFound        = fmt.Errorf("group %w", ErrNotFound)
	ErrTaskNotFound         = fmt.Errorf("task %w", ErrNotFound)
	ErrMemberNotFound       = fmt.Errorf("group member %w", ErrNotFound)
	ErrReactionNotFound     = fmt.Errorf("reaction %w", ErrNotFound)
	ErrInvalidInviteCode    = fmt.Errorf("invite code %w", ErrNotFound)
	ErrEmailTaken           = fmt.Errorf("email already registered: %w", ErrConflict)
	ErrAlreadyGroupMember   = fmt.Errorf("user is already a member of this group: %w", ErrConflict)
	ErrLastOwner            = fmt.Errorf("group must keep at least one owner: %w", ErrConflict)
	ErrInvalidCredentials   = fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
	ErrInvalidSession       = fmt.Errorf("invalid or expired session: %w", ErrUnauthorized)
	ErrNotGroupMember       = fmt.Errorf("user is not a member of the group: %w", ErrForbidden)
	ErrNotGroupOwner        = fmt.Errorf("only a group owner can perform this action: %w", ErrForbidden)
	ErrInvalidTimeSpan      = fmt.Errorf("time span ends before it begins: %w", ErrValidation)
	ErrPasswordTooShort     = fmt.Errorf("password too short: %w", ErrValidation)
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrInviteCodeGeneration = errors.New("failed to generate invite code")
)

// ValidationError describes which fields of an input were rejected.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %d invalid field(s)", ErrValidation, len(e.Fields))
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
