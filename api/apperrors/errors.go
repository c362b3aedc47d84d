package apperrors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeNotFound is returned when a referenced user, post or record is absent
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeSelfReference is returned when a user targets themselves
	ErrorTypeSelfReference ErrorType = "self_reference"
	// ErrorTypeAlreadyExists is returned when a create would duplicate an edge
	ErrorTypeAlreadyExists ErrorType = "already_exists"
	// ErrorTypeConflict is returned when a transaction aborted under contention
	ErrorTypeConflict ErrorType = "conflict"
	// ErrorTypeValidation is returned for malformed input
	ErrorTypeValidation ErrorType = "validation"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

func (e *BaseError) errorType() ErrorType {
	return e.Type
}

func (e *BaseError) message() string {
	return e.Message
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// ErrNotFound is returned when an entity referenced by an operation does not exist
type ErrNotFound struct {
	*BaseError
	Entity string
	ID     string
}

func NewNotFound(entity, id string) *ErrNotFound {
	return &ErrNotFound{
		BaseError: NewBaseError(ErrorTypeNotFound, fmt.Sprintf("%s not found: %s", entity, id), nil),
		Entity:    entity,
		ID:        id,
	}
}

// ErrSelfReference is returned when a user tries to follow themselves
type ErrSelfReference struct {
	*BaseError
	UserID string
}

func NewSelfReference(userID string) *ErrSelfReference {
	return &ErrSelfReference{
		BaseError: NewBaseError(ErrorTypeSelfReference, "cannot follow yourself", nil),
		UserID:    userID,
	}
}

// ErrAlreadyExists is returned when the edge being created is already present
type ErrAlreadyExists struct {
	*BaseError
	Kind string
}

func NewAlreadyExists(kind, message string) *ErrAlreadyExists {
	return &ErrAlreadyExists{
		BaseError: NewBaseError(ErrorTypeAlreadyExists, message, nil),
		Kind:      kind,
	}
}

// ErrConflict is returned when a transaction was aborted by concurrent contention
type ErrConflict struct {
	*BaseError
	Operation string
}

func NewConflict(operation string, err error) *ErrConflict {
	return &ErrConflict{
		BaseError: NewBaseError(ErrorTypeConflict, fmt.Sprintf("%s aborted by concurrent update", operation), err),
		Operation: operation,
	}
}

// ErrValidation is returned for request fields that fail validation
type ErrValidation struct {
	*BaseError
	Field  string
	Reason string
}

func NewValidation(field, reason string) *ErrValidation {
	return &ErrValidation{
		BaseError: NewBaseError(ErrorTypeValidation, fmt.Sprintf("invalid %s: %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// Helper functions

// TypeOf returns the category of err, or "" when err carries none.
func TypeOf(err error) ErrorType {
	var typed interface{ errorType() ErrorType }
	if errors.As(err, &typed) {
		return typed.errorType()
	}
	return ""
}

// MessageOf returns the client-facing message of a typed error, without the wrapped cause.
func MessageOf(err error) string {
	var typed interface{ message() string }
	if errors.As(err, &typed) {
		return typed.message()
	}
	return ""
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	return err != nil && TypeOf(err) == errType
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	if !IsErrorType(err, ErrorTypeConflict) {
		return false
	}
	// A conflict produced by an expired context will fail again.
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// SQLSTATE codes produced by postgres that map onto the taxonomy.
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgCheckViolation       = "23514"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgQueryCanceled        = "57014"
)

// Classify maps a storage error raised during operation onto the taxonomy. Errors that
// already carry a type are returned untouched and unknown errors are returned as-is.
func Classify(operation string, err error) error {
	if err == nil || TypeOf(err) != "" {
		return err
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return NewConflict(operation, err)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return NewAlreadyExists(operation, "record already exists")
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return &ErrNotFound{BaseError: NewBaseError(ErrorTypeNotFound, "referenced record not found", err)}
	}
	if errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return checkViolation("", err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return NewAlreadyExists(operation, "record already exists")
		case pgForeignKeyViolation:
			return &ErrNotFound{BaseError: NewBaseError(ErrorTypeNotFound, "referenced record not found", err)}
		case pgCheckViolation:
			return checkViolation(pgErr.ConstraintName, err)
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable, pgQueryCanceled:
			return NewConflict(operation, err)
		}
		return err
	}

	// sqlite reports lock contention, and constraints its translator misses, as plain
	// driver errors.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "database is locked") || strings.Contains(msg, "sqlite_busy"):
		return NewConflict(operation, err)
	case strings.Contains(msg, "unique constraint failed"):
		return NewAlreadyExists(operation, "record already exists")
	case strings.Contains(msg, "foreign key constraint failed"):
		return &ErrNotFound{BaseError: NewBaseError(ErrorTypeNotFound, "referenced record not found", err)}
	case strings.Contains(msg, "check constraint failed"):
		constraint := ""
		if i := strings.LastIndex(msg, ":"); i >= 0 {
			constraint = strings.TrimSpace(msg[i+1:])
		}
		return checkViolation(constraint, err)
	}
	return err
}

// SelfFollowConstraint names the CHECK that keeps follower_id and following_id apart.
const SelfFollowConstraint = "follows_no_self_follow"

// checkViolation maps a failed CHECK onto the taxonomy by constraint name. Only the
// self-follow check is a SelfReference; any other rejected value is a Validation error.
func checkViolation(constraint string, err error) error {
	if constraint == SelfFollowConstraint {
		return &ErrSelfReference{BaseError: NewBaseError(ErrorTypeSelfReference, "cannot follow yourself", err)}
	}
	field := constraint
	if field == "" {
		field = "value"
	}
	return &ErrValidation{
		BaseError: NewBaseError(ErrorTypeValidation, fmt.Sprintf("invalid %s: rejected by constraint", field), err),
		Field:     field,
		Reason:    "rejected by constraint",
	}
}
