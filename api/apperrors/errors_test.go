package apperrors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTypeOfSeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("follow: %w", NewSelfReference("u1"))

	assert.Equal(t, ErrorTypeSelfReference, TypeOf(err))
	assert.True(t, IsErrorType(err, ErrorTypeSelfReference))
	assert.False(t, IsErrorType(err, ErrorTypeNotFound))
	assert.False(t, IsErrorType(nil, ErrorTypeNotFound))

	var selfRef *ErrSelfReference
	assert.True(t, errors.As(err, &selfRef))
	assert.Equal(t, "u1", selfRef.UserID)
}

func TestClassifyPostgresCodes(t *testing.T) {
	cases := map[string]ErrorType{
		"23505": ErrorTypeAlreadyExists,
		"23503": ErrorTypeNotFound,
		"40001": ErrorTypeConflict,
		"40P01": ErrorTypeConflict,
		"55P03": ErrorTypeConflict,
	}
	for code, want := range cases {
		err := Classify("follow", &pgconn.PgError{Code: code})
		assert.Equal(t, want, TypeOf(err), code)
	}

	raw := &pgconn.PgError{Code: "42P01"}
	assert.Equal(t, raw, Classify("follow", raw))
}

func TestClassifyCheckViolationByConstraint(t *testing.T) {
	selfFollow := Classify("follow", &pgconn.PgError{Code: "23514", ConstraintName: SelfFollowConstraint})
	assert.Equal(t, ErrorTypeSelfReference, TypeOf(selfFollow))

	badType := Classify("notify", &pgconn.PgError{Code: "23514", ConstraintName: "notifications_type_check"})
	assert.Equal(t, ErrorTypeValidation, TypeOf(badType))
	var verr *ErrValidation
	if assert.ErrorAs(t, badType, &verr) {
		assert.Equal(t, "notifications_type_check", verr.Field)
	}

	sqliteSelf := Classify("follow", errors.New("CHECK constraint failed: follows_no_self_follow"))
	assert.Equal(t, ErrorTypeSelfReference, TypeOf(sqliteSelf))
	sqliteOther := Classify("notify", errors.New("CHECK constraint failed: notifications_type_check"))
	assert.Equal(t, ErrorTypeValidation, TypeOf(sqliteOther))

	assert.Equal(t, ErrorTypeValidation, TypeOf(Classify("notify", gorm.ErrCheckConstraintViolated)))
}

func TestClassifyGormAndDriverErrors(t *testing.T) {
	assert.Equal(t, ErrorTypeAlreadyExists, TypeOf(Classify("like", gorm.ErrDuplicatedKey)))
	assert.Equal(t, ErrorTypeNotFound, TypeOf(Classify("like", gorm.ErrForeignKeyViolated)))
	assert.Equal(t, ErrorTypeConflict, TypeOf(Classify("like", errors.New("database is locked"))))
	assert.Equal(t, ErrorTypeNotFound, TypeOf(Classify("like", errors.New("FOREIGN KEY constraint failed"))))
	assert.Equal(t, ErrorTypeConflict, TypeOf(Classify("like", context.DeadlineExceeded)))

	plain := errors.New("boom")
	assert.Equal(t, plain, Classify("like", plain))
	assert.Nil(t, Classify("like", nil))

	typed := NewNotFound("user", "u9")
	assert.Same(t, typed, Classify("like", typed))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewConflict("follow", errors.New("40001"))))
	assert.False(t, IsRetryable(NewConflict("follow", context.DeadlineExceeded)))
	assert.False(t, IsRetryable(NewAlreadyExists("follow", "already following")))
	assert.False(t, IsRetryable(errors.New("boom")))
}

func TestMessageOfHidesCause(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewConflict("follow", errors.New("40001 serialization failure")))
	assert.Equal(t, "follow aborted by concurrent update", MessageOf(err))
	assert.Equal(t, "", MessageOf(errors.New("plain")))
}
