package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return fmt.Sprintf("%s: %s", err.Fields[0].Field, err.Fields[0].Error)
		}
		return ""
	}
	return err.Err.Error()
}

func IsValidation(err error) bool {
	_, ok := errors.Cause(err).(*ValidationError)
	return ok
}

// NotFoundError is returned when a requested entity does not exist.
// Each domain package declares its own sentinel, compare them with errors.Cause.
type NotFoundError struct {
	Entity string
}

func NewNotFoundError(entity string) error {
	return &NotFoundError{Entity: entity}
}

func (err NotFoundError) Error() string {
	return err.Entity + " not found"
}

func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(*NotFoundError)
	return ok
}

// NotEligibleError is returned when an operation's preconditions on the learner's progress are not met.
type NotEligibleError struct {
	Reason string
}

func NewNotEligibleError(reason string) error {
	return &NotEligibleError{Reason: reason}
}

func (err NotEligibleError) Error() string {
	return err.Reason
}

func IsNotEligible(err error) bool {
	_, ok := errors.Cause(err).(*NotEligibleError)
	return ok
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}

var errUserRequired = NewValidationError(nil, FieldError{Field: "user_id", Error: "a user id is required"})

// CheckUserID validates the explicit user identifier every per-user operation takes.
func CheckUserID(userID string) error {
	if CleanString(userID) == "" {
		return errUserRequired
	}
	return nil
}
