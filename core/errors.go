package core

import "github.com/pkg/errors"

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
		return ""
	}
	return err.Err.Error()
}

// NotFoundError indicates that a referenced entity does not exist. Maps to HTTP 404.
type NotFoundError struct {
	msg string
}

func NewNotFoundError(msg string) error {
	return &NotFoundError{msg: msg}
}

func (err NotFoundError) Error() string {
	return err.msg
}

func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(*NotFoundError)
	return ok
}

// ConflictError indicates that a request violates a uniqueness or state rule.
// It stays distinct internally; the API boundary flattens it to 400 to keep
// the existing contract.
type ConflictError struct {
	msg string
}

func NewConflictError(msg string) error {
	return &ConflictError{msg: msg}
}

func (err ConflictError) Error() string {
	return err.msg
}

func IsConflict(err error) bool {
	_, ok := errors.Cause(err).(*ConflictError)
	return ok
}

// PermissionError indicates that the caller does not own the target entity. Maps to HTTP 403.
type PermissionError struct {
	msg string
}

func NewPermissionError(msg string) error {
	return &PermissionError{msg: msg}
}

func (err PermissionError) Error() string {
	return err.msg
}

func IsPermission(err error) bool {
	_, ok := errors.Cause(err).(*PermissionError)
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
