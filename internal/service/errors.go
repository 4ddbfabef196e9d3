package service

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError reports that the primary entity of an operation does not
// exist.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Entity, e.ID)
}

// MissingReferenceError reports payload identifiers that did not resolve to
// existing entities. One resolution pass collects every dangling key before
// failing, so the caller sees all of them at once.
type MissingReferenceError struct {
	Refs []string
}

func (e *MissingReferenceError) Error() string {
	return "unresolved references: " + strings.Join(e.Refs, ", ")
}

// ConflictError blocks a delete whose target is still referenced by a task,
// or a task delete attempted by someone other than the author.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

// ValidationError reports a payload that fails a basic shape constraint.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// ErrInvalidCredentials is returned by login for a wrong email or password.
// The two cases are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid email or password")

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsMissingReference(err error) bool {
	var e *MissingReferenceError
	return errors.As(err, &e)
}

func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}
