package store

import (
	"errors"
	"fmt"
)

// Kind classifies persistence failures so services can map them to domain errors.
type Kind int

// Failure kinds.
const (
	KindNotFound Kind = iota + 1
	KindAlreadyExists
	KindInvalidInput
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindAlreadyExists:
		return "already exists"
	case KindInvalidInput:
		return "invalid input"
	default:
		return "unknown"
	}
}

// Error is a persistence error carrying a Kind and the entity involved.
type Error struct {
	Kind    Kind
	Entity  string // e.g. "project", "tag"
	Field   string // set for uniqueness violations
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Summary(), e.Err)
	}
	return e.Summary()
}

// Summary is the message without the driver cause, safe to show to clients.
func (e *Error) Summary() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Entity != "" {
		return e.Entity + " " + e.Kind.String()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so errors.Is(err, ErrNotFound)
// holds for every not-found error regardless of entity.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// WithMessage returns a copy with a custom message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Kind: e.Kind, Entity: e.Entity, Field: e.Field, Message: msg, Err: e.Err}
}

// WithCause returns a copy wrapping err.
func (e *Error) WithCause(err error) *Error {
	return &Error{Kind: e.Kind, Entity: e.Entity, Field: e.Field, Message: e.Message, Err: err}
}

// Sentinel errors.
var (
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrAlreadyExists = &Error{Kind: KindAlreadyExists}
	ErrInvalidInput  = &Error{Kind: KindInvalidInput}
)

// NotFound reports a missing entity looked up by key.
func NotFound(entity, key string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, Message: fmt.Sprintf("%s %q not found", entity, key)}
}

// AlreadyExists reports a uniqueness violation on entity.field.
func AlreadyExists(entity, field, value string, cause error) *Error {
	return &Error{
		Kind:    KindAlreadyExists,
		Entity:  entity,
		Field:   field,
		Message: fmt.Sprintf("%s with %s %q already exists", entity, field, value),
		Err:     cause,
	}
}

// Summary returns the client-safe message of the first *Error in err's chain,
// or "" when there is none.
func Summary(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Summary()
	}
	return ""
}
