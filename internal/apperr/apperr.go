// Package apperr defines the error kinds surfaced by catalog and playlist
// operations. Storage-level failures are translated into one of these kinds
// before they leave the store, so callers never inspect driver errors.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the caller.
type Kind uint8

const (
	// Storage is a transaction or driver failure. It is also the kind of any
	// error that did not originate in this package.
	Storage Kind = iota
	// NotFound means a referenced entity does not exist.
	NotFound
	// Conflict means the write collides with existing state.
	Conflict
	// Validation means a required field is missing or malformed.
	Validation
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case Conflict:
		return "conflict"
	case Validation:
		return "validation"
	default:
		return "storage"
	}
}

// Status maps the kind to the equivalent HTTP status code.
func (k Kind) Status() int {
	switch k {
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Validation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified error naming the offending field or entity.
type Error struct {
	Kind  Kind
	Field string
	Msg   string
	Err   error
}

// Sentinels for errors.Is comparisons by kind.
var (
	ErrNotFound   = &Error{Kind: NotFound}
	ErrConflict   = &Error{Kind: Conflict}
	ErrValidation = &Error{Kind: Validation}
	ErrStorage    = &Error{Kind: Storage}
)

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		switch e.Kind {
		case NotFound:
			msg = e.Field + " not found"
		case Conflict:
			msg = e.Field + " already exists"
		case Validation:
			msg = "invalid " + e.Field
		default:
			msg = "storage failure"
		}
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the bare sentinel for e's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Field == "" && t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

// NewNotFound reports a missing entity.
func NewNotFound(field string) error {
	return &Error{Kind: NotFound, Field: field}
}

// NotFoundf reports a missing entity with a formatted message.
func NotFoundf(field, format string, args ...any) error {
	return &Error{Kind: NotFound, Field: field, Msg: fmt.Sprintf(format, args...)}
}

// NewConflict reports a write that collides with existing state.
func NewConflict(field, msg string) error {
	return &Error{Kind: Conflict, Field: field, Msg: msg}
}

// NewValidation reports an invalid or missing field.
func NewValidation(field, msg string) error {
	return &Error{Kind: Validation, Field: field, Msg: field + ": " + msg}
}

// NewStorage wraps a storage failure.
func NewStorage(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: Storage, Msg: "storage failure", Err: err}
}

// KindOf returns the kind of err. Errors outside this package are Storage.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Storage
}

// FieldOf returns the field named by err, if any.
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
