package apperror

import "fmt"

// Kind classifies application errors for transport mapping.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindForbidden  Kind = "forbidden"
	KindInternal   Kind = "internal"
)

// Error is the service-wide application error type. Handlers map Kind to an
// HTTP status; Message is safe to surface to clients.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// NewValidation reports invalid client input.
func NewValidation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// NewFieldValidation reports invalid client input with per-field detail.
func NewFieldValidation(msg string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

// NewNotFound reports a missing resource.
func NewNotFound(resource, id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %s not found", resource, id)}
}

// NewConflict reports a state conflict (duplicate key, stale write).
func NewConflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// NewForbidden reports an authorization failure.
func NewForbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// NewInternal wraps an unexpected failure.
func NewInternal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}
