// Package apperr defines the error taxonomy shared by the service and
// handler layers: validation failures carry the offending field location,
// authorization failures carry both conflicting identifiers, and lookups
// that miss report which resource was asked for. Anything else surfaces as
// an internal error.
package apperr

import "fmt"

// ValidationError reports malformed, missing, or disallowed input. Location
// names the offending field and is included in the client-facing envelope.
type ValidationError struct {
	Message  string
	Location string
}

func (e *ValidationError) Error() string {
	if e.Location == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Location)
}

// Validation creates a ValidationError for the given field
func Validation(message, location string) *ValidationError {
	return &ValidationError{Message: message, Location: location}
}

// UnauthorizedError reports a principal acting on a resource it does not
// own. The message deliberately carries both identifiers: this is an
// internal-tooling-grade API where debuggability wins over opacity.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

// Unauthorized creates an UnauthorizedError with a formatted message
func Unauthorized(format string, args ...any) *UnauthorizedError {
	return &UnauthorizedError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an identifier that did not resolve to a record.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// NotFound creates a NotFoundError with the given message
func NotFound(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}
