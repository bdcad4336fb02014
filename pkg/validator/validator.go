// Package validator provides field-level checks for JSON request bodies.
// Each check reports the offending field so callers can build precise
// client-facing validation messages.
package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Common validation messages
const (
	MsgFieldMissing    = "field missing"
	MsgFieldNotAllowed = "field not allowed"
	MsgExpectedString  = "Incorrect field type: expected string"
	MsgExpectedStrings = "Incorrect field type: expected array of strings"
	MsgExpectedNumber  = "Incorrect field type: expected number"
	MsgUntrimmed       = "Cannot start or end with whitespace"
)

// FieldError reports a failed check on a single body field
type FieldError struct {
	Message  string
	Location string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.Location)
}

// Body is a decoded JSON object whose fields have not been interpreted yet
type Body map[string]json.RawMessage

// DecodeBody decodes a JSON object from r
func DecodeBody(r io.Reader) (Body, error) {
	var body Body
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode request body: %w", err)
	}
	return body, nil
}

// Has reports whether the field is present in the body
func (b Body) Has(field string) bool {
	_, ok := b[field]
	return ok
}

// Require returns a FieldError naming the first missing field
func (b Body) Require(fields ...string) *FieldError {
	for _, field := range fields {
		if !b.Has(field) {
			return &FieldError{Message: MsgFieldMissing, Location: field}
		}
	}
	return nil
}

// AllowOnly returns a FieldError naming the first field outside the allow-list
func (b Body) AllowOnly(fields ...string) *FieldError {
	allowed := make(map[string]bool, len(fields))
	for _, field := range fields {
		allowed[field] = true
	}
	for field := range b {
		if !allowed[field] {
			return &FieldError{Message: MsgFieldNotAllowed, Location: field}
		}
	}
	return nil
}

// String interprets the field as a string
func (b Body) String(field string) (string, *FieldError) {
	var s string
	if err := json.Unmarshal(b[field], &s); err != nil {
		return "", &FieldError{Message: MsgExpectedString, Location: field}
	}
	return s, nil
}

// StringSlice interprets the field as an array of strings
func (b Body) StringSlice(field string) ([]string, *FieldError) {
	var values []string
	if err := json.Unmarshal(b[field], &values); err != nil {
		return nil, &FieldError{Message: MsgExpectedStrings, Location: field}
	}
	return values, nil
}

// Int interprets the field as an integer
func (b Body) Int(field string) (int, *FieldError) {
	var n int
	if err := json.Unmarshal(b[field], &n); err != nil {
		return 0, &FieldError{Message: MsgExpectedNumber, Location: field}
	}
	return n, nil
}

// Trimmed checks that the field value carries no leading or trailing whitespace
func Trimmed(field, value string) *FieldError {
	if strings.TrimSpace(value) != value {
		return &FieldError{Message: MsgUntrimmed, Location: field}
	}
	return nil
}

// Sized checks that the field value length is within [min, max]
func Sized(field, value string, min, max int) *FieldError {
	if len(value) < min {
		return &FieldError{
			Message:  fmt.Sprintf("must be at least %d characters long", min),
			Location: field,
		}
	}
	if len(value) > max {
		return &FieldError{
			Message:  fmt.Sprintf("must be at most %d characters long", max),
			Location: field,
		}
	}
	return nil
}
