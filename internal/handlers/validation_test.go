package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"devreviewd/internal/service"
)

// Validation failures are rejected before any service or database work,
// so a handler over a zero service is enough to exercise the envelope.
func newRegisterRequest(body string) (*httptest.ResponseRecorder, *http.Request) {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(body))
	return httptest.NewRecorder(), r
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) validationEnvelope {
	t.Helper()
	var envelope validationEnvelope
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("Failed to decode validation envelope: %v", err)
	}
	return envelope
}

func TestRegisterValidation(t *testing.T) {
	handler := NewUserHandler(&service.AccountService{})

	tests := []struct {
		name     string
		body     string
		message  string
		location string
	}{
		{"missing username", `{"password":"longenough1"}`, "field missing", "username"},
		{"missing password", `{"username":"alice"}`, "field missing", "password"},
		{"extra field", `{"username":"alice","password":"longenough1","admin":true}`, "field not allowed", "admin"},
		{"non-string username", `{"username":7,"password":"longenough1"}`, "Incorrect field type: expected string", "username"},
		{"untrimmed username", `{"username":" alice","password":"longenough1"}`, "Cannot start or end with whitespace", "username"},
		{"short password", `{"username":"alice","password":"short"}`, "must be at least 10 characters long", "password"},
		{"long username", `{"username":"aaaaaaaaaaaaaaaaaaaaa","password":"longenough1"}`, "must be at most 20 characters long", "username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, r := newRegisterRequest(tt.body)
			handler.Register(w, r)

			if w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("Expected 422, got %d", w.Code)
			}
			envelope := decodeEnvelope(t, w)
			if envelope.Reason != "ValidationError" {
				t.Errorf("Expected reason ValidationError, got %q", envelope.Reason)
			}
			if envelope.Message != tt.message {
				t.Errorf("Expected message %q, got %q", tt.message, envelope.Message)
			}
			if envelope.Location != tt.location {
				t.Errorf("Expected location %q, got %q", tt.location, envelope.Location)
			}
		})
	}
}

func TestRegisterRejectsMalformedBody(t *testing.T) {
	handler := NewUserHandler(&service.AccountService{})

	w, r := newRegisterRequest(`not json`)
	handler.Register(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed body, got %d", w.Code)
	}
}

func TestSubmitReviewValidation(t *testing.T) {
	handler := NewReviewHandler(&service.ReviewService{})

	tests := []struct {
		name     string
		body     string
		message  string
		location string
	}{
		{"missing formId", `{"formVersion":"v1","responses":[]}`, "field missing", "formId"},
		{"missing responses", `{"formId":"f1","formVersion":"v1"}`, "field missing", "responses"},
		{"mixed responses", `{"formId":"f1","formVersion":"v1","responses":["a",1]}`, "Incorrect field type: expected array of strings", "responses"},
		{"no reviewer identity", `{"formId":"f1","formVersion":"v1","responses":["a"]}`, "Must provide reviewerId or reviewerName", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/api/v1/reviews", strings.NewReader(tt.body))
			handler.Submit(w, r)

			if w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("Expected 422, got %d", w.Code)
			}
			envelope := decodeEnvelope(t, w)
			if envelope.Message != tt.message || envelope.Location != tt.location {
				t.Errorf("Expected %q at %q, got %q at %q", tt.message, tt.location, envelope.Message, envelope.Location)
			}
		})
	}
}
