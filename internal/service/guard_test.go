package service

import (
	"errors"
	"strings"
	"testing"

	"devreviewd/internal/apperr"
)

func TestAuthorizeFormOwner(t *testing.T) {
	if err := AuthorizeFormOwner("user-1", "user-1"); err != nil {
		t.Errorf("Expected the author to be authorized, got %v", err)
	}

	// UUIDs compare case-insensitively
	if err := AuthorizeFormOwner("ABCDEF00-0000-0000-0000-000000000001", "abcdef00-0000-0000-0000-000000000001"); err != nil {
		t.Errorf("Expected case-insensitive match to be authorized, got %v", err)
	}

	err := AuthorizeFormOwner("user-2", "user-1")
	if err == nil {
		t.Fatal("Expected a non-author to be rejected")
	}

	var unauthorized *apperr.UnauthorizedError
	if !errors.As(err, &unauthorized) {
		t.Fatalf("Expected UnauthorizedError, got %T", err)
	}

	// The message carries both identifiers for diagnostics
	if !strings.Contains(unauthorized.Message, "user-2") || !strings.Contains(unauthorized.Message, "user-1") {
		t.Errorf("Expected both identifiers in message, got %q", unauthorized.Message)
	}
}
