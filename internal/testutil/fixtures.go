package testutil

import (
	"database/sql"
	"testing"

	"devreviewd/internal/models"
	"devreviewd/internal/repository"
)

// CreateTestUser inserts a user with a throwaway password hash and
// returns it
func CreateTestUser(t *testing.T, db *sql.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
	}
	if err := repository.NewUserRepository(db).Create(user); err != nil {
		t.Fatalf("Failed to create test user %s: %v", username, err)
	}
	return user
}

// CreateTestForm inserts a form owned by authorID with one initial
// version and returns it
func CreateTestForm(t *testing.T, db *sql.DB, authorID, name string, questions []string) *models.Form {
	t.Helper()

	form := &models.Form{
		Author:     authorID,
		Name:       name,
		ProjectURL: "https://github.com/example/" + name,
	}
	if err := repository.NewFormRepository(db).Create(form, questions); err != nil {
		t.Fatalf("Failed to create test form %s: %v", name, err)
	}
	return form
}

// SetPendingRequests fixes a form's outstanding-request counter without
// touching any credit balance
func SetPendingRequests(t *testing.T, db *sql.DB, formID string, value int) {
	t.Helper()

	if err := repository.NewFormRepository(db).SetPendingRequests(formID, value); err != nil {
		t.Fatalf("Failed to set pending requests on form %s: %v", formID, err)
	}
}

// TruncateAll clears all table data between test cases
func TruncateAll(t *testing.T, db *sql.DB) {
	t.Helper()

	if _, err := db.Exec(`TRUNCATE reviews, form_versions, forms, users`); err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
}
