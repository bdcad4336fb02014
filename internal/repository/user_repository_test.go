package repository_test

import (
	"errors"
	"testing"

	"devreviewd/internal/models"
	"devreviewd/internal/repository"
	"devreviewd/internal/testutil"
)

func TestUserRepositoryCreateAndLookup(t *testing.T) {
	containers := testutil.SetupTestContainers(t)
	defer containers.Cleanup(t)

	repo := repository.NewUserRepository(containers.DB)

	user := &models.User{Username: "alice", PasswordHash: "hash"}
	if err := repo.Create(user); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	if user.ID == "" {
		t.Fatal("Expected Create to assign an id")
	}
	if user.Credit != 0 {
		t.Errorf("Expected a zero starting credit, got %d", user.Credit)
	}

	byID, err := repo.GetByID(user.ID)
	if err != nil {
		t.Fatalf("Failed to get user by id: %v", err)
	}
	if byID.Username != "alice" {
		t.Errorf("Expected username alice, got %s", byID.Username)
	}

	byName, err := repo.GetByUsername("alice")
	if err != nil {
		t.Fatalf("Failed to get user by username: %v", err)
	}
	if byName.ID != user.ID {
		t.Errorf("Expected id %s, got %s", user.ID, byName.ID)
	}

	if _, err := repo.GetByID("00000000-0000-0000-0000-000000000000"); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}

	// Username uniqueness is enforced by the database
	dup := &models.User{Username: "alice", PasswordHash: "other"}
	if err := repo.Create(dup); !errors.Is(err, repository.ErrUsernameTaken) {
		t.Errorf("Expected ErrUsernameTaken, got %v", err)
	}
}

func TestUserRepositoryAdjustCredit(t *testing.T) {
	containers := testutil.SetupTestContainers(t)
	defer containers.Cleanup(t)

	repo := repository.NewUserRepository(containers.DB)
	user := testutil.CreateTestUser(t, containers.DB, "alice")

	if err := repo.AdjustCredit(user.ID, -3); err != nil {
		t.Fatalf("Failed to debit credit: %v", err)
	}
	if err := repo.AdjustCredit(user.ID, 1); err != nil {
		t.Fatalf("Failed to credit credit: %v", err)
	}

	got, err := repo.GetByID(user.ID)
	if err != nil {
		t.Fatalf("Failed to get user: %v", err)
	}
	if got.Credit != -2 {
		t.Errorf("Expected credit -2, got %d", got.Credit)
	}

	if err := repo.AdjustCredit("00000000-0000-0000-0000-000000000000", 1); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound for unknown user, got %v", err)
	}
}

func TestUserRepositoryRecordListsAreOrdered(t *testing.T) {
	containers := testutil.SetupTestContainers(t)
	defer containers.Cleanup(t)

	repo := repository.NewUserRepository(containers.DB)
	user := testutil.CreateTestUser(t, containers.DB, "alice")

	first := testutil.CreateTestForm(t, containers.DB, user.ID, "first", []string{"Q?"})
	second := testutil.CreateTestForm(t, containers.DB, user.ID, "second", []string{"Q?"})

	record, err := repo.GetRecord(user.ID)
	if err != nil {
		t.Fatalf("Failed to get record: %v", err)
	}
	if len(record.Forms) != 2 {
		t.Fatalf("Expected two forms, got %d", len(record.Forms))
	}
	if record.Forms[0] != first.ID || record.Forms[1] != second.ID {
		t.Errorf("Expected forms in creation order [%s %s], got %v", first.ID, second.ID, record.Forms)
	}
	if len(record.ReviewsGiven) != 0 {
		t.Errorf("Expected no reviews yet, got %d", len(record.ReviewsGiven))
	}
}
