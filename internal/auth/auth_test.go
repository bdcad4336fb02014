package auth

import (
	"testing"
	"time"

	"devreviewd/internal/config"
)

func newTestService() *Service {
	cfg := &config.JWTConfig{
		Secret:     "test-secret",
		Expiration: 24 * time.Hour,
	}
	return NewService(cfg)
}

func TestHashPassword(t *testing.T) {
	svc := newTestService()

	password := "testpassword123"
	hash, err := svc.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	if hash == "" {
		t.Error("Hash should not be empty")
	}

	if hash == password {
		t.Error("Hash should not equal the original password")
	}
}

func TestVerifyPassword(t *testing.T) {
	svc := newTestService()

	password := "testpassword123"
	hash, err := svc.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	// Test correct password
	if err := svc.VerifyPassword(hash, password); err != nil {
		t.Errorf("Should verify correct password, got error: %v", err)
	}

	// Test incorrect password
	if err := svc.VerifyPassword(hash, "wrongpassword"); err == nil {
		t.Error("Should not verify incorrect password")
	}
}

func TestGenerateToken(t *testing.T) {
	svc := newTestService()

	token, err := svc.GenerateToken("2c6c0a8e-7af6-4e9c-9a67-33cbd54c3e05", "testuser")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	if token == "" {
		t.Error("Token should not be empty")
	}
}

func TestValidateToken(t *testing.T) {
	svc := newTestService()

	userID := "2c6c0a8e-7af6-4e9c-9a67-33cbd54c3e05"
	username := "testuser"

	token, err := svc.GenerateToken(userID, username)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}

	if claims.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, claims.UserID)
	}

	if claims.Username != username {
		t.Errorf("Expected username %s, got %s", username, claims.Username)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestService()

	if _, err := svc.ValidateToken("not-a-token"); err == nil {
		t.Error("Should reject a malformed token")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	cfg := &config.JWTConfig{
		Secret:     "test-secret",
		Expiration: -1 * time.Hour,
	}
	svc := NewService(cfg)

	token, err := svc.GenerateToken("2c6c0a8e-7af6-4e9c-9a67-33cbd54c3e05", "testuser")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	if _, err := svc.ValidateToken(token); err == nil {
		t.Error("Should reject an expired token")
	}
}

func TestValidateTokenRejectsForeignKey(t *testing.T) {
	svc := newTestService()
	other := newTestService() // different generated key pair

	token, err := other.GenerateToken("2c6c0a8e-7af6-4e9c-9a67-33cbd54c3e05", "testuser")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	if _, err := svc.ValidateToken(token); err == nil {
		t.Error("Should reject a token signed with a different key")
	}
}
