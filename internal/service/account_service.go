package service

import (
	"errors"
	"fmt"

	"devreviewd/internal/apperr"
	"devreviewd/internal/auth"
	"devreviewd/internal/models"
	"devreviewd/internal/repository"
)

// AccountService handles registration, authentication and account
// retrieval.
type AccountService struct {
	users *repository.UserRepository
	auth  *auth.Service
}

// NewAccountService creates a new account service
func NewAccountService(users *repository.UserRepository, authService *auth.Service) *AccountService {
	return &AccountService{users: users, auth: authService}
}

// Register creates a new account with a zero credit balance and returns
// its record. Username uniqueness is enforced by the database; a clash
// surfaces as a validation error on the username field.
func (s *AccountService) Register(username, password string) (*models.UserRecord, error) {
	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil, apperr.Validation("Already in use", "username")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.users.GetRecord(user.ID)
}

// Login verifies the credentials and issues a signed token. Unknown
// usernames and wrong passwords produce the same error so the response
// does not leak which usernames exist.
func (s *AccountService) Login(username, password string) (string, error) {
	user, err := s.users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", apperr.Unauthorized("invalid username or password")
		}
		return "", err
	}

	if err := s.auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return "", apperr.Unauthorized("invalid username or password")
	}

	token, err := s.auth.GenerateToken(user.ID, user.Username)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// Refresh issues a fresh token for an already-authenticated principal
func (s *AccountService) Refresh(userID, username string) (string, error) {
	token, err := s.auth.GenerateToken(userID, username)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// Record returns the account record for the given identifier
func (s *AccountService) Record(userID string) (*models.UserRecord, error) {
	record, err := s.users.GetRecord(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, err
	}
	return record, nil
}

// Username returns the public username for the given identifier
func (s *AccountService) Username(userID string) (string, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", apperr.NotFound("User not found")
		}
		return "", err
	}
	return user.Username, nil
}
