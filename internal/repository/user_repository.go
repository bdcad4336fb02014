package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"devreviewd/internal/models"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already in use")
)

// UserRepository handles user database operations
type UserRepository struct {
	db DBTX
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *UserRepository) WithTx(tx *sql.Tx) *UserRepository {
	return &UserRepository{db: tx}
}

// Create creates a new user. The identifier and timestamps are assigned
// here, at the moment of construction.
func (r *UserRepository) Create(user *models.User) error {
	query := `
		INSERT INTO users (id, username, password_hash, credit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	now := time.Now()
	id := uuid.NewString()

	_, err := r.db.Exec(query, id, user.Username, user.PasswordHash, user.Credit, now, now)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return ErrUsernameTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id string) (*models.User, error) {
	query := `
		SELECT id, username, password_hash, credit, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	user := &models.User{}
	err := r.db.QueryRow(query, id).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Credit,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	query := `
		SELECT id, username, password_hash, credit, created_at, updated_at
		FROM users
		WHERE username = $1
	`

	user := &models.User{}
	err := r.db.QueryRow(query, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Credit,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// AdjustCredit applies a signed delta to the user's credit balance as a
// single atomic statement
func (r *UserRepository) AdjustCredit(id string, delta int) error {
	query := `
		UPDATE users
		SET credit = credit + $2, updated_at = $3
		WHERE id = $1
	`

	result, err := r.db.Exec(query, id, delta, time.Now())
	if err != nil {
		return fmt.Errorf("failed to adjust credit: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to adjust credit: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

// GetRecord assembles the canonical account record: the user row plus its
// ordered form and review reference lists
func (r *UserRepository) GetRecord(id string) (*models.UserRecord, error) {
	user, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	forms, err := r.listFormIDs(id)
	if err != nil {
		return nil, err
	}

	reviews, err := r.listReviewIDs(id)
	if err != nil {
		return nil, err
	}

	return &models.UserRecord{
		ID:           user.ID,
		Username:     user.Username,
		Credit:       user.Credit,
		Forms:        forms,
		ReviewsGiven: reviews,
	}, nil
}

// listFormIDs returns the ids of forms owned by the user in creation order
func (r *UserRepository) listFormIDs(userID string) ([]string, error) {
	query := `
		SELECT id FROM forms
		WHERE author_id = $1
		ORDER BY created_at, id
	`
	return r.collectIDs(query, userID, "forms")
}

// listReviewIDs returns the ids of reviews authored by the user in creation order
func (r *UserRepository) listReviewIDs(userID string) ([]string, error) {
	query := `
		SELECT id FROM reviews
		WHERE reviewer_id = $1
		ORDER BY created_at, id
	`
	return r.collectIDs(query, userID, "reviews")
}

func (r *UserRepository) collectIDs(query, arg, what string) ([]string, error) {
	rows, err := r.db.Query(query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", what, err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", what, err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
