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

var ErrReviewNotFound = errors.New("review not found")

// ReviewRepository handles review database operations. Reviews are
// immutable once written: there are no update or delete operations.
type ReviewRepository struct {
	db DBTX
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *ReviewRepository) WithTx(tx *sql.Tx) *ReviewRepository {
	return &ReviewRepository{db: tx}
}

// Create persists a new review. Exactly one of ReviewerID and ReviewerName
// must be set; the table check constraint enforces the same invariant.
func (r *ReviewRepository) Create(review *models.Review) error {
	review.ID = uuid.NewString()
	review.Date = time.Now()

	query := `
		INSERT INTO reviews (id, form_id, form_version, reviewer_id, reviewer_name, responses, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(
		query,
		review.ID,
		review.FormID,
		review.FormVersion,
		review.ReviewerID,
		review.ReviewerName,
		pq.Array(review.Responses),
		review.Date,
	)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

// GetByID retrieves a review by ID
func (r *ReviewRepository) GetByID(id string) (*models.Review, error) {
	query := `
		SELECT id, form_id, form_version, reviewer_id, reviewer_name, responses, created_at
		FROM reviews
		WHERE id = $1
	`

	review := &models.Review{}
	err := r.db.QueryRow(query, id).Scan(
		&review.ID,
		&review.FormID,
		&review.FormVersion,
		&review.ReviewerID,
		&review.ReviewerName,
		pq.Array(&review.Responses),
		&review.Date,
	)

	if err == sql.ErrNoRows {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return review, nil
}

// ListByForm returns all reviews submitted against the form, in insertion
// order so repeated reads of unchanged data stay stable
func (r *ReviewRepository) ListByForm(formID string) ([]models.Review, error) {
	query := `
		SELECT id, form_id, form_version, reviewer_id, reviewer_name, responses, created_at
		FROM reviews
		WHERE form_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.Query(query, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var review models.Review
		err := rows.Scan(
			&review.ID,
			&review.FormID,
			&review.FormVersion,
			&review.ReviewerID,
			&review.ReviewerName,
			pq.Array(&review.Responses),
			&review.Date,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to list reviews: %w", err)
		}
		reviews = append(reviews, review)
	}

	return reviews, rows.Err()
}
