package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"devreviewd/internal/models"
)

var (
	ErrFormNotFound      = errors.New("form not found")
	ErrNoReviewableForms = errors.New("no reviewable forms")
)

// FormRepository handles form database operations. Version snapshots live
// in the form_versions table and are append-only: rows are inserted with
// the next position, never updated.
type FormRepository struct {
	db DBTX
}

// NewFormRepository creates a new form repository
func NewFormRepository(db *sql.DB) *FormRepository {
	return &FormRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *FormRepository) WithTx(tx *sql.Tx) *FormRepository {
	return &FormRepository{db: tx}
}

// Create persists a new form with its initial version snapshot
func (r *FormRepository) Create(form *models.Form, questions []string) error {
	now := time.Now()
	form.ID = uuid.NewString()
	form.Created = now
	form.PendingRequests = 0

	query := `
		INSERT INTO forms (id, author_id, name, project_url, overview, pending_requests, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(query, form.ID, form.Author, form.Name, form.ProjectURL, form.Overview, form.PendingRequests, now)
	if err != nil {
		return fmt.Errorf("failed to create form: %w", err)
	}

	version, err := r.AppendVersion(form.ID, questions)
	if err != nil {
		return err
	}
	form.Versions = []models.FormVersion{*version}

	return nil
}

// AppendVersion inserts a new version snapshot at the next position. The
// timestamp is captured here, at construction time.
func (r *FormRepository) AppendVersion(formID string, questions []string) (*models.FormVersion, error) {
	version := &models.FormVersion{
		ID:        uuid.NewString(),
		Questions: questions,
		Date:      time.Now(),
	}

	query := `
		INSERT INTO form_versions (id, form_id, position, questions, created_at)
		SELECT $1, $2, COALESCE(MAX(position), 0) + 1, $3, $4
		FROM form_versions
		WHERE form_id = $2
	`
	_, err := r.db.Exec(query, version.ID, formID, pq.Array(questions), version.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to append form version: %w", err)
	}

	return version, nil
}

// GetByID retrieves a form with its full version history
func (r *FormRepository) GetByID(id string) (*models.Form, error) {
	query := `
		SELECT id, author_id, name, project_url, overview, pending_requests, created_at
		FROM forms
		WHERE id = $1
	`

	form := &models.Form{}
	err := r.db.QueryRow(query, id).Scan(
		&form.ID,
		&form.Author,
		&form.Name,
		&form.ProjectURL,
		&form.Overview,
		&form.PendingRequests,
		&form.Created,
	)

	if err == sql.ErrNoRows {
		return nil, ErrFormNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get form: %w", err)
	}

	if form.Versions, err = r.listVersions(id); err != nil {
		return nil, err
	}

	return form, nil
}

// listVersions returns the form's version snapshots in append order
func (r *FormRepository) listVersions(formID string) ([]models.FormVersion, error) {
	query := `
		SELECT id, questions, created_at
		FROM form_versions
		WHERE form_id = $1
		ORDER BY position
	`

	rows, err := r.db.Query(query, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to list form versions: %w", err)
	}
	defer rows.Close()

	versions := []models.FormVersion{}
	for rows.Next() {
		var version models.FormVersion
		if err := rows.Scan(&version.ID, pq.Array(&version.Questions), &version.Date); err != nil {
			return nil, fmt.Errorf("failed to list form versions: %w", err)
		}
		versions = append(versions, version)
	}

	return versions, rows.Err()
}

// UpdateFields sets the supplied descriptive fields on the form,
// last-write-wins. Nil fields are left untouched.
func (r *FormRepository) UpdateFields(id string, name, projectURL, overview *string) error {
	sets := []string{}
	args := []any{id}

	appendSet := func(column string, value *string) {
		if value != nil {
			args = append(args, *value)
			sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
		}
	}
	appendSet("name", name)
	appendSet("project_url", projectURL)
	appendSet("overview", overview)

	if len(sets) == 0 {
		return nil
	}

	query := fmt.Sprintf(`UPDATE forms SET %s WHERE id = $1`, strings.Join(sets, ", "))
	result, err := r.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update form: %w", err)
	}
	return requireRow(result, ErrFormNotFound)
}

// GetPendingRequestsForUpdate reads the counter under a row lock so the
// caller's transaction can reconcile against a stable previous value
func (r *FormRepository) GetPendingRequestsForUpdate(id string) (int, error) {
	var pending int
	err := r.db.QueryRow(`SELECT pending_requests FROM forms WHERE id = $1 FOR UPDATE`, id).Scan(&pending)
	if err == sql.ErrNoRows {
		return 0, ErrFormNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read pending requests: %w", err)
	}
	return pending, nil
}

// SetPendingRequests sets the counter to an absolute value
func (r *FormRepository) SetPendingRequests(id string, value int) error {
	result, err := r.db.Exec(`UPDATE forms SET pending_requests = $2 WHERE id = $1`, id, value)
	if err != nil {
		return fmt.Errorf("failed to set pending requests: %w", err)
	}
	return requireRow(result, ErrFormNotFound)
}

// DecrementPendingRequests atomically decrements the counter by one. The
// counter may go negative when more reviews arrive than slots were opened.
func (r *FormRepository) DecrementPendingRequests(id string) error {
	result, err := r.db.Exec(`UPDATE forms SET pending_requests = pending_requests - 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to decrement pending requests: %w", err)
	}
	return requireRow(result, ErrFormNotFound)
}

// Delete removes the form and, via cascade, its version history
func (r *FormRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM forms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete form: %w", err)
	}
	return requireRow(result, ErrFormNotFound)
}

// RandomReviewable selects a uniformly random form with open review slots,
// excluding forms authored by excludeAuthor when it is non-empty. ORDER BY
// RANDOM() re-rolls per call, so every qualifying form is equally likely.
func (r *FormRepository) RandomReviewable(excludeAuthor string) (*models.Form, error) {
	query := `
		SELECT id
		FROM forms
		WHERE pending_requests > 0 AND ($1 = '' OR author_id <> $1)
		ORDER BY RANDOM()
		LIMIT 1
	`

	var id string
	err := r.db.QueryRow(query, excludeAuthor).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, ErrNoReviewableForms
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select reviewable form: %w", err)
	}

	return r.GetByID(id)
}

// requireRow converts a zero-rows-affected result into notFound
func requireRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
