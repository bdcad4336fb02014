package service

import (
	"database/sql"
	"errors"
	"fmt"

	"devreviewd/internal/apperr"
	"devreviewd/internal/models"
	"devreviewd/internal/repository"
)

// FormService orchestrates the form lifecycle: creation, partial updates
// with version-append semantics, deletion, and the to-review selection.
// Mutations return the author's updated account record because downstream
// consumers need the refreshed forms list and credit balance, not just
// the form.
type FormService struct {
	db         *sql.DB
	forms      *repository.FormRepository
	users      *repository.UserRepository
	reconciler *CreditReconciler
}

// NewFormService creates a new form service
func NewFormService(db *sql.DB, forms *repository.FormRepository, users *repository.UserRepository, reconciler *CreditReconciler) *FormService {
	return &FormService{
		db:         db,
		forms:      forms,
		users:      users,
		reconciler: reconciler,
	}
}

// Create constructs a form with a single initial version and no open
// review slots, registers it against its author, and returns the author's
// updated record
func (s *FormService) Create(authorID string, in models.FormCreate) (*models.UserRecord, error) {
	if _, err := s.users.GetByID(authorID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, err
	}

	form := &models.Form{
		Author:     authorID,
		Name:       in.Name,
		ProjectURL: in.ProjectURL,
		Overview:   in.Overview,
	}

	err := inTx(s.db, func(tx *sql.Tx) error {
		return s.forms.WithTx(tx).Create(form, in.Questions)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create form: %w", err)
	}

	return s.users.GetRecord(authorID)
}

// Patch applies a partial update to the form. Only the author may patch;
// a supplied question set appends a new immutable version snapshot; a
// changed pendingRequests counter reconciles the author's credit by the
// difference. Descriptive fields are last-write-wins.
func (s *FormService) Patch(principalID, formID string, patch models.FormPatch) (*models.UserRecord, error) {
	form, err := s.getForm(formID)
	if err != nil {
		return nil, err
	}

	if err := AuthorizeFormOwner(principalID, form.Author); err != nil {
		return nil, err
	}

	err = inTx(s.db, func(tx *sql.Tx) error {
		forms := s.forms.WithTx(tx)

		if patch.Questions != nil {
			if _, err := forms.AppendVersion(formID, patch.Questions); err != nil {
				return err
			}
		}

		if err := forms.UpdateFields(formID, patch.Name, patch.ProjectURL, patch.Overview); err != nil {
			return err
		}

		if patch.PendingRequests != nil {
			previous, err := forms.GetPendingRequestsForUpdate(formID)
			if err != nil {
				return err
			}
			if *patch.PendingRequests != previous {
				if err := forms.SetPendingRequests(formID, *patch.PendingRequests); err != nil {
					return err
				}
				if err := s.reconciler.ReconcilePending(tx, form.Author, previous, *patch.PendingRequests); err != nil {
					return fmt.Errorf("credit reconciliation failed: %w", err)
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to patch form: %w", err)
	}

	return s.users.GetRecord(form.Author)
}

// Delete removes the form and returns the principal's updated record. The
// request body must repeat the path-addressed identifier as a guard
// against accidental cross-resource deletes. Outstanding pendingRequests
// are discarded without refunding the author's credit; whether that debt
// should be refunded is a product decision this ledger does not take.
func (s *FormService) Delete(principalID, formID, requestID string) (*models.UserRecord, error) {
	if requestID == "" {
		return nil, apperr.Validation("field missing", "id")
	}
	if normalizeID(requestID) != normalizeID(formID) {
		return nil, apperr.Unauthorized("request path id (%s) and request body id (%s) must match", formID, requestID)
	}

	if err := s.forms.Delete(formID); err != nil {
		if errors.Is(err, repository.ErrFormNotFound) {
			return nil, apperr.NotFound("Form not found")
		}
		return nil, err
	}

	return s.users.GetRecord(principalID)
}

// GetByID returns the form with its full version history. Public by
// design: reviewers fetch forms they do not own.
func (s *FormService) GetByID(formID string) (*models.Form, error) {
	return s.getForm(formID)
}

// RandomForReview selects a uniformly random form with open review slots.
// When the requester is known their own forms are excluded; pass an empty
// principal for anonymous callers.
func (s *FormService) RandomForReview(principalID string) (*models.Form, error) {
	form, err := s.forms.RandomReviewable(principalID)
	if err != nil {
		if errors.Is(err, repository.ErrNoReviewableForms) {
			return nil, apperr.NotFound("No forms found")
		}
		return nil, err
	}
	return form, nil
}

func (s *FormService) getForm(formID string) (*models.Form, error) {
	form, err := s.forms.GetByID(formID)
	if err != nil {
		if errors.Is(err, repository.ErrFormNotFound) {
			return nil, apperr.NotFound("Form not found")
		}
		return nil, err
	}
	return form, nil
}
