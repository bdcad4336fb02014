package service

import (
	"database/sql"
	"errors"
	"fmt"

	"devreviewd/internal/apperr"
	"devreviewd/internal/models"
	"devreviewd/internal/repository"
)

// Reviewer identifies who performed a review. Exactly one concrete
// variant exists per submission: a registered account that earns credit,
// or an external person known only by name.
type Reviewer interface {
	isReviewer()
}

// RegisteredReviewer is a reviewer with an account. Their submission
// settles against the credit ledger.
type RegisteredReviewer struct {
	UserID string
}

// AnonymousReviewer is an external reviewer identified only by a display
// name. Their submissions carry no ledger side effects.
type AnonymousReviewer struct {
	Name string
}

func (RegisteredReviewer) isReviewer() {}
func (AnonymousReviewer) isReviewer()  {}

// resolveReviewer turns the raw submission fields into a tagged reviewer
// identity, rejecting submissions that supply both or neither.
func resolveReviewer(in models.ReviewSubmission) (Reviewer, error) {
	switch {
	case in.ReviewerID != "" && in.ReviewerName != "":
		return nil, apperr.Validation("Must provide reviewerId or reviewerName", "")
	case in.ReviewerID != "":
		return RegisteredReviewer{UserID: in.ReviewerID}, nil
	case in.ReviewerName != "":
		return AnonymousReviewer{Name: in.ReviewerName}, nil
	default:
		return nil, apperr.Validation("Must provide reviewerId or reviewerName", "")
	}
}

// ReviewService accepts review submissions and settles their ledger side
// effects, and serves author-only review retrieval.
type ReviewService struct {
	db         *sql.DB
	reviews    *repository.ReviewRepository
	forms      *repository.FormRepository
	users      *repository.UserRepository
	reconciler *CreditReconciler
}

// NewReviewService creates a new review service
func NewReviewService(db *sql.DB, reviews *repository.ReviewRepository, forms *repository.FormRepository, users *repository.UserRepository, reconciler *CreditReconciler) *ReviewService {
	return &ReviewService{
		db:         db,
		reviews:    reviews,
		forms:      forms,
		users:      users,
		reconciler: reconciler,
	}
}

// Submit records a review against a form version. For a registered
// reviewer this settles three mutations in one transaction, in order:
// the review is written, the form's outstanding-request counter drops by
// one, and the reviewer earns one credit; the reviewer's updated record
// is returned. An anonymous submission writes only the review and
// returns a nil record.
func (s *ReviewService) Submit(in models.ReviewSubmission) (*models.UserRecord, error) {
	reviewer, err := resolveReviewer(in)
	if err != nil {
		return nil, err
	}

	form, err := s.forms.GetByID(in.FormID)
	if err != nil {
		if errors.Is(err, repository.ErrFormNotFound) {
			return nil, apperr.NotFound("Form not found")
		}
		return nil, err
	}

	if err := validateResponses(form, in); err != nil {
		return nil, err
	}

	review := &models.Review{
		FormID:      in.FormID,
		FormVersion: in.FormVersion,
		Responses:   in.Responses,
	}

	switch who := reviewer.(type) {
	case AnonymousReviewer:
		review.ReviewerName = &who.Name
		if err := inTx(s.db, func(tx *sql.Tx) error {
			return s.reviews.WithTx(tx).Create(review)
		}); err != nil {
			return nil, fmt.Errorf("failed to submit review: %w", err)
		}
		return nil, nil

	case RegisteredReviewer:
		if _, err := s.users.GetByID(who.UserID); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return nil, apperr.NotFound("User not found")
			}
			return nil, err
		}
		review.ReviewerID = &who.UserID

		err := inTx(s.db, func(tx *sql.Tx) error {
			if err := s.reviews.WithTx(tx).Create(review); err != nil {
				return fmt.Errorf("write review: %w", err)
			}
			if err := s.forms.WithTx(tx).DecrementPendingRequests(in.FormID); err != nil {
				return fmt.Errorf("decrement pending requests: %w", err)
			}
			if err := s.reconciler.CreditReview(tx, who.UserID); err != nil {
				return fmt.Errorf("credit reviewer: %w", err)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to submit review: %w", err)
		}
		return s.users.GetRecord(who.UserID)

	default:
		return nil, fmt.Errorf("unknown reviewer variant %T", reviewer)
	}
}

// validateResponses checks the response count against the question count
// of the targeted version. Submissions against an unknown version pass
// through unchecked so that clients holding a stale form are rejected by
// their own answers rather than by a count they cannot fix.
func validateResponses(form *models.Form, in models.ReviewSubmission) error {
	for _, version := range form.Versions {
		if version.ID == in.FormVersion {
			if len(in.Responses) != len(version.Questions) {
				return apperr.Validation("Number of responses must match the number of questions", "responses")
			}
			return nil
		}
	}
	return nil
}

// GetByID returns a single review. Reviews are author-confidential: only
// the author of the reviewed form may read them. Existence is checked
// before ownership so a wrong identifier reads as missing, not forbidden.
func (s *ReviewService) GetByID(principalID, reviewID string) (*models.Review, error) {
	review, err := s.reviews.GetByID(reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, apperr.NotFound("Review not found")
		}
		return nil, err
	}

	form, err := s.forms.GetByID(review.FormID)
	if err != nil {
		if errors.Is(err, repository.ErrFormNotFound) {
			return nil, apperr.NotFound("Form not found")
		}
		return nil, err
	}

	if err := AuthorizeFormOwner(principalID, form.Author); err != nil {
		return nil, err
	}

	return review, nil
}

// ListByForm returns all reviews submitted against a form, oldest first.
// Author-only, like GetByID.
func (s *ReviewService) ListByForm(principalID, formID string) ([]models.Review, error) {
	form, err := s.forms.GetByID(formID)
	if err != nil {
		if errors.Is(err, repository.ErrFormNotFound) {
			return nil, apperr.NotFound("Form not found")
		}
		return nil, err
	}

	if err := AuthorizeFormOwner(principalID, form.Author); err != nil {
		return nil, err
	}

	return s.reviews.ListByForm(formID)
}
