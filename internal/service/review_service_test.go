package service

import (
	"errors"
	"testing"

	"devreviewd/internal/apperr"
	"devreviewd/internal/models"
)

func TestResolveReviewer(t *testing.T) {
	reviewer, err := resolveReviewer(models.ReviewSubmission{ReviewerID: "user-1"})
	if err != nil {
		t.Fatalf("Expected registered reviewer, got error %v", err)
	}
	registered, ok := reviewer.(RegisteredReviewer)
	if !ok {
		t.Fatalf("Expected RegisteredReviewer, got %T", reviewer)
	}
	if registered.UserID != "user-1" {
		t.Errorf("Expected user-1, got %s", registered.UserID)
	}

	reviewer, err = resolveReviewer(models.ReviewSubmission{ReviewerName: "External Emma"})
	if err != nil {
		t.Fatalf("Expected anonymous reviewer, got error %v", err)
	}
	anonymous, ok := reviewer.(AnonymousReviewer)
	if !ok {
		t.Fatalf("Expected AnonymousReviewer, got %T", reviewer)
	}
	if anonymous.Name != "External Emma" {
		t.Errorf("Expected External Emma, got %s", anonymous.Name)
	}
}

func TestResolveReviewerRejectsBothAndNeither(t *testing.T) {
	for _, in := range []models.ReviewSubmission{
		{},
		{ReviewerID: "user-1", ReviewerName: "External Emma"},
	} {
		_, err := resolveReviewer(in)
		if err == nil {
			t.Fatalf("Expected rejection for reviewerId=%q reviewerName=%q", in.ReviewerID, in.ReviewerName)
		}
		var validation *apperr.ValidationError
		if !errors.As(err, &validation) {
			t.Fatalf("Expected ValidationError, got %T", err)
		}
		if validation.Message != "Must provide reviewerId or reviewerName" {
			t.Errorf("Unexpected message %q", validation.Message)
		}
	}
}

func TestValidateResponses(t *testing.T) {
	form := &models.Form{
		Versions: []models.FormVersion{
			{ID: "v1", Questions: []string{"Is the README clear?", "Does it build?"}},
		},
	}

	if err := validateResponses(form, models.ReviewSubmission{FormVersion: "v1", Responses: []string{"Yes", "Yes"}}); err != nil {
		t.Errorf("Expected matching response count to pass, got %v", err)
	}

	err := validateResponses(form, models.ReviewSubmission{FormVersion: "v1", Responses: []string{"Yes"}})
	var validation *apperr.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("Expected ValidationError for short responses, got %v", err)
	}

	// Unknown versions pass through unchecked
	if err := validateResponses(form, models.ReviewSubmission{FormVersion: "v9", Responses: []string{"Yes"}}); err != nil {
		t.Errorf("Expected unknown version to pass through, got %v", err)
	}
}
