package service_test

import (
	"errors"
	"testing"

	"devreviewd/internal/apperr"
	"devreviewd/internal/models"
	"devreviewd/internal/repository"
	"devreviewd/internal/service"
	"devreviewd/internal/testutil"
)

type ledgerEnv struct {
	containers *testutil.TestContainers
	users      *repository.UserRepository
	forms      *service.FormService
	reviews    *service.ReviewService
}

func setupLedger(t *testing.T) *ledgerEnv {
	t.Helper()

	containers := testutil.SetupTestContainers(t)
	t.Cleanup(func() { containers.Cleanup(t) })

	userRepo := repository.NewUserRepository(containers.DB)
	formRepo := repository.NewFormRepository(containers.DB)
	reviewRepo := repository.NewReviewRepository(containers.DB)
	reconciler := service.NewCreditReconciler(userRepo)

	return &ledgerEnv{
		containers: containers,
		users:      userRepo,
		forms:      service.NewFormService(containers.DB, formRepo, userRepo, reconciler),
		reviews:    service.NewReviewService(containers.DB, reviewRepo, formRepo, userRepo, reconciler),
	}
}

func TestFormLifecycleAdjustsAuthorCredit(t *testing.T) {
	env := setupLedger(t)
	author := testutil.CreateTestUser(t, env.containers.DB, "alice")

	record, err := env.forms.Create(author.ID, models.FormCreate{
		Name:       "api-review",
		ProjectURL: "https://github.com/alice/api",
		Questions:  []string{"Is the API consistent?", "Are errors documented?"},
	})
	if err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}
	if len(record.Forms) != 1 {
		t.Fatalf("Expected one form in the author record, got %d", len(record.Forms))
	}
	if record.Credit != 0 {
		t.Errorf("Expected creation to leave credit at 0, got %d", record.Credit)
	}
	formID := record.Forms[0]

	// Opening three review slots costs the author three credits
	pending := 3
	record, err = env.forms.Patch(author.ID, formID, models.FormPatch{PendingRequests: &pending})
	if err != nil {
		t.Fatalf("Failed to open review slots: %v", err)
	}
	if record.Credit != -3 {
		t.Errorf("Expected credit -3 after opening three slots, got %d", record.Credit)
	}

	// Closing two of them refunds two
	pending = 1
	record, err = env.forms.Patch(author.ID, formID, models.FormPatch{PendingRequests: &pending})
	if err != nil {
		t.Fatalf("Failed to close review slots: %v", err)
	}
	if record.Credit != -1 {
		t.Errorf("Expected credit -1 after closing two slots, got %d", record.Credit)
	}

	// Deleting the form discards the remaining slot without a refund
	record, err = env.forms.Delete(author.ID, formID, formID)
	if err != nil {
		t.Fatalf("Failed to delete form: %v", err)
	}
	if record.Credit != -1 {
		t.Errorf("Expected deletion to leave credit at -1, got %d", record.Credit)
	}
	if len(record.Forms) != 0 {
		t.Errorf("Expected no forms after deletion, got %d", len(record.Forms))
	}

	if _, err := env.forms.GetByID(formID); !isNotFound(err, "Form not found") {
		t.Errorf("Expected deleted form to be gone, got %v", err)
	}
}

func TestPatchAppendsImmutableVersions(t *testing.T) {
	env := setupLedger(t)
	author := testutil.CreateTestUser(t, env.containers.DB, "alice")
	form := testutil.CreateTestForm(t, env.containers.DB, author.ID, "cli-review", []string{"Does the help text make sense?"})

	if _, err := env.forms.Patch(author.ID, form.ID, models.FormPatch{
		Questions: []string{"Does the help text make sense?", "Are flags discoverable?"},
	}); err != nil {
		t.Fatalf("Failed to append a version: %v", err)
	}

	got, err := env.forms.GetByID(form.ID)
	if err != nil {
		t.Fatalf("Failed to load form: %v", err)
	}
	if len(got.Versions) != 2 {
		t.Fatalf("Expected two versions, got %d", len(got.Versions))
	}
	if len(got.Versions[0].Questions) != 1 || len(got.Versions[1].Questions) != 2 {
		t.Errorf("Expected versions in append order, got %d then %d questions",
			len(got.Versions[0].Questions), len(got.Versions[1].Questions))
	}
}

func TestPatchRejectsNonAuthor(t *testing.T) {
	env := setupLedger(t)
	author := testutil.CreateTestUser(t, env.containers.DB, "alice")
	intruder := testutil.CreateTestUser(t, env.containers.DB, "mallory")
	form := testutil.CreateTestForm(t, env.containers.DB, author.ID, "api-review", []string{"Is the API consistent?"})

	name := "renamed"
	_, err := env.forms.Patch(intruder.ID, form.ID, models.FormPatch{Name: &name})
	var unauthorized *apperr.UnauthorizedError
	if !errors.As(err, &unauthorized) {
		t.Fatalf("Expected UnauthorizedError for non-author patch, got %v", err)
	}

	// Missing forms read as missing, not forbidden
	_, err = env.forms.Patch(intruder.ID, "00000000-0000-0000-0000-000000000000", models.FormPatch{Name: &name})
	if !isNotFound(err, "Form not found") {
		t.Errorf("Expected Form not found for unknown id, got %v", err)
	}
}

func TestDeleteRequiresMatchingBodyID(t *testing.T) {
	env := setupLedger(t)
	author := testutil.CreateTestUser(t, env.containers.DB, "alice")
	form := testutil.CreateTestForm(t, env.containers.DB, author.ID, "api-review", []string{"Is the API consistent?"})

	_, err := env.forms.Delete(author.ID, form.ID, "")
	var validation *apperr.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("Expected ValidationError for missing body id, got %v", err)
	}
	if validation.Location != "id" {
		t.Errorf("Expected location id, got %q", validation.Location)
	}

	_, err = env.forms.Delete(author.ID, form.ID, "some-other-id")
	var unauthorized *apperr.UnauthorizedError
	if !errors.As(err, &unauthorized) {
		t.Fatalf("Expected UnauthorizedError for mismatched body id, got %v", err)
	}

	// The form survived both failed attempts
	if _, err := env.forms.GetByID(form.ID); err != nil {
		t.Errorf("Expected form to survive failed deletes, got %v", err)
	}
}

func TestRegisteredReviewSettlement(t *testing.T) {
	env := setupLedger(t)
	author := testutil.CreateTestUser(t, env.containers.DB, "alice")
	reviewer := testutil.CreateTestUser(t, env.containers.DB, "bob")
	form := testutil.CreateTestForm(t, env.containers.DB, author.ID, "api-review",
		[]string{"Is the API consistent?", "Are errors documented?"})
	testutil.SetPendingRequests(t, env.containers.DB, form.ID, 2)

	record, err := env.reviews.Submit(models.ReviewSubmission{
		FormID:      form.ID,
		FormVersion: form.Versions[0].ID,
		Responses:   []string{"Mostly", "No"},
		ReviewerID:  reviewer.ID,
	})
	if err != nil {
		t.Fatalf("Failed to submit review: %v", err)
	}

	if record.ID != reviewer.ID {
		t.Errorf("Expected the reviewer's record, got %s", record.ID)
	}
	if record.Credit != 1 {
		t.Errorf("Expected reviewer credit 1, got %d", record.Credit)
	}
	if len(record.ReviewsGiven) != 1 {
		t.Fatalf("Expected one review in reviewsGiven, got %d", len(record.ReviewsGiven))
	}

	got, err := env.forms.GetByID(form.ID)
	if err != nil {
		t.Fatalf("Failed to load form: %v", err)
	}
	if got.PendingRequests != 1 {
		t.Errorf("Expected pending requests to drop to 1, got %d", got.PendingRequests)
	}

	review, err := env.reviews.GetByID(author.ID, record.ReviewsGiven[0])
	if err != nil {
		t.Fatalf("Author failed to read the review: %v", err)
	}
	if review.ReviewerID == nil || *review.ReviewerID != reviewer.ID {
		t.Errorf("Expected reviewerId %s, got %v", reviewer.ID, review.ReviewerID)
	}
	if review.ReviewerName != nil {
		t.Errorf("Expected no reviewerName on a registered review, got %q", *review.ReviewerName)
	}
}

func TestAnonymousReviewLeavesLedgerUntouched(t *testing.T) {
	env := setupLedger(t)
	author := testutil.CreateTestUser(t, env.containers.DB, "alice")
	form := testutil.CreateTestForm(t, env.containers.DB, author.ID, "api-review", []string{"Is the API consistent?"})
	testutil.SetPendingRequests(t, env.containers.DB, form.ID, 2)

	record, err := env.reviews.Submit(models.ReviewSubmission{
		FormID:       form.ID,
		FormVersion:  form.Versions[0].ID,
		Responses:    []string{"Yes"},
		ReviewerName: "External Emma",
	})
	if err != nil {
		t.Fatalf("Failed to submit anonymous review: %v", err)
	}
	if record != nil {
		t.Errorf("Expected no record for an anonymous review, got %+v", record)
	}

	got, err := env.forms.GetByID(form.ID)
	if err != nil {
		t.Fatalf("Failed to load form: %v", err)
	}
	if got.PendingRequests != 2 {
		t.Errorf("Expected pending requests untouched at 2, got %d", got.PendingRequests)
	}

	reviews, err := env.reviews.ListByForm(author.ID, form.ID)
	if err != nil {
		t.Fatalf("Failed to list reviews: %v", err)
	}
	if len(reviews) != 1 {
		t.Fatalf("Expected one review, got %d", len(reviews))
	}
	if reviews[0].ReviewerName == nil || *reviews[0].ReviewerName != "External Emma" {
		t.Errorf("Expected reviewerName External Emma, got %v", reviews[0].ReviewerName)
	}
}

func TestReviewsAreAuthorConfidential(t *testing.T) {
	env := setupLedger(t)
	author := testutil.CreateTestUser(t, env.containers.DB, "alice")
	other := testutil.CreateTestUser(t, env.containers.DB, "bob")
	form := testutil.CreateTestForm(t, env.containers.DB, author.ID, "api-review", []string{"Is the API consistent?"})

	if _, err := env.reviews.Submit(models.ReviewSubmission{
		FormID:       form.ID,
		FormVersion:  form.Versions[0].ID,
		Responses:    []string{"Yes"},
		ReviewerName: "External Emma",
	}); err != nil {
		t.Fatalf("Failed to submit review: %v", err)
	}

	reviews, err := env.reviews.ListByForm(author.ID, form.ID)
	if err != nil {
		t.Fatalf("Author failed to list reviews: %v", err)
	}

	var unauthorized *apperr.UnauthorizedError
	if _, err := env.reviews.ListByForm(other.ID, form.ID); !errors.As(err, &unauthorized) {
		t.Errorf("Expected non-author list to be rejected, got %v", err)
	}
	if _, err := env.reviews.GetByID(other.ID, reviews[0].ID); !errors.As(err, &unauthorized) {
		t.Errorf("Expected non-author read to be rejected, got %v", err)
	}

	// A wrong identifier reads as missing, not forbidden
	if _, err := env.reviews.GetByID(other.ID, "00000000-0000-0000-0000-000000000000"); !isNotFound(err, "Review not found") {
		t.Errorf("Expected Review not found for unknown id, got %v", err)
	}
}

func TestRandomForReviewExcludesOwnForms(t *testing.T) {
	env := setupLedger(t)
	author := testutil.CreateTestUser(t, env.containers.DB, "alice")
	other := testutil.CreateTestUser(t, env.containers.DB, "bob")
	own := testutil.CreateTestForm(t, env.containers.DB, author.ID, "own-form", []string{"Q?"})
	foreign := testutil.CreateTestForm(t, env.containers.DB, other.ID, "foreign-form", []string{"Q?"})
	testutil.SetPendingRequests(t, env.containers.DB, own.ID, 1)
	testutil.SetPendingRequests(t, env.containers.DB, foreign.ID, 1)

	// The only candidate with open slots that is not alice's own
	for i := 0; i < 5; i++ {
		form, err := env.forms.RandomForReview(author.ID)
		if err != nil {
			t.Fatalf("Failed to pick a form to review: %v", err)
		}
		if form.ID != foreign.ID {
			t.Fatalf("Expected only bob's form to be offered, got %s", form.ID)
		}
	}

	// Anonymous requesters may be offered anything with open slots
	if _, err := env.forms.RandomForReview(""); err != nil {
		t.Errorf("Expected an anonymous pick to succeed, got %v", err)
	}

	// Closing the foreign slot leaves alice with nothing to review
	testutil.SetPendingRequests(t, env.containers.DB, foreign.ID, 0)
	if _, err := env.forms.RandomForReview(author.ID); !isNotFound(err, "No forms found") {
		t.Errorf("Expected No forms found, got %v", err)
	}
}

func isNotFound(err error, message string) bool {
	var notFound *apperr.NotFoundError
	return errors.As(err, &notFound) && notFound.Message == message
}
