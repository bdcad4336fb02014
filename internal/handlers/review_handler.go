package handlers

import (
	"net/http"

	"devreviewd/internal/middleware"
	"devreviewd/internal/models"
	"devreviewd/internal/service"
	"devreviewd/pkg/validator"
)

// ReviewHandler handles review submission and retrieval requests
type ReviewHandler struct {
	reviews *service.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// Submit records a review against a form version
// @Summary Submit a review
// @Description Submit responses against a form version. A registered reviewer earns one credit and the form loses one open slot; an anonymous reviewer leaves no ledger trace.
// @Tags Reviews
// @Accept json
// @Produce json
// @Param body body object true "formId, formVersion, responses, and reviewerId or reviewerName"
// @Success 201 {object} models.UserRecord "Reviewer's updated record"
// @Success 204 "Anonymous review recorded"
// @Failure 404 {object} map[string]string "Form or reviewer not found"
// @Failure 422 {object} handlers.validationEnvelope "Validation error"
// @Router /reviews [post]
func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	body, err := validator.DecodeBody(r.Body)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	if ferr := body.Require("formId", "formVersion", "responses"); ferr != nil {
		respondFieldError(w, ferr)
		return
	}
	if ferr := body.AllowOnly("formId", "formVersion", "responses", "reviewerId", "reviewerName"); ferr != nil {
		respondFieldError(w, ferr)
		return
	}

	var in models.ReviewSubmission
	var ferr *validator.FieldError

	if in.FormID, ferr = body.String("formId"); ferr != nil {
		respondFieldError(w, ferr)
		return
	}
	if in.FormVersion, ferr = body.String("formVersion"); ferr != nil {
		respondFieldError(w, ferr)
		return
	}
	if in.Responses, ferr = body.StringSlice("responses"); ferr != nil {
		respondFieldError(w, ferr)
		return
	}
	if body.Has("reviewerId") {
		if in.ReviewerID, ferr = body.String("reviewerId"); ferr != nil {
			respondFieldError(w, ferr)
			return
		}
	}
	if body.Has("reviewerName") {
		if in.ReviewerName, ferr = body.String("reviewerName"); ferr != nil {
			respondFieldError(w, ferr)
			return
		}
	}

	record, err := h.reviews.Submit(in)
	if err != nil {
		renderError(w, err)
		return
	}

	// Anonymous submissions settle nothing, so there is no record to return
	if record == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	respondWithJSON(w, http.StatusCreated, record)
}

// Get returns a single review
// @Summary Get a review
// @Description Get a review by id. Only the author of the reviewed form may read it.
// @Tags Reviews
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 200 {object} models.Review "Review"
// @Failure 401 {object} map[string]interface{} "Not the form author"
// @Failure 404 {object} map[string]string "Review not found"
// @Router /reviews/{id} [get]
func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return
	}

	review, err := h.reviews.GetByID(userID, r.PathValue("id"))
	if err != nil {
		renderError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, review)
}

// ListByForm returns all reviews for a form
// @Summary List a form's reviews
// @Description List all reviews submitted against a form, oldest first. Author only.
// @Tags Reviews
// @Produce json
// @Security BearerAuth
// @Param id path string true "Form ID"
// @Success 200 {array} models.Review "Reviews"
// @Failure 401 {object} map[string]interface{} "Not the form author"
// @Failure 404 {object} map[string]string "Form not found"
// @Router /forms/{id}/reviews [get]
func (h *ReviewHandler) ListByForm(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return
	}

	reviews, err := h.reviews.ListByForm(userID, r.PathValue("id"))
	if err != nil {
		renderError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, reviews)
}
