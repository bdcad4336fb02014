package handlers

import (
	"net/http"

	"devreviewd/internal/middleware"
	"devreviewd/internal/models"
	"devreviewd/internal/service"
	"devreviewd/pkg/validator"
)

// FormHandler handles form lifecycle requests
type FormHandler struct {
	forms *service.FormService
}

// NewFormHandler creates a new form handler
func NewFormHandler(forms *service.FormService) *FormHandler {
	return &FormHandler{forms: forms}
}

// Create creates a new form with its initial question version
// @Summary Create a form
// @Description Create a form owned by the authenticated account, with a single initial version and no open review slots
// @Tags Forms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body object true "name, projectUrl, questions and optional overview"
// @Success 201 {object} models.UserRecord "Author's updated record"
// @Failure 422 {object} handlers.validationEnvelope "Validation error"
// @Router /forms [post]
func (h *FormHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return
	}

	body, err := validator.DecodeBody(r.Body)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	if ferr := body.Require("name", "projectUrl", "questions"); ferr != nil {
		respondFieldError(w, ferr)
		return
	}
	if ferr := body.AllowOnly("name", "projectUrl", "overview", "questions"); ferr != nil {
		respondFieldError(w, ferr)
		return
	}

	var in models.FormCreate
	var ferr *validator.FieldError

	if in.Name, ferr = body.String("name"); ferr != nil {
		respondFieldError(w, ferr)
		return
	}
	if in.ProjectURL, ferr = body.String("projectUrl"); ferr != nil {
		respondFieldError(w, ferr)
		return
	}
	if in.Questions, ferr = body.StringSlice("questions"); ferr != nil {
		respondFieldError(w, ferr)
		return
	}
	if body.Has("overview") {
		if in.Overview, ferr = body.String("overview"); ferr != nil {
			respondFieldError(w, ferr)
			return
		}
	}
	if ferr = validator.Trimmed("name", in.Name); ferr != nil {
		respondFieldError(w, ferr)
		return
	}

	record, err := h.forms.Create(userID, in)
	if err != nil {
		renderError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, record)
}

// ToReview selects a random form with open review slots
// @Summary Get a form to review
// @Description Select a uniformly random form with open review slots, excluding the requester's own forms when authenticated
// @Tags Forms
// @Produce json
// @Success 200 {object} models.Form "Form to review"
// @Failure 404 {object} map[string]string "No forms found"
// @Router /forms/to-review [get]
func (h *FormHandler) ToReview(w http.ResponseWriter, r *http.Request) {
	principalID, _ := middleware.GetUserID(r)

	form, err := h.forms.RandomForReview(principalID)
	if err != nil {
		renderError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, form)
}

// Get returns a form with its full version history
// @Summary Get a form
// @Description Get a form by id, including all question versions
// @Tags Forms
// @Produce json
// @Param id path string true "Form ID"
// @Success 200 {object} models.Form "Form"
// @Failure 404 {object} map[string]string "Form not found"
// @Router /forms/{id} [get]
func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	form, err := h.forms.GetByID(r.PathValue("id"))
	if err != nil {
		renderError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, form)
}

// Patch partially updates a form
// @Summary Update a form
// @Description Update descriptive fields, append a question version, or move the outstanding-request counter. Author only.
// @Tags Forms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Form ID"
// @Param body body object true "Any of name, projectUrl, overview, pendingRequests, questions"
// @Success 200 {object} models.UserRecord "Author's updated record"
// @Failure 401 {object} map[string]interface{} "Not the author"
// @Failure 404 {object} map[string]string "Form not found"
// @Failure 422 {object} handlers.validationEnvelope "Validation error"
// @Router /forms/{id} [patch]
func (h *FormHandler) Patch(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return
	}

	body, err := validator.DecodeBody(r.Body)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	if ferr := body.AllowOnly("name", "projectUrl", "overview", "pendingRequests", "questions"); ferr != nil {
		respondFieldError(w, ferr)
		return
	}

	patch, ferr := decodeFormPatch(body)
	if ferr != nil {
		respondFieldError(w, ferr)
		return
	}

	record, err := h.forms.Patch(userID, r.PathValue("id"), patch)
	if err != nil {
		renderError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, record)
}

// decodeFormPatch interprets the supplied subset of patchable fields
func decodeFormPatch(body validator.Body) (models.FormPatch, *validator.FieldError) {
	var patch models.FormPatch

	if body.Has("name") {
		name, ferr := body.String("name")
		if ferr != nil {
			return patch, ferr
		}
		if ferr := validator.Trimmed("name", name); ferr != nil {
			return patch, ferr
		}
		patch.Name = &name
	}
	if body.Has("projectUrl") {
		projectURL, ferr := body.String("projectUrl")
		if ferr != nil {
			return patch, ferr
		}
		patch.ProjectURL = &projectURL
	}
	if body.Has("overview") {
		overview, ferr := body.String("overview")
		if ferr != nil {
			return patch, ferr
		}
		patch.Overview = &overview
	}
	if body.Has("pendingRequests") {
		pending, ferr := body.Int("pendingRequests")
		if ferr != nil {
			return patch, ferr
		}
		patch.PendingRequests = &pending
	}
	if body.Has("questions") {
		questions, ferr := body.StringSlice("questions")
		if ferr != nil {
			return patch, ferr
		}
		patch.Questions = questions
	}

	return patch, nil
}

// Delete removes a form
// @Summary Delete a form
// @Description Delete a form. The body must repeat the form id from the path.
// @Tags Forms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Form ID"
// @Param body body object true "id matching the path"
// @Success 200 {object} models.UserRecord "Requester's updated record"
// @Failure 401 {object} map[string]interface{} "Body id does not match path id"
// @Failure 404 {object} map[string]string "Form not found"
// @Failure 422 {object} handlers.validationEnvelope "Missing body id"
// @Router /forms/{id} [delete]
func (h *FormHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return
	}

	// An absent body counts as a missing id field, not a malformed request
	body, err := validator.DecodeBody(r.Body)
	if err != nil {
		body = validator.Body{}
	}

	var requestID string
	if body.Has("id") {
		var ferr *validator.FieldError
		if requestID, ferr = body.String("id"); ferr != nil {
			respondFieldError(w, ferr)
			return
		}
	}

	record, err := h.forms.Delete(userID, r.PathValue("id"), requestID)
	if err != nil {
		renderError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, record)
}
