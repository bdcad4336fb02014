package handlers

import (
	"net/http"

	"devreviewd/internal/middleware"
	"devreviewd/internal/service"
	"devreviewd/pkg/validator"
)

// UserHandler handles account registration and account lookup requests
type UserHandler struct {
	accounts *service.AccountService
}

// NewUserHandler creates a new user handler
func NewUserHandler(accounts *service.AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// Register creates a new account
// @Summary Register a new account
// @Description Create an account with a unique username and a zero credit balance
// @Tags Users
// @Accept json
// @Produce json
// @Param body body object true "username and password"
// @Success 201 {object} models.UserRecord "Created account record"
// @Failure 422 {object} handlers.validationEnvelope "Validation error"
// @Router /users [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	body, err := validator.DecodeBody(r.Body)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	if ferr := body.Require("username", "password"); ferr != nil {
		respondFieldError(w, ferr)
		return
	}
	if ferr := body.AllowOnly("username", "password"); ferr != nil {
		respondFieldError(w, ferr)
		return
	}

	username, ferr := body.String("username")
	if ferr != nil {
		respondFieldError(w, ferr)
		return
	}
	password, ferr := body.String("password")
	if ferr != nil {
		respondFieldError(w, ferr)
		return
	}

	for _, check := range []*validator.FieldError{
		validator.Trimmed("username", username),
		validator.Trimmed("password", password),
		validator.Sized("username", username, UsernameMinLength, UsernameMaxLength),
		validator.Sized("password", password, PasswordMinLength, PasswordMaxLength),
	} {
		if check != nil {
			respondFieldError(w, check)
			return
		}
	}

	record, err := h.accounts.Register(username, password)
	if err != nil {
		renderError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, record)
}

// GetUsername returns the public username for an account id
// @Summary Look up a username
// @Description Resolve an account id to its public username
// @Tags Users
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} map[string]string "Username"
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id} [get]
func (h *UserHandler) GetUsername(w http.ResponseWriter, r *http.Request) {
	username, err := h.accounts.Username(r.PathValue("id"))
	if err != nil {
		renderError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"username": username})
}

// Me returns the authenticated principal's account record
// @Summary Get current account
// @Description Get the authenticated account's record with credit and reference lists
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserRecord "Account record"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /users/me [get]
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return
	}

	record, err := h.accounts.Record(userID)
	if err != nil {
		renderError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, record)
}
