package handlers

import (
	"net/http"

	"devreviewd/internal/middleware"
	"devreviewd/internal/service"
	"devreviewd/pkg/validator"
)

// AuthHandler handles login and token refresh requests
type AuthHandler struct {
	accounts *service.AccountService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(accounts *service.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Login authenticates with username and password
// @Summary Log in
// @Description Exchange username and password for a signed token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body object true "username and password"
// @Success 200 {object} map[string]string "authToken"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	body, err := validator.DecodeBody(r.Body)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	if ferr := body.Require("username", "password"); ferr != nil {
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

	token, err := h.accounts.Login(username, password)
	if err != nil {
		renderError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"authToken": token})
}

// Refresh issues a fresh token for the authenticated principal
// @Summary Refresh token
// @Description Issue a fresh token before the current one expires
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "authToken"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return
	}
	username, _ := middleware.GetUsername(r)

	token, err := h.accounts.Refresh(userID, username)
	if err != nil {
		renderError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"authToken": token})
}
