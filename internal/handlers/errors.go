package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"devreviewd/internal/apperr"
	"devreviewd/pkg/validator"
)

// validationEnvelope is the wire shape of a 422 response
type validationEnvelope struct {
	Code     int    `json:"code"`
	Reason   string `json:"reason"`
	Message  string `json:"message"`
	Location string `json:"location,omitempty"`
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := JSONResponse(w, payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondValidation sends the 422 envelope for a failed field check
func respondValidation(w http.ResponseWriter, message, location string) {
	respondWithJSON(w, http.StatusUnprocessableEntity, validationEnvelope{
		Code:     http.StatusUnprocessableEntity,
		Reason:   "ValidationError",
		Message:  message,
		Location: location,
	})
}

func respondFieldError(w http.ResponseWriter, err *validator.FieldError) {
	respondValidation(w, err.Message, err.Location)
}

// renderError maps service-layer errors onto the wire. Validation
// failures get the 422 envelope, ownership failures 401, missed lookups
// 404; anything else is an internal error and is logged rather than
// leaked.
func renderError(w http.ResponseWriter, err error) {
	var validation *apperr.ValidationError
	if errors.As(err, &validation) {
		respondValidation(w, validation.Message, validation.Location)
		return
	}

	var unauthorized *apperr.UnauthorizedError
	if errors.As(err, &unauthorized) {
		respondWithJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"code":    http.StatusUnauthorized,
			"message": unauthorized.Message,
		})
		return
	}

	var notFound *apperr.NotFoundError
	if errors.As(err, &notFound) {
		respondWithJSON(w, http.StatusNotFound, map[string]string{
			"message": notFound.Message,
		})
		return
	}

	slog.Error("Request failed", "error", err)
	respondWithJSON(w, http.StatusInternalServerError, map[string]interface{}{
		"code":    http.StatusInternalServerError,
		"message": ErrMsgInternal,
	})
}
