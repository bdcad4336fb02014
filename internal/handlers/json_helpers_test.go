package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"devreviewd/internal/models"
)

func TestJSONResponseEncodesNilSlicesAsArrays(t *testing.T) {
	w := httptest.NewRecorder()

	record := &models.UserRecord{ID: "user-1", Username: "alice"}
	if err := JSONResponse(w, record); err != nil {
		t.Fatalf("Failed to encode record: %v", err)
	}

	body := w.Body.String()
	if strings.Contains(body, "null") {
		t.Errorf("Expected empty arrays instead of null, got %s", body)
	}
	if !strings.Contains(body, `"forms":[]`) || !strings.Contains(body, `"reviewsGiven":[]`) {
		t.Errorf("Expected empty forms and reviewsGiven arrays, got %s", body)
	}
}
