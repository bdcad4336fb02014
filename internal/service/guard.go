package service

import (
	"strings"

	"devreviewd/internal/apperr"
)

// AuthorizeFormOwner returns nil iff the authenticated principal is the
// form's author. The check is pure identifier equality after
// normalization; callers are responsible for loading the form. On
// mismatch the error message carries both identifiers for diagnostics.
func AuthorizeFormOwner(principalID, formAuthor string) error {
	if normalizeID(principalID) == normalizeID(formAuthor) {
		return nil
	}
	return apperr.Unauthorized("user %s is not the author (%s) of this form", principalID, formAuthor)
}

// normalizeID canonicalizes an identifier for comparison. UUIDs compare
// case-insensitively.
func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
