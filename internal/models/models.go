package models

import (
	"time"
)

// User represents a registered account. The credit balance tracks review
// requests issued (debit) against reviews performed (credit) and may go
// negative.
type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Credit       int       `json:"credit" db:"credit"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// UserRecord is the canonical serialized account representation returned by
// ledger operations: the balance plus the ordered reference lists that
// downstream consumers need after a form or review mutation.
type UserRecord struct {
	ID           string   `json:"id"`
	Username     string   `json:"username"`
	Credit       int      `json:"credit"`
	Forms        []string `json:"forms"`
	ReviewsGiven []string `json:"reviewsGiven"`
}

// FormVersion is an immutable, timestamped snapshot of a form's question
// set. Versions are only ever appended, never edited or removed.
type FormVersion struct {
	ID        string    `json:"id"`
	Questions []string  `json:"questions"`
	Date      time.Time `json:"date"`
}

// Form is an author-owned, versioned set of review questions tied to a
// project. PendingRequests counts outstanding review slots and may go
// negative when the author reduces it below the reviews already performed.
type Form struct {
	ID              string        `json:"id"`
	Author          string        `json:"author"`
	Name            string        `json:"name"`
	ProjectURL      string        `json:"projectUrl"`
	Overview        string        `json:"overview"`
	PendingRequests int           `json:"pendingRequests"`
	Created         time.Time     `json:"created"`
	Versions        []FormVersion `json:"versions"`
}

// Review is a set of responses submitted against one specific form version.
// Exactly one of ReviewerID and ReviewerName is set.
type Review struct {
	ID           string    `json:"id"`
	FormID       string    `json:"formId"`
	FormVersion  string    `json:"formVersion"`
	ReviewerID   *string   `json:"reviewerId,omitempty"`
	ReviewerName *string   `json:"reviewerName,omitempty"`
	Responses    []string  `json:"responses"`
	Date         time.Time `json:"date"`
}

// FormCreate carries the validated input for creating a form.
type FormCreate struct {
	Name       string
	ProjectURL string
	Overview   string
	Questions  []string
}

// FormPatch carries a partial form update. Nil fields were not supplied.
// A supplied Questions slice appends a new version snapshot.
type FormPatch struct {
	Name            *string
	ProjectURL      *string
	Overview        *string
	PendingRequests *int
	Questions       []string
}

// ReviewSubmission carries the validated input for submitting a review.
// ReviewerID and ReviewerName are both optional at this level; the
// submission manager enforces that exactly one is present.
type ReviewSubmission struct {
	FormID       string
	FormVersion  string
	Responses    []string
	ReviewerID   string
	ReviewerName string
}
