package service

import (
	"database/sql"

	"devreviewd/internal/repository"
)

// CreditReconciler applies credit-balance deltas that correspond to
// changes in a form's outstanding-request counter or to a performed
// review. Opening review slots costs the author credit, closing them
// refunds it, and each performed review earns the reviewer one credit.
type CreditReconciler struct {
	users *repository.UserRepository
}

// NewCreditReconciler creates a new credit reconciler
func NewCreditReconciler(users *repository.UserRepository) *CreditReconciler {
	return &CreditReconciler{users: users}
}

// PendingDelta returns the credit adjustment owed to the author when the
// outstanding-request counter moves from previous to next: raising the
// counter debits the author, lowering it refunds them.
func PendingDelta(previous, next int) int {
	return previous - next
}

// ReconcilePending applies the author's credit adjustment for a counter
// change inside the caller's transaction
func (c *CreditReconciler) ReconcilePending(tx *sql.Tx, authorID string, previous, next int) error {
	delta := PendingDelta(previous, next)
	if delta == 0 {
		return nil
	}
	return c.users.WithTx(tx).AdjustCredit(authorID, delta)
}

// CreditReview credits the reviewer for one performed review inside the
// caller's transaction
func (c *CreditReconciler) CreditReview(tx *sql.Tx, reviewerID string) error {
	return c.users.WithTx(tx).AdjustCredit(reviewerID, 1)
}
