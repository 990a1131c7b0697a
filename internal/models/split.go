package models

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/money"
)

// Expense is an amount paid by one user and shared among several.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// Description is what the money was spent on (e.g., "Dinner", "Taxi").
	Description string

	// Amount is the total paid.
	Amount money.Money

	// PaidBy is the user ID of the payer.
	PaidBy string

	// GroupID is the group the expense belongs to; empty for non-group expenses.
	GroupID string

	// SplitType is the policy used to compute Splits: EQUAL, EXACT or PERCENTAGE.
	SplitType string

	// Splits are the per-user shares in allocation order. Their amounts add
	// up to Amount.
	Splits []Split

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// Split is one user's share of an expense.
type Split struct {
	// UserID is the user who owes this share.
	UserID string

	// Amount is the owed share.
	Amount money.Money

	// Percentage is the user's percentage for PERCENTAGE expenses.
	Percentage decimal.NullDecimal
}

// ParticipantIDs returns the users holding a split, in split order.
func (e *Expense) ParticipantIDs() []string {
	ids := make([]string, len(e.Splits))
	for i, s := range e.Splits {
		ids[i] = s.UserID
	}
	return ids
}
