package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a single payment made by one participant on behalf of the group.
// Expenses are created once and replaced wholesale, never mutated in place.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// GroupID is the group this expense belongs to.
	GroupID string `json:"groupId"`

	// PaidBy is the participant ID of the payer.
	PaidBy string `json:"paidBy"`

	// Amount is the positive amount paid, in major currency units.
	Amount decimal.Decimal `json:"amount"`

	// Description is a short human-readable label (e.g., "Dinner").
	Description string `json:"description"`

	// SplitEqually marks the expense as split evenly over all current
	// participants. It is the only split mode supported.
	SplitEqually bool `json:"splitEqually"`

	// CreatedAt is when the expense was recorded.
	CreatedAt time.Time `json:"createdAt"`
}
