package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitit/internal/models"
)

// MinorUnitPlaces is the number of decimal places in the currency minor unit.
// Every amount returned by this package is rounded to it.
const MinorUnitPlaces = 2

// UnknownParticipant is the display name used for IDs that are not in a group.
const UnknownParticipant = "Unknown"

// RoundMoney rounds d to the currency minor unit, half away from zero.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MinorUnitPlaces)
}

// isSettled reports whether a remaining amount is below half a minor unit.
func isSettled(d decimal.Decimal) bool {
	return RoundMoney(d).Sign() <= 0
}

// EqualShare divides amount evenly over n people without rounding.
// A non-positive n yields zero rather than a division by zero.
func EqualShare(amount decimal.Decimal, n int) decimal.Decimal {
	if n <= 0 {
		return decimal.Zero
	}
	return amount.Div(decimal.NewFromInt(int64(n)))
}

// SplitExpense computes what each participant owes the payer for one expense.
// The expense is split evenly across all current participants; the payer's own
// share is not a debt and is left out. An empty participant list yields nil.
func SplitExpense(expense models.Expense, participants []models.Participant) map[string]decimal.Decimal {
	if len(participants) == 0 {
		return nil
	}

	share := EqualShare(expense.Amount, len(participants))
	splits := make(map[string]decimal.Decimal, len(participants))
	for _, p := range participants {
		if p.ID == expense.PaidBy {
			continue
		}
		splits[p.ID] = splits[p.ID].Add(share)
	}
	return splits
}

// TotalExpenses sums the amounts of all expenses in the group.
func TotalExpenses(group models.Group) decimal.Decimal {
	total := decimal.Zero
	for _, e := range group.Expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// TotalPaid sums what one participant paid across the group's expenses.
func TotalPaid(group models.Group, participantID string) decimal.Decimal {
	total := decimal.Zero
	for _, e := range group.Expenses {
		if e.PaidBy == participantID {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// PerPersonShare is the group's total spend divided evenly over its participants.
func PerPersonShare(group models.Group) decimal.Decimal {
	return EqualShare(TotalExpenses(group), len(group.Participants))
}

// ParticipantName resolves a participant ID to its display name, falling back
// to UnknownParticipant for IDs that are not in the group.
func ParticipantName(group models.Group, participantID string) string {
	if p, ok := group.Participant(participantID); ok && p.Name != "" {
		return p.Name
	}
	return UnknownParticipant
}
