package models

import "github.com/shopspring/decimal"

// Transfer says that From owes To the given Amount.
// Amount is always positive.
type Transfer struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

// NetBalance is a participant's overall position in a group.
type NetBalance struct {
	ParticipantID string          `json:"id"`
	Name          string          `json:"name"`
	Net           decimal.Decimal `json:"net"` // Positive = is owed money, Negative = owes money
}

// ParticipantSummary breaks a net balance into what was paid and what is due.
type ParticipantSummary struct {
	ParticipantID string          `json:"id"`
	Name          string          `json:"name"`
	TotalPaid     decimal.Decimal `json:"totalPaid"`
	Share         decimal.Decimal `json:"share"`
	Net           decimal.Decimal `json:"net"`
}

// GroupSummary aggregates spending for a group.
type GroupSummary struct {
	GroupID        string               `json:"groupId"`
	TotalExpenses  decimal.Decimal      `json:"totalExpenses"`
	PerPersonShare decimal.Decimal      `json:"perPersonShare"`
	ExpenseCount   int                  `json:"expenseCount"`
	Participants   []ParticipantSummary `json:"participants"`
}

// Discrepancy reports a participant whose exact pairwise position does not
// match their net balance.
type Discrepancy struct {
	ParticipantID string          `json:"id"`
	Net           decimal.Decimal `json:"net"`
	Pairwise      decimal.Decimal `json:"pairwise"`
}
