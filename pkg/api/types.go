package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Group struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Participants []Participant `json:"participants"`
	ExpenseCount int           `json:"expenseCount"`
	CreatedAt    time.Time     `json:"createdAt"`
}

type Expense struct {
	ID           string          `json:"id"`
	GroupID      string          `json:"groupId"`
	PaidBy       string          `json:"paidBy"`
	PaidByName   string          `json:"paidByName"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	SplitEqually bool            `json:"splitEqually"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// NetBalance is positive when the participant is owed money.
type NetBalance struct {
	ParticipantID string          `json:"participantId"`
	Name          string          `json:"name"`
	Net           decimal.Decimal `json:"net"`
}

// Transfer means From pays To the Amount. Names are resolved for display.
type Transfer struct {
	From     string          `json:"from"`
	FromName string          `json:"fromName"`
	To       string          `json:"to"`
	ToName   string          `json:"toName"`
	Amount   decimal.Decimal `json:"amount"`
}

type ParticipantSummary struct {
	ParticipantID string          `json:"participantId"`
	Name          string          `json:"name"`
	TotalPaid     decimal.Decimal `json:"totalPaid"`
	Share         decimal.Decimal `json:"share"`
	Net           decimal.Decimal `json:"net"`
}

type GroupSummary struct {
	TotalExpenses  decimal.Decimal      `json:"totalExpenses"`
	PerPersonShare decimal.Decimal      `json:"perPersonShare"`
	ExpenseCount   int                  `json:"expenseCount"`
	Participants   []ParticipantSummary `json:"participants"`
}

// GroupSettlement is the greedy transfer list of one group.
type GroupSettlement struct {
	GroupID   string     `json:"groupId"`
	GroupName string     `json:"groupName"`
	Transfers []Transfer `json:"transfers"`
}

type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}
