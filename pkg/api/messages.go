package api

import "github.com/shopspring/decimal"

// GroupService

type CreateGroupRequest struct {
	Name         string   `json:"name"`
	Participants []string `json:"participants"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupResponse struct {
	Group    *Group    `json:"group"`
	Expenses []Expense `json:"expenses"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type UpdateGroupRequest struct {
	GroupID string `json:"groupId"`
	Name    string `json:"name"`
}

type UpdateGroupResponse struct {
	Group *Group `json:"group"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"groupId"`
}

type DeleteGroupResponse struct{}

type AddParticipantRequest struct {
	GroupID string `json:"groupId"`
	Name    string `json:"name"`
}

type AddParticipantResponse struct {
	Group       *Group      `json:"group"`
	Participant Participant `json:"participant"`
}

type RemoveParticipantRequest struct {
	GroupID       string `json:"groupId"`
	ParticipantID string `json:"participantId"`
}

type RemoveParticipantResponse struct {
	Group *Group `json:"group"`
}

type GetGroupBalancesRequest struct {
	GroupID string `json:"groupId"`
}

// GetGroupBalancesResponse carries every derived view of one fresh snapshot.
type GetGroupBalancesResponse struct {
	GroupID   string        `json:"groupId"`
	GroupName string        `json:"groupName"`
	Currency  string        `json:"currency"`
	Net       []NetBalance  `json:"net"`
	Transfers []Transfer    `json:"transfers"`
	Exact     []Transfer    `json:"exact"`
	Summary   *GroupSummary `json:"summary"`
}

// ExpenseService

type AddExpenseRequest struct {
	GroupID     string          `json:"groupId"`
	PaidBy      string          `json:"paidBy"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

type AddExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type UpdateExpenseRequest struct {
	ExpenseID   string          `json:"expenseId"`
	PaidBy      string          `json:"paidBy"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

type UpdateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expenseId"`
}

type DeleteExpenseResponse struct{}

type ListExpensesRequest struct {
	GroupID string `json:"groupId"`
}

type ListExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}

// SummaryService

type GetSummaryRequest struct{}

type GetSummaryResponse struct {
	Currency string            `json:"currency"`
	Groups   []GroupSettlement `json:"groups"`

	// TotalOutstanding is the sum of every transfer across all groups.
	TotalOutstanding decimal.Decimal `json:"totalOutstanding"`
}

// AuthService

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}
