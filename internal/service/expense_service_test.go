package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitit/pkg/api"
)

func TestAddExpense(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	group := c.createGroup(t, "Trip", "Asha", "Ben")
	asha := participantID(t, group, "Asha")

	expense := c.addExpense(t, group.ID, asha, "100.005", "  Hotel  ")

	if expense.ID == "" || expense.GroupID != group.ID {
		t.Errorf("unexpected expense: %+v", expense)
	}
	if expense.Description != "Hotel" {
		t.Errorf("description: expected 'Hotel', got %q", expense.Description)
	}
	if got := expense.Amount.StringFixed(2); got != "100.01" {
		t.Errorf("amount should be rounded to the minor unit, got %s", got)
	}
	if !expense.SplitEqually || expense.PaidByName != "Asha" {
		t.Errorf("unexpected expense: %+v", expense)
	}

	// Stored in the collection and the group snapshot
	if n := len(c.repo.ExpensesByGroup(ctx, group.ID)); n != 1 {
		t.Errorf("expected 1 stored expense, got %d", n)
	}
	stored, _ := c.repo.Group(ctx, group.ID)
	if len(stored.Expenses) != 1 || stored.Expenses[0].ID != expense.ID {
		t.Errorf("group snapshot not updated: %+v", stored.Expenses)
	}
}

func TestAddExpense_Validation(t *testing.T) {
	c := setupTestServer(t)
	group := c.createGroup(t, "Trip", "Asha", "Ben")
	asha := participantID(t, group, "Asha")

	tests := []struct {
		name     string
		req      *api.AddExpenseRequest
		wantCode connect.Code
	}{
		{
			name:     "missing description",
			req:      &api.AddExpenseRequest{GroupID: group.ID, PaidBy: asha, Amount: decimal.NewFromInt(10)},
			wantCode: connect.CodeInvalidArgument,
		},
		{
			name:     "zero amount",
			req:      &api.AddExpenseRequest{GroupID: group.ID, PaidBy: asha, Amount: decimal.Zero, Description: "Tea"},
			wantCode: connect.CodeInvalidArgument,
		},
		{
			name:     "negative amount",
			req:      &api.AddExpenseRequest{GroupID: group.ID, PaidBy: asha, Amount: decimal.NewFromInt(-5), Description: "Tea"},
			wantCode: connect.CodeInvalidArgument,
		},
		{
			name:     "rounds to zero",
			req:      &api.AddExpenseRequest{GroupID: group.ID, PaidBy: asha, Amount: decimal.RequireFromString("0.004"), Description: "Tea"},
			wantCode: connect.CodeInvalidArgument,
		},
		{
			name:     "payer outside group",
			req:      &api.AddExpenseRequest{GroupID: group.ID, PaidBy: "ghost", Amount: decimal.NewFromInt(5), Description: "Tea"},
			wantCode: connect.CodeInvalidArgument,
		},
		{
			name:     "unknown group",
			req:      &api.AddExpenseRequest{GroupID: "missing", PaidBy: asha, Amount: decimal.NewFromInt(5), Description: "Tea"},
			wantCode: connect.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.expenses.AddExpense(context.Background(), connect.NewRequest(tt.req))
			assertCode(t, err, tt.wantCode)
		})
	}

	if n := len(c.repo.Expenses(context.Background())); n != 0 {
		t.Errorf("rejected expenses must not be stored, found %d", n)
	}
}

func TestUpdateExpense(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	group := c.createGroup(t, "Trip", "Asha", "Ben")
	asha, ben := participantID(t, group, "Asha"), participantID(t, group, "Ben")
	expense := c.addExpense(t, group.ID, asha, "40", "Taxi")

	resp, err := c.expenses.UpdateExpense(ctx, connect.NewRequest(&api.UpdateExpenseRequest{
		ExpenseID:   expense.ID,
		PaidBy:      ben,
		Amount:      decimal.NewFromInt(60),
		Description: "Taxi to airport",
	}))
	if err != nil {
		t.Fatalf("UpdateExpense failed: %v", err)
	}
	if resp.Msg.Expense.PaidByName != "Ben" || resp.Msg.Expense.Amount.StringFixed(2) != "60.00" {
		t.Errorf("unexpected expense: %+v", resp.Msg.Expense)
	}
	if !resp.Msg.Expense.CreatedAt.Equal(expense.CreatedAt) {
		t.Error("CreatedAt should not change on update")
	}

	balances, err := c.groups.GetGroupBalances(ctx, connect.NewRequest(&api.GetGroupBalancesRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("GetGroupBalances failed: %v", err)
	}
	if tr := balances.Msg.Transfers; len(tr) != 1 || tr[0].FromName != "Asha" || tr[0].Amount.StringFixed(2) != "30.00" {
		t.Errorf("balances should reflect the update, got %+v", tr)
	}

	_, err = c.expenses.UpdateExpense(ctx, connect.NewRequest(&api.UpdateExpenseRequest{
		ExpenseID:   "missing",
		PaidBy:      ben,
		Amount:      decimal.NewFromInt(1),
		Description: "x",
	}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = c.expenses.UpdateExpense(ctx, connect.NewRequest(&api.UpdateExpenseRequest{
		ExpenseID:   expense.ID,
		PaidBy:      "ghost",
		Amount:      decimal.NewFromInt(1),
		Description: "x",
	}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestDeleteExpense(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	group := c.createGroup(t, "Trip", "Asha", "Ben")
	asha := participantID(t, group, "Asha")
	first := c.addExpense(t, group.ID, asha, "10", "Tea")
	c.addExpense(t, group.ID, asha, "20", "Coffee")

	if _, err := c.expenses.DeleteExpense(ctx, connect.NewRequest(&api.DeleteExpenseRequest{ExpenseID: first.ID})); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}

	resp, err := c.expenses.ListExpenses(ctx, connect.NewRequest(&api.ListExpensesRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(resp.Msg.Expenses) != 1 || resp.Msg.Expenses[0].Description != "Coffee" {
		t.Errorf("unexpected expenses: %+v", resp.Msg.Expenses)
	}

	stored, _ := c.repo.Group(ctx, group.ID)
	if len(stored.Expenses) != 1 {
		t.Errorf("group snapshot should hold 1 expense, got %d", len(stored.Expenses))
	}

	_, err = c.expenses.DeleteExpense(ctx, connect.NewRequest(&api.DeleteExpenseRequest{ExpenseID: first.ID}))
	assertCode(t, err, connect.CodeNotFound)

	want := []string{"group.created", "expense.added", "expense.added", "expense.deleted"}
	got := c.events.actions()
	if len(got) != len(want) {
		t.Fatalf("events: expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestListExpenses_UnknownGroup(t *testing.T) {
	c := setupTestServer(t)

	_, err := c.expenses.ListExpenses(context.Background(), connect.NewRequest(&api.ListExpensesRequest{GroupID: "missing"}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestAddExpense_DeletedGroupLeavesNoExpense(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	group := c.createGroup(t, "Trip", "Asha", "Ben")
	asha := participantID(t, group, "Asha")
	c.addExpense(t, group.ID, asha, "10", "Tea")

	if _, err := c.groups.DeleteGroup(ctx, connect.NewRequest(&api.DeleteGroupRequest{GroupID: group.ID})); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}

	_, err := c.expenses.AddExpense(ctx, connect.NewRequest(&api.AddExpenseRequest{
		GroupID:     group.ID,
		PaidBy:      asha,
		Amount:      decimal.NewFromInt(5),
		Description: "Late snack",
	}))
	assertCode(t, err, connect.CodeNotFound)

	if got := c.repo.Expenses(ctx); len(got) != 0 {
		t.Errorf("expected no stored expenses, got %+v", got)
	}
}
