package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitit/internal/calculator"
	"github.com/mmynk/splitit/internal/events"
	"github.com/mmynk/splitit/internal/models"
	"github.com/mmynk/splitit/internal/storage"
	"github.com/mmynk/splitit/pkg/api"
	"github.com/mmynk/splitit/pkg/api/apiconnect"
)

// ExpenseService implements the Connect ExpenseService. Expenses live both in
// the expenses collection and in their group's snapshot; every mutation
// updates the two.
type ExpenseService struct {
	apiconnect.UnimplementedExpenseServiceHandler
	groups *GroupService
	repo   *storage.Repository
	events events.Publisher
}

// NewExpenseService creates a new ExpenseService over the given repository.
func NewExpenseService(repo *storage.Repository, publisher events.Publisher) *ExpenseService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &ExpenseService{
		groups: NewGroupService(repo, publisher),
		repo:   repo,
		events: publisher,
	}
}

// validateExpense checks the fields a caller may set and returns the amount
// rounded to the currency minor unit.
func validateExpense(description string, amount decimal.Decimal) (string, decimal.Decimal, error) {
	description = normalizeName(description)
	if description == "" {
		return "", decimal.Zero, ErrDescriptionRequired
	}
	amount = calculator.RoundMoney(amount)
	if !amount.IsPositive() {
		return "", decimal.Zero, ErrInvalidAmount
	}
	return description, amount, nil
}

func (s *ExpenseService) expense(ctx context.Context, expenseID string) (models.Expense, error) {
	if expenseID == "" {
		return models.Expense{}, ErrExpenseIDRequired
	}
	for _, e := range s.repo.Expenses(ctx) {
		if e.ID == expenseID {
			return e, nil
		}
	}
	return models.Expense{}, ErrExpenseNotFound
}

// AddExpense records an equally split expense paid by a current participant.
func (s *ExpenseService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	slog.Info("AddExpense request received",
		"group_id", req.Msg.GroupID,
		"paid_by", req.Msg.PaidBy,
		"amount", req.Msg.Amount.String(),
	)

	description, amount, err := validateExpense(req.Msg.Description, req.Msg.Amount)
	if err != nil {
		return nil, connectError(err)
	}

	expense := models.Expense{
		ID:           uuid.NewString(),
		GroupID:      req.Msg.GroupID,
		PaidBy:       req.Msg.PaidBy,
		Amount:       amount,
		Description:  description,
		SplitEqually: true,
		CreatedAt:    time.Now().UTC(),
	}

	group, err := s.groups.modifyWithExpenses(ctx, req.Msg.GroupID,
		func(g *models.Group) error {
			if !g.HasParticipant(expense.PaidBy) {
				return ErrPayerNotParticipant
			}
			g.Expenses = append(g.Expenses, expense)
			return nil
		},
		func(all []models.Expense) []models.Expense {
			return append(all, expense)
		},
	)
	if err != nil {
		slog.Error("AddExpense failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, connectError(err)
	}
	publish(ctx, s.events, group.ID, "expense.added")

	slog.Info("Expense added", "expense_id", expense.ID, "group_id", group.ID)

	out := toAPIExpense(group, expense)
	return connect.NewResponse(&api.AddExpenseResponse{Expense: &out}), nil
}

// UpdateExpense changes payer, amount and description of an expense.
func (s *ExpenseService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	slog.Info("UpdateExpense request received", "expense_id", req.Msg.ExpenseID)

	existing, err := s.expense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, connectError(err)
	}
	description, amount, err := validateExpense(req.Msg.Description, req.Msg.Amount)
	if err != nil {
		return nil, connectError(err)
	}

	updated := existing
	updated.PaidBy = req.Msg.PaidBy
	updated.Amount = amount
	updated.Description = description

	group, err := s.groups.modifyWithExpenses(ctx, existing.GroupID,
		func(g *models.Group) error {
			if !g.HasParticipant(updated.PaidBy) {
				return ErrPayerNotParticipant
			}
			g.Expenses = replaceExpense(g.Expenses, updated)
			return nil
		},
		func(all []models.Expense) []models.Expense {
			return replaceExpense(all, updated)
		},
	)
	if err != nil {
		slog.Error("UpdateExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, connectError(err)
	}
	publish(ctx, s.events, group.ID, "expense.updated")

	out := toAPIExpense(group, updated)
	return connect.NewResponse(&api.UpdateExpenseResponse{Expense: &out}), nil
}

// DeleteExpense removes an expense from its group and the expenses collection.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	slog.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseID)

	existing, err := s.expense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, connectError(err)
	}

	_, err = s.groups.modifyWithExpenses(ctx, existing.GroupID,
		func(g *models.Group) error {
			g.Expenses = removeExpense(g.Expenses, existing.ID)
			return nil
		},
		func(all []models.Expense) []models.Expense {
			return removeExpense(all, existing.ID)
		},
	)
	switch {
	case errors.Is(err, ErrGroupNotFound):
		// Left behind by a deleted group
		s.repo.DeleteExpense(ctx, existing.ID)
	case err != nil:
		slog.Error("DeleteExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, connectError(err)
	}
	publish(ctx, s.events, existing.GroupID, "expense.deleted")

	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// ListExpenses returns the recorded expenses of a group in insertion order.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	group, err := s.groups.group(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, connectError(err)
	}

	expenses := s.repo.ExpensesByGroup(ctx, group.ID)

	slog.Info("ListExpenses successful", "group_id", group.ID, "count", len(expenses))

	return connect.NewResponse(&api.ListExpensesResponse{
		Expenses: toAPIExpenses(group, expenses),
	}), nil
}

// replaceExpense swaps in e by ID, appending it when absent.
func replaceExpense(expenses []models.Expense, e models.Expense) []models.Expense {
	for i := range expenses {
		if expenses[i].ID == e.ID {
			expenses[i] = e
			return expenses
		}
	}
	return append(expenses, e)
}

func removeExpense(expenses []models.Expense, id string) []models.Expense {
	kept := expenses[:0]
	for _, e := range expenses {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	return kept
}
