package service

import (
	"time"

	"github.com/mmynk/splitit/internal/calculator"
	"github.com/mmynk/splitit/internal/models"
	"github.com/mmynk/splitit/pkg/api"
)

func toAPIGroup(g models.Group) *api.Group {
	participants := make([]api.Participant, len(g.Participants))
	for i, p := range g.Participants {
		participants[i] = api.Participant{ID: p.ID, Name: p.Name}
	}
	return &api.Group{
		ID:           g.ID,
		Name:         g.Name,
		Participants: participants,
		ExpenseCount: len(g.Expenses),
		CreatedAt:    g.CreatedAt,
	}
}

func toAPIExpense(g models.Group, e models.Expense) api.Expense {
	return api.Expense{
		ID:           e.ID,
		GroupID:      e.GroupID,
		PaidBy:       e.PaidBy,
		PaidByName:   calculator.ParticipantName(g, e.PaidBy),
		Amount:       e.Amount,
		Description:  e.Description,
		SplitEqually: e.SplitEqually,
		CreatedAt:    e.CreatedAt,
	}
}

func toAPIExpenses(g models.Group, expenses []models.Expense) []api.Expense {
	out := make([]api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPIExpense(g, e)
	}
	return out
}

func toAPITransfers(g models.Group, transfers []models.Transfer) []api.Transfer {
	out := make([]api.Transfer, len(transfers))
	for i, t := range transfers {
		out[i] = api.Transfer{
			From:     t.From,
			FromName: calculator.ParticipantName(g, t.From),
			To:       t.To,
			ToName:   calculator.ParticipantName(g, t.To),
			Amount:   t.Amount,
		}
	}
	return out
}

func toAPINetBalances(g models.Group, balances []models.NetBalance) []api.NetBalance {
	out := make([]api.NetBalance, len(balances))
	for i, b := range balances {
		out[i] = api.NetBalance{
			ParticipantID: b.ParticipantID,
			Name:          calculator.ParticipantName(g, b.ParticipantID),
			Net:           b.Net,
		}
	}
	return out
}

func toAPISummary(g models.Group, s models.GroupSummary) *api.GroupSummary {
	participants := make([]api.ParticipantSummary, len(s.Participants))
	for i, p := range s.Participants {
		participants[i] = api.ParticipantSummary{
			ParticipantID: p.ParticipantID,
			Name:          calculator.ParticipantName(g, p.ParticipantID),
			TotalPaid:     p.TotalPaid,
			Share:         p.Share,
			Net:           p.Net,
		}
	}
	return &api.GroupSummary{
		TotalExpenses:  s.TotalExpenses,
		PerPersonShare: s.PerPersonShare,
		ExpenseCount:   s.ExpenseCount,
		Participants:   participants,
	}
}

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   time.Unix(u.CreatedAt, 0).UTC(),
	}
}
