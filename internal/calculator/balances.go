package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitit/internal/models"
)

// position is one party's unrounded amount during a calculation.
type position struct {
	id     string
	amount decimal.Decimal
}

// pair is an ordered debtor -> creditor key.
type pair struct {
	from string
	to   string
}

// parties lists everyone a calculation must account for: the group's
// participants in display order, followed by payers that are not participants
// in order of first appearance.
func parties(group models.Group) []string {
	seen := make(map[string]bool, len(group.Participants))
	ids := make([]string, 0, len(group.Participants))
	for _, p := range group.Participants {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		ids = append(ids, p.ID)
	}
	for _, e := range group.Expenses {
		if !seen[e.PaidBy] {
			seen[e.PaidBy] = true
			ids = append(ids, e.PaidBy)
		}
	}
	return ids
}

// netPositions computes unrounded net balances.
//
// Algorithm:
// - Each party is credited with everything they paid
// - Each participant is debited the per-person share of the whole group's spend
// - Payers outside the participant list carry no share
func netPositions(group models.Group) []position {
	if len(group.Participants) == 0 {
		return nil
	}

	paid := make(map[string]decimal.Decimal)
	for _, e := range group.Expenses {
		paid[e.PaidBy] = paid[e.PaidBy].Add(e.Amount)
	}
	share := PerPersonShare(group)

	ids := parties(group)
	positions := make([]position, 0, len(ids))
	for _, id := range ids {
		net := paid[id]
		if group.HasParticipant(id) {
			net = net.Sub(share)
		}
		positions = append(positions, position{id: id, amount: net})
	}
	return positions
}

// NetBalances returns every participant's net position, rounded to the minor
// unit: what they paid minus their equal share of the group's total spend.
// Positive means the participant is owed money, negative means they owe.
// A group without participants has no balances.
func NetBalances(group models.Group) []models.NetBalance {
	positions := netPositions(group)
	if len(positions) == 0 {
		return nil
	}

	balances := make([]models.NetBalance, 0, len(positions))
	for _, p := range positions {
		var name string
		if participant, ok := group.Participant(p.id); ok {
			name = participant.Name
		}
		balances = append(balances, models.NetBalance{
			ParticipantID: p.id,
			Name:          name,
			Net:           RoundMoney(p.amount),
		})
	}
	return balances
}

// SimplifyDebts returns a short list of transfers that settles every net
// balance, using greedy matching of the largest creditor against the largest
// debtor. The result is deterministic: ties keep participant order.
//
// The greedy strategy keeps the transfer count low but is not guaranteed to be
// globally minimal.
func SimplifyDebts(group models.Group) []models.Transfer {
	var creditors, debtors []position
	for _, p := range netPositions(group) {
		switch p.amount.Sign() {
		case 1:
			creditors = append(creditors, p)
		case -1:
			debtors = append(debtors, position{id: p.id, amount: p.amount.Neg()})
		}
	}

	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].amount.GreaterThan(creditors[j].amount)
	})
	sort.SliceStable(debtors, func(i, j int) bool {
		return debtors[i].amount.GreaterThan(debtors[j].amount)
	})

	var transfers []models.Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		// Amount to settle is the smaller of what is owed and what is due
		amount := decimal.Min(debtor.amount, creditor.amount)
		if rounded := RoundMoney(amount); rounded.IsPositive() {
			transfers = append(transfers, models.Transfer{
				From:   debtor.id,
				To:     creditor.id,
				Amount: rounded,
			})
		}

		debtor.amount = debtor.amount.Sub(amount)
		creditor.amount = creditor.amount.Sub(amount)

		if isSettled(debtor.amount) {
			i++
		}
		if isSettled(creditor.amount) {
			j++
		}
	}

	return transfers
}

// ExactBalances returns who owes whom according to the expense history.
//
// Every expense makes each non-payer participant owe the payer an equal share.
// Debts are summed per ordered pair and then netted per unordered pair: only
// the dominant direction survives, rounded to the minor unit. Pairs that net
// to zero are omitted. Rows are ordered by debtor, then creditor, in
// participant order.
func ExactBalances(group models.Group) []models.Transfer {
	if len(group.Participants) == 0 {
		return nil
	}

	debts := make(map[pair]decimal.Decimal)
	for _, e := range group.Expenses {
		for debtor, share := range SplitExpense(e, group.Participants) {
			key := pair{from: debtor, to: e.PaidBy}
			debts[key] = debts[key].Add(share)
		}
	}

	ids := parties(group)
	var transfers []models.Transfer
	for _, a := range ids {
		for _, b := range ids {
			if a == b {
				continue
			}
			ab := debts[pair{from: a, to: b}]
			ba := debts[pair{from: b, to: a}]
			if !ab.GreaterThan(ba) {
				continue // handled from the other direction
			}
			if amount := RoundMoney(ab.Sub(ba)); amount.IsPositive() {
				transfers = append(transfers, models.Transfer{From: a, To: b, Amount: amount})
			}
		}
	}
	return transfers
}

// Summarize aggregates the group's spending per participant.
func Summarize(group models.Group) models.GroupSummary {
	summary := models.GroupSummary{
		GroupID:        group.ID,
		TotalExpenses:  RoundMoney(TotalExpenses(group)),
		PerPersonShare: RoundMoney(PerPersonShare(group)),
		ExpenseCount:   len(group.Expenses),
	}
	if len(group.Participants) == 0 {
		return summary
	}

	share := PerPersonShare(group)
	summary.Participants = make([]models.ParticipantSummary, 0, len(group.Participants))
	for _, p := range group.Participants {
		paid := TotalPaid(group, p.ID)
		summary.Participants = append(summary.Participants, models.ParticipantSummary{
			ParticipantID: p.ID,
			Name:          p.Name,
			TotalPaid:     RoundMoney(paid),
			Share:         RoundMoney(share),
			Net:           RoundMoney(paid.Sub(share)),
		})
	}
	return summary
}

// Reconcile cross-checks the exact pairwise view against net balances.
// For each party, what others owe them minus what they owe others must match
// their net balance, allowing one minor unit per rounded row involved.
// It returns the parties that do not reconcile.
func Reconcile(group models.Group) []models.Discrepancy {
	pairwise := make(map[string]decimal.Decimal)
	rows := make(map[string]int64)
	for _, t := range ExactBalances(group) {
		pairwise[t.To] = pairwise[t.To].Add(t.Amount)
		pairwise[t.From] = pairwise[t.From].Sub(t.Amount)
		rows[t.To]++
		rows[t.From]++
	}

	unit := decimal.New(1, -MinorUnitPlaces)
	var discrepancies []models.Discrepancy
	for _, b := range NetBalances(group) {
		tolerance := unit.Mul(decimal.NewFromInt(rows[b.ParticipantID] + 1))
		if b.Net.Sub(pairwise[b.ParticipantID]).Abs().GreaterThan(tolerance) {
			discrepancies = append(discrepancies, models.Discrepancy{
				ParticipantID: b.ParticipantID,
				Net:           b.Net,
				Pairwise:      pairwise[b.ParticipantID],
			})
		}
	}
	return discrepancies
}
