package calculator

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitit/internal/models"
)

func newGroup(names ...string) models.Group {
	g := models.Group{ID: "g1", Name: "Trip"}
	for _, n := range names {
		g.Participants = append(g.Participants, models.Participant{ID: n, Name: n})
	}
	return g
}

func withExpense(g models.Group, paidBy, amount string) models.Group {
	g.Expenses = append(g.Expenses, models.Expense{
		ID:           fmt.Sprintf("e%d", len(g.Expenses)+1),
		GroupID:      g.ID,
		PaidBy:       paidBy,
		Amount:       decimal.RequireFromString(amount),
		SplitEqually: true,
	})
	return g
}

func nets(balances []models.NetBalance) map[string]string {
	out := make(map[string]string, len(balances))
	for _, b := range balances {
		out[b.ParticipantID] = b.Net.StringFixed(MinorUnitPlaces)
	}
	return out
}

func transfers(ts []models.Transfer) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, fmt.Sprintf("%s->%s %s", t.From, t.To, t.Amount.StringFixed(MinorUnitPlaces)))
	}
	return out
}

func TestNetBalances(t *testing.T) {
	tests := []struct {
		name  string
		group models.Group
		want  map[string]string
	}{
		{
			name:  "no expenses",
			group: newGroup("A", "B", "C"),
			want:  map[string]string{"A": "0.00", "B": "0.00", "C": "0.00"},
		},
		{
			name:  "single expense paid by A",
			group: withExpense(newGroup("A", "B", "C"), "A", "90"),
			want:  map[string]string{"A": "60.00", "B": "-30.00", "C": "-30.00"},
		},
		{
			name:  "equal payments cancel out",
			group: withExpense(withExpense(newGroup("A", "B"), "A", "100"), "B", "100"),
			want:  map[string]string{"A": "0.00", "B": "0.00"},
		},
		{
			name:  "two payers",
			group: withExpense(withExpense(newGroup("A", "B", "C"), "A", "60"), "B", "30"),
			want:  map[string]string{"A": "30.00", "B": "0.00", "C": "-30.00"},
		},
		{
			name:  "repeating share is rounded",
			group: withExpense(newGroup("A", "B", "C"), "A", "100"),
			want:  map[string]string{"A": "66.67", "B": "-33.33", "C": "-33.33"},
		},
		{
			name:  "no participants",
			group: withExpense(newGroup(), "A", "50"),
			want:  map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nets(NetBalances(tt.group)))
		})
	}
}

func TestNetBalances_KeepsParticipantOrderAndNames(t *testing.T) {
	group := models.Group{Participants: []models.Participant{
		{ID: "p2", Name: "Zed"},
		{ID: "p1", Name: "Amy"},
	}}
	group = withExpense(group, "p1", "10")

	balances := NetBalances(group)
	require.Len(t, balances, 2)
	assert.Equal(t, "p2", balances[0].ParticipantID)
	assert.Equal(t, "Zed", balances[0].Name)
	assert.Equal(t, "p1", balances[1].ParticipantID)
	assert.Equal(t, "Amy", balances[1].Name)
}

func TestNetBalances_UnknownPayer(t *testing.T) {
	group := withExpense(newGroup("A", "B"), "ghost", "40")

	balances := NetBalances(group)
	require.Len(t, balances, 3)
	assert.Equal(t, "ghost", balances[2].ParticipantID)
	assert.Empty(t, balances[2].Name)
	assert.Equal(t, map[string]string{"A": "-20.00", "B": "-20.00", "ghost": "40.00"}, nets(balances))
}

func TestSimplifyDebts(t *testing.T) {
	tests := []struct {
		name  string
		group models.Group
		want  []string
	}{
		{
			name:  "no expenses",
			group: newGroup("A", "B", "C"),
			want:  []string{},
		},
		{
			name:  "single participant",
			group: withExpense(newGroup("A"), "A", "45"),
			want:  []string{},
		},
		{
			name:  "single expense paid by A",
			group: withExpense(newGroup("A", "B", "C"), "A", "90"),
			want:  []string{"B->A 30.00", "C->A 30.00"},
		},
		{
			name:  "equal payments cancel out",
			group: withExpense(withExpense(newGroup("A", "B"), "A", "100"), "B", "100"),
			want:  []string{},
		},
		{
			name:  "two payers",
			group: withExpense(withExpense(newGroup("A", "B", "C"), "A", "60"), "B", "30"),
			want:  []string{"C->A 30.00"},
		},
		{
			name: "largest debtor pays largest creditor first",
			group: withExpense(withExpense(withExpense(newGroup("A", "B", "C", "D"),
				"A", "100"), "B", "60"), "C", "40"),
			// share 50: A +50, B +10, C -10, D -50
			want: []string{"D->A 50.00", "C->B 10.00"},
		},
		{
			name: "debtor split across creditors",
			group: withExpense(withExpense(newGroup("A", "B", "C"),
				"A", "45"), "B", "45"),
			// share 30: A +15, B +15, C -30
			want: []string{"C->A 15.00", "C->B 15.00"},
		},
		{
			name:  "repeating share leaves no dust transfer",
			group: withExpense(newGroup("A", "B", "C"), "A", "100"),
			want:  []string{"B->A 33.33", "C->A 33.33"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, transfers(SimplifyDebts(tt.group)))
		})
	}
}

func TestExactBalances(t *testing.T) {
	tests := []struct {
		name  string
		group models.Group
		want  []string
	}{
		{
			name:  "no expenses",
			group: newGroup("A", "B", "C"),
			want:  []string{},
		},
		{
			name:  "single expense paid by A",
			group: withExpense(newGroup("A", "B", "C"), "A", "90"),
			want:  []string{"B->A 30.00", "C->A 30.00"},
		},
		{
			name:  "equal payments net to zero",
			group: withExpense(withExpense(newGroup("A", "B"), "A", "100"), "B", "100"),
			want:  []string{},
		},
		{
			name:  "two payers keep history",
			group: withExpense(withExpense(newGroup("A", "B", "C"), "A", "60"), "B", "30"),
			// B owes A 20, A owes B 10 -> B owes A 10; C owes A 20 and B 10
			want: []string{"B->A 10.00", "C->A 20.00", "C->B 10.00"},
		},
		{
			name:  "rounded to minor unit",
			group: withExpense(newGroup("A", "B", "C"), "A", "100"),
			want:  []string{"B->A 33.33", "C->A 33.33"},
		},
		{
			name:  "no participants",
			group: withExpense(newGroup(), "A", "10"),
			want:  []string{},
		},
		{
			name:  "unknown payer is owed by everyone",
			group: withExpense(newGroup("A", "B"), "ghost", "40"),
			want:  []string{"A->ghost 20.00", "B->ghost 20.00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, transfers(ExactBalances(tt.group)))
		})
	}
}

func TestSummarize(t *testing.T) {
	group := withExpense(withExpense(newGroup("A", "B", "C"), "A", "60"), "B", "30")

	summary := Summarize(group)
	assert.Equal(t, "g1", summary.GroupID)
	assert.Equal(t, 2, summary.ExpenseCount)
	assert.Equal(t, "90.00", summary.TotalExpenses.StringFixed(2))
	assert.Equal(t, "30.00", summary.PerPersonShare.StringFixed(2))
	require.Len(t, summary.Participants, 3)

	a := summary.Participants[0]
	assert.Equal(t, "60.00", a.TotalPaid.StringFixed(2))
	assert.Equal(t, "30.00", a.Share.StringFixed(2))
	assert.Equal(t, "30.00", a.Net.StringFixed(2))

	c := summary.Participants[2]
	assert.Equal(t, "0.00", c.TotalPaid.StringFixed(2))
	assert.Equal(t, "-30.00", c.Net.StringFixed(2))
}

func TestSummarize_NoParticipants(t *testing.T) {
	summary := Summarize(withExpense(newGroup(), "A", "10"))
	assert.Empty(t, summary.Participants)
	assert.Equal(t, "0.00", summary.PerPersonShare.StringFixed(2))
	assert.Equal(t, "10.00", summary.TotalExpenses.StringFixed(2))
}

// randomGroup builds a reproducible group with cent-precision amounts.
func randomGroup(r *rand.Rand) models.Group {
	names := []string{"A", "B", "C", "D", "E", "F", "G"}
	group := newGroup(names[:2+r.Intn(len(names)-1)]...)
	for i := r.Intn(12); i > 0; i-- {
		payer := group.Participants[r.Intn(len(group.Participants))].ID
		amount := decimal.New(int64(1+r.Intn(50000)), -2)
		group = withExpense(group, payer, amount.String())
	}
	return group
}

func TestSettlementProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	unit := decimal.New(1, -MinorUnitPlaces)

	for i := 0; i < 200; i++ {
		group := randomGroup(r)
		n := decimal.NewFromInt(int64(len(group.Participants)))

		t.Run(fmt.Sprintf("group-%d", i), func(t *testing.T) {
			balances := NetBalances(group)

			// Total owed equals total owing.
			credit, debit := decimal.Zero, decimal.Zero
			for _, b := range balances {
				if b.Net.IsPositive() {
					credit = credit.Add(b.Net)
				} else {
					debit = debit.Add(b.Net.Abs())
				}
			}
			assert.True(t, credit.Sub(debit).Abs().LessThanOrEqual(unit.Mul(n)),
				"credit %s vs debit %s", credit, debit)

			// Greedy transfers move each participant to zero.
			moved := make(map[string]decimal.Decimal)
			for _, tr := range SimplifyDebts(group) {
				assert.True(t, tr.Amount.IsPositive(), "transfer %v must be positive", tr)
				assert.NotEqual(t, tr.From, tr.To)
				moved[tr.To] = moved[tr.To].Add(tr.Amount)
				moved[tr.From] = moved[tr.From].Sub(tr.Amount)
			}
			for _, b := range balances {
				diff := b.Net.Sub(moved[b.ParticipantID]).Abs()
				assert.True(t, diff.LessThanOrEqual(unit.Mul(n)),
					"participant %s net %s settled by %s", b.ParticipantID, b.Net, moved[b.ParticipantID])
			}

			// Exact view reconciles with net balances.
			assert.Empty(t, Reconcile(group))

			for _, tr := range ExactBalances(group) {
				assert.True(t, tr.Amount.IsPositive())
			}

			// Greedy never needs more transfers than there are parties minus one.
			assert.LessOrEqual(t, len(SimplifyDebts(group)), len(group.Participants)-1)
		})
	}
}

func TestCalculationsAreIdempotent(t *testing.T) {
	group := withExpense(withExpense(withExpense(newGroup("A", "B", "C", "D"),
		"A", "12.34"), "C", "99.99"), "D", "0.01")
	snapshot := group.Clone()

	assert.Equal(t, nets(NetBalances(group)), nets(NetBalances(group)))
	assert.Equal(t, transfers(SimplifyDebts(group)), transfers(SimplifyDebts(group)))
	assert.Equal(t, transfers(ExactBalances(group)), transfers(ExactBalances(group)))
	assert.Equal(t, snapshot, group, "calculations must not modify their input")
}
