package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitit/internal/calculator"
	"github.com/mmynk/splitit/internal/models"
)

func testGroup() models.Group {
	g := models.Group{
		ID:   "g1",
		Name: "Trip",
		Participants: []models.Participant{
			{ID: "a", Name: "Asha"},
			{ID: "b", Name: "Ben"},
			{ID: "c", Name: "Chen"},
		},
	}
	g.Expenses = []models.Expense{{ID: "e1", GroupID: "g1", PaidBy: "a", Amount: decimal.NewFromInt(90), SplitEqually: true}}
	return g
}

func newPrinter(t *testing.T, code string) (*Printer, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	p, err := NewPrinter(&buf, code)
	require.NoError(t, err)
	return p, &buf
}

func TestNewPrinter_InvalidCurrency(t *testing.T) {
	_, err := NewPrinter(&bytes.Buffer{}, "XX")
	assert.Error(t, err)
}

func TestAmount(t *testing.T) {
	p, _ := newPrinter(t, "INR")
	assert.Equal(t, "INR", p.Currency())

	formatted := p.Amount(decimal.RequireFromString("1234.5"))
	assert.True(t, strings.HasSuffix(formatted, "1,234.50"), formatted)
	assert.NotEqual(t, "1,234.50", formatted, "symbol expected")

	negative := p.Amount(decimal.RequireFromString("-30"))
	assert.True(t, strings.HasPrefix(negative, "-"), negative)
	assert.True(t, strings.HasSuffix(negative, "30.00"), negative)

	jpy, _ := newPrinter(t, "JPY")
	assert.True(t, strings.HasSuffix(jpy.Amount(decimal.RequireFromString("1500")), "1,500"))
}

func TestTransfers(t *testing.T) {
	p, buf := newPrinter(t, "INR")
	group := testGroup()

	require.NoError(t, p.Transfers(GroupNames(group), calculator.SimplifyDebts(group)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Ben owes Asha "), lines[0])
	assert.True(t, strings.HasSuffix(lines[0], "30.00"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Chen owes Asha "), lines[1])
}

func TestTransfers_Empty(t *testing.T) {
	p, buf := newPrinter(t, "INR")
	require.NoError(t, p.Transfers(GroupNames(testGroup()), nil))
	assert.Equal(t, "All settled up.\n", buf.String())
}

func TestTransfers_UnknownName(t *testing.T) {
	p, buf := newPrinter(t, "INR")
	transfers := []models.Transfer{{From: "a", To: "ghost", Amount: decimal.NewFromInt(5)}}

	require.NoError(t, p.Transfers(MapNames(map[string]string{"a": "Asha"}), transfers))
	assert.Contains(t, buf.String(), "Asha owes Unknown ")
}

func TestNetBalances(t *testing.T) {
	p, buf := newPrinter(t, "INR")
	group := testGroup()
	group.Participants = append(group.Participants, models.Participant{ID: "d", Name: "Dee"})
	group.Expenses = append(group.Expenses, models.Expense{ID: "e2", PaidBy: "d", Amount: decimal.NewFromInt(30)})

	// share 30: Asha +60, Ben -30, Chen -30, Dee 0
	require.NoError(t, p.NetBalances(GroupNames(group), calculator.NetBalances(group)))

	out := buf.String()
	assert.Regexp(t, `Asha\s+gets back\s+\S+60\.00`, out)
	assert.Regexp(t, `Ben\s+owes\s+\S+30\.00`, out)
	assert.Regexp(t, `Dee\s+is settled up`, out)
}

func TestSummary(t *testing.T) {
	p, buf := newPrinter(t, "INR")
	group := testGroup()

	require.NoError(t, p.Summary(GroupNames(group), calculator.Summarize(group)))

	out := buf.String()
	assert.Contains(t, out, "across 1 expenses")
	assert.Contains(t, out, "NAME")
	assert.Regexp(t, `Asha\s+\S+90\.00\s+\S+30\.00\s+\S+60\.00`, out)
}
