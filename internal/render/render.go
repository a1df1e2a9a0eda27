// Package render writes settlement results as plain text.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/mmynk/splitit/internal/calculator"
	"github.com/mmynk/splitit/internal/models"
)

// Names resolves a participant ID to a display name.
type Names func(id string) string

// GroupNames resolves names from a group, falling back to "Unknown".
func GroupNames(group models.Group) Names {
	return func(id string) string {
		return calculator.ParticipantName(group, id)
	}
}

// MapNames resolves names from a lookup table, falling back to "Unknown".
func MapNames(names map[string]string) Names {
	return func(id string) string {
		if n := names[id]; n != "" {
			return n
		}
		return calculator.UnknownParticipant
	}
}

// Printer formats amounts in one currency and writes result tables.
type Printer struct {
	w      io.Writer
	p      *message.Printer
	unit   currency.Unit
	symbol string
	scale  int
}

// NewPrinter creates a printer for an ISO 4217 currency code.
func NewPrinter(w io.Writer, code string) (*Printer, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("currency %q: %w", code, err)
	}

	p := message.NewPrinter(language.English)
	symbol := strings.TrimSpace(p.Sprint(currency.NarrowSymbol(unit)))
	if symbol == "" {
		symbol = unit.String() + " "
	}
	scale, _ := currency.Standard.Rounding(unit)

	return &Printer{w: w, p: p, unit: unit, symbol: symbol, scale: scale}, nil
}

// Currency returns the ISO code the printer formats.
func (pr *Printer) Currency() string {
	return pr.unit.String()
}

// Amount formats d with the currency symbol and its standard number of
// decimals, e.g. ₹1,234.50. Negative amounts get a leading minus.
func (pr *Printer) Amount(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	v := d.Round(int32(pr.scale)).InexactFloat64()
	return sign + pr.symbol + pr.p.Sprint(number.Decimal(v, number.Scale(pr.scale)))
}

func (pr *Printer) table(fn func(tw *tabwriter.Writer)) error {
	tw := tabwriter.NewWriter(pr.w, 0, 4, 2, ' ', 0)
	fn(tw)
	return tw.Flush()
}

// NetBalances writes one line per participant: owed, owes, or settled.
func (pr *Printer) NetBalances(names Names, balances []models.NetBalance) error {
	if len(balances) == 0 {
		_, err := fmt.Fprintln(pr.w, "No participants.")
		return err
	}
	return pr.table(func(tw *tabwriter.Writer) {
		for _, b := range balances {
			net := calculator.RoundMoney(b.Net)
			switch net.Sign() {
			case 1:
				fmt.Fprintf(tw, "%s\tgets back\t%s\n", names(b.ParticipantID), pr.Amount(net))
			case -1:
				fmt.Fprintf(tw, "%s\towes\t%s\n", names(b.ParticipantID), pr.Amount(net.Neg()))
			default:
				fmt.Fprintf(tw, "%s\tis settled up\t\n", names(b.ParticipantID))
			}
		}
	})
}

// Transfers writes "A owes B ₹30.00" lines, or a settled message when empty.
func (pr *Printer) Transfers(names Names, transfers []models.Transfer) error {
	if len(transfers) == 0 {
		_, err := fmt.Fprintln(pr.w, "All settled up.")
		return err
	}
	for _, t := range transfers {
		if _, err := fmt.Fprintf(pr.w, "%s owes %s %s\n", names(t.From), names(t.To), pr.Amount(t.Amount)); err != nil {
			return err
		}
	}
	return nil
}

// Summary writes group totals followed by a paid/share/net row per participant.
func (pr *Printer) Summary(names Names, s models.GroupSummary) error {
	_, err := fmt.Fprintf(pr.w, "Total: %s across %d expenses, %s per person\n",
		pr.Amount(s.TotalExpenses), s.ExpenseCount, pr.Amount(s.PerPersonShare))
	if err != nil || len(s.Participants) == 0 {
		return err
	}
	return pr.table(func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "NAME\tPAID\tSHARE\tNET")
		for _, p := range s.Participants {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
				names(p.ParticipantID), pr.Amount(p.TotalPaid), pr.Amount(p.Share), pr.Amount(p.Net))
		}
	})
}

// Heading writes a section title underlined to its width.
func (pr *Printer) Heading(title string) error {
	_, err := fmt.Fprintf(pr.w, "\n%s\n%s\n", title, strings.Repeat("-", len([]rune(title))))
	return err
}
