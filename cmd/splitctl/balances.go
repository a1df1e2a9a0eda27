package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitit/internal/calculator"
	"github.com/mmynk/splitit/internal/models"
	"github.com/mmynk/splitit/internal/render"
)

const defaultCurrency = "INR"

func newBalancesCmd(root *rootOptions) *cobra.Command {
	var file, view string

	cmd := &cobra.Command{
		Use:   "balances",
		Short: "Compute settlement views for a group snapshot",
		Long: `Reads a group (participants and expenses) as JSON and prints the
requested views: net balances, the greedy transfer list, or exact pairwise debts.`,
		Example: `  splitctl balances --file trip.json
  splitctl balances --file trip.json --view exact --currency EUR
  cat trip.json | splitctl balances --file -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			group, err := readGroup(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			currency := root.currency
			if currency == "" {
				currency = defaultCurrency
			}
			printer, err := render.NewPrinter(cmd.OutOrStdout(), currency)
			if err != nil {
				return err
			}
			return printViews(printer, group, view)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", `group snapshot JSON file ("-" for stdin)`)
	cmd.Flags().StringVar(&view, "view", viewAll, "net, greedy, exact or all")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readGroup(stdin io.Reader, path string) (models.Group, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return models.Group{}, fmt.Errorf("open group file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var group models.Group
	if err := json.NewDecoder(r).Decode(&group); err != nil {
		return models.Group{}, fmt.Errorf("decode group: %w", err)
	}
	return group, nil
}

func printViews(p *render.Printer, group models.Group, view string) error {
	names := render.GroupNames(group)

	steps := map[string]func() error{
		viewNet: func() error {
			if err := p.Heading("Balances"); err != nil {
				return err
			}
			return p.NetBalances(names, calculator.NetBalances(group))
		},
		viewGreedy: func() error {
			if err := p.Heading("Suggested settlements"); err != nil {
				return err
			}
			return p.Transfers(names, calculator.SimplifyDebts(group))
		},
		viewExact: func() error {
			if err := p.Heading("Who owes whom"); err != nil {
				return err
			}
			return p.Transfers(names, calculator.ExactBalances(group))
		},
	}

	order := []string{view}
	switch view {
	case viewAll:
		if err := p.Summary(names, calculator.Summarize(group)); err != nil {
			return err
		}
		order = []string{viewNet, viewGreedy, viewExact}
	case viewNet, viewGreedy, viewExact:
	default:
		return fmt.Errorf("unknown view %q (want net, greedy, exact or all)", view)
	}

	for _, v := range order {
		if err := steps[v](); err != nil {
			return err
		}
	}
	return nil
}
