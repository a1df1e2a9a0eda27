package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mmynk/splitit/internal/models"
	"github.com/mmynk/splitit/internal/render"
	"github.com/mmynk/splitit/pkg/api"
	"github.com/mmynk/splitit/pkg/api/apiconnect"
)

type remoteOptions struct {
	*rootOptions
	baseURL string
	token   string
	timeout time.Duration
}

func newRemoteCmd(root *rootOptions) *cobra.Command {
	opts := &remoteOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Query a running splitit server",
	}
	cmd.PersistentFlags().StringVar(&opts.baseURL, "url", envOr("SPLITIT_URL", "http://localhost:8080"), "Base URL of the splitit server")
	cmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("SPLITIT_TOKEN"), "Bearer token when the server requires authentication")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	cmd.AddCommand(newRemoteBalancesCmd(opts))
	cmd.AddCommand(newRemoteSummaryCmd(opts))
	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (o *remoteOptions) httpClient() *http.Client {
	return &http.Client{Timeout: o.timeout}
}

func (o *remoteOptions) authorize(h http.Header) {
	if o.token != "" {
		h.Set("Authorization", "Bearer "+o.token)
	}
}

func (o *remoteOptions) printer(cmd *cobra.Command, serverCurrency string) (*render.Printer, error) {
	currency := o.currency
	if currency == "" {
		currency = serverCurrency
	}
	if currency == "" {
		currency = defaultCurrency
	}
	return render.NewPrinter(cmd.OutOrStdout(), currency)
}

func newRemoteBalancesCmd(opts *remoteOptions) *cobra.Command {
	var groupID, view string

	cmd := &cobra.Command{
		Use:   "balances",
		Short: "Fetch the settlement views of one group",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			client := apiconnect.NewGroupServiceClient(opts.httpClient(), opts.baseURL)
			req := connect.NewRequest(&api.GetGroupBalancesRequest{GroupID: groupID})
			opts.authorize(req.Header())

			resp, err := client.GetGroupBalances(ctx, req)
			if err != nil {
				return fmt.Errorf("get balances: %w", err)
			}

			p, err := opts.printer(cmd, resp.Msg.Currency)
			if err != nil {
				return err
			}
			return printRemoteBalances(p, resp.Msg, view)
		},
	}
	cmd.Flags().StringVarP(&groupID, "group", "g", "", "group ID")
	cmd.Flags().StringVar(&view, "view", viewAll, "net, greedy, exact or all")
	_ = cmd.MarkFlagRequired("group")
	return cmd
}

func newRemoteSummaryCmd(opts *remoteOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show who pays whom across every group",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			client := apiconnect.NewSummaryServiceClient(opts.httpClient(), opts.baseURL)
			req := connect.NewRequest(&api.GetSummaryRequest{})
			opts.authorize(req.Header())

			resp, err := client.GetSummary(ctx, req)
			if err != nil {
				return fmt.Errorf("get summary: %w", err)
			}

			p, err := opts.printer(cmd, resp.Msg.Currency)
			if err != nil {
				return err
			}
			if len(resp.Msg.Groups) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No groups.")
				return err
			}
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Total outstanding: %s across %d groups\n",
				p.Amount(resp.Msg.TotalOutstanding), len(resp.Msg.Groups)); err != nil {
				return err
			}
			for _, g := range resp.Msg.Groups {
				if err := p.Heading(g.GroupName); err != nil {
					return err
				}
				names, transfers := fromAPITransfers(g.Transfers)
				if err := p.Transfers(render.MapNames(names), transfers); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func printRemoteBalances(p *render.Printer, msg *api.GetGroupBalancesResponse, view string) error {
	names := make(map[string]string)

	net := make([]models.NetBalance, len(msg.Net))
	for i, n := range msg.Net {
		names[n.ParticipantID] = n.Name
		net[i] = models.NetBalance{ParticipantID: n.ParticipantID, Name: n.Name, Net: n.Net}
	}
	greedyNames, greedy := fromAPITransfers(msg.Transfers)
	exactNames, exact := fromAPITransfers(msg.Exact)
	for _, m := range []map[string]string{greedyNames, exactNames} {
		for id, name := range m {
			names[id] = name
		}
	}
	lookup := render.MapNames(names)

	showNet := func() error {
		if err := p.Heading(msg.GroupName + ": balances"); err != nil {
			return err
		}
		return p.NetBalances(lookup, net)
	}
	showGreedy := func() error {
		if err := p.Heading(msg.GroupName + ": suggested settlements"); err != nil {
			return err
		}
		return p.Transfers(lookup, greedy)
	}
	showExact := func() error {
		if err := p.Heading(msg.GroupName + ": who owes whom"); err != nil {
			return err
		}
		return p.Transfers(lookup, exact)
	}

	switch view {
	case viewNet:
		return showNet()
	case viewGreedy:
		return showGreedy()
	case viewExact:
		return showExact()
	case viewAll:
		if msg.Summary != nil {
			if err := p.Summary(lookup, fromAPISummary(msg.Summary)); err != nil {
				return err
			}
		}
		for _, show := range []func() error{showNet, showGreedy, showExact} {
			if err := show(); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown view %q (want net, greedy, exact or all)", view)
	}
}

func fromAPITransfers(in []api.Transfer) (map[string]string, []models.Transfer) {
	names := make(map[string]string, 2*len(in))
	out := make([]models.Transfer, len(in))
	for i, t := range in {
		names[t.From] = t.FromName
		names[t.To] = t.ToName
		out[i] = models.Transfer{From: t.From, To: t.To, Amount: t.Amount}
	}
	return names, out
}

func fromAPISummary(s *api.GroupSummary) models.GroupSummary {
	participants := make([]models.ParticipantSummary, len(s.Participants))
	for i, p := range s.Participants {
		participants[i] = models.ParticipantSummary{
			ParticipantID: p.ParticipantID,
			Name:          p.Name,
			TotalPaid:     p.TotalPaid,
			Share:         p.Share,
			Net:           p.Net,
		}
	}
	return models.GroupSummary{
		TotalExpenses:  s.TotalExpenses,
		PerPersonShare: s.PerPersonShare,
		ExpenseCount:   s.ExpenseCount,
		Participants:   participants,
	}
}
