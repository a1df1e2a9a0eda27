package main

import (
	"github.com/spf13/cobra"
)

// Views accepted by --view.
const (
	viewNet    = "net"
	viewGreedy = "greedy"
	viewExact  = "exact"
	viewAll    = "all"
)

type rootOptions struct {
	currency string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "splitctl",
		Short:         "Settle shared expenses",
		Long:          `Compute who owes whom from a group snapshot file, or query a running splitit server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.currency, "currency", "", "ISO 4217 currency code for amounts (default: INR for local files, the server's currency for remote commands)")

	rootCmd.AddCommand(newBalancesCmd(opts))
	rootCmd.AddCommand(newRemoteCmd(opts))
	return rootCmd
}
