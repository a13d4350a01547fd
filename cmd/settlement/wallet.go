package main

import (
	"fmt"

	"marketplace-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func walletCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Inspect and provision wallets",
	}
	cmd.AddCommand(walletShowCmd(g))
	cmd.AddCommand(walletActivateCmd(g))
	return cmd
}

func walletShowCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "show <user-id>",
		Short: "Print a user's wallet and accounts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id %q: %w", args[0], err)
			}

			ctx := cmd.Context()
			a, err := buildApp(ctx, g.cfg, g.log)
			if err != nil {
				return err
			}
			defer a.Close()

			summary, err := a.ledger.Summary(ctx, userID)
			if err != nil {
				return err
			}
			return printJSON(cmd, summary)
		},
	}
}

func walletActivateCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "activate <vendor-user-id>",
		Short: "Provision the payout account of a vendor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id %q: %w", args[0], err)
			}

			ctx := cmd.Context()
			a, err := buildApp(ctx, g.cfg, g.log)
			if err != nil {
				return err
			}
			defer a.Close()

			account, err := a.activator.ActivateVendorWallet(ctx, domain.Caller{UserID: userID})
			if err != nil {
				return err
			}
			return printJSON(cmd, account)
		},
	}
}
