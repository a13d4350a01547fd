package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

func ratesCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Exchange rate maintenance",
	}
	cmd.AddCommand(ratesRefreshCmd(g))
	return cmd
}

func ratesRefreshCmd(g *globals) *cobra.Command {
	var startStr, endStr string

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Average daily rates over a window, store them and reprice the catalog",
		Long: `Average daily rates over a window, store them and reprice the catalog.

Without --start and --end the configured lookback window ending today is used.

Examples:
  settlement rates refresh
  settlement rates refresh --start 2026-03-01 --end 2026-03-07`,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := parseWindow(startStr, endStr)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := buildApp(ctx, g.cfg, g.log)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.refresher.Refresh(ctx, start, end)
			if err != nil {
				return err
			}
			return printJSON(cmd, report)
		},
	}

	cmd.Flags().StringVar(&startStr, "start", "", "first day of the window (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endStr, "end", "", "last day of the window (YYYY-MM-DD)")
	return cmd
}

// parseWindow parses optional window bounds; empty strings stay zero.
func parseWindow(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error
	if startStr != "" {
		if start, err = time.Parse(dateLayout, startStr); err != nil {
			return start, end, fmt.Errorf("invalid --start: %w", err)
		}
	}
	if endStr != "" {
		if end, err = time.Parse(dateLayout, endStr); err != nil {
			return start, end, fmt.Errorf("invalid --end: %w", err)
		}
	}
	return start, end, nil
}
