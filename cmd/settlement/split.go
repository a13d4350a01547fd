package main

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func splitCmd(g *globals) *cobra.Command {
	var showChildren bool

	cmd := &cobra.Command{
		Use:   "split <order-id>",
		Short: "Split a parent order by vendor, capture each child and credit the vendors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orderID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid order id %q: %w", args[0], err)
			}

			ctx := cmd.Context()
			a, err := buildApp(ctx, g.cfg, g.log)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.splitter.Split(ctx, orderID)
			if err != nil {
				return err
			}

			out := map[string]interface{}{"result": result}
			if showChildren {
				children, err := a.splitter.Children(ctx, orderID)
				if err != nil {
					return err
				}
				out["children"] = children
			}
			return printJSON(cmd, out)
		},
	}

	cmd.Flags().BoolVar(&showChildren, "children", false, "also print the child orders")
	return cmd
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
