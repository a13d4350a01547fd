package main

import (
	"fmt"
	"os"

	"marketplace-settlement/config"
	"marketplace-settlement/pkg/logger"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var Version = "dev"

// globals are resolved once per invocation by the root command.
type globals struct {
	configPath string
	envFiles   []string
	cfg        *config.Config
	log        zerolog.Logger
}

func main() {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:           "settlement",
		Short:         "Marketplace settlement engine: order splitting, vendor payouts and exchange rates",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(g.envFiles...); err != nil {
				return err
			}
			cfg, err := config.Load(g.configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			g.cfg = cfg
			g.log = logger.New(cfg.Log.Level, cfg.Log.Pretty)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "config file (default ./config.yaml or ./config/config.yaml)")
	rootCmd.PersistentFlags().StringSliceVar(&g.envFiles, "env-file", []string{".env"}, ".env files to load before reading config")

	rootCmd.AddCommand(serveCmd(g))
	rootCmd.AddCommand(splitCmd(g))
	rootCmd.AddCommand(ratesCmd(g))
	rootCmd.AddCommand(walletCmd(g))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
