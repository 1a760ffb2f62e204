// Package commands wires the corebank CLI. Commands load state from the
// configured store, run one ledger operation, and exit; serve keeps the bank
// resident behind the HTTP API.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corebank-dev/corebank/internal/bank"
	"github.com/corebank-dev/corebank/internal/buildinfo"
	"github.com/corebank-dev/corebank/internal/config"
	"github.com/corebank-dev/corebank/internal/store"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "corebank",
		Short:   "Bank client and account ledger",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "corebank.yaml", "path to config file")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newClientCommand(&configPath))
	rootCmd.AddCommand(newAccountCommand(&configPath))
	rootCmd.AddCommand(newDepositCommand(&configPath))
	rootCmd.AddCommand(newWithdrawCommand(&configPath))
	rootCmd.AddCommand(newTransferCommand(&configPath))
	rootCmd.AddCommand(newFixedTermCommand(&configPath))
	rootCmd.AddCommand(newMovementsCommand(&configPath))
	rootCmd.AddCommand(newReportCommand(&configPath))
	rootCmd.AddCommand(newServeCommand(&configPath))

	return rootCmd
}

// openBank loads the config, connects the store, and rebuilds the bank from
// it. The returned cleanup closes the store connection.
func openBank(ctx context.Context, configPath string) (*bank.Bank, *config.Config, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	params, err := cfg.Params()
	if err != nil {
		return nil, nil, nil, err
	}

	var st store.Store
	cleanup := func() {}
	if cfg.Database.URL != "" {
		pg, err := store.NewPostgres(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connecting store: %w", err)
		}
		st = pg
		cleanup = pg.Close
	} else {
		st = store.NewMemory()
	}

	b, err := bank.Open(ctx, st, params)
	if err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("rebuilding bank state: %w", err)
	}
	return b, cfg, cleanup, nil
}
