package commands

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/corebank-dev/corebank/internal/bank"
	"github.com/corebank-dev/corebank/internal/export"
	"github.com/corebank-dev/corebank/internal/model"
)

func newAccountCommand(configPath *string) *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Account registry operations",
	}
	accountCmd.AddCommand(newAccountOpenCommand(configPath))
	accountCmd.AddCommand(newAccountCloseCommand(configPath))
	accountCmd.AddCommand(newAccountListCommand(configPath))
	accountCmd.AddCommand(newAccountShowCommand(configPath))
	return accountCmd
}

func newAccountOpenCommand(configPath *string) *cobra.Command {
	var owner, kind, balanceStr, overdraftStr, feeStr string

	cmd := &cobra.Command{
		Use:   "open <number>",
		Short: "Open a savings or checking account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			balance, err := decimal.NewFromString(balanceStr)
			if err != nil {
				return fmt.Errorf("invalid balance %q: %w", balanceStr, err)
			}

			b, _, cleanup, err := openBank(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			var acct model.Account
			switch model.AccountKind(kind) {
			case model.KindSavings:
				acct = model.NewSavings(args[0], owner, balance)
			case model.KindChecking:
				limit, err := decimal.NewFromString(overdraftStr)
				if err != nil {
					return fmt.Errorf("invalid overdraft limit %q: %w", overdraftStr, err)
				}
				if limit.IsNegative() {
					return fmt.Errorf("overdraft limit must not be negative")
				}
				fee := b.Params().CheckingBaseFee
				if feeStr != "" {
					if fee, err = decimal.NewFromString(feeStr); err != nil {
						return fmt.Errorf("invalid fee %q: %w", feeStr, err)
					}
				}
				acct = model.NewChecking(args[0], owner, balance, limit, fee)
			default:
				return fmt.Errorf("kind must be savings or checking (fixed-term accounts are created with 'fixed-term create')")
			}

			if err := b.OpenAccount(cmd.Context(), acct); err != nil {
				return err
			}
			fmt.Printf("Opened %s account %s for client %s\n", kind, args[0], owner)
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "owning client ID (required)")
	_ = cmd.MarkFlagRequired("owner")
	cmd.Flags().StringVar(&kind, "kind", string(model.KindSavings), "savings or checking")
	cmd.Flags().StringVar(&balanceStr, "balance", "0", "opening balance")
	cmd.Flags().StringVar(&overdraftStr, "overdraft-limit", "0", "overdraft limit (checking only)")
	cmd.Flags().StringVar(&feeStr, "fee", "", "base maintenance fee (checking only, defaults to configured fee)")

	return cmd
}

func newAccountCloseCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "close <number>",
		Short: "Close an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _, cleanup, err := openBank(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := b.CloseAccount(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Closed account %s\n", args[0])
			return nil
		},
	}
}

func newAccountListCommand(configPath *string) *cobra.Command {
	var kind, owner, csvPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _, cleanup, err := openBank(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			var accounts []model.Account
			switch {
			case kind != "":
				accounts = b.AccountsByKind(model.AccountKind(kind))
			case owner != "":
				accounts = b.AccountsByOwner(owner)
			default:
				accounts = b.Accounts()
			}

			if csvPath != "" {
				if err := writeAccountsCSV(b, accounts, csvPath); err != nil {
					return err
				}
				fmt.Printf("Exported %d account(s) to %s\n", len(accounts), csvPath)
				return nil
			}

			for _, a := range accounts {
				base := a.Base()
				fmt.Printf("%s\t%s\t%s\t%s\n", base.Number, a.Kind(), base.OwnerID, base.Balance.StringFixed(2))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "filter by variant")
	cmd.Flags().StringVar(&owner, "owner", "", "filter by owning client")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write CSV to this path instead of stdout")

	return cmd
}

// writeAccountsCSV exports an account listing with each row's maintenance
// cost resolved through the client registry.
func writeAccountsCSV(b *bank.Bank, accounts []model.Account, path string) error {
	rows := make([]export.AccountRow, 0, len(accounts))
	for _, a := range accounts {
		cost, err := b.MaintenanceCost(a.Base().Number)
		if err != nil {
			return fmt.Errorf("resolving maintenance cost of %s: %w", a.Base().Number, err)
		}
		rows = append(rows, export.AccountRow{Account: a, Cost: cost.StringFixed(2)})
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer out.Close()
	if err := export.WriteAccounts(out, rows); err != nil {
		return fmt.Errorf("exporting accounts: %w", err)
	}
	return nil
}

func newAccountShowCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <number>",
		Short: "Show one account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _, cleanup, err := openBank(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			a, err := b.FindAccount(args[0])
			if err != nil {
				return err
			}
			base := a.Base()
			fmt.Printf("Number:  %s\nKind:    %s\nOwner:   %s\nBalance: %s\n",
				base.Number, a.Kind(), base.OwnerID, base.Balance.StringFixed(2))

			if cost, err := b.MaintenanceCost(args[0]); err == nil {
				fmt.Printf("Maintenance cost: %s\n", cost.StringFixed(2))
			}
			if ft, ok := a.(*model.FixedTermAccount); ok {
				fmt.Printf("Capital: %s\nRate:    %s\nMatures: %s\nAccrued: %s\n",
					ft.InitialCapital.StringFixed(2), ft.AnnualRate.String(),
					ft.MaturesAt.Format("2006-01-02"), ft.AccruedInterest.StringFixed(2))
			}
			return nil
		},
	}
}
