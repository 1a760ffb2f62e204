package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newDepositCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "deposit <number> <amount>",
		Short: "Deposit into an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}

			b, _, cleanup, err := openBank(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := b.Deposit(cmd.Context(), args[0], amount); err != nil {
				return err
			}
			a, err := b.FindAccount(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Deposited %s into %s, balance %s\n", amount, args[0], a.Base().Balance.StringFixed(2))
			return nil
		},
	}
}

func newWithdrawCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <number> <amount>",
		Short: "Withdraw from an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}

			b, _, cleanup, err := openBank(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := b.Withdraw(cmd.Context(), args[0], amount); err != nil {
				return err
			}
			a, err := b.FindAccount(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Withdrew %s from %s, balance %s\n", amount, args[0], a.Base().Balance.StringFixed(2))
			return nil
		},
	}
}

func newTransferCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <from> <to> <amount>",
		Short: "Transfer between accounts (commission applies across owners)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[2])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[2], err)
			}

			b, _, cleanup, err := openBank(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := b.Transfer(cmd.Context(), args[0], args[1], amount); err != nil {
				return err
			}
			fmt.Printf("Transferred %s from %s to %s\n", amount, args[0], args[1])
			return nil
		},
	}
}

func newFixedTermCommand(configPath *string) *cobra.Command {
	fixedTermCmd := &cobra.Command{
		Use:   "fixed-term",
		Short: "Fixed-term deposit operations",
	}

	var termDays int
	createCmd := &cobra.Command{
		Use:   "create <source-account> <capital>",
		Short: "Create a fixed-term deposit funded from an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			capital, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid capital %q: %w", args[1], err)
			}

			b, _, cleanup, err := openBank(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			number, err := b.CreateFixedTerm(cmd.Context(), args[0], capital, termDays)
			if err != nil {
				return err
			}
			fmt.Printf("Created fixed-term deposit %s (%s for %d days)\n", number, capital, termDays)
			return nil
		},
	}
	createCmd.Flags().IntVar(&termDays, "term-days", 30, "days until maturity")
	fixedTermCmd.AddCommand(createCmd)

	accrueCmd := &cobra.Command{
		Use:   "accrue [number]",
		Short: "Accrue interest on matured fixed-term deposits",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _, cleanup, err := openBank(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			if len(args) == 1 {
				if err := b.AccrueInterest(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Printf("Accrued interest on %s\n", args[0])
				return nil
			}

			n, err := b.AccrueMatured(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Credited interest on %d matured deposit(s)\n", n)
			return nil
		},
	}
	fixedTermCmd.AddCommand(accrueCmd)

	return fixedTermCmd
}
