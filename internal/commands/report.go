package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/corebank-dev/corebank/internal/export"
	"github.com/corebank-dev/corebank/internal/store"
)

func newReportCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print aggregate balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _, cleanup, err := openBank(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			s := b.Summarize()
			fmt.Printf("Clients:           %d\n", s.Clients)
			fmt.Printf("Accounts:          %d\n", s.Accounts)
			fmt.Printf("Total balance:     %s\n", s.Total.StringFixed(2))
			fmt.Printf("  Savings:         %s\n", s.Savings.StringFixed(2))
			fmt.Printf("  Checking:        %s\n", s.Checking.StringFixed(2))
			fmt.Printf("  Fixed-term:      %s\n", s.FixedTerm.StringFixed(2))
			fmt.Printf("Overdraft in use:  %s\n", s.OverdraftInUse.StringFixed(2))
			return nil
		},
	}
}

func newMovementsCommand(configPath *string) *cobra.Command {
	var account, kind, fromStr, toStr, csvPath string

	cmd := &cobra.Command{
		Use:   "movements",
		Short: "List or export movements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := store.MovementFilter{Account: account, Kind: kind}
			var err error
			if f.From, err = parseDate(fromStr); err != nil {
				return err
			}
			if f.To, err = parseDate(toStr); err != nil {
				return err
			}

			b, _, cleanup, err := openBank(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			movements := b.Movements(f)

			if csvPath != "" {
				out, err := os.Create(csvPath)
				if err != nil {
					return fmt.Errorf("creating %s: %w", csvPath, err)
				}
				defer out.Close()
				if err := export.WriteMovements(out, movements); err != nil {
					return fmt.Errorf("exporting movements: %w", err)
				}
				fmt.Printf("Exported movements to %s\n", csvPath)
				return nil
			}

			for m := range movements {
				fmt.Printf("%s\t%s\t%s\t%s\t%s\n",
					m.At.Format(time.RFC3339), m.Account, m.Kind,
					m.Amount.StringFixed(2), m.Balance.StringFixed(2))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "filter by account number")
	cmd.Flags().StringVar(&kind, "kind", "", "filter by movement kind")
	cmd.Flags().StringVar(&fromStr, "from", "", "start date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&toStr, "to", "", "end date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write CSV to this path instead of stdout")

	return cmd
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
	}
	return t, nil
}
