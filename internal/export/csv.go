// Package export renders movement histories and account listings as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"iter"
	"strings"
	"time"

	"github.com/corebank-dev/corebank/internal/model"
)

// MovementsHeader is the CSV header for movement exports.
const MovementsHeader = "account,date,kind,amount,balance"

// AccountsHeader is the CSV header for account exports.
const AccountsHeader = "number,owner_id,kind,balance,maintenance_cost"

// MarshalMovement converts a movement to a CSV row.
func MarshalMovement(m model.Movement) []string {
	return []string{
		m.Account,
		m.At.Format(time.RFC3339),
		m.Kind,
		m.Amount.StringFixed(2),
		m.Balance.StringFixed(2),
	}
}

// WriteMovements writes a movement sequence as CSV, header included.
func WriteMovements(w io.Writer, movements iter.Seq[model.Movement]) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(MovementsHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	row := 0
	for m := range movements {
		row++
		if err := cw.Write(MarshalMovement(m)); err != nil {
			return fmt.Errorf("writing row %d: %w", row, err)
		}
	}
	return cw.Error()
}

// AccountRow pairs an account with its resolved maintenance cost for export.
type AccountRow struct {
	Account model.Account
	Cost    string
}

// WriteAccounts writes an account listing as CSV, header included.
func WriteAccounts(w io.Writer, rows []AccountRow) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(AccountsHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, r := range rows {
		base := r.Account.Base()
		rec := []string{
			base.Number,
			base.OwnerID,
			string(r.Account.Kind()),
			base.Balance.StringFixed(2),
			r.Cost,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}
