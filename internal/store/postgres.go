package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/corebank-dev/corebank/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS clients (
    id       TEXT PRIMARY KEY,
    name     TEXT NOT NULL,
    category TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS accounts (
    number           TEXT PRIMARY KEY,
    owner_id         TEXT NOT NULL,
    kind             TEXT NOT NULL,
    balance          NUMERIC NOT NULL,
    overdraft_limit  NUMERIC,
    base_fee         NUMERIC,
    initial_capital  NUMERIC,
    annual_rate      NUMERIC,
    created_at       TIMESTAMPTZ,
    matures_at       TIMESTAMPTZ,
    accrued_interest NUMERIC
);

CREATE TABLE IF NOT EXISTS movements (
    id             TEXT PRIMARY KEY,
    account_number TEXT NOT NULL,
    at             TIMESTAMPTZ NOT NULL,
    kind           TEXT NOT NULL,
    amount         NUMERIC NOT NULL,
    balance        NUMERIC NOT NULL
);

CREATE INDEX IF NOT EXISTS movements_account_at_idx
    ON movements (account_number, at);
`

// Postgres is the pgx-backed Store.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to the database, verifies the connection, and creates
// the schema if missing.
func NewPostgres(ctx context.Context, connString string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Postgres) Close() {
	s.pool.Close()
}

func (s *Postgres) UpsertClient(ctx context.Context, c model.Client) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO clients (id, name, category) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = $2, category = $3`,
		c.ID, c.Name, string(c.Category))
	if err != nil {
		return fmt.Errorf("upserting client %s: %w", c.ID, err)
	}
	return nil
}

func (s *Postgres) DeleteClient(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting client %s: %w", id, err)
	}
	return nil
}

func (s *Postgres) Clients(ctx context.Context) ([]model.Client, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, category FROM clients`)
	if err != nil {
		return nil, fmt.Errorf("querying clients: %w", err)
	}
	defer rows.Close()

	var clients []model.Client
	for rows.Next() {
		var c model.Client
		var category string
		if err := rows.Scan(&c.ID, &c.Name, &category); err != nil {
			return nil, fmt.Errorf("scanning client: %w", err)
		}
		c.Category = model.Category(category)
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (s *Postgres) UpsertAccount(ctx context.Context, a model.Account) error {
	base := a.Base()

	// Variant-specific columns stay NULL where they do not apply.
	var overdraftLimit, baseFee, initialCapital, annualRate, accruedInterest *string
	var createdAt, maturesAt *time.Time

	switch v := a.(type) {
	case *model.CheckingAccount:
		overdraftLimit = decString(v.OverdraftLimit)
		baseFee = decString(v.BaseFee)
	case *model.FixedTermAccount:
		initialCapital = decString(v.InitialCapital)
		annualRate = decString(v.AnnualRate)
		accruedInterest = decString(v.AccruedInterest)
		createdAt = &v.CreatedAt
		maturesAt = &v.MaturesAt
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO accounts (number, owner_id, kind, balance, overdraft_limit,
			base_fee, initial_capital, annual_rate, created_at, matures_at, accrued_interest)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (number) DO UPDATE SET
			owner_id = $2, kind = $3, balance = $4, overdraft_limit = $5,
			base_fee = $6, initial_capital = $7, annual_rate = $8,
			created_at = $9, matures_at = $10, accrued_interest = $11`,
		base.Number, base.OwnerID, string(a.Kind()), base.Balance.String(),
		overdraftLimit, baseFee, initialCapital, annualRate,
		createdAt, maturesAt, accruedInterest)
	if err != nil {
		return fmt.Errorf("upserting account %s: %w", base.Number, err)
	}
	return nil
}

func (s *Postgres) DeleteAccount(ctx context.Context, number string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM accounts WHERE number = $1`, number); err != nil {
		return fmt.Errorf("deleting account %s: %w", number, err)
	}
	return nil
}

func (s *Postgres) Accounts(ctx context.Context) ([]model.Account, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT number, owner_id, kind, balance::text,
			overdraft_limit::text, base_fee::text,
			initial_capital::text, annual_rate::text,
			created_at, matures_at, accrued_interest::text
		FROM accounts`)
	if err != nil {
		return nil, fmt.Errorf("querying accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		var (
			number, ownerID, kind                                      string
			balance                                                    string
			overdraftLimit, baseFee, initialCapital, annualRate, accrd *string
			createdAt, maturesAt                                       *time.Time
		)
		if err := rows.Scan(&number, &ownerID, &kind, &balance,
			&overdraftLimit, &baseFee, &initialCapital, &annualRate,
			&createdAt, &maturesAt, &accrd); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}

		bal, err := decimal.NewFromString(balance)
		if err != nil {
			return nil, fmt.Errorf("account %s: invalid balance %q: %w", number, balance, err)
		}

		acct, err := buildAccount(model.AccountKind(kind), number, ownerID, bal,
			overdraftLimit, baseFee, initialCapital, annualRate, accrd, createdAt, maturesAt)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", number, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, rows.Err()
}

func (s *Postgres) AppendMovement(ctx context.Context, m model.Movement) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO movements (id, account_number, at, kind, amount, balance)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID.String(), m.Account, m.At, m.Kind, m.Amount.String(), m.Balance.String())
	if err != nil {
		return fmt.Errorf("appending movement for %s: %w", m.Account, err)
	}
	return nil
}

func (s *Postgres) Movements(ctx context.Context, f MovementFilter) ([]model.Movement, error) {
	var conds []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Account != "" {
		add("account_number = $%d", f.Account)
	}
	if f.Kind != "" {
		add("kind = $%d", f.Kind)
	}
	if !f.From.IsZero() {
		add("at >= $%d", f.From)
	}
	if !f.To.IsZero() {
		add("at <= $%d", f.To)
	}

	query := `SELECT id, account_number, at, kind, amount::text, balance::text FROM movements`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY at, id"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying movements: %w", err)
	}
	defer rows.Close()

	var movements []model.Movement
	for rows.Next() {
		var m model.Movement
		var idStr, amount, balance string
		if err := rows.Scan(&idStr, &m.Account, &m.At, &m.Kind, &amount, &balance); err != nil {
			return nil, fmt.Errorf("scanning movement: %w", err)
		}
		if m.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("movement id %q: %w", idStr, err)
		}
		if m.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("movement amount %q: %w", amount, err)
		}
		if m.Balance, err = decimal.NewFromString(balance); err != nil {
			return nil, fmt.Errorf("movement balance %q: %w", balance, err)
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

func buildAccount(kind model.AccountKind, number, ownerID string, balance decimal.Decimal,
	overdraftLimit, baseFee, initialCapital, annualRate, accrued *string,
	createdAt, maturesAt *time.Time) (model.Account, error) {

	switch kind {
	case model.KindSavings:
		return model.NewSavings(number, ownerID, balance), nil

	case model.KindChecking:
		limit, err := decFromPtr(overdraftLimit)
		if err != nil {
			return nil, fmt.Errorf("overdraft limit: %w", err)
		}
		fee, err := decFromPtr(baseFee)
		if err != nil {
			return nil, fmt.Errorf("base fee: %w", err)
		}
		return model.NewChecking(number, ownerID, balance, limit, fee), nil

	case model.KindFixedTerm:
		if createdAt == nil || maturesAt == nil {
			return nil, fmt.Errorf("fixed-term account missing timestamps")
		}
		capital, err := decFromPtr(initialCapital)
		if err != nil {
			return nil, fmt.Errorf("initial capital: %w", err)
		}
		rate, err := decFromPtr(annualRate)
		if err != nil {
			return nil, fmt.Errorf("annual rate: %w", err)
		}
		interest, err := decFromPtr(accrued)
		if err != nil {
			return nil, fmt.Errorf("accrued interest: %w", err)
		}
		acct := &model.FixedTermAccount{
			InitialCapital:  capital,
			AnnualRate:      rate,
			CreatedAt:       *createdAt,
			MaturesAt:       *maturesAt,
			AccruedInterest: interest,
		}
		acct.Number = number
		acct.OwnerID = ownerID
		acct.Balance = balance
		return acct, nil

	default:
		return nil, fmt.Errorf("unknown account kind %q", kind)
	}
}

func decString(d decimal.Decimal) *string {
	s := d.String()
	return &s
}

func decFromPtr(s *string) (decimal.Decimal, error) {
	if s == nil {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(*s)
}
