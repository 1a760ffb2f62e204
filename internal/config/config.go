package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/corebank-dev/corebank/internal/bank"
)

// Config represents the top-level corebank.yaml configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Bank     BankConfig     `yaml:"bank"`
	Accrual  AccrualConfig  `yaml:"accrual"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig points at the Postgres store. An empty URL runs the bank on
// the in-memory store (state is lost on exit).
type DatabaseConfig struct {
	URL string `yaml:"url,omitempty"`
}

// BankConfig holds the ledger's tunable parameters as decimal strings.
type BankConfig struct {
	TransferCommission string `yaml:"transfer_commission"`
	FixedTermRate      string `yaml:"fixed_term_rate"`
	CheckingBaseFee    string `yaml:"checking_base_fee"`
}

// AccrualConfig controls the scheduled fixed-term interest sweep.
type AccrualConfig struct {
	Schedule string `yaml:"schedule"` // cron spec, e.g. "@hourly"
}

// Load reads a corebank.yaml file from disk. DATABASE_URL, when set,
// overrides the configured database URL.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.Database.URL = url
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the historical parameter defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Bank: BankConfig{
			TransferCommission: "50",
			FixedTermRate:      "0.10",
			CheckingBaseFee:    "50",
		},
		Accrual: AccrualConfig{
			Schedule: "@hourly",
		},
	}
}

// Params parses the bank parameters into ledger values.
func (c *Config) Params() (bank.Params, error) {
	commission, err := decimal.NewFromString(c.Bank.TransferCommission)
	if err != nil {
		return bank.Params{}, fmt.Errorf("invalid transfer_commission %q: %w", c.Bank.TransferCommission, err)
	}
	rate, err := decimal.NewFromString(c.Bank.FixedTermRate)
	if err != nil {
		return bank.Params{}, fmt.Errorf("invalid fixed_term_rate %q: %w", c.Bank.FixedTermRate, err)
	}
	fee, err := decimal.NewFromString(c.Bank.CheckingBaseFee)
	if err != nil {
		return bank.Params{}, fmt.Errorf("invalid checking_base_fee %q: %w", c.Bank.CheckingBaseFee, err)
	}
	return bank.Params{
		TransferCommission: commission,
		FixedTermRate:      rate,
		CheckingBaseFee:    fee,
	}, nil
}
