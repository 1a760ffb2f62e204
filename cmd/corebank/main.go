package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/corebank-dev/corebank/internal/commands"
)

func main() {
	// Optional .env for DATABASE_URL and friends; missing file is fine.
	_ = godotenv.Load()

	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
