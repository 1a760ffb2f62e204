package commands

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corebank-dev/corebank/internal/config"
)

func TestInit_WritesConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	dir := t.TempDir()
	require.NoError(t, runInit(dir))

	cfg, err := config.Load(filepath.Join(dir, "corebank.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestInit_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(dir))

	err := runInit(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInit_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "bank")
	require.NoError(t, runInit(dir))

	_, err := config.Load(filepath.Join(dir, "corebank.yaml"))
	require.NoError(t, err)
}

func TestRootCommand_InitSubcommand(t *testing.T) {
	dir := t.TempDir()

	cmd := NewRootCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"init", dir})
	require.NoError(t, cmd.Execute())

	_, err := config.Load(filepath.Join(dir, "corebank.yaml"))
	require.NoError(t, err)
}
