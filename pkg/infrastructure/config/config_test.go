package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/partsmrp/pkg/domain/entities"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load("", dir)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "parts", cfg.LibraryName)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Empty(t, cfg.File)
	assert.Equal(t, filepath.Join(dir, "partsmrp.db"), cfg.DatabasePath())
}

func TestLoad_ReadsFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	body := "database:\n  path: inventory.db\nlibrary_name: acme\nlog:\n  level: debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
	t.Setenv("PARTSMRP_LOG_LEVEL", "error")

	cfg, err := Load("", dir)
	require.NoError(t, err)

	assert.Equal(t, "acme", cfg.LibraryName)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, filepath.Join(dir, "inventory.db"), cfg.DatabasePath())
	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.File)
}

func TestLoad_RejectsUnknownDatabase(t *testing.T) {
	dir := t.TempDir()
	body := "database:\n  type: oracle\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))

	_, err := Load("", dir)
	assert.ErrorIs(t, err, entities.ErrInvalidInput)
}

func TestLoad_PostgresNeedsDSN(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PARTSMRP_DATABASE_TYPE", "postgres")

	_, err := Load("", dir)
	assert.ErrorIs(t, err, entities.ErrInvalidInput)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "")
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestInstall(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "conf")

	path, err := Install(dir, false)
	require.NoError(t, err)
	assert.FileExists(t, path)

	cfg, err := Load("", dir)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "sqlite", cfg.Database.Type)

	_, err = Install(dir, false)
	assert.ErrorIs(t, err, entities.ErrInvalidInput)

	_, err = Install(dir, true)
	assert.NoError(t, err)
}
