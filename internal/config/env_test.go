package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvFallback(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	assert.Equal(t, "info", Env(EnvLogLevel, "info"))

	t.Setenv(EnvLogLevel, "debug")
	assert.Equal(t, "debug", Env(EnvLogLevel, "info"))
}

func TestLoadDotEnvKeepsExistingValues(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(
		EnvDataDir+"=/tmp/from-dotenv\n"+EnvLogLevel+"=trace\n"), 0o600))

	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvDataDir, "")
	require.NoError(t, os.Unsetenv(EnvDataDir))

	require.NoError(t, LoadDotEnv(nil))
	assert.Equal(t, "/tmp/from-dotenv", os.Getenv(EnvDataDir))
	assert.Equal(t, "warn", os.Getenv(EnvLogLevel))
}

func TestLoadDotEnvMissingFilesAreIgnored(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, LoadDotEnv(nil))
}

func TestDotEnvDisabled(t *testing.T) {
	t.Setenv(EnvDotEnv, "off")
	assert.True(t, DotEnvDisabled())

	t.Setenv(EnvDotEnv, "yes")
	assert.False(t, DotEnvDisabled())

	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("not a valid line\n"), 0o600))
	t.Setenv(EnvDotEnv, "0")
	require.NoError(t, LoadDotEnv(nil))
}
