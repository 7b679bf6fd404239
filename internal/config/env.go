// Package config resolves process-level options from the environment.
// User preferences live in the settings file, not here.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"
)

// Environment variables understood by the CLI.
const (
	EnvDataDir  = "WORKBUDDY_DATA_DIR"
	EnvLogLevel = "WORKBUDDY_LOG_LEVEL"
	EnvAPIAddr  = "WORKBUDDY_API_ADDR"
	EnvDotEnv   = "WORKBUDDY_DOTENV"
)

// DotEnvFiles are tried in order from the working directory.
var DotEnvFiles = []string{".env.local", ".env"}

// LoadDotEnv loads DotEnvFiles that exist. Variables already set in the
// environment win. Setting WORKBUDDY_DOTENV=off skips loading.
func LoadDotEnv(logger hclog.Logger) error {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if DotEnvDisabled() {
		return nil
	}
	for _, path := range DotEnvFiles {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", path, err)
		}
		logger.Debug("loaded environment file", "path", path)
	}
	return nil
}

// DotEnvDisabled reports whether WORKBUDDY_DOTENV turns dotenv loading off.
func DotEnvDisabled() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvDotEnv))) {
	case "0", "false", "off", "no":
		return true
	default:
		return false
	}
}

// Env returns the value of key, or fallback when it is unset or empty.
func Env(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}
