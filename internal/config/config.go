package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults and
// passed explicitly to the components that need them.
type Config struct {
	// Plaid
	PlaidClientID string
	PlaidSecret   string
	PlaidEnv      string // "sandbox" or "production"

	// Google Sheets
	SpreadsheetID   string
	CredentialsFile string

	// Local state
	AccountsFile    string
	LegacyTokenFile string

	// Sync
	SyncWindowDays int

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables with defaults.
// A .env file in the working directory is read first if present; real
// environment variables take precedence over .env entries.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		PlaidClientID: getEnv("PLAID_CLIENT_ID", ""),
		PlaidSecret:   getEnv("PLAID_SECRET", ""),
		PlaidEnv:      getEnv("PLAID_ENV", "sandbox"),

		SpreadsheetID:   getEnv("GOOGLE_SHEET_ID", ""),
		CredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", "credentials.json"),

		AccountsFile:    getEnv("ACCOUNTS_FILE", "_bank_accounts.json"),
		LegacyTokenFile: getEnv("LEGACY_TOKEN_FILE", "_access_token.json"),

		SyncWindowDays: getEnvInt("SYNC_WINDOW_DAYS", 60),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks that the settings required to talk to Plaid and Google
// Sheets are present.
func (c *Config) Validate() error {
	if c.PlaidClientID == "" {
		return fmt.Errorf("PLAID_CLIENT_ID is not set")
	}
	if c.PlaidSecret == "" {
		return fmt.Errorf("PLAID_SECRET is not set")
	}
	if c.SpreadsheetID == "" {
		return fmt.Errorf("GOOGLE_SHEET_ID is not set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
