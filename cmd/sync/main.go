// Command sync runs one full synchronization pass over all linked bank
// accounts. Designed to be cron-friendly: exit code 0 unless a fatal error
// occurs, per-account failures are reported in the printed summary.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/juanegido/finance-tracker/internal/config"
	"github.com/juanegido/finance-tracker/internal/logger"
	"github.com/juanegido/finance-tracker/internal/plaidclient"
	"github.com/juanegido/finance-tracker/internal/registry"
	"github.com/juanegido/finance-tracker/internal/sheets"
	"github.com/juanegido/finance-tracker/internal/syncer"
)

func main() {
	windowDays := flag.Int("window-days", 0, "Look-back window in days (default: SYNC_WINDOW_DAYS or 60)")
	logDir := flag.String("log-dir", "", "Also write logs to a daily file in this directory")
	flag.Parse()

	cfg := config.Load()

	log := logger.New(cfg.LogLevel)
	if *logDir != "" {
		f, err := logger.OpenDailyFile(*logDir)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open log file")
		}
		defer f.Close()
		log = logger.NewWithWriter(io.MultiWriter(os.Stderr, f), cfg.LogLevel)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	source := plaidclient.New(cfg.PlaidClientID, cfg.PlaidSecret, cfg.PlaidEnv)

	reg, err := registry.Open(cfg.AccountsFile, source)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open account registry")
	}

	// First run on a pre-registry install: pick up the single legacy token.
	if reg.Len() == 0 {
		log.Info().Msg("No bank accounts found, checking for legacy token")
		account, migrated, err := reg.MigrateLegacy(ctx, cfg.LegacyTokenFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Legacy token migration failed")
		}
		if !migrated {
			log.Fatal().Msg("No bank accounts linked. Run 'accounts link' and 'accounts add' first")
		}
		log.Info().Str("sheet", account.SheetName).Msg("Legacy token migrated")
	}

	gateway, err := sheets.New(ctx, cfg.CredentialsFile, cfg.SpreadsheetID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create sheets client")
	}

	days := *windowDays
	if days <= 0 {
		days = cfg.SyncWindowDays
	}

	report, err := syncer.New(reg, source, gateway, days).SyncAll(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Sync failed")
	}

	fmt.Print(report.Summary())
}
