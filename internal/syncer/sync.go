// Package syncer runs the idempotent bank-to-sheet synchronization pass:
// for every registered account it ensures the destination sheet exists,
// rebuilds the dedup frontier from the sheet's ID column, fetches the
// look-back window from the provider, classifies the unseen transactions and
// appends them in one batch.
package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/juanegido/finance-tracker/internal/classifier"
	"github.com/juanegido/finance-tracker/internal/logger"
	"github.com/juanegido/finance-tracker/internal/registry"
)

// Header is the fixed first row of every ledger sheet.
var Header = []string{"transaction_id", "date", "name", "amount", "category", "project"}

const (
	// DefaultWindowDays is the fetch look-back. A fixed window, not an
	// incremental cursor: it tolerates back-dated upstream postings at the
	// cost of re-reading the frontier every run.
	DefaultWindowDays = 60

	// idColumn holds transaction IDs in every sheet.
	idColumn = "A"
)

// Syncer coordinates the registry, the transaction source and the ledger
// gateway for a full sync pass.
type Syncer struct {
	store      AccountStore
	source     TransactionSource
	ledger     LedgerGateway
	windowDays int
	now        func() time.Time
}

// New creates a Syncer. A non-positive windowDays falls back to
// DefaultWindowDays.
func New(store AccountStore, source TransactionSource, ledger LedgerGateway, windowDays int) *Syncer {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	return &Syncer{
		store:      store,
		source:     source,
		ledger:     ledger,
		windowDays: windowDays,
		now:        time.Now,
	}
}

// SyncAll processes every registered account sequentially and independently:
// a provider or gateway failure on one account is recorded in the report and
// does not stop the sweep. Registry persistence failures are fatal and abort
// the invocation, since later state would be inconsistent.
func (s *Syncer) SyncAll(ctx context.Context) (*Report, error) {
	log := logger.FromContext(ctx)

	accounts := s.store.List()
	report := &Report{Started: s.now()}

	end := s.now()
	start := end.AddDate(0, 0, -s.windowDays)

	log.Info().
		Int("accounts", len(accounts)).
		Time("window_start", start).
		Time("window_end", end).
		Msg("Starting sync pass")

	for _, acc := range accounts {
		result := AccountResult{
			AccountID:   acc.AccountID,
			AccountName: acc.AccountName,
			SheetName:   acc.SheetName,
		}
		result.Err = s.syncAccount(ctx, acc, start, end, &result)

		if result.Err != nil {
			log.Warn().
				Err(result.Err).
				Str("account", acc.AccountName).
				Msg("Account sync failed")
			report.Results = append(report.Results, result)
			continue
		}

		// A successful no-op pass still counts as synced.
		if err := s.store.MarkSynced(acc.AccountID, s.now()); err != nil {
			report.Results = append(report.Results, result)
			report.Finished = s.now()
			return report, fmt.Errorf("SyncAll: marking %s synced: %w", acc.AccountID, err)
		}
		report.Results = append(report.Results, result)
	}

	report.Finished = s.now()

	log.Info().
		Int("accounts", len(accounts)).
		Int("new", report.TotalNew()).
		Bool("failures", report.Failed()).
		Msg("Sync pass completed")

	return report, nil
}

// syncAccount runs steps 1-5 for a single account, filling in the counts on
// result as it goes.
func (s *Syncer) syncAccount(ctx context.Context, acc *registry.Account, start, end time.Time, result *AccountResult) error {
	log := logger.FromContext(ctx)

	if err := s.ledger.EnsureLedger(ctx, acc.SheetName, Header); err != nil {
		return fmt.Errorf("ensuring sheet %q: %w", acc.SheetName, err)
	}

	cells, err := s.ledger.ReadColumn(ctx, acc.SheetName, idColumn)
	if err != nil {
		return fmt.Errorf("reading dedup frontier for %q: %w", acc.SheetName, err)
	}
	frontier := make(map[string]bool, len(cells))
	for i, id := range cells {
		if i == 0 {
			continue // header row
		}
		frontier[id] = true
	}

	transactions, err := s.source.GetTransactions(ctx, acc.AccessToken, start, end)
	if err != nil {
		return fmt.Errorf("fetching transactions: %w", err)
	}
	result.Fetched = len(transactions)

	// Pending batch keeps the provider's arrival order.
	var rows [][]interface{}
	for _, t := range transactions {
		if frontier[t.ID] {
			result.Skipped++
			continue
		}
		category, project := classifier.Classify(t.Name)
		rows = append(rows, []interface{}{t.ID, t.Date, t.Name, t.Amount, category, project})
	}
	result.New = len(rows)

	if len(rows) > 0 {
		if err := s.ledger.AppendRows(ctx, acc.SheetName, rows); err != nil {
			return fmt.Errorf("appending %d row(s) to %q: %w", len(rows), acc.SheetName, err)
		}
	}

	log.Info().
		Str("sheet", acc.SheetName).
		Int("fetched", result.Fetched).
		Int("new", result.New).
		Int("skipped", result.Skipped).
		Msg("Account synced")

	return nil
}
