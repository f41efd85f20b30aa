package syncer

import (
	"context"
	"time"

	"github.com/juanegido/finance-tracker/internal/registry"
)

// Transaction is one bank transaction as returned by the provider.
type Transaction struct {
	ID     string  // provider-assigned globally unique identifier
	Date   string  // calendar date, YYYY-MM-DD
	Name   string  // raw merchant/payee text
	Amount float64 // signed, provider sign convention
}

// TransactionSource fetches transactions for an access token within a date
// window. This interface enables mocking the provider in tests.
type TransactionSource interface {
	GetTransactions(ctx context.Context, accessToken string, start, end time.Time) ([]Transaction, error)
}

// LedgerGateway is the destination spreadsheet: one append-only sheet per
// linked bank connection.
type LedgerGateway interface {
	// ListLedgers returns the names of all existing sheets.
	ListLedgers(ctx context.Context) ([]string, error)

	// EnsureLedger creates the named sheet with the given header row if it
	// does not exist yet. Idempotent.
	EnsureLedger(ctx context.Context, name string, header []string) error

	// ReadColumn returns every cell of the given column, header included.
	ReadColumn(ctx context.Context, name, column string) ([]string, error)

	// AppendRows appends the rows to the named sheet in order.
	AppendRows(ctx context.Context, name string, rows [][]interface{}) error
}

// AccountStore is the slice of the registry the syncer needs.
type AccountStore interface {
	List() []*registry.Account
	MarkSynced(id string, at time.Time) error
}
