// Package registry is the persistent store of linked bank connections.
// Every mutation rewrites the whole snapshot file atomically, so a reader
// in another process always sees either the old or the new complete state.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrDuplicateSheetName indicates that sheet-name generation produced a name
// already held by a live account. The disambiguation suffix makes this
// unreachable in a healthy registry; seeing it means the snapshot is corrupt
// and it must be surfaced, not silently resolved.
var ErrDuplicateSheetName = errors.New("duplicate sheet name")

// SubAccount describes one provider-reported account under a linked item.
// It is descriptive metadata only and plays no part in sync logic.
type SubAccount struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Type      string `json:"type,omitempty"`
	Subtype   string `json:"subtype,omitempty"`
	Mask      string `json:"mask,omitempty"`
}

// Account is one linked bank connection.
type Account struct {
	AccountID       string       `json:"account_id"`
	AccessToken     string       `json:"access_token"`
	AccountName     string       `json:"account_name"`
	InstitutionName string       `json:"institution_name"`
	SheetName       string       `json:"sheet_name"`
	Accounts        []SubAccount `json:"accounts"`
	CreatedAt       time.Time    `json:"created_at"`
	LastSync        *time.Time   `json:"last_sync"`
}

// Identity is the provider-reported metadata for an access token.
type Identity struct {
	InstitutionName string
	SubAccounts     []SubAccount
}

// IdentitySource resolves institution metadata for an access token.
// This is a minimal interface so the registry does not depend on the
// provider client package.
type IdentitySource interface {
	GetIdentity(ctx context.Context, accessToken string) (*Identity, error)
}

// snapshot is the on-disk shape of the registry. Accounts are stored as an
// array so registration order survives the JSON round trip.
type snapshot struct {
	Accounts []*Account `json:"accounts"`
}

// Registry holds the linked bank connections and persists them to a single
// JSON snapshot file.
type Registry struct {
	path     string
	source   IdentitySource
	accounts []*Account
}

// Open loads the registry snapshot at path, or starts an empty registry if
// the file does not exist yet.
func Open(path string, source IdentitySource) (*Registry, error) {
	r := &Registry{path: path, source: source}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Open: reading %s: %w", path, err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("Open: parsing %s: %w", path, err)
	}
	r.accounts = snap.Accounts

	return r, nil
}

// Register links a new bank connection: it resolves institution metadata for
// the access token, derives a unique sheet name, assigns a fresh account ID
// and persists the updated snapshot. An empty displayName falls back to the
// institution name.
func (r *Registry) Register(ctx context.Context, accessToken, displayName string) (*Account, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("Register: access token is required")
	}

	identity, err := r.source.GetIdentity(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("Register: resolving identity: %w", err)
	}

	name := displayName
	if name == "" {
		name = identity.InstitutionName
	}

	sheetName := r.generateSheetName(displayName, identity.InstitutionName)
	for _, acc := range r.accounts {
		if acc.SheetName == sheetName {
			return nil, fmt.Errorf("Register: %q: %w", sheetName, ErrDuplicateSheetName)
		}
	}

	account := &Account{
		AccountID:       uuid.NewString(),
		AccessToken:     accessToken,
		AccountName:     name,
		InstitutionName: identity.InstitutionName,
		SheetName:       sheetName,
		Accounts:        identity.SubAccounts,
		CreatedAt:       time.Now().UTC(),
	}

	r.accounts = append(r.accounts, account)
	if err := r.save(); err != nil {
		r.accounts = r.accounts[:len(r.accounts)-1]
		return nil, fmt.Errorf("Register: %w", err)
	}

	return account, nil
}

// Deregister removes the account with the given ID and persists the snapshot.
// It reports false, without error, when the ID is unknown.
func (r *Registry) Deregister(id string) (bool, error) {
	for i, acc := range r.accounts {
		if acc.AccountID != id {
			continue
		}
		removed := acc
		r.accounts = append(r.accounts[:i], r.accounts[i+1:]...)
		if err := r.save(); err != nil {
			// Restore in-memory state so the registry matches the file.
			r.accounts = append(r.accounts[:i], append([]*Account{removed}, r.accounts[i:]...)...)
			return false, fmt.Errorf("Deregister: %w", err)
		}
		return true, nil
	}
	return false, nil
}

// List returns all accounts in registration order.
func (r *Registry) List() []*Account {
	return append([]*Account(nil), r.accounts...)
}

// Len returns the number of registered accounts.
func (r *Registry) Len() int {
	return len(r.accounts)
}

// Get returns the account with the given ID, or nil if unknown.
func (r *Registry) Get(id string) *Account {
	for _, acc := range r.accounts {
		if acc.AccountID == id {
			return acc
		}
	}
	return nil
}

// MarkSynced records a successful sync pass for the account and persists the
// snapshot. Unknown IDs are a no-op.
func (r *Registry) MarkSynced(id string, at time.Time) error {
	for _, acc := range r.accounts {
		if acc.AccountID != id {
			continue
		}
		t := at.UTC()
		acc.LastSync = &t
		if err := r.save(); err != nil {
			return fmt.Errorf("MarkSynced: %w", err)
		}
		return nil
	}
	return nil
}

var (
	nonNameChars   = regexp.MustCompile(`[^\w\s-]`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// generateSheetName produces a unique, sheet-safe tab name from the display
// name (or the institution name when the display name is unset): strip
// everything but word characters, whitespace and hyphens, collapse
// whitespace, cap at 100 characters, and suffix " 1", " 2", ... on collision
// with an existing account's sheet name.
func (r *Registry) generateSheetName(displayName, institutionName string) string {
	base := displayName
	if base == "" {
		base = institutionName
	}

	clean := nonNameChars.ReplaceAllString(base, "")
	clean = strings.TrimSpace(whitespaceRuns.ReplaceAllString(clean, " "))
	if len(clean) > 100 {
		clean = clean[:97] + "..."
	}

	existing := make(map[string]bool, len(r.accounts))
	for _, acc := range r.accounts {
		existing[acc.SheetName] = true
	}

	name := clean
	for counter := 1; existing[name]; counter++ {
		name = fmt.Sprintf("%s %d", clean, counter)
	}
	return name
}

// save rewrites the whole snapshot file atomically: write to a temp file in
// the same directory, then rename over the target. A crash mid-write leaves
// either the old or the new complete snapshot, never a torn file.
func (r *Registry) save() error {
	data, err := json.MarshalIndent(snapshot{Accounts: r.accounts}, "", "  ")
	if err != nil {
		return fmt.Errorf("save: encoding snapshot: %w", err)
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, ".bank_accounts-*.json")
	if err != nil {
		return fmt.Errorf("save: creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("save: writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("save: closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("save: replacing %s: %w", r.path, err)
	}
	return nil
}
