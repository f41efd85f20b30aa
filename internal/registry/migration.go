package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// legacyToken is the shape of the pre-registry single-token file.
type legacyToken struct {
	AccessToken string `json:"access_token"`
}

// MigrateLegacy converts a pre-registry access token file into a registered
// account named "Legacy Bank Account", then renames the file to a
// timestamped backup next to it so the migration cannot silently repeat.
// It reports false when there is nothing to migrate. Any failure before the
// rename leaves the legacy file untouched so the operator can retry.
func (r *Registry) MigrateLegacy(ctx context.Context, legacyPath string) (*Account, bool, error) {
	data, err := os.ReadFile(legacyPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("MigrateLegacy: reading %s: %w", legacyPath, err)
	}

	var legacy legacyToken
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, false, fmt.Errorf("MigrateLegacy: parsing %s: %w", legacyPath, err)
	}
	if legacy.AccessToken == "" {
		return nil, false, nil
	}

	account, err := r.Register(ctx, legacy.AccessToken, "Legacy Bank Account")
	if err != nil {
		return nil, false, fmt.Errorf("MigrateLegacy: %w", err)
	}

	backup := fmt.Sprintf("%s_backup_%s.json",
		strings.TrimSuffix(legacyPath, ".json"),
		time.Now().Format("20060102_150405"))
	if err := os.Rename(legacyPath, backup); err != nil {
		return account, true, fmt.Errorf("MigrateLegacy: archiving legacy file: %w", err)
	}

	return account, true, nil
}
