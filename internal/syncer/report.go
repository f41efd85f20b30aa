package syncer

import (
	"fmt"
	"strings"
	"time"
)

// AccountResult records the outcome of one account's sync pass.
type AccountResult struct {
	AccountID   string
	AccountName string
	SheetName   string
	Fetched     int
	New         int
	Skipped     int
	Err         error
}

// Report summarizes a full sync pass across all accounts.
type Report struct {
	Results  []AccountResult
	Started  time.Time
	Finished time.Time
}

// TotalNew returns the number of rows appended across all accounts.
func (r *Report) TotalNew() int {
	var n int
	for _, res := range r.Results {
		n += res.New
	}
	return n
}

// Failed reports whether any account's sync pass failed.
func (r *Report) Failed() bool {
	for _, res := range r.Results {
		if res.Err != nil {
			return true
		}
	}
	return false
}

// Summary renders the plain-text operator summary listing successes and
// per-account failures.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Synced %d account(s), %d new transaction(s)\n", len(r.Results), r.TotalNew())
	for _, res := range r.Results {
		if res.Err != nil {
			fmt.Fprintf(&b, "  %s: FAILED: %v\n", res.AccountName, res.Err)
			continue
		}
		fmt.Fprintf(&b, "  %s: fetched %d, new %d, skipped %d\n",
			res.AccountName, res.Fetched, res.New, res.Skipped)
	}
	return b.String()
}
