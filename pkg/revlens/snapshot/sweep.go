package snapshot

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultRetentionDays is how long snapshot files are kept before the sweep
// removes them. This is a retention policy for fetched review sets only; the
// result cache is content-addressed and never expires.
const DefaultRetentionDays = 7

// SweepResult summarizes one sweep run.
type SweepResult struct {
	Scanned int
	Removed int
	Errors  int
}

// Sweep removes snapshot files whose modification time is older than
// maxAge. Non-snapshot files in the directory are left alone. Individual
// removal failures are counted, not fatal.
func (s *Store) Sweep(maxAge time.Duration) (SweepResult, error) {
	var res SweepResult

	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return res, nil
	}
	if err != nil {
		return res, err
	}

	cutoff := s.now().Add(-maxAge)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		res.Scanned++

		info, err := entry.Info()
		if err != nil {
			res.Errors++
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			res.Errors++
			continue
		}
		res.Removed++
	}
	return res, nil
}
