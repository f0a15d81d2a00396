// Package cache persists generated narratives keyed by a content
// fingerprint. Entries never expire: a changed input population produces a
// different fingerprint and therefore a natural miss, never a stale hit.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/revlens/revlens/pkg/revlens/internalerr"
)

// Fingerprint derives a deterministic cache key from the ordered input texts
// and a caller discriminator covering app identity and generation
// parameters. Order matters: reordered inputs are a different population.
// The discriminator is always mixed in, so identical texts summarized under
// different parameters never collide.
func Fingerprint(texts []string, discriminator string) string {
	h := sha256.New()
	h.Write([]byte(discriminator))
	for _, t := range texts {
		// Length-prefix each text so boundaries can't alias
		// ("ab","c" vs "a","bc").
		fmt.Fprintf(h, "%d:", len(t))
		h.Write([]byte(t))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// entry is the persisted format: one JSON file per fingerprint.
type entry struct {
	Summary string `json:"summary"`
}

// Store is a file-backed result cache, one file per fingerprint.
type Store struct {
	dir string
}

// NewStore creates a cache store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Get returns the cached summary for a fingerprint. A missing entry is
// (value="", ok=false, err=nil); a disk or decode failure is an ErrCacheIO
// so the caller can log it and treat it as a forced miss.
func (s *Store) Get(fingerprint string) (string, bool, error) {
	data, err := os.ReadFile(s.path(fingerprint))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: read %s: %v", internalerr.ErrCacheIO, fingerprint, err)
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return "", false, fmt.Errorf("%w: decode %s: %v", internalerr.ErrCacheIO, fingerprint, err)
	}
	return e.Summary, true, nil
}

// Put stores a summary under a fingerprint. The write goes to a temp file in
// the same directory and is renamed into place, so a reader can never
// observe partial JSON. Failures are ErrCacheIO.
func (s *Store) Put(fingerprint, summary string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: mkdir: %v", internalerr.ErrCacheIO, err)
	}

	data, err := json.Marshal(entry{Summary: summary})
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", internalerr.ErrCacheIO, fingerprint, err)
	}
	if err := writeFileAtomic(s.path(fingerprint), data); err != nil {
		return fmt.Errorf("%w: write %s: %v", internalerr.ErrCacheIO, fingerprint, err)
	}
	return nil
}

func (s *Store) path(fingerprint string) string {
	return filepath.Join(s.dir, fingerprint+".json")
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp_summary_*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
