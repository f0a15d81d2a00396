// Package snapshot persists one fetched review set per (app, day), so a
// rerun on the same day reads from disk instead of refetching.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/revlens/revlens/pkg/revlens/internalerr"
	"github.com/revlens/revlens/pkg/revlens/review"
)

// Snapshot is the persisted file format. The shape is shared with existing
// stores; do not rename fields.
type Snapshot struct {
	AppName        string       `json:"app_name"`
	Reviews        []review.Raw `json:"reviews"`
	ReviewCount    int          `json:"review_count"`
	Timestamp      time.Time    `json:"timestamp"`
	RequestedCount int          `json:"requested_count"`
}

// Store reads and writes daily snapshot files under one directory.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore creates a snapshot store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Save writes today's snapshot for an app. An existing same-day snapshot
// that already holds at least as many reviews, or at least the requested
// count, is kept, so a smaller refetch never clobbers a fuller one.
func (s *Store) Save(appName string, reviews []review.Raw, requestedCount int) error {
	path := s.path(appName, s.now())

	if existing, err := s.read(path); err == nil {
		if len(existing.Reviews) >= len(reviews) {
			return nil
		}
		if requestedCount > 0 && len(existing.Reviews) >= requestedCount {
			return nil
		}
	}

	snap := Snapshot{
		AppName:        appName,
		Reviews:        reviews,
		ReviewCount:    len(reviews),
		Timestamp:      s.now(),
		RequestedCount: requestedCount,
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("snapshot encode %s: %w", appName, err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("snapshot mkdir: %w", err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("snapshot write %s: %w", appName, err)
	}
	return nil
}

// Load returns today's snapshot for an app, or ErrNotFound when none was
// taken today.
func (s *Store) Load(appName string) (Snapshot, error) {
	snap, err := s.read(s.path(appName, s.now()))
	if errors.Is(err, fs.ErrNotExist) {
		return Snapshot{}, fmt.Errorf("%w: no snapshot for %s today", internalerr.ErrNotFound, appName)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot read %s: %w", appName, err)
	}
	return snap, nil
}

func (s *Store) read(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func (s *Store) path(appName string, day time.Time) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.json", safeName(appName), day.Format("2006-01-02")))
}

// safeName flattens an app name or package id into a filename slug.
func safeName(appName string) string {
	name := strings.ToLower(appName)
	replacer := strings.NewReplacer(" ", "_", "(", "", ")", "", ".", "")
	return replacer.Replace(name)
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp_snapshot_*.json")
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
