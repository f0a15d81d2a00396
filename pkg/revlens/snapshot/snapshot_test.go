package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/revlens/revlens/pkg/revlens/internalerr"
	"github.com/revlens/revlens/pkg/revlens/review"
)

func newTestStore(t *testing.T, now time.Time) *Store {
	t.Helper()
	s := NewStore(t.TempDir())
	s.now = func() time.Time { return now }
	return s
}

func rawReviews(n int) []review.Raw {
	out := make([]review.Raw, n)
	for i := range out {
		out[i] = review.Raw{Review: "review", Score: 4}
	}
	return out
}

func TestSaveLoadRoundTrip(t *testing.T) {
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	s := newTestStore(t, now)

	if err := s.Save("My App", rawReviews(3), 200); err != nil {
		t.Fatalf("Save: %v", err)
	}

	snap, err := s.Load("My App")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.AppName != "My App" {
		t.Errorf("AppName = %q", snap.AppName)
	}
	if snap.ReviewCount != 3 || len(snap.Reviews) != 3 {
		t.Errorf("counts = %d / %d reviews", snap.ReviewCount, len(snap.Reviews))
	}
	if snap.RequestedCount != 200 {
		t.Errorf("RequestedCount = %d", snap.RequestedCount)
	}
	if !snap.Timestamp.Equal(now) {
		t.Errorf("Timestamp = %v", snap.Timestamp)
	}
}

func TestLoadMissingIsNotFound(t *testing.T) {
	s := newTestStore(t, time.Now())

	_, err := s.Load("Unknown App")
	if !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSaveKeepsLargerSameDaySnapshot(t *testing.T) {
	now := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	s := newTestStore(t, now)

	if err := s.Save("app", rawReviews(10), 200); err != nil {
		t.Fatal(err)
	}
	// A smaller refetch later the same day must not clobber the fuller set.
	if err := s.Save("app", rawReviews(4), 200); err != nil {
		t.Fatal(err)
	}

	snap, err := s.Load("app")
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Reviews) != 10 {
		t.Errorf("kept %d reviews, want the original 10", len(snap.Reviews))
	}
}

func TestSaveReplacesSmallerSameDaySnapshot(t *testing.T) {
	now := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	s := newTestStore(t, now)

	if err := s.Save("app", rawReviews(4), 200); err != nil {
		t.Fatal(err)
	}
	if err := s.Save("app", rawReviews(10), 200); err != nil {
		t.Fatal(err)
	}

	snap, err := s.Load("app")
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Reviews) != 10 {
		t.Errorf("kept %d reviews, want the fuller 10", len(snap.Reviews))
	}
}

func TestSaveKeepsSnapshotMeetingRequestedCount(t *testing.T) {
	now := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	s := newTestStore(t, now)

	// The existing snapshot already satisfies the requested count, so even a
	// larger refetch is redundant.
	if err := s.Save("app", rawReviews(5), 5); err != nil {
		t.Fatal(err)
	}
	if err := s.Save("app", rawReviews(8), 5); err != nil {
		t.Fatal(err)
	}

	snap, err := s.Load("app")
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Reviews) != 5 {
		t.Errorf("kept %d reviews, want the satisfying 5", len(snap.Reviews))
	}
}

func TestSnapshotsKeyedByDay(t *testing.T) {
	day1 := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	s := NewStore(t.TempDir())
	s.now = func() time.Time { return day1 }
	if err := s.Save("app", rawReviews(3), 10); err != nil {
		t.Fatal(err)
	}

	// The next day has no snapshot even though yesterday's file exists.
	s.now = func() time.Time { return day2 }
	if _, err := s.Load("app"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound on the next day", err)
	}
}

func TestSafeNameFlattening(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"My App (Beta)", "my_app_beta"},
		{"com.example.app", "comexampleapp"},
		{"Plain", "plain"},
	}
	for _, c := range cases {
		if got := safeName(c.in); got != c.want {
			t.Errorf("safeName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSweepRemovesOnlyOldSnapshots(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	s := NewStore(dir)
	s.now = func() time.Time { return now }

	old := filepath.Join(dir, "app_2026-08-10.json")
	fresh := filepath.Join(dir, "app_2026-08-23.json")
	other := filepath.Join(dir, "notes.txt")
	for _, path := range []string{old, fresh, other} {
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	oldTime := now.AddDate(0, 0, -14)
	if err := os.Chtimes(old, oldTime, oldTime); err != nil {
		t.Fatal(err)
	}

	res, err := s.Sweep(time.Duration(DefaultRetentionDays) * 24 * time.Hour)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if res.Scanned != 2 {
		t.Errorf("Scanned = %d, want 2 json files", res.Scanned)
	}
	if res.Removed != 1 {
		t.Errorf("Removed = %d, want 1", res.Removed)
	}

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("old snapshot should be removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("fresh snapshot should remain")
	}
	if _, err := os.Stat(other); err != nil {
		t.Error("non-snapshot file should remain")
	}
}

func TestSweepMissingDir(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "never-created"))

	res, err := s.Sweep(24 * time.Hour)
	if err != nil {
		t.Fatalf("Sweep on missing dir: %v", err)
	}
	if res.Scanned != 0 || res.Removed != 0 {
		t.Errorf("res = %+v, want empty result", res)
	}
}
