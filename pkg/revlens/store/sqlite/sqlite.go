package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/revlens/revlens/pkg/revlens/review"
	"github.com/revlens/revlens/pkg/revlens/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database with WAL mode enabled and initializes the
// schema.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS reviews (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	app_id TEXT NOT NULL,
	text TEXT NOT NULL,
	date TEXT NOT NULL,
	sentiment REAL NOT NULL,
	rating INTEGER DEFAULT 0,
	engagement INTEGER DEFAULT 0,
	has_reply INTEGER DEFAULT 0,
	reply_date TEXT,
	version TEXT,
	UNIQUE(app_id, date, text)
);

CREATE INDEX IF NOT EXISTS idx_reviews_app_date ON reviews(app_id, date);

CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	app_id TEXT NOT NULL,
	kind TEXT NOT NULL,
	side_a TEXT NOT NULL,
	side_b TEXT NOT NULL,
	created_at TEXT NOT NULL,
	result_json TEXT,
	narrative TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_app ON runs(app_id, created_at);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

const dayFormat = "2006-01-02"

func (s *sqliteStore) UpsertReviews(ctx context.Context, appID string, reviews []review.Review) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO reviews (app_id, text, date, sentiment, rating, engagement, has_reply, reply_date, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(app_id, date, text) DO UPDATE SET
			sentiment=excluded.sentiment,
			rating=excluded.rating,
			engagement=excluded.engagement,
			has_reply=excluded.has_reply,
			reply_date=excluded.reply_date,
			version=excluded.version`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range reviews {
		var replyDate any
		if !r.ReplyDate.IsZero() {
			replyDate = r.ReplyDate.Format(dayFormat)
		}
		if _, err := stmt.ExecContext(ctx,
			appID, r.Text, r.Date.Format(dayFormat), r.Sentiment,
			r.Rating, r.Engagement, boolToInt(r.HasReply), replyDate, r.Version,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *sqliteStore) GetReviews(ctx context.Context, appID string) ([]review.Review, error) {
	return s.queryReviews(ctx, `
		SELECT text, date, sentiment, rating, engagement, has_reply, reply_date, version
		FROM reviews WHERE app_id = ? ORDER BY date, id`, appID)
}

func (s *sqliteStore) GetReviewsByDateRange(ctx context.Context, appID string, start, end time.Time) ([]review.Review, error) {
	return s.queryReviews(ctx, `
		SELECT text, date, sentiment, rating, engagement, has_reply, reply_date, version
		FROM reviews WHERE app_id = ? AND date >= ? AND date <= ? ORDER BY date, id`,
		appID, review.Day(start).Format(dayFormat), review.Day(end).Format(dayFormat))
}

func (s *sqliteStore) CountReviews(ctx context.Context, appID string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reviews WHERE app_id = ?`, appID).Scan(&count)
	return count, err
}

func (s *sqliteStore) queryReviews(ctx context.Context, query string, args ...any) ([]review.Review, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []review.Review
	for rows.Next() {
		var (
			r         review.Review
			date      string
			hasReply  int
			replyDate sql.NullString
			version   sql.NullString
		)
		if err := rows.Scan(&r.Text, &date, &r.Sentiment, &r.Rating, &r.Engagement, &hasReply, &replyDate, &version); err != nil {
			return nil, err
		}
		r.Date, _ = time.ParseInLocation(dayFormat, date, time.UTC)
		r.HasReply = hasReply != 0
		if replyDate.Valid {
			r.ReplyDate, _ = time.ParseInLocation(dayFormat, replyDate.String, time.UTC)
		}
		r.Version = version.String
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, app_id, kind, side_a, side_b, created_at, result_json, narrative)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET result_json=excluded.result_json, narrative=excluded.narrative`,
		r.ID, r.AppID, r.Kind, r.SideA, r.SideB, r.CreatedAt.UTC().Format(time.RFC3339), r.ResultJSON, r.Narrative)
	return err
}

func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, app_id, kind, side_a, side_b, created_at, result_json, narrative
		FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return store.Run{}, false, nil
	}
	if err != nil {
		return store.Run{}, false, err
	}
	return r, true, nil
}

func (s *sqliteStore) ListRuns(ctx context.Context, appID string, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, app_id, kind, side_a, side_b, created_at, result_json, narrative
		FROM runs WHERE app_id = ? ORDER BY created_at DESC LIMIT ?`, appID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (store.Run, error) {
	var (
		r         store.Run
		createdAt string
	)
	if err := row.Scan(&r.ID, &r.AppID, &r.Kind, &r.SideA, &r.SideB, &createdAt, &r.ResultJSON, &r.Narrative); err != nil {
		return store.Run{}, err
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return r, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
