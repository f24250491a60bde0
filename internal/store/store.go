package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"jobhound/internal/logging"
	"jobhound/pkg/models"
)

//go:embed migrations.sql
var migrationsFS embed.FS

// Store tracks which posting identities have been observed before and
// carries the latest score for each. It is the dedup source of truth
// across runs.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Open creates or opens the posting store at path and applies migrations.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("store path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	_, _ = db.Exec("PRAGMA busy_timeout = 5000")
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	s := &Store{db: db, logger: logging.Component("store")}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, string(b))
	return err
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// IsNew reports whether the identity has never been recorded.
func (s *Store) IsNew(ctx context.Context, identity string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM postings WHERE identity = ?`, identity,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// RecordObservation upserts a posting observation. First-seen is preserved
// on re-observation; score and last-seen always reflect the latest run.
func (s *Store) RecordObservation(ctx context.Context, p models.Posting, isNew bool) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO postings(identity, title, company, location, url, source, score, first_seen, last_seen, is_new)
		 VALUES(?,?,?,?,?,?,?,?,?,?)
		 ON CONFLICT(identity) DO UPDATE SET
		   score = excluded.score,
		   last_seen = excluded.last_seen`,
		p.ID, p.Title, p.Company, p.Location, p.URL, p.Source, p.Score, now, now, boolToInt(isNew),
	)
	return err
}

// MarkAllSeen clears the new flag on every record in one statement, so
// concurrent readers never observe a partial transition.
func (s *Store) MarkAllSeen(ctx context.Context) error {
	res, err := s.db.ExecContext(ctx, `UPDATE postings SET is_new = 0 WHERE is_new = 1`)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		s.logger.Debug().Int64("postings", n).Msg("marked seen")
	}
	return nil
}

// NewCount returns how many records are still flagged new.
func (s *Store) NewCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM postings WHERE is_new = 1`).Scan(&n)
	return n, err
}

// Get fetches one record by identity, or nil when absent.
func (s *Store) Get(ctx context.Context, identity string) (*models.SeenRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT identity, title, company, location, url, source, score, first_seen, last_seen, is_new
		 FROM postings WHERE identity = ?`, identity)

	var r models.SeenRecord
	var firstSeen, lastSeen string
	var isNew int
	err := row.Scan(&r.ID, &r.Title, &r.Company, &r.Location, &r.URL, &r.Source, &r.Score, &firstSeen, &lastSeen, &isNew)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.FirstSeen, _ = time.Parse(time.RFC3339, firstSeen)
	r.LastSeen, _ = time.Parse(time.RFC3339, lastSeen)
	r.IsNew = isNew == 1
	return &r, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
