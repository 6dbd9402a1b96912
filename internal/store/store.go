// Package store provides SQLite persistence for player progress.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "modernc.org/sqlite"
)

type Store struct {
	sqldb *sql.DB
	db    *bun.DB
}

// timeLayout is fixed width so updated_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Progress is the last position the player reported for a movie or episode.
type Progress struct {
	bun.BaseModel `bun:"table:progress,alias:p"`

	ID        int64            `bun:"id,pk,autoincrement"`
	Key       string           `bun:"progress_key,notnull"`
	TMDBID    int64            `bun:"tmdb_id,notnull"`
	MediaType string           `bun:"media_type,notnull"`
	Title     sql.Null[string] `bun:"title,nullzero"`
	Season    sql.Null[int64]  `bun:"season,nullzero"`
	Episode   sql.Null[int64]  `bun:"episode,nullzero"`

	// Progress is the played percentage, Position and Duration are seconds.
	Progress float64 `bun:"progress,notnull"`
	Position float64 `bun:"position,notnull"`
	Duration float64 `bun:"duration,notnull"`

	UpdatedAt string `bun:"updated_at,notnull"`
}

// Seconds is the resume position rounded down, as the player expects it.
func (p Progress) Seconds() int {
	if p.Position <= 0 {
		return 0
	}
	return int(p.Position)
}

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("DB_PATH is required")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}

	sqldb, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// modernc sqlite serialises writers; one connection avoids SQLITE_BUSY.
	sqldb.SetMaxOpenConns(1)

	ctx := context.Background()
	if err := sqldb.PingContext(ctx); err != nil {
		if cerr := sqldb.Close(); cerr != nil {
			return nil, fmt.Errorf("ping db: %w; close failed: %w", err, cerr)
		}
		return nil, err
	}

	if err := initSchema(ctx, sqldb); err != nil {
		if cerr := sqldb.Close(); cerr != nil {
			return nil, fmt.Errorf("init schema: %w; close failed: %w", err, cerr)
		}
		return nil, err
	}

	bdb := bun.NewDB(sqldb, sqlitedialect.New())
	return &Store{sqldb: sqldb, db: bdb}, nil
}

func (s *Store) Close() error { return s.sqldb.Close() }

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS progress (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	progress_key TEXT NOT NULL UNIQUE,
	tmdb_id INTEGER NOT NULL,
	media_type TEXT NOT NULL,
	title TEXT,
	season INTEGER,
	episode INTEGER,
	progress REAL NOT NULL DEFAULT 0,
	position REAL NOT NULL DEFAULT 0,
	duration REAL NOT NULL DEFAULT 0,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_progress_updated ON progress(updated_at);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveProgress inserts or replaces the bookmark stored under p.Key.
func (s *Store) SaveProgress(ctx context.Context, p *Progress) error {
	if strings.TrimSpace(p.Key) == "" {
		return errors.New("progress key is required")
	}

	// Copy to avoid mutating caller-owned object.
	row := *p
	row.ID = 0
	row.UpdatedAt = time.Now().UTC().Format(timeLayout)

	_, err := s.db.NewInsert().
		Model(&row).
		Column(
			"progress_key",
			"tmdb_id",
			"media_type",
			"title",
			"season",
			"episode",
			"progress",
			"position",
			"duration",
			"updated_at",
		).
		On("CONFLICT (progress_key) DO UPDATE").
		Set("title = COALESCE(EXCLUDED.title, title)").
		Set("progress = EXCLUDED.progress").
		Set("position = EXCLUDED.position").
		Set("duration = EXCLUDED.duration").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

// GetProgress returns sql.ErrNoRows when nothing is stored under key.
func (s *Store) GetProgress(ctx context.Context, key string) (Progress, error) {
	var p Progress
	err := s.db.NewSelect().
		Model(&p).
		Where("progress_key = ?", key).
		Limit(1).
		Scan(ctx)
	return p, err
}

// ListRecent returns the most recently updated bookmarks first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]Progress, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []Progress
	err := s.db.NewSelect().
		Model(&out).
		OrderExpr("updated_at DESC, id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) DeleteProgress(ctx context.Context, key string) error {
	res, err := s.db.NewDelete().
		Table("progress").
		Where("progress_key = ?", key).
		Exec(ctx)
	if err != nil {
		return err
	}
	return expectRowsAffected(res)
}

func expectRowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
