package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/faideww/fishing-tweaks/internal/fish"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db         *sql.DB
	loadStmt   *sql.Stmt
	eventStmt  *sql.Stmt
	recentStmt *sql.Stmt
	closed     atomic.Bool
}

func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db path: %w", err)
	}

	// DSN notes:
	// - _pragma=busy_timeout sets a lock wait
	// - _pragma=journal_mode(WAL) enables the write-ahead log
	// - _pragma=synchronous(NORMAL) is the recommended pairing with WAL
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", filepath.Clean(dbPath))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.prepare(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) prepare() error {
	var err error
	s.loadStmt, err = s.db.Prepare(`
		SELECT fish_key, counts
		FROM catch_counts
		WHERE player_id = ?
	`)
	if err != nil {
		return err
	}

	s.eventStmt, err = s.db.Prepare(`
		INSERT INTO catch_events (id, player_id, fish, circumstance, delta, recorded_at)
		VALUES (?,?,?,?,?,?)
	`)
	if err != nil {
		return err
	}

	s.recentStmt, err = s.db.Prepare(`
		SELECT id, player_id, fish, circumstance, delta, recorded_at
		FROM catch_events
		WHERE player_id = ? AND fish = ?
		ORDER BY recorded_at DESC, rowid DESC
		LIMIT ?
	`)
	return err
}

func (s *SQLiteStore) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	for _, st := range []*sql.Stmt{s.loadStmt, s.eventStmt, s.recentStmt} {
		if st != nil {
			_ = st.Close()
		}
	}
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS catch_counts (
			player_id  TEXT NOT NULL,
			fish_key   TEXT NOT NULL,
			counts     TEXT NOT NULL,
			PRIMARY KEY (player_id, fish_key)
		);

		CREATE TABLE IF NOT EXISTS catch_events (
			id           TEXT    PRIMARY KEY,
			player_id    TEXT    NOT NULL,
			fish         TEXT    NOT NULL,
			circumstance INTEGER NOT NULL,
			delta        INTEGER NOT NULL,
			recorded_at  INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_events_fish
			ON catch_events (player_id, fish, recorded_at DESC);
	`)
	return err
}

func (s *SQLiteStore) LoadCounts(ctx context.Context, playerId string) (map[string][]int, error) {
	if s == nil || s.db == nil || s.closed.Load() {
		return nil, ErrStoreClosed
	}

	rows, err := s.loadStmt.QueryContext(ctx, playerId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]int)
	for rows.Next() {
		var key, counts string
		if err := rows.Scan(&key, &counts); err != nil {
			return nil, err
		}
		out[key] = decodeCounts(counts)
	}
	return out, rows.Err()
}

// SaveCounts upserts the given counters in one transaction. Keys not in
// counts are left alone; an empty slice deletes its key.
func (s *SQLiteStore) SaveCounts(ctx context.Context, playerId string, counts map[string][]int) error {
	if s == nil || s.db == nil || s.closed.Load() {
		return ErrStoreClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	upsert, err := tx.PrepareContext(ctx, `
		INSERT INTO catch_counts (player_id, fish_key, counts)
		VALUES (?,?,?)
		ON CONFLICT (player_id, fish_key) DO UPDATE SET counts = excluded.counts
	`)
	if err != nil {
		return err
	}
	defer upsert.Close()

	del, err := tx.PrepareContext(ctx, `
		DELETE FROM catch_counts
		WHERE player_id = ? AND fish_key = ?
	`)
	if err != nil {
		return err
	}
	defer del.Close()

	for key, vals := range counts {
		if len(vals) == 0 {
			if _, err := del.ExecContext(ctx, playerId, key); err != nil {
				return fmt.Errorf("delete %q: %w", key, err)
			}
			continue
		}
		if _, err := upsert.ExecContext(ctx, playerId, key, encodeCounts(vals)); err != nil {
			return fmt.Errorf("upsert %q: %w", key, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) AppendEvent(ctx context.Context, e fish.CatchEvent) error {
	if s == nil || s.db == nil || s.closed.Load() {
		return ErrStoreClosed
	}

	if e.Id == "" {
		e.Id = uuid.NewString()
	}
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now()
	}

	_, err := s.eventStmt.ExecContext(ctx,
		e.Id,
		e.PlayerId,
		string(e.Kind),
		int(e.Circumstance),
		e.Delta,
		e.RecordedAt.UnixMilli(),
	)
	return err
}

func (s *SQLiteStore) RecentEvents(ctx context.Context, playerId string, kind fish.Kind, limit int) ([]fish.CatchEvent, error) {
	if s == nil || s.db == nil || s.closed.Load() {
		return nil, ErrStoreClosed
	}

	if limit <= 0 {
		limit = 10
	}

	rows, err := s.recentStmt.QueryContext(ctx, playerId, string(kind), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]fish.CatchEvent, 0, limit)
	for rows.Next() {
		var (
			id, pid, k   string
			circumstance int
			delta        int
			recordedMs   int64
		)
		if err := rows.Scan(&id, &pid, &k, &circumstance, &delta, &recordedMs); err != nil {
			return nil, err
		}

		out = append(out, fish.CatchEvent{
			Id:           id,
			PlayerId:     pid,
			Kind:         fish.Kind(k),
			Circumstance: fish.Circumstance(circumstance),
			Delta:        delta,
			RecordedAt:   time.UnixMilli(recordedMs).UTC(),
		})
	}

	return out, rows.Err()
}
