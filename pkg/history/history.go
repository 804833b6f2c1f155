// Package history stores every evaluated tower in a local SQLite
// database so runs can be compared after the fact.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/wordtower/pkg/geom"
)

// Record is one evaluated tower.
type Record struct {
	ID         int64
	RunID      string
	Time       time.Time
	Turn       int
	Words      []string
	Placements []geom.Placement
	Score      float64
	Valid      bool
	Reason     string
	Submitted  bool
}

// Store is a SQLite-backed history. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("history: empty db path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("history: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: %w", err)
	}
	return &Store{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS towers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			recorded_at TEXT NOT NULL,
			turn INTEGER NOT NULL,
			words TEXT NOT NULL,
			placements_json TEXT NOT NULL,
			score REAL NOT NULL,
			valid INTEGER NOT NULL,
			reason TEXT,
			submitted INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_towers_run ON towers(run_id, id);`,
		`CREATE INDEX IF NOT EXISTS idx_towers_score ON towers(valid, score);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Record inserts r and returns its id. A zero Time is set to now.
func (s *Store) Record(ctx context.Context, r Record) (int64, error) {
	if r.Time.IsZero() {
		r.Time = time.Now()
	}
	placements := r.Placements
	if placements == nil {
		placements = []geom.Placement{}
	}
	pj, err := json.Marshal(placements)
	if err != nil {
		return 0, fmt.Errorf("history: encode placements: %w", err)
	}
	words, err := json.Marshal(r.Words)
	if err != nil {
		return 0, fmt.Errorf("history: encode words: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO towers(run_id, recorded_at, turn, words, placements_json, score, valid, reason, submitted)
		 VALUES(?,?,?,?,?,?,?,?,?)`,
		r.RunID, r.Time.UTC().Format(time.RFC3339Nano), r.Turn, string(words), string(pj),
		r.Score, boolInt(r.Valid), nullString(r.Reason), boolInt(r.Submitted))
	if err != nil {
		return 0, fmt.Errorf("history: insert: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, selectTowers+` ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Run returns every record of a run, oldest first.
func (s *Store) Run(ctx context.Context, runID string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, selectTowers+` WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Best returns the highest scoring valid record. The second result is
// false if there is none.
func (s *Store) Best(ctx context.Context) (Record, bool, error) {
	rows, err := s.db.QueryContext(ctx, selectTowers+` WHERE valid = 1 ORDER BY score DESC, id LIMIT 1`)
	if err != nil {
		return Record{}, false, fmt.Errorf("history: query: %w", err)
	}
	defer rows.Close()
	recs, err := scanRecords(rows)
	if err != nil || len(recs) == 0 {
		return Record{}, false, err
	}
	return recs[0], true, nil
}

const selectTowers = `SELECT id, run_id, recorded_at, turn, words, placements_json, score, valid, reason, submitted FROM towers`

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var out []Record
	for rows.Next() {
		var (
			r                Record
			at, words, pj    string
			valid, submitted int
			reason           sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.RunID, &at, &r.Turn, &words, &pj, &r.Score, &valid, &reason, &submitted); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		t, err := time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("history: record %d time: %w", r.ID, err)
		}
		r.Time = t
		if err := json.Unmarshal([]byte(words), &r.Words); err != nil {
			return nil, fmt.Errorf("history: record %d words: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(pj), &r.Placements); err != nil {
			return nil, fmt.Errorf("history: record %d placements: %w", r.ID, err)
		}
		r.Valid = valid != 0
		r.Submitted = submitted != 0
		r.Reason = reason.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// Summary is a short one-line description of r.
func (r Record) Summary() string {
	status := "valid"
	if !r.Valid {
		status = "invalid"
	}
	if r.Submitted {
		status += ", sent"
	}
	return fmt.Sprintf("#%d %s turn %d score %.2f (%s) %s",
		r.ID, r.Time.Format("2006-01-02 15:04:05"), r.Turn, r.Score, status, strings.Join(r.Words, " "))
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
