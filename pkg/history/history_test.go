package history

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/wordtower/pkg/geom"
)

func openTest(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sub", "history.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestOpenEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestRecordAndRecent(t *testing.T) {
	s, _ := openTest(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	placements := []geom.Placement{
		{WordID: 0, Origin: geom.Coord{X: 5, Y: 5}, Axis: geom.AxisX},
		{WordID: 1, Origin: geom.Coord{X: 6, Y: 5}, Axis: geom.AxisVertical},
	}
	recs := []Record{
		{RunID: "a", Time: base, Turn: 1, Words: []string{"house", "oak"}, Placements: placements, Score: 10, Valid: true, Submitted: true},
		{RunID: "a", Time: base.Add(time.Second), Turn: 2, Words: []string{"x"}, Valid: false, Reason: "Tower must have at least 2 floors"},
		{RunID: "b", Time: base.Add(2 * time.Second), Turn: 1, Score: 4.5, Valid: true},
	}
	for i, r := range recs {
		id, err := s.Record(ctx, r)
		if err != nil {
			t.Fatalf("Record %d: %v", i, err)
		}
		if id != int64(i+1) {
			t.Errorf("Record %d id = %d", i, id)
		}
	}

	got, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 || got[0].RunID != "b" || got[1].Turn != 2 {
		t.Fatalf("Recent(2) = %+v", got)
	}
	if got[1].Reason != "Tower must have at least 2 floors" || got[1].Valid {
		t.Errorf("invalid record = %+v", got[1])
	}

	run, err := s.Run(ctx, "a")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(run) != 2 {
		t.Fatalf("Run(a) = %d records", len(run))
	}
	first := run[0]
	if !first.Time.Equal(base) || !first.Submitted || len(first.Placements) != 2 || first.Placements[1] != placements[1] {
		t.Errorf("first record = %+v", first)
	}
	if strings.Join(first.Words, ",") != "house,oak" {
		t.Errorf("words = %v", first.Words)
	}
}

func TestBest(t *testing.T) {
	s, _ := openTest(t)
	ctx := context.Background()

	if _, ok, err := s.Best(ctx); err != nil || ok {
		t.Fatalf("Best() on empty store = %v, %v", ok, err)
	}

	for _, r := range []Record{
		{RunID: "r", Score: 99, Valid: false},
		{RunID: "r", Score: 12, Valid: true},
		{RunID: "r", Score: 30, Valid: true},
	} {
		if _, err := s.Record(ctx, r); err != nil {
			t.Fatal(err)
		}
	}
	best, ok, err := s.Best(ctx)
	if err != nil || !ok {
		t.Fatalf("Best() = %v, %v", ok, err)
	}
	if best.Score != 30 {
		t.Errorf("Best().Score = %v, want 30", best.Score)
	}
}

func TestPersistsAcrossOpen(t *testing.T) {
	s, path := openTest(t)
	if _, err := s.Record(context.Background(), Record{RunID: "r", Score: 1, Valid: true}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM towers`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("rows = %d, want 1", n)
	}
}

func TestSummary(t *testing.T) {
	r := Record{ID: 3, Time: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), Turn: 7, Score: 22.5, Valid: true, Submitted: true, Words: []string{"foo", "bar"}}
	want := "#3 2025-01-02 03:04:05 turn 7 score 22.50 (valid, sent) foo bar"
	if got := r.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}
