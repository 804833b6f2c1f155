package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/wordtower/pkg/cache"
	werrors "github.com/matzehuels/wordtower/pkg/errors"
	"github.com/matzehuels/wordtower/pkg/gameapi"
	"github.com/matzehuels/wordtower/pkg/geom"
	"github.com/matzehuels/wordtower/pkg/observability"
	"github.com/matzehuels/wordtower/pkg/render"
)

// houseWords builds HOUSE / OAK / SEA / EGG from the default anchor.
var houseWords = []string{"HOUSE", "OAK", "ARM", "SEA", "EGG"}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

// countingSource is a cacheable source that counts fetches.
type countingSource struct {
	words   []string
	fetches int
}

func (s *countingSource) Name() string     { return "counting" }
func (s *countingSource) CacheKey() string { return "counting" }

func (s *countingSource) Fetch(context.Context) (*Inventory, error) {
	s.fetches++
	return &Inventory{Words: s.words, Volume: geom.Volume{Width: 30, Depth: 30, Height: 100}}, nil
}

func testRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, nil)
}

func TestValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Convention != geom.Downward {
		t.Errorf("convention = %+v, want Downward", opts.Convention)
	}
	if opts.Workers <= 0 {
		t.Errorf("workers = %d, want > 0", opts.Workers)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("scale = %v, want %v", opts.Scale, DefaultScale)
	}
	if opts.Logger == nil {
		t.Error("logger should be set")
	}

	tests := []struct {
		name string
		opts Options
	}{
		{"bad convention", Options{Convention: geom.Convention{VerticalStep: 2}}},
		{"bad volume", Options{Volume: geom.Volume{Width: 5000, Depth: 30, Height: 30}}},
		{"bad format", Options{Formats: []string{"gif"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestVolumeFor(t *testing.T) {
	inv := &Inventory{Volume: geom.Volume{Width: 10, Depth: 20, Height: 30}}
	override := geom.Volume{Width: 40, Depth: 40, Height: 40}

	tests := []struct {
		name string
		opts Options
		inv  *Inventory
		want geom.Volume
	}{
		{"options win", Options{Volume: override}, inv, override},
		{"inventory", Options{}, inv, inv.Volume},
		{"default", Options{}, &Inventory{}, DefaultVolume},
		{"nil inventory", Options{}, nil, DefaultVolume},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opts.volumeFor(tt.inv); got != tt.want {
				t.Errorf("volumeFor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseWords(t *testing.T) {
	t.Run("lines", func(t *testing.T) {
		inv, err := ParseWords(".txt", []byte("# inventory\nHOUSE\n\n  OAK \nSEA\n"))
		if err != nil {
			t.Fatalf("ParseWords: %v", err)
		}
		if want := []string{"HOUSE", "OAK", "SEA"}; !slices.Equal(inv.Words, want) {
			t.Errorf("words = %v, want %v", inv.Words, want)
		}
	})

	t.Run("words response", func(t *testing.T) {
		data := `{"mapSize":[20,20,50],"turn":3,"shuffleLeft":2,"usedIndexes":[1],"words":["HOUSE","OAK"]}`
		inv, err := ParseWords(".JSON", []byte(data))
		if err != nil {
			t.Fatalf("ParseWords: %v", err)
		}
		if inv.Volume != (geom.Volume{Width: 20, Depth: 20, Height: 50}) {
			t.Errorf("volume = %v", inv.Volume)
		}
		if inv.Turn != 3 || inv.ShuffleLeft != 2 || !slices.Equal(inv.Used, []int{1}) {
			t.Errorf("inventory = %+v", inv)
		}
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ParseWords(".txt", []byte("# nothing\n"))
		if !werrors.Is(err, werrors.ErrCodeInvalidInput) {
			t.Errorf("err = %v, want INVALID_INPUT", err)
		}
	})

	t.Run("bad json", func(t *testing.T) {
		if _, err := ParseWords(".json", []byte("{")); err == nil {
			t.Error("expected error")
		}
	})
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte(strings.Join(houseWords, "\n")), 0o644); err != nil {
		t.Fatal(err)
	}

	src := FileSource{Path: path}
	if src.Name() != "file:words.txt" {
		t.Errorf("Name() = %q", src.Name())
	}
	inv, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !slices.Equal(inv.Words, houseWords) {
		t.Errorf("words = %v", inv.Words)
	}

	_, err = FileSource{Path: filepath.Join(t.TempDir(), "missing.txt")}.Fetch(context.Background())
	if !werrors.Is(err, werrors.ErrCodeNotFound) {
		t.Errorf("missing file err = %v, want NOT_FOUND", err)
	}
}

func TestStaticSource(t *testing.T) {
	words := []string{"HOUSE", "OAK"}
	inv, err := StaticSource{Words: words}.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	inv.Words[0] = "CHANGED"
	if words[0] != "HOUSE" {
		t.Error("Fetch should copy the word list")
	}
	if _, err := (StaticSource{}).Fetch(context.Background()); err == nil {
		t.Error("empty source should fail")
	}
}

func TestAPISourceKey(t *testing.T) {
	k1 := APISourceKey("https://example.com", "token-a")
	k2 := APISourceKey("https://example.com", "token-b")
	if k1 == k2 {
		t.Error("keys should differ by token")
	}
	if strings.Contains(k1, "token-a") {
		t.Error("key should not contain the token")
	}
}

func TestVocabularyCaching(t *testing.T) {
	ctx := context.Background()
	r := testRunner(newMemCache())
	src := &countingSource{words: houseWords}

	_, hit, err := r.Vocabulary(ctx, src, Options{})
	if err != nil || hit {
		t.Fatalf("first Vocabulary: hit=%v err=%v", hit, err)
	}
	inv, hit, err := r.Vocabulary(ctx, src, Options{})
	if err != nil || !hit {
		t.Fatalf("second Vocabulary: hit=%v err=%v", hit, err)
	}
	if !slices.Equal(inv.Words, houseWords) {
		t.Errorf("cached words = %v", inv.Words)
	}
	if src.fetches != 1 {
		t.Errorf("fetches = %d, want 1", src.fetches)
	}

	if _, hit, _ := r.Vocabulary(ctx, src, Options{Refresh: true}); hit {
		t.Error("refresh should bypass the cache")
	}
	if src.fetches != 2 {
		t.Errorf("fetches = %d, want 2", src.fetches)
	}
}

func TestVocabularyNotCachedForPlainSources(t *testing.T) {
	c := newMemCache()
	r := testRunner(c)
	for range 2 {
		if _, hit, err := r.Vocabulary(context.Background(), StaticSource{Words: houseWords}, Options{}); err != nil || hit {
			t.Fatalf("Vocabulary: hit=%v err=%v", hit, err)
		}
	}
	if c.sets != 0 {
		t.Errorf("cache sets = %d, want 0", c.sets)
	}
}

func TestBuild(t *testing.T) {
	ctx := context.Background()
	r := testRunner(newMemCache())
	inv := &Inventory{Words: houseWords}
	vocab := inv.Vocabulary()

	placements, hit, err := r.Build(ctx, vocab, inv, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if hit {
		t.Error("first build should miss the cache")
	}
	want := []geom.Placement{
		{WordID: 0, Origin: geom.Coord{X: 5, Y: 5, Z: 0}, Axis: geom.AxisX},
		{WordID: 1, Origin: geom.Coord{X: 6, Y: 5, Z: 0}, Axis: geom.AxisVertical},
		{WordID: 3, Origin: geom.Coord{X: 4, Y: 5, Z: -1}, Axis: geom.AxisX},
		{WordID: 4, Origin: geom.Coord{X: 9, Y: 5, Z: 0}, Axis: geom.AxisVertical},
	}
	if !slices.Equal(placements, want) {
		t.Fatalf("Build() =\n%v\nwant\n%v", placements, want)
	}

	again, hit, err := r.Build(ctx, vocab, inv, Options{})
	if err != nil || !hit {
		t.Fatalf("second Build: hit=%v err=%v", hit, err)
	}
	if !slices.Equal(again, want) {
		t.Error("cached build differs")
	}
}

type buildHooks struct {
	observability.NoopPipelineHooks
	mu       sync.Mutex
	started  int
	complete []string
}

func (h *buildHooks) OnBuildStart(context.Context, string, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started++
}

func (h *buildHooks) OnBuildComplete(_ context.Context, base string, _ int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.complete = append(h.complete, base)
}

func TestBuildHooksFireOnCacheHit(t *testing.T) {
	hooks := &buildHooks{}
	observability.SetPipelineHooks(hooks)
	t.Cleanup(observability.Reset)

	ctx := context.Background()
	r := testRunner(newMemCache())
	inv := &Inventory{Words: houseWords}
	vocab := inv.Vocabulary()

	for i := 0; i < 2; i++ {
		if _, _, err := r.Build(ctx, vocab, inv, Options{}); err != nil {
			t.Fatalf("Build %d: %v", i, err)
		}
	}

	if hooks.started != 1 {
		t.Errorf("OnBuildStart fired %d times, want 1 (cached builds do not start)", hooks.started)
	}
	if !slices.Equal(hooks.complete, []string{"HOUSE", "HOUSE"}) {
		t.Errorf("OnBuildComplete bases = %v, want HOUSE twice", hooks.complete)
	}
}

func TestBuildFailures(t *testing.T) {
	ctx := context.Background()
	base := 1

	tests := []struct {
		name  string
		words []string
		opts  Options
		code  werrors.Code
	}{
		{"no base", []string{"OAK", "SEA"}, Options{}, werrors.ErrCodeBuildFailed},
		{"no vertical", []string{"HOUSE", "ZZZ"}, Options{}, werrors.ErrCodeBuildFailed},
		{"unknown base", houseWords, Options{Base: intPtr(99)}, werrors.ErrCodeInvalidInput},
		{"short base", houseWords, Options{Base: &base}, werrors.ErrCodeBuildFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &Inventory{Words: tt.words}
			_, _, err := testRunner(nil).Build(ctx, inv.Vocabulary(), inv, tt.opts)
			if !werrors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestBuildSkipsUsedWords(t *testing.T) {
	inv := &Inventory{Words: houseWords, Used: []int{0}}
	_, _, err := testRunner(nil).Build(context.Background(), inv.Vocabulary(), inv, Options{})
	if !werrors.Is(err, werrors.ErrCodeBuildFailed) {
		t.Errorf("err = %v, want BUILD_FAILED once the only base is used", err)
	}
}

func TestEvaluate(t *testing.T) {
	ctx := context.Background()
	r := testRunner(newMemCache())
	vocab := geom.NewVocabulary([]string{"FOO", "BAR", "ARE", "OAR", "ORE"})
	placements := []geom.Placement{
		{WordID: 0, Origin: geom.Coord{X: 0, Y: 0, Z: 0}, Axis: geom.AxisX},
		{WordID: 1, Origin: geom.Coord{X: 0, Y: 0, Z: -1}, Axis: geom.AxisX},
		{WordID: 2, Origin: geom.Coord{X: 0, Y: 0, Z: -2}, Axis: geom.AxisX},
		{WordID: 3, Origin: geom.Coord{X: 1, Y: 0, Z: 0}, Axis: geom.AxisVertical},
		{WordID: 4, Origin: geom.Coord{X: 2, Y: 0, Z: 0}, Axis: geom.AxisVertical},
	}

	report, hit := r.Evaluate(ctx, vocab, placements, Options{})
	if hit {
		t.Error("first evaluation should miss the cache")
	}
	if !report.Valid {
		t.Fatalf("report invalid: %s", report.InvalidReason)
	}
	if report.Score < 22.49 || report.Score > 22.51 {
		t.Errorf("score = %.2f, want 22.5", report.Score)
	}

	cached, hit := r.Evaluate(ctx, vocab, placements, Options{})
	if !hit || cached.Score != report.Score {
		t.Errorf("second evaluation: hit=%v score=%v", hit, cached.Score)
	}
}

func TestExplore(t *testing.T) {
	ctx := context.Background()
	inv := &Inventory{Words: houseWords}
	ex, err := testRunner(nil).Explore(ctx, inv.Vocabulary(), inv, Options{Workers: 2})

	// HOUSE/OAK/SEA/EGG leaves OAK with a single intersection.
	if !werrors.Is(err, werrors.ErrCodeBuildFailed) {
		t.Fatalf("err = %v, want BUILD_FAILED", err)
	}
	if ex == nil || len(ex.Candidates) != 1 {
		t.Fatalf("exploration = %+v, want one candidate", ex)
	}
	c := ex.Candidates[0]
	if c.Word != "HOUSE" || c.Report.Valid || len(c.Placements) != 4 {
		t.Errorf("candidate = %+v", c)
	}

	_, err = testRunner(nil).Explore(ctx, geom.NewVocabulary([]string{"OAK"}), &Inventory{Words: []string{"OAK"}}, Options{})
	if !werrors.Is(err, werrors.ErrCodeBuildFailed) {
		t.Errorf("err = %v, want BUILD_FAILED without bases", err)
	}
}

func TestSortCandidates(t *testing.T) {
	cs := []Candidate{
		{Base: 3},
		{Base: 2},
		{Base: 1},
		{Base: 0},
	}
	cs[0].Report.Valid, cs[0].Report.Score = true, 10
	cs[1].Report.Valid, cs[1].Report.Score = true, 30
	cs[2].Report.Score = 99
	cs[3].Report.Valid, cs[3].Report.Score = true, 10

	sortCandidates(cs)
	var got []int
	for _, c := range cs {
		got = append(got, c.Base)
	}
	if want := []int{2, 0, 3, 1}; !slices.Equal(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestExecute(t *testing.T) {
	r := testRunner(newMemCache())
	result, err := r.Execute(context.Background(), StaticSource{Words: houseWords}, Options{
		Formats: []string{render.FormatDOT, render.FormatText, render.FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Stats.Words != 5 || result.Stats.Placements != 4 || result.Stats.Bases != 1 {
		t.Errorf("stats = %+v", result.Stats)
	}
	if result.Report.Valid {
		t.Error("HOUSE tower should be invalid")
	}

	if dot := string(result.Artifacts[render.FormatDOT]); !strings.Contains(dot, "graph G") || !strings.Contains(dot, "HOUSE") {
		t.Errorf("dot artifact:\n%s", dot)
	}
	if txt := string(result.Artifacts[render.FormatText]); !strings.Contains(txt, "HOUSE") {
		t.Errorf("txt artifact:\n%s", txt)
	}

	var export Export
	if err := json.Unmarshal(result.Artifacts[render.FormatJSON], &export); err != nil {
		t.Fatalf("decode json artifact: %v", err)
	}
	if !export.Request.Done || len(export.Request.Words) != 4 {
		t.Errorf("export request = %+v", export.Request)
	}
	if export.Request.Words[1] != (gameapi.WordCommand{ID: 1, Dir: 1, Pos: [3]int{6, 5, 0}}) {
		t.Errorf("vertical command = %+v", export.Request.Words[1])
	}
}

func TestExecuteErrors(t *testing.T) {
	r := testRunner(nil)
	if _, err := r.Execute(context.Background(), StaticSource{}, Options{}); err == nil {
		t.Error("empty source should fail")
	}
	if _, err := r.Execute(context.Background(), StaticSource{Words: []string{"OAK"}}, Options{}); !werrors.Is(err, werrors.ErrCodeBuildFailed) {
		t.Errorf("err = %v, want BUILD_FAILED", err)
	}
	if _, err := r.Execute(context.Background(), StaticSource{Words: houseWords}, Options{Formats: []string{"bmp"}}); err == nil {
		t.Error("unknown format should fail")
	}
}

func intPtr(n int) *int { return &n }
