package gameapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	werrors "github.com/matzehuels/wordtower/pkg/errors"
	"github.com/matzehuels/wordtower/pkg/geom"
)

type memRecorder struct {
	mu  sync.Mutex
	all []Exchange
}

func (r *memRecorder) RecordExchange(e Exchange) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = append(r.all, e)
}

func newTestClient(t *testing.T, h http.Handler) (*Client, *memRecorder) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	rec := &memRecorder{}
	c, err := NewClient(Options{
		BaseURL:    srv.URL,
		Token:      "secret",
		Retries:    3,
		RetryDelay: time.Millisecond,
		Logger:     log.New(io.Discard),
		Recorder:   rec,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c, rec
}

func TestNewClientValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code werrors.Code
	}{
		{"no url", Options{Token: "x"}, werrors.ErrCodeInvalidInput},
		{"bad scheme", Options{BaseURL: "ftp://host", Token: "x"}, werrors.ErrCodeInvalidInput},
		{"no token", Options{BaseURL: "https://host"}, werrors.ErrCodeUnauthorized},
		{"token with space", Options{BaseURL: "https://host", Token: "a b"}, werrors.ErrCodeUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.opts)
			if !werrors.Is(err, tt.code) {
				t.Errorf("NewClient() error = %v, want code %s", err, tt.code)
			}
		})
	}

	c, err := NewClient(Options{BaseURL: "https://host/", Token: "x"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if got := c.BaseURL(); got != "https://host" {
		t.Errorf("BaseURL() = %q, want trailing slash trimmed", got)
	}
}

func TestWords(t *testing.T) {
	c, rec := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/words" {
			t.Errorf("got %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get(TokenHeader); got != "secret" {
			t.Errorf("token header = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"mapSize":[30,30,100],"nextTurnSec":2,"roundEndsAt":"2025-01-01T00:00:00Z",
			"shuffleLeft":5,"turn":7,"usedIndexes":[1],"words":["дом","кот"]}`)
	}))

	resp, err := c.Words(context.Background())
	if err != nil {
		t.Fatalf("Words: %v", err)
	}
	if resp.Volume() != (geom.Volume{Width: 30, Depth: 30, Height: 100}) {
		t.Errorf("Volume() = %v", resp.Volume())
	}
	if resp.NextTurn() != 2*time.Second {
		t.Errorf("NextTurn() = %v", resp.NextTurn())
	}
	if len(resp.Words) != 2 || resp.Words[0] != "дом" || resp.Turn != 7 {
		t.Errorf("unexpected response %+v", resp)
	}
	if len(rec.all) != 1 || rec.all[0].Status != http.StatusOK || rec.all[0].Path != "/api/words" {
		t.Errorf("recorded %+v", rec.all)
	}
}

func TestWordsRejectsMalformedResponse(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"mapSize":[30,30],"words":["a"]}`)
	}))
	_, err := c.Words(context.Background())
	if !werrors.Is(err, werrors.ErrCodeGameRejected) {
		t.Errorf("Words() error = %v, want GAME_REJECTED", err)
	}
}

func TestBuild(t *testing.T) {
	var got BuildRequest
	c, rec := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/build" {
			t.Errorf("got %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		io.WriteString(w, `{"shuffleLeft":4,"words":["а","б"]}`)
	}))

	placements := []geom.Placement{
		{WordID: 3, Origin: geom.Coord{X: 5, Y: 5, Z: 0}, Axis: geom.AxisX},
		{WordID: 1, Origin: geom.Coord{X: 6, Y: 5, Z: 0}, Axis: geom.AxisVertical},
	}
	resp, err := c.Build(context.Background(), BuildRequest{Done: true, Words: CommandsFromPlacements(placements)})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if resp.ShuffleLeft != 4 || len(resp.Words) != 2 {
		t.Errorf("unexpected response %+v", resp)
	}
	if !got.Done || len(got.Words) != 2 {
		t.Fatalf("server received %+v", got)
	}
	if got.Words[1] != (WordCommand{ID: 1, Dir: 1, Pos: [3]int{6, 5, 0}}) {
		t.Errorf("second command = %+v", got.Words[1])
	}
	if len(rec.all) != 1 || !strings.Contains(string(rec.all[0].Request), `"done":true`) {
		t.Errorf("recorded request %s", rec.all[0].Request)
	}
}

func TestBuildNilWordsSendsEmptyArray(t *testing.T) {
	var raw string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		raw = string(b)
		io.WriteString(w, `{"shuffleLeft":0,"words":[]}`)
	}))
	if _, err := c.Build(context.Background(), BuildRequest{Done: true}); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if raw != `{"done":true,"words":[]}` {
		t.Errorf("body = %s", raw)
	}
}

func TestBuildRejectsInvalidDirection(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	_, err := c.Build(context.Background(), BuildRequest{Words: []WordCommand{{ID: 1, Dir: 4}}})
	if !werrors.Is(err, werrors.ErrCodeInvalidPlacement) {
		t.Errorf("Build() error = %v, want INVALID_PLACEMENT", err)
	}
	if calls.Load() != 0 {
		t.Errorf("invalid request reached the server")
	}
}

func TestShuffleTowersRounds(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "POST /api/shuffle":
			io.WriteString(w, `{"shuffleLeft":2,"words":["x"]}`)
		case "GET /api/towers":
			io.WriteString(w, `{"doneTowers":[{"id":1,"score":12.5}],"score":12.5,
				"tower":{"score":3,"words":[{"id":2,"dir":2,"pos":[1,2,0],"text":"кот"}]}}`)
		case "GET /api/rounds":
			io.WriteString(w, `{"eventId":"ev","now":"t","rounds":[{"name":"r1","status":"active","duration":60}]}`)
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	ctx := context.Background()

	sh, err := c.Shuffle(ctx)
	if err != nil || sh.ShuffleLeft != 2 {
		t.Errorf("Shuffle() = %+v, %v", sh, err)
	}

	tw, err := c.Towers(ctx)
	if err != nil {
		t.Fatalf("Towers: %v", err)
	}
	if len(tw.DoneTowers) != 1 || tw.DoneTowers[0].Score != 12.5 || tw.Tower == nil {
		t.Fatalf("Towers() = %+v", tw)
	}
	ps, err := PlacementsFromTower(tw.Tower)
	if err != nil || len(ps) != 1 || ps[0].Axis != geom.AxisY || ps[0].Origin != (geom.Coord{X: 1, Y: 2}) {
		t.Errorf("PlacementsFromTower() = %v, %v", ps, err)
	}

	rd, err := c.Rounds(ctx)
	if err != nil || len(rd.Rounds) != 1 || rd.Rounds[0].Name != "r1" {
		t.Errorf("Rounds() = %+v, %v", rd, err)
	}
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   werrors.Code
	}{
		{"unauthorized", 401, `{"errCode":1,"error":"bad token"}`, werrors.ErrCodeUnauthorized},
		{"forbidden", 403, ``, werrors.ErrCodeUnauthorized},
		{"not found", 404, `{"message":"no round"}`, werrors.ErrCodeNotFound},
		{"rejected", 400, `{"errCode":7,"error":"word already used"}`, werrors.ErrCodeGameRejected},
		{"out of bounds", 400, `{"error":"word \"дом\" (id:12) is out of bounds: head:[5 5 0] tail: [5 5 -3]"}`, werrors.ErrCodeOutOfBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			_, err := c.Towers(context.Background())
			if !werrors.Is(err, tt.code) {
				t.Fatalf("error = %v, want code %s", err, tt.code)
			}
			if calls.Load() != 1 {
				t.Errorf("calls = %d, want no retries", calls.Load())
			}
			rej, ok := Rejection(err)
			if !ok || rej.Status != tt.status {
				t.Errorf("Rejection() = %+v, %v", rej, ok)
			}
		})
	}
}

func TestOutOfBoundsRejection(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"word \"дом\" (id:12) is out of bounds: head:[5 5 0] tail: [5 5 -3]"}`)
	}))
	_, err := c.Build(context.Background(), BuildRequest{})
	rej, ok := Rejection(err)
	if !ok || rej.OutOfBounds == nil {
		t.Fatalf("Rejection() = %+v, %v", rej, ok)
	}
	want := OutOfBounds{Word: "дом", ID: 12, Head: geom.Coord{X: 5, Y: 5}, Tail: geom.Coord{X: 5, Y: 5, Z: -3}}
	if *rej.OutOfBounds != want {
		t.Errorf("OutOfBounds = %+v, want %+v", *rej.OutOfBounds, want)
	}
}

func TestRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c, rec := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		io.WriteString(w, `{"eventId":"e","now":"n","rounds":[]}`)
	}))
	if _, err := c.Rounds(context.Background()); err != nil {
		t.Fatalf("Rounds: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
	if len(rec.all) != 3 {
		t.Errorf("recorded %d exchanges, want 3", len(rec.all))
	}
}

func TestRetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	_, err := c.Rounds(context.Background())
	if !werrors.Is(err, werrors.ErrCodeNetwork) {
		t.Errorf("error = %v, want NETWORK_ERROR", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestRateLimited(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		io.WriteString(w, `{"shuffleLeft":1,"words":[]}`)
	}))
	if _, err := c.Shuffle(context.Background()); err != nil {
		t.Fatalf("Shuffle: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	rec := &memRecorder{}
	c, err := NewClient(Options{
		BaseURL: url, Token: "t", Retries: 1,
		Logger: log.New(io.Discard), Recorder: rec,
	})
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.Towers(context.Background())
	if !werrors.Is(err, werrors.ErrCodeNetwork) {
		t.Errorf("error = %v, want NETWORK_ERROR", err)
	}
	if len(rec.all) != 1 || rec.all[0].Err == "" {
		t.Errorf("recorded %+v", rec.all)
	}
}

func TestContextCanceled(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Towers(ctx); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestIsGoAway(t *testing.T) {
	if IsGoAway(nil) {
		t.Error("IsGoAway(nil) = true")
	}
	if !IsGoAway(werrors.New(werrors.ErrCodeNetwork, "http2: server sent GOAWAY and closed the connection")) {
		t.Error("GOAWAY error not detected")
	}
	if IsGoAway(werrors.New(werrors.ErrCodeNetwork, "connection reset")) {
		t.Error("plain network error detected as GOAWAY")
	}
}
