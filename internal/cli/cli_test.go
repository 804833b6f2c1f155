package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"testing"

	werrors "github.com/matzehuels/wordtower/pkg/errors"
	"github.com/matzehuels/wordtower/pkg/gameapi"
	"github.com/matzehuels/wordtower/pkg/geom"
	"github.com/matzehuels/wordtower/pkg/history"
)

// newTestCLI returns a CLI whose config and data live in temp dirs.
func newTestCLI(t *testing.T) *CLI {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	return New(io.Discard, LogInfo)
}

func writeWords(t *testing.T, words ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.txt")
	data := ""
	for _, w := range words {
		data += w + "\n"
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newTestCLI(t).RootCommand()

	var got []string
	for _, cmd := range root.Commands() {
		got = append(got, cmd.Name())
	}
	sort.Strings(got)

	for _, want := range []string{"build", "cache", "completion", "explore", "history", "inspect", "journal",
		"play", "rounds", "score", "serve", "shuffle", "towers", "words"} {
		if i := sort.SearchStrings(got, want); i >= len(got) || got[i] != want {
			t.Errorf("missing subcommand %q in %v", want, got)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"svg", []string{"svg"}},
		{"SVG, txt ,,json", []string{"svg", "txt", "json"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseVolume(t *testing.T) {
	tests := []struct {
		in      string
		want    geom.Volume
		wantErr bool
	}{
		{"", geom.Volume{}, false},
		{"30x30x100", geom.VolumeFromArray([3]int{30, 30, 100}), false},
		{"8X9X10", geom.VolumeFromArray([3]int{8, 9, 10}), false},
		{"30x30", geom.Volume{}, true},
		{"30xax100", geom.Volume{}, true},
		{"0x30x100", geom.Volume{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseVolume(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseVolume(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWriteArtifacts(t *testing.T) {
	base := filepath.Join(t.TempDir(), "out", "tower.svg")
	paths, err := writeArtifacts(base, map[string][]byte{
		"txt": []byte("floors"),
		"dot": []byte("graph G {}"),
	})
	if err != nil {
		t.Fatalf("writeArtifacts: %v", err)
	}

	dir := filepath.Dir(base)
	want := []string{filepath.Join(dir, "tower.dot"), filepath.Join(dir, "tower.txt")}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}
	data, err := os.ReadFile(want[1])
	if err != nil || string(data) != "floors" {
		t.Errorf("tower.txt = %q, %v", data, err)
	}
}

func TestBuildAndScoreCommands(t *testing.T) {
	c := newTestCLI(t)
	words := writeWords(t, "HOUSE", "OAK", "ARM", "SEA", "EGG")
	out := filepath.Join(t.TempDir(), "tower")

	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetArgs([]string{"build", words, "--no-cache", "-o", out, "-f", "txt,json"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, ext := range []string{".txt", ".json"} {
		if _, err := os.Stat(out + ext); err != nil {
			t.Errorf("missing artifact %s: %v", ext, err)
		}
	}

	root = c.RootCommand()
	root.SetOut(io.Discard)
	root.SetArgs([]string{"score", out + ".json", "--floors"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("score: %v", err)
	}
}

func TestBuildCommandRejectsBadFlags(t *testing.T) {
	words := writeWords(t, "HOUSE", "OAK")
	tests := []struct {
		name string
		args []string
	}{
		{"bad format", []string{"build", words, "--no-cache", "-f", "gif"}},
		{"bad volume", []string{"build", words, "--no-cache", "--volume", "1x2"}},
		{"missing file", []string{"build", filepath.Join(t.TempDir(), "nope.txt"), "--no-cache"}},
		{"no args", []string{"build"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newTestCLI(t).RootCommand()
			root.SetOut(io.Discard)
			root.SetErr(io.Discard)
			root.SetArgs(tt.args)
			if err := root.ExecuteContext(context.Background()); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadTower(t *testing.T) {
	dir := t.TempDir()
	words := writeWords(t, "FOO", "BAR", "ARE", "OAR", "ORE")
	req := gameapi.BuildRequest{Done: true, Words: []gameapi.WordCommand{
		{ID: 0, Dir: 2, Pos: [3]int{0, 0, 0}},
		{ID: 3, Dir: 1, Pos: [3]int{1, 0, 0}},
	}}
	data, _ := json.Marshal(req)
	bare := filepath.Join(dir, "request.json")
	if err := os.WriteFile(bare, data, 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("bare request with words", func(t *testing.T) {
		vocab, placements, err := loadTower(context.Background(), bare, words)
		if err != nil {
			t.Fatalf("loadTower: %v", err)
		}
		if vocab.Size() != 5 || len(placements) != 2 || placements[1].WordID != 3 {
			t.Errorf("vocab %d, placements %+v", vocab.Size(), placements)
		}
	})

	t.Run("bare request without words", func(t *testing.T) {
		_, _, err := loadTower(context.Background(), bare, "")
		if !werrors.Is(err, werrors.ErrCodeInvalidInput) {
			t.Errorf("err = %v, want INVALID_INPUT", err)
		}
	})

	t.Run("id outside word list", func(t *testing.T) {
		short := writeWords(t, "FOO", "BAR")
		_, _, err := loadTower(context.Background(), bare, short)
		if !werrors.Is(err, werrors.ErrCodeInvalidPlacement) {
			t.Errorf("err = %v, want INVALID_PLACEMENT", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := loadTower(context.Background(), filepath.Join(dir, "nope.json"), words)
		if !werrors.Is(err, werrors.ErrCodeNotFound) {
			t.Errorf("err = %v, want NOT_FOUND", err)
		}
	})
}

func TestRecordTower(t *testing.T) {
	rec := history.Record{
		Words: []string{"HOUSE", "OAK"},
		Placements: []geom.Placement{
			{WordID: 17, Axis: geom.AxisX, Origin: geom.Coord{X: 5, Y: 5}},
			{WordID: 42, Axis: geom.AxisVertical, Origin: geom.Coord{X: 6, Y: 5}},
		},
	}
	vocab, placements := recordTower(rec)
	if vocab.Text(0) != "HOUSE" || vocab.Text(1) != "OAK" {
		t.Errorf("vocab = %q, %q", vocab.Text(0), vocab.Text(1))
	}
	if placements[0].WordID != 0 || placements[1].WordID != 1 || placements[1].Origin.X != 6 {
		t.Errorf("placements = %+v", placements)
	}
	if rec.Placements[0].WordID != 17 {
		t.Error("recordTower modified the record")
	}
}

func TestCompletionCommand(t *testing.T) {
	for shell := range shells {
		t.Run(shell, func(t *testing.T) {
			root := newTestCLI(t).RootCommand()
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetArgs([]string{"completion", shell})
			if err := root.Execute(); err != nil {
				t.Fatalf("completion %s: %v", shell, err)
			}
			if !strings.Contains(out.String(), appName) {
				t.Errorf("%s script does not mention %s", shell, appName)
			}
		})
	}

	root := newTestCLI(t).RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"completion", "tcsh"})
	if err := root.Execute(); err == nil {
		t.Error("unsupported shell should fail")
	}
}
