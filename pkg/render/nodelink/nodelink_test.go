package nodelink

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/wordtower/pkg/geom"
)

func sampleTower() (*geom.Vocabulary, []geom.Placement) {
	vocab := geom.NewVocabulary([]string{"HOUSE", "OAK", "SEA", "EGG"})
	return vocab, []geom.Placement{
		{WordID: 0, Origin: geom.Coord{X: 5, Y: 5, Z: 0}, Axis: geom.AxisX},
		{WordID: 1, Origin: geom.Coord{X: 6, Y: 5, Z: 0}, Axis: geom.AxisVertical},
		{WordID: 2, Origin: geom.Coord{X: 4, Y: 5, Z: -1}, Axis: geom.AxisX},
		{WordID: 3, Origin: geom.Coord{X: 9, Y: 5, Z: 0}, Axis: geom.AxisVertical},
	}
}

func TestEdges(t *testing.T) {
	vocab, ps := sampleTower()
	got := Edges(vocab, ps, geom.Downward)
	want := []Edge{
		{From: 0, To: 1, Cell: geom.Coord{X: 6, Y: 5, Z: 0}, Letter: 'O'},
		{From: 0, To: 3, Cell: geom.Coord{X: 9, Y: 5, Z: 0}, Letter: 'E'},
		{From: 1, To: 2, Cell: geom.Coord{X: 6, Y: 5, Z: -1}, Letter: 'A'},
	}
	if len(got) != len(want) {
		t.Fatalf("Edges() = %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("edge %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestToDOT(t *testing.T) {
	vocab, ps := sampleTower()
	dot := ToDOT(vocab, ps, geom.Downward, Options{})

	for _, want := range []string{
		"graph G {",
		`w0 [label="HOUSE", style="rounded,filled,bold", fillcolor=lightyellow];`,
		`w1 [label="OAK", shape=ellipse, fillcolor=lightblue];`,
		`w2 [label="SEA"];`,
		"{ rank=same; w0; }",
		"{ rank=same; w2; }",
		`w0 -- w1 [label="O"];`,
		`w1 -- w2 [label="A"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Index(dot, "rank=same; w0;") > strings.Index(dot, "rank=same; w2;") {
		t.Error("base floor rank should come first")
	}
}

func TestToDOTDetailed(t *testing.T) {
	vocab, ps := sampleTower()
	dot := ToDOT(vocab, ps, geom.Downward, Options{Detailed: true})
	if !strings.Contains(dot, `label="OAK\n#1 [6 5 0] vertical"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
}

func TestToDOTEmpty(t *testing.T) {
	dot := ToDOT(geom.NewVocabulary(nil), nil, geom.Convention{}, Options{})
	if !strings.HasPrefix(dot, "graph G {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("unexpected DOT:\n%s", dot)
	}
}

func TestFloors(t *testing.T) {
	vocab, ps := sampleTower()
	views := Floors(vocab, ps, geom.Downward)
	if len(views) != 3 {
		t.Fatalf("got %d floors, want 3", len(views))
	}
	want := []struct {
		z   int
		row string
	}{
		{0, ".HOUSE"},
		{-1, "SEA..G"},
		{-2, "..K..G"},
	}
	for i, w := range want {
		v := views[i]
		if v.Z != w.z || len(v.Rows) != 1 || v.Rows[0] != w.row {
			t.Errorf("floor %d = z %d rows %q, want z %d row %q", i, v.Z, v.Rows, w.z, w.row)
		}
		if v.Min.X != 4 || v.Min.Y != 5 {
			t.Errorf("floor %d min = %v", i, v.Min)
		}
	}
	if strings.Join(views[1].Words, ",") != "OAK,SEA,EGG" {
		t.Errorf("floor -1 words = %v", views[1].Words)
	}

	out := FormatFloors(views)
	if !strings.HasPrefix(out, "z=0  (x from 4, y from 5)\n.HOUSE\n") {
		t.Errorf("FormatFloors() =\n%s", out)
	}
}

func TestFloorsUpward(t *testing.T) {
	vocab := geom.NewVocabulary([]string{"AB", "BC"})
	ps := []geom.Placement{
		{WordID: 0, Origin: geom.Coord{}, Axis: geom.AxisY},
		{WordID: 1, Origin: geom.Coord{Y: 1}, Axis: geom.AxisVertical},
	}
	views := Floors(vocab, ps, geom.Upward)
	if len(views) != 2 || views[0].Z != 0 || views[1].Z != 1 {
		t.Fatalf("views = %+v", views)
	}
	if strings.Join(views[0].Rows, "|") != "A|B" || strings.Join(views[1].Rows, "|") != ".|C" {
		t.Errorf("rows = %q %q", views[0].Rows, views[1].Rows)
	}
}

func TestFloorsEmpty(t *testing.T) {
	if v := Floors(geom.NewVocabulary(nil), nil, geom.Downward); v != nil {
		t.Errorf("Floors(nil) = %v", v)
	}
}

func TestRenderSVG(t *testing.T) {
	vocab, ps := sampleTower()
	svg, err := RenderSVG(ToDOT(vocab, ps, geom.Downward, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !bytes.Contains(svg, []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `)) {
		t.Errorf("unexpected svg header: %.200s", svg)
	}
	if !bytes.Contains(svg, []byte("HOUSE")) {
		t.Error("svg missing node label")
	}
}

func TestNormalizeViewBoxNoMatch(t *testing.T) {
	in := []byte("<svg></svg>")
	if got := normalizeViewBox(in); !bytes.Equal(got, in) {
		t.Errorf("normalizeViewBox() = %s", got)
	}
}
