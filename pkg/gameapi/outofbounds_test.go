package gameapi

import (
	"testing"

	"github.com/matzehuels/wordtower/pkg/geom"
)

func TestParseOutOfBounds(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want OutOfBounds
		ok   bool
	}{
		{
			name: "vertical below floor",
			msg:  `word "дом" (id:12) is out of bounds: head:[5 5 0] tail: [5 5 -3]`,
			want: OutOfBounds{Word: "дом", ID: 12, Head: geom.Coord{X: 5, Y: 5}, Tail: geom.Coord{X: 5, Y: 5, Z: -3}},
			ok:   true,
		},
		{
			name: "comma separated",
			msg:  `build failed: word "tree" (id:0) out of map head:[28,1,0] tail: [31,1,0]`,
			want: OutOfBounds{Word: "tree", ID: 0, Head: geom.Coord{X: 28, Y: 1}, Tail: geom.Coord{X: 31, Y: 1}},
			ok:   true,
		},
		{name: "no coordinates", msg: `word "дом" (id:12) is out of bounds`},
		{name: "no word", msg: `head:[5 5 0] tail: [5 5 -3]`},
		{name: "short coordinate", msg: `word "a" (id:1) head:[5 5] tail: [5 5 -3]`},
		{name: "empty", msg: ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseOutOfBounds(tt.msg)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("ParseOutOfBounds() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestOutOfBoundsLength(t *testing.T) {
	o := OutOfBounds{Word: "дом"}
	if o.Length() != 3 {
		t.Errorf("Length() = %d, want 3", o.Length())
	}
}
