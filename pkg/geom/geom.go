package geom

import "fmt"

// Coord is a cell position in the tower volume.
// There are no implicit bounds; validity is relative to a grid.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Add returns c translated by d.
func (c Coord) Add(d Coord) Coord {
	return Coord{X: c.X + d.X, Y: c.Y + d.Y, Z: c.Z + d.Z}
}

// Scale returns c with every component multiplied by k.
func (c Coord) Scale(k int) Coord {
	return Coord{X: c.X * k, Y: c.Y * k, Z: c.Z * k}
}

// Array returns the coordinate in the [x, y, z] form used on the wire.
func (c Coord) Array() [3]int { return [3]int{c.X, c.Y, c.Z} }

// CoordFromArray is the inverse of [Coord.Array].
func CoordFromArray(a [3]int) Coord { return Coord{X: a[0], Y: a[1], Z: a[2]} }

func (c Coord) String() string {
	return fmt.Sprintf("[%d %d %d]", c.X, c.Y, c.Z)
}

// Axis is the direction a word's letters run in.
// The numeric values match the direction codes of the game service.
type Axis int

const (
	AxisVertical Axis = 1
	AxisX        Axis = 2
	AxisY        Axis = 3
)

// Valid reports whether a is one of the three placement axes.
func (a Axis) Valid() bool {
	return a == AxisVertical || a == AxisX || a == AxisY
}

// Horizontal reports whether a is AxisX or AxisY.
func (a Axis) Horizontal() bool { return a == AxisX || a == AxisY }

func (a Axis) String() string {
	switch a {
	case AxisVertical:
		return "vertical"
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// ParseAxis converts a name produced by [Axis.String] back into an Axis.
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "vertical", "z":
		return AxisVertical, nil
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	}
	return 0, fmt.Errorf("unknown axis %q", s)
}
