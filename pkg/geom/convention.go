package geom

import "fmt"

// Convention fixes the world direction of the vertical axis.
type Convention struct {
	// VerticalStep is the z delta per letter of a vertical word: -1 or +1.
	VerticalStep int `json:"vertical_step" toml:"vertical_step" yaml:"vertical_step"`
}

var (
	// Downward lowers z by one per letter. It is the default convention.
	Downward = Convention{VerticalStep: -1}

	// Upward raises z by one per letter.
	Upward = Convention{VerticalStep: 1}
)

// Validate reports an error unless the vertical step is -1 or +1.
func (c Convention) Validate() error {
	if c.VerticalStep != 1 && c.VerticalStep != -1 {
		return fmt.Errorf("vertical step must be -1 or 1, got %d", c.VerticalStep)
	}
	return nil
}

// OrDefault returns c, or [Downward] if c is the zero value.
func (c Convention) OrDefault() Convention {
	if c.VerticalStep == 0 {
		return Downward
	}
	return c
}

// Step returns the unit offset between successive letters along axis.
// Unknown axes return the zero offset.
func (c Convention) Step(axis Axis) Coord {
	switch axis {
	case AxisX:
		return Coord{X: 1}
	case AxisY:
		return Coord{Y: 1}
	case AxisVertical:
		return Coord{Z: c.OrDefault().VerticalStep}
	}
	return Coord{}
}

// CellAt returns the cell occupied by letter index i of p.
func (c Convention) CellAt(p Placement, i int) Coord {
	return p.Origin.Add(c.Step(p.Axis).Scale(i))
}

// Cells returns the n cells occupied by p, in letter order.
func (c Convention) Cells(p Placement, n int) []Coord {
	if n <= 0 {
		return nil
	}
	cells := make([]Coord, n)
	step := c.Step(p.Axis)
	cur := p.Origin
	for i := range cells {
		cells[i] = cur
		cur = cur.Add(step)
	}
	return cells
}

// Level maps z to its distance from z=0 along the vertical step.
// A grid of height h accepts levels in [0, h).
func (c Convention) Level(z int) int {
	return z * c.OrDefault().VerticalStep
}
