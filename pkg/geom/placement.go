package geom

import "fmt"

// Placement binds a vocabulary word to an origin and an axis.
// The occupied cells are derived with [Convention.Cells], never stored.
type Placement struct {
	WordID int   `json:"id"`
	Origin Coord `json:"origin"`
	Axis   Axis  `json:"axis"`
}

func (p Placement) String() string {
	return fmt.Sprintf("#%d %s %s", p.WordID, p.Origin, p.Axis)
}

// Vertical reports whether p runs along the vertical axis.
func (p Placement) Vertical() bool { return p.Axis == AxisVertical }
