// Package geom defines the shared vocabulary of the word tower: coordinates,
// placement axes, placements and the word list they reference.
//
// # Overview
//
// A tower is a set of words laid out in a discrete 3D volume. Each word runs
// along exactly one [Axis], starting at an origin [Coord] and stepping one
// cell per letter. The words themselves live in a [Vocabulary]; placements
// only reference them by integer id, so the same vocabulary can back many
// candidate towers without copying letters around.
//
// # Vertical Convention
//
// The two horizontal axes always step by +1. The vertical axis steps by the
// [Convention.VerticalStep] of the caller's choosing. [Downward] (the default)
// lowers z by one per letter, so a vertical word anchored at z=0 reaches the
// floor at z=-1 with its second letter. [Upward] raises z instead.
//
// Floors are identified by the z-coordinate of the letters that touch them,
// whatever the convention.
//
// # Usage
//
//	vocab := geom.NewVocabulary([]string{"BASE", "LEG", "BL"})
//	p := geom.Placement{WordID: 2, Origin: geom.Coord{}, Axis: geom.AxisVertical}
//	cells := geom.Downward.Cells(p, vocab.Len(p.WordID))
//	// cells: (0,0,0) (0,0,-1)
package geom
