package gameapi

import (
	"fmt"

	werrors "github.com/matzehuels/wordtower/pkg/errors"
	"github.com/matzehuels/wordtower/pkg/geom"
)

// CommandsFromPlacements converts placements to wire commands. The axis
// values already match the service's direction codes.
func CommandsFromPlacements(placements []geom.Placement) []WordCommand {
	out := make([]WordCommand, len(placements))
	for i, p := range placements {
		out[i] = WordCommand{ID: p.WordID, Dir: int(p.Axis), Pos: p.Origin.Array()}
	}
	return out
}

// PlacementsFromCommands converts wire commands back to placements.
// Unknown direction codes are rejected.
func PlacementsFromCommands(cmds []WordCommand) ([]geom.Placement, error) {
	out := make([]geom.Placement, len(cmds))
	for i, c := range cmds {
		axis := geom.Axis(c.Dir)
		if !axis.Valid() {
			return nil, werrors.New(werrors.ErrCodeInvalidPlacement, "word %d: unknown direction %d", c.ID, c.Dir)
		}
		out[i] = geom.Placement{WordID: c.ID, Origin: geom.CoordFromArray(c.Pos), Axis: axis}
	}
	return out, nil
}

// PlacementsFromTower converts the words of a service-side tower.
func PlacementsFromTower(t *PlayerTower) ([]geom.Placement, error) {
	if t == nil {
		return nil, nil
	}
	cmds := make([]WordCommand, len(t.Words))
	for i, w := range t.Words {
		cmds[i] = WordCommand{ID: w.ID, Dir: w.Dir, Pos: w.Pos}
	}
	ps, err := PlacementsFromCommands(cmds)
	if err != nil {
		return nil, fmt.Errorf("tower: %w", err)
	}
	return ps, nil
}
