package gameapi

import (
	"testing"

	werrors "github.com/matzehuels/wordtower/pkg/errors"
	"github.com/matzehuels/wordtower/pkg/geom"
)

func TestCommandsRoundTrip(t *testing.T) {
	placements := []geom.Placement{
		{WordID: 0, Origin: geom.Coord{X: 5, Y: 5, Z: 0}, Axis: geom.AxisX},
		{WordID: 4, Origin: geom.Coord{X: 6, Y: 5, Z: 0}, Axis: geom.AxisVertical},
		{WordID: 2, Origin: geom.Coord{X: 6, Y: 3, Z: -2}, Axis: geom.AxisY},
	}
	cmds := CommandsFromPlacements(placements)
	wantDirs := []int{2, 1, 3}
	for i, c := range cmds {
		if c.Dir != wantDirs[i] {
			t.Errorf("cmds[%d].Dir = %d, want %d", i, c.Dir, wantDirs[i])
		}
	}
	back, err := PlacementsFromCommands(cmds)
	if err != nil {
		t.Fatalf("PlacementsFromCommands: %v", err)
	}
	for i := range placements {
		if back[i] != placements[i] {
			t.Errorf("back[%d] = %v, want %v", i, back[i], placements[i])
		}
	}
}

func TestPlacementsFromCommandsUnknownDir(t *testing.T) {
	_, err := PlacementsFromCommands([]WordCommand{{ID: 1, Dir: 9}})
	if !werrors.Is(err, werrors.ErrCodeInvalidPlacement) {
		t.Errorf("error = %v, want INVALID_PLACEMENT", err)
	}
}

func TestPlacementsFromNilTower(t *testing.T) {
	ps, err := PlacementsFromTower(nil)
	if err != nil || ps != nil {
		t.Errorf("PlacementsFromTower(nil) = %v, %v", ps, err)
	}
}
