package gameapi

import (
	"time"

	"github.com/matzehuels/wordtower/pkg/geom"
)

// WordsResponse is the player's current inventory and round state, as
// returned by GET /api/words.
type WordsResponse struct {
	MapSize     [3]int   `json:"mapSize"`
	NextTurnSec int      `json:"nextTurnSec"`
	RoundEndsAt string   `json:"roundEndsAt"`
	ShuffleLeft int      `json:"shuffleLeft"`
	Turn        int      `json:"turn"`
	UsedIndexes []int    `json:"usedIndexes"`
	Words       []string `json:"words"`
}

// Volume returns MapSize as a volume.
func (r *WordsResponse) Volume() geom.Volume { return geom.VolumeFromArray(r.MapSize) }

// NextTurn returns the wait before the service accepts the next turn.
func (r *WordsResponse) NextTurn() time.Duration {
	return time.Duration(r.NextTurnSec) * time.Second
}

// PlayerWordsResponse is returned by build and shuffle. It carries the
// refreshed word list only.
type PlayerWordsResponse struct {
	ShuffleLeft int      `json:"shuffleLeft"`
	Words       []string `json:"words"`
}

// WordCommand places one word. Pos is [x, y, z] and Dir is the axis code.
type WordCommand struct {
	ID  int    `json:"id"`
	Dir int    `json:"dir"`
	Pos [3]int `json:"pos"`
}

// BuildRequest adds words to the current tower. Done closes the tower so
// it is scored and a new one can be started.
type BuildRequest struct {
	Done  bool          `json:"done"`
	Words []WordCommand `json:"words"`
}

// TowerWord is a word of a tower as reported by the service.
type TowerWord struct {
	ID   int    `json:"id"`
	Dir  int    `json:"dir"`
	Pos  [3]int `json:"pos"`
	Text string `json:"text"`
}

// PlayerTower is the tower currently under construction.
type PlayerTower struct {
	Score float64     `json:"score"`
	Words []TowerWord `json:"words"`
}

// DoneTower is a finished, scored tower.
type DoneTower struct {
	ID    int     `json:"id"`
	Score float64 `json:"score"`
}

// TowersResponse is returned by GET /api/towers.
type TowersResponse struct {
	DoneTowers []DoneTower  `json:"doneTowers"`
	Score      float64      `json:"score"`
	Tower      *PlayerTower `json:"tower"`
}

// Round is one game round.
type Round struct {
	Name     string `json:"name"`
	StartAt  string `json:"startAt"`
	EndAt    string `json:"endAt"`
	Duration int    `json:"duration"`
	Repeat   int    `json:"repeat"`
	Status   string `json:"status"`
}

// RoundsResponse is returned by GET /api/rounds.
type RoundsResponse struct {
	EventID string  `json:"eventId"`
	Now     string  `json:"now"`
	Rounds  []Round `json:"rounds"`
}

// PublicError is the error body the service sends with 4xx and 5xx
// responses.
type PublicError struct {
	ErrCode int    `json:"errCode"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Text returns whichever message field is set.
func (e PublicError) Text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}
