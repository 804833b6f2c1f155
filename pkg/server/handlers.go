package server

import (
	"net/http"

	"github.com/matzehuels/wordtower/pkg/builder"
	werrors "github.com/matzehuels/wordtower/pkg/errors"
	"github.com/matzehuels/wordtower/pkg/gameapi"
	"github.com/matzehuels/wordtower/pkg/geom"
	"github.com/matzehuels/wordtower/pkg/pipeline"
	"github.com/matzehuels/wordtower/pkg/scorer"
)

// BuildTowerRequest is the body of POST /v1/build.
type BuildTowerRequest struct {
	Words        []string        `json:"words"`
	Volume       *[3]int         `json:"volume,omitempty"`
	Used         []int           `json:"used,omitempty"`
	VerticalStep int             `json:"vertical_step,omitempty"`
	Base         *int            `json:"base,omitempty"`
	Explore      bool            `json:"explore,omitempty"`
	Detailed     bool            `json:"detailed,omitempty"`
	Formats      []string        `json:"formats,omitempty"`
	Builder      builder.Options `json:"builder,omitempty"`
}

// BuildTowerResponse is the answer to POST /v1/build. Words holds the
// placements in the game service's wire form.
type BuildTowerResponse struct {
	Words      []gameapi.WordCommand `json:"words"`
	Report     scorer.Report         `json:"report"`
	Bases      int                   `json:"bases"`
	Cached     bool                  `json:"cached"`
	Candidates []CandidateSummary    `json:"candidates,omitempty"`
	Artifacts  map[string]string     `json:"artifacts,omitempty"`
}

// CandidateSummary is one explored base.
type CandidateSummary struct {
	Base  int     `json:"base"`
	Word  string  `json:"word"`
	Valid bool    `json:"valid"`
	Score float64 `json:"score"`
}

// EvaluateTowerRequest is the body of POST /v1/evaluate.
type EvaluateTowerRequest struct {
	Words        []string              `json:"words"`
	Placements   []gameapi.WordCommand `json:"placements"`
	VerticalStep int                   `json:"vertical_step,omitempty"`
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	var req BuildTowerRequest
	if err := readBody(r, buildSchema, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := s.defaults
	opts.Convention = geom.Convention{VerticalStep: req.VerticalStep}
	opts.Base = req.Base
	opts.Explore = req.Explore
	opts.Detailed = req.Detailed
	opts.Formats = req.Formats
	opts.Builder = req.Builder
	opts.Builder.Used = req.Used
	if req.Volume != nil {
		opts.Volume = geom.VolumeFromArray(*req.Volume)
	}

	result, err := s.runner.Execute(r.Context(), pipeline.StaticSource{Words: req.Words}, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := BuildTowerResponse{
		Words:  gameapi.CommandsFromPlacements(result.Placements),
		Report: result.Report,
		Bases:  result.Stats.Bases,
		Cached: result.CacheInfo.BuildHit,
	}
	for _, c := range result.Candidates {
		resp.Candidates = append(resp.Candidates, CandidateSummary{
			Base: c.Base, Word: c.Word, Valid: c.Report.Valid, Score: c.Report.Score,
		})
	}
	if len(result.Artifacts) > 0 {
		resp.Artifacts = make(map[string]string, len(result.Artifacts))
		for format, data := range result.Artifacts {
			resp.Artifacts[format] = string(data)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateTowerRequest
	if err := readBody(r, evaluateSchema, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	placements, err := gameapi.PlacementsFromCommands(req.Placements)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	vocab := geom.NewVocabulary(req.Words)
	for _, p := range placements {
		if !vocab.Has(p.WordID) {
			s.writeError(w, r, werrors.New(werrors.ErrCodeInvalidPlacement,
				"word id %d is outside the %d-word vocabulary", p.WordID, vocab.Size()))
			return
		}
	}

	opts := s.defaults
	opts.Convention = geom.Convention{VerticalStep: req.VerticalStep}
	report, _ := s.runner.Evaluate(r.Context(), vocab, placements, opts)
	writeJSON(w, http.StatusOK, report)
}
