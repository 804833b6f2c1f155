// Package pkg provides the core libraries for Wordtower.
//
// # Overview
//
// Wordtower plays the DatsWordTower game: it takes a word inventory, grows a
// tower of crossing words floor by floor inside a bounded 3D volume, scores
// it with the game's rules, and submits it. The pkg directory is organized
// into four areas:
//
//  1. Domain logic: [geom], [grid], [builder], [scorer]
//  2. Game service: [gameapi]
//  3. Infrastructure: [cache], [config], [journal], [history], [httputil], [observability]
//  4. Orchestration: [pipeline], [server], [render]
//
// # Architecture
//
// The typical data flow:
//
//	Word inventory (service or file)
//	         ↓
//	    [pipeline] WordSource (cached per source)
//	         ↓
//	    [builder] + [grid] (place words under collision rules)
//	         ↓
//	    [scorer] (validate and score floors)
//	         ↓
//	    [gameapi] build request / [render] artifacts
//
// # Quick Start
//
//	vocab := geom.NewVocabulary([]string{"HOUSE", "OAK", "ARM", "SEA", "EGG"})
//	b, _ := builder.New(vocab, builder.Options{})
//	g := grid.New(30, 30, 100, vocab, geom.Downward)
//	placements := b.Build(g)
//
//	report := scorer.New(geom.Downward).Evaluate(vocab, placements)
//	req := gameapi.BuildRequest{Done: true, Words: gameapi.CommandsFromPlacements(placements)}
//
// Most callers go through [pipeline.Runner], which adds caching, base
// exploration and rendering on top of these steps.
//
// # Main Packages
//
// [geom] - Coordinates, axes, volumes, the word vocabulary, and the vertical
// convention that maps a placement to the cells it occupies.
//
// [grid] - Dense occupancy grid with the collision and clearance rules a new
// word must satisfy.
//
// [builder] - Greedy tower construction: base word, verticals hanging from
// it, and crossing words on lower floors.
//
// [scorer] - Tower validation and per-floor scoring.
//
// [gameapi] - HTTP client for the game service with retries, request schema
// checks, and out-of-bounds error parsing.
//
// [pipeline] - Vocabulary, build, evaluate and render with caching, plus the
// play loop used by the CLI.
//
// [server] - HTTP API exposing build and evaluate.
//
// [render] - Artifact formats. [render/nodelink] draws the crossing graph
// with Graphviz and prints floors as letter grids.
//
// [cache] - File, Redis and null cache backends with key derivation.
//
// [journal] - Zstandard-compressed JSONL journal of service exchanges.
//
// [history] - SQLite store of every evaluated tower.
//
// # Testing
//
//	go test ./pkg/...
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/wordtower/pkg/geom
// [grid]: https://pkg.go.dev/github.com/matzehuels/wordtower/pkg/grid
// [builder]: https://pkg.go.dev/github.com/matzehuels/wordtower/pkg/builder
// [scorer]: https://pkg.go.dev/github.com/matzehuels/wordtower/pkg/scorer
// [gameapi]: https://pkg.go.dev/github.com/matzehuels/wordtower/pkg/gameapi
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/wordtower/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/wordtower/pkg/pipeline#Runner
// [server]: https://pkg.go.dev/github.com/matzehuels/wordtower/pkg/server
// [render]: https://pkg.go.dev/github.com/matzehuels/wordtower/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/wordtower/pkg/render/nodelink
// [cache]: https://pkg.go.dev/github.com/matzehuels/wordtower/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/wordtower/pkg/config
// [journal]: https://pkg.go.dev/github.com/matzehuels/wordtower/pkg/journal
// [history]: https://pkg.go.dev/github.com/matzehuels/wordtower/pkg/history
// [httputil]: https://pkg.go.dev/github.com/matzehuels/wordtower/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/wordtower/pkg/observability
package pkg
