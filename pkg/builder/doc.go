// Package builder assembles an initial word tower from a vocabulary with a
// greedy, deterministic heuristic.
//
// # Algorithm
//
// A build runs four selection steps against a single [grid.Grid]:
//
//  1. Base: the first unused word of at least [Options.MinBaseLength]
//     letters, laid along the x axis at [Options.Anchor].
//  2. First vertical: the word sharing a letter with the base whose shared
//     letter sits closest to its own start, laid vertically through the
//     base's letter.
//  3. Floor extension: a word crossing the first vertical one floor away
//     from the base, preferring crossings near the word's midpoint.
//  4. Second vertical: as step 2, but at least [Options.MinSeparation]
//     letters away from the first vertical along the base.
//
// Every step commits only if the grid accepts the placement. A rejected step
// is logged and skipped. The build fails (returns no placements) unless at
// least one vertical word was accepted, since a single floor is never a valid
// tower.
//
// # Candidate Ranking
//
// Steps 2-4 are driven by the pure ranking functions [RankVerticals] and
// [RankCrossings], which can be used and tested independently of a grid.
//
// # Usage
//
//	vocab := geom.NewVocabulary(words)
//	b := builder.New(vocab, builder.Options{Logger: logger})
//	g := grid.New(30, 30, 100, vocab, geom.Downward)
//	placements := b.Build(g)
//	if len(placements) == 0 {
//	    // nothing worth submitting
//	}
//
// The builder makes no optimality claim. Callers wanting a better tower can
// run several builds from different bases, each on a fresh grid, and keep
// the best scoring one.
package builder
