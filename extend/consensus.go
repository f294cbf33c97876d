package extend

import "gonum.org/v1/gonum/stat"

// MinCoverage bundles the coverage thresholds the consensus walk
// checks each iteration.
type MinCoverage int32

// DefaultMinCoverage is the release-configuration default. The
// source's earlier variant used 10; see DESIGN.md for the resolution
// of this discrepancy.
const DefaultMinCoverage MinCoverage = 5

// ConsensusMVSimple performs only the majority-vote tally step of
// ConsensusMVRealign, with no lookahead confirmation and no per-read
// realignment. It is a baseline, not the production path.
func ConsensusMVSimple(pool []*Record, minCoverage MinCoverage) string {
	var out []byte
	for {
		c := Count(pool)
		if c.Coverage < int(minCoverage) {
			break
		}
		out = append(out, IndexToBase[c.Argmax])

		for _, r := range pool {
			if r.Dropped {
				continue
			}
			r.Cursor++
			if r.Cursor >= len(r.Seq) {
				r.Dropped = true
			}
		}
	}
	return string(out)
}

// ConsensusMVRealign walks pool one output base at a time, requiring
// a one-base lookahead to agree with at least 60% of MinCoverage
// before committing a base, and reclassifying every surviving record
// against (b0, b1) each round: match, deletion-in-read, mismatch,
// insertion-in-read, or drop, in that priority order. Coverage and
// argmax are recomputed from scratch every round, so the result does
// not depend on the order records appear in pool (P4).
func ConsensusMVRealign(pool []*Record, minCoverage MinCoverage, logger Logger) string {
	if logger == nil {
		logger = NopLogger{}
	}
	var out []byte
	var coverageHistory []float64
	for round := 0; ; round++ {
		c := Count(pool)
		if c.Coverage < int(minCoverage) {
			break
		}
		b0 := IndexToBase[c.Argmax]

		lookahead := Count(pool, WithFilter(func(base byte) bool { return base == b0 }), WithOffset(1))
		if float64(lookahead.Coverage) < 0.6*float64(minCoverage) {
			break
		}
		b1 := IndexToBase[lookahead.Argmax]

		out = append(out, b0)
		coverageHistory = append(coverageHistory, float64(c.Coverage))

		dropped := 0
		for _, r := range pool {
			if r.Dropped {
				continue
			}
			r.advance(b0, b1)
			if r.Dropped {
				dropped++
			}
		}

		logger.Report(RoundReport{Round: round, Base: b0, Coverage: c.Coverage, Counts: c.Bases, Dropped: dropped})
	}
	if len(coverageHistory) > 0 {
		mean, stddev := stat.MeanStdDev(coverageHistory, nil)
		logger.Printf("consensus done: rounds=%d mean_coverage=%.2f stddev_coverage=%.2f",
			len(coverageHistory), mean, stddev)
	}
	return string(out)
}
