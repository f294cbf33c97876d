package extend

// Base indices for the four tallied bases; N and anything else is
// silently excluded from every tally.
const (
	baseA = iota
	baseT
	baseG
	baseC
)

// IndexToBase maps a tally index back to its base letter.
var IndexToBase = [4]byte{'A', 'T', 'G', 'C'}

var baseToIndex = map[byte]int{'A': baseA, 'T': baseT, 'G': baseG, 'C': baseC}

// Counts is the result of tallying one base position across a pool of
// records.
type Counts struct {
	Bases    [4]int
	Coverage int
	Argmax   int
}

// countConfig holds Count's optional filter and offset. countConfig
// mirrors the original bases::count_bases overload set (plain, with a
// filter, with an offset, with both) as a single variadic call rather
// than four separate functions.
type countConfig struct {
	filter func(byte) bool
	offset int
}

// A CountOption configures a single call to Count.
type CountOption func(*countConfig)

// WithFilter restricts Count to records whose base at the *current*
// cursor (not cursor+offset) satisfies filter. This is intentional:
// the filter always evaluates the cursor base regardless of any
// lookahead offset, since it exists to restrict the tally to records
// that already agreed on the base just emitted.
func WithFilter(filter func(byte) bool) CountOption {
	return func(c *countConfig) { c.filter = filter }
}

// WithOffset samples the base at cursor+offset instead of cursor. The
// engine only ever uses offset 0 (the default) or 1 (the one-base
// lookahead).
func WithOffset(offset int) CountOption {
	return func(c *countConfig) { c.offset = offset }
}

// Count tallies the base at each non-dropped record's cursor (plus
// offset, if given), applying filter (if given) against the record's
// unshifted cursor base.
func Count(pool []*Record, opts ...CountOption) Counts {
	var cfg countConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	var counts Counts
	for _, r := range pool {
		if r.Dropped {
			continue
		}
		if r.Cursor+cfg.offset >= len(r.Seq) {
			continue
		}
		if cfg.filter != nil && !cfg.filter(r.Seq[r.Cursor]) {
			continue
		}
		idx, known := baseToIndex[r.Seq[r.Cursor+cfg.offset]]
		if !known {
			continue
		}
		counts.Bases[idx]++
		counts.Coverage++
	}
	counts.Argmax = argmax(counts.Bases)
	return counts
}

// argmax returns the index of the largest element, ties broken by
// lowest index.
func argmax(bases [4]int) int {
	best := 0
	for i := 1; i < len(bases); i++ {
		if bases[i] > bases[best] {
			best = i
		}
	}
	return best
}
