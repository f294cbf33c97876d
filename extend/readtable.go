package extend

import "github.com/willf/bitset"

// ReadTable is the read identity table: a dense read-name-to-id
// mapping built once per batch and shared, read-only, across every
// contig's extension run (including concurrent ones at -workers > 1).
type ReadTable struct {
	ids   map[string]int
	names []string
	seqs  []string
}

// NewReadTable builds a ReadTable from parallel slices of read names
// and sequences, assigning dense ids 0..R-1 in slice order.
func NewReadTable(names []string, seqs []string) *ReadTable {
	t := &ReadTable{
		ids:   make(map[string]int, len(names)),
		names: names,
		seqs:  seqs,
	}
	for i, name := range names {
		t.ids[name] = i
	}
	return t
}

// ID looks up the dense id for a read name. The bool result is false
// if the name was never registered.
func (t *ReadTable) ID(name string) (int, bool) {
	id, ok := t.ids[name]
	return id, ok
}

// Name returns the read name for a dense id.
func (t *ReadTable) Name(id int) string { return t.names[id] }

// Seq returns the full read sequence for a dense id.
func (t *ReadTable) Seq(id int) string { return t.seqs[id] }

// Len returns R, the number of registered reads.
func (t *ReadTable) Len() int { return len(t.names) }

// NewDropTracker allocates a fresh pair of bit vectors sized R for one
// contig's extension run: one for "already emitted to this round's
// realignment FASTA" (dedup), one for "ever dropped" (diagnostics, and
// the basis for property test P1). Each contig gets its own tracker so
// concurrent contig workers never contend over the same bits.
func (t *ReadTable) NewDropTracker() *DropTracker {
	return &DropTracker{
		queued:      bitset.New(uint(len(t.names))),
		everDropped: bitset.New(uint(len(t.names))),
	}
}

// DropTracker is the per-contig, per-run mutable counterpart to
// ReadTable's immutable read identity mapping.
type DropTracker struct {
	queued      *bitset.BitSet
	everDropped *bitset.BitSet
}

// MarkDropped records that a read was dropped by the consensus walk
// at least once.
func (d *DropTracker) MarkDropped(id int) { d.everDropped.Set(uint(id)) }

// EverDropped reports whether a read has ever been dropped.
func (d *DropTracker) EverDropped(id int) bool { return d.everDropped.Test(uint(id)) }

// ResetQueue clears the per-round dedup bitset, called at the start of
// gathering reads for a fresh realignment FASTA.
func (d *DropTracker) ResetQueue() { d.queued.ClearAll() }

// QueueForRealign records that read id has already been added to the
// current round's realignment FASTA, returning true the first time it
// is queued this round and false on any subsequent call.
func (d *DropTracker) QueueForRealign(id int) (first bool) {
	if d.queued.Test(uint(id)) {
		return false
	}
	d.queued.Set(uint(id))
	return true
}
