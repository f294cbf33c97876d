package extend

import (
	"github.com/exascience/eagler/aligner"
	"github.com/exascience/eagler/fasta"
	"github.com/exascience/eagler/sam"
	"github.com/exascience/eagler/workdir"
)

// Result is the outcome of ExtendContig: the extended contig sequence
// plus the total number of bases added to each side.
type Result struct {
	Contig      []byte
	LeftExtLen  int
	RightExtLen int
}

// ExtendContig runs the outer drop-and-realign loop: harvest, consensus,
// persist the growing contig, gather reads the consensus walk dropped,
// realign them against the new contig, re-harvest, and repeat until
// both sides close, no reads remain to realign, or both re-harvested
// pools hold fewer than minCoverage records. On any error the
// original contig is returned unchanged alongside the error, so a
// batch driver can keep the contig and move on to the next one.
func ExtendContig(
	contigName string,
	contig []byte,
	records []*sam.Alignment,
	table *ReadTable,
	a aligner.Aligner,
	dir *workdir.Dir,
	m Margins,
	minCoverage MinCoverage,
	logger Logger,
) (Result, error) {
	if logger == nil {
		logger = NopLogger{}
	}
	original := contig

	left, right, err := Harvest(records, table, int32(len(contig)), m)
	if err != nil {
		return Result{Contig: original}, err
	}

	tracker := table.NewDropTracker()
	var leftTotal, rightTotal int
	leftClosed, rightClosed := false, false

	for {
		leftExt := ""
		if !leftClosed {
			leftExt = ConsensusMVRealign(left, minCoverage, logger)
		}
		rightExt := ""
		if !rightClosed {
			rightExt = ConsensusMVRealign(right, minCoverage, logger)
		}

		if !leftClosed {
			leftTotal += len(leftExt)
			if leftExt == "" || leftTotal >= m.MaxExt {
				leftClosed = true
			}
		}
		if !rightClosed {
			rightTotal += len(rightExt)
			if rightExt == "" || rightTotal >= m.MaxExt {
				rightClosed = true
			}
		}

		contig = concatExtension(reverseString(leftExt), contig, rightExt)
		logger.Printf("contig %s: left+=%d right+=%d len=%d", contigName, len(leftExt), len(rightExt), len(contig))

		if leftClosed && rightClosed {
			return Result{Contig: contig, LeftExtLen: leftTotal, RightExtLen: rightTotal}, nil
		}

		if err := fasta.WriteSingle(contigName, contig, dir.ContigFasta()); err != nil {
			return Result{Contig: original}, err
		}

		tracker.ResetQueue()
		var dropIDs []int
		left, dropIDs = partitionDropped(left, tracker, dropIDs)
		right, dropIDs = partitionDropped(right, tracker, dropIDs)

		if len(dropIDs) == 0 {
			return Result{Contig: contig, LeftExtLen: leftTotal, RightExtLen: rightTotal}, nil
		}

		ids := make([]string, len(dropIDs))
		seqs := make([][]byte, len(dropIDs))
		for i, id := range dropIDs {
			ids[i] = table.Name(id)
			seqs[i] = []byte(table.Seq(id))
		}
		if err := fasta.WriteMulti(ids, seqs, dir.RealignReadsFasta()); err != nil {
			return Result{Contig: original}, err
		}

		if err := a.Index(dir.ContigFasta()); err != nil {
			return Result{Contig: original}, err
		}
		if err := a.Align(dir.ContigFasta(), dir.RealignReadsFasta(), dir.RealignSAM(), true); err != nil {
			return Result{Contig: original}, err
		}

		input, err := sam.Open(dir.RealignSAM())
		if err != nil {
			return Result{Contig: original}, err
		}
		_, newRecords, err := sam.ReadAll(input)
		if cerr := input.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return Result{Contig: original}, err
		}

		newLeft, newRight, err := Harvest(newRecords, table, int32(len(contig)), m)
		if err != nil {
			return Result{Contig: original}, err
		}
		left = append(left, newLeft...)
		right = append(right, newRight...)

		if len(left) < int(minCoverage) && len(right) < int(minCoverage) {
			return Result{Contig: contig, LeftExtLen: leftTotal, RightExtLen: rightTotal}, nil
		}
	}
}

// partitionDropped splits pool in place into kept (non-dropped)
// records, appending the read id of every dropped record to dropIDs
// exactly once (deduplicated via tracker's per-round bitset). Since the
// left and right pools are disjoint by construction, this is a safe
// in-place filter rather than a copy.
func partitionDropped(pool []*Record, tracker *DropTracker, dropIDs []int) ([]*Record, []int) {
	kept := pool[:0]
	for _, r := range pool {
		if r.Dropped {
			tracker.MarkDropped(r.ReadID)
			if tracker.QueueForRealign(r.ReadID) {
				dropIDs = append(dropIDs, r.ReadID)
			}
			continue
		}
		kept = append(kept, r)
	}
	return kept, dropIDs
}

func concatExtension(left string, contig []byte, right string) []byte {
	out := make([]byte, 0, len(left)+len(contig)+len(right))
	out = append(out, left...)
	out = append(out, contig...)
	out = append(out, right...)
	return out
}

// ExtendContigPOA implements the alternative POA-based consensus path:
// harvest once, collect up to MaxExt characters of each non-empty
// candidate per side, hand each side's sequence list to consensus
// (the poa_consensus(sequences) -> string contract), and return the
// extensions without mutating contig. No drop-and-realign loop runs
// on this path.
func ExtendContigPOA(
	contig []byte,
	records []*sam.Alignment,
	table *ReadTable,
	m Margins,
	consensus func([]string) (string, error),
) (leftExt, rightExt string, err error) {
	left, right, err := Harvest(records, table, int32(len(contig)), m)
	if err != nil {
		return "", "", err
	}

	leftExt, err = consensus(collectSeqs(left, m.MaxExt))
	if err != nil {
		return "", "", err
	}
	leftExt = reverseString(leftExt)

	rightExt, err = consensus(collectSeqs(right, m.MaxExt))
	if err != nil {
		return "", "", err
	}
	return leftExt, rightExt, nil
}

func collectSeqs(pool []*Record, maxExt int) []string {
	var seqs []string
	for _, r := range pool {
		if r.Seq == "" {
			continue
		}
		s := r.Seq
		if len(s) > maxExt {
			s = s[:maxExt]
		}
		seqs = append(seqs, s)
	}
	return seqs
}
