package extend

import (
	"github.com/exascience/eagler/sam"
)

// Margins bundles the harvester's configurable tolerances. OuterMargin
// must be >= InnerMargin >= 0, and MaxExt must be positive;
// config.Config.Validate enforces this before any contig is
// processed.
type Margins struct {
	OuterMargin int32
	InnerMargin int32
	MaxExt      int
}

// DefaultMargins mirrors the release-configuration defaults.
var DefaultMargins = Margins{OuterMargin: 15, InnerMargin: 5, MaxExt: 1000}

// Harvest scans alignment records for one contig and returns the left
// and right extension pools. table resolves QNAME to a dense read id;
// contigLen is the length of the contig the records were aligned
// against. Records whose QNAME is not registered in table are
// skipped, since the caller only builds ReadTable from the reads it
// intends to feed into the engine.
func Harvest(records []*sam.Alignment, table *ReadTable, contigLen int32, m Margins) (left, right []*Record, err error) {
	for _, aln := range records {
		if aln.IsUnmapped() {
			continue
		}
		readID, known := table.ID(aln.QNAME)
		if !known {
			continue
		}
		ops, cigarErr := sam.ScanCigarString(aln.CIGAR)
		if cigarErr != nil {
			return nil, nil, &InvalidAlignment{QNAME: aln.QNAME, Err: cigarErr}
		}
		if len(ops) == 0 {
			continue
		}
		if err := validateSeqLength(aln, ops); err != nil {
			return nil, nil, err
		}

		if l := leftCandidate(aln, ops, readID, m); l != nil {
			left = append(left, l)
		}
		if r := rightCandidate(aln, ops, readID, contigLen, m); r != nil {
			right = append(right, r)
		}
	}
	return left, right, nil
}

// leftCandidate implements the left-side harvest rule: the record
// must open with a soft clip, its reference start must fall within
// OuterMargin of the contig start, and the clip must actually overhang
// (clip length > beginPos).
func leftCandidate(aln *sam.Alignment, ops []sam.CigarOperation, readID int, m Margins) *Record {
	first := ops[0]
	if first.Operation != 'S' {
		return nil
	}
	beginPos := aln.POS
	clip := first.Length
	if beginPos >= m.OuterMargin || clip <= beginPos {
		return nil
	}

	overhang := int(clip - beginPos)
	if beginPos < m.InnerMargin {
		seq := aln.SEQ
		start := 0
		if overhang > m.MaxExt {
			start = overhang - m.MaxExt
		}
		end := start + m.MaxExt
		if end > len(seq) {
			end = len(seq)
		}
		clipped := seq[start:end]
		return NewRecord(readID, reverseString(clipped))
	}
	return NewDroppedRecord(readID)
}

// rightCandidate implements the right-side harvest rule, mirroring
// leftCandidate off the end of the read and the contig.
func rightCandidate(aln *sam.Alignment, ops []sam.CigarOperation, readID int, contigLen int32, m Margins) *Record {
	last := ops[len(ops)-1]
	if last.Operation != 'S' {
		return nil
	}

	var usedRead, usedRef int32
	for _, op := range ops {
		if ConsumesReadBase(op.Operation) {
			usedRead += op.Length
		}
		if ConsumesReferenceBase(op.Operation) {
			usedRef += op.Length
		}
	}
	rightClip := last.Length
	usedRead -= rightClip

	margin := contigLen - (aln.POS + usedRef)
	length := rightClip - margin

	if margin > m.OuterMargin {
		return nil
	}
	if length <= 0 {
		return nil
	}

	if margin > m.InnerMargin {
		return NewDroppedRecord(readID)
	}

	n := length
	if n > int32(m.MaxExt) {
		n = int32(m.MaxExt)
	}
	start := usedRead + (rightClip - length)
	end := start + n
	return NewRecord(readID, aln.SEQ[start:end])
}

// validateSeqLength catches the "missing SEQ when CIGAR requires it"
// malformed-alignment case; hard-clipped reads (H) truncate SEQ by
// design and are exempt.
func validateSeqLength(aln *sam.Alignment, ops []sam.CigarOperation) error {
	var wantLen int32
	for _, op := range ops {
		if ConsumesReadBase(op.Operation) {
			wantLen += op.Length
		}
	}
	if wantLen == 0 {
		return nil
	}
	if int32(len(aln.SEQ)) != wantLen {
		return &InvalidAlignment{QNAME: aln.QNAME, Err: errSeqCigarMismatch}
	}
	return nil
}

func reverseString(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
