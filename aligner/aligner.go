// Package aligner wraps external long-read aligner binaries behind
// the capability interface the consensus extension engine depends on:
// index a reference, then align reads against it and produce a SAM
// file. Concrete implementations shell out to bwa or graphmap the way
// elprep's sam package shells out to samtools (sam.Open).
package aligner

import (
	"fmt"

	"github.com/exascience/eagler/fasta"
)

// ReadType selects which aligner backend is appropriate for a batch
// of reads.
type ReadType int

const (
	PacBio ReadType = iota
	ONT
)

// ParseReadType converts a configuration string to a ReadType.
func ParseReadType(s string) (ReadType, error) {
	switch s {
	case "pacbio", "":
		return PacBio, nil
	case "ont":
		return ONT, nil
	default:
		return 0, fmt.Errorf("unknown read type %q", s)
	}
}

// Aligner is the capability object the engine takes as an explicit
// parameter instead of reaching for a process-wide singleton.
type Aligner interface {
	// Index builds whatever on-disk index the aligner needs for
	// referencePath, a FASTA file.
	Index(referencePath string) error

	// Align aligns the reads in readsPath (FASTA) against the index
	// built for referencePath, writing SAM to samOutPath. When
	// primaryOnly is true, secondary and supplementary alignments are
	// suppressed.
	Align(referencePath, readsPath, samOutPath string, primaryOnly bool) error
}

// AlignContig is a convenience wrapper mirroring aligner.h's
// align(id, contig, reads_filename) overload: it writes contig to a
// scratch FASTA file, indexes it, and aligns readsPath against it.
// Useful for tests and single-shot invocations that do not want to
// manage a persistent reference file.
func AlignContig(a Aligner, scratchDir, contigID string, contig []byte, readsPath, samOutPath string) error {
	contigPath := scratchDir + "/contig.fasta"
	if err := fasta.WriteSingle(contigID, contig, contigPath); err != nil {
		return err
	}
	if err := a.Index(contigPath); err != nil {
		return err
	}
	return a.Align(contigPath, readsPath, samOutPath, true)
}

// AlignerFailed reports a non-zero exit status or a missing output
// file from an aligner subprocess invocation.
type AlignerFailed struct {
	Aligner string
	Command []string
	Err     error
}

func (e *AlignerFailed) Error() string {
	return fmt.Sprintf("%s failed running %v: %v", e.Aligner, e.Command, e.Err)
}

func (e *AlignerFailed) Unwrap() error { return e.Err }
