// Package workdir manages per-invocation scratch directories for the
// drop-and-realign loop, so that contig-level parallelism needs no
// cross-worker synchronization over shared temporary file paths.
package workdir

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Dir is a scratch directory scoped to one contig's extension run,
// holding the contig FASTA, the realignment reads FASTA, and the
// realignment SAM output.
type Dir struct {
	Path string
}

// New creates a fresh uuid-suffixed subdirectory of root.
func New(root string) (*Dir, error) {
	path := filepath.Join(root, uuid.New().String())
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, err
	}
	return &Dir{Path: path}, nil
}

// ContigFasta is the scratch path for the partially-extended contig
// (tmp/extend_contig.fasta in the source).
func (d *Dir) ContigFasta() string { return filepath.Join(d.Path, "extend_contig.fasta") }

// RealignReadsFasta is the scratch path for the dropped-reads
// realignment batch (tmp/realign_reads.fasta in the source).
func (d *Dir) RealignReadsFasta() string { return filepath.Join(d.Path, "realign_reads.fasta") }

// RealignSAM is the scratch path for the aligner's output against
// ContigFasta/RealignReadsFasta (tmp/realign.sam in the source).
func (d *Dir) RealignSAM() string { return filepath.Join(d.Path, "realign.sam") }

// Close removes the scratch directory and everything under it.
func (d *Dir) Close() error { return os.RemoveAll(d.Path) }
