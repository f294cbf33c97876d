package extend

import (
	"testing"

	"github.com/exascience/eagler/sam"
	"github.com/exascience/eagler/workdir"
)

// fakeAligner simulates an external aligner for the outer
// drop-and-realign loop's tests: Index is a no-op, Align writes a
// header-only SAM file (as if no read realigned against the extended
// contig), and every call is counted.
type fakeAligner struct {
	indexCalls, alignCalls int
}

func (f *fakeAligner) Index(referencePath string) error {
	f.indexCalls++
	return nil
}

func (f *fakeAligner) Align(referencePath, readsPath, samOutPath string, primaryOnly bool) error {
	f.alignCalls++
	output, err := sam.Create(samOutPath)
	if err != nil {
		return err
	}
	if err := sam.WriteAll(output, sam.NewHeader(), nil); err != nil {
		return err
	}
	return output.Close()
}

// TestExtendContigSingleRoundNoDrops covers the common case: every
// record in the harvested pool agrees all the way through, so the
// lookahead check (not the per-record exhaustion check) ends the
// consensus walk and nothing gets queued for realignment. ExtendContig
// must apply the extension and return without touching the aligner.
func TestExtendContigSingleRoundNoDrops(t *testing.T) {
	overhang := "AAAAACCCCCGGGGGTTTTT"
	seq := overhang + "AC"
	aln := mkAln("read1", 0, "20S2M", seq)

	names := make([]string, 10)
	seqs := make([]string, 10)
	records := make([]*sam.Alignment, 10)
	for i := range names {
		names[i] = "read" + string(rune('0'+i))
		seqs[i] = seq
		a := *aln
		a.QNAME = names[i]
		records[i] = &a
	}
	table := NewReadTable(names, seqs)

	dir, err := workdir.New(t.TempDir())
	if err != nil {
		t.Fatalf("workdir.New: %v", err)
	}
	defer dir.Close()

	al := &fakeAligner{}
	contig := []byte("GTGTGTGTGT")
	result, err := ExtendContig("contig1", contig, records, table, al, dir, DefaultMargins, 5, nil)
	if err != nil {
		t.Fatalf("ExtendContig error: %v", err)
	}
	if al.alignCalls != 0 {
		t.Fatalf("aligner should not be invoked: alignCalls=%d", al.alignCalls)
	}
	if result.RightExtLen != 0 {
		t.Fatalf("RightExtLen = %d, want 0 (no right candidates)", result.RightExtLen)
	}
	if len(result.Contig) != len(contig)+result.LeftExtLen {
		t.Fatalf("Contig length = %d, want %d", len(result.Contig), len(contig)+result.LeftExtLen)
	}
	if result.LeftExtLen == 0 {
		t.Fatal("expected a non-empty left extension")
	}
}

// TestExtendContigRealignsDroppedReads forces a drop in the first
// outer round (via a short outlier record mixed with longer agreeing
// ones) and verifies the outer loop indexes and aligns exactly once
// and extends the left side by 21 bases. The fake aligner returns no
// alignments, so the kept records' next consensus walk emits nothing
// and the loop ends with both sides closed.
func TestExtendContigRealignsDroppedReads(t *testing.T) {
	longSeq := "AAAAACCCCCGGGGGTTTTT" + "AC" // 22bp, clip=20, 2bp aligned
	shortSeq := "AT"                          // 1bp clip, 1bp aligned

	var records []*sam.Alignment
	names := []string{"long0", "long1", "long2", "long3", "short0"}
	seqs := []string{longSeq, longSeq, longSeq, longSeq, shortSeq}
	for i, name := range names {
		cigar := "20S2M"
		seq := longSeq
		if name == "short0" {
			cigar = "1S1M"
			seq = shortSeq
		}
		records = append(records, mkAln(name, 0, cigar, seq))
		_ = i
	}
	table := NewReadTable(names, seqs)

	dir, err := workdir.New(t.TempDir())
	if err != nil {
		t.Fatalf("workdir.New: %v", err)
	}
	defer dir.Close()

	al := &fakeAligner{}
	contig := []byte("GGGGGGGGGG")
	result, err := ExtendContig("contig1", contig, records, table, al, dir, DefaultMargins, 4, nil)
	if err != nil {
		t.Fatalf("ExtendContig error: %v", err)
	}
	if al.alignCalls != 1 {
		t.Fatalf("alignCalls = %d, want 1", al.alignCalls)
	}
	if al.indexCalls != 1 {
		t.Fatalf("indexCalls = %d, want 1", al.indexCalls)
	}
	if result.LeftExtLen != 21 {
		t.Fatalf("LeftExtLen = %d, want 21 (the consensus walk never emits the long records' final base)", result.LeftExtLen)
	}
	if len(result.Contig) != len(contig)+21 {
		t.Fatalf("Contig length = %d, want %d", len(result.Contig), len(contig)+21)
	}
}
