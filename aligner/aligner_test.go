package aligner

import (
	"strings"
	"testing"
)

func TestParseReadType(t *testing.T) {
	cases := map[string]ReadType{"pacbio": PacBio, "": PacBio, "ont": ONT}
	for s, want := range cases {
		got, err := ParseReadType(s)
		if err != nil {
			t.Fatalf("ParseReadType(%q) error: %v", s, err)
		}
		if got != want {
			t.Errorf("ParseReadType(%q) = %v, want %v", s, got, want)
		}
	}
	if _, err := ParseReadType("illumina"); err == nil {
		t.Error("ParseReadType(\"illumina\") should error")
	}
}

func TestBWAIndexCommandLine(t *testing.T) {
	b := &BWA{}
	cmd, err := b.buildCommand(bwaIndexArgs{Cmd: b.Path, Sub: "index", Reference: "ref.fasta"})
	if err != nil {
		t.Fatalf("buildCommand error: %v", err)
	}
	want := []string{"bwa", "index", "ref.fasta"}
	if got := cmd.Args; !equalArgs(got, want) {
		t.Fatalf("args = %v, want %v", got, want)
	}
}

func TestBWAMemCommandLineAllowSuppl(t *testing.T) {
	b := &BWA{}
	cmd, err := b.buildCommand(bwaMemArgs{
		Cmd: b.Path, Sub: "mem", Threads: 4, PacBio: true, AllowSuppl: true,
		Reference: "ref.fasta", Reads: "reads.fasta",
	})
	if err != nil {
		t.Fatalf("buildCommand error: %v", err)
	}
	joined := strings.Join(cmd.Args, " ")
	for _, want := range []string{"bwa", "mem", "-t 4", "-x pacbio", "-Y", "ref.fasta", "reads.fasta"} {
		if !strings.Contains(joined, want) {
			t.Errorf("args %q missing %q", joined, want)
		}
	}
}

func TestBWAMemCommandLinePrimaryOnlyOmitsDashY(t *testing.T) {
	b := &BWA{}
	cmd, err := b.buildCommand(bwaMemArgs{
		Cmd: b.Path, Sub: "mem", AllowSuppl: false, Reference: "ref.fasta", Reads: "reads.fasta",
	})
	if err != nil {
		t.Fatalf("buildCommand error: %v", err)
	}
	for _, arg := range cmd.Args {
		if arg == "-Y" {
			t.Fatalf("args %v should not contain -Y when primaryOnly disables AllowSuppl", cmd.Args)
		}
	}
}

func TestGraphMapAlignCommandLineAllHits(t *testing.T) {
	g := &GraphMap{}
	cmd, err := g.buildCommand(graphmapAlignArgs{
		Cmd: g.Path, Sub: "align", Reference: "ref.fasta", Reads: "reads.fasta", AllHits: true,
	})
	if err != nil {
		t.Fatalf("buildCommand error: %v", err)
	}
	joined := strings.Join(cmd.Args, " ")
	for _, want := range []string{"graphmap", "align", "-r ref.fasta", "-d reads.fasta", "-a"} {
		if !strings.Contains(joined, want) {
			t.Errorf("args %q missing %q", joined, want)
		}
	}
}

func TestAlignerFailedUnwrap(t *testing.T) {
	inner := &AlignerFailed{Aligner: "bwa", Command: []string{"bwa", "mem"}, Err: errTest}
	if inner.Unwrap() != errTest {
		t.Fatal("Unwrap should return the wrapped error")
	}
	if !strings.Contains(inner.Error(), "bwa") {
		t.Fatalf("Error() = %q, want it to mention the aligner name", inner.Error())
	}
}

var errTest = &testErr{"boom"}

type testErr struct{ msg string }

func (e *testErr) Error() string { return e.msg }

func equalArgs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
