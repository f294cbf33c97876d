package workdir

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewCreatesUuidSuffixedSubdir(t *testing.T) {
	root := t.TempDir()
	d, err := New(root)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if filepath.Dir(d.Path) != root {
		t.Fatalf("Path = %q, want a direct child of %q", d.Path, root)
	}
	info, err := os.Stat(d.Path)
	if err != nil || !info.IsDir() {
		t.Fatalf("Path %q was not created as a directory: %v", d.Path, err)
	}
}

func TestNewProducesDistinctDirs(t *testing.T) {
	root := t.TempDir()
	d1, err := New(root)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	d2, err := New(root)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if d1.Path == d2.Path {
		t.Fatalf("two calls to New produced the same path %q", d1.Path)
	}
}

func TestScratchFilePaths(t *testing.T) {
	d := &Dir{Path: "/tmp/eagler-scratch/abc"}
	if got, want := d.ContigFasta(), "/tmp/eagler-scratch/abc/extend_contig.fasta"; got != want {
		t.Errorf("ContigFasta() = %q, want %q", got, want)
	}
	if got, want := d.RealignReadsFasta(), "/tmp/eagler-scratch/abc/realign_reads.fasta"; got != want {
		t.Errorf("RealignReadsFasta() = %q, want %q", got, want)
	}
	if got, want := d.RealignSAM(), "/tmp/eagler-scratch/abc/realign.sam"; got != want {
		t.Errorf("RealignSAM() = %q, want %q", got, want)
	}
}

func TestCloseRemovesDir(t *testing.T) {
	root := t.TempDir()
	d, err := New(root)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if _, err := os.Stat(d.Path); !os.IsNotExist(err) {
		t.Fatalf("Path %q should no longer exist after Close", d.Path)
	}
}
