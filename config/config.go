// Package config defines eagler's command-line configuration surface,
// flag-wired the way elprep's cmd package wires its filter/merge/split
// commands.
package config

import (
	"flag"

	"github.com/exascience/eagler/extend"
)

// Config holds every flag the extend command accepts.
type Config struct {
	Reference string
	Reads     string
	Alignment string
	Out       string

	ReadType string
	Aligner  string

	MaxExt      int
	InnerMargin int
	OuterMargin int
	MinCoverage int

	POA        bool
	ScratchDir string
	Workers    int
	Verbose    bool
}

// NewFlagSet registers Config's fields on fs and returns a Config
// whose fields are populated once fs.Parse is called.
func NewFlagSet(fs *flag.FlagSet) *Config {
	c := &Config{}
	fs.StringVar(&c.Reference, "reference", "", "reference contigs, FASTA (required)")
	fs.StringVar(&c.Reads, "reads", "", "long reads, FASTA (required)")
	fs.StringVar(&c.Alignment, "alignment", "", "initial alignment of reads to contigs, SAM (required)")
	fs.StringVar(&c.Out, "out", "", "output FASTA path")
	fs.StringVar(&c.ReadType, "read-type", "pacbio", "read technology: pacbio or ont")
	fs.StringVar(&c.Aligner, "aligner", "", "aligner backend: bwa or graphmap (default depends on -read-type)")
	fs.IntVar(&c.MaxExt, "max-ext", extend.DefaultMargins.MaxExt, "per-side upper bound on extension length")
	fs.IntVar(&c.InnerMargin, "inner-margin", int(extend.DefaultMargins.InnerMargin), "tolerance for \"adjacent to contig end\"")
	fs.IntVar(&c.OuterMargin, "outer-margin", int(extend.DefaultMargins.OuterMargin), "tolerance for \"near contig end\"")
	fs.IntVar(&c.MinCoverage, "min-coverage", int(extend.DefaultMinCoverage), "minimum non-dropped records to continue consensus")
	fs.BoolVar(&c.POA, "poa", false, "use the POA consensus path instead of the majority-vote drop-and-realign loop")
	fs.StringVar(&c.ScratchDir, "scratch-dir", "eagler-scratch", "per-invocation scratch directory root")
	fs.IntVar(&c.Workers, "workers", 1, "contig-level fan-out width")
	fs.BoolVar(&c.Verbose, "v", false, "log per-round consensus progress")
	return c
}

// Validate implements the "invalid configuration" error kind: a
// missing required path, a non-positive MaxExt or MinCoverage, a
// negative margin, or OuterMargin < InnerMargin all fail fast, before
// any contig is processed.
func (c *Config) Validate() error {
	if c.Reference == "" {
		return &extend.InvalidConfiguration{Field: "reference", Reason: "required"}
	}
	if c.Reads == "" {
		return &extend.InvalidConfiguration{Field: "reads", Reason: "required"}
	}
	if c.Alignment == "" {
		return &extend.InvalidConfiguration{Field: "alignment", Reason: "required"}
	}
	if c.Out == "" {
		return &extend.InvalidConfiguration{Field: "out", Reason: "required"}
	}
	if c.MaxExt <= 0 {
		return &extend.InvalidConfiguration{Field: "max-ext", Reason: "must be positive"}
	}
	if c.MinCoverage <= 0 {
		return &extend.InvalidConfiguration{Field: "min-coverage", Reason: "must be positive"}
	}
	if c.InnerMargin < 0 {
		return &extend.InvalidConfiguration{Field: "inner-margin", Reason: "must be non-negative"}
	}
	if c.OuterMargin < 0 {
		return &extend.InvalidConfiguration{Field: "outer-margin", Reason: "must be non-negative"}
	}
	if c.OuterMargin < c.InnerMargin {
		return &extend.InvalidConfiguration{Field: "outer-margin", Reason: "must be >= inner-margin"}
	}
	switch c.ReadType {
	case "pacbio", "ont":
	default:
		return &extend.InvalidConfiguration{Field: "read-type", Reason: "must be pacbio or ont"}
	}
	switch c.Aligner {
	case "", "bwa", "graphmap":
	default:
		return &extend.InvalidConfiguration{Field: "aligner", Reason: "must be bwa or graphmap"}
	}
	if c.Workers <= 0 {
		return &extend.InvalidConfiguration{Field: "workers", Reason: "must be positive"}
	}
	return nil
}

// Margins converts the validated flag values into extend.Margins.
func (c *Config) Margins() extend.Margins {
	return extend.Margins{
		OuterMargin: int32(c.OuterMargin),
		InnerMargin: int32(c.InnerMargin),
		MaxExt:      c.MaxExt,
	}
}

// ResolvedAligner returns the aligner backend name, applying the
// read-type-dependent default (bwa for pacbio, graphmap for ont) when
// -aligner was left unset.
func (c *Config) ResolvedAligner() string {
	if c.Aligner != "" {
		return c.Aligner
	}
	if c.ReadType == "ont" {
		return "graphmap"
	}
	return "bwa"
}
