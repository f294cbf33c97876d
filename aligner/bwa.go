package aligner

import (
	"os"
	"os/exec"
	"runtime"
	"text/template"

	"github.com/biogo/external"
)

// BWA wraps bwa index / bwa mem -x pacbio, with argument lists built
// from a tagged struct via biogo/external instead of hand-rolled
// fmt.Sprintf.
type BWA struct {
	// Path to the bwa binary; defaults to "bwa" on PATH.
	Path string
}

type bwaIndexArgs struct {
	Cmd       string `buildarg:"{{if .}}{{.}}{{else}}bwa{{end}}"`
	Sub       string `buildarg:"{{.}}"`
	Reference string `buildarg:"{{.}}"`
}

type bwaMemArgs struct {
	Cmd        string `buildarg:"{{if .}}{{.}}{{else}}bwa{{end}}"`
	Sub        string `buildarg:"{{.}}"`
	Threads    int    `buildarg:"{{if .}}-t{{split}}{{.}}{{end}}"`
	PacBio     bool   `buildarg:"{{if .}}-x{{split}}pacbio{{end}}"`
	AllowSuppl bool   `buildarg:"{{if .}}-Y{{end}}"`
	Reference  string `buildarg:"{{.}}"`
	Reads      string `buildarg:"{{.}}"`
}

func (b *BWA) buildCommand(v interface{}) (*exec.Cmd, error) {
	cl, err := external.Build(v, template.FuncMap{})
	if err != nil {
		return nil, err
	}
	return exec.Command(cl[0], cl[1:]...), nil
}

// Index builds a bwa index for referencePath, discarding bwa's
// progress chatter the same way bwa_index redirects stderr to
// /dev/null in the source.
func (b *BWA) Index(referencePath string) error {
	cmd, err := b.buildCommand(bwaIndexArgs{Cmd: b.Path, Sub: "index", Reference: referencePath})
	if err != nil {
		return &AlignerFailed{Aligner: "bwa", Err: err}
	}
	if err := cmd.Run(); err != nil {
		return &AlignerFailed{Aligner: "bwa", Command: cmd.Args, Err: err}
	}
	return nil
}

// Align runs bwa mem -x pacbio, writing SAM output to samOutPath.
func (b *BWA) Align(referencePath, readsPath, samOutPath string, primaryOnly bool) error {
	cmd, err := b.buildCommand(bwaMemArgs{
		Cmd:        b.Path,
		Sub:        "mem",
		Threads:    runtime.GOMAXPROCS(0),
		PacBio:     true,
		AllowSuppl: !primaryOnly,
		Reference:  referencePath,
		Reads:      readsPath,
	})
	if err != nil {
		return &AlignerFailed{Aligner: "bwa", Err: err}
	}
	out, err := os.Create(samOutPath)
	if err != nil {
		return err
	}
	defer out.Close()
	cmd.Stdout = out
	if err := cmd.Run(); err != nil {
		return &AlignerFailed{Aligner: "bwa", Command: cmd.Args, Err: err}
	}
	if _, statErr := os.Stat(samOutPath); statErr != nil {
		return &AlignerFailed{Aligner: "bwa", Command: cmd.Args, Err: statErr}
	}
	return nil
}
