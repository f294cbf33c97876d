package aligner

import (
	"os"
	"os/exec"
	"text/template"

	"github.com/biogo/external"
)

// GraphMap wraps graphmap index / graphmap align, the ONT-side
// counterpart to BWA.
type GraphMap struct {
	// Path to the graphmap binary; defaults to "graphmap" on PATH.
	Path string
}

type graphmapIndexArgs struct {
	Cmd       string `buildarg:"{{if .}}{{.}}{{else}}graphmap{{end}}"`
	Sub       string `buildarg:"{{.}}"`
	Reference string `buildarg:"{{if .}}-r{{split}}{{.}}{{end}}"`
}

type graphmapAlignArgs struct {
	Cmd       string `buildarg:"{{if .}}{{.}}{{else}}graphmap{{end}}"`
	Sub       string `buildarg:"{{.}}"`
	Reference string `buildarg:"{{if .}}-r{{split}}{{.}}{{end}}"`
	Reads     string `buildarg:"{{if .}}-d{{split}}{{.}}{{end}}"`
	AllHits   bool   `buildarg:"{{if .}}-a{{end}}"`
}

func (g *GraphMap) buildCommand(v interface{}) (*exec.Cmd, error) {
	cl, err := external.Build(v, template.FuncMap{})
	if err != nil {
		return nil, err
	}
	return exec.Command(cl[0], cl[1:]...), nil
}

// Index builds a graphmap index for referencePath.
func (g *GraphMap) Index(referencePath string) error {
	cmd, err := g.buildCommand(graphmapIndexArgs{Cmd: g.Path, Sub: "index", Reference: referencePath})
	if err != nil {
		return &AlignerFailed{Aligner: "graphmap", Err: err}
	}
	if err := cmd.Run(); err != nil {
		return &AlignerFailed{Aligner: "graphmap", Command: cmd.Args, Err: err}
	}
	return nil
}

// Align runs graphmap align. primaryOnly maps to omitting -a
// (report-all-hits).
func (g *GraphMap) Align(referencePath, readsPath, samOutPath string, primaryOnly bool) error {
	cmd, err := g.buildCommand(graphmapAlignArgs{
		Cmd:       g.Path,
		Sub:       "align",
		Reference: referencePath,
		Reads:     readsPath,
		AllHits:   !primaryOnly,
	})
	if err != nil {
		return &AlignerFailed{Aligner: "graphmap", Err: err}
	}
	out, err := os.Create(samOutPath)
	if err != nil {
		return err
	}
	defer out.Close()
	cmd.Stdout = out
	if err := cmd.Run(); err != nil {
		return &AlignerFailed{Aligner: "graphmap", Command: cmd.Args, Err: err}
	}
	if _, statErr := os.Stat(samOutPath); statErr != nil {
		return &AlignerFailed{Aligner: "graphmap", Command: cmd.Args, Err: statErr}
	}
	return nil
}
