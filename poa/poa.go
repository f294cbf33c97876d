// Package poa wraps an external partial-order-alignment consensus
// binary behind a poa_consensus(sequences) -> string contract, the
// alternative consensus path that skips drop-and-realign entirely.
package poa

import (
	"bufio"
	"fmt"
	"os/exec"
	"strings"

	"github.com/exascience/eagler/fasta"
)

// External shells out to an abpoa-compatible consensus binary: writes
// sequences to a scratch FASTA, runs the binary, and parses the
// single consensus FASTA record it prints back out. This is grounded
// on the same exec.Command + piped-file subprocess pattern
// sam.Open/aligner.BWA use for samtools and bwa.
type External struct {
	// Path to the poa consensus binary; defaults to "abpoa" on PATH.
	Path string
	// ScratchDir is where the input/output scratch files are written.
	ScratchDir string
}

// Failed reports a non-zero exit status or unparseable output from
// the POA subprocess.
type Failed struct {
	Command []string
	Err     error
}

func (e *Failed) Error() string { return fmt.Sprintf("poa consensus failed running %v: %v", e.Command, e.Err) }
func (e *Failed) Unwrap() error { return e.Err }

// Consensus implements the func([]string) (string, error) contract
// extend.ExtendContigPOA expects. An empty input returns an empty
// consensus without invoking the subprocess.
func (p *External) Consensus(sequences []string) (string, error) {
	if len(sequences) == 0 {
		return "", nil
	}

	path := p.Path
	if path == "" {
		path = "abpoa"
	}
	inPath := p.ScratchDir + "/poa_input.fasta"
	ids := make([]string, len(sequences))
	seqs := make([][]byte, len(sequences))
	for i, s := range sequences {
		ids[i] = fmt.Sprintf("seq%d", i)
		seqs[i] = []byte(s)
	}
	if err := fasta.WriteMulti(ids, seqs, inPath); err != nil {
		return "", err
	}

	cmd := exec.Command(path, "-r", "0", inPath)
	var stdout strings.Builder
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return "", &Failed{Command: cmd.Args, Err: err}
	}

	return parseConsensusFasta(stdout.String())
}

// parseConsensusFasta reads the single-record FASTA a consensus
// binary prints to stdout and returns its sequence.
func parseConsensusFasta(output string) (string, error) {
	scanner := bufio.NewScanner(strings.NewReader(output))
	var seq strings.Builder
	seenHeader := false
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if line[0] == '>' {
			if seenHeader {
				break
			}
			seenHeader = true
			continue
		}
		seq.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	if !seenHeader {
		return "", fmt.Errorf("poa consensus: no FASTA record in output")
	}
	return seq.String(), nil
}
