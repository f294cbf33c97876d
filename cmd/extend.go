package cmd

import (
	"fmt"
	"log"
	"os"
	"sort"
	"sync"

	"github.com/exascience/eagler/aligner"
	"github.com/exascience/eagler/config"
	"github.com/exascience/eagler/extend"
	"github.com/exascience/eagler/fasta"
	"github.com/exascience/eagler/poa"
	"github.com/exascience/eagler/sam"
	"github.com/exascience/eagler/workdir"
)

// newAligner picks the aligner.Aligner implementation named by
// cfg.ResolvedAligner.
func newAligner(cfg *config.Config) (aligner.Aligner, error) {
	switch cfg.ResolvedAligner() {
	case "bwa":
		return &aligner.BWA{}, nil
	case "graphmap":
		return &aligner.GraphMap{}, nil
	default:
		return nil, fmt.Errorf("unknown aligner %q", cfg.Aligner)
	}
}

// RunExtend drives one eagler-extend invocation end to end: load the
// reference, reads and initial alignment, extend every contig — fanned
// out across -workers goroutines, each with its own scratch directory
// so contigs never contend over temporary file paths — and write the
// extended contigs to -out. A contig whose extension fails is reported
// through the returned error but is still written out unchanged, so a
// batch of many contigs can complete even if one is malformed.
func RunExtend(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := log.New(os.Stderr, "eagler: ", log.LstdFlags)
	var engineLogger extend.Logger = extend.NopLogger{}
	if cfg.Verbose {
		engineLogger = stdLogger{logger}
	}

	var reference, reads map[string][]byte
	if err := timedRun(logger, "loading reference "+cfg.Reference, func() (err error) {
		reference, err = fasta.ParseFasta(cfg.Reference, true, true)
		return err
	}); err != nil {
		return err
	}
	if err := timedRun(logger, "loading reads "+cfg.Reads, func() (err error) {
		reads, err = fasta.ParseFasta(cfg.Reads, true, true)
		return err
	}); err != nil {
		return err
	}

	readNames := make([]string, 0, len(reads))
	for name := range reads {
		readNames = append(readNames, name)
	}
	sort.Strings(readNames)
	readSeqs := make([]string, len(readNames))
	for i, name := range readNames {
		readSeqs[i] = string(reads[name])
	}
	table := extend.NewReadTable(readNames, readSeqs)

	var byContig map[string][]*sam.Alignment
	if err := timedRun(logger, "loading alignment "+cfg.Alignment, func() error {
		input, err := sam.Open(cfg.Alignment)
		if err != nil {
			return err
		}
		_, records, err := sam.ReadAll(input)
		if cerr := input.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
		byContig = make(map[string][]*sam.Alignment)
		for _, aln := range records {
			byContig[aln.RNAME] = append(byContig[aln.RNAME], aln)
		}
		return nil
	}); err != nil {
		return err
	}

	al, err := newAligner(cfg)
	if err != nil {
		return err
	}
	margins := cfg.Margins()
	minCoverage := extend.MinCoverage(cfg.MinCoverage)

	names := make([]string, 0, len(reference))
	for name := range reference {
		names = append(names, name)
	}
	sort.Strings(names)

	extended := make(map[string][]byte, len(names))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, cfg.Workers)
	var firstErr error

	for _, name := range names {
		name, contig := name, reference[name]
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			result, err := extendOneContig(cfg, name, contig, byContig[name], table, al, margins, minCoverage, engineLogger)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				wrapped := fmt.Errorf("contig %s: %w", name, err)
				logger.Println(wrapped)
				if firstErr == nil {
					firstErr = wrapped
				}
				extended[name] = contig
				return
			}
			extended[name] = result
		}()
	}
	wg.Wait()

	if err := timedRun(logger, "writing "+cfg.Out, func() error {
		ids := make([]string, len(names))
		seqs := make([][]byte, len(names))
		for i, name := range names {
			ids[i] = name
			seqs[i] = extended[name]
		}
		return fasta.WriteMulti(ids, seqs, cfg.Out)
	}); err != nil {
		return err
	}

	return firstErr
}

// extendOneContig runs either the majority-vote drop-and-realign loop
// or the POA path against a single contig, per -poa.
func extendOneContig(
	cfg *config.Config,
	name string,
	contig []byte,
	records []*sam.Alignment,
	table *extend.ReadTable,
	al aligner.Aligner,
	margins extend.Margins,
	minCoverage extend.MinCoverage,
	logger extend.Logger,
) ([]byte, error) {
	dir, err := workdir.New(cfg.ScratchDir)
	if err != nil {
		return nil, err
	}
	defer dir.Close()

	if cfg.POA {
		consensus := (&poa.External{ScratchDir: dir.Path}).Consensus
		leftExt, rightExt, err := extend.ExtendContigPOA(contig, records, table, margins, consensus)
		if err != nil {
			return nil, err
		}
		out := make([]byte, 0, len(leftExt)+len(contig)+len(rightExt))
		out = append(out, leftExt...)
		out = append(out, contig...)
		out = append(out, rightExt...)
		return out, nil
	}

	result, err := extend.ExtendContig(name, contig, records, table, al, dir, margins, minCoverage, logger)
	if err != nil {
		return nil, err
	}
	return result.Contig, nil
}
