// elPrep: a high-performance tool for analyzing SAM/BAM files.
// Copyright (c) 2017-2020 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/ExaScience/elprep/blob/master/LICENSE.txt>.

// Package cmd implements eagler's command-line driver: loading the
// reference/reads/alignment, fanning contig extension out across
// workers, and reporting phase timings the way elprep's cmd/util.go
// does for its filter pipeline.
package cmd

import (
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/exascience/eagler/extend"
	"github.com/exascience/eagler/utils"
)

// ProgramMessage is the first line printed when the eagler binary is
// called.
var ProgramMessage string

func init() {
	ProgramMessage = fmt.Sprint(
		"\n", utils.ProgramName, " version ", utils.ProgramVersion,
		" compiled with ", runtime.Version(),
		" - see ", utils.ProgramURL, " for more information.\n",
	)
}

// HelpMessage is printed to show the -help flag.
const HelpMessage = "Print command details:\n" +
	"[-help]\n"

// timedRun logs msg, runs f, and logs the elapsed time, mirroring
// elprep's timedRun helper minus the CPU-profiling hook this tool has
// no use for.
func timedRun(logger *log.Logger, msg string, f func() error) error {
	logger.Println(msg)
	start := time.Now()
	err := f()
	logger.Println("Elapsed time:", time.Since(start))
	return err
}

// stdLogger adapts a standard library *log.Logger to extend.Logger.
type stdLogger struct{ *log.Logger }

func (l stdLogger) Report(r extend.RoundReport) {
	l.Printf("round %d: base=%c coverage=%d counts=%v dropped=%d",
		r.Round, r.Base, r.Coverage, r.Counts, r.Dropped)
}

var _ extend.Logger = stdLogger{}
