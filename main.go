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

// eagler extends assembled contigs past their ends using long reads
// aligned against them, by majority-vote consensus with drop-and-realign
// or by partial-order alignment.
//
// Please see https://github.com/exascience/eagler for documentation.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/exascience/eagler/cmd"
	"github.com/exascience/eagler/config"
)

func main() {
	fmt.Fprintln(os.Stderr, cmd.ProgramMessage)

	fs := flag.NewFlagSet("extend", flag.ExitOnError)
	cfg := config.NewFlagSet(fs)

	if len(os.Args) < 2 {
		log.Println("Incorrect number of parameters.")
		fmt.Fprintln(os.Stderr, cmd.HelpMessage)
		fs.Usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "extend":
		if err := fs.Parse(os.Args[2:]); err != nil {
			log.Fatal(err)
		}
		if err := cmd.RunExtend(cfg); err != nil {
			log.Fatal(err)
		}
	case "help", "-help", "--help", "-h", "--h":
		fmt.Fprintln(os.Stderr, cmd.HelpMessage)
		fs.Usage()
	default:
		log.Println("Unknown command", os.Args[1])
		fmt.Fprintln(os.Stderr, cmd.HelpMessage)
		fs.Usage()
		os.Exit(1)
	}
}
