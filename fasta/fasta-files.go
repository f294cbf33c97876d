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

// Package fasta implements the FASTA I/O primitives the contig
// extension engine treats as an external collaborator: parsing
// reference/read FASTA files, and writing single- and multi-record
// FASTA files for the aligner and POA subprocesses.
package fasta

import (
	"bufio"
	"fmt"
	"os"
	"unicode"

	"github.com/exascience/eagler/internal"
	"github.com/exascience/eagler/utils"
)

func contigFromHeader(b []byte) string {
	i := 1
	for ; i < len(b); i++ {
		if c := b[i]; c >= '!' && c <= '~' {
			break
		}
	}
	j := i + 1
	for ; j < len(b); j++ {
		if c := b[j]; c < '!' || c > '~' {
			break
		}
	}
	return string(b[i:j])
}

var iupacTable = map[byte]byte{
	'A': 'A', 'a': 'a',
	'C': 'C', 'c': 'c',
	'G': 'G', 'g': 'g',
	'T': 'T', 't': 't',
	'N': 'N', 'n': 'N',
	'R': 'N', 'r': 'N',
	'Y': 'N', 'y': 'N',
	'M': 'N', 'm': 'N',
	'K': 'N', 'k': 'N',
	'W': 'N', 'w': 'N',
	'S': 'N', 's': 'N',
	'B': 'N', 'b': 'N',
	'D': 'N', 'd': 'N',
	'H': 'N', 'h': 'N',
	'V': 'N', 'v': 'N',
}

// ToN normalizes ambiguity codes in FASTA references to N.
func ToN(base byte) byte {
	if n, ok := iupacTable[base]; ok {
		return n
	}
	return base
}

var iupacUpperTable = map[byte]byte{
	'A': 'A', 'a': 'A',
	'C': 'C', 'c': 'C',
	'G': 'G', 'g': 'G',
	'T': 'T', 't': 'T',
	'N': 'N', 'n': 'N',
	'R': 'N', 'r': 'N',
	'Y': 'N', 'y': 'N',
	'M': 'N', 'm': 'N',
	'K': 'N', 'k': 'N',
	'W': 'N', 'w': 'N',
	'S': 'N', 's': 'N',
	'B': 'N', 'b': 'N',
	'D': 'N', 'd': 'N',
	'H': 'N', 'h': 'N',
	'V': 'N', 'v': 'N',
}

// ToUpperAndN normalizes ambiguity codes to N and upper-cases every
// base. The consensus engine's base counter only recognizes
// upper-case A/T/G/C; running reference and read FASTA through this
// normalization before harvesting keeps that recognition simple.
func ToUpperAndN(base byte) byte {
	if n, ok := iupacUpperTable[base]; ok {
		return n
	}
	return base
}

// ParseFasta sequentially parses a FASTA file into a name-to-sequence
// map. If toUpper is true, bases are upper-cased; if toN is true,
// ambiguity codes are normalized to N. Input may be plain text or
// BGZF-compressed; ParseFasta detects the latter transparently.
func ParseFasta(filename string, toUpper, toN bool) (fasta map[string][]byte, err error) {
	f := internal.FileOpen(filename)
	defer internal.Close(f)

	scanner := bufio.NewScanner(utils.HandleBGZF(bufio.NewReader(f)))

	if !scanner.Scan() {
		return nil, fmt.Errorf("empty fasta file %v", filename)
	}
	b := scanner.Bytes()
	for len(b) == 0 {
		if !scanner.Scan() {
			return nil, fmt.Errorf("empty fasta file %v", filename)
		}
		b = scanner.Bytes()
	}
	if b[0] != '>' {
		return nil, fmt.Errorf("invalid fasta file %v - missing first header", filename)
	}

	contig := contigFromHeader(b)
	var seq []byte
	fasta = make(map[string][]byte)

scanLoop:
	for scanner.Scan() {
		b := scanner.Bytes()
		if len(b) == 0 {
			if !scanner.Scan() {
				break scanLoop
			}
			b = scanner.Bytes()
			for len(b) == 0 {
				if !scanner.Scan() {
					break scanLoop
				}
				b = scanner.Bytes()
			}
			if b[0] != '>' {
				return nil, fmt.Errorf("invalid fasta file %v - empty line", filename)
			}
		}
		if b[0] == '>' {
			fasta[contig] = seq
			contig = contigFromHeader(b)
			seq = nil
		} else {
			if toUpper {
				for i, c := range b {
					b[i] = byte(unicode.ToUpper(rune(c)))
				}
			}
			if toN {
				for i, c := range b {
					if n, ok := iupacTable[c]; ok {
						b[i] = n
					}
				}
			}
			seq = append(seq, b...)
		}
	}

	fasta[contig] = seq

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return fasta, nil
}

// WriteSingle writes a single (id, sequence) record to a FASTA file,
// the contract the drop-and-realign loop uses to persist the
// partially-extended contig for the aligner to index.
func WriteSingle(id string, seq []byte, filename string) error {
	file := internal.FileCreate(filename)
	defer internal.Close(file)
	return writeRecord(file, id, seq)
}

// WriteMulti writes several (id, sequence) records to a single FASTA
// file, the contract the drop-and-realign loop uses to write the
// per-round realignment FASTA of dropped reads.
func WriteMulti(ids []string, seqs [][]byte, filename string) error {
	if len(ids) != len(seqs) {
		return fmt.Errorf("fasta.WriteMulti: %d ids but %d sequences", len(ids), len(seqs))
	}
	file := internal.FileCreate(filename)
	defer internal.Close(file)
	for i, id := range ids {
		if err := writeRecord(file, id, seqs[i]); err != nil {
			return err
		}
	}
	return nil
}

const fastaLineWidth = 70

func writeRecord(file *os.File, id string, seq []byte) error {
	if _, err := fmt.Fprintf(file, ">%s\n", id); err != nil {
		return err
	}
	for i := 0; i < len(seq); i += fastaLineWidth {
		end := i + fastaLineWidth
		if end > len(seq) {
			end = len(seq)
		}
		if _, err := file.Write(seq[i:end]); err != nil {
			return err
		}
		if _, err := file.Write([]byte{'\n'}); err != nil {
			return err
		}
	}
	if len(seq) == 0 {
		if _, err := file.Write([]byte{'\n'}); err != nil {
			return err
		}
	}
	return nil
}
