// elPrep: a high-performance tool for preparing SAM/BAM files.
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

// Package sam implements just enough of the SAMv1 data model to feed
// the contig extension engine: alignment records, CIGAR parsing, and
// the header fields needed to recover contig lengths.
package sam

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"unicode"

	"github.com/exascience/eagler/utils"
)

const (
	FileFormatVersion = "1.5"
)

// Header holds the subset of a SAM header this module cares about: the
// @SQ lines giving contig names and lengths.
type Header struct {
	HD utils.StringMap
	SQ []utils.StringMap
	CO []string
}

func NewHeader() *Header { return &Header{} }

// SQ_LN returns the LN field of an @SQ header record.
func SQ_LN(record utils.StringMap) (int32, error) {
	ln, found := record["LN"]
	if !found {
		return 0, errors.New("LN entry in a SQ header line missing")
	}
	val, err := strconv.ParseInt(ln, 10, 32)
	return int32(val), err
}

func (hdr *Header) EnsureHD() utils.StringMap {
	if hdr.HD == nil {
		hdr.HD = utils.StringMap{"VN": FileFormatVersion}
	}
	return hdr.HD
}

// ContigLengths returns a name-to-length map built from the header's
// @SQ lines. It ignores entries whose LN field is missing or malformed.
func (hdr *Header) ContigLengths() map[string]int32 {
	lengths := make(map[string]int32, len(hdr.SQ))
	for _, sq := range hdr.SQ {
		name, found := sq["SN"]
		if !found {
			continue
		}
		if ln, err := SQ_LN(sq); err == nil {
			lengths[name] = ln
		}
	}
	return lengths
}

// Alignment is a single SAM alignment record. Only the fields the
// extension engine and its aligner collaborator consume are kept.
type Alignment struct {
	QNAME string
	FLAG  uint16
	RNAME string
	POS   int32 // 0-based in memory, as in the rest of the engine.
	MAPQ  byte
	CIGAR string
	RNEXT string
	PNEXT int32
	TLEN  int32
	SEQ   string
	QUAL  string
	TAGS  utils.SmallMap
}

func NewAlignment() *Alignment {
	return &Alignment{TAGS: make(utils.SmallMap, 0, 4)}
}

const (
	Multiple      = 0x1
	Proper        = 0x2
	Unmapped      = 0x4
	NextUnmapped  = 0x8
	Reversed      = 0x10
	NextReversed  = 0x20
	First         = 0x40
	Last          = 0x80
	Secondary     = 0x100
	QCFailed      = 0x200
	Duplicate     = 0x400
	Supplementary = 0x800
)

func (aln *Alignment) IsUnmapped() bool      { return (aln.FLAG & Unmapped) != 0 }
func (aln *Alignment) IsSecondary() bool     { return (aln.FLAG & Secondary) != 0 }
func (aln *Alignment) IsSupplementary() bool { return (aln.FLAG & Supplementary) != 0 }

// IsPrimary reports whether the record is neither a secondary nor a
// supplementary alignment, i.e. it is what an aligner's primary_only
// mode is meant to keep.
func (aln *Alignment) IsPrimary() bool {
	return !aln.IsSecondary() && !aln.IsSupplementary()
}

const CigarOperations = "MmIiDdNnSsHhPpXx="

var cigarOperationsTable = make(map[byte]byte, len(CigarOperations))

func init() {
	for _, c := range CigarOperations {
		cigarOperationsTable[byte(c)] = byte(unicode.ToUpper(rune(c)))
	}
}

func isDigit(char byte) bool { return ('0' <= char) && (char <= '9') }

// CigarOperation is a single (length, operation) pair of a CIGAR string.
type CigarOperation struct {
	Length    int32
	Operation byte
}

func newCigarOperation(cigar string, i int) (op CigarOperation, j int, err error) {
	for j = i; ; j++ {
		if char := cigar[j]; !isDigit(char) {
			length, nerr := strconv.ParseInt(cigar[i:j], 10, 32)
			if nerr != nil {
				err = nerr
				return
			}
			if operation := cigarOperationsTable[char]; operation != 0 {
				op = CigarOperation{int32(length), operation}
				j++
			} else {
				err = fmt.Errorf("invalid CIGAR operation %v", char)
			}
			return
		}
	}
}

var (
	cigarSliceCache      = map[string][]CigarOperation{"*": {}}
	cigarSliceCacheMutex sync.RWMutex
)

func slowScanCigarString(cigar string) (slice []CigarOperation, err error) {
	for i := 0; i < len(cigar); {
		cigarOperation, j, err := newCigarOperation(cigar, i)
		if err != nil {
			return nil, fmt.Errorf("%v, while scanning CIGAR string %v", err.Error(), cigar)
		}
		slice = append(slice, cigarOperation)
		i = j
	}
	cigarSliceCacheMutex.Lock()
	if value, found := cigarSliceCache[cigar]; found {
		slice = value
	} else {
		cigarSliceCache[cigar] = slice
	}
	cigarSliceCacheMutex.Unlock()
	return slice, nil
}

// ScanCigarString parses a CIGAR string into an ordered slice of
// operations, memoizing the result since the same CIGAR string tends
// to reappear across an alignment pool (e.g. many reads that align
// cleanly share "150M").
func ScanCigarString(cigar string) ([]CigarOperation, error) {
	if cigar == "" {
		return nil, errors.New("empty CIGAR string")
	}
	cigarSliceCacheMutex.RLock()
	value, found := cigarSliceCache[cigar]
	cigarSliceCacheMutex.RUnlock()
	if found {
		return value, nil
	}
	return slowScanCigarString(cigar)
}
