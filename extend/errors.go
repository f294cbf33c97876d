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

// Package extend implements the consensus extension engine: harvesting
// candidate extension substrings from aligned reads, walking them to a
// majority-vote consensus with one-base lookahead realignment, and the
// outer drop-and-realign loop that feeds unresolved reads back through
// an aligner against the growing contig.
package extend

import (
	"errors"
	"fmt"
)

// errSeqCigarMismatch is wrapped by InvalidAlignment when SEQ's length
// disagrees with the total length of read-consuming CIGAR operations.
var errSeqCigarMismatch = errors.New("SEQ length does not match CIGAR")

// InvalidAlignment reports a malformed alignment record: an empty
// CIGAR, a SEQ the CIGAR requires but that is missing, or any other
// unparseable record. The contig this alignment belongs to must not
// be extended when this error occurs.
type InvalidAlignment struct {
	QNAME string
	Err   error
}

func (e *InvalidAlignment) Error() string {
	return fmt.Sprintf("invalid alignment %q: %v", e.QNAME, e.Err)
}

func (e *InvalidAlignment) Unwrap() error { return e.Err }

// InvalidConfiguration reports a configuration value that violates
// one of the engine's parameter constraints: a non-positive MaxExt or
// MinCoverage, a negative margin, or OuterMargin < InnerMargin.
type InvalidConfiguration struct {
	Field  string
	Reason string
}

func (e *InvalidConfiguration) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}
