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

package sam

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/exascience/eagler/internal"
	"github.com/exascience/eagler/utils"
)

func (sc *StringScanner) ParseHeaderField() (tag, value string) {
	if sc.err != nil {
		return
	}
	tag, ok := sc.readUntil(':')
	if !ok || (len(tag) != 2) {
		if sc.err == nil {
			sc.err = fmt.Errorf("invalid field tag %v", tag)
		}
		return "", ""
	}
	value, _ = sc.readUntil('\t')
	return tag, value
}

func (sc *StringScanner) ParseHeaderLine() utils.StringMap {
	if sc.err != nil {
		return nil
	}
	record := make(utils.StringMap)
	for sc.Len() > 0 {
		tag, value := sc.ParseHeaderField()
		if !record.SetUniqueEntry(tag, value) {
			if sc.err == nil {
				sc.err = fmt.Errorf("duplicate field tag %v in a SAM header line", tag)
			}
			break
		}
	}
	return record
}

// ParseHeader reads the leading block of "@"-prefixed lines from a SAM
// stream into a Header, leaving the reader positioned at the first
// alignment line.
func ParseHeader(reader *bufio.Reader) (hdr *Header, lines int, err error) {
	hdr = NewHeader()
	var sc StringScanner
	for first := true; ; first = false {
		data, err := reader.Peek(1)
		switch {
		case err == io.EOF:
			return hdr, lines, sc.err
		case err != nil:
			return hdr, lines, err
		case data[0] != '@':
			return hdr, lines, sc.err
		}
		bytes, err := reader.ReadSlice('\n')
		length := len(bytes)
		switch {
		case err == nil:
			length--
		case err != io.EOF:
			return hdr, lines, err
		}
		lines++
		if length < 4 {
			return hdr, lines, fmt.Errorf("malformed SAM header line %q", string(bytes))
		}
		line := string(bytes[4:length])
		sc.Reset(line)
		switch string(bytes[0:4]) {
		case "@HD\t":
			if !first {
				return hdr, lines, errors.New("@HD line not in first line when parsing a SAM header")
			}
			hdr.HD = sc.ParseHeaderLine()
		case "@SQ\t":
			hdr.SQ = append(hdr.SQ, sc.ParseHeaderLine())
		case "@CO\t":
			hdr.CO = append(hdr.CO, line)
		default:
			// Unrecognized header line kinds (@RG, @PG, user tags) carry
			// no information the extension engine needs; skip them.
		}
	}
}

type FieldParser func(*StringScanner) interface{}

func (sc *StringScanner) ParseChar() interface{} {
	if sc.err != nil {
		return nil
	}
	value, _ := sc.readByteUntil('\t')
	return value
}

func (sc *StringScanner) ParseInteger() interface{} {
	if sc.err != nil {
		return nil
	}
	value, _ := sc.readUntil('\t')
	val, err := strconv.ParseInt(value, 10, 32)
	if (err != nil) && (sc.err == nil) {
		sc.err = err
	}
	return int32(val)
}

func (sc *StringScanner) ParseFloat() interface{} {
	if sc.err != nil {
		return nil
	}
	value, _ := sc.readUntil('\t')
	val, err := strconv.ParseFloat(value, 32)
	if (err != nil) && (sc.err == nil) {
		sc.err = err
	}
	return float32(val)
}

func (sc *StringScanner) ParseString() interface{} {
	if sc.err != nil {
		return nil
	}
	value, _ := sc.readUntil('\t')
	return value
}

var optionalFieldParseTable = map[byte]FieldParser{
	'A': (*StringScanner).ParseChar,
	'i': (*StringScanner).ParseInteger,
	'f': (*StringScanner).ParseFloat,
	'Z': (*StringScanner).ParseString,
}

func (sc *StringScanner) ParseOptionalField() (tag utils.Symbol, value interface{}) {
	if sc.err != nil {
		return nil, nil
	}
	tagname, ok := sc.readUntil(':')
	if !ok || (len(tagname) != 2) {
		if sc.err == nil {
			sc.err = fmt.Errorf("invalid field tag %v in SAM alignment line", tagname)
		}
		return nil, nil
	}
	tag = utils.Intern(tagname)
	typebyte, ok := sc.readByteUntil(':')
	if !ok {
		if sc.err == nil {
			sc.err = fmt.Errorf("invalid field type %v in SAM alignment line", typebyte)
		}
		return nil, nil
	}
	parse, known := optionalFieldParseTable[typebyte]
	if !known {
		// Array and hex-byte tags never affect the extension engine;
		// skip to the next tab rather than reject the record.
		value, _ = sc.readUntil('\t')
		return tag, value
	}
	return tag, parse(sc)
}

func (sc *StringScanner) doString() string {
	if sc.err != nil {
		return ""
	}
	value, ok := sc.readUntil('\t')
	if !ok {
		if sc.err == nil {
			sc.err = errors.New("missing tabulator in SAM alignment line")
		}
		return ""
	}
	return value
}

func (sc *StringScanner) doInt32() int32 {
	if sc.err != nil {
		return 0
	}
	value, err := strconv.ParseInt(sc.doString(), 10, 32)
	if (err != nil) && (sc.err == nil) {
		sc.err = err
	}
	return int32(value)
}

func (sc *StringScanner) doUint(bitSize int) uint64 {
	if sc.err != nil {
		return 0
	}
	value, err := strconv.ParseUint(sc.doString(), 10, bitSize)
	if (err != nil) && (sc.err == nil) {
		sc.err = err
	}
	return value
}

// ParseAlignment parses a single mandatory-plus-optional-fields SAM
// alignment line.
func (sc *StringScanner) ParseAlignment() *Alignment {
	aln := NewAlignment()

	aln.QNAME = sc.doString()
	aln.FLAG = uint16(sc.doUint(16))
	aln.RNAME = sc.doString()
	aln.POS = sc.doInt32() - 1 // SAM POS is 1-based on disk, 0-based in memory.
	aln.MAPQ = byte(sc.doUint(8))
	aln.CIGAR = sc.doString()
	aln.RNEXT = sc.doString()
	aln.PNEXT = sc.doInt32()
	aln.TLEN = sc.doInt32()
	aln.SEQ = sc.doString()
	aln.QUAL, _ = sc.readUntil('\t')

	for sc.Len() > 0 {
		aln.TAGS.Set(sc.ParseOptionalField())
	}

	return aln
}

func FormatString(out *bufio.Writer, tag, value string) {
	out.WriteByte('\t')
	out.WriteString(tag)
	out.WriteByte(':')
	out.WriteString(value)
}

func FormatHeaderLine(out *bufio.Writer, code string, record utils.StringMap) {
	out.WriteString(code)
	for key, value := range record {
		FormatString(out, key, value)
	}
	out.WriteByte('\n')
}

func FormatComment(out *bufio.Writer, code, comment string) {
	out.WriteString(code)
	out.WriteByte('\t')
	out.WriteString(comment)
	out.WriteByte('\n')
}

func (hdr *Header) Format(out *bufio.Writer) {
	if hdr.HD != nil {
		FormatHeaderLine(out, "@HD", hdr.HD)
	}
	for _, record := range hdr.SQ {
		FormatHeaderLine(out, "@SQ", record)
	}
	for _, comment := range hdr.CO {
		FormatComment(out, "@CO", comment)
	}
}

func FormatTag(out []byte, tag utils.Symbol, value interface{}) ([]byte, error) {
	out = append(out, '\t')
	out = append(out, *tag...)

	switch val := value.(type) {
	case byte:
		out = append(append(out, ":A:"...), val)
	case int32:
		out = strconv.AppendInt(append(out, ":i:"...), int64(val), 10)
	case float32:
		out = strconv.AppendFloat(append(out, ":f:"...), float64(val), 'g', -1, 32)
	case string:
		out = append(append(out, ":Z:"...), val...)
	case utils.Symbol:
		out = append(append(out, ":Z:"...), *val...)
	default:
		return nil, fmt.Errorf("unknown SAM alignment TAG type %T", value)
	}

	return out, nil
}

func (aln *Alignment) Format(out []byte) ([]byte, error) {
	out = append(append(out, FormatFieldOrDash(aln.QNAME)...), '\t')
	out = append(strconv.AppendUint(out, uint64(aln.FLAG), 10), '\t')
	out = append(append(out, FormatFieldOrDash(aln.RNAME)...), '\t')
	out = append(strconv.AppendInt(out, int64(aln.POS)+1, 10), '\t')
	out = append(strconv.AppendUint(out, uint64(aln.MAPQ), 10), '\t')
	out = append(append(out, FormatFieldOrDash(aln.CIGAR)...), '\t')
	out = append(append(out, FormatFieldOrDash(aln.RNEXT)...), '\t')
	out = append(strconv.AppendInt(out, int64(aln.PNEXT), 10), '\t')
	out = append(strconv.AppendInt(out, int64(aln.TLEN), 10), '\t')
	out = append(append(out, FormatFieldOrDash(aln.SEQ)...), '\t')
	out = append(out, FormatFieldOrDash(aln.QUAL)...)

	var err error
	for _, entry := range aln.TAGS {
		if out, err = FormatTag(out, entry.Key, entry.Value); err != nil {
			return nil, err
		}
	}

	return append(out, '\n'), nil
}

type (
	InputFile struct {
		rc io.ReadCloser
		*bufio.Reader
		*exec.Cmd
	}

	OutputFile struct {
		wc io.WriteCloser
		*bufio.Writer
		*exec.Cmd
	}
)

// Open opens a SAM file for reading. Files with a .bam extension are
// transparently piped through "samtools view -h", the same
// subprocess pattern used to shell out to the aligner (aligner
// package) and to the POA primitive (poa package).
func Open(name string) (*InputFile, error) {
	if filepath.Ext(name) == ".bam" {
		if _, err := os.Stat(name); err != nil {
			return nil, err
		}
		args := []string{"view", "-h", "-@", strconv.Itoa(runtime.GOMAXPROCS(0)), name}
		cmd := exec.Command("samtools", args...)
		outPipe, err := cmd.StdoutPipe()
		if err != nil {
			return nil, err
		}
		if err := cmd.Start(); err != nil {
			return nil, err
		}
		return &InputFile{outPipe, bufio.NewReader(outPipe), cmd}, nil
	}
	if name == "/dev/stdin" {
		return &InputFile{os.Stdin, bufio.NewReader(os.Stdin), nil}, nil
	}
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	return &InputFile{file, bufio.NewReader(file), nil}, nil
}

// Create opens a SAM file for writing.
func Create(name string) (*OutputFile, error) {
	if name == "/dev/stdout" {
		return &OutputFile{os.Stdout, bufio.NewWriter(os.Stdout), nil}, nil
	}
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return nil, err
	}
	file, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	return &OutputFile{file, bufio.NewWriter(file), nil}, nil
}

func (input *InputFile) Close() error {
	if input.rc != os.Stdin {
		if err := input.rc.Close(); err != nil {
			return err
		}
	}
	if input.Cmd != nil {
		return input.Wait()
	}
	return nil
}

func (output *OutputFile) Close() error {
	if err := output.Flush(); err != nil {
		return err
	}
	if output.wc != os.Stdout {
		if err := output.wc.Close(); err != nil {
			return err
		}
	}
	if output.Cmd != nil {
		return output.Wait()
	}
	return nil
}

// ReadAll reads a full SAM stream (header plus every alignment
// record) into memory. This is the shape the extension engine wants:
// one contig's worth of alignments at a time, gathered up front so
// the harvester can make a single commutative pass over them.
func ReadAll(input *InputFile) (hdr *Header, alignments []*Alignment, err error) {
	hdr, _, err = ParseHeader(input.Reader)
	if err != nil {
		return nil, nil, err
	}
	var sc StringScanner
	for {
		line, err := input.Reader.ReadString('\n')
		if len(line) > 0 {
			if line[len(line)-1] == '\n' {
				line = line[:len(line)-1]
			}
			sc.Reset(line)
			aln := sc.ParseAlignment()
			if sc.Err() != nil {
				return hdr, alignments, fmt.Errorf("%w: %v", ErrInvalidAlignment, sc.Err())
			}
			alignments = append(alignments, aln)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return hdr, alignments, err
		}
	}
	return hdr, alignments, nil
}

// ErrInvalidAlignment wraps SAM parse errors so callers can
// distinguish malformed input from other I/O failures.
var ErrInvalidAlignment = errors.New("invalid SAM alignment record")

// WriteAll writes a header and its alignments to a SAM stream.
func WriteAll(output *OutputFile, hdr *Header, alignments []*Alignment) error {
	hdr.Format(output.Writer)
	buf := internal.ReserveByteBuffer()
	defer internal.ReleaseByteBuffer(buf)
	for _, aln := range alignments {
		var err error
		buf, err = aln.Format(buf)
		if err != nil {
			return err
		}
		if _, err := output.Write(buf); err != nil {
			return err
		}
		buf = buf[:0]
	}
	return nil
}

// FormatFieldOrDash returns s, or "*" if s is empty, matching SAMv1's
// convention for absent mandatory string fields.
func FormatFieldOrDash(s string) string {
	if s == "" {
		return "*"
	}
	return s
}
