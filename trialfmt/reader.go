// Copyright 2026 The Compstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trialfmt

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// A Reader reads trial logs.
//
// Its API is modeled on bufio.Scanner. Unlike the Scanner, every Trial
// returned by Result is freshly allocated and owned by the caller.
//
// Malformed input is fatal: the first ParseError or SchemaError stops
// the Reader and is reported by Err.
//
// To construct a new Reader, either call NewReader, or call Reset on
// a zeroed Reader.
type Reader struct {
	s   *bufio.Scanner
	err error

	fileName string
	line     int

	trial *Trial
}

// maxLine is the longest input line a Reader accepts. Trials with long
// phase breakdowns easily exceed bufio's default token size.
const maxLine = 16 << 20

// A ParseError reports a line of a trial log that is not a valid JSON
// object.
type ParseError struct {
	FileName string
	Line     int
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.FileName, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// A SchemaError reports a trial record that is well-formed JSON but
// lacks a required field or carries an invalid value for it.
type SchemaError struct {
	FileName string
	Line     int
	Field    string // JSON key of the offending field
	Msg      string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s:%d: field %s: %s", e.FileName, e.Line, e.Field, e.Msg)
}

// NewReader constructs a reader to parse trial logs from r. fileName
// is used in error messages; it is purely diagnostic.
func NewReader(r io.Reader, fileName string) *Reader {
	reader := new(Reader)
	reader.Reset(r, fileName)
	return reader
}

// Reset resets the reader to begin reading from a new input.
func (r *Reader) Reset(ior io.Reader, fileName string) {
	r.s = bufio.NewScanner(ior)
	r.s.Buffer(make([]byte, 0, 64<<10), maxLine)
	if fileName == "" {
		fileName = "<unknown>"
	}
	r.fileName = fileName
	r.line = 0
	r.err = nil
	r.trial = nil
}

// Scan advances the reader to the next trial, which will then be
// available through the Result method. Blank lines are skipped. It
// returns false when the input is exhausted or an error stopped the
// reader; Err distinguishes the two.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	for r.s.Scan() {
		r.line++
		line := bytes.TrimSpace(r.s.Bytes())
		if len(line) == 0 {
			continue
		}
		t, err := r.parse(line)
		if err != nil {
			r.err = err
			r.trial = nil
			return false
		}
		r.trial = t
		return true
	}
	if err := r.s.Err(); err != nil {
		r.err = fmt.Errorf("%s:%d: %w", r.fileName, r.line+1, err)
	}
	r.trial = nil
	return false
}

// Result returns the Trial read by the last call to Scan, or nil if
// Scan has not returned true.
func (r *Reader) Result() *Trial {
	return r.trial
}

// Err returns the first error encountered by the Reader. It returns
// nil if the input was read to completion without error.
func (r *Reader) Err() error {
	return r.err
}

// wireTrial mirrors Trial with pointers for the required fields so
// that absent keys can be told apart from zero values.
type wireTrial struct {
	FunctionType          *string `json:"functionType"`
	CompressionType       *string `json:"compressionType"`
	ValueSize             *string `json:"valueSize"`
	ArraySize             *string `json:"arraySize"`
	UncompressedArraySize *int64  `json:"uncompressedArraySize"`
	CompressedArraySize   int64   `json:"compressedArraySize"`
	FullDurationNanos     int64   `json:"fullDurationNanos"`
	Parts                 []Phase `json:"parts"`
}

func (r *Reader) parse(line []byte) (*Trial, error) {
	var w wireTrial
	if err := json.Unmarshal(line, &w); err != nil {
		return nil, &ParseError{r.fileName, r.line, err}
	}

	missing := func(field string) error {
		return &SchemaError{r.fileName, r.line, field, "missing required field"}
	}
	switch {
	case w.FunctionType == nil:
		return nil, missing("functionType")
	case w.CompressionType == nil:
		return nil, missing("compressionType")
	case w.ValueSize == nil:
		return nil, missing("valueSize")
	case w.ArraySize == nil:
		return nil, missing("arraySize")
	case w.UncompressedArraySize == nil:
		return nil, missing("uncompressedArraySize")
	}
	if *w.UncompressedArraySize < 0 {
		return nil, &SchemaError{r.fileName, r.line, "uncompressedArraySize", "must be non-negative"}
	}
	if w.CompressedArraySize < 0 {
		return nil, &SchemaError{r.fileName, r.line, "compressedArraySize", "must be non-negative"}
	}

	return &Trial{
		Operation:         ParseOperation(*w.FunctionType),
		Algorithm:         Algorithm(*w.CompressionType),
		ValueSize:         ValueSize(*w.ValueSize),
		ArraySize:         ArraySize(*w.ArraySize),
		UncompressedSize:  *w.UncompressedArraySize,
		CompressedSize:    w.CompressedArraySize,
		FullDurationNanos: w.FullDurationNanos,
		Parts:             w.Parts,
		fileName:          r.fileName,
		line:              r.line,
	}, nil
}

// ReadAll reads every trial from r. On error it returns the trials
// read before the error together with the error.
func ReadAll(r *Reader) ([]*Trial, error) {
	var trials []*Trial
	for r.Scan() {
		trials = append(trials, r.Result())
	}
	return trials, r.Err()
}
