// Copyright 2026 The Compstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package trialfmt provides a reader and writer for compression
// benchmark trial logs.
//
// A trial log is newline-delimited JSON. Each non-blank line records a
// single trial: one operation performed by one compression algorithm
// on one input array, together with the input and output sizes, the
// elapsed wall time and, optionally, a breakdown of that time into
// named phases. For example:
//
//	{"functionType":"Compress","compressionType":"Spanning",
//	 "valueSize":"small_v","arraySize":"small_s",
//	 "uncompressedArraySize":100,"compressedArraySize":40,
//	 "fullDurationNanos":2000000,
//	 "parts":[{"name":"pack","timeNanos":1500000}]}
//
// (shown wrapped; every record occupies exactly one line).
//
// This package is designed to be used with the higher-level packages
// trialproc, trialmath and trialseries.
package trialfmt

import (
	"math"
	"strings"
)

// A Trial is a single measured benchmark trial.
type Trial struct {
	// Operation is the measured operation.
	Operation Operation `json:"functionType"`

	// Algorithm is the compression algorithm under test.
	Algorithm Algorithm `json:"compressionType"`

	// ValueSize is the category of the magnitudes of the values in
	// the input array.
	ValueSize ValueSize `json:"valueSize"`

	// ArraySize is the category of the length of the input array.
	ArraySize ArraySize `json:"arraySize"`

	// UncompressedSize is the size of the input array in bytes.
	UncompressedSize int64 `json:"uncompressedArraySize"`

	// CompressedSize is the size of the compressed array in bytes.
	CompressedSize int64 `json:"compressedArraySize"`

	// FullDurationNanos is the elapsed time of the operation in
	// nanoseconds. Zero means the trial was not timed.
	FullDurationNanos int64 `json:"fullDurationNanos"`

	// Parts breaks FullDurationNanos into named phases. It is nil if
	// the trial carries no breakdown and empty if the breakdown has
	// no phases.
	Parts []Phase `json:"parts,omitempty"`

	// fileName and line record where this Trial was read from, if
	// it was read by a Reader.
	fileName string
	line     int
}

// A Phase is the time spent in one named sub-phase of an operation.
type Phase struct {
	Name      string `json:"name"`
	TimeNanos int64  `json:"timeNanos"`
}

// Pos returns the file name and 1-based line number this Trial was
// read from. If it was not read by a Reader, it returns "", 0.
func (t *Trial) Pos() (fileName string, line int) {
	return t.fileName, t.line
}

// Clone makes a copy of t that shares no state with t.
func (t *Trial) Clone() *Trial {
	t2 := *t
	if t.Parts != nil {
		t2.Parts = append([]Phase(nil), t.Parts...)
	}
	return &t2
}

// Timed reports whether t carries a positive duration.
func (t *Trial) Timed() bool {
	return t.FullDurationNanos > 0
}

// DurationMillis returns the elapsed time of t in milliseconds.
func (t *Trial) DurationMillis() float64 {
	return float64(t.FullDurationNanos) / 1e6
}

// CompressionRatio returns the space saving of a Compress trial,
// 1 - CompressedSize/UncompressedSize. A ratio of 0 means no saving and
// a negative ratio means the output grew.
//
// The ratio is NaN for operations other than Compress and when the
// uncompressed size is 0.
func (t *Trial) CompressionRatio() float64 {
	if t.Operation != Compress || t.UncompressedSize == 0 {
		return math.NaN()
	}
	return 1 - float64(t.CompressedSize)/float64(t.UncompressedSize)
}

// An Operation is the kind of operation a trial measured.
type Operation string

const (
	Compress   Operation = "Compress"
	Decompress Operation = "Decompress"
	Get        Operation = "Get"
)

// Operations lists the known operations in reporting order.
var Operations = []Operation{Compress, Decompress, Get}

// ParseOperation returns the canonical Operation for label, matching
// known operations case-insensitively. Unknown labels are returned
// unchanged.
func ParseOperation(label string) Operation {
	for _, op := range Operations {
		if strings.EqualFold(label, string(op)) {
			return op
		}
	}
	return Operation(label)
}

// IsKnown reports whether o is one of Operations.
func (o Operation) IsKnown() bool {
	for _, op := range Operations {
		if o == op {
			return true
		}
	}
	return false
}

// An Algorithm names a compression algorithm.
type Algorithm string

const (
	NonSpanning Algorithm = "NonSpanning"
	Spanning    Algorithm = "Spanning"
	Overflow    Algorithm = "Overflow"
)

// Algorithms lists the known algorithms in reporting order.
var Algorithms = []Algorithm{NonSpanning, Spanning, Overflow}

// IsKnown reports whether a is one of Algorithms.
func (a Algorithm) IsKnown() bool {
	for _, x := range Algorithms {
		if a == x {
			return true
		}
	}
	return false
}

// A ValueSize categorizes the magnitudes of the values in an input
// array.
type ValueSize string

const (
	SmallV         ValueSize = "small_v"
	SmallMediumV   ValueSize = "small_medium_v"
	MediumV        ValueSize = "medium_v"
	MediumLargeV   ValueSize = "medium_large_v"
	LargeV         ValueSize = "large_v"
	MixedV         ValueSize = "mixed_v"
	SmallLargeMixV ValueSize = "small_large_mix"
)

// ValueSizes lists the known value size categories in reporting order.
var ValueSizes = []ValueSize{SmallV, SmallMediumV, MediumV, MediumLargeV, LargeV, MixedV, SmallLargeMixV}

// IsKnown reports whether v is one of ValueSizes.
func (v ValueSize) IsKnown() bool {
	for _, x := range ValueSizes {
		if v == x {
			return true
		}
	}
	return false
}

// An ArraySize categorizes the length of an input array.
type ArraySize string

const (
	SmallS       ArraySize = "small_s"
	SmallMediumS ArraySize = "small_medium_s"
	MediumS      ArraySize = "medium_s"
	MediumLargeS ArraySize = "medium_large_s"
	LargeS       ArraySize = "large_s"
)

// ArraySizes lists the known array size categories from smallest to
// largest.
var ArraySizes = []ArraySize{SmallS, SmallMediumS, MediumS, MediumLargeS, LargeS}

// IsKnown reports whether s is one of ArraySizes.
func (s ArraySize) IsKnown() bool {
	for _, x := range ArraySizes {
		if s == x {
			return true
		}
	}
	return false
}
