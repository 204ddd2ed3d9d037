// Copyright 2026 The Compstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trialseries

import (
	"fmt"
	"strconv"

	"github.com/bitpacker/compstat/trialfmt"
	"github.com/bitpacker/compstat/trialproc"
)

// A Field is a trial attribute that trials can be grouped by.
type Field int

const (
	FieldOperation Field = iota
	FieldAlgorithm
	FieldValueSize
	FieldArraySize
	FieldUncompressedSize
)

// String returns the trial log key of f. It also names f's column in
// tables and CSV output.
func (f Field) String() string {
	switch f {
	case FieldOperation:
		return "functionType"
	case FieldAlgorithm:
		return "compressionType"
	case FieldValueSize:
		return "valueSize"
	case FieldArraySize:
		return "arraySize"
	case FieldUncompressedSize:
		return "uncompressedArraySize"
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

func (f Field) numeric() bool {
	return f == FieldUncompressedSize
}

// order returns the reference order of a categorical field, or nil.
func (f Field) order() trialproc.Order {
	switch f {
	case FieldOperation:
		return trialproc.OperationOrder
	case FieldAlgorithm:
		return trialproc.AlgorithmOrder
	case FieldValueSize:
		return trialproc.ValueSizeOrder
	case FieldArraySize:
		return trialproc.ArraySizeOrder
	}
	return nil
}

// label returns the value of f in t as a string.
func (f Field) label(t *trialfmt.Trial) string {
	switch f {
	case FieldOperation:
		return string(t.Operation)
	case FieldAlgorithm:
		return string(t.Algorithm)
	case FieldValueSize:
		return string(t.ValueSize)
	case FieldArraySize:
		return string(t.ArraySize)
	case FieldUncompressedSize:
		return strconv.FormatInt(t.UncompressedSize, 10)
	}
	panic("unknown field " + f.String())
}

// A Key identifies one group of trials. Only the fields a Key was
// grouped by are set; the others hold their zero value.
type Key struct {
	Operation        trialfmt.Operation
	Algorithm        trialfmt.Algorithm
	ValueSize        trialfmt.ValueSize
	ArraySize        trialfmt.ArraySize
	UncompressedSize int64
}

// Label returns the value of field f of k as a string.
func (k Key) Label(f Field) string {
	switch f {
	case FieldOperation:
		return string(k.Operation)
	case FieldAlgorithm:
		return string(k.Algorithm)
	case FieldValueSize:
		return string(k.ValueSize)
	case FieldArraySize:
		return string(k.ArraySize)
	case FieldUncompressedSize:
		return strconv.FormatInt(k.UncompressedSize, 10)
	}
	panic("unknown field " + f.String())
}

func (k *Key) setLabel(f Field, label string) {
	switch f {
	case FieldOperation:
		k.Operation = trialfmt.Operation(label)
	case FieldAlgorithm:
		k.Algorithm = trialfmt.Algorithm(label)
	case FieldValueSize:
		k.ValueSize = trialfmt.ValueSize(label)
	case FieldArraySize:
		k.ArraySize = trialfmt.ArraySize(label)
	default:
		panic("not a categorical field: " + f.String())
	}
}

// compareKeys compares a and b field by field in the order of by.
// Numeric fields compare numerically and categorical fields by their
// reference order.
func compareKeys(a, b Key, by []Field) int {
	for _, f := range by {
		if f.numeric() {
			switch {
			case a.UncompressedSize < b.UncompressedSize:
				return -1
			case a.UncompressedSize > b.UncompressedSize:
				return 1
			}
			continue
		}
		if c := f.order().Compare(a.Label(f), b.Label(f)); c != 0 {
			return c
		}
	}
	return 0
}

// A Metric is a per-trial measurement that can be averaged.
type Metric int

const (
	// MetricDurationMillis is the elapsed time in milliseconds.
	MetricDurationMillis Metric = iota
	// MetricCompressionRatio is the space saving of a Compress trial.
	MetricCompressionRatio
	// MetricCompressedSize is the compressed size in bytes.
	MetricCompressedSize
)

func (m Metric) String() string {
	switch m {
	case MetricDurationMillis:
		return "durationMillis"
	case MetricCompressionRatio:
		return "compressionRatio"
	case MetricCompressedSize:
		return "compressedArraySize"
	}
	return fmt.Sprintf("Metric(%d)", int(m))
}

// Value returns the value of m for t. It is NaN where m is undefined.
func (m Metric) Value(t *trialfmt.Trial) float64 {
	switch m {
	case MetricDurationMillis:
		return t.DurationMillis()
	case MetricCompressionRatio:
		return t.CompressionRatio()
	case MetricCompressedSize:
		return float64(t.CompressedSize)
	}
	panic("unknown metric " + m.String())
}
