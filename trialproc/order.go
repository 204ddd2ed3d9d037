// Copyright 2026 The Compstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trialproc

import (
	"strings"

	"github.com/bitpacker/compstat/trialfmt"
)

// An Order is a fixed sequence of categorical labels.
type Order []string

// The reference orders of each categorical trial field.
var (
	ArraySizeOrder = orderOf(trialfmt.ArraySizes)
	ValueSizeOrder = orderOf(trialfmt.ValueSizes)
	AlgorithmOrder = orderOf(trialfmt.Algorithms)
	OperationOrder = orderOf(trialfmt.Operations)
)

func orderOf[T ~string](labels []T) Order {
	o := make(Order, len(labels))
	for i, l := range labels {
		o[i] = string(l)
	}
	return o
}

// Index returns the position of label in o, or -1 if o does not
// contain label.
func (o Order) Index(label string) int {
	for i, l := range o {
		if l == label {
			return i
		}
	}
	return -1
}

// Contains reports whether label is in o.
func (o Order) Contains(label string) bool {
	return o.Index(label) >= 0
}

// Compare compares labels a and b by their position in o. Labels in o
// sort before labels not in o, and labels not in o sort lexically.
func (o Order) Compare(a, b string) int {
	ia, ib := o.Index(a), o.Index(b)
	switch {
	case ia >= 0 && ib >= 0:
		return ia - ib
	case ia >= 0:
		return -1
	case ib >= 0:
		return 1
	}
	return strings.Compare(a, b)
}

// A Cell is one labeled position of a reindexed sequence.
type Cell struct {
	Label string
	Value float64

	// Missing indicates that the data had no value for Label.
	// Value is 0 in this case and should not be plotted.
	Missing bool
}

// Reindex aligns values with order. It returns one Cell for each label
// of order, in order. Labels with no entry in values are marked
// Missing. Entries of values whose label is not in order are dropped.
func Reindex(order Order, values map[string]float64) []Cell {
	cells := make([]Cell, len(order))
	for i, label := range order {
		v, ok := values[label]
		cells[i] = Cell{Label: label, Value: v, Missing: !ok}
	}
	return cells
}

// Present returns the cells of cells that are not Missing.
func Present(cells []Cell) []Cell {
	var out []Cell
	for _, c := range cells {
		if !c.Missing {
			out = append(out, c)
		}
	}
	return out
}
