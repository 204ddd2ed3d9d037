// Copyright 2026 The Compstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package trialseries derives chart-ready series from compression
// benchmark trials.
//
// The building blocks are Aggregate, which averages a Metric over the
// trials sharing a key, and Phases, which breaks average operation
// time down into its phases. Build combines these into a Report
// holding every series of the standard set of charts.
//
// All functions in this package are pure. An empty result means there
// was no data for it and is never an error.
package trialseries

import (
	"fmt"
	"math"

	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"

	"github.com/bitpacker/compstat/trialfmt"
)

// A Point is the mean of a metric over the trials sharing Key.
type Point struct {
	Key   Key
	Value float64
	N     int // number of trials averaged
}

const countCol = "n"

// Aggregate groups trials by the values of the fields in by and
// returns one Point per distinct combination holding the arithmetic
// mean of m. Trials where m is NaN are left out; a combination with no
// remaining trials produces no Point.
//
// Points are sorted by key, comparing fields in the order of by, so
// the result does not depend on the order of trials. by must not
// contain duplicates.
func Aggregate(trials []*trialfmt.Trial, by []Field, m Metric) []Point {
	labels := make([][]string, len(by))
	sizes := make([][]int64, len(by))
	var vals []float64
	for _, t := range trials {
		v := m.Value(t)
		if math.IsNaN(v) {
			continue
		}
		vals = append(vals, v)
		for i, f := range by {
			if f.numeric() {
				sizes[i] = append(sizes[i], t.UncompressedSize)
			} else {
				labels[i] = append(labels[i], f.label(t))
			}
		}
	}
	if len(vals) == 0 {
		// go-gg cannot aggregate a table with no rows.
		return nil
	}

	var b table.Builder
	names := make([]string, len(by))
	for i, f := range by {
		names[i] = f.String()
		if b.Has(names[i]) {
			panic(fmt.Sprintf("duplicate field %s", f))
		}
		if f.numeric() {
			b.Add(names[i], sizes[i])
		} else {
			b.Add(names[i], labels[i])
		}
	}
	b.Add(m.String(), vals)

	agg := table.Flatten(ggstat.Agg(names...)(ggstat.AggMean(m.String()), ggstat.AggCount(countCol)).F(b.Done()))
	means := agg.MustColumn("mean " + m.String()).([]float64)
	counts := agg.MustColumn(countCol).([]int)

	points := make([]Point, len(means))
	for i := range points {
		points[i].Value = means[i]
		points[i].N = counts[i]
	}
	for i, f := range by {
		switch col := agg.MustColumn(names[i]).(type) {
		case []string:
			for j, l := range col {
				points[j].Key.setLabel(f, l)
			}
		case []int64:
			for j, n := range col {
				points[j].Key.UncompressedSize = n
			}
		}
	}

	sortPoints(points, by)
	return points
}

// A RatioPoint is the mean compression ratio of the trials of one
// algorithm and value size category at one uncompressed size.
type RatioPoint struct {
	Size      int64
	Ratio     float64
	Algorithm trialfmt.Algorithm
	ValueSize trialfmt.ValueSize
}

// Ratios returns the mean compression ratio of the Compress trials in
// trials by (uncompressed size, algorithm, value size). Trials with an
// undefined ratio are left out.
func Ratios(trials []*trialfmt.Trial) []RatioPoint {
	var compress []*trialfmt.Trial
	for _, t := range trials {
		if t.Operation == trialfmt.Compress {
			compress = append(compress, t)
		}
	}
	points := Aggregate(compress, []Field{FieldUncompressedSize, FieldAlgorithm, FieldValueSize}, MetricCompressionRatio)
	out := make([]RatioPoint, len(points))
	for i, p := range points {
		out[i] = RatioPoint{p.Key.UncompressedSize, p.Value, p.Key.Algorithm, p.Key.ValueSize}
	}
	return out
}
