// Copyright 2026 The Compstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package trialmath provides the numeric building blocks for turning
// aggregated trial measurements into chart-ready data: percentile
// based axis clipping and cubic-spline smoothing of trend curves.
//
// Functions in this package are pure. NaN inputs are treated as
// absent data rather than propagated.
package trialmath

import (
	"math"
	"sort"
)

// ClipPercentile and ClipHeadroom define the upper bound chosen by
// UpperBound: the 95th percentile of the positive values plus 5%.
const (
	ClipPercentile = 0.95
	ClipHeadroom   = 1.05
)

// Percentile returns the p-quantile of xs, for p in [0, 1]. It
// interpolates linearly between the closest order statistics
// (Hyndman and Fan's definition 7). NaN values in xs are ignored. If
// no values remain, Percentile returns NaN.
func Percentile(xs []float64, p float64) float64 {
	s := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			s = append(s, x)
		}
	}
	if len(s) == 0 {
		return math.NaN()
	}
	sort.Float64s(s)
	return percentileSorted(s, p)
}

func percentileSorted(s []float64, p float64) float64 {
	switch {
	case p <= 0:
		return s[0]
	case p >= 1:
		return s[len(s)-1]
	}
	h := float64(len(s)-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= len(s) {
		return s[i]
	}
	return s[i] + (h-lo)*(s[i+1]-s[i])
}

// A Range is a clipped value-axis range. Lo is always 0. If HasHi is
// false, the axis has no upper clip and should be scaled to the data.
type Range struct {
	Lo, Hi float64
	HasHi  bool

	// P95 is the percentile Hi was derived from.
	P95 float64
}

// UpperBound returns an axis upper bound for xs that keeps outliers
// from flattening the rest of the data. It considers only the strictly
// positive, finite values of xs and returns their 95th percentile
// scaled by 1.05. If there are no such values, ok is false.
func UpperBound(xs []float64) (bound float64, ok bool) {
	r := ClipRange(xs)
	return r.Hi, r.HasHi
}

// ClipRange returns the Range [0, UpperBound(xs)].
func ClipRange(xs []float64) Range {
	pos := make([]float64, 0, len(xs))
	for _, x := range xs {
		if x > 0 && !math.IsInf(x, 1) {
			pos = append(pos, x)
		}
	}
	if len(pos) == 0 {
		return Range{}
	}
	sort.Float64s(pos)
	p := percentileSorted(pos, ClipPercentile)
	return Range{Lo: 0, Hi: p * ClipHeadroom, HasHi: true, P95: p}
}
