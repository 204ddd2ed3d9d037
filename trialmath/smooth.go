// Copyright 2026 The Compstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trialmath

import (
	"math"

	"github.com/aclements/go-moremath/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

// SmoothSamples is the number of points in a smoothed Curve.
const SmoothSamples = 500

// minSplinePoints is the fewest points a cubic spline can be fit to.
const minSplinePoints = 4

// An XY is a single point of a series.
type XY struct {
	X, Y float64
}

// A Curve is a series prepared for drawing as a line.
type Curve struct {
	XY []XY

	// Smoothed indicates XY was resampled from a fitted spline. If
	// false, XY holds the input points unchanged.
	Smoothed bool
}

// Smooth fits an interpolating cubic spline through the points
// (xs[i], ys[i]) and samples it at SmoothSamples evenly spaced x
// positions spanning exactly the range of xs.
//
// The x values must be strictly increasing and every value must be
// finite. If that does not hold, if there are fewer than 4 points, or
// if the fit fails, Smooth returns the input points verbatim with
// Smoothed unset.
//
// Smooth panics if xs and ys have different lengths.
func Smooth(xs, ys []float64) Curve {
	if len(xs) != len(ys) {
		panic("trialmath: Smooth of slices with different lengths")
	}
	if c, ok := fitCurve(xs, ys); ok {
		return c
	}
	raw := make([]XY, len(xs))
	for i := range xs {
		raw[i] = XY{xs[i], ys[i]}
	}
	return Curve{XY: raw}
}

func fitCurve(xs, ys []float64) (c Curve, ok bool) {
	if len(xs) < minSplinePoints {
		return Curve{}, false
	}

	for i := range xs {
		if !finite(xs[i]) || !finite(ys[i]) {
			return Curve{}, false
		}
		if i > 0 && xs[i] <= xs[i-1] {
			return Curve{}, false
		}
	}

	// The spline panics on input it cannot fit.
	defer func() {
		if err := recover(); err != nil {
			c, ok = Curve{}, false
		}
	}()

	var spline interp.NotAKnotCubic
	if err := spline.Fit(xs, ys); err != nil {
		return Curve{}, false
	}
	lo, hi := stats.Bounds(xs)
	at := floats.Span(make([]float64, SmoothSamples), lo, hi)
	at[len(at)-1] = hi
	out := make([]XY, len(at))
	for i, x := range at {
		y := spline.Predict(x)
		if !finite(y) {
			return Curve{}, false
		}
		out[i] = XY{x, y}
	}
	return Curve{XY: out, Smoothed: true}, true
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
