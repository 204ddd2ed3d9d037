// Copyright 2026 The Compstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trialmath

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func aeq(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Abs(b))
}

func TestPercentile(t *testing.T) {
	for _, test := range []struct {
		xs   []float64
		p    float64
		want float64
	}{
		{[]float64{1, 2, 3, 4}, 0.5, 2.5},
		{[]float64{4, 3, 2, 1}, 0.5, 2.5},
		{[]float64{1, 2, 3, 4}, 0, 1},
		{[]float64{1, 2, 3, 4}, 1, 4},
		{[]float64{1, 2, 3, 4}, 0.95, 3.85},
		{[]float64{10, 20}, 0.25, 12.5},
		{[]float64{7}, 0.95, 7},
		{[]float64{1, math.NaN(), 3}, 0.5, 2},
	} {
		if got := Percentile(test.xs, test.p); !aeq(got, test.want) {
			t.Errorf("Percentile(%v, %v) = %v, want %v", test.xs, test.p, got, test.want)
		}
	}
	if got := Percentile(nil, 0.5); !math.IsNaN(got) {
		t.Errorf("Percentile(nil) = %v, want NaN", got)
	}
}

func TestUpperBound(t *testing.T) {
	if b, ok := UpperBound([]float64{4}); !ok || !aeq(b, 4.2) {
		t.Errorf("single value: got %v, %v; want 4.2, true", b, ok)
	}

	var uniform []float64
	for i := 0; i <= 100; i++ {
		uniform = append(uniform, float64(i))
	}
	// 0 is not positive, so this is the 95th percentile of 1..100.
	if b, ok := UpperBound(uniform); !ok || !aeq(b, 95.05*1.05) {
		t.Errorf("0..100: got %v, %v; want %v", b, ok, 95.05*1.05)
	}

	for _, xs := range [][]float64{nil, {0, 0}, {-1, 0, -3}, {math.NaN()}} {
		if b, ok := UpperBound(xs); ok {
			t.Errorf("%v: got bound %v, want none", xs, b)
		}
	}

	r := ClipRange([]float64{0, -2, 10, 10})
	if r.Lo != 0 || !r.HasHi || !aeq(r.Hi, 10.5) || !aeq(r.P95, 10) {
		t.Errorf("ClipRange: got %+v", r)
	}
}

func TestUpperBoundProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		xs := rapid.SliceOfN(rapid.Float64Range(0.001, 1e9), 1, 200).Draw(t, "xs")
		b, ok := UpperBound(xs)
		if !ok {
			t.Fatalf("no bound for positive sample")
		}
		min, max := xs[0], xs[0]
		for _, x := range xs {
			min = math.Min(min, x)
			max = math.Max(max, x)
		}
		if b < min*ClipHeadroom*(1-1e-12) || b > max*ClipHeadroom*(1+1e-12) {
			t.Fatalf("bound %v outside [%v, %v]*%v", b, min, max, ClipHeadroom)
		}
	})
}
