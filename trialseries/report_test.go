// Copyright 2026 The Compstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trialseries

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bitpacker/compstat/trialfmt"
	"github.com/bitpacker/compstat/trialmath"
	"github.com/bitpacker/compstat/trialproc"
)

// reportTrials returns a small but complete data set: Compress and
// Decompress trials of two algorithms over four sizes.
func reportTrials() []*trialfmt.Trial {
	var trials []*trialfmt.Trial
	sizes := []int64{100, 200, 400, 800}
	arrays := []trialfmt.ArraySize{trialfmt.SmallS, trialfmt.MediumS, trialfmt.LargeS, trialfmt.LargeS}
	for _, alg := range []trialfmt.Algorithm{trialfmt.NonSpanning, trialfmt.Spanning} {
		for i, size := range sizes {
			for _, vs := range []trialfmt.ValueSize{trialfmt.SmallV, trialfmt.LargeV} {
				trials = append(trials,
					tr(trialfmt.Compress, alg, vs, arrays[i], size).compressed(size/2).nanos(size*1000).part("pack", size*600).part("write", size*400).t,
					tr(trialfmt.Decompress, alg, vs, arrays[i], size).compressed(size/2).nanos(size*500).t,
				)
			}
		}
	}
	// An untimed Compress trial still counts for sizes and ratios.
	trials = append(trials, tr(trialfmt.Compress, trialfmt.Spanning, trialfmt.SmallV, trialfmt.SmallS, 100).compressed(100).t)
	return trials
}

func TestBuild(t *testing.T) {
	r := Build(reportTrials(), Options{})

	if len(r.Combos) != 9 {
		t.Fatalf("got %d combos, want 9", len(r.Combos))
	}
	for _, cr := range r.Combos {
		wantN := 0
		if cr.Algorithm != trialfmt.Overflow && cr.Operation != trialfmt.Get {
			wantN = 8
			if cr.Combo == (Combo{trialfmt.Spanning, trialfmt.Compress}) {
				wantN = 9
			}
		}
		if cr.N != wantN {
			t.Errorf("%s: got %d trials, want %d", cr.Combo, cr.N, wantN)
		}
		if cr.N == 0 && (cr.Time != nil || cr.Phases != nil || cr.Heatmap != nil) {
			t.Errorf("%s: empty combo has charts", cr.Combo)
		}
	}

	sc := r.Combos[1]
	if sc.Combo != (Combo{trialfmt.Spanning, trialfmt.Compress}) {
		t.Fatalf("combo 1 is %s", sc.Combo)
	}
	if len(sc.Time) != 2 || sc.Time[0].ValueSize != trialfmt.SmallV || len(sc.Time[0].Points) != 4 {
		t.Errorf("time scatter: got %+v", sc.Time)
	}
	if len(sc.Size) != 2 || len(sc.Size[0].Points) != 5 || sc.MaxSize != 800 {
		t.Errorf("size scatter: got %+v, max %d", sc.Size, sc.MaxSize)
	}
	if !sc.TimeRange.HasHi {
		t.Errorf("no time range")
	}
	if sc.Phases == nil || len(sc.Phases.Keys) != 3 {
		t.Errorf("phases: got %+v", sc.Phases)
	}
	if r.Combos[4].Size != nil {
		t.Errorf("Decompress combo has a size scatter")
	}

	wantHeat := &Heatmap{
		Rows: []string{"small_s", "medium_s", "large_s"},
		Cols: []string{"small_v", "large_v"},
		Cells: [][]trialproc.Cell{
			{{Label: "small_v", Value: 0.1}, {Label: "large_v", Value: 0.1}},
			{{Label: "small_v", Value: 0.2}, {Label: "large_v", Value: 0.2}},
			{{Label: "small_v", Value: 0.6}, {Label: "large_v", Value: 0.6}},
		},
	}
	if diff := cmp.Diff(wantHeat, sc.Heatmap, approx); diff != "" {
		t.Errorf("heatmap mismatch (-want +got):\n%s", diff)
	}

	// Global charts.
	tt := r.TimeTrend[trialfmt.Compress]
	if tt == nil || len(tt.Series) != 2 {
		t.Fatalf("time trend: got %+v", tt)
	}
	for _, s := range tt.Series {
		if len(s.Points) != 4 || !s.Curve.Smoothed || len(s.Curve.XY) != trialmath.SmoothSamples {
			t.Errorf("time trend %s: %d points, smoothed %v", s.Algorithm, len(s.Points), s.Curve.Smoothed)
		}
	}
	if _, ok := r.TimeTrend[trialfmt.Get]; ok {
		t.Errorf("time trend for Get")
	}
	if tv := r.TimeByValue[trialfmt.Decompress]; tv == nil || len(tv.Series) != 4 || tv.Series[0].Curve.Smoothed {
		t.Errorf("time by value: got %+v", tv)
	}
	if r.SizeByValue == nil || len(r.SizeByValue.Series) != 4 {
		t.Errorf("size by value: got %+v", r.SizeByValue)
	}
	if r.RatioTrend == nil || len(r.RatioTrend.Series) != 4 {
		t.Errorf("ratio trend: got %+v", r.RatioTrend)
	}
	if len(r.Ratio) != 16 {
		t.Errorf("got %d ratio points, want 16", len(r.Ratio))
	}

	rb := r.RatioByValue
	if rb == nil || len(rb.Groups) != 2 || len(rb.Groups[0].Cells) != len(trialproc.ValueSizeOrder) {
		t.Fatalf("ratio by value: got %+v", rb)
	}
	if c := rb.Groups[0].Cells[0]; c.Missing || !aeq(c.Value, 0.5) {
		t.Errorf("NonSpanning small_v ratio: got %+v", c)
	}
	if c := rb.Groups[1].Cells[0]; !aeq(c.Value, (4*0.5+0)/5) {
		t.Errorf("Spanning small_v ratio: got %+v", c)
	}
	if !rb.Groups[0].Cells[1].Missing {
		t.Errorf("small_medium_v not missing")
	}

	if ta := r.TimeByArray[trialfmt.Compress]; ta == nil || len(ta.Groups) != 2 || !ta.Groups[0].Cells[1].Missing || ta.Groups[0].Cells[2].Missing {
		t.Errorf("time by array: got %+v", ta)
	}

	if len(r.Efficiency) != 17 {
		t.Errorf("got %d efficiency points, want 17", len(r.Efficiency))
	}
	for _, p := range r.Efficiency {
		want := MarkerScale(float64(p.Size), 100, 800)
		if p.Scale != want {
			t.Errorf("point %+v: scale %v, want %v", p, p.Scale, want)
		}
	}
}

var approx = cmp.Comparer(func(a, b float64) bool { return aeq(a, b) })

func TestBuildEmpty(t *testing.T) {
	r := Build(nil, Options{Combos: []Combo{{trialfmt.Spanning, trialfmt.Get}}})
	if len(r.Combos) != 1 || r.Combos[0].N != 0 {
		t.Errorf("combos: got %+v", r.Combos)
	}
	if len(r.TimeTrend) != 0 || r.RatioTrend != nil || r.RatioByValue != nil || r.Efficiency != nil {
		t.Errorf("empty input produced global charts: %+v", r)
	}
}

func TestRatioTrendMinPoints(t *testing.T) {
	ratios := []RatioPoint{
		{100, 0.5, trialfmt.Spanning, trialfmt.SmallV},
		{200, 0.6, trialfmt.Spanning, trialfmt.SmallV},
		{100, 0.1, trialfmt.Overflow, trialfmt.SmallV},
		{200, 0.2, trialfmt.Overflow, trialfmt.SmallV},
		{400, 0.3, trialfmt.Overflow, trialfmt.SmallV},
	}
	trend := RatioTrend(ratios)
	if len(trend.Series) != 1 || trend.Series[0].Algorithm != trialfmt.Overflow {
		t.Fatalf("got %+v, want only the three-point Overflow series", trend.Series)
	}
	// Three points are too few for a spline.
	if trend.Series[0].Curve.Smoothed || len(trend.Series[0].Curve.XY) != 3 {
		t.Errorf("got curve %+v, want the raw points", trend.Series[0].Curve)
	}
}

func TestMarkerScale(t *testing.T) {
	for _, test := range []struct{ size, lo, hi, want float64 }{
		{100, 100, 800, MinMarker},
		{800, 100, 800, MaxMarker},
		{450, 100, 800, 110},
		{5, 5, 5, MinMarker},
		{50, 100, 800, MinMarker},
		{2000, 100, 800, MaxMarker},
	} {
		if got := MarkerScale(test.size, test.lo, test.hi); !aeq(got, test.want) {
			t.Errorf("MarkerScale(%v, %v, %v) = %v, want %v", test.size, test.lo, test.hi, got, test.want)
		}
	}
}
