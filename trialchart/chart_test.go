// Copyright 2026 The Compstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trialchart

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/plot"

	"github.com/bitpacker/compstat/trialfmt"
	"github.com/bitpacker/compstat/trialseries"
)

func testTrials() []*trialfmt.Trial {
	var trials []*trialfmt.Trial
	arrays := []trialfmt.ArraySize{trialfmt.SmallS, trialfmt.MediumS, trialfmt.LargeS, trialfmt.LargeS, trialfmt.LargeS}
	for _, alg := range trialfmt.Algorithms {
		for i, size := range []int64{100, 200, 400, 800, 1600} {
			for _, vs := range []trialfmt.ValueSize{trialfmt.SmallV, trialfmt.MixedV} {
				trials = append(trials, &trialfmt.Trial{
					Operation:         trialfmt.Compress,
					Algorithm:         alg,
					ValueSize:         vs,
					ArraySize:         arrays[i],
					UncompressedSize:  size,
					CompressedSize:    size / 3,
					FullDurationNanos: size * 1000,
					Parts: []trialfmt.Phase{
						{Name: "pack", TimeNanos: size * 700},
						{Name: "write", TimeNanos: size * 300},
					},
				})
			}
		}
	}
	return trials
}

func TestRender(t *testing.T) {
	r := trialseries.Build(testTrials(), trialseries.Options{})
	sty := DefaultStyle()
	combo := r.Combos[0]
	titles := Titles{Title: "test", X: "x", Y: "y"}

	type chart struct {
		name string
		make func() (*plot.Plot, error)
	}
	charts := []chart{
		{"trend", func() (*plot.Plot, error) { return Trend(r.TimeTrend[trialfmt.Compress], titles, sty) }},
		{"byvalue", func() (*plot.Plot, error) { return Trend(r.TimeByValue[trialfmt.Compress], titles, sty) }},
		{"ratio", func() (*plot.Plot, error) { return Trend(r.RatioTrend, titles, sty) }},
		{"scatter", func() (*plot.Plot, error) {
			p, err := Scatter(combo.Size, titles, sty)
			if err == nil {
				err = Diagonal(p, float64(combo.MaxSize))
			}
			return p, err
		}},
		{"bars", func() (*plot.Plot, error) { return Bars(r.TimeByArray[trialfmt.Compress], titles, sty) }},
		{"phases", func() (*plot.Plot, error) { return Phases(combo.Phases, titles) }},
		{"heatmap", func() (*plot.Plot, error) { return Heatmap(combo.Heatmap, titles) }},
		{"efficiency", func() (*plot.Plot, error) { return Efficiency(r.Efficiency, titles, sty) }},
	}

	dir := t.TempDir()
	for _, c := range charts {
		t.Run(c.name, func(t *testing.T) {
			p, err := c.make()
			if err != nil {
				t.Fatal(err)
			}
			for _, ext := range []string{".png", ".svg"} {
				path := filepath.Join(dir, c.name+ext)
				if err := Save(p, sty, path); err != nil {
					t.Fatal(err)
				}
				if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
					t.Errorf("%s: not written (%v)", path, err)
				}
			}
		})
	}
}

func TestTrendRange(t *testing.T) {
	r := trialseries.Build(testTrials(), trialseries.Options{})
	tr := r.TimeTrend[trialfmt.Compress]
	if !tr.Range.HasHi {
		t.Fatal("time trend is not clipped")
	}
	p, err := Trend(tr, Titles{}, DefaultStyle())
	if err != nil {
		t.Fatal(err)
	}
	if p.Y.Min != 0 || p.Y.Max != tr.Range.Hi {
		t.Errorf("Y axis [%v, %v], want [0, %v]", p.Y.Min, p.Y.Max, tr.Range.Hi)
	}
}

func TestParseColor(t *testing.T) {
	for _, test := range []struct {
		in   string
		want color.Color
		err  bool
	}{
		{"orange", color.RGBA{0xff, 0xa5, 0x00, 0xff}, false},
		{"Blue", color.RGBA{0x00, 0x00, 0xff, 0xff}, false},
		{"#102030", color.NRGBA{0x10, 0x20, 0x30, 0xff}, false},
		{"#10203040", color.NRGBA{0x10, 0x20, 0x30, 0x40}, false},
		{"#1020", nil, true},
		{"#zzzzzz", nil, true},
		{"chartreuse-ish", nil, true},
	} {
		got, err := ParseColor(test.in)
		if test.err {
			if err == nil {
				t.Errorf("ParseColor(%q): want error, got %v", test.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseColor(%q): %v", test.in, err)
		} else if got != test.want {
			t.Errorf("ParseColor(%q) = %v, want %v", test.in, got, test.want)
		}
	}
}

func TestStyleFallback(t *testing.T) {
	sty := DefaultStyle()
	if got := sty.AlgorithmColor("Zstd"); got != sty.ValueColor("huge_v") {
		t.Errorf("unknown labels get different fallback colors")
	}
	if d := sty.Dashes("Zstd"); d != nil {
		t.Errorf("unknown algorithm dashes %v, want solid", d)
	}
	if d, err := ParseDashes("dotted"); err != nil || len(d) != 2 {
		t.Errorf("ParseDashes(dotted) = %v, %v", d, err)
	}
	if _, err := ParseDashes("wavy"); err == nil {
		t.Errorf("ParseDashes(wavy) succeeded")
	}
}
