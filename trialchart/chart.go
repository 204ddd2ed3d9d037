// Copyright 2026 The Compstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package trialchart draws the series of a trialseries.Report as
// gonum plots.
//
// Every function returns a *plot.Plot that the caller may adjust
// further (for example, to fix an axis range) before writing it with
// Save.
package trialchart

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/bitpacker/compstat/trialfmt"
	"github.com/bitpacker/compstat/trialmath"
	"github.com/bitpacker/compstat/trialseries"
)

// Titles are the chart title and axis labels.
type Titles struct {
	Title, X, Y string
}

const (
	pointRad  = 2.5
	barWidth  = 18
	stackBar  = 30
	smoothW   = 3
	unsmoothW = 1.5
)

func newPlot(t Titles) *plot.Plot {
	p := plot.New()
	p.Title.Text = t.Title
	p.Title.TextStyle.Font.Size = 16
	p.X.Label.Text = t.X
	p.Y.Label.Text = t.Y
	p.Legend.Top = true

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	p.Add(grid)
	return p
}

func xys(pts []trialmath.XY) plotter.XYs {
	out := make(plotter.XYs, len(pts))
	for i, pt := range pts {
		out[i].X, out[i].Y = pt.X, pt.Y
	}
	return out
}

// fade returns c with alpha a.
func fade(c color.Color, a uint8) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = a
	return n
}

func rotateX(p *plot.Plot) {
	p.X.Tick.Label.Rotation = -math.Pi / 8
	p.X.Tick.Label.YAlign = draw.YTop
	p.X.Tick.Label.XAlign = draw.XLeft
}

// Trend draws one line per series of tr over its raw points. Series
// averaged over all value sizes are colored by algorithm. Series of a
// single value size are colored by value size and dashed by
// algorithm. If tr's range is clipped, the Y axis spans [0, Hi].
func Trend(tr *trialseries.Trend, t Titles, sty *Style) (*plot.Plot, error) {
	p := newPlot(t)
	for _, s := range tr.Series {
		clr := sty.AlgorithmColor(s.Algorithm)
		name := string(s.Algorithm)
		if s.ValueSize != "" {
			clr = sty.ValueColor(s.ValueSize)
			name += " " + string(s.ValueSize)
		}

		line, err := plotter.NewLine(xys(s.Curve.XY))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		line.LineStyle.Color = clr
		line.LineStyle.Dashes = sty.Dashes(s.Algorithm)
		line.LineStyle.Width = vg.Points(unsmoothW)
		if s.Curve.Smoothed {
			line.LineStyle.Width = vg.Points(smoothW)
		}

		pts, err := plotter.NewScatter(xys(s.Points))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		pts.GlyphStyle.Color = fade(clr, 0x99)
		pts.GlyphStyle.Radius = vg.Points(pointRad)
		pts.GlyphStyle.Shape = draw.CircleGlyph{}

		p.Add(line, pts)
		p.Legend.Add(name, line)
	}
	p.X.Tick.Marker = SizeTicks{}
	if tr.Range.HasHi {
		p.Y.Min, p.Y.Max = 0, tr.Range.Hi
	}
	return p, nil
}

// Scatter draws the raw points of each value size.
func Scatter(scatters []trialseries.Scatter, t Titles, sty *Style) (*plot.Plot, error) {
	p := newPlot(t)
	for _, sc := range scatters {
		s, err := plotter.NewScatter(xys(sc.Points))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sc.ValueSize, err)
		}
		s.GlyphStyle.Color = fade(sty.ValueColor(sc.ValueSize), 0x99)
		s.GlyphStyle.Radius = vg.Points(pointRad)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		p.Legend.Add(string(sc.ValueSize), s)
	}
	p.X.Tick.Marker = SizeTicks{}
	return p, nil
}

// Diagonal adds the y = x line from the origin to (max, max), the
// compressed size of an input that does not compress at all.
func Diagonal(p *plot.Plot, max float64) error {
	line, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: max, Y: max}})
	if err != nil {
		return err
	}
	line.LineStyle.Color = color.Gray{0x80}
	line.LineStyle.Dashes = dashes["dashed"]
	p.Add(line)
	p.Legend.Add("No compression", line)
	return nil
}

// Bars draws one bar per algorithm within each category of b. Missing
// cells have no bar.
func Bars(b *trialseries.Bars, t Titles, sty *Style) (*plot.Plot, error) {
	p := newPlot(t)
	w := vg.Points(barWidth)
	n := len(b.Groups)
	for i, g := range b.Groups {
		vals := make(plotter.Values, len(g.Cells))
		for j, c := range g.Cells {
			if !c.Missing {
				vals[j] = c.Value
			}
		}
		bc, err := plotter.NewBarChart(vals, w)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", g.Algorithm, err)
		}
		bc.Color = sty.AlgorithmColor(g.Algorithm)
		bc.LineStyle.Width = 0
		bc.Offset = w*vg.Length(i) - w*vg.Length(n-1)/2
		p.Add(bc)
		p.Legend.Add(string(g.Algorithm), bc)
	}
	p.NominalX(b.Categories...)
	rotateX(p)
	return p, nil
}

// Phases draws pt as stacked bars, one stack per key, labeled with
// the stack total.
func Phases(pt *trialseries.PhaseTable, t Titles) (*plot.Plot, error) {
	colors, err := phaseColors(len(pt.Phases))
	if err != nil {
		return nil, err
	}
	p := newPlot(t)
	var below *plotter.BarChart
	for j, phase := range pt.Phases {
		vals := make(plotter.Values, len(pt.Keys))
		for i := range pt.Keys {
			vals[i] = pt.Cells[i][j]
		}
		bc, err := plotter.NewBarChart(vals, vg.Points(stackBar))
		if err != nil {
			return nil, fmt.Errorf("phase %s: %w", phase, err)
		}
		bc.Color = colors[j%len(colors)]
		bc.LineStyle.Width = 0
		if below != nil {
			bc.StackOn(below)
		}
		p.Add(bc)
		p.Legend.Add(phase, bc)
		below = bc
	}

	pad := pt.MaxTotal() * 0.01
	totals := plotter.XYLabels{
		XYs:    make(plotter.XYs, len(pt.Keys)),
		Labels: make([]string, len(pt.Keys)),
	}
	for i, total := range pt.Totals {
		totals.XYs[i].X, totals.XYs[i].Y = float64(i), total+pad
		totals.Labels[i] = fmt.Sprintf("%.2f ms", total)
	}
	labels, err := plotter.NewLabels(totals)
	if err != nil {
		return nil, err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = draw.XCenter
	}
	p.Add(labels)

	p.NominalX(pt.Keys...)
	rotateX(p)
	return p, nil
}

// phaseColors returns n qualitative colors, repeating once the palette
// runs out.
func phaseColors(n int) ([]color.Color, error) {
	k := n
	if k < 3 {
		k = 3
	} else if k > 8 {
		k = 8
	}
	pal, err := brewer.GetPalette(brewer.TypeQualitative, "Set2", k)
	if err != nil {
		return nil, err
	}
	return pal.Colors(), nil
}

// heatGrid adapts a Heatmap to plotter.GridXYZ. Row 0 is drawn at the
// top.
type heatGrid struct {
	h *trialseries.Heatmap
}

func (g heatGrid) Dims() (c, r int) { return len(g.h.Cols), len(g.h.Rows) }
func (g heatGrid) X(c int) float64  { return float64(c) }
func (g heatGrid) Y(r int) float64  { return float64(len(g.h.Rows) - 1 - r) }

func (g heatGrid) Z(c, r int) float64 {
	cell := g.h.Cells[r][c]
	if cell.Missing {
		return math.NaN()
	}
	return cell.Value
}

// Heatmap draws h on a yellow-to-red scale with each present cell
// annotated by its value. Missing cells are left white.
func Heatmap(h *trialseries.Heatmap, t Titles) (*plot.Plot, error) {
	pal, err := brewer.GetPalette(brewer.TypeSequential, "YlOrRd", 9)
	if err != nil {
		return nil, err
	}
	g := heatGrid{h}
	hm := plotter.NewHeatMap(g, pal)
	hm.NaN = color.White
	if hm.Min == hm.Max {
		hm.Max = hm.Min + 1
	}

	p := newPlot(t)
	p.Add(hm)

	var notes plotter.XYLabels
	cols, rows := g.Dims()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if z := g.Z(c, r); !math.IsNaN(z) {
				notes.XYs = append(notes.XYs, plotter.XY{X: g.X(c), Y: g.Y(r)})
				notes.Labels = append(notes.Labels, fmt.Sprintf("%.2f", z))
			}
		}
	}
	labels, err := plotter.NewLabels(notes)
	if err != nil {
		return nil, err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(labels)

	rowNames := make([]string, rows)
	for r, name := range h.Rows {
		rowNames[rows-1-r] = name
	}
	p.NominalX(h.Cols...)
	p.NominalY(rowNames...)
	return p, nil
}

// markerRadius converts a marker area in square points to a radius.
func markerRadius(area float64) vg.Length {
	return vg.Points(math.Sqrt(area) / 2)
}

// Efficiency draws one point per compression trial, duration against
// ratio, sized by uncompressed size and colored by algorithm. The
// axes start at 0 and ratios run up to 1.05.
func Efficiency(points []trialseries.EfficiencyPoint, t Titles, sty *Style) (*plot.Plot, error) {
	p := newPlot(t)
	for _, alg := range trialfmt.Algorithms {
		var pts plotter.XYs
		var scales []float64
		for _, pt := range points {
			if pt.Algorithm == alg {
				pts = append(pts, plotter.XY{X: pt.Millis, Y: pt.Ratio})
				scales = append(scales, pt.Scale)
			}
		}
		if len(pts) == 0 {
			continue
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", alg, err)
		}
		clr := fade(sty.AlgorithmColor(alg), 0x99)
		s.GlyphStyle = draw.GlyphStyle{Color: clr, Radius: markerRadius(trialseries.MinMarker), Shape: draw.CircleGlyph{}}
		s.GlyphStyleFunc = func(i int) draw.GlyphStyle {
			return draw.GlyphStyle{Color: clr, Radius: markerRadius(scales[i]), Shape: draw.CircleGlyph{}}
		}
		p.Add(s)
		p.Legend.Add(string(alg), s)
	}
	p.X.Min = 0
	p.Y.Min, p.Y.Max = 0, 1.05
	return p, nil
}

// Save writes p to path in the format named by its extension (png,
// svg or pdf) at the size given by sty.
func Save(p *plot.Plot, sty *Style, path string) error {
	return p.Save(sty.Width, sty.Height, path)
}
