// Copyright 2026 The Compstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trialseries

import (
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"

	"github.com/bitpacker/compstat/trialfmt"
	"github.com/bitpacker/compstat/trialmath"
	"github.com/bitpacker/compstat/trialproc"
)

// A Combo is an (algorithm, operation) pair that gets its own set of
// charts.
type Combo struct {
	Algorithm trialfmt.Algorithm
	Operation trialfmt.Operation
}

func (c Combo) String() string {
	return string(c.Algorithm) + "-" + string(c.Operation)
}

// Query returns the query selecting the trials of c.
func (c Combo) Query() trialproc.Query {
	return trialproc.Query{Operation: c.Operation, Algorithm: c.Algorithm}
}

// DefaultCombos returns every combination of a known operation and a
// known algorithm, grouped by operation.
func DefaultCombos() []Combo {
	var combos []Combo
	for _, op := range trialfmt.Operations {
		for _, alg := range trialfmt.Algorithms {
			combos = append(combos, Combo{alg, op})
		}
	}
	return combos
}

// Options configures Build.
type Options struct {
	// Combos lists the combinations to report on individually.
	// If nil, Build uses DefaultCombos.
	Combos []Combo

	// TrendOperations lists the operations that get time trend and
	// time-by-category charts. If nil, Build uses Compress and
	// Decompress.
	TrendOperations []trialfmt.Operation
}

// A Scatter is the raw points of one value size category.
type Scatter struct {
	ValueSize trialfmt.ValueSize
	Points    []trialmath.XY
}

// A Series is one line of a trend chart: the mean of a metric against
// uncompressed size for one algorithm and, optionally, one value size.
type Series struct {
	Algorithm trialfmt.Algorithm
	ValueSize trialfmt.ValueSize // empty if averaged over all value sizes
	Points    []trialmath.XY

	// Curve is the line to draw. It is smoothed for smoothed trends
	// and holds Points otherwise.
	Curve trialmath.Curve
}

// A Trend is a set of series sharing axes.
type Trend struct {
	Series []*Series
	Range  trialmath.Range // value axis range; HasHi is false if unclipped
}

// A Bars is a grouped bar chart: one bar per algorithm within each
// category.
type Bars struct {
	Categories trialproc.Order
	Groups     []BarGroup
}

// A BarGroup is the bars of one algorithm, one Cell per category.
type BarGroup struct {
	Algorithm trialfmt.Algorithm
	Cells     []trialproc.Cell
}

// A Heatmap is the mean duration by array size (rows) and value size
// (columns). Rows and columns with no data at all are left out.
type Heatmap struct {
	Rows  []string
	Cols  []string
	Cells [][]trialproc.Cell // [row][col]
}

// An EfficiencyPoint places one Compress trial by time and ratio.
type EfficiencyPoint struct {
	Algorithm trialfmt.Algorithm
	Millis    float64
	Ratio     float64
	Size      int64

	// Scale is the marker area, from MinMarker for the smallest
	// input to MaxMarker for the largest.
	Scale float64
}

// Marker area bounds for efficiency points.
const (
	MinMarker = 20
	MaxMarker = 200
)

// A ComboReport holds the individual charts of one Combo.
type ComboReport struct {
	Combo

	// N is the number of trials of this combo. If 0, every other
	// field is empty.
	N int

	// Time is the duration of each timed trial against its
	// uncompressed size, with a clipped value range.
	Time      []Scatter
	TimeRange trialmath.Range

	// Size is the compressed against uncompressed size of each
	// trial. Only Compress combos have it. MaxSize is the end of
	// the zero-compression diagonal.
	Size    []Scatter
	MaxSize int64

	Phases  *PhaseTable
	Heatmap *Heatmap
}

// A Report holds every chart-ready series derived from a set of
// trials. Absent or empty members mean there was no data.
type Report struct {
	Combos []*ComboReport

	TimeTrend   map[trialfmt.Operation]*Trend
	TimeByValue map[trialfmt.Operation]*Trend
	TimeByArray map[trialfmt.Operation]*Bars

	SizeByValue  *Trend
	Ratio        []RatioPoint
	RatioTrend   *Trend
	RatioByValue *Bars
	Efficiency   []EfficiencyPoint
}

// Build derives a Report from trials.
func Build(trials []*trialfmt.Trial, opts Options) *Report {
	combos := opts.Combos
	if combos == nil {
		combos = DefaultCombos()
	}
	ops := opts.TrendOperations
	if ops == nil {
		ops = []trialfmt.Operation{trialfmt.Compress, trialfmt.Decompress}
	}

	r := &Report{
		TimeTrend:   make(map[trialfmt.Operation]*Trend),
		TimeByValue: make(map[trialfmt.Operation]*Trend),
		TimeByArray: make(map[trialfmt.Operation]*Bars),
	}
	for _, c := range combos {
		r.Combos = append(r.Combos, buildCombo(trials, c))
	}
	for _, op := range ops {
		timed := trialproc.Select(trials, trialproc.Query{Operation: op, TimeBased: true})
		if len(timed) == 0 {
			continue
		}
		r.TimeTrend[op] = TimeTrend(timed)
		r.TimeByValue[op] = TimeByValue(timed)
		r.TimeByArray[op] = TimeByArray(timed)
	}

	compress := trialproc.Select(trials, trialproc.Query{Operation: trialfmt.Compress})
	if len(compress) > 0 {
		r.SizeByValue = SizeByValue(compress)
		r.Ratio = Ratios(compress)
		r.RatioTrend = RatioTrend(r.Ratio)
		r.RatioByValue = RatioByValue(compress)
		r.Efficiency = Efficiency(compress)
	}
	return r
}

func buildCombo(trials []*trialfmt.Trial, c Combo) *ComboReport {
	cr := &ComboReport{Combo: c}
	sel := trialproc.Select(trials, c.Query())
	cr.N = len(sel)
	if cr.N == 0 {
		return cr
	}

	timed := trialproc.Select(sel, trialproc.Query{TimeBased: true})
	cr.Time = scatter(timed, func(t *trialfmt.Trial) trialmath.XY {
		return trialmath.XY{X: float64(t.UncompressedSize), Y: t.DurationMillis()}
	})
	cr.TimeRange = trialmath.ClipRange(durations(timed))

	if c.Operation == trialfmt.Compress {
		cr.Size = scatter(sel, func(t *trialfmt.Trial) trialmath.XY {
			return trialmath.XY{X: float64(t.UncompressedSize), Y: float64(t.CompressedSize)}
		})
		for _, t := range sel {
			if t.UncompressedSize > cr.MaxSize {
				cr.MaxSize = t.UncompressedSize
			}
		}
	}

	cr.Phases = Phases(sel, FieldArraySize)
	cr.Heatmap = HeatmapOf(timed)
	return cr
}

// scatter splits trials into one Scatter per known value size, in
// reference order.
func scatter(trials []*trialfmt.Trial, xy func(*trialfmt.Trial) trialmath.XY) []Scatter {
	var out []Scatter
	for _, vs := range trialfmt.ValueSizes {
		var pts []trialmath.XY
		for _, t := range trials {
			if t.ValueSize == vs {
				pts = append(pts, xy(t))
			}
		}
		if len(pts) > 0 {
			out = append(out, Scatter{vs, pts})
		}
	}
	return out
}

func durations(trials []*trialfmt.Trial) []float64 {
	ds := make([]float64, len(trials))
	for i, t := range trials {
		ds[i] = t.DurationMillis()
	}
	return ds
}

// splitSeries turns points sorted by (algorithm, [value size,] size)
// into one Series per run of equal (algorithm, value size), keeping
// runs with at least minPoints points.
func splitSeries(points []Point, minPoints int, smooth bool) []*Series {
	var out []*Series
	flush := func(s *Series) {
		if s == nil || len(s.Points) < minPoints {
			return
		}
		if smooth {
			xs := make([]float64, len(s.Points))
			ys := make([]float64, len(s.Points))
			for i, p := range s.Points {
				xs[i], ys[i] = p.X, p.Y
			}
			s.Curve = trialmath.Smooth(xs, ys)
		} else {
			s.Curve = trialmath.Curve{XY: s.Points}
		}
		out = append(out, s)
	}
	var cur *Series
	for _, p := range points {
		if cur == nil || cur.Algorithm != p.Key.Algorithm || cur.ValueSize != p.Key.ValueSize {
			flush(cur)
			cur = &Series{Algorithm: p.Key.Algorithm, ValueSize: p.Key.ValueSize}
		}
		cur.Points = append(cur.Points, trialmath.XY{X: float64(p.Key.UncompressedSize), Y: p.Value})
	}
	flush(cur)
	return out
}

// knownSeries drops points whose algorithm or value size is not known.
func knownSeries(points []Point) []Point {
	var out []Point
	for _, p := range points {
		if p.Key.Algorithm.IsKnown() && p.Key.ValueSize.IsKnown() {
			out = append(out, p)
		}
	}
	return out
}

// TimeTrend returns the mean duration of timed trials against
// uncompressed size, one smoothed series per algorithm averaged over
// all value sizes. Its range is clipped at the 95th percentile of the
// individual durations.
func TimeTrend(timed []*trialfmt.Trial) *Trend {
	points := Aggregate(timed, []Field{FieldAlgorithm, FieldUncompressedSize}, MetricDurationMillis)
	return &Trend{
		Series: splitSeries(points, 2, true),
		Range:  trialmath.ClipRange(durations(timed)),
	}
}

// TimeByValue returns the mean duration of timed trials against
// uncompressed size, one unsmoothed series per algorithm and value
// size.
func TimeByValue(timed []*trialfmt.Trial) *Trend {
	points := Aggregate(timed, []Field{FieldAlgorithm, FieldValueSize, FieldUncompressedSize}, MetricDurationMillis)
	return &Trend{
		Series: splitSeries(knownSeries(points), 2, false),
		Range:  trialmath.ClipRange(durations(timed)),
	}
}

// SizeByValue returns the mean compressed size of Compress trials
// against uncompressed size, one unsmoothed series per algorithm and
// value size.
func SizeByValue(compress []*trialfmt.Trial) *Trend {
	points := Aggregate(compress, []Field{FieldAlgorithm, FieldValueSize, FieldUncompressedSize}, MetricCompressedSize)
	return &Trend{Series: splitSeries(knownSeries(points), 2, false)}
}

// RatioTrend returns the mean compression ratio against uncompressed
// size, one smoothed series per algorithm and value size. Series need
// at least three points.
func RatioTrend(ratios []RatioPoint) *Trend {
	points := make([]Point, len(ratios))
	for i, r := range ratios {
		points[i] = Point{
			Key:   Key{Algorithm: r.Algorithm, ValueSize: r.ValueSize, UncompressedSize: r.Size},
			Value: r.Ratio,
		}
	}
	by := []Field{FieldAlgorithm, FieldValueSize, FieldUncompressedSize}
	sortPoints(points, by)
	return &Trend{Series: splitSeries(knownSeries(points), 3, true)}
}

// RatioByValue returns the mean compression ratio of Compress trials
// by value size category and algorithm.
func RatioByValue(compress []*trialfmt.Trial) *Bars {
	points := Aggregate(compress, []Field{FieldAlgorithm, FieldValueSize}, MetricCompressionRatio)
	return bars(points, FieldValueSize)
}

// TimeByArray returns the mean duration of timed trials by array size
// category and algorithm.
func TimeByArray(timed []*trialfmt.Trial) *Bars {
	points := Aggregate(timed, []Field{FieldAlgorithm, FieldArraySize}, MetricDurationMillis)
	return bars(points, FieldArraySize)
}

// bars lays points keyed by (algorithm, category) out on the reference
// order of the category field. Unknown algorithms and categories are
// left out. It returns nil if no bar remains.
func bars(points []Point, category Field) *Bars {
	byAlg := make(map[trialfmt.Algorithm]map[string]float64)
	for _, p := range points {
		m := byAlg[p.Key.Algorithm]
		if m == nil {
			m = make(map[string]float64)
			byAlg[p.Key.Algorithm] = m
		}
		m[p.Key.Label(category)] = p.Value
	}
	b := &Bars{Categories: category.order()}
	for _, alg := range trialfmt.Algorithms {
		m, ok := byAlg[alg]
		if !ok {
			continue
		}
		cells := trialproc.Reindex(b.Categories, m)
		if len(trialproc.Present(cells)) == 0 {
			continue
		}
		b.Groups = append(b.Groups, BarGroup{alg, cells})
	}
	if len(b.Groups) == 0 {
		return nil
	}
	return b
}

// HeatmapOf returns the mean duration of timed trials by array size
// and value size, or nil if no known categories have data.
func HeatmapOf(timed []*trialfmt.Trial) *Heatmap {
	points := Aggregate(timed, []Field{FieldArraySize, FieldValueSize}, MetricDurationMillis)
	byRow := make(map[string]map[string]float64)
	for _, p := range points {
		row := string(p.Key.ArraySize)
		if byRow[row] == nil {
			byRow[row] = make(map[string]float64)
		}
		byRow[row][string(p.Key.ValueSize)] = p.Value
	}

	// Reindex both axes, then drop all-missing rows and columns.
	var rows []string
	var grid [][]trialproc.Cell
	for _, row := range trialproc.ArraySizeOrder {
		cells := trialproc.Reindex(trialproc.ValueSizeOrder, byRow[row])
		if len(trialproc.Present(cells)) == 0 {
			continue
		}
		rows = append(rows, row)
		grid = append(grid, cells)
	}
	if len(rows) == 0 {
		return nil
	}
	h := &Heatmap{Rows: rows, Cells: make([][]trialproc.Cell, len(rows))}
	for j, col := range trialproc.ValueSizeOrder {
		keep := false
		for i := range rows {
			keep = keep || !grid[i][j].Missing
		}
		if !keep {
			continue
		}
		h.Cols = append(h.Cols, col)
		for i := range rows {
			h.Cells[i] = append(h.Cells[i], grid[i][j])
		}
	}
	return h
}

// Efficiency places every Compress trial of a known algorithm with a
// defined ratio by duration and ratio. Marker areas scale linearly
// with uncompressed size across all of compress.
func Efficiency(compress []*trialfmt.Trial) []EfficiencyPoint {
	if len(compress) == 0 {
		return nil
	}
	sizes := make([]float64, 0, len(compress))
	for _, t := range compress {
		sizes = append(sizes, float64(t.UncompressedSize))
	}
	lo, hi := stats.Bounds(sizes)

	var out []EfficiencyPoint
	for _, alg := range trialfmt.Algorithms {
		for _, t := range compress {
			if t.Algorithm != alg {
				continue
			}
			ratio := t.CompressionRatio()
			if math.IsNaN(ratio) {
				continue
			}
			out = append(out, EfficiencyPoint{
				Algorithm: alg,
				Millis:    t.DurationMillis(),
				Ratio:     ratio,
				Size:      t.UncompressedSize,
				Scale:     MarkerScale(float64(t.UncompressedSize), lo, hi),
			})
		}
	}
	return out
}

// MarkerScale maps size in [lo, hi] linearly to a marker area in
// [MinMarker, MaxMarker]. If lo == hi every size maps to MinMarker.
func MarkerScale(size, lo, hi float64) float64 {
	if hi <= lo {
		return MinMarker
	}
	v := MinMarker + (MaxMarker-MinMarker)*(size-lo)/(hi-lo)
	return math.Max(MinMarker, math.Min(MaxMarker, v))
}

func sortPoints(points []Point, by []Field) {
	sort.SliceStable(points, func(i, j int) bool {
		return compareKeys(points[i].Key, points[j].Key, by) < 0
	})
}
