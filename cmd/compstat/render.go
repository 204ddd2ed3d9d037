// Copyright 2026 The Compstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gonum.org/v1/plot"

	"github.com/bitpacker/compstat/trialchart"
	"github.com/bitpacker/compstat/trialfmt"
	"github.com/bitpacker/compstat/trialmath"
	"github.com/bitpacker/compstat/trialproc"
	"github.com/bitpacker/compstat/trialseries"
)

type renderer struct {
	dir    string
	format string
	sty    *trialchart.Style
	charts map[string]bool
	log    *zap.SugaredLogger
	out    io.Writer // receives the name of every file written
}

const (
	sizeLabel  = "Uncompressed size"
	timeLabel  = "Time (ms)"
	ratioLabel = "Compression ratio"
)

var trendOps = []trialfmt.Operation{trialfmt.Compress, trialfmt.Decompress}

func (r *renderer) wrote(file string) {
	fmt.Fprintln(r.out, filepath.Join(r.dir, file))
}

// save writes p as name plus the output format's extension and adds it
// to charts.
func (r *renderer) save(charts *[]entry, p *plot.Plot, name, title string) error {
	file := name + "." + r.format
	if err := trialchart.Save(p, r.sty, filepath.Join(r.dir, file)); err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	r.log.Debugw("wrote chart", "file", file)
	r.wrote(file)
	*charts = append(*charts, entry{Title: title, File: file})
	return nil
}

// clip limits p's Y axis to rng and reports the limit.
func (r *renderer) clip(p *plot.Plot, rng trialmath.Range) {
	if !rng.HasHi {
		return
	}
	p.Y.Min, p.Y.Max = 0, rng.Hi
	r.log.Infof("Y-axis limited to: %.2f ms (95th Percentile: %.2f ms)", rng.Hi, rng.P95)
}

func fileName(parts ...string) string {
	return strings.ToLower(strings.Join(parts, "_"))
}

// render draws every selected chart of rep.
func (r *renderer) render(rep *trialseries.Report) (*index, error) {
	idx := new(index)
	for _, cr := range rep.Combos {
		sec, err := r.renderCombo(cr)
		if err != nil {
			return nil, err
		}
		idx.Combos = append(idx.Combos, sec)
	}
	if err := r.renderGlobal(&idx.Global, rep); err != nil {
		return nil, err
	}
	return idx, nil
}

func (r *renderer) renderCombo(cr *trialseries.ComboReport) (*section, error) {
	name := cr.Combo.String()
	sec := &section{Name: name, N: cr.N, Phases: phaseView(cr.Phases)}
	if cr.N == 0 {
		r.log.Infof("no data for %s", name)
		return sec, nil
	}
	r.log.Debugw("combo", "combo", name, "trials", cr.N)

	if r.charts["time"] {
		if len(cr.Time) == 0 {
			r.log.Infof("no timing data for %s", name)
		} else {
			p, err := trialchart.Scatter(cr.Time, trialchart.Titles{Title: name + ": time vs uncompressed size", X: sizeLabel, Y: timeLabel}, r.sty)
			if err != nil {
				return nil, err
			}
			r.clip(p, cr.TimeRange)
			if err := r.save(&sec.Charts, p, fileName(name, "time"), "Time"); err != nil {
				return nil, err
			}
		}
	}

	if r.charts["size"] && cr.Size != nil {
		p, err := trialchart.Scatter(cr.Size, trialchart.Titles{Title: name + ": compressed vs uncompressed size", X: sizeLabel, Y: "Compressed size"}, r.sty)
		if err != nil {
			return nil, err
		}
		if err := trialchart.Diagonal(p, float64(cr.MaxSize)); err != nil {
			return nil, err
		}
		p.Y.Tick.Marker = trialchart.SizeTicks{}
		if err := r.save(&sec.Charts, p, fileName(name, "size"), "Compressed size"); err != nil {
			return nil, err
		}
	}

	if r.charts["phases"] {
		if cr.Phases == nil {
			r.log.Infof("no phase data for %s", name)
		} else {
			p, err := trialchart.Phases(cr.Phases, trialchart.Titles{Title: name + ": time by phase", X: "Array size", Y: timeLabel})
			if err != nil {
				return nil, err
			}
			if err := r.save(&sec.Charts, p, fileName(name, "phases"), "Phases"); err != nil {
				return nil, err
			}
		}
	}

	if r.charts["heatmap"] && cr.Heatmap != nil {
		p, err := trialchart.Heatmap(cr.Heatmap, trialchart.Titles{Title: name + ": mean time (ms)", X: "Value size", Y: "Array size"})
		if err != nil {
			return nil, err
		}
		if err := r.save(&sec.Charts, p, fileName(name, "heatmap"), "Time heatmap"); err != nil {
			return nil, err
		}
	}
	return sec, nil
}

func (r *renderer) renderGlobal(charts *[]entry, rep *trialseries.Report) error {
	for _, op := range trendOps {
		o := string(op)
		if r.charts["trend"] {
			if tr := rep.TimeTrend[op]; tr == nil {
				r.log.Infof("no data for %s time trend", o)
			} else {
				p, err := trialchart.Trend(tr, trialchart.Titles{Title: o + " time vs uncompressed size", X: sizeLabel, Y: timeLabel}, r.sty)
				if err != nil {
					return err
				}
				r.clip(p, tr.Range)
				if err := r.save(charts, p, fileName(o, "trend"), o+" time trend"); err != nil {
					return err
				}
			}
		}
		if r.charts["byvalue"] {
			if tr := rep.TimeByValue[op]; tr == nil || len(tr.Series) == 0 {
				r.log.Infof("no data for %s time by value size", o)
			} else {
				p, err := trialchart.Trend(tr, trialchart.Titles{Title: o + " time by value size", X: sizeLabel, Y: timeLabel}, r.sty)
				if err != nil {
					return err
				}
				r.clip(p, tr.Range)
				if err := r.save(charts, p, fileName(o, "byvalue"), o+" time by value size"); err != nil {
					return err
				}
			}
		}
		if r.charts["arraybars"] {
			if b := rep.TimeByArray[op]; b == nil {
				r.log.Infof("no data for %s time by array size", o)
			} else {
				p, err := trialchart.Bars(b, trialchart.Titles{Title: o + " time by array size", X: "Array size", Y: timeLabel}, r.sty)
				if err != nil {
					return err
				}
				if err := r.save(charts, p, fileName(o, "arraybars"), o+" time by array size"); err != nil {
					return err
				}
			}
		}
	}

	if r.charts["sizes"] {
		if tr := rep.SizeByValue; tr == nil || len(tr.Series) == 0 {
			r.log.Infof("no data for compressed size by value size")
		} else {
			p, err := trialchart.Trend(tr, trialchart.Titles{Title: "Compressed size by value size", X: sizeLabel, Y: "Compressed size"}, r.sty)
			if err != nil {
				return err
			}
			p.Y.Tick.Marker = trialchart.SizeTicks{}
			if err := r.save(charts, p, "sizes", "Compressed size by value size"); err != nil {
				return err
			}
		}
	}

	if r.charts["ratio"] {
		if tr := rep.RatioTrend; tr == nil || len(tr.Series) == 0 {
			r.log.Infof("no data for compression ratio trend")
		} else {
			p, err := trialchart.Trend(tr, trialchart.Titles{Title: "Compression ratio vs uncompressed size", X: sizeLabel, Y: ratioLabel}, r.sty)
			if err != nil {
				return err
			}
			p.Y.Min, p.Y.Max = 0, 1.05
			if err := r.save(charts, p, "ratio", "Compression ratio trend"); err != nil {
				return err
			}
		}
	}

	if r.charts["ratiobars"] {
		if b := rep.RatioByValue; b == nil {
			r.log.Infof("no data for compression ratio by value size")
		} else {
			p, err := trialchart.Bars(b, trialchart.Titles{Title: "Compression ratio by value size", X: "Value size", Y: ratioLabel}, r.sty)
			if err != nil {
				return err
			}
			p.Y.Min, p.Y.Max = 0, 1.05
			if err := r.save(charts, p, "ratiobars", "Compression ratio by value size"); err != nil {
				return err
			}
		}
	}

	if r.charts["efficiency"] {
		if len(rep.Efficiency) == 0 {
			r.log.Infof("no data for compression efficiency")
		} else {
			p, err := trialchart.Efficiency(rep.Efficiency, trialchart.Titles{Title: "Compression efficiency", X: timeLabel, Y: ratioLabel}, r.sty)
			if err != nil {
				return err
			}
			if err := r.save(charts, p, "efficiency", "Compression efficiency"); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeCSV writes the aggregated time, ratio and size series and the
// phase table of each combination.
func (r *renderer) writeCSV(trials []*trialfmt.Trial, rep *trialseries.Report) error {
	bySize := []trialseries.Field{trialseries.FieldAlgorithm, trialseries.FieldValueSize, trialseries.FieldUncompressedSize}
	timed := trialproc.Select(trials, trialproc.Query{TimeBased: true})
	compress := trialproc.Select(trials, trialproc.Query{Operation: trialfmt.Compress})

	timeBy := append([]trialseries.Field{trialseries.FieldOperation}, bySize...)
	exports := []struct {
		file   string
		trials []*trialfmt.Trial
		by     []trialseries.Field
		m      trialseries.Metric
	}{
		{"time.csv", timed, timeBy, trialseries.MetricDurationMillis},
		{"ratio.csv", compress, bySize, trialseries.MetricCompressionRatio},
		{"size.csv", compress, bySize, trialseries.MetricCompressedSize},
	}
	for _, e := range exports {
		points := trialseries.Aggregate(e.trials, e.by, e.m)
		if err := r.create(e.file, func(w io.Writer) error {
			return trialseries.WriteCSV(w, points, e.by, e.m)
		}); err != nil {
			return err
		}
	}
	for _, cr := range rep.Combos {
		if cr.Phases == nil {
			continue
		}
		pt := cr.Phases
		if err := r.create(fileName(cr.Combo.String(), "phases")+".csv", func(w io.Writer) error {
			return trialseries.WritePhaseCSV(w, pt)
		}); err != nil {
			return err
		}
	}
	return nil
}

// create writes file in the output directory using write.
func (r *renderer) create(file string, write func(io.Writer) error) error {
	f, err := os.Create(filepath.Join(r.dir, file))
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", file, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	r.wrote(file)
	return nil
}
