// Copyright 2026 The Compstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gonum.org/v1/plot/vg"
	"gopkg.in/yaml.v3"

	"github.com/bitpacker/compstat/trialchart"
	"github.com/bitpacker/compstat/trialfmt"
	"github.com/bitpacker/compstat/trialproc"
	"github.com/bitpacker/compstat/trialseries"
)

// config is the contents of a -config file.
type config struct {
	Width  float64 `yaml:"width"` // inches
	Height float64 `yaml:"height"`
	Format string  `yaml:"format"`

	ValueColors     map[string]string `yaml:"valueColors"`
	AlgorithmColors map[string]string `yaml:"algorithmColors"`
	AlgorithmLines  map[string]string `yaml:"algorithmLines"`

	Charts []string `yaml:"charts"`
	Combos []string `yaml:"combos"`
}

// Chart names accepted by -charts.
var (
	comboCharts  = []string{"time", "size", "phases", "heatmap"}
	globalCharts = []string{"trend", "byvalue", "sizes", "ratio", "ratiobars", "arraybars", "efficiency"}
)

var formats = map[string]bool{"png": true, "svg": true, "pdf": true}

func loadConfig(path string) (*config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	cfg := new(config)
	// An empty file is an empty config.
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// options is a validated config.
type options struct {
	format string
	style  *trialchart.Style
	charts map[string]bool
	combos []trialseries.Combo
}

func (c *config) options() (*options, error) {
	o := &options{format: c.Format}
	if o.format == "" {
		o.format = "png"
	}
	if !formats[o.format] {
		return nil, fmt.Errorf("unknown format %q", o.format)
	}

	var err error
	if o.style, err = c.style(); err != nil {
		return nil, err
	}

	o.charts = make(map[string]bool)
	names := c.Charts
	if len(names) == 0 {
		names = append(append([]string(nil), comboCharts...), globalCharts...)
	}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if !contains(comboCharts, name) && !contains(globalCharts, name) {
			return nil, fmt.Errorf("unknown chart %q", name)
		}
		o.charts[name] = true
	}

	if len(c.Combos) > 0 {
		var qs []trialproc.Query
		for _, s := range c.Combos {
			q, err := trialproc.ParseQuery(s)
			if err != nil {
				return nil, err
			}
			qs = append(qs, q)
		}
		o.combos = selectCombos(qs)
		if len(o.combos) == 0 {
			return nil, fmt.Errorf("no combination matches %s", strings.Join(c.Combos, " or "))
		}
	}
	return o, nil
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// selectCombos returns the default combinations whose operation and
// algorithm satisfy any of qs.
func selectCombos(qs []trialproc.Query) []trialseries.Combo {
	var out []trialseries.Combo
	for _, c := range trialseries.DefaultCombos() {
		for _, q := range qs {
			if (q.Operation == "" || q.Operation == c.Operation) && (q.Algorithm == "" || q.Algorithm == c.Algorithm) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// style returns the default style with c's settings applied.
func (c *config) style() (*trialchart.Style, error) {
	sty := trialchart.DefaultStyle()
	if c.Width > 0 {
		sty.Width = vg.Length(c.Width) * vg.Inch
	}
	if c.Height > 0 {
		sty.Height = vg.Length(c.Height) * vg.Inch
	}
	for label, name := range c.ValueColors {
		clr, err := trialchart.ParseColor(name)
		if err != nil {
			return nil, fmt.Errorf("value size %s: %w", label, err)
		}
		sty.ValueColors[trialfmt.ValueSize(label)] = clr
	}
	for label, name := range c.AlgorithmColors {
		clr, err := trialchart.ParseColor(name)
		if err != nil {
			return nil, fmt.Errorf("algorithm %s: %w", label, err)
		}
		sty.AlgorithmColors[trialfmt.Algorithm(label)] = clr
	}
	for label, name := range c.AlgorithmLines {
		d, err := trialchart.ParseDashes(name)
		if err != nil {
			return nil, fmt.Errorf("algorithm %s: %w", label, err)
		}
		sty.AlgorithmDashes[trialfmt.Algorithm(label)] = d
	}
	return sty, nil
}
