// Copyright 2026 The Compstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trialchart

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gonum.org/v1/plot/vg"

	"github.com/bitpacker/compstat/trialfmt"
)

// Style holds the colors, dash patterns and figure size shared by all
// charts.
type Style struct {
	ValueColors     map[trialfmt.ValueSize]color.Color
	AlgorithmColors map[trialfmt.Algorithm]color.Color
	AlgorithmDashes map[trialfmt.Algorithm][]vg.Length

	Width, Height vg.Length
}

// Named dash patterns.
var dashes = map[string][]vg.Length{
	"solid":   nil,
	"dashed":  {vg.Points(6), vg.Points(3)},
	"dotted":  {vg.Points(1), vg.Points(2)},
	"dashdot": {vg.Points(6), vg.Points(2), vg.Points(1), vg.Points(2)},
}

// DefaultStyle returns the standard chart style.
func DefaultStyle() *Style {
	return &Style{
		ValueColors: map[trialfmt.ValueSize]color.Color{
			trialfmt.SmallV:         colornames.Blue,
			trialfmt.SmallMediumV:   colornames.Cyan,
			trialfmt.MediumV:        colornames.Green,
			trialfmt.MediumLargeV:   colornames.Orange,
			trialfmt.LargeV:         colornames.Red,
			trialfmt.MixedV:         colornames.Purple,
			trialfmt.SmallLargeMixV: colornames.Pink,
		},
		AlgorithmColors: map[trialfmt.Algorithm]color.Color{
			trialfmt.NonSpanning: colornames.Blue,
			trialfmt.Spanning:    colornames.Green,
			trialfmt.Overflow:    colornames.Red,
		},
		AlgorithmDashes: map[trialfmt.Algorithm][]vg.Length{
			trialfmt.NonSpanning: dashes["solid"],
			trialfmt.Spanning:    dashes["dashed"],
			trialfmt.Overflow:    dashes["dotted"],
		},
		Width:  30 * vg.Centimeter,
		Height: 20 * vg.Centimeter,
	}
}

// ValueColor returns the color of value size vs, or gray if vs has no
// color.
func (s *Style) ValueColor(vs trialfmt.ValueSize) color.Color {
	if c, ok := s.ValueColors[vs]; ok {
		return c
	}
	return colornames.Gray
}

// AlgorithmColor returns the color of alg, or gray if alg has no
// color.
func (s *Style) AlgorithmColor(alg trialfmt.Algorithm) color.Color {
	if c, ok := s.AlgorithmColors[alg]; ok {
		return c
	}
	return colornames.Gray
}

// Dashes returns the dash pattern of alg. Algorithms without one are
// drawn solid.
func (s *Style) Dashes(alg trialfmt.Algorithm) []vg.Length {
	return s.AlgorithmDashes[alg]
}

// ParseColor parses an SVG color name such as "orange" or a hex color
// of the form "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (color.Color, error) {
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return c, nil
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || (len(hex) != 6 && len(hex) != 8) {
		return nil, fmt.Errorf("unknown color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("bad color %q", s)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// ParseDashes returns the dash pattern named by s: "solid", "dashed",
// "dotted" or "dashdot".
func ParseDashes(s string) ([]vg.Length, error) {
	d, ok := dashes[s]
	if !ok {
		return nil, fmt.Errorf("unknown line style %q", s)
	}
	return d, nil
}
