// Copyright 2026 The Compstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trialchart

import (
	"math"
	"strconv"

	"gonum.org/v1/plot"
)

// SizeTicks labels a byte-count axis using binary prefixes, such as
// "64KiB". All labels on an axis share one prefix.
type SizeTicks struct{}

func (SizeTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	var vals []float64
	for _, t := range ticks {
		if t.Label != "" {
			vals = append(vals, t.Value)
		}
	}
	s := byteScale(vals)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = s.format(ticks[i].Value)
		}
	}
	return ticks
}

type byteScaler struct {
	prec   int
	factor float64
	prefix string
}

func (s byteScaler) format(v float64) string {
	return strconv.FormatFloat(v/s.factor, 'f', s.prec, 64) + s.prefix + "B"
}

var binaryPrefixes = []string{"Ti", "Gi", "Mi", "Ki"}

// byteScale returns the largest prefix that keeps the smallest non-zero
// magnitude in vals at or above 1. It uses one decimal digit unless
// every scaled value is whole.
func byteScale(vals []float64) byteScaler {
	var least float64
	for _, v := range vals {
		v = math.Abs(v)
		if v != 0 && (least == 0 || v < least) {
			least = v
		}
	}
	s := byteScaler{factor: 1}
	for i, p := range binaryPrefixes {
		f := math.Ldexp(1, 10*(len(binaryPrefixes)-i))
		if least >= f {
			s.factor, s.prefix = f, p
			break
		}
	}
	for _, v := range vals {
		if x := v / s.factor; x != math.Trunc(x) {
			s.prec = 1
			break
		}
	}
	return s
}
