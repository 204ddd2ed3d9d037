// Copyright 2026 The Compstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trialseries

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV writes points as CSV to out. The header row names the
// fields in by, then "mean <metric>" and "n".
func WriteCSV(out io.Writer, points []Point, by []Field, m Metric) error {
	header := make([]string, 0, len(by)+2)
	for _, f := range by {
		header = append(header, f.String())
	}
	header = append(header, "mean "+m.String(), countCol)

	tab := [][]string{header}
	for _, p := range points {
		row := make([]string, 0, len(header))
		for _, f := range by {
			row = append(row, p.Key.Label(f))
		}
		row = append(row, strof(p.Value), strconv.Itoa(p.N))
		tab = append(tab, row)
	}
	return writeAll(out, tab)
}

// WritePhaseCSV writes pt as CSV to out: one row per key with the
// mean time of each phase in milliseconds and the row total.
func WritePhaseCSV(out io.Writer, pt *PhaseTable) error {
	header := append([]string{pt.Field.String()}, pt.Phases...)
	header = append(header, "total")
	tab := [][]string{header}
	for i, key := range pt.Keys {
		row := []string{key}
		for _, v := range pt.Cells[i] {
			row = append(row, strof(v))
		}
		row = append(row, strof(pt.Totals[i]))
		tab = append(tab, row)
	}
	return writeAll(out, tab)
}

func writeAll(out io.Writer, tab [][]string) error {
	csvw := csv.NewWriter(out)
	// WriteAll flushes.
	return csvw.WriteAll(tab)
}

func strof(x float64) string {
	return fmt.Sprintf("%f", x)
}
