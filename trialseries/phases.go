// Copyright 2026 The Compstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trialseries

import (
	"sort"
	"strconv"

	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"

	"github.com/bitpacker/compstat/trialfmt"
)

// A PhaseTable breaks the average time of an operation down into its
// phases, one row per key value.
type PhaseTable struct {
	// Field is the field the rows are keyed by.
	Field Field

	// Keys labels the rows.
	Keys []string

	// Phases names the columns in the order they were first
	// observed.
	Phases []string

	// Cells holds the mean time in milliseconds of each phase within
	// each row, indexed [row][phase]. A phase not observed in a row
	// is 0.
	Cells [][]float64

	// Totals holds the sum of each row of Cells.
	Totals []float64
}

// Cell returns the mean time of phase in the row labeled key, and
// whether the table has such a row and column.
func (pt *PhaseTable) Cell(key, phase string) (float64, bool) {
	row, col := -1, -1
	for i, k := range pt.Keys {
		if k == key {
			row = i
		}
	}
	for j, p := range pt.Phases {
		if p == phase {
			col = j
		}
	}
	if row < 0 || col < 0 {
		return 0, false
	}
	return pt.Cells[row][col], true
}

// MaxTotal returns the largest row total, or 0 for an empty table.
func (pt *PhaseTable) MaxTotal() float64 {
	max := 0.0
	for _, t := range pt.Totals {
		if t > max {
			max = t
		}
	}
	return max
}

// Column names for the exploded phase table. Phases are pivoted under
// the names returned by phaseCol, which never start with a dot.
const (
	phaseKeyCol  = ".key"
	phaseNameCol = ".phase"
	phaseMillis  = ".ms"
	phaseMeanCol = "mean " + phaseMillis
)

// Phases computes the phase breakdown of trials keyed by field by.
// Each phase of each trial contributes one observation; observations
// are averaged per (key, phase) and the averages laid out one row per
// key. Rows are ordered by the reference order of by. For categorical
// fields, keys outside the reference order are left out.
//
// Trials without Parts contribute nothing. If no phases remain,
// Phases returns nil.
func Phases(trials []*trialfmt.Trial, by Field) *PhaseTable {
	order := by.order()
	var keys, cols, phases []string
	var ms []float64
	seen := make(map[string]int)
	for _, t := range trials {
		key := by.label(t)
		if order != nil && !order.Contains(key) {
			continue
		}
		for _, p := range t.Parts {
			j, ok := seen[p.Name]
			if !ok {
				j = len(phases)
				seen[p.Name] = j
				phases = append(phases, p.Name)
			}
			keys = append(keys, key)
			cols = append(cols, phaseCol(j))
			ms = append(ms, float64(p.TimeNanos)/1e6)
		}
	}
	if len(ms) == 0 {
		return nil
	}

	var b table.Builder
	b.Add(phaseKeyCol, keys).Add(phaseNameCol, cols).Add(phaseMillis, ms)
	agg := table.Flatten(ggstat.Agg(phaseKeyCol, phaseNameCol)(ggstat.AggMean(phaseMillis)).F(b.Done()))

	// Aggregate keeps effectively constant columns, which would
	// become spurious pivot groups. Pivot only what we need.
	var nb table.Builder
	nb.Add(phaseKeyCol, agg.MustColumn(phaseKeyCol))
	nb.Add(phaseNameCol, agg.MustColumn(phaseNameCol))
	nb.Add(phaseMeanCol, agg.MustColumn(phaseMeanCol))
	wide := table.Flatten(table.Pivot(nb.Done(), phaseNameCol, phaseMeanCol))

	pt := &PhaseTable{Field: by, Phases: phases}
	rowKeys := wide.MustColumn(phaseKeyCol).([]string)
	means := make([][]float64, len(phases))
	for j := range phases {
		means[j] = wide.MustColumn(phaseCol(j)).([]float64)
	}

	rows := make([]int, len(rowKeys))
	for i := range rows {
		rows[i] = i
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rowKeys[rows[i]], rowKeys[rows[j]]
		if order == nil {
			return lessNumeric(a, b)
		}
		return order.Compare(a, b) < 0
	})

	for _, r := range rows {
		cells := make([]float64, len(pt.Phases))
		total := 0.0
		for j := range pt.Phases {
			cells[j] = means[j][r]
			total += cells[j]
		}
		pt.Keys = append(pt.Keys, rowKeys[r])
		pt.Cells = append(pt.Cells, cells)
		pt.Totals = append(pt.Totals, total)
	}
	return pt
}

// phaseCol names the pivoted column of the j'th observed phase.
func phaseCol(j int) string {
	return "phase" + strconv.Itoa(j)
}

// lessNumeric orders decimal integer labels numerically.
func lessNumeric(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
