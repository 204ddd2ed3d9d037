// Copyright 2026 The Compstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/google/safehtml/template"

	"github.com/bitpacker/compstat/trialseries"
)

// An index is the data of index.html.
type index struct {
	Trials int
	Global []entry
	Combos []*section
}

// An entry is one chart file.
type entry struct {
	Title string
	File  string
}

type section struct {
	Name   string
	N      int
	Charts []entry
	Phases *phaseTable
}

// phaseTable is a trialseries.PhaseTable formatted for display.
type phaseTable struct {
	Header []string
	Rows   [][]string
}

func phaseView(pt *trialseries.PhaseTable) *phaseTable {
	if pt == nil {
		return nil
	}
	v := &phaseTable{Header: append([]string{pt.Field.String()}, pt.Phases...)}
	v.Header = append(v.Header, "total")
	for i, key := range pt.Keys {
		row := []string{key}
		for _, ms := range pt.Cells[i] {
			row = append(row, fmt.Sprintf("%.2f", ms))
		}
		row = append(row, fmt.Sprintf("%.2f", pt.Totals[i]))
		v.Rows = append(v.Rows, row)
	}
	return v
}

var indexTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Compression Benchmark Report</title>
<style>
body { font-family: sans-serif; }
figure { display: inline-block; margin: 1em; }
img { width: 40em; }
.phases { border-collapse: collapse; }
.phases th { border-bottom: 1px solid #666; padding: 0em 1em; }
.phases td { text-align: right; padding: 0em 1em; }
.phases td:nth-child(1) { text-align: left; }
</style>
</head>
<body>
<h1>Compression Benchmark Report</h1>
<p>{{.Trials}} trials.</p>
<h2>Algorithms</h2>
{{range .Global -}}
<figure><img src="{{.File}}" alt="{{.Title}}"><figcaption>{{.Title}}</figcaption></figure>
{{end -}}
{{range .Combos}}
<h2>{{.Name}}</h2>
{{if eq .N 0 -}}
<p>No data.</p>
{{- else -}}
<p>{{.N}} trials.</p>
{{range .Charts -}}
<figure><img src="{{.File}}" alt="{{.Title}}"><figcaption>{{.Title}}</figcaption></figure>
{{end -}}
{{with .Phases -}}
<table class='phases'>
<tr>{{range .Header}}<th>{{.}}{{end}}
{{range .Rows}}<tr>{{range .}}<td>{{.}}{{end}}
{{end -}}
</table>
{{- end}}
{{- end}}
{{end}}
</body>
</html>
`))

func formatIndex(w io.Writer, idx *index) error {
	return indexTemplate.Execute(w, idx)
}

func (r *renderer) writeIndex(idx *index) error {
	return r.create("index.html", func(w io.Writer) error {
		return formatIndex(w, idx)
	})
}
