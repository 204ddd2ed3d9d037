// Copyright 2026 The Compstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bitpacker/compstat/internal/trialdb"
	"github.com/bitpacker/compstat/trialfmt"
	"github.com/bitpacker/compstat/trialproc"
	"github.com/bitpacker/compstat/trialseries"
)

// run runs compstat with args and returns the files it reports and
// its log output.
func run(t *testing.T, args ...string) (files []string, log string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	t.Logf("compstat %s", strings.Join(args, " "))
	if err := compstat(&stdout, &stderr, args); err != nil {
		t.Fatalf("unexpected error: %s\nlog:\n%s", err, stderr.String())
	}
	for _, line := range strings.Split(strings.TrimSpace(stdout.String()), "\n") {
		if line != "" {
			files = append(files, line)
		}
	}
	return files, stderr.String()
}

func TestCompstat(t *testing.T) {
	dir := t.TempDir()
	files, log := run(t, "-o", dir, "-csv", "-html", "testdata/trials.jsonl")

	for _, name := range []string{
		"nonspanning-compress_time.png",
		"spanning-compress_size.png",
		"spanning-compress_phases.png",
		"spanning-compress_heatmap.png",
		"spanning-get_time.png",
		"spanning-get_heatmap.png",
		"compress_trend.png",
		"decompress_byvalue.png",
		"compress_arraybars.png",
		"sizes.png",
		"ratio.png",
		"ratiobars.png",
		"efficiency.png",
		"time.csv",
		"ratio.csv",
		"size.csv",
		"spanning-compress_phases.csv",
		"index.html",
	} {
		path := filepath.Join(dir, name)
		if !contains(files, path) {
			t.Errorf("%s not reported", name)
		}
		if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
			t.Errorf("%s not written (%v)", name, err)
		}
	}
	for _, name := range []string{"overflow-decompress_time.png", "decompress_phases.csv", "spanning-get_phases.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			t.Errorf("%s written for a combination without data", name)
		}
	}

	for _, want := range []string{
		"no data for Overflow-Decompress",
		"no phase data for Spanning-Get",
		"Y-axis limited to: ",
	} {
		if !strings.Contains(log, want) {
			t.Errorf("log lacks %q:\n%s", want, log)
		}
	}

	html, err := os.ReadFile(filepath.Join(dir, "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"<p>53 trials.</p>",
		"<h2>Spanning-Compress</h2>",
		`<img src="spanning-compress_heatmap.png"`,
		"<th>arraySize<th>pack<th>write<th>total",
		"<h2>Overflow-Get</h2>\n<p>No data.</p>",
	} {
		if !strings.Contains(string(html), want) {
			t.Errorf("index.html lacks %q", want)
		}
	}

	csv, err := os.ReadFile(filepath.Join(dir, "ratio.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(csv), "compressionType,valueSize,uncompressedArraySize,mean compressionRatio,n\nNonSpanning,small_v,1024,") {
		t.Errorf("ratio.csv starts %q", strings.SplitN(string(csv), "\n", 3)[:2])
	}
}

func TestConfig(t *testing.T) {
	dir := t.TempDir()
	files, _ := run(t, "-o", dir, "-config", "testdata/style.yaml", "testdata/trials.jsonl")
	var want []string
	for _, name := range []string{"spanning-compress_time.svg", "compress_trend.svg", "decompress_trend.svg", "ratio.svg"} {
		want = append(want, filepath.Join(dir, name))
	}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}

	// Flags override the file.
	dir = t.TempDir()
	files, _ = run(t, "-o", dir, "-config", "testdata/style.yaml", "-format", "png", "-charts", "efficiency,heatmap", "-combo", "alg:Overflow", "testdata/trials.jsonl")
	want = []string{filepath.Join(dir, "overflow-compress_heatmap.png"), filepath.Join(dir, "efficiency.png")}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig("testdata/style.yaml")
	if err != nil {
		t.Fatal(err)
	}
	opts, err := cfg.options()
	if err != nil {
		t.Fatal(err)
	}
	if opts.format != "svg" || len(opts.charts) != 3 || len(opts.combos) != 1 {
		t.Errorf("got options %+v", opts)
	}
	if got := opts.style.ValueColor(trialfmt.SmallV); got == opts.style.ValueColor(trialfmt.LargeV) {
		t.Errorf("small_v color not overridden")
	}
	if d := opts.style.Dashes(trialfmt.Overflow); len(d) != 4 {
		t.Errorf("Overflow dashes %v, want dashdot", d)
	}

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(empty, nil, 0666); err != nil {
		t.Fatal(err)
	}
	cfg, err = loadConfig(empty)
	if err != nil {
		t.Fatalf("empty config: %v", err)
	}
	if opts, err := cfg.options(); err != nil || opts.format != "png" {
		t.Errorf("empty config gave options %+v, %v", opts, err)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("colour: red\n"), 0666); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(bad); err == nil {
		t.Errorf("unknown config field accepted")
	}
}

func TestErrors(t *testing.T) {
	for _, test := range []struct {
		name string
		args []string
	}{
		{"chart", []string{"-charts", "pie", "testdata/trials.jsonl"}},
		{"format", []string{"-format", "gif", "testdata/trials.jsonl"}},
		{"combo", []string{"-combo", "op:", "testdata/trials.jsonl"}},
		{"nocombo", []string{"-combo", "alg:Zstd", "testdata/trials.jsonl"}},
		{"missing", []string{"testdata/nonexistent.jsonl"}},
		{"db", []string{"-db", "sqlite3"}},
	} {
		t.Run(test.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			args := append([]string{"-o", t.TempDir()}, test.args...)
			if err := compstat(&stdout, &stderr, args); err == nil {
				t.Errorf("compstat %s succeeded", strings.Join(args, " "))
			}
		})
	}

	var stdout, stderr bytes.Buffer
	err := compstat(&stdout, &stderr, []string{"-o", t.TempDir(), "testdata/bad.jsonl"})
	var perr *trialfmt.ParseError
	if !errors.As(err, &perr) || perr.Line != 2 {
		t.Errorf("got error %v, want a parse error on line 2", err)
	}
}

func TestFromDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trials.db")
	db, err := trialdb.OpenSQL("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	trials, err := readFiles([]string{"testdata/trials.jsonl"})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	u, err := db.NewUpload(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, tr := range trials {
		if err := u.Insert(ctx, tr); err != nil {
			t.Fatal(err)
		}
	}
	if err := u.Commit(); err != nil {
		t.Fatal(err)
	}
	db.Close()

	dir := t.TempDir()
	files, _ := run(t, "-o", dir, "-charts", "efficiency", "-db", "sqlite3:"+path)
	if diff := cmp.Diff([]string{filepath.Join(dir, "efficiency.png")}, files); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectCombos(t *testing.T) {
	q := func(s string) trialproc.Query {
		q, err := trialproc.ParseQuery(s)
		if err != nil {
			t.Fatal(err)
		}
		return q
	}
	got := selectCombos([]trialproc.Query{q("op:Get"), q("alg:Spanning op:Compress")})
	want := []trialseries.Combo{
		{Algorithm: trialfmt.Spanning, Operation: trialfmt.Compress},
		{Algorithm: trialfmt.NonSpanning, Operation: trialfmt.Get},
		{Algorithm: trialfmt.Spanning, Operation: trialfmt.Get},
		{Algorithm: trialfmt.Overflow, Operation: trialfmt.Get},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("selectCombos mismatch (-want +got):\n%s", diff)
	}
}
