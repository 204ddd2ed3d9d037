// Copyright 2026 The Compstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Compstat summarizes compression benchmark trials as charts.
//
// Usage:
//
//	compstat [flags] inputs...
//
// Each input is a log of trials, one JSON object per line:
//
//	{"functionType":"Compress","compressionType":"Spanning",
//	 "valueSize":"small_v","arraySize":"small_s",
//	 "uncompressedArraySize":4096,"compressedArraySize":1800,
//	 "fullDurationNanos":2150000,
//	 "parts":[{"name":"pack","timeNanos":1200000}]}
//
// If no inputs are given, compstat reads standard input. With -db, it
// reads every trial archived by trialsave instead.
//
// Compstat draws, for each combination of algorithm and operation, the
// duration and compressed size of every trial against its uncompressed
// size, the mean time of each phase by array size, and a heatmap of
// mean duration by array size and value size. It also draws charts
// comparing the algorithms: mean duration and compression ratio
// against uncompressed size, by value size and by array size, and
// compression ratio against duration.
//
// Duration axes are limited to 1.05 times the 95th percentile of the
// plotted durations so that a few slow trials do not flatten the rest.
//
// # Flags
//
// The -o flag names the output directory (default "charts"). The
// -format flag selects png, svg or pdf output.
//
// The -combo flag restricts the per-combination charts to those
// matching a query such as "op:Compress alg:Spanning". The -charts
// flag takes a comma-separated list of chart names to draw:
//
//	time       per-combination duration scatter
//	size       per-combination compressed size scatter (Compress only)
//	phases     per-combination stacked phase times
//	heatmap    per-combination duration heatmap
//	trend      smoothed mean duration by algorithm
//	byvalue    mean duration by algorithm and value size
//	sizes      mean compressed size by algorithm and value size
//	ratio      smoothed mean compression ratio by algorithm and value size
//	ratiobars  mean compression ratio by value size
//	arraybars  mean duration by array size
//	efficiency compression ratio against duration
//
// The -csv flag additionally writes the aggregated series as CSV
// files, and -html writes an index.html showing every chart.
//
// The -config flag reads a YAML file that sets the chart style and
// selection:
//
//	width: 12      # inches
//	height: 8
//	format: svg
//	valueColors:
//	  small_v: navy
//	algorithmColors:
//	  Spanning: "#2ca02c"
//	algorithmLines:
//	  Overflow: dashdot
//	charts: [trend, ratio]
//	combos: ["op:Compress"]
//
// Flags given on the command line override the file.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bitpacker/compstat/internal/trialdb"
	_ "github.com/bitpacker/compstat/internal/trialdb/sqlite3"
	"github.com/bitpacker/compstat/trialfmt"
	"github.com/bitpacker/compstat/trialproc"
	"github.com/bitpacker/compstat/trialseries"
)

func main() {
	if err := compstat(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if err != flag.ErrHelp {
			fmt.Fprintf(os.Stderr, "compstat: %s\n", err)
		}
		os.Exit(2)
	}
}

func newLogger(w io.Writer, verbose bool) *zap.SugaredLogger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)
	return zap.New(core).Sugar()
}

func compstat(stdout, stderr io.Writer, args []string) error {
	flags := flag.NewFlagSet("compstat", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), `Usage: compstat [flags] inputs...

compstat summarizes compression benchmark trials as charts.
See https://pkg.go.dev/github.com/bitpacker/compstat/cmd/compstat.

`)
		flags.PrintDefaults()
	}
	flagOut := flags.String("o", "charts", "write charts to `dir`")
	flagFormat := flags.String("format", "", "chart `format`: png, svg or pdf (default png)")
	flagCSV := flags.Bool("csv", false, "also write aggregated series as CSV")
	flagHTML := flags.Bool("html", false, "write an index.html showing every chart")
	flagConfig := flags.String("config", "", "read chart style and selection from YAML `file`")
	flagCombo := flags.String("combo", "", "draw per-combination charts only for combinations matching `query`")
	flagCharts := flags.String("charts", "", "draw only the charts in comma-separated `list` (default all)")
	flagDB := flags.String("db", "", "read trials from the archive at `driver:dsn` instead of files")
	flagV := flags.Bool("v", false, "log debug messages")
	if err := flags.Parse(args); err != nil {
		return err
	}
	log := newLogger(stderr, *flagV)
	defer log.Sync()

	cfg := new(config)
	if *flagConfig != "" {
		var err error
		if cfg, err = loadConfig(*flagConfig); err != nil {
			return err
		}
	}
	if *flagFormat != "" {
		cfg.Format = *flagFormat
	}
	if *flagCombo != "" {
		cfg.Combos = []string{*flagCombo}
	}
	if *flagCharts != "" {
		cfg.Charts = strings.Split(*flagCharts, ",")
	}
	opts, err := cfg.options()
	if err != nil {
		return err
	}

	var trials []*trialfmt.Trial
	if *flagDB != "" {
		trials, err = readDB(*flagDB)
	} else {
		trials, err = readFiles(flags.Args())
	}
	if err != nil {
		return err
	}
	log.Debugw("read trials", "count", len(trials))
	if len(trials) == 0 {
		return fmt.Errorf("no trials")
	}

	if err := os.MkdirAll(*flagOut, 0777); err != nil {
		return err
	}
	r := &renderer{
		dir:    *flagOut,
		format: opts.format,
		sty:    opts.style,
		charts: opts.charts,
		log:    log,
		out:    stdout,
	}
	rep := trialseries.Build(trials, trialseries.Options{Combos: opts.combos})
	idx, err := r.render(rep)
	if err != nil {
		return err
	}
	idx.Trials = len(trials)
	if *flagCSV {
		if err := r.writeCSV(trials, rep); err != nil {
			return err
		}
	}
	if *flagHTML {
		if err := r.writeIndex(idx); err != nil {
			return err
		}
	}
	return nil
}

func readFiles(paths []string) ([]*trialfmt.Trial, error) {
	var trials []*trialfmt.Trial
	files := trialfmt.Files{Paths: paths, AllowStdin: true}
	for files.Scan() {
		trials = append(trials, files.Result())
	}
	return trials, files.Err()
}

// readDB reads every trial from the archive named by arg, which has
// the form driver:dsn.
func readDB(arg string) ([]*trialfmt.Trial, error) {
	driver, dsn, ok := strings.Cut(arg, ":")
	if !ok {
		return nil, fmt.Errorf("bad -db %q: want driver:dsn", arg)
	}
	db, err := trialdb.OpenSQL(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	defer db.Close()
	return db.Trials(context.Background(), trialproc.Query{})
}
