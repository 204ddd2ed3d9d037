// Copyright 2026 The Compstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// trialfilter reads compression trials from input files, filters
// them, and writes the matching trials to stdout. If no inputs are
// provided, it reads from stdin.
//
// A query is a space-separated list of key:value terms, all of which a
// trial must satisfy:
//
//	op:Compress      the operation (matched case-insensitively)
//	alg:Spanning     the compression algorithm
//	time:true        only trials with a positive duration
//
// The query "*" matches every trial.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/bitpacker/compstat/trialfmt"
	"github.com/bitpacker/compstat/trialproc"
)

func usage(w io.Writer, flags *flag.FlagSet) func() {
	return func() {
		fmt.Fprintf(w, `Usage: trialfilter query [inputs...]

trialfilter reads compression trials from input files, filters them,
and writes the matching trials to stdout. If no inputs are provided,
it reads from stdin.
`)
		flags.PrintDefaults()
	}
}

func main() {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.TimeKey = ""
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	log := logger.Sugar()
	if err := trialfilter(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if err != flag.ErrHelp {
			log.Fatal(err)
		}
		os.Exit(2)
	}
}

func trialfilter(stdout, stderr io.Writer, args []string) error {
	flags := flag.NewFlagSet("trialfilter", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = usage(stderr, flags)
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() < 1 {
		flags.Usage()
		return flag.ErrHelp
	}

	q, err := trialproc.ParseQuery(flags.Arg(0))
	if err != nil {
		return err
	}

	writer := trialfmt.NewWriter(stdout)
	files := trialfmt.Files{Paths: flags.Args()[1:], AllowStdin: true}
	for files.Scan() {
		t := files.Result()
		if !q.Match(t) {
			continue
		}
		if err := writer.Write(t); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}
	return files.Err()
}
