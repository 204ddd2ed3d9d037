// Copyright 2026 The Compstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Trialsave archives compression trials in a SQL database.
//
// Usage:
//
//	trialsave [-v] [-db driver:dsn] file...
//
// Each input file is a trial log as read by compstat. All trials are
// stored in a single upload; if any file fails to parse, nothing is
// stored. Trialsave prints the ID of the new upload.
//
// The database is sqlite3 or mysql; see compstat -db to read it back.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bitpacker/compstat/internal/trialdb"
	_ "github.com/bitpacker/compstat/internal/trialdb/sqlite3"
	"github.com/bitpacker/compstat/trialfmt"
)

func main() {
	if err := trialsave(context.Background(), os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if err != flag.ErrHelp {
			fmt.Fprintf(os.Stderr, "trialsave: %s\n", err)
		}
		os.Exit(2)
	}
}

func trialsave(ctx context.Context, stdout, stderr io.Writer, args []string) error {
	flags := flag.NewFlagSet("trialsave", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "Usage of trialsave:\n\ttrialsave [flags] file...\n")
		flags.PrintDefaults()
	}
	flagDB := flags.String("db", "sqlite3:trials.db", "store trials in the database at `driver:dsn`")
	flagV := flags.Bool("v", false, "print verbose log messages")
	if err := flags.Parse(args); err != nil {
		return err
	}
	level := zapcore.InfoLevel
	if *flagV {
		level = zapcore.DebugLevel
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	log := zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(stderr), level)).Sugar()
	defer log.Sync()

	paths := flags.Args()
	if len(paths) == 0 {
		return fmt.Errorf("no files to upload")
	}

	// Read everything first so a bad file leaves no partial upload.
	var trials []*trialfmt.Trial
	files := trialfmt.Files{Paths: paths, AllowStdin: true}
	for files.Scan() {
		trials = append(trials, files.Result())
	}
	if err := files.Err(); err != nil {
		return err
	}

	driver, dsn, ok := strings.Cut(*flagDB, ":")
	if !ok {
		return fmt.Errorf("bad -db %q: want driver:dsn", *flagDB)
	}
	db, err := trialdb.OpenSQL(driver, dsn)
	if err != nil {
		return fmt.Errorf("open %s database: %w", driver, err)
	}
	defer db.Close()

	start := time.Now()
	u, err := db.NewUpload(ctx)
	if err != nil {
		return err
	}
	for _, t := range trials {
		if err := u.Insert(ctx, t); err != nil {
			u.Abort()
			file, line := t.Pos()
			return fmt.Errorf("%s:%d: %w", file, line, err)
		}
	}
	if err := u.Commit(); err != nil {
		return err
	}
	log.Debugw("uploaded", "files", len(paths), "trials", u.Count(), "elapsed", time.Since(start))
	fmt.Fprintf(stdout, "upload %d: %d trials\n", u.ID, u.Count())
	return nil
}
