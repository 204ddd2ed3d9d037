// Copyright 2026 The Compstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bitpacker/compstat/internal/trialdb"
	"github.com/bitpacker/compstat/trialproc"
)

const trialLog = `{"functionType":"Compress","compressionType":"Spanning","valueSize":"small_v","arraySize":"small_s","uncompressedArraySize":100,"compressedArraySize":40,"fullDurationNanos":2000,"parts":[{"name":"pack","timeNanos":1500}]}
{"functionType":"Get","compressionType":"Overflow","valueSize":"large_v","arraySize":"large_s","uncompressedArraySize":900,"compressedArraySize":800}
`

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0666); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTrialsave(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "trials.db")
	in := writeFile(t, "in.jsonl", trialLog)

	for i, want := range []string{"upload 1: 2 trials\n", "upload 2: 4 trials\n"} {
		args := []string{"-db", "sqlite3:" + dbPath, in}
		if i == 1 {
			args = append(args, in)
		}
		var stdout, stderr bytes.Buffer
		if err := trialsave(ctx, &stdout, &stderr, args); err != nil {
			t.Fatalf("trialsave: %v", err)
		}
		if got := stdout.String(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}

	db, err := trialdb.OpenSQL("sqlite3", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if n, err := db.CountUploads(ctx); err != nil || n != 2 {
		t.Errorf("CountUploads = %d, %v; want 2", n, err)
	}
	trials, err := db.Trials(ctx, trialproc.Query{Operation: "Compress"})
	if err != nil {
		t.Fatal(err)
	}
	if len(trials) != 3 {
		t.Fatalf("got %d Compress trials, want 3", len(trials))
	}
	if p := trials[0].Parts; len(p) != 1 || p[0].TimeNanos != 1500 {
		t.Errorf("got phases %+v, want pack 1500", p)
	}
}

func TestTrialsaveBadInput(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "trials.db")
	good := writeFile(t, "good.jsonl", trialLog)
	bad := writeFile(t, "bad.jsonl", `{"functionType":"Compress"}`+"\n")

	var stdout, stderr bytes.Buffer
	if err := trialsave(ctx, &stdout, &stderr, []string{"-db", "sqlite3:" + dbPath, good, bad}); err == nil {
		t.Fatal("trialsave accepted a trial without required fields")
	}
	if _, err := os.Stat(dbPath); err == nil {
		t.Errorf("database created for a failed upload")
	}
	if err := trialsave(ctx, &stdout, &stderr, []string{"-db", "sqlite3:" + dbPath}); err == nil {
		t.Errorf("trialsave with no files succeeded")
	}
}
