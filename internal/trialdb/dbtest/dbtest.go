// Copyright 2026 The Compstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dbtest opens empty trial archives for tests.
package dbtest

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/bitpacker/compstat/internal/trialdb"
	_ "github.com/bitpacker/compstat/internal/trialdb/sqlite3"
)

var seq atomic.Int64

// NewDB makes a connection to an empty in-memory sqlite3 database. The
// database is closed when the test finishes.
func NewDB(t *testing.T) *trialdb.DB {
	t.Helper()
	// A named shared-cache database is visible to every connection
	// in the pool, unlike plain :memory:.
	dsn := fmt.Sprintf("file:dbtest%d?mode=memory&cache=shared", seq.Add(1))
	d, err := trialdb.OpenSQL("sqlite3", dsn)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	// Make sure the database really is empty.
	uploads, err := d.CountUploads(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if uploads != 0 {
		t.Fatalf("found %d row(s) in Uploads, want 0", uploads)
	}
	return d
}
