// Copyright 2026 The Compstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package trialdb archives trials in a SQL database and reads them
// back for analysis.
package trialdb

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/bitpacker/compstat/trialfmt"
	"github.com/bitpacker/compstat/trialproc"
)

// DB is a high-level interface to a trial archive. It's safe for
// concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	insertUpload *sql.Stmt
	insertTrial  *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a connection to driverName.
// This is used by the sqlite3 package to register a ConnectHook.
// It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Uploads (
	UploadID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}},
	Created BIGINT
);
CREATE TABLE IF NOT EXISTS Trials (
	UploadID BIGINT UNSIGNED,
	TrialID BIGINT UNSIGNED,
	FunctionType VARCHAR(64),
	CompressionType VARCHAR(64),
	ValueSize VARCHAR(64),
	ArraySize VARCHAR(64),
	UncompressedSize BIGINT,
	CompressedSize BIGINT,
	FullDurationNanos BIGINT,
	HasParts BOOLEAN,
	PRIMARY KEY (UploadID, TrialID),
{{if not .sqlite3}}
	Index (FunctionType, CompressionType),
{{end}}
	FOREIGN KEY (UploadID) REFERENCES Uploads(UploadID) ON UPDATE CASCADE ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS Phases (
	UploadID BIGINT UNSIGNED,
	TrialID BIGINT UNSIGNED,
	Seq INT,
	Name VARCHAR(255),
	TimeNanos BIGINT,
	PRIMARY KEY (UploadID, TrialID, Seq),
	FOREIGN KEY (UploadID, TrialID) REFERENCES Trials(UploadID, TrialID) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS TrialsFunctionType ON Trials(FunctionType, CompressionType);
{{end}}
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	var err error
	db.insertUpload, err = db.sql.Prepare("INSERT INTO Uploads(Created) VALUES (?)")
	if err != nil {
		return err
	}
	db.insertTrial, err = db.sql.Prepare(`INSERT INTO Trials(UploadID, TrialID, FunctionType, CompressionType, ValueSize, ArraySize,
	UncompressedSize, CompressedSize, FullDurationNanos, HasParts) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	return nil
}

// now is time.Now, replaced in tests.
var now = time.Now

// An Upload is a set of trials stored in one transaction under a
// shared upload ID.
type Upload struct {
	// ID is the upload's primary key.
	ID int64

	// Created is when the upload was started.
	Created time.Time

	// trialid is the index of the next trial to insert.
	trialid int64
	db      *DB
	tx      *sql.Tx
}

// NewUpload starts a new upload. The trials inserted into it become
// visible once Commit returns.
func (db *DB) NewUpload(ctx context.Context) (*Upload, error) {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	created := now().UTC().Truncate(time.Second)
	res, err := tx.StmtContext(ctx, db.insertUpload).ExecContext(ctx, created.Unix())
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	return &Upload{ID: id, Created: created, db: db, tx: tx}, nil
}

// Insert adds t to the upload.
func (u *Upload) Insert(ctx context.Context, t *trialfmt.Trial) error {
	_, err := u.tx.StmtContext(ctx, u.db.insertTrial).ExecContext(ctx,
		u.ID, u.trialid,
		string(t.Operation), string(t.Algorithm), string(t.ValueSize), string(t.ArraySize),
		t.UncompressedSize, t.CompressedSize, t.FullDurationNanos, t.Parts != nil)
	if err != nil {
		return fmt.Errorf("insert trial: %w", err)
	}
	if len(t.Parts) > 0 {
		var args []interface{}
		for i, p := range t.Parts {
			args = append(args, u.ID, u.trialid, i, p.Name, p.TimeNanos)
		}
		query := "INSERT INTO Phases(UploadID, TrialID, Seq, Name, TimeNanos) VALUES " + strings.Repeat("(?, ?, ?, ?, ?), ", len(t.Parts))
		query = strings.TrimSuffix(query, ", ")
		if _, err := u.tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert phases: %w", err)
		}
	}
	u.trialid++
	return nil
}

// Count returns the number of trials inserted so far.
func (u *Upload) Count() int {
	return int(u.trialid)
}

// Commit finishes the upload.
func (u *Upload) Commit() error {
	return u.tx.Commit()
}

// Abort discards the upload. It is a no-op after Commit.
func (u *Upload) Abort() error {
	err := u.tx.Rollback()
	if err == sql.ErrTxDone {
		return nil
	}
	return err
}

// where returns the WHERE clause and its arguments for q, qualifying
// columns with table alias t.
func where(q trialproc.Query) (string, []interface{}) {
	var conds []string
	var args []interface{}
	if q.Operation != "" {
		conds = append(conds, "t.FunctionType = ?")
		args = append(args, string(q.Operation))
	}
	if q.Algorithm != "" {
		conds = append(conds, "t.CompressionType = ?")
		args = append(args, string(q.Algorithm))
	}
	if q.TimeBased {
		conds = append(conds, "t.FullDurationNanos > 0")
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type trialKey struct {
	upload, trial int64
}

// Trials returns the archived trials that satisfy q, in upload order
// and then insertion order.
func (db *DB) Trials(ctx context.Context, q trialproc.Query) ([]*trialfmt.Trial, error) {
	cond, args := where(q)
	rows, err := db.sql.QueryContext(ctx, `SELECT t.UploadID, t.TrialID, t.FunctionType, t.CompressionType, t.ValueSize, t.ArraySize,
	t.UncompressedSize, t.CompressedSize, t.FullDurationNanos, t.HasParts FROM Trials t`+cond+" ORDER BY t.UploadID, t.TrialID", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trials []*trialfmt.Trial
	byKey := make(map[trialKey]*trialfmt.Trial)
	for rows.Next() {
		var k trialKey
		var op, alg, vs, as string
		var hasParts bool
		t := new(trialfmt.Trial)
		if err := rows.Scan(&k.upload, &k.trial, &op, &alg, &vs, &as,
			&t.UncompressedSize, &t.CompressedSize, &t.FullDurationNanos, &hasParts); err != nil {
			return nil, err
		}
		t.Operation = trialfmt.Operation(op)
		t.Algorithm = trialfmt.Algorithm(alg)
		t.ValueSize = trialfmt.ValueSize(vs)
		t.ArraySize = trialfmt.ArraySize(as)
		if hasParts {
			t.Parts = []trialfmt.Phase{}
		}
		trials = append(trials, t)
		byKey[k] = t
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(trials) == 0 {
		return trials, nil
	}
	if err := db.loadPhases(ctx, q, byKey); err != nil {
		return nil, err
	}
	return trials, nil
}

func (db *DB) loadPhases(ctx context.Context, q trialproc.Query, byKey map[trialKey]*trialfmt.Trial) error {
	cond, args := where(q)
	rows, err := db.sql.QueryContext(ctx, `SELECT p.UploadID, p.TrialID, p.Name, p.TimeNanos
	FROM Phases p JOIN Trials t ON p.UploadID = t.UploadID AND p.TrialID = t.TrialID`+cond+
		" ORDER BY p.UploadID, p.TrialID, p.Seq", args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var k trialKey
		var p trialfmt.Phase
		if err := rows.Scan(&k.upload, &k.trial, &p.Name, &p.TimeNanos); err != nil {
			return err
		}
		if t := byKey[k]; t != nil {
			t.Parts = append(t.Parts, p)
		}
	}
	return rows.Err()
}

// CountUploads returns the number of uploads in the database.
func (db *DB) CountUploads(ctx context.Context) (int, error) {
	var uploads int
	err := db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM Uploads").Scan(&uploads)
	return uploads, err
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	if err := db.insertUpload.Close(); err != nil {
		return err
	}
	if err := db.insertTrial.Close(); err != nil {
		return err
	}
	return db.sql.Close()
}
