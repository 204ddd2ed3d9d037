// Copyright 2026 The Compstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trialfmt

import (
	"bytes"
	"encoding/json"
	"io"
)

// A Writer writes trial logs.
type Writer struct {
	w   io.Writer
	buf bytes.Buffer
}

// NewWriter returns a writer that writes trials to w, one JSON object
// per line.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// plainTrial is Trial without its methods.
type plainTrial Trial

// trialOut is the encoding of a Trial. Parts is a pointer so that an
// empty breakdown is written as [] and a missing one is omitted.
type trialOut struct {
	plainTrial
	Parts *[]Phase `json:"parts,omitempty"`
}

// Write writes t to w. Operations are written in their canonical
// spelling. Parts is omitted if t carries no breakdown and written as
// [] if the breakdown is empty.
func (w *Writer) Write(t *Trial) error {
	out := trialOut{plainTrial: plainTrial(*t)}
	if t.Parts != nil {
		out.Parts = &t.Parts
	}
	enc := json.NewEncoder(&w.buf)
	enc.SetEscapeHTML(false)
	// Encode appends the newline.
	if err := enc.Encode(out); err != nil {
		w.buf.Reset()
		return err
	}
	_, err := w.w.Write(w.buf.Bytes())
	w.buf.Reset()
	return err
}
