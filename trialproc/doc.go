// Copyright 2026 The Compstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package trialproc selects and orders compression benchmark trials.
//
// A Query picks the trials of one operation, optionally restricted to
// one algorithm and to timed trials. Queries are usually built in
// code, but ParseQuery accepts a small textual form for command-line
// tools:
//
//	op:Compress alg:Spanning time:true
//
// Each term is a key:value pair. The keys are
//
//	op    the operation, matched case-insensitively
//	alg   the compression algorithm
//	time  "true" to keep only trials with a positive duration
//
// Omitted keys match anything. The query "*" matches every trial.
//
// An Order is a fixed sequence of categorical labels. Charts and
// tables lay categories out in the order of ArraySizeOrder and
// ValueSizeOrder rather than in the order they appear in the data.
// Reindex aligns a label-keyed set of values with an Order, marking
// labels that have no value and dropping labels that the Order does
// not know.
package trialproc
