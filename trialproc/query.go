// Copyright 2026 The Compstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trialproc

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/bitpacker/compstat/trialfmt"
)

// A Query selects a subset of trials.
type Query struct {
	// Operation, if non-empty, is the operation to select.
	Operation trialfmt.Operation

	// Algorithm, if non-empty, is the algorithm to select.
	Algorithm trialfmt.Algorithm

	// TimeBased restricts the selection to trials with a positive
	// FullDurationNanos, for queries feeding time-based metrics.
	TimeBased bool
}

// Match reports whether trial t satisfies q.
func (q Query) Match(t *trialfmt.Trial) bool {
	if q.Operation != "" && t.Operation != q.Operation {
		return false
	}
	if q.Algorithm != "" && t.Algorithm != q.Algorithm {
		return false
	}
	if q.TimeBased && !t.Timed() {
		return false
	}
	return true
}

// Select returns the trials that satisfy q, in input order. It returns
// an empty slice if nothing matches.
func Select(trials []*trialfmt.Trial, q Query) []*trialfmt.Trial {
	out := []*trialfmt.Trial{}
	for _, t := range trials {
		if q.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// String returns q in the form accepted by ParseQuery.
func (q Query) String() string {
	var terms []string
	if q.Operation != "" {
		terms = append(terms, "op:"+string(q.Operation))
	}
	if q.Algorithm != "" {
		terms = append(terms, "alg:"+string(q.Algorithm))
	}
	if q.TimeBased {
		terms = append(terms, "time:true")
	}
	if len(terms) == 0 {
		return "*"
	}
	return strings.Join(terms, " ")
}

// A SyntaxError is an error produced by parsing a malformed query.
type SyntaxError struct {
	Query string // The original query string
	Off   int    // Byte offset of the error in Query
	Msg   string // Error message
}

func (e *SyntaxError) Error() string {
	// Translate byte offset to a rune offset.
	pos := 0
	for i, r := range e.Query {
		if i >= e.Off {
			break
		}
		if unicode.IsGraphic(r) {
			pos++
		}
	}
	return fmt.Sprintf("syntax error: %s\n\t%s\n\t%*s^", e.Msg, e.Query, pos, "")
}

// ParseQuery parses a query of the form "op:X alg:Y time:true". See
// the package documentation for the syntax.
func ParseQuery(s string) (Query, error) {
	var q Query
	if strings.TrimSpace(s) == "*" {
		return q, nil
	}
	seen := make(map[string]bool)
	off := 0
	for off < len(s) {
		// Skip white space.
		if s[off] == ' ' || s[off] == '\t' {
			off++
			continue
		}
		end := strings.IndexAny(s[off:], " \t")
		if end < 0 {
			end = len(s)
		} else {
			end += off
		}
		term := s[off:end]
		colon := strings.IndexByte(term, ':')
		if colon <= 0 || colon == len(term)-1 {
			return Query{}, &SyntaxError{s, off, "expected key:value"}
		}
		key, val := term[:colon], term[colon+1:]
		if seen[key] {
			return Query{}, &SyntaxError{s, off, "duplicate key " + key}
		}
		seen[key] = true
		switch key {
		case "op":
			q.Operation = trialfmt.ParseOperation(val)
		case "alg":
			q.Algorithm = trialfmt.Algorithm(val)
		case "time":
			switch val {
			case "true":
				q.TimeBased = true
			case "false":
				q.TimeBased = false
			default:
				return Query{}, &SyntaxError{s, off + colon + 1, "expected true or false"}
			}
		default:
			return Query{}, &SyntaxError{s, off, "unknown key " + key}
		}
		off = end
	}
	return q, nil
}
