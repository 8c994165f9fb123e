// Package search implements case-insensitive substring search over the
// document.
//
// Executing a query scans the full content once and materializes an
// ordered list of non-overlapping match ranges plus a current index.
// Next and Previous cycle through the list, wrapping at both ends. The
// engine never mutates the document; match ranges are handed to the
// renderer for highlighting as-is.
package search

import (
	"errors"
	"unicode"
)

// ErrNoMatches signals next/previous on an empty match list. Benign;
// shown as a status message.
var ErrNoMatches = errors.New("search: no matches")

// Match is a half-open rune range [Start, End) in the document.
type Match struct {
	Start int
	End   int
}

// Engine holds the state of the most recent query.
type Engine struct {
	query   string
	matches []Match
	current int
}

// New returns an engine with no active query.
func New() *Engine {
	return &Engine{current: -1}
}

// Execute scans content for query and seeds the current index at the
// first match starting at or after from, wrapping to the first match
// when none follows. An empty query clears the state; zero matches is
// not an error. Returns the number of matches.
func (e *Engine) Execute(content, query string, from int) int {
	e.Clear()
	if query == "" {
		return 0
	}
	e.query = query
	e.matches = findAll([]rune(content), []rune(query))
	if len(e.matches) == 0 {
		return 0
	}

	e.current = 0
	for i, m := range e.matches {
		if m.Start >= from {
			e.current = i
			break
		}
	}
	return len(e.matches)
}

// Clear drops the query, matches and current index.
func (e *Engine) Clear() {
	e.query = ""
	e.matches = nil
	e.current = -1
}

// Active reports whether a query with at least one match is live.
func (e *Engine) Active() bool {
	return len(e.matches) > 0
}

// Query returns the active query string.
func (e *Engine) Query() string {
	return e.query
}

// Matches returns the ordered match ranges for highlighting.
func (e *Engine) Matches() []Match {
	return e.matches
}

// CurrentIndex returns the index of the current match, or -1.
func (e *Engine) CurrentIndex() int {
	return e.current
}

// Current returns the current match.
func (e *Engine) Current() (Match, error) {
	if e.current < 0 || e.current >= len(e.matches) {
		return Match{}, ErrNoMatches
	}
	return e.matches[e.current], nil
}

// Next advances to the following match, wrapping past the last.
func (e *Engine) Next() (Match, error) {
	if len(e.matches) == 0 {
		return Match{}, ErrNoMatches
	}
	e.current = (e.current + 1) % len(e.matches)
	return e.matches[e.current], nil
}

// Previous steps back to the preceding match, wrapping past the first.
func (e *Engine) Previous() (Match, error) {
	if len(e.matches) == 0 {
		return Match{}, ErrNoMatches
	}
	e.current = (e.current - 1 + len(e.matches)) % len(e.matches)
	return e.matches[e.current], nil
}

// findAll returns all non-overlapping matches, earliest first. Matching
// is rune-wise with simple case folding, so offsets are rune offsets
// regardless of byte widths.
func findAll(content, query []rune) []Match {
	if len(query) == 0 || len(query) > len(content) {
		return nil
	}
	folded := make([]rune, len(content))
	for i, r := range content {
		folded[i] = unicode.ToLower(r)
	}
	q := make([]rune, len(query))
	for i, r := range query {
		q[i] = unicode.ToLower(r)
	}

	var matches []Match
	for i := 0; i+len(q) <= len(folded); {
		if runesEqual(folded[i:i+len(q)], q) {
			matches = append(matches, Match{Start: i, End: i + len(q)})
			i += len(q)
		} else {
			i++
		}
	}
	return matches
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
