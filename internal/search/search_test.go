package search

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCaseInsensitiveMatching(t *testing.T) {
	e := New()
	n := e.Execute("The cat, the mat", "the", 0)
	require.Equal(t, 2, n)
	require.Equal(t, []Match{{0, 3}, {9, 12}}, e.Matches())
}

func TestNextCyclesThroughMatches(t *testing.T) {
	e := New()
	e.Execute("The cat, the mat", "the", 0)
	require.Equal(t, 0, e.CurrentIndex())

	m, err := e.Next()
	require.NoError(t, err)
	require.Equal(t, Match{9, 12}, m)

	m, err = e.Next()
	require.NoError(t, err)
	require.Equal(t, Match{0, 3}, m) // wrapped
}

func TestPreviousWrapsBackward(t *testing.T) {
	e := New()
	e.Execute("aba", "a", 0)
	require.Equal(t, 0, e.CurrentIndex())

	m, err := e.Previous()
	require.NoError(t, err)
	require.Equal(t, Match{2, 3}, m)
}

func TestExecuteSeedsFromOffset(t *testing.T) {
	e := New()
	e.Execute("one two one two", "one", 3)
	require.Equal(t, 1, e.CurrentIndex())

	m, err := e.Current()
	require.NoError(t, err)
	require.Equal(t, Match{8, 11}, m)
}

func TestExecuteSeedWrapsWhenNothingFollows(t *testing.T) {
	e := New()
	e.Execute("one two", "one", 5)
	require.Equal(t, 0, e.CurrentIndex())
}

func TestEmptyQueryClearsState(t *testing.T) {
	e := New()
	e.Execute("content", "ten", 0)
	require.True(t, e.Active())

	n := e.Execute("content", "", 0)
	require.Equal(t, 0, n)
	require.False(t, e.Active())
	require.Equal(t, -1, e.CurrentIndex())
}

func TestNoMatches(t *testing.T) {
	e := New()
	n := e.Execute("hello world", "xyz", 0)
	require.Equal(t, 0, n)

	_, err := e.Next()
	require.ErrorIs(t, err, ErrNoMatches)
	_, err = e.Previous()
	require.ErrorIs(t, err, ErrNoMatches)
	_, err = e.Current()
	require.ErrorIs(t, err, ErrNoMatches)
}

func TestMatchesDoNotOverlap(t *testing.T) {
	e := New()
	n := e.Execute("aaaa", "aa", 0)
	require.Equal(t, 2, n)
	require.Equal(t, []Match{{0, 2}, {2, 4}}, e.Matches())
}

func TestUnicodeOffsetsAreRunes(t *testing.T) {
	e := New()
	n := e.Execute("héllo Héllo", "HÉLLO", 0)
	require.Equal(t, 2, n)
	require.Equal(t, []Match{{0, 5}, {6, 11}}, e.Matches())
}

func TestQueryLongerThanContent(t *testing.T) {
	e := New()
	require.Equal(t, 0, e.Execute("ab", "abc", 0))
}
