package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSessionWordsWritten(t *testing.T) {
	s := NewSession(200)

	require.Equal(t, 0, s.WordsWritten())

	s.Update(250)
	require.Equal(t, 250, s.CurrentWords())
	require.Equal(t, 50, s.WordsWritten())

	// Deleting below the starting count floors at zero.
	s.Update(150)
	require.Equal(t, 0, s.WordsWritten())
}

func TestSessionElapsedFormatted(t *testing.T) {
	clock := newStatsClock()
	s := NewSessionWithClock(0, clock.now)

	require.Equal(t, "0m", s.ElapsedFormatted())

	clock.t = clock.t.Add(42 * time.Minute)
	require.Equal(t, "42m", s.ElapsedFormatted())

	clock.t = clock.t.Add(93 * time.Minute)
	require.Equal(t, "2h 15m", s.ElapsedFormatted())
	require.Equal(t, 135*time.Minute, s.Elapsed())
}
