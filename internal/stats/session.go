package stats

import (
	"fmt"
	"time"
)

// Session tracks in-memory statistics for one editing session.
type Session struct {
	start        time.Time
	initialWords int
	currentWords int
	now          func() time.Time
}

// NewSession starts a session at the document's current word count.
func NewSession(initialWords int) *Session {
	return NewSessionWithClock(initialWords, time.Now)
}

// NewSessionWithClock is NewSession with an injected clock.
func NewSessionWithClock(initialWords int, now func() time.Time) *Session {
	return &Session{
		start:        now(),
		initialWords: initialWords,
		currentWords: initialWords,
		now:          now,
	}
}

// Update records the document's current word count.
func (s *Session) Update(words int) {
	s.currentWords = words
}

// CurrentWords returns the most recently observed word count.
func (s *Session) CurrentWords() int {
	return s.currentWords
}

// WordsWritten returns how many words this session added, floored at 0.
func (s *Session) WordsWritten() int {
	return max(0, s.currentWords-s.initialWords)
}

// Elapsed returns time since the session started.
func (s *Session) Elapsed() time.Duration {
	return s.now().Sub(s.start)
}

// ElapsedFormatted renders the elapsed time as "2h 15m" or "42m".
func (s *Session) ElapsedFormatted() string {
	total := int(s.Elapsed().Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
