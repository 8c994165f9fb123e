// Package stats tracks daily word counts, goals and streaks.
//
// Totals are kept per calendar day (local date) in a small SQLite
// database so they survive across runs. Within a session the tracker
// observes the document's word count and attributes each increase to
// the current day; decreases move the baseline down without reducing
// the day's total.
package stats

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/hollow/internal/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS daily_stats (
	date TEXT PRIMARY KEY,
	words_written INTEGER NOT NULL DEFAULT 0
);
`

// Tracker persists per-day word totals and answers goal queries.
type Tracker struct {
	db        *sql.DB
	dailyGoal int
	now       func() time.Time

	lastObserved int
	baselineSet  bool
}

// Open opens (or creates) the stats database at path.
func Open(path string, dailyGoal int) (*Tracker, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating stats directory: %w", err)
	}
	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("opening stats database: %w", err)
	}
	return New(db, dailyGoal, time.Now)
}

// New wraps an existing database handle, applying the schema. The clock
// decides what "today" means; tests inject fixed dates.
func New(db *sql.DB, dailyGoal int, now func() time.Time) (*Tracker, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("applying stats schema: %w", err)
	}
	return &Tracker{db: db, dailyGoal: dailyGoal, now: now}, nil
}

// Close releases the database handle.
func (t *Tracker) Close() error {
	return t.db.Close()
}

// DailyGoal returns the configured goal. 0 means goals are disabled.
func (t *Tracker) DailyGoal() int {
	return t.dailyGoal
}

func (t *Tracker) today() string {
	return t.now().Local().Format("2006-01-02")
}

// Observe feeds the tracker the document's current word count. The
// first observation of a session sets the baseline; later increases are
// credited to today's total.
func (t *Tracker) Observe(words int) error {
	if !t.baselineSet {
		t.baselineSet = true
		t.lastObserved = words
		return nil
	}
	delta := words - t.lastObserved
	t.lastObserved = words
	if delta <= 0 {
		return nil
	}
	if err := t.addWords(t.today(), delta); err != nil {
		return err
	}
	log.Debug(log.CatStats, "words recorded", "delta", delta, "total", words)
	return nil
}

func (t *Tracker) addWords(date string, delta int) error {
	_, err := t.db.Exec(
		`INSERT INTO daily_stats (date, words_written) VALUES (?, ?)
		 ON CONFLICT(date) DO UPDATE SET words_written = words_written + ?`,
		date, delta, delta,
	)
	if err != nil {
		return fmt.Errorf("recording words: %w", err)
	}
	return nil
}

// TodayWords returns the cumulative total recorded for today.
func (t *Tracker) TodayWords() (int, error) {
	return t.wordsOn(t.today())
}

// wordsOn returns the total for a date, with ok=false folded into 0.
func (t *Tracker) wordsOn(date string) (int, error) {
	var words int
	err := t.db.QueryRow(
		`SELECT words_written FROM daily_stats WHERE date = ?`, date,
	).Scan(&words)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading daily total: %w", err)
	}
	return words, nil
}

func (t *Tracker) hasRecord(date string) (bool, error) {
	var n int
	err := t.db.QueryRow(
		`SELECT COUNT(*) FROM daily_stats WHERE date = ?`, date,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking daily record: %w", err)
	}
	return n > 0, nil
}

// Streak counts consecutive days meeting the goal, walking backward
// from today. A today that has not met the goal yet does not break a
// streak carried from yesterday; any older unmet or missing day ends
// the walk.
func (t *Tracker) Streak() (int, error) {
	if t.dailyGoal == 0 {
		return 0, nil
	}

	day := t.now().Local()
	today := true
	streak := 0
	for {
		date := day.Format("2006-01-02")
		recorded, err := t.hasRecord(date)
		if err != nil {
			return 0, err
		}
		words, err := t.wordsOn(date)
		if err != nil {
			return 0, err
		}

		switch {
		case recorded && words >= t.dailyGoal:
			streak++
		case today:
			// Today gets grace: keep walking from yesterday.
		default:
			return streak, nil
		}
		day = day.AddDate(0, 0, -1)
		today = false
	}
}

// Progress reports today's progress toward the goal: the ratio clamped
// to [0,1] for display, and whether the goal was exceeded so callers
// can choose to show over-achievement. Zero goal reports (0, false).
func (t *Tracker) Progress(todayWords int) (ratio float64, exceeded bool) {
	if t.dailyGoal == 0 {
		return 0, false
	}
	ratio = float64(todayWords) / float64(t.dailyGoal)
	if ratio > 1 {
		return 1, true
	}
	return ratio, false
}

// GoalMet reports whether the words meet the daily goal.
func (t *Tracker) GoalMet(todayWords int) bool {
	return t.dailyGoal > 0 && todayWords >= t.dailyGoal
}
