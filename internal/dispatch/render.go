package dispatch

import (
	"path/filepath"
	"time"

	"github.com/zjrosen/hollow/internal/history"
	"github.com/zjrosen/hollow/internal/log"
	"github.com/zjrosen/hollow/internal/search"
)

// RenderState is the read-only view the rendering layer consumes. It is
// rebuilt after every processed event; the dispatcher keeps no
// reference to it afterwards.
type RenderState struct {
	Content    string
	CursorLine int
	CursorCol  int
	Mode       Mode
	Overlay    Overlay

	ShowStatus    bool
	StatusMessage string
	Saved         bool
	Modified      bool

	WordCount    int
	SessionWords int
	Elapsed      string

	SearchActive bool
	SearchQuery  string
	SearchInput  string
	Matches      []search.Match
	CurrentMatch int

	DailyGoal    int
	TodayWords   int
	GoalProgress float64
	GoalExceeded bool
	Streak       int
	ShowGoal     bool

	Versions     []history.Record
	VersionIndex int
	VersionView  string
	VersionDiff  []history.DiffLine
	VersionTime  time.Time

	DocumentName string
	TextWidth    int
	LineSpacing  int
}

// Render builds the current snapshot.
func (d *Dispatcher) Render() RenderState {
	now := d.now()
	line, col, err := d.buf.OffsetToLineCol(d.cur.Offset())
	if err != nil {
		line, col = 0, 0
	}

	st := RenderState{
		Content:      d.buf.String(),
		CursorLine:   line,
		CursorCol:    col,
		Mode:         d.mode,
		Overlay:      d.overlay,
		ShowStatus:   d.showStatus,
		Saved:        now.Before(d.savedUntil),
		Modified:     d.modified,
		WordCount:    d.buf.WordCount(),
		SessionWords: d.session.WordsWritten(),
		Elapsed:      d.session.ElapsedFormatted(),
		SearchActive: d.eng.Active(),
		SearchQuery:  d.eng.Query(),
		SearchInput:  string(d.searchInput),
		Matches:      d.eng.Matches(),
		CurrentMatch: d.eng.CurrentIndex(),
		DocumentName: filepath.Base(d.path),
		TextWidth:    d.cfg.Editor.TextWidth,
		LineSpacing:  d.cfg.Display.LineSpacing,
	}

	if now.Before(d.statusUntil) {
		st.StatusMessage = d.statusMsg
	}

	d.fillGoals(&st)
	d.fillVersions(&st)
	return st
}

func (d *Dispatcher) fillGoals(st *RenderState) {
	if d.tracker == nil {
		return
	}
	st.DailyGoal = d.tracker.DailyGoal()
	st.Streak = d.streak
	st.ShowGoal = d.cfg.Goals.ShowProgress || d.cfg.Goals.ShowStreak

	today, err := d.tracker.TodayWords()
	if err != nil {
		log.ErrorErr(log.CatStats, err, "reading daily total")
		return
	}
	st.TodayWords = today
	st.GoalProgress, st.GoalExceeded = d.tracker.Progress(today)
}

func (d *Dispatcher) fillVersions(st *RenderState) {
	st.Versions = d.versions
	st.VersionIndex = d.versionIndex

	if d.store == nil || d.versionIndex >= len(d.versions) {
		return
	}
	rec := d.versions[d.versionIndex]

	switch d.overlay {
	case OverlayVersionView:
		content, err := d.store.Content(d.path, rec)
		if err != nil {
			log.ErrorErr(log.CatHistory, err, "reading version", "path", d.path)
			return
		}
		st.VersionView = content
		st.VersionTime = rec.Timestamp
	case OverlayVersionDiff:
		content, err := d.store.Content(d.path, rec)
		if err != nil {
			log.ErrorErr(log.CatHistory, err, "reading version", "path", d.path)
			return
		}
		st.VersionDiff = history.Diff(content, d.buf.String())
		st.VersionTime = rec.Timestamp
	}
}
