// Package dispatch is the modal command dispatcher. It owns the editing
// session (buffer, cursor, undo history, search state, register) and
// orchestrates the storage components (version history, stats) in
// response to logical key events. After each processed event it exposes
// a render-ready snapshot; it performs no rendering itself.
package dispatch

import (
	"time"
	"unicode"

	"github.com/zjrosen/hollow/internal/buffer"
	"github.com/zjrosen/hollow/internal/config"
	"github.com/zjrosen/hollow/internal/cursor"
	"github.com/zjrosen/hollow/internal/history"
	"github.com/zjrosen/hollow/internal/log"
	"github.com/zjrosen/hollow/internal/search"
	"github.com/zjrosen/hollow/internal/stats"
	"github.com/zjrosen/hollow/internal/undo"
)

const (
	savedIndicatorFor = 2 * time.Second
	statusMessageFor  = 3 * time.Second
	defaultPageRows   = 20
)

// Deps are the storage collaborators. Store and Tracker may be nil when
// version history or goal tracking is disabled.
type Deps struct {
	Store   *history.Store
	Tracker *stats.Tracker
	Now     func() time.Time
	// OnSave runs after every successful write of the document, so the
	// file watcher can tell the editor's saves from external ones.
	OnSave func()
}

// Dispatcher is one editing session over a single document.
type Dispatcher struct {
	cfg  config.Config
	path string
	now  func() time.Time

	buf  *buffer.Rope
	cur  *cursor.Cursor
	hist *undo.History
	eng  *search.Engine

	store   *history.Store
	tracker *stats.Tracker
	session *stats.Session
	onSave  func()

	mode        Mode
	overlay     Overlay
	pending     rune // pending two-key command prefix, 0 when none
	register    string
	searchInput []rune

	modified   bool
	backupDone bool
	original   string // pre-edit content, written to the backup file
	existed    bool   // document file existed when opened
	quit       bool

	showStatus  bool
	statusTimer time.Time // drives the status auto-hide, zero when idle
	statusMsg   string
	statusUntil time.Time
	savedUntil  time.Time
	lastSave    time.Time

	versions     []history.Record
	versionIndex int
	streak       int

	pageRows int
}

// New opens the document at path and builds a session around it. A
// missing file starts an empty document.
func New(path string, cfg config.Config, deps Deps) (*Dispatcher, error) {
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	content, existed, err := readDocument(path)
	if err != nil {
		return nil, err
	}

	buf := buffer.New(content)
	d := &Dispatcher{
		cfg:        cfg,
		path:       path,
		now:        now,
		buf:        buf,
		cur:        cursor.New(),
		hist:       undo.NewWithClock(now),
		eng:        search.New(),
		store:      deps.Store,
		tracker:    deps.Tracker,
		onSave:     deps.OnSave,
		session:    stats.NewSessionWithClock(buf.WordCount(), now),
		mode:       ModeWrite,
		original:   content,
		existed:    existed,
		showStatus: cfg.Display.ShowStatus,
		lastSave:   now(),
		pageRows:   defaultPageRows,
	}

	if d.tracker != nil {
		if streak, err := d.tracker.Streak(); err == nil {
			d.streak = streak
		}
		if err := d.tracker.Observe(buf.WordCount()); err != nil {
			log.ErrorErr(log.CatStats, err, "seeding word baseline")
		}
	}

	log.Info(log.CatEditor, "document opened", "path", path, "existed", existed, "words", buf.WordCount())
	return d, nil
}

// ShouldQuit reports whether the session has been asked to end.
func (d *Dispatcher) ShouldQuit() bool {
	return d.quit
}

// Path returns the document path this session edits.
func (d *Dispatcher) Path() string {
	return d.path
}

// SetPageRows tells the dispatcher the current visible row count, used
// as the page size for page up/down.
func (d *Dispatcher) SetPageRows(rows int) {
	if rows > 0 {
		d.pageRows = rows
	}
}

// NotifyExternalChange surfaces a warning that another process wrote
// the document file.
func (d *Dispatcher) NotifyExternalChange() {
	d.setStatus("File changed on disk by another process")
	log.Warn(log.CatWatcher, "external change detected", "path", d.path)
}

// ============================================================================
// Key handling
// ============================================================================

// HandleKey processes one logical key event.
func (d *Dispatcher) HandleKey(k Key) {
	// The quit confirmation restricts all input until resolved.
	if d.overlay == OverlayQuitConfirm {
		d.handleQuitConfirm(k)
		return
	}

	// Universal bindings run before mode handling, overlays included.
	// Search mode keeps every printable for the query.
	if d.mode != ModeSearch && d.handleUniversal(k) {
		d.pending = 0
		d.observeWords()
		return
	}

	if d.overlay != OverlayNone {
		d.handleOverlay(k)
		return
	}

	switch d.mode {
	case ModeWrite:
		d.handleWrite(k)
	case ModeNavigate:
		d.handleNavigate(k)
	case ModeSearch:
		d.handleSearch(k)
	}

	d.observeWords()
}

func (d *Dispatcher) handleUniversal(k Key) bool {
	if !k.Ctrl || k.Code != KeyRune {
		return false
	}
	switch k.Rune {
	case 's':
		if err := d.save(true); err != nil {
			d.setStatus("Save failed: " + err.Error())
			log.ErrorErr(log.CatEditor, err, "manual save")
		}
	case 'q':
		d.tryQuit()
	case 'g':
		d.toggleStatus()
	case 'z':
		d.undo()
	case 'y':
		d.redo()
	default:
		return false
	}
	return true
}

func (d *Dispatcher) handleWrite(k Key) {
	d.pending = 0

	switch k.Code {
	case KeyEsc:
		d.enterNavigate()
	case KeyRune:
		if !k.Ctrl && unicode.IsPrint(k.Rune) {
			d.insertRune(k.Rune)
		}
	case KeyEnter:
		d.insertRune('\n')
	case KeyBackspace:
		d.backspace()
	case KeyDelete:
		d.deleteForward()
	case KeyLeft:
		if k.Ctrl {
			d.cur.WordBackward(d.buf, false)
		} else {
			d.cur.Left(d.buf, false)
		}
	case KeyRight:
		if k.Ctrl {
			d.cur.WordForward(d.buf, false)
		} else {
			d.cur.Right(d.buf, false)
		}
	case KeyUp:
		d.cur.Up(d.buf, false)
	case KeyDown:
		d.cur.Down(d.buf, false)
	case KeyHome:
		if k.Ctrl {
			d.cur.DocumentStart(d.buf)
		} else {
			d.cur.LineStart(d.buf)
		}
	case KeyEnd:
		if k.Ctrl {
			d.cur.DocumentEnd(d.buf, false)
		} else {
			d.cur.LineEnd(d.buf, false)
		}
	case KeyPageUp:
		d.cur.PageUp(d.buf, d.pageRows, false)
	case KeyPageDown:
		d.cur.PageDown(d.buf, d.pageRows, false)
	}
}

func (d *Dispatcher) handleNavigate(k Key) {
	// A pending prefix either completes a two-key command or resets,
	// with the mismatched key reprocessed as a fresh command.
	if d.pending != 0 {
		prefix := d.pending
		d.pending = 0
		if k.Code == KeyRune && !k.Ctrl && k.Rune == prefix {
			switch prefix {
			case 'g':
				d.cur.DocumentStart(d.buf)
			case 'd':
				d.deleteLine()
			case 'y':
				d.yankLine()
			}
			return
		}
	}

	switch k.Code {
	case KeyEsc:
		d.eng.Clear()
		return
	case KeyLeft:
		d.cur.Left(d.buf, true)
		return
	case KeyRight:
		d.cur.Right(d.buf, true)
		return
	case KeyUp:
		d.cur.Up(d.buf, true)
		return
	case KeyDown:
		d.cur.Down(d.buf, true)
		return
	case KeyHome:
		d.cur.LineStart(d.buf)
		return
	case KeyEnd:
		d.cur.LineEnd(d.buf, true)
		return
	case KeyPageUp:
		d.cur.PageUp(d.buf, d.pageRows, true)
		return
	case KeyPageDown:
		d.cur.PageDown(d.buf, d.pageRows, true)
		return
	case KeyRune:
		// handled below
	default:
		return
	}

	if k.Ctrl {
		if k.Rune == 'r' {
			d.redo()
		}
		return
	}

	switch k.Rune {
	case 'i':
		d.enterWrite()
	case 'h':
		d.cur.Left(d.buf, true)
	case 'j':
		d.cur.Down(d.buf, true)
	case 'k':
		d.cur.Up(d.buf, true)
	case 'l':
		d.cur.Right(d.buf, true)
	case 'w':
		d.cur.WordForward(d.buf, true)
	case 'b':
		d.cur.WordBackward(d.buf, true)
	case '{':
		d.cur.ParagraphBackward(d.buf, true)
	case '}':
		d.cur.ParagraphForward(d.buf, true)
	case '0':
		d.cur.LineStart(d.buf)
	case '$':
		d.cur.LineEnd(d.buf, true)
	case 'G':
		d.cur.DocumentEnd(d.buf, true)
	case 'g', 'd', 'y':
		d.pending = k.Rune
	case 'p':
		d.paste()
	case 'u':
		d.undo()
	case '/':
		d.mode = ModeSearch
		d.searchInput = nil
		d.hist.CloseGroup()
	case 'n':
		d.searchNext()
	case 'N':
		d.searchPrevious()
	case '?':
		d.overlay = OverlayHelp
	case 's':
		d.overlay = OverlayStats
	case 'v':
		d.showVersions()
	default:
		// An unbound printable switches to Write mode and inserts.
		if unicode.IsPrint(k.Rune) {
			d.enterWrite()
			d.insertRune(k.Rune)
		}
	}
}

func (d *Dispatcher) handleSearch(k Key) {
	d.pending = 0

	switch k.Code {
	case KeyEsc:
		d.searchInput = nil
		d.eng.Clear()
		d.mode = ModeNavigate
	case KeyEnter:
		d.submitSearch()
	case KeyBackspace:
		if len(d.searchInput) > 0 {
			d.searchInput = d.searchInput[:len(d.searchInput)-1]
		}
	case KeyRune:
		if !k.Ctrl && unicode.IsPrint(k.Rune) {
			d.searchInput = append(d.searchInput, k.Rune)
		}
	}
}

// ============================================================================
// Mode transitions
// ============================================================================

// Mode changes close the open undo group so an undo never straddles a
// modal boundary.
func (d *Dispatcher) enterNavigate() {
	d.hist.CloseGroup()
	d.mode = ModeNavigate
	d.cur.Clamp(d.buf, true)
}

func (d *Dispatcher) enterWrite() {
	d.hist.CloseGroup()
	d.mode = ModeWrite
}

func (d *Dispatcher) tryQuit() {
	if d.modified {
		d.overlay = OverlayQuitConfirm
		return
	}
	d.quit = true
}

func (d *Dispatcher) handleQuitConfirm(k Key) {
	switch {
	case k.Code == KeyRune && (k.Rune == 'y' || k.Rune == 'Y'):
		if err := d.save(true); err != nil {
			d.overlay = OverlayNone
			d.setStatus("Save failed: " + err.Error())
			return
		}
		d.quit = true
	case k.Code == KeyRune && (k.Rune == 'n' || k.Rune == 'N'):
		d.quit = true
	case k.Code == KeyEsc, k.Code == KeyRune && (k.Rune == 'c' || k.Rune == 'C'):
		d.overlay = OverlayNone
	}
}

// ============================================================================
// Overlays
// ============================================================================

func (d *Dispatcher) handleOverlay(k Key) {
	switch d.overlay {
	case OverlayHelp, OverlayStats:
		// Any key dismisses.
		d.overlay = OverlayNone
	case OverlayVersions:
		d.handleVersionList(k)
	case OverlayVersionView:
		switch {
		case k.Code == KeyRune && k.Rune == 'r':
			d.restoreVersion()
		case k.Code == KeyEsc, k.Code == KeyRune && k.Rune == 'q':
			d.overlay = OverlayVersions
		}
	case OverlayVersionDiff:
		d.overlay = OverlayVersions
	}
}

func (d *Dispatcher) handleVersionList(k Key) {
	switch {
	case k.Code == KeyDown, k.Code == KeyRune && k.Rune == 'j':
		if d.versionIndex < len(d.versions)-1 {
			d.versionIndex++
		}
	case k.Code == KeyUp, k.Code == KeyRune && k.Rune == 'k':
		if d.versionIndex > 0 {
			d.versionIndex--
		}
	case k.Code == KeyEnter:
		if len(d.versions) > 0 {
			d.overlay = OverlayVersionView
		}
	case k.Code == KeyRune && k.Rune == 'd':
		if len(d.versions) > 0 {
			d.overlay = OverlayVersionDiff
		}
	case k.Code == KeyRune && k.Rune == 'r':
		d.restoreVersion()
	case k.Code == KeyEsc, k.Code == KeyRune && k.Rune == 'q':
		d.overlay = OverlayNone
	}
}

func (d *Dispatcher) showVersions() {
	if d.store == nil {
		d.setStatus("Version history disabled")
		return
	}
	versions, err := d.store.Versions(d.path)
	if err != nil {
		d.setStatus("Version history unavailable")
		log.ErrorErr(log.CatHistory, err, "listing versions", "path", d.path)
		return
	}
	d.versions = versions
	d.versionIndex = 0
	d.overlay = OverlayVersions
}

func (d *Dispatcher) restoreVersion() {
	if d.store == nil || d.versionIndex >= len(d.versions) {
		return
	}
	rec := d.versions[d.versionIndex]
	content, err := d.store.Restore(d.path, rec, d.buf.String())
	if err != nil {
		d.setStatus("Restore failed: " + err.Error())
		log.ErrorErr(log.CatHistory, err, "restoring version", "path", d.path)
		return
	}

	// A restore is not an undoable edit; the history store is the way
	// back.
	d.buf = buffer.New(content)
	d.hist.Clear()
	d.eng.Clear()
	d.cur.Set(d.buf, 0, d.mode == ModeNavigate)
	d.modified = true
	d.overlay = OverlayNone
	d.setStatus("Version restored")
	d.observeWords()
}

// ============================================================================
// Search
// ============================================================================

func (d *Dispatcher) submitSearch() {
	query := string(d.searchInput)
	d.mode = ModeNavigate
	d.eng.Execute(d.buf.String(), query, d.cur.Offset())
	if query == "" {
		return
	}
	m, err := d.eng.Current()
	if err != nil {
		d.setStatus("No matches")
		return
	}
	d.cur.Set(d.buf, m.Start, true)
}

func (d *Dispatcher) searchNext() {
	if !d.eng.Active() {
		return
	}
	m, err := d.eng.Next()
	if err != nil {
		d.setStatus("No matches")
		return
	}
	d.cur.Set(d.buf, m.Start, true)
}

func (d *Dispatcher) searchPrevious() {
	if !d.eng.Active() {
		return
	}
	m, err := d.eng.Previous()
	if err != nil {
		d.setStatus("No matches")
		return
	}
	d.cur.Set(d.buf, m.Start, true)
}

// ============================================================================
// Status / stats plumbing
// ============================================================================

func (d *Dispatcher) toggleStatus() {
	d.showStatus = !d.showStatus
	if d.showStatus && d.cfg.Display.StatusTimeout > 0 {
		d.statusTimer = d.now()
	}
}

func (d *Dispatcher) setStatus(msg string) {
	d.statusMsg = msg
	d.statusUntil = d.now().Add(statusMessageFor)
}

// observeWords feeds the current word count to the session and the
// daily tracker after anything that may have edited the buffer.
func (d *Dispatcher) observeWords() {
	words := d.buf.WordCount()
	d.session.Update(words)
	if d.tracker == nil {
		return
	}
	if err := d.tracker.Observe(words); err != nil {
		log.ErrorErr(log.CatStats, err, "recording words")
	}
}
