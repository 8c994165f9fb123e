package dispatch

import (
	"github.com/zjrosen/hollow/internal/log"
)

// ============================================================================
// Character edits
// ============================================================================

func (d *Dispatcher) insertRune(ch rune) {
	d.backupIfNeeded()

	off := d.cur.Offset()
	text := string(ch)
	if _, err := d.buf.Insert(off, text); err != nil {
		log.ErrorErr(log.CatEditor, err, "inserting rune", "offset", off)
		return
	}
	d.hist.RecordInsert(off, text)
	d.cur.Set(d.buf, off+1, false)
	d.modified = true
}

// backspace deletes the rune before the cursor, joining lines when the
// cursor sits at a line start.
func (d *Dispatcher) backspace() {
	off := d.cur.Offset()
	if off == 0 {
		return
	}
	d.backupIfNeeded()

	removed, err := d.buf.Delete(off-1, off)
	if err != nil {
		log.ErrorErr(log.CatEditor, err, "deleting rune", "offset", off-1)
		return
	}
	d.hist.RecordDelete(off-1, removed)
	d.cur.Set(d.buf, off-1, false)
	d.modified = true
}

// deleteForward deletes the rune under the cursor.
func (d *Dispatcher) deleteForward() {
	off := d.cur.Offset()
	if off >= d.buf.Len() {
		return
	}
	d.backupIfNeeded()

	removed, err := d.buf.Delete(off, off+1)
	if err != nil {
		log.ErrorErr(log.CatEditor, err, "deleting rune", "offset", off)
		return
	}
	d.hist.RecordDelete(off, removed)
	d.cur.Clamp(d.buf, false)
	d.modified = true
}

// ============================================================================
// Line edits (dd / yy / p)
// ============================================================================

// deleteLine removes the current line including its trailing newline
// (the last line keeps no trailing newline to remove), stores the line
// content in the register, and records the whole removal as a single
// undo group.
func (d *Dispatcher) deleteLine() {
	line, _, err := d.buf.OffsetToLineCol(d.cur.Offset())
	if err != nil {
		return
	}
	start, end, err := d.buf.LineRange(line)
	if err != nil {
		return
	}
	d.register = mustSlice(d, start, end)
	if end < d.buf.Len() {
		end++ // take the trailing newline with the line
	}
	if start == end {
		return
	}
	d.backupIfNeeded()

	d.hist.CloseGroup()
	removed, err := d.buf.Delete(start, end)
	if err != nil {
		log.ErrorErr(log.CatEditor, err, "deleting line", "line", line)
		return
	}
	d.hist.RecordDelete(start, removed)
	d.hist.CloseGroup()

	// Land at the start of the line now occupying this index, clamped
	// to the last line when the deleted line was last.
	if line >= d.buf.LineCount() {
		line = d.buf.LineCount() - 1
	}
	off, err := d.buf.LineColToOffset(line, 0)
	if err != nil {
		off = d.buf.Len()
	}
	d.cur.Set(d.buf, off, true)
	d.modified = true
}

// yankLine copies the current line content (without its newline) into
// the register. No buffer mutation, no undo record.
func (d *Dispatcher) yankLine() {
	line, _, err := d.buf.OffsetToLineCol(d.cur.Offset())
	if err != nil {
		return
	}
	start, end, err := d.buf.LineRange(line)
	if err != nil {
		return
	}
	d.register = mustSlice(d, start, end)
	d.setStatus("Line yanked")
}

// paste inserts the register content as a new line after the current
// line and records it as a single undo group. The cursor lands at the
// start of the inserted line.
func (d *Dispatcher) paste() {
	if d.register == "" {
		return
	}
	line, _, err := d.buf.OffsetToLineCol(d.cur.Offset())
	if err != nil {
		return
	}
	_, end, err := d.buf.LineRange(line)
	if err != nil {
		return
	}
	d.backupIfNeeded()

	// After a line with a trailing newline, insert at the next line
	// start; after the final line, the newline comes first.
	var off int
	var text string
	if end < d.buf.Len() {
		off = end + 1
		text = d.register + "\n"
	} else {
		off = d.buf.Len()
		text = "\n" + d.register
	}

	d.hist.CloseGroup()
	if _, err := d.buf.Insert(off, text); err != nil {
		log.ErrorErr(log.CatEditor, err, "pasting line", "offset", off)
		return
	}
	d.hist.RecordInsert(off, text)
	d.hist.CloseGroup()

	target, err := d.buf.LineColToOffset(line+1, 0)
	if err != nil {
		target = off
	}
	d.cur.Set(d.buf, target, true)
	d.modified = true
}

func mustSlice(d *Dispatcher, from, to int) string {
	s, err := d.buf.Slice(from, to)
	if err != nil {
		return ""
	}
	return s
}

// ============================================================================
// Undo / redo
// ============================================================================

func (d *Dispatcher) undo() {
	off, err := d.hist.Undo(d.buf)
	if err != nil {
		d.setStatus("Nothing to undo")
		return
	}
	d.cur.Set(d.buf, off, d.mode == ModeNavigate)
	d.modified = true
	log.Debug(log.CatUndo, "undo applied", "cursor", off)
}

func (d *Dispatcher) redo() {
	off, err := d.hist.Redo(d.buf)
	if err != nil {
		d.setStatus("Nothing to redo")
		return
	}
	d.cur.Set(d.buf, off, d.mode == ModeNavigate)
	d.modified = true
	log.Debug(log.CatUndo, "redo applied", "cursor", off)
}
