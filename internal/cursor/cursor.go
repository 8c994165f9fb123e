// Package cursor implements cursor state and movement over a buffer.
//
// The cursor is a rune offset plus a sticky column. The sticky column is
// the preferred horizontal position retained across vertical moves: when
// the cursor crosses a shorter line it clamps visually but remembers the
// wider column, restoring it once a long enough line is reached. Only
// horizontal and word moves update it.
//
// Movement in Navigate mode keeps the cursor on a character: on a
// non-empty line the cursor may not rest one past the last character
// (an empty line still admits column 0). Write mode allows the
// end-of-line position so typing appends.
package cursor

import (
	"unicode"

	"github.com/zjrosen/hollow/internal/buffer"
)

// Cursor tracks a position in a document.
type Cursor struct {
	offset int
	sticky int
}

// New returns a cursor at the start of the document.
func New() *Cursor {
	return &Cursor{}
}

// Offset returns the current rune offset.
func (c *Cursor) Offset() int {
	return c.offset
}

// StickyCol returns the preferred column. Exposed for tests.
func (c *Cursor) StickyCol() int {
	return c.sticky
}

// Set places the cursor at offset, clamping into bounds and applying the
// Navigate end-of-line rule when nav is true. The sticky column follows.
func (c *Cursor) Set(r *buffer.Rope, offset int, nav bool) {
	c.place(r, offset, nav)
	c.syncSticky(r)
}

// Clamp re-validates the cursor after a mutation that may have shortened
// the document. Sticky column is preserved.
func (c *Cursor) Clamp(r *buffer.Rope, nav bool) {
	c.place(r, c.offset, nav)
}

// place clamps offset into bounds and onto a character in Navigate mode,
// without touching the sticky column.
func (c *Cursor) place(r *buffer.Rope, offset int, nav bool) {
	offset = max(0, min(offset, r.Len()))
	line, col, _ := r.OffsetToLineCol(offset)
	if m := c.maxCol(r, line, nav); col > m {
		offset, _ = r.LineColToOffset(line, m)
	}
	c.offset = offset
}

// maxCol returns the highest column the cursor may occupy on a line.
func (c *Cursor) maxCol(r *buffer.Rope, line int, nav bool) int {
	n, _ := r.LineLen(line)
	if nav && n > 0 {
		return n - 1
	}
	return n
}

func (c *Cursor) syncSticky(r *buffer.Rope) {
	_, col, _ := r.OffsetToLineCol(c.offset)
	c.sticky = col
}

// Left moves one rune left, stopping at the start of the document.
func (c *Cursor) Left(r *buffer.Rope, nav bool) {
	c.Set(r, c.offset-1, nav)
}

// Right moves one rune right, stopping at the end of the document (or the
// last character of the line in Navigate mode).
func (c *Cursor) Right(r *buffer.Rope, nav bool) {
	c.Set(r, c.offset+1, nav)
}

// Up moves to the sticky column on the previous line.
func (c *Cursor) Up(r *buffer.Rope, nav bool) {
	c.vertical(r, -1, nav)
}

// Down moves to the sticky column on the next line.
func (c *Cursor) Down(r *buffer.Rope, nav bool) {
	c.vertical(r, 1, nav)
}

// PageUp moves up by rows lines, keeping the sticky column.
func (c *Cursor) PageUp(r *buffer.Rope, rows int, nav bool) {
	c.vertical(r, -max(1, rows), nav)
}

// PageDown moves down by rows lines, keeping the sticky column.
func (c *Cursor) PageDown(r *buffer.Rope, rows int, nav bool) {
	c.vertical(r, max(1, rows), nav)
}

func (c *Cursor) vertical(r *buffer.Rope, delta int, nav bool) {
	line, _, _ := r.OffsetToLineCol(c.offset)
	line = max(0, min(line+delta, r.LineCount()-1))
	col := min(c.sticky, c.maxCol(r, line, nav))
	c.offset, _ = r.LineColToOffset(line, col)
}

// LineStart moves to column 0 of the current line.
func (c *Cursor) LineStart(r *buffer.Rope) {
	line, _, _ := r.OffsetToLineCol(c.offset)
	c.offset, _ = r.LineColToOffset(line, 0)
	c.sticky = 0
}

// LineEnd moves to the last permitted column of the current line.
func (c *Cursor) LineEnd(r *buffer.Rope, nav bool) {
	line, _, _ := r.OffsetToLineCol(c.offset)
	col := c.maxCol(r, line, nav)
	c.offset, _ = r.LineColToOffset(line, col)
	c.sticky = col
}

// DocumentStart moves to offset 0.
func (c *Cursor) DocumentStart(r *buffer.Rope) {
	c.Set(r, 0, false)
}

// DocumentEnd moves to the end of the last line.
func (c *Cursor) DocumentEnd(r *buffer.Rope, nav bool) {
	c.Set(r, r.Len(), nav)
}

// Character classes for word motion. A boundary is any transition
// between word characters, punctuation and whitespace.
const (
	classSpace = iota
	classWord
	classPunct
)

func classOf(ch rune) int {
	switch {
	case unicode.IsSpace(ch):
		return classSpace
	case ch == '_' || unicode.IsLetter(ch) || unicode.IsNumber(ch):
		return classWord
	default:
		return classPunct
	}
}

// WordForward moves to the start of the next class-run (vim "w").
func (c *Cursor) WordForward(r *buffer.Rope, nav bool) {
	n := r.Len()
	i := c.offset
	if i >= n {
		c.Set(r, n, nav)
		return
	}
	ch, _ := r.RuneAt(i)
	if cls := classOf(ch); cls != classSpace {
		for i < n {
			ch, _ = r.RuneAt(i)
			if classOf(ch) != cls {
				break
			}
			i++
		}
	}
	for i < n {
		ch, _ = r.RuneAt(i)
		if classOf(ch) != classSpace {
			break
		}
		i++
	}
	c.Set(r, i, nav)
}

// WordBackward moves to the start of the previous class-run (vim "b").
func (c *Cursor) WordBackward(r *buffer.Rope, nav bool) {
	i := c.offset
	if i == 0 {
		return
	}
	i--
	for i > 0 {
		ch, _ := r.RuneAt(i)
		if classOf(ch) != classSpace {
			break
		}
		i--
	}
	ch, _ := r.RuneAt(i)
	if classOf(ch) == classSpace {
		c.Set(r, 0, nav)
		return
	}
	cls := classOf(ch)
	for i > 0 {
		prev, _ := r.RuneAt(i - 1)
		if classOf(prev) != cls {
			break
		}
		i--
	}
	c.Set(r, i, nav)
}

// ParagraphForward moves to the first non-blank line after the current
// blank-delimited block, or the last line when none follows.
func (c *Cursor) ParagraphForward(r *buffer.Rope, nav bool) {
	line, _, _ := r.OffsetToLineCol(c.offset)
	last := r.LineCount() - 1
	for line < last && !c.blankLine(r, line) {
		line++
	}
	for line < last && c.blankLine(r, line) {
		line++
	}
	start, _, _ := r.LineRange(line)
	c.Set(r, start, nav)
}

// ParagraphBackward moves to the first line of the enclosing block, or,
// when already there, of the previous block. Line 0 when none precedes.
func (c *Cursor) ParagraphBackward(r *buffer.Rope, nav bool) {
	line, _, _ := r.OffsetToLineCol(c.offset)
	if line > 0 && !c.blankLine(r, line) {
		line--
	}
	for line > 0 && c.blankLine(r, line) {
		line--
	}
	for line > 0 && !c.blankLine(r, line-1) {
		line--
	}
	start, _, _ := r.LineRange(line)
	c.Set(r, start, nav)
}

// blankLine reports whether a line is empty or all whitespace.
func (c *Cursor) blankLine(r *buffer.Rope, line int) bool {
	s, err := r.Line(line)
	if err != nil {
		return false
	}
	for _, ch := range s {
		if !unicode.IsSpace(ch) {
			return false
		}
	}
	return true
}
