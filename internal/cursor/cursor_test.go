package cursor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/hollow/internal/buffer"
)

func at(t *testing.T, r *buffer.Rope, line, col int) *Cursor {
	t.Helper()
	c := New()
	off, err := r.LineColToOffset(line, col)
	require.NoError(t, err)
	c.Set(r, off, false)
	return c
}

func pos(t *testing.T, r *buffer.Rope, c *Cursor) (line, col int) {
	t.Helper()
	line, col, err := r.OffsetToLineCol(c.Offset())
	require.NoError(t, err)
	return line, col
}

// ============================================================================
// Character moves
// ============================================================================

func TestLeftRightClampAtBounds(t *testing.T) {
	r := buffer.New("ab")
	c := New()

	c.Left(r, false)
	require.Equal(t, 0, c.Offset())

	c.Right(r, false)
	c.Right(r, false)
	require.Equal(t, 2, c.Offset())
	c.Right(r, false)
	require.Equal(t, 2, c.Offset())
}

func TestNavigateCannotRestPastLineEnd(t *testing.T) {
	r := buffer.New("ab\ncd")
	c := New()

	// In Write mode offset 2 (after 'b') is fine; Navigate pulls it back
	// onto 'b'.
	c.Set(r, 2, false)
	require.Equal(t, 2, c.Offset())
	c.Set(r, 2, true)
	require.Equal(t, 1, c.Offset())
}

func TestNavigateAllowsEmptyLine(t *testing.T) {
	r := buffer.New("ab\n\ncd")
	c := New()
	c.Set(r, 3, true) // the empty line
	require.Equal(t, 3, c.Offset())
}

// ============================================================================
// Vertical moves and sticky column
// ============================================================================

func TestStickyColumnSurvivesShortLine(t *testing.T) {
	r := buffer.New("longline\nab\nlongline")
	c := at(t, r, 0, 6)

	c.Down(r, false)
	line, col := pos(t, r, c)
	require.Equal(t, 1, line)
	require.Equal(t, 2, col) // clamped to "ab"

	c.Down(r, false)
	line, col = pos(t, r, c)
	require.Equal(t, 2, line)
	require.Equal(t, 6, col) // sticky column restored
}

func TestHorizontalMoveResetsSticky(t *testing.T) {
	r := buffer.New("longline\nab\nlongline")
	c := at(t, r, 0, 6)

	c.Down(r, false) // clamped to col 2
	c.Left(r, false) // horizontal move: sticky becomes 1
	c.Down(r, false)
	_, col := pos(t, r, c)
	require.Equal(t, 1, col)
}

func TestUpDownAtDocumentEdges(t *testing.T) {
	r := buffer.New("a\nb")
	c := New()
	c.Up(r, false)
	require.Equal(t, 0, c.Offset())

	c.Down(r, false)
	c.Down(r, false)
	line, _ := pos(t, r, c)
	require.Equal(t, 1, line)
}

func TestPageMoves(t *testing.T) {
	r := buffer.New("a\nb\nc\nd\ne\nf")
	c := New()

	c.PageDown(r, 4, false)
	line, _ := pos(t, r, c)
	require.Equal(t, 4, line)

	c.PageDown(r, 4, false)
	line, _ = pos(t, r, c)
	require.Equal(t, 5, line)

	c.PageUp(r, 10, false)
	line, _ = pos(t, r, c)
	require.Equal(t, 0, line)
}

// ============================================================================
// Word moves
// ============================================================================

func TestWordForward(t *testing.T) {
	r := buffer.New("foo bar, baz_qux")
	c := New()

	c.WordForward(r, false)
	require.Equal(t, 4, c.Offset()) // "bar"

	c.WordForward(r, false)
	require.Equal(t, 7, c.Offset()) // ","

	c.WordForward(r, false)
	require.Equal(t, 9, c.Offset()) // "baz_qux": underscore is a word char

	c.WordForward(r, false)
	require.Equal(t, 16, c.Offset()) // document end
}

func TestWordBackward(t *testing.T) {
	r := buffer.New("foo bar, baz")
	c := New()
	c.Set(r, 12, false)

	c.WordBackward(r, false)
	require.Equal(t, 9, c.Offset()) // "baz"

	c.WordBackward(r, false)
	require.Equal(t, 7, c.Offset()) // ","

	c.WordBackward(r, false)
	require.Equal(t, 4, c.Offset()) // "bar"

	c.WordBackward(r, false)
	require.Equal(t, 0, c.Offset())

	c.WordBackward(r, false)
	require.Equal(t, 0, c.Offset())
}

func TestWordForwardCrossesNewline(t *testing.T) {
	r := buffer.New("foo\nbar")
	c := New()
	c.WordForward(r, false)
	require.Equal(t, 4, c.Offset())
}

// ============================================================================
// Paragraph moves
// ============================================================================

func TestParagraphForward(t *testing.T) {
	r := buffer.New("one\ntwo\n\n   \nthree\nfour")
	c := New()

	c.ParagraphForward(r, false)
	line, col := pos(t, r, c)
	require.Equal(t, 4, line) // "three"
	require.Equal(t, 0, col)

	c.ParagraphForward(r, false)
	line, _ = pos(t, r, c)
	require.Equal(t, 5, line) // no next block: last line
}

func TestParagraphBackward(t *testing.T) {
	r := buffer.New("one\ntwo\n\nthree\nfour")
	c := at(t, r, 4, 2)

	c.ParagraphBackward(r, false)
	line, col := pos(t, r, c)
	require.Equal(t, 3, line) // start of enclosing block
	require.Equal(t, 0, col)

	c.ParagraphBackward(r, false)
	line, _ = pos(t, r, c)
	require.Equal(t, 0, line) // start of previous block
}

// ============================================================================
// Line and document edges
// ============================================================================

func TestLineStartEnd(t *testing.T) {
	r := buffer.New("hello\nworld")
	c := at(t, r, 1, 2)

	c.LineStart(r)
	_, col := pos(t, r, c)
	require.Equal(t, 0, col)

	c.LineEnd(r, true)
	_, col = pos(t, r, c)
	require.Equal(t, 4, col) // Navigate rests on 'd'

	c.LineEnd(r, false)
	_, col = pos(t, r, c)
	require.Equal(t, 5, col)
}

func TestDocumentStartEnd(t *testing.T) {
	r := buffer.New("one\ntwo\nthree")
	c := at(t, r, 1, 1)

	c.DocumentEnd(r, false)
	require.Equal(t, r.Len(), c.Offset())

	c.DocumentStart(r)
	require.Equal(t, 0, c.Offset())
}

func TestClampAfterShrink(t *testing.T) {
	r := buffer.New("abcdef")
	c := New()
	c.Set(r, 6, false)

	_, err := r.Delete(3, 6)
	require.NoError(t, err)
	c.Clamp(r, true)
	require.Equal(t, 2, c.Offset()) // on 'c', the last character
}
