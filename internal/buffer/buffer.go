// Package buffer implements the rope-backed document buffer.
//
// The rope stores the document as an ordered sequence of rune chunks.
// Offsets are rune offsets (Unicode scalar values), never bytes. The
// chunk index and the line index are rebuilt lazily after structural
// changes, so repeated reads between edits stay cheap.
//
// The buffer never clamps: any offset or range outside [0, Len()] fails
// with ErrInvalidPosition. Callers that want clamping clamp first. This
// keeps mutation semantics exact, which the undo engine relies on when
// it records inverse deltas.
package buffer

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// ErrInvalidPosition is returned when an offset or range is outside the
// document bounds. Reaching it indicates a caller bug, not user input.
var ErrInvalidPosition = errors.New("buffer: invalid position")

// chunkSize is the target chunk length in runes. Chunks grow up to
// 2*chunkSize before they are split.
const chunkSize = 512

// Rope is a chunked mutable text store.
//
// A Rope is owned by exactly one editing session and must not be shared
// across goroutines.
type Rope struct {
	chunks [][]rune

	// Lazily rebuilt indexes. cum[i] is the rune offset of chunks[i];
	// lineStarts[k] is the rune offset of line k (lineStarts[0] == 0).
	cum        []int
	lineStarts []int
	length     int
	dirty      bool

	words      int
	wordsDirty bool
}

// New creates a rope holding s.
func New(s string) *Rope {
	r := &Rope{dirty: true, wordsDirty: true}
	runes := []rune(s)
	for len(runes) > 0 {
		n := min(len(runes), chunkSize)
		chunk := make([]rune, n)
		copy(chunk, runes[:n])
		r.chunks = append(r.chunks, chunk)
		runes = runes[n:]
	}
	return r
}

// Len returns the document length in runes.
func (r *Rope) Len() int {
	r.reindex()
	return r.length
}

// String returns the full document content.
func (r *Rope) String() string {
	var b strings.Builder
	for _, c := range r.chunks {
		b.WriteString(string(c))
	}
	return b.String()
}

// Insert inserts text at the given rune offset and returns the inserted
// text (so the caller can record an inverse delta).
func (r *Rope) Insert(offset int, text string) (string, error) {
	r.reindex()
	if offset < 0 || offset > r.length {
		return "", fmt.Errorf("%w: insert at %d, len %d", ErrInvalidPosition, offset, r.length)
	}
	if text == "" {
		return "", nil
	}

	runes := []rune(text)
	if len(r.chunks) == 0 {
		r.chunks = append(r.chunks, runes)
	} else {
		ci, local := r.locate(offset)
		chunk := r.chunks[ci]
		merged := make([]rune, 0, len(chunk)+len(runes))
		merged = append(merged, chunk[:local]...)
		merged = append(merged, runes...)
		merged = append(merged, chunk[local:]...)
		r.chunks[ci] = merged
		r.splitChunk(ci)
	}

	r.markDirty()
	return text, nil
}

// Delete removes the rune range [from, to) and returns the removed text.
func (r *Rope) Delete(from, to int) (string, error) {
	r.reindex()
	if from < 0 || to > r.length || from > to {
		return "", fmt.Errorf("%w: delete [%d,%d), len %d", ErrInvalidPosition, from, to, r.length)
	}
	if from == to {
		return "", nil
	}

	removed := make([]rune, 0, to-from)
	ci, local := r.locate(from)
	remaining := to - from
	for remaining > 0 {
		chunk := r.chunks[ci]
		n := min(remaining, len(chunk)-local)
		removed = append(removed, chunk[local:local+n]...)
		r.chunks[ci] = append(chunk[:local], chunk[local+n:]...)
		remaining -= n
		if len(r.chunks[ci]) == 0 {
			r.chunks = append(r.chunks[:ci], r.chunks[ci+1:]...)
			// ci now points at the next chunk.
		} else {
			ci++
		}
		local = 0
	}

	r.markDirty()
	return string(removed), nil
}

// Slice returns the text in the rune range [from, to).
func (r *Rope) Slice(from, to int) (string, error) {
	r.reindex()
	if from < 0 || to > r.length || from > to {
		return "", fmt.Errorf("%w: slice [%d,%d), len %d", ErrInvalidPosition, from, to, r.length)
	}
	if from == to {
		return "", nil
	}

	out := make([]rune, 0, to-from)
	ci, local := r.locate(from)
	remaining := to - from
	for remaining > 0 {
		chunk := r.chunks[ci]
		n := min(remaining, len(chunk)-local)
		out = append(out, chunk[local:local+n]...)
		remaining -= n
		ci++
		local = 0
	}
	return string(out), nil
}

// RuneAt returns the rune at the given offset.
func (r *Rope) RuneAt(offset int) (rune, error) {
	r.reindex()
	if offset < 0 || offset >= r.length {
		return 0, fmt.Errorf("%w: rune at %d, len %d", ErrInvalidPosition, offset, r.length)
	}
	ci, local := r.locate(offset)
	return r.chunks[ci][local], nil
}

// LineCount returns the number of lines. An empty document has one line;
// every '\n' starts a new one.
func (r *Rope) LineCount() int {
	r.reindex()
	return len(r.lineStarts)
}

// LineRange returns the rune range [start, end) of the line's content,
// excluding the trailing newline if any.
func (r *Rope) LineRange(line int) (start, end int, err error) {
	r.reindex()
	if line < 0 || line >= len(r.lineStarts) {
		return 0, 0, fmt.Errorf("%w: line %d of %d", ErrInvalidPosition, line, len(r.lineStarts))
	}
	start = r.lineStarts[line]
	if line+1 < len(r.lineStarts) {
		end = r.lineStarts[line+1] - 1 // drop the '\n'
	} else {
		end = r.length
	}
	return start, end, nil
}

// Line returns the content of a line, excluding its trailing newline.
func (r *Rope) Line(line int) (string, error) {
	start, end, err := r.LineRange(line)
	if err != nil {
		return "", err
	}
	return r.Slice(start, end)
}

// LineLen returns the length of a line in runes, excluding the newline.
func (r *Rope) LineLen(line int) (int, error) {
	start, end, err := r.LineRange(line)
	if err != nil {
		return 0, err
	}
	return end - start, nil
}

// OffsetToLineCol translates a rune offset into a (line, column) pair.
// Offset Len() is valid and maps to the end of the last line.
func (r *Rope) OffsetToLineCol(offset int) (line, col int, err error) {
	r.reindex()
	if offset < 0 || offset > r.length {
		return 0, 0, fmt.Errorf("%w: offset %d, len %d", ErrInvalidPosition, offset, r.length)
	}
	// Last lineStarts entry <= offset.
	line = sort.Search(len(r.lineStarts), func(i int) bool {
		return r.lineStarts[i] > offset
	}) - 1
	return line, offset - r.lineStarts[line], nil
}

// LineColToOffset translates a (line, column) pair into a rune offset.
// The column must lie within [0, LineLen(line)].
func (r *Rope) LineColToOffset(line, col int) (int, error) {
	start, end, err := r.LineRange(line)
	if err != nil {
		return 0, err
	}
	if col < 0 || start+col > end {
		return 0, fmt.Errorf("%w: col %d on line %d (len %d)", ErrInvalidPosition, col, line, end-start)
	}
	return start + col, nil
}

// WordCount returns the number of whitespace-delimited tokens. The count
// is cached between mutations so save, autosave and stats all agree.
func (r *Rope) WordCount() int {
	if !r.wordsDirty {
		return r.words
	}
	count := 0
	inWord := false
	for _, chunk := range r.chunks {
		for _, c := range chunk {
			if unicode.IsSpace(c) {
				inWord = false
			} else if !inWord {
				inWord = true
				count++
			}
		}
	}
	r.words = count
	r.wordsDirty = false
	return count
}

func (r *Rope) markDirty() {
	r.dirty = true
	r.wordsDirty = true
}

// reindex rebuilds the chunk offset table and the line index after a
// structural change.
func (r *Rope) reindex() {
	if !r.dirty && r.cum != nil {
		return
	}
	r.cum = r.cum[:0]
	r.lineStarts = append(r.lineStarts[:0], 0)
	offset := 0
	for _, chunk := range r.chunks {
		r.cum = append(r.cum, offset)
		for i, c := range chunk {
			if c == '\n' {
				r.lineStarts = append(r.lineStarts, offset+i+1)
			}
		}
		offset += len(chunk)
	}
	r.length = offset
	r.dirty = false
}

// locate maps a rune offset to (chunk index, offset within chunk).
// offset == Len() maps to the end of the last chunk. Assumes a fresh
// index and at least one chunk when offset > 0.
func (r *Rope) locate(offset int) (ci, local int) {
	if len(r.chunks) == 0 {
		return 0, 0
	}
	ci = sort.Search(len(r.cum), func(i int) bool {
		return r.cum[i] > offset
	}) - 1
	local = offset - r.cum[ci]
	// Normalize end-of-chunk to start-of-next so splices always have a
	// valid insertion point, except at the very end of the document.
	if local == len(r.chunks[ci]) && ci+1 < len(r.chunks) {
		ci++
		local = 0
	}
	return ci, local
}

// splitChunk splits chunks[ci] into chunkSize pieces when it has grown
// past 2*chunkSize.
func (r *Rope) splitChunk(ci int) {
	chunk := r.chunks[ci]
	if len(chunk) <= 2*chunkSize {
		return
	}
	var parts [][]rune
	for len(chunk) > 0 {
		n := min(len(chunk), chunkSize)
		part := make([]rune, n)
		copy(part, chunk[:n])
		parts = append(parts, part)
		chunk = chunk[n:]
	}
	rest := make([][]rune, 0, len(r.chunks)+len(parts)-1)
	rest = append(rest, r.chunks[:ci]...)
	rest = append(rest, parts...)
	rest = append(rest, r.chunks[ci+1:]...)
	r.chunks = rest
}
