package history

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// LineOp tags a diff line.
type LineOp int

const (
	OpEqual LineOp = iota
	OpDelete
	OpInsert
)

func (op LineOp) String() string {
	switch op {
	case OpDelete:
		return "-"
	case OpInsert:
		return "+"
	default:
		return " "
	}
}

// DiffLine is one line of a line-level edit script.
type DiffLine struct {
	Op   LineOp
	Text string
}

// Diff computes a minimal line-level edit script between two contents.
// Runs of equal, deleted and inserted lines come out in document order,
// ready for display; nothing is applied to the document.
func Diff(old, new string) []DiffLine {
	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(old, new)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var out []DiffLine
	for _, d := range diffs {
		op := OpEqual
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			op = OpDelete
		case diffmatchpatch.DiffInsert:
			op = OpInsert
		}
		for _, line := range splitLines(d.Text) {
			out = append(out, DiffLine{Op: op, Text: line})
		}
	}
	return out
}

// splitLines splits on '\n', dropping the empty tail a trailing newline
// leaves behind.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
