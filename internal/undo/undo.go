// Package undo implements the undo/redo engine.
//
// Every buffer mutation is recorded as a delta, a plain value holding the
// offset plus the exact text removed and inserted. Deltas accumulate into
// groups, the unit a single undo or redo acts on. A new edit extends the
// open group only when it has the same class (insert or delete), continues
// exactly where the previous edit left off, and lands within the grouping
// window; otherwise the open group is closed onto the undo stack and a new
// one starts.
//
// Inversion is pure data: undoing a delta deletes what it inserted and
// re-inserts what it removed. No closures, no captured buffer state.
package undo

import (
	"errors"
	"time"

	"github.com/zjrosen/hollow/internal/buffer"
)

var (
	// ErrNothingToUndo signals an empty undo history. Benign; shown as a
	// status message.
	ErrNothingToUndo = errors.New("undo: nothing to undo")

	// ErrNothingToRedo signals an empty redo stack. Benign.
	ErrNothingToRedo = errors.New("undo: nothing to redo")
)

// GroupWindow is how long after the previous edit a matching edit may
// still join the open group.
const GroupWindow = 2 * time.Second

// Class tags a group by the kind of edits it holds.
type Class int

const (
	Insert Class = iota
	Delete
)

func (c Class) String() string {
	if c == Insert {
		return "insert"
	}
	return "delete"
}

// Delta is one recorded mutation. Removed is the text the edit deleted at
// Offset, Inserted the text it put there. Either may be empty.
type Delta struct {
	Offset   int
	Removed  string
	Inserted string
}

// Inverse returns the delta that exactly reverts d.
func (d Delta) Inverse() Delta {
	return Delta{Offset: d.Offset, Removed: d.Inserted, Inserted: d.Removed}
}

// Apply performs d against the rope: remove first, then insert.
func (d Delta) Apply(r *buffer.Rope) error {
	if d.Removed != "" {
		if _, err := r.Delete(d.Offset, d.Offset+len([]rune(d.Removed))); err != nil {
			return err
		}
	}
	if d.Inserted != "" {
		if _, err := r.Insert(d.Offset, d.Inserted); err != nil {
			return err
		}
	}
	return nil
}

// end returns the cursor offset the edit leaves behind.
func (d Delta) end() int {
	return d.Offset + len([]rune(d.Inserted))
}

type group struct {
	deltas []Delta
	class  Class
	stamp  time.Time // time of the group's most recent edit
	end    int       // cursor offset after the most recent edit
}

// History holds the undo and redo stacks for one document session.
type History struct {
	undo []*group
	redo []*group
	open *group
	now  func() time.Time
}

// New returns an empty history using the wall clock.
func New() *History {
	return NewWithClock(time.Now)
}

// NewWithClock returns an empty history with an injected clock, for
// deterministic grouping tests.
func NewWithClock(now func() time.Time) *History {
	return &History{now: now}
}

// RecordInsert records an insertion of text at offset.
func (h *History) RecordInsert(offset int, text string) {
	h.record(Insert, Delta{Offset: offset, Inserted: text})
}

// RecordDelete records a deletion of text that started at offset.
func (h *History) RecordDelete(offset int, text string) {
	h.record(Delete, Delta{Offset: offset, Removed: text})
}

func (h *History) record(class Class, d Delta) {
	// Fresh edits invalidate everything that was undone.
	h.redo = nil

	now := h.now()
	if h.open != nil && h.extends(class, d, now) {
		h.open.deltas = append(h.open.deltas, d)
		h.open.stamp = now
		h.open.end = d.end()
		return
	}

	h.CloseGroup()
	h.open = &group{
		deltas: []Delta{d},
		class:  class,
		stamp:  now,
		end:    d.end(),
	}
}

// extends reports whether delta d may join the open group: same class,
// contiguous with the previous edit, and inside the grouping window.
func (h *History) extends(class Class, d Delta, now time.Time) bool {
	g := h.open
	if g.class != class {
		return false
	}
	if now.Sub(g.stamp) > GroupWindow {
		return false
	}
	switch class {
	case Insert:
		// Typing continues at the end of the previous insertion.
		return d.Offset == g.end
	default:
		// Forward delete stays in place; backspace walks left by the
		// width of the removed text.
		return d.Offset == g.end || d.Offset+len([]rune(d.Removed)) == g.end
	}
}

// CloseGroup pushes the open group, if any, onto the undo stack. Called
// on undo, manual save, and mode changes.
func (h *History) CloseGroup() {
	if h.open != nil {
		h.undo = append(h.undo, h.open)
		h.open = nil
	}
}

// CanUndo reports whether an undo would act.
func (h *History) CanUndo() bool {
	return h.open != nil || len(h.undo) > 0
}

// CanRedo reports whether a redo would act.
func (h *History) CanRedo() bool {
	return len(h.redo) > 0
}

// Clear drops both stacks and any open group. Used after a version
// restore, which replaces the document wholesale.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
	h.open = nil
}

// Undo reverts the most recent group against the rope and returns the
// offset the cursor should move to.
func (h *History) Undo(r *buffer.Rope) (int, error) {
	h.CloseGroup()
	if len(h.undo) == 0 {
		return 0, ErrNothingToUndo
	}
	g := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]

	offset := 0
	for i := len(g.deltas) - 1; i >= 0; i-- {
		inv := g.deltas[i].Inverse()
		if err := inv.Apply(r); err != nil {
			return 0, err
		}
		offset = inv.end()
	}
	h.redo = append(h.redo, g)
	return offset, nil
}

// Redo reapplies the most recently undone group and returns the offset
// the cursor should move to.
func (h *History) Redo(r *buffer.Rope) (int, error) {
	if len(h.redo) == 0 {
		return 0, ErrNothingToRedo
	}
	g := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]

	offset := 0
	for _, d := range g.deltas {
		if err := d.Apply(r); err != nil {
			return 0, err
		}
		offset = d.end()
	}
	h.undo = append(h.undo, g)
	return offset, nil
}
