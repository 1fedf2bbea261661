// Package history keeps an append-only stack of shape collection snapshots
// with a cursor, giving linear undo. There is no redo: a push while the
// cursor sits below the top truncates the abandoned branch.
package history

import "github.com/example/overmark/internal/shape"

// DefaultMaxEntries bounds how many snapshots are retained. Old entries are
// dropped from the front once the limit is exceeded.
const DefaultMaxEntries = 100

// History is a sequence of immutable snapshots of the committed shape
// collection plus a cursor. The entry at the cursor always equals the
// currently committed collection. Not safe for concurrent use; the editor
// owns it from a single goroutine.
type History struct {
	entries []shape.List
	cursor  int
	max     int
}

// New returns a history containing a single empty snapshot with the cursor
// on it.
func New() *History {
	return &History{
		entries: []shape.List{{}},
		max:     DefaultMaxEntries,
	}
}

// Push records a new snapshot of the committed collection. Entries past the
// cursor are discarded first, then the snapshot is appended and the cursor
// advanced to it. The stored entry is a deep copy.
func (h *History) Push(l shape.List) {
	h.entries = append(h.entries[:h.cursor+1], l.Clone())
	h.cursor = len(h.entries) - 1
	if h.max > 0 && len(h.entries) > h.max {
		drop := len(h.entries) - h.max
		h.entries = h.entries[drop:]
		h.cursor -= drop
	}
}

// Undo steps the cursor back one entry and returns a copy of the snapshot it
// now points at. At the bottom of history it reports false and returns nil.
func (h *History) Undo() (shape.List, bool) {
	if h.cursor == 0 {
		return nil, false
	}
	h.cursor--
	return h.entries[h.cursor].Clone(), true
}

// Current returns a copy of the snapshot at the cursor.
func (h *History) Current() shape.List {
	return h.entries[h.cursor].Clone()
}

// CanUndo reports whether the cursor can move back.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// Len returns the number of retained snapshots.
func (h *History) Len() int { return len(h.entries) }

// Cursor returns the index of the current snapshot.
func (h *History) Cursor() int { return h.cursor }

// Reset discards all snapshots and restores the initial single empty entry.
// Used when the background image changes; annotations never carry across
// images.
func (h *History) Reset() {
	h.entries = []shape.List{{}}
	h.cursor = 0
}
