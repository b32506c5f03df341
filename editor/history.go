package editor

import (
	"fmt"

	"github.com/jinzhu/copier"
)

// DefaultHistorySize is the number of undo steps kept.
const DefaultHistorySize = 50

// snapshot is the undoable part of the editor state. The template, its
// interior mask and the overlay are not part of it.
type snapshot struct {
	Layers     []Layer
	TextFillID string
}

// cloneSnapshot copies layer metadata into fresh structs. Pixel buffers
// are shared: a layer's Pix and Source are never written after creation,
// every color edit allocates new ones.
func cloneSnapshot(s snapshot) (snapshot, error) {
	out := snapshot{TextFillID: s.TextFillID}
	if len(s.Layers) == 0 {
		return out, nil
	}
	if err := copier.Copy(&out.Layers, s.Layers); err != nil {
		return snapshot{}, fmt.Errorf("clone history: %w", err)
	}
	return out, nil
}

// History is a bounded undo/redo stack of value snapshots.
type History struct {
	limit  int
	past   []snapshot
	future []snapshot
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistorySize
	}
	return &History{limit: limit}
}

// record stores the state before a mutation and forgets redo steps. The
// oldest entry is dropped past the limit.
func (h *History) record(s snapshot) error {
	c, err := cloneSnapshot(s)
	if err != nil {
		return err
	}
	h.past = append(h.past, c)
	if len(h.past) > h.limit {
		h.past = h.past[len(h.past)-h.limit:]
	}
	h.future = h.future[:0]
	return nil
}

func (h *History) undo(cur snapshot) (snapshot, bool, error) {
	if len(h.past) == 0 {
		return snapshot{}, false, nil
	}
	c, err := cloneSnapshot(cur)
	if err != nil {
		return snapshot{}, false, err
	}
	prev := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append(h.future, c)
	return prev, true, nil
}

func (h *History) redo(cur snapshot) (snapshot, bool, error) {
	if len(h.future) == 0 {
		return snapshot{}, false, nil
	}
	c, err := cloneSnapshot(cur)
	if err != nil {
		return snapshot{}, false, err
	}
	next := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	h.past = append(h.past, c)
	return next, true, nil
}

func (h *History) reset() {
	h.past, h.future = nil, nil
}

func (h *History) CanUndo() bool { return len(h.past) > 0 }
func (h *History) CanRedo() bool { return len(h.future) > 0 }

// Len returns the number of undo steps available.
func (h *History) Len() int { return len(h.past) }
