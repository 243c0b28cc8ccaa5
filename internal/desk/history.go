package desk

import (
	"encoding/json"
	"fmt"
	"sync"

	"desksort/internal/model"
)

const (
	historyKey = "history"

	// HistoryVersion is the layout version of the history document.
	HistoryVersion = 1

	// MaxHistoryEntries bounds the number of retained operations.
	MaxHistoryEntries = 50
)

type historyDocument struct {
	Version    int               `json:"version"`
	Operations []model.Operation `json:"operations"`
}

// History is the persisted, newest-first list of organize and restore operations.
// Every mutation is written to the store before the call returns.
type History struct {
	mu    sync.Mutex
	store DocumentStore
	ops   []model.Operation
}

// NewHistory loads the history document from store. An absent document is an
// empty history.
func NewHistory(store DocumentStore) (*History, error) {
	raw, err := store.Get(historyKey)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	doc := historyDocument{Version: HistoryVersion}
	if raw != nil {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decoding history: %w", err)
		}
	}
	if len(doc.Operations) > MaxHistoryEntries {
		doc.Operations = doc.Operations[:MaxHistoryEntries]
	}

	return &History{store: store, ops: doc.Operations}, nil
}

// Add records op as the most recent operation, dropping the oldest entries
// beyond MaxHistoryEntries.
func (h *History) Add(op model.Operation) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	next := make([]model.Operation, 0, min(len(h.ops)+1, MaxHistoryEntries))
	next = append(next, op)
	next = append(next, h.ops...)
	if len(next) > MaxHistoryEntries {
		next = next[:MaxHistoryEntries]
	}
	return h.save(next)
}

// Get returns all operations, newest first.
func (h *History) Get() []model.Operation {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]model.Operation{}, h.ops...)
}

// GetByID returns the operation with the given ID.
func (h *History) GetByID(id string) (*model.Operation, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.ops {
		if h.ops[i].ID == id {
			op := h.ops[i]
			return &op, true
		}
	}
	return nil, false
}

// Latest returns the most recent operation.
func (h *History) Latest() (*model.Operation, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.ops) == 0 {
		return nil, false
	}
	op := h.ops[0]
	return &op, true
}

// Remove deletes the operation with the given ID. Unknown IDs are a no-op.
func (h *History) Remove(id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	next := make([]model.Operation, 0, len(h.ops))
	for _, op := range h.ops {
		if op.ID != id {
			next = append(next, op)
		}
	}
	if len(next) == len(h.ops) {
		return nil
	}
	return h.save(next)
}

// Clear removes every operation.
func (h *History) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.save([]model.Operation{})
}

// Stats summarizes the retained operations.
func (h *History) Stats() model.HistoryStats {
	h.mu.Lock()
	defer h.mu.Unlock()

	stats := model.HistoryStats{TotalOperations: len(h.ops)}
	for _, op := range h.ops {
		stats.TotalFilesMoved += len(op.Transfers)
	}
	if len(h.ops) > 0 {
		newest := h.ops[0].Timestamp
		oldest := h.ops[len(h.ops)-1].Timestamp
		stats.NewestEntry = &newest
		stats.OldestEntry = &oldest
	}
	return stats
}

// save persists ops and only then makes them visible. Callers hold h.mu.
func (h *History) save(ops []model.Operation) error {
	data, err := json.Marshal(historyDocument{Version: HistoryVersion, Operations: ops})
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	if err := h.store.Put(historyKey, data); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	h.ops = ops
	return nil
}
