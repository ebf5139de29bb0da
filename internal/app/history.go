package app

import (
	"sync"

	"github.com/edge2meet/signaling/internal/domain"
)

// historyLimit bounds each room's buffer; insertion beyond it evicts
// the oldest entry.
const historyLimit = 100

// History is the per-room bounded append log replayed to late joiners.
type History struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID][]domain.ChatEntry
}

func NewHistory() *History {
	return &History{rooms: make(map[domain.RoomID][]domain.ChatEntry)}
}

// Append pushes entry onto room's buffer. Entries are immutable once
// appended. An empty room id is ignored.
func (h *History) Append(room domain.RoomID, entry domain.ChatEntry) {
	if room == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	buf := append(h.rooms[room], entry)
	if len(buf) > historyLimit {
		buf = buf[len(buf)-historyLimit:]
	}
	h.rooms[room] = buf
}

// Snapshot returns room's entries oldest-first.
func (h *History) Snapshot(room domain.RoomID) []domain.ChatEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]domain.ChatEntry, len(h.rooms[room]))
	copy(out, h.rooms[room])
	return out
}

// Drop discards room's buffer. Called when a room's membership reaches
// zero so abandoned rooms do not pin their history forever.
func (h *History) Drop(room domain.RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms, room)
}
