package app

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/edge2meet/signaling/internal/domain"
)

// Frame is a single outbound wire message.
type Frame []byte

// Conn is the transport handle the registry routes frames to. Sends must
// not block; a slow consumer gets an error, not a stall.
type Conn interface {
	TrySend(Frame) error
}

type registryEntry struct {
	part *domain.Participant
	conn Conn
}

// Registry maps participant identity to its live connection, room,
// display name and join time. One record per identity; a later Register
// with the same id overwrites the earlier record.
type Registry struct {
	mu      sync.RWMutex
	entries map[domain.UserID]*registryEntry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[domain.UserID]*registryEntry)}
}

func (r *Registry) Register(id domain.UserID, conn Conn, room domain.RoomID, username string) domain.Participant {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := &domain.Participant{
		ID:       id,
		Room:     room,
		Username: username,
		JoinedAt: time.Now(),
	}
	r.entries[id] = &registryEntry{part: p, conn: conn}
	log.Info().Str("module", "app.registry").Str("user", string(id)).Str("room", string(room)).Msg("registered participant")
	return *p
}

func (r *Registry) Lookup(id domain.UserID) (domain.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return domain.Participant{}, false
	}
	return *e.part, true
}

// FindByConn resolves a transport-level handle back to its participant.
// Disconnect events carry only the connection, not the identity.
func (r *Registry) FindByConn(conn Conn) (domain.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.conn == conn {
			return *e.part, true
		}
	}
	return domain.Participant{}, false
}

// Remove drops the record for id. Removing an absent id is a no-op.
func (r *Registry) Remove(id domain.UserID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
	log.Info().Str("module", "app.registry").Str("user", string(id)).Msg("removed participant")
}

// SetMuteStatus records the last-known mute flags for id.
func (r *Registry) SetMuteStatus(id domain.UserID, audio, video bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return false
	}
	e.part.AudioMuted = audio
	e.part.VideoMuted = video
	return true
}

// CountInRoom recomputes the live membership of room. Counts are never
// tracked incrementally; drift from missed events is not possible.
func (r *Registry) CountInRoom(room domain.RoomID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, e := range r.entries {
		if e.part.Room == room {
			n++
		}
	}
	return n
}

// Fanout enqueues frame on every connection in room, skipping except
// when non-nil. The registry lock is held for the whole fan-out, so two
// broadcasts targeting one room are observed in the same order on every
// connection. Sends never block; a slow consumer's frame is dropped.
func (r *Registry) Fanout(room domain.RoomID, except Conn, frame Frame) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	sent := 0
	for _, e := range r.entries {
		if e.part.Room != room {
			continue
		}
		if except != nil && e.conn == except {
			continue
		}
		if err := e.conn.TrySend(frame); err != nil {
			log.Warn().Str("module", "app.registry").Str("to", string(e.part.ID)).Err(err).Msg("dropped frame")
			continue
		}
		sent++
	}
	return sent
}

// Rooms lists every room that currently has at least one member,
// with its point-in-time participant count.
func (r *Registry) Rooms() map[domain.RoomID]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[domain.RoomID]int)
	for _, e := range r.entries {
		out[e.part.Room]++
	}
	return out
}
