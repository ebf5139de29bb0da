package app

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/edge2meet/signaling/internal/domain"
)

// Coordinator owns membership lifecycle. Rooms exist implicitly: a room
// is whatever set of registry records shares a room id, created on first
// join and gone when its last member leaves.
type Coordinator struct {
	Registry *Registry
	History  *History
}

func NewCoordinator(reg *Registry, hist *History) *Coordinator {
	return &Coordinator{Registry: reg, History: hist}
}

type JoinResult struct {
	Participant domain.Participant
	Count       int
	History     []domain.ChatEntry
}

type LeaveResult struct {
	Participant domain.Participant
	Count       int
}

// Join registers the participant and returns the new count plus the
// room's history, so late joiners see prior messages. Room and user id
// must be non-empty after trimming.
func (c *Coordinator) Join(room, userID, username string, conn Conn) (*JoinResult, error) {
	room = strings.TrimSpace(room)
	userID = strings.TrimSpace(userID)
	if room == "" || userID == "" {
		return nil, fmt.Errorf("%w: room ID or user ID cannot be empty", domain.ErrInvalidRequest)
	}
	username = strings.TrimSpace(username)
	if username == "" {
		username = defaultUsername(userID)
	}

	rid := domain.RoomID(room)
	part := c.Registry.Register(domain.UserID(userID), conn, rid, username)
	count := c.Registry.CountInRoom(rid)
	log.Info().Str("module", "app.rooms").Str("user", userID).Str("room", room).Int("count", count).Msg("participant joined")

	return &JoinResult{
		Participant: part,
		Count:       count,
		History:     c.History.Snapshot(rid),
	}, nil
}

// Leave removes the participant, but only while its live record still
// points at room. A stale leave that arrives after the same identity
// rejoined elsewhere is a no-op.
func (c *Coordinator) Leave(room domain.RoomID, id domain.UserID) (*LeaveResult, bool) {
	part, ok := c.Registry.Lookup(id)
	if !ok || part.Room != room {
		return nil, false
	}
	return c.remove(part), true
}

// Disconnect resolves the connection back to a participant and applies
// leave semantics for its last-known room. Unresolvable connections are
// silently ignored; the record is already gone.
func (c *Coordinator) Disconnect(conn Conn) (*LeaveResult, bool) {
	part, ok := c.Registry.FindByConn(conn)
	if !ok {
		return nil, false
	}
	return c.remove(part), true
}

func (c *Coordinator) remove(part domain.Participant) *LeaveResult {
	c.Registry.Remove(part.ID)
	count := c.Registry.CountInRoom(part.Room)
	if count == 0 {
		c.History.Drop(part.Room)
	}
	log.Info().Str("module", "app.rooms").Str("user", string(part.ID)).Str("room", string(part.Room)).Int("count", count).Msg("participant left")
	return &LeaveResult{Participant: part, Count: count}
}

type RoomInfo struct {
	Room  domain.RoomID `json:"room"`
	Count int           `json:"participant_count"`
}

// Rooms lists live rooms with their current counts.
func (c *Coordinator) Rooms() []RoomInfo {
	counts := c.Registry.Rooms()
	out := make([]RoomInfo, 0, len(counts))
	for room, n := range counts {
		out = append(out, RoomInfo{Room: room, Count: n})
	}
	return out
}

func defaultUsername(userID string) string {
	short := userID
	if len(short) > 6 {
		short = short[:6]
	}
	return "User " + short
}
