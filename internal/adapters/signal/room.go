package signal

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/edge2meet/signaling/internal/domain"
)

type userJoinedEvent struct {
	Type           string        `json:"type"`
	UserID         domain.UserID `json:"user_id"`
	Count          int           `json:"participant_count"`
	Room           domain.RoomID `json:"room"`
	Username       string        `json:"username"`
	ConnectionTime string        `json:"connection_time"`
}

type userLeftEvent struct {
	Type   string        `json:"type"`
	UserID domain.UserID `json:"user_id"`
	Count  int           `json:"participant_count"`
	Room   domain.RoomID `json:"room"`
}

func (ctl *Controller) handleJoin(conn *wsConn, data []byte) {
	var p struct {
		Type     string `json:"type"`
		Room     string `json:"room"`
		UserID   string `json:"user_id"`
		Username string `json:"username"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendError(conn, "missing room or user_id")
		return
	}

	res, err := ctl.Coord.Join(p.Room, p.UserID, p.Username, conn)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Str("room", p.Room).Str("user", p.UserID).Msg("join rejected")
		ctl.sendError(conn, "room ID or user ID cannot be empty")
		return
	}

	ctl.broadcastRoom(res.Participant.Room, userJoinedEvent{
		Type:           "user_joined",
		UserID:         res.Participant.ID,
		Count:          res.Count,
		Room:           res.Participant.Room,
		Username:       res.Participant.Username,
		ConnectionTime: res.Participant.JoinedAt.Format(time.RFC3339),
	})

	// History replay goes to the joiner only; files are not re-sent,
	// only their chat-entry references.
	ctl.sendJSON(conn, struct {
		Type    string             `json:"type"`
		Room    domain.RoomID      `json:"room"`
		History []domain.ChatEntry `json:"history"`
	}{
		Type:    "chat_history",
		Room:    res.Participant.Room,
		History: res.History,
	})
}

func (ctl *Controller) handleLeave(conn *wsConn, data []byte) {
	var p struct {
		Type   string `json:"type"`
		Room   string `json:"room"`
		UserID string `json:"user_id"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad leave payload")
		return
	}

	res, ok := ctl.Coord.Leave(domain.RoomID(p.Room), domain.UserID(p.UserID))
	if !ok {
		// Stale leave: the identity already left, or rejoined elsewhere.
		return
	}
	ctl.broadcastRoom(res.Participant.Room, userLeftEvent{
		Type:   "user_left",
		UserID: res.Participant.ID,
		Count:  res.Count,
		Room:   res.Participant.Room,
	})
}

func (ctl *Controller) handleDisconnect(conn *wsConn) {
	res, ok := ctl.Coord.Disconnect(conn)
	if !ok {
		return
	}
	log.Info().Str("module", "signal").Str("user", string(res.Participant.ID)).Str("room", string(res.Participant.Room)).Msg("disconnect")
	ctl.broadcastRoom(res.Participant.Room, userLeftEvent{
		Type:   "user_left",
		UserID: res.Participant.ID,
		Count:  res.Count,
		Room:   res.Participant.Room,
	})
}
