package signal

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/edge2meet/signaling/internal/domain"
)

type chatEvent struct {
	Type string        `json:"type"`
	Room domain.RoomID `json:"room"`
	domain.ChatEntry
}

func (ctl *Controller) handleChatMessage(conn *wsConn, data []byte) {
	var p struct {
		Type      string `json:"type"`
		UserID    string `json:"user_id"`
		Username  string `json:"username"`
		Message   string `json:"message"`
		Room      string `json:"room"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad chat payload")
		ctl.sendError(conn, "failed to send chat message")
		return
	}
	if p.Room == "" {
		ctl.sendError(conn, "failed to send chat message")
		return
	}
	if p.Timestamp == "" {
		p.Timestamp = time.Now().Format("15:04:05")
	}

	entry := domain.ChatEntry{
		UserID:    domain.UserID(p.UserID),
		Username:  p.Username,
		Message:   p.Message,
		Timestamp: p.Timestamp,
	}
	room := domain.RoomID(p.Room)
	ctl.Coord.History.Append(room, entry)

	// Chat echoes back to the sender too, unlike signaling frames.
	ctl.broadcastRoom(room, chatEvent{
		Type:      "chat_message",
		Room:      room,
		ChatEntry: entry,
	})
}
