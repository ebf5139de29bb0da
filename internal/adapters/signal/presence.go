package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/edge2meet/signaling/internal/domain"
)

func (ctl *Controller) handleMuteUpdate(conn *wsConn, data []byte) {
	var p struct {
		Type       string `json:"type"`
		UserID     string `json:"user_id"`
		Room       string `json:"room"`
		AudioMuted bool   `json:"audioMuted"`
		VideoMuted bool   `json:"videoMuted"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad mute payload")
		ctl.sendError(conn, "failed to update mute status")
		return
	}

	ctl.Coord.Registry.SetMuteStatus(domain.UserID(p.UserID), p.AudioMuted, p.VideoMuted)

	ctl.broadcastExcept(domain.RoomID(p.Room), conn, struct {
		Type       string `json:"type"`
		UserID     string `json:"user_id"`
		Room       string `json:"room"`
		AudioMuted bool   `json:"audioMuted"`
		VideoMuted bool   `json:"videoMuted"`
	}{
		Type:       "update_mute_status",
		UserID:     p.UserID,
		Room:       p.Room,
		AudioMuted: p.AudioMuted,
		VideoMuted: p.VideoMuted,
	})
}
