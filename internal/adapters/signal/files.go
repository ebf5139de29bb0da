package signal

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/edge2meet/signaling/internal/domain"
)

func (ctl *Controller) handleFileUpload(conn *wsConn, data []byte) {
	var p struct {
		Type     string `json:"type"`
		UserID   string `json:"user_id"`
		FileName string `json:"file_name"`
		FileData string `json:"file_data"`
		Room     string `json:"room"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad file payload")
		ctl.sendError(conn, "failed to upload file")
		return
	}
	if p.Room == "" || p.FileName == "" {
		ctl.sendError(conn, "failed to upload file")
		return
	}

	payload, err := base64.StdEncoding.DecodeString(p.FileData)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Str("name", p.FileName).Msg("bad file encoding")
		ctl.sendError(conn, "failed to upload file")
		return
	}

	// Attribution comes from the registry, not the payload; an uploader
	// that never joined has no username to attach. Checked before the
	// store mutation so a rejected upload stores nothing.
	uploader, ok := ctl.Coord.Registry.Lookup(domain.UserID(p.UserID))
	if !ok {
		ctl.sendError(conn, "failed to upload file")
		return
	}

	fileID, err := ctl.Files.Put(p.FileName, payload)
	if err != nil {
		if errors.Is(err, domain.ErrPayloadTooLarge) {
			ctl.sendError(conn, "file size exceeds 10MB")
			return
		}
		log.Error().Err(err).Str("module", "signal").Str("name", p.FileName).Msg("file store put")
		ctl.sendError(conn, "failed to upload file")
		return
	}

	entry := domain.ChatEntry{
		UserID:    uploader.ID,
		Username:  uploader.Username,
		FileID:    fileID,
		FileName:  p.FileName,
		Timestamp: time.Now().Format("15:04:05"),
	}
	room := domain.RoomID(p.Room)
	ctl.Coord.History.Append(room, entry)

	ctl.broadcastRoom(room, chatEvent{
		Type:      "chat_message",
		Room:      room,
		ChatEntry: entry,
	})
	log.Info().Str("module", "signal").Str("room", p.Room).Str("name", p.FileName).Str("file_id", fileID).Msg("file shared")
}
