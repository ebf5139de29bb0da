package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *Controller) writePump(ctx context.Context, c *wsConn) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, c *wsConn) {
	defer func() {
		log.Info().Str("module", "signal").Msg("readPump closing")
		ctl.handleDisconnect(c)
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("readPump read error")
				return
			}
			ctl.handleEvent(c, data)
		}
	}
}

// handleEvent dispatches one inbound event. A panicking handler is
// caught here: logged, reported to the triggering connection, and never
// allowed to take the process down.
func (ctl *Controller) handleEvent(c *wsConn, data []byte) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("module", "signal").Any("panic", r).Msg("event handler panic")
			ctl.sendError(c, "internal server error")
		}
	}()

	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		ctl.sendError(c, "invalid message")
		return
	}

	switch env.Type {
	case "join":
		ctl.handleJoin(c, data)
	case "leave":
		ctl.handleLeave(c, data)
	case "ping":
		ctl.handlePing(c)
	case "offer", "answer", "ice-candidate":
		ctl.handleSignalMessage(c, env.Type, data)
	case "chat_message":
		ctl.handleChatMessage(c, data)
	case "file_upload":
		ctl.handleFileUpload(c, data)
	case "update_mute_status":
		ctl.handleMuteUpdate(c, data)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
	}
}
