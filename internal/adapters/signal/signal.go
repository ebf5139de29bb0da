package signal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/edge2meet/signaling/internal/app"
	"github.com/edge2meet/signaling/internal/config"
	"github.com/edge2meet/signaling/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

// Controller owns the WebSocket side of the signaling core: one
// persistent connection per client tab, every inbound event attributed
// via the registry and fanned out to the sender's room.
type Controller struct {
	Coord *app.Coordinator
	Relay *app.Relay
	Files *app.FileStore
	Cfg   *config.Config
}

func NewController(coord *app.Coordinator, relay *app.Relay, files *app.FileStore, cfg *config.Config) *Controller {
	return &Controller{Coord: coord, Relay: relay, Files: files, Cfg: cfg}
}

// wsConn wraps a websocket connection with a buffered outbound channel.
// Frames queued on send are written by a single write pump, which keeps
// per-connection delivery in processing order.
type wsConn struct {
	conn *websocket.Conn
	send chan app.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(f app.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the request and runs the connection's pumps.
func (ctl *Controller) HandleSignal(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	ws.SetReadLimit(ctl.Cfg.ReadLimit)
	log.Info().Str("module", "signal").Str("remote", ws.RemoteAddr().String()).Msg("new WS connection")

	conn := &wsConn{
		conn: ws,
		send: make(chan app.Frame, 32),
	}

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		defer cancel()
		ctl.writePump(ctx, conn)
	}()
	go ctl.readPump(ctx, conn)
}

func (ctl *Controller) sendJSON(c *wsConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

func (ctl *Controller) sendError(c *wsConn, msg string) {
	ctl.sendJSON(c, map[string]any{
		"type":    "error",
		"message": msg,
	})
}

// broadcastRoom delivers v to every connection in room, sender included.
// Chat and file-share events use this so the sender's own UI reflects
// the server-assigned timestamp.
func (ctl *Controller) broadcastRoom(room domain.RoomID, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("broadcast marshal")
		return
	}
	ctl.Coord.Registry.Fanout(room, nil, b)
}

// broadcastExcept is broadcastRoom minus one connection. Signaling and
// mute updates use this so clients never reprocess their own messages.
func (ctl *Controller) broadcastExcept(room domain.RoomID, sender *wsConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("broadcast marshal")
		return
	}
	ctl.Coord.Registry.Fanout(room, sender, b)
}
