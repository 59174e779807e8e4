package ws

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/kiliankoe/gptmafia/internal/config"
	"github.com/kiliankoe/gptmafia/internal/game"
	"github.com/rs/zerolog/log"
)

const spectatorRoom = "spectators"

// Hub relays a running game to spectators. It is a game.Observer: the engine
// pushes events and snapshots, HTTP and Socket.IO clients read copies.
type Hub struct {
	mu       sync.RWMutex
	events   []game.Event
	snapshot game.Snapshot

	io     *socketio.Server
	config config.Config
}

func New(cfg config.Config) *Hub {
	return &Hub{config: cfg}
}

func (h *Hub) OnEvent(ev game.Event) {
	h.mu.Lock()
	h.events = append(h.events, ev)
	io := h.io
	h.mu.Unlock()
	if io != nil {
		io.BroadcastToRoom("/", spectatorRoom, "game:event", ev)
	}
}

func (h *Hub) OnSnapshot(snap game.Snapshot) {
	h.mu.Lock()
	h.snapshot = snap
	io := h.io
	h.mu.Unlock()
	if io != nil {
		io.BroadcastToRoom("/", spectatorRoom, "game:state", snap)
	}
}

func (h *Hub) Snapshot() game.Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snapshot
}

// EventsSince returns events with a sequence number greater than seq.
func (h *Hub) EventsSince(seq int) []game.Event {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]game.Event, 0, len(h.events))
	for _, ev := range h.events {
		if ev.Seq > seq {
			out = append(out, ev)
		}
	}
	return out
}

// Mount attaches the REST routes and the Socket.IO server to r.
func (h *Hub) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(s socketio.Conn) error {
		s.Join(spectatorRoom)
		log.Info().Str("sid", s.ID()).Msg("spectator connected")
		s.Emit("game:state", h.Snapshot())
		return nil
	})

	// game:history returns the backlog after the given sequence number.
	io.OnEvent("/", "game:history", func(s socketio.Conn, payload struct {
		Since int `json:"since"`
	}) map[string]any {
		return map[string]any{"events": h.EventsSince(payload.Since)}
	})

	io.OnError("/", func(s socketio.Conn, e error) {
		log.Error().Err(e).Msg("socket error")
	})
	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("spectator disconnected")
	})

	go func() {
		if err := io.Serve(); err != nil {
			log.Error().Err(err).Msg("socket.io server stopped")
		}
	}()

	h.mu.Lock()
	h.io = io
	h.mu.Unlock()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	api := r.Group("/api")
	if h.config.GMUser != "" && h.config.GMPass != "" {
		api.Use(gin.BasicAuth(gin.Accounts{h.config.GMUser: h.config.GMPass}))
	}
	api.GET("/game", func(c *gin.Context) {
		snap := h.Snapshot()
		if snap.GameID == "" {
			c.Status(http.StatusNotFound)
			return
		}
		c.JSON(http.StatusOK, snap)
	})
	api.GET("/game/history", func(c *gin.Context) {
		since := 0
		if v := c.Query("since"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_since"})
				return
			}
			since = n
		}
		c.JSON(http.StatusOK, gin.H{"events": h.EventsSince(since)})
	})

	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))

	// Basic CORS preflight for Socket.IO POST
	r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Status(http.StatusNoContent)
	})

	return io
}
