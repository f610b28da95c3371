// Package events pushes store changes to WebSocket subscribers.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"sync/atomic"
	"time"

	"devsecboard/internal/store"
	"devsecboard/pkg/api"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	defaultSendBuffer    = 64
	defaultPublishBuffer = 256
)

// Hub fans store changes out to connected WebSocket clients.
// A client that cannot keep up is disconnected rather than slowing the others.
type Hub struct {
	log      *slog.Logger
	upgrader websocket.Upgrader

	publish    chan store.Change
	register   chan *client
	unregister chan *client
	done       chan struct{}

	sendBuffer int
	clients    atomic.Int64
	dropped    atomic.Int64
}

type client struct {
	id         string
	conn       *websocket.Conn
	send       chan []byte
	pipelineID *int64
}

// Option configures a Hub.
type Option func(*Hub)

// WithAllowedOrigins restricts which browser origins may connect. "*" allows any origin.
func WithAllowedOrigins(origins []string) Option {
	return func(h *Hub) {
		allowAll := len(origins) == 0 || slices.Contains(origins, "*")
		h.upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return allowAll || origin == "" || slices.Contains(origins, origin)
		}
	}
}

// WithSendBuffer sets how many messages may queue for one client before it is dropped.
func WithSendBuffer(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.sendBuffer = n
		}
	}
}

// NewHub creates a hub. Call Run to start delivering.
func NewHub(log *slog.Logger, opts ...Option) *Hub {
	if log == nil {
		log = slog.Default()
	}
	h := &Hub{
		log: log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		publish:    make(chan store.Change, defaultPublishBuffer),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		sendBuffer: defaultSendBuffer,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Notify queues a change for delivery. It never blocks: when the queue is full the
// change is dropped and counted.
func (h *Hub) Notify(change store.Change) {
	select {
	case h.publish <- change:
	default:
		h.dropped.Add(1)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	return int(h.clients.Load())
}

// Dropped returns how many changes were discarded because the hub was saturated.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// Run delivers changes until ctx is cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)

	clients := make(map[*client]struct{})
	remove := func(c *client) {
		if _, ok := clients[c]; ok {
			delete(clients, c)
			close(c.send)
			h.clients.Store(int64(len(clients)))
		}
	}

	for {
		select {
		case <-ctx.Done():
			for c := range clients {
				remove(c)
			}
			return nil

		case c := <-h.register:
			clients[c] = struct{}{}
			h.clients.Store(int64(len(clients)))
			h.log.Debug("websocket client connected", "client_id", c.id)

		case c := <-h.unregister:
			remove(c)
			h.log.Debug("websocket client disconnected", "client_id", c.id)

		case change := <-h.publish:
			msg, err := json.Marshal(toEvent(change))
			if err != nil {
				h.log.Error("failed to encode change event", "error", err, "entity", change.Entity)
				continue
			}
			for c := range clients {
				if !c.wants(change) {
					continue
				}
				select {
				case c.send <- msg:
				default:
					h.log.Warn("dropping slow websocket client", "client_id", c.id)
					remove(c)
				}
			}
		}
	}
}

// ServeWS handles GET /api/events. The optional pipelineId query parameter limits
// the stream to changes of one pipeline run.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	var pipelineID *int64
	if raw := r.URL.Query().Get("pipelineId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(api.ErrorResponse{Error: "Invalid pipeline id", Code: "400"})
			return
		}
		pipelineID = &id
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		id:         uuid.NewString(),
		conn:       conn,
		send:       make(chan []byte, h.sendBuffer),
		pipelineID: pipelineID,
	}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go h.writePump(c)
	h.readPump(c)
}

// readPump discards client messages and detects disconnects.
func (h *Hub) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Debug("websocket read error", "client_id", c.id, "error", err)
			}
			return
		}
	}
}

// writePump owns all writes to the connection. It exits when the hub closes c.send.
func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) wants(change store.Change) bool {
	if c.pipelineID == nil {
		return true
	}
	return change.PipelineRunID != nil && *change.PipelineRunID == *c.pipelineID
}

func toEvent(change store.Change) api.ChangeEvent {
	return api.ChangeEvent{
		Type:          api.ChangeEventType,
		Entity:        change.Entity,
		Action:        string(change.Action),
		ID:            change.ID,
		PipelineRunID: change.PipelineRunID,
		Data:          change.Record,
		Time:          change.Time,
	}
}
