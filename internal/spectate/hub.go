// Package spectate streams world snapshots to read-only remote viewers over
// websockets. Frames are msgpack encoded; viewers never send commands.
package spectate

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"

	"nullsector/internal/commons/logger_config"
	"nullsector/internal/world"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 25 * time.Second
	maxMessageSize = 512
	sendBuffer     = 16
)

const FrameState = "state"

// Frame is one message on the wire.
type Frame struct {
	Type  string         `msgpack:"type"`
	Tick  uint64         `msgpack:"tick"`
	State world.Snapshot `msgpack:"state"`
}

func EncodeFrame(f Frame) ([]byte, error) {
	blob, err := msgpack.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return blob, nil
}

func DecodeFrame(blob []byte) (Frame, error) {
	var f Frame
	if err := msgpack.Unmarshal(blob, &f); err != nil {
		return Frame{}, fmt.Errorf("decode frame: %w", err)
	}
	return f, nil
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks connected viewers. It is an http.Handler: mount it on the
// websocket endpoint.
type Hub struct {
	mu      deadlock.RWMutex
	clients map[string]*client

	upgrader websocket.Upgrader
	log      *logrus.Entry
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// viewers are read-only, any origin may watch
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: logger_config.With("spectate"),
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("upgrade failed")
		return
	}

	c := h.register(conn)
	go c.writePump(h.log)
	go c.readPump(h)
}

func (h *Hub) register(conn *websocket.Conn) *client {
	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	h.clients[c.id] = c
	n := len(h.clients)
	h.mu.Unlock()

	h.log.WithFields(logrus.Fields{"client": c.id, "viewers": n}).Info("viewer connected")
	return c
}

// unregister closes the client's send queue, which ends its write pump.
// Calling it twice is harmless.
func (h *Hub) unregister(id string) {
	h.mu.Lock()
	c, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
		close(c.send)
	}
	h.mu.Unlock()

	if ok {
		h.log.WithField("client", id).Info("viewer disconnected")
	}
}

// Count returns the number of connected viewers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast encodes s once and queues it for every viewer without blocking.
// Viewers whose queue is full are disconnected.
func (h *Hub) Broadcast(s world.Snapshot) error {
	if h.Count() == 0 {
		return nil
	}

	blob, err := EncodeFrame(Frame{Type: FrameState, Tick: s.Frame, State: s})
	if err != nil {
		return err
	}

	var slow []string
	h.mu.RLock()
	for id, c := range h.clients {
		select {
		case c.send <- blob:
		default:
			slow = append(slow, id)
		}
	}
	h.mu.RUnlock()

	for _, id := range slow {
		h.log.WithField("client", id).Warn("viewer too slow, dropping")
		h.unregister(id)
	}
	return nil
}

// Close disconnects every viewer.
func (h *Hub) Close() {
	h.mu.RLock()
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	h.mu.RUnlock()

	for _, id := range ids {
		h.unregister(id)
	}
}

// readPump only services control frames; anything a viewer sends is ignored.
func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister(c.id)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.WithError(err).WithField("client", c.id).Debug("read failed")
			}
			return
		}
	}
}

func (c *client) writePump(log *logrus.Entry) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case blob, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.BinaryMessage, blob); err != nil {
				log.WithError(err).WithField("client", c.id).Debug("write failed")
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.WithError(err).WithField("client", c.id).Debug("ping failed")
				return
			}
		}
	}
}
