// Package notify fans triggered alarms out to listeners: connected
// websocket clients and registered push devices. Delivery is best effort by
// contract; a failed channel never blocks or un-triggers an alarm.
package notify

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/swunglabs/swung/internal/logger"
)

// AlarmNotice is the payload broadcast when an alarm fires.
type AlarmNotice struct {
	Type     string  `json:"type"`
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Message  *string `json:"message"`
	CallUser bool    `json:"callUser"`
}

const (
	writeWait  = 5 * time.Second
	pingPeriod = 30 * time.Second
)

// Hub tracks live websocket connections and broadcasts alarm notices to all
// of them. Connections that fail a write are dropped.
type Hub struct {
	upgrader websocket.Upgrader
	log      zerolog.Logger

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The UI is served from arbitrary app-shell origins (mobile
			// wrappers), so the handshake accepts any origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		conns: map[*websocket.Conn]struct{}{},
		log:   logger.New("notify"),
	}
}

// ServeHTTP upgrades the request and keeps the connection registered until
// the peer goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	n := len(h.conns)
	h.mu.Unlock()
	h.log.Debug().Int("clients", n).Msg("websocket client connected")

	go h.keepAlive(conn)

	// Reader loop: the client sends nothing meaningful, but reading is what
	// notices closes and answers control frames.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.drop(conn)
}

func (h *Hub) keepAlive(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for range ticker.C {
		h.mu.Lock()
		_, alive := h.conns[conn]
		h.mu.Unlock()
		if !alive {
			return
		}
		if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
			h.drop(conn)
			return
		}
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.conns[conn]; ok {
		delete(h.conns, conn)
		_ = conn.Close()
	}
	h.mu.Unlock()
}

// Broadcast sends the notice to every connected client.
func (h *Hub) Broadcast(notice AlarmNotice) {
	notice.Type = "alarm"

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		_ = c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteJSON(notice); err != nil {
			h.log.Warn().Err(err).Msg("dropping unresponsive websocket client")
			h.drop(c)
		}
	}
}

// ClientCount reports the number of live connections, for the health surface.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}
