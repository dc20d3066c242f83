package api

import (
	"net/http"
	"sync"

	models "TimeWise/internal/domain/models"
	xlogger "TimeWise/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// LiveHub fans computed trend reports out to WebSocket subscribers.
// It implements usecase.ReportSink.
type LiveHub struct {
	upgrader websocket.Upgrader
	mu       sync.Mutex
	clients  map[*websocket.Conn]struct{}
	l        *xlogger.Logger
}

func NewLiveHub(l *xlogger.Logger) *LiveHub {
	return &LiveHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// origin policy is handled by the CORS middleware upstream
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
		l:       l,
	}
}

// Serve upgrades the connection and registers the subscriber. The read loop
// only drains control frames; subscribers are write-only.
func (h *LiveHub) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		if h.l != nil {
			h.l.Warn("live upgrade failed", xlogger.Error(err))
		}
		return err
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	if h.l != nil {
		h.l.Info("live subscriber connected", xlogger.Int("subscribers", n))
	}

	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return nil
}

// Broadcast sends a report to every subscriber, dropping dead connections.
func (h *LiveHub) Broadcast(r *models.TrendReport) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteJSON(r); err != nil {
			_ = conn.Close()
			delete(h.clients, conn)
		}
	}
}

// Close disconnects all subscribers.
func (h *LiveHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.Close()
		delete(h.clients, conn)
	}
}

func (h *LiveHub) drop(conn *websocket.Conn) {
	_ = conn.Close()
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}
