package sensor

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// Hub fans out a wake-up signal to every connected dashboard when a new
// sample lands.
type Hub struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan struct{}]struct{})}
}

// Subscribe registers a listener. Call the returned func to detach.
func (h *Hub) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
}

// Notify wakes all subscribers. Slow consumers coalesce signals instead
// of blocking the sampler.
func (h *Hub) Notify() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// WebSocketHandler streams dashboard snapshots over a WebSocket.
type WebSocketHandler struct {
	svc           *Service
	hub           *Hub
	allowedOrigin string
	isDev         bool
	logger        *slog.Logger
}

// NewWebSocketHandler creates the live sensor stream handler.
func NewWebSocketHandler(svc *Service, hub *Hub, allowedOrigin string, isDev bool, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketHandler{svc: svc, hub: hub, allowedOrigin: allowedOrigin, isDev: isDev, logger: logger}
}

// Snapshots are resent at this cadence even without new samples so the
// weather card stays fresh.
const refreshInterval = time.Minute

// ServeHTTP implements http.Handler for the WebSocket upgrade.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.logger.Error("Failed to accept WebSocket", "error", err, "ip", r.RemoteAddr)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "stream ended"); closeErr != nil {
			h.logger.Debug("Failed to close websocket", "error", closeErr)
		}
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	h.logger.Info("Sensor stream connected", "ip", r.RemoteAddr)

	wake, unsubscribe := h.hub.Subscribe()
	defer unsubscribe()

	// Drain client frames so pings and close frames are processed.
	go func() {
		defer cancel()
		for {
			if _, _, err := ws.Read(ctx); err != nil {
				if websocket.CloseStatus(err) != -1 {
					h.logger.Debug("Sensor stream closed by client")
				}
				return
			}
		}
	}()

	if err := h.sendSnapshot(ctx, ws); err != nil {
		return
	}

	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-wake:
		case <-ticker.C:
		case <-ctx.Done():
			h.logger.Info("Sensor stream ended")
			return
		}
		if err := h.sendSnapshot(ctx, ws); err != nil {
			return
		}
	}
}

func (h *WebSocketHandler) sendSnapshot(ctx context.Context, ws *websocket.Conn) error {
	snap, err := h.svc.Snapshot(ctx)
	if err != nil {
		h.logger.Error("Failed to build snapshot for stream", "error", err)
		return err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return ws.Write(ctx, websocket.MessageText, data)
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "*" {
		return true
	}
	if origin == h.allowedOrigin {
		return true
	}
	h.logger.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigin)
	return false
}
