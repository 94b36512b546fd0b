package handlers

import (
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"repo-universe/internal/eventbus"

	"github.com/gorilla/websocket"
)

const (
	eventsWriteWait  = 10 * time.Second
	eventsPongWait   = 60 * time.Second
	eventsPingPeriod = eventsPongWait * 9 / 10
)

// EventSource is where the stream subscribes; subscribers run on the publishing thread
type EventSource interface {
	SubscribeAll(handler func(topic eventbus.Topic, payload any)) func()
}

// EventsHandler streams every bus delivery to a websocket viewer as {topic, payload}
// A viewer that falls behind by more than buffer messages loses the overflow
type EventsHandler struct {
	source   EventSource
	upgrader websocket.Upgrader
	buffer   int
	viewers  atomic.Int64
}

func NewEventsHandler(source EventSource, allowedOrigin string, buffer int) *EventsHandler {
	h := &EventsHandler{source: source, buffer: buffer}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || origin == allowedOrigin
		},
	}
	return h
}

// Viewers returns the number of open streams
func (h *EventsHandler) Viewers() int64 {
	return h.viewers.Load()
}

func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "events", "remote_addr", r.RemoteAddr)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		logger.Warn("Websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	h.viewers.Add(1)
	defer h.viewers.Add(-1)

	outbound := make(chan []byte, h.buffer)
	dropped := 0
	unsubscribe := h.source.SubscribeAll(func(topic eventbus.Topic, payload any) {
		data, err := eventbus.Encode(topic, payload)
		if err != nil {
			logger.Error("Failed to encode event", "topic", topic, "error", err)
			return
		}
		select {
		case outbound <- data:
		default:
			dropped++
			logger.Warn("Viewer too slow, event dropped", "topic", topic, "dropped", dropped)
		}
	})
	defer unsubscribe()

	logger.Info("Viewer connected", "viewers", h.viewers.Load())

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(eventsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(eventsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(eventsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			logger.Info("Viewer disconnected")
			return
		case <-r.Context().Done():
			return
		case data := <-outbound:
			_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				logger.Debug("Viewer write failed", "error", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
