package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"repo-universe/internal/shared/response"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Feed      string `json:"feed"`
	Redis     string `json:"redis"`
}

// FeedStatus reports whether the activity feed connection is up
type FeedStatus interface {
	Connected() bool
}

// RedisStatus reports connected, disconnected or disabled
type RedisStatus interface {
	Status(ctx context.Context) string
}

type HealthHandler struct {
	feed  FeedStatus
	redis RedisStatus
}

func NewHealthHandler(feed FeedStatus, redis RedisStatus) *HealthHandler {
	return &HealthHandler{feed: feed, redis: redis}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "health")

	feedStatus := "disconnected"
	if h.feed.Connected() {
		feedStatus = "connected"
	} else {
		logger.Debug("Feed not connected")
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Feed:      feedStatus,
		Redis:     h.redis.Status(ctx),
	}

	response.Success(w, http.StatusOK, resp)
}
