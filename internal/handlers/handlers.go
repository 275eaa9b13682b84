package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/XavierBriggs/fortuna/services/leg-tracker/internal/hub"
	"github.com/XavierBriggs/fortuna/services/leg-tracker/internal/legs"
	"github.com/XavierBriggs/fortuna/services/leg-tracker/pkg/models"
	"go.uber.org/zap"
)

// Tracker is the polling side the handlers drive
type Tracker interface {
	Trigger(ctx context.Context) (models.Snapshot, error)
	LastUpdate() time.Time
	Players(query string, limit int) []models.LivePlayer
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	store   *legs.Store
	tracker Tracker
	hub     *hub.Hub
	ctx     context.Context // outlives requests; websocket pumps run on it
	logger  *zap.Logger
}

// NewHandler creates a new handler with dependencies
func NewHandler(ctx context.Context, store *legs.Store, tracker Tracker, h *hub.Hub, logger *zap.Logger) *Handler {
	return &Handler{
		store:   store,
		tracker: tracker,
		hub:     h,
		ctx:     ctx,
		logger:  logger.Named("http"),
	}
}

// HealthCheck returns the health status of the service
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	var lastUpdate *time.Time
	if ts := h.tracker.LastUpdate(); !ts.IsZero() {
		lastUpdate = &ts
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "healthy",
		"timestamp":      time.Now().UTC(),
		"service":        "leg-tracker",
		"legs":           h.store.Len(),
		"last_update":    lastUpdate,
		"active_clients": h.hub.GetClientCount(),
	})
}

// HandleMetrics returns hub metrics
func (h *Handler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.hub.GetMetrics())
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	respondJSON(w, status, data)
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil && status >= http.StatusInternalServerError {
		h.logger.Error(message, zap.Error(err))
	}
	respondError(w, status, message, err)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Warn("error encoding response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	errResp := models.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}
	if err != nil {
		errResp.Message = message + ": " + err.Error()
	}

	respondJSON(w, status, errResp)
}

func parseIntParam(r *http.Request, key string, defaultValue int) int {
	if value := r.URL.Query().Get(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
