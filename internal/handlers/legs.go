package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/XavierBriggs/fortuna/services/leg-tracker/internal/poller"
	"github.com/XavierBriggs/fortuna/services/leg-tracker/internal/settle"
	"github.com/XavierBriggs/fortuna/services/leg-tracker/pkg/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LegView is a leg as rendered by the API
type LegView struct {
	models.Leg
	Progress int `json:"progress"`
}

// LegsResponse is the body of GET /legs and POST /refresh
type LegsResponse struct {
	Legs      []LegView  `json:"legs"`
	UpdatedAt *time.Time `json:"updated_at"`
	LiveCount int        `json:"live_count"`
	Skipped   bool       `json:"skipped,omitempty"`
}

func newLegsResponse(legs []models.Leg, updatedAt time.Time) LegsResponse {
	snapshot := models.NewSnapshot(legs, updatedAt)

	resp := LegsResponse{
		Legs:      make([]LegView, 0, len(legs)),
		LiveCount: snapshot.LiveCount,
	}
	if !updatedAt.IsZero() {
		resp.UpdatedAt = &updatedAt
	}
	for _, leg := range legs {
		resp.Legs = append(resp.Legs, LegView{Leg: leg, Progress: settle.Progress(leg)})
	}
	return resp
}

// ListLegs returns every tracked leg with its progress
func (h *Handler) ListLegs(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, newLegsResponse(h.store.List(), h.tracker.LastUpdate()))
}

// GetLeg returns one leg
func (h *Handler) GetLeg(w http.ResponseWriter, r *http.Request) {
	leg, ok := h.store.Get(chi.URLParam(r, "id"))
	if !ok {
		h.respondError(w, http.StatusNotFound, "leg not found", nil)
		return
	}
	h.respondJSON(w, http.StatusOK, LegView{Leg: leg, Progress: settle.Progress(leg)})
}

// CreateLeg adds a leg to the tracked set
func (h *Handler) CreateLeg(w http.ResponseWriter, r *http.Request) {
	var input models.NewLeg
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	leg, err := h.store.Add(input)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid leg", err)
		return
	}

	h.logger.Info("leg added", zap.String("leg_id", leg.ID), zap.String("type", string(leg.Type)), zap.String("team", leg.Team))
	h.respondJSON(w, http.StatusCreated, LegView{Leg: leg})
}

// ClearLegs removes every leg
func (h *Handler) ClearLegs(w http.ResponseWriter, r *http.Request) {
	h.store.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// DeleteLeg removes one leg
func (h *Handler) DeleteLeg(w http.ResponseWriter, r *http.Request) {
	if !h.store.Remove(chi.URLParam(r, "id")) {
		h.respondError(w, http.StatusNotFound, "leg not found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type statusRequest struct {
	Status models.LegStatus `json:"status"`
}

// UpdateStatus overrides a leg's status until the next tick
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	leg, err := h.store.UpdateStatus(chi.URLParam(r, "id"), req.Status)
	switch {
	case errors.Is(err, models.ErrInvalidStatus):
		h.respondError(w, http.StatusBadRequest, "invalid status", err)
	case errors.Is(err, models.ErrLegNotFound):
		h.respondError(w, http.StatusNotFound, "leg not found", nil)
	case err != nil:
		h.respondError(w, http.StatusInternalServerError, "failed to update leg", err)
	default:
		h.respondJSON(w, http.StatusOK, LegView{Leg: leg, Progress: settle.Progress(leg)})
	}
}

// SettleLeg grades a player leg against its line and stores the outcome
func (h *Handler) SettleLeg(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	leg, ok := h.store.Get(id)
	if !ok {
		h.respondError(w, http.StatusNotFound, "leg not found", nil)
		return
	}

	status, err := settle.Grade(leg)
	if err != nil {
		h.respondError(w, http.StatusUnprocessableEntity, "leg cannot be graded", err)
		return
	}

	leg, err = h.store.UpdateStatus(id, status)
	if err != nil {
		h.respondError(w, http.StatusNotFound, "leg not found", nil)
		return
	}
	h.respondJSON(w, http.StatusOK, LegView{Leg: leg, Progress: settle.Progress(leg)})
}

// Refresh runs a reconciliation tick now. A tick that outlasts the request
// still completes and reaches subscribers; the caller gets the current legs.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.tracker.Trigger(r.Context())
	switch {
	case errors.Is(err, poller.ErrTickInFlight),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		resp := newLegsResponse(h.store.List(), h.tracker.LastUpdate())
		resp.Skipped = true
		h.respondJSON(w, http.StatusAccepted, resp)
	case errors.Is(err, poller.ErrStaleTick):
		h.respondError(w, http.StatusServiceUnavailable, "poller is stopping", nil)
	case err != nil:
		h.respondError(w, http.StatusInternalServerError, "refresh failed", err)
	default:
		h.respondJSON(w, http.StatusOK, newLegsResponse(snapshot.Legs, snapshot.UpdatedAt))
	}
}
