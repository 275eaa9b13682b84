package handlers

import "net/http"

const (
	defaultPlayerLimit = 10
	maxPlayerLimit     = 50
)

// SearchPlayers lists athletes seen in the current live summaries
// Query params: q, limit
func (h *Handler) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit := parseIntParam(r, "limit", defaultPlayerLimit)
	if limit <= 0 || limit > maxPlayerLimit {
		limit = maxPlayerLimit
	}

	players := h.tracker.Players(query, limit)
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"players": players,
		"count":   len(players),
	})
}
