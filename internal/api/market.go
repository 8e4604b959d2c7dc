package api

import (
	"net/http"
)

// HandleMarketInsights handles GET /api/market/insights. Query params
// commodity, state and market narrow the feed; all have sensible defaults
// for the pilot region.
func (h *Handler) HandleMarketInsights(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	insights := h.market.Fetch(r.Context(), q.Get("commodity"), q.Get("state"), q.Get("market"))
	JSON(w, http.StatusOK, insights)
}
