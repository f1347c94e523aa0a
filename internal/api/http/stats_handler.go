package http

import (
	"net/http"

	"libraflow-backend/internal/service"
)

type StatsHandler struct {
	statsSvc service.StatsService
}

func NewStatsHandler(statsSvc service.StatsService) *StatsHandler {
	return &StatsHandler{statsSvc: statsSvc}
}

// Dashboard returns role-shaped stats: librarians get the library-wide view,
// students get their own reading history alongside the shared counters.
func (h *StatsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	stats, err := h.statsSvc.Dashboard(r.Context(), claims.UserID, claims.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
