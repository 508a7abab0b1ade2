package handlers

import (
	"net/http"

	"aquavigil/backend/services/dashboard-agent/internal/models"
	"aquavigil/backend/services/dashboard-agent/internal/service"
)

// NewHistoryListHandler returns GET /api/history handler.
func NewHistoryListHandler(svc *service.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.History(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list view history")
			return
		}
		if entries == nil {
			entries = []models.HistoryEntry{}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"entries": entries,
			"count":   len(entries),
		})
	}
}

// NewHistoryClearHandler returns DELETE /api/history handler.
func NewHistoryClearHandler(svc *service.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.ClearHistory(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to clear view history")
			return
		}
		writeJSON(w, http.StatusNoContent, nil)
	}
}
