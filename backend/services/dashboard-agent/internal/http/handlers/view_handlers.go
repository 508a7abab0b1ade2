package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"aquavigil/backend/services/dashboard-agent/internal/clients"
	"aquavigil/backend/services/dashboard-agent/internal/service"
)

// Error kinds surfaced to the view binding.
const (
	errKindTransport = "transport"
	errKindNotFound  = "not_found"
)

// viewState mirrors the {data, isLoading, error} contract the view binding
// renders from. Data stays populated with the last good snapshot even while
// Error is set.
type viewState struct {
	Data      interface{} `json:"data"`
	IsLoading bool        `json:"is_loading"`
	Error     string      `json:"error,omitempty"`
}

func errorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, clients.ErrModuleNotFound):
		return errKindNotFound
	default:
		return errKindTransport
	}
}

// NewModulesViewHandler returns GET /api/views/modules handler.
func NewModulesViewHandler(svc *service.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := svc.ModulesView()
		payload := viewState{IsLoading: state.Loading, Error: errorKind(state.Err)}
		if state.Data != nil {
			payload.Data = *state.Data
		}
		writeJSON(w, http.StatusOK, payload)
	}
}

// NewStatisticsViewHandler returns GET /api/views/statistics handler.
func NewStatisticsViewHandler(svc *service.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := svc.StatsView()
		payload := viewState{IsLoading: state.Loading, Error: errorKind(state.Err)}
		if state.Data != nil {
			payload.Data = state.Data
		}
		writeJSON(w, http.StatusOK, payload)
	}
}

// NewModuleDetailHandler returns GET /api/views/modules/{id} handler. Reading
// the view switches the module-detail poller to the requested id.
func NewModuleDetailHandler(svc *service.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.PathValue("id"))
		if id == "" {
			writeError(w, http.StatusBadRequest, "module id required")
			return
		}
		state := svc.ModuleView(id)
		payload := viewState{IsLoading: state.Loading, Error: errorKind(state.Err)}
		if state.Data != nil {
			payload.Data = state.Data
		}
		writeJSON(w, http.StatusOK, payload)
	}
}

// NewModuleHistoryHandler returns GET /api/views/modules/{id}/history handler.
func NewModuleHistoryHandler(svc *service.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.PathValue("id"))
		if id == "" {
			writeError(w, http.StatusBadRequest, "module id required")
			return
		}

		hours := 24
		if raw := r.URL.Query().Get("hours"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				writeError(w, http.StatusBadRequest, "hours must be a positive integer")
				return
			}
			hours = parsed
		}

		readings, err := svc.ModuleHistory(r.Context(), id, hours)
		if errors.Is(err, clients.ErrModuleNotFound) {
			writeError(w, http.StatusNotFound, "module not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusBadGateway, "failed to fetch module history")
			return
		}
		writeJSON(w, http.StatusOK, readings)
	}
}
