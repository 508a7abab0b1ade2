package httpserver

import "net/http"

// Routes groups handlers for the view-binding read surface.
type Routes struct {
	Health        http.HandlerFunc
	Metrics       http.Handler
	Modules       http.HandlerFunc
	ModuleDetail  http.HandlerFunc
	ModuleHistory http.HandlerFunc
	Statistics    http.HandlerFunc
	HistoryList   http.HandlerFunc
	HistoryClear  http.HandlerFunc
	WS            http.HandlerFunc
}

// NewRouter registers endpoints.
func NewRouter(routes Routes) http.Handler {
	mux := http.NewServeMux()
	if routes.Health != nil {
		mux.Handle("GET /health", routes.Health)
	}
	if routes.Metrics != nil {
		mux.Handle("GET /metrics", routes.Metrics)
	}
	if routes.Modules != nil {
		mux.Handle("GET /api/views/modules", routes.Modules)
	}
	if routes.ModuleDetail != nil {
		mux.Handle("GET /api/views/modules/{id}", routes.ModuleDetail)
	}
	if routes.ModuleHistory != nil {
		mux.Handle("GET /api/views/modules/{id}/history", routes.ModuleHistory)
	}
	if routes.Statistics != nil {
		mux.Handle("GET /api/views/statistics", routes.Statistics)
	}
	if routes.HistoryList != nil {
		mux.Handle("GET /api/history", routes.HistoryList)
	}
	if routes.HistoryClear != nil {
		mux.Handle("DELETE /api/history", routes.HistoryClear)
	}
	if routes.WS != nil {
		mux.Handle("GET /ws", routes.WS)
	}
	return mux
}
