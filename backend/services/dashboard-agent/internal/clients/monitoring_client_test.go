package clients

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) (*MonitoringClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewMonitoringClient(server.URL, NewDefaultHTTPClient(2*time.Second), zap.NewNop())
	return client, server
}

func TestFetchModuleSuccess(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/modules/sensors1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "sensors1",
			"name": "Pipeline Module A1",
			"location": "Rural District North",
			"coordinates": [28.6139, 77.2090],
			"ph": 7.2,
			"tds": 350,
			"water_flow": 15.5,
			"water_level": 85,
			"temperature": 24.5,
			"gps": {"lat": 28.6139, "lng": 77.2090},
			"timestamp": "2025-01-27T10:30:00Z",
			"status": "active"
		}`))
	}))

	snapshot, err := client.FetchModule(context.Background(), "sensors1")
	if err != nil {
		t.Fatalf("fetch module: %v", err)
	}
	if snapshot.ID != "sensors1" {
		t.Fatalf("unexpected id %s", snapshot.ID)
	}
	if snapshot.PH != 7.2 || snapshot.TDS != 350 {
		t.Fatalf("unexpected measurements: ph=%v tds=%d", snapshot.PH, snapshot.TDS)
	}
	if snapshot.Status != "active" {
		t.Fatalf("unexpected status %s", snapshot.Status)
	}
	if snapshot.GPS.Lat != 28.6139 {
		t.Fatalf("unexpected gps lat %v", snapshot.GPS.Lat)
	}
}

func TestFetchModuleNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "Module nope not found"}`, http.StatusNotFound)
	}))

	_, err := client.FetchModule(context.Background(), "nope")
	if !errors.Is(err, ErrModuleNotFound) {
		t.Fatalf("expected ErrModuleNotFound, got %v", err)
	}
}

func TestFetchModuleServerErrorIsTransport(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := client.FetchModule(context.Background(), "sensors1")
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if transportErr.Endpoint != "/api/modules/sensors1" {
		t.Fatalf("unexpected endpoint %s", transportErr.Endpoint)
	}
}

func TestFetchModuleMalformedBodyIsTransport(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": `))
	}))

	_, err := client.FetchModule(context.Background(), "sensors1")
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError for malformed payload, got %v", err)
	}
}

func TestFetchModuleConnectionFailureIsTransport(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewMonitoringClient(url, NewDefaultHTTPClient(time.Second), zap.NewNop())
	_, err := client.FetchModule(context.Background(), "sensors1")
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError for refused connection, got %v", err)
	}
}

func TestFetchAllModules(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/modules" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[
			{"id": "sensors1", "status": "active"},
			{"id": "sensors2", "status": "maintenance"}
		]`))
	}))

	snapshots, err := client.FetchAllModules(context.Background())
	if err != nil {
		t.Fatalf("fetch all modules: %v", err)
	}
	if len(snapshots) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(snapshots))
	}
	if snapshots[1].Status != "maintenance" {
		t.Fatalf("unexpected status %s", snapshots[1].Status)
	}
}

func TestFetchStatistics(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/statistics" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"total_modules": 4,
			"active_modules": 3,
			"maintenance_modules": 1,
			"total_flow_rate": 60.7,
			"average_ph": 7.1,
			"average_tds": 361,
			"average_temperature": 24.9,
			"regions_covered": 4,
			"uptime_percentage": 98.5
		}`))
	}))

	stats, err := client.FetchStatistics(context.Background())
	if err != nil {
		t.Fatalf("fetch statistics: %v", err)
	}
	if stats.TotalModules != 4 || stats.ActiveModules != 3 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.UptimePercentage != 98.5 {
		t.Fatalf("unexpected uptime %v", stats.UptimePercentage)
	}
}

func TestFetchModuleHistory(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/modules/sensors1/history" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("hours") != "6" {
			t.Errorf("unexpected hours %s", r.URL.Query().Get("hours"))
		}
		_, _ = w.Write([]byte(`{
			"module_id": "sensors1",
			"history": [
				{"timestamp": "2025-01-27T09:30:00Z", "ph": 7.1, "tds": 348, "water_flow": 15.2, "water_level": 84, "temperature": 24.2},
				{"timestamp": "2025-01-27T10:30:00Z", "ph": 7.2, "tds": 350, "water_flow": 15.5, "water_level": 85, "temperature": 24.5}
			]
		}`))
	}))

	readings, err := client.FetchModuleHistory(context.Background(), "sensors1", 6)
	if err != nil {
		t.Fatalf("fetch module history: %v", err)
	}
	if readings.ModuleID != "sensors1" || len(readings.History) != 2 {
		t.Fatalf("unexpected readings %+v", readings)
	}
}
