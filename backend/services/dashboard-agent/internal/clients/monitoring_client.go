package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"aquavigil/backend/services/dashboard-agent/internal/models"
)

// HTTPDoer defines the http.Client interface subset used by the client.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// MonitoringClient reads telemetry from the remote water-monitoring service.
// All operations are side-effect-free and apply no retry; failures come back
// as ErrModuleNotFound or *TransportError.
type MonitoringClient struct {
	baseURL string
	client  HTTPDoer
	logger  *zap.Logger
}

// NewMonitoringClient builds a client against the given base URL.
func NewMonitoringClient(baseURL string, client HTTPDoer, logger *zap.Logger) *MonitoringClient {
	return &MonitoringClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
	}
}

// NewDefaultHTTPClient returns *http.Client with timeout.
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// FetchModule returns the current snapshot for one module.
func (c *MonitoringClient) FetchModule(ctx context.Context, id string) (*models.ModuleSnapshot, error) {
	var snapshot models.ModuleSnapshot
	if err := c.getJSON(ctx, fmt.Sprintf("/api/modules/%s", id), &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// FetchAllModules returns current snapshots for the whole fleet.
func (c *MonitoringClient) FetchAllModules(ctx context.Context) ([]models.ModuleSnapshot, error) {
	var snapshots []models.ModuleSnapshot
	if err := c.getJSON(ctx, "/api/modules", &snapshots); err != nil {
		return nil, err
	}
	return snapshots, nil
}

// FetchStatistics returns the fleet-wide aggregate summary.
func (c *MonitoringClient) FetchStatistics(ctx context.Context) (*models.AggregateStats, error) {
	var stats models.AggregateStats
	if err := c.getJSON(ctx, "/api/statistics", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// FetchModuleHistory returns up to hours of historical readings for a module.
func (c *MonitoringClient) FetchModuleHistory(ctx context.Context, id string, hours int) (*models.ModuleReadings, error) {
	var readings models.ModuleReadings
	path := fmt.Sprintf("/api/modules/%s/history?hours=%d", id, hours)
	if err := c.getJSON(ctx, path, &readings); err != nil {
		return nil, err
	}
	return &readings, nil
}

func (c *MonitoringClient) getJSON(ctx context.Context, path string, out interface{}) error {
	endpoint := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return c.transportErr(path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return c.transportErr(path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.logger.Warn("remote service reported not found", zap.String("endpoint", path))
		return ErrModuleNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.transportErr(path, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.transportErr(path, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return c.transportErr(path, fmt.Errorf("decode payload: %w", err))
	}
	return nil
}

func (c *MonitoringClient) transportErr(path string, cause error) error {
	c.logger.Warn("monitoring request failed", zap.String("endpoint", path), zap.Error(cause))
	return &TransportError{Endpoint: path, Err: cause}
}
