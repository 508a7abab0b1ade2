package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "aquavigil_"

	// ResultSuccess and ResultError label poll tick outcomes.
	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	pollTicks      *prometheus.CounterVec
	historyEntries prometheus.Gauge
	wsClients      prometheus.Gauge
)

// Init registers agent metrics with the default registry.
func Init() {
	registerOnce.Do(func() {
		pollTicks = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "poll_ticks_total",
				Help: "Total poll ticks by view and result",
			},
			[]string{"view", "result"},
		)
		historyEntries = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "history_entries",
			Help: "Current number of view-history entries",
		})
		wsClients = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "ws_clients",
			Help: "Connected dashboard websocket clients",
		})

		prometheus.MustRegister(pollTicks, historyEntries, wsClients)
	})
}

// PollTick counts one completed tick for a view.
func PollTick(view, result string) {
	if pollTicks != nil {
		pollTicks.WithLabelValues(view, result).Inc()
	}
}

// SetHistoryEntries updates the history size gauge.
func SetHistoryEntries(n int) {
	if historyEntries != nil {
		historyEntries.Set(float64(n))
	}
}

// WSClientDelta adjusts the connected client gauge.
func WSClientDelta(d int) {
	if wsClients != nil {
		wsClients.Add(float64(d))
	}
}
