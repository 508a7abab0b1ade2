package models

// AggregateStats is the fleet-wide summary computed by the remote service.
// The agent treats it as opaque and never recomputes it locally.
type AggregateStats struct {
	TotalModules       int     `json:"total_modules"`
	ActiveModules      int     `json:"active_modules"`
	MaintenanceModules int     `json:"maintenance_modules"`
	TotalFlowRate      float64 `json:"total_flow_rate"`
	AveragePH          float64 `json:"average_ph"`
	AverageTDS         int     `json:"average_tds"`
	AverageTemperature float64 `json:"average_temperature"`
	RegionsCovered     int     `json:"regions_covered"`
	UptimePercentage   float64 `json:"uptime_percentage"`
}
