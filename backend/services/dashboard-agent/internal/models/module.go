package models

import "time"

// ModuleStatus reported by the remote monitoring service.
type ModuleStatus string

// Known module statuses.
const (
	StatusActive      ModuleStatus = "active"
	StatusMaintenance ModuleStatus = "maintenance"
	StatusOffline     ModuleStatus = "offline"
)

// GPS coordinate pair as the remote service encodes it.
type GPS struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ModuleSnapshot is one immutable reading of a sensor module. The id is stable
// for a physical module; every other field may change between polls.
type ModuleSnapshot struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Location         string       `json:"location"`
	Coordinates      []float64    `json:"coordinates"`
	PH               float64      `json:"ph"`
	TDS              int          `json:"tds"`
	WaterFlow        float64      `json:"water_flow"`
	WaterLevel       int          `json:"water_level"`
	Temperature      float64      `json:"temperature"`
	GPS              GPS          `json:"gps"`
	Timestamp        time.Time    `json:"timestamp"`
	Status           ModuleStatus `json:"status"`
	InstallationDate string       `json:"installation_date,omitempty"`
	LastMaintenance  string       `json:"last_maintenance,omitempty"`
}
