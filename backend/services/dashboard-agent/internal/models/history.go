package models

import "time"

// HistoryEntry records that a module was viewed, carrying the snapshot seen at
// that moment.
type HistoryEntry struct {
	Snapshot ModuleSnapshot `json:"snapshot"`
	ViewedAt time.Time      `json:"viewed_at"`
}

// ReadingPoint is one sample from a module's remote reading history.
type ReadingPoint struct {
	Timestamp   time.Time `json:"timestamp"`
	PH          float64   `json:"ph"`
	TDS         int       `json:"tds"`
	WaterFlow   float64   `json:"water_flow"`
	WaterLevel  int       `json:"water_level"`
	Temperature float64   `json:"temperature"`
}

// ModuleReadings is the remote per-module history payload.
type ModuleReadings struct {
	ModuleID string         `json:"module_id"`
	History  []ReadingPoint `json:"history"`
}
