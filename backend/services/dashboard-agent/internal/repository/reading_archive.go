package repository

import (
	"context"
	"database/sql"
	"time"

	"aquavigil/backend/services/dashboard-agent/internal/models"
)

// ReadingArchive persists successful module polls locally so the dashboard can
// chart recent readings without another remote round trip.
type ReadingArchive struct {
	db *sql.DB
}

// NewReadingArchive returns the archive.
func NewReadingArchive(db *sql.DB) *ReadingArchive {
	return &ReadingArchive{db: db}
}

// Insert stores one polled snapshot.
func (r *ReadingArchive) Insert(ctx context.Context, snapshot *models.ModuleSnapshot) error {
	const query = `
		INSERT INTO module_readings (module_id, ph, tds, water_flow, water_level, temperature, status, recorded_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`
	_, err := r.db.ExecContext(ctx, query,
		snapshot.ID,
		snapshot.PH,
		snapshot.TDS,
		snapshot.WaterFlow,
		snapshot.WaterLevel,
		snapshot.Temperature,
		string(snapshot.Status),
		snapshot.Timestamp,
	)
	return err
}

// ListRange returns archived readings for a module since the given instant,
// oldest first, capped at limit.
func (r *ReadingArchive) ListRange(ctx context.Context, moduleID string, since time.Time, limit int) ([]models.ReadingPoint, error) {
	const query = `
		SELECT recorded_at, ph, tds, water_flow, water_level, temperature
		FROM module_readings
		WHERE module_id = $1 AND recorded_at >= $2
		ORDER BY recorded_at ASC
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, moduleID, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []models.ReadingPoint
	for rows.Next() {
		var p models.ReadingPoint
		if err := rows.Scan(&p.Timestamp, &p.PH, &p.TDS, &p.WaterFlow, &p.WaterLevel, &p.Temperature); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
