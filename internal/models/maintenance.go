package models

import "time"

type MaintenanceRecord struct {
	ID            string
	VehicleType   VehicleType
	VehicleID     string
	Type          string
	ScheduledDate time.Time
	CompletedDate *time.Time
	Cost          float64
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
