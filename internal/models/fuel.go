package models

import "time"

type FuelRecord struct {
	ID            string
	TruckID       string
	DriverID      string
	TripID        *string
	FilledAt      time.Time
	Odometer      float64
	Liters        float64
	PricePerLiter float64
	TotalCost     float64
	FullTank      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
