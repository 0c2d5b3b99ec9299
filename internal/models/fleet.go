package models

import "time"

type VehicleStatus string

const (
	VehicleStatusActive       VehicleStatus = "Active"
	VehicleStatusMaintenance  VehicleStatus = "Maintenance"
	VehicleStatusOutOfService VehicleStatus = "OutOfService"
)

// VehicleType distinguishes the two kinds of registered vehicles a tire or a
// maintenance record can reference.
type VehicleType string

const (
	VehicleTypeTruck   VehicleType = "Truck"
	VehicleTypeTrailer VehicleType = "Trailer"
)

type Truck struct {
	ID                 string
	RegistrationNumber string
	Brand              string
	Model              string
	Year               int
	Status             VehicleStatus
	CurrentOdometer    float64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Trailer struct {
	ID                 string
	RegistrationNumber string
	Type               string
	Capacity           float64
	Status             VehicleStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type TireStatus string

const (
	TireStatusActive    TireStatus = "Active"
	TireStatusInStorage TireStatus = "InStorage"
	TireStatusScrapped  TireStatus = "Scrapped"
)

type Tire struct {
	ID               string
	SerialNumber     string
	Brand            string
	Size             string
	Status           TireStatus
	VehicleType      *VehicleType
	VehicleID        *string
	MileageAtInstall float64
	WearLevel        float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
