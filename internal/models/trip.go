package models

import "time"

type TripStatus string

const (
	TripStatusPlanned    TripStatus = "Planned"
	TripStatusInProgress TripStatus = "InProgress"
	TripStatusCompleted  TripStatus = "Completed"
	TripStatusCancelled  TripStatus = "Cancelled"
)

type Trip struct {
	ID               string
	Code             string
	TruckID          string
	TrailerID        *string
	ChauffeurID      string
	Origin           string
	Destination      string
	Status           TripStatus
	PlannedDeparture *time.Time
	ActualDeparture  *time.Time
	ActualArrival    *time.Time
	MileageStart     *float64
	MileageEnd       *float64
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TripDetail carries the reference summaries list/detail endpoints return
// alongside the trip itself.
type TripDetail struct {
	Trip
	TruckRegistration   string
	TruckBrand          string
	TruckModel          string
	TrailerRegistration *string
	TrailerType         *string
	ChauffeurFirstName  string
	ChauffeurLastName   string
}
