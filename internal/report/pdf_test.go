package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/mohamedm999/TruckFlow/internal/models"
)

func TestTripPDF(t *testing.T) {
	t.Parallel()

	departure := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	arrival := departure.Add(9 * time.Hour)
	mileageStart := 120000.0
	mileageEnd := 120650.0

	trip := models.TripDetail{
		Trip: models.Trip{
			ID:              "t1",
			Code:            "TRP-1710057600000",
			TruckID:         "truck-1",
			ChauffeurID:     "u1",
			Origin:          "Casablanca",
			Destination:     "Agadir",
			Status:          models.TripStatusCompleted,
			ActualDeparture: &departure,
			ActualArrival:   &arrival,
			MileageStart:    &mileageStart,
			MileageEnd:      &mileageEnd,
			Notes:           "Night run",
		},
		TruckRegistration:  "AB-123-CD",
		TruckBrand:         "Volvo",
		TruckModel:         "FH16",
		ChauffeurFirstName: "Karim",
		ChauffeurLastName:  "E.",
	}
	fuel := []models.FuelRecord{
		{ID: "f1", TruckID: "truck-1", FilledAt: departure, Liters: 300, PricePerLiter: 1.4, TotalCost: 420},
	}

	pdf, err := TripPDF(trip, fuel)
	if err != nil {
		t.Fatalf("TripPDF error: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatalf("empty pdf output")
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("output is not a pdf, starts with %q", pdf[:min(8, len(pdf))])
	}
}

func TestTripPDF_MinimalTrip(t *testing.T) {
	t.Parallel()

	trip := models.TripDetail{
		Trip: models.Trip{
			ID:          "t2",
			Code:        "TRP-2",
			Origin:      "Rabat",
			Destination: "Fes",
			Status:      models.TripStatusPlanned,
		},
		TruckRegistration:  "XY-999-ZZ",
		TruckBrand:         "Scania",
		TruckModel:         "R500",
		ChauffeurFirstName: "Sara",
		ChauffeurLastName:  "B.",
	}

	pdf, err := TripPDF(trip, nil)
	if err != nil {
		t.Fatalf("TripPDF error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("output is not a pdf")
	}
}
