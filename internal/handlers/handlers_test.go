package handlers

import (
	"testing"
	"time"

	"github.com/mohamedm999/TruckFlow/internal/models"
)

func TestFuelCost(t *testing.T) {
	t.Parallel()

	cases := []struct {
		liters float64
		price  float64
		want   float64
	}{
		{liters: 100, price: 1.5, want: 150},
		{liters: 33.33, price: 1.789, want: 59.63},
		{liters: 0.1, price: 0.1, want: 0.01},
	}
	for _, tc := range cases {
		if got := fuelCost(tc.liters, tc.price); got != tc.want {
			t.Errorf("fuelCost(%v, %v): got %v want %v", tc.liters, tc.price, got, tc.want)
		}
	}
}

func TestStatusTransitionAllowed(t *testing.T) {
	t.Parallel()

	allowed := []struct{ from, to models.TripStatus }{
		{models.TripStatusPlanned, models.TripStatusInProgress},
		{models.TripStatusPlanned, models.TripStatusCancelled},
		{models.TripStatusInProgress, models.TripStatusCompleted},
		{models.TripStatusInProgress, models.TripStatusCancelled},
	}
	for _, tc := range allowed {
		if !statusTransitionAllowed(tc.from, tc.to) {
			t.Errorf("transition %s -> %s should be allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to models.TripStatus }{
		{models.TripStatusPlanned, models.TripStatusCompleted},
		{models.TripStatusCompleted, models.TripStatusInProgress},
		{models.TripStatusCancelled, models.TripStatusPlanned},
		{models.TripStatusCompleted, models.TripStatusCompleted},
	}
	for _, tc := range denied {
		if statusTransitionAllowed(tc.from, tc.to) {
			t.Errorf("transition %s -> %s should be denied", tc.from, tc.to)
		}
	}
}

func TestApplyTripStatus_InProgressStampsDeparture(t *testing.T) {
	t.Parallel()

	trip := models.Trip{Status: models.TripStatusPlanned}
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	if err := applyTripStatus(&trip, models.TripStatusInProgress, now, nil); err != nil {
		t.Fatalf("applyTripStatus error: %v", err)
	}
	if trip.Status != models.TripStatusInProgress {
		t.Fatalf("status: got %s", trip.Status)
	}
	if trip.ActualDeparture == nil || !trip.ActualDeparture.Equal(now) {
		t.Fatalf("actual departure not stamped")
	}
	if trip.ActualArrival != nil {
		t.Fatalf("arrival must stay unset")
	}
}

func TestApplyTripStatus_CompletedRecordsMileageEnd(t *testing.T) {
	t.Parallel()

	start := 1000.0
	end := 1500.0
	trip := models.Trip{Status: models.TripStatusInProgress, MileageStart: &start}
	now := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)

	if err := applyTripStatus(&trip, models.TripStatusCompleted, now, &end); err != nil {
		t.Fatalf("applyTripStatus error: %v", err)
	}
	if trip.ActualArrival == nil || !trip.ActualArrival.Equal(now) {
		t.Fatalf("actual arrival not stamped")
	}
	if trip.MileageEnd == nil || *trip.MileageEnd != end {
		t.Fatalf("mileageEnd not recorded alongside completion")
	}
}

func TestApplyTripStatus_CompletedRejectsMileageBelowStart(t *testing.T) {
	t.Parallel()

	start := 1000.0
	end := 900.0
	trip := models.Trip{Status: models.TripStatusInProgress, MileageStart: &start}

	err := applyTripStatus(&trip, models.TripStatusCompleted, time.Now(), &end)
	if err != errMileageEndBelowStart {
		t.Fatalf("expected mileage guard to trip, got %v", err)
	}
	if trip.MileageEnd != nil {
		t.Fatalf("rejected reading must not be stored")
	}
}

func TestApplyTripStatus_CompletedWithoutMileage(t *testing.T) {
	t.Parallel()

	trip := models.Trip{Status: models.TripStatusInProgress}

	if err := applyTripStatus(&trip, models.TripStatusCompleted, time.Now(), nil); err != nil {
		t.Fatalf("applyTripStatus error: %v", err)
	}
	if trip.MileageEnd != nil {
		t.Fatalf("mileageEnd should stay unset when the caller omits it")
	}
}

func TestToTripResponse_WithoutTrailer(t *testing.T) {
	t.Parallel()

	detail := models.TripDetail{
		Trip: models.Trip{
			ID:          "t1",
			Code:        "TRP-1",
			TruckID:     "truck-1",
			ChauffeurID: "u1",
			Origin:      "Casablanca",
			Destination: "Tangier",
			Status:      models.TripStatusPlanned,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		},
		TruckRegistration:  "AB-123-CD",
		TruckBrand:         "Volvo",
		TruckModel:         "FH16",
		ChauffeurFirstName: "Karim",
		ChauffeurLastName:  "E.",
	}

	resp := toTripResponse(detail)
	if resp.Trailer != nil {
		t.Fatalf("trailer should be omitted when the trip has none")
	}
	if resp.Truck.Label != "Volvo FH16" {
		t.Fatalf("truck label: got %q", resp.Truck.Label)
	}
	if resp.Chauffeur.ID != "u1" {
		t.Fatalf("chauffeur id: got %q", resp.Chauffeur.ID)
	}
}

func TestToTripResponse_WithTrailer(t *testing.T) {
	t.Parallel()

	trailerID := "trailer-1"
	registration := "TR-456"
	trailerType := "Flatbed"
	detail := models.TripDetail{
		Trip: models.Trip{
			ID:        "t1",
			TruckID:   "truck-1",
			TrailerID: &trailerID,
		},
		TrailerRegistration: &registration,
		TrailerType:         &trailerType,
	}

	resp := toTripResponse(detail)
	if resp.Trailer == nil {
		t.Fatalf("trailer missing from response")
	}
	if resp.Trailer.ID != trailerID || resp.Trailer.RegistrationNumber != registration || resp.Trailer.Label != trailerType {
		t.Fatalf("trailer ref: got %+v", resp.Trailer)
	}
}
