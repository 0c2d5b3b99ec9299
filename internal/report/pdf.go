// Package report renders printable trip reports.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/mohamedm999/TruckFlow/internal/models"
)

// TripPDF renders a single-trip report: identity, route, schedule, mileage,
// and the truck's fuel records with totals.
func TripPDF(trip models.TripDetail, fuelRecords []models.FuelRecord) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, "Trip Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Trip ID: %s", trip.Code), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	section := func(title string) {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 8, title, "B", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
	}
	line := func(format string, args ...any) {
		pdf.CellFormat(0, 6, fmt.Sprintf(format, args...), "", 1, "L", false, 0, "")
	}

	section("Trip Information")
	line("Status: %s", trip.Status)
	line("Truck: %s - %s %s", trip.TruckRegistration, trip.TruckBrand, trip.TruckModel)
	if trip.TrailerRegistration != nil {
		trailerType := ""
		if trip.TrailerType != nil {
			trailerType = *trip.TrailerType
		}
		line("Trailer: %s - %s", *trip.TrailerRegistration, trailerType)
	}
	line("Chauffeur: %s %s", trip.ChauffeurFirstName, trip.ChauffeurLastName)
	pdf.Ln(4)

	section("Route")
	line("From: %s", trip.Origin)
	line("To: %s", trip.Destination)
	pdf.Ln(4)

	section("Schedule")
	if trip.PlannedDeparture != nil {
		line("Planned Departure: %s", trip.PlannedDeparture.Format(time.RFC1123))
	}
	if trip.ActualDeparture != nil {
		line("Actual Departure: %s", trip.ActualDeparture.Format(time.RFC1123))
	}
	if trip.ActualArrival != nil {
		line("Actual Arrival: %s", trip.ActualArrival.Format(time.RFC1123))
	}
	pdf.Ln(4)

	section("Mileage")
	if trip.MileageStart != nil {
		line("Start: %.0f km", *trip.MileageStart)
	}
	if trip.MileageEnd != nil {
		line("End: %.0f km", *trip.MileageEnd)
		if trip.MileageStart != nil {
			line("Distance: %.0f km", *trip.MileageEnd-*trip.MileageStart)
		}
	}
	pdf.Ln(4)

	if len(fuelRecords) > 0 {
		section("Fuel Records")
		var totalLiters, totalCost float64
		for i, record := range fuelRecords {
			line("%d. %s - %.2fL @ %.2f/L = %.2f",
				i+1, record.FilledAt.Format("2006-01-02"), record.Liters, record.PricePerLiter, record.TotalCost)
			line("   Odometer: %.0f km", record.Odometer)
			totalLiters += record.Liters
			totalCost += record.TotalCost
		}
		pdf.Ln(2)
		line("Total Fuel: %.2fL", totalLiters)
		line("Total Cost: %.2f", totalCost)
		pdf.Ln(4)
	}

	if trip.Notes != "" {
		section("Notes")
		pdf.MultiCell(0, 6, trip.Notes, "", "L", false)
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated on %s", time.Now().Format(time.RFC1123)), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render trip pdf: %w", err)
	}
	return buf.Bytes(), nil
}
