package handlers

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// parseDateRange reads optional from/to query params accepted as RFC 3339 or
// plain dates.
func parseDateRange(c *gin.Context) (from, to *time.Time, ok bool) {
	parse := func(raw string) (*time.Time, bool) {
		if raw == "" {
			return nil, true
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return &t, true
			}
		}
		return nil, false
	}

	from, ok = parse(c.Query("from"))
	if !ok {
		return nil, nil, false
	}
	to, ok = parse(c.Query("to"))
	if !ok {
		return nil, nil, false
	}
	return from, to, true
}

func (h HandlerSet) DashboardReport(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := h.reports.FleetStats(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	now := time.Now()
	upcoming, err := h.maintenance.ListDueBetween(ctx, now, now.AddDate(0, 1, 0), 5)
	if err != nil {
		h.fail(c, err)
		return
	}

	recent, err := h.trips.ListRecent(ctx, 5)
	if err != nil {
		h.fail(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"fleet": gin.H{
			"totalTrucks":   stats.TotalTrucks,
			"activeTrucks":  stats.ActiveTrucks,
			"totalTrailers": stats.TotalTrailers,
		},
		"trips": gin.H{
			"total":         stats.TotalTrips,
			"active":        stats.ActiveTrips,
			"completed":     stats.CompletedTrips,
			"avgDistanceKm": math.Round(stats.AvgTripDistance*100) / 100,
		},
		"totalFuelCost":       stats.TotalFuelCost,
		"upcomingMaintenance": toMaintenanceResponses(upcoming),
		"recentTrips":         toTripResponses(recent),
	})
}

func (h HandlerSet) FuelConsumptionReport(c *gin.Context) {
	from, to, ok := parseDateRange(c)
	if !ok {
		respondError(c, http.StatusBadRequest, "from and to must be RFC 3339 timestamps or YYYY-MM-DD dates")
		return
	}

	summaries, err := h.reports.FuelConsumptionByTruck(c.Request.Context(), from, to)
	if err != nil {
		h.fail(c, err)
		return
	}

	out := make([]gin.H, 0, len(summaries))
	var totalLiters, totalCost float64
	for _, s := range summaries {
		totalLiters += s.TotalLiters
		totalCost += s.TotalCost
		out = append(out, gin.H{
			"truckId":            s.TruckID,
			"registrationNumber": s.RegistrationNumber,
			"truck":              s.Brand + " " + s.Model,
			"totalLiters":        s.TotalLiters,
			"totalCost":          s.TotalCost,
			"records":            s.Records,
		})
	}

	respondData(c, http.StatusOK, gin.H{
		"trucks":      out,
		"totalLiters": totalLiters,
		"totalCost":   totalCost,
	})
}

func (h HandlerSet) MaintenanceCostsReport(c *gin.Context) {
	from, to, ok := parseDateRange(c)
	if !ok {
		respondError(c, http.StatusBadRequest, "from and to must be RFC 3339 timestamps or YYYY-MM-DD dates")
		return
	}

	summaries, err := h.reports.MaintenanceCostsByVehicle(c.Request.Context(), from, to)
	if err != nil {
		h.fail(c, err)
		return
	}

	out := make([]gin.H, 0, len(summaries))
	var totalCost float64
	for _, s := range summaries {
		totalCost += s.TotalCost
		out = append(out, gin.H{
			"vehicleId":          s.VehicleID,
			"vehicleType":        s.VehicleType,
			"registrationNumber": s.RegistrationNumber,
			"totalCost":          s.TotalCost,
			"records":            s.Records,
		})
	}

	respondData(c, http.StatusOK, gin.H{
		"vehicles":  out,
		"totalCost": totalCost,
	})
}

func (h HandlerSet) TripStatisticsReport(c *gin.Context) {
	stats, err := h.reports.TripStats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	completionRate := 0.0
	if stats.Total > 0 {
		completionRate = math.Round(float64(stats.Completed)/float64(stats.Total)*10000) / 100
	}

	respondData(c, http.StatusOK, gin.H{
		"total":            stats.Total,
		"completed":        stats.Completed,
		"inProgress":       stats.InProgress,
		"planned":          stats.Planned,
		"cancelled":        stats.Cancelled,
		"completionRate":   completionRate,
		"avgDurationHours": math.Round(stats.AvgDurationHours*100) / 100,
	})
}
