package handlers

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mohamedm999/TruckFlow/internal/ids"
	"github.com/mohamedm999/TruckFlow/internal/middleware"
	"github.com/mohamedm999/TruckFlow/internal/models"
	"github.com/mohamedm999/TruckFlow/internal/repository"
)

type fuelRecordResponse struct {
	ID            string    `json:"id"`
	TruckID       string    `json:"truckId"`
	DriverID      string    `json:"driverId"`
	TripID        *string   `json:"tripId,omitempty"`
	FilledAt      time.Time `json:"filledAt"`
	Odometer      float64   `json:"odometer"`
	Liters        float64   `json:"liters"`
	PricePerLiter float64   `json:"pricePerLiter"`
	TotalCost     float64   `json:"totalCost"`
	FullTank      bool      `json:"fullTank"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toFuelRecordResponse(r models.FuelRecord) fuelRecordResponse {
	return fuelRecordResponse{
		ID:            r.ID,
		TruckID:       r.TruckID,
		DriverID:      r.DriverID,
		TripID:        r.TripID,
		FilledAt:      r.FilledAt,
		Odometer:      r.Odometer,
		Liters:        r.Liters,
		PricePerLiter: r.PricePerLiter,
		TotalCost:     r.TotalCost,
		FullTank:      r.FullTank,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func fuelCost(liters, pricePerLiter float64) float64 {
	return math.Round(liters*pricePerLiter*100) / 100
}

func (h HandlerSet) ListFuelRecords(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		records []models.FuelRecord
		err     error
	)
	if truckID := c.Query("truckId"); truckID != "" {
		records, err = h.fuel.ListByTruck(ctx, truckID)
	} else {
		records, err = h.fuel.List(ctx)
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	out := make([]fuelRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, toFuelRecordResponse(r))
	}
	respondData(c, http.StatusOK, out)
}

func (h HandlerSet) GetFuelRecord(c *gin.Context) {
	record, err := h.fuel.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respondData(c, http.StatusOK, toFuelRecordResponse(record))
}

type createFuelRecordRequest struct {
	TruckID       string     `json:"truckId" binding:"required"`
	TripID        *string    `json:"tripId"`
	FilledAt      *time.Time `json:"filledAt"`
	Odometer      float64    `json:"odometer" binding:"required,min=0"`
	Liters        float64    `json:"liters" binding:"required,gt=0"`
	PricePerLiter float64    `json:"pricePerLiter" binding:"required,gt=0"`
	FullTank      *bool      `json:"fullTank"`
}

func (h HandlerSet) CreateFuelRecord(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createFuelRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid fuel record payload")
		return
	}

	ctx := c.Request.Context()
	if _, err := h.trucks.GetByID(ctx, req.TruckID); err != nil {
		h.fail(c, err)
		return
	}
	if req.TripID != nil {
		if _, err := h.trips.GetByID(ctx, *req.TripID); err != nil {
			h.fail(c, err)
			return
		}
	}

	record := models.FuelRecord{
		ID:            ids.New(),
		TruckID:       req.TruckID,
		DriverID:      user.ID,
		TripID:        req.TripID,
		FilledAt:      time.Now(),
		Odometer:      req.Odometer,
		Liters:        req.Liters,
		PricePerLiter: req.PricePerLiter,
		TotalCost:     fuelCost(req.Liters, req.PricePerLiter),
		FullTank:      true,
	}
	if req.FilledAt != nil {
		record.FilledAt = *req.FilledAt
	}
	if req.FullTank != nil {
		record.FullTank = *req.FullTank
	}

	if err := h.fuel.Create(ctx, record); err != nil {
		h.fail(c, err)
		return
	}

	if err := h.trucks.BumpOdometer(ctx, record.TruckID, record.Odometer); err != nil && !errors.Is(err, repository.ErrTruckNotFound) {
		h.log.Error().Err(err).Str("truck_id", record.TruckID).Msg("odometer bump failed")
	}

	created, err := h.fuel.GetByID(ctx, record.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	respondData(c, http.StatusCreated, toFuelRecordResponse(created))
}

type updateFuelRecordRequest struct {
	FilledAt      *time.Time `json:"filledAt"`
	Odometer      *float64   `json:"odometer" binding:"omitempty,min=0"`
	Liters        *float64   `json:"liters" binding:"omitempty,gt=0"`
	PricePerLiter *float64   `json:"pricePerLiter" binding:"omitempty,gt=0"`
	FullTank      *bool      `json:"fullTank"`
}

func (h HandlerSet) UpdateFuelRecord(c *gin.Context) {
	var req updateFuelRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid fuel record payload")
		return
	}

	ctx := c.Request.Context()
	record, err := h.fuel.GetByID(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	if req.FilledAt != nil {
		record.FilledAt = *req.FilledAt
	}
	if req.Odometer != nil {
		record.Odometer = *req.Odometer
	}
	if req.Liters != nil {
		record.Liters = *req.Liters
	}
	if req.PricePerLiter != nil {
		record.PricePerLiter = *req.PricePerLiter
	}
	if req.FullTank != nil {
		record.FullTank = *req.FullTank
	}
	record.TotalCost = fuelCost(record.Liters, record.PricePerLiter)

	if err := h.fuel.Update(ctx, record); err != nil {
		h.fail(c, err)
		return
	}
	respondData(c, http.StatusOK, toFuelRecordResponse(record))
}

func (h HandlerSet) DeleteFuelRecord(c *gin.Context) {
	if err := h.fuel.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Fuel record deleted")
}
