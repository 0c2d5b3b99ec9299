package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mohamedm999/TruckFlow/internal/ids"
	"github.com/mohamedm999/TruckFlow/internal/models"
)

type truckResponse struct {
	ID                 string    `json:"id"`
	RegistrationNumber string    `json:"registrationNumber"`
	Brand              string    `json:"brand"`
	Model              string    `json:"model"`
	Year               int       `json:"year"`
	Status             string    `json:"status"`
	CurrentOdometer    float64   `json:"currentOdometer"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func toTruckResponse(t models.Truck) truckResponse {
	return truckResponse{
		ID:                 t.ID,
		RegistrationNumber: t.RegistrationNumber,
		Brand:              t.Brand,
		Model:              t.Model,
		Year:               t.Year,
		Status:             string(t.Status),
		CurrentOdometer:    t.CurrentOdometer,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}

func (h HandlerSet) ListTrucks(c *gin.Context) {
	trucks, err := h.trucks.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]truckResponse, 0, len(trucks))
	for _, t := range trucks {
		out = append(out, toTruckResponse(t))
	}
	respondData(c, http.StatusOK, out)
}

func (h HandlerSet) GetTruck(c *gin.Context) {
	truck, err := h.trucks.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respondData(c, http.StatusOK, toTruckResponse(truck))
}

type createTruckRequest struct {
	RegistrationNumber string   `json:"registrationNumber" binding:"required"`
	Brand              string   `json:"brand" binding:"required"`
	Model              string   `json:"model" binding:"required"`
	Year               int      `json:"year" binding:"required,min=1950"`
	Status             *string  `json:"status" binding:"omitempty,oneof=Active Maintenance OutOfService"`
	CurrentOdometer    *float64 `json:"currentOdometer" binding:"omitempty,min=0"`
}

func (h HandlerSet) CreateTruck(c *gin.Context) {
	var req createTruckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid truck payload")
		return
	}

	truck := models.Truck{
		ID:                 ids.New(),
		RegistrationNumber: strings.ToUpper(strings.TrimSpace(req.RegistrationNumber)),
		Brand:              req.Brand,
		Model:              req.Model,
		Year:               req.Year,
		Status:             models.VehicleStatusActive,
	}
	if req.Status != nil {
		truck.Status = models.VehicleStatus(*req.Status)
	}
	if req.CurrentOdometer != nil {
		truck.CurrentOdometer = *req.CurrentOdometer
	}

	if err := h.trucks.Create(c.Request.Context(), truck); err != nil {
		h.fail(c, err)
		return
	}

	created, err := h.trucks.GetByID(c.Request.Context(), truck.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	respondData(c, http.StatusCreated, toTruckResponse(created))
}

type updateTruckRequest struct {
	RegistrationNumber *string  `json:"registrationNumber"`
	Brand              *string  `json:"brand"`
	Model              *string  `json:"model"`
	Year               *int     `json:"year" binding:"omitempty,min=1950"`
	Status             *string  `json:"status" binding:"omitempty,oneof=Active Maintenance OutOfService"`
	CurrentOdometer    *float64 `json:"currentOdometer" binding:"omitempty,min=0"`
}

func (h HandlerSet) UpdateTruck(c *gin.Context) {
	var req updateTruckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid truck payload")
		return
	}

	ctx := c.Request.Context()
	truck, err := h.trucks.GetByID(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	if req.RegistrationNumber != nil {
		truck.RegistrationNumber = strings.ToUpper(strings.TrimSpace(*req.RegistrationNumber))
	}
	if req.Brand != nil {
		truck.Brand = *req.Brand
	}
	if req.Model != nil {
		truck.Model = *req.Model
	}
	if req.Year != nil {
		truck.Year = *req.Year
	}
	if req.Status != nil {
		truck.Status = models.VehicleStatus(*req.Status)
	}
	if req.CurrentOdometer != nil {
		truck.CurrentOdometer = *req.CurrentOdometer
	}

	if err := h.trucks.Update(ctx, truck); err != nil {
		h.fail(c, err)
		return
	}
	respondData(c, http.StatusOK, toTruckResponse(truck))
}

func (h HandlerSet) DeleteTruck(c *gin.Context) {
	if err := h.trucks.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Truck deleted")
}
