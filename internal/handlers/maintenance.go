package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mohamedm999/TruckFlow/internal/ids"
	"github.com/mohamedm999/TruckFlow/internal/models"
	"github.com/mohamedm999/TruckFlow/internal/repository"
)

type maintenanceResponse struct {
	ID            string     `json:"id"`
	VehicleType   string     `json:"vehicleType"`
	VehicleID     string     `json:"vehicleId"`
	Type          string     `json:"type"`
	ScheduledDate time.Time  `json:"scheduledDate"`
	CompletedDate *time.Time `json:"completedDate,omitempty"`
	Cost          float64    `json:"cost"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func toMaintenanceResponse(r models.MaintenanceRecord) maintenanceResponse {
	return maintenanceResponse{
		ID:            r.ID,
		VehicleType:   string(r.VehicleType),
		VehicleID:     r.VehicleID,
		Type:          r.Type,
		ScheduledDate: r.ScheduledDate,
		CompletedDate: r.CompletedDate,
		Cost:          r.Cost,
		Notes:         r.Notes,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func toMaintenanceResponses(records []models.MaintenanceRecord) []maintenanceResponse {
	out := make([]maintenanceResponse, 0, len(records))
	for _, r := range records {
		out = append(out, toMaintenanceResponse(r))
	}
	return out
}

func (h HandlerSet) ListMaintenance(c *gin.Context) {
	filter := repository.MaintenanceFilter{}
	if vt := c.Query("vehicleType"); vt == string(models.VehicleTypeTruck) || vt == string(models.VehicleTypeTrailer) {
		filter.VehicleType = models.VehicleType(vt)
	}

	records, err := h.maintenance.List(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	respondData(c, http.StatusOK, toMaintenanceResponses(records))
}

func (h HandlerSet) GetMaintenance(c *gin.Context) {
	record, err := h.maintenance.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respondData(c, http.StatusOK, toMaintenanceResponse(record))
}

func (h HandlerSet) VehicleMaintenanceHistory(c *gin.Context) {
	vehicleType := models.VehicleType(c.Param("vehicleType"))
	if vehicleType != models.VehicleTypeTruck && vehicleType != models.VehicleTypeTrailer {
		respondError(c, http.StatusBadRequest, "vehicleType must be Truck or Trailer")
		return
	}

	records, err := h.maintenance.List(c.Request.Context(), repository.MaintenanceFilter{
		VehicleType: vehicleType,
		VehicleID:   c.Param("vehicleId"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	respondData(c, http.StatusOK, toMaintenanceResponses(records))
}

type createMaintenanceRequest struct {
	VehicleType   string     `json:"vehicleType" binding:"required,oneof=Truck Trailer"`
	VehicleID     string     `json:"vehicleId" binding:"required"`
	Type          string     `json:"type" binding:"required"`
	ScheduledDate time.Time  `json:"scheduledDate" binding:"required"`
	CompletedDate *time.Time `json:"completedDate"`
	Cost          *float64   `json:"cost" binding:"omitempty,min=0"`
	Notes         string     `json:"notes"`
}

func (h HandlerSet) CreateMaintenance(c *gin.Context) {
	var req createMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid maintenance payload")
		return
	}

	vehicleType := models.VehicleType(req.VehicleType)
	registration, ok, err := h.lookupVehicle(c, vehicleType, req.VehicleID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !ok {
		respondError(c, http.StatusNotFound, "Vehicle not found")
		return
	}

	record := models.MaintenanceRecord{
		ID:            ids.New(),
		VehicleType:   vehicleType,
		VehicleID:     req.VehicleID,
		Type:          req.Type,
		ScheduledDate: req.ScheduledDate,
		CompletedDate: req.CompletedDate,
		Notes:         req.Notes,
	}
	if req.Cost != nil {
		record.Cost = *req.Cost
	}

	if err := h.maintenance.Create(c.Request.Context(), record); err != nil {
		h.fail(c, err)
		return
	}

	h.notifier.NotifyMaintenanceDue(c.Request.Context(), record, registration)

	created, err := h.maintenance.GetByID(c.Request.Context(), record.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	respondData(c, http.StatusCreated, toMaintenanceResponse(created))
}

type updateMaintenanceRequest struct {
	Type          *string    `json:"type"`
	ScheduledDate *time.Time `json:"scheduledDate"`
	CompletedDate *time.Time `json:"completedDate"`
	Cost          *float64   `json:"cost" binding:"omitempty,min=0"`
	Notes         *string    `json:"notes"`
}

func (h HandlerSet) UpdateMaintenance(c *gin.Context) {
	var req updateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid maintenance payload")
		return
	}

	ctx := c.Request.Context()
	record, err := h.maintenance.GetByID(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	if req.Type != nil {
		record.Type = *req.Type
	}
	if req.ScheduledDate != nil {
		record.ScheduledDate = *req.ScheduledDate
	}
	if req.CompletedDate != nil {
		record.CompletedDate = req.CompletedDate
	}
	if req.Cost != nil {
		record.Cost = *req.Cost
	}
	if req.Notes != nil {
		record.Notes = *req.Notes
	}

	if err := h.maintenance.Update(ctx, record); err != nil {
		h.fail(c, err)
		return
	}
	respondData(c, http.StatusOK, toMaintenanceResponse(record))
}

func (h HandlerSet) DeleteMaintenance(c *gin.Context) {
	if err := h.maintenance.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Maintenance record deleted")
}
