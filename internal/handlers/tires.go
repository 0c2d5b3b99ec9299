package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mohamedm999/TruckFlow/internal/ids"
	"github.com/mohamedm999/TruckFlow/internal/models"
	"github.com/mohamedm999/TruckFlow/internal/repository"
)

type tireResponse struct {
	ID               string    `json:"id"`
	SerialNumber     string    `json:"serialNumber"`
	Brand            string    `json:"brand"`
	Size             string    `json:"size"`
	Status           string    `json:"status"`
	VehicleType      *string   `json:"vehicleType,omitempty"`
	VehicleID        *string   `json:"vehicleId,omitempty"`
	MileageAtInstall float64   `json:"mileageAtInstall"`
	WearLevel        float64   `json:"wearLevel"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func toTireResponse(t models.Tire) tireResponse {
	resp := tireResponse{
		ID:               t.ID,
		SerialNumber:     t.SerialNumber,
		Brand:            t.Brand,
		Size:             t.Size,
		Status:           string(t.Status),
		VehicleID:        t.VehicleID,
		MileageAtInstall: t.MileageAtInstall,
		WearLevel:        t.WearLevel,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
	if t.VehicleType != nil {
		vt := string(*t.VehicleType)
		resp.VehicleType = &vt
	}
	return resp
}

// lookupVehicle resolves the referenced truck or trailer before a tire or a
// maintenance record may point at it, returning its registration number.
func (h HandlerSet) lookupVehicle(c *gin.Context, vehicleType models.VehicleType, vehicleID string) (string, bool, error) {
	ctx := c.Request.Context()
	switch vehicleType {
	case models.VehicleTypeTruck:
		truck, err := h.trucks.GetByID(ctx, vehicleID)
		if errors.Is(err, repository.ErrTruckNotFound) {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		return truck.RegistrationNumber, true, nil
	case models.VehicleTypeTrailer:
		trailer, err := h.trailers.GetByID(ctx, vehicleID)
		if errors.Is(err, repository.ErrTrailerNotFound) {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		return trailer.RegistrationNumber, true, nil
	default:
		return "", false, nil
	}
}

func (h HandlerSet) ListTires(c *gin.Context) {
	tires, err := h.tires.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]tireResponse, 0, len(tires))
	for _, t := range tires {
		out = append(out, toTireResponse(t))
	}
	respondData(c, http.StatusOK, out)
}

func (h HandlerSet) GetTire(c *gin.Context) {
	tire, err := h.tires.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respondData(c, http.StatusOK, toTireResponse(tire))
}

type createTireRequest struct {
	SerialNumber     string   `json:"serialNumber" binding:"required"`
	Brand            string   `json:"brand" binding:"required"`
	Size             string   `json:"size" binding:"required"`
	Status           *string  `json:"status" binding:"omitempty,oneof=Active InStorage Scrapped"`
	VehicleType      *string  `json:"vehicleType" binding:"omitempty,oneof=Truck Trailer"`
	VehicleID        *string  `json:"vehicleId"`
	MileageAtInstall *float64 `json:"mileageAtInstall" binding:"omitempty,min=0"`
	WearLevel        *float64 `json:"wearLevel" binding:"omitempty,min=0,max=100"`
}

func (h HandlerSet) CreateTire(c *gin.Context) {
	var req createTireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid tire payload")
		return
	}
	if (req.VehicleType == nil) != (req.VehicleID == nil) {
		respondError(c, http.StatusBadRequest, "vehicleType and vehicleId must be provided together")
		return
	}

	tire := models.Tire{
		ID:           ids.New(),
		SerialNumber: strings.ToUpper(strings.TrimSpace(req.SerialNumber)),
		Brand:        req.Brand,
		Size:         req.Size,
		Status:       models.TireStatusInStorage,
		VehicleID:    req.VehicleID,
	}
	if req.Status != nil {
		tire.Status = models.TireStatus(*req.Status)
	}
	if req.VehicleType != nil {
		vt := models.VehicleType(*req.VehicleType)
		_, ok, err := h.lookupVehicle(c, vt, *req.VehicleID)
		if err != nil {
			h.fail(c, err)
			return
		}
		if !ok {
			respondError(c, http.StatusNotFound, "Vehicle not found")
			return
		}
		tire.VehicleType = &vt
		tire.Status = models.TireStatusActive
	}
	if req.MileageAtInstall != nil {
		tire.MileageAtInstall = *req.MileageAtInstall
	}
	if req.WearLevel != nil {
		tire.WearLevel = *req.WearLevel
	}

	if err := h.tires.Create(c.Request.Context(), tire); err != nil {
		h.fail(c, err)
		return
	}

	created, err := h.tires.GetByID(c.Request.Context(), tire.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	respondData(c, http.StatusCreated, toTireResponse(created))
}

type updateTireRequest struct {
	Brand            *string  `json:"brand"`
	Size             *string  `json:"size"`
	Status           *string  `json:"status" binding:"omitempty,oneof=Active InStorage Scrapped"`
	VehicleType      *string  `json:"vehicleType" binding:"omitempty,oneof=Truck Trailer"`
	VehicleID        *string  `json:"vehicleId"`
	MileageAtInstall *float64 `json:"mileageAtInstall" binding:"omitempty,min=0"`
	WearLevel        *float64 `json:"wearLevel" binding:"omitempty,min=0,max=100"`
	Unmount          bool     `json:"unmount"`
}

func (h HandlerSet) UpdateTire(c *gin.Context) {
	var req updateTireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid tire payload")
		return
	}

	ctx := c.Request.Context()
	tire, err := h.tires.GetByID(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	if req.Brand != nil {
		tire.Brand = *req.Brand
	}
	if req.Size != nil {
		tire.Size = *req.Size
	}
	if req.Status != nil {
		tire.Status = models.TireStatus(*req.Status)
	}
	if req.Unmount {
		tire.VehicleType = nil
		tire.VehicleID = nil
		tire.Status = models.TireStatusInStorage
	} else if req.VehicleType != nil && req.VehicleID != nil {
		vt := models.VehicleType(*req.VehicleType)
		_, ok, err := h.lookupVehicle(c, vt, *req.VehicleID)
		if err != nil {
			h.fail(c, err)
			return
		}
		if !ok {
			respondError(c, http.StatusNotFound, "Vehicle not found")
			return
		}
		tire.VehicleType = &vt
		tire.VehicleID = req.VehicleID
	}
	if req.MileageAtInstall != nil {
		tire.MileageAtInstall = *req.MileageAtInstall
	}
	if req.WearLevel != nil {
		tire.WearLevel = *req.WearLevel
	}

	if err := h.tires.Update(ctx, tire); err != nil {
		h.fail(c, err)
		return
	}
	respondData(c, http.StatusOK, toTireResponse(tire))
}

func (h HandlerSet) DeleteTire(c *gin.Context) {
	if err := h.tires.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Tire deleted")
}
