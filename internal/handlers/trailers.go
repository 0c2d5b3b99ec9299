package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mohamedm999/TruckFlow/internal/ids"
	"github.com/mohamedm999/TruckFlow/internal/models"
)

type trailerResponse struct {
	ID                 string    `json:"id"`
	RegistrationNumber string    `json:"registrationNumber"`
	Type               string    `json:"type"`
	Capacity           float64   `json:"capacity"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func toTrailerResponse(t models.Trailer) trailerResponse {
	return trailerResponse{
		ID:                 t.ID,
		RegistrationNumber: t.RegistrationNumber,
		Type:               t.Type,
		Capacity:           t.Capacity,
		Status:             string(t.Status),
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}

func (h HandlerSet) ListTrailers(c *gin.Context) {
	trailers, err := h.trailers.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]trailerResponse, 0, len(trailers))
	for _, t := range trailers {
		out = append(out, toTrailerResponse(t))
	}
	respondData(c, http.StatusOK, out)
}

func (h HandlerSet) GetTrailer(c *gin.Context) {
	trailer, err := h.trailers.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respondData(c, http.StatusOK, toTrailerResponse(trailer))
}

type createTrailerRequest struct {
	RegistrationNumber string  `json:"registrationNumber" binding:"required"`
	Type               string  `json:"type" binding:"required"`
	Capacity           float64 `json:"capacity" binding:"required,gt=0"`
	Status             *string `json:"status" binding:"omitempty,oneof=Active Maintenance OutOfService"`
}

func (h HandlerSet) CreateTrailer(c *gin.Context) {
	var req createTrailerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid trailer payload")
		return
	}

	trailer := models.Trailer{
		ID:                 ids.New(),
		RegistrationNumber: strings.ToUpper(strings.TrimSpace(req.RegistrationNumber)),
		Type:               req.Type,
		Capacity:           req.Capacity,
		Status:             models.VehicleStatusActive,
	}
	if req.Status != nil {
		trailer.Status = models.VehicleStatus(*req.Status)
	}

	if err := h.trailers.Create(c.Request.Context(), trailer); err != nil {
		h.fail(c, err)
		return
	}

	created, err := h.trailers.GetByID(c.Request.Context(), trailer.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	respondData(c, http.StatusCreated, toTrailerResponse(created))
}

type updateTrailerRequest struct {
	RegistrationNumber *string  `json:"registrationNumber"`
	Type               *string  `json:"type"`
	Capacity           *float64 `json:"capacity" binding:"omitempty,gt=0"`
	Status             *string  `json:"status" binding:"omitempty,oneof=Active Maintenance OutOfService"`
}

func (h HandlerSet) UpdateTrailer(c *gin.Context) {
	var req updateTrailerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid trailer payload")
		return
	}

	ctx := c.Request.Context()
	trailer, err := h.trailers.GetByID(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	if req.RegistrationNumber != nil {
		trailer.RegistrationNumber = strings.ToUpper(strings.TrimSpace(*req.RegistrationNumber))
	}
	if req.Type != nil {
		trailer.Type = *req.Type
	}
	if req.Capacity != nil {
		trailer.Capacity = *req.Capacity
	}
	if req.Status != nil {
		trailer.Status = models.VehicleStatus(*req.Status)
	}

	if err := h.trailers.Update(ctx, trailer); err != nil {
		h.fail(c, err)
		return
	}
	respondData(c, http.StatusOK, toTrailerResponse(trailer))
}

func (h HandlerSet) DeleteTrailer(c *gin.Context) {
	if err := h.trailers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Trailer deleted")
}
