package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mohamedm999/TruckFlow/internal/ids"
	"github.com/mohamedm999/TruckFlow/internal/middleware"
	"github.com/mohamedm999/TruckFlow/internal/models"
	"github.com/mohamedm999/TruckFlow/internal/report"
	"github.com/mohamedm999/TruckFlow/internal/repository"
)

type tripVehicleRef struct {
	ID                 string `json:"id"`
	RegistrationNumber string `json:"registrationNumber"`
	Label              string `json:"label"`
}

type tripChauffeurRef struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type tripResponse struct {
	ID               string           `json:"id"`
	Code             string           `json:"code"`
	Truck            tripVehicleRef   `json:"truck"`
	Trailer          *tripVehicleRef  `json:"trailer,omitempty"`
	Chauffeur        tripChauffeurRef `json:"chauffeur"`
	Origin           string           `json:"origin"`
	Destination      string           `json:"destination"`
	Status           string           `json:"status"`
	PlannedDeparture *time.Time       `json:"plannedDeparture,omitempty"`
	ActualDeparture  *time.Time       `json:"actualDeparture,omitempty"`
	ActualArrival    *time.Time       `json:"actualArrival,omitempty"`
	MileageStart     *float64         `json:"mileageStart,omitempty"`
	MileageEnd       *float64         `json:"mileageEnd,omitempty"`
	Notes            string           `json:"notes,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

func toTripResponse(t models.TripDetail) tripResponse {
	resp := tripResponse{
		ID:   t.ID,
		Code: t.Code,
		Truck: tripVehicleRef{
			ID:                 t.TruckID,
			RegistrationNumber: t.TruckRegistration,
			Label:              t.TruckBrand + " " + t.TruckModel,
		},
		Chauffeur: tripChauffeurRef{
			ID:        t.ChauffeurID,
			FirstName: t.ChauffeurFirstName,
			LastName:  t.ChauffeurLastName,
		},
		Origin:           t.Origin,
		Destination:      t.Destination,
		Status:           string(t.Status),
		PlannedDeparture: t.PlannedDeparture,
		ActualDeparture:  t.ActualDeparture,
		ActualArrival:    t.ActualArrival,
		MileageStart:     t.MileageStart,
		MileageEnd:       t.MileageEnd,
		Notes:            t.Notes,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
	if t.TrailerID != nil && t.TrailerRegistration != nil {
		label := ""
		if t.TrailerType != nil {
			label = *t.TrailerType
		}
		resp.Trailer = &tripVehicleRef{
			ID:                 *t.TrailerID,
			RegistrationNumber: *t.TrailerRegistration,
			Label:              label,
		}
	}
	return resp
}

func toTripResponses(trips []models.TripDetail) []tripResponse {
	out := make([]tripResponse, 0, len(trips))
	for _, t := range trips {
		out = append(out, toTripResponse(t))
	}
	return out
}

func (h HandlerSet) ListTrips(c *gin.Context) {
	trips, err := h.trips.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	respondData(c, http.StatusOK, toTripResponses(trips))
}

func (h HandlerSet) ListMyTrips(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	trips, err := h.trips.ListByChauffeur(c.Request.Context(), user.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	respondData(c, http.StatusOK, toTripResponses(trips))
}

func (h HandlerSet) GetTrip(c *gin.Context) {
	trip, err := h.trips.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respondData(c, http.StatusOK, toTripResponse(trip))
}

type createTripRequest struct {
	TruckID          string     `json:"truckId" binding:"required"`
	TrailerID        *string    `json:"trailerId"`
	ChauffeurID      string     `json:"chauffeurId" binding:"required"`
	Origin           string     `json:"origin" binding:"required"`
	Destination      string     `json:"destination" binding:"required"`
	PlannedDeparture *time.Time `json:"plannedDeparture"`
	Notes            string     `json:"notes"`
}

func (h HandlerSet) CreateTrip(c *gin.Context) {
	var req createTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid trip payload")
		return
	}

	ctx := c.Request.Context()

	truck, err := h.trucks.GetByID(ctx, req.TruckID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if truck.Status != models.VehicleStatusActive {
		respondError(c, http.StatusConflict, "Truck is not available")
		return
	}

	if req.TrailerID != nil {
		if _, err := h.trailers.GetByID(ctx, *req.TrailerID); err != nil {
			h.fail(c, err)
			return
		}
	}

	chauffeur, err := h.users.GetByID(ctx, req.ChauffeurID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if chauffeur.Role != models.UserRoleChauffeur || !chauffeur.IsActive {
		respondError(c, http.StatusBadRequest, "Assignee must be an active chauffeur")
		return
	}

	if req.PlannedDeparture != nil {
		booked, err := h.trips.TruckBookedOn(ctx, truck.ID, *req.PlannedDeparture)
		if err != nil {
			h.fail(c, err)
			return
		}
		if booked {
			respondError(c, http.StatusConflict, "Truck already has a trip scheduled for that day")
			return
		}
	}

	trip := models.Trip{
		ID:               ids.New(),
		Code:             newTripCode(),
		TruckID:          truck.ID,
		TrailerID:        req.TrailerID,
		ChauffeurID:      chauffeur.ID,
		Origin:           req.Origin,
		Destination:      req.Destination,
		Status:           models.TripStatusPlanned,
		PlannedDeparture: req.PlannedDeparture,
		Notes:            req.Notes,
	}
	if err := h.trips.Create(ctx, trip); err != nil {
		h.fail(c, err)
		return
	}

	h.notifier.NotifyTripAssigned(ctx, trip)

	created, err := h.trips.GetByID(ctx, trip.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	respondData(c, http.StatusCreated, toTripResponse(created))
}

func newTripCode() string {
	return fmt.Sprintf("TRP-%d", time.Now().UnixMilli())
}

type updateTripRequest struct {
	TruckID          *string    `json:"truckId"`
	TrailerID        *string    `json:"trailerId"`
	ChauffeurID      *string    `json:"chauffeurId"`
	Origin           *string    `json:"origin"`
	Destination      *string    `json:"destination"`
	PlannedDeparture *time.Time `json:"plannedDeparture"`
	Notes            *string    `json:"notes"`
}

func (h HandlerSet) UpdateTrip(c *gin.Context) {
	var req updateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid trip payload")
		return
	}

	ctx := c.Request.Context()
	detail, err := h.trips.GetByID(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	trip := detail.Trip

	if trip.Status == models.TripStatusCompleted || trip.Status == models.TripStatusCancelled {
		respondError(c, http.StatusConflict, "Finished trips cannot be edited")
		return
	}

	if req.TruckID != nil {
		if _, err := h.trucks.GetByID(ctx, *req.TruckID); err != nil {
			h.fail(c, err)
			return
		}
		trip.TruckID = *req.TruckID
	}
	if req.TrailerID != nil {
		if *req.TrailerID == "" {
			trip.TrailerID = nil
		} else {
			if _, err := h.trailers.GetByID(ctx, *req.TrailerID); err != nil {
				h.fail(c, err)
				return
			}
			trip.TrailerID = req.TrailerID
		}
	}
	if req.ChauffeurID != nil {
		chauffeur, err := h.users.GetByID(ctx, *req.ChauffeurID)
		if err != nil {
			h.fail(c, err)
			return
		}
		if chauffeur.Role != models.UserRoleChauffeur || !chauffeur.IsActive {
			respondError(c, http.StatusBadRequest, "Assignee must be an active chauffeur")
			return
		}
		trip.ChauffeurID = chauffeur.ID
	}
	if req.Origin != nil {
		trip.Origin = *req.Origin
	}
	if req.Destination != nil {
		trip.Destination = *req.Destination
	}
	if req.PlannedDeparture != nil {
		trip.PlannedDeparture = req.PlannedDeparture
	}
	if req.Notes != nil {
		trip.Notes = *req.Notes
	}

	if err := h.trips.Update(ctx, trip); err != nil {
		h.fail(c, err)
		return
	}

	updated, err := h.trips.GetByID(ctx, trip.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	respondData(c, http.StatusOK, toTripResponse(updated))
}

func (h HandlerSet) DeleteTrip(c *gin.Context) {
	if err := h.trips.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Trip deleted")
}

// validStatusTransitions: a trip only moves forward.
var validStatusTransitions = map[models.TripStatus][]models.TripStatus{
	models.TripStatusPlanned:    {models.TripStatusInProgress, models.TripStatusCancelled},
	models.TripStatusInProgress: {models.TripStatusCompleted, models.TripStatusCancelled},
}

func statusTransitionAllowed(from, to models.TripStatus) bool {
	for _, allowed := range validStatusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type updateTripStatusRequest struct {
	Status     string   `json:"status" binding:"required,oneof=Planned InProgress Completed Cancelled"`
	MileageEnd *float64 `json:"mileageEnd" binding:"omitempty,min=0"`
}

// applyTripStatus stamps the timestamps that come with a status change.
// Completion may carry the closing odometer reading in the same call.
func applyTripStatus(trip *models.Trip, next models.TripStatus, now time.Time, mileageEnd *float64) error {
	trip.Status = next
	switch next {
	case models.TripStatusInProgress:
		trip.ActualDeparture = &now
	case models.TripStatusCompleted:
		trip.ActualArrival = &now
		if mileageEnd != nil {
			if trip.MileageStart != nil && *mileageEnd < *trip.MileageStart {
				return errMileageEndBelowStart
			}
			trip.MileageEnd = mileageEnd
		}
	}
	return nil
}

var errMileageEndBelowStart = errors.New("mileageEnd cannot be below mileageStart")

func (h HandlerSet) UpdateTripStatus(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req updateTripStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid status")
		return
	}

	ctx := c.Request.Context()
	detail, err := h.trips.GetByID(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	trip := detail.Trip

	if user.Role != models.UserRoleAdmin && trip.ChauffeurID != user.ID {
		respondError(c, http.StatusForbidden, "Forbidden")
		return
	}

	next := models.TripStatus(req.Status)
	if !statusTransitionAllowed(trip.Status, next) {
		respondError(c, http.StatusConflict, fmt.Sprintf("Cannot move trip from %s to %s", trip.Status, next))
		return
	}

	if err := applyTripStatus(&trip, next, time.Now(), req.MileageEnd); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if next == models.TripStatusInProgress && trip.MileageStart == nil {
		truck, err := h.trucks.GetByID(ctx, trip.TruckID)
		if err == nil {
			trip.MileageStart = &truck.CurrentOdometer
		}
	}

	if err := h.trips.Update(ctx, trip); err != nil {
		h.fail(c, err)
		return
	}

	if next == models.TripStatusCompleted {
		if trip.MileageEnd != nil {
			if err := h.trucks.BumpOdometer(ctx, trip.TruckID, *trip.MileageEnd); err != nil && !errors.Is(err, repository.ErrTruckNotFound) {
				h.log.Error().Err(err).Str("truck_id", trip.TruckID).Msg("odometer bump failed")
			}
		}
		h.notifier.NotifyTripCompleted(ctx, trip)
	}

	updated, err := h.trips.GetByID(ctx, trip.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	respondData(c, http.StatusOK, toTripResponse(updated))
}

type updateTripMileageRequest struct {
	MileageStart *float64 `json:"mileageStart" binding:"omitempty,min=0"`
	MileageEnd   *float64 `json:"mileageEnd" binding:"omitempty,min=0"`
}

func (h HandlerSet) UpdateTripMileage(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req updateTripMileageRequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.MileageStart == nil && req.MileageEnd == nil) {
		respondError(c, http.StatusBadRequest, "mileageStart or mileageEnd is required")
		return
	}

	ctx := c.Request.Context()
	detail, err := h.trips.GetByID(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	trip := detail.Trip

	if user.Role != models.UserRoleAdmin && trip.ChauffeurID != user.ID {
		respondError(c, http.StatusForbidden, "Forbidden")
		return
	}

	if req.MileageStart != nil {
		trip.MileageStart = req.MileageStart
	}
	if req.MileageEnd != nil {
		if trip.MileageStart != nil && *req.MileageEnd < *trip.MileageStart {
			respondError(c, http.StatusBadRequest, errMileageEndBelowStart.Error())
			return
		}
		trip.MileageEnd = req.MileageEnd
	}

	if err := h.trips.Update(ctx, trip); err != nil {
		h.fail(c, err)
		return
	}

	// Completed mileage feeds the truck odometer; the repository only ever
	// moves it upward.
	if trip.MileageEnd != nil {
		if err := h.trucks.BumpOdometer(ctx, trip.TruckID, *trip.MileageEnd); err != nil && !errors.Is(err, repository.ErrTruckNotFound) {
			h.log.Error().Err(err).Str("truck_id", trip.TruckID).Msg("odometer bump failed")
		}
	}

	updated, err := h.trips.GetByID(ctx, trip.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	respondData(c, http.StatusOK, toTripResponse(updated))
}

func (h HandlerSet) TripPDF(c *gin.Context) {
	ctx := c.Request.Context()

	trip, err := h.trips.GetByID(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	fuelRecords, err := h.fuel.ListByTruck(ctx, trip.TruckID)
	if err != nil {
		h.fail(c, err)
		return
	}

	pdf, err := report.TripPDF(trip, fuelRecords)
	if err != nil {
		h.fail(c, err)
		return
	}

	// Archiving is best effort; the download must not depend on object
	// storage being reachable.
	key := fmt.Sprintf("trips/%s/%s.pdf", time.Now().UTC().Format("2006-01"), trip.Code)
	if err := h.store.ArchiveReport(ctx, key, pdf); err != nil {
		h.log.Error().Err(err).Str("key", key).Msg("archive trip report failed")
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", trip.Code))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
