package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mohamedm999/TruckFlow/internal/repository"
	"github.com/mohamedm999/TruckFlow/internal/service"
)

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": true, "message": message})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

var notFoundErrors = []error{
	repository.ErrUserNotFound,
	repository.ErrTruckNotFound,
	repository.ErrTrailerNotFound,
	repository.ErrTireNotFound,
	repository.ErrTripNotFound,
	repository.ErrFuelRecordNotFound,
	repository.ErrMaintenanceNotFound,
	repository.ErrNotificationNotFound,
}

func isNotFound(err error) bool {
	for _, sentinel := range notFoundErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// fail maps domain errors to HTTP responses. Anything unrecognized is
// logged and answered with a generic 500 so internals never leak.
func (h HandlerSet) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrAccountDeactivated):
		respondError(c, http.StatusUnauthorized, "Account is deactivated")
	case errors.Is(err, service.ErrRefreshInvalid):
		respondError(c, http.StatusUnauthorized, "Invalid or expired refresh token")
	case errors.Is(err, repository.ErrDuplicate):
		respondError(c, http.StatusConflict, "Resource already exists")
	case isNotFound(err):
		respondError(c, http.StatusNotFound, err.Error())
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
