package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mohamedm999/TruckFlow/internal/config"
	"github.com/mohamedm999/TruckFlow/internal/middleware"
	"github.com/mohamedm999/TruckFlow/internal/models"
	"github.com/mohamedm999/TruckFlow/internal/service"
)

const (
	refreshCookieName = "refreshToken"
	refreshCookiePath = "/api/auth"
)

type userResponse struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	FirstName     string  `json:"firstName"`
	LastName      string  `json:"lastName"`
	Role          string  `json:"role"`
	IsActive      bool    `json:"isActive"`
	Phone         *string `json:"phone,omitempty"`
	LicenseNumber *string `json:"licenseNumber,omitempty"`
	CreatedAt     string  `json:"createdAt"`
}

func toUserResponse(u models.User) userResponse {
	return userResponse{
		ID:            u.ID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Role:          string(u.Role),
		IsActive:      u.IsActive,
		Phone:         u.Phone,
		LicenseNumber: u.LicenseNumber,
		CreatedAt:     u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h HandlerSet) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		refreshCookieName,
		token,
		int(h.cfg.Security.RefreshTTL.Seconds()),
		refreshCookiePath,
		"",
		h.cfg.Environment == config.EnvProduction,
		true,
	)
}

func (h HandlerSet) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookieName, "", -1, refreshCookiePath, "", h.cfg.Environment == config.EnvProduction, true)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken)
	respondData(c, http.StatusOK, gin.H{
		"user":        toUserResponse(result.User),
		"accessToken": result.AccessToken,
	})
}

func (h HandlerSet) Refresh(c *gin.Context) {
	token, err := c.Cookie(refreshCookieName)
	if err != nil || token == "" {
		h.clearRefreshCookie(c)
		respondError(c, http.StatusUnauthorized, "No refresh token provided")
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrRefreshInvalid) || errors.Is(err, service.ErrAccountDeactivated) {
			h.clearRefreshCookie(c)
		}
		h.fail(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"accessToken": result.AccessToken})
}

func (h HandlerSet) Logout(c *gin.Context) {
	token, _ := c.Cookie(refreshCookieName)
	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		h.fail(c, err)
		return
	}

	h.clearRefreshCookie(c)
	respondMessage(c, http.StatusOK, "Logged out successfully")
}

func (h HandlerSet) LogoutAll(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.authService.LogoutAll(c.Request.Context(), user.ID); err != nil {
		h.fail(c, err)
		return
	}

	h.clearRefreshCookie(c)
	respondMessage(c, http.StatusOK, "Logged out from all devices")
}

func (h HandlerSet) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	respondData(c, http.StatusOK, toUserResponse(user))
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

func (h HandlerSet) UpdatePassword(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Current password and a new password of at least 8 characters are required")
		return
	}

	result, err := h.authService.UpdatePassword(c.Request.Context(), user.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusBadRequest, "Current password is incorrect")
			return
		}
		h.fail(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken)
	respondData(c, http.StatusOK, gin.H{"accessToken": result.AccessToken})
}
