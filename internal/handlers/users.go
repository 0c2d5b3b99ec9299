package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mohamedm999/TruckFlow/internal/ids"
	"github.com/mohamedm999/TruckFlow/internal/models"
	"github.com/mohamedm999/TruckFlow/internal/repository"
	"github.com/mohamedm999/TruckFlow/internal/security"
)

func (h HandlerSet) ListUsers(c *gin.Context) {
	filter := repository.UserFilter{Search: c.Query("search")}
	if role := c.Query("role"); role == string(models.UserRoleAdmin) || role == string(models.UserRoleChauffeur) {
		r := models.UserRole(role)
		filter.Role = &r
	}
	if active := c.Query("isActive"); active == "true" || active == "false" {
		v := active == "true"
		filter.IsActive = &v
	}

	users, err := h.users.List(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	respondData(c, http.StatusOK, out)
}

func (h HandlerSet) GetUser(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respondData(c, http.StatusOK, toUserResponse(user))
}

type createUserRequest struct {
	Email         string  `json:"email" binding:"required,email"`
	Password      string  `json:"password" binding:"required,min=8"`
	FirstName     string  `json:"firstName" binding:"required"`
	LastName      string  `json:"lastName" binding:"required"`
	Role          string  `json:"role" binding:"required,oneof=admin chauffeur"`
	Phone         *string `json:"phone"`
	LicenseNumber *string `json:"licenseNumber"`
}

func (h HandlerSet) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid user payload")
		return
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	user := models.User{
		ID:            ids.New(),
		Email:         strings.TrimSpace(strings.ToLower(req.Email)),
		PasswordHash:  hash,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Role:          models.UserRole(req.Role),
		IsActive:      true,
		Phone:         req.Phone,
		LicenseNumber: req.LicenseNumber,
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		h.fail(c, err)
		return
	}

	created, err := h.users.GetByID(c.Request.Context(), user.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	respondData(c, http.StatusCreated, toUserResponse(created))
}

type updateUserRequest struct {
	Email         *string `json:"email" binding:"omitempty,email"`
	FirstName     *string `json:"firstName"`
	LastName      *string `json:"lastName"`
	Role          *string `json:"role" binding:"omitempty,oneof=admin chauffeur"`
	IsActive      *bool   `json:"isActive"`
	Phone         *string `json:"phone"`
	LicenseNumber *string `json:"licenseNumber"`
}

func (h HandlerSet) UpdateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid user payload")
		return
	}

	ctx := c.Request.Context()
	user, err := h.users.GetByID(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	if req.Email != nil {
		user.Email = strings.TrimSpace(strings.ToLower(*req.Email))
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Role != nil {
		user.Role = models.UserRole(*req.Role)
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.LicenseNumber != nil {
		user.LicenseNumber = req.LicenseNumber
	}

	if err := h.users.Update(ctx, user); err != nil {
		h.fail(c, err)
		return
	}

	// Deactivation kills every open session so the account cannot keep
	// refreshing with tokens issued before the change.
	if req.IsActive != nil && !*req.IsActive {
		if err := h.authService.LogoutAll(ctx, user.ID); err != nil {
			h.log.Error().Err(err).Str("user_id", user.ID).Msg("revoke sessions on deactivation failed")
		}
	}

	respondData(c, http.StatusOK, toUserResponse(user))
}

func (h HandlerSet) DeleteUser(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if err := h.users.Delete(ctx, id); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.authService.LogoutAll(ctx, id); err != nil {
		h.log.Error().Err(err).Str("user_id", id).Msg("revoke sessions on delete failed")
	}

	respondMessage(c, http.StatusOK, "User deleted")
}
