package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mohamedm999/TruckFlow/internal/middleware"
	"github.com/mohamedm999/TruckFlow/internal/models"
)

const notificationPageSize = 50

type notificationResponse struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Message    string    `json:"message"`
	IsRead     bool      `json:"isRead"`
	EntityType *string   `json:"entityType,omitempty"`
	EntityID   *string   `json:"entityId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toNotificationResponse(n models.Notification) notificationResponse {
	return notificationResponse{
		ID:         n.ID,
		Type:       string(n.Type),
		Message:    n.Message,
		IsRead:     n.IsRead,
		EntityType: n.EntityType,
		EntityID:   n.EntityID,
		CreatedAt:  n.CreatedAt,
	}
}

func (h HandlerSet) ListNotifications(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	notifications, err := h.notifications.ListByUser(c.Request.Context(), user.ID, notificationPageSize)
	if err != nil {
		h.fail(c, err)
		return
	}

	out := make([]notificationResponse, 0, len(notifications))
	unread := 0
	for _, n := range notifications {
		if !n.IsRead {
			unread++
		}
		out = append(out, toNotificationResponse(n))
	}
	respondData(c, http.StatusOK, gin.H{"notifications": out, "unreadCount": unread})
}

func (h HandlerSet) MarkNotificationRead(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx := c.Request.Context()
	notification, err := h.notifications.GetByID(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if notification.UserID != user.ID {
		respondError(c, http.StatusForbidden, "Forbidden")
		return
	}

	if err := h.notifications.MarkRead(ctx, notification.ID); err != nil {
		h.fail(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Notification marked as read")
}

func (h HandlerSet) MarkAllNotificationsRead(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.notifications.MarkAllRead(c.Request.Context(), user.ID); err != nil {
		h.fail(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "All notifications marked as read")
}
