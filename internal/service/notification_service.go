package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mohamedm999/TruckFlow/internal/ids"
	"github.com/mohamedm999/TruckFlow/internal/models"
)

// NotificationStore persists notifications.
type NotificationStore interface {
	Create(ctx context.Context, notification models.Notification) error
}

// AdminDirectory lists the users every fleet-wide alert fans out to.
type AdminDirectory interface {
	ListAdminIDs(ctx context.Context) ([]string, error)
}

// NotificationService fans out in-app notifications. Delivery is best effort:
// a failed insert is logged and never fails the request that triggered it.
type NotificationService struct {
	notifications NotificationStore
	users         AdminDirectory
	log           zerolog.Logger
}

func NewNotificationService(
	notifications NotificationStore,
	users AdminDirectory,
	log zerolog.Logger,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		log:           log,
	}
}

func (s *NotificationService) Notify(ctx context.Context, userID string, kind models.NotificationType, message string, entityType, entityID *string) {
	notification := models.Notification{
		ID:         ids.New(),
		UserID:     userID,
		Type:       kind,
		Message:    message,
		EntityType: entityType,
		EntityID:   entityID,
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Str("type", string(kind)).Msg("create notification failed")
	}
}

func (s *NotificationService) NotifyTripAssigned(ctx context.Context, trip models.Trip) {
	entityType := "Trip"
	s.Notify(ctx, trip.ChauffeurID, models.NotificationTripAssigned,
		fmt.Sprintf("You have been assigned to trip from %s to %s", trip.Origin, trip.Destination),
		&entityType, &trip.ID)
}

func (s *NotificationService) NotifyTripCompleted(ctx context.Context, trip models.Trip) {
	s.notifyAdmins(ctx, models.NotificationTripCompleted,
		fmt.Sprintf("Trip from %s to %s has been completed", trip.Origin, trip.Destination),
		"Trip", trip.ID)
}

func (s *NotificationService) NotifyMaintenanceDue(ctx context.Context, record models.MaintenanceRecord, registration string) {
	s.notifyAdmins(ctx, models.NotificationMaintenanceDue,
		fmt.Sprintf("Maintenance scheduled for %s %s", record.VehicleType, registration),
		"Maintenance", record.ID)
}

func (s *NotificationService) notifyAdmins(ctx context.Context, kind models.NotificationType, message, entityType, entityID string) {
	adminIDs, err := s.users.ListAdminIDs(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("list admins for notification failed")
		return
	}
	for _, adminID := range adminIDs {
		s.Notify(ctx, adminID, kind, message, &entityType, &entityID)
	}
}
