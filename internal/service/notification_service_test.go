package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mohamedm999/TruckFlow/internal/models"
)

type fakeNotificationStore struct {
	created   []models.Notification
	createErr error
}

func (f *fakeNotificationStore) Create(_ context.Context, notification models.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, notification)
	return nil
}

type fakeAdminDirectory struct {
	adminIDs []string
	listErr  error
}

func (f *fakeAdminDirectory) ListAdminIDs(_ context.Context) ([]string, error) {
	return f.adminIDs, f.listErr
}

func TestNotifyTripAssigned_TargetsChauffeur(t *testing.T) {
	t.Parallel()

	store := &fakeNotificationStore{}
	svc := NewNotificationService(store, &fakeAdminDirectory{}, zerolog.Nop())

	svc.NotifyTripAssigned(context.Background(), models.Trip{
		ID:          "trip-1",
		ChauffeurID: "u1",
		Origin:      "Casablanca",
		Destination: "Tangier",
	})

	require.Len(t, store.created, 1)
	n := store.created[0]
	require.Equal(t, "u1", n.UserID)
	require.Equal(t, models.NotificationTripAssigned, n.Type)
	require.NotNil(t, n.EntityID)
	require.Equal(t, "trip-1", *n.EntityID)
}

func TestNotifyMaintenanceDue_FansOutToAllAdmins(t *testing.T) {
	t.Parallel()

	store := &fakeNotificationStore{}
	admins := &fakeAdminDirectory{adminIDs: []string{"a1", "a2"}}
	svc := NewNotificationService(store, admins, zerolog.Nop())

	svc.NotifyMaintenanceDue(context.Background(), models.MaintenanceRecord{
		ID:          "m1",
		VehicleType: models.VehicleTypeTruck,
		VehicleID:   "truck-1",
	}, "AB-123-CD")

	require.Len(t, store.created, 2)
	recipients := []string{store.created[0].UserID, store.created[1].UserID}
	require.ElementsMatch(t, []string{"a1", "a2"}, recipients)
	for _, n := range store.created {
		require.Equal(t, models.NotificationMaintenanceDue, n.Type)
		require.Contains(t, n.Message, "AB-123-CD")
	}
}

func TestNotify_FailuresAreSwallowed(t *testing.T) {
	t.Parallel()

	store := &fakeNotificationStore{createErr: errors.New("insert failed")}
	svc := NewNotificationService(store, &fakeAdminDirectory{adminIDs: []string{"a1"}}, zerolog.Nop())

	// Neither path may panic or surface the error.
	svc.Notify(context.Background(), "u1", models.NotificationSystem, "hello", nil, nil)
	svc.NotifyTripCompleted(context.Background(), models.Trip{ID: "trip-1"})

	require.Empty(t, store.created)
}

func TestNotifyAdmins_ListFailureSwallowed(t *testing.T) {
	t.Parallel()

	store := &fakeNotificationStore{}
	admins := &fakeAdminDirectory{listErr: errors.New("db down")}
	svc := NewNotificationService(store, admins, zerolog.Nop())

	svc.NotifyTripCompleted(context.Background(), models.Trip{ID: "trip-1"})

	require.Empty(t, store.created)
}
