package models

import "time"

type NotificationType string

const (
	NotificationTripAssigned   NotificationType = "TripAssigned"
	NotificationTripCompleted  NotificationType = "TripCompleted"
	NotificationMaintenanceDue NotificationType = "MaintenanceDue"
	NotificationFuelAlert      NotificationType = "FuelAlert"
	NotificationSystem         NotificationType = "System"
)

type Notification struct {
	ID         string
	UserID     string
	Type       NotificationType
	Message    string
	IsRead     bool
	EntityType *string
	EntityID   *string
	CreatedAt  time.Time
}
