package models

import "time"

type UserRole string

const (
	UserRoleAdmin     UserRole = "admin"
	UserRoleChauffeur UserRole = "chauffeur"
)

type User struct {
	ID            string
	Email         string
	PasswordHash  []byte
	FirstName     string
	LastName      string
	Role          UserRole
	IsActive      bool
	Phone         *string
	LicenseNumber *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
