package domain

import "time"

// Role enumerates caller roles.
type Role string

const (
	RoleCitizen Role = "citizen"
	RoleAdmin   Role = "admin"
	RoleStaff   Role = "staff"
)

// ValidRole reports whether the value is a known role.
func ValidRole(role Role) bool {
	switch role {
	case RoleCitizen, RoleAdmin, RoleStaff:
		return true
	}
	return false
}

// User models an account that can report or process complaints.
type User struct {
	ID              string
	Name            string
	Email           string
	PasswordHash    string
	Role            Role
	EcoPoints       int
	ComplaintsCount int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
