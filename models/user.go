package models

import (
	"time"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleDonor     UserRole = "donor"
	RoleVolunteer UserRole = "volunteer"
	RoleReceiver  UserRole = "receiver"
	RoleAdmin     UserRole = "admin"
)

// SelfServiceRoles are the roles a visitor may pick at registration.
var SelfServiceRoles = []UserRole{RoleDonor, RoleVolunteer, RoleReceiver}

// IsSelfService reports whether r can be chosen at registration.
func (r UserRole) IsSelfService() bool {
	for _, allowed := range SelfServiceRoles {
		if r == allowed {
			return true
		}
	}
	return false
}

// DashboardPath is where a freshly logged-in user of this role lands.
func (r UserRole) DashboardPath() string {
	switch r {
	case RoleDonor:
		return "/donor"
	case RoleVolunteer:
		return "/volunteer"
	case RoleReceiver:
		return "/receiver"
	case RoleAdmin:
		return "/admin"
	default:
		return "/login"
	}
}

// User is a registered account. Phone is the login key.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Phone        string    `json:"phone" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         UserRole  `json:"role" gorm:"not null;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
