package models

import (
	"gorm.io/gorm"
)

const (
	RoleUser       = "user"
	RoleVenueOwner = "venue_owner"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

type User struct {
	gorm.Model
	FirstName        string  `json:"firstName"`
	LastName         string  `json:"lastName"`
	Email            string  `json:"email" gorm:"uniqueIndex"`
	Password         string  `json:"-"`
	PhoneNumber      string  `json:"phoneNumber"`
	Role             string  `json:"role" gorm:"type:varchar(20);default:user;index"` // user, venue_owner, admin, super_admin
	StripeCustomerID string  `json:"stripeCustomerID,omitempty" gorm:"index"`         // gateway customer mapping, reused across charges
	Venues           []Venue `json:"venues,omitempty" gorm:"foreignKey:OwnerID;references:ID"`
}

// FullName is used for gateway customer records and invoice descriptions.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsUnrestrictedRole reports whether the role sees every venue's records.
func IsUnrestrictedRole(role string) bool {
	return role == RoleAdmin || role == RoleSuperAdmin
}

// IsOperatorRole reports whether the role may use the admin payment surface.
func IsOperatorRole(role string) bool {
	return role == RoleVenueOwner || IsUnrestrictedRole(role)
}
