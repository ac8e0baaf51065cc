package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ReservationPending   = "pending"
	ReservationConfirmed = "confirmed"
	ReservationCancelled = "cancelled"
	ReservationCompleted = "completed"
)

// Reservation is a booking of a venue service. Rows are never deleted,
// only status-transitioned.
type Reservation struct {
	gorm.Model
	ConfirmationCode string          `json:"confirmationCode" gorm:"uniqueIndex;size:20"`
	UserID           uint            `json:"userID" gorm:"index"`
	VenueID          uint            `json:"venueID" gorm:"index"`
	ServiceID        uint            `json:"serviceID" gorm:"index"`
	CheckIn          time.Time       `json:"checkIn"`
	CheckOut         time.Time       `json:"checkOut"`
	Guests           int             `json:"guests"`
	TotalAmount      decimal.Decimal `json:"totalAmount" gorm:"type:numeric(12,2)"` // currency lives on Payment
	Status           string          `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	Notes            string          `json:"notes"`

	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Venue   *Venue   `json:"venue,omitempty" gorm:"foreignKey:VenueID"`
	Service *Service `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
}
