package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service is a bookable offering of a venue. Its Price is the source of
// truth for the charge amount; booking requests never carry an amount.
type Service struct {
	gorm.Model
	VenueID         uint            `json:"venueID" gorm:"index"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price" gorm:"type:numeric(12,2)"`
	Currency        string          `json:"currency" gorm:"type:varchar(3);default:'MXN'"`
	DurationMinutes int             `json:"durationMinutes"`
	IsActive        *bool           `json:"isActive"`

	Venue *Venue `json:"venue,omitempty" gorm:"foreignKey:VenueID"`
}
