package models

import (
	"gorm.io/gorm"
)

type Notification struct {
	gorm.Model
	UserID  uint   `json:"userID" gorm:"index"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"` // booking_confirmed, booking_pending, payment_refunded
	RefID   uint   `json:"refID"`
	RefType string `json:"refType"` // reservation, payment
	IsRead  bool   `json:"isRead" gorm:"default:false"`
}
