package models

import (
	"gorm.io/gorm"
)

type Venue struct {
	gorm.Model
	OwnerID  uint   `json:"ownerID" gorm:"index"`
	Name     string `json:"name"`
	Category string `json:"category"` // restaurant, spa, salon, event_space
	City     string `json:"city"`
	Address  string `json:"address"`
	IsActive *bool  `json:"isActive"`

	Owner    *User     `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Services []Service `json:"services,omitempty"`
}
