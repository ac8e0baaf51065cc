package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PaymentPending           = "pending"
	PaymentCompleted         = "completed"
	PaymentFailed            = "failed"
	PaymentRefunded          = "refunded"
	PaymentPartiallyRefunded = "partially_refunded"
)

// GatewayRefs carries the external processor identifiers attached to a row.
// Kept typed instead of a free-form metadata blob.
type GatewayRefs struct {
	ExternalCustomerID string `json:"externalCustomerID,omitempty" gorm:"index"`
	ExternalChargeID   string `json:"externalChargeID,omitempty"`
	ExternalInvoiceID  string `json:"externalInvoiceID,omitempty"`
}

type Payment struct {
	gorm.Model
	Amount          decimal.Decimal `json:"amount" gorm:"type:numeric(12,2)"`
	RefundedAmount  decimal.Decimal `json:"refundedAmount" gorm:"type:numeric(12,2);default:0"` // cumulative across partial refunds
	Currency        string          `json:"currency" gorm:"type:varchar(3);default:'MXN'"`
	Status          string          `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	PaymentMethod   string          `json:"paymentMethod"`
	StripePaymentID string          `json:"stripePaymentID" gorm:"index"` // empty until a gateway attempt was made
	TransactionDate *time.Time      `json:"transactionDate"`              // set only on success
	ReservationID   *uint           `json:"reservationID" gorm:"index"`   // nil for subscription-backed payments
	UserID          uint            `json:"userID" gorm:"index"`
	GatewayRefs     GatewayRefs     `json:"gatewayRefs" gorm:"embedded;embeddedPrefix:gw_"`
	AuditData       datatypes.JSON  `json:"auditData,omitempty"` // operator-entered reasons and notes only

	Reservation *Reservation `json:"reservation,omitempty" gorm:"foreignKey:ReservationID"`
	User        *User        `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Receipts    []Receipt    `json:"receipts,omitempty"`
}

// ReservationBacked reports whether this payment backs a reservation rather
// than a subscription.
func (p *Payment) ReservationBacked() bool {
	return p.ReservationID != nil
}
