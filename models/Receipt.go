package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ReceiptTypeInvoice = "invoice"

	ReceiptPending = "pending"
	ReceiptPaid    = "paid"
	ReceiptVoid    = "void"
)

// Receipt is the persisted record of a financial document tied to one
// payment. The unique index on (payment_id, type) is the final safety net
// behind the application-level duplicate guard: at most one invoice receipt
// may ever exist per payment.
type Receipt struct {
	gorm.Model
	Type           string          `json:"type" gorm:"type:varchar(20);uniqueIndex:idx_receipt_payment_type"`
	Status         string          `json:"status" gorm:"type:varchar(20);default:'pending'"`
	Amount         decimal.Decimal `json:"amount" gorm:"type:numeric(12,2)"`
	SubtotalAmount decimal.Decimal `json:"subtotalAmount" gorm:"type:numeric(12,2)"`
	TaxAmount      decimal.Decimal `json:"taxAmount" gorm:"type:numeric(12,2)"`
	IssueDate      time.Time       `json:"issueDate"`
	DueDate        *time.Time      `json:"dueDate"`
	PaymentID      uint            `json:"paymentID" gorm:"uniqueIndex:idx_receipt_payment_type"`
	UserID         uint            `json:"userID" gorm:"index"`
	GatewayRefs    GatewayRefs     `json:"gatewayRefs" gorm:"embedded;embeddedPrefix:gw_"`
	HostedURL      string          `json:"hostedURL"`
	PDFURL         string          `json:"pdfURL"`

	Payment *Payment `json:"payment,omitempty" gorm:"foreignKey:PaymentID"`
	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
