package services

import (
	"context"

	"github.com/shopspring/decimal"
)

// GatewayCustomer is the processor's persistent record for a payer.
type GatewayCustomer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// PaymentIntent is the processor's representation of a single charge
// attempt and its lifecycle.
type PaymentIntent struct {
	ID          string          `json:"id"`
	Status      string          `json:"status"` // succeeded, requires_action, processing, canceled
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	CustomerID  string          `json:"customerID"`
	Description string          `json:"description"`
}

// Succeeded reports whether the processor explicitly confirmed the charge.
// Anything else (including timeouts upstream) must not be treated as
// success.
func (pi *PaymentIntent) Succeeded() bool {
	return pi.Status == "succeeded"
}

// GatewayInvoice is the processor-side invoice document.
type GatewayInvoice struct {
	ID        string `json:"id"`
	Status    string `json:"status"` // draft, open, paid, void
	HostedURL string `json:"hostedURL"`
	PDFURL    string `json:"pdfURL"`
}

// GatewayRefund is the processor's record of an issued refund.
type GatewayRefund struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Amount decimal.Decimal `json:"amount"`
}

type CreateIntentParams struct {
	CustomerID      string
	PaymentMethodID string
	Amount          decimal.Decimal
	Currency        string
	Description     string
}

type CreateInvoiceParams struct {
	CustomerID   string
	Description  string
	DaysUntilDue int
}

// PaymentGateway wraps the external payment processor. Every call is
// synchronous and side-effecting; processor rejections come back as
// *GatewayError, transport failures as plain errors.
type PaymentGateway interface {
	CreateCustomer(ctx context.Context, email, name string) (*GatewayCustomer, error)
	GetCustomer(ctx context.Context, id string) (*GatewayCustomer, error)

	// CreatePaymentIntent creates and confirms a charge in one call.
	CreatePaymentIntent(ctx context.Context, params CreateIntentParams) (*PaymentIntent, error)
	GetPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error)

	CreateInvoice(ctx context.Context, params CreateInvoiceParams) (*GatewayInvoice, error)
	AddInvoiceItem(ctx context.Context, invoiceID, customerID, description string, amount decimal.Decimal, currency string) error
	FinalizeInvoice(ctx context.Context, invoiceID string) (*GatewayInvoice, error)
	SendInvoice(ctx context.Context, invoiceID string) error
	GetInvoice(ctx context.Context, invoiceID string) (*GatewayInvoice, error)

	CreateRefund(ctx context.Context, paymentIntentID string, amount decimal.Decimal) (*GatewayRefund, error)
}
