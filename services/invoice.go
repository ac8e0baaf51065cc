package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dannydanzka/reservapp-web-sub003/models"
)

type InvoiceStore interface {
	VenueOwnershipStore
	// GetPaymentDetail loads a payment with its receipts, payer and, when
	// reservation-backed, the reservation with venue and service.
	GetPaymentDetail(ctx context.Context, id uint) (*models.Payment, error)
	SetUserGatewayCustomer(ctx context.Context, userID uint, customerID string) error
	CreateReceipt(ctx context.Context, receipt *models.Receipt) error
}

type InvoiceInput struct {
	PaymentID     uint
	RequesterRole string
	RequesterID   uint
	Description   string
	DueDate       *time.Time
	AutoFinalize  bool
}

type InvoiceView struct {
	Receipt       *models.Receipt `json:"receipt"`
	GatewayStatus *GatewayInvoice `json:"gatewayInvoice,omitempty"`
}

// InvoiceService turns a completed payment into an external invoice plus a
// persisted receipt. The duplicate guard runs before any gateway call: the
// gateway side effects must not be repeated even if the DB constraint would
// catch the second insert.
type InvoiceService struct {
	Store   InvoiceStore
	Gateway PaymentGateway
}

func NewInvoiceService(store InvoiceStore, gateway PaymentGateway) *InvoiceService {
	return &InvoiceService{Store: store, Gateway: gateway}
}

func (s *InvoiceService) Create(ctx context.Context, input InvoiceInput) (*models.Receipt, error) {
	payment, err := s.loadScopedPayment(ctx, input.PaymentID, input.RequesterRole, input.RequesterID)
	if err != nil {
		return nil, err
	}

	for i := range payment.Receipts {
		if payment.Receipts[i].Type == models.ReceiptTypeInvoice {
			return nil, &ConflictError{
				Message:    fmt.Sprintf("payment %d already has invoice receipt %d", payment.ID, payment.Receipts[i].ID),
				ExistingID: payment.Receipts[i].ID,
			}
		}
	}

	if payment.User == nil {
		return nil, &NotFoundError{Entity: "user", ID: payment.UserID}
	}
	customerID, err := s.ensureGatewayCustomer(ctx, payment.User)
	if err != nil {
		return nil, err
	}

	description := input.Description
	if description == "" {
		description = deriveInvoiceDescription(payment)
	}

	daysUntilDue := 0
	if input.DueDate != nil {
		daysUntilDue = int(time.Until(*input.DueDate).Hours() / 24)
		if daysUntilDue < 1 {
			daysUntilDue = 1
		}
	}

	invoice, err := s.Gateway.CreateInvoice(ctx, CreateInvoiceParams{
		CustomerID:   customerID,
		Description:  description,
		DaysUntilDue: daysUntilDue,
	})
	if err != nil {
		return nil, err
	}
	if err := s.Gateway.AddInvoiceItem(ctx, invoice.ID, customerID, description, payment.Amount, payment.Currency); err != nil {
		return nil, err
	}
	finalized, err := s.Gateway.FinalizeInvoice(ctx, invoice.ID)
	if err != nil {
		return nil, err
	}
	if input.AutoFinalize {
		// The invoice exists and is finalized; a failed send is retryable
		// from the gateway dashboard and must not fail the workflow.
		if err := s.Gateway.SendInvoice(ctx, invoice.ID); err != nil {
			log.Printf("invoice: send failed for invoice %s (payment %d): %v", invoice.ID, payment.ID, err)
		}
	}

	split := SplitTax(payment.Amount, VATRate)
	receipt := &models.Receipt{
		Type:           models.ReceiptTypeInvoice,
		Status:         models.ReceiptPending,
		Amount:         payment.Amount,
		SubtotalAmount: split.Subtotal,
		TaxAmount:      split.Tax,
		IssueDate:      time.Now(),
		DueDate:        input.DueDate,
		PaymentID:      payment.ID,
		UserID:         payment.UserID,
		GatewayRefs: models.GatewayRefs{
			ExternalCustomerID: customerID,
			ExternalInvoiceID:  finalized.ID,
		},
		HostedURL: finalized.HostedURL,
		PDFURL:    finalized.PDFURL,
	}
	if err := s.Store.CreateReceipt(ctx, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

// Get returns the persisted receipt merged with a best-effort live refresh
// of the gateway invoice status.
func (s *InvoiceService) Get(ctx context.Context, paymentID uint, requesterRole string, requesterID uint) (*InvoiceView, error) {
	payment, err := s.loadScopedPayment(ctx, paymentID, requesterRole, requesterID)
	if err != nil {
		return nil, err
	}

	var receipt *models.Receipt
	for i := range payment.Receipts {
		if payment.Receipts[i].Type == models.ReceiptTypeInvoice {
			receipt = &payment.Receipts[i]
			break
		}
	}
	if receipt == nil {
		return nil, &NotFoundError{Entity: "invoice receipt"}
	}

	view := &InvoiceView{Receipt: receipt}
	if receipt.GatewayRefs.ExternalInvoiceID != "" {
		live, err := s.Gateway.GetInvoice(ctx, receipt.GatewayRefs.ExternalInvoiceID)
		if err != nil {
			log.Printf("invoice: live refresh failed for receipt %d: %v", receipt.ID, err)
		} else {
			view.GatewayStatus = live
		}
	}
	return view, nil
}

func (s *InvoiceService) loadScopedPayment(ctx context.Context, paymentID uint, role string, requesterID uint) (*models.Payment, error) {
	payment, err := s.Store.GetPaymentDetail(ctx, paymentID)
	if err != nil {
		return nil, notFoundOr(err, "payment", paymentID)
	}
	if err := checkPaymentScope(ctx, s.Store, payment, role, requesterID); err != nil {
		return nil, err
	}
	return payment, nil
}

// checkPaymentScope enforces the venue-ownership rule on a single payment.
func checkPaymentScope(ctx context.Context, store VenueOwnershipStore, payment *models.Payment, role string, requesterID uint) error {
	if models.IsUnrestrictedRole(role) {
		return nil
	}
	if role != models.RoleVenueOwner {
		return &ForbiddenError{Message: "operator access required"}
	}
	if payment.Reservation == nil {
		return &ForbiddenError{Message: "payment is not tied to a venue you own"}
	}
	owned, err := store.VenueIDsOwnedBy(ctx, requesterID)
	if err != nil {
		return err
	}
	for _, id := range owned {
		if id == payment.Reservation.VenueID {
			return nil
		}
	}
	return &ForbiddenError{Message: "payment is not tied to a venue you own"}
}

// deriveInvoiceDescription picks a human description: reservation-based,
// then subscription-based, then generic.
func deriveInvoiceDescription(payment *models.Payment) string {
	if payment.Reservation != nil {
		res := payment.Reservation
		if res.Venue != nil && res.Service != nil {
			return fmt.Sprintf("Reservation %s: %s at %s", res.ConfirmationCode, res.Service.Name, res.Venue.Name)
		}
		return fmt.Sprintf("Reservation %s", res.ConfirmationCode)
	}
	if !payment.ReservationBacked() {
		return fmt.Sprintf("Subscription payment %d", payment.ID)
	}
	return fmt.Sprintf("Payment %d", payment.ID)
}

func (s *InvoiceService) ensureGatewayCustomer(ctx context.Context, user *models.User) (string, error) {
	if user.StripeCustomerID != "" {
		return user.StripeCustomerID, nil
	}
	customer, err := s.Gateway.CreateCustomer(ctx, user.Email, user.FullName())
	if err != nil {
		return "", err
	}
	if err := s.Store.SetUserGatewayCustomer(ctx, user.ID, customer.ID); err != nil {
		return "", err
	}
	user.StripeCustomerID = customer.ID
	return customer.ID, nil
}
