package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dannydanzka/reservapp-web-sub003/models"
	"github.com/google/uuid"
)

// BookingStore is the slice of the ledger the orchestrator needs.
type BookingStore interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetVenue(ctx context.Context, id uint) (*models.Venue, error)
	GetService(ctx context.Context, id uint) (*models.Service, error)
	// SetUserGatewayCustomer persists the gateway customer mapping so later
	// bookings reuse it instead of creating a duplicate customer.
	SetUserGatewayCustomer(ctx context.Context, userID uint, customerID string) error
	// CreateReservationWithPayment inserts both rows in one transaction.
	CreateReservationWithPayment(ctx context.Context, res *models.Reservation, pay *models.Payment) error
}

type BookingInput struct {
	UserID          uint
	VenueID         uint
	ServiceID       uint
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	PaymentMethodID string
	Notes           string
}

type BookingResult struct {
	Reservation *models.Reservation `json:"reservation"`
	Payment     *models.Payment     `json:"payment"`
	Intent      *PaymentIntent      `json:"paymentIntent"`

	// Events are post-commit side effects (notifications, emails). The
	// caller dispatches them best-effort; they never roll back the booking.
	Events []Event `json:"-"`
}

// BookingService turns a booking request into a reservation backed by a
// captured payment. The gateway charge happens before any ledger write, so
// a gateway failure leaves no partial rows behind. A ledger failure after a
// successful charge is the one admitted inconsistency window and is
// reconciled out of band.
type BookingService struct {
	Store   BookingStore
	Gateway PaymentGateway
}

func NewBookingService(store BookingStore, gateway PaymentGateway) *BookingService {
	return &BookingService{Store: store, Gateway: gateway}
}

func (s *BookingService) Book(ctx context.Context, input BookingInput) (*BookingResult, error) {
	if input.PaymentMethodID == "" {
		return nil, &ValidationError{Message: "a payment method is required"}
	}
	if !input.CheckIn.Before(input.CheckOut) {
		return nil, &ValidationError{Message: "checkIn must be before checkOut"}
	}
	if input.Guests < 1 {
		return nil, &ValidationError{Message: "at least one guest is required"}
	}

	venue, err := s.Store.GetVenue(ctx, input.VenueID)
	if err != nil {
		return nil, notFoundOr(err, "venue", input.VenueID)
	}
	service, err := s.Store.GetService(ctx, input.ServiceID)
	if err != nil {
		return nil, notFoundOr(err, "service", input.ServiceID)
	}
	user, err := s.Store.GetUser(ctx, input.UserID)
	if err != nil {
		return nil, notFoundOr(err, "user", input.UserID)
	}

	customerID, err := s.ensureGatewayCustomer(ctx, user)
	if err != nil {
		return nil, err
	}

	// Amount comes from the service price, never from the request.
	amount := service.Price

	intent, err := s.Gateway.CreatePaymentIntent(ctx, CreateIntentParams{
		CustomerID:      customerID,
		PaymentMethodID: input.PaymentMethodID,
		Amount:          amount,
		Currency:        service.Currency,
		Description:     fmt.Sprintf("%s - %s", venue.Name, service.Name),
	})
	if err != nil {
		// Nothing was written yet; decline codes surface as GatewayError.
		return nil, err
	}

	reservation := &models.Reservation{
		ConfirmationCode: generateConfirmationCode(),
		UserID:           user.ID,
		VenueID:          venue.ID,
		ServiceID:        service.ID,
		CheckIn:          input.CheckIn,
		CheckOut:         input.CheckOut,
		Guests:           input.Guests,
		TotalAmount:      amount,
		Status:           models.ReservationPending,
		Notes:            input.Notes,
	}
	payment := &models.Payment{
		Amount:          amount,
		Currency:        service.Currency,
		Status:          models.PaymentPending,
		PaymentMethod:   input.PaymentMethodID,
		StripePaymentID: intent.ID,
		UserID:          user.ID,
		GatewayRefs: models.GatewayRefs{
			ExternalCustomerID: customerID,
			ExternalChargeID:   intent.ID,
		},
	}

	if intent.Succeeded() {
		reservation.Status = models.ReservationConfirmed
		payment.Status = models.PaymentCompleted
		now := time.Now()
		payment.TransactionDate = &now
	}

	if err := s.Store.CreateReservationWithPayment(ctx, reservation, payment); err != nil {
		// The charge already happened; surface the failure loudly so the
		// reconciliation process can match the orphaned charge.
		log.Printf("booking: ledger write failed after charge %s: %v", intent.ID, err)
		return nil, err
	}

	result := &BookingResult{Reservation: reservation, Payment: payment, Intent: intent}
	if intent.Succeeded() {
		result.Events = append(result.Events, Event{
			Type:    "booking_confirmed",
			UserID:  user.ID,
			Title:   "Booking confirmed",
			Message: fmt.Sprintf("Your booking at %s (%s) is confirmed. Code: %s", venue.Name, service.Name, reservation.ConfirmationCode),
			RefID:   reservation.ID,
			RefType: "reservation",
		})
	} else {
		result.Events = append(result.Events, Event{
			Type:    "booking_pending",
			UserID:  user.ID,
			Title:   "Booking pending",
			Message: fmt.Sprintf("Your booking at %s is awaiting payment confirmation.", venue.Name),
			RefID:   reservation.ID,
			RefType: "reservation",
		})
	}
	return result, nil
}

// ensureGatewayCustomer resolves the payer's gateway customer record,
// creating and persisting it on first use.
func (s *BookingService) ensureGatewayCustomer(ctx context.Context, user *models.User) (string, error) {
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

func generateConfirmationCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "RSV-" + raw[:8]
}
