package services

import (
	"context"
	"time"

	"github.com/dannydanzka/reservapp-web-sub003/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// mockGateway counts calls and returns canned responses. Configure the
// fields a test cares about; everything else succeeds with zero values.
type mockGateway struct {
	customer       *GatewayCustomer
	customerErr    error
	getCustomerErr error
	intent         *PaymentIntent
	intentErr      error
	getIntentErr   error
	invoice        *GatewayInvoice
	invoiceErr     error
	sendErr        error
	refund         *GatewayRefund
	refundErr      error

	createCustomerCalls int
	createIntentCalls   int
	createInvoiceCalls  int
	addItemCalls        int
	finalizeCalls       int
	sendCalls           int
	refundCalls         int
}

var _ PaymentGateway = (*mockGateway)(nil)

func (m *mockGateway) CreateCustomer(ctx context.Context, email, name string) (*GatewayCustomer, error) {
	m.createCustomerCalls++
	if m.customerErr != nil {
		return nil, m.customerErr
	}
	if m.customer != nil {
		return m.customer, nil
	}
	return &GatewayCustomer{ID: "cus_mock", Email: email, Name: name}, nil
}

func (m *mockGateway) GetCustomer(ctx context.Context, id string) (*GatewayCustomer, error) {
	if m.getCustomerErr != nil {
		return nil, m.getCustomerErr
	}
	return &GatewayCustomer{ID: id}, nil
}

func (m *mockGateway) CreatePaymentIntent(ctx context.Context, params CreateIntentParams) (*PaymentIntent, error) {
	m.createIntentCalls++
	if m.intentErr != nil {
		return nil, m.intentErr
	}
	if m.intent != nil {
		return m.intent, nil
	}
	return &PaymentIntent{
		ID:         "pi_mock",
		Status:     "succeeded",
		Amount:     params.Amount,
		Currency:   params.Currency,
		CustomerID: params.CustomerID,
	}, nil
}

func (m *mockGateway) GetPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	if m.getIntentErr != nil {
		return nil, m.getIntentErr
	}
	return &PaymentIntent{ID: id, Status: "succeeded"}, nil
}

func (m *mockGateway) CreateInvoice(ctx context.Context, params CreateInvoiceParams) (*GatewayInvoice, error) {
	m.createInvoiceCalls++
	if m.invoiceErr != nil {
		return nil, m.invoiceErr
	}
	if m.invoice != nil {
		return m.invoice, nil
	}
	return &GatewayInvoice{ID: "in_mock", Status: "draft"}, nil
}

func (m *mockGateway) AddInvoiceItem(ctx context.Context, invoiceID, customerID, description string, amount decimal.Decimal, currency string) error {
	m.addItemCalls++
	return nil
}

func (m *mockGateway) FinalizeInvoice(ctx context.Context, invoiceID string) (*GatewayInvoice, error) {
	m.finalizeCalls++
	return &GatewayInvoice{ID: invoiceID, Status: "open", HostedURL: "https://pay.example/" + invoiceID, PDFURL: "https://pay.example/" + invoiceID + ".pdf"}, nil
}

func (m *mockGateway) SendInvoice(ctx context.Context, invoiceID string) error {
	m.sendCalls++
	return m.sendErr
}

func (m *mockGateway) GetInvoice(ctx context.Context, invoiceID string) (*GatewayInvoice, error) {
	return &GatewayInvoice{ID: invoiceID, Status: "open"}, nil
}

func (m *mockGateway) CreateRefund(ctx context.Context, paymentIntentID string, amount decimal.Decimal) (*GatewayRefund, error) {
	m.refundCalls++
	if m.refundErr != nil {
		return nil, m.refundErr
	}
	if m.refund != nil {
		return m.refund, nil
	}
	return &GatewayRefund{ID: "re_mock", Status: "succeeded", Amount: amount}, nil
}

var errNotFound = gorm.ErrRecordNotFound

// mockLedger implements the store interfaces over in-memory fixtures.
type mockLedger struct {
	user      *models.User
	venue     *models.Venue
	service   *models.Service
	payment   *models.Payment
	lookupErr error // returned by every fixture lookup when set

	ownedVenues   []uint
	ownedErr      error
	payments      []models.Payment
	paymentsTotal int64
	listCalls     int

	statusTotals   []StatusTotal
	revenues       map[string]decimal.Decimal // keyed by from-time RFC3339
	revenueWindows [][2]time.Time

	savedCustomerID string
	createdRes      *models.Reservation
	createdPay      *models.Payment
	createErr       error
	createdReceipt  *models.Receipt
	savedPayment    *models.Payment
}

var (
	_ BookingStore      = (*mockLedger)(nil)
	_ PaymentQueryStore = (*mockLedger)(nil)
	_ StatsStore        = (*mockLedger)(nil)
	_ InvoiceStore      = (*mockLedger)(nil)
	_ RefundStore       = (*mockLedger)(nil)
	_ NotificationStore = (*mockLedger)(nil)
)

func (m *mockLedger) GetUser(ctx context.Context, id uint) (*models.User, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	if m.user == nil || m.user.ID != id {
		return nil, errNotFound
	}
	return m.user, nil
}

func (m *mockLedger) GetVenue(ctx context.Context, id uint) (*models.Venue, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	if m.venue == nil || m.venue.ID != id {
		return nil, errNotFound
	}
	return m.venue, nil
}

func (m *mockLedger) GetService(ctx context.Context, id uint) (*models.Service, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	if m.service == nil || m.service.ID != id {
		return nil, errNotFound
	}
	return m.service, nil
}

func (m *mockLedger) SetUserGatewayCustomer(ctx context.Context, userID uint, customerID string) error {
	m.savedCustomerID = customerID
	return nil
}

func (m *mockLedger) CreateReservationWithPayment(ctx context.Context, res *models.Reservation, pay *models.Payment) error {
	if m.createErr != nil {
		return m.createErr
	}
	res.ID = 1
	pay.ID = 1
	pay.ReservationID = &res.ID
	m.createdRes = res
	m.createdPay = pay
	return nil
}

func (m *mockLedger) VenueIDsOwnedBy(ctx context.Context, userID uint) ([]uint, error) {
	return m.ownedVenues, m.ownedErr
}

func (m *mockLedger) ListPayments(ctx context.Context, filter PaymentFilter) ([]models.Payment, int64, error) {
	m.listCalls++
	return m.payments, m.paymentsTotal, nil
}

func (m *mockLedger) PaymentStatusTotals(ctx context.Context, filter StatsFilter) ([]StatusTotal, error) {
	return m.statusTotals, nil
}

func (m *mockLedger) CompletedRevenue(ctx context.Context, venueIDs []uint, from, to time.Time) (decimal.Decimal, error) {
	m.revenueWindows = append(m.revenueWindows, [2]time.Time{from, to})
	if m.revenues == nil {
		return decimal.Zero, nil
	}
	return m.revenues[from.UTC().Format(time.RFC3339)], nil
}

func (m *mockLedger) GetPaymentDetail(ctx context.Context, id uint) (*models.Payment, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	if m.payment == nil || m.payment.ID != id {
		return nil, errNotFound
	}
	return m.payment, nil
}

func (m *mockLedger) CreateReceipt(ctx context.Context, receipt *models.Receipt) error {
	receipt.ID = 77
	m.createdReceipt = receipt
	return nil
}

func (m *mockLedger) SavePayment(ctx context.Context, payment *models.Payment) error {
	m.savedPayment = payment
	return nil
}

func (m *mockLedger) CreateNotification(ctx context.Context, n *models.Notification) error {
	return nil
}
