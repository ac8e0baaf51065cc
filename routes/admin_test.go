package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/dannydanzka/reservapp-web-sub003/models"
	"github.com/dannydanzka/reservapp-web-sub003/services"
	"github.com/dannydanzka/reservapp-web-sub003/utils"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// stubStore backs the query and refund workflows with canned data.
type stubStore struct {
	ownedVenues []uint
	payments    []models.Payment
	payment     *models.Payment
	listCalls   int
}

var (
	_ services.PaymentQueryStore = (*stubStore)(nil)
	_ services.RefundStore       = (*stubStore)(nil)
)

func (s *stubStore) VenueIDsOwnedBy(ctx context.Context, userID uint) ([]uint, error) {
	return s.ownedVenues, nil
}

func (s *stubStore) ListPayments(ctx context.Context, filter services.PaymentFilter) ([]models.Payment, int64, error) {
	s.listCalls++
	return s.payments, int64(len(s.payments)), nil
}

func (s *stubStore) GetPaymentDetail(ctx context.Context, id uint) (*models.Payment, error) {
	if s.payment == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.payment, nil
}

func (s *stubStore) SavePayment(ctx context.Context, payment *models.Payment) error {
	return nil
}

// stubGateway answers nothing useful; handlers under test never need a live
// processor response on the paths exercised here.
type stubGateway struct {
	refundCalls int
}

var _ services.PaymentGateway = (*stubGateway)(nil)

func (g *stubGateway) CreateCustomer(ctx context.Context, email, name string) (*services.GatewayCustomer, error) {
	return &services.GatewayCustomer{ID: "cus_test", Email: email, Name: name}, nil
}

func (g *stubGateway) GetCustomer(ctx context.Context, id string) (*services.GatewayCustomer, error) {
	return &services.GatewayCustomer{ID: id}, nil
}

func (g *stubGateway) CreatePaymentIntent(ctx context.Context, params services.CreateIntentParams) (*services.PaymentIntent, error) {
	return &services.PaymentIntent{ID: "pi_test", Status: "succeeded", Amount: params.Amount, Currency: params.Currency}, nil
}

func (g *stubGateway) GetPaymentIntent(ctx context.Context, id string) (*services.PaymentIntent, error) {
	return &services.PaymentIntent{ID: id, Status: "succeeded"}, nil
}

func (g *stubGateway) CreateInvoice(ctx context.Context, params services.CreateInvoiceParams) (*services.GatewayInvoice, error) {
	return &services.GatewayInvoice{ID: "in_test", Status: "draft"}, nil
}

func (g *stubGateway) AddInvoiceItem(ctx context.Context, invoiceID, customerID, description string, amount decimal.Decimal, currency string) error {
	return nil
}

func (g *stubGateway) FinalizeInvoice(ctx context.Context, invoiceID string) (*services.GatewayInvoice, error) {
	return &services.GatewayInvoice{ID: invoiceID, Status: "open"}, nil
}

func (g *stubGateway) SendInvoice(ctx context.Context, invoiceID string) error { return nil }

func (g *stubGateway) GetInvoice(ctx context.Context, invoiceID string) (*services.GatewayInvoice, error) {
	return &services.GatewayInvoice{ID: invoiceID, Status: "open"}, nil
}

func (g *stubGateway) CreateRefund(ctx context.Context, paymentIntentID string, amount decimal.Decimal) (*services.GatewayRefund, error) {
	g.refundCalls++
	return &services.GatewayRefund{ID: "re_test", Status: "succeeded", Amount: amount}, nil
}

// buildTestApp wires the admin payment routes over stub-backed services,
// with the real JWT verifier and operator middleware.
func buildTestApp(store *stubStore, gateway *stubGateway) *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")

	Initialize(Deps{
		Query:  services.NewPaymentQueryService(store, gateway),
		Refund: services.NewRefundService(store, gateway),
	})

	app := iris.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.OperatorOnlyMiddleware)
	{
		admin.Get("/payments", AdminListPayments)
		admin.Post("/payments/{id:uint}/refund", utils.AdminOnlyMiddleware, AdminRefundPayment)
	}
	app.Build()
	return app
}

// signTestToken returns a signed JWT with the given id and role
func signTestToken(id uint, role string) string {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, _ := signer.Sign(utils.AccessToken{ID: id, Role: role})
	return string(token)
}

func TestAdminPaymentsRBAC(t *testing.T) {
	store := &stubStore{payments: []models.Payment{}}
	app := buildTestApp(store, &stubGateway{})

	// No token
	req := httptest.NewRequest(http.MethodGet, "/api/admin/payments", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code == http.StatusOK {
		t.Fatalf("expected non-200 without token, got %d", resp.Code)
	}

	// User role -> 403
	req2 := httptest.NewRequest(http.MethodGet, "/api/admin/payments", nil)
	req2.Header.Set("Authorization", "Bearer "+signTestToken(7, models.RoleUser))
	resp2 := httptest.NewRecorder()
	app.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user role, got %d", resp2.Code)
	}

	// Admin role -> 200 (empty list OK)
	req3 := httptest.NewRequest(http.MethodGet, "/api/admin/payments", nil)
	req3.Header.Set("Authorization", "Bearer "+signTestToken(1, models.RoleAdmin))
	resp3 := httptest.NewRecorder()
	app.ServeHTTP(resp3, req3)
	if resp3.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin role, got %d", resp3.Code)
	}
}

func TestAdminPaymentsOwnerWithoutVenues(t *testing.T) {
	store := &stubStore{ownedVenues: nil}
	app := buildTestApp(store, &stubGateway{})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/payments", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(9, models.RoleVenueOwner))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for venue owner, got %d: %s", resp.Code, resp.Body.String())
	}
	if store.listCalls != 0 {
		t.Errorf("venue owner with no venues must not hit the payment list, got %d calls", store.listCalls)
	}
	if !strings.Contains(resp.Body.String(), `"total":0`) {
		t.Errorf("expected empty page, got %s", resp.Body.String())
	}
}

func TestRefundRouteRequiresAdminRole(t *testing.T) {
	store := &stubStore{ownedVenues: []uint{3}}
	app := buildTestApp(store, &stubGateway{})

	req := httptest.NewRequest(http.MethodPost, "/api/admin/payments/5/refund",
		strings.NewReader(`{"amount":"10","reason":"test"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signTestToken(9, models.RoleVenueOwner))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for venue owner on refund route, got %d", resp.Code)
	}
}

func TestAdminRefundValidationRejectedAtBoundary(t *testing.T) {
	payment := &models.Payment{
		Amount:   decimal.NewFromInt(1000),
		Currency: "MXN",
		Status:   models.PaymentCompleted,
	}
	payment.ID = 5
	payment.StripePaymentID = "pi_1"

	store := &stubStore{payment: payment}
	gateway := &stubGateway{}
	app := buildTestApp(store, gateway)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/payments/5/refund",
		strings.NewReader(`{"amount":"0","reason":"dup"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signTestToken(1, models.RoleAdmin))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero refund amount, got %d: %s", resp.Code, resp.Body.String())
	}
	if gateway.refundCalls != 0 {
		t.Error("gateway must not be called when validation fails")
	}
}
