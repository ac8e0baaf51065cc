package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

func newTestGateway(handler http.HandlerFunc) (*HTTPGateway, *httptest.Server) {
	srv := httptest.NewServer(handler)
	gw := NewHTTPGateway(srv.URL, "sk_test_secret")
	return gw, srv
}

func TestHTTPGatewayCreatePaymentIntent(t *testing.T) {
	var gotAuth, gotIdem, gotContentType string
	var gotForm map[string][]string

	gw, srv := newTestGateway(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotIdem = r.Header.Get("Idempotency-Key")
		gotContentType = r.Header.Get("Content-Type")
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		gotForm = r.PostForm
		w.Write([]byte(`{"id":"pi_123","status":"succeeded","amount":100000,"currency":"mxn","customer":"cus_1"}`))
	})
	defer srv.Close()

	intent, err := gw.CreatePaymentIntent(context.Background(), CreateIntentParams{
		Amount:          dec("1000"),
		Currency:        "MXN",
		CustomerID:      "cus_1",
		PaymentMethodID: "pm_card",
		Description:     "Casa Azul - Dinner for two",
	})
	if err != nil {
		t.Fatalf("CreatePaymentIntent: %v", err)
	}

	if gotAuth != "Bearer sk_test_secret" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotIdem == "" {
		t.Error("POST request missing Idempotency-Key header")
	}
	if gotContentType != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if got := gotForm["amount"]; len(got) != 1 || got[0] != "100000" {
		t.Errorf("amount field = %v, want [100000] (minor units)", got)
	}
	if got := gotForm["currency"]; len(got) != 1 || got[0] != "mxn" {
		t.Errorf("currency field = %v, want lowercase mxn", got)
	}
	if got := gotForm["confirm"]; len(got) != 1 || got[0] != "true" {
		t.Errorf("confirm field = %v", got)
	}

	if !intent.Succeeded() {
		t.Error("intent not reported as succeeded")
	}
	if !intent.Amount.Equal(dec("1000")) {
		t.Errorf("amount = %s, want 1000 (converted back from minor units)", intent.Amount)
	}
	if intent.Currency != "MXN" {
		t.Errorf("currency = %s, want MXN", intent.Currency)
	}
}

func TestHTTPGatewayGetOmitsIdempotencyKey(t *testing.T) {
	var gotIdem string
	gw, srv := newTestGateway(func(w http.ResponseWriter, r *http.Request) {
		gotIdem = r.Header.Get("Idempotency-Key")
		w.Write([]byte(`{"id":"cus_1","email":"payer@example.com","name":"Ana Torres"}`))
	})
	defer srv.Close()

	customer, err := gw.GetCustomer(context.Background(), "cus_1")
	if err != nil {
		t.Fatalf("GetCustomer: %v", err)
	}
	if gotIdem != "" {
		t.Errorf("GET request carried Idempotency-Key %q", gotIdem)
	}
	if customer.Email != "payer@example.com" {
		t.Errorf("email = %s", customer.Email)
	}
}

func TestHTTPGatewayDeclineMapsToGatewayError(t *testing.T) {
	gw, srv := newTestGateway(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"code":"card_declined","message":"Your card was declined."}}`))
	})
	defer srv.Close()

	_, err := gw.CreatePaymentIntent(context.Background(), CreateIntentParams{
		Amount:   decimal.NewFromInt(100),
		Currency: "MXN",
	})
	gwErr, ok := AsGatewayError(err)
	if !ok {
		t.Fatalf("got %v, want GatewayError", err)
	}
	if gwErr.Code != "card_declined" {
		t.Errorf("code = %s", gwErr.Code)
	}
	if gwErr.UserMessage == "" {
		t.Error("decline code not mapped to a user-facing message")
	}
}

func TestHTTPGatewayServerErrorIsNotGatewayError(t *testing.T) {
	gw, srv := newTestGateway(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer srv.Close()

	_, err := gw.GetPaymentIntent(context.Background(), "pi_1")
	if err == nil {
		t.Fatal("expected error on 502")
	}
	if _, ok := AsGatewayError(err); ok {
		t.Error("5xx must not be treated as a declined-style gateway error")
	}
}

func TestHTTPGatewayRefundWire(t *testing.T) {
	var gotForm map[string][]string
	gw, srv := newTestGateway(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		gotForm = r.PostForm
		w.Write([]byte(`{"id":"re_1","status":"succeeded","amount":25050}`))
	})
	defer srv.Close()

	refund, err := gw.CreateRefund(context.Background(), "pi_1", dec("250.50"))
	if err != nil {
		t.Fatalf("CreateRefund: %v", err)
	}
	if got := gotForm["amount"]; len(got) != 1 || got[0] != "25050" {
		t.Errorf("amount field = %v, want [25050]", got)
	}
	if got := gotForm["payment_intent"]; len(got) != 1 || got[0] != "pi_1" {
		t.Errorf("payment_intent field = %v", got)
	}
	if !refund.Amount.Equal(dec("250.50")) {
		t.Errorf("refund amount = %s, want 250.50", refund.Amount)
	}
}

func TestMinorUnitsRoundTrip(t *testing.T) {
	tests := []struct {
		in   string
		wire string
	}{
		{"1000", "100000"},
		{"250.50", "25050"},
		{"0.01", "1"},
		{"333.33", "33333"},
	}
	for _, tt := range tests {
		if got := toMinorUnits(dec(tt.in)); got != tt.wire {
			t.Errorf("toMinorUnits(%s) = %s, want %s", tt.in, got, tt.wire)
		}
	}
	if got := fromMinorUnits(33333); !got.Equal(dec("333.33")) {
		t.Errorf("fromMinorUnits(33333) = %s", got)
	}
}
