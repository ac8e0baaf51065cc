package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HTTPGateway talks to the payment processor's REST API. Requests are
// form-encoded with a bearer secret; mutating calls carry a fresh
// Idempotency-Key so a retried request cannot duplicate a side effect.
type HTTPGateway struct {
	BaseURL string
	Secret  string
	Client  *http.Client
}

var _ PaymentGateway = (*HTTPGateway)(nil)

func NewHTTPGateway(baseURL, secret string) *HTTPGateway {
	return &HTTPGateway{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Secret:  secret,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// apiError is the processor's error envelope.
type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (g *HTTPGateway) do(ctx context.Context, method, path string, form url.Values, out interface{}) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, g.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.Secret)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if method != http.MethodGet {
		req.Header.Set("Idempotency-Key", uuid.NewString())
	}

	resp, err := g.Client.Do(req)
	if err != nil {
		// Includes timeouts: outcome unknown, caller must not assume success.
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		var apiErr apiError
		if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Code != "" {
			return NewGatewayError(apiErr.Error.Code, apiErr.Error.Message)
		}
		return NewGatewayError("request_failed", strings.TrimSpace(string(data)))
	}
	if resp.StatusCode >= 500 {
		return fmt.Errorf("gateway returned %d", resp.StatusCode)
	}

	if out != nil {
		return json.Unmarshal(data, out)
	}
	return nil
}

// wire types: the processor reports amounts in minor units (centavos).

type wireCustomer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type wireIntent struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Customer    string `json:"customer"`
	Description string `json:"description"`
}

type wireInvoice struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	HostedInvoiceURL string `json:"hosted_invoice_url"`
	InvoicePDF       string `json:"invoice_pdf"`
}

type wireRefund struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount int64  `json:"amount"`
}

func toMinorUnits(amount decimal.Decimal) string {
	return amount.Mul(decimal.NewFromInt(100)).RoundBank(0).String()
}

func fromMinorUnits(amount int64) decimal.Decimal {
	return decimal.NewFromInt(amount).Div(decimal.NewFromInt(100))
}

func (g *HTTPGateway) CreateCustomer(ctx context.Context, email, name string) (*GatewayCustomer, error) {
	form := url.Values{}
	form.Set("email", email)
	form.Set("name", name)

	var wc wireCustomer
	if err := g.do(ctx, http.MethodPost, "/v1/customers", form, &wc); err != nil {
		return nil, err
	}
	return &GatewayCustomer{ID: wc.ID, Email: wc.Email, Name: wc.Name}, nil
}

func (g *HTTPGateway) GetCustomer(ctx context.Context, id string) (*GatewayCustomer, error) {
	var wc wireCustomer
	if err := g.do(ctx, http.MethodGet, "/v1/customers/"+id, nil, &wc); err != nil {
		return nil, err
	}
	return &GatewayCustomer{ID: wc.ID, Email: wc.Email, Name: wc.Name}, nil
}

func (g *HTTPGateway) CreatePaymentIntent(ctx context.Context, params CreateIntentParams) (*PaymentIntent, error) {
	form := url.Values{}
	form.Set("amount", toMinorUnits(params.Amount))
	form.Set("currency", strings.ToLower(params.Currency))
	form.Set("customer", params.CustomerID)
	form.Set("payment_method", params.PaymentMethodID)
	form.Set("description", params.Description)
	form.Set("confirm", "true")

	var wi wireIntent
	if err := g.do(ctx, http.MethodPost, "/v1/payment_intents", form, &wi); err != nil {
		return nil, err
	}
	return intentFromWire(&wi), nil
}

func (g *HTTPGateway) GetPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	var wi wireIntent
	if err := g.do(ctx, http.MethodGet, "/v1/payment_intents/"+id, nil, &wi); err != nil {
		return nil, err
	}
	return intentFromWire(&wi), nil
}

func intentFromWire(wi *wireIntent) *PaymentIntent {
	return &PaymentIntent{
		ID:          wi.ID,
		Status:      wi.Status,
		Amount:      fromMinorUnits(wi.Amount),
		Currency:    strings.ToUpper(wi.Currency),
		CustomerID:  wi.Customer,
		Description: wi.Description,
	}
}

func (g *HTTPGateway) CreateInvoice(ctx context.Context, params CreateInvoiceParams) (*GatewayInvoice, error) {
	form := url.Values{}
	form.Set("customer", params.CustomerID)
	form.Set("description", params.Description)
	form.Set("collection_method", "send_invoice")
	if params.DaysUntilDue > 0 {
		form.Set("days_until_due", fmt.Sprintf("%d", params.DaysUntilDue))
	}

	var wi wireInvoice
	if err := g.do(ctx, http.MethodPost, "/v1/invoices", form, &wi); err != nil {
		return nil, err
	}
	return invoiceFromWire(&wi), nil
}

func (g *HTTPGateway) AddInvoiceItem(ctx context.Context, invoiceID, customerID, description string, amount decimal.Decimal, currency string) error {
	form := url.Values{}
	form.Set("invoice", invoiceID)
	form.Set("customer", customerID)
	form.Set("description", description)
	form.Set("amount", toMinorUnits(amount))
	form.Set("currency", strings.ToLower(currency))

	return g.do(ctx, http.MethodPost, "/v1/invoiceitems", form, nil)
}

func (g *HTTPGateway) FinalizeInvoice(ctx context.Context, invoiceID string) (*GatewayInvoice, error) {
	var wi wireInvoice
	if err := g.do(ctx, http.MethodPost, "/v1/invoices/"+invoiceID+"/finalize", url.Values{}, &wi); err != nil {
		return nil, err
	}
	return invoiceFromWire(&wi), nil
}

func (g *HTTPGateway) SendInvoice(ctx context.Context, invoiceID string) error {
	return g.do(ctx, http.MethodPost, "/v1/invoices/"+invoiceID+"/send", url.Values{}, nil)
}

func (g *HTTPGateway) GetInvoice(ctx context.Context, invoiceID string) (*GatewayInvoice, error) {
	var wi wireInvoice
	if err := g.do(ctx, http.MethodGet, "/v1/invoices/"+invoiceID, nil, &wi); err != nil {
		return nil, err
	}
	return invoiceFromWire(&wi), nil
}

func invoiceFromWire(wi *wireInvoice) *GatewayInvoice {
	return &GatewayInvoice{
		ID:        wi.ID,
		Status:    wi.Status,
		HostedURL: wi.HostedInvoiceURL,
		PDFURL:    wi.InvoicePDF,
	}
}

func (g *HTTPGateway) CreateRefund(ctx context.Context, paymentIntentID string, amount decimal.Decimal) (*GatewayRefund, error) {
	form := url.Values{}
	form.Set("payment_intent", paymentIntentID)
	form.Set("amount", toMinorUnits(amount))

	var wr wireRefund
	if err := g.do(ctx, http.MethodPost, "/v1/refunds", form, &wr); err != nil {
		return nil, err
	}
	return &GatewayRefund{ID: wr.ID, Status: wr.Status, Amount: fromMinorUnits(wr.Amount)}, nil
}
