package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dannydanzka/reservapp-web-sub003/models"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type RefundStore interface {
	VenueOwnershipStore
	GetPaymentDetail(ctx context.Context, id uint) (*models.Payment, error)
	SavePayment(ctx context.Context, payment *models.Payment) error
}

type RefundInput struct {
	PaymentID     uint
	RequesterRole string
	RequesterID   uint
	Amount        decimal.Decimal
	Reason        string
}

type StatusCorrectionInput struct {
	PaymentID     uint
	RequesterRole string
	RequesterID   uint
	Notes         string
}

// RefundService executes manual corrections to a payment's lifecycle:
// gateway refunds and FAILED -> completed status fixes. Every correction is
// attributable through the operator id recorded in the payment's audit data
// and the surrounding audit log.
type RefundService struct {
	Store   RefundStore
	Gateway PaymentGateway
}

func NewRefundService(store RefundStore, gateway PaymentGateway) *RefundService {
	return &RefundService{Store: store, Gateway: gateway}
}

// Refund validates bounds and reason before any gateway call, then issues
// the refund and transitions the payment to refunded or partially_refunded.
func (s *RefundService) Refund(ctx context.Context, input RefundInput) (*models.Payment, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, &ValidationError{Message: "refund amount must be greater than zero"}
	}
	if input.Reason == "" {
		return nil, &ValidationError{Message: "a refund reason is required"}
	}

	payment, err := s.loadScopedPayment(ctx, input.PaymentID, input.RequesterRole, input.RequesterID)
	if err != nil {
		return nil, err
	}

	// Bound by what is left, not the original amount, so repeated partial
	// refunds can never exceed the payment in total.
	remaining := payment.Amount.Sub(payment.RefundedAmount)
	if input.Amount.GreaterThan(remaining) {
		return nil, &ValidationError{
			Message: fmt.Sprintf("refund amount %s exceeds remaining refundable amount %s", input.Amount, remaining),
		}
	}
	if payment.Status != models.PaymentCompleted && payment.Status != models.PaymentPartiallyRefunded {
		return nil, &ValidationError{Message: "only completed payments can be refunded"}
	}
	if payment.StripePaymentID == "" {
		return nil, &ValidationError{Message: "payment has no gateway charge to refund"}
	}

	refund, err := s.Gateway.CreateRefund(ctx, payment.StripePaymentID, input.Amount)
	if err != nil {
		return nil, err
	}

	payment.RefundedAmount = payment.RefundedAmount.Add(input.Amount)
	if payment.RefundedAmount.Equal(payment.Amount) {
		payment.Status = models.PaymentRefunded
	} else {
		payment.Status = models.PaymentPartiallyRefunded
	}
	appendAuditData(payment, map[string]interface{}{
		"action":     "refund",
		"operatorID": input.RequesterID,
		"reason":     input.Reason,
		"amount":     input.Amount.String(),
		"refundID":   refund.ID,
		"at":         time.Now().Format(time.RFC3339),
	})

	if err := s.Store.SavePayment(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// CorrectStatus manually marks a failed payment completed, used when the
// gateway succeeded but the confirmation was missed.
func (s *RefundService) CorrectStatus(ctx context.Context, input StatusCorrectionInput) (*models.Payment, error) {
	if input.Notes == "" {
		return nil, &ValidationError{Message: "operator notes are required for a status correction"}
	}

	payment, err := s.loadScopedPayment(ctx, input.PaymentID, input.RequesterRole, input.RequesterID)
	if err != nil {
		return nil, err
	}

	if payment.Status != models.PaymentFailed {
		return nil, &ValidationError{
			Message: fmt.Sprintf("only failed payments can be corrected, current status is %s", payment.Status),
		}
	}

	payment.Status = models.PaymentCompleted
	now := time.Now()
	payment.TransactionDate = &now
	appendAuditData(payment, map[string]interface{}{
		"action":     "status_correction",
		"operatorID": input.RequesterID,
		"notes":      input.Notes,
		"at":         now.Format(time.RFC3339),
	})

	if err := s.Store.SavePayment(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *RefundService) loadScopedPayment(ctx context.Context, paymentID uint, role string, requesterID uint) (*models.Payment, error) {
	payment, err := s.Store.GetPaymentDetail(ctx, paymentID)
	if err != nil {
		return nil, notFoundOr(err, "payment", paymentID)
	}
	if err := checkPaymentScope(ctx, s.Store, payment, role, requesterID); err != nil {
		return nil, err
	}
	return payment, nil
}

// appendAuditData adds one operator action entry to the payment's typed
// audit trail.
func appendAuditData(payment *models.Payment, entry map[string]interface{}) {
	var entries []map[string]interface{}
	if len(payment.AuditData) > 0 {
		_ = json.Unmarshal(payment.AuditData, &entries)
	}
	entries = append(entries, entry)
	if data, err := json.Marshal(entries); err == nil {
		payment.AuditData = datatypes.JSON(data)
	}
}
