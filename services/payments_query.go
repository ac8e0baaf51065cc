package services

import (
	"context"
	"log"
	"time"

	"github.com/dannydanzka/reservapp-web-sub003/models"
	"github.com/shopspring/decimal"
)

// PaymentFilter is the ledger-level filter built by the query engine after
// role scoping has been applied. A nil VenueIDs means unscoped.
type PaymentFilter struct {
	VenueIDs []uint
	Status   string
	From     *time.Time
	To       *time.Time
	Search   string
	Offset   int
	Limit    int
}

// VenueOwnershipStore resolves which venues a restricted requester owns.
// Shared by every role-scoped workflow.
type VenueOwnershipStore interface {
	VenueIDsOwnedBy(ctx context.Context, userID uint) ([]uint, error)
}

type PaymentQueryStore interface {
	VenueOwnershipStore
	ListPayments(ctx context.Context, filter PaymentFilter) ([]models.Payment, int64, error)
}

type PaymentQueryInput struct {
	RequesterRole string
	RequesterID   uint
	Page          int
	Limit         int
	Status        string
	VenueID       uint
	From          *time.Time
	To            *time.Time
	Search        string
}

// PaymentView is a payment row enriched with live gateway data and the
// commission split. Enrichment fields stay nil when the gateway lookup
// failed; that never fails the page.
type PaymentView struct {
	models.Payment
	PlatformFee decimal.Decimal  `json:"platformFee"`
	NetAmount   decimal.Decimal  `json:"netAmount"`
	Intent      *PaymentIntent   `json:"gatewayIntent,omitempty"`
	Customer    *GatewayCustomer `json:"gatewayCustomer,omitempty"`
}

type PaymentPage struct {
	Data  []PaymentView `json:"data"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Total int64         `json:"total"`
}

// PaymentQueryService builds role-scoped, filtered, gateway-enriched
// payment views for the admin back office.
type PaymentQueryService struct {
	Store   PaymentQueryStore
	Gateway PaymentGateway
}

func NewPaymentQueryService(store PaymentQueryStore, gateway PaymentGateway) *PaymentQueryService {
	return &PaymentQueryService{Store: store, Gateway: gateway}
}

func (s *PaymentQueryService) List(ctx context.Context, input PaymentQueryInput) (*PaymentPage, error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit <= 0 || input.Limit > 100 {
		input.Limit = 25
	}

	venueIDs, empty, err := scopedVenueIDs(ctx, s.Store, input.RequesterRole, input.RequesterID, input.VenueID)
	if err != nil {
		return nil, err
	}
	if empty {
		return &PaymentPage{Data: []PaymentView{}, Page: input.Page, Limit: input.Limit, Total: 0}, nil
	}

	payments, total, err := s.Store.ListPayments(ctx, PaymentFilter{
		VenueIDs: venueIDs,
		Status:   input.Status,
		From:     input.From,
		To:       input.To,
		Search:   input.Search,
		Offset:   (input.Page - 1) * input.Limit,
		Limit:    input.Limit,
	})
	if err != nil {
		return nil, err
	}

	views := make([]PaymentView, 0, len(payments))
	for i := range payments {
		views = append(views, s.enrich(ctx, payments[i]))
	}
	return &PaymentPage{Data: views, Page: input.Page, Limit: input.Limit, Total: total}, nil
}

// enrich attaches live gateway data and the commission split to one record.
// Gateway fetch failures degrade that record's enrichment to nil.
func (s *PaymentQueryService) enrich(ctx context.Context, payment models.Payment) PaymentView {
	view := PaymentView{Payment: payment}

	split := SplitCommission(payment.Amount, PlatformCommissionRate)
	view.PlatformFee = split.PlatformFee
	view.NetAmount = split.NetAmount

	if payment.StripePaymentID != "" {
		intent, err := s.Gateway.GetPaymentIntent(ctx, payment.StripePaymentID)
		if err != nil {
			log.Printf("payments: intent lookup failed for payment %d: %v", payment.ID, err)
		} else {
			view.Intent = intent
		}
	}
	if payment.GatewayRefs.ExternalCustomerID != "" {
		customer, err := s.Gateway.GetCustomer(ctx, payment.GatewayRefs.ExternalCustomerID)
		if err != nil {
			log.Printf("payments: customer lookup failed for payment %d: %v", payment.ID, err)
		} else {
			view.Customer = customer
		}
	}
	return view
}

// scopedVenueIDs applies the role-scoping rule shared by the query engine,
// the statistics aggregator and the invoice/refund workflows. It returns
// the venue id set to constrain to (nil = unscoped), and whether the result
// is a guaranteed-empty set that short-circuits the query entirely.
func scopedVenueIDs(ctx context.Context, store VenueOwnershipStore, role string, requesterID, explicitVenueID uint) ([]uint, bool, error) {
	if models.IsUnrestrictedRole(role) {
		if explicitVenueID > 0 {
			return []uint{explicitVenueID}, false, nil
		}
		return nil, false, nil
	}
	if role != models.RoleVenueOwner {
		return nil, false, &ForbiddenError{Message: "operator access required"}
	}

	owned, err := store.VenueIDsOwnedBy(ctx, requesterID)
	if err != nil {
		return nil, false, err
	}
	if len(owned) == 0 {
		// Requester owns no venues: empty result without touching payments.
		return nil, true, nil
	}
	if explicitVenueID > 0 {
		for _, id := range owned {
			if id == explicitVenueID {
				return []uint{explicitVenueID}, false, nil
			}
		}
		return nil, false, &ForbiddenError{Message: "venue does not belong to requester"}
	}
	return owned, false, nil
}
