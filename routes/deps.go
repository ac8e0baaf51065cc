package routes

import (
	"github.com/dannydanzka/reservapp-web-sub003/services"
)

// Package-level workflow instances, wired once at startup. Tests swap in
// instances built over mock stores and gateways.
var (
	bookingService *services.BookingService
	queryService   *services.PaymentQueryService
	statsService   *services.StatsService
	invoiceService *services.InvoiceService
	refundService  *services.RefundService
	notifier       services.Notifier
)

type Deps struct {
	Booking  *services.BookingService
	Query    *services.PaymentQueryService
	Stats    *services.StatsService
	Invoice  *services.InvoiceService
	Refund   *services.RefundService
	Notifier services.Notifier
}

func Initialize(deps Deps) {
	bookingService = deps.Booking
	queryService = deps.Query
	statsService = deps.Stats
	invoiceService = deps.Invoice
	refundService = deps.Refund
	notifier = deps.Notifier
}
