package storage

import (
	"context"
	"time"

	"github.com/dannydanzka/reservapp-web-sub003/models"
	"github.com/dannydanzka/reservapp-web-sub003/services"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ledger is the gorm-backed implementation of the workflow store
// interfaces declared in the services package.
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

var (
	_ services.BookingStore      = (*Ledger)(nil)
	_ services.PaymentQueryStore = (*Ledger)(nil)
	_ services.StatsStore        = (*Ledger)(nil)
	_ services.InvoiceStore      = (*Ledger)(nil)
	_ services.RefundStore       = (*Ledger)(nil)
	_ services.NotificationStore = (*Ledger)(nil)
)

func (l *Ledger) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := l.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (l *Ledger) GetVenue(ctx context.Context, id uint) (*models.Venue, error) {
	var venue models.Venue
	if err := l.db.WithContext(ctx).First(&venue, id).Error; err != nil {
		return nil, err
	}
	return &venue, nil
}

func (l *Ledger) GetService(ctx context.Context, id uint) (*models.Service, error) {
	var service models.Service
	if err := l.db.WithContext(ctx).First(&service, id).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

func (l *Ledger) SetUserGatewayCustomer(ctx context.Context, userID uint, customerID string) error {
	return l.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("stripe_customer_id", customerID).Error
}

func (l *Ledger) CreateReservationWithPayment(ctx context.Context, res *models.Reservation, pay *models.Payment) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(res).Error; err != nil {
			return err
		}
		pay.ReservationID = &res.ID
		return tx.Create(pay).Error
	})
}

func (l *Ledger) VenueIDsOwnedBy(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := l.db.WithContext(ctx).Model(&models.Venue{}).
		Where("owner_id = ?", userID).
		Pluck("id", &ids).Error
	return ids, err
}

func (l *Ledger) ListPayments(ctx context.Context, filter services.PaymentFilter) ([]models.Payment, int64, error) {
	q := l.db.WithContext(ctx).Model(&models.Payment{}).
		Joins("LEFT JOIN users ON users.id = payments.user_id")

	if filter.VenueIDs != nil {
		q = q.Joins("JOIN reservations ON reservations.id = payments.reservation_id").
			Where("reservations.venue_id IN ?", filter.VenueIDs)
	}
	if filter.Status != "" {
		q = q.Where("payments.status = ?", filter.Status)
	}
	if filter.From != nil {
		q = q.Where("payments.created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("payments.created_at <= ?", *filter.To)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where(
			"users.email ILIKE ? OR users.first_name ILIKE ? OR users.last_name ILIKE ? OR CAST(payments.id AS TEXT) ILIKE ? OR payments.stripe_payment_id ILIKE ?",
			like, like, like, like, like,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payments []models.Payment
	err := q.Preload("User").Preload("Reservation").Preload("Reservation.Venue").
		Order("payments.created_at DESC").
		Offset(filter.Offset).Limit(filter.Limit).
		Find(&payments).Error
	return payments, total, err
}

func (l *Ledger) PaymentStatusTotals(ctx context.Context, filter services.StatsFilter) ([]services.StatusTotal, error) {
	q := l.db.WithContext(ctx).Model(&models.Payment{})
	if filter.VenueIDs != nil {
		q = q.Joins("JOIN reservations ON reservations.id = payments.reservation_id").
			Where("reservations.venue_id IN ?", filter.VenueIDs)
	}
	if filter.From != nil {
		q = q.Where("payments.created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("payments.created_at <= ?", *filter.To)
	}

	var rows []struct {
		Status string
		Count  int64
		Total  decimal.Decimal
	}
	err := q.Select("payments.status AS status, COUNT(*) AS count, COALESCE(SUM(payments.amount), 0) AS total").
		Group("payments.status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make([]services.StatusTotal, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, services.StatusTotal{Status: row.Status, Count: row.Count, Total: row.Total})
	}
	return totals, nil
}

func (l *Ledger) CompletedRevenue(ctx context.Context, venueIDs []uint, from, to time.Time) (decimal.Decimal, error) {
	// Half-open [from, to): adjacent growth windows share a boundary and
	// must not both count a payment created exactly on it.
	q := l.db.WithContext(ctx).Model(&models.Payment{}).
		Where("payments.status = ?", models.PaymentCompleted).
		Where("payments.created_at >= ? AND payments.created_at < ?", from, to)
	if venueIDs != nil {
		q = q.Joins("JOIN reservations ON reservations.id = payments.reservation_id").
			Where("reservations.venue_id IN ?", venueIDs)
	}

	var total decimal.Decimal
	err := q.Select("COALESCE(SUM(payments.amount), 0)").Scan(&total).Error
	return total, err
}

func (l *Ledger) GetPaymentDetail(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := l.db.WithContext(ctx).
		Preload("User").
		Preload("Receipts").
		Preload("Reservation").
		Preload("Reservation.Venue").
		Preload("Reservation.Service").
		First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (l *Ledger) CreateReceipt(ctx context.Context, receipt *models.Receipt) error {
	return l.db.WithContext(ctx).Create(receipt).Error
}

func (l *Ledger) SavePayment(ctx context.Context, payment *models.Payment) error {
	return l.db.WithContext(ctx).Save(payment).Error
}

func (l *Ledger) CreateNotification(ctx context.Context, n *models.Notification) error {
	return l.db.WithContext(ctx).Create(n).Error
}
