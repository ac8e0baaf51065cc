package services

import (
	"context"
	"log"

	"github.com/dannydanzka/reservapp-web-sub003/models"
)

// Event is a post-commit side effect emitted by a workflow. Dispatch is
// best-effort: a failed notification never fails the booking or refund that
// produced it.
type Event struct {
	Type    string `json:"type"`
	UserID  uint   `json:"userID"`
	Title   string `json:"title"`
	Message string `json:"message"`
	RefID   uint   `json:"refID"`
	RefType string `json:"refType"`
}

// Notifier dispatches post-commit events. The core never blocks on it.
type Notifier interface {
	Dispatch(ctx context.Context, events []Event)
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
}

// NotificationService persists notification rows. Failures are logged and
// swallowed.
type NotificationService struct {
	Store NotificationStore
}

func NewNotificationService(store NotificationStore) *NotificationService {
	return &NotificationService{Store: store}
}

var _ Notifier = (*NotificationService)(nil)

func (ns *NotificationService) Dispatch(ctx context.Context, events []Event) {
	for _, ev := range events {
		n := &models.Notification{
			UserID:  ev.UserID,
			Title:   ev.Title,
			Message: ev.Message,
			Type:    ev.Type,
			RefID:   ev.RefID,
			RefType: ev.RefType,
		}
		if err := ns.Store.CreateNotification(ctx, n); err != nil {
			log.Printf("notifications: failed to create %s row for user %d: %v", ev.Type, ev.UserID, err)
		}
	}
}
