package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderConfirmedEvent is published after a quotation group converts to an order.
type OrderConfirmedEvent struct {
	OrderID      uuid.UUID       `json:"order_id"`
	Reference    string          `json:"reference"`
	UserID       uuid.UUID       `json:"user_id"`
	Total        decimal.Decimal `json:"total"`
	QuotationIDs []uuid.UUID     `json:"quotation_ids"`
	ConfirmedAt  time.Time       `json:"confirmed_at"`
}

// QuotationRejectedEvent is published after a group is rejected.
type QuotationRejectedEvent struct {
	GroupID    uuid.UUID `json:"quotation_group_id"`
	UserID     uuid.UUID `json:"user_id"`
	Note       string    `json:"note,omitempty"`
	RejectedAt time.Time `json:"rejected_at"`
}

// ConfirmationRequestedEvent is published when a group re-enters the
// customer-confirmation gate.
type ConfirmationRequestedEvent struct {
	GroupID     uuid.UUID `json:"quotation_group_id"`
	UserID      uuid.UUID `json:"user_id"`
	Message     string    `json:"message,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// Notifier publishes customer notifications. Delivery is best-effort: callers
// log failures and never fail or roll back the triggering operation.
type Notifier interface {
	OrderConfirmed(ctx context.Context, ev OrderConfirmedEvent) error
	QuotationRejected(ctx context.Context, ev QuotationRejectedEvent) error
	ConfirmationRequested(ctx context.Context, ev ConfirmationRequestedEvent) error
	Close() error
}

// NopNotifier discards all events. Used when notifications are disabled.
type NopNotifier struct{}

func (NopNotifier) OrderConfirmed(context.Context, OrderConfirmedEvent) error { return nil }
func (NopNotifier) QuotationRejected(context.Context, QuotationRejectedEvent) error {
	return nil
}
func (NopNotifier) ConfirmationRequested(context.Context, ConfirmationRequestedEvent) error {
	return nil
}
func (NopNotifier) Close() error { return nil }
