package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is an order lifecycle state.
//
// The status set is open and transitions are deliberately unrestricted: any
// known status may be set from any other. Back-office flows routinely move
// orders backwards (a recalled make returning to awaiting_materials, a failed
// payment re-entering pending_payment), so no adjacency table is enforced.
type OrderStatus string

const (
	OrderStatusPending          OrderStatus = "pending"
	OrderStatusApproved         OrderStatus = "approved"
	OrderStatusInProduction     OrderStatus = "in_production"
	OrderStatusQualityCheck     OrderStatus = "quality_check"
	OrderStatusReadyToDispatch  OrderStatus = "ready_to_dispatch"
	OrderStatusDispatched       OrderStatus = "dispatched"
	OrderStatusDelivered        OrderStatus = "delivered"
	OrderStatusCancelled        OrderStatus = "cancelled"
	OrderStatusPendingPayment   OrderStatus = "pending_payment"
	OrderStatusPaid             OrderStatus = "paid"
	OrderStatusPaymentFailed    OrderStatus = "payment_failed"
	OrderStatusAwaitingMaterial OrderStatus = "awaiting_materials"
)

var knownOrderStatuses = map[OrderStatus]struct{}{
	OrderStatusPending:          {},
	OrderStatusApproved:         {},
	OrderStatusInProduction:     {},
	OrderStatusQualityCheck:     {},
	OrderStatusReadyToDispatch:  {},
	OrderStatusDispatched:       {},
	OrderStatusDelivered:        {},
	OrderStatusCancelled:        {},
	OrderStatusPendingPayment:   {},
	OrderStatusPaid:             {},
	OrderStatusPaymentFailed:    {},
	OrderStatusAwaitingMaterial: {},
}

// Known reports whether s is a recognised order status.
func (s OrderStatus) Known() bool {
	_, ok := knownOrderStatuses[s]
	return ok
}

// ActorKind identifies who performed a status change.
type ActorKind string

const (
	ActorKindCustomer ActorKind = "customer"
	ActorKindAdmin    ActorKind = "admin"
)

// OrderLineBreakdown is one entry of the itemized price_breakdown snapshot
// stored on an order.
type OrderLineBreakdown struct {
	QuotationID uuid.UUID       `json:"quotationId"`
	ProductID   uuid.UUID       `json:"productId"`
	Quantity    int             `json:"quantity"`
	Unit        PriceBreakdown  `json:"unit"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
}

// Order is a confirmed purchase created from an approved quotation group.
type Order struct {
	ID        uuid.UUID   `json:"id" db:"id"`
	Reference string      `json:"reference" db:"reference"`
	UserID    uuid.UUID   `json:"userId" db:"user_id"`
	GroupID   *uuid.UUID  `json:"quotationGroupId,omitempty" db:"quotation_group_id"`
	Status    OrderStatus `json:"status" db:"status"`

	Subtotal decimal.Decimal `json:"subtotal" db:"subtotal"`
	Discount decimal.Decimal `json:"discount" db:"discount"`
	Tax      decimal.Decimal `json:"tax" db:"tax"`
	Total    decimal.Decimal `json:"total" db:"total"`

	// PriceBreakdown is the itemized conversion-time snapshot, one entry per
	// source quotation. Stored as JSONB.
	PriceBreakdown []OrderLineBreakdown `json:"priceBreakdown" db:"price_breakdown"`

	// StatusMeta accumulates workflow metadata; transition patches are
	// shallow-merged into it, new keys overwriting old.
	StatusMeta map[string]any `json:"statusMeta,omitempty" db:"status_meta"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// OrderItem snapshots one purchased line at conversion time.
type OrderItem struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	OrderID     uuid.UUID       `json:"orderId" db:"order_id"`
	ProductID   uuid.UUID       `json:"productId" db:"product_id"`
	VariantID   *uuid.UUID      `json:"variantId,omitempty" db:"variant_id"`
	ProductName string          `json:"productName" db:"product_name"`
	Quantity    int             `json:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice" db:"unit_price"`
	TotalPrice  decimal.Decimal `json:"totalPrice" db:"total_price"`
	Breakdown   PriceBreakdown  `json:"breakdown" db:"breakdown"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}

// OrderStatusHistory is one audit row, appended atomically with every status
// change including creation. History is append-only.
type OrderStatusHistory struct {
	ID      uuid.UUID   `json:"id" db:"id"`
	OrderID uuid.UUID   `json:"orderId" db:"order_id"`
	Status  OrderStatus `json:"status" db:"status"`
	Meta    map[string]any `json:"meta,omitempty" db:"meta"`
	ActorKind ActorKind `json:"actorKind" db:"actor_kind"`
	// ActorID references the customer table and is therefore recorded only
	// for customer actors; admin identities live in a different table.
	ActorID   *uuid.UUID `json:"actorId,omitempty" db:"actor_id"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
}
