package service

import (
	"context"

	"jewelcore/internal/model"

	"github.com/google/uuid"
)

// OrderDetail bundles an order with its items and audit history.
type OrderDetail struct {
	Order   model.Order                `json:"order"`
	Items   []model.OrderItem          `json:"items"`
	History []model.OrderStatusHistory `json:"history"`
}

// OrderWorkflow governs an order's lifecycle after creation: every status
// change is atomic with its audit-history row.
type OrderWorkflow interface {
	// TransitionOrder sets a new status on the order, shallow-merging
	// metaPatch into the order's status-meta, and appends one history row.
	// The update and the history append are a single atomic unit. ActorID is
	// recorded on history only for customer actors.
	TransitionOrder(ctx context.Context, orderID uuid.UUID, status model.OrderStatus, metaPatch map[string]any, actorID *uuid.UUID, actorKind model.ActorKind) (*model.Order, error)

	// GetOrder retrieves an order with its items and history.
	GetOrder(ctx context.Context, id uuid.UUID) (*OrderDetail, error)
}

// CreateQuotationInput is the payload for opening a new quotation line.
// GroupID is mandatory: lines are always grouped explicitly.
type CreateQuotationInput struct {
	UserID    uuid.UUID  `json:"userId"`
	GroupID   uuid.UUID  `json:"quotationGroupId"`
	ProductID uuid.UUID  `json:"productId"`
	VariantID *uuid.UUID `json:"variantId,omitempty"`
	Quantity  int        `json:"quantity"`
}

// QuotationItemInput describes a product/variant/quantity selection for
// AddItem and UpdateProduct.
type QuotationItemInput struct {
	ProductID uuid.UUID  `json:"productId"`
	VariantID *uuid.UUID `json:"variantId,omitempty"`
	Quantity  int        `json:"quantity"`
}

// ApproveInput carries the optional approval context. UserType and
// UserGroupID feed discount resolution for the quotation's customer.
type ApproveInput struct {
	AdminNote   *string    `json:"adminNote,omitempty"`
	UserType    string     `json:"userType,omitempty"`
	UserGroupID *uuid.UUID `json:"userGroupId,omitempty"`
}

// ApprovalResult reports a successful quotation-group conversion.
type ApprovalResult struct {
	OrderID      uuid.UUID   `json:"orderId"`
	Reference    string      `json:"reference"`
	QuotationIDs []uuid.UUID `json:"quotationIds"`
	Message      string      `json:"message"`
}

// QuotationService manages the quotation lifecycle up to and including the
// atomic conversion of a confirmed group into an order.
type QuotationService interface {
	// Create opens a new pending quotation line.
	Create(ctx context.Context, in CreateQuotationInput) (*model.Quotation, error)

	// Approve converts the quotation's whole group into one order: prices
	// every member against a single snapshot instant, aggregates totals,
	// creates the order and its items, marks the members approved and adjusts
	// finite inventory, all in one transaction. A best-effort notification
	// follows the commit.
	Approve(ctx context.Context, quotationID uuid.UUID, in ApproveInput) (*ApprovalResult, error)

	// Reject marks every open member of the group rejected. No order is created.
	Reject(ctx context.Context, quotationID uuid.UUID, adminNote *string) error

	// RequestConfirmation re-opens the customer-confirmation gate for the
	// group and records a negotiation message.
	RequestConfirmation(ctx context.Context, quotationID uuid.UUID, message string) error

	// AddItem appends a new line to the quotation's group and re-opens the
	// confirmation gate.
	AddItem(ctx context.Context, quotationID uuid.UUID, in QuotationItemInput) (*model.Quotation, error)

	// UpdateProduct rewrites the quotation's selection and re-opens the
	// confirmation gate.
	UpdateProduct(ctx context.Context, quotationID uuid.UUID, in QuotationItemInput) error

	// CustomerRespond records the customer's confirm/decline for the group.
	CustomerRespond(ctx context.Context, quotationID uuid.UUID, accept bool, note *string) error

	// GetByID retrieves one quotation line.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Quotation, error)
}
