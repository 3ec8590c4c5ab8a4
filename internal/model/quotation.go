package model

import (
	"time"

	"github.com/google/uuid"
)

// QuotationStatus is the lifecycle state of a quotation line.
type QuotationStatus string

const (
	QuotationStatusPending             QuotationStatus = "pending"
	QuotationStatusPendingConfirmation QuotationStatus = "pending_customer_confirmation"
	QuotationStatusCustomerConfirmed   QuotationStatus = "customer_confirmed"
	QuotationStatusCustomerDeclined    QuotationStatus = "customer_declined"
	QuotationStatusApproved            QuotationStatus = "approved"
	QuotationStatusRejected            QuotationStatus = "rejected"
)

// ApprovableQuotationStatuses are the states from which an admin approval may
// convert a quotation group into an order.
var ApprovableQuotationStatuses = []QuotationStatus{
	QuotationStatusPending,
	QuotationStatusCustomerConfirmed,
}

// Approvable reports whether s permits approval.
func (s QuotationStatus) Approvable() bool {
	return s == QuotationStatusPending || s == QuotationStatusCustomerConfirmed
}

// Quotation is one negotiated line item. Lines submitted together share a
// GroupID and are approved or rejected as a unit.
type Quotation struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	UserID    uuid.UUID       `json:"userId" db:"user_id"`
	GroupID   uuid.UUID       `json:"quotationGroupId" db:"quotation_group_id"`
	ProductID uuid.UUID       `json:"productId" db:"product_id"`
	VariantID *uuid.UUID      `json:"variantId,omitempty" db:"variant_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	Status    QuotationStatus `json:"status" db:"status"`
	AdminNote *string         `json:"adminNote,omitempty" db:"admin_note"`

	// Set when the quotation reaches approved.
	OrderID    *uuid.UUID `json:"orderId,omitempty" db:"order_id"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty" db:"approved_at"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// QuotationMessage is a free-form message recorded against a quotation group
// during the negotiation cycle.
type QuotationMessage struct {
	ID        uuid.UUID `json:"id" db:"id"`
	GroupID   uuid.UUID `json:"quotationGroupId" db:"quotation_group_id"`
	ActorKind ActorKind `json:"actorKind" db:"actor_kind"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
