package repository

import (
	"context"
	"time"

	"jewelcore/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ProductRepository defines read access to catalogue data plus the guarded
// inventory mutation used during quotation conversion.
type ProductRepository interface {
	// GetProduct retrieves a product by its ID. Returns nil when absent.
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// GetVariant retrieves a variant with its metal and diamond lines.
	// Returns nil when absent.
	GetVariant(ctx context.Context, id uuid.UUID) (*model.Variant, error)

	// GetDiamondsByIDs retrieves diamonds keyed by ID. Missing IDs are simply
	// absent from the result map.
	GetDiamondsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Diamond, error)

	// DecrementInventory reduces a variant's finite inventory by quantity in a
	// single conditional statement, clamped at zero. Variants with unlimited
	// inventory (NULL) are left untouched.
	DecrementInventory(ctx context.Context, tx pgx.Tx, variantID uuid.UUID, quantity int) error
}

// RateRepository defines point-in-time metal rate lookups.
type RateRepository interface {
	// LatestRate returns the price per gram from the newest rate row with
	// effective_at <= asOf, matching metal and purity case-insensitively with
	// surrounding whitespace ignored. The bool is false when no row matches.
	LatestRate(ctx context.Context, metal, purity string, asOf time.Time) (decimal.Decimal, bool, error)
}

// DiscountRepository defines access to promotional campaigns.
type DiscountRepository interface {
	// ActiveCampaigns returns active campaigns whose validity window contains
	// the given instant (a NULL bound is unbounded on that side).
	ActiveCampaigns(ctx context.Context, at time.Time) ([]model.DiscountCampaign, error)
}

// TaxRepository defines access to configured tax rates.
type TaxRepository interface {
	// FirstActiveRate returns the rate of the active tax-rate record with the
	// lowest identifier. The bool is false when no active record exists.
	FirstActiveRate(ctx context.Context) (decimal.Decimal, bool, error)
}

// QuotationRepository defines quotation data access. Mutating methods that
// take a pgx.Tx participate in the caller's transaction.
type QuotationRepository interface {
	// Create inserts a new quotation line, inside tx when one is given.
	Create(ctx context.Context, tx pgx.Tx, q *model.Quotation) error

	// GetByID retrieves a quotation by its ID. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Quotation, error)

	// LockGroup takes a transaction-scoped advisory lock on the group,
	// serialising rival conversions of the same group.
	LockGroup(ctx context.Context, tx pgx.Tx, groupID uuid.UUID) error

	// GroupMembers retrieves the group's quotations restricted to the given
	// statuses (all statuses when empty), ordered by creation time.
	GroupMembers(ctx context.Context, tx pgx.Tx, groupID uuid.UUID, statuses []model.QuotationStatus) ([]model.Quotation, error)

	// MarkApproved stamps the given quotations approved with the order linkage.
	MarkApproved(ctx context.Context, tx pgx.Tx, ids []uuid.UUID, orderID uuid.UUID, approvedAt time.Time) error

	// UpdateGroupStatus moves every group member currently in one of the from
	// statuses to the target status, optionally recording an admin note.
	// Returns the number of rows changed.
	UpdateGroupStatus(ctx context.Context, tx pgx.Tx, groupID uuid.UUID, from []model.QuotationStatus, to model.QuotationStatus, note *string) (int64, error)

	// UpdateItem rewrites a quotation's product, variant and quantity.
	UpdateItem(ctx context.Context, tx pgx.Tx, id uuid.UUID, productID uuid.UUID, variantID *uuid.UUID, quantity int) error

	// CreateMessage appends a negotiation message for the group.
	CreateMessage(ctx context.Context, tx pgx.Tx, msg *model.QuotationMessage) error
}

// OrderRepository defines order data access with transactional-unit support.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Create inserts a new order within the provided transaction.
	Create(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateItems inserts the order's line items within the provided transaction.
	CreateItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetByIDForUpdate retrieves an order with a row lock inside tx.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error)

	// UpdateStatus persists a new status and merged status-meta on the order.
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.OrderStatus, meta map[string]any, at time.Time) error

	// AppendHistory appends one immutable status-history row.
	AppendHistory(ctx context.Context, tx pgx.Tx, h *model.OrderStatusHistory) error

	// GetItems retrieves the order's line items.
	GetItems(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error)

	// GetHistory retrieves the order's status history, oldest first.
	GetHistory(ctx context.Context, orderID uuid.UUID) ([]model.OrderStatusHistory, error)
}
