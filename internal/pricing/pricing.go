package pricing

import (
	"context"
	"time"

	"jewelcore/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceContext carries the caller-supplied pricing context: who is buying and
// which instant the rate/discount snapshot is taken at.
type PriceContext struct {
	UserGroupID *uuid.UUID
	UserType    string

	// AsOf pins the rate and campaign snapshot. Zero means "now". A multi-line
	// conversion must pass the same AsOf for every line so a rate change
	// cannot land mid-conversion.
	AsOf time.Time
}

// Engine computes per-unit price breakdowns.
type Engine interface {
	// Calculate returns the per-unit price breakdown for a product, optional
	// variant and quantity. It has no side effects; identical inputs against
	// an identical rate/discount snapshot yield identical output. Missing
	// rates and absent variants degrade to zero contributions rather than
	// failing.
	Calculate(ctx context.Context, product *model.Product, variant *model.Variant, quantity int, pctx PriceContext) (model.PriceBreakdown, error)
}

// DiscountResolver selects the single best applicable campaign discount for a
// making charge.
type DiscountResolver interface {
	// Resolve returns the winning discount descriptor, or the zero descriptor
	// when no campaign applies.
	Resolve(ctx context.Context, in ResolveInput) (model.DiscountDescriptor, error)
}

// ResolveInput is the context a discount decision is made against.
type ResolveInput struct {
	Product      model.Product
	Making       decimal.Decimal
	LineSubtotal decimal.Decimal
	UserGroupID  *uuid.UUID
	UserType     string

	// AsOf pins the campaign snapshot. Zero means "now".
	AsOf time.Time
}

// TaxCalculator computes tax on aggregate taxable amounts. Tax is never part
// of a unit breakdown; it applies at cart/order level so discounts interact
// with the making charge, not with tax.
type TaxCalculator interface {
	// Rate resolves the effective tax rate in percent.
	Rate(ctx context.Context) (decimal.Decimal, error)

	// CalculateTax returns round(subtotal * rate / 100, 2), or zero when the
	// rate is not positive.
	CalculateTax(subtotal, rate decimal.Decimal) decimal.Decimal
}
