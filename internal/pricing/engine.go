package pricing

import (
	"context"
	"time"

	"jewelcore/internal/model"
	"jewelcore/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// engine implements Engine.
type engine struct {
	rates    *RateLookup
	products repository.ProductRepository
	resolver DiscountResolver
	logger   zerolog.Logger
	now      func() time.Time
}

// NewEngine creates the pricing engine.
func NewEngine(
	rates *RateLookup,
	products repository.ProductRepository,
	resolver DiscountResolver,
	logger zerolog.Logger,
) Engine {
	return &engine{
		rates:    rates,
		products: products,
		resolver: resolver,
		logger:   logger.With().Str("component", "pricing-engine").Logger(),
		now:      time.Now,
	}
}

// Calculate computes the per-unit price breakdown. All monetary fields are
// rounded to 2 decimal places; Tax is always zero at unit level.
func (e *engine) Calculate(ctx context.Context, product *model.Product, variant *model.Variant, quantity int, pctx PriceContext) (model.PriceBreakdown, error) {
	if product == nil {
		return model.PriceBreakdown{}, model.ErrProductNotFound
	}
	if quantity < 1 {
		return model.PriceBreakdown{}, model.ErrInvalidQuantity
	}

	asOf := pctx.AsOf
	if asOf.IsZero() {
		asOf = e.now()
	}

	metalCost, err := e.metalCost(ctx, variant, asOf)
	if err != nil {
		return model.PriceBreakdown{}, err
	}

	diamondCost, err := e.diamondCost(ctx, variant)
	if err != nil {
		return model.PriceBreakdown{}, err
	}

	making := MakingCharge(product, metalCost)
	subtotal := metalCost.Add(diamondCost).Add(making).Round(2)

	descriptor, err := e.resolver.Resolve(ctx, ResolveInput{
		Product:      *product,
		Making:       making,
		LineSubtotal: subtotal.Mul(decimal.NewFromInt(int64(quantity))).Round(2),
		UserGroupID:  pctx.UserGroupID,
		UserType:     pctx.UserType,
		AsOf:         asOf,
	})
	if err != nil {
		return model.PriceBreakdown{}, err
	}

	// The unit discount can never exceed the making charge or go negative.
	unitDiscount := decimal.Min(descriptor.Amount, making)
	if unitDiscount.IsNegative() {
		unitDiscount = decimal.Zero
	}
	unitDiscount = unitDiscount.Round(2)

	total := subtotal.Sub(unitDiscount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	breakdown := model.PriceBreakdown{
		Metal:    metalCost,
		Diamond:  diamondCost,
		Making:   making,
		Subtotal: subtotal,
		Discount: unitDiscount,
		Tax:      decimal.Zero,
		Total:    total.Round(2),
	}
	if !descriptor.IsZero() {
		descriptor.Amount = unitDiscount
		breakdown.DiscountDetails = &descriptor
	}

	e.logger.Debug().
		Str("product_id", product.ID.String()).
		Int("quantity", quantity).
		Str("subtotal", breakdown.Subtotal.String()).
		Str("discount", breakdown.Discount.String()).
		Msg("price calculated")

	return breakdown, nil
}

// metalCost sums weight * rate across the variant's metal lines, rounding
// once after summation.
func (e *engine) metalCost(ctx context.Context, variant *model.Variant, asOf time.Time) (decimal.Decimal, error) {
	if variant == nil {
		return decimal.Zero, nil
	}

	cost := decimal.Zero
	for _, line := range variant.Metals {
		rate, err := e.rates.Latest(ctx, line.Metal, line.Purity, asOf)
		if err != nil {
			return decimal.Zero, err
		}
		cost = cost.Add(line.WeightGrams.Mul(rate))
	}
	return cost.Round(2), nil
}

// diamondCost sums price * count across the variant's diamond lines.
func (e *engine) diamondCost(ctx context.Context, variant *model.Variant) (decimal.Decimal, error) {
	if variant == nil || len(variant.Diamonds) == 0 {
		return decimal.Zero, nil
	}

	ids := make([]uuid.UUID, len(variant.Diamonds))
	for i, line := range variant.Diamonds {
		ids[i] = line.DiamondID
	}

	diamonds, err := e.products.GetDiamondsByIDs(ctx, ids)
	if err != nil {
		return decimal.Zero, err
	}

	cost := decimal.Zero
	for _, line := range variant.Diamonds {
		d, ok := diamonds[line.DiamondID]
		if !ok {
			// Same degradation rule as a missing metal rate.
			e.logger.Warn().
				Str("diamond_id", line.DiamondID.String()).
				Msg("diamond not on record, line priced at zero")
			continue
		}
		cost = cost.Add(d.UnitPrice.Mul(decimal.NewFromInt(int64(line.Count))))
	}
	return cost.Round(2), nil
}
