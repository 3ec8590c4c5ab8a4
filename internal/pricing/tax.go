package pricing

import (
	"context"

	"jewelcore/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// defaultTaxRate is the regional GST rate on jewellery, applied when neither
// a configuration override nor an active tax-rate record exists.
var defaultTaxRate = decimal.NewFromInt(3)

// taxCalculator implements TaxCalculator.
type taxCalculator struct {
	repo   repository.TaxRepository
	logger zerolog.Logger

	// override takes precedence over the repository when non-nil.
	override *decimal.Decimal
}

// NewTaxCalculator creates a tax calculator. A non-nil override rate wins
// over any database record.
func NewTaxCalculator(repo repository.TaxRepository, override *decimal.Decimal, logger zerolog.Logger) TaxCalculator {
	return &taxCalculator{
		repo:     repo,
		override: override,
		logger:   logger.With().Str("component", "tax-calculator").Logger(),
	}
}

// Rate resolves the effective tax rate in percent: explicit override first,
// then the first active tax-rate record by lowest id, then the regional
// default.
func (t *taxCalculator) Rate(ctx context.Context) (decimal.Decimal, error) {
	if t.override != nil {
		return *t.override, nil
	}

	rate, found, err := t.repo.FirstActiveRate(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if found {
		return rate, nil
	}

	t.logger.Debug().Str("rate", defaultTaxRate.String()).Msg("falling back to default tax rate")
	return defaultTaxRate, nil
}

// CalculateTax returns round(subtotal * rate / 100, 2), or zero when rate is
// not positive.
func (t *taxCalculator) CalculateTax(subtotal, rate decimal.Decimal) decimal.Decimal {
	if !rate.IsPositive() {
		return decimal.Zero
	}
	return subtotal.Mul(rate).Div(oneHundred).Round(2)
}
