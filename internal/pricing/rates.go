package pricing

import (
	"context"
	"time"

	"jewelcore/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RateLookup resolves point-in-time metal rates. A missing rate is not an
// error: the affected metal line contributes zero, which understates the
// price, so the miss is logged at warn level.
type RateLookup struct {
	repo   repository.RateRepository
	logger zerolog.Logger
}

// NewRateLookup creates a rate lookup over the given repository.
func NewRateLookup(repo repository.RateRepository, logger zerolog.Logger) *RateLookup {
	return &RateLookup{
		repo:   repo,
		logger: logger.With().Str("component", "rate-lookup").Logger(),
	}
}

// Latest returns the price per gram for the metal/purity pair effective at
// asOf, or zero when no rate is on record.
func (l *RateLookup) Latest(ctx context.Context, metal, purity string, asOf time.Time) (decimal.Decimal, error) {
	rate, found, err := l.repo.LatestRate(ctx, metal, purity, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	if !found {
		l.logger.Warn().
			Str("metal", metal).
			Str("purity", purity).
			Time("as_of", asOf).
			Msg("no metal rate on record, line priced at zero")
		return decimal.Zero, nil
	}
	return rate, nil
}
