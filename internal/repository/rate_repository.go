package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// rateRepository implements RateRepository using PostgreSQL.
type rateRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewRateRepository creates a new PostgreSQL-backed metal rate repository.
func NewRateRepository(pool *pgxpool.Pool, logger zerolog.Logger) RateRepository {
	return &rateRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "rate").Logger(),
	}
}

// LatestRate returns the newest price per gram effective at or before asOf.
func (r *rateRepository) LatestRate(ctx context.Context, metal, purity string, asOf time.Time) (decimal.Decimal, bool, error) {
	query := `
		SELECT price_per_gram
		FROM metal_rates
		WHERE lower(trim(metal)) = lower(trim($1))
		  AND lower(trim(purity)) = lower(trim($2))
		  AND effective_at <= $3
		ORDER BY effective_at DESC
		LIMIT 1
	`

	var rate decimal.Decimal
	err := r.pool.QueryRow(ctx, query, metal, purity, asOf).Scan(&rate)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().
				Str("metal", metal).
				Str("purity", purity).
				Time("as_of", asOf).
				Msg("no rate on record")
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, fmt.Errorf("failed to query metal rate: %w", err)
	}

	return rate, true, nil
}
