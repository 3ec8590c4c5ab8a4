package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// taxRepository implements TaxRepository using PostgreSQL.
type taxRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewTaxRepository creates a new PostgreSQL-backed tax rate repository.
func NewTaxRepository(pool *pgxpool.Pool, logger zerolog.Logger) TaxRepository {
	return &taxRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "tax").Logger(),
	}
}

// FirstActiveRate returns the active tax-rate record with the lowest id.
func (r *taxRepository) FirstActiveRate(ctx context.Context) (decimal.Decimal, bool, error) {
	query := `
		SELECT rate
		FROM tax_rates
		WHERE active = true
		ORDER BY id
		LIMIT 1
	`

	var rate decimal.Decimal
	err := r.pool.QueryRow(ctx, query).Scan(&rate)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Msg("no active tax rate on record")
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, fmt.Errorf("failed to query tax rate: %w", err)
	}

	return rate, true, nil
}
