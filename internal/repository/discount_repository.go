package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"jewelcore/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// discountRepository implements DiscountRepository using PostgreSQL.
type discountRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewDiscountRepository creates a new PostgreSQL-backed campaign repository.
func NewDiscountRepository(pool *pgxpool.Pool, logger zerolog.Logger) DiscountRepository {
	return &discountRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "discount").Logger(),
	}
}

// ActiveCampaigns returns active campaigns whose validity window contains at.
func (r *discountRepository) ActiveCampaigns(ctx context.Context, at time.Time) ([]model.DiscountCampaign, error) {
	query := `
		SELECT id, name, kind, value, auto_apply, active,
		       brand_id, category_id, user_group_id, user_types,
		       min_line_subtotal, starts_at, ends_at
		FROM discount_campaigns
		WHERE active = true
		  AND (starts_at IS NULL OR starts_at <= $1)
		  AND (ends_at IS NULL OR ends_at >= $1)
	`

	rows, err := r.pool.Query(ctx, query, at)
	if err != nil {
		return nil, fmt.Errorf("failed to query campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []model.DiscountCampaign
	for rows.Next() {
		var (
			c         model.DiscountCampaign
			typesJSON []byte
		)
		err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Kind,
			&c.Value,
			&c.AutoApply,
			&c.Active,
			&c.BrandID,
			&c.CategoryID,
			&c.UserGroupID,
			&typesJSON,
			&c.MinLineSubtotal,
			&c.StartsAt,
			&c.EndsAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		if err := json.Unmarshal(typesJSON, &c.UserTypes); err != nil {
			return nil, fmt.Errorf("failed to decode campaign user types: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating campaigns: %w", err)
	}

	r.logger.Debug().Int("count", len(campaigns)).Time("at", at).Msg("active campaigns loaded")

	return campaigns, nil
}
