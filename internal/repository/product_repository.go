package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"jewelcore/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements ProductRepository using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// GetProduct retrieves a product by its ID.
func (r *productRepository) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := `
		SELECT id, name, sku, brand_id, category_id, charge_kinds, fixed_charge, percent_charge, created_at
		FROM products
		WHERE id = $1
	`

	var (
		p         model.Product
		kindsJSON []byte
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.SKU,
		&p.BrandID,
		&p.CategoryID,
		&kindsJSON,
		&p.FixedCharge,
		&p.PercentCharge,
		&p.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("product_id", id.String()).Msg("product not found")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	if err := json.Unmarshal(kindsJSON, &p.ChargeKinds); err != nil {
		return nil, fmt.Errorf("failed to decode charge kinds: %w", err)
	}

	return &p, nil
}

// GetVariant retrieves a variant together with its metal and diamond lines.
func (r *productRepository) GetVariant(ctx context.Context, id uuid.UUID) (*model.Variant, error) {
	query := `
		SELECT id, product_id, inventory_quantity, created_at
		FROM variants
		WHERE id = $1
	`

	var v model.Variant
	err := r.pool.QueryRow(ctx, query, id).Scan(&v.ID, &v.ProductID, &v.InventoryQuantity, &v.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("variant_id", id.String()).Msg("variant not found")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query variant: %w", err)
	}

	metalQuery := `
		SELECT metal, purity, tone, weight_grams
		FROM variant_metal_lines
		WHERE variant_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, metalQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query metal lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line model.MetalLine
		if err := rows.Scan(&line.Metal, &line.Purity, &line.Tone, &line.WeightGrams); err != nil {
			return nil, fmt.Errorf("failed to scan metal line: %w", err)
		}
		v.Metals = append(v.Metals, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating metal lines: %w", err)
	}

	diamondQuery := `
		SELECT diamond_id, count
		FROM variant_diamond_lines
		WHERE variant_id = $1
		ORDER BY id
	`

	drows, err := r.pool.Query(ctx, diamondQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query diamond lines: %w", err)
	}
	defer drows.Close()

	for drows.Next() {
		var line model.DiamondLine
		if err := drows.Scan(&line.DiamondID, &line.Count); err != nil {
			return nil, fmt.Errorf("failed to scan diamond line: %w", err)
		}
		v.Diamonds = append(v.Diamonds, line)
	}
	if err := drows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating diamond lines: %w", err)
	}

	return &v, nil
}

// GetDiamondsByIDs retrieves diamonds keyed by ID.
func (r *productRepository) GetDiamondsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Diamond, error) {
	result := make(map[uuid.UUID]model.Diamond, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `
		SELECT id, name, unit_price
		FROM diamonds
		WHERE id = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query diamonds: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d model.Diamond
		if err := rows.Scan(&d.ID, &d.Name, &d.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan diamond: %w", err)
		}
		result[d.ID] = d
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating diamonds: %w", err)
	}

	return result, nil
}

// DecrementInventory reduces finite inventory by quantity in one conditional
// statement, clamped at zero. A read-then-write pair here would race under
// concurrent approvals touching the same variant.
func (r *productRepository) DecrementInventory(ctx context.Context, tx pgx.Tx, variantID uuid.UUID, quantity int) error {
	query := `
		UPDATE variants
		SET inventory_quantity = GREATEST(inventory_quantity - $2, 0)
		WHERE id = $1 AND inventory_quantity IS NOT NULL
	`

	tag, err := tx.Exec(ctx, query, variantID, quantity)
	if err != nil {
		return fmt.Errorf("failed to decrement inventory: %w", err)
	}

	r.logger.Debug().
		Str("variant_id", variantID.String()).
		Int("quantity", quantity).
		Int64("rows", tag.RowsAffected()).
		Msg("inventory decremented")

	return nil
}
