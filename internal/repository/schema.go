package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the DDL for all tables the core owns or reads. Statements are
// idempotent so the migrate command can be re-run safely.
const Schema = `
CREATE TABLE IF NOT EXISTS products (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	sku TEXT NOT NULL DEFAULT '',
	brand_id UUID,
	category_id UUID,
	charge_kinds JSONB NOT NULL DEFAULT '[]',
	fixed_charge NUMERIC(15,2) NOT NULL DEFAULT 0 CHECK (fixed_charge >= 0),
	percent_charge NUMERIC(5,2) NOT NULL DEFAULT 0 CHECK (percent_charge BETWEEN 0 AND 100),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS variants (
	id UUID PRIMARY KEY,
	product_id UUID NOT NULL REFERENCES products(id),
	inventory_quantity INT CHECK (inventory_quantity >= 0),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS variant_metal_lines (
	id UUID PRIMARY KEY,
	variant_id UUID NOT NULL REFERENCES variants(id) ON DELETE CASCADE,
	metal TEXT NOT NULL,
	purity TEXT NOT NULL,
	tone TEXT NOT NULL DEFAULT '',
	weight_grams NUMERIC(10,3) NOT NULL CHECK (weight_grams >= 0)
);
CREATE INDEX IF NOT EXISTS ix_variant_metal_lines_variant ON variant_metal_lines(variant_id);

CREATE TABLE IF NOT EXISTS diamonds (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	unit_price NUMERIC(15,2) NOT NULL CHECK (unit_price >= 0)
);

CREATE TABLE IF NOT EXISTS variant_diamond_lines (
	id UUID PRIMARY KEY,
	variant_id UUID NOT NULL REFERENCES variants(id) ON DELETE CASCADE,
	diamond_id UUID NOT NULL REFERENCES diamonds(id),
	count INT NOT NULL CHECK (count > 0)
);
CREATE INDEX IF NOT EXISTS ix_variant_diamond_lines_variant ON variant_diamond_lines(variant_id);

CREATE TABLE IF NOT EXISTS metal_rates (
	id UUID PRIMARY KEY,
	metal TEXT NOT NULL,
	purity TEXT NOT NULL,
	price_per_gram NUMERIC(15,2) NOT NULL CHECK (price_per_gram >= 0),
	effective_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS ix_metal_rates_lookup
	ON metal_rates (lower(trim(metal)), lower(trim(purity)), effective_at DESC);

CREATE TABLE IF NOT EXISTS discount_campaigns (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	kind TEXT NOT NULL CHECK (kind IN ('fixed', 'percentage')),
	value NUMERIC(15,2) NOT NULL,
	auto_apply BOOLEAN NOT NULL DEFAULT false,
	active BOOLEAN NOT NULL DEFAULT true,
	brand_id UUID,
	category_id UUID,
	user_group_id UUID,
	user_types JSONB NOT NULL DEFAULT '[]',
	min_line_subtotal NUMERIC(15,2),
	starts_at TIMESTAMPTZ,
	ends_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS ix_discount_campaigns_active ON discount_campaigns(active);

CREATE TABLE IF NOT EXISTS tax_rates (
	id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	rate NUMERIC(5,2) NOT NULL CHECK (rate >= 0),
	active BOOLEAN NOT NULL DEFAULT true
);

CREATE TABLE IF NOT EXISTS quotations (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL,
	quotation_group_id UUID NOT NULL,
	product_id UUID NOT NULL REFERENCES products(id),
	variant_id UUID REFERENCES variants(id),
	quantity INT NOT NULL CHECK (quantity > 0),
	status TEXT NOT NULL DEFAULT 'pending',
	admin_note TEXT,
	order_id UUID,
	approved_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS ix_quotations_group ON quotations(quotation_group_id);

CREATE TABLE IF NOT EXISTS quotation_messages (
	id UUID PRIMARY KEY,
	quotation_group_id UUID NOT NULL,
	actor_kind TEXT NOT NULL,
	body TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS ix_quotation_messages_group ON quotation_messages(quotation_group_id);

CREATE TABLE IF NOT EXISTS orders (
	id UUID PRIMARY KEY,
	reference TEXT NOT NULL UNIQUE,
	user_id UUID NOT NULL,
	quotation_group_id UUID UNIQUE,
	status TEXT NOT NULL,
	subtotal NUMERIC(15,2) NOT NULL DEFAULT 0,
	discount NUMERIC(15,2) NOT NULL DEFAULT 0,
	tax NUMERIC(15,2) NOT NULL DEFAULT 0,
	total NUMERIC(15,2) NOT NULL DEFAULT 0,
	price_breakdown JSONB NOT NULL DEFAULT '[]',
	status_meta JSONB NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS order_items (
	id UUID PRIMARY KEY,
	order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	product_id UUID NOT NULL,
	variant_id UUID,
	product_name TEXT NOT NULL DEFAULT '',
	quantity INT NOT NULL CHECK (quantity > 0),
	unit_price NUMERIC(15,2) NOT NULL,
	total_price NUMERIC(15,2) NOT NULL,
	breakdown JSONB NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS ix_order_items_order ON order_items(order_id);

CREATE TABLE IF NOT EXISTS order_status_history (
	id UUID PRIMARY KEY,
	order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	status TEXT NOT NULL,
	meta JSONB NOT NULL DEFAULT '{}',
	actor_kind TEXT NOT NULL,
	actor_id UUID,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS ix_order_status_history_order ON order_status_history(order_id, created_at);
`

// ApplySchema executes the schema DDL against the pool.
func ApplySchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
