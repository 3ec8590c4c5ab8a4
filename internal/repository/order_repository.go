package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"jewelcore/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements OrderRepository using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Create inserts a new order within the provided transaction.
func (r *orderRepository) Create(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	breakdownJSON, err := json.Marshal(order.PriceBreakdown)
	if err != nil {
		return fmt.Errorf("failed to encode price breakdown: %w", err)
	}
	metaJSON, err := json.Marshal(orEmptyMeta(order.StatusMeta))
	if err != nil {
		return fmt.Errorf("failed to encode status meta: %w", err)
	}

	query := `
		INSERT INTO orders (id, reference, user_id, quotation_group_id, status,
		                    subtotal, discount, tax, total, price_breakdown, status_meta,
		                    created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = tx.Exec(ctx, query,
		order.ID, order.Reference, order.UserID, order.GroupID, order.Status,
		order.Subtotal, order.Discount, order.Tax, order.Total, breakdownJSON, metaJSON,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Str("reference", order.Reference).
		Msg("order created")

	return nil
}

// CreateItems inserts the order's line items within the provided transaction.
func (r *orderRepository) CreateItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, variant_id, product_name,
		                         quantity, unit_price, total_price, breakdown, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		breakdownJSON, err := json.Marshal(item.Breakdown)
		if err != nil {
			return fmt.Errorf("failed to encode item breakdown: %w", err)
		}
		batch.Queue(query,
			item.ID, item.OrderID, item.ProductID, item.VariantID, item.ProductName,
			item.Quantity, item.UnitPrice, item.TotalPrice, breakdownJSON, item.CreatedAt,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().Int("count", len(items)).Msg("order items created")

	return nil
}

const orderColumns = `
	id, reference, user_id, quotation_group_id, status,
	subtotal, discount, tax, total, price_breakdown, status_meta,
	created_at, updated_at
`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o             model.Order
		breakdownJSON []byte
		metaJSON      []byte
	)
	err := row.Scan(
		&o.ID, &o.Reference, &o.UserID, &o.GroupID, &o.Status,
		&o.Subtotal, &o.Discount, &o.Tax, &o.Total, &breakdownJSON, &metaJSON,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(breakdownJSON, &o.PriceBreakdown); err != nil {
		return nil, fmt.Errorf("failed to decode price breakdown: %w", err)
	}
	if err := json.Unmarshal(metaJSON, &o.StatusMeta); err != nil {
		return nil, fmt.Errorf("failed to decode status meta: %w", err)
	}

	return &o, nil
}

// GetByID retrieves an order by its ID.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return order, nil
}

// GetByIDForUpdate retrieves an order with a row lock inside tx.
func (r *orderRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`

	order, err := scanOrder(tx.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return order, nil
}

// UpdateStatus persists a new status and merged status-meta on the order.
func (r *orderRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.OrderStatus, meta map[string]any, at time.Time) error {
	metaJSON, err := json.Marshal(orEmptyMeta(meta))
	if err != nil {
		return fmt.Errorf("failed to encode status meta: %w", err)
	}

	query := `
		UPDATE orders
		SET status = $2, status_meta = $3, updated_at = $4
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query, id, status, metaJSON, at)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %s not updated", id)
	}

	return nil
}

// AppendHistory appends one immutable status-history row.
func (r *orderRepository) AppendHistory(ctx context.Context, tx pgx.Tx, h *model.OrderStatusHistory) error {
	metaJSON, err := json.Marshal(orEmptyMeta(h.Meta))
	if err != nil {
		return fmt.Errorf("failed to encode history meta: %w", err)
	}

	query := `
		INSERT INTO order_status_history (id, order_id, status, meta, actor_kind, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = tx.Exec(ctx, query, h.ID, h.OrderID, h.Status, metaJSON, h.ActorKind, h.ActorID, h.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append status history: %w", err)
	}

	return nil
}

// GetItems retrieves the order's line items.
func (r *orderRepository) GetItems(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, variant_id, product_name,
		       quantity, unit_price, total_price, breakdown, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var (
			item          model.OrderItem
			breakdownJSON []byte
		)
		err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.VariantID, &item.ProductName,
			&item.Quantity, &item.UnitPrice, &item.TotalPrice, &breakdownJSON, &item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		if err := json.Unmarshal(breakdownJSON, &item.Breakdown); err != nil {
			return nil, fmt.Errorf("failed to decode item breakdown: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}

// GetHistory retrieves the order's status history, oldest first.
func (r *orderRepository) GetHistory(ctx context.Context, orderID uuid.UUID) ([]model.OrderStatusHistory, error) {
	query := `
		SELECT id, order_id, status, meta, actor_kind, actor_id, created_at
		FROM order_status_history
		WHERE order_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query status history: %w", err)
	}
	defer rows.Close()

	var history []model.OrderStatusHistory
	for rows.Next() {
		var (
			h        model.OrderStatusHistory
			metaJSON []byte
		)
		if err := rows.Scan(&h.ID, &h.OrderID, &h.Status, &metaJSON, &h.ActorKind, &h.ActorID, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		if err := json.Unmarshal(metaJSON, &h.Meta); err != nil {
			return nil, fmt.Errorf("failed to decode history meta: %w", err)
		}
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status history: %w", err)
	}

	return history, nil
}

// orEmptyMeta keeps JSONB columns as objects rather than SQL nulls.
func orEmptyMeta(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
