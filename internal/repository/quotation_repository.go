package repository

import (
	"context"
	"fmt"
	"time"

	"jewelcore/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// quotationRepository implements QuotationRepository using PostgreSQL.
type quotationRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewQuotationRepository creates a new PostgreSQL-backed quotation repository.
func NewQuotationRepository(pool *pgxpool.Pool, logger zerolog.Logger) QuotationRepository {
	return &quotationRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "quotation").Logger(),
	}
}

const quotationColumns = `
	id, user_id, quotation_group_id, product_id, variant_id, quantity,
	status, admin_note, order_id, approved_at, created_at, updated_at
`

func scanQuotation(row pgx.Row, q *model.Quotation) error {
	return row.Scan(
		&q.ID,
		&q.UserID,
		&q.GroupID,
		&q.ProductID,
		&q.VariantID,
		&q.Quantity,
		&q.Status,
		&q.AdminNote,
		&q.OrderID,
		&q.ApprovedAt,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
}

// Create inserts a new quotation line, inside tx when one is given.
func (r *quotationRepository) Create(ctx context.Context, tx pgx.Tx, q *model.Quotation) error {
	query := `
		INSERT INTO quotations (id, user_id, quotation_group_id, product_id, variant_id,
		                        quantity, status, admin_note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	args := []any{
		q.ID, q.UserID, q.GroupID, q.ProductID, q.VariantID,
		q.Quantity, q.Status, q.AdminNote, q.CreatedAt, q.UpdatedAt,
	}

	var err error
	if tx != nil {
		_, err = tx.Exec(ctx, query, args...)
	} else {
		_, err = r.pool.Exec(ctx, query, args...)
	}
	if err != nil {
		return fmt.Errorf("failed to create quotation: %w", err)
	}

	r.logger.Debug().
		Str("quotation_id", q.ID.String()).
		Str("group_id", q.GroupID.String()).
		Msg("quotation created")

	return nil
}

// GetByID retrieves a quotation by its ID.
func (r *quotationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Quotation, error) {
	query := `SELECT ` + quotationColumns + ` FROM quotations WHERE id = $1`

	var q model.Quotation
	if err := scanQuotation(r.pool.QueryRow(ctx, query, id), &q); err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("quotation_id", id.String()).Msg("quotation not found")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query quotation: %w", err)
	}

	return &q, nil
}

// LockGroup serialises conversions of the same group. The advisory lock is
// scoped to the surrounding transaction and released on commit or rollback.
func (r *quotationRepository) LockGroup(ctx context.Context, tx pgx.Tx, groupID uuid.UUID) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`, groupID); err != nil {
		return fmt.Errorf("failed to lock quotation group: %w", err)
	}
	return nil
}

// GroupMembers retrieves the group's quotations restricted to statuses.
// With a transaction the rows are locked FOR UPDATE.
func (r *quotationRepository) GroupMembers(ctx context.Context, tx pgx.Tx, groupID uuid.UUID, statuses []model.QuotationStatus) ([]model.Quotation, error) {
	query := `SELECT ` + quotationColumns + ` FROM quotations WHERE quotation_group_id = $1`
	args := []any{groupID}

	if len(statuses) > 0 {
		query += ` AND status = ANY($2)`
		strs := make([]string, len(statuses))
		for i, s := range statuses {
			strs[i] = string(s)
		}
		args = append(args, strs)
	}

	query += ` ORDER BY created_at, id`

	var (
		rows pgx.Rows
		err  error
	)
	if tx != nil {
		query += ` FOR UPDATE`
		rows, err = tx.Query(ctx, query, args...)
	} else {
		rows, err = r.pool.Query(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query group members: %w", err)
	}
	defer rows.Close()

	var members []model.Quotation
	for rows.Next() {
		var q model.Quotation
		if err := scanQuotation(rows, &q); err != nil {
			return nil, fmt.Errorf("failed to scan quotation: %w", err)
		}
		members = append(members, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quotations: %w", err)
	}

	return members, nil
}

// MarkApproved stamps the given quotations approved with the order linkage.
func (r *quotationRepository) MarkApproved(ctx context.Context, tx pgx.Tx, ids []uuid.UUID, orderID uuid.UUID, approvedAt time.Time) error {
	query := `
		UPDATE quotations
		SET status = $2, order_id = $3, approved_at = $4, updated_at = $4
		WHERE id = ANY($1)
	`

	tag, err := tx.Exec(ctx, query, ids, model.QuotationStatusApproved, orderID, approvedAt)
	if err != nil {
		return fmt.Errorf("failed to mark quotations approved: %w", err)
	}
	if tag.RowsAffected() != int64(len(ids)) {
		return fmt.Errorf("expected %d quotations to approve, updated %d", len(ids), tag.RowsAffected())
	}

	return nil
}

// UpdateGroupStatus moves matching group members to the target status.
func (r *quotationRepository) UpdateGroupStatus(ctx context.Context, tx pgx.Tx, groupID uuid.UUID, from []model.QuotationStatus, to model.QuotationStatus, note *string) (int64, error) {
	strs := make([]string, len(from))
	for i, s := range from {
		strs[i] = string(s)
	}

	query := `
		UPDATE quotations
		SET status = $3,
		    admin_note = COALESCE($4, admin_note),
		    updated_at = now()
		WHERE quotation_group_id = $1 AND status = ANY($2)
	`

	var (
		tag pgconn.CommandTag
		err error
	)
	if tx != nil {
		tag, err = tx.Exec(ctx, query, groupID, strs, to, note)
	} else {
		tag, err = r.pool.Exec(ctx, query, groupID, strs, to, note)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to update group status: %w", err)
	}

	r.logger.Debug().
		Str("group_id", groupID.String()).
		Str("status", string(to)).
		Int64("rows", tag.RowsAffected()).
		Msg("group status updated")

	return tag.RowsAffected(), nil
}

// UpdateItem rewrites a quotation's product, variant and quantity.
func (r *quotationRepository) UpdateItem(ctx context.Context, tx pgx.Tx, id uuid.UUID, productID uuid.UUID, variantID *uuid.UUID, quantity int) error {
	query := `
		UPDATE quotations
		SET product_id = $2, variant_id = $3, quantity = $4, updated_at = now()
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query, id, productID, variantID, quantity)
	if err != nil {
		return fmt.Errorf("failed to update quotation item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("quotation %s not updated", id)
	}

	return nil
}

// CreateMessage appends a negotiation message for the group.
func (r *quotationRepository) CreateMessage(ctx context.Context, tx pgx.Tx, msg *model.QuotationMessage) error {
	query := `
		INSERT INTO quotation_messages (id, quotation_group_id, actor_kind, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	var err error
	if tx != nil {
		_, err = tx.Exec(ctx, query, msg.ID, msg.GroupID, msg.ActorKind, msg.Body, msg.CreatedAt)
	} else {
		_, err = r.pool.Exec(ctx, query, msg.ID, msg.GroupID, msg.ActorKind, msg.Body, msg.CreatedAt)
	}
	if err != nil {
		return fmt.Errorf("failed to create quotation message: %w", err)
	}

	return nil
}
