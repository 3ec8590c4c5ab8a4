package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jewelcore/internal/model"
	"jewelcore/internal/notify"
	"jewelcore/internal/pricing"
	"jewelcore/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// openQuotationStatuses are the non-terminal states a negotiation cycle may
// move between.
var openQuotationStatuses = []model.QuotationStatus{
	model.QuotationStatusPending,
	model.QuotationStatusPendingConfirmation,
	model.QuotationStatusCustomerConfirmed,
	model.QuotationStatusCustomerDeclined,
}

// quotationService implements QuotationService.
type quotationService struct {
	quotationRepo repository.QuotationRepository
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	engine        pricing.Engine
	tax           pricing.TaxCalculator
	notifier      notify.Notifier
	logger        zerolog.Logger
	now           func() time.Time
}

// NewQuotationService creates the quotation service.
func NewQuotationService(
	quotationRepo repository.QuotationRepository,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	engine pricing.Engine,
	tax pricing.TaxCalculator,
	notifier notify.Notifier,
	logger zerolog.Logger,
) QuotationService {
	return &quotationService{
		quotationRepo: quotationRepo,
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		engine:        engine,
		tax:           tax,
		notifier:      notifier,
		logger:        logger.With().Str("service", "quotation").Logger(),
		now:           time.Now,
	}
}

// Create opens a new pending quotation line. An explicit group id is
// mandatory; implicit time-window grouping is not supported.
func (s *quotationService) Create(ctx context.Context, in CreateQuotationInput) (*model.Quotation, error) {
	if in.GroupID == uuid.Nil {
		return nil, model.ErrMissingGroup
	}
	if in.Quantity < 1 {
		return nil, model.ErrInvalidQuantity
	}

	if err := s.validateSelection(ctx, in.ProductID, in.VariantID); err != nil {
		return nil, err
	}

	now := s.now()
	q := &model.Quotation{
		ID:        uuid.New(),
		UserID:    in.UserID,
		GroupID:   in.GroupID,
		ProductID: in.ProductID,
		VariantID: in.VariantID,
		Quantity:  in.Quantity,
		Status:    model.QuotationStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.quotationRepo.Create(ctx, nil, q); err != nil {
		return nil, fmt.Errorf("failed to create quotation: %w", err)
	}

	s.logger.Info().
		Str("quotation_id", q.ID.String()).
		Str("group_id", q.GroupID.String()).
		Msg("quotation created")

	return q, nil
}

// GetByID retrieves one quotation line.
func (s *quotationService) GetByID(ctx context.Context, id uuid.UUID) (*model.Quotation, error) {
	q, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}
	if q == nil {
		return nil, model.ErrQuotationNotFound
	}
	return q, nil
}

// Approve converts the quotation's group into an order. All database
// mutations happen in one transaction; a rival approval of the same group is
// serialised by the group advisory lock and fails its precondition re-check.
func (s *quotationService) Approve(ctx context.Context, quotationID uuid.UUID, in ApproveInput) (*ApprovalResult, error) {
	quotation, err := s.GetByID(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	if !quotation.Status.Approvable() {
		return nil, model.ErrNotApprovable
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to approve quotation: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback conversion")
			}
		}
	}()

	if err = s.quotationRepo.LockGroup(ctx, tx, quotation.GroupID); err != nil {
		return nil, fmt.Errorf("failed to approve quotation: %w", err)
	}

	// Re-check after the lock: a rival conversion may have won the race.
	members, err := s.quotationRepo.GroupMembers(ctx, tx, quotation.GroupID, model.ApprovableQuotationStatuses)
	if err != nil {
		return nil, fmt.Errorf("failed to load group members: %w", err)
	}
	if len(members) == 0 {
		err = model.ErrEmptyApprovalSet
		return nil, err
	}

	// One snapshot instant for every line so a rate change cannot land
	// mid-conversion.
	now := s.now()

	order, items, err := s.buildOrder(ctx, members, in, now)
	if err != nil {
		return nil, err
	}

	if err = s.orderRepo.Create(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	if err = s.orderRepo.CreateItems(ctx, tx, items); err != nil {
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	memberIDs := make([]uuid.UUID, len(members))
	for i, m := range members {
		memberIDs[i] = m.ID
	}

	if err = s.quotationRepo.MarkApproved(ctx, tx, memberIDs, order.ID, now); err != nil {
		return nil, fmt.Errorf("failed to mark quotations approved: %w", err)
	}

	for _, m := range members {
		if m.VariantID == nil {
			continue
		}
		// The statement only touches finite inventory and clamps at zero.
		if err = s.productRepo.DecrementInventory(ctx, tx, *m.VariantID, m.Quantity); err != nil {
			return nil, fmt.Errorf("failed to adjust inventory: %w", err)
		}
	}

	quotationIDStrings := make([]string, len(memberIDs))
	for i, id := range memberIDs {
		quotationIDStrings[i] = id.String()
	}
	historyMeta := map[string]any{
		"source":        "quotation_approval",
		"quotation_ids": quotationIDStrings,
	}
	if in.AdminNote != nil {
		historyMeta["admin_note"] = *in.AdminNote
	}

	history := &model.OrderStatusHistory{
		ID:        uuid.New(),
		OrderID:   order.ID,
		Status:    order.Status,
		Meta:      historyMeta,
		ActorKind: model.ActorKindAdmin,
		CreatedAt: now,
	}
	if err = s.orderRepo.AppendHistory(ctx, tx, history); err != nil {
		return nil, fmt.Errorf("failed to append order history: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit conversion: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("reference", order.Reference).
		Str("group_id", quotation.GroupID.String()).
		Int("items", len(items)).
		Msg("quotation group converted to order")

	// Post-commit, best-effort. A delivery failure never unwinds the order.
	if notifyErr := s.notifier.OrderConfirmed(ctx, notify.OrderConfirmedEvent{
		OrderID:      order.ID,
		Reference:    order.Reference,
		UserID:       order.UserID,
		Total:        order.Total,
		QuotationIDs: memberIDs,
		ConfirmedAt:  now,
	}); notifyErr != nil {
		s.logger.Warn().Err(notifyErr).Str("order_id", order.ID.String()).Msg("order confirmation notification failed")
	}

	return &ApprovalResult{
		OrderID:      order.ID,
		Reference:    order.Reference,
		QuotationIDs: memberIDs,
		Message:      fmt.Sprintf("Quotation group converted to order %s", order.Reference),
	}, nil
}

// buildOrder prices every member against one snapshot instant and assembles
// the order with its items.
func (s *quotationService) buildOrder(ctx context.Context, members []model.Quotation, in ApproveInput, now time.Time) (*model.Order, []model.OrderItem, error) {
	var (
		subtotal   = decimal.Zero
		discount   = decimal.Zero
		breakdowns = make([]model.OrderLineBreakdown, 0, len(members))
		items      = make([]model.OrderItem, 0, len(members))
	)

	orderID := uuid.New()
	pctx := pricing.PriceContext{
		UserGroupID: in.UserGroupID,
		UserType:    in.UserType,
		AsOf:        now,
	}

	for _, m := range members {
		product, err := s.productRepo.GetProduct(ctx, m.ProductID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load product: %w", err)
		}
		if product == nil {
			return nil, nil, model.ErrProductNotFound
		}

		var variant *model.Variant
		if m.VariantID != nil {
			variant, err = s.productRepo.GetVariant(ctx, *m.VariantID)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to load variant: %w", err)
			}
			if variant == nil {
				return nil, nil, model.ErrVariantNotFound
			}
		}

		unit, err := s.engine.Calculate(ctx, product, variant, m.Quantity, pctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to price quotation %s: %w", m.ID, err)
		}

		lineSubtotal := unit.LineSubtotal(m.Quantity)
		lineDiscount := unit.LineDiscount(m.Quantity)
		subtotal = subtotal.Add(lineSubtotal)
		discount = discount.Add(lineDiscount)

		breakdowns = append(breakdowns, model.OrderLineBreakdown{
			QuotationID: m.ID,
			ProductID:   m.ProductID,
			Quantity:    m.Quantity,
			Unit:        unit,
			Subtotal:    lineSubtotal,
			Discount:    lineDiscount,
		})

		items = append(items, model.OrderItem{
			ID:          uuid.New(),
			OrderID:     orderID,
			ProductID:   m.ProductID,
			VariantID:   m.VariantID,
			ProductName: product.Name,
			Quantity:    m.Quantity,
			UnitPrice:   unit.Total,
			TotalPrice:  unit.Total.Mul(decimal.NewFromInt(int64(m.Quantity))).Round(2),
			Breakdown:   unit,
			CreatedAt:   now,
		})
	}

	subtotal = subtotal.Round(2)
	discount = discount.Round(2)
	taxable := subtotal.Sub(discount)

	rate, err := s.tax.Rate(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve tax rate: %w", err)
	}
	taxAmount := s.tax.CalculateTax(taxable, rate)
	total := taxable.Add(taxAmount).Round(2)

	groupID := members[0].GroupID
	order := &model.Order{
		ID:             orderID,
		Reference:      newOrderReference(now),
		UserID:         members[0].UserID,
		GroupID:        &groupID,
		Status:         model.OrderStatusInProduction,
		Subtotal:       subtotal,
		Discount:       discount,
		Tax:            taxAmount,
		Total:          total,
		PriceBreakdown: breakdowns,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	return order, items, nil
}

// Reject marks every open member of the group rejected. Members already
// approved keep their order linkage untouched.
func (s *quotationService) Reject(ctx context.Context, quotationID uuid.UUID, adminNote *string) error {
	quotation, err := s.GetByID(ctx, quotationID)
	if err != nil {
		return err
	}

	changed, err := s.quotationRepo.UpdateGroupStatus(ctx, nil, quotation.GroupID, openQuotationStatuses, model.QuotationStatusRejected, adminNote)
	if err != nil {
		return fmt.Errorf("failed to reject quotation group: %w", err)
	}
	if changed == 0 {
		return model.ErrEmptyApprovalSet
	}

	s.logger.Info().
		Str("group_id", quotation.GroupID.String()).
		Int64("rejected", changed).
		Msg("quotation group rejected")

	note := ""
	if adminNote != nil {
		note = *adminNote
	}
	if notifyErr := s.notifier.QuotationRejected(ctx, notify.QuotationRejectedEvent{
		GroupID:    quotation.GroupID,
		UserID:     quotation.UserID,
		Note:       note,
		RejectedAt: s.now(),
	}); notifyErr != nil {
		s.logger.Warn().Err(notifyErr).Str("group_id", quotation.GroupID.String()).Msg("rejection notification failed")
	}

	return nil
}

// RequestConfirmation re-opens the customer-confirmation gate and records a
// negotiation message, atomically.
func (s *quotationService) RequestConfirmation(ctx context.Context, quotationID uuid.UUID, message string) error {
	quotation, err := s.GetByID(ctx, quotationID)
	if err != nil {
		return err
	}

	err = s.withTx(ctx, func(tx pgx.Tx) error {
		if err := s.reopenGroup(ctx, tx, quotation.GroupID, model.ActorKindAdmin, message); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notifyConfirmationRequested(ctx, quotation, message)

	return nil
}

// AddItem appends a new line to the group and re-opens the confirmation gate.
func (s *quotationService) AddItem(ctx context.Context, quotationID uuid.UUID, in QuotationItemInput) (*model.Quotation, error) {
	quotation, err := s.GetByID(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	if in.Quantity < 1 {
		return nil, model.ErrInvalidQuantity
	}
	if err := s.validateSelection(ctx, in.ProductID, in.VariantID); err != nil {
		return nil, err
	}

	now := s.now()
	added := &model.Quotation{
		ID:        uuid.New(),
		UserID:    quotation.UserID,
		GroupID:   quotation.GroupID,
		ProductID: in.ProductID,
		VariantID: in.VariantID,
		Quantity:  in.Quantity,
		Status:    model.QuotationStatusPendingConfirmation,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.withTx(ctx, func(tx pgx.Tx) error {
		if err := s.quotationRepo.Create(ctx, tx, added); err != nil {
			return fmt.Errorf("failed to add quotation item: %w", err)
		}
		return s.reopenGroup(ctx, tx, quotation.GroupID, model.ActorKindAdmin, "Item added to quotation")
	})
	if err != nil {
		return nil, err
	}

	s.notifyConfirmationRequested(ctx, quotation, "Item added to quotation")

	return added, nil
}

// UpdateProduct rewrites the quotation's selection and re-opens the
// confirmation gate.
func (s *quotationService) UpdateProduct(ctx context.Context, quotationID uuid.UUID, in QuotationItemInput) error {
	quotation, err := s.GetByID(ctx, quotationID)
	if err != nil {
		return err
	}
	if in.Quantity < 1 {
		return model.ErrInvalidQuantity
	}
	if err := s.validateSelection(ctx, in.ProductID, in.VariantID); err != nil {
		return err
	}

	err = s.withTx(ctx, func(tx pgx.Tx) error {
		if err := s.quotationRepo.UpdateItem(ctx, tx, quotationID, in.ProductID, in.VariantID, in.Quantity); err != nil {
			return fmt.Errorf("failed to update quotation item: %w", err)
		}
		return s.reopenGroup(ctx, tx, quotation.GroupID, model.ActorKindAdmin, "Quotation item updated")
	})
	if err != nil {
		return err
	}

	s.notifyConfirmationRequested(ctx, quotation, "Quotation item updated")

	return nil
}

// CustomerRespond records the customer's confirm/decline for the group.
func (s *quotationService) CustomerRespond(ctx context.Context, quotationID uuid.UUID, accept bool, note *string) error {
	quotation, err := s.GetByID(ctx, quotationID)
	if err != nil {
		return err
	}

	target := model.QuotationStatusCustomerConfirmed
	if !accept {
		target = model.QuotationStatusCustomerDeclined
	}

	changed, err := s.quotationRepo.UpdateGroupStatus(ctx, nil, quotation.GroupID,
		[]model.QuotationStatus{model.QuotationStatusPendingConfirmation}, target, note)
	if err != nil {
		return fmt.Errorf("failed to record customer response: %w", err)
	}
	if changed == 0 {
		return model.ErrNotRespondable
	}

	s.logger.Info().
		Str("group_id", quotation.GroupID.String()).
		Bool("accepted", accept).
		Int64("lines", changed).
		Msg("customer responded to quotation")

	return nil
}

// validateSelection checks the product exists and that the variant, when
// given, belongs to it.
func (s *quotationService) validateSelection(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) error {
	product, err := s.productRepo.GetProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return model.ErrProductNotFound
	}

	if variantID != nil {
		variant, err := s.productRepo.GetVariant(ctx, *variantID)
		if err != nil {
			return fmt.Errorf("failed to load variant: %w", err)
		}
		if variant == nil {
			return model.ErrVariantNotFound
		}
		if variant.ProductID != productID {
			return model.ErrVariantMismatch
		}
	}

	return nil
}

// reopenGroup moves every open member back to pending_customer_confirmation
// and records the negotiation message.
func (s *quotationService) reopenGroup(ctx context.Context, tx pgx.Tx, groupID uuid.UUID, actor model.ActorKind, message string) error {
	if _, err := s.quotationRepo.UpdateGroupStatus(ctx, tx, groupID, openQuotationStatuses, model.QuotationStatusPendingConfirmation, nil); err != nil {
		return fmt.Errorf("failed to reopen confirmation gate: %w", err)
	}

	msg := &model.QuotationMessage{
		ID:        uuid.New(),
		GroupID:   groupID,
		ActorKind: actor,
		Body:      message,
		CreatedAt: s.now(),
	}
	if err := s.quotationRepo.CreateMessage(ctx, tx, msg); err != nil {
		return fmt.Errorf("failed to record quotation message: %w", err)
	}

	return nil
}

func (s *quotationService) notifyConfirmationRequested(ctx context.Context, quotation *model.Quotation, message string) {
	if err := s.notifier.ConfirmationRequested(ctx, notify.ConfirmationRequestedEvent{
		GroupID:     quotation.GroupID,
		UserID:      quotation.UserID,
		Message:     message,
		RequestedAt: s.now(),
	}); err != nil {
		s.logger.Warn().Err(err).Str("group_id", quotation.GroupID.String()).Msg("confirmation-request notification failed")
	}
}

// withTx runs fn inside one transaction with rollback on error.
func (s *quotationService) withTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// newOrderReference builds a globally unique order reference. Uniqueness is
// enforced by the database index; the UUID block makes collisions practically
// impossible.
func newOrderReference(now time.Time) string {
	block := strings.ToUpper(strings.SplitN(uuid.NewString(), "-", 2)[0])
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102"), block)
}
