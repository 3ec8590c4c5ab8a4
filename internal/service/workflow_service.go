package service

import (
	"context"
	"fmt"
	"time"

	"jewelcore/internal/model"
	"jewelcore/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// workflowService implements OrderWorkflow.
type workflowService struct {
	orderRepo repository.OrderRepository
	logger    zerolog.Logger
	now       func() time.Time
}

// NewOrderWorkflow creates the order workflow service.
func NewOrderWorkflow(orderRepo repository.OrderRepository, logger zerolog.Logger) OrderWorkflow {
	return &workflowService{
		orderRepo: orderRepo,
		logger:    logger.With().Str("service", "order-workflow").Logger(),
		now:       time.Now,
	}
}

// TransitionOrder sets a new status and appends the matching history row in
// one transaction. Partial application (status without history) is never
// observable.
func (s *workflowService) TransitionOrder(ctx context.Context, orderID uuid.UUID, status model.OrderStatus, metaPatch map[string]any, actorID *uuid.UUID, actorKind model.ActorKind) (*model.Order, error) {
	if !status.Known() {
		return nil, model.ErrUnknownStatus
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to transition order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	order, err := s.orderRepo.GetByIDForUpdate(ctx, tx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		err = model.ErrOrderNotFound
		return nil, err
	}

	now := s.now()

	// Shallow merge: patch keys overwrite existing status-meta keys.
	merged := make(map[string]any, len(order.StatusMeta)+len(metaPatch))
	for k, v := range order.StatusMeta {
		merged[k] = v
	}
	for k, v := range metaPatch {
		merged[k] = v
	}

	if err = s.orderRepo.UpdateStatus(ctx, tx, orderID, status, merged, now); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	historyMeta := make(map[string]any, len(metaPatch)+2)
	for k, v := range metaPatch {
		historyMeta[k] = v
	}
	historyMeta["actor_kind"] = string(actorKind)
	// History links to the customer table; admin identities live elsewhere.
	var historyActor *uuid.UUID
	if actorKind == model.ActorKindCustomer && actorID != nil {
		historyActor = actorID
		historyMeta["actor_id"] = actorID.String()
	}

	history := &model.OrderStatusHistory{
		ID:        uuid.New(),
		OrderID:   orderID,
		Status:    status,
		Meta:      historyMeta,
		ActorKind: actorKind,
		ActorID:   historyActor,
		CreatedAt: now,
	}

	if err = s.orderRepo.AppendHistory(ctx, tx, history); err != nil {
		return nil, fmt.Errorf("failed to append status history: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transition: %w", err)
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("from", string(order.Status)).
		Str("to", string(status)).
		Str("actor_kind", string(actorKind)).
		Msg("order transitioned")

	order.Status = status
	order.StatusMeta = merged
	order.UpdatedAt = now

	return order, nil
}

// GetOrder retrieves an order with its items and history.
func (s *workflowService) GetOrder(ctx context.Context, id uuid.UUID) (*OrderDetail, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	items, err := s.orderRepo.GetItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}

	history, err := s.orderRepo.GetHistory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order history: %w", err)
	}

	return &OrderDetail{Order: *order, Items: items, History: history}, nil
}
