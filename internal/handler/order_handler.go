package handler

import (
	"encoding/json"
	"net/http"

	"jewelcore/internal/model"
	"jewelcore/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	workflow service.OrderWorkflow
	logger   zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(workflow service.OrderWorkflow, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		workflow: workflow,
		logger:   logger.With().Str("handler", "order").Logger(),
	}
}

type transitionRequest struct {
	Status    string         `json:"status"`
	Meta      map[string]any `json:"meta,omitempty"`
	ActorKind string         `json:"actorKind"`
	ActorID   *uuid.UUID     `json:"actorId,omitempty"`
}

// Transition handles POST /api/v1/orders/{id}/transition.
func (h *OrderHandler) Transition(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "status is required", h.logger)
		return
	}

	actorKind := model.ActorKind(req.ActorKind)
	if actorKind != model.ActorKindCustomer {
		actorKind = model.ActorKindAdmin
	}

	order, err := h.workflow.TransitionOrder(r.Context(), id, model.OrderStatus(req.Status), req.Meta, req.ActorID, actorKind)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// GetByID handles GET /api/v1/orders/{id}.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	detail, err := h.workflow.GetOrder(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}
