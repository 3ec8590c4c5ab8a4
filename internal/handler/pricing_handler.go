package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"jewelcore/internal/model"
	"jewelcore/internal/pricing"
	"jewelcore/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PricingHandler exposes price previews without creating a quotation.
type PricingHandler struct {
	products repository.ProductRepository
	engine   pricing.Engine
	logger   zerolog.Logger
}

// NewPricingHandler creates a new pricing handler.
func NewPricingHandler(products repository.ProductRepository, engine pricing.Engine, logger zerolog.Logger) *PricingHandler {
	return &PricingHandler{
		products: products,
		engine:   engine,
		logger:   logger.With().Str("handler", "pricing").Logger(),
	}
}

type previewRequest struct {
	ProductID   uuid.UUID  `json:"productId"`
	VariantID   *uuid.UUID `json:"variantId,omitempty"`
	Quantity    int        `json:"quantity"`
	UserType    string     `json:"userType,omitempty"`
	UserGroupID *uuid.UUID `json:"userGroupId,omitempty"`
	AsOf        *time.Time `json:"asOf,omitempty"`
}

type previewResponse struct {
	Unit     model.PriceBreakdown `json:"unit"`
	Quantity int                  `json:"quantity"`
}

// Preview handles POST /api/v1/pricing/preview.
func (h *PricingHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := h.products.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	if product == nil {
		writeDomainError(w, model.ErrProductNotFound, h.logger)
		return
	}

	var variant *model.Variant
	if req.VariantID != nil {
		variant, err = h.products.GetVariant(r.Context(), *req.VariantID)
		if err != nil {
			writeDomainError(w, err, h.logger)
			return
		}
		if variant == nil {
			writeDomainError(w, model.ErrVariantNotFound, h.logger)
			return
		}
	}

	pctx := pricing.PriceContext{
		UserGroupID: req.UserGroupID,
		UserType:    req.UserType,
	}
	if req.AsOf != nil {
		pctx.AsOf = *req.AsOf
	}

	unit, err := h.engine.Calculate(r.Context(), product, variant, req.Quantity, pctx)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, previewResponse{Unit: unit, Quantity: req.Quantity})
}
