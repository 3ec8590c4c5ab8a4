package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"jewelcore/internal/model"
	"jewelcore/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// QuotationHandler handles quotation-related HTTP requests.
type QuotationHandler struct {
	service service.QuotationService
	logger  zerolog.Logger
}

// NewQuotationHandler creates a new quotation handler.
func NewQuotationHandler(service service.QuotationService, logger zerolog.Logger) *QuotationHandler {
	return &QuotationHandler{
		service: service,
		logger:  logger.With().Str("handler", "quotation").Logger(),
	}
}

// Create handles POST /api/v1/quotations.
func (h *QuotationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateQuotationInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	quotation, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, quotation)
}

// GetByID handles GET /api/v1/quotations/{id}.
func (h *QuotationHandler) GetByID(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	quotation, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, quotation)
}

type approveRequest struct {
	AdminNote   *string    `json:"adminNote,omitempty"`
	UserType    string     `json:"userType,omitempty"`
	UserGroupID *uuid.UUID `json:"userGroupId,omitempty"`
}

// Approve handles POST /api/v1/quotations/{id}/approve.
func (h *QuotationHandler) Approve(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req approveRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
			return
		}
	}

	result, err := h.service.Approve(r.Context(), id, service.ApproveInput{
		AdminNote:   req.AdminNote,
		UserType:    req.UserType,
		UserGroupID: req.UserGroupID,
	})
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

type rejectRequest struct {
	AdminNote *string `json:"adminNote,omitempty"`
}

// Reject handles POST /api/v1/quotations/{id}/reject.
func (h *QuotationHandler) Reject(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req rejectRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
			return
		}
	}

	if err := h.service.Reject(r.Context(), id, req.AdminNote); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
}

type requestConfirmationRequest struct {
	Message string `json:"message"`
}

// RequestConfirmation handles POST /api/v1/quotations/{id}/request-confirmation.
func (h *QuotationHandler) RequestConfirmation(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req requestConfirmationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "message is required", h.logger)
		return
	}

	if err := h.service.RequestConfirmation(r.Context(), id, req.Message); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "confirmation_requested"})
}

type respondRequest struct {
	Accept bool    `json:"accept"`
	Note   *string `json:"note,omitempty"`
}

// Respond handles POST /api/v1/quotations/{id}/respond.
func (h *QuotationHandler) Respond(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req respondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	if err := h.service.CustomerRespond(r.Context(), id, req.Accept, req.Note); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

// AddItem handles POST /api/v1/quotations/{id}/items.
func (h *QuotationHandler) AddItem(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req service.QuotationItemInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	added, err := h.service.AddItem(r.Context(), id, req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, added)
}

// UpdateProduct handles PUT /api/v1/quotations/{id}/product.
func (h *QuotationHandler) UpdateProduct(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req service.QuotationItemInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	if err := h.service.UpdateProduct(r.Context(), id, req); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
