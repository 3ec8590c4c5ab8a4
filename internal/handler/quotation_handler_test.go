package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"jewelcore/internal/model"
	"jewelcore/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockQuotationService is a mock implementation of QuotationService.
type MockQuotationService struct {
	mock.Mock
}

func (m *MockQuotationService) Create(ctx context.Context, in service.CreateQuotationInput) (*model.Quotation, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Quotation), args.Error(1)
}

func (m *MockQuotationService) Approve(ctx context.Context, quotationID uuid.UUID, in service.ApproveInput) (*service.ApprovalResult, error) {
	args := m.Called(ctx, quotationID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ApprovalResult), args.Error(1)
}

func (m *MockQuotationService) Reject(ctx context.Context, quotationID uuid.UUID, adminNote *string) error {
	args := m.Called(ctx, quotationID, adminNote)
	return args.Error(0)
}

func (m *MockQuotationService) RequestConfirmation(ctx context.Context, quotationID uuid.UUID, message string) error {
	args := m.Called(ctx, quotationID, message)
	return args.Error(0)
}

func (m *MockQuotationService) AddItem(ctx context.Context, quotationID uuid.UUID, in service.QuotationItemInput) (*model.Quotation, error) {
	args := m.Called(ctx, quotationID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Quotation), args.Error(1)
}

func (m *MockQuotationService) UpdateProduct(ctx context.Context, quotationID uuid.UUID, in service.QuotationItemInput) error {
	args := m.Called(ctx, quotationID, in)
	return args.Error(0)
}

func (m *MockQuotationService) CustomerRespond(ctx context.Context, quotationID uuid.UUID, accept bool, note *string) error {
	args := m.Called(ctx, quotationID, accept, note)
	return args.Error(0)
}

func (m *MockQuotationService) GetByID(ctx context.Context, id uuid.UUID) (*model.Quotation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Quotation), args.Error(1)
}

func TestQuotationHandler_Create(t *testing.T) {
	logger := zerolog.Nop()

	groupID := uuid.New()
	created := &model.Quotation{
		ID:      uuid.New(),
		GroupID: groupID,
		Status:  model.QuotationStatusPending,
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		mockReturn     *model.Quotation
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name: "Success",
			requestBody: service.CreateQuotationInput{
				UserID:    uuid.New(),
				GroupID:   groupID,
				ProductID: uuid.New(),
				Quantity:  1,
			},
			mockReturn:     created,
			expectedStatus: http.StatusCreated,
			expectService:  true,
		},
		{
			name: "Missing group",
			requestBody: service.CreateQuotationInput{
				UserID:    uuid.New(),
				ProductID: uuid.New(),
				Quantity:  1,
			},
			mockError:      model.ErrMissingGroup,
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name: "Product not found",
			requestBody: service.CreateQuotationInput{
				UserID:    uuid.New(),
				GroupID:   groupID,
				ProductID: uuid.New(),
				Quantity:  1,
			},
			mockError:      model.ErrProductNotFound,
			expectedStatus: http.StatusNotFound,
			expectService:  true,
		},
		{
			name:           "Invalid JSON",
			requestBody:    "{not-json",
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockQuotationService)
			h := NewQuotationHandler(mockService, logger)

			if tt.expectService {
				mockService.On("Create", mock.Anything, mock.AnythingOfType("service.CreateQuotationInput")).
					Return(tt.mockReturn, tt.mockError)
			}

			var body bytes.Buffer
			if s, ok := tt.requestBody.(string); ok {
				body.WriteString(s)
			} else {
				require.NoError(t, json.NewEncoder(&body).Encode(tt.requestBody))
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/quotations", &body)
			rec := httptest.NewRecorder()

			h.Create(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if !tt.expectService {
				mockService.AssertNotCalled(t, "Create")
			}
		})
	}
}

func TestQuotationHandler_Approve(t *testing.T) {
	logger := zerolog.Nop()
	quotationID := uuid.New()

	result := &service.ApprovalResult{
		OrderID:   uuid.New(),
		Reference: "ORD-20260312-AB12CD34",
	}

	mockService := new(MockQuotationService)
	h := NewQuotationHandler(mockService, logger)

	note := "approved after review"
	mockService.On("Approve", mock.Anything, quotationID, service.ApproveInput{AdminNote: &note}).
		Return(result, nil)

	body := bytes.NewBufferString(`{"adminNote": "approved after review"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotations/"+quotationID.String()+"/approve", body)
	rec := httptest.NewRecorder()

	h.Approve(rec, req, quotationID)

	require.Equal(t, http.StatusCreated, rec.Code)

	var got service.ApprovalResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, result.Reference, got.Reference)
	mockService.AssertExpectations(t)
}

func TestQuotationHandler_Approve_EmptyBody(t *testing.T) {
	logger := zerolog.Nop()
	quotationID := uuid.New()

	mockService := new(MockQuotationService)
	h := NewQuotationHandler(mockService, logger)

	mockService.On("Approve", mock.Anything, quotationID, service.ApproveInput{}).
		Return(&service.ApprovalResult{OrderID: uuid.New()}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotations/"+quotationID.String()+"/approve", nil)
	rec := httptest.NewRecorder()

	h.Approve(rec, req, quotationID)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestQuotationHandler_Approve_NotApprovable(t *testing.T) {
	logger := zerolog.Nop()
	quotationID := uuid.New()

	mockService := new(MockQuotationService)
	h := NewQuotationHandler(mockService, logger)

	mockService.On("Approve", mock.Anything, quotationID, service.ApproveInput{}).
		Return(nil, model.ErrNotApprovable)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotations/"+quotationID.String()+"/approve", nil)
	rec := httptest.NewRecorder()

	h.Approve(rec, req, quotationID)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, model.ErrCodeNotApprovable, resp.Error)
}

func TestQuotationHandler_RequestConfirmation_MissingMessage(t *testing.T) {
	logger := zerolog.Nop()
	quotationID := uuid.New()

	mockService := new(MockQuotationService)
	h := NewQuotationHandler(mockService, logger)

	body := bytes.NewBufferString(`{"message": "   "}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotations/"+quotationID.String()+"/request-confirmation", body)
	rec := httptest.NewRecorder()

	h.RequestConfirmation(rec, req, quotationID)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockService.AssertNotCalled(t, "RequestConfirmation")
}

func TestQuotationHandler_Respond(t *testing.T) {
	logger := zerolog.Nop()
	quotationID := uuid.New()

	mockService := new(MockQuotationService)
	h := NewQuotationHandler(mockService, logger)

	mockService.On("CustomerRespond", mock.Anything, quotationID, true, (*string)(nil)).Return(nil)

	body := bytes.NewBufferString(`{"accept": true}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotations/"+quotationID.String()+"/respond", body)
	rec := httptest.NewRecorder()

	h.Respond(rec, req, quotationID)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}

func TestQuotationHandler_InternalErrorIsOpaque(t *testing.T) {
	logger := zerolog.Nop()
	quotationID := uuid.New()

	mockService := new(MockQuotationService)
	h := NewQuotationHandler(mockService, logger)

	mockService.On("GetByID", mock.Anything, quotationID).Return(nil, errors.New("pool exhausted"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotations/"+quotationID.String(), nil)
	rec := httptest.NewRecorder()

	h.GetByID(rec, req, quotationID)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, model.ErrCodeInternalError, resp.Error)
	assert.NotContains(t, resp.Message, "pool exhausted")
}
