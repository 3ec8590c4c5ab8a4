package service

import (
	"context"
	"time"

	"jewelcore/internal/model"
	"jewelcore/internal/notify"
	"jewelcore/internal/pricing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	args := m.Called(ctx, tx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	args := m.Called(ctx, tx, items)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.OrderStatus, meta map[string]any, at time.Time) error {
	args := m.Called(ctx, tx, id, status, meta, at)
	return args.Error(0)
}

func (m *MockOrderRepository) AppendHistory(ctx context.Context, tx pgx.Tx, h *model.OrderStatusHistory) error {
	args := m.Called(ctx, tx, h)
	return args.Error(0)
}

func (m *MockOrderRepository) GetItems(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrderItem), args.Error(1)
}

func (m *MockOrderRepository) GetHistory(ctx context.Context, orderID uuid.UUID) ([]model.OrderStatusHistory, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrderStatusHistory), args.Error(1)
}

// MockQuotationRepository is a mock implementation of QuotationRepository.
type MockQuotationRepository struct {
	mock.Mock
}

func (m *MockQuotationRepository) Create(ctx context.Context, tx pgx.Tx, q *model.Quotation) error {
	args := m.Called(ctx, tx, q)
	return args.Error(0)
}

func (m *MockQuotationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Quotation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) LockGroup(ctx context.Context, tx pgx.Tx, groupID uuid.UUID) error {
	args := m.Called(ctx, tx, groupID)
	return args.Error(0)
}

func (m *MockQuotationRepository) GroupMembers(ctx context.Context, tx pgx.Tx, groupID uuid.UUID, statuses []model.QuotationStatus) ([]model.Quotation, error) {
	args := m.Called(ctx, tx, groupID, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) MarkApproved(ctx context.Context, tx pgx.Tx, ids []uuid.UUID, orderID uuid.UUID, approvedAt time.Time) error {
	args := m.Called(ctx, tx, ids, orderID, approvedAt)
	return args.Error(0)
}

func (m *MockQuotationRepository) UpdateGroupStatus(ctx context.Context, tx pgx.Tx, groupID uuid.UUID, from []model.QuotationStatus, to model.QuotationStatus, note *string) (int64, error) {
	args := m.Called(ctx, tx, groupID, from, to, note)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuotationRepository) UpdateItem(ctx context.Context, tx pgx.Tx, id uuid.UUID, productID uuid.UUID, variantID *uuid.UUID, quantity int) error {
	args := m.Called(ctx, tx, id, productID, variantID, quantity)
	return args.Error(0)
}

func (m *MockQuotationRepository) CreateMessage(ctx context.Context, tx pgx.Tx, msg *model.QuotationMessage) error {
	args := m.Called(ctx, tx, msg)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) GetVariant(ctx context.Context, id uuid.UUID) (*model.Variant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Variant), args.Error(1)
}

func (m *MockProductRepository) GetDiamondsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Diamond, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]model.Diamond), args.Error(1)
}

func (m *MockProductRepository) DecrementInventory(ctx context.Context, tx pgx.Tx, variantID uuid.UUID, quantity int) error {
	args := m.Called(ctx, tx, variantID, quantity)
	return args.Error(0)
}

// MockEngine is a mock implementation of pricing.Engine.
type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) Calculate(ctx context.Context, product *model.Product, variant *model.Variant, quantity int, pctx pricing.PriceContext) (model.PriceBreakdown, error) {
	args := m.Called(ctx, product, variant, quantity, pctx)
	return args.Get(0).(model.PriceBreakdown), args.Error(1)
}

// MockTaxCalculator is a mock implementation of pricing.TaxCalculator.
type MockTaxCalculator struct {
	mock.Mock
}

func (m *MockTaxCalculator) Rate(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockTaxCalculator) CalculateTax(subtotal, rate decimal.Decimal) decimal.Decimal {
	args := m.Called(subtotal, rate)
	return args.Get(0).(decimal.Decimal)
}

// MockNotifier is a mock implementation of notify.Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) OrderConfirmed(ctx context.Context, ev notify.OrderConfirmedEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *MockNotifier) QuotationRejected(ctx context.Context, ev notify.QuotationRejectedEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *MockNotifier) ConfirmationRequested(ctx context.Context, ev notify.ConfirmationRequestedEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *MockNotifier) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
	committed  bool
	rolledBack bool
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	m.committed = true
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	m.rolledBack = true
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }
