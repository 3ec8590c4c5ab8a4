package pricing

import (
	"context"
	"time"

	"jewelcore/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockRateRepository is a mock implementation of repository.RateRepository.
type MockRateRepository struct {
	mock.Mock
}

func (m *MockRateRepository) LatestRate(ctx context.Context, metal, purity string, asOf time.Time) (decimal.Decimal, bool, error) {
	args := m.Called(ctx, metal, purity, asOf)
	return args.Get(0).(decimal.Decimal), args.Bool(1), args.Error(2)
}

// MockProductRepository is a mock implementation of repository.ProductRepository.
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

// MockDiscountRepository is a mock implementation of repository.DiscountRepository.
type MockDiscountRepository struct {
	mock.Mock
}

func (m *MockDiscountRepository) ActiveCampaigns(ctx context.Context, at time.Time) ([]model.DiscountCampaign, error) {
	args := m.Called(ctx, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DiscountCampaign), args.Error(1)
}

// MockTaxRepository is a mock implementation of repository.TaxRepository.
type MockTaxRepository struct {
	mock.Mock
}

func (m *MockTaxRepository) FirstActiveRate(ctx context.Context) (decimal.Decimal, bool, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Bool(1), args.Error(2)
}

// MockDiscountResolver is a mock implementation of DiscountResolver.
type MockDiscountResolver struct {
	mock.Mock
}

func (m *MockDiscountResolver) Resolve(ctx context.Context, in ResolveInput) (model.DiscountDescriptor, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(model.DiscountDescriptor), args.Error(1)
}
