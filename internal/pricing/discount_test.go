package pricing

import (
	"context"
	"testing"
	"time"

	"jewelcore/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestResolver(repo *MockDiscountRepository) *discountResolver {
	return &discountResolver{
		repo:   repo,
		logger: zerolog.Nop(),
		now:    func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func autoCampaign(name string, kind model.DiscountKind, value string) model.DiscountCampaign {
	return model.DiscountCampaign{
		ID:        uuid.New(),
		Name:      name,
		Kind:      kind,
		Value:     dec(value),
		AutoApply: true,
		Active:    true,
	}
}

func TestResolve_ZeroMakingShortCircuits(t *testing.T) {
	repo := new(MockDiscountRepository)
	r := newTestResolver(repo)

	got, err := r.Resolve(context.Background(), ResolveInput{Making: dec("0")})

	require.NoError(t, err)
	assert.True(t, got.IsZero())
	repo.AssertNotCalled(t, "ActiveCampaigns", mock.Anything, mock.Anything)
}

func TestResolve_PercentageAndFixedAmounts(t *testing.T) {
	repo := new(MockDiscountRepository)
	repo.On("ActiveCampaigns", mock.Anything, mock.Anything).Return([]model.DiscountCampaign{
		autoCampaign("twenty off making", model.DiscountKindPercentage, "20"),
	}, nil)
	r := newTestResolver(repo)

	got, err := r.Resolve(context.Background(), ResolveInput{
		Making:       dec("1500"),
		LineSubtotal: dec("11500"),
	})

	require.NoError(t, err)
	assert.True(t, dec("300").Equal(got.Amount), "got %s", got.Amount)
	assert.Equal(t, model.DiscountKindPercentage, got.Kind)
	assert.Equal(t, "campaign", got.Source)
	assert.Equal(t, "twenty off making", got.Name)
	require.NotNil(t, got.CampaignID)
}

func TestResolve_AmountClampedToMaking(t *testing.T) {
	repo := new(MockDiscountRepository)
	repo.On("ActiveCampaigns", mock.Anything, mock.Anything).Return([]model.DiscountCampaign{
		autoCampaign("big fixed", model.DiscountKindFixed, "5000"),
	}, nil)
	r := newTestResolver(repo)

	got, err := r.Resolve(context.Background(), ResolveInput{Making: dec("800")})

	require.NoError(t, err)
	assert.True(t, dec("800").Equal(got.Amount), "got %s", got.Amount)
}

func TestResolve_PercentageCappedAtHundred(t *testing.T) {
	repo := new(MockDiscountRepository)
	repo.On("ActiveCampaigns", mock.Anything, mock.Anything).Return([]model.DiscountCampaign{
		autoCampaign("150 percent", model.DiscountKindPercentage, "150"),
	}, nil)
	r := newTestResolver(repo)

	got, err := r.Resolve(context.Background(), ResolveInput{Making: dec("400")})

	require.NoError(t, err)
	assert.True(t, dec("400").Equal(got.Amount), "got %s", got.Amount)
}

func TestResolve_NonPositiveValueDiscarded(t *testing.T) {
	repo := new(MockDiscountRepository)
	repo.On("ActiveCampaigns", mock.Anything, mock.Anything).Return([]model.DiscountCampaign{
		autoCampaign("zero", model.DiscountKindFixed, "0"),
		autoCampaign("negative", model.DiscountKindPercentage, "-5"),
	}, nil)
	r := newTestResolver(repo)

	got, err := r.Resolve(context.Background(), ResolveInput{Making: dec("400")})

	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestResolve_ManualCampaignsIgnored(t *testing.T) {
	manual := autoCampaign("manual only", model.DiscountKindFixed, "100")
	manual.AutoApply = false

	repo := new(MockDiscountRepository)
	repo.On("ActiveCampaigns", mock.Anything, mock.Anything).Return([]model.DiscountCampaign{manual}, nil)
	r := newTestResolver(repo)

	got, err := r.Resolve(context.Background(), ResolveInput{Making: dec("400")})

	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestResolve_ScopeFilters(t *testing.T) {
	brandID := uuid.New()
	otherBrand := uuid.New()
	categoryID := uuid.New()
	groupID := uuid.New()

	product := model.Product{
		ID:         uuid.New(),
		BrandID:    &brandID,
		CategoryID: &categoryID,
	}

	tests := []struct {
		name    string
		mutate  func(*model.DiscountCampaign)
		input   ResolveInput
		applies bool
	}{
		{
			name:    "brand match",
			mutate:  func(c *model.DiscountCampaign) { c.BrandID = &brandID },
			applies: true,
		},
		{
			name:    "brand mismatch",
			mutate:  func(c *model.DiscountCampaign) { c.BrandID = &otherBrand },
			applies: false,
		},
		{
			name:    "category match",
			mutate:  func(c *model.DiscountCampaign) { c.CategoryID = &categoryID },
			applies: true,
		},
		{
			name:    "user type match is case-insensitive",
			mutate:  func(c *model.DiscountCampaign) { c.UserTypes = []string{"Wholesale", "Retail"} },
			input:   ResolveInput{UserType: "wholesale"},
			applies: true,
		},
		{
			name:    "user type mismatch",
			mutate:  func(c *model.DiscountCampaign) { c.UserTypes = []string{"wholesale"} },
			input:   ResolveInput{UserType: "retail"},
			applies: false,
		},
		{
			name:    "user group match",
			mutate:  func(c *model.DiscountCampaign) { c.UserGroupID = &groupID },
			input:   ResolveInput{UserGroupID: &groupID},
			applies: true,
		},
		{
			name:    "user group missing on caller",
			mutate:  func(c *model.DiscountCampaign) { c.UserGroupID = &groupID },
			applies: false,
		},
		{
			name: "minimum line subtotal met",
			mutate: func(c *model.DiscountCampaign) {
				min := dec("5000")
				c.MinLineSubtotal = &min
			},
			input:   ResolveInput{LineSubtotal: dec("5000")},
			applies: true,
		},
		{
			name: "minimum line subtotal not met",
			mutate: func(c *model.DiscountCampaign) {
				min := dec("5000")
				c.MinLineSubtotal = &min
			},
			input:   ResolveInput{LineSubtotal: dec("4999.99")},
			applies: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			campaign := autoCampaign("scoped", model.DiscountKindFixed, "50")
			tt.mutate(&campaign)

			repo := new(MockDiscountRepository)
			repo.On("ActiveCampaigns", mock.Anything, mock.Anything).Return([]model.DiscountCampaign{campaign}, nil)
			r := newTestResolver(repo)

			in := tt.input
			in.Product = product
			in.Making = dec("400")

			got, err := r.Resolve(context.Background(), in)

			require.NoError(t, err)
			assert.Equal(t, tt.applies, !got.IsZero())
		})
	}
}

func TestResolve_LargerAmountAlwaysWins(t *testing.T) {
	targeted := autoCampaign("targeted small", model.DiscountKindFixed, "100")
	targeted.UserTypes = []string{"wholesale"}
	generic := autoCampaign("generic large", model.DiscountKindFixed, "200")

	repo := new(MockDiscountRepository)
	repo.On("ActiveCampaigns", mock.Anything, mock.Anything).Return([]model.DiscountCampaign{targeted, generic}, nil)
	r := newTestResolver(repo)

	got, err := r.Resolve(context.Background(), ResolveInput{
		Making:   dec("400"),
		UserType: "wholesale",
	})

	require.NoError(t, err)
	assert.Equal(t, "generic large", got.Name)
	assert.True(t, dec("200").Equal(got.Amount))
}

func TestResolve_TieBreakTowardMoreTargeted(t *testing.T) {
	groupID := uuid.New()
	brandID := uuid.New()

	generic := autoCampaign("generic", model.DiscountKindFixed, "300")
	branded := autoCampaign("branded", model.DiscountKindFixed, "300")
	branded.BrandID = &brandID
	grouped := autoCampaign("grouped", model.DiscountKindFixed, "300")
	grouped.UserGroupID = &groupID
	typed := autoCampaign("typed", model.DiscountKindFixed, "300")
	typed.UserTypes = []string{"wholesale"}

	in := ResolveInput{
		Product:     model.Product{ID: uuid.New(), BrandID: &brandID},
		Making:      dec("1500"),
		UserGroupID: &groupID,
		UserType:    "wholesale",
	}

	tests := []struct {
		name      string
		campaigns []model.DiscountCampaign
		winner    string
	}{
		{"type beats group", []model.DiscountCampaign{grouped, typed}, "typed"},
		{"group beats brand", []model.DiscountCampaign{branded, grouped}, "grouped"},
		{"brand beats generic", []model.DiscountCampaign{generic, branded}, "branded"},
		{"type beats all", []model.DiscountCampaign{generic, branded, grouped, typed}, "typed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockDiscountRepository)
			repo.On("ActiveCampaigns", mock.Anything, mock.Anything).Return(tt.campaigns, nil)
			r := newTestResolver(repo)

			got, err := r.Resolve(context.Background(), in)

			require.NoError(t, err)
			assert.Equal(t, tt.winner, got.Name)
			assert.True(t, dec("300").Equal(got.Amount))
		})
	}
}

func TestResolve_SnapshotInstantPassedThrough(t *testing.T) {
	asOf := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)

	repo := new(MockDiscountRepository)
	repo.On("ActiveCampaigns", mock.Anything, asOf).Return([]model.DiscountCampaign{}, nil)
	r := newTestResolver(repo)

	_, err := r.Resolve(context.Background(), ResolveInput{Making: dec("100"), AsOf: asOf})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}
