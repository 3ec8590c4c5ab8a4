package pricing

import (
	"context"
	"sort"
	"strings"
	"time"

	"jewelcore/internal/model"
	"jewelcore/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Priority classes used only to break ties between equal discount amounts,
// in ascending generality: the more specifically targeted campaign wins.
const (
	priorityUserType  = 280
	priorityUserGroup = 260
	priorityScope     = 220 // brand or category restriction
	priorityGeneric   = 200
)

// discountResolver implements DiscountResolver over the campaign repository.
type discountResolver struct {
	repo   repository.DiscountRepository
	logger zerolog.Logger
	now    func() time.Time
}

// NewDiscountResolver creates a new campaign-backed discount resolver.
func NewDiscountResolver(repo repository.DiscountRepository, logger zerolog.Logger) DiscountResolver {
	return &discountResolver{
		repo:   repo,
		logger: logger.With().Str("component", "discount-resolver").Logger(),
		now:    time.Now,
	}
}

type candidate struct {
	campaign model.DiscountCampaign
	amount   decimal.Decimal
	priority int
}

// Resolve selects the best applicable auto-apply campaign for the making
// charge: largest discount wins, equal amounts break toward the more
// targeted campaign.
func (r *discountResolver) Resolve(ctx context.Context, in ResolveInput) (model.DiscountDescriptor, error) {
	// Discounts apply only to the making charge.
	if !in.Making.IsPositive() {
		return model.DiscountDescriptor{}, nil
	}

	asOf := in.AsOf
	if asOf.IsZero() {
		asOf = r.now()
	}

	campaigns, err := r.repo.ActiveCampaigns(ctx, asOf)
	if err != nil {
		return model.DiscountDescriptor{}, err
	}

	var candidates []candidate
	for _, c := range campaigns {
		if !c.AutoApply || !r.matches(c, in) {
			continue
		}
		if !c.Value.IsPositive() {
			continue
		}

		var amount decimal.Decimal
		switch c.Kind {
		case model.DiscountKindPercentage:
			pct := decimal.Min(c.Value, oneHundred)
			amount = in.Making.Mul(pct).Div(oneHundred)
		case model.DiscountKindFixed:
			amount = c.Value
		default:
			continue
		}

		// A discount can never exceed the making charge it applies to.
		amount = decimal.Min(amount, in.Making).Round(2)

		candidates = append(candidates, candidate{
			campaign: c,
			amount:   amount,
			priority: campaignPriority(c),
		})
	}

	if len(candidates) == 0 {
		return model.DiscountDescriptor{}, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if !candidates[i].amount.Equal(candidates[j].amount) {
			return candidates[i].amount.GreaterThan(candidates[j].amount)
		}
		return candidates[i].priority > candidates[j].priority
	})

	winner := candidates[0]
	id := winner.campaign.ID

	r.logger.Debug().
		Str("campaign_id", id.String()).
		Str("campaign", winner.campaign.Name).
		Str("amount", winner.amount.String()).
		Int("candidates", len(candidates)).
		Msg("discount resolved")

	return model.DiscountDescriptor{
		Amount:     winner.amount,
		Kind:       winner.campaign.Kind,
		Value:      winner.campaign.Value,
		Source:     "campaign",
		Name:       winner.campaign.Name,
		CampaignID: &id,
	}, nil
}

// matches applies the campaign's scope filters. Every set filter must match;
// unset filters place no restriction.
func (r *discountResolver) matches(c model.DiscountCampaign, in ResolveInput) bool {
	if c.BrandID != nil {
		if in.Product.BrandID == nil || *c.BrandID != *in.Product.BrandID {
			return false
		}
	}
	if c.CategoryID != nil {
		if in.Product.CategoryID == nil || *c.CategoryID != *in.Product.CategoryID {
			return false
		}
	}
	if len(c.UserTypes) > 0 && !containsFold(c.UserTypes, in.UserType) {
		return false
	}
	if c.UserGroupID != nil {
		if in.UserGroupID == nil || *c.UserGroupID != *in.UserGroupID {
			return false
		}
	}
	if c.MinLineSubtotal != nil && in.LineSubtotal.LessThan(*c.MinLineSubtotal) {
		return false
	}
	return true
}

// campaignPriority assigns the tie-break class for a campaign. A campaign
// with several restrictions takes its most specific class.
func campaignPriority(c model.DiscountCampaign) int {
	switch {
	case len(c.UserTypes) > 0:
		return priorityUserType
	case c.UserGroupID != nil:
		return priorityUserGroup
	case c.BrandID != nil || c.CategoryID != nil:
		return priorityScope
	default:
		return priorityGeneric
	}
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
