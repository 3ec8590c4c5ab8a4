package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountKind identifies how a campaign value is interpreted.
type DiscountKind string

const (
	DiscountKindFixed      DiscountKind = "fixed"
	DiscountKindPercentage DiscountKind = "percentage"
)

// DiscountCampaign is a promotional discount on the making charge.
// All scope fields are optional; an unset field places no restriction.
type DiscountCampaign struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Kind      DiscountKind    `json:"kind" db:"kind"`
	Value     decimal.Decimal `json:"value" db:"value"`
	AutoApply bool            `json:"autoApply" db:"auto_apply"`
	Active    bool            `json:"active" db:"active"`

	BrandID    *uuid.UUID `json:"brandId,omitempty" db:"brand_id"`
	CategoryID *uuid.UUID `json:"categoryId,omitempty" db:"category_id"`
	UserGroupID *uuid.UUID `json:"userGroupId,omitempty" db:"user_group_id"`
	// UserTypes restricts the campaign to the listed user types
	// (case-insensitive). Empty means no restriction.
	UserTypes       []string         `json:"userTypes,omitempty" db:"user_types"`
	MinLineSubtotal *decimal.Decimal `json:"minLineSubtotal,omitempty" db:"min_line_subtotal"`

	// Validity window; a nil bound is unbounded on that side.
	StartsAt *time.Time `json:"startsAt,omitempty" db:"starts_at"`
	EndsAt   *time.Time `json:"endsAt,omitempty" db:"ends_at"`
}

// ValidAt reports whether the campaign's validity window contains t.
func (c *DiscountCampaign) ValidAt(t time.Time) bool {
	if c.StartsAt != nil && t.Before(*c.StartsAt) {
		return false
	}
	if c.EndsAt != nil && t.After(*c.EndsAt) {
		return false
	}
	return true
}

// DiscountDescriptor is the resolved outcome of discount selection.
// The zero value is the empty descriptor meaning no discount applies.
type DiscountDescriptor struct {
	Amount     decimal.Decimal `json:"amount"`
	Kind       DiscountKind    `json:"kind,omitempty"`
	Value      decimal.Decimal `json:"value"`
	Source     string          `json:"source,omitempty"`
	Name       string          `json:"name,omitempty"`
	CampaignID *uuid.UUID      `json:"campaignId,omitempty"`
}

// IsZero reports whether the descriptor carries no discount.
func (d DiscountDescriptor) IsZero() bool {
	return d.Amount.IsZero() && d.CampaignID == nil
}
