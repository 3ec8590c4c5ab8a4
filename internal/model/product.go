package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ChargeKind identifies a making-charge component on a product.
type ChargeKind string

const (
	ChargeKindFixed      ChargeKind = "fixed"
	ChargeKindPercentage ChargeKind = "percentage"
)

// Product represents a catalogue product with its making-charge configuration.
// Products are owned by the catalogue subsystem and are read-only here.
type Product struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	Name       string     `json:"name" db:"name"`
	SKU        string     `json:"sku" db:"sku"`
	BrandID    *uuid.UUID `json:"brandId,omitempty" db:"brand_id"`
	CategoryID *uuid.UUID `json:"categoryId,omitempty" db:"category_id"`

	// ChargeKinds lists the explicitly configured making-charge components.
	// When empty, the kinds are inferred from which charge fields are positive.
	ChargeKinds   []ChargeKind    `json:"chargeKinds" db:"charge_kinds"`
	FixedCharge   decimal.Decimal `json:"fixedCharge" db:"fixed_charge"`
	PercentCharge decimal.Decimal `json:"percentCharge" db:"percent_charge"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// HasChargeKind reports whether kind is among the product's explicit charge kinds.
func (p *Product) HasChargeKind(kind ChargeKind) bool {
	for _, k := range p.ChargeKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// MetalLine is one metal component of a variant.
type MetalLine struct {
	Metal       string          `json:"metal" db:"metal"`
	Purity      string          `json:"purity" db:"purity"`
	Tone        string          `json:"tone" db:"tone"`
	WeightGrams decimal.Decimal `json:"weightGrams" db:"weight_grams"`
}

// DiamondLine is one diamond component of a variant.
type DiamondLine struct {
	DiamondID uuid.UUID `json:"diamondId" db:"diamond_id"`
	Count     int       `json:"count" db:"count"`
}

// Variant is a priced configuration of a product. InventoryQuantity is nil
// for made-to-order variants with unlimited availability.
type Variant struct {
	ID                uuid.UUID     `json:"id" db:"id"`
	ProductID         uuid.UUID     `json:"productId" db:"product_id"`
	Metals            []MetalLine   `json:"metals"`
	Diamonds          []DiamondLine `json:"diamonds"`
	InventoryQuantity *int          `json:"inventoryQuantity,omitempty" db:"inventory_quantity"`
	CreatedAt         time.Time     `json:"createdAt" db:"created_at"`
}

// Diamond is a stone with a fixed unit price.
type Diamond struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice" db:"unit_price"`
}

// MetalRate is a point-in-time price per gram for a metal/purity pair.
// Multiple rows may exist per pair; lookups take the latest row with
// effective_at <= the requested instant.
type MetalRate struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	Metal        string          `json:"metal" db:"metal"`
	Purity       string          `json:"purity" db:"purity"`
	PricePerGram decimal.Decimal `json:"pricePerGram" db:"price_per_gram"`
	EffectiveAt  time.Time       `json:"effectiveAt" db:"effective_at"`
}
