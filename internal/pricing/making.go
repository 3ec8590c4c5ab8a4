package pricing

import (
	"jewelcore/internal/model"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// MakingCharge computes a product's making charge against the given metal
// cost, rounded to 2 decimal places and never negative.
//
// When the product declares explicit charge kinds they are honoured as-is;
// otherwise the kinds are inferred from which charge fields are positive
// (both positive means both components apply). The percentage component only
// contributes when the metal cost is positive.
func MakingCharge(product *model.Product, metalCost decimal.Decimal) decimal.Decimal {
	useFixed, usePercent := chargeComponents(product)

	making := decimal.Zero
	if useFixed {
		making = making.Add(product.FixedCharge)
	}
	if usePercent && metalCost.IsPositive() {
		making = making.Add(metalCost.Mul(product.PercentCharge).Div(oneHundred))
	}

	if making.IsNegative() {
		return decimal.Zero
	}
	return making.Round(2)
}

func chargeComponents(product *model.Product) (useFixed, usePercent bool) {
	if len(product.ChargeKinds) > 0 {
		return product.HasChargeKind(model.ChargeKindFixed), product.HasChargeKind(model.ChargeKindPercentage)
	}
	return product.FixedCharge.IsPositive(), product.PercentCharge.IsPositive()
}
