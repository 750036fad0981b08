package domain

import (
	"github.com/shopspring/decimal"
)

var weiPerCORE = decimal.New(1, 18)

// CostBreakdown itemizes the deductions applied to a candidate's gross
// ratio. All ratios are denominated against the probe notional.
type CostBreakdown struct {
	GasUnits    uint64
	GasPriceWei decimal.Decimal
	GasRatio    decimal.Decimal // gas spend in CORE / notional
	ImpactRatio decimal.Decimal // (MarginalOut-ExecOut)/MarginalOut
}

// Total returns the summed cost ratio.
func (c CostBreakdown) Total() decimal.Decimal {
	return c.GasRatio.Add(c.ImpactRatio)
}

// GasCORE returns the projected gas spend in CORE.
func (c CostBreakdown) GasCORE() decimal.Decimal {
	return c.GasPriceWei.Mul(decimal.NewFromUint64(c.GasUnits)).Div(weiPerCORE)
}

// NewCostBreakdown computes the cost ratios for a candidate. The base asset
// is treated as 1:1 with the chain's native gas token, so gas spend divides
// directly by the notional.
func NewCostBreakdown(gasUnits uint64, gasPriceWei, notional, execOut, marginalOut decimal.Decimal) CostBreakdown {
	c := CostBreakdown{
		GasUnits:    gasUnits,
		GasPriceWei: gasPriceWei,
	}

	if notional.IsPositive() {
		c.GasRatio = c.GasCORE().Div(notional).Round(ratioPlaces)
	}
	if marginalOut.IsPositive() {
		c.ImpactRatio = marginalOut.Sub(execOut).Div(marginalOut).Round(ratioPlaces)
		if c.ImpactRatio.IsNegative() {
			c.ImpactRatio = decimal.Zero
		}
	}

	return c
}

// NetRatioOf deducts the cost breakdown from a gross ratio.
func NetRatioOf(gross decimal.Decimal, costs CostBreakdown) decimal.Decimal {
	return gross.Sub(costs.Total())
}
