package app

import (
	"github.com/shogunprotocol/shogun-core-ai/business/arbitrage/domain"
	marketDomain "github.com/shogunprotocol/shogun-core-ai/business/market/domain"
)

// CostModelConfig holds gas cost assumptions.
type CostModelConfig struct {
	UnitsPerSwap uint64
}

// CostModel applies gas and price-impact deductions to scanned candidates.
// Gas scales linearly with hop count; impact comes from the spread between
// the candidate's marginal and simulated output.
type CostModel struct {
	config CostModelConfig
}

// NewCostModel creates a new CostModel.
func NewCostModel(cfg CostModelConfig) *CostModel {
	if cfg.UnitsPerSwap == 0 {
		cfg.UnitsPerSwap = 150000
	}
	return &CostModel{config: cfg}
}

// Apply fills in the candidate's cost breakdown and net ratio in place.
func (m *CostModel) Apply(opp *domain.Opportunity, gasPrice marketDomain.GasPrice) {
	gasUnits := m.config.UnitsPerSwap * uint64(opp.Path.Hops())
	opp.Costs = domain.NewCostBreakdown(gasUnits, gasPrice.Wei, opp.Notional, opp.ExecOut, opp.MarginalOut)
	opp.NetRatio = domain.NetRatioOf(opp.GrossRatio, opp.Costs)
}

// ApplyAll costs every candidate against one gas price observation.
func (m *CostModel) ApplyAll(opps []*domain.Opportunity, gasPrice marketDomain.GasPrice) {
	for _, opp := range opps {
		m.Apply(opp, gasPrice)
	}
}

// UnitsFor returns the gas unit budget for a hop count.
func (m *CostModel) UnitsFor(hops int) uint64 {
	return m.config.UnitsPerSwap * uint64(hops)
}
