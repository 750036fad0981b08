package app

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shogunprotocol/shogun-core-ai/business/arbitrage/domain"
	"github.com/shogunprotocol/shogun-core-ai/internal/asset"
)

// ScannerConfig controls candidate enumeration.
type ScannerConfig struct {
	BaseAsset *asset.Asset
	MaxHops   int
	FeeFactor decimal.Decimal
	Notional  decimal.Decimal
}

// Scanner enumerates arbitrage candidates over an exchange graph: every
// cycle of at most MaxHops swaps that starts and ends at the base asset,
// without reusing a pool. Cross-venue one-hop spreads surface naturally as
// two-hop cycles through the two venues' pools of the same pair.
type Scanner struct {
	config ScannerConfig
}

// NewScanner creates a new Scanner.
func NewScanner(cfg ScannerConfig) *Scanner {
	if cfg.MaxHops < 2 {
		cfg.MaxHops = 3
	}
	return &Scanner{config: cfg}
}

// Scan walks the graph and returns simulated candidates in deterministic
// order: fewer hops first, then lexicographic pool route. Cycles that lose
// money before costs (gross ratio at or below zero) are dropped. Costs are
// not applied here; candidates carry only gross figures.
func (s *Scanner) Scan(graph *domain.Graph) []*domain.Opportunity {
	var out []*domain.Opportunity
	seen := make(map[string]struct{})

	var walk func(path domain.Path, current *asset.Asset, usedPools map[string]struct{})
	walk = func(path domain.Path, current *asset.Asset, usedPools map[string]struct{}) {
		for _, edge := range graph.From(current) {
			poolKey := edge.Venue + "/" + edge.PoolName
			if _, used := usedPools[poolKey]; used {
				continue
			}

			next := append(append(domain.Path{}, path...), edge)

			if edge.To.ID().Equals(s.config.BaseAsset.ID()) {
				if len(next) >= 2 {
					if opp := s.simulate(graph.Generation, next); opp != nil && opp.GrossRatio.IsPositive() {
						if _, dup := seen[opp.Fingerprint]; !dup {
							seen[opp.Fingerprint] = struct{}{}
							out = append(out, opp)
						}
					}
				}
				continue
			}

			if len(next) < s.config.MaxHops {
				usedPools[poolKey] = struct{}{}
				walk(next, edge.To, usedPools)
				delete(usedPools, poolKey)
			}
		}
	}

	walk(domain.Path{}, s.config.BaseAsset, make(map[string]struct{}))

	sort.Slice(out, func(i, j int) bool {
		if out[i].Path.Hops() != out[j].Path.Hops() {
			return out[i].Path.Hops() < out[j].Path.Hops()
		}
		return out[i].Path.PoolRoute() < out[j].Path.PoolRoute()
	})

	return out
}

// simulate runs the probe notional through the path and records exec,
// marginal, and gross figures.
func (s *Scanner) simulate(generation uint64, path domain.Path) *domain.Opportunity {
	exec := s.config.Notional
	marginal := s.config.Notional
	for _, edge := range path {
		exec = edge.SwapOut(exec, s.config.FeeFactor)
		marginal = marginal.Mul(edge.SpotRate(s.config.FeeFactor))
		if !exec.IsPositive() {
			return nil
		}
	}

	return &domain.Opportunity{
		Fingerprint: domain.NewFingerprint(generation, path),
		Generation:  generation,
		Path:        path,
		Notional:    s.config.Notional,
		ExecOut:     exec,
		MarginalOut: marginal,
		GrossRatio:  domain.GrossRatioOf(exec, s.config.Notional),
		DetectedAt:  time.Now(),
	}
}
