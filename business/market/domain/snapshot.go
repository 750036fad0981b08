package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shogunprotocol/shogun-core-ai/internal/asset"
)

// Reserves holds the token balances of a pool at one observation, normalized
// to decimal token units. Reserve0 corresponds to the pool's Token0.
type Reserves struct {
	Reserve0  decimal.Decimal
	Reserve1  decimal.Decimal
	BlockTime time.Time
}

// IsUsable reports whether both sides hold liquidity.
func (r Reserves) IsUsable() bool {
	return r.Reserve0.IsPositive() && r.Reserve1.IsPositive()
}

// PoolState pairs a pool with its observed reserves.
type PoolState struct {
	Pool     Pool
	Reserves Reserves
}

// MidPrice quotes Token1 per Token0 at the observed reserves, stamped with
// the reserve block time. A drained Token0 side yields a zero price.
func (s PoolState) MidPrice() asset.Price {
	if !s.Reserves.Reserve0.IsPositive() {
		return asset.Price{}
	}
	rate := s.Reserves.Reserve1.Div(s.Reserves.Reserve0)
	return asset.NewPrice(s.Pool.Token0, s.Pool.Token1, rate, s.Reserves.BlockTime)
}

// Snapshot is one generation of reserve observations across all watched
// pools. Pools that failed to answer are recorded in Failed and excluded
// from States; decisions are made only against a single snapshot so that
// every candidate in a cycle sees one consistent view of the market.
type Snapshot struct {
	Generation uint64
	TakenAt    time.Time
	States     []PoolState
	Failed     map[string]error // venue-qualified pool key -> fetch error
}

// NewSnapshot creates a snapshot for the given generation.
func NewSnapshot(generation uint64) *Snapshot {
	return &Snapshot{
		Generation: generation,
		TakenAt:    time.Now(),
		States:     make([]PoolState, 0, 8),
		Failed:     make(map[string]error),
	}
}

// Usable returns the states whose reserves hold liquidity on both sides.
func (s *Snapshot) Usable() []PoolState {
	out := make([]PoolState, 0, len(s.States))
	for _, st := range s.States {
		if st.Reserves.IsUsable() {
			out = append(out, st)
		}
	}
	return out
}

// Coverage returns fetched vs requested pool counts.
func (s *Snapshot) Coverage() (ok, total int) {
	return len(s.States), len(s.States) + len(s.Failed)
}
