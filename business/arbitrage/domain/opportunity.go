package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ratioPlaces is the scale of all reported profitability ratios.
const ratioPlaces = 6

// Path is an ordered sequence of edges. For a cycle the last edge returns
// to the first edge's From asset.
type Path []Edge

// Hops returns the number of swaps in the path.
func (p Path) Hops() int {
	return len(p)
}

// String renders the asset route, e.g. "WCORE>ICE>SCORE>WCORE".
func (p Path) String() string {
	if len(p) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(p[0].From.Symbol())
	for _, e := range p {
		b.WriteString(">")
		b.WriteString(e.To.Symbol())
	}
	return b.String()
}

// PoolRoute renders the pool sequence with venues, the identity of the
// candidate independent of reserve values.
func (p Path) PoolRoute() string {
	parts := make([]string, len(p))
	for i, e := range p {
		parts[i] = e.Venue + "/" + e.PoolName + ":" + e.From.Symbol()
	}
	return strings.Join(parts, ">")
}

// Opportunity is one costed arbitrage candidate from a single snapshot.
type Opportunity struct {
	Fingerprint string
	Generation  uint64
	Path        Path
	Notional    decimal.Decimal // probe size in the base asset
	ExecOut     decimal.Decimal // simulated output after all hops
	MarginalOut decimal.Decimal // slippage-free output at spot rates
	GrossRatio  decimal.Decimal // (ExecOut-Notional)/Notional, rounded
	Costs       CostBreakdown
	NetRatio    decimal.Decimal
	DetectedAt  time.Time
}

// NewFingerprint identifies a candidate by snapshot generation and pool
// route. Two candidates with the same fingerprint are the same trade.
func NewFingerprint(generation uint64, path Path) string {
	return fmt.Sprintf("g%d:%s", generation, path.PoolRoute())
}

// GrossRatioOf computes the reported gross profitability ratio.
func GrossRatioOf(execOut, notional decimal.Decimal) decimal.Decimal {
	return execOut.Sub(notional).Div(notional).Round(ratioPlaces)
}

// IsProfitable reports whether the candidate clears the given net floor.
// Equality does not clear it.
func (o *Opportunity) IsProfitable(minNetRatio decimal.Decimal) bool {
	return o.NetRatio.GreaterThan(minNetRatio)
}

// RankByNet orders costed candidates best first: net profit ratio
// descending, ties broken by fewer hops and then the pool route.
func RankByNet(opps []*Opportunity) {
	sort.SliceStable(opps, func(i, j int) bool {
		if !opps[i].NetRatio.Equal(opps[j].NetRatio) {
			return opps[i].NetRatio.GreaterThan(opps[j].NetRatio)
		}
		if opps[i].Path.Hops() != opps[j].Path.Hops() {
			return opps[i].Path.Hops() < opps[j].Path.Hops()
		}
		return opps[i].Path.PoolRoute() < opps[j].Path.PoolRoute()
	})
}
