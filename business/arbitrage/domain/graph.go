// Package domain contains the core domain types for the arbitrage context.
package domain

import (
	"sort"

	"github.com/shopspring/decimal"

	marketDomain "github.com/shogunprotocol/shogun-core-ai/business/market/domain"
	"github.com/shogunprotocol/shogun-core-ai/internal/asset"
)

// Edge is one tradeable direction through a pool: swap From into To against
// the pool's reserves. A pool contributes two edges, one per direction.
type Edge struct {
	PoolName   string
	Venue      string
	From       *asset.Asset
	To         *asset.Asset
	ReserveIn  decimal.Decimal // reserve of From
	ReserveOut decimal.Decimal // reserve of To
}

// SwapOut returns the constant-product output for amountIn, after the
// venue's swap fee. feeFactor is the retained fraction (0.997 for 0.3%).
//
//	out = in*fee*Rout / (Rin + in*fee)
func (e Edge) SwapOut(amountIn, feeFactor decimal.Decimal) decimal.Decimal {
	effective := amountIn.Mul(feeFactor)
	return effective.Mul(e.ReserveOut).Div(e.ReserveIn.Add(effective))
}

// SpotRate returns the fee-adjusted marginal exchange rate for an
// infinitesimal trade: Rout*fee/Rin.
func (e Edge) SpotRate(feeFactor decimal.Decimal) decimal.Decimal {
	return e.ReserveOut.Mul(feeFactor).Div(e.ReserveIn)
}

// Graph is the directed exchange graph built from one reserve snapshot.
// Edge order per node is deterministic so a snapshot always enumerates
// candidates the same way.
type Graph struct {
	Generation uint64
	edges      map[asset.AssetID][]Edge
}

// BuildGraph assembles the exchange graph from a snapshot's usable pools.
func BuildGraph(snap *marketDomain.Snapshot) *Graph {
	g := &Graph{
		Generation: snap.Generation,
		edges:      make(map[asset.AssetID][]Edge),
	}

	for _, st := range snap.Usable() {
		pool := st.Pool
		r := st.Reserves

		g.add(Edge{
			PoolName:   pool.Name,
			Venue:      pool.Venue,
			From:       pool.Token0,
			To:         pool.Token1,
			ReserveIn:  r.Reserve0,
			ReserveOut: r.Reserve1,
		})
		g.add(Edge{
			PoolName:   pool.Name,
			Venue:      pool.Venue,
			From:       pool.Token1,
			To:         pool.Token0,
			ReserveIn:  r.Reserve1,
			ReserveOut: r.Reserve0,
		})
	}

	for id := range g.edges {
		es := g.edges[id]
		sort.Slice(es, func(i, j int) bool {
			if es[i].PoolName != es[j].PoolName {
				return es[i].PoolName < es[j].PoolName
			}
			return es[i].Venue < es[j].Venue
		})
	}

	return g
}

func (g *Graph) add(e Edge) {
	id := e.From.ID()
	g.edges[id] = append(g.edges[id], e)
}

// From returns the outgoing edges of an asset in deterministic order.
func (g *Graph) From(a *asset.Asset) []Edge {
	return g.edges[a.ID()]
}

// EdgeCount returns the total number of directed edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, es := range g.edges {
		n += len(es)
	}
	return n
}
