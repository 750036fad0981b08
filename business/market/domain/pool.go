// Package domain contains the core domain types for the market context.
package domain

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/shogunprotocol/shogun-core-ai/internal/asset"
)

// Pool describes a constant-product liquidity pool on a venue.
type Pool struct {
	Name    string
	Address common.Address
	Venue   string
	Token0  *asset.Asset
	Token1  *asset.Asset
}

// NewPool creates a pool descriptor.
func NewPool(name string, address common.Address, venue string, token0, token1 *asset.Asset) Pool {
	if token0 == nil || token1 == nil {
		panic("market: nil asset in pool")
	}
	return Pool{
		Name:    name,
		Address: address,
		Venue:   venue,
		Token0:  token0,
		Token1:  token1,
	}
}

// Key returns the venue-qualified pool identifier. Pool names alone can
// collide when two venues carry the same pair.
func (p Pool) Key() string {
	return p.Venue + "/" + p.Name
}

// Pair returns the pool's pair symbol (e.g., "WCORE-ICE").
func (p Pool) Pair() string {
	return p.Token0.Symbol() + "-" + p.Token1.Symbol()
}

// Has reports whether the pool contains the given asset.
func (p Pool) Has(a *asset.Asset) bool {
	return p.Token0.ID().Equals(a.ID()) || p.Token1.ID().Equals(a.ID())
}

// Other returns the counterparty asset for a given side of the pool,
// and false if the asset is not in the pool.
func (p Pool) Other(a *asset.Asset) (*asset.Asset, bool) {
	switch {
	case p.Token0.ID().Equals(a.ID()):
		return p.Token1, true
	case p.Token1.ID().Equals(a.ID()):
		return p.Token0, true
	default:
		return nil, false
	}
}
