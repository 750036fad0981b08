// Package app contains application services and port definitions for the market context.
package app

import (
	"context"

	"github.com/shogunprotocol/shogun-core-ai/business/market/domain"
)

// ReserveProvider reads the current reserves of a single pool.
type ReserveProvider interface {
	// GetReserves fetches the pool's token balances in decimal token units.
	GetReserves(ctx context.Context, pool domain.Pool) (domain.Reserves, error)
}

// GasOracle provides gas price observations for the Core chain.
type GasOracle interface {
	// GetGasPrice retrieves the current suggested gas price.
	GetGasPrice(ctx context.Context) (domain.GasPrice, error)
}
