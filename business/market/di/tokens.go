// Package di contains dependency injection tokens for the market context.
package di

import (
	"github.com/shogunprotocol/shogun-core-ai/business/market/app"
	"github.com/shogunprotocol/shogun-core-ai/internal/di"
)

// Public service tokens - exposed to other modules
var (
	SnapshotService = di.NewToken[*app.SnapshotService]("market.SnapshotService")
)

// Private dependency tokens - internal to market module
var (
	ReserveProvider = di.NewToken[app.ReserveProvider]("market:reserveProvider")
	GasOracle       = di.NewToken[app.GasOracle]("market:gasOracle")
)

// Helper functions for type-safe access
func GetSnapshotService(c di.ServiceRegistry) *app.SnapshotService {
	return di.GetToken(c, SnapshotService)
}

func GetReserveProvider(c di.ServiceRegistry) app.ReserveProvider {
	return di.GetToken(c, ReserveProvider)
}

func GetGasOracle(c di.ServiceRegistry) app.GasOracle {
	return di.GetToken(c, GasOracle)
}
