// Package market implements the market bounded context: pool reserve
// snapshots and gas price observation on the Core chain.
package market

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/shogunprotocol/shogun-core-ai/business/market/app"
	marketDI "github.com/shogunprotocol/shogun-core-ai/business/market/di"
	"github.com/shogunprotocol/shogun-core-ai/business/market/domain"
	"github.com/shogunprotocol/shogun-core-ai/business/market/infra/coredex"
	"github.com/shogunprotocol/shogun-core-ai/business/market/infra/ethereum"
	"github.com/shogunprotocol/shogun-core-ai/internal/asset"
	"github.com/shogunprotocol/shogun-core-ai/internal/config"
	"github.com/shogunprotocol/shogun-core-ai/internal/di"
	"github.com/shogunprotocol/shogun-core-ai/internal/logger"
	"github.com/shogunprotocol/shogun-core-ai/internal/monolith"
)

// Module implements the market bounded context.
type Module struct{}

// RegisterServices registers all market services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register ReserveProvider (private - internal dependency)
	di.RegisterToken(c, marketDI.ReserveProvider, func(sr di.ServiceRegistry) app.ReserveProvider {
		log := sr.Get("logger").(logger.LoggerInterface)
		client := sr.Get("ethClient").(*ethclient.Client)

		provider, err := coredex.NewProvider(client, log)
		if err != nil {
			panic("failed to create reserve provider: " + err.Error())
		}
		return provider
	})

	// Register GasOracle (private - internal dependency)
	di.RegisterToken(c, marketDI.GasOracle, func(sr di.ServiceRegistry) app.GasOracle {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		client := sr.Get("ethClient").(*ethclient.Client)

		oracleCfg := ethereum.DefaultGasOracleConfig()
		oracleCfg.MaxGasPrice = cfg.Gas.MaxPriceWei()
		oracleCfg.FallbackWei = cfg.Gas.FallbackWei()
		oracleCfg.Timeout = cfg.Gas.OracleTimeout

		oracle, err := ethereum.NewGasOracle(oracleCfg, client, log)
		if err != nil {
			panic("failed to create gas oracle: " + err.Error())
		}
		return oracle
	})

	// Register SnapshotService (public - exposed to other modules)
	di.RegisterToken(c, marketDI.SnapshotService, func(sr di.ServiceRegistry) *app.SnapshotService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		registry := sr.Get("assetRegistry").(*asset.Registry)

		pools, err := PoolsFromConfig(cfg.Scanner.Pools, registry)
		if err != nil {
			panic("failed to resolve pools: " + err.Error())
		}

		svcCfg := app.SnapshotConfig{
			Pools:        pools,
			FetchTimeout: cfg.Scanner.FetchTimeout,
		}
		provider := marketDI.GetReserveProvider(sr)
		oracle := marketDI.GetGasOracle(sr)
		return app.NewSnapshotService(svcCfg, provider, oracle, log)
	})

	return nil
}

// Startup initializes the market module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	// Force eager construction so bad pool config fails at startup.
	svc := marketDI.GetSnapshotService(mono.Services())

	log.Info(ctx, "market module started", "generation", svc.Generation())
	return nil
}

// PoolsFromConfig resolves configured pools against the asset registry. Pool
// names are "TOKEN0-TOKEN1" with both symbols registered on the Core chain.
func PoolsFromConfig(pools []config.PoolConfig, registry *asset.Registry) ([]domain.Pool, error) {
	out := make([]domain.Pool, 0, len(pools))
	for _, pc := range pools {
		sym0, sym1, found := strings.Cut(pc.Name, "-")
		if !found {
			return nil, fmt.Errorf("pool name %q is not TOKEN0-TOKEN1", pc.Name)
		}
		token0, ok := registry.GetBySymbolAndChain(sym0, asset.ChainIDCore)
		if !ok {
			return nil, fmt.Errorf("pool %s: unknown token %s", pc.Name, sym0)
		}
		token1, ok := registry.GetBySymbolAndChain(sym1, asset.ChainIDCore)
		if !ok {
			return nil, fmt.Errorf("pool %s: unknown token %s", pc.Name, sym1)
		}
		out = append(out, domain.NewPool(pc.Name, pc.AddressHex(), pc.Venue, token0, token1))
	}
	return out, nil
}
