// Package arbitrage implements the arbitrage bounded context: cycle
// scanning over the exchange graph, cost modelling, and the decision
// policy driving the detection loop.
package arbitrage

import (
	"context"
	"fmt"

	"github.com/shogunprotocol/shogun-core-ai/business/arbitrage/app"
	arbDI "github.com/shogunprotocol/shogun-core-ai/business/arbitrage/di"
	"github.com/shogunprotocol/shogun-core-ai/business/arbitrage/infra"
	intelDI "github.com/shogunprotocol/shogun-core-ai/business/intelligence/di"
	marketDI "github.com/shogunprotocol/shogun-core-ai/business/market/di"
	"github.com/shogunprotocol/shogun-core-ai/internal/asset"
	"github.com/shogunprotocol/shogun-core-ai/internal/config"
	"github.com/shogunprotocol/shogun-core-ai/internal/di"
	"github.com/shogunprotocol/shogun-core-ai/internal/logger"
	"github.com/shogunprotocol/shogun-core-ai/internal/monolith"
)

// Module implements the arbitrage bounded context.
type Module struct{}

// RegisterServices registers all arbitrage services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register Reporter (private - chosen by execution mode)
	di.RegisterToken(c, arbDI.Reporter, func(sr di.ServiceRegistry) app.Reporter {
		cfg := sr.Get("config").(*config.Config)

		if cfg.Execution.Mode == config.ExecutionModeTUI {
			return infra.NewTUIReporter()
		}
		return infra.NewConsoleReporter()
	})

	// Register ExecutionSink (private - paper fills in every mode)
	di.RegisterToken(c, arbDI.ExecutionSink, func(sr di.ServiceRegistry) app.ExecutionSink {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		registry := sr.Get("assetRegistry").(*asset.Registry)

		base, ok := registry.GetBySymbolAndChain(cfg.Scanner.BaseToken, asset.ChainIDCore)
		if !ok {
			panic(fmt.Sprintf("base token %s not registered on chain %d", cfg.Scanner.BaseToken, asset.ChainIDCore))
		}

		return infra.NewSimExecutor(base, cfg.Scanner.MaxPositionDecimal(), log)
	})

	// Register Detector (public - exposed to other modules)
	di.RegisterToken(c, arbDI.Detector, func(sr di.ServiceRegistry) *app.Detector {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		registry := sr.Get("assetRegistry").(*asset.Registry)

		base, ok := registry.GetBySymbolAndChain(cfg.Scanner.BaseToken, asset.ChainIDCore)
		if !ok {
			panic(fmt.Sprintf("base token %s not registered on chain %d", cfg.Scanner.BaseToken, asset.ChainIDCore))
		}

		scanner := app.NewScanner(app.ScannerConfig{
			BaseAsset: base,
			MaxHops:   cfg.Scanner.MaxHops,
			FeeFactor: cfg.Scanner.SwapFeeFactorDecimal(),
			Notional:  cfg.Scanner.NotionalDecimal(),
		})
		costs := app.NewCostModel(app.CostModelConfig{
			UnitsPerSwap: cfg.Gas.UnitsPerSwap,
		})
		policy := app.NewDecisionPolicy(app.PolicyConfig{
			MinProfitRatio:      cfg.Decision.MinProfitRatioDecimal(),
			RiskReduction:       cfg.Decision.RiskReductionDecimal(),
			MinSizeFactor:       cfg.Decision.MinSizeFactorDecimal(),
			LowConfidenceFactor: cfg.Decision.LowConfidenceFactorDecimal(),
		})

		detector, err := app.NewDetector(
			app.DetectorConfig{Interval: cfg.Scanner.Interval},
			marketDI.GetSnapshotService(sr),
			intelDI.GetSignalService(sr),
			scanner,
			costs,
			policy,
			arbDI.GetReporter(sr),
			arbDI.GetExecutionSink(sr),
			log,
		)
		if err != nil {
			panic("failed to create detector: " + err.Error())
		}
		return detector
	})

	return nil
}

// Startup launches the detection loop.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	cfg := mono.Config()

	detector := arbDI.GetDetector(mono.Services())
	if err := detector.Start(ctx); err != nil {
		return err
	}

	log.Info(ctx, "arbitrage module started",
		"interval", cfg.Scanner.Interval.String(),
		"max_hops", cfg.Scanner.MaxHops,
		"base_token", cfg.Scanner.BaseToken,
		"mode", cfg.Execution.Mode)
	return nil
}
