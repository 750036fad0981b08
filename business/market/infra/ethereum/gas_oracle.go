// Package ethereum implements market ports backed by a Core chain RPC node.
package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/shogunprotocol/shogun-core-ai/business/market/app"
	"github.com/shogunprotocol/shogun-core-ai/business/market/domain"
	"github.com/shogunprotocol/shogun-core-ai/internal/cache"
	"github.com/shogunprotocol/shogun-core-ai/internal/circuitbreaker"
	"github.com/shogunprotocol/shogun-core-ai/internal/logger"
)

const (
	tracerName = "gas-oracle"
	meterName  = "gas-oracle"
)

// Ensure GasOracle implements the port.
var _ app.GasOracle = (*GasOracle)(nil)

// GasOracleConfig holds configuration for the gas oracle.
type GasOracleConfig struct {
	CacheTTL    time.Duration   // how long to reuse a fetched price
	MaxGasPrice decimal.Decimal // price ceiling in wei
	FallbackWei decimal.Decimal // used when the node cannot answer
	Timeout     time.Duration
}

// DefaultGasOracleConfig returns sensible defaults for Core.
func DefaultGasOracleConfig() GasOracleConfig {
	return GasOracleConfig{
		CacheTTL:    6 * time.Second, // ~2 Core blocks
		MaxGasPrice: decimal.New(100, 9),
		FallbackWei: decimal.New(30, 9),
		Timeout:     3 * time.Second,
	}
}

// gasOracleMetrics holds OTEL metric instruments.
type gasOracleMetrics struct {
	fetches   metric.Int64Counter
	priceGwei metric.Float64Gauge
	fallbacks metric.Int64Counter
}

// GasOracle reads suggested gas prices from the Core node with caching and
// circuit breaking. When the node is unreachable it serves a configured
// fallback price so a scan round can still produce cost estimates.
type GasOracle struct {
	config GasOracleConfig
	client *ethclient.Client
	logger logger.LoggerInterface

	priceCache *cache.Cache[string, domain.GasPrice]
	cb         *circuitbreaker.CircuitBreaker[*big.Int]

	tracer  trace.Tracer
	metrics *gasOracleMetrics
}

// NewGasOracle creates a new gas oracle backed by a shared RPC client.
func NewGasOracle(cfg GasOracleConfig, client *ethclient.Client, log logger.LoggerInterface) (*GasOracle, error) {
	g := &GasOracle{
		config:     cfg,
		client:     client,
		logger:     log,
		priceCache: cache.New[string, domain.GasPrice](time.Minute),
		tracer:     otel.Tracer(tracerName),
	}

	g.cb = circuitbreaker.New[*big.Int](circuitbreaker.DefaultConfig("gas-oracle"))

	if err := g.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	return g, nil
}

func (g *GasOracle) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	g.metrics = &gasOracleMetrics{}

	g.metrics.fetches, err = meter.Int64Counter(
		"gas_price_fetches_total",
		metric.WithDescription("Total gas price fetch attempts"),
	)
	if err != nil {
		return err
	}

	g.metrics.priceGwei, err = meter.Float64Gauge(
		"gas_price_gwei",
		metric.WithDescription("Current gas price in gwei"),
		metric.WithUnit("gwei"),
	)
	if err != nil {
		return err
	}

	g.metrics.fallbacks, err = meter.Int64Counter(
		"gas_price_fallbacks_total",
		metric.WithDescription("Gas price fetches served from the fallback value"),
	)
	if err != nil {
		return err
	}

	return nil
}

// GetGasPrice retrieves the current gas price with caching.
func (g *GasOracle) GetGasPrice(ctx context.Context) (domain.GasPrice, error) {
	ctx, span := g.tracer.Start(ctx, "gas.get_price")
	defer span.End()

	if price, found := g.priceCache.Get(ctx, "current"); found {
		span.AddEvent("cache_hit")
		return price, nil
	}

	g.metrics.fetches.Add(ctx, 1)

	fetchCtx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	wei, err := g.cb.Execute(func() (*big.Int, error) {
		return g.client.SuggestGasPrice(fetchCtx)
	})
	if err != nil {
		g.metrics.fallbacks.Add(ctx, 1)
		span.RecordError(err)
		span.AddEvent("fallback_price")
		g.logger.Warn(ctx, "gas price fetch failed, using fallback",
			"fallback_wei", g.config.FallbackWei.String(),
			"error", err)
		price := domain.NewGasPriceFromWei(g.config.FallbackWei)
		g.priceCache.Set(ctx, "current", price, g.config.CacheTTL)
		return price, nil
	}

	price := domain.NewGasPrice(wei)

	// clamp to the configured ceiling
	if !g.config.MaxGasPrice.IsZero() && price.Wei.GreaterThan(g.config.MaxGasPrice) {
		g.logger.Warn(ctx, "gas price exceeds max, clamping", "wei", price.Wei.String())
		price = domain.NewGasPriceFromWei(g.config.MaxGasPrice)
	}

	g.priceCache.Set(ctx, "current", price, g.config.CacheTTL)

	gwei, _ := price.Gwei().Float64()
	g.metrics.priceGwei.Record(ctx, gwei)

	span.SetAttributes(attribute.Float64("gwei", gwei))
	span.SetStatus(codes.Ok, "fetched")

	return price, nil
}

// Close releases the oracle's cache resources.
func (g *GasOracle) Close() error {
	g.priceCache.Close()
	return nil
}
