// Package coredex implements the ReserveProvider interface for
// UniswapV2-style pools on the Core chain.
package coredex

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/shogunprotocol/shogun-core-ai/business/market/app"
	"github.com/shogunprotocol/shogun-core-ai/business/market/domain"
	"github.com/shogunprotocol/shogun-core-ai/internal/apperror"
	"github.com/shogunprotocol/shogun-core-ai/internal/asset"
	"github.com/shogunprotocol/shogun-core-ai/internal/circuitbreaker"
	"github.com/shogunprotocol/shogun-core-ai/internal/logger"
)

const (
	tracerName = "coredex"
	meterName  = "coredex"
)

// Ensure Provider implements ReserveProvider.
var _ app.ReserveProvider = (*Provider)(nil)

// providerMetrics holds OTEL metric instruments.
type providerMetrics struct {
	fetchesTotal metric.Int64Counter
	fetchLatency metric.Float64Histogram
	fetchErrors  metric.Int64Counter
}

// Provider reads pool reserves via eth_call against pair contracts.
type Provider struct {
	client  *ethclient.Client
	pairABI abi.ABI

	logger logger.LoggerInterface
	cb     *circuitbreaker.CircuitBreaker[[]byte]

	tracer  trace.Tracer
	metrics *providerMetrics
}

// NewProvider creates a new on-chain reserve provider.
func NewProvider(client *ethclient.Client, log logger.LoggerInterface) (*Provider, error) {
	parsedABI, err := abi.JSON(strings.NewReader(PairABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pair ABI: %w", err)
	}

	p := &Provider{
		client:  client,
		pairABI: parsedABI,
		logger:  log,
		tracer:  otel.Tracer(tracerName),
	}

	cbCfg := circuitbreaker.DefaultConfig("coredex-reserves")
	p.cb = circuitbreaker.New[[]byte](cbCfg)

	if err := p.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	return p, nil
}

func (p *Provider) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	p.metrics = &providerMetrics{}

	p.metrics.fetchesTotal, err = meter.Int64Counter(
		"reserve_fetches_total",
		metric.WithDescription("Total reserve fetch requests"),
	)
	if err != nil {
		return err
	}

	p.metrics.fetchLatency, err = meter.Float64Histogram(
		"reserve_fetch_latency_ms",
		metric.WithDescription("Reserve fetch latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	p.metrics.fetchErrors, err = meter.Int64Counter(
		"reserve_fetch_errors_total",
		metric.WithDescription("Total reserve fetch errors"),
	)
	if err != nil {
		return err
	}

	return nil
}

// GetReserves fetches getReserves from the pair contract and normalizes
// raw balances to decimal token units using each token's decimals.
func (p *Provider) GetReserves(ctx context.Context, pool domain.Pool) (domain.Reserves, error) {
	ctx, span := p.tracer.Start(ctx, "coredex.get_reserves",
		trace.WithAttributes(
			attribute.String("pool", pool.Name),
			attribute.String("address", pool.Address.Hex()),
		),
	)
	defer span.End()

	start := time.Now()
	p.metrics.fetchesTotal.Add(ctx, 1)

	callData, err := p.pairABI.Pack("getReserves")
	if err != nil {
		return domain.Reserves{}, fmt.Errorf("failed to encode call: %w", err)
	}

	result, err := p.cb.Execute(func() ([]byte, error) {
		return p.client.CallContract(ctx, ethereum.CallMsg{
			To:   &pool.Address,
			Data: callData,
		}, nil)
	})

	latency := float64(time.Since(start).Milliseconds())
	p.metrics.fetchLatency.Record(ctx, latency)

	if err != nil {
		p.metrics.fetchErrors.Add(ctx, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, "call failed")
		return domain.Reserves{}, apperror.New(apperror.CodePoolUnavailable,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("getReserves failed for %s", pool.Name)))
	}

	raw, err := p.decodeReserves(result)
	if err != nil {
		p.metrics.fetchErrors.Add(ctx, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode failed")
		return domain.Reserves{}, apperror.New(apperror.CodeMalformedReserves,
			apperror.WithCause(err),
			apperror.WithContext(pool.Name))
	}

	reserves := domain.Reserves{
		Reserve0:  asset.NewAmount(pool.Token0, raw.Reserve0).ToDecimal(),
		Reserve1:  asset.NewAmount(pool.Token1, raw.Reserve1).ToDecimal(),
		BlockTime: time.Unix(int64(raw.BlockTimestampLast), 0),
	}

	span.SetAttributes(
		attribute.String("reserve0", reserves.Reserve0.String()),
		attribute.String("reserve1", reserves.Reserve1.String()),
	)
	span.SetStatus(codes.Ok, "fetched")

	p.logger.Debug(ctx, "reserves fetched",
		"pool", pool.Name,
		"reserve0", reserves.Reserve0.String(),
		"reserve1", reserves.Reserve1.String(),
	)

	return reserves, nil
}

func (p *Provider) decodeReserves(data []byte) (*ReservesResult, error) {
	outputs, err := p.pairABI.Unpack("getReserves", data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	if len(outputs) < 3 {
		return nil, fmt.Errorf("unexpected output length: %d", len(outputs))
	}
	return &ReservesResult{
		Reserve0:           outputs[0].(*big.Int),
		Reserve1:           outputs[1].(*big.Int),
		BlockTimestampLast: outputs[2].(uint32),
	}, nil
}
