package infra

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/shogunprotocol/shogun-core-ai/business/arbitrage/domain"
	"github.com/shogunprotocol/shogun-core-ai/internal/apperror"
	"github.com/shogunprotocol/shogun-core-ai/internal/asset"
	"github.com/shogunprotocol/shogun-core-ai/internal/logger"
)

// SimStats is the running tally of simulated fills. Volume accumulates in
// the base asset; pnl stays a plain ratio product and can go negative.
type SimStats struct {
	Trades   int
	Rejected int
	Volume   asset.Amount
	PnL      decimal.Decimal
}

// SimExecutor is an ExecutionSink that fills decisions on paper. Each
// actionable decision is booked at its projected net ratio; nothing goes
// on chain. A trade larger than the position cap is rejected.
type SimExecutor struct {
	base        *asset.Asset
	maxPosition decimal.Decimal
	logger      logger.LoggerInterface

	mu    sync.Mutex
	stats SimStats
}

// NewSimExecutor creates a SimExecutor booking fills in the given base
// asset. A zero maxPosition disables the cap.
func NewSimExecutor(base *asset.Asset, maxPosition decimal.Decimal, log logger.LoggerInterface) *SimExecutor {
	return &SimExecutor{
		base:        base,
		maxPosition: maxPosition,
		logger:      log,
		stats: SimStats{
			Volume: asset.Zero(base),
			PnL:    decimal.Zero,
		},
	}
}

// Execute books one simulated fill.
func (e *SimExecutor) Execute(ctx context.Context, d domain.Decision) error {
	if !d.IsActionable() {
		return apperror.New(apperror.CodeExecutionRejected,
			apperror.WithMessage("decision is not actionable"),
			apperror.WithContext(fmt.Sprintf("action=%s", d.Action)))
	}

	size := d.TradeSize()
	if e.maxPosition.IsPositive() && size.GreaterThan(e.maxPosition) {
		e.mu.Lock()
		e.stats.Rejected++
		e.mu.Unlock()
		return apperror.New(apperror.CodeExecutionRejected,
			apperror.WithMessage("trade size exceeds position cap"),
			apperror.WithContext(fmt.Sprintf("size=%s cap=%s", size.String(), e.maxPosition.String())))
	}

	sized, err := asset.ParseDecimal(e.base, size)
	if err != nil {
		e.mu.Lock()
		e.stats.Rejected++
		e.mu.Unlock()
		return apperror.New(apperror.CodeExecutionRejected,
			apperror.WithMessage("trade size does not fit the base asset"),
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("size=%s", size.String())))
	}

	pnl := size.Mul(d.Opportunity.NetRatio)

	e.mu.Lock()
	e.stats.Trades++
	e.stats.Volume = e.stats.Volume.MustAdd(sized)
	e.stats.PnL = e.stats.PnL.Add(pnl)
	total := e.stats.PnL
	e.mu.Unlock()

	e.logger.Info(ctx, "simulated fill",
		"fingerprint", d.Opportunity.Fingerprint,
		"path", d.Opportunity.Path.String(),
		"size", sized.String(),
		"net_ratio", d.Opportunity.NetRatio.String(),
		"pnl", pnl.String(),
		"total_pnl", total.String())

	return nil
}

// Stats returns a copy of the running tally.
func (e *SimExecutor) Stats() SimStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// SessionPnL reports the fill count and cumulative profit for round summaries.
func (e *SimExecutor) SessionPnL() (int, decimal.Decimal) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats.Trades, e.stats.PnL
}
