package infra

import (
	"context"
	"io"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/shogunprotocol/shogun-core-ai/business/arbitrage/domain"
	intelDomain "github.com/shogunprotocol/shogun-core-ai/business/intelligence/domain"
	"github.com/shogunprotocol/shogun-core-ai/internal/apperror"
	"github.com/shogunprotocol/shogun-core-ai/internal/asset"
	"github.com/shogunprotocol/shogun-core-ai/internal/logger"
)

func testDecision(action domain.Action, sizeFactor string) domain.Decision {
	opp := &domain.Opportunity{
		Fingerprint: "g1:test",
		Generation:  1,
		Notional:    decimal.NewFromInt(10),
		NetRatio:    decimal.RequireFromString("0.036228"),
	}
	return domain.NewDecision(opp, action, decimal.RequireFromString(sizeFactor),
		"test", intelDomain.Conservative())
}

func simBase(t *testing.T) *asset.Asset {
	t.Helper()
	wcore, ok := asset.DefaultRegistry().GetBySymbolAndChain("WCORE", asset.ChainIDCore)
	if !ok {
		t.Fatal("WCORE not registered")
	}
	return wcore
}

func newSimExecutor(t *testing.T, maxPosition string) *SimExecutor {
	t.Helper()
	log := logger.New(io.Discard, logger.LevelError, "test", nil)
	return NewSimExecutor(simBase(t), decimal.RequireFromString(maxPosition), log)
}

func TestSimExecutor_BooksFills(t *testing.T) {
	exec := newSimExecutor(t, "100")
	ctx := context.Background()

	if err := exec.Execute(ctx, testDecision(domain.ActionExecuteReduced, "0.4")); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if err := exec.Execute(ctx, testDecision(domain.ActionExecute, "1")); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	stats := exec.Stats()
	if stats.Trades != 2 {
		t.Errorf("trades = %d, want 2", stats.Trades)
	}
	// sizes 4 and 10 at net ratio 0.036228, booked in the base asset
	if stats.Volume.String() != "14 WCORE" {
		t.Errorf("volume = %s, want 14 WCORE", stats.Volume.String())
	}
	if stats.PnL.String() != "0.507192" {
		t.Errorf("pnl = %s, want 0.507192", stats.PnL.String())
	}
}

func TestSimExecutor_RejectsOversizedTrade(t *testing.T) {
	exec := newSimExecutor(t, "5")

	err := exec.Execute(context.Background(), testDecision(domain.ActionExecute, "1"))
	if err == nil {
		t.Fatal("expected rejection of trade above position cap")
	}
	if apperror.GetCode(err) != apperror.CodeExecutionRejected {
		t.Errorf("code = %s, want %s", apperror.GetCode(err), apperror.CodeExecutionRejected)
	}

	stats := exec.Stats()
	if stats.Trades != 0 || stats.Rejected != 1 {
		t.Errorf("trades/rejected = %d/%d, want 0/1", stats.Trades, stats.Rejected)
	}
	if !stats.Volume.IsZero() {
		t.Errorf("volume = %s, want zero", stats.Volume.String())
	}
}

func TestSimExecutor_RejectsSkip(t *testing.T) {
	exec := newSimExecutor(t, "100")

	err := exec.Execute(context.Background(), testDecision(domain.ActionSkip, "0"))
	if err == nil {
		t.Fatal("expected rejection of non-actionable decision")
	}
	if apperror.GetCode(err) != apperror.CodeExecutionRejected {
		t.Errorf("code = %s, want %s", apperror.GetCode(err), apperror.CodeExecutionRejected)
	}
}

func TestSimExecutor_ZeroCapDisablesLimit(t *testing.T) {
	log := logger.New(io.Discard, logger.LevelError, "test", nil)
	exec := NewSimExecutor(simBase(t), decimal.Zero, log)

	if err := exec.Execute(context.Background(), testDecision(domain.ActionExecute, "1")); err != nil {
		t.Fatalf("Execute with zero cap: %v", err)
	}
}
