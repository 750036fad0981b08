package domain

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/shogunprotocol/shogun-core-ai/internal/asset"
)

func wcoreIcePool(t *testing.T) Pool {
	t.Helper()
	reg := asset.DefaultRegistry()
	wcore, ok := reg.GetBySymbolAndChain("WCORE", asset.ChainIDCore)
	if !ok {
		t.Fatal("WCORE not registered")
	}
	ice, ok := reg.GetBySymbolAndChain("ICE", asset.ChainIDCore)
	if !ok {
		t.Fatal("ICE not registered")
	}
	return NewPool("WCORE-ICE", common.HexToAddress("0x01"), "icecreamswap", wcore, ice)
}

func TestPool_Key(t *testing.T) {
	pool := wcoreIcePool(t)
	if pool.Key() != "icecreamswap/WCORE-ICE" {
		t.Errorf("key = %s, want icecreamswap/WCORE-ICE", pool.Key())
	}
}

func TestPoolState_MidPrice(t *testing.T) {
	observed := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	state := PoolState{
		Pool: wcoreIcePool(t),
		Reserves: Reserves{
			Reserve0:  decimal.RequireFromString("10000"),
			Reserve1:  decimal.RequireFromString("12000"),
			BlockTime: observed,
		},
	}

	price := state.MidPrice()
	if price.String() != "1.2 WCORE/ICE" {
		t.Errorf("mid price = %s, want 1.2 WCORE/ICE", price.String())
	}
	if !price.Timestamp().Equal(observed) {
		t.Errorf("timestamp = %s, want %s", price.Timestamp(), observed)
	}
}

func TestPoolState_MidPrice_DrainedSide(t *testing.T) {
	state := PoolState{
		Pool: wcoreIcePool(t),
		Reserves: Reserves{
			Reserve0: decimal.Zero,
			Reserve1: decimal.RequireFromString("12000"),
		},
	}

	if price := state.MidPrice(); !price.IsZero() {
		t.Errorf("mid price = %s, want zero price", price.String())
	}
}
