package asset_test

import (
	"math/big"
	"testing"

	"github.com/shogunprotocol/shogun-core-ai/internal/asset"
	"github.com/shopspring/decimal"
)

func TestAmount_Basic(t *testing.T) {
	// 1 WCORE = 1e18 raw units
	oneCore := asset.NewAmount(asset.WCORE, big.NewInt(1e18))

	if oneCore.IsZero() {
		t.Error("expected non-zero amount")
	}

	// ToDecimal should return 1.0
	d := oneCore.ToDecimal()
	if !d.Equal(decimal.NewFromInt(1)) {
		t.Errorf("expected 1, got %s", d.String())
	}

	// String should be "1 WCORE"
	if oneCore.String() != "1 WCORE" {
		t.Errorf("expected '1 WCORE', got '%s'", oneCore.String())
	}
}

func TestAmount_Add(t *testing.T) {
	oneCore := asset.NewAmount(asset.WCORE, big.NewInt(1e18))
	twoCore := asset.NewAmount(asset.WCORE, big.NewInt(2e18))

	sum, err := oneCore.Add(twoCore)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := decimal.NewFromInt(3)
	if !sum.ToDecimal().Equal(expected) {
		t.Errorf("expected 3, got %s", sum.ToDecimal().String())
	}
}

func TestAmount_CannotAddDifferentAssets(t *testing.T) {
	oneCore := asset.NewAmount(asset.WCORE, big.NewInt(1e18))
	oneUSDT := asset.NewAmount(asset.USDT, big.NewInt(1e6))

	_, err := oneCore.Add(oneUSDT)
	if err == nil {
		t.Error("expected error when adding different assets")
	}
}

func TestAmount_Sub(t *testing.T) {
	threeCore := asset.NewAmount(asset.WCORE, big.NewInt(3e18))
	oneCore := asset.NewAmount(asset.WCORE, big.NewInt(1e18))

	diff, err := threeCore.Sub(oneCore)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := decimal.NewFromInt(2)
	if !diff.ToDecimal().Equal(expected) {
		t.Errorf("expected 2, got %s", diff.ToDecimal().String())
	}
}

func TestAmount_SubNegativeError(t *testing.T) {
	oneCore := asset.NewAmount(asset.WCORE, big.NewInt(1e18))
	twoCore := asset.NewAmount(asset.WCORE, big.NewInt(2e18))

	_, err := oneCore.Sub(twoCore)
	if err == nil {
		t.Error("expected error for negative result")
	}
}

func TestParseDecimal(t *testing.T) {
	// Parse "1.5" WCORE
	d := decimal.NewFromFloat(1.5)
	amount, err := asset.ParseDecimal(asset.WCORE, d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Should be 1.5e18 raw units
	expected := big.NewInt(0)
	expected.SetString("1500000000000000000", 10)

	if amount.Raw().Cmp(expected) != 0 {
		t.Errorf("expected %s, got %s", expected.String(), amount.Raw().String())
	}
}

func TestParseDecimal_TooManyDecimals(t *testing.T) {
	// USDT has 6 decimals, try to parse 1.1234567 (7 decimals)
	d := decimal.NewFromFloat(1.1234567)
	_, err := asset.ParseDecimal(asset.USDT, d)
	if err == nil {
		t.Error("expected error for too many decimals")
	}
}

func TestPrice_Convert(t *testing.T) {
	// WCORE/USDT price = 2
	price := asset.NewPriceNow(asset.WCORE, asset.USDT, decimal.NewFromInt(2))

	// 1 WCORE
	oneCore := asset.NewAmount(asset.WCORE, big.NewInt(1e18))

	// Convert to USDT
	usdt, err := price.Convert(oneCore)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := decimal.NewFromInt(2)
	if !usdt.ToDecimal().Equal(expected) {
		t.Errorf("expected %s USDT, got %s", expected.String(), usdt.ToDecimal().String())
	}
}

func TestPrice_Invert(t *testing.T) {
	// WCORE/USDT = 2.5
	price := asset.NewPriceNow(asset.WCORE, asset.USDT, decimal.NewFromFloat(2.5))

	// Invert to USDT/WCORE = 0.4
	inverted := price.Invert()

	expected := decimal.NewFromFloat(0.4)
	// Allow small precision error
	diff := inverted.Rate().Sub(expected).Abs()
	if diff.GreaterThan(decimal.NewFromFloat(0.0000001)) {
		t.Errorf("expected ~0.4, got %s", inverted.Rate().String())
	}
}

func TestAssetID_Identity(t *testing.T) {
	iceA := asset.NewTokenAssetID(asset.ChainIDCore, asset.AddrICE)
	iceB := asset.NewTokenAssetID(asset.ChainIDCore, asset.AddrICE)

	if !iceA.Equals(iceB) {
		t.Error("same asset should have equal IDs")
	}

	// Same address on a different chain is a different asset
	iceElsewhere := asset.NewTokenAssetID(1, asset.AddrICE)

	if iceA.Equals(iceElsewhere) {
		t.Error("different chains should have different IDs")
	}
}

func TestRegistry(t *testing.T) {
	r := asset.DefaultRegistry()

	// Should find native CORE
	core, ok := r.GetNative(asset.ChainIDCore)
	if !ok {
		t.Error("CORE not found in registry")
	}
	if core.Symbol() != "CORE" {
		t.Errorf("expected CORE, got %s", core.Symbol())
	}

	// Should find USDT by symbol and chain
	usdt, ok := r.GetBySymbolAndChain("USDT", asset.ChainIDCore)
	if !ok {
		t.Error("USDT not found in registry")
	}
	if usdt.Decimals() != 6 {
		t.Errorf("expected 6 decimals, got %d", usdt.Decimals())
	}
}
