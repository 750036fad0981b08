package asset

import "github.com/ethereum/go-ethereum/common"

// Chain IDs
const (
	ChainIDCore = 1116
	ChainIDFiat = 0 // Off-chain / fiat
)

// Well-known token addresses on CoreDAO mainnet
var (
	AddrWCORE = common.HexToAddress("0x40375C92d9FAf44d2f9db9Bd9ba41a3317a2404f")
	AddrICE   = common.HexToAddress("0xc0E49f8C615d3d4c245970F6Dc528E4A47d69a44")
	AddrSCORE = common.HexToAddress("0xA20b3B97df3a02f9185175760300a06B4e0A2C05")
	AddrUSDT  = common.HexToAddress("0x900101d06A7426441Ae63e9AB3B9b0F63Be145F1")
)

// Well-known AssetIDs
var (
	IDCore  = NewNativeAssetID(ChainIDCore)
	IDWCORE = NewTokenAssetID(ChainIDCore, AddrWCORE)
	IDICE   = NewTokenAssetID(ChainIDCore, AddrICE)
	IDSCORE = NewTokenAssetID(ChainIDCore, AddrSCORE)
	IDUSDT  = NewTokenAssetID(ChainIDCore, AddrUSDT)

	IDUSD = NewFiatAssetID("USD")
)

// Well-known Assets (pre-created instances)
var (
	CORE  = NewAssetWithName(IDCore, "CORE", "Core", 18)
	WCORE = NewAssetWithName(IDWCORE, "WCORE", "Wrapped Core", 18)
	ICE   = NewAssetWithName(IDICE, "ICE", "IceCreamSwap", 18)
	SCORE = NewAssetWithName(IDSCORE, "SCORE", "Staked Core", 18)
	USDT  = NewAssetWithName(IDUSDT, "USDT", "Tether USD", 6)

	USD = NewAssetWithName(IDUSD, "USD", "US Dollar", 2)
)

// DefaultRegistry returns a registry pre-populated with well-known CoreDAO assets.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(CORE)
	r.Register(WCORE)
	r.Register(ICE)
	r.Register(SCORE)
	r.Register(USDT)

	r.Register(USD)

	return r
}

// MustNewToken creates a new ERC20 token asset with the given parameters.
// This is a convenience function for registering custom tokens.
func MustNewToken(chainID uint64, address common.Address, symbol, name string, decimals uint8) *Asset {
	id := NewTokenAssetID(chainID, address)
	return NewAssetWithName(id, symbol, name, decimals)
}

// MustNewNative creates a new native coin asset.
func MustNewNative(chainID uint64, symbol, name string, decimals uint8) *Asset {
	id := NewNativeAssetID(chainID)
	return NewAssetWithName(id, symbol, name, decimals)
}
