package domain

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

var weiPerGwei = decimal.New(1, 9)
var weiPerCORE = decimal.New(1, 18)

// GasPrice is an observed gas price on the Core chain.
type GasPrice struct {
	Wei       decimal.Decimal
	Timestamp time.Time
}

// NewGasPrice creates a GasPrice from wei.
func NewGasPrice(wei *big.Int) GasPrice {
	return GasPrice{
		Wei:       decimal.NewFromBigInt(wei, 0),
		Timestamp: time.Now(),
	}
}

// NewGasPriceFromWei creates a GasPrice from a decimal wei value.
func NewGasPriceFromWei(wei decimal.Decimal) GasPrice {
	return GasPrice{Wei: wei, Timestamp: time.Now()}
}

// Gwei returns the price in gwei.
func (g GasPrice) Gwei() decimal.Decimal {
	return g.Wei.Div(weiPerGwei)
}

// GasEstimate is the projected gas spend for a candidate trade.
type GasEstimate struct {
	Units uint64
	Price GasPrice
}

// NewGasEstimate computes the estimate for a unit budget at a price.
func NewGasEstimate(units uint64, price GasPrice) GasEstimate {
	return GasEstimate{Units: units, Price: price}
}

// TotalWei returns units * price in wei.
func (e GasEstimate) TotalWei() decimal.Decimal {
	return e.Price.Wei.Mul(decimal.NewFromUint64(e.Units))
}

// TotalCORE returns the total spend denominated in CORE.
func (e GasEstimate) TotalCORE() decimal.Decimal {
	return e.TotalWei().Div(weiPerCORE)
}
