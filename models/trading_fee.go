package models

import (
	"github.com/shopspring/decimal"
)

// TradingFee is the commission schedule applied to fills. The simulator
// applies the maker rate to every fill regardless of liquidity direction.
type TradingFee struct {
	Maker decimal.Decimal `json:"maker"`
	Taker decimal.Decimal `json:"taker"`
}

func NewTradingFee(maker, taker float64) TradingFee {
	return TradingFee{
		Maker: decimal.NewFromFloat(maker),
		Taker: decimal.NewFromFloat(taker),
	}
}
