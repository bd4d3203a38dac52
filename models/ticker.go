package models

import (
	"github.com/shopspring/decimal"
)

// Ticker is the last-price snapshot plus rolling 24h stats for one symbol.
// It is mutated on every price observation and never deleted. The bid/ask
// spread is generated around the price, so bid <= price <= ask is usual but
// not enforced.
type Ticker struct {
	Symbol         string          `json:"symbol"`
	Price          decimal.Decimal `json:"price"`
	Bid            decimal.Decimal `json:"bid"`
	Ask            decimal.Decimal `json:"ask"`
	Open24h        decimal.Decimal `json:"open_24h"`
	High24h        decimal.Decimal `json:"high_24h"`
	Low24h         decimal.Decimal `json:"low_24h"`
	Volume24h      decimal.Decimal `json:"volume_24h"`
	QuoteVolume24h decimal.Decimal `json:"quote_volume_24h"`
	Change24h      decimal.Decimal `json:"change_24h"`
	ChangePercent  decimal.Decimal `json:"change_percent_24h"`
	Timestamp      int64           `json:"timestamp"`
}

// OrderBook is a synthesized depth snapshot: bid levels descending, ask
// levels ascending, each level a [price, quantity] pair. It is recomputed
// from the current ticker on every read and never persisted.
type OrderBook struct {
	Symbol    string              `json:"symbol"`
	Bids      [][]decimal.Decimal `json:"bids"`
	Asks      [][]decimal.Decimal `json:"asks"`
	Timestamp int64               `json:"timestamp"`
}
