package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Candle struct {
	Symbol      string          `json:"symbol"`
	Interval    string          `json:"interval"`
	OpenTime    int64           `json:"open_time"`
	Open        decimal.Decimal `json:"open"`
	High        decimal.Decimal `json:"high"`
	Low         decimal.Decimal `json:"low"`
	Close       decimal.Decimal `json:"close"`
	Volume      decimal.Decimal `json:"volume"`
	QuoteVolume decimal.Decimal `json:"quote_volume"`
	TradeCount  int64           `json:"trade_count"`
	CloseTime   int64           `json:"close_time"`
}

var intervalDurations = map[string]time.Duration{
	"1m":  time.Minute,
	"3m":  3 * time.Minute,
	"5m":  5 * time.Minute,
	"15m": 15 * time.Minute,
	"30m": 30 * time.Minute,
	"1h":  time.Hour,
	"2h":  2 * time.Hour,
	"4h":  4 * time.Hour,
	"6h":  6 * time.Hour,
	"12h": 12 * time.Hour,
	"1d":  24 * time.Hour,
	"1w":  7 * 24 * time.Hour,
}

// IntervalDuration returns the duration of a candle interval, zero when the
// interval is unknown.
func IntervalDuration(interval string) time.Duration {
	return intervalDurations[interval]
}
