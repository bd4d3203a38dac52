package models

import (
	"github.com/shopspring/decimal"

	"github.com/israel-nogueira/exchange-hub-sub000/types"
)

// Trade is a fill record. Created exactly once per fill event, immutable
// afterwards.
type Trade struct {
	ID        int64           `json:"trade_id"`
	OrderID   int64           `json:"order_id"`
	Symbol    string          `json:"symbol"`
	Side      types.OrderSide `json:"side"`
	Price     decimal.Decimal `json:"price"`
	Quantity  decimal.Decimal `json:"quantity"`
	QuoteQty  decimal.Decimal `json:"quote_qty"`
	Fee       decimal.Decimal `json:"fee"`
	FeeAsset  string          `json:"fee_asset"`
	IsMaker   bool            `json:"is_maker"`
	Timestamp int64           `json:"timestamp"`
}
