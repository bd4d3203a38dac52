package models

import (
	"github.com/google/uuid"
	"github.com/gookit/validate"
	"github.com/shopspring/decimal"

	"github.com/israel-nogueira/exchange-hub-sub000/types"
)

type Order struct {
	ID            int64               `json:"order_id"`
	UUID          uuid.UUID           `json:"uuid"`
	ClientOrderID string              `json:"client_order_id"`
	Symbol        string              `json:"symbol" validate:"required"`
	Side          types.OrderSide     `json:"side" validate:"required|VaildateSide"`
	Type          types.OrderType     `json:"type" validate:"VaildateType"`
	Status        types.OrderStatus   `json:"status"`
	Quantity      decimal.Decimal     `json:"quantity" validate:"VaildateQuantity"`
	ExecutedQty   decimal.Decimal     `json:"executed_qty"`
	Price         decimal.NullDecimal `json:"price" validate:"VaildatePrice"`
	StopPrice     decimal.NullDecimal `json:"stop_price" validate:"VaildateStopPrice"`
	AvgPrice      decimal.Decimal     `json:"avg_price"`
	TimeInForce   types.TimeInForce   `json:"time_in_force"`
	Fee           decimal.Decimal     `json:"fee"`
	FeeAsset      string              `json:"fee_asset"`
	OCOGroupID    string              `json:"oco_group_id,omitempty"`
	StopTriggered bool                `json:"stop_triggered"`
	Locked        decimal.Decimal     `json:"locked"`
	LockedAsset   string              `json:"locked_asset"`
	CreatedAt     int64               `json:"created_at"`
	UpdatedAt     int64               `json:"updated_at"`
}

func (o Order) Message() map[string]string {
	invalid_message := "market.order.invalid_{field}"

	return validate.MS{
		"required":          invalid_message,
		"VaildateSide":      "market.order.invalid_side",
		"VaildateType":      "market.order.invalid_type",
		"VaildateQuantity":  "market.order.non_positive_quantity",
		"VaildatePrice":     "market.order.non_positive_price",
		"VaildateStopPrice": "market.order.non_positive_stop_price",
	}
}

func (o Order) VaildateSide(side types.OrderSide) bool {
	return side == types.SideBuy || side == types.SideSell
}

func (o Order) VaildateType(ord_type types.OrderType) bool {
	switch ord_type {
	case types.TypeMarket:
		return !o.Price.Valid && !o.StopPrice.Valid
	case types.TypeLimit:
		return o.Price.Valid
	case types.TypeStopLimit:
		return o.Price.Valid && o.StopPrice.Valid
	case types.TypeStopMarket:
		return o.StopPrice.Valid
	}

	return false
}

func (o Order) VaildateQuantity(quantity decimal.Decimal) bool {
	return quantity.IsPositive()
}

func (o Order) VaildatePrice(price decimal.NullDecimal) bool {
	if price.Valid {
		return price.Decimal.IsPositive()
	}

	return true
}

func (o Order) VaildateStopPrice(stop_price decimal.NullDecimal) bool {
	if stop_price.Valid {
		return stop_price.Decimal.IsPositive()
	}

	return true
}

func (o *Order) BaseAsset() string {
	base, _ := SplitSymbol(o.Symbol)
	return base
}

func (o *Order) QuoteAsset() string {
	_, quote := SplitSymbol(o.Symbol)
	return quote
}

func (o *Order) IsBuy() bool {
	return o.Side == types.SideBuy
}

func (o *Order) IsStop() bool {
	return o.Type == types.TypeStopLimit || o.Type == types.TypeStopMarket
}

// LimitPrice is the resting price an order fills at. Zero for orders without
// a limit leg (market and stop-market).
func (o *Order) LimitPrice() decimal.Decimal {
	if o.Price.Valid {
		return o.Price.Decimal
	}

	return decimal.Zero
}

func (o *Order) IsTerminal() bool {
	return types.IsTerminalStatus(o.Status)
}

// StopSatisfied reports whether the observed price satisfies the stop
// condition: price >= stop for BUY, price <= stop for SELL.
func (o *Order) StopSatisfied(price decimal.Decimal) bool {
	if !o.StopPrice.Valid {
		return false
	}

	if o.IsBuy() {
		return price.GreaterThanOrEqual(o.StopPrice.Decimal)
	}

	return price.LessThanOrEqual(o.StopPrice.Decimal)
}
