package queries

import (
	"github.com/gookit/validate"
	"github.com/shopspring/decimal"

	"github.com/israel-nogueira/exchange-hub-sub000/types"
)

type OrderFilters struct {
	Symbol   string `query:"symbol"`
	Limit    int    `query:"limit" validate:"uint"`
	TimeFrom int64  `query:"time_from" validate:"uint"`
	TimeTo   int64  `query:"time_to" validate:"uint"`
}

func (t OrderFilters) Messages() map[string]string {
	return validate.MS{
		"uint": "market.order.non_integer_{field}",
	}
}

type CreateOrderPayload struct {
	Symbol        string              `json:"symbol" form:"symbol" validate:"required"`
	Side          types.OrderSide     `json:"side" form:"side" validate:"required"`
	Type          types.OrderType     `json:"type" form:"type" validate:"required"`
	Quantity      decimal.Decimal     `json:"quantity" form:"quantity"`
	Price         decimal.NullDecimal `json:"price" form:"price"`
	StopPrice     decimal.NullDecimal `json:"stop_price" form:"stop_price"`
	TimeInForce   types.TimeInForce   `json:"time_in_force" form:"time_in_force"`
	ClientOrderID string              `json:"client_order_id" form:"client_order_id"`
}

func (t CreateOrderPayload) Messages() map[string]string {
	return validate.MS{
		"required": "market.order.missing_{field}",
	}
}

type EditOrderPayload struct {
	Price    decimal.NullDecimal `json:"price" form:"price"`
	Quantity decimal.NullDecimal `json:"quantity" form:"quantity"`
}

type CreateOCOPayload struct {
	Symbol         string          `json:"symbol" form:"symbol" validate:"required"`
	Side           types.OrderSide `json:"side" form:"side" validate:"required"`
	Quantity       decimal.Decimal `json:"quantity" form:"quantity"`
	Price          decimal.Decimal `json:"price" form:"price"`
	StopPrice      decimal.Decimal `json:"stop_price" form:"stop_price"`
	StopLimitPrice decimal.Decimal `json:"stop_limit_price" form:"stop_limit_price"`
}

func (t CreateOCOPayload) Messages() map[string]string {
	return validate.MS{
		"required": "market.order.missing_{field}",
	}
}
