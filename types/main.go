package types

type OrderSide = string

var (
	SideBuy  OrderSide = "BUY"
	SideSell OrderSide = "SELL"
)

type OrderType = string

var (
	TypeMarket     OrderType = "MARKET"
	TypeLimit      OrderType = "LIMIT"
	TypeStopLimit  OrderType = "STOP_LIMIT"
	TypeStopMarket OrderType = "STOP_MARKET"
)

type OrderStatus = string

var (
	StatusOpen            OrderStatus = "OPEN"
	StatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	StatusFilled          OrderStatus = "FILLED"
	StatusCancelled       OrderStatus = "CANCELLED"
	StatusRejected        OrderStatus = "REJECTED"
	StatusExpired         OrderStatus = "EXPIRED"
)

// IsTerminalStatus reports whether an order in this status can never change
// again. Terminal orders live in trading/order_history, never in
// trading/open_orders.
func IsTerminalStatus(status OrderStatus) bool {
	switch status {
	case StatusFilled, StatusCancelled, StatusRejected, StatusExpired:
		return true
	}

	return false
}

type TimeInForce = string

var (
	TifGTC TimeInForce = "GTC"
	TifIOC TimeInForce = "IOC"
	TifFOK TimeInForce = "FOK"
	TifGTD TimeInForce = "GTD"
)

type TransferStatus = string

var (
	TransferPending   TransferStatus = "PENDING"
	TransferConfirmed TransferStatus = "CONFIRMED"
	TransferFailed    TransferStatus = "FAILED"
)

type ExchangeStatus = string

var (
	ExchangeStatusNormal      ExchangeStatus = "NORMAL"
	ExchangeStatusMaintenance ExchangeStatus = "MAINTENANCE"
)

type OrderBy = string

var (
	OrderByAsc  OrderBy = "asc"
	OrderByDesc OrderBy = "desc"
)
