// Package exchange defines the uniform operation contract shared by every
// exchange integration, and the self-contained simulated exchange that
// implements it without network access.
package exchange

import (
	"github.com/shopspring/decimal"

	"github.com/israel-nogueira/exchange-hub-sub000/models"
	"github.com/israel-nogueira/exchange-hub-sub000/types"
)

type ExchangeInfo struct {
	Name     string               `json:"name"`
	Status   types.ExchangeStatus `json:"status"`
	Symbols  []string             `json:"symbols"`
	MakerFee decimal.Decimal      `json:"maker_fee"`
	TakerFee decimal.Decimal      `json:"taker_fee"`
}

// OrderRequest carries the parameters of createOrder. Price is required for
// LIMIT and STOP_LIMIT, StopPrice for both stop types; MARKET takes neither.
type OrderRequest struct {
	Symbol        string              `json:"symbol"`
	Side          types.OrderSide     `json:"side"`
	Type          types.OrderType     `json:"type"`
	Quantity      decimal.Decimal     `json:"quantity"`
	Price         decimal.NullDecimal `json:"price"`
	StopPrice     decimal.NullDecimal `json:"stop_price"`
	TimeInForce   types.TimeInForce   `json:"time_in_force"`
	ClientOrderID string              `json:"client_order_id"`
}

// OCOOrder is the result of createOCOOrder: a limit take-profit and a
// stop-limit stop-loss sharing a group id. The legs are fully independent;
// filling or cancelling one does not touch the other.
type OCOOrder struct {
	GroupID    string        `json:"group_id"`
	LimitOrder *models.Order `json:"limit_order"`
	StopOrder  *models.Order `json:"stop_order"`
}

// Exchange is the uniform contract consumed identically through real
// adapters and the simulated exchange.
type Exchange interface {
	Name() string

	// market data
	Ping() bool
	ServerTime() int64
	ExchangeInfo() (*ExchangeInfo, error)
	Symbols() ([]string, error)
	Ticker(symbol string) (*models.Ticker, error)
	OrderBook(symbol string, limit int) (*models.OrderBook, error)
	RecentTrades(symbol string, limit int) ([]*models.Trade, error)
	Candles(symbol, interval string, limit int, start, end int64) ([]models.Candle, error)
	AvgPrice(symbol string) (decimal.Decimal, error)

	// trading
	CreateOrder(req OrderRequest) (*models.Order, error)
	CancelOrder(symbol string, orderID int64) (*models.Order, error)
	CancelAllOrders(symbol string) ([]*models.Order, error)
	GetOrder(symbol string, orderID int64) (*models.Order, error)
	OpenOrders(symbol string) ([]*models.Order, error)
	OrderHistory(symbol string, limit int, start, end int64) ([]*models.Order, error)
	MyTrades(symbol string, limit int, start, end int64) ([]*models.Trade, error)
	EditOrder(symbol string, orderID int64, price, quantity decimal.NullDecimal) (*models.Order, error)
	CreateOCOOrder(symbol string, side types.OrderSide, quantity, price, stopPrice, stopLimitPrice decimal.Decimal) (*OCOOrder, error)

	// account
	AccountInfo() (map[string]interface{}, error)
	Balances() (map[string]*models.Balance, error)
	Balance(asset string) (*models.Balance, error)
	CommissionRates() (models.TradingFee, error)
	DepositAddress(asset, network string) (*models.Deposit, error)
	DepositHistory(asset string, start, end int64) ([]*models.Deposit, error)
	WithdrawHistory(asset string, start, end int64) ([]*models.Withdrawal, error)
	Withdraw(asset, address string, amount decimal.Decimal, network, memo string) (*models.Withdrawal, error)
	StakeAsset(asset string, amount decimal.Decimal) (map[string]interface{}, error)
	UnstakeAsset(asset string, amount decimal.Decimal) (map[string]interface{}, error)
	StakingPositions() ([]map[string]interface{}, error)
}
