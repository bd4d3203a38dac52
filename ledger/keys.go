package ledger

// Persisted state layout of the simulated exchange.
const (
	KeyBalances        = "account/balances"
	KeyDepositHistory  = "account/deposit_history"
	KeyWithdrawHistory = "account/withdraw_history"
	KeySymbols         = "market/symbols"
	KeyTickers         = "market/tickers"
	KeyOpenOrders      = "trading/open_orders"
	KeyOrderHistory    = "trading/order_history"
	KeyTradeHistory    = "trading/trade_history"
)

// KeyCandles returns the candle-series key for a (symbol, interval) pair.
func KeyCandles(symbol, interval string) string {
	return "market/candles_" + symbol + "_" + interval
}
