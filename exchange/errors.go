package exchange

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Every error carries the identifier of the exchange that produced it, so
// callers juggling several adapters can attribute failures.

type InvalidSymbolError struct {
	Exchange string
	Symbol   string
}

func (e *InvalidSymbolError) Error() string {
	return fmt.Sprintf("%s: market.symbol.doesnt_exist: %s", e.Exchange, e.Symbol)
}

type InsufficientBalanceError struct {
	Exchange  string
	Asset     string
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("%s: market.account.insufficient_balance: %s required %s, available %s",
		e.Exchange, e.Asset, e.Required, e.Available)
}

type OrderNotFoundError struct {
	Exchange string
	OrderID  int64
}

func (e *OrderNotFoundError) Error() string {
	return fmt.Sprintf("%s: market.order.not_found: %d", e.Exchange, e.OrderID)
}

type InvalidOrderError struct {
	Exchange string
	Reason   string
}

func (e *InvalidOrderError) Error() string {
	return fmt.Sprintf("%s: market.order.invalid: %s", e.Exchange, e.Reason)
}

type WithdrawError struct {
	Exchange string
	Reason   string
}

func (e *WithdrawError) Error() string {
	return fmt.Sprintf("%s: account.withdraw.invalid: %s", e.Exchange, e.Reason)
}

// AuthenticationError is raised by real-exchange adapters on rejected
// credentials. The simulator never produces it.
type AuthenticationError struct {
	Exchange string
}

func (e *AuthenticationError) Error() string {
	return e.Exchange + ": auth.invalid_credentials"
}

// RateLimitError is surfaced from HTTP 429/418 responses and is never
// retried.
type RateLimitError struct {
	Exchange   string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: request.rate_limit: retry after %s", e.Exchange, e.RetryAfter)
}

// NetworkError is a transport-level failure, the only retryable error class.
type NetworkError struct {
	Exchange string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: request.network_error: %v", e.Exchange, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
