package models

import (
	"github.com/shopspring/decimal"

	"github.com/israel-nogueira/exchange-hub-sub000/types"
)

// Deposit is an append-only deposit record.
type Deposit struct {
	ID        int64                `json:"id"`
	TxID      string               `json:"tx_id"`
	Asset     string               `json:"asset"`
	Address   string               `json:"address"`
	Memo      string               `json:"memo,omitempty"`
	Network   string               `json:"network"`
	Amount    decimal.Decimal      `json:"amount"`
	Fee       decimal.Decimal      `json:"fee"`
	Status    types.TransferStatus `json:"status"`
	Timestamp int64                `json:"timestamp"`
}

// Withdrawal is an append-only withdrawal record. Creating one debits the
// asset's free balance by the gross amount; NetAmount = Amount - Fee is what
// leaves the exchange.
type Withdrawal struct {
	ID        int64                `json:"id"`
	TxID      string               `json:"tx_id"`
	Asset     string               `json:"asset"`
	Address   string               `json:"address"`
	Memo      string               `json:"memo,omitempty"`
	Network   string               `json:"network"`
	Amount    decimal.Decimal      `json:"amount"`
	Fee       decimal.Decimal      `json:"fee"`
	NetAmount decimal.Decimal      `json:"net_amount"`
	Status    types.TransferStatus `json:"status"`
	Timestamp int64                `json:"timestamp"`
}
