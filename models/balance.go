package models

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Balance tracks one asset across three independently mutable buckets.
// Every mutator validates before touching state so a failed call leaves the
// balance untouched; no bucket may ever go negative.
type Balance struct {
	Asset  string          `json:"asset"`
	Free   decimal.Decimal `json:"free"`
	Locked decimal.Decimal `json:"locked"`
	Staked decimal.Decimal `json:"staked"`
}

func NewBalance(asset string) *Balance {
	return &Balance{
		Asset:  asset,
		Free:   decimal.Zero,
		Locked: decimal.Zero,
		Staked: decimal.Zero,
	}
}

func (b *Balance) Total() decimal.Decimal {
	return b.Free.Add(b.Locked).Add(b.Staked)
}

func (b *Balance) IsZero() bool {
	return b.Free.IsZero() && b.Locked.IsZero() && b.Staked.IsZero()
}

func (b *Balance) PlusFunds(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errors.New("Cannot add funds (asset: " + b.Asset + ", amount: " + amount.String() + ", free: " + b.Free.String() + ").")
	}

	b.Free = b.Free.Add(amount)
	return nil
}

func (b *Balance) SubFunds(amount decimal.Decimal) error {
	if !amount.IsPositive() || amount.GreaterThan(b.Free) {
		return errors.New("Cannot subtract funds (asset: " + b.Asset + ", amount: " + amount.String() + ", free: " + b.Free.String() + ").")
	}

	b.Free = b.Free.Sub(amount)
	return nil
}

func (b *Balance) LockFunds(amount decimal.Decimal) error {
	if !amount.IsPositive() || amount.GreaterThan(b.Free) {
		return errors.New("Cannot lock funds (asset: " + b.Asset + ", amount: " + amount.String() + ", free: " + b.Free.String() + ", locked: " + b.Locked.String() + ").")
	}

	b.Free = b.Free.Sub(amount)
	b.Locked = b.Locked.Add(amount)
	return nil
}

func (b *Balance) UnlockFunds(amount decimal.Decimal) error {
	if !amount.IsPositive() || amount.GreaterThan(b.Locked) {
		return errors.New("Cannot unlock funds (asset: " + b.Asset + ", amount: " + amount.String() + ", free: " + b.Free.String() + ", locked: " + b.Locked.String() + ").")
	}

	b.Free = b.Free.Add(amount)
	b.Locked = b.Locked.Sub(amount)
	return nil
}

// UnlockAndSubFunds spends locked funds directly without passing through the
// free bucket. Used by fill settlement.
func (b *Balance) UnlockAndSubFunds(amount decimal.Decimal) error {
	if !amount.IsPositive() || amount.GreaterThan(b.Locked) {
		return errors.New("Cannot unlock and subtract funds (asset: " + b.Asset + ", amount: " + amount.String() + ", locked: " + b.Locked.String() + ").")
	}

	b.Locked = b.Locked.Sub(amount)
	return nil
}

func (b *Balance) StakeFunds(amount decimal.Decimal) error {
	if !amount.IsPositive() || amount.GreaterThan(b.Free) {
		return errors.New("Cannot stake funds (asset: " + b.Asset + ", amount: " + amount.String() + ", free: " + b.Free.String() + ", staked: " + b.Staked.String() + ").")
	}

	b.Free = b.Free.Sub(amount)
	b.Staked = b.Staked.Add(amount)
	return nil
}

func (b *Balance) UnstakeFunds(amount decimal.Decimal) error {
	if !amount.IsPositive() || amount.GreaterThan(b.Staked) {
		return errors.New("Cannot unstake funds (asset: " + b.Asset + ", amount: " + amount.String() + ", free: " + b.Free.String() + ", staked: " + b.Staked.String() + ").")
	}

	b.Staked = b.Staked.Sub(amount)
	b.Free = b.Free.Add(amount)
	return nil
}
