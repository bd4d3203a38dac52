package queries

import (
	"github.com/gookit/validate"
	"github.com/shopspring/decimal"
)

type TransferFilters struct {
	Asset    string `query:"asset"`
	TimeFrom int64  `query:"time_from" validate:"uint"`
	TimeTo   int64  `query:"time_to" validate:"uint"`
}

func (t TransferFilters) Messages() map[string]string {
	return validate.MS{
		"uint": "account.transfer.non_integer_{field}",
	}
}

type WithdrawPayload struct {
	Asset   string          `json:"asset" form:"asset" validate:"required"`
	Address string          `json:"address" form:"address" validate:"required"`
	Amount  decimal.Decimal `json:"amount" form:"amount"`
	Network string          `json:"network" form:"network"`
	Memo    string          `json:"memo" form:"memo"`
}

func (t WithdrawPayload) Messages() map[string]string {
	return validate.MS{
		"required": "account.withdraw.missing_{field}",
	}
}

type StakePayload struct {
	Asset  string          `json:"asset" form:"asset" validate:"required"`
	Amount decimal.Decimal `json:"amount" form:"amount"`
}

func (t StakePayload) Messages() map[string]string {
	return validate.MS{
		"required": "account.staking.missing_{field}",
	}
}
