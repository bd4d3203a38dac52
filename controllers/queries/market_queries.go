package queries

import "github.com/gookit/validate"

type DepthQuery struct {
	Limit int `query:"limit" validate:"uint"`
}

func (t DepthQuery) Messages() map[string]string {
	return validate.MS{
		"uint": "public.market_depth.non_integer_limit",
	}
}

type TradesQuery struct {
	Limit int `query:"limit" validate:"uint"`
}

func (t TradesQuery) Messages() map[string]string {
	return validate.MS{
		"uint": "public.trades.non_integer_limit",
	}
}

type CandlesQuery struct {
	Interval string `query:"interval"`
	Limit    int    `query:"limit" validate:"uint"`
	TimeFrom int64  `query:"time_from" validate:"uint"`
	TimeTo   int64  `query:"time_to" validate:"uint"`
}

func (t CandlesQuery) Messages() map[string]string {
	return validate.MS{
		"uint": "public.candles.non_integer_{field}",
	}
}
