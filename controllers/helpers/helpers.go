package helpers

import (
	"github.com/gookit/validate"

	"github.com/israel-nogueira/exchange-hub-sub000/exchange"
)

type Errors struct {
	Errors []string `json:"errors"`
}

func (e Errors) Size() int {
	return len(e.Errors)
}

func Vaildate(payload interface{}, err_src *Errors) {
	v := validate.Struct(payload)
	if !v.Validate() {
		for _, errs := range v.Errors.All() {
			for _, err := range errs {
				err_src.Errors = append(err_src.Errors, err)
			}
		}
	}
}

// ErrorStatus maps a typed exchange error onto the HTTP status the REST
// surface answers with.
func ErrorStatus(err error) int {
	switch err.(type) {
	case *exchange.OrderNotFoundError:
		return 404
	case *exchange.InvalidSymbolError,
		*exchange.InvalidOrderError,
		*exchange.InsufficientBalanceError,
		*exchange.WithdrawError:
		return 422
	case *exchange.AuthenticationError:
		return 401
	case *exchange.RateLimitError:
		return 429
	default:
		return 500
	}
}
