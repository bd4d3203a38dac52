package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/israel-nogueira/exchange-hub-sub000/controllers/helpers"
	"github.com/israel-nogueira/exchange-hub-sub000/controllers/queries"
)

func GetAccountInfo(c *fiber.Ctx) error {
	ex := CurrentExchange(c)
	if ex == nil {
		return exchangeMissing(c)
	}

	info, err := ex.AccountInfo()
	if err != nil {
		return exchangeError(c, err)
	}

	return c.Status(200).JSON(info)
}

func GetBalances(c *fiber.Ctx) error {
	ex := CurrentExchange(c)
	if ex == nil {
		return exchangeMissing(c)
	}

	balances, err := ex.Balances()
	if err != nil {
		return exchangeError(c, err)
	}

	return c.Status(200).JSON(balances)
}

func GetBalance(c *fiber.Ctx) error {
	ex := CurrentExchange(c)
	if ex == nil {
		return exchangeMissing(c)
	}

	balance, err := ex.Balance(c.Params("asset"))
	if err != nil {
		return exchangeError(c, err)
	}

	return c.Status(200).JSON(balance)
}

func GetCommissionRates(c *fiber.Ctx) error {
	ex := CurrentExchange(c)
	if ex == nil {
		return exchangeMissing(c)
	}

	fees, err := ex.CommissionRates()
	if err != nil {
		return exchangeError(c, err)
	}

	return c.Status(200).JSON(fees)
}

func GetDepositAddress(c *fiber.Ctx) error {
	ex := CurrentExchange(c)
	if ex == nil {
		return exchangeMissing(c)
	}

	address, err := ex.DepositAddress(c.Params("asset"), c.Query("network"))
	if err != nil {
		return exchangeError(c, err)
	}

	return c.Status(200).JSON(address)
}

func GetDepositHistory(c *fiber.Ctx) error {
	ex := CurrentExchange(c)
	if ex == nil {
		return exchangeMissing(c)
	}

	errs := new(helpers.Errors)
	params := new(queries.TransferFilters)
	if err := c.QueryParser(params); err != nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"server.method.invalid_query"},
		})
	}

	helpers.Vaildate(params, errs)
	if errs.Size() > 0 {
		return c.Status(422).JSON(errs)
	}

	deposits, err := ex.DepositHistory(params.Asset, params.TimeFrom, params.TimeTo)
	if err != nil {
		return exchangeError(c, err)
	}

	return c.Status(200).JSON(deposits)
}

func GetWithdrawHistory(c *fiber.Ctx) error {
	ex := CurrentExchange(c)
	if ex == nil {
		return exchangeMissing(c)
	}

	errs := new(helpers.Errors)
	params := new(queries.TransferFilters)
	if err := c.QueryParser(params); err != nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"server.method.invalid_query"},
		})
	}

	helpers.Vaildate(params, errs)
	if errs.Size() > 0 {
		return c.Status(422).JSON(errs)
	}

	withdrawals, err := ex.WithdrawHistory(params.Asset, params.TimeFrom, params.TimeTo)
	if err != nil {
		return exchangeError(c, err)
	}

	return c.Status(200).JSON(withdrawals)
}

func CreateWithdraw(c *fiber.Ctx) error {
	ex := CurrentExchange(c)
	if ex == nil {
		return exchangeMissing(c)
	}

	errs := new(helpers.Errors)
	payload := new(queries.WithdrawPayload)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"server.method.invalid_message_body"},
		})
	}

	helpers.Vaildate(payload, errs)
	if errs.Size() > 0 {
		return c.Status(422).JSON(errs)
	}

	withdrawal, err := ex.Withdraw(payload.Asset, payload.Address, payload.Amount,
		payload.Network, payload.Memo)
	if err != nil {
		return exchangeError(c, err)
	}

	return c.Status(201).JSON(withdrawal)
}

func CreateStake(c *fiber.Ctx) error {
	ex := CurrentExchange(c)
	if ex == nil {
		return exchangeMissing(c)
	}

	errs := new(helpers.Errors)
	payload := new(queries.StakePayload)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"server.method.invalid_message_body"},
		})
	}

	helpers.Vaildate(payload, errs)
	if errs.Size() > 0 {
		return c.Status(422).JSON(errs)
	}

	position, err := ex.StakeAsset(payload.Asset, payload.Amount)
	if err != nil {
		return exchangeError(c, err)
	}

	return c.Status(201).JSON(position)
}

func CreateUnstake(c *fiber.Ctx) error {
	ex := CurrentExchange(c)
	if ex == nil {
		return exchangeMissing(c)
	}

	errs := new(helpers.Errors)
	payload := new(queries.StakePayload)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"server.method.invalid_message_body"},
		})
	}

	helpers.Vaildate(payload, errs)
	if errs.Size() > 0 {
		return c.Status(422).JSON(errs)
	}

	position, err := ex.UnstakeAsset(payload.Asset, payload.Amount)
	if err != nil {
		return exchangeError(c, err)
	}

	return c.Status(201).JSON(position)
}

func GetStakingPositions(c *fiber.Ctx) error {
	ex := CurrentExchange(c)
	if ex == nil {
		return exchangeMissing(c)
	}

	positions, err := ex.StakingPositions()
	if err != nil {
		return exchangeError(c, err)
	}

	return c.Status(200).JSON(positions)
}
