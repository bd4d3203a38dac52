package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/israel-nogueira/exchange-hub-sub000/controllers/helpers"
	"github.com/israel-nogueira/exchange-hub-sub000/controllers/queries"
)

func GetTimestamp(c *fiber.Ctx) error {
	return c.Status(200).JSON(time.Now().UnixMilli())
}

func GetExchanges(c *fiber.Ctx) error {
	return c.Status(200).JSON(hub.Names())
}

func GetExchangeInfo(c *fiber.Ctx) error {
	ex := CurrentExchange(c)
	if ex == nil {
		return exchangeMissing(c)
	}

	info, err := ex.ExchangeInfo()
	if err != nil {
		return exchangeError(c, err)
	}

	return c.Status(200).JSON(info)
}

func GetSymbols(c *fiber.Ctx) error {
	ex := CurrentExchange(c)
	if ex == nil {
		return exchangeMissing(c)
	}

	symbols, err := ex.Symbols()
	if err != nil {
		return exchangeError(c, err)
	}

	return c.Status(200).JSON(symbols)
}

func GetTicker(c *fiber.Ctx) error {
	ex := CurrentExchange(c)
	if ex == nil {
		return exchangeMissing(c)
	}

	ticker, err := ex.Ticker(c.Params("symbol"))
	if err != nil {
		return exchangeError(c, err)
	}

	return c.Status(200).JSON(ticker)
}

func GetDepth(c *fiber.Ctx) error {
	ex := CurrentExchange(c)
	if ex == nil {
		return exchangeMissing(c)
	}

	errs := new(helpers.Errors)
	params := new(queries.DepthQuery)
	if err := c.QueryParser(params); err != nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"server.method.invalid_query"},
		})
	}

	helpers.Vaildate(params, errs)
	if errs.Size() > 0 {
		return c.Status(422).JSON(errs)
	}

	book, err := ex.OrderBook(c.Params("symbol"), params.Limit)
	if err != nil {
		return exchangeError(c, err)
	}

	return c.Status(200).JSON(book)
}

func GetPublicTrades(c *fiber.Ctx) error {
	ex := CurrentExchange(c)
	if ex == nil {
		return exchangeMissing(c)
	}

	errs := new(helpers.Errors)
	params := new(queries.TradesQuery)
	if err := c.QueryParser(params); err != nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"server.method.invalid_query"},
		})
	}

	helpers.Vaildate(params, errs)
	if errs.Size() > 0 {
		return c.Status(422).JSON(errs)
	}

	trades, err := ex.RecentTrades(c.Params("symbol"), params.Limit)
	if err != nil {
		return exchangeError(c, err)
	}

	return c.Status(200).JSON(trades)
}

func GetCandles(c *fiber.Ctx) error {
	ex := CurrentExchange(c)
	if ex == nil {
		return exchangeMissing(c)
	}

	errs := new(helpers.Errors)
	params := new(queries.CandlesQuery)
	if err := c.QueryParser(params); err != nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"server.method.invalid_query"},
		})
	}

	helpers.Vaildate(params, errs)
	if errs.Size() > 0 {
		return c.Status(422).JSON(errs)
	}

	if len(params.Interval) == 0 {
		params.Interval = "1h"
	}

	candles, err := ex.Candles(c.Params("symbol"), params.Interval, params.Limit, params.TimeFrom, params.TimeTo)
	if err != nil {
		return exchangeError(c, err)
	}

	return c.Status(200).JSON(candles)
}

func GetAvgPrice(c *fiber.Ctx) error {
	ex := CurrentExchange(c)
	if ex == nil {
		return exchangeMissing(c)
	}

	price, err := ex.AvgPrice(c.Params("symbol"))
	if err != nil {
		return exchangeError(c, err)
	}

	return c.Status(200).JSON(fiber.Map{
		"symbol": c.Params("symbol"),
		"price":  price,
	})
}
