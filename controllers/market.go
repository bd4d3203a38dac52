package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/israel-nogueira/exchange-hub-sub000/controllers/helpers"
	"github.com/israel-nogueira/exchange-hub-sub000/controllers/queries"
	"github.com/israel-nogueira/exchange-hub-sub000/exchange"
)

func CreateOrder(c *fiber.Ctx) error {
	ex := CurrentExchange(c)
	if ex == nil {
		return exchangeMissing(c)
	}

	errs := new(helpers.Errors)
	payload := new(queries.CreateOrderPayload)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"server.method.invalid_message_body"},
		})
	}

	helpers.Vaildate(payload, errs)
	if errs.Size() > 0 {
		return c.Status(422).JSON(errs)
	}

	order, err := ex.CreateOrder(exchange.OrderRequest{
		Symbol:        payload.Symbol,
		Side:          payload.Side,
		Type:          payload.Type,
		Quantity:      payload.Quantity,
		Price:         payload.Price,
		StopPrice:     payload.StopPrice,
		TimeInForce:   payload.TimeInForce,
		ClientOrderID: payload.ClientOrderID,
	})
	if err != nil {
		return exchangeError(c, err)
	}

	return c.Status(201).JSON(order)
}

func GetOrderByID(c *fiber.Ctx) error {
	ex := CurrentExchange(c)
	if ex == nil {
		return exchangeMissing(c)
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(422).JSON(helpers.Errors{
			Errors: []string{"market.order.invalid_id"},
		})
	}

	order, err := ex.GetOrder(c.Query("symbol"), int64(id))
	if err != nil {
		return exchangeError(c, err)
	}

	return c.Status(200).JSON(order)
}

func CancelOrderByID(c *fiber.Ctx) error {
	ex := CurrentExchange(c)
	if ex == nil {
		return exchangeMissing(c)
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(422).JSON(helpers.Errors{
			Errors: []string{"market.order.invalid_id"},
		})
	}

	order, err := ex.CancelOrder(c.Query("symbol"), int64(id))
	if err != nil {
		return exchangeError(c, err)
	}

	return c.Status(200).JSON(order)
}

func CancelAllOrders(c *fiber.Ctx) error {
	ex := CurrentExchange(c)
	if ex == nil {
		return exchangeMissing(c)
	}

	orders, err := ex.CancelAllOrders(c.Query("symbol"))
	if err != nil {
		return exchangeError(c, err)
	}

	return c.Status(200).JSON(orders)
}

func GetOpenOrders(c *fiber.Ctx) error {
	ex := CurrentExchange(c)
	if ex == nil {
		return exchangeMissing(c)
	}

	orders, err := ex.OpenOrders(c.Query("symbol"))
	if err != nil {
		return exchangeError(c, err)
	}

	return c.Status(200).JSON(orders)
}

func GetOrderHistory(c *fiber.Ctx) error {
	ex := CurrentExchange(c)
	if ex == nil {
		return exchangeMissing(c)
	}

	errs := new(helpers.Errors)
	params := new(queries.OrderFilters)
	if err := c.QueryParser(params); err != nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"server.method.invalid_query"},
		})
	}

	helpers.Vaildate(params, errs)
	if errs.Size() > 0 {
		return c.Status(422).JSON(errs)
	}

	orders, err := ex.OrderHistory(params.Symbol, params.Limit, params.TimeFrom, params.TimeTo)
	if err != nil {
		return exchangeError(c, err)
	}

	return c.Status(200).JSON(orders)
}

func GetMyTrades(c *fiber.Ctx) error {
	ex := CurrentExchange(c)
	if ex == nil {
		return exchangeMissing(c)
	}

	errs := new(helpers.Errors)
	params := new(queries.OrderFilters)
	if err := c.QueryParser(params); err != nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"server.method.invalid_query"},
		})
	}

	helpers.Vaildate(params, errs)
	if errs.Size() > 0 {
		return c.Status(422).JSON(errs)
	}

	trades, err := ex.MyTrades(params.Symbol, params.Limit, params.TimeFrom, params.TimeTo)
	if err != nil {
		return exchangeError(c, err)
	}

	return c.Status(200).JSON(trades)
}

func EditOrderByID(c *fiber.Ctx) error {
	ex := CurrentExchange(c)
	if ex == nil {
		return exchangeMissing(c)
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(422).JSON(helpers.Errors{
			Errors: []string{"market.order.invalid_id"},
		})
	}

	payload := new(queries.EditOrderPayload)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"server.method.invalid_message_body"},
		})
	}

	order, err := ex.EditOrder(c.Query("symbol"), int64(id), payload.Price, payload.Quantity)
	if err != nil {
		return exchangeError(c, err)
	}

	return c.Status(200).JSON(order)
}

func CreateOCOOrder(c *fiber.Ctx) error {
	ex := CurrentExchange(c)
	if ex == nil {
		return exchangeMissing(c)
	}

	errs := new(helpers.Errors)
	payload := new(queries.CreateOCOPayload)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"server.method.invalid_message_body"},
		})
	}

	helpers.Vaildate(payload, errs)
	if errs.Size() > 0 {
		return c.Status(422).JSON(errs)
	}

	oco, err := ex.CreateOCOOrder(payload.Symbol, payload.Side, payload.Quantity,
		payload.Price, payload.StopPrice, payload.StopLimitPrice)
	if err != nil {
		return exchangeError(c, err)
	}

	return c.Status(201).JSON(oco)
}
