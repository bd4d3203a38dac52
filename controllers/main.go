package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/israel-nogueira/exchange-hub-sub000/controllers/helpers"
	"github.com/israel-nogueira/exchange-hub-sub000/exchange"
	"github.com/israel-nogueira/exchange-hub-sub000/server"
)

var hub *server.Hub

// SetHub wires the exchange registry the controllers resolve against.
func SetHub(h *server.Hub) {
	hub = h
}

// CurrentExchange resolves the exchange a request addresses, the hub default
// when the exchange query parameter is absent.
func CurrentExchange(c *fiber.Ctx) exchange.Exchange {
	if hub == nil {
		return nil
	}

	return hub.Get(c.Query("exchange"))
}

func exchangeError(c *fiber.Ctx, err error) error {
	return c.Status(helpers.ErrorStatus(err)).JSON(helpers.Errors{
		Errors: []string{err.Error()},
	})
}

func exchangeMissing(c *fiber.Ctx) error {
	return c.Status(422).JSON(helpers.Errors{
		Errors: []string{"public.exchange.doesnt_exist"},
	})
}
