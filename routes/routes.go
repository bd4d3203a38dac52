package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/israel-nogueira/exchange-hub-sub000/controllers"
	"github.com/israel-nogueira/exchange-hub-sub000/routes/middlewares"
	"github.com/israel-nogueira/exchange-hub-sub000/server"
)

func SetupRouter(hub *server.Hub) *fiber.App {
	app := fiber.New()

	controllers.SetHub(hub)

	app.Get("/api/v2/public/timestamp", controllers.GetTimestamp)
	app.Get("/api/v2/public/exchanges", controllers.GetExchanges)
	app.Get("/api/v2/public/exchange_info", controllers.GetExchangeInfo)
	app.Get("/api/v2/public/symbols", controllers.GetSymbols)
	app.Get("/api/v2/public/markets/:symbol/ticker", controllers.GetTicker)
	app.Get("/api/v2/public/markets/:symbol/depth", controllers.GetDepth)
	app.Get("/api/v2/public/markets/:symbol/trades", controllers.GetPublicTrades)
	app.Get("/api/v2/public/markets/:symbol/candles", controllers.GetCandles)
	app.Get("/api/v2/public/markets/:symbol/avg_price", controllers.GetAvgPrice)

	market := app.Group("/api/v2/market", middlewares.Authenticate)
	market.Post("/orders", controllers.CreateOrder)
	market.Post("/orders/oco", controllers.CreateOCOOrder)
	market.Get("/orders", controllers.GetOpenOrders)
	market.Get("/orders/history", controllers.GetOrderHistory)
	market.Get("/orders/:id", controllers.GetOrderByID)
	market.Put("/orders/:id", controllers.EditOrderByID)
	market.Delete("/orders/:id", controllers.CancelOrderByID)
	market.Delete("/orders", controllers.CancelAllOrders)
	market.Get("/trades", controllers.GetMyTrades)

	account := app.Group("/api/v2/account", middlewares.Authenticate)
	account.Get("/info", controllers.GetAccountInfo)
	account.Get("/balances", controllers.GetBalances)
	account.Get("/balances/:asset", controllers.GetBalance)
	account.Get("/fees", controllers.GetCommissionRates)
	account.Get("/deposit_address/:asset", controllers.GetDepositAddress)
	account.Get("/deposits", controllers.GetDepositHistory)
	account.Get("/withdraws", controllers.GetWithdrawHistory)
	account.Post("/withdraws", controllers.CreateWithdraw)
	account.Post("/staking/stake", controllers.CreateStake)
	account.Post("/staking/unstake", controllers.CreateUnstake)
	account.Get("/staking/positions", controllers.GetStakingPositions)

	return app
}
