package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"

	"github.com/israel-nogueira/exchange-hub-sub000/config"
	"github.com/israel-nogueira/exchange-hub-sub000/exchange"
	"github.com/israel-nogueira/exchange-hub-sub000/models"
	"github.com/israel-nogueira/exchange-hub-sub000/server"
	"github.com/israel-nogueira/exchange-hub-sub000/sign"
)

type suiteRoutesTester struct {
	suite.Suite

	hub *server.Hub
	app *fiber.App
}

func (s *suiteRoutesTester) SetupSuite() {
	config.NewLoggerService()
}

func (s *suiteRoutesTester) SetupTest() {
	cfg := config.DefaultSimulator()
	cfg.DataDir = s.T().TempDir()
	cfg.BasePrices = map[string]float64{"BTCUSDT": 98500}
	cfg.InitialBalances = map[string]float64{"USDT": 10000}

	sim, err := exchange.NewSimulated(cfg)
	s.Require().NoError(err)

	s.hub = server.NewHub()
	s.hub.Register(sim)
	s.app = SetupRouter(s.hub)
}

func (s *suiteRoutesTester) TearDownTest() {
	s.hub.Close()
}

func (s *suiteRoutesTester) request(method, target string, payload interface{}) *http.Request {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		s.Require().NoError(err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req
}

func (s *suiteRoutesTester) TestPublicTimestamp() {
	resp, err := s.app.Test(s.request(http.MethodGet, "/api/v2/public/timestamp", nil))

	s.Require().NoError(err)
	s.Equal(200, resp.StatusCode)
}

func (s *suiteRoutesTester) TestPublicTicker() {
	resp, err := s.app.Test(s.request(http.MethodGet, "/api/v2/public/markets/BTCUSDT/ticker", nil))
	s.Require().NoError(err)
	s.Equal(200, resp.StatusCode)

	var ticker models.Ticker
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&ticker))
	s.Equal("BTCUSDT", ticker.Symbol)
	s.True(ticker.Price.IsPositive())
}

func (s *suiteRoutesTester) TestUnknownSymbolAnswers422() {
	resp, err := s.app.Test(s.request(http.MethodGet, "/api/v2/public/markets/NOPEUSDT/ticker", nil))

	s.Require().NoError(err)
	s.Equal(422, resp.StatusCode)
}

func (s *suiteRoutesTester) TestUnknownExchangeAnswers422() {
	resp, err := s.app.Test(s.request(http.MethodGet, "/api/v2/public/symbols?exchange=binance", nil))

	s.Require().NoError(err)
	s.Equal(422, resp.StatusCode)
}

func (s *suiteRoutesTester) TestCreateAndCancelOrder() {
	payload := map[string]interface{}{
		"symbol":   "BTCUSDT",
		"side":     "BUY",
		"type":     "LIMIT",
		"quantity": "0.001",
		"price":    "90000",
	}

	resp, err := s.app.Test(s.request(http.MethodPost, "/api/v2/market/orders", payload))
	s.Require().NoError(err)
	s.Require().Equal(201, resp.StatusCode)

	var order models.Order
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&order))
	s.EqualValues("OPEN", order.Status)

	resp, err = s.app.Test(s.request(http.MethodDelete, "/api/v2/market/orders/1?symbol=BTCUSDT", nil))
	s.Require().NoError(err)
	s.Equal(200, resp.StatusCode)
}

func (s *suiteRoutesTester) TestValidationErrorAnswers422() {
	payload := map[string]interface{}{
		"symbol": "BTCUSDT",
		"side":   "BUY",
		// type missing
		"quantity": "0.001",
	}

	resp, err := s.app.Test(s.request(http.MethodPost, "/api/v2/market/orders", payload))

	s.Require().NoError(err)
	s.Equal(422, resp.StatusCode)
}

func (s *suiteRoutesTester) TestPrivateSurfaceRequiresSignature() {
	s.T().Setenv("API_KEY", "key")
	s.T().Setenv("API_SECRET", "secret")

	resp, err := s.app.Test(s.request(http.MethodGet, "/api/v2/account/balances", nil))
	s.Require().NoError(err)
	s.Equal(401, resp.StatusCode)

	// the client-side signer satisfies the middleware
	signer := &sign.HeaderHMAC{
		Credentials: sign.Credentials{APIKey: "key", APISecret: "secret"},
	}
	req := s.request(http.MethodGet, "/api/v2/account/balances", nil)
	s.Require().NoError(signer.Apply(req, nil))

	resp, err = s.app.Test(req)
	s.Require().NoError(err)
	s.Equal(200, resp.StatusCode)

	var balances map[string]*models.Balance
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&balances))
	s.Contains(balances, "USDT")
}

func TestRoutesSuite(t *testing.T) {
	suite.Run(t, new(suiteRoutesTester))
}
