package exchange

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/israel-nogueira/exchange-hub-sub000/config"
	"github.com/israel-nogueira/exchange-hub-sub000/types"
)

type suiteSimulatedTester struct {
	suite.Suite

	sim *SimulatedExchange
	cfg *config.SimulatorConfig
}

func (s *suiteSimulatedTester) SetupSuite() {
	config.NewLoggerService()
}

func (s *suiteSimulatedTester) SetupTest() {
	cfg := config.DefaultSimulator()
	cfg.DataDir = s.T().TempDir()
	cfg.Volatility = 0.0001
	cfg.BasePrices = map[string]float64{"BTCUSDT": 98500, "ETHUSDT": 3800}
	cfg.InitialBalances = map[string]float64{"USDT": 10000, "BTC": 1}

	sim, err := NewSimulated(cfg)
	s.Require().NoError(err)

	s.sim = sim
	s.cfg = cfg
}

func (s *suiteSimulatedTester) TearDownTest() {
	s.NoError(s.sim.Close())
}

func (s *suiteSimulatedTester) free(asset string) decimal.Decimal {
	bal, err := s.sim.Balance(asset)
	s.Require().NoError(err)

	return bal.Free
}

func (s *suiteSimulatedTester) locked(asset string) decimal.Decimal {
	bal, err := s.sim.Balance(asset)
	s.Require().NoError(err)

	return bal.Locked
}

func (s *suiteSimulatedTester) TestSeededBalancesAndDeposits() {
	s.True(s.free("USDT").Equal(decimal.NewFromInt(10000)))
	s.True(s.free("BTC").Equal(decimal.NewFromInt(1)))

	deposits, err := s.sim.DepositHistory("", 0, 0)
	s.NoError(err)
	s.Len(deposits, 2)
	for _, d := range deposits {
		s.EqualValues(types.TransferConfirmed, d.Status)
	}
}

func (s *suiteSimulatedTester) TestSeedHappensOnce() {
	_, err := s.sim.Withdraw("USDT", "addr", decimal.NewFromInt(100), "", "")
	s.Require().NoError(err)
	s.NoError(s.sim.Close())

	reopened, err := NewSimulated(s.cfg)
	s.Require().NoError(err)
	s.sim = reopened

	s.True(s.free("USDT").Equal(decimal.NewFromInt(9900)))
}

func (s *suiteSimulatedTester) TestMarketBuySettlement() {
	qty := decimal.RequireFromString("0.001")

	// the very first observation seeds the walk at the base price
	order, err := s.sim.CreateOrder(OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     types.SideBuy,
		Type:     types.TypeMarket,
		Quantity: qty,
	})
	s.Require().NoError(err)

	price := decimal.NewFromInt(98500)
	s.EqualValues(types.StatusFilled, order.Status)
	s.True(order.AvgPrice.Equal(price), "avg %s", order.AvgPrice)

	cost := qty.Mul(price)
	fee := cost.Mul(decimal.NewFromFloat(s.cfg.MakerFeeRate)).Round(8)
	s.True(order.Fee.Equal(fee))
	s.Equal("USDT", order.FeeAsset)

	// full slippage buffer refunded, fee charged on top of the notional
	s.True(s.free("USDT").Equal(decimal.NewFromInt(10000).Sub(cost).Sub(fee)),
		"usdt free %s", s.free("USDT"))
	s.True(s.free("BTC").Equal(decimal.NewFromInt(1).Add(qty)))
	s.True(s.locked("USDT").IsZero())

	trades, err := s.sim.MyTrades("BTCUSDT", 0, 0, 0)
	s.NoError(err)
	s.Require().Len(trades, 1)
	s.EqualValues(order.ID, trades[0].OrderID)
	s.True(trades[0].IsMaker)
}

func (s *suiteSimulatedTester) TestMarketBuyInsufficientBalance() {
	_, err := s.sim.CreateOrder(OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     types.SideBuy,
		Type:     types.TypeMarket,
		Quantity: decimal.NewFromInt(5),
	})

	var insufficient *InsufficientBalanceError
	s.ErrorAs(err, &insufficient)
	s.Equal("USDT", insufficient.Asset)
	s.True(s.free("USDT").Equal(decimal.NewFromInt(10000)), "no partial mutation")
}

func (s *suiteSimulatedTester) TestLimitLockAndCancelSymmetry() {
	qty := decimal.RequireFromString("0.001")
	limit := decimal.NewFromInt(90000)

	order, err := s.sim.CreateOrder(OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     types.SideBuy,
		Type:     types.TypeLimit,
		Quantity: qty,
		Price:    decimal.NewNullDecimal(limit),
	})
	s.Require().NoError(err)
	s.EqualValues(types.StatusOpen, order.Status)

	expected := qty.Mul(limit).Round(8)
	s.True(s.locked("USDT").Equal(expected), "locked %s", s.locked("USDT"))

	cancelled, err := s.sim.CancelOrder("BTCUSDT", order.ID)
	s.NoError(err)
	s.EqualValues(types.StatusCancelled, cancelled.Status)

	s.True(s.locked("USDT").IsZero())
	s.True(s.free("USDT").Equal(decimal.NewFromInt(10000)))
}

func (s *suiteSimulatedTester) TestMarketableLimitFillsAtLimitPrice() {
	qty := decimal.RequireFromString("0.001")
	limit := decimal.NewFromInt(99500)

	order, err := s.sim.CreateOrder(OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     types.SideBuy,
		Type:     types.TypeLimit,
		Quantity: qty,
		Price:    decimal.NewNullDecimal(limit),
	})
	s.Require().NoError(err)

	s.EqualValues(types.StatusFilled, order.Status)
	s.True(order.AvgPrice.Equal(limit))
	s.True(s.locked("USDT").IsZero())
}

func (s *suiteSimulatedTester) TestStopTriggersOnOneTickExecutesOnNext() {
	qty := decimal.RequireFromString("0.01")

	// sell stop with the condition already satisfied at placement
	order, err := s.sim.CreateOrder(OrderRequest{
		Symbol:    "BTCUSDT",
		Side:      types.SideSell,
		Type:      types.TypeStopMarket,
		Quantity:  qty,
		StopPrice: decimal.NewNullDecimal(decimal.NewFromInt(99000)),
	})
	s.Require().NoError(err)

	// triggered by the placement observation, not yet executed
	s.EqualValues(types.StatusOpen, order.Status)

	open, err := s.sim.OpenOrders("BTCUSDT")
	s.NoError(err)
	s.Require().Len(open, 1)
	s.True(open[0].StopTriggered)

	// the next observation executes it
	_, err = s.sim.Ticker("BTCUSDT")
	s.Require().NoError(err)

	open, err = s.sim.OpenOrders("BTCUSDT")
	s.NoError(err)
	s.Empty(open)

	filled, err := s.sim.GetOrder("BTCUSDT", order.ID)
	s.NoError(err)
	s.EqualValues(types.StatusFilled, filled.Status)
	s.True(s.free("BTC").Equal(decimal.NewFromInt(1).Sub(qty)))
}

func (s *suiteSimulatedTester) TestWithdrawGrossDebitNetPayout() {
	amount := decimal.NewFromInt(100)

	withdrawal, err := s.sim.Withdraw("USDT", "TSomeAddress", amount, "", "memo-1")
	s.Require().NoError(err)

	s.True(withdrawal.Fee.Equal(decimal.NewFromInt(1)))
	s.True(withdrawal.NetAmount.Equal(decimal.NewFromInt(99)))
	s.EqualValues(types.TransferConfirmed, withdrawal.Status)
	s.Equal("TRC20", withdrawal.Network)

	// the account loses the gross amount
	s.True(s.free("USDT").Equal(decimal.NewFromInt(9900)))

	history, err := s.sim.WithdrawHistory("USDT", 0, 0)
	s.NoError(err)
	s.Require().Len(history, 1)
	s.EqualValues(withdrawal.ID, history[0].ID)
}

func (s *suiteSimulatedTester) TestBalancesOmitsZeroedAssets() {
	// drain USDT completely: gross debit leaves every bucket at zero
	_, err := s.sim.Withdraw("USDT", "TSomeAddress", decimal.NewFromInt(10000), "", "")
	s.Require().NoError(err)

	balances, err := s.sim.Balances()
	s.Require().NoError(err)

	s.NotContains(balances, "USDT")
	s.Contains(balances, "BTC")

	// the single-asset read still answers with an empty balance
	bal, err := s.sim.Balance("USDT")
	s.NoError(err)
	s.True(bal.Total().IsZero())
}

func (s *suiteSimulatedTester) TestWithdrawBelowFeeRejected() {
	_, err := s.sim.Withdraw("USDT", "addr", decimal.RequireFromString("0.5"), "", "")

	var withdrawErr *WithdrawError
	s.ErrorAs(err, &withdrawErr)
	s.True(s.free("USDT").Equal(decimal.NewFromInt(10000)))
}

func (s *suiteSimulatedTester) TestOCOLegsAreIndependent() {
	qty := decimal.RequireFromString("0.1")

	// take profit far above the market, stop loss far below it
	oco, err := s.sim.CreateOCOOrder("BTCUSDT", types.SideSell, qty,
		decimal.NewFromInt(120000),
		decimal.NewFromInt(80000), decimal.NewFromInt(79500))
	s.Require().NoError(err)

	s.NotEmpty(oco.GroupID)
	s.Equal(oco.GroupID, oco.LimitOrder.OCOGroupID)
	s.Equal(oco.GroupID, oco.StopOrder.OCOGroupID)

	// both legs lock base independently
	s.True(s.locked("BTC").Equal(qty.Add(qty)))

	// cancelling one leg leaves the sibling resting
	_, err = s.sim.CancelOrder("BTCUSDT", oco.LimitOrder.ID)
	s.Require().NoError(err)

	open, err := s.sim.OpenOrders("BTCUSDT")
	s.NoError(err)
	s.Require().Len(open, 1)
	s.EqualValues(oco.StopOrder.ID, open[0].ID)
	s.True(s.locked("BTC").Equal(qty))
}

func (s *suiteSimulatedTester) TestEditOrderReplacesWithNewID() {
	order, err := s.sim.CreateOrder(OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     types.SideBuy,
		Type:     types.TypeLimit,
		Quantity: decimal.RequireFromString("0.001"),
		Price:    decimal.NewNullDecimal(decimal.NewFromInt(90000)),
	})
	s.Require().NoError(err)

	edited, err := s.sim.EditOrder("BTCUSDT", order.ID,
		decimal.NewNullDecimal(decimal.NewFromInt(91000)),
		decimal.NewNullDecimal(decimal.RequireFromString("0.002")))
	s.Require().NoError(err)

	s.Greater(edited.ID, order.ID)
	s.True(edited.Price.Decimal.Equal(decimal.NewFromInt(91000)))
	s.True(edited.Quantity.Equal(decimal.RequireFromString("0.002")))

	// the original is retired as cancelled
	original, err := s.sim.GetOrder("BTCUSDT", order.ID)
	s.NoError(err)
	s.EqualValues(types.StatusCancelled, original.Status)

	// lock tracks the replacement only
	expected := decimal.RequireFromString("0.002").Mul(decimal.NewFromInt(91000)).Round(8)
	s.True(s.locked("USDT").Equal(expected))
}

func (s *suiteSimulatedTester) TestInvalidOrders() {
	_, err := s.sim.CreateOrder(OrderRequest{
		Symbol:   "DOGEUSDT",
		Side:     types.SideBuy,
		Type:     types.TypeMarket,
		Quantity: decimal.NewFromInt(1),
	})
	var invalidSymbol *InvalidSymbolError
	s.ErrorAs(err, &invalidSymbol)

	// a market order must not carry a price
	_, err = s.sim.CreateOrder(OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     types.SideBuy,
		Type:     types.TypeMarket,
		Quantity: decimal.NewFromInt(1),
		Price:    decimal.NewNullDecimal(decimal.NewFromInt(90000)),
	})
	var invalidOrder *InvalidOrderError
	s.ErrorAs(err, &invalidOrder)

	_, err = s.sim.CreateOrder(OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     "HOLD",
		Type:     types.TypeMarket,
		Quantity: decimal.NewFromInt(1),
	})
	s.ErrorAs(err, &invalidOrder)
}

func (s *suiteSimulatedTester) TestCancelUnknownOrder() {
	_, err := s.sim.CancelOrder("BTCUSDT", 424242)

	var notFound *OrderNotFoundError
	s.ErrorAs(err, &notFound)
	s.EqualValues(424242, notFound.OrderID)
}

func (s *suiteSimulatedTester) TestStakeLifecycle() {
	position, err := s.sim.StakeAsset("USDT", decimal.NewFromInt(1000))
	s.Require().NoError(err)
	s.True(position["staked"].(decimal.Decimal).Equal(decimal.NewFromInt(1000)))

	s.True(s.free("USDT").Equal(decimal.NewFromInt(9000)))

	positions, err := s.sim.StakingPositions()
	s.NoError(err)
	s.Require().Len(positions, 1)
	s.Equal("USDT", positions[0]["asset"])

	_, err = s.sim.UnstakeAsset("USDT", decimal.NewFromInt(2000))
	var insufficient *InsufficientBalanceError
	s.ErrorAs(err, &insufficient)

	_, err = s.sim.UnstakeAsset("USDT", decimal.NewFromInt(1000))
	s.NoError(err)
	s.True(s.free("USDT").Equal(decimal.NewFromInt(10000)))
}

func (s *suiteSimulatedTester) TestMarketDataSurface() {
	s.True(s.sim.Ping())
	s.Greater(s.sim.ServerTime(), int64(0))

	info, err := s.sim.ExchangeInfo()
	s.NoError(err)
	s.EqualValues(types.ExchangeStatusNormal, info.Status)
	s.ElementsMatch([]string{"BTCUSDT", "ETHUSDT"}, info.Symbols)

	ticker, err := s.sim.Ticker("BTCUSDT")
	s.Require().NoError(err)
	s.True(ticker.Price.IsPositive())
	s.True(ticker.Bid.LessThanOrEqual(ticker.Ask))

	book, err := s.sim.OrderBook("BTCUSDT", 5)
	s.Require().NoError(err)
	s.Len(book.Bids, 5)
	s.Len(book.Asks, 5)

	candles, err := s.sim.Candles("BTCUSDT", "1h", 10, 0, 0)
	s.NoError(err)
	s.Len(candles, 10)

	avg, err := s.sim.AvgPrice("BTCUSDT")
	s.NoError(err)
	s.True(avg.IsPositive())
}

func TestSimulatedSuite(t *testing.T) {
	suite.Run(t, new(suiteSimulatedTester))
}
