package exchange

import (
	"errors"
	"io"
	"math/rand"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gookit/validate"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/israel-nogueira/exchange-hub-sub000/config"
	"github.com/israel-nogueira/exchange-hub-sub000/ledger"
	"github.com/israel-nogueira/exchange-hub-sub000/matching"
	"github.com/israel-nogueira/exchange-hub-sub000/models"
	"github.com/israel-nogueira/exchange-hub-sub000/pricing"
	"github.com/israel-nogueira/exchange-hub-sub000/types"
)

// SimulatedExchange implements the Exchange contract against local state
// only. Every price observation is a tick: it advances the random walk and
// resolves resting orders against the new price before the caller sees it.
// A single mutex serializes all operations; state consistency relies on it.
type SimulatedExchange struct {
	mutex sync.Mutex

	name    string
	cfg     *config.SimulatorConfig
	store   *ledger.Ledger
	engine  *pricing.Engine
	matcher *matching.Matcher

	activity       *logrus.Logger
	activityCloser io.Closer

	orderSeq    int64
	transferSeq int64
}

var _ Exchange = (*SimulatedExchange)(nil)

// NewSimulated opens (or creates) the simulator state under cfg.DataDir and
// rebuilds the order books and sequence counters from it.
func NewSimulated(cfg *config.SimulatorConfig) (*SimulatedExchange, error) {
	store, err := ledger.Open(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	engine, err := pricing.NewEngine(store, cfg, rng)
	if err != nil {
		return nil, err
	}

	matcher, err := matching.NewMatcher(store, decimal.NewFromFloat(cfg.MakerFeeRate))
	if err != nil {
		return nil, err
	}

	activity, closer, err := config.NewActivityLogger(filepath.Join(cfg.DataDir, "activity.log"))
	if err != nil {
		return nil, err
	}

	s := &SimulatedExchange{
		name:           cfg.Name,
		cfg:            cfg,
		store:          store,
		engine:         engine,
		matcher:        matcher,
		activity:       activity,
		activityCloser: closer,
	}

	if err := s.seed(); err != nil {
		closer.Close()
		return nil, err
	}

	if err := s.restoreSequences(); err != nil {
		closer.Close()
		return nil, err
	}

	config.Logger.Infof("[%s] simulated exchange ready, data dir %s", s.name, store.Dir())

	return s, nil
}

// Close flushes nothing (every write is already on disk) and releases the
// activity log file.
func (s *SimulatedExchange) Close() error {
	return s.activityCloser.Close()
}

// seed writes the symbol list and, on first start only, the configured
// initial balances. Seeded funds are recorded as confirmed deposits so the
// account history explains where they came from.
func (s *SimulatedExchange) seed() error {
	if !s.store.Exists(ledger.KeySymbols) {
		symbols := make([]string, 0, len(s.cfg.BasePrices))
		for symbol := range s.cfg.BasePrices {
			symbols = append(symbols, symbol)
		}
		sort.Strings(symbols)

		if err := s.store.Write(ledger.KeySymbols, symbols); err != nil {
			return err
		}
	}

	if s.store.Exists(ledger.KeyBalances) {
		return nil
	}

	balances := make(map[string]*models.Balance)
	assets := make([]string, 0, len(s.cfg.InitialBalances))
	for asset := range s.cfg.InitialBalances {
		assets = append(assets, asset)
	}
	sort.Strings(assets)

	now := time.Now().UnixMilli()
	for _, asset := range assets {
		amount := decimal.NewFromFloat(s.cfg.InitialBalances[asset])
		if !amount.IsPositive() {
			continue
		}

		bal := models.NewBalance(asset)
		if err := bal.PlusFunds(amount); err != nil {
			return err
		}
		balances[asset] = bal

		s.transferSeq++
		deposit := &models.Deposit{
			ID:        s.transferSeq,
			TxID:      "SIM-SEED-" + uuid.NewString(),
			Asset:     asset,
			Address:   s.depositAddress(asset),
			Network:   s.network(asset),
			Amount:    amount,
			Status:    types.TransferConfirmed,
			Timestamp: now,
		}
		if err := s.store.Append(ledger.KeyDepositHistory, deposit); err != nil {
			return err
		}
	}

	return s.matcher.SaveBalances(balances)
}

func (s *SimulatedExchange) restoreSequences() error {
	var history []*models.Order
	if _, err := s.store.Read(ledger.KeyOrderHistory, &history); err != nil {
		return err
	}

	for _, o := range history {
		if o.ID > s.orderSeq {
			s.orderSeq = o.ID
		}
	}
	for _, o := range s.matcher.Open("") {
		if o.ID > s.orderSeq {
			s.orderSeq = o.ID
		}
	}

	var deposits []*models.Deposit
	if _, err := s.store.Read(ledger.KeyDepositHistory, &deposits); err != nil {
		return err
	}
	var withdrawals []*models.Withdrawal
	if _, err := s.store.Read(ledger.KeyWithdrawHistory, &withdrawals); err != nil {
		return err
	}

	seq := int64(len(deposits) + len(withdrawals))
	if seq > s.transferSeq {
		s.transferSeq = seq
	}

	return nil
}

func (s *SimulatedExchange) Name() string {
	return s.name
}

func (s *SimulatedExchange) Ping() bool {
	return true
}

func (s *SimulatedExchange) ServerTime() int64 {
	return time.Now().UnixMilli()
}

func (s *SimulatedExchange) ExchangeInfo() (*ExchangeInfo, error) {
	symbols, err := s.Symbols()
	if err != nil {
		return nil, err
	}

	return &ExchangeInfo{
		Name:     s.name,
		Status:   types.ExchangeStatusNormal,
		Symbols:  symbols,
		MakerFee: decimal.NewFromFloat(s.cfg.MakerFeeRate),
		TakerFee: decimal.NewFromFloat(s.cfg.TakerFeeRate),
	}, nil
}

func (s *SimulatedExchange) Symbols() ([]string, error) {
	symbols := make([]string, 0)
	if _, err := s.store.Read(ledger.KeySymbols, &symbols); err != nil {
		return nil, err
	}

	return symbols, nil
}

// observe advances the walk one tick and resolves resting orders against the
// new price. Callers must hold the mutex.
func (s *SimulatedExchange) observe(symbol string) (decimal.Decimal, error) {
	price, err := s.engine.GetPrice(symbol)
	if err != nil {
		return decimal.Zero, s.wrapPricing(symbol, err)
	}

	if _, err := s.matcher.CheckAndExecute(symbol, price); err != nil {
		return decimal.Zero, err
	}

	return price, nil
}

func (s *SimulatedExchange) wrapPricing(symbol string, err error) error {
	if errors.Is(err, pricing.ErrUnknownSymbol) {
		return &InvalidSymbolError{Exchange: s.name, Symbol: symbol}
	}
	if errors.Is(err, pricing.ErrUnknownInterval) {
		return &InvalidOrderError{Exchange: s.name, Reason: "unknown candle interval"}
	}

	return err
}

func (s *SimulatedExchange) Ticker(symbol string) (*models.Ticker, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	ticker, err := s.engine.GetTicker(symbol)
	if err != nil {
		return nil, s.wrapPricing(symbol, err)
	}

	if _, err := s.matcher.CheckAndExecute(symbol, ticker.Price); err != nil {
		return nil, err
	}

	return ticker, nil
}

func (s *SimulatedExchange) OrderBook(symbol string, limit int) (*models.OrderBook, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	book, err := s.engine.GetOrderBook(symbol, limit)
	if err != nil {
		return nil, s.wrapPricing(symbol, err)
	}

	if price, ok := s.engine.CurrentPrice(symbol); ok {
		if _, err := s.matcher.CheckAndExecute(symbol, price); err != nil {
			return nil, err
		}
	}

	return book, nil
}

func (s *SimulatedExchange) RecentTrades(symbol string, limit int) ([]*models.Trade, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if limit <= 0 {
		limit = 50
	}

	var history []*models.Trade
	if _, err := s.store.Read(ledger.KeyTradeHistory, &history); err != nil {
		return nil, err
	}

	trades := make([]*models.Trade, 0)
	for _, t := range history {
		if t.Symbol == symbol {
			trades = append(trades, t)
		}
	}

	if len(trades) > limit {
		trades = trades[len(trades)-limit:]
	}

	return trades, nil
}

// Candles generates (or replays) the candle series for symbol and slices it
// by limit and the optional [start, end] window over open times.
func (s *SimulatedExchange) Candles(symbol, interval string, limit int, start, end int64) ([]models.Candle, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	candles, err := s.engine.GenerateCandles(symbol, interval, limit)
	if err != nil {
		return nil, s.wrapPricing(symbol, err)
	}

	if start == 0 && end == 0 {
		return candles, nil
	}

	window := make([]models.Candle, 0, len(candles))
	for _, c := range candles {
		if start > 0 && c.OpenTime < start {
			continue
		}
		if end > 0 && c.OpenTime > end {
			continue
		}
		window = append(window, c)
	}

	return window, nil
}

func (s *SimulatedExchange) AvgPrice(symbol string) (decimal.Decimal, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.observe(symbol)
}

func (s *SimulatedExchange) CreateOrder(req OrderRequest) (*models.Order, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.createOrder(req, "")
}

// createOrder validates the request, observes a fresh price, locks the
// funds the order may consume, then either executes immediately (MARKET) or
// rests the order on the book. Balance checks always precede mutation.
func (s *SimulatedExchange) createOrder(req OrderRequest, groupID string) (*models.Order, error) {
	if _, ok := s.cfg.BasePrices[req.Symbol]; !ok {
		return nil, &InvalidSymbolError{Exchange: s.name, Symbol: req.Symbol}
	}

	if len(req.TimeInForce) == 0 {
		req.TimeInForce = types.TifGTC
	}
	if len(req.ClientOrderID) == 0 {
		req.ClientOrderID = uuid.NewString()
	}

	now := time.Now().UnixMilli()
	order := &models.Order{
		UUID:          uuid.New(),
		ClientOrderID: req.ClientOrderID,
		Symbol:        req.Symbol,
		Side:          req.Side,
		Type:          req.Type,
		Status:        types.StatusOpen,
		Quantity:      req.Quantity,
		Price:         req.Price,
		StopPrice:     req.StopPrice,
		TimeInForce:   req.TimeInForce,
		OCOGroupID:    groupID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	v := validate.Struct(order)
	if !v.Validate() {
		return nil, &InvalidOrderError{Exchange: s.name, Reason: v.Errors.One()}
	}

	price, err := s.observe(order.Symbol)
	if err != nil {
		return nil, err
	}

	lockAsset, lockAmount := s.lockRequirement(order, price)

	balances, err := s.matcher.Balances()
	if err != nil {
		return nil, err
	}

	bal, ok := balances[lockAsset]
	if !ok {
		bal = models.NewBalance(lockAsset)
		balances[lockAsset] = bal
	}

	if bal.Free.LessThan(lockAmount) {
		return nil, &InsufficientBalanceError{
			Exchange:  s.name,
			Asset:     lockAsset,
			Required:  lockAmount,
			Available: bal.Free,
		}
	}

	if err := bal.LockFunds(lockAmount); err != nil {
		return nil, err
	}
	if err := s.matcher.SaveBalances(balances); err != nil {
		return nil, err
	}

	s.orderSeq++
	order.ID = s.orderSeq
	order.Locked = lockAmount
	order.LockedAsset = lockAsset

	s.activity.Infof("[%s] order %d created: %s %s %s qty %s", s.name,
		order.ID, order.Symbol, order.Side, order.Type, order.Quantity)

	if order.Type == types.TypeMarket {
		if _, err := s.matcher.Execute(order, price); err != nil {
			return nil, err
		}

		snapshot := *order
		return &snapshot, nil
	}

	if err := s.matcher.Add(order); err != nil {
		return nil, err
	}

	// a marketable limit fills on the placement observation; a stop only
	// becomes triggered here and executes on a later one
	if _, err := s.matcher.CheckAndExecute(order.Symbol, price); err != nil {
		return nil, err
	}

	snapshot := *order
	return &snapshot, nil
}

// lockRequirement returns the asset and amount an order reserves on
// placement. BUY orders reserve quote (market buys with a slippage buffer
// on top, stop-markets at the stop price), SELL orders reserve base.
func (s *SimulatedExchange) lockRequirement(order *models.Order, price decimal.Decimal) (string, decimal.Decimal) {
	base, quote := models.SplitSymbol(order.Symbol)

	if !order.IsBuy() {
		return base, order.Quantity
	}

	switch order.Type {
	case types.TypeMarket:
		buffer := decimal.NewFromFloat(1 + s.cfg.SlippageBuffer)
		return quote, order.Quantity.Mul(price).Mul(buffer).Round(8)
	case types.TypeStopMarket:
		return quote, order.Quantity.Mul(order.StopPrice.Decimal).Round(8)
	default:
		return quote, order.Quantity.Mul(order.Price.Decimal).Round(8)
	}
}

func (s *SimulatedExchange) CancelOrder(symbol string, orderID int64) (*models.Order, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	order := s.matcher.Find(symbol, orderID)
	if order == nil {
		return nil, &OrderNotFoundError{Exchange: s.name, OrderID: orderID}
	}

	if err := s.cancel(order); err != nil {
		return nil, err
	}

	snapshot := *order
	return &snapshot, nil
}

func (s *SimulatedExchange) CancelAllOrders(symbol string) ([]*models.Order, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cancelled := make([]*models.Order, 0)
	for _, order := range s.matcher.Open(symbol) {
		if err := s.cancel(order); err != nil {
			return cancelled, err
		}

		snapshot := *order
		cancelled = append(cancelled, &snapshot)
	}

	return cancelled, nil
}

// cancel releases the full reserved amount and retires the order. Cancelling
// one OCO leg deliberately leaves the sibling untouched.
func (s *SimulatedExchange) cancel(order *models.Order) error {
	balances, err := s.matcher.Balances()
	if err != nil {
		return err
	}

	if order.Locked.IsPositive() {
		bal, ok := balances[order.LockedAsset]
		if !ok {
			bal = models.NewBalance(order.LockedAsset)
			balances[order.LockedAsset] = bal
		}

		if err := bal.UnlockFunds(order.Locked); err != nil {
			return err
		}
		order.Locked = decimal.Zero

		if err := s.matcher.SaveBalances(balances); err != nil {
			return err
		}
	}

	order.Status = types.StatusCancelled
	order.UpdatedAt = time.Now().UnixMilli()

	s.activity.Infof("[%s] order %d cancelled", s.name, order.ID)

	return s.matcher.MoveToHistory(order)
}

func (s *SimulatedExchange) GetOrder(symbol string, orderID int64) (*models.Order, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if order := s.matcher.Find(symbol, orderID); order != nil {
		snapshot := *order
		return &snapshot, nil
	}

	var history []*models.Order
	if _, err := s.store.Read(ledger.KeyOrderHistory, &history); err != nil {
		return nil, err
	}

	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Symbol == symbol && history[i].ID == orderID {
			return history[i], nil
		}
	}

	return nil, &OrderNotFoundError{Exchange: s.name, OrderID: orderID}
}

func (s *SimulatedExchange) OpenOrders(symbol string) ([]*models.Order, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	orders := make([]*models.Order, 0)
	for _, order := range s.matcher.Open(symbol) {
		snapshot := *order
		orders = append(orders, &snapshot)
	}

	return orders, nil
}

func (s *SimulatedExchange) OrderHistory(symbol string, limit int, start, end int64) ([]*models.Order, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if limit <= 0 {
		limit = 100
	}

	var history []*models.Order
	if _, err := s.store.Read(ledger.KeyOrderHistory, &history); err != nil {
		return nil, err
	}

	orders := make([]*models.Order, 0)
	for _, o := range history {
		if len(symbol) > 0 && o.Symbol != symbol {
			continue
		}
		if start > 0 && o.CreatedAt < start {
			continue
		}
		if end > 0 && o.CreatedAt > end {
			continue
		}
		orders = append(orders, o)
	}

	if len(orders) > limit {
		orders = orders[len(orders)-limit:]
	}

	return orders, nil
}

func (s *SimulatedExchange) MyTrades(symbol string, limit int, start, end int64) ([]*models.Trade, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if limit <= 0 {
		limit = 50
	}

	var history []*models.Trade
	if _, err := s.store.Read(ledger.KeyTradeHistory, &history); err != nil {
		return nil, err
	}

	trades := make([]*models.Trade, 0)
	for _, t := range history {
		if len(symbol) > 0 && t.Symbol != symbol {
			continue
		}
		if start > 0 && t.Timestamp < start {
			continue
		}
		if end > 0 && t.Timestamp > end {
			continue
		}
		trades = append(trades, t)
	}

	if len(trades) > limit {
		trades = trades[len(trades)-limit:]
	}

	return trades, nil
}

// EditOrder is cancel-and-replace: the resting order is cancelled and a new
// one with a fresh id is placed with the overridden price and/or quantity.
func (s *SimulatedExchange) EditOrder(symbol string, orderID int64, price, quantity decimal.NullDecimal) (*models.Order, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	order := s.matcher.Find(symbol, orderID)
	if order == nil {
		return nil, &OrderNotFoundError{Exchange: s.name, OrderID: orderID}
	}

	req := OrderRequest{
		Symbol:      order.Symbol,
		Side:        order.Side,
		Type:        order.Type,
		Quantity:    order.Quantity,
		Price:       order.Price,
		StopPrice:   order.StopPrice,
		TimeInForce: order.TimeInForce,
	}
	if price.Valid {
		req.Price = price
	}
	if quantity.Valid {
		req.Quantity = quantity.Decimal
	}

	if err := s.cancel(order); err != nil {
		return nil, err
	}

	return s.createOrder(req, order.OCOGroupID)
}

// CreateOCOOrder places a limit take-profit and a stop-limit stop-loss
// sharing a group id. The legs are independent resting orders from then on:
// filling or cancelling one never touches the other. When the second leg
// cannot be placed the first is rolled back.
func (s *SimulatedExchange) CreateOCOOrder(symbol string, side types.OrderSide, quantity, price, stopPrice, stopLimitPrice decimal.Decimal) (*OCOOrder, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	groupID := uuid.NewString()

	limitLeg, err := s.createOrder(OrderRequest{
		Symbol:   symbol,
		Side:     side,
		Type:     types.TypeLimit,
		Quantity: quantity,
		Price:    decimal.NewNullDecimal(price),
	}, groupID)
	if err != nil {
		return nil, err
	}

	stopLeg, err := s.createOrder(OrderRequest{
		Symbol:    symbol,
		Side:      side,
		Type:      types.TypeStopLimit,
		Quantity:  quantity,
		Price:     decimal.NewNullDecimal(stopLimitPrice),
		StopPrice: decimal.NewNullDecimal(stopPrice),
	}, groupID)
	if err != nil {
		if resting := s.matcher.Find(symbol, limitLeg.ID); resting != nil {
			if cancelErr := s.cancel(resting); cancelErr != nil {
				config.Logger.Errorf("[%s] oco rollback failed for order %d: %v",
					s.name, limitLeg.ID, cancelErr)
			}
		}

		return nil, err
	}

	s.activity.Infof("[%s] oco group %s created: orders %d/%d", s.name,
		groupID, limitLeg.ID, stopLeg.ID)

	return &OCOOrder{GroupID: groupID, LimitOrder: limitLeg, StopOrder: stopLeg}, nil
}

func (s *SimulatedExchange) AccountInfo() (map[string]interface{}, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	balances, err := s.matcher.Balances()
	if err != nil {
		return nil, err
	}

	fees := models.NewTradingFee(s.cfg.MakerFeeRate, s.cfg.TakerFeeRate)

	return map[string]interface{}{
		"exchange":     s.name,
		"account_type": "SPOT",
		"can_trade":    true,
		"can_deposit":  true,
		"can_withdraw": true,
		"maker_fee":    fees.Maker,
		"taker_fee":    fees.Taker,
		"balances":     balances,
		"update_time":  time.Now().UnixMilli(),
	}, nil
}

// Balances returns the account balances, omitting assets whose buckets are
// all zero.
func (s *SimulatedExchange) Balances() (map[string]*models.Balance, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	balances, err := s.matcher.Balances()
	if err != nil {
		return nil, err
	}

	for asset, bal := range balances {
		if bal.IsZero() {
			delete(balances, asset)
		}
	}

	return balances, nil
}

func (s *SimulatedExchange) Balance(asset string) (*models.Balance, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	balances, err := s.matcher.Balances()
	if err != nil {
		return nil, err
	}

	bal, ok := balances[asset]
	if !ok {
		return models.NewBalance(asset), nil
	}

	return bal, nil
}

func (s *SimulatedExchange) CommissionRates() (models.TradingFee, error) {
	return models.NewTradingFee(s.cfg.MakerFeeRate, s.cfg.TakerFeeRate), nil
}

func (s *SimulatedExchange) depositAddress(asset string) string {
	return "SIM-" + strings.ToUpper(asset) + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}

func (s *SimulatedExchange) network(asset string) string {
	if network, ok := s.cfg.DepositNetworks[asset]; ok {
		return network
	}

	return strings.ToUpper(asset)
}

// DepositAddress returns a synthetic address descriptor. Nothing can
// actually be sent to it; deposits happen only through seeding.
func (s *SimulatedExchange) DepositAddress(asset, network string) (*models.Deposit, error) {
	if len(network) == 0 {
		network = s.network(asset)
	}

	return &models.Deposit{
		Asset:   asset,
		Address: s.depositAddress(asset),
		Network: network,
		Status:  types.TransferConfirmed,
	}, nil
}

func (s *SimulatedExchange) DepositHistory(asset string, start, end int64) ([]*models.Deposit, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var history []*models.Deposit
	if _, err := s.store.Read(ledger.KeyDepositHistory, &history); err != nil {
		return nil, err
	}

	deposits := make([]*models.Deposit, 0)
	for _, d := range history {
		if len(asset) > 0 && d.Asset != asset {
			continue
		}
		if start > 0 && d.Timestamp < start {
			continue
		}
		if end > 0 && d.Timestamp > end {
			continue
		}
		deposits = append(deposits, d)
	}

	return deposits, nil
}

func (s *SimulatedExchange) WithdrawHistory(asset string, start, end int64) ([]*models.Withdrawal, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var history []*models.Withdrawal
	if _, err := s.store.Read(ledger.KeyWithdrawHistory, &history); err != nil {
		return nil, err
	}

	withdrawals := make([]*models.Withdrawal, 0)
	for _, w := range history {
		if len(asset) > 0 && w.Asset != asset {
			continue
		}
		if start > 0 && w.Timestamp < start {
			continue
		}
		if end > 0 && w.Timestamp > end {
			continue
		}
		withdrawals = append(withdrawals, w)
	}

	return withdrawals, nil
}

// Withdraw debits the gross amount from the asset's free balance and records
// an instantly confirmed withdrawal whose net amount is amount minus the
// per-asset fee.
func (s *SimulatedExchange) Withdraw(asset, address string, amount decimal.Decimal, network, memo string) (*models.Withdrawal, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !amount.IsPositive() {
		return nil, &WithdrawError{Exchange: s.name, Reason: "non-positive amount"}
	}

	fee := decimal.NewFromFloat(s.cfg.WithdrawFees[asset])
	net := amount.Sub(fee)
	if !net.IsPositive() {
		return nil, &WithdrawError{Exchange: s.name, Reason: "amount does not cover the withdraw fee"}
	}

	balances, err := s.matcher.Balances()
	if err != nil {
		return nil, err
	}

	bal, ok := balances[asset]
	if !ok || bal.Free.LessThan(amount) {
		available := decimal.Zero
		if ok {
			available = bal.Free
		}

		return nil, &InsufficientBalanceError{
			Exchange:  s.name,
			Asset:     asset,
			Required:  amount,
			Available: available,
		}
	}

	if err := bal.SubFunds(amount); err != nil {
		return nil, err
	}
	if err := s.matcher.SaveBalances(balances); err != nil {
		return nil, err
	}

	if len(network) == 0 {
		network = s.network(asset)
	}

	s.transferSeq++
	withdrawal := &models.Withdrawal{
		ID:        s.transferSeq,
		TxID:      "SIM-WD-" + uuid.NewString(),
		Asset:     asset,
		Address:   address,
		Memo:      memo,
		Network:   network,
		Amount:    amount,
		Fee:       fee,
		NetAmount: net,
		Status:    types.TransferConfirmed,
		Timestamp: time.Now().UnixMilli(),
	}

	if err := s.store.Append(ledger.KeyWithdrawHistory, withdrawal); err != nil {
		return nil, err
	}

	s.activity.Infof("[%s] withdraw %d: %s %s to %s, net %s", s.name,
		withdrawal.ID, amount, asset, address, net)

	return withdrawal, nil
}

func (s *SimulatedExchange) StakeAsset(asset string, amount decimal.Decimal) (map[string]interface{}, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !amount.IsPositive() {
		return nil, &InvalidOrderError{Exchange: s.name, Reason: "non-positive stake amount"}
	}

	balances, err := s.matcher.Balances()
	if err != nil {
		return nil, err
	}

	bal, ok := balances[asset]
	if !ok || bal.Free.LessThan(amount) {
		available := decimal.Zero
		if ok {
			available = bal.Free
		}

		return nil, &InsufficientBalanceError{
			Exchange:  s.name,
			Asset:     asset,
			Required:  amount,
			Available: available,
		}
	}

	if err := bal.StakeFunds(amount); err != nil {
		return nil, err
	}
	if err := s.matcher.SaveBalances(balances); err != nil {
		return nil, err
	}

	s.activity.Infof("[%s] staked %s %s", s.name, amount, asset)

	return s.stakingPosition(bal), nil
}

func (s *SimulatedExchange) UnstakeAsset(asset string, amount decimal.Decimal) (map[string]interface{}, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !amount.IsPositive() {
		return nil, &InvalidOrderError{Exchange: s.name, Reason: "non-positive unstake amount"}
	}

	balances, err := s.matcher.Balances()
	if err != nil {
		return nil, err
	}

	bal, ok := balances[asset]
	if !ok || bal.Staked.LessThan(amount) {
		available := decimal.Zero
		if ok {
			available = bal.Staked
		}

		return nil, &InsufficientBalanceError{
			Exchange:  s.name,
			Asset:     asset,
			Required:  amount,
			Available: available,
		}
	}

	if err := bal.UnstakeFunds(amount); err != nil {
		return nil, err
	}
	if err := s.matcher.SaveBalances(balances); err != nil {
		return nil, err
	}

	s.activity.Infof("[%s] unstaked %s %s", s.name, amount, asset)

	return s.stakingPosition(bal), nil
}

func (s *SimulatedExchange) StakingPositions() ([]map[string]interface{}, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	balances, err := s.matcher.Balances()
	if err != nil {
		return nil, err
	}

	assets := make([]string, 0, len(balances))
	for asset, bal := range balances {
		if bal.Staked.IsPositive() {
			assets = append(assets, asset)
		}
	}
	sort.Strings(assets)

	positions := make([]map[string]interface{}, 0, len(assets))
	for _, asset := range assets {
		positions = append(positions, s.stakingPosition(balances[asset]))
	}

	return positions, nil
}

func (s *SimulatedExchange) stakingPosition(bal *models.Balance) map[string]interface{} {
	apy := decimal.NewFromFloat(s.cfg.StakingAPY)

	return map[string]interface{}{
		"asset":         bal.Asset,
		"staked":        bal.Staked,
		"free":          bal.Free,
		"apy":           apy,
		"annual_reward": bal.Staked.Mul(apy).Round(8),
	}
}
