// Package matching resolves resting orders of the simulated exchange against
// each observed price. There is no counterparty book: an order whose
// condition holds at the observed price fills for its full remaining
// quantity, partial fills do not exist.
package matching

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/israel-nogueira/exchange-hub-sub000/config"
	"github.com/israel-nogueira/exchange-hub-sub000/ledger"
	"github.com/israel-nogueira/exchange-hub-sub000/models"
	"github.com/israel-nogueira/exchange-hub-sub000/types"
)

type Matcher struct {
	store    *ledger.Ledger
	makerFee decimal.Decimal
	books    map[string]*Book
	tradeSeq int64
}

// NewMatcher rebuilds the per-symbol books from trading/open_orders.
func NewMatcher(store *ledger.Ledger, makerFee decimal.Decimal) (*Matcher, error) {
	m := &Matcher{
		store:    store,
		makerFee: makerFee,
		books:    make(map[string]*Book),
	}

	var open []*models.Order
	if _, err := store.Read(ledger.KeyOpenOrders, &open); err != nil {
		return nil, err
	}

	for _, o := range open {
		m.book(o.Symbol).Add(o)
	}

	var history []*models.Trade
	if _, err := store.Read(ledger.KeyTradeHistory, &history); err != nil {
		return nil, err
	}
	m.tradeSeq = int64(len(history))

	return m, nil
}

func (m *Matcher) book(symbol string) *Book {
	b, ok := m.books[symbol]
	if !ok {
		b = NewBook(symbol)
		m.books[symbol] = b
	}

	return b
}

// Add rests an order and persists the open-order set.
func (m *Matcher) Add(o *models.Order) error {
	m.book(o.Symbol).Add(o)

	return m.persistOpen()
}

// Open returns resting orders sorted by id, all symbols when symbol is empty.
func (m *Matcher) Open(symbol string) []*models.Order {
	orders := make([]*models.Order, 0)

	for sym, book := range m.books {
		if len(symbol) > 0 && sym != symbol {
			continue
		}
		orders = append(orders, book.Orders()...)
	}

	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })

	return orders
}

// Find returns the resting order with the given id, nil when absent.
func (m *Matcher) Find(symbol string, id int64) *models.Order {
	book, ok := m.books[symbol]
	if !ok {
		return nil
	}

	for _, o := range book.Orders() {
		if o.ID == id {
			return o
		}
	}

	return nil
}

// MoveToHistory removes an order from the book, persists the open set and
// appends the order to trading/order_history. The order must already be in
// a terminal status.
func (m *Matcher) MoveToHistory(o *models.Order) error {
	if book, ok := m.books[o.Symbol]; ok {
		book.Remove(o)
	}

	if err := m.persistOpen(); err != nil {
		return err
	}

	return m.store.Append(ledger.KeyOrderHistory, o)
}

// CheckAndExecute resolves the symbol's resting orders against one observed
// price. Stop-market orders triggered on an earlier observation execute
// first, then limit orders whose condition holds (price <= limit for BUY,
// price >= limit for SELL, filled at their limit price), and finally newly
// satisfied stop conditions are marked triggered. A stop that triggers on
// this observation is evaluated no earlier than the next one.
func (m *Matcher) CheckAndExecute(symbol string, price decimal.Decimal) ([]*models.Trade, error) {
	book, ok := m.books[symbol]
	if !ok {
		return nil, nil
	}

	trades := make([]*models.Trade, 0)

	for _, o := range book.TakePendingMarket() {
		trade, err := m.Execute(o, price)
		if err != nil {
			return trades, err
		}
		if trade != nil {
			trades = append(trades, trade)
		}
	}

	for {
		best := book.Bids.Right()
		if best == nil {
			break
		}

		o := best.Value.(*models.Order)
		if o.LimitPrice().LessThan(price) {
			break
		}

		trade, err := m.Execute(o, o.LimitPrice())
		if err != nil {
			return trades, err
		}
		if trade != nil {
			trades = append(trades, trade)
		}
	}

	for {
		best := book.Asks.Left()
		if best == nil {
			break
		}

		o := best.Value.(*models.Order)
		if o.LimitPrice().GreaterThan(price) {
			break
		}

		trade, err := m.Execute(o, o.LimitPrice())
		if err != nil {
			return trades, err
		}
		if trade != nil {
			trades = append(trades, trade)
		}
	}

	if err := m.triggerStops(book, price); err != nil {
		return trades, err
	}

	return trades, nil
}

func (m *Matcher) triggerStops(book *Book, price decimal.Decimal) error {
	triggered := false

	// BUY stops trigger when price >= stop: lowest stop prices first
	for {
		best := book.StopBids.Left()
		if best == nil {
			break
		}

		o := best.Value.(*models.Order)
		if o.StopPrice.Decimal.GreaterThan(price) {
			break
		}

		book.StopBids.Remove(best.Key)
		o.StopTriggered = true
		o.UpdatedAt = nowMillis()
		book.Add(o)
		triggered = true

		config.Logger.Debugf("[matching] %s buy stop %d triggered at %s", book.Symbol, o.ID, price)
	}

	// SELL stops trigger when price <= stop: highest stop prices first
	for {
		best := book.StopAsks.Right()
		if best == nil {
			break
		}

		o := best.Value.(*models.Order)
		if o.StopPrice.Decimal.LessThan(price) {
			break
		}

		book.StopAsks.Remove(best.Key)
		o.StopTriggered = true
		o.UpdatedAt = nowMillis()
		book.Add(o)
		triggered = true

		config.Logger.Debugf("[matching] %s sell stop %d triggered at %s", book.Symbol, o.ID, price)
	}

	if !triggered {
		return nil
	}

	return m.persistOpen()
}

// Execute fills the order's full quantity at execPrice and settles the
// ledger: balances first, then the trade append, then the move to history.
// Each write is individually crash-atomic; the sequence as a whole is not,
// which the reference design accepts.
func (m *Matcher) Execute(order *models.Order, execPrice decimal.Decimal) (*models.Trade, error) {
	balances, err := m.Balances()
	if err != nil {
		return nil, err
	}

	base, quote := models.SplitSymbol(order.Symbol)
	baseBal := ensureBalance(balances, base)
	quoteBal := ensureBalance(balances, quote)

	quoteQty := execPrice.Mul(order.Quantity)
	fee := quoteQty.Mul(m.makerFee).Round(8)

	if order.IsBuy() {
		// Locked covers quoteQty for limit buys; a triggered stop-market
		// buy executing above its stop leaves a shortfall that free must
		// cover, the mirror of the refund when locked exceeds the cost.
		refund := order.Locked.Sub(quoteQty)
		shortfall := decimal.Zero
		if refund.IsNegative() {
			shortfall = refund.Neg()
			refund = decimal.Zero
		}

		if quoteBal.Free.Add(refund).LessThan(shortfall.Add(fee)) {
			return nil, m.rejectOrder(order, balances)
		}

		if err := quoteBal.UnlockAndSubFunds(order.Locked); err != nil {
			return nil, m.rejectOrder(order, balances)
		}
		if refund.IsPositive() {
			if err := quoteBal.PlusFunds(refund); err != nil {
				return nil, err
			}
		}
		if shortfall.IsPositive() {
			if err := quoteBal.SubFunds(shortfall); err != nil {
				return nil, err
			}
		}
		if fee.IsPositive() {
			if err := quoteBal.SubFunds(fee); err != nil {
				return nil, err
			}
		}
		if err := baseBal.PlusFunds(order.Quantity); err != nil {
			return nil, err
		}
	} else {
		if err := baseBal.UnlockAndSubFunds(order.Locked); err != nil {
			return nil, m.rejectOrder(order, balances)
		}

		proceeds := quoteQty.Sub(fee)
		if proceeds.IsPositive() {
			if err := quoteBal.PlusFunds(proceeds); err != nil {
				return nil, err
			}
		}
	}

	if err := m.SaveBalances(balances); err != nil {
		return nil, err
	}

	now := nowMillis()
	order.Status = types.StatusFilled
	order.ExecutedQty = order.Quantity
	order.AvgPrice = execPrice
	order.Fee = fee
	order.FeeAsset = quote
	order.Locked = decimal.Zero
	order.UpdatedAt = now

	m.tradeSeq++
	trade := &models.Trade{
		ID:        m.tradeSeq,
		OrderID:   order.ID,
		Symbol:    order.Symbol,
		Side:      order.Side,
		Price:     execPrice,
		Quantity:  order.Quantity,
		QuoteQty:  quoteQty,
		Fee:       fee,
		FeeAsset:  quote,
		IsMaker:   true,
		Timestamp: now,
	}

	if err := m.store.Append(ledger.KeyTradeHistory, trade); err != nil {
		return nil, err
	}

	if err := m.MoveToHistory(order); err != nil {
		return nil, err
	}

	config.Logger.Debugf("[matching] %s order %d filled - %s * %s, fee %s %s",
		order.Symbol, order.ID, execPrice, order.Quantity, fee, quote)

	return trade, nil
}

// rejectOrder releases whatever the order still holds and retires it.
func (m *Matcher) rejectOrder(order *models.Order, balances map[string]*models.Balance) error {
	lockedBal := ensureBalance(balances, order.LockedAsset)

	if order.Locked.IsPositive() {
		if err := lockedBal.UnlockFunds(order.Locked); err != nil {
			return err
		}
		order.Locked = decimal.Zero
	}

	if err := m.SaveBalances(balances); err != nil {
		return err
	}

	order.Status = types.StatusRejected
	order.UpdatedAt = nowMillis()

	config.Logger.Errorf("[matching] %s order %d rejected at settlement", order.Symbol, order.ID)

	return m.MoveToHistory(order)
}

// Balances loads the account balance map, never nil.
func (m *Matcher) Balances() (map[string]*models.Balance, error) {
	balances := make(map[string]*models.Balance)
	if _, err := m.store.Read(ledger.KeyBalances, &balances); err != nil {
		return nil, err
	}

	return balances, nil
}

func (m *Matcher) SaveBalances(balances map[string]*models.Balance) error {
	return m.store.Write(ledger.KeyBalances, balances)
}

func (m *Matcher) persistOpen() error {
	return m.store.Write(ledger.KeyOpenOrders, m.Open(""))
}

func ensureBalance(balances map[string]*models.Balance, asset string) *models.Balance {
	bal, ok := balances[asset]
	if !ok {
		bal = models.NewBalance(asset)
		balances[asset] = bal
	}

	return bal
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
