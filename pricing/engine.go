// Package pricing synthesizes tickers, order books and candle series for the
// simulated exchange. Prices follow a bounded random walk; every price
// observation mutates the persisted ticker, so reads are deliberately not
// idempotent.
package pricing

import (
	"errors"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/israel-nogueira/exchange-hub-sub000/config"
	"github.com/israel-nogueira/exchange-hub-sub000/ledger"
	"github.com/israel-nogueira/exchange-hub-sub000/models"
)

var ErrUnknownSymbol = errors.New("pricing: unknown symbol")
var ErrUnknownInterval = errors.New("pricing: unknown interval")

// minPrice is the floor of the random walk; a step can never drive a price
// to zero or below.
var minPrice = decimal.New(1, -8)

type Engine struct {
	store   *ledger.Ledger
	cfg     *config.SimulatorConfig
	rng     *rand.Rand
	tickers map[string]*models.Ticker
}

func NewEngine(store *ledger.Ledger, cfg *config.SimulatorConfig, rng *rand.Rand) (*Engine, error) {
	engine := &Engine{
		store:   store,
		cfg:     cfg,
		rng:     rng,
		tickers: make(map[string]*models.Ticker),
	}

	if _, err := store.Read(ledger.KeyTickers, &engine.tickers); err != nil {
		return nil, err
	}

	return engine, nil
}

// GetPrice advances the random walk for symbol and returns the new price.
// On the first observation the ticker is seeded from the configured base
// price. Every call mutates and persists the ticker.
func (e *Engine) GetPrice(symbol string) (decimal.Decimal, error) {
	ticker, err := e.step(symbol)
	if err != nil {
		return decimal.Zero, err
	}

	return ticker.Price, nil
}

// GetTicker advances the random walk and returns the full ticker record.
func (e *Engine) GetTicker(symbol string) (*models.Ticker, error) {
	ticker, err := e.step(symbol)
	if err != nil {
		return nil, err
	}

	snapshot := *ticker

	return &snapshot, nil
}

// CurrentPrice returns the last observed price without advancing the walk.
// It reports false when the symbol has never been observed.
func (e *Engine) CurrentPrice(symbol string) (decimal.Decimal, bool) {
	ticker, ok := e.tickers[symbol]
	if !ok {
		return decimal.Zero, false
	}

	return ticker.Price, true
}

func (e *Engine) step(symbol string) (*models.Ticker, error) {
	ticker, ok := e.tickers[symbol]

	if !ok {
		base, found := e.cfg.BasePrices[symbol]
		if !found {
			return nil, ErrUnknownSymbol
		}

		price := models.RoundPrice(decimal.NewFromFloat(base))
		ticker = &models.Ticker{
			Symbol:  symbol,
			Price:   price,
			Open24h: price,
			High24h: price,
			Low24h:  price,
		}
		e.tickers[symbol] = ticker
	} else {
		price, _ := ticker.Price.Float64()
		delta := price * e.uniform(-1, 1) * e.cfg.Volatility

		newPrice := ticker.Price.Add(decimal.NewFromFloat(delta))
		if newPrice.LessThanOrEqual(minPrice) {
			newPrice = minPrice
		}
		ticker.Price = models.RoundPrice(newPrice)

		if ticker.Price.GreaterThan(ticker.High24h) {
			ticker.High24h = ticker.Price
		}
		if ticker.Price.LessThan(ticker.Low24h) {
			ticker.Low24h = ticker.Price
		}

		volume := decimal.NewFromFloat(e.uniform(e.cfg.DepthQtyMin, e.cfg.DepthQtyMax)).Round(4)
		ticker.Volume24h = ticker.Volume24h.Add(volume)
		ticker.QuoteVolume24h = ticker.QuoteVolume24h.Add(volume.Mul(ticker.Price).Round(4))

		ticker.Change24h = ticker.Price.Sub(ticker.Open24h)
		if ticker.Open24h.IsPositive() {
			ticker.ChangePercent = ticker.Change24h.Div(ticker.Open24h).Mul(decimal.NewFromInt(100)).Round(4)
		}
	}

	// fresh 5-15 bps spread around the price on every observation
	half := ticker.Price.Mul(decimal.NewFromFloat(e.uniform(0.0005, 0.0015) / 2))
	ticker.Bid = models.RoundPrice(ticker.Price.Sub(half))
	ticker.Ask = models.RoundPrice(ticker.Price.Add(half))
	ticker.Timestamp = time.Now().UnixMilli()

	if err := e.store.Write(ledger.KeyTickers, e.tickers); err != nil {
		return nil, err
	}

	return ticker, nil
}

// GetOrderBook synthesizes depth bid and ask levels around a fresh price
// observation. Level offsets scale linearly with distance from the mid; the
// book is derived per call and never persisted.
func (e *Engine) GetOrderBook(symbol string, depth int) (*models.OrderBook, error) {
	price, err := e.GetPrice(symbol)
	if err != nil {
		return nil, err
	}

	if depth <= 0 {
		depth = 20
	}

	book := &models.OrderBook{
		Symbol:    symbol,
		Bids:      make([][]decimal.Decimal, 0, depth),
		Asks:      make([][]decimal.Decimal, 0, depth),
		Timestamp: time.Now().UnixMilli(),
	}

	factor := e.uniform(0.0001, 0.01)

	for i := 1; i <= depth; i++ {
		offset := price.Mul(decimal.NewFromFloat(factor * float64(i)))

		bidPrice := models.RoundPrice(price.Sub(offset))
		if bidPrice.LessThanOrEqual(decimal.Zero) {
			bidPrice = minPrice
		}
		askPrice := models.RoundPrice(price.Add(offset))

		book.Bids = append(book.Bids, []decimal.Decimal{bidPrice, e.randomQty()})
		book.Asks = append(book.Asks, []decimal.Decimal{askPrice, e.randomQty()})
	}

	return book, nil
}

// GenerateCandles returns a synthetic candle series for (symbol, interval).
// The series is generated once and persisted; later calls slice the stored
// series instead of regenerating, unlike tickers which mutate on every read.
func (e *Engine) GenerateCandles(symbol, interval string, count int) ([]models.Candle, error) {
	duration := models.IntervalDuration(interval)
	if duration == 0 {
		return nil, ErrUnknownInterval
	}

	if count <= 0 {
		count = 100
	}

	key := ledger.KeyCandles(symbol, interval)

	var series []models.Candle
	found, err := e.store.Read(key, &series)
	if err != nil {
		return nil, err
	}

	if !found {
		series, err = e.synthesizeCandles(symbol, interval, duration, count)
		if err != nil {
			return nil, err
		}

		if err := e.store.Write(key, series); err != nil {
			return nil, err
		}
	}

	if len(series) > count {
		series = series[len(series)-count:]
	}

	return series, nil
}

func (e *Engine) synthesizeCandles(symbol, interval string, duration time.Duration, count int) ([]models.Candle, error) {
	base, found := e.cfg.BasePrices[symbol]
	if !found {
		return nil, ErrUnknownSymbol
	}

	end := time.Now().Truncate(duration)
	series := make([]models.Candle, 0, count)
	prevClose := models.RoundPrice(decimal.NewFromFloat(base))

	for i := count; i > 0; i-- {
		openTime := end.Add(-duration * time.Duration(i))

		open := prevClose
		openFloat, _ := open.Float64()
		closePrice := open.Add(decimal.NewFromFloat(openFloat * e.uniform(-1, 1) * e.cfg.Volatility))
		if closePrice.LessThanOrEqual(minPrice) {
			closePrice = minPrice
		}
		closePrice = models.RoundPrice(closePrice)

		high := decimal.Max(open, closePrice)
		high = models.RoundPrice(high.Mul(decimal.NewFromFloat(1 + e.uniform(0, 0.002))))
		low := decimal.Min(open, closePrice)
		low = models.RoundPrice(low.Mul(decimal.NewFromFloat(1 - e.uniform(0, 0.002))))

		volume := decimal.NewFromFloat(e.uniform(e.cfg.DepthQtyMin, e.cfg.DepthQtyMax) * 10).Round(4)

		series = append(series, models.Candle{
			Symbol:      symbol,
			Interval:    interval,
			OpenTime:    openTime.UnixMilli(),
			Open:        open,
			High:        high,
			Low:         low,
			Close:       closePrice,
			Volume:      volume,
			QuoteVolume: volume.Mul(closePrice).Round(4),
			TradeCount:  int64(e.rng.Intn(500) + 1),
			CloseTime:   openTime.Add(duration).UnixMilli() - 1,
		})

		prevClose = closePrice
	}

	return series, nil
}

func (e *Engine) randomQty() decimal.Decimal {
	return decimal.NewFromFloat(e.uniform(e.cfg.DepthQtyMin, e.cfg.DepthQtyMax)).Round(4)
}

func (e *Engine) uniform(min, max float64) float64 {
	return min + e.rng.Float64()*(max-min)
}
