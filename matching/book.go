package matching

import (
	rbt "github.com/emirpasic/gods/trees/redblacktree"
	"github.com/shopspring/decimal"

	"github.com/israel-nogueira/exchange-hub-sub000/models"
	"github.com/israel-nogueira/exchange-hub-sub000/types"
)

// OrderKey identifies a resting order inside one tree. Orders at the same
// price are ordered by id, oldest first.
type OrderKey struct {
	ID    int64
	Price decimal.Decimal
}

// Comparator orders keys by price ascending, then id. Best bid is the
// rightmost bid node, best ask the leftmost ask node.
func Comparator(a, b interface{}) int {
	aKey := a.(*OrderKey)
	bKey := b.(*OrderKey)

	if cmp := aKey.Price.Cmp(bKey.Price); cmp != 0 {
		return cmp
	}

	switch {
	case aKey.ID < bKey.ID:
		return -1
	case aKey.ID > bKey.ID:
		return 1
	default:
		return 0
	}
}

// Book indexes the resting orders of one symbol: limit orders by limit
// price, untriggered stop orders by stop price, and stop-market orders that
// triggered on the previous observation awaiting execution.
type Book struct {
	Symbol string

	Bids     *rbt.Tree
	Asks     *rbt.Tree
	StopBids *rbt.Tree
	StopAsks *rbt.Tree

	pendingMarket []*models.Order
}

func NewBook(symbol string) *Book {
	return &Book{
		Symbol:   symbol,
		Bids:     rbt.NewWith(Comparator),
		Asks:     rbt.NewWith(Comparator),
		StopBids: rbt.NewWith(Comparator),
		StopAsks: rbt.NewWith(Comparator),
	}
}

func limitKey(o *models.Order) *OrderKey {
	return &OrderKey{ID: o.ID, Price: o.LimitPrice()}
}

func stopKey(o *models.Order) *OrderKey {
	return &OrderKey{ID: o.ID, Price: o.StopPrice.Decimal}
}

// Add routes an order to the tree matching its current lifecycle stage.
// Market orders never rest and are rejected by the caller before this point.
func (b *Book) Add(o *models.Order) {
	if o.IsStop() && !o.StopTriggered {
		if o.IsBuy() {
			b.StopBids.Put(stopKey(o), o)
		} else {
			b.StopAsks.Put(stopKey(o), o)
		}
		return
	}

	if o.Type == types.TypeStopMarket {
		b.pendingMarket = append(b.pendingMarket, o)
		return
	}

	if o.IsBuy() {
		b.Bids.Put(limitKey(o), o)
	} else {
		b.Asks.Put(limitKey(o), o)
	}
}

func (b *Book) Remove(o *models.Order) {
	if o.IsStop() && !o.StopTriggered {
		if o.IsBuy() {
			b.StopBids.Remove(stopKey(o))
		} else {
			b.StopAsks.Remove(stopKey(o))
		}
		return
	}

	if o.Type == types.TypeStopMarket {
		for i, pending := range b.pendingMarket {
			if pending.ID == o.ID {
				b.pendingMarket = append(b.pendingMarket[:i], b.pendingMarket[i+1:]...)
				return
			}
		}
		return
	}

	if o.IsBuy() {
		b.Bids.Remove(limitKey(o))
	} else {
		b.Asks.Remove(limitKey(o))
	}
}

// TakePendingMarket drains the stop-market orders triggered on an earlier
// observation.
func (b *Book) TakePendingMarket() []*models.Order {
	pending := b.pendingMarket
	b.pendingMarket = nil

	return pending
}

func (b *Book) Orders() []*models.Order {
	orders := make([]*models.Order, 0, b.Size())

	for _, tree := range []*rbt.Tree{b.Bids, b.Asks, b.StopBids, b.StopAsks} {
		for _, value := range tree.Values() {
			orders = append(orders, value.(*models.Order))
		}
	}

	orders = append(orders, b.pendingMarket...)

	return orders
}

func (b *Book) Size() int {
	return b.Bids.Size() + b.Asks.Size() + b.StopBids.Size() + b.StopAsks.Size() + len(b.pendingMarket)
}
