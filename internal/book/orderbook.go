package book

import (
	"errors"
	"sync"

	"ironbook/internal/common"
	"ironbook/internal/fixedpoint"

	"github.com/tidwall/btree"
)

var (
	// ErrOrderNotFound is returned by Cancel when no such order rests
	// anywhere in the book.
	ErrOrderNotFound = errors.New("book: order not found")
)

// Levels is a price-ordered collection of price levels for one side.
// Grounded on the teacher's internal/engine/orderbook.go, which keeps
// bid/ask price levels in a tidwall/btree.BTreeG so best-of-book lookups
// and depth walks stay O(log P) in the number of distinct price levels.
type Levels = btree.BTreeG[*PriceLevel]

// OrderBook is the two-sided book for a single symbol: bid/ask price
// levels, an auxiliary stop-order book, and an id index. Spec.md
// section 3/4.3. The book carries its own mutex, exposed through
// Lock/Unlock; its other methods do not take it, so the caller holds it
// around each call (the single-writer-per-book model of spec.md section 5).
type OrderBook struct {
	Symbol string

	mu sync.Mutex

	Bids *Levels
	Asks *Levels
	Stop *StopBook

	OrdersByID map[uint64]*common.Order

	lastTradePrice    int64
	hasLastTradePrice bool
}

// New creates an empty order book for symbol.
func New(symbol string) *OrderBook {
	bids := btree.NewBTreeG(func(a, b *PriceLevel) bool { return a.Price > b.Price })
	asks := btree.NewBTreeG(func(a, b *PriceLevel) bool { return a.Price < b.Price })
	return &OrderBook{
		Symbol:     symbol,
		Bids:       bids,
		Asks:       asks,
		Stop:       NewStopBook(),
		OrdersByID: make(map[uint64]*common.Order),
	}
}

// Lock/Unlock expose the book's mutex directly so the matching engine
// can hold it across an entire place/cancel/expire call, per spec.md
// section 5's "exclusive access to the book" requirement. All other
// exported methods assume the caller already holds the lock; the engine
// is the only caller.
func (b *OrderBook) Lock()   { b.mu.Lock() }
func (b *OrderBook) Unlock() { b.mu.Unlock() }

func (b *OrderBook) sideLevels(side common.Side) *Levels {
	if side == common.Buy {
		return b.Bids
	}
	return b.Asks
}

func (b *OrderBook) oppositeLevels(side common.Side) *Levels {
	if side == common.Buy {
		return b.Asks
	}
	return b.Bids
}

// InsertResting attaches a Limit or Iceberg order to its side's price
// level, creating the level if needed, and indexes it by id.
func (b *OrderBook) InsertResting(order *common.Order) {
	levels := b.sideLevels(order.Side)
	key := &PriceLevel{Price: order.LimitPrice}
	if lvl, ok := levels.GetMut(key); ok {
		lvl.Add(order)
	} else {
		lvl := NewPriceLevel(order.LimitPrice)
		lvl.Add(order)
		levels.Set(lvl)
	}
	b.OrdersByID[order.ID] = order
}

// InsertStop attaches a stop order to the stop book and indexes it.
func (b *OrderBook) InsertStop(order *common.Order) error {
	if err := b.Stop.Add(order); err != nil {
		return err
	}
	b.OrdersByID[order.ID] = order
	return nil
}

// Cancel searches the main book and the stop book for orderID; on
// success it removes the order, marks it Canceled, and returns it.
func (b *OrderBook) Cancel(orderID uint64) (*common.Order, error) {
	order, ok := b.OrdersByID[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}

	if order.IsStop() {
		b.Stop.Remove(orderID)
	} else {
		levels := b.sideLevels(order.Side)
		key := &PriceLevel{Price: order.LimitPrice}
		if lvl, ok := levels.GetMut(key); ok {
			lvl.Remove(orderID)
			if lvl.IsEmpty() {
				levels.Delete(key)
			}
		}
	}
	delete(b.OrdersByID, orderID)
	order.Status = common.Canceled
	return order, nil
}

// BestBid returns the highest resting buy price, if any.
func (b *OrderBook) BestBid() (int64, bool) {
	lvl, ok := b.Bids.Min()
	if !ok {
		return 0, false
	}
	return lvl.Price, true
}

// BestAsk returns the lowest resting sell price, if any.
func (b *OrderBook) BestAsk() (int64, bool) {
	lvl, ok := b.Asks.Min()
	if !ok {
		return 0, false
	}
	return lvl.Price, true
}

// BestOpposite returns the best price on the side opposite to side.
func (b *OrderBook) BestOpposite(side common.Side) (int64, bool) {
	if side == common.Buy {
		return b.BestAsk()
	}
	return b.BestBid()
}

// LastTradePrice returns the last recorded trade price, if any.
func (b *OrderBook) LastTradePrice() (int64, bool) {
	return b.lastTradePrice, b.hasLastTradePrice
}

// AdvanceLastTradePrice records a new last-trade price and removes every
// now-triggered stop order from the stop book, rewriting each to its
// non-stop equivalent per spec.md section 4.3: StopMarket becomes Market
// priced at the current opposite best (or price itself if the opposite
// side is empty); StopLimit becomes Limit, keeping its original
// LimitPrice. The caller (the matching engine) is responsible for
// re-inserting each returned order through the normal matching path and
// for bounding the overall cascade.
func (b *OrderBook) AdvanceLastTradePrice(price int64) []*common.Order {
	b.lastTradePrice = price
	b.hasLastTradePrice = true

	triggered := b.Stop.TriggeredBy(price)
	rewritten := make([]*common.Order, 0, len(triggered))
	for _, order := range triggered {
		b.Stop.Remove(order.ID)
		switch order.Kind {
		case common.StopMarket:
			order.Kind = common.Market
			if opp, ok := b.BestOpposite(order.Side); ok {
				order.LimitPrice = opp
			} else {
				order.LimitPrice = price
			}
		case common.StopLimit:
			order.Kind = common.Limit
			// LimitPrice is already set from the original order.
		}
		rewritten = append(rewritten, order)
	}
	return rewritten
}

// Expire collects every resting order (book or stop book) for which
// order.IsExpired(now, dayTicks) holds, removes it from wherever it
// rests, marks it Expired, and returns the collected orders.
func (b *OrderBook) Expire(now int64) []*common.Order {
	var expired []*common.Order
	var ids []uint64
	for id, order := range b.OrdersByID {
		if order.IsExpired(now, fixedpoint.DayTicks) {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		order := b.OrdersByID[id]
		if order.IsStop() {
			b.Stop.Remove(id)
		} else {
			levels := b.sideLevels(order.Side)
			key := &PriceLevel{Price: order.LimitPrice}
			if lvl, ok := levels.GetMut(key); ok {
				lvl.Remove(id)
				if lvl.IsEmpty() {
					levels.Delete(key)
				}
			}
		}
		delete(b.OrdersByID, id)
		order.Status = common.Expired
		expired = append(expired, order)
	}
	return expired
}

// ReplenishIceberg recomputes the visible volume of the price level
// containing order from the order's current remaining/display quantity.
// Used after a partial fill leaves an iceberg order's hidden reserve
// still resting.
func (b *OrderBook) ReplenishIceberg(order *common.Order) {
	levels := b.sideLevels(order.Side)
	key := &PriceLevel{Price: order.LimitPrice}
	if lvl, ok := levels.GetMut(key); ok {
		lvl.RecomputeVisible()
	}
}

// DepthEntry is one row of a market_depth query.
type DepthEntry struct {
	Price  int64
	Volume int64
}

// MarketDepth returns up to n best levels per side as (price,
// total_volume) pairs, best price first.
func (b *OrderBook) MarketDepth(n int) (bids []DepthEntry, asks []DepthEntry) {
	b.Bids.Scan(func(lvl *PriceLevel) bool {
		if len(bids) >= n {
			return false
		}
		bids = append(bids, DepthEntry{Price: lvl.Price, Volume: lvl.TotalVolume})
		return true
	})
	b.Asks.Scan(func(lvl *PriceLevel) bool {
		if len(asks) >= n {
			return false
		}
		asks = append(asks, DepthEntry{Price: lvl.Price, Volume: lvl.TotalVolume})
		return true
	})
	return bids, asks
}

// CrossableVolume sums the remaining volume available on the opposite
// side of side that an order with the given limit price (or, if
// marketOrder is true, any price) could match against. Used for the
// Fill-Or-Kill prematch check, spec.md section 4.4: it must run before
// any state mutation so a failed FOK rolls back nothing.
func (b *OrderBook) CrossableVolume(side common.Side, limitPrice int64, marketOrder bool) int64 {
	var total int64
	opp := b.oppositeLevels(side)
	opp.Scan(func(lvl *PriceLevel) bool {
		if !marketOrder {
			if side == common.Buy && lvl.Price > limitPrice {
				return false
			}
			if side == common.Sell && lvl.Price < limitPrice {
				return false
			}
		}
		total += lvl.TotalVolume
		return true
	})
	return total
}

// LevelAt returns the price level for a side/price pair, if one exists.
// Exposed for the matching engine's sweep loop.
func (b *OrderBook) LevelAt(side common.Side, price int64) (*PriceLevel, bool) {
	return b.sideLevels(side).GetMut(&PriceLevel{Price: price})
}

// DeleteLevel removes an emptied level from its side.
func (b *OrderBook) DeleteLevel(side common.Side, price int64) {
	b.sideLevels(side).Delete(&PriceLevel{Price: price})
}

// RemoveFromIndex drops order from the id index without touching
// whatever structure it rests in; used by the matching engine once an
// order has been fully consumed from its level.
func (b *OrderBook) RemoveFromIndex(orderID uint64) {
	delete(b.OrdersByID, orderID)
}

// IndexOrder adds order to the id index; used by the matching engine
// when inserting a resting order it has already placed on a level
// directly (the sweep loop manipulates levels in place for performance).
func (b *OrderBook) IndexOrder(order *common.Order) {
	b.OrdersByID[order.ID] = order
}
