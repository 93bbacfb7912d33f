package book

import "ironbook/internal/common"

// LevelSnapshot is one price level's serializable shape: the price and
// its resting orders in exact priority order. Totals are not stored —
// Restore recomputes them from the order list so a snapshot can never
// encode a level whose totals disagree with its own orders.
type LevelSnapshot struct {
	Price  int64
	Orders []common.Order
}

// Snapshot is the serializable shape of an OrderBook, spec.md section 6:
// ordered bid/ask levels (best first), the resting stop orders, and the
// last trade price.
type Snapshot struct {
	Symbol         string
	Bids           []LevelSnapshot
	Asks           []LevelSnapshot
	Stops          []common.Order
	LastTradePrice int64
	HasLastTrade   bool
}

// TakeSnapshot copies the book's entire resting state into a Snapshot.
// The caller must hold the book's lock.
func (b *OrderBook) TakeSnapshot() Snapshot {
	snap := Snapshot{
		Symbol:         b.Symbol,
		LastTradePrice: b.lastTradePrice,
		HasLastTrade:   b.hasLastTradePrice,
	}
	b.Bids.Scan(func(lvl *PriceLevel) bool {
		snap.Bids = append(snap.Bids, snapshotLevel(lvl))
		return true
	})
	b.Asks.Scan(func(lvl *PriceLevel) bool {
		snap.Asks = append(snap.Asks, snapshotLevel(lvl))
		return true
	})
	for _, o := range b.Stop.byID {
		snap.Stops = append(snap.Stops, *o)
	}
	return snap
}

func snapshotLevel(lvl *PriceLevel) LevelSnapshot {
	ls := LevelSnapshot{Price: lvl.Price}
	for _, o := range lvl.Orders {
		ls.Orders = append(ls.Orders, *o)
	}
	return ls
}

// Restore rebuilds an OrderBook from a Snapshot, preserving each level's
// exact order sequence (and therefore time priority) and recomputing
// every running total from the restored orders rather than trusting
// whatever totals existed when the snapshot was taken.
func Restore(snap Snapshot) *OrderBook {
	b := New(snap.Symbol)
	b.lastTradePrice = snap.LastTradePrice
	b.hasLastTradePrice = snap.HasLastTrade

	restoreSide := func(levels []LevelSnapshot, levelsTree *Levels) {
		for _, ls := range levels {
			lvl := NewPriceLevel(ls.Price)
			for i := range ls.Orders {
				order := ls.Orders[i]
				lvl.Add(&order)
				b.OrdersByID[order.ID] = lvl.Orders[len(lvl.Orders)-1]
			}
			levelsTree.Set(lvl)
		}
	}
	restoreSide(snap.Bids, b.Bids)
	restoreSide(snap.Asks, b.Asks)

	for i := range snap.Stops {
		order := snap.Stops[i]
		_ = b.Stop.Add(&order)
		b.OrdersByID[order.ID] = &order
	}
	return b
}
