// Package book implements the per-symbol order book: price levels, the
// stop-order book, and their combination into a single OrderBook with a
// stop-trigger cascade. Spec.md section 4.1/4.2/4.3.
package book

import "ironbook/internal/common"

// PriceLevel is an insertion-ordered sequence of orders resting at one
// price on one side, plus running totals. Spec.md section 3/4.1: linear
// search is deliberate, level depths are expected to be small and a
// contiguous slice wins on cache behavior over a tree-per-level
// structure.
type PriceLevel struct {
	Price         int64
	Orders        []*common.Order
	TotalVolume   int64
	VisibleVolume int64
}

// NewPriceLevel creates an empty level at the given price.
func NewPriceLevel(price int64) *PriceLevel {
	return &PriceLevel{Price: price}
}

// Add appends order to the level and folds its remaining/visible
// quantity into the running totals.
func (lvl *PriceLevel) Add(order *common.Order) {
	lvl.Orders = append(lvl.Orders, order)
	lvl.TotalVolume += order.Remaining()
	lvl.VisibleVolume += order.Visible()
}

// Remove locates order by id via a linear scan, removes it, and
// decrements the running totals. Returns (order, true) on success.
func (lvl *PriceLevel) Remove(orderID uint64) (*common.Order, bool) {
	for i, o := range lvl.Orders {
		if o.ID == orderID {
			lvl.TotalVolume -= o.Remaining()
			lvl.VisibleVolume -= o.Visible()
			lvl.Orders = append(lvl.Orders[:i], lvl.Orders[i+1:]...)
			return o, true
		}
	}
	return nil, false
}

// IsEmpty reports whether the level has no resting orders.
func (lvl *PriceLevel) IsEmpty() bool {
	return len(lvl.Orders) == 0
}

// RecomputeVisible rescans every order on the level and rebuilds both
// running totals from scratch. Used only when invariants might have
// drifted, e.g. after an iceberg refresh.
func (lvl *PriceLevel) RecomputeVisible() {
	var total, visible int64
	for _, o := range lvl.Orders {
		total += o.Remaining()
		visible += o.Visible()
	}
	lvl.TotalVolume = total
	lvl.VisibleVolume = visible
}

// ApplyTrade increases orderID's filled quantity by executedQty and
// adjusts the level's visible volume: for an iceberg order the new
// visible size is recomputed as min(display, remaining); for any other
// order the visible volume simply drops by executedQty. TotalVolume
// always drops by executedQty, spec.md section 4.1.
func (lvl *PriceLevel) ApplyTrade(orderID uint64, executedQty int64) {
	for _, o := range lvl.Orders {
		if o.ID != orderID {
			continue
		}
		beforeVisible := o.Visible()
		o.FilledQty += executedQty
		lvl.TotalVolume -= executedQty
		if o.Kind == common.Iceberg {
			lvl.VisibleVolume += o.Visible() - beforeVisible
		} else {
			lvl.VisibleVolume -= executedQty
		}
		return
	}
}
