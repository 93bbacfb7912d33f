package book

import (
	"errors"

	"ironbook/internal/common"
)

var (
	// ErrNotStopOrder is returned by Add when the order is not a stop kind.
	ErrNotStopOrder = errors.New("book: order is not a stop order")
)

// StopBook holds stop orders, keyed by side and stop price, FIFO within
// a price. Spec.md section 4.2. Orders live here until triggered; an
// order is in exactly one of {order book, stop book, neither} at a time.
type StopBook struct {
	BuyStops  map[int64][]*common.Order
	SellStops map[int64][]*common.Order
	byID      map[uint64]*common.Order
}

// NewStopBook creates an empty stop book.
func NewStopBook() *StopBook {
	return &StopBook{
		BuyStops:  make(map[int64][]*common.Order),
		SellStops: make(map[int64][]*common.Order),
		byID:      make(map[uint64]*common.Order),
	}
}

// Add inserts a stop order. Requires order.IsStop() and a stop price.
func (sb *StopBook) Add(order *common.Order) error {
	if !order.IsStop() {
		return ErrNotStopOrder
	}
	if order.Side == common.Buy {
		sb.BuyStops[order.StopPrice] = append(sb.BuyStops[order.StopPrice], order)
	} else {
		sb.SellStops[order.StopPrice] = append(sb.SellStops[order.StopPrice], order)
	}
	sb.byID[order.ID] = order
	return nil
}

// Remove locates and removes a stop order by id, returning it on success.
func (sb *StopBook) Remove(orderID uint64) (*common.Order, bool) {
	order, ok := sb.byID[orderID]
	if !ok {
		return nil, false
	}
	delete(sb.byID, orderID)

	var bucket map[int64][]*common.Order
	if order.Side == common.Buy {
		bucket = sb.BuyStops
	} else {
		bucket = sb.SellStops
	}
	queue := bucket[order.StopPrice]
	for i, o := range queue {
		if o.ID == orderID {
			bucket[order.StopPrice] = append(queue[:i], queue[i+1:]...)
			break
		}
	}
	if len(bucket[order.StopPrice]) == 0 {
		delete(bucket, order.StopPrice)
	}
	return order, true
}

// TriggeredBy returns every buy-stop with StopPrice <= lastPrice and
// every sell-stop with StopPrice >= lastPrice. Ordering across prices is
// unspecified; within a price it is FIFO, per spec.md section 4.2.
// Triggered orders remain in the book until the caller removes them.
func (sb *StopBook) TriggeredBy(lastPrice int64) []*common.Order {
	var triggered []*common.Order
	for price, orders := range sb.BuyStops {
		if price <= lastPrice {
			triggered = append(triggered, orders...)
		}
	}
	for price, orders := range sb.SellStops {
		if price >= lastPrice {
			triggered = append(triggered, orders...)
		}
	}
	return triggered
}

// Len returns the total number of resting stop orders, used to bound the
// stop-trigger cascade.
func (sb *StopBook) Len() int {
	return len(sb.byID)
}
