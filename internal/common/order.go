package common

import "fmt"

// Order is a resting or incoming order and its wire-facing identity.
// Prices and quantities are scaled integers (fixedpoint.PriceScale /
// fixedpoint.QuantityScale); Timestamp/ExchangeTimestamp/ExpiresAt are
// nanosecond ticks on a monotonic clock, not wall time.
type Order struct {
	ID      uint64 // engine-assigned, monotonic >= 1; 0 = unassigned
	ClOrdID string // client-assigned order id, carried end-to-end for OE reports
	Symbol  string
	Side    Side
	Kind    Kind

	LimitPrice int64 // scaled; 0 for Market and StopMarket prior to trigger
	StopPrice  int64 // scaled; mandatory for Stop* kinds
	DisplayQty int64 // scaled; mandatory for Iceberg; 0 otherwise

	TotalQty  int64 // scaled
	FilledQty int64 // scaled, FilledQty <= TotalQty

	Status Status
	TIF    TIF

	// Timestamp is the wire-supplied (client-claimed) arrival time, used
	// only for display/audit. ExchangeTimestamp is the engine's own
	// monotonic clock reading at acceptance and is what priority and
	// expiry are computed from, so a forged TransactTime cannot buy time
	// priority.
	Timestamp         int64
	ExchangeTimestamp int64
	ExpiresAt         int64 // absolute ns tick; meaningful only for TIF=GTD

	OwnerID uint64 // opaque value carried end-to-end
}

// Remaining is the unfilled quantity.
func (o *Order) Remaining() int64 {
	return o.TotalQty - o.FilledQty
}

// Visible is the quantity a counterparty sweep can see: capped at
// DisplayQty for Iceberg orders, otherwise the full remaining quantity.
func (o *Order) Visible() int64 {
	remaining := o.Remaining()
	if o.Kind == Iceberg {
		if o.DisplayQty < remaining {
			return o.DisplayQty
		}
		return remaining
	}
	return remaining
}

// IsFilled reports whether the order has no remaining quantity.
func (o *Order) IsFilled() bool {
	return o.FilledQty >= o.TotalQty
}

// IsStop reports whether this order is a stop-kind order.
func (o *Order) IsStop() bool {
	return o.Kind == StopLimit || o.Kind == StopMarket
}

// StopTriggered reports whether the last trade price crosses this stop
// order's trigger price.
func (o *Order) StopTriggered(lastTradePrice int64) bool {
	if !o.IsStop() {
		return false
	}
	if o.Side == Buy {
		return lastTradePrice >= o.StopPrice
	}
	return lastTradePrice <= o.StopPrice
}

// IsExpired evaluates the order's TIF-specific expiry rule against now
// (a monotonic ns tick). GTD expires at/after ExpiresAt; Day expires
// once now falls on a later dayTicks-granularity calendar day than
// ExchangeTimestamp; all other TIFs never expire on their own.
func (o *Order) IsExpired(now int64, dayTicks int64) bool {
	switch o.TIF {
	case GTD:
		return now >= o.ExpiresAt
	case Day:
		return now/dayTicks > o.ExchangeTimestamp/dayTicks
	default:
		return false
	}
}

func (o Order) String() string {
	return fmt.Sprintf(
		`ID:        %d
ClOrdID:   %s
Symbol:    %s
Side:      %v
Kind:      %v
Limit:     %d
Stop:      %d
Display:   %d
Total:     %d
Filled:    %d
Status:    %v
TIF:       %v
Owner:     %d`,
		o.ID, o.ClOrdID, o.Symbol, o.Side, o.Kind,
		o.LimitPrice, o.StopPrice, o.DisplayQty,
		o.TotalQty, o.FilledQty, o.Status, o.TIF, o.OwnerID,
	)
}
