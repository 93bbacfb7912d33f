// Package engine implements the matching engine: it sequences order
// arrival, runs price-time matching against an internal/book.OrderBook,
// enforces time-in-force semantics, and drives the stop-trigger
// cascade. Spec.md section 4.4.
package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"ironbook/internal/book"
	"ironbook/internal/common"
)

// PlaceResult is the outcome of a successful PlaceOrder call: the order
// in its final state and every trade produced directly by it. Trades
// produced by a stop-trigger cascade that the order set off are never
// folded in here; they are delivered through the Reporter instead
// (see reporter.go).
type PlaceResult struct {
	Order  *common.Order
	Trades []common.Trade
}

// Engine owns one order book per symbol plus the id generators shared
// across all of them. Grounded on the teacher's Engine type, generalized
// from a stub into the full matching loop described by spec.md 4.4.
type Engine struct {
	mu     sync.RWMutex
	books  map[string]*book.OrderBook
	nextOI atomic.Uint64
	nextTI atomic.Uint64

	reporterMu sync.RWMutex
	reporter   Reporter

	// now returns the current time as a monotonic nanosecond tick. It is
	// a field rather than a direct time.Now call so tests can supply a
	// deterministic clock.
	now func() int64
}

// New creates an engine with an order book for every given symbol.
func New(symbols ...string) *Engine {
	e := &Engine{
		books:    make(map[string]*book.OrderBook, len(symbols)),
		reporter: NopReporter{},
		now:      func() int64 { return time.Now().UnixNano() },
	}
	for _, s := range symbols {
		e.books[s] = book.New(s)
	}
	return e
}

// SetReporter installs the Reporter that receives cascade-generated
// order/trade notifications. Safe to call concurrently with PlaceOrder.
func (e *Engine) SetReporter(r Reporter) {
	e.reporterMu.Lock()
	defer e.reporterMu.Unlock()
	e.reporter = r
}

func (e *Engine) getReporter() Reporter {
	e.reporterMu.RLock()
	defer e.reporterMu.RUnlock()
	return e.reporter
}

// SetClock overrides the engine's time source; used by tests that need
// deterministic ExchangeTimestamp/Timestamp values.
func (e *Engine) SetClock(now func() int64) {
	e.now = now
}

func (e *Engine) book(symbol string) (*book.OrderBook, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	b, ok := e.books[symbol]
	return b, ok
}

// AddSymbol registers a new empty order book. No-op if the symbol
// already has one.
func (e *Engine) AddSymbol(symbol string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.books[symbol]; !ok {
		e.books[symbol] = book.New(symbol)
	}
}

func (e *Engine) nextOrderID() uint64 { return e.nextOI.Add(1) }
func (e *Engine) nextTradeID() uint64 { return e.nextTI.Add(1) }

// PlaceOrder validates and accepts incoming, runs it through the
// matching loop, and, if it produces any trades, drives the
// stop-trigger cascade. incoming.ID is assigned by the engine and must
// be zero on entry.
func (e *Engine) PlaceOrder(incoming *common.Order) (*PlaceResult, error) {
	ob, ok := e.book(incoming.Symbol)
	if !ok {
		return nil, ErrSymbolNotFound
	}
	if err := validate(incoming); err != nil {
		return nil, err
	}

	ob.Lock()
	defer ob.Unlock()

	result, err := e.placeLocked(ob, incoming)
	if err != nil && result == nil {
		return nil, err
	}
	if len(result.Trades) > 0 {
		e.cascade(ob, result.Trades[len(result.Trades)-1].Price)
	}
	return result, err
}

// CancelOrder removes a resting or stop order from the named symbol's
// book and marks it Canceled.
func (e *Engine) CancelOrder(symbol string, orderID uint64) (*common.Order, error) {
	ob, ok := e.book(symbol)
	if !ok {
		return nil, ErrSymbolNotFound
	}
	ob.Lock()
	defer ob.Unlock()

	order, err := ob.Cancel(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ExpireOrders runs the Day/GTD expiry sweep against every book as of
// now and returns the orders it removed, keyed by symbol.
func (e *Engine) ExpireOrders(now int64) map[string][]*common.Order {
	e.mu.RLock()
	symbols := make([]string, 0, len(e.books))
	for s := range e.books {
		symbols = append(symbols, s)
	}
	e.mu.RUnlock()

	expired := make(map[string][]*common.Order)
	for _, s := range symbols {
		ob, _ := e.book(s)
		ob.Lock()
		orders := ob.Expire(now)
		ob.Unlock()
		if len(orders) > 0 {
			expired[s] = orders
		}
	}
	return expired
}

// cascade drives the stop-trigger cascade after a top-level order
// produces its last trade at price. It is bounded by the number of stop
// orders resting at cascade start, per spec.md section 4.4/9: each
// triggered order is removed from the stop book before being
// re-inserted, so a self-retriggering order cannot spin past that
// budget.
func (e *Engine) cascade(ob *book.OrderBook, price int64) {
	budget := ob.Stop.Len()
	queue := ob.AdvanceLastTradePrice(price)

	steps := 0
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		if steps >= budget {
			break
		}
		steps++

		res, err := e.placeLocked(ob, next)
		reporter := e.getReporter()
		if err != nil && res == nil {
			reporter.OrderRejected(next, err)
			continue
		}
		reporter.OrderAccepted(res.Order, res.Trades)
		if len(res.Trades) > 0 {
			queue = append(queue, ob.AdvanceLastTradePrice(res.Trades[len(res.Trades)-1].Price)...)
		}
	}
}
