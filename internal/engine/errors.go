package engine

import "errors"

var (
	// ErrSymbolNotFound is returned when an order names a symbol the
	// engine has no book for.
	ErrSymbolNotFound = errors.New("engine: symbol not found")

	// ErrNoLiquidity is returned when a Market order cannot trade at all
	// because the opposite side of the book is empty.
	ErrNoLiquidity = errors.New("engine: no liquidity on opposite side")

	// ErrFOKCannotBeFilled is returned when a Fill-Or-Kill order's full
	// quantity cannot be matched immediately; the order is rejected and
	// nothing is resting or traded.
	ErrFOKCannotBeFilled = errors.New("engine: fill-or-kill order cannot be fully filled")

	// ErrInvalidOrder is returned for structurally invalid input, such as
	// a stop order missing a stop price or an iceberg order with a
	// display quantity larger than its total.
	ErrInvalidOrder = errors.New("engine: invalid order")

	// ErrOrderNotFound is returned by CancelOrder when no resting or stop
	// order with the given id exists in the named symbol's book.
	ErrOrderNotFound = errors.New("engine: order not found")
)
