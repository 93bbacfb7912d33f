package engine

import "ironbook/internal/common"

// Reporter receives trades and status changes the engine produces that
// did not originate from the caller's own PlaceOrder/CancelOrder call —
// principally the orders a stop-trigger cascade re-injects into the
// book on the caller's behalf. Spec.md section 9 resolves the
// cascade-attribution open question this way: cascade trades are never
// folded into the result handed back to the order that triggered them,
// they are surfaced here instead, exactly as if a brand new order had
// arrived. Grounded on the teacher's Engine.Trade/Server seam, which
// already separates "fire an execution report" from "return a value to
// the caller".
type Reporter interface {
	// OrderAccepted is called for every order a stop-trigger cascade
	// places, after it is fully processed; top-level PlaceOrder results
	// are returned to the caller instead.
	OrderAccepted(order *common.Order, trades []common.Trade)

	// OrderRejected is called when an order the cascade generated could
	// not be accepted (this should not normally happen: a cascade only
	// ever produces Market or Limit orders from previously-validated
	// stop orders).
	OrderRejected(order *common.Order, err error)
}

// NopReporter discards every report; useful for tests and for the
// top-level PlaceOrder call, which returns its own result directly to
// the caller instead of going through the Reporter seam.
type NopReporter struct{}

func (NopReporter) OrderAccepted(*common.Order, []common.Trade) {}
func (NopReporter) OrderRejected(*common.Order, error)          {}
