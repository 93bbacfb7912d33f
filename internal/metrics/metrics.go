// Package metrics exposes the engine's trade and rejection counters
// via prometheus/client_golang. Spec.md names "numeric-metrics
// counters" as an external collaborator, out of the matching core's
// own scope, but the teacher's ambient stack still carries
// observability for everything that isn't the algorithm itself — so
// this package wires a real counter set rather than leaving metrics
// unimplemented.
package metrics

import (
	"ironbook/internal/common"
	"ironbook/internal/engine"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	tradesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ironbook_trades_total",
		Help: "Number of trades executed, by symbol.",
	}, []string{"symbol"})

	tradedVolume = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ironbook_traded_volume_scaled_total",
		Help: "Cumulative traded quantity (fixedpoint-scaled), by symbol.",
	}, []string{"symbol"})

	ordersAccepted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ironbook_orders_accepted_total",
		Help: "Number of orders accepted by the engine, by symbol and side.",
	}, []string{"symbol", "side"})

	ordersRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ironbook_orders_rejected_total",
		Help: "Number of orders rejected by the engine, by symbol and reason.",
	}, []string{"symbol", "reason"})
)

func init() {
	prometheus.MustRegister(tradesTotal, tradedVolume, ordersAccepted, ordersRejected)
}

// Reporter implements engine.Reporter, recording the orders, trades and
// rejections delivered through that seam (the one the OE session manager
// also uses) as Prometheus counters. The engine calls the seam only for
// orders a stop-trigger cascade places, so orders placed directly
// through PlaceOrder, and their trades, are not counted here. It
// never drives wire I/O itself — compose it alongside another
// engine.Reporter via MultiReporter when both metrics and wire
// delivery are needed.
type Reporter struct{}

func NewReporter() *Reporter { return &Reporter{} }

func (r *Reporter) OrderAccepted(order *common.Order, trades []common.Trade) {
	ordersAccepted.WithLabelValues(order.Symbol, order.Side.String()).Inc()
	for _, tr := range trades {
		tradesTotal.WithLabelValues(tr.Symbol).Inc()
		tradedVolume.WithLabelValues(tr.Symbol).Add(float64(tr.Qty))
	}
}

func (r *Reporter) OrderRejected(order *common.Order, reason error) {
	ordersRejected.WithLabelValues(order.Symbol, reason.Error()).Inc()
}

// MultiReporter fans an engine.Reporter call out to every reporter in
// the slice, in order. Used to wire both the OE session manager and
// the metrics Reporter onto the same engine.
type MultiReporter []engine.Reporter

func (m MultiReporter) OrderAccepted(order *common.Order, trades []common.Trade) {
	for _, r := range m {
		r.OrderAccepted(order, trades)
	}
}

func (m MultiReporter) OrderRejected(order *common.Order, reason error) {
	for _, r := range m {
		r.OrderRejected(order, reason)
	}
}
