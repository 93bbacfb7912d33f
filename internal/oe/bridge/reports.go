package bridge

import (
	"strconv"

	"ironbook/internal/common"
	"ironbook/internal/fixedpoint"
	"ironbook/internal/oe/codec"

	"github.com/google/uuid"
)

func encodeSide(s common.Side) string {
	if s == common.Buy {
		return codec.SideBuy
	}
	return codec.SideSell
}

func ordStatus(s common.Status) string {
	switch s {
	case common.New:
		return codec.ExecStatusNew
	case common.PartiallyFilled:
		return codec.ExecStatusPartiallyFilled
	case common.Filled:
		return codec.ExecStatusFilled
	case common.Canceled:
		return codec.ExecStatusCanceled
	case common.Rejected:
		return codec.ExecStatusRejected
	case common.Expired:
		return codec.ExecStatusExpired
	default:
		return codec.ExecStatusRejected
	}
}

func formatQty(scaled int64) string {
	return strconv.FormatFloat(fixedpoint.QuantityToFloat(scaled), 'f', -1, 64)
}

func formatPrice(scaled int64) string {
	return strconv.FormatFloat(fixedpoint.PriceToFloat(scaled), 'f', -1, 64)
}

func acknowledgement(order *common.Order) codec.ExecutionReport {
	return codec.ExecutionReport{
		OrderID:   strconv.FormatUint(order.ID, 10),
		ClOrdID:   order.ClOrdID,
		ExecID:    uuid.NewString(),
		ExecType:  ordStatus(order.Status),
		OrdStatus: ordStatus(order.Status),
		Symbol:    order.Symbol,
		Side:      encodeSide(order.Side),
		LeavesQty: formatQty(order.Remaining()),
		CumQty:    formatQty(order.FilledQty),
	}
}

// TradeReport builds the ExecutionReport for one side of one trade
// — the "one report per trade" variant spec.md section 9 documents as a
// permitted implementation choice, matching the teacher's
// generateWireTradeReports, which also emits a report per side per
// trade rather than aggregating. order is whichever side's report is
// being built (buyer or seller); counterpartyOwnerID, the other side's
// owner, is written into Text. TradeReportsForResult builds both sides.
func TradeReport(order *common.Order, trade common.Trade, counterpartyOwnerID uint64) codec.ExecutionReport {
	r := acknowledgement(order)
	r.ExecType = codec.ExecStatusTrade
	r.OrdStatus = ordStatus(order.Status)
	r.LastPx = formatPrice(trade.Price)
	r.LastQty = formatQty(trade.Qty)
	r.Text = strconv.FormatUint(counterpartyOwnerID, 10)
	return r
}

// TradeReportsForResult builds the buy-side and sell-side
// ExecutionReports for a single trade, given the two live Order
// records it was struck against (the bridge does not look orders up
// itself — the session layer tracks owner -> connection and supplies
// both sides).
func TradeReportsForResult(buyOrder, sellOrder *common.Order, trade common.Trade) (buyerReport, sellerReport codec.ExecutionReport) {
	buyerReport = TradeReport(buyOrder, trade, sellOrder.OwnerID)
	sellerReport = TradeReport(sellOrder, trade, buyOrder.OwnerID)
	return buyerReport, sellerReport
}

// RejectReport builds a report for an order the engine refused to
// accept at all (it never carries an order id since the engine never
// assigned one).
func RejectReport(clOrdID, symbol string, side common.Side, reason error) codec.ExecutionReport {
	text := ""
	if reason != nil {
		text = reason.Error()
	}
	return codec.ExecutionReport{
		ClOrdID:   clOrdID,
		ExecID:    uuid.NewString(),
		ExecType:  codec.ExecStatusRejected,
		OrdStatus: codec.ExecStatusRejected,
		Symbol:    symbol,
		Side:      encodeSide(side),
		LeavesQty: "0",
		CumQty:    "0",
		Text:      text,
	}
}
