package engine

import (
	"ironbook/internal/book"
	"ironbook/internal/common"
)

// validate rejects structurally invalid orders before any state
// mutation, per spec.md section 4.4's failure semantics.
func validate(o *common.Order) error {
	if o.TotalQty <= 0 {
		return ErrInvalidOrder
	}
	if o.IsStop() && o.StopPrice <= 0 {
		return ErrInvalidOrder
	}
	if o.Kind == common.Iceberg && (o.DisplayQty <= 0 || o.DisplayQty > o.TotalQty) {
		return ErrInvalidOrder
	}
	return nil
}

// placeLocked runs the full single-order acceptance path of spec.md
// section 4.4 against an already-locked book. It both assigns a fresh
// id to brand-new orders and re-runs stop-cascade rewrites (which
// already carry an id) through the same path, so a cascade order is
// indistinguishable from a freshly placed one once it reaches here.
//
// A leftover Market order (liquidity exhausted before the order filled)
// is the one case where this returns both a non-nil result and a
// non-nil error: the partial trades already happened and must not be
// silently dropped, but ErrNoLiquidity still reports that the order's
// remaining quantity could not be placed.
func (e *Engine) placeLocked(ob *book.OrderBook, incoming *common.Order) (*PlaceResult, error) {
	incoming.ExchangeTimestamp = e.now()
	if incoming.ID == 0 {
		incoming.ID = e.nextOrderID()
	}

	if incoming.IsStop() {
		if err := ob.InsertStop(incoming); err != nil {
			incoming.Status = common.Rejected
			return nil, err
		}
		incoming.Status = common.New
		return &PlaceResult{Order: incoming}, nil
	}

	if incoming.Kind == common.Market {
		if _, ok := ob.BestOpposite(incoming.Side); !ok {
			incoming.Status = common.Rejected
			return nil, ErrNoLiquidity
		}
	}

	if incoming.TIF == common.FOK {
		available := ob.CrossableVolume(incoming.Side, incoming.LimitPrice, incoming.Kind == common.Market)
		if available < incoming.Remaining() {
			incoming.Status = common.Rejected
			return nil, ErrFOKCannotBeFilled
		}
	}

	trades := e.matchLoop(ob, incoming)

	switch {
	case incoming.IsFilled():
		incoming.Status = common.Filled
		return &PlaceResult{Order: incoming, Trades: trades}, nil

	case incoming.TIF == common.IOC:
		incoming.Status = common.Canceled
		return &PlaceResult{Order: incoming, Trades: trades}, nil

	case incoming.TIF == common.FOK:
		// Unreachable given the prematch check above; kept as a guard
		// against an internal invariant break rather than silently
		// resting a FOK order.
		incoming.Status = common.Rejected
		return nil, ErrFOKCannotBeFilled

	case incoming.Kind == common.Limit || incoming.Kind == common.Iceberg:
		if incoming.FilledQty > 0 {
			incoming.Status = common.PartiallyFilled
		} else {
			incoming.Status = common.New
		}
		ob.InsertResting(incoming)
		return &PlaceResult{Order: incoming, Trades: trades}, nil

	default: // leftover Market: depth exhausted before the order filled.
		incoming.Status = common.PartiallyFilled
		return &PlaceResult{Order: incoming, Trades: trades}, ErrNoLiquidity
	}
}

// matchLoop repeatedly crosses incoming against the best opposite price
// level until incoming is filled, the book no longer crosses its limit
// (if any), or the opposite side runs out. Price-time priority: within
// a level, orders are consumed strictly in arrival order; each trade is
// capped at the resting order's Visible() quantity, not its full
// Remaining(), so an iceberg order with hidden reserve beyond its
// display size produces several smaller trades instead of one large
// print. It keeps its place at the head of the level across those
// trades rather than losing priority, per spec.md section 4.4 step 2.
func (e *Engine) matchLoop(ob *book.OrderBook, incoming *common.Order) []common.Trade {
	var trades []common.Trade

	for !incoming.IsFilled() {
		price, ok := ob.BestOpposite(incoming.Side)
		if !ok {
			break
		}
		if incoming.Kind != common.Market {
			if incoming.Side == common.Buy && price > incoming.LimitPrice {
				break
			}
			if incoming.Side == common.Sell && price < incoming.LimitPrice {
				break
			}
		}

		oppositeSide := common.Sell
		if incoming.Side == common.Sell {
			oppositeSide = common.Buy
		}
		lvl, ok := ob.LevelAt(oppositeSide, price)
		if !ok {
			break
		}

		consumed := 0
		for consumed < len(lvl.Orders) && !incoming.IsFilled() {
			resting := lvl.Orders[consumed]
			tradeQty := min(incoming.Remaining(), resting.Visible())

			trades = append(trades, e.buildTrade(ob.Symbol, incoming, resting, tradeQty, resting.LimitPrice))

			lvl.ApplyTrade(resting.ID, tradeQty)
			incoming.FilledQty += tradeQty

			if resting.IsFilled() {
				resting.Status = common.Filled
				consumed++
			} else {
				resting.Status = common.PartiallyFilled
			}
		}

		if consumed > 0 {
			for _, o := range lvl.Orders[:consumed] {
				ob.RemoveFromIndex(o.ID)
			}
			lvl.Orders = lvl.Orders[consumed:]
		}
		if lvl.IsEmpty() {
			ob.DeleteLevel(oppositeSide, price)
		}
	}

	return trades
}

func (e *Engine) buildTrade(symbol string, incoming, resting *common.Order, qty, price int64) common.Trade {
	buy, sell := resting, incoming
	if incoming.Side == common.Buy {
		buy, sell = incoming, resting
	}
	return common.Trade{
		ID:           e.nextTradeID(),
		Symbol:       symbol,
		BuyOrderID:   buy.ID,
		SellOrderID:  sell.ID,
		BuyClOrdID:   buy.ClOrdID,
		SellClOrdID:  sell.ClOrdID,
		BuyOwnerID:   buy.OwnerID,
		SellOwnerID:  sell.OwnerID,
		Price:        price,
		Qty:          qty,
		Timestamp:    e.now(),
		TakerIsBuyer: incoming.Side == common.Buy,
	}
}
