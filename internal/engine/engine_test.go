package engine

import (
	"testing"

	"ironbook/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	p100 = 100_000_000
	p101 = 101_000_000
	p102 = 102_000_000
	p103 = 103_000_000
	p105 = 105_000_000
	p106 = 106_000_000
	p110 = 110_000_000
)

func qty(n int64) int64 { return n * 1_000 }

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := New("TEST")
	var tick int64
	e.SetClock(func() int64 { tick++; return tick })
	return e
}

func limit(symbol string, side common.Side, price, qtyScaled int64) *common.Order {
	return &common.Order{Symbol: symbol, Side: side, Kind: common.Limit, LimitPrice: price, TotalQty: qtyScaled, TIF: common.GTC}
}

func market(symbol string, side common.Side, qtyScaled int64) *common.Order {
	return &common.Order{Symbol: symbol, Side: side, Kind: common.Market, TotalQty: qtyScaled, TIF: common.GTC}
}

// Scenario 1 — simple cross.
func TestScenario1SimpleCross(t *testing.T) {
	e := newTestEngine(t)

	sell, err := e.PlaceOrder(limit("TEST", common.Sell, p100, qty(10)))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), sell.Order.ID)

	buy, err := e.PlaceOrder(limit("TEST", common.Buy, p100, qty(5)))
	require.NoError(t, err)

	require.Len(t, buy.Trades, 1)
	tr := buy.Trades[0]
	assert.Equal(t, buy.Order.ID, tr.BuyOrderID)
	assert.Equal(t, sell.Order.ID, tr.SellOrderID)
	assert.Equal(t, int64(p100), tr.Price)
	assert.Equal(t, qty(5), tr.Qty)

	assert.Equal(t, common.Filled, buy.Order.Status)
	assert.Equal(t, common.PartiallyFilled, sell.Order.Status)
	assert.Equal(t, qty(5), sell.Order.Remaining())
}

// Scenario 2 — market sweep across levels.
func TestScenario2MarketSweep(t *testing.T) {
	e := newTestEngine(t)

	s1, err := e.PlaceOrder(limit("TEST", common.Sell, p101, qty(3)))
	require.NoError(t, err)
	s2, err := e.PlaceOrder(limit("TEST", common.Sell, p102, qty(4)))
	require.NoError(t, err)
	s3, err := e.PlaceOrder(limit("TEST", common.Sell, p103, qty(5)))
	require.NoError(t, err)

	result, err := e.PlaceOrder(market("TEST", common.Buy, qty(10)))
	require.NoError(t, err)

	require.Len(t, result.Trades, 3)
	assert.Equal(t, s1.Order.ID, result.Trades[0].SellOrderID)
	assert.Equal(t, int64(p101), result.Trades[0].Price)
	assert.Equal(t, qty(3), result.Trades[0].Qty)

	assert.Equal(t, s2.Order.ID, result.Trades[1].SellOrderID)
	assert.Equal(t, int64(p102), result.Trades[1].Price)
	assert.Equal(t, qty(4), result.Trades[1].Qty)

	assert.Equal(t, s3.Order.ID, result.Trades[2].SellOrderID)
	assert.Equal(t, int64(p103), result.Trades[2].Price)
	assert.Equal(t, qty(3), result.Trades[2].Qty)

	assert.Equal(t, qty(2), s3.Order.Remaining())
	assert.True(t, result.Order.IsFilled())
}

// Scenario 3 — FOK rejection.
func TestScenario3FOKRejection(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.PlaceOrder(limit("TEST", common.Sell, p101, qty(3)))
	require.NoError(t, err)
	_, err = e.PlaceOrder(limit("TEST", common.Sell, p102, qty(4)))
	require.NoError(t, err)
	_, err = e.PlaceOrder(limit("TEST", common.Sell, p103, qty(5)))
	require.NoError(t, err)

	fok := limit("TEST", common.Buy, p103, qty(15))
	fok.TIF = common.FOK
	_, err = e.PlaceOrder(fok)
	assert.ErrorIs(t, err, ErrFOKCannotBeFilled)

	ob, ok := e.book("TEST")
	require.True(t, ok)
	_, hasBid := ob.BestBid()
	assert.False(t, hasBid, "no state change: FOK buy never rests")
}

// Scenario 4 — stop trigger.
func TestScenario4StopTrigger(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.PlaceOrder(limit("TEST", common.Sell, p106, qty(50)))
	require.NoError(t, err)

	stop := &common.Order{
		Symbol: "TEST", Side: common.Buy, Kind: common.StopLimit,
		StopPrice: p105, LimitPrice: p110, TotalQty: qty(10), TIF: common.GTC,
	}
	_, err = e.PlaceOrder(stop)
	require.NoError(t, err)

	_, err = e.PlaceOrder(limit("TEST", common.Buy, p105, qty(1)))
	require.NoError(t, err)

	trigger, err := e.PlaceOrder(limit("TEST", common.Sell, p105, qty(1)))
	require.NoError(t, err)
	require.Len(t, trigger.Trades, 1)
	assert.Equal(t, int64(p105), trigger.Trades[0].Price)

	ob, ok := e.book("TEST")
	require.True(t, ok)
	assert.Equal(t, 0, ob.Stop.Len(), "the stop must have been removed from the stop book by the cascade")

	stopOrder, ok := ob.OrdersByID[stop.ID]
	if ok {
		assert.Equal(t, common.Limit, stopOrder.Kind)
	}
}

// Scenario 5 — iceberg refresh.
func TestScenario5IcebergRefresh(t *testing.T) {
	e := newTestEngine(t)

	iceberg := &common.Order{
		Symbol: "TEST", Side: common.Sell, Kind: common.Iceberg,
		LimitPrice: p100, TotalQty: qty(100), DisplayQty: qty(10), TIF: common.GTC,
	}
	placed, err := e.PlaceOrder(iceberg)
	require.NoError(t, err)
	require.Equal(t, common.New, placed.Order.Status)

	result, err := e.PlaceOrder(limit("TEST", common.Buy, p100, qty(25)))
	require.NoError(t, err)

	// trade_qty = min(incoming.remaining, resting.visible) per trade: the
	// iceberg's 10-lot display cap forces three prints (10, 10, 5) rather
	// than one 25-lot print against its hidden 100-lot reserve.
	require.Len(t, result.Trades, 3)
	assert.Equal(t, qty(10), result.Trades[0].Qty)
	assert.Equal(t, qty(10), result.Trades[1].Qty)
	assert.Equal(t, qty(5), result.Trades[2].Qty)
	for _, tr := range result.Trades {
		assert.Equal(t, int64(p100), tr.Price)
	}

	assert.Equal(t, qty(75), iceberg.Remaining())

	ob, ok := e.book("TEST")
	require.True(t, ok)
	lvl, ok := ob.LevelAt(common.Sell, p100)
	require.True(t, ok)
	assert.Equal(t, qty(10), lvl.VisibleVolume)
	assert.Equal(t, qty(75), lvl.TotalVolume)
}
