package book

import (
	"testing"

	"ironbook/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stopOrder(id uint64, side common.Side, kind common.Kind, stopPrice, qty int64) *common.Order {
	return &common.Order{
		ID: id, Symbol: "TEST", Side: side, Kind: kind,
		StopPrice: stopPrice, TotalQty: qty, Status: common.New, TIF: common.GTC,
	}
}

func TestStopBookRejectsNonStopOrder(t *testing.T) {
	sb := NewStopBook()
	err := sb.Add(limitOrder(1, common.Buy, 10_000_000, 1_000))
	assert.ErrorIs(t, err, ErrNotStopOrder)
}

func TestStopBookTriggeredByBuySide(t *testing.T) {
	sb := NewStopBook()
	below := stopOrder(1, common.Buy, common.StopMarket, 10_000_000, 1_000)
	above := stopOrder(2, common.Buy, common.StopMarket, 12_000_000, 1_000)
	require.NoError(t, sb.Add(below))
	require.NoError(t, sb.Add(above))

	triggered := sb.TriggeredBy(10_000_000)
	require.Len(t, triggered, 1)
	assert.Equal(t, uint64(1), triggered[0].ID)

	triggered = sb.TriggeredBy(12_000_000)
	assert.Len(t, triggered, 2)
}

func TestStopBookTriggeredBySellSide(t *testing.T) {
	sb := NewStopBook()
	high := stopOrder(1, common.Sell, common.StopLimit, 10_000_000, 1_000)
	low := stopOrder(2, common.Sell, common.StopLimit, 8_000_000, 1_000)
	require.NoError(t, sb.Add(high))
	require.NoError(t, sb.Add(low))

	triggered := sb.TriggeredBy(8_000_000)
	require.Len(t, triggered, 2)

	triggered = sb.TriggeredBy(9_000_000)
	require.Len(t, triggered, 1)
	assert.Equal(t, uint64(1), triggered[0].ID)
}

func TestStopBookRemove(t *testing.T) {
	sb := NewStopBook()
	o := stopOrder(1, common.Buy, common.StopMarket, 10_000_000, 1_000)
	require.NoError(t, sb.Add(o))
	assert.Equal(t, 1, sb.Len())

	removed, ok := sb.Remove(1)
	require.True(t, ok)
	assert.Equal(t, o, removed)
	assert.Equal(t, 0, sb.Len())
	assert.Empty(t, sb.BuyStops)

	_, ok = sb.Remove(1)
	assert.False(t, ok)
}
