package book

import (
	"testing"

	"ironbook/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limitOrder(id uint64, side common.Side, price, qty int64) *common.Order {
	return &common.Order{
		ID: id, Symbol: "TEST", Side: side, Kind: common.Limit,
		LimitPrice: price, TotalQty: qty, Status: common.New, TIF: common.GTC,
	}
}

func icebergOrder(id uint64, side common.Side, price, qty, display int64) *common.Order {
	o := limitOrder(id, side, price, qty)
	o.Kind = common.Iceberg
	o.DisplayQty = display
	return o
}

func TestPriceLevelAddRemove(t *testing.T) {
	lvl := NewPriceLevel(10_000_000)
	o1 := limitOrder(1, common.Buy, 10_000_000, 5_000)
	o2 := limitOrder(2, common.Buy, 10_000_000, 3_000)
	lvl.Add(o1)
	lvl.Add(o2)

	assert.Equal(t, int64(8_000), lvl.TotalVolume)
	assert.Equal(t, int64(8_000), lvl.VisibleVolume)
	assert.Equal(t, []*common.Order{o1, o2}, lvl.Orders)

	removed, ok := lvl.Remove(1)
	require.True(t, ok)
	assert.Equal(t, o1, removed)
	assert.Equal(t, int64(3_000), lvl.TotalVolume)
	assert.Equal(t, []*common.Order{o2}, lvl.Orders)

	_, ok = lvl.Remove(99)
	assert.False(t, ok)
}

func TestPriceLevelIcebergVisibility(t *testing.T) {
	lvl := NewPriceLevel(10_000_000)
	o := icebergOrder(1, common.Sell, 10_000_000, 10_000, 2_000)
	lvl.Add(o)

	assert.Equal(t, int64(10_000), lvl.TotalVolume)
	assert.Equal(t, int64(2_000), lvl.VisibleVolume)
}

func TestPriceLevelApplyTradeIceberg(t *testing.T) {
	lvl := NewPriceLevel(10_000_000)
	o := icebergOrder(1, common.Sell, 10_000_000, 10_000, 2_000)
	lvl.Add(o)

	lvl.ApplyTrade(1, 2_000)
	assert.Equal(t, int64(8_000), lvl.TotalVolume)
	assert.Equal(t, int64(2_000), lvl.VisibleVolume, "hidden reserve refills the display slice")
	assert.Equal(t, int64(2_000), o.FilledQty)

	lvl.ApplyTrade(1, 8_000)
	assert.Equal(t, int64(0), lvl.TotalVolume)
	assert.Equal(t, int64(0), lvl.VisibleVolume)
}

func TestPriceLevelApplyTradePlainOrder(t *testing.T) {
	lvl := NewPriceLevel(10_000_000)
	o := limitOrder(1, common.Buy, 10_000_000, 5_000)
	lvl.Add(o)

	lvl.ApplyTrade(1, 1_500)
	assert.Equal(t, int64(3_500), lvl.TotalVolume)
	assert.Equal(t, int64(3_500), lvl.VisibleVolume)
}

func TestPriceLevelRecomputeVisible(t *testing.T) {
	lvl := NewPriceLevel(10_000_000)
	lvl.Add(limitOrder(1, common.Buy, 10_000_000, 5_000))
	lvl.Add(icebergOrder(2, common.Buy, 10_000_000, 9_000, 1_000))
	lvl.RecomputeVisible()

	assert.Equal(t, int64(14_000), lvl.TotalVolume)
	assert.Equal(t, int64(6_000), lvl.VisibleVolume)
}
