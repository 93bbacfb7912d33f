package book

import (
	"testing"

	"ironbook/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderBookBestBidAsk(t *testing.T) {
	ob := New("TEST")
	ob.InsertResting(limitOrder(1, common.Buy, 10_000_000, 1_000))
	ob.InsertResting(limitOrder(2, common.Buy, 11_000_000, 1_000))
	ob.InsertResting(limitOrder(3, common.Sell, 12_000_000, 1_000))
	ob.InsertResting(limitOrder(4, common.Sell, 13_000_000, 1_000))

	bid, ok := ob.BestBid()
	require.True(t, ok)
	assert.Equal(t, int64(11_000_000), bid)

	ask, ok := ob.BestAsk()
	require.True(t, ok)
	assert.Equal(t, int64(12_000_000), ask)
}

func TestOrderBookCancelRemovesFromLevelAndIndex(t *testing.T) {
	ob := New("TEST")
	o := limitOrder(1, common.Buy, 10_000_000, 1_000)
	ob.InsertResting(o)

	canceled, err := ob.Cancel(1)
	require.NoError(t, err)
	assert.Equal(t, common.Canceled, canceled.Status)
	_, ok := ob.BestBid()
	assert.False(t, ok, "level should be deleted once its only order is canceled")

	_, err = ob.Cancel(1)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderBookCancelStopOrder(t *testing.T) {
	ob := New("TEST")
	o := stopOrder(1, common.Buy, common.StopMarket, 10_000_000, 1_000)
	require.NoError(t, ob.InsertStop(o))
	assert.Equal(t, 1, ob.Stop.Len())

	_, err := ob.Cancel(1)
	require.NoError(t, err)
	assert.Equal(t, 0, ob.Stop.Len())
}

func TestAdvanceLastTradePriceRewritesStopMarket(t *testing.T) {
	ob := New("TEST")
	ob.InsertResting(limitOrder(1, common.Sell, 10_500_000, 5_000))
	stop := stopOrder(2, common.Buy, common.StopMarket, 10_000_000, 1_000)
	require.NoError(t, ob.InsertStop(stop))

	rewritten := ob.AdvanceLastTradePrice(10_000_000)
	require.Len(t, rewritten, 1)
	assert.Equal(t, common.Market, rewritten[0].Kind)
	assert.Equal(t, int64(10_500_000), rewritten[0].LimitPrice, "rewrite prices at the opposite best")
	assert.Equal(t, 0, ob.Stop.Len())
}

func TestAdvanceLastTradePriceRewritesStopMarketNoOpposite(t *testing.T) {
	ob := New("TEST")
	stop := stopOrder(1, common.Sell, common.StopMarket, 10_000_000, 1_000)
	require.NoError(t, ob.InsertStop(stop))

	rewritten := ob.AdvanceLastTradePrice(10_000_000)
	require.Len(t, rewritten, 1)
	assert.Equal(t, common.Market, rewritten[0].Kind)
	assert.Equal(t, int64(10_000_000), rewritten[0].LimitPrice, "falls back to the trade price when the opposite side is empty")
}

func TestAdvanceLastTradePriceRewritesStopLimit(t *testing.T) {
	ob := New("TEST")
	stop := stopOrder(1, common.Sell, common.StopLimit, 10_000_000, 1_000)
	stop.LimitPrice = 9_800_000
	require.NoError(t, ob.InsertStop(stop))

	rewritten := ob.AdvanceLastTradePrice(9_900_000)
	require.Len(t, rewritten, 1)
	assert.Equal(t, common.Limit, rewritten[0].Kind)
	assert.Equal(t, int64(9_800_000), rewritten[0].LimitPrice)
}

func TestOrderBookExpireGTD(t *testing.T) {
	ob := New("TEST")
	o := limitOrder(1, common.Buy, 10_000_000, 1_000)
	o.TIF = common.GTD
	o.ExpiresAt = 100
	ob.InsertResting(o)

	expired := ob.Expire(50)
	assert.Empty(t, expired)

	expired = ob.Expire(100)
	require.Len(t, expired, 1)
	assert.Equal(t, common.Expired, expired[0].Status)
	_, ok := ob.BestBid()
	assert.False(t, ok)
}

func TestOrderBookMarketDepth(t *testing.T) {
	ob := New("TEST")
	ob.InsertResting(limitOrder(1, common.Buy, 10_000_000, 1_000))
	ob.InsertResting(limitOrder(2, common.Buy, 9_000_000, 2_000))
	ob.InsertResting(limitOrder(3, common.Buy, 11_000_000, 3_000))

	bids, _ := ob.MarketDepth(2)
	require.Len(t, bids, 2)
	assert.Equal(t, int64(11_000_000), bids[0].Price)
	assert.Equal(t, int64(10_000_000), bids[1].Price)
}

func TestOrderBookSnapshotRestoreRoundTrip(t *testing.T) {
	ob := New("TEST")
	ob.InsertResting(limitOrder(1, common.Buy, 10_000_000, 1_000))
	ob.InsertResting(limitOrder(2, common.Buy, 10_000_000, 500))
	ob.InsertResting(limitOrder(3, common.Sell, 11_000_000, 2_000))
	require.NoError(t, ob.InsertStop(stopOrder(4, common.Buy, common.StopMarket, 9_000_000, 100)))
	ob.AdvanceLastTradePrice(10_500_000)

	snap := ob.TakeSnapshot()
	restored := Restore(snap)

	bid, ok := restored.BestBid()
	require.True(t, ok)
	assert.Equal(t, int64(10_000_000), bid)

	lvl, ok := restored.LevelAt(common.Buy, 10_000_000)
	require.True(t, ok)
	require.Len(t, lvl.Orders, 2)
	assert.Equal(t, uint64(1), lvl.Orders[0].ID, "priority order must survive the round trip")
	assert.Equal(t, uint64(2), lvl.Orders[1].ID)

	lastPrice, ok := restored.LastTradePrice()
	require.True(t, ok)
	assert.Equal(t, int64(10_500_000), lastPrice)
}
