package bridge

import (
	"testing"

	"ironbook/internal/md/codec"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyBookUnknownInstrument(t *testing.T) {
	b := New()
	_, err := b.ApplyBook(&codec.BookMessage{InstrumentID: 1})
	var unknown *UnknownInstrument
	assert.ErrorAs(t, err, &unknown)
}

func TestApplyBookDerivesBestLevels(t *testing.T) {
	b := New()
	b.ApplyInstrument(&codec.InstrumentMessage{InstrumentID: 1, Symbol: "BTC-USD", State: codec.InstrumentActive})

	rec, err := b.ApplyBook(&codec.BookMessage{
		InstrumentID: 1,
		TimestampMs:  100,
		Changes: []codec.BookChangeEntry{
			{Side: codec.BookSideBid, Change: codec.ChangeNew, Price: 100, Amount: 5},
			{Side: codec.BookSideBid, Change: codec.ChangeNew, Price: 99, Amount: 4},
			{Side: codec.BookSideAsk, Change: codec.ChangeNew, Price: 101, Amount: 3},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, rec.BestBid)
	require.NotNil(t, rec.BestAsk)
	assert.Equal(t, 100.0, rec.BestBid.Price)
	assert.Equal(t, 101.0, rec.BestAsk.Price)

	rec, err = b.ApplyBook(&codec.BookMessage{
		InstrumentID: 1,
		Changes: []codec.BookChangeEntry{
			{Side: codec.BookSideBid, Change: codec.ChangeDelete, Price: 100},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, rec.BestBid)
	assert.Equal(t, 99.0, rec.BestBid.Price, "deleting the top bid exposes the next level")
}

func TestApplyTradesSurfacesNewest(t *testing.T) {
	b := New()
	b.ApplyInstrument(&codec.InstrumentMessage{InstrumentID: 2, Symbol: "ETH-USD"})

	rec, err := b.ApplyTrades(&codec.TradesMessage{
		InstrumentID: 2,
		Trades: []codec.TradeEntry{
			{Price: 10, Amount: 1, TimestampMs: 5},
			{Price: 11, Amount: 2, TimestampMs: 10},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, rec.Last)
	assert.Equal(t, 11.0, rec.Last.Price)
}

func TestApplySnapshotRebuildsBestLevels(t *testing.T) {
	b := New()
	b.ApplyInstrument(&codec.InstrumentMessage{InstrumentID: 3, Symbol: "SOL-USD"})

	rec, err := b.ApplySnapshot(&codec.SnapshotMessage{
		InstrumentID: 3,
		Levels: []codec.SnapshotLevel{
			{Side: codec.BookSideBid, Price: 50, Amount: 1},
			{Side: codec.BookSideBid, Price: 51, Amount: 2},
			{Side: codec.BookSideAsk, Price: 52, Amount: 3},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 51.0, rec.BestBid.Price)
	assert.Equal(t, 52.0, rec.BestAsk.Price)
}

func TestApplyInstrumentClosedMarksInactive(t *testing.T) {
	b := New()
	d := b.ApplyInstrument(&codec.InstrumentMessage{InstrumentID: 4, Symbol: "X", State: codec.InstrumentClosed})
	assert.False(t, d.Active)
}
