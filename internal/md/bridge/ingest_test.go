package bridge

import (
	"context"
	"io"
	"testing"

	"ironbook/internal/md/codec"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tomb "gopkg.in/tomb.v2"
)

type fakeSource struct {
	packets [][]byte
	i       int
}

func (f *fakeSource) ReadPacket(ctx context.Context) ([]byte, error) {
	if f.i >= len(f.packets) {
		return nil, io.EOF
	}
	p := f.packets[f.i]
	f.i++
	return p, nil
}

func TestIngestFoldsInstrumentThenBook(t *testing.T) {
	b := New()
	instrument := (&codec.InstrumentMessage{InstrumentID: 1, Symbol: "BTC-USD", State: codec.InstrumentActive}).Encode()
	book := (&codec.BookMessage{
		InstrumentID: 1,
		Changes: []codec.BookChangeEntry{
			{Side: codec.BookSideBid, Change: codec.ChangeNew, Price: 100, Amount: 1},
		},
	}).Encode()

	src := &fakeSource{packets: [][]byte{instrument, book}}
	out := make(chan *UpdateRecord, 2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tm, ctx := tomb.WithContext(ctx)
	tm.Go(func() error { return Ingest(ctx, tm, src, b, out) })

	rec := <-out
	require.NotNil(t, rec)
	assert.Equal(t, "BTC-USD", rec.Symbol)
	assert.Equal(t, 100.0, rec.BestBid.Price)

	cancel()
}
