package bridge

import (
	"fmt"
	"sync"

	"ironbook/internal/md/codec"
)

// UnknownInstrument is returned whenever a message names an
// instrument_id the bridge has never seen an Instrument/InstrumentV2
// message for.
type UnknownInstrument struct {
	ID uint32
}

func (e *UnknownInstrument) Error() string {
	return fmt.Sprintf("md/bridge: unknown instrument %d", e.ID)
}

// Descriptor is the bridge's record of one instrument: its symbol,
// tick size, and whether it is currently tradable. Spec.md section 4.9.
type Descriptor struct {
	InstrumentID uint32
	Symbol       string
	TickSize     float64
	Active       bool
}

// PriceLevel is a folded best-bid or best-ask: price and the resting
// amount at that price.
type PriceLevel struct {
	Price  float64
	Amount float64
}

// UpdateRecord is the normalized shape every inbound MD message folds
// into: spec.md's `{instrument_id, symbol, timestamp, best_bid?,
// best_ask?, last?, mark?, index?}`.
type UpdateRecord struct {
	InstrumentID uint32
	Symbol       string
	TimestampMs  uint64
	BestBid      *PriceLevel
	BestAsk      *PriceLevel
	Last         *PriceLevel
	Mark         *float64
	Index        *float64
}

// bookState is the bridge's own minimal order-book mirror: just
// enough (price -> amount per side) to answer "what's the best level
// now" after folding in a BookMessage's changes.
type bookState struct {
	bids map[float64]float64
	asks map[float64]float64
}

// Bridge maintains the instrument descriptor table and per-instrument
// best-bid/ask state needed to fold Book/Snapshot deltas into
// UpdateRecords. Grounded on spec.md section 4.9's "maintain an index
// of descriptors, fold updates into a normalized record" description;
// there is no teacher equivalent since the teacher has no MD path.
type Bridge struct {
	mu          sync.Mutex
	descriptors map[uint32]*Descriptor
	books       map[uint32]*bookState
}

func New() *Bridge {
	return &Bridge{
		descriptors: make(map[uint32]*Descriptor),
		books:       make(map[uint32]*bookState),
	}
}

func (b *Bridge) descriptor(id uint32) (*Descriptor, error) {
	d, ok := b.descriptors[id]
	if !ok {
		return nil, &UnknownInstrument{ID: id}
	}
	return d, nil
}

func (b *Bridge) bookFor(id uint32) *bookState {
	bs, ok := b.books[id]
	if !ok {
		bs = &bookState{bids: make(map[float64]float64), asks: make(map[float64]float64)}
		b.books[id] = bs
	}
	return bs
}

// ApplyInstrument upserts a descriptor from an Instrument message.
func (b *Bridge) ApplyInstrument(msg *codec.InstrumentMessage) *Descriptor {
	b.mu.Lock()
	defer b.mu.Unlock()
	d := &Descriptor{
		InstrumentID: msg.InstrumentID,
		Symbol:       msg.Symbol,
		Active:       msg.State != codec.InstrumentClosed,
	}
	b.descriptors[msg.InstrumentID] = d
	return d
}

// ApplyInstrumentV2 upserts a descriptor from an InstrumentV2 message,
// additionally recording the tick size V1 doesn't carry.
func (b *Bridge) ApplyInstrumentV2(msg *codec.InstrumentV2Message) *Descriptor {
	b.mu.Lock()
	defer b.mu.Unlock()
	d := &Descriptor{
		InstrumentID: msg.InstrumentID,
		Symbol:       msg.Symbol,
		TickSize:     msg.TickSize,
		Active:       msg.State != codec.InstrumentClosed,
	}
	b.descriptors[msg.InstrumentID] = d
	return d
}

// ApplyBook walks a BookMessage's changes against the bridge's
// per-instrument book mirror (treating BookChangeDelete as removing
// the level) and returns the resulting best bid/ask.
func (b *Bridge) ApplyBook(msg *codec.BookMessage) (*UpdateRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	d, err := b.descriptor(msg.InstrumentID)
	if err != nil {
		return nil, err
	}

	bs := b.bookFor(msg.InstrumentID)
	for _, c := range msg.Changes {
		side := bs.bids
		if c.Side == codec.BookSideAsk {
			side = bs.asks
		}
		if c.Change == codec.ChangeDelete {
			delete(side, c.Price)
		} else {
			side[c.Price] = c.Amount
		}
	}

	rec := &UpdateRecord{InstrumentID: d.InstrumentID, Symbol: d.Symbol, TimestampMs: msg.TimestampMs}
	rec.BestBid = bestOf(bs.bids, true)
	rec.BestAsk = bestOf(bs.asks, false)
	return rec, nil
}

// ApplySnapshot rebuilds best-bid/ask from a full Snapshot burst by
// folding every level it carries, replacing (rather than merging into)
// the bridge's prior mirror of that instrument's book, both sides.
func (b *Bridge) ApplySnapshot(msg *codec.SnapshotMessage) (*UpdateRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	d, err := b.descriptor(msg.InstrumentID)
	if err != nil {
		return nil, err
	}

	bs := &bookState{bids: make(map[float64]float64), asks: make(map[float64]float64)}
	for _, lvl := range msg.Levels {
		if lvl.Side == codec.BookSideBid {
			bs.bids[lvl.Price] = lvl.Amount
		} else {
			bs.asks[lvl.Price] = lvl.Amount
		}
	}
	b.books[msg.InstrumentID] = bs

	rec := &UpdateRecord{InstrumentID: d.InstrumentID, Symbol: d.Symbol, TimestampMs: uint64(msg.TimestampMs)}
	rec.BestBid = bestOf(bs.bids, true)
	rec.BestAsk = bestOf(bs.asks, false)
	return rec, nil
}

// ApplyTrades surfaces the last trade price/amount from the newest
// entry in a Trades burst.
func (b *Bridge) ApplyTrades(msg *codec.TradesMessage) (*UpdateRecord, error) {
	b.mu.Lock()
	d, err := b.descriptor(msg.InstrumentID)
	b.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if len(msg.Trades) == 0 {
		return &UpdateRecord{InstrumentID: d.InstrumentID, Symbol: d.Symbol}, nil
	}
	newest := msg.Trades[0]
	for _, tr := range msg.Trades[1:] {
		if tr.TimestampMs > newest.TimestampMs {
			newest = tr
		}
	}
	return &UpdateRecord{
		InstrumentID: d.InstrumentID,
		Symbol:       d.Symbol,
		TimestampMs:  newest.TimestampMs,
		Last:         &PriceLevel{Price: newest.Price, Amount: newest.Amount},
	}, nil
}

// ApplyTicker surfaces a Ticker message's bbo/last fields unchanged.
func (b *Bridge) ApplyTicker(msg *codec.TickerMessage) (*UpdateRecord, error) {
	b.mu.Lock()
	d, err := b.descriptor(msg.InstrumentID)
	b.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return &UpdateRecord{
		InstrumentID: d.InstrumentID,
		Symbol:       d.Symbol,
		TimestampMs:  msg.TimestampMs,
		BestBid:      &PriceLevel{Price: msg.BestBidPrice, Amount: msg.BestBidAmount},
		BestAsk:      &PriceLevel{Price: msg.BestAskPrice, Amount: msg.BestAskAmount},
		Last:         &PriceLevel{Price: msg.LastPrice},
	}, nil
}

func bestOf(levels map[float64]float64, wantHighest bool) *PriceLevel {
	var best *PriceLevel
	for price, amount := range levels {
		if best == nil || (wantHighest && price > best.Price) || (!wantHighest && price < best.Price) {
			p, a := price, amount
			best = &PriceLevel{Price: p, Amount: a}
		}
	}
	return best
}
