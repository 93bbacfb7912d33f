package codec

import (
	"encoding/binary"
	"math"
)

const tradesBlockLength = 4
const tradeEntryLength = 33

// Direction mirrors the original feed's aggressor-side enum.
type Direction uint8

const (
	DirectionBuy  Direction = 0
	DirectionSell Direction = 1
)

// TradeEntry is one executed trade, 33 bytes on the wire: direction,
// price, amount, timestamp and TradeSeq. The original feed's 83-byte
// entry carries further fields, among them mark_price, index_price and
// a tick-direction flag derived from the instrument's mark/index
// oracle; none of those further fields are encoded here. TradeSeq is kept
// as the per-instrument monotonic trade counter consumers rely on for
// gap detection.
type TradeEntry struct {
	Direction   Direction
	Price       float64
	Amount      float64
	TimestampMs uint64
	TradeSeq    uint64
}

// TradesMessage is template 1002: every trade produced by a single
// matching-engine event for one instrument.
type TradesMessage struct {
	InstrumentID uint32
	Trades       []TradeEntry
}

func (m TradesMessage) Encode() []byte {
	header := MessageHeader{
		BlockLength: tradesBlockLength,
		TemplateID:  TemplateTrades,
		SchemaID:    SchemaID,
		Version:     SchemaVersion,
	}
	body := make([]byte, tradesBlockLength)
	binary.LittleEndian.PutUint32(body[0:], m.InstrumentID)

	group := GroupDimension{BlockLength: tradeEntryLength, NumInGroup: uint16(len(m.Trades))}
	out := append(header.Encode(), body...)
	out = append(out, group.Encode()...)
	for _, tr := range m.Trades {
		entry := make([]byte, tradeEntryLength)
		entry[0] = byte(tr.Direction)
		binary.LittleEndian.PutUint64(entry[1:], math.Float64bits(tr.Price))
		binary.LittleEndian.PutUint64(entry[9:], math.Float64bits(tr.Amount))
		binary.LittleEndian.PutUint64(entry[17:], tr.TimestampMs)
		binary.LittleEndian.PutUint64(entry[25:], tr.TradeSeq)
		out = append(out, entry...)
	}
	return out
}

func DecodeTradesMessage(buf []byte) (*TradesMessage, error) {
	header, err := DecodeHeader(buf)
	if err != nil {
		return nil, err
	}
	if header.TemplateID != TemplateTrades {
		return nil, ErrTemplateMismatch
	}
	buf = buf[HeaderLength:]
	if len(buf) < tradesBlockLength {
		return nil, ErrShortBuffer
	}
	m := &TradesMessage{InstrumentID: binary.LittleEndian.Uint32(buf[0:])}
	buf = buf[tradesBlockLength:]

	group, err := DecodeGroupDimension(buf)
	if err != nil {
		return nil, err
	}
	buf = buf[GroupHeaderLength:]
	for i := 0; i < int(group.NumInGroup); i++ {
		if len(buf) < tradeEntryLength {
			return nil, ErrShortBuffer
		}
		m.Trades = append(m.Trades, TradeEntry{
			Direction:   Direction(buf[0]),
			Price:       math.Float64frombits(binary.LittleEndian.Uint64(buf[1:])),
			Amount:      math.Float64frombits(binary.LittleEndian.Uint64(buf[9:])),
			TimestampMs: binary.LittleEndian.Uint64(buf[17:]),
			TradeSeq:    binary.LittleEndian.Uint64(buf[25:]),
		})
		buf = buf[tradeEntryLength:]
	}
	return m, nil
}
