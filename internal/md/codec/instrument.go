package codec

import (
	"encoding/binary"
	"math"
)

// instrumentBlockLength matches the catalogue's declared 140-byte
// block. Only the first 6 bytes (instrument_id, state, kind) are
// meaningful here: the remainder of the original block is currency
// codes, commission rates and contract-size fields that only apply to
// derivatives instruments this exchange does not list. Those bytes
// are left reserved (zero) rather than populated with invented data.
const instrumentBlockLength = 140

// InstrumentKind mirrors spec.md's enumeration: 0=future, 1=option,
// 2=future_combo, 3=option_combo, 4=spot. Only Spot is ever produced
// by this exchange; the others are named so the decoder recognizes a
// foreign producer's stream.
type InstrumentKind uint8

const (
	InstrumentKindFuture       InstrumentKind = 0
	InstrumentKindOption       InstrumentKind = 1
	InstrumentKindFutureCombo  InstrumentKind = 2
	InstrumentKindOptionCombo  InstrumentKind = 3
	InstrumentKindSpot         InstrumentKind = 4
)

// InstrumentMessage is template 1000, announcing a tradable symbol.
// Numeric fields (state, kind) are fixed-block; Symbol is the sole
// variable-data field, appended after the fixed block per SBE
// convention.
type InstrumentMessage struct {
	InstrumentID uint32
	State        InstrumentState
	Kind         InstrumentKind
	Symbol       string
}

func (m InstrumentMessage) Encode() []byte {
	header := MessageHeader{
		BlockLength:      instrumentBlockLength,
		TemplateID:       TemplateInstrument,
		SchemaID:         SchemaID,
		Version:          SchemaVersion,
		NumVarDataFields: 1,
	}
	body := make([]byte, instrumentBlockLength)
	binary.LittleEndian.PutUint32(body[0:], m.InstrumentID)
	body[4] = byte(m.State)
	body[5] = byte(m.Kind)
	out := append(header.Encode(), body...)
	return putVarString(out, m.Symbol)
}

func DecodeInstrumentMessage(buf []byte) (*InstrumentMessage, error) {
	header, err := DecodeHeader(buf)
	if err != nil {
		return nil, err
	}
	if header.TemplateID != TemplateInstrument {
		return nil, ErrTemplateMismatch
	}
	buf = buf[HeaderLength:]
	if len(buf) < instrumentBlockLength {
		return nil, ErrShortBuffer
	}
	m := &InstrumentMessage{
		InstrumentID: binary.LittleEndian.Uint32(buf[0:]),
		State:        InstrumentState(buf[4]),
		Kind:         InstrumentKind(buf[5]),
	}
	buf = buf[instrumentBlockLength:]
	m.Symbol, _, err = readVarString(buf)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// InstrumentV2Message is template 1010: the original feed's
// InstrumentV2 adds a tick-size and a minimum-order-amount on top of
// the V1 fields; this exchange's order book enforces neither value, the
// fields are only carried on the wire. It is kept as a distinct
// template (not merged into InstrumentMessage) purely so a consumer
// can distinguish "this feed speaks the V2 schema" from a V1 feed,
// matching the original's versioning intent.
type InstrumentV2Message struct {
	InstrumentID    uint32
	State           InstrumentState
	Kind            InstrumentKind
	TickSize        float64
	MinOrderAmount  float64
	Symbol          string
}

// instrumentV2BlockLength matches the catalogue's declared 139-byte
// block (one byte shorter than V1: the original drops its rfq-enabled
// flag in V2). As with InstrumentMessage, only the leading identifying
// fields plus tick_size/min_order_amount are populated.
const instrumentV2BlockLength = 139

func (m InstrumentV2Message) Encode() []byte {
	header := MessageHeader{
		BlockLength:      instrumentV2BlockLength,
		TemplateID:       TemplateInstrumentV2,
		SchemaID:         SchemaID,
		Version:          SchemaVersion,
		NumVarDataFields: 1,
	}
	body := make([]byte, instrumentV2BlockLength)
	binary.LittleEndian.PutUint32(body[0:], m.InstrumentID)
	body[4] = byte(m.State)
	body[5] = byte(m.Kind)
	binary.LittleEndian.PutUint64(body[6:], math.Float64bits(m.TickSize))
	binary.LittleEndian.PutUint64(body[14:], math.Float64bits(m.MinOrderAmount))
	out := append(header.Encode(), body...)
	return putVarString(out, m.Symbol)
}

func DecodeInstrumentV2Message(buf []byte) (*InstrumentV2Message, error) {
	header, err := DecodeHeader(buf)
	if err != nil {
		return nil, err
	}
	if header.TemplateID != TemplateInstrumentV2 {
		return nil, ErrTemplateMismatch
	}
	buf = buf[HeaderLength:]
	if len(buf) < instrumentV2BlockLength {
		return nil, ErrShortBuffer
	}
	m := &InstrumentV2Message{
		InstrumentID:   binary.LittleEndian.Uint32(buf[0:]),
		State:          InstrumentState(buf[4]),
		Kind:           InstrumentKind(buf[5]),
		TickSize:       math.Float64frombits(binary.LittleEndian.Uint64(buf[6:])),
		MinOrderAmount: math.Float64frombits(binary.LittleEndian.Uint64(buf[14:])),
	}
	buf = buf[instrumentV2BlockLength:]
	m.Symbol, _, err = readVarString(buf)
	if err != nil {
		return nil, err
	}
	return m, nil
}
