package codec

import (
	"encoding/binary"
	"math"
)

// ComboLegsMessage (template 1007), PriceIndexMessage (template 1008)
// and RfqMessage (template 1009) round out the original feed's
// catalogue. This exchange has no multi-leg combo instruments, no
// external price-index oracle and no quote-request workflow, so these
// three carry only the minimal identifying fields needed for a
// consumer to recognize and skip them; nothing in SPEC_FULL.md
// produces their payloads today, but the templates are kept so a
// future instrument type can populate them without a schema bump.

const comboLegsBlockLength = 4
const comboLegEntryLength = 5

type ComboLegEntry struct {
	LegInstrumentID uint32
	Ratio           int8
}

type ComboLegsMessage struct {
	InstrumentID uint32
	Legs         []ComboLegEntry
}

func (m ComboLegsMessage) Encode() []byte {
	header := MessageHeader{BlockLength: comboLegsBlockLength, TemplateID: TemplateComboLegs, SchemaID: SchemaID, Version: SchemaVersion}
	body := make([]byte, comboLegsBlockLength)
	binary.LittleEndian.PutUint32(body[0:], m.InstrumentID)

	group := GroupDimension{BlockLength: comboLegEntryLength, NumInGroup: uint16(len(m.Legs))}
	out := append(header.Encode(), body...)
	out = append(out, group.Encode()...)
	for _, leg := range m.Legs {
		entry := make([]byte, comboLegEntryLength)
		binary.LittleEndian.PutUint32(entry[0:], leg.LegInstrumentID)
		entry[4] = byte(leg.Ratio)
		out = append(out, entry...)
	}
	return out
}

func DecodeComboLegsMessage(buf []byte) (*ComboLegsMessage, error) {
	header, err := DecodeHeader(buf)
	if err != nil {
		return nil, err
	}
	if header.TemplateID != TemplateComboLegs {
		return nil, ErrTemplateMismatch
	}
	buf = buf[HeaderLength:]
	if len(buf) < comboLegsBlockLength {
		return nil, ErrShortBuffer
	}
	m := &ComboLegsMessage{InstrumentID: binary.LittleEndian.Uint32(buf[0:])}
	buf = buf[comboLegsBlockLength:]

	group, err := DecodeGroupDimension(buf)
	if err != nil {
		return nil, err
	}
	buf = buf[GroupHeaderLength:]
	for i := 0; i < int(group.NumInGroup); i++ {
		if len(buf) < comboLegEntryLength {
			return nil, ErrShortBuffer
		}
		m.Legs = append(m.Legs, ComboLegEntry{
			LegInstrumentID: binary.LittleEndian.Uint32(buf[0:]),
			Ratio:           int8(buf[4]),
		})
		buf = buf[comboLegEntryLength:]
	}
	return m, nil
}

// priceIndexBlockLength matches the catalogue's declared 32-byte
// block: a fixed 16-byte index name (e.g. "BTC-USD", zero-padded, not
// length-prefixed like the variable-data fields elsewhere in this
// catalogue — the original reserves a fixed slot here) plus an f64
// price and a u64 timestamp.
const priceIndexBlockLength = 32
const priceIndexNameLength = 16

type PriceIndexMessage struct {
	Name        string
	IndexPrice  float64
	TimestampMs uint64
}

func (m PriceIndexMessage) Encode() []byte {
	header := MessageHeader{BlockLength: priceIndexBlockLength, TemplateID: TemplatePriceIndex, SchemaID: SchemaID, Version: SchemaVersion}
	body := make([]byte, priceIndexBlockLength)
	name := m.Name
	if len(name) > priceIndexNameLength {
		name = name[:priceIndexNameLength]
	}
	copy(body[0:priceIndexNameLength], name)
	binary.LittleEndian.PutUint64(body[16:], math.Float64bits(m.IndexPrice))
	binary.LittleEndian.PutUint64(body[24:], m.TimestampMs)
	return append(header.Encode(), body...)
}

func DecodePriceIndexMessage(buf []byte) (*PriceIndexMessage, error) {
	header, err := DecodeHeader(buf)
	if err != nil {
		return nil, err
	}
	if header.TemplateID != TemplatePriceIndex {
		return nil, ErrTemplateMismatch
	}
	buf = buf[HeaderLength:]
	if len(buf) < priceIndexBlockLength {
		return nil, ErrShortBuffer
	}
	nameBytes := buf[0:priceIndexNameLength]
	end := 0
	for end < len(nameBytes) && nameBytes[end] != 0 {
		end++
	}
	return &PriceIndexMessage{
		Name:        string(nameBytes[:end]),
		IndexPrice:  math.Float64frombits(binary.LittleEndian.Uint64(buf[16:])),
		TimestampMs: binary.LittleEndian.Uint64(buf[24:]),
	}, nil
}

// rfqBlockLength matches the catalogue's declared 22-byte block.
const rfqBlockLength = 22

type RfqMessage struct {
	InstrumentID uint32
	Side         BookSide
	Amount       float64
	TimestampMs  uint64
}

func (m RfqMessage) Encode() []byte {
	header := MessageHeader{BlockLength: rfqBlockLength, TemplateID: TemplateRfq, SchemaID: SchemaID, Version: SchemaVersion}
	body := make([]byte, rfqBlockLength)
	binary.LittleEndian.PutUint32(body[0:], m.InstrumentID)
	body[4] = byte(m.Side)
	binary.LittleEndian.PutUint64(body[5:], math.Float64bits(m.Amount))
	binary.LittleEndian.PutUint64(body[13:], m.TimestampMs)
	return append(header.Encode(), body...)
}

func DecodeRfqMessage(buf []byte) (*RfqMessage, error) {
	header, err := DecodeHeader(buf)
	if err != nil {
		return nil, err
	}
	if header.TemplateID != TemplateRfq {
		return nil, ErrTemplateMismatch
	}
	buf = buf[HeaderLength:]
	if len(buf) < rfqBlockLength {
		return nil, ErrShortBuffer
	}
	return &RfqMessage{
		InstrumentID: binary.LittleEndian.Uint32(buf[0:]),
		Side:         BookSide(buf[4]),
		Amount:       math.Float64frombits(binary.LittleEndian.Uint64(buf[5:])),
		TimestampMs:  binary.LittleEndian.Uint64(buf[13:]),
	}, nil
}
