package codec

import (
	"encoding/binary"
	"math"
)

const snapshotStartBlockLength = 4
const snapshotEndBlockLength = 0

// SnapshotStartMessage (template 1005) and SnapshotEndMessage
// (template 1006) bracket a burst of SnapshotMessage entries sent to a
// newly connecting consumer so it can build a starting book before
// applying live BookMessage deltas, the same bracketing convention the
// original feed uses for its REST-free snapshot-over-multicast
// recovery path. SnapshotEnd carries no fixed body at all (block
// length 0): the instrument id is implicit from the SnapshotStart that
// opened the burst.
type SnapshotStartMessage struct {
	InstrumentID uint32
}

func (m SnapshotStartMessage) Encode() []byte {
	header := MessageHeader{BlockLength: snapshotStartBlockLength, TemplateID: TemplateSnapshotStart, SchemaID: SchemaID, Version: SchemaVersion}
	body := make([]byte, snapshotStartBlockLength)
	binary.LittleEndian.PutUint32(body[0:], m.InstrumentID)
	return append(header.Encode(), body...)
}

func DecodeSnapshotStartMessage(buf []byte) (*SnapshotStartMessage, error) {
	header, err := DecodeHeader(buf)
	if err != nil {
		return nil, err
	}
	if header.TemplateID != TemplateSnapshotStart {
		return nil, ErrTemplateMismatch
	}
	buf = buf[HeaderLength:]
	if len(buf) < snapshotStartBlockLength {
		return nil, ErrShortBuffer
	}
	return &SnapshotStartMessage{InstrumentID: binary.LittleEndian.Uint32(buf[0:])}, nil
}

type SnapshotEndMessage struct{}

func (m SnapshotEndMessage) Encode() []byte {
	header := MessageHeader{BlockLength: snapshotEndBlockLength, TemplateID: TemplateSnapshotEnd, SchemaID: SchemaID, Version: SchemaVersion}
	return header.Encode()
}

func DecodeSnapshotEndMessage(buf []byte) (*SnapshotEndMessage, error) {
	header, err := DecodeHeader(buf)
	if err != nil {
		return nil, err
	}
	if header.TemplateID != TemplateSnapshotEnd {
		return nil, ErrTemplateMismatch
	}
	return &SnapshotEndMessage{}, nil
}

// snapshotBlockLength matches the catalogue's declared 20-byte fixed
// block: instrument_id plus a change_id/timestamp pair a consumer can
// use to splice this snapshot with the live BookMessage stream.
const snapshotBlockLength = 20
const snapshotLevelLength = 17

// SnapshotMessage (template 1004) carries resting levels as of
// ChangeID; each level names its own Side, so bid and ask levels can
// travel in one message. It reuses BookSide/price/amount
// the same way BookMessage does so a consumer can fold snapshot levels
// and live deltas through one code path.
type SnapshotMessage struct {
	InstrumentID uint32
	ChangeID     uint64
	TimestampMs  uint32
	Levels       []SnapshotLevel
}

type SnapshotLevel struct {
	Side   BookSide
	Price  float64
	Amount float64
}

func (m SnapshotMessage) Encode() []byte {
	header := MessageHeader{BlockLength: snapshotBlockLength, TemplateID: TemplateSnapshot, SchemaID: SchemaID, Version: SchemaVersion}
	body := make([]byte, snapshotBlockLength)
	binary.LittleEndian.PutUint32(body[0:], m.InstrumentID)
	binary.LittleEndian.PutUint64(body[4:], m.ChangeID)
	binary.LittleEndian.PutUint32(body[12:], m.TimestampMs)

	group := GroupDimension{BlockLength: snapshotLevelLength, NumInGroup: uint16(len(m.Levels))}
	out := append(header.Encode(), body...)
	out = append(out, group.Encode()...)
	for _, lvl := range m.Levels {
		entry := make([]byte, snapshotLevelLength)
		entry[0] = byte(lvl.Side)
		binary.LittleEndian.PutUint64(entry[1:], math.Float64bits(lvl.Price))
		binary.LittleEndian.PutUint64(entry[9:], math.Float64bits(lvl.Amount))
		out = append(out, entry...)
	}
	return out
}

func DecodeSnapshotMessage(buf []byte) (*SnapshotMessage, error) {
	header, err := DecodeHeader(buf)
	if err != nil {
		return nil, err
	}
	if header.TemplateID != TemplateSnapshot {
		return nil, ErrTemplateMismatch
	}
	buf = buf[HeaderLength:]
	if len(buf) < snapshotBlockLength {
		return nil, ErrShortBuffer
	}
	m := &SnapshotMessage{
		InstrumentID: binary.LittleEndian.Uint32(buf[0:]),
		ChangeID:     binary.LittleEndian.Uint64(buf[4:]),
		TimestampMs:  binary.LittleEndian.Uint32(buf[12:]),
	}
	buf = buf[snapshotBlockLength:]

	group, err := DecodeGroupDimension(buf)
	if err != nil {
		return nil, err
	}
	buf = buf[GroupHeaderLength:]
	for i := 0; i < int(group.NumInGroup); i++ {
		if len(buf) < snapshotLevelLength {
			return nil, ErrShortBuffer
		}
		m.Levels = append(m.Levels, SnapshotLevel{
			Side:   BookSide(buf[0]),
			Price:  math.Float64frombits(binary.LittleEndian.Uint64(buf[1:])),
			Amount: math.Float64frombits(binary.LittleEndian.Uint64(buf[9:])),
		})
		buf = buf[snapshotLevelLength:]
	}
	return m, nil
}
