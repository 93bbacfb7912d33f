package codec

import (
	"encoding/binary"
	"math"
)

const bookBlockLength = 29
const bookChangeEntryLength = 18

// BookChangeEntry is one price-level mutation: a level was added,
// changed, or removed at Price with the new resting Amount (zero for
// a delete). Grounded on the original feed's ChangesList group.
type BookChangeEntry struct {
	Side   BookSide
	Change BookChangeKind
	Price  float64
	Amount float64
}

// BookMessage is a depth-update (template 1001): a monotonic ChangeID
// anchored to PrevChangeID so a consumer can detect a dropped update,
// and IsLast marking the final message of a burst emitted from one
// matching-engine event (e.g. every level touched by a single trade).
type BookMessage struct {
	InstrumentID uint32
	TimestampMs  uint64
	PrevChangeID uint64
	ChangeID     uint64
	IsLast       bool
	Changes      []BookChangeEntry
}

func (m BookMessage) Encode() []byte {
	header := MessageHeader{
		BlockLength: bookBlockLength,
		TemplateID:  TemplateBook,
		SchemaID:    SchemaID,
		Version:     SchemaVersion,
	}
	body := make([]byte, bookBlockLength)
	binary.LittleEndian.PutUint32(body[0:], m.InstrumentID)
	binary.LittleEndian.PutUint64(body[4:], m.TimestampMs)
	binary.LittleEndian.PutUint64(body[12:], m.PrevChangeID)
	binary.LittleEndian.PutUint64(body[20:], m.ChangeID)
	if m.IsLast {
		body[28] = 1
	}

	group := GroupDimension{BlockLength: bookChangeEntryLength, NumInGroup: uint16(len(m.Changes))}
	out := append(header.Encode(), body...)
	out = append(out, group.Encode()...)
	for _, c := range m.Changes {
		entry := make([]byte, bookChangeEntryLength)
		entry[0] = byte(c.Side)
		entry[1] = byte(c.Change)
		binary.LittleEndian.PutUint64(entry[2:], math.Float64bits(c.Price))
		binary.LittleEndian.PutUint64(entry[10:], math.Float64bits(c.Amount))
		out = append(out, entry...)
	}
	return out
}

func DecodeBookMessage(buf []byte) (*BookMessage, error) {
	header, err := DecodeHeader(buf)
	if err != nil {
		return nil, err
	}
	if header.TemplateID != TemplateBook {
		return nil, ErrTemplateMismatch
	}
	buf = buf[HeaderLength:]
	if len(buf) < bookBlockLength {
		return nil, ErrShortBuffer
	}
	m := &BookMessage{
		InstrumentID: binary.LittleEndian.Uint32(buf[0:]),
		TimestampMs:  binary.LittleEndian.Uint64(buf[4:]),
		PrevChangeID: binary.LittleEndian.Uint64(buf[12:]),
		ChangeID:     binary.LittleEndian.Uint64(buf[20:]),
		IsLast:       buf[28] != 0,
	}
	buf = buf[bookBlockLength:]

	group, err := DecodeGroupDimension(buf)
	if err != nil {
		return nil, err
	}
	buf = buf[GroupHeaderLength:]
	for i := 0; i < int(group.NumInGroup); i++ {
		if len(buf) < bookChangeEntryLength {
			return nil, ErrShortBuffer
		}
		m.Changes = append(m.Changes, BookChangeEntry{
			Side:   BookSide(buf[0]),
			Change: BookChangeKind(buf[1]),
			Price:  math.Float64frombits(binary.LittleEndian.Uint64(buf[2:])),
			Amount: math.Float64frombits(binary.LittleEndian.Uint64(buf[10:])),
		})
		buf = buf[bookChangeEntryLength:]
	}
	return m, nil
}
