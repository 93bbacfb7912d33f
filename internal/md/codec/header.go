// Package codec implements the MD binary wire protocol: a fixed
// 12-byte message header, an 8-byte repeating-group dimension header,
// and a catalogue of fixed-block message templates, modeled on the SBE
// encoding scheme used by the original market-data feed. Spec.md
// section 4.7/4.8.
//
// Every template carries its own block length, template id, schema id
// and schema version so a reader can skip unknown messages without
// understanding their payload, the same self-describing property SBE
// gives the original feed.
package codec

import "encoding/binary"

// HeaderLength is the encoded size of MessageHeader.
const HeaderLength = 12

// SchemaID and SchemaVersion are carried on every header; a consumer
// built against a different schema can detect the mismatch instead of
// misreading bytes.
const (
	SchemaID      uint16 = 1
	SchemaVersion uint16 = 3
)

// MessageHeader prefixes every MD message: the block length of the
// fixed part of the body (excluding any repeating groups or variable
// data), the template id identifying which message follows, and the
// schema identity.
type MessageHeader struct {
	BlockLength       uint16
	TemplateID        uint16
	SchemaID          uint16
	Version           uint16
	NumGroups         uint16
	NumVarDataFields  uint16
}

// Encode writes the header into a freshly allocated 12-byte slice.
func (h MessageHeader) Encode() []byte {
	buf := make([]byte, HeaderLength)
	binary.LittleEndian.PutUint16(buf[0:], h.BlockLength)
	binary.LittleEndian.PutUint16(buf[2:], h.TemplateID)
	binary.LittleEndian.PutUint16(buf[4:], h.SchemaID)
	binary.LittleEndian.PutUint16(buf[6:], h.Version)
	binary.LittleEndian.PutUint16(buf[8:], h.NumGroups)
	binary.LittleEndian.PutUint16(buf[10:], h.NumVarDataFields)
	return buf
}

// DecodeHeader reads a MessageHeader from the front of buf.
func DecodeHeader(buf []byte) (MessageHeader, error) {
	if len(buf) < HeaderLength {
		return MessageHeader{}, ErrShortBuffer
	}
	return MessageHeader{
		BlockLength:      binary.LittleEndian.Uint16(buf[0:]),
		TemplateID:       binary.LittleEndian.Uint16(buf[2:]),
		SchemaID:         binary.LittleEndian.Uint16(buf[4:]),
		Version:          binary.LittleEndian.Uint16(buf[6:]),
		NumGroups:        binary.LittleEndian.Uint16(buf[8:]),
		NumVarDataFields: binary.LittleEndian.Uint16(buf[10:]),
	}, nil
}

// GroupHeaderLength is the encoded size of a GroupDimension.
const GroupHeaderLength = 8

// GroupDimension prefixes every repeating group: the block length of
// one group entry, the entry count, and two reserved counters mirrored
// from the outer message header (unused here but kept so a generic
// reader can walk a group without a template-specific decoder).
type GroupDimension struct {
	BlockLength      uint16
	NumInGroup       uint16
	NumGroups        uint16
	NumVarDataFields uint16
}

func (g GroupDimension) Encode() []byte {
	buf := make([]byte, GroupHeaderLength)
	binary.LittleEndian.PutUint16(buf[0:], g.BlockLength)
	binary.LittleEndian.PutUint16(buf[2:], g.NumInGroup)
	binary.LittleEndian.PutUint16(buf[4:], g.NumGroups)
	binary.LittleEndian.PutUint16(buf[6:], g.NumVarDataFields)
	return buf
}

func DecodeGroupDimension(buf []byte) (GroupDimension, error) {
	if len(buf) < GroupHeaderLength {
		return GroupDimension{}, ErrShortBuffer
	}
	return GroupDimension{
		BlockLength:      binary.LittleEndian.Uint16(buf[0:]),
		NumInGroup:       binary.LittleEndian.Uint16(buf[2:]),
		NumGroups:        binary.LittleEndian.Uint16(buf[4:]),
		NumVarDataFields: binary.LittleEndian.Uint16(buf[6:]),
	}, nil
}
