package codec

import "math"

// Null sentinels for optional numeric fields, per spec.md section 4.8.
// A decoder maps any of these back to "absent" rather than a literal
// zero or NaN value.
const (
	NullU16 uint16 = 0xFFFF
	NullU32 uint32 = 0xFFFFFFFF
	NullU64 uint64 = 0xFFFFFFFFFFFFFFFF
	NullI32 int32  = -0x80000000
	NullU8  uint8  = 0xFF
)

func IsNullU16(v uint16) bool { return v == NullU16 }
func IsNullU32(v uint32) bool { return v == NullU32 }
func IsNullU64(v uint64) bool { return v == NullU64 }
func IsNullI32(v int32) bool  { return v == NullI32 }
func IsNullU8(v uint8) bool   { return v == NullU8 }
func IsNullF64(v float64) bool { return math.IsNaN(v) }

// NullF64 is the null sentinel for an optional f64 field.
var NullF64 = math.NaN()
