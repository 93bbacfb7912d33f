// Package fixedpoint converts between human-readable decimal prices and
// quantities and the scaled integer representation used throughout the
// core. Floating point and decimal.Decimal only ever appear at protocol
// boundaries; everywhere else the core deals in plain int64.
package fixedpoint

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// Scale factors from spec.md section 3.
const (
	PriceScale    int64 = 1_000_000
	QuantityScale int64 = 1_000
)

var (
	ErrNegative   = errors.New("fixedpoint: negative value")
	ErrNotFinite  = errors.New("fixedpoint: non-finite value")
	ErrOutOfRange = errors.New("fixedpoint: value out of range")
)

// PriceFromFloat scales a human price into the integer representation.
// Negative, infinite, and NaN inputs are rejected per spec.md section 3.
func PriceFromFloat(price float64) (int64, error) {
	return scaleFloat(price, PriceScale)
}

// PriceToFloat converts a scaled price back to a human-readable float.
func PriceToFloat(scaled int64) float64 {
	return float64(scaled) / float64(PriceScale)
}

// QuantityFromFloat scales a human quantity into the integer representation.
func QuantityFromFloat(qty float64) (int64, error) {
	return scaleFloat(qty, QuantityScale)
}

// QuantityToFloat converts a scaled quantity back to a human-readable float.
func QuantityToFloat(scaled int64) float64 {
	return float64(scaled) / float64(QuantityScale)
}

func scaleFloat(v float64, scale int64) (int64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNotFinite
	}
	if v < 0 {
		return 0, ErrNegative
	}
	scaled := v * float64(scale)
	if scaled > math.MaxInt64 {
		return 0, ErrOutOfRange
	}
	return int64(math.Round(scaled)), nil
}

// PriceFromDecimal scales a decimal.Decimal price into the integer
// representation. decimal.Decimal is used at wire boundaries (the OE
// codec and bridge) where values arrive as ASCII text: it parses without
// the precision loss strconv.ParseFloat can introduce on long digit
// strings, and it rejects malformed input before it ever reaches the
// float path above.
func PriceFromDecimal(d decimal.Decimal) (int64, error) {
	if d.IsNegative() {
		return 0, ErrNegative
	}
	scaled := d.Mul(decimal.NewFromInt(PriceScale))
	f, _ := scaled.Round(0).Float64()
	if math.IsInf(f, 0) || f > math.MaxInt64 {
		return 0, ErrOutOfRange
	}
	return int64(f), nil
}

// QuantityFromDecimal scales a decimal.Decimal quantity into the integer
// representation. See PriceFromDecimal.
func QuantityFromDecimal(d decimal.Decimal) (int64, error) {
	if d.IsNegative() {
		return 0, ErrNegative
	}
	scaled := d.Mul(decimal.NewFromInt(QuantityScale))
	f, _ := scaled.Round(0).Float64()
	if math.IsInf(f, 0) || f > math.MaxInt64 {
		return 0, ErrOutOfRange
	}
	return int64(f), nil
}

// DayTicks is one calendar day in nanosecond ticks, the bucket the
// Day-TIF expiry check divides by. It is a whole multiple of the
// millisecond bucket MillisBucket uses, so flooring a timestamp to the
// millisecond first never moves it into a different day.
const DayTicks int64 = 86_400 * 1_000_000_000

// MillisBucket rounds a nanosecond timestamp down to the millisecond
// bucket it falls in, per spec.md's design notes ((ns / 10^6) * 10^6).
func MillisBucket(ns int64) int64 {
	const msTicks = int64(1_000_000)
	return (ns / msTicks) * msTicks
}
