package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func soh(s string) []byte {
	return []byte(strings.ReplaceAll(s, "|", string(rune(SOH))))
}

func TestChecksumKnownValue(t *testing.T) {
	// "8=FIX.4.4\x01" sums to 545, which is 33 modulo 256; the rendering
	// is always three left-zero-padded digits.
	sum := Checksum([]byte("8=FIX.4.4\x01"))
	assert.Len(t, sum, 3)
	assert.Equal(t, "033", sum)
}

func TestEncodeParseRoundTrip(t *testing.T) {
	order := &NewOrderSingle{
		ClOrdID:      "abc-1",
		Symbol:       "TEST",
		Side:         SideBuy,
		TransactTime: "20260101-00:00:00",
		OrderQty:     "10",
		OrdType:      OrdTypeLimit,
		Price:        "100.00",
		TimeInForce:  TIFGTC,
	}
	raw := order.Encode()

	msg, err := Parse(raw)
	require.NoError(t, err)

	mtype, ok := msg.MsgType()
	require.True(t, ok)
	assert.Equal(t, MsgTypeNewOrderSingle, mtype)

	parsed, err := ParseNewOrderSingle(msg)
	require.NoError(t, err)
	assert.Equal(t, order.ClOrdID, parsed.ClOrdID)
	assert.Equal(t, order.Symbol, parsed.Symbol)
	assert.Equal(t, order.Side, parsed.Side)
	assert.Equal(t, order.OrderQty, parsed.OrderQty)
	assert.Equal(t, order.Price, parsed.Price)
}

// Scenario 6 — FIX checksum round-trip: a correctly-checksummed message
// parses and validates, and re-encoding the parsed fields reproduces it
// byte for byte. Rejection of a corrupted checksum or body length is
// covered by TestParseRejectsBadChecksum and TestParseRejectsBadBodyLength.
func TestScenario6ChecksumRoundTrip(t *testing.T) {
	order := &NewOrderSingle{
		ClOrdID:      "CL1",
		Symbol:       "TEST",
		Side:         SideBuy,
		TransactTime: "20260101-00:00:00",
		OrderQty:     "10",
		OrdType:      OrdTypeLimit,
		Price:        "100.00",
	}
	raw := order.Encode()

	msg, err := Parse(raw)
	require.NoError(t, err)

	parsed, err := ParseNewOrderSingle(msg)
	require.NoError(t, err)

	reEncoded := parsed.Encode()
	assert.Equal(t, raw, reEncoded, "re-encoding the parsed fields yields a byte-equivalent message")
}

func TestParseRejectsBadChecksum(t *testing.T) {
	order := &NewOrderSingle{
		ClOrdID: "CL1", Symbol: "TEST", Side: SideBuy,
		TransactTime: "t", OrderQty: "10", OrdType: OrdTypeMarket,
	}
	raw := order.Encode()
	corrupted := append([]byte{}, raw...)
	// Flip the last checksum digit.
	corrupted[len(corrupted)-2]++

	_, err := Parse(corrupted)
	assert.ErrorIs(t, err, ErrBadChecksum)
}

func TestParseRejectsBadBodyLength(t *testing.T) {
	raw := soh("8=FIX.4.4|9=999|35=0|49=A|56=B|34=1|10=000|")
	_, err := Parse(raw)
	assert.ErrorIs(t, err, ErrBadBodyLength)
}

func TestParseRejectsMalformedField(t *testing.T) {
	raw := soh("8=FIX.4.4|9=4|NOTATAG|10=000|")
	_, err := Parse(raw)
	assert.Error(t, err)
}

func TestValidateRejectsPriceAboveMax(t *testing.T) {
	order := &NewOrderSingle{
		ClOrdID: "CL1", Symbol: "TEST", Side: SideBuy,
		TransactTime: "20260101-00:00:00", OrderQty: "10",
		OrdType: OrdTypeLimit, Price: "1000001",
	}
	msg, err := Parse(order.Encode())
	require.NoError(t, err)

	_, err = ParseNewOrderSingle(msg)
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, TagPrice, verr.Tag)
	assert.Equal(t, InvalidFieldValue, verr.Kind)
}

func TestValidateRejectsOrderQtyAboveMax(t *testing.T) {
	order := &NewOrderSingle{
		ClOrdID: "CL1", Symbol: "TEST", Side: SideBuy,
		TransactTime: "20260101-00:00:00", OrderQty: "1000000001",
		OrdType: OrdTypeMarket,
	}
	msg, err := Parse(order.Encode())
	require.NoError(t, err)

	_, err = ParseNewOrderSingle(msg)
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, TagOrderQty, verr.Tag)
}

func TestValidateRejectsLongSymbol(t *testing.T) {
	order := &NewOrderSingle{
		ClOrdID: "CL1", Symbol: strings.Repeat("A", 40), Side: SideBuy,
		TransactTime: "20260101-00:00:00", OrderQty: "10", OrdType: OrdTypeMarket,
	}
	msg, err := Parse(order.Encode())
	require.NoError(t, err)

	_, err = ParseNewOrderSingle(msg)
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, InvalidFieldLength, verr.Kind)
}

func TestValidateRejectsDisallowedSymbolChars(t *testing.T) {
	order := &NewOrderSingle{
		ClOrdID: "CL1", Symbol: "TEST/USD", Side: SideBuy,
		TransactTime: "20260101-00:00:00", OrderQty: "10", OrdType: OrdTypeMarket,
	}
	msg, err := Parse(order.Encode())
	require.NoError(t, err)

	_, err = ParseNewOrderSingle(msg)
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, TagSymbol, verr.Tag)
}

func TestValidateRejectsShortTransactTime(t *testing.T) {
	order := &NewOrderSingle{
		ClOrdID: "CL1", Symbol: "TEST", Side: SideBuy,
		TransactTime: "too-short", OrderQty: "10", OrdType: OrdTypeMarket,
	}
	msg, err := Parse(order.Encode())
	require.NoError(t, err)

	_, err = ParseNewOrderSingle(msg)
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, TagTransactTime, verr.Tag)
	assert.Equal(t, InvalidFieldLength, verr.Kind)
}

func TestValidateRejectsPriceOnMarketOrder(t *testing.T) {
	order := &NewOrderSingle{
		ClOrdID: "CL1", Symbol: "TEST", Side: SideBuy,
		TransactTime: "20260101-00:00:00", OrderQty: "10",
		OrdType: OrdTypeMarket, Price: "100.00",
	}
	msg, err := Parse(order.Encode())
	require.NoError(t, err)

	_, err = ParseNewOrderSingle(msg)
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, FieldNotAllowed, verr.Kind)
}

func TestValidateRejectsMissingStopPx(t *testing.T) {
	order := &NewOrderSingle{
		ClOrdID: "CL1", Symbol: "TEST", Side: SideBuy,
		TransactTime: "20260101-00:00:00", OrderQty: "10", OrdType: OrdTypeStop,
	}
	msg, err := Parse(order.Encode())
	require.NoError(t, err)

	_, err = ParseNewOrderSingle(msg)
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, TagStopPx, verr.Tag)
	assert.Equal(t, MissingRequiredField, verr.Kind)
}

func TestLogonRoundTrip(t *testing.T) {
	l := &Logon{SenderCompID: "EXCH", TargetCompID: "CLIENT1", MsgSeqNum: "1", HeartBtInt: 30}
	raw := l.Encode()

	msg, err := Parse(raw)
	require.NoError(t, err)
	parsed, err := ParseLogon(msg)
	require.NoError(t, err)
	assert.Equal(t, l.HeartBtInt, parsed.HeartBtInt)
	assert.Equal(t, l.SenderCompID, parsed.SenderCompID)
}
