// Package bridge translates between OE wire messages and the engine's
// internal common.Order/common.Trade representation. Spec.md section
// 4.5/4.4; grounded on the teacher's NewOrderMessage.Order() and
// generateWireTradeReports/generateWireErrorReports, generalized from
// a fixed binary layout to the OE tag=value schema.
package bridge

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"ironbook/internal/common"
	"ironbook/internal/fixedpoint"
	"ironbook/internal/oe/codec"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrUnknownSide        = errors.New("bridge: unknown side value")
	ErrUnknownOrdType     = errors.New("bridge: unknown ord type value")
	ErrUnknownTIF         = errors.New("bridge: unknown time in force value")
	ErrMissingPrice       = errors.New("bridge: price required for this order type")
	ErrMissingStopPx      = errors.New("bridge: stop price required for this order type")
	ErrMissingMaxFloor    = errors.New("bridge: max floor required for iceberg orders")
	ErrZeroQuantity       = errors.New("bridge: order quantity must be positive")
)

// OwnerIDFromIdentity derives an opaque numeric owner id per spec.md
// section 4.7: digits extracted from the account field if present and
// non-empty, else from senderCompID; default 1 if neither yields a
// digit. account takes priority over senderCompID outright — it is
// never used merely as a fallback-source-of-last-resort, so a
// non-numeric account ("ACCT-NODIGITS") does not fall through to
// senderCompID.
func OwnerIDFromIdentity(account, senderCompID string) uint64 {
	if account != "" {
		if n, ok := digitsOf(account); ok {
			return n
		}
		return 1
	}
	if n, ok := digitsOf(senderCompID); ok {
		return n
	}
	return 1
}

// digitsOf extracts every ASCII digit in s, in order, and parses the
// result as a uint64. Returns false if s contains no digits or the
// digit run overflows uint64.
func digitsOf(s string) (uint64, bool) {
	digits := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			digits = append(digits, c)
		}
	}
	if len(digits) == 0 {
		return 0, false
	}
	n, err := strconv.ParseUint(string(digits), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ToOrder converts a parsed NewOrderSingle into a common.Order ready
// for engine.PlaceOrder. The engine assigns ID and ExchangeTimestamp;
// this function only fills in what the wire message can supply.
func ToOrder(n *codec.NewOrderSingle) (*common.Order, error) {
	side, err := decodeSide(n.Side)
	if err != nil {
		return nil, err
	}
	kind, err := decodeOrdType(n.OrdType)
	if err != nil {
		return nil, err
	}
	tif, err := decodeTIF(n.TimeInForce)
	if err != nil {
		return nil, err
	}

	qty, err := decodeQuantity(n.OrderQty)
	if err != nil {
		return nil, err
	}
	if qty <= 0 {
		return nil, ErrZeroQuantity
	}

	order := &common.Order{
		ClOrdID:  n.ClOrdID,
		Symbol:   n.Symbol,
		Side:     side,
		Kind:     kind,
		TotalQty: qty,
		TIF:      tif,
		Status:   common.New,
		OwnerID:  OwnerIDFromIdentity(n.Account, n.SenderCompID),
	}

	if kind == common.Limit || kind == common.StopLimit || kind == common.Iceberg {
		if n.Price == "" {
			return nil, ErrMissingPrice
		}
		price, err := decodePrice(n.Price)
		if err != nil {
			return nil, err
		}
		order.LimitPrice = price
	}

	if kind == common.StopLimit || kind == common.StopMarket {
		if n.StopPx == "" {
			return nil, ErrMissingStopPx
		}
		stopPx, err := decodePrice(n.StopPx)
		if err != nil {
			return nil, err
		}
		order.StopPrice = stopPx
	}

	if kind == common.Iceberg {
		if n.MaxFloor == "" {
			return nil, ErrMissingMaxFloor
		}
		display, err := decodeQuantity(n.MaxFloor)
		if err != nil {
			return nil, err
		}
		order.DisplayQty = display
	}

	if n.TransactTime != "" {
		if ts, err := parseTransactTime(n.TransactTime); err == nil {
			order.Timestamp = ts
		}
	}

	return order, nil
}

// ToCancelLookup extracts the symbol and the client order id the
// cancel request refers to; resolving OrigClOrdID to an engine order
// id is the session layer's job (it tracks ClOrdID -> id for in-flight
// orders).
func ToCancelLookup(c *codec.OrderCancelRequest) (symbol, origClOrdID string) {
	return c.Symbol, c.OrigClOrdID
}

func decodeSide(s string) (common.Side, error) {
	switch s {
	case codec.SideBuy:
		return common.Buy, nil
	case codec.SideSell:
		return common.Sell, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSide, s)
	}
}

func decodeOrdType(s string) (common.Kind, error) {
	switch s {
	case codec.OrdTypeMarket:
		return common.Market, nil
	case codec.OrdTypeLimit:
		return common.Limit, nil
	case codec.OrdTypeStop:
		return common.StopMarket, nil
	case codec.OrdTypeStopLimit:
		return common.StopLimit, nil
	case codec.OrdTypeIceberg:
		return common.Iceberg, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownOrdType, s)
	}
}

func decodeTIF(s string) (common.TIF, error) {
	switch s {
	case "":
		return common.GTC, nil
	case codec.TIFDay:
		return common.Day, nil
	case codec.TIFGTC:
		return common.GTC, nil
	case codec.TIFIOC:
		return common.IOC, nil
	case codec.TIFFOK:
		return common.FOK, nil
	case codec.TIFGTD:
		return common.GTD, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownTIF, s)
	}
}

func decodePrice(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("bridge: invalid price %q: %w", s, err)
	}
	return fixedpoint.PriceFromDecimal(d)
}

func decodeQuantity(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("bridge: invalid quantity %q: %w", s, err)
	}
	return fixedpoint.QuantityFromDecimal(d)
}

const transactTimeLayout = "20060102-15:04:05"

func parseTransactTime(s string) (int64, error) {
	t, err := time.Parse(transactTimeLayout, s)
	if err != nil {
		return 0, err
	}
	return t.UnixNano(), nil
}

// NewClOrdID mints a client order id for orders the engine originates
// itself (none today — reserved for a future replay/recovery path).
func NewClOrdID() string {
	return uuid.NewString()
}
