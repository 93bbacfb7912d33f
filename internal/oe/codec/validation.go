package codec

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

// ValidationErrorKind enumerates spec.md section 4.5's ValidationError
// sub-kinds.
type ValidationErrorKind int

const (
	MissingRequiredField ValidationErrorKind = iota
	InvalidMessageType
	FieldNotAllowed
	InvalidFieldLength
	InvalidFieldValue
)

func (k ValidationErrorKind) String() string {
	switch k {
	case MissingRequiredField:
		return "MissingRequiredField"
	case InvalidMessageType:
		return "InvalidMessageType"
	case FieldNotAllowed:
		return "FieldNotAllowed"
	case InvalidFieldLength:
		return "InvalidFieldLength"
	case InvalidFieldValue:
		return "InvalidFieldValue"
	default:
		return "Unknown"
	}
}

// ValidationError is the codec's structured cross-field rejection,
// naming the offending tag so the bridge can turn it into an
// ExecutionReport(Rejected) without re-deriving what went wrong.
type ValidationError struct {
	Kind   ValidationErrorKind
	Tag    int
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("codec: %s: tag %d: %s", e.Kind, e.Tag, e.Detail)
}

// Bounds from spec.md section 4.5's NewOrderSingle cross-field rules.
var (
	maxPriceDecimal  = decimal.NewFromInt(1_000_000)
	maxQtyDecimal    = decimal.NewFromInt(1_000_000_000)
	symbolPattern    = regexp.MustCompile(`^[A-Za-z0-9.\-]+$`)
)

const (
	maxSymbolLen        = 32
	minTimestampFieldLen = 17
)

// Validate checks NewOrderSingle's cross-field rules: required-ness,
// numeric bounds, and symbol/timestamp shape. ParseNewOrderSingle
// already guarantees the fields it returns an error for below are
// present as raw tags; Validate is the business-rule layer spec.md
// section 4.5 calls out as distinct from tag extraction.
func (n *NewOrderSingle) Validate() error {
	switch n.Side {
	case SideBuy, SideSell:
	default:
		return &ValidationError{Kind: InvalidFieldValue, Tag: TagSide, Detail: "must be Buy or Sell"}
	}

	switch n.OrdType {
	case OrdTypeMarket, OrdTypeLimit, OrdTypeStop, OrdTypeStopLimit, OrdTypeIceberg:
	default:
		return &ValidationError{Kind: InvalidFieldValue, Tag: TagOrdType, Detail: "unrecognized order type"}
	}

	needsPrice := n.OrdType == OrdTypeLimit || n.OrdType == OrdTypeStopLimit || n.OrdType == OrdTypeIceberg
	if needsPrice {
		if err := validateBoundedPositiveDecimal(n.Price, TagPrice, maxPriceDecimal); err != nil {
			return err
		}
	} else if n.Price != "" {
		return &ValidationError{Kind: FieldNotAllowed, Tag: TagPrice, Detail: "price not allowed for this order type"}
	}

	needsStopPx := n.OrdType == OrdTypeStop || n.OrdType == OrdTypeStopLimit
	if needsStopPx {
		if err := validateBoundedPositiveDecimal(n.StopPx, TagStopPx, maxPriceDecimal); err != nil {
			return err
		}
	} else if n.StopPx != "" {
		return &ValidationError{Kind: FieldNotAllowed, Tag: TagStopPx, Detail: "stop_px not allowed for this order type"}
	}

	if err := validateBoundedPositiveDecimal(n.OrderQty, TagOrderQty, maxQtyDecimal); err != nil {
		return err
	}

	if n.Symbol == "" {
		return &ValidationError{Kind: MissingRequiredField, Tag: TagSymbol, Detail: "symbol required"}
	}
	if len(n.Symbol) > maxSymbolLen {
		return &ValidationError{Kind: InvalidFieldLength, Tag: TagSymbol, Detail: "symbol exceeds 32 characters"}
	}
	if !symbolPattern.MatchString(n.Symbol) {
		return &ValidationError{Kind: InvalidFieldValue, Tag: TagSymbol, Detail: "symbol must match [A-Za-z0-9.-]"}
	}

	if n.TransactTime != "" && len(n.TransactTime) < minTimestampFieldLen {
		return &ValidationError{Kind: InvalidFieldLength, Tag: TagTransactTime, Detail: "transact_time shorter than 17 characters"}
	}

	return nil
}

// validateBoundedPositiveDecimal requires value to be present, parse as
// a decimal, be strictly positive, and not exceed max.
func validateBoundedPositiveDecimal(value string, tag int, max decimal.Decimal) error {
	if value == "" {
		return &ValidationError{Kind: MissingRequiredField, Tag: tag, Detail: "required field missing"}
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return &ValidationError{Kind: InvalidFieldValue, Tag: tag, Detail: "not a decimal number"}
	}
	if !d.IsPositive() {
		return &ValidationError{Kind: InvalidFieldValue, Tag: tag, Detail: "must be greater than zero"}
	}
	if d.GreaterThan(max) {
		return &ValidationError{Kind: InvalidFieldValue, Tag: tag, Detail: fmt.Sprintf("exceeds maximum of %s", max.String())}
	}
	return nil
}
