package codec

import (
	"fmt"
	"strconv"
)

// NewOrderSingle is the parsed shape of a MsgType=D message, fields per
// spec.md section 4.5/6 and original_source/exchange-rs's FIX subset,
// extended with an optional MaxFloor (display_qty) for Iceberg orders.
type NewOrderSingle struct {
	ClOrdID      string
	Account      string
	SenderCompID string // tag 49; falls back to the session's negotiated identity when absent
	HandlInst    string
	Symbol       string
	Side         string
	TransactTime string
	OrderQty     string // decimal text, scaled at the bridge
	OrdType      string
	Price        string // present for Limit/StopLimit/Iceberg
	StopPx       string // present for Stop/StopLimit
	TimeInForce  string // absent means GTC
	MaxFloor     string // present for Iceberg
}

// ParseNewOrderSingle extracts a NewOrderSingle from an already-framed
// Message, checks that the fields it must carry are present, then runs
// Validate to enforce spec.md section 4.5's cross-field rules (price/
// stop_px bounds, order_qty bounds, symbol shape, timestamp length)
// before any of it reaches the bridge.
func ParseNewOrderSingle(msg *Message) (*NewOrderSingle, error) {
	n := &NewOrderSingle{}
	var ok bool

	if n.ClOrdID, ok = msg.Get(TagClOrdID); !ok {
		return nil, fmt.Errorf("%w: tag %d", ErrTagNotPresent, TagClOrdID)
	}
	n.Account, _ = msg.Get(TagAccount)
	n.SenderCompID, _ = msg.Get(TagSenderCompID)
	n.HandlInst, _ = msg.Get(TagHandlInst)
	if n.Symbol, ok = msg.Get(TagSymbol); !ok {
		return nil, fmt.Errorf("%w: tag %d", ErrTagNotPresent, TagSymbol)
	}
	if n.Side, ok = msg.Get(TagSide); !ok {
		return nil, fmt.Errorf("%w: tag %d", ErrTagNotPresent, TagSide)
	}
	n.TransactTime, _ = msg.Get(TagTransactTime)
	if n.OrderQty, ok = msg.Get(TagOrderQty); !ok {
		return nil, fmt.Errorf("%w: tag %d", ErrTagNotPresent, TagOrderQty)
	}
	if n.OrdType, ok = msg.Get(TagOrdType); !ok {
		return nil, fmt.Errorf("%w: tag %d", ErrTagNotPresent, TagOrdType)
	}
	n.Price, _ = msg.Get(TagPrice)
	n.StopPx, _ = msg.Get(TagStopPx)
	n.TimeInForce, _ = msg.Get(TagTimeInForce)
	n.MaxFloor, _ = msg.Get(TagMaxFloor)

	if err := n.Validate(); err != nil {
		return n, err
	}
	return n, nil
}

// Encode renders the order as a complete wire frame.
func (n *NewOrderSingle) Encode() []byte {
	fields := []Field{
		{TagMsgType, MsgTypeNewOrderSingle},
		{TagClOrdID, n.ClOrdID},
	}
	if n.Account != "" {
		fields = append(fields, Field{TagAccount, n.Account})
	}
	if n.SenderCompID != "" {
		fields = append(fields, Field{TagSenderCompID, n.SenderCompID})
	}
	if n.HandlInst != "" {
		fields = append(fields, Field{TagHandlInst, n.HandlInst})
	}
	fields = append(fields,
		Field{TagSymbol, n.Symbol},
		Field{TagSide, n.Side},
		Field{TagTransactTime, n.TransactTime},
		Field{TagOrderQty, n.OrderQty},
		Field{TagOrdType, n.OrdType},
	)
	if n.Price != "" {
		fields = append(fields, Field{TagPrice, n.Price})
	}
	if n.StopPx != "" {
		fields = append(fields, Field{TagStopPx, n.StopPx})
	}
	if n.TimeInForce != "" {
		fields = append(fields, Field{TagTimeInForce, n.TimeInForce})
	}
	if n.MaxFloor != "" {
		fields = append(fields, Field{TagMaxFloor, n.MaxFloor})
	}
	return Encode(BeginString, fields)
}

// OrderCancelRequest is the parsed shape of a MsgType=F message.
type OrderCancelRequest struct {
	OrigClOrdID string
	ClOrdID     string
	Symbol      string
	Side        string
	TransactTime string
}

func ParseOrderCancelRequest(msg *Message) (*OrderCancelRequest, error) {
	c := &OrderCancelRequest{}
	var ok bool
	if c.OrigClOrdID, ok = msg.Get(TagOrigClOrdID); !ok {
		return nil, fmt.Errorf("%w: tag %d", ErrTagNotPresent, TagOrigClOrdID)
	}
	c.ClOrdID, _ = msg.Get(TagClOrdID)
	c.Symbol, _ = msg.Get(TagSymbol)
	c.Side, _ = msg.Get(TagSide)
	c.TransactTime, _ = msg.Get(TagTransactTime)
	return c, nil
}

func (c *OrderCancelRequest) Encode() []byte {
	fields := []Field{
		{TagMsgType, MsgTypeOrderCancelRequest},
		{TagOrigClOrdID, c.OrigClOrdID},
	}
	if c.ClOrdID != "" {
		fields = append(fields, Field{TagClOrdID, c.ClOrdID})
	}
	if c.Symbol != "" {
		fields = append(fields, Field{TagSymbol, c.Symbol})
	}
	if c.Side != "" {
		fields = append(fields, Field{TagSide, c.Side})
	}
	if c.TransactTime != "" {
		fields = append(fields, Field{TagTransactTime, c.TransactTime})
	}
	return Encode(BeginString, fields)
}

// ExecutionReport is the parsed/built shape of a MsgType=8 message: one
// per trade, per the resolved open question in spec.md section 9 (see
// SPEC_FULL.md section 4 notes).
type ExecutionReport struct {
	OrderID      string
	ClOrdID      string
	ExecID       string
	ExecType     string
	OrdStatus    string
	Symbol       string
	Side         string
	LeavesQty    string
	CumQty       string
	LastPx       string
	LastQty      string
	Text         string
}

func (r *ExecutionReport) Encode() []byte {
	fields := []Field{
		{TagMsgType, MsgTypeExecutionReport},
		{TagOrderID, r.OrderID},
		{TagClOrdID, r.ClOrdID},
		{TagExecID, r.ExecID},
		{TagExecType, r.ExecType},
		{TagOrdStatus, r.OrdStatus},
		{TagSymbol, r.Symbol},
		{TagSide, r.Side},
		{TagLeavesQty, r.LeavesQty},
		{TagCumQty, r.CumQty},
	}
	if r.LastPx != "" {
		fields = append(fields, Field{TagLastPx, r.LastPx})
	}
	if r.LastQty != "" {
		fields = append(fields, Field{TagLastQty, r.LastQty})
	}
	if r.Text != "" {
		fields = append(fields, Field{TagText, r.Text})
	}
	return Encode(BeginString, fields)
}

// Logon is the parsed/built shape of a MsgType=A session-establishment
// message.
type Logon struct {
	SenderCompID string
	TargetCompID string
	MsgSeqNum    string
	HeartBtInt   int
}

func ParseLogon(msg *Message) (*Logon, error) {
	l := &Logon{}
	l.SenderCompID, _ = msg.Get(TagSenderCompID)
	l.TargetCompID, _ = msg.Get(TagTargetCompID)
	l.MsgSeqNum, _ = msg.Get(TagMsgSeqNum)
	hbi, ok := msg.Get(TagHeartBtInt)
	if !ok {
		return nil, fmt.Errorf("%w: tag %d", ErrTagNotPresent, TagHeartBtInt)
	}
	n, err := strconv.Atoi(hbi)
	if err != nil {
		return nil, fmt.Errorf("%w: tag %d", ErrInvalidFieldType, TagHeartBtInt)
	}
	l.HeartBtInt = n
	return l, nil
}

func (l *Logon) Encode() []byte {
	fields := []Field{
		{TagMsgType, MsgTypeLogon},
		{TagSenderCompID, l.SenderCompID},
		{TagTargetCompID, l.TargetCompID},
		{TagMsgSeqNum, l.MsgSeqNum},
		{TagEncryptMeth, "0"},
		{TagHeartBtInt, strconv.Itoa(l.HeartBtInt)},
	}
	return Encode(BeginString, fields)
}

// Heartbeat is the parsed/built shape of a MsgType=0 message.
type Heartbeat struct {
	SenderCompID string
	TargetCompID string
	MsgSeqNum    string
}

func (h *Heartbeat) Encode() []byte {
	fields := []Field{
		{TagMsgType, MsgTypeHeartbeat},
		{TagSenderCompID, h.SenderCompID},
		{TagTargetCompID, h.TargetCompID},
		{TagMsgSeqNum, h.MsgSeqNum},
	}
	return Encode(BeginString, fields)
}
