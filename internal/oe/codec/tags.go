package codec

// Field tags, FIX-like numbering per spec.md section 4.5/6 (grounded on
// original_source/exchange-rs/src/fix/messages/new_order_single.rs).
const (
	TagAccount      = 1
	TagBeginString  = 8
	TagBodyLength   = 9
	TagClOrdID      = 11
	TagExecInst     = 18
	TagHandlInst    = 21
	TagOrderQty     = 38
	TagOrdType      = 40
	TagPrice        = 44
	TagSide         = 54
	TagSymbol       = 55
	TagTimeInForce  = 59
	TagTransactTime = 60
	TagMsgType      = 35
	TagCheckSum     = 10
	TagStopPx       = 99
	TagOrderID      = 37
	TagExecID       = 17
	TagExecType     = 150
	TagOrdStatus    = 39
	TagLeavesQty    = 151
	TagCumQty       = 14
	TagLastPx       = 31
	TagLastQty      = 32
	TagOrigClOrdID  = 41
	TagText         = 58
	TagSenderCompID = 49
	TagTargetCompID = 56
	TagMsgSeqNum    = 34
	TagHeartBtInt   = 108
	TagEncryptMeth  = 98
	TagMaxFloor     = 111 // display_qty for Iceberg orders; absent from the original source's FIX subset
)

// MsgType values, tag 35.
const (
	MsgTypeHeartbeat           = "0"
	MsgTypeLogon               = "A"
	MsgTypeNewOrderSingle      = "D"
	MsgTypeExecutionReport     = "8"
	MsgTypeOrderCancelRequest  = "F"
	MsgTypeLogout              = "5"
)

// Side values, tag 54.
const (
	SideBuy  = "1"
	SideSell = "2"
)

// OrdType values, tag 40. OrdTypeIceberg (5) is a local extension: the
// original FIX subset this protocol is grounded on has no hidden-size
// order type, spec.md adds one, so it takes the next unused code point
// rather than overloading ExecInst.
const (
	OrdTypeMarket    = "1"
	OrdTypeLimit     = "2"
	OrdTypeStop      = "3" // StopMarket
	OrdTypeStopLimit = "4"
	OrdTypeIceberg   = "5"
)

// TimeInForce values, tag 59.
const (
	TIFDay = "0"
	TIFGTC = "1"
	TIFIOC = "3"
	TIFFOK = "4"
	TIFGTD = "6"
)

// ExecType / OrdStatus values, tags 150/39. The OE protocol reuses the
// same single-letter vocabulary for both.
const (
	ExecStatusNew             = "0"
	ExecStatusPartiallyFilled = "1"
	ExecStatusFilled          = "2"
	ExecStatusCanceled        = "4"
	ExecStatusRejected        = "8"
	ExecStatusExpired         = "C"
	ExecStatusTrade           = "F" // ExecType only: this report carries a fill.
)

const BeginString = "FIX.4.4"
