// Package session implements the OE session layer: per-connection
// sequence-number discipline, heartbeat timeout, and the
// logon/logout state machine of spec.md section 4.6. Grounded on the
// teacher's ClientSession/Server (internal/net/server.go), generalized
// from its ad hoc binary protocol to OE's tag=value framing and typed
// lifecycle states.
package session

import (
	"errors"
	"net"
	"sync"
	"time"
)

// Status is the session's position in the logon/logout state machine.
type Status int

const (
	// PendingLogon is the state of a freshly accepted connection that
	// has not yet sent a valid Logon message.
	PendingLogon Status = iota
	LoggedOn
	LoggedOut
)

func (s Status) String() string {
	switch s {
	case PendingLogon:
		return "PendingLogon"
	case LoggedOn:
		return "LoggedOn"
	case LoggedOut:
		return "LoggedOut"
	default:
		return "Unknown"
	}
}

var (
	ErrNotLoggedOn       = errors.New("session: not logged on")
	ErrAlreadyLoggedOn   = errors.New("session: already logged on")
	ErrSequenceGap       = errors.New("session: unexpected sequence number")
	ErrHeartbeatTimeout  = errors.New("session: heartbeat timeout")
)

// Session is one connection's state: identity, sequence numbers, the
// in-flight ClOrdID -> engine order id mapping, and an outbound message
// store for retransmission. Spec.md section 4.6: sequence state is
// strictly per-session and never shared across reconnections.
type Session struct {
	mu sync.Mutex

	Conn              net.Conn
	SenderCompID      string
	TargetCompID      string
	Status            Status
	OutSeq            uint64
	ExpectedInSeq     uint64
	HeartbeatInterval time.Duration
	LastReceivedAt    time.Time

	// inFlight maps a client's ClOrdID to the engine-assigned order id,
	// so a later OrderCancelRequest (which names the order by ClOrdID,
	// per OE convention) can be resolved to an id the engine understands.
	inFlight map[string]uint64

	// outbound stores every message sent on this session keyed by
	// sequence number, enabling a resend on a sequence gap. Spec.md does
	// not mandate resend request handling explicitly, but a single-writer
	// outbound store is the natural basis for it.
	outbound map[uint64][]byte
}

// New creates a session in PendingLogon for a freshly accepted
// connection.
func New(conn net.Conn) *Session {
	return &Session{
		Conn:          conn,
		Status:        PendingLogon,
		ExpectedInSeq: 1,
		inFlight:      make(map[string]uint64),
		outbound:      make(map[uint64][]byte),
	}
}

// Logon transitions the session to LoggedOn, recording the peer's
// identity and heartbeat interval.
func (s *Session) Logon(senderCompID, targetCompID string, heartBtInt int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Status == LoggedOn {
		return ErrAlreadyLoggedOn
	}
	s.SenderCompID = senderCompID
	s.TargetCompID = targetCompID
	s.HeartbeatInterval = time.Duration(heartBtInt) * time.Second
	s.Status = LoggedOn
	s.LastReceivedAt = time.Now()
	return nil
}

// Logout transitions the session to LoggedOut; further inbound
// messages are rejected.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = LoggedOut
}

// RecordInbound advances expected-in-seq bookkeeping and the
// last-received-at heartbeat clock. It does not itself reject a gap —
// callers decide whether to request a resend or disconnect; it simply
// reports whether seq was the expected next one.
func (s *Session) RecordInbound(seq uint64) (inOrder bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastReceivedAt = time.Now()
	inOrder = seq == s.ExpectedInSeq
	if inOrder {
		s.ExpectedInSeq++
	}
	return inOrder
}

// NextOutSeq returns the next outbound sequence number and advances the
// counter; every message sent to the wire must go through this so
// OutSeq stays a strict count of messages actually sent.
func (s *Session) NextOutSeq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.OutSeq++
	return s.OutSeq
}

// StoreOutbound records a sent message for potential resend.
func (s *Session) StoreOutbound(seq uint64, raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outbound[seq] = raw
}

// TrackOrder remembers which engine order id a ClOrdID refers to, so a
// subsequent OrderCancelRequest naming OrigClOrdID can be resolved.
func (s *Session) TrackOrder(clOrdID string, orderID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight[clOrdID] = orderID
}

// ResolveOrder looks up the engine order id for a previously tracked
// ClOrdID.
func (s *Session) ResolveOrder(clOrdID string) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.inFlight[clOrdID]
	return id, ok
}

// IsStale reports whether the session has gone silent for longer than
// twice its negotiated heartbeat interval, the conventional FIX
// tolerance before a session is considered dead.
func (s *Session) IsStale(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.HeartbeatInterval == 0 {
		return false
	}
	return now.Sub(s.LastReceivedAt) > 2*s.HeartbeatInterval
}

// Send writes raw bytes to the connection and files them in the
// outbound store under a freshly allocated sequence number.
func (s *Session) Send(raw []byte) error {
	seq := s.NextOutSeq()
	s.StoreOutbound(seq, raw)
	_, err := s.Conn.Write(raw)
	return err
}
