package session

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"ironbook/internal/common"
	"ironbook/internal/engine"
	"ironbook/internal/oe/bridge"
	"ironbook/internal/oe/codec"
	"ironbook/internal/utils"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

const (
	maxRecvSize        = 4 * 1024
	defaultNWorkers    = 10
	defaultConnTimeout = 30 * time.Second
)

var (
	ErrImproperConversion = errors.New("session: improper type conversion")
	ErrClientDoesNotExist = errors.New("session: client does not exist")
)

// Engine is the subset of engine.Engine the manager depends on, kept
// as an interface so tests can substitute a fake. Grounded on the
// teacher's own Engine interface in internal/net/server.go.
type Engine interface {
	PlaceOrder(order *common.Order) (*engine.PlaceResult, error)
	CancelOrder(symbol string, orderID uint64) (*common.Order, error)
}

// Manager accepts OE connections, maintains one Session per connection,
// and dispatches inbound messages to the engine. It implements
// engine.Reporter so cascade-generated trades reach the same wire path
// as directly-placed ones. Grounded on the teacher's Server type.
type Manager struct {
	address string
	port    int
	eng     Engine

	pool   utils.WorkerPool
	cancel context.CancelFunc

	sessionsMu sync.Mutex
	sessions   map[string]*Session   // keyed by connection remote address
	byOwner    map[uint64]*Session   // keyed by OwnerID, for reporting
}

// New creates a Manager bound to address:port, driving eng.
func New(address string, port int, eng Engine) *Manager {
	return &Manager{
		address:  address,
		port:     port,
		eng:      eng,
		pool:     utils.NewWorkerPool(defaultNWorkers),
		sessions: make(map[string]*Session),
		byOwner:  make(map[uint64]*Session),
	}
}

// Shutdown cancels the manager's run context.
func (m *Manager) Shutdown() {
	log.Info().Msg("oe session manager shutting down")
	if m.cancel != nil {
		m.cancel()
	}
}

// Run listens for connections until ctx is canceled, dispatching each
// accepted connection to the worker pool.
func (m *Manager) Run(ctx context.Context) {
	defer m.Shutdown()

	ctx, m.cancel = context.WithCancel(ctx)
	t, ctx := tomb.WithContext(ctx)

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", fmt.Sprintf("%s:%d", m.address, m.port))
	if err != nil {
		log.Error().Err(err).Msg("oe: unable to start listener")
		return
	}
	defer func() {
		if err := listener.Close(); err != nil {
			log.Error().Err(err).Msg("oe: unable to close listener")
		}
	}()

	t.Go(func() error {
		m.pool.Setup(t, m.handleConnection)
		return nil
	})

	log.Info().Str("addr", fmt.Sprintf("%s:%d", m.address, m.port)).Msg("oe session manager listening")

	for {
		select {
		case <-ctx.Done():
			return
		default:
			conn, err := listener.Accept()
			if err != nil {
				log.Error().Err(err).Msg("oe: error accepting client")
				continue
			}
			m.addSession(conn)
			m.pool.AddTask(conn)
		}
	}
}

func (m *Manager) addSession(conn net.Conn) *Session {
	m.sessionsMu.Lock()
	defer m.sessionsMu.Unlock()
	s := New(conn)
	m.sessions[conn.RemoteAddr().String()] = s
	return s
}

func (m *Manager) removeSession(addr string) {
	m.sessionsMu.Lock()
	defer m.sessionsMu.Unlock()
	delete(m.sessions, addr)
}

func (m *Manager) sessionFor(addr string) (*Session, bool) {
	m.sessionsMu.Lock()
	defer m.sessionsMu.Unlock()
	s, ok := m.sessions[addr]
	return s, ok
}

func (m *Manager) bindOwner(ownerID uint64, s *Session) {
	m.sessionsMu.Lock()
	defer m.sessionsMu.Unlock()
	m.byOwner[ownerID] = s
}

func (m *Manager) sessionForOwner(ownerID uint64) (*Session, bool) {
	m.sessionsMu.Lock()
	defer m.sessionsMu.Unlock()
	s, ok := m.byOwner[ownerID]
	return s, ok
}

// handleConnection reads whatever is available on the connection,
// extracts complete OE frames, and dispatches each to handleFrame. Any
// leftover partial frame is carried forward until more bytes arrive.
func (m *Manager) handleConnection(t *tomb.Tomb, task any) error {
	conn, ok := task.(net.Conn)
	if !ok {
		return ErrImproperConversion
	}
	addr := conn.RemoteAddr().String()

	defer func() {
		m.removeSession(addr)
		if err := conn.Close(); err != nil {
			log.Error().Str("addr", addr).Err(err).Msg("oe: error closing connection")
		}
	}()

	var pending []byte
	buf := make([]byte, maxRecvSize)
	for {
		select {
		case <-t.Dying():
			return nil
		default:
		}

		if err := conn.SetDeadline(time.Now().Add(defaultConnTimeout)); err != nil {
			return nil
		}
		n, err := conn.Read(buf)
		if err != nil {
			return nil
		}

		pending = append(pending, buf[:n]...)
		var frames [][]byte
		frames, pending = codec.ExtractFrames(pending)
		for _, frame := range frames {
			if err := m.handleFrame(addr, frame); err != nil {
				log.Error().Err(err).Str("addr", addr).Msg("oe: error handling frame")
			}
		}
	}
}

func (m *Manager) handleFrame(addr string, raw []byte) error {
	session, ok := m.sessionFor(addr)
	if !ok {
		return ErrClientDoesNotExist
	}

	msg, err := codec.Parse(raw)
	if err != nil {
		return err
	}
	mtype, ok := msg.MsgType()
	if !ok {
		return codec.ErrTagNotPresent
	}

	switch mtype {
	case codec.MsgTypeLogon:
		return m.handleLogon(session, msg)
	case codec.MsgTypeHeartbeat:
		return nil
	case codec.MsgTypeNewOrderSingle:
		return m.handleNewOrderSingle(session, msg)
	case codec.MsgTypeOrderCancelRequest:
		return m.handleCancelRequest(session, msg)
	default:
		return fmt.Errorf("oe: unsupported msg type %q", mtype)
	}
}

func (m *Manager) handleLogon(s *Session, msg *codec.Message) error {
	logon, err := codec.ParseLogon(msg)
	if err != nil {
		return err
	}
	return s.Logon(logon.SenderCompID, logon.TargetCompID, logon.HeartBtInt)
}

func (m *Manager) handleNewOrderSingle(s *Session, msg *codec.Message) error {
	if s.Status != LoggedOn {
		return ErrNotLoggedOn
	}
	nos, err := codec.ParseNewOrderSingle(msg)
	if err != nil {
		if nos == nil {
			return err
		}
		side := common.Buy
		if nos.Side == codec.SideSell {
			side = common.Sell
		}
		report := bridge.RejectReport(nos.ClOrdID, nos.Symbol, side, err)
		return s.Send(report.Encode())
	}
	if nos.SenderCompID == "" {
		nos.SenderCompID = s.SenderCompID
	}
	order, err := bridge.ToOrder(nos)
	if err != nil {
		side := common.Buy
		if nos.Side == codec.SideSell {
			side = common.Sell
		}
		report := bridge.RejectReport(nos.ClOrdID, nos.Symbol, side, err)
		return s.Send(report.Encode())
	}

	m.bindOwner(order.OwnerID, s)
	result, placeErr := m.eng.PlaceOrder(order)
	if placeErr != nil && result == nil {
		report := bridge.RejectReport(nos.ClOrdID, nos.Symbol, order.Side, placeErr)
		return s.Send(report.Encode())
	}

	s.TrackOrder(order.ClOrdID, result.Order.ID)
	for _, trade := range result.Trades {
		report := bridge.TradeReport(result.Order, trade, counterpartyOwnerID(result.Order, trade))
		if err := s.Send(report.Encode()); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) handleCancelRequest(s *Session, msg *codec.Message) error {
	if s.Status != LoggedOn {
		return ErrNotLoggedOn
	}
	req, err := codec.ParseOrderCancelRequest(msg)
	if err != nil {
		return err
	}
	symbol, origClOrdID := bridge.ToCancelLookup(req)
	orderID, ok := s.ResolveOrder(origClOrdID)
	if !ok {
		return ErrClientDoesNotExist
	}
	order, err := m.eng.CancelOrder(symbol, orderID)
	if err != nil {
		report := bridge.RejectReport(req.ClOrdID, symbol, common.Buy, err)
		return s.Send(report.Encode())
	}
	return s.Send((&codec.ExecutionReport{
		OrderID:   strconv.FormatUint(order.ID, 10),
		ClOrdID:   order.ClOrdID,
		ExecType:  codec.ExecStatusCanceled,
		OrdStatus: codec.ExecStatusCanceled,
		Symbol:    order.Symbol,
	}).Encode())
}

func counterpartyOwnerID(order *common.Order, trade common.Trade) uint64 {
	if order.Side == common.Buy {
		return trade.SellOwnerID
	}
	return trade.BuyOwnerID
}

// OrderAccepted implements engine.Reporter: it is invoked for
// cascade-generated orders, which never had a waiting caller, and
// routes their execution reports to whichever session owns that order.
func (m *Manager) OrderAccepted(order *common.Order, trades []common.Trade) {
	s, ok := m.sessionForOwner(order.OwnerID)
	if !ok {
		return
	}
	for _, trade := range trades {
		report := bridge.TradeReport(order, trade, counterpartyOwnerID(order, trade))
		if err := s.Send(report.Encode()); err != nil {
			log.Error().Err(err).Msg("oe: failed to deliver cascade trade report")
		}
	}
}

// OrderRejected implements engine.Reporter for the cascade path.
func (m *Manager) OrderRejected(order *common.Order, reason error) {
	s, ok := m.sessionForOwner(order.OwnerID)
	if !ok {
		return
	}
	report := bridge.RejectReport(order.ClOrdID, order.Symbol, order.Side, reason)
	if err := s.Send(report.Encode()); err != nil {
		log.Error().Err(err).Msg("oe: failed to deliver cascade rejection report")
	}
}
