package session

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pipeConn(t *testing.T) (net.Conn, net.Conn) {
	t.Helper()
	a, b := net.Pipe()
	t.Cleanup(func() { a.Close(); b.Close() })
	return a, b
}

func TestSessionLogonTransitionsStatus(t *testing.T) {
	a, _ := pipeConn(t)
	s := New(a)
	assert.Equal(t, PendingLogon, s.Status)

	require.NoError(t, s.Logon("EXCH", "CLIENT1", 30))
	assert.Equal(t, LoggedOn, s.Status)
	assert.Equal(t, 30*time.Second, s.HeartbeatInterval)

	err := s.Logon("EXCH", "CLIENT1", 30)
	assert.ErrorIs(t, err, ErrAlreadyLoggedOn)
}

func TestSessionSequenceTracking(t *testing.T) {
	a, _ := pipeConn(t)
	s := New(a)

	assert.True(t, s.RecordInbound(1))
	assert.True(t, s.RecordInbound(2))
	assert.False(t, s.RecordInbound(4), "gap should be reported as out of order")
}

func TestSessionTrackAndResolveOrder(t *testing.T) {
	a, _ := pipeConn(t)
	s := New(a)

	s.TrackOrder("CL1", 99)
	id, ok := s.ResolveOrder("CL1")
	require.True(t, ok)
	assert.Equal(t, uint64(99), id)

	_, ok = s.ResolveOrder("missing")
	assert.False(t, ok)
}

func TestSessionIsStale(t *testing.T) {
	a, _ := pipeConn(t)
	s := New(a)
	require.NoError(t, s.Logon("EXCH", "CLIENT1", 1))

	assert.False(t, s.IsStale(time.Now()))
	assert.True(t, s.IsStale(time.Now().Add(5*time.Second)))
}
