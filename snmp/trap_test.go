package snmp

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrapListenerHasStableID(t *testing.T) {
	received := make(chan *TrapPDU, 1)
	l := NewTrapListener(func(trap *TrapPDU) { received <- trap }, WithListenAddress("127.0.0.1:0"))
	assert.NotEmpty(t, l.ID)
}

func TestTrapListenerReceivesV1Trap(t *testing.T) {
	received := make(chan *TrapPDU, 1)
	l := NewTrapListener(
		func(trap *TrapPDU) { received <- trap },
		WithListenAddress("127.0.0.1:0"),
	)

	require.NoError(t, l.Start(context.Background()))
	defer l.Stop()

	addr := l.Address()

	trap := NewTrapV1(
		MustParseOID("1.3.6.1.4.1.9999"),
		[4]byte{10, 0, 0, 5},
		6, 2, 100,
		Variable{OID: MustParseOID("1.3.6.1.2.1.1.1.0"), Type: TypeOctetString, Value: []byte("x")},
	)
	msg := NewTrapV1Message("public", trap)
	data, err := msg.Build(0)
	require.NoError(t, err)

	conn, err := net.Dial("udp", addr)
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.Write(data)
	require.NoError(t, err)

	select {
	case got := <-received:
		assert.Equal(t, "public", got.Community)
		assert.Equal(t, 6, got.GenericTrap)
		assert.Equal(t, 2, got.SpecificTrap)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for trap delivery")
	}

	assert.EqualValues(t, 1, l.Metrics().TrapsReceived.Value())
}

func TestTrapListenerRejectsMismatchedCommunity(t *testing.T) {
	received := make(chan *TrapPDU, 1)
	l := NewTrapListener(
		func(trap *TrapPDU) { received <- trap },
		WithListenAddress("127.0.0.1:0"),
		WithTrapCommunity("expected"),
	)
	require.NoError(t, l.Start(context.Background()))
	defer l.Stop()

	trap := NewTrapV1(MustParseOID("1.3.6.1.4.1.1"), [4]byte{1, 1, 1, 1}, 0, 0, 0)
	msg := NewTrapV1Message("wrong", trap)
	data, err := msg.Build(0)
	require.NoError(t, err)

	conn, err := net.Dial("udp", l.Address())
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.Write(data)
	require.NoError(t, err)

	select {
	case <-received:
		t.Fatal("handler should not fire on community mismatch")
	case <-time.After(200 * time.Millisecond):
	}
}
