package snmp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientDefaults(t *testing.T) {
	c := NewClient()
	opts := c.Options()

	assert.Equal(t, DefaultPort, opts.Port)
	assert.Equal(t, Version2c, opts.Version)
	assert.Equal(t, "buffer", opts.StreamingMode)
	assert.Equal(t, "growable", opts.ContainerBackend)
	assert.Equal(t, 6, opts.ContainerCapacity)
	assert.Empty(t, opts.ContextEngineID)
	assert.False(t, c.IsConnected())
}

func TestNewClientGeneratesContextEngineIDWhenSecured(t *testing.T) {
	c := NewClient(WithSecurityLevel(AuthNoPriv))
	assert.NotEmpty(t, c.Options().ContextEngineID)
}

func TestNewClientHonorsExplicitContextEngineID(t *testing.T) {
	c := NewClient(WithSecurityLevel(AuthPriv), WithContextEngineID("engine-1"))
	assert.Equal(t, "engine-1", c.Options().ContextEngineID)
}

func TestSendRequestRequiresConnection(t *testing.T) {
	c := NewClient(WithTarget("198.51.100.1"))
	_, err := c.Get(context.Background(), MustParseOID("1.3.6.1.2.1.1.1.0"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestGetBulkRejectedOnV1(t *testing.T) {
	c := NewClient(WithVersion(Version1))
	_, err := c.GetBulk(context.Background(), 0, 10, MustParseOID("1.3.6.1.2.1.2.2.1"))
	require.Error(t, err)
}

func TestClientConnectFixedCapacityRejectsOversizedRequest(t *testing.T) {
	c := NewClient(
		WithTarget("127.0.0.1"),
		WithPort(16211),
		WithContainerBackend("fixed-capacity"),
		WithContainerCapacity(1),
		WithTimeout(200*time.Millisecond),
	)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, c.Connect(ctx))
	defer c.Disconnect(context.Background())

	_, err := c.Set(ctx, Variable{OID: MustParseOID("1.3.6.1.2.1.1.6.0"), Type: TypeInteger, Value: int64(1)},
		Variable{OID: MustParseOID("1.3.6.1.2.1.1.4.0"), Type: TypeInteger, Value: int64(2)})
	require.Error(t, err)
	var capErr *CapacityExceededError
	assert.ErrorAs(t, err, &capErr)
}
