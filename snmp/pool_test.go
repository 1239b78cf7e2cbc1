package snmp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolGetEmptyPool(t *testing.T) {
	p := NewPool(WithPoolSize(0))
	_, err := p.Get()
	require.Error(t, err)
}

func TestPoolConnectRoundRobin(t *testing.T) {
	p := NewPool(
		WithPoolSize(2),
		WithPoolClientOptions(
			WithTarget("127.0.0.1"),
			WithPort(16212),
			WithTimeout(200*time.Millisecond),
		),
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, p.Connect(ctx))
	defer p.Close()

	assert.Equal(t, 2, p.Size())
	assert.Equal(t, 2, p.HealthyCount())

	seen := map[*Client]bool{}
	for i := 0; i < 4; i++ {
		c, err := p.Get()
		require.NoError(t, err)
		seen[c] = true
		p.Release(c)
	}
	assert.Len(t, seen, 2, "round robin should visit both pooled clients")
}

func TestPoolMetricsTrackClientCounts(t *testing.T) {
	p := NewPool(
		WithPoolSize(1),
		WithPoolClientOptions(WithTarget("127.0.0.1"), WithPort(16213)),
	)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, p.Connect(ctx))
	defer p.Close()

	assert.EqualValues(t, 1, p.Metrics().TotalClients.Value())
	assert.EqualValues(t, 1, p.Metrics().HealthyClients.Value())
}
