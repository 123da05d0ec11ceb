package relay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIdealTransportDeliversExactlyOnceImmediately(t *testing.T) {
	deliveries := IdealTransport{}.Apply([]byte("frame"))
	require.Len(t, deliveries, 1)
	require.Equal(t, "frame", string(deliveries[0].Data))
	require.Zero(t, deliveries[0].Delay)
}

func TestAdversarialTransportDropProbabilityZeroAlwaysDelivers(t *testing.T) {
	transport := NewAdversarialTransport(0, 0, 0, time.Second, 1)
	for i := 0; i < 50; i++ {
		deliveries := transport.Apply([]byte("frame"))
		require.Len(t, deliveries, 1)
	}
}

func TestAdversarialTransportDuplicateProbabilityOneAlwaysDuplicates(t *testing.T) {
	transport := NewAdversarialTransport(0, 1, 0, time.Second, 2)
	deliveries := transport.Apply([]byte("frame"))
	require.Len(t, deliveries, 2)
	require.Equal(t, deliveries[0].Data, deliveries[1].Data)
}

func TestAdversarialTransportReorderProbabilityOneDelaysWithinBound(t *testing.T) {
	const maxDelay = 500 * time.Millisecond
	transport := NewAdversarialTransport(0, 0, 1, maxDelay, 3)
	deliveries := transport.Apply([]byte("frame"))
	require.Len(t, deliveries, 1)
	require.GreaterOrEqual(t, deliveries[0].Delay, time.Duration(0))
	require.Less(t, deliveries[0].Delay, maxDelay)
}

func TestAdversarialTransportIsDeterministicForAFixedSeed(t *testing.T) {
	a := NewAdversarialTransport(0.3, 0.3, 0.3, time.Second, 42)
	b := NewAdversarialTransport(0.3, 0.3, 0.3, time.Second, 42)

	for i := 0; i < 20; i++ {
		da := a.Apply([]byte("frame"))
		db := b.Apply([]byte("frame"))
		require.Equal(t, len(da), len(db))
	}
}
