package relay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub, channelID, endpointID string) *Client {
	return &Client{hub: hub, send: make(chan []byte, 8), ChannelID: channelID, EndpointID: endpointID}
}

func TestRelayForwardsFrameToOtherEndpoint(t *testing.T) {
	hub := NewHub(IdealTransport{}, nil)
	go hub.Run()
	defer hub.Stop()

	alice := newTestClient(hub, "chan-1", "alice")
	bob := newTestClient(hub, "chan-1", "bob")
	require.NoError(t, alice.Join())
	require.NoError(t, bob.Join())

	hub.frame <- incomingFrame{from: alice, data: []byte("hello bob")}

	select {
	case got := <-bob.send:
		require.Equal(t, "hello bob", string(got))
	case <-time.After(time.Second):
		t.Fatal("bob never received the relayed frame")
	}
}

func TestThirdDistinctEndpointRejected(t *testing.T) {
	hub := NewHub(IdealTransport{}, nil)
	go hub.Run()
	defer hub.Stop()

	alice := newTestClient(hub, "chan-1", "alice")
	bob := newTestClient(hub, "chan-1", "bob")
	carol := newTestClient(hub, "chan-1", "carol")
	require.NoError(t, alice.Join())
	require.NoError(t, bob.Join())
	require.ErrorIs(t, carol.Join(), ErrChannelFull)
}

func TestFrameWithNoPeerIsDropped(t *testing.T) {
	hub := NewHub(IdealTransport{}, nil)
	go hub.Run()
	defer hub.Stop()

	alice := newTestClient(hub, "chan-1", "alice")
	require.NoError(t, alice.Join())

	hub.frame <- incomingFrame{from: alice, data: []byte("nobody home")}

	select {
	case <-alice.send:
		t.Fatal("sender should never receive its own frame back")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestAdversarialTransportCanDropEveryFrame(t *testing.T) {
	hub := NewHub(&AdversarialTransport{DropProbability: 1}, nil)
	go hub.Run()
	defer hub.Stop()

	alice := newTestClient(hub, "chan-1", "alice")
	bob := newTestClient(hub, "chan-1", "bob")
	require.NoError(t, alice.Join())
	require.NoError(t, bob.Join())

	hub.frame <- incomingFrame{from: alice, data: []byte("never arrives")}

	select {
	case <-bob.send:
		t.Fatal("bob should not receive a frame under a 100% drop transport")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRejoiningSameEndpointReplacesNotRejects(t *testing.T) {
	hub := NewHub(IdealTransport{}, nil)
	go hub.Run()
	defer hub.Stop()

	alice := newTestClient(hub, "chan-1", "alice")
	bob := newTestClient(hub, "chan-1", "bob")
	require.NoError(t, alice.Join())
	require.NoError(t, bob.Join())

	aliceReconnect := newTestClient(hub, "chan-1", "alice")
	require.NoError(t, aliceReconnect.Join())
}
