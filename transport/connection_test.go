package transport

import (
	"context"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mgilson/bgpd/wire"
)

func dialPair(t *testing.T) (*Connection, *Connection) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	passiveReady := make(chan *Connection, 1)
	passiveErr := make(chan error, 1)

	go func() {
		c, err := Connect(ctx, Config{Mode: Passive, LocalIP: netip.MustParseAddr("127.0.0.1")})
		if err != nil {
			passiveErr <- err
			return
		}
		passiveReady <- c
	}()

	// give the listener a moment to bind before the active side dials
	time.Sleep(50 * time.Millisecond)

	active, err := Connect(ctx, Config{Mode: Active, RemoteIP: netip.MustParseAddr("127.0.0.1")})
	require.NoError(t, err)

	select {
	case c := <-passiveReady:
		return active, c
	case err := <-passiveErr:
		t.Fatalf("passive connect failed: %v", err)
		return nil, nil
	case <-ctx.Done():
		t.Fatal("timed out waiting for passive accept")
		return nil, nil
	}
}

func pollMessage(t *testing.T, c *Connection) *wire.Message {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		msg, err := c.GetMessage()
		require.NoError(t, err)
		if msg != nil {
			return msg
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("timed out waiting for message")
	return nil
}

func TestConnectionSendAndGetMessageKeepalive(t *testing.T) {
	a, b := dialPair(t)
	defer a.Close()
	defer b.Close()

	require.NoError(t, a.Send(wire.Message{Type: wire.TypeKeepalive}))

	msg := pollMessage(t, b)
	require.Equal(t, wire.TypeKeepalive, msg.Type)
}

func TestConnectionFramesMultipleMessages(t *testing.T) {
	a, b := dialPair(t)
	defer a.Close()
	defer b.Close()

	open := wire.NewOpen(64512, netip.MustParseAddr("127.0.0.1"))
	require.NoError(t, a.Send(wire.Message{Type: wire.TypeOpen, Open: open}))
	require.NoError(t, a.Send(wire.Message{Type: wire.TypeKeepalive}))

	first := pollMessage(t, b)
	require.Equal(t, wire.TypeOpen, first.Type)
	require.Equal(t, open, first.Open)

	second := pollMessage(t, b)
	require.Equal(t, wire.TypeKeepalive, second.Type)
}

func TestGetMessageReturnsNilWithoutFullMessage(t *testing.T) {
	a, b := dialPair(t)
	defer a.Close()
	defer b.Close()

	msg, err := b.GetMessage()
	require.NoError(t, err)
	require.Nil(t, msg)
}
