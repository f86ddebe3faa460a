package config

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mgilson/bgpd/bgperr"
	"github.com/mgilson/bgpd/transport"
)

func TestParseValid(t *testing.T) {
	c, err := Parse([]string{"64512", "127.0.0.1", "64513", "127.0.0.2", "active", "10.100.220.0/24"})
	require.NoError(t, err)
	require.Equal(t, uint16(64512), c.LocalAS)
	require.Equal(t, netip.MustParseAddr("127.0.0.1"), c.LocalIP)
	require.Equal(t, uint16(64513), c.RemoteAS)
	require.Equal(t, netip.MustParseAddr("127.0.0.2"), c.RemoteIP)
	require.Equal(t, transport.Active, c.Mode)
	require.Equal(t, []netip.Prefix{netip.MustParsePrefix("10.100.220.0/24")}, c.Networks)
}

func TestParseModeCaseInsensitive(t *testing.T) {
	c, err := Parse([]string{"1", "127.0.0.1", "2", "127.0.0.2", "Passive"})
	require.NoError(t, err)
	require.Equal(t, transport.Passive, c.Mode)
}

func TestParseNoNetworksIsValid(t *testing.T) {
	c, err := Parse([]string{"1", "127.0.0.1", "2", "127.0.0.2", "active"})
	require.NoError(t, err)
	require.Empty(t, c.Networks)
}

func TestParseTooFewArgs(t *testing.T) {
	_, err := Parse([]string{"1", "127.0.0.1"})
	require.ErrorIs(t, err, bgperr.ErrConfigParse)
}

func TestParseInvalidAS(t *testing.T) {
	_, err := Parse([]string{"not-a-number", "127.0.0.1", "2", "127.0.0.2", "active"})
	require.ErrorIs(t, err, bgperr.ErrConfigParse)
}

func TestParseASOutOfRange(t *testing.T) {
	_, err := Parse([]string{"70000", "127.0.0.1", "2", "127.0.0.2", "active"})
	require.ErrorIs(t, err, bgperr.ErrConfigParse)
}

func TestParseInvalidMode(t *testing.T) {
	_, err := Parse([]string{"1", "127.0.0.1", "2", "127.0.0.2", "sideways"})
	require.ErrorIs(t, err, bgperr.ErrConfigParse)
}

func TestParseInvalidNetwork(t *testing.T) {
	_, err := Parse([]string{"1", "127.0.0.1", "2", "127.0.0.2", "active", "not-a-prefix"})
	require.ErrorIs(t, err, bgperr.ErrConfigParse)
}
