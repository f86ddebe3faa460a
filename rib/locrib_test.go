package rib

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mgilson/bgpd/kernel"
	"github.com/mgilson/bgpd/wire"
)

func TestNewLocRibInstallsLocallyOriginatedNetworks(t *testing.T) {
	kt := &kernel.Noop{}
	loc, err := NewLocRib(64512, netip.MustParseAddr("10.0.0.1"), []netip.Prefix{
		netip.MustParsePrefix("192.168.1.0/24"),
	}, kt)
	require.NoError(t, err)
	require.True(t, loc.DoesContainNewRoute())

	routes := loc.snapshotRoutes()
	require.Len(t, routes, 1)
	origin, ok := routes[0].Attributes.Origin()
	require.True(t, ok)
	require.Equal(t, wire.OriginIGP, origin)

	asPath, ok := routes[0].Attributes.AsPath()
	require.True(t, ok)
	require.Empty(t, asPath.AS)
}

func TestInstallFromAdjRibInSkipsOwnASInPath(t *testing.T) {
	loc, err := NewLocRib(64512, netip.MustParseAddr("10.0.0.1"), nil, &kernel.Noop{})
	require.NoError(t, err)

	adjIn := NewAdjRibIn()
	adjIn.InstallFromUpdate(wire.Update{
		PathAttributes: []wire.PathAttribute{
			wire.NewOrigin(wire.OriginIGP),
			wire.NewAsPathAttr(wire.AsPath{Kind: wire.AsSequence, AS: []uint16{64512}}), // contains loc's own AS
			wire.NewNextHop(netip.MustParseAddr("172.16.0.1")),
		},
		NLRI: []netip.Prefix{netip.MustParsePrefix("203.0.113.0/24")},
	})

	loc.InstallFromAdjRibIn(adjIn)
	require.False(t, loc.DoesContainNewRoute())
	require.Empty(t, loc.snapshotRoutes())
}

func TestInstallFromAdjRibInAcceptsCleanRoute(t *testing.T) {
	loc, err := NewLocRib(64512, netip.MustParseAddr("10.0.0.1"), nil, &kernel.Noop{})
	require.NoError(t, err)

	adjIn := NewAdjRibIn()
	adjIn.InstallFromUpdate(wire.Update{
		PathAttributes: []wire.PathAttribute{
			wire.NewOrigin(wire.OriginIGP),
			wire.NewAsPathAttr(wire.AsPath{Kind: wire.AsSequence, AS: []uint16{64513}}),
			wire.NewNextHop(netip.MustParseAddr("172.16.0.1")),
		},
		NLRI: []netip.Prefix{netip.MustParsePrefix("203.0.113.0/24")},
	})

	loc.InstallFromAdjRibIn(adjIn)
	require.True(t, loc.DoesContainNewRoute())
	require.Len(t, loc.snapshotRoutes(), 1)
}

func TestWriteToKernelRoutingTableSkipsRoutesWithoutNextHop(t *testing.T) {
	loc, err := NewLocRib(64512, netip.MustParseAddr("10.0.0.1"), nil, &kernel.Noop{})
	require.NoError(t, err)

	adjIn := NewAdjRibIn()
	adjIn.InstallFromUpdate(wire.Update{
		PathAttributes: []wire.PathAttribute{wire.NewOrigin(wire.OriginIGP)}, // no NextHop
		NLRI:           []netip.Prefix{netip.MustParsePrefix("198.51.100.0/24")},
	})
	loc.InstallFromAdjRibIn(adjIn)

	kt := &kernel.Noop{}
	loc.WriteToKernelRoutingTable(kt, nil)
	require.Empty(t, kt.Added)
}

func TestWriteToKernelRoutingTableInstallsRoutesWithNextHop(t *testing.T) {
	loc, err := NewLocRib(64512, netip.MustParseAddr("10.0.0.1"), nil, &kernel.Noop{})
	require.NoError(t, err)

	adjIn := NewAdjRibIn()
	adjIn.InstallFromUpdate(wire.Update{
		PathAttributes: []wire.PathAttribute{
			wire.NewOrigin(wire.OriginIGP),
			wire.NewAsPathAttr(wire.AsPath{Kind: wire.AsSequence, AS: []uint16{64513}}),
			wire.NewNextHop(netip.MustParseAddr("172.16.0.1")),
		},
		NLRI: []netip.Prefix{netip.MustParsePrefix("198.51.100.0/24")},
	})
	loc.InstallFromAdjRibIn(adjIn)

	kt := &kernel.Noop{}
	loc.WriteToKernelRoutingTable(kt, nil)
	require.Len(t, kt.Added, 1)
	require.Equal(t, netip.MustParsePrefix("198.51.100.0/24"), kt.Added[0].Dst)
	require.Equal(t, netip.MustParseAddr("172.16.0.1"), kt.Added[0].Gw)
}
