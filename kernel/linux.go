package kernel

import (
	"fmt"
	"net"
	"net/netip"

	nl "github.com/vishvananda/netlink"

	"github.com/mgilson/bgpd/bgperr"
)

// LinuxTable is a Table backed by netlink — the kernel routing table of
// the host this speaker runs on.
type LinuxTable struct{}

// Lookup asks the kernel which route(s) currently cover network,
// restricted to the addresses actually assigned within it (so a /24
// configured as a locally-originated network resolves to whatever
// connected prefix the kernel has for addresses inside it).
func (LinuxTable) Lookup(network netip.Prefix) ([]netip.Prefix, error) {
	addr := network.Addr()
	routes, err := nl.RouteGet(net.IP(addr.AsSlice()))
	if err != nil {
		return nil, fmt.Errorf("%w: route lookup for %s: %v", bgperr.ErrKernelRoutingTable, network, err)
	}

	var out []netip.Prefix
	for _, r := range routes {
		if r.Dst == nil {
			continue
		}
		p, ok := netip.AddrFromSlice(r.Dst.IP.To4())
		if !ok {
			continue
		}
		ones, _ := r.Dst.Mask.Size()
		out = append(out, netip.PrefixFrom(p, ones))
	}
	if len(out) == 0 {
		out = append(out, network)
	}
	return out, nil
}

// Add installs dst as reachable via gw, replacing any existing route to
// the same destination.
func (LinuxTable) Add(dst netip.Prefix, gw netip.Addr) error {
	route := &nl.Route{
		Dst: &net.IPNet{
			IP:   net.IP(dst.Addr().AsSlice()),
			Mask: net.CIDRMask(dst.Bits(), 32),
		},
		Gw: net.IP(gw.AsSlice()),
	}
	if err := nl.RouteReplace(route); err != nil {
		return fmt.Errorf("%w: install %s via %s: %v", bgperr.ErrKernelRoutingTable, dst, gw, err)
	}
	return nil
}
