package kernel

import "net/netip"

// Noop is a Table test double: Lookup echoes back the queried network
// unchanged and Add records every call it receives, for assertions in
// tests that exercise LocRib without a real kernel underneath.
type Noop struct {
	Added []Installed
}

// Installed records one Add call.
type Installed struct {
	Dst netip.Prefix
	Gw  netip.Addr
}

func (n *Noop) Lookup(network netip.Prefix) ([]netip.Prefix, error) {
	return []netip.Prefix{network}, nil
}

func (n *Noop) Add(dst netip.Prefix, gw netip.Addr) error {
	n.Added = append(n.Added, Installed{Dst: dst, Gw: gw})
	return nil
}
