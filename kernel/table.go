// Package kernel adapts LocRib's locally-originated routes and
// AdjRibIn's learned routes to the host's IP routing table.
package kernel

import "net/netip"

// Table is the seam between the RIB pipeline and the operating system's
// routing table. Lookup resolves an operator-configured network (which
// may be a summary of one or more locally-assigned prefixes) against
// what the kernel actually has connected or configured; Add installs a
// learned route with its next hop.
type Table interface {
	// Lookup returns the concrete prefixes the kernel holds that match
	// network — typically the interface-connected routes covering a
	// locally-originated advertisement.
	Lookup(network netip.Prefix) ([]netip.Prefix, error)

	// Add installs dst as reachable via gw, replacing any existing
	// route to the same destination.
	Add(dst netip.Prefix, gw netip.Addr) error
}
