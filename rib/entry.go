package rib

import (
	"encoding/hex"
	"net/netip"

	"github.com/mgilson/bgpd/wire"
)

// RibEntry is one route as held by any of the three Ribs: a network
// together with the (possibly shared) attribute list describing how to
// reach it. Two entries are the same route — for dirty-flag and
// dedup purposes — only if both the network and every attribute match;
// two routes to the same prefix via different paths are distinct
// entries that coexist.
type RibEntry struct {
	Network    netip.Prefix
	Attributes *AttrList
}

// NewRibEntry builds a RibEntry, canonicalizing the network so that
// host bits beyond the prefix length never leak into comparisons.
func NewRibEntry(network netip.Prefix, attrs *AttrList) RibEntry {
	return RibEntry{Network: network.Masked(), Attributes: attrs}
}

// key is the map key used by Rib: the network plus a canonical
// encoding of the attribute list, so entries that differ only in
// attribute content are tracked as separate routes.
func (e RibEntry) key() string {
	return e.Network.String() + "#" + hex.EncodeToString(wire.EncodeAttributes(e.Attributes.Attrs()))
}

// Equal reports whether two entries describe the same network via
// attribute-for-attribute identical paths.
func (e RibEntry) Equal(o RibEntry) bool {
	return e.Network == o.Network && equalAttrs(e.Attributes.Attrs(), o.Attributes.Attrs())
}
