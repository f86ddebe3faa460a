// Package rib implements the three-tier Routing Information Base
// pipeline — LocRib, AdjRibOut, AdjRibIn — and the per-entry New/
// Unchanged dirty-flag Rib they share.
package rib

import (
	"net/netip"

	"github.com/mgilson/bgpd/wire"
)

// AttrList is an immutable, reference-shared list of path attributes.
// Multiple RibEntries — across LocRib, AdjRibOut and AdjRibIn — may
// point at the same AttrList; it is never mutated after construction.
type AttrList struct {
	attrs []wire.PathAttribute
}

// NewAttrList builds an AttrList from a fixed set of attributes. The
// slice passed in is not retained directly — the caller's backing array
// is copied once so later appends on the caller's side can never be
// observed here.
func NewAttrList(attrs ...wire.PathAttribute) *AttrList {
	dup := make([]wire.PathAttribute, len(attrs))
	copy(dup, attrs)
	return &AttrList{attrs: dup}
}

// Attrs returns the underlying slice. Callers must treat it as
// read-only.
func (l *AttrList) Attrs() []wire.PathAttribute {
	if l == nil {
		return nil
	}
	return l.attrs
}

// Origin returns the Origin attribute, if present.
func (l *AttrList) Origin() (wire.Origin, bool) {
	for _, a := range l.Attrs() {
		if a.Kind == wire.KindOrigin {
			return a.Origin, true
		}
	}
	return 0, false
}

// AsPath returns the AsPath attribute, if present.
func (l *AttrList) AsPath() (wire.AsPath, bool) {
	for _, a := range l.Attrs() {
		if a.Kind == wire.KindAsPath {
			return a.AsPath, true
		}
	}
	return wire.AsPath{}, false
}

// NextHop returns the NextHop attribute, if present. Absence is not an
// error — LocRib.WriteToKernelRoutingTable simply skips such routes.
func (l *AttrList) NextHop() (netip.Addr, bool) {
	for _, a := range l.Attrs() {
		if a.Kind == wire.KindNextHop {
			return a.NextHop, true
		}
	}
	return netip.Addr{}, false
}

func equalAttrs(a, b []wire.PathAttribute) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
