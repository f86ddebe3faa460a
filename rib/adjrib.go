package rib

import (
	"encoding/hex"
	"net/netip"

	"github.com/mgilson/bgpd/wire"
)

// AdjRibOut is one peer's view of which LocRib routes have been
// selected for advertisement to it. It is owned by a single peer task
// and never shared, so unlike LocRib it takes no lock.
type AdjRibOut struct {
	rib *Rib
}

// NewAdjRibOut returns an empty AdjRibOut.
func NewAdjRibOut() *AdjRibOut {
	return &AdjRibOut{rib: NewRib()}
}

// InstallFromLocRib copies every LocRib route whose AS_PATH does not
// already contain remoteAS — sending a route back to the AS it came
// from would create a loop.
func (a *AdjRibOut) InstallFromLocRib(loc *LocRib, remoteAS uint16) {
	for _, e := range loc.snapshotRoutes() {
		asPath, _ := e.Attributes.AsPath()
		if asPath.Contains(remoteAS) {
			continue
		}
		a.rib.Insert(e)
	}
}

// DoesContainNewRoute reports whether any entry is still flagged New.
func (a *AdjRibOut) DoesContainNewRoute() bool {
	return a.rib.DoesContainNewRoute()
}

// UpdateToAllUnchanged clears every entry's dirty flag.
func (a *AdjRibOut) UpdateToAllUnchanged() {
	a.rib.UpdateToAllUnchanged()
}

// Routes returns every entry currently held.
func (a *AdjRibOut) Routes() []RibEntry {
	return a.rib.Routes()
}

type group struct {
	attrs    []wire.PathAttribute
	networks []netip.Prefix
}

// CreateUpdateMessages builds one Update per distinct attribute list
// held, grouping entries that share identical attributes (byte for
// byte, including AS_PATH segment order) into a single message with
// multiple NLRI. Before encoding, NEXT_HOP is rewritten to localIP and
// localAS is pushed onto AS_PATH, per the standard eBGP advertisement
// rule.
func (a *AdjRibOut) CreateUpdateMessages(localIP netip.Addr, localAS uint16) []wire.Update {
	groups := map[string]*group{}
	var order []string

	for _, e := range a.rib.Routes() {
		key := hex.EncodeToString(wire.EncodeAttributes(e.Attributes.Attrs()))
		g, ok := groups[key]
		if !ok {
			g = &group{attrs: e.Attributes.Attrs()}
			groups[key] = g
			order = append(order, key)
		}
		g.networks = append(g.networks, e.Network)
	}

	updates := make([]wire.Update, 0, len(order))
	for _, key := range order {
		g := groups[key]
		updates = append(updates, wire.Update{
			PathAttributes: rewriteForSend(g.attrs, localIP, localAS),
			NLRI:           g.networks,
		})
	}
	return updates
}

func rewriteForSend(attrs []wire.PathAttribute, localIP netip.Addr, localAS uint16) []wire.PathAttribute {
	out := make([]wire.PathAttribute, len(attrs))
	copy(out, attrs)
	for i, a := range out {
		switch a.Kind {
		case wire.KindNextHop:
			out[i] = wire.NewNextHop(localIP)
		case wire.KindAsPath:
			out[i] = wire.NewAsPathAttr(a.AsPath.Pushed(localAS))
		}
	}
	return out
}

// AdjRibIn is one peer's view of the routes it has received over the
// wire, before LocRib.InstallFromAdjRibIn filters and merges them into
// the shared table.
type AdjRibIn struct {
	rib *Rib
}

// NewAdjRibIn returns an empty AdjRibIn.
func NewAdjRibIn() *AdjRibIn {
	return &AdjRibIn{rib: NewRib()}
}

// InstallFromUpdate adds one RibEntry per NLRI carried in u, each
// sharing u's attribute list.
func (a *AdjRibIn) InstallFromUpdate(u wire.Update) {
	attrs := NewAttrList(u.PathAttributes...)
	for _, n := range u.NLRI {
		a.rib.Insert(NewRibEntry(n, attrs))
	}
}

// DoesContainNewRoute reports whether any entry is still flagged New.
func (a *AdjRibIn) DoesContainNewRoute() bool {
	return a.rib.DoesContainNewRoute()
}

// UpdateToAllUnchanged clears every entry's dirty flag.
func (a *AdjRibIn) UpdateToAllUnchanged() {
	a.rib.UpdateToAllUnchanged()
}

// Routes returns every entry currently held.
func (a *AdjRibIn) Routes() []RibEntry {
	return a.rib.Routes()
}
