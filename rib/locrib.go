package rib

import (
	"fmt"
	"net/netip"
	"sync"

	"github.com/mgilson/bgpd/kernel"
	"github.com/mgilson/bgpd/wire"
)

// LocRib is the single route table shared by every peer task of one
// speaker. It performs no best-path selection: every accepted route is
// kept. Every method locks internally and releases the lock before
// any I/O (kernel syscalls, let alone network sends) — the only work
// done under the lock is reading or mutating the in-memory Rib.
type LocRib struct {
	mu      sync.Mutex
	rib     *Rib
	localAS uint16
}

// NewLocRib builds the locally-originated portion of a LocRib: for each
// configured network, it asks kt which concrete prefixes the kernel
// actually holds for it, and installs one entry per prefix with Origin
// IGP, an empty AS_SEQUENCE, and NextHop localIP.
func NewLocRib(localAS uint16, localIP netip.Addr, networks []netip.Prefix, kt kernel.Table) (*LocRib, error) {
	r := NewRib()

	for _, n := range networks {
		matches, err := kt.Lookup(n)
		if err != nil {
			return nil, fmt.Errorf("resolving locally-originated network %s: %w", n, err)
		}
		for _, m := range matches {
			attrs := NewAttrList(
				wire.NewOrigin(wire.OriginIGP),
				wire.NewAsPathAttr(wire.AsPath{Kind: wire.AsSequence}),
				wire.NewNextHop(localIP),
			)
			r.Insert(NewRibEntry(m, attrs))
		}
	}

	return &LocRib{rib: r, localAS: localAS}, nil
}

// InstallFromAdjRibIn copies every route in adjIn into the shared
// table, skipping any whose AS_PATH already contains this speaker's own
// AS — the loop-prevention check RFC 4271 §9.1.2 requires before a
// received route is accepted into local use.
func (l *LocRib) InstallFromAdjRibIn(adjIn *AdjRibIn) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, e := range adjIn.Routes() {
		asPath, _ := e.Attributes.AsPath()
		if asPath.Contains(l.localAS) {
			continue
		}
		l.rib.Insert(e)
	}
}

// DoesContainNewRoute reports whether any entry is still flagged New.
func (l *LocRib) DoesContainNewRoute() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rib.DoesContainNewRoute()
}

// UpdateToAllUnchanged clears every entry's dirty flag.
func (l *LocRib) UpdateToAllUnchanged() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rib.UpdateToAllUnchanged()
}

// Routes returns a point-in-time copy of every current entry, for
// status reporting.
func (l *LocRib) Routes() []RibEntry {
	return l.snapshotRoutes()
}

// snapshotRoutes copies out every current entry under the lock, so
// callers (AdjRibOut.InstallFromLocRib, WriteToKernelRoutingTable) can
// iterate and perform I/O without holding it.
func (l *LocRib) snapshotRoutes() []RibEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rib.Routes()
}

// WriteToKernelRoutingTable installs every current route into kt.
// Routes without a NextHop attribute are skipped. Per-route failures
// are reported to onError (if non-nil) rather than aborting the pass —
// one bad route must not block the rest from being installed.
func (l *LocRib) WriteToKernelRoutingTable(kt kernel.Table, onError func(netip.Prefix, error)) {
	for _, e := range l.snapshotRoutes() {
		nh, ok := e.Attributes.NextHop()
		if !ok {
			continue
		}
		if err := kt.Add(e.Network, nh); err != nil && onError != nil {
			onError(e.Network, err)
		}
	}
}
