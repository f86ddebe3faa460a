// Package peer implements the per-session event-driven FSM: it owns
// one Connection, one AdjRibOut, one AdjRibIn, a reference to the
// shared LocRib, and the event queue that sequences work between them.
package peer

import (
	"context"
	"fmt"
	"sync"

	"github.com/mgilson/bgpd/bgplog"
	"github.com/mgilson/bgpd/config"
	"github.com/mgilson/bgpd/kernel"
	"github.com/mgilson/bgpd/metrics"
	"github.com/mgilson/bgpd/queue"
	"github.com/mgilson/bgpd/rib"
	"github.com/mgilson/bgpd/transport"
	"github.com/mgilson/bgpd/wire"
)

// State is one of the five FSM states. There is no terminal state:
// Established is left by discarding the Peer, not by any event.
type State uint8

const (
	Idle State = iota
	Connect
	OpenSent
	OpenConfirm
	Established
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Connect:
		return "Connect"
	case OpenSent:
		return "OpenSent"
	case OpenConfirm:
		return "OpenConfirm"
	case Established:
		return "Established"
	default:
		return "Unknown"
	}
}

// Status is a point-in-time, read-only snapshot suitable for a JSON
// dump or a status endpoint.
type Status struct {
	RemoteIP       string `json:"remote_ip"`
	RemoteAS       uint16 `json:"remote_as"`
	State          string `json:"state"`
	LocRibRoutes   int    `json:"loc_rib_routes"`
	AdjRibInRoutes int    `json:"adj_rib_in_routes"`
}

// Peer drives one BGP session to one neighbor. tick must be called
// repeatedly by a single goroutine (Run does this). State may be read
// concurrently from another goroutine; Status also reads the unlocked
// AdjRibIn, so it is only safe once no tick is running.
type Peer struct {
	cfg config.Config
	kt  kernel.Table
	log bgplog.Logger

	loc    *rib.LocRib
	adjIn  *rib.AdjRibIn
	adjOut *rib.AdjRibOut

	queue *queue.Queue[Event]
	conn  *transport.Connection

	mu    sync.Mutex
	state State
}

// New constructs a Peer in the Idle state. loc is the speaker-wide
// shared LocRib; cfg describes this one neighbor.
func New(cfg config.Config, loc *rib.LocRib, kt kernel.Table, log bgplog.Logger) *Peer {
	p := &Peer{
		cfg:    cfg,
		kt:     kt,
		log:    log.With("peer", cfg.RemoteIP),
		loc:    loc,
		adjIn:  rib.NewAdjRibIn(),
		adjOut: rib.NewAdjRibOut(),
		queue:  queue.New[Event](),
		state:  Idle,
	}
	return p
}

// Run enqueues ManualStart and then calls tick in a loop until ctx is
// cancelled or a fatal error occurs (malformed bytes, a dead
// connection, a failed dial). A kernel-routing-table error never
// reaches here: LocRib.WriteToKernelRoutingTable hands each per-route
// failure to a callback that logs it, instead of failing the tick.
func (p *Peer) Run(ctx context.Context) error {
	p.queue.Enqueue(ManualStart())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := p.tick(ctx); err != nil {
			return err
		}
	}
}

// State reports the current FSM state.
func (p *Peer) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Peer) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
	metrics.StateTransitionsTotal.WithLabelValues(p.cfg.RemoteIP.String(), s.String()).Inc()
	metrics.PeerState.WithLabelValues(p.cfg.RemoteIP.String()).Set(float64(s))
}

// Status snapshots this peer's session and RIB state for reporting.
func (p *Peer) Status() Status {
	return Status{
		RemoteIP:       p.cfg.RemoteIP.String(),
		RemoteAS:       p.cfg.RemoteAS,
		State:          p.State().String(),
		LocRibRoutes:   len(p.loc.Routes()),
		AdjRibInRoutes: len(p.adjIn.Routes()),
	}
}

// tick performs up to two actions, in order: drain one already-decoded
// message from the connection (if any) into the event queue, then
// dequeue and apply one queued event. Either step may be a no-op —
// tick never blocks waiting for work.
func (p *Peer) tick(ctx context.Context) error {
	if p.conn != nil {
		msg, err := p.conn.GetMessage()
		if err != nil {
			return fmt.Errorf("peer %s: %w", p.cfg.RemoteIP, err)
		}
		if msg != nil {
			p.enqueueFromWire(*msg)
		}
	}

	ev, ok := p.queue.Dequeue()
	if !ok {
		return nil
	}

	return p.apply(ctx, ev)
}

func (p *Peer) enqueueFromWire(msg wire.Message) {
	metrics.MessagesReceivedTotal.WithLabelValues(p.cfg.RemoteIP.String(), msgTypeName(msg.Type)).Inc()

	switch msg.Type {
	case wire.TypeOpen:
		p.queue.Enqueue(BgpOpen(msg.Open))
	case wire.TypeKeepalive:
		p.queue.Enqueue(KeepAliveMsg(msg.Keepalive))
	case wire.TypeUpdate:
		p.queue.Enqueue(UpdateMsg(msg.Update))
	}
}

func (p *Peer) send(msg wire.Message) error {
	if err := p.conn.Send(msg); err != nil {
		return fmt.Errorf("peer %s: %w", p.cfg.RemoteIP, err)
	}
	metrics.MessagesSentTotal.WithLabelValues(p.cfg.RemoteIP.String(), msgTypeName(msg.Type)).Inc()
	return nil
}

func msgTypeName(t byte) string {
	switch t {
	case wire.TypeOpen:
		return "open"
	case wire.TypeKeepalive:
		return "keepalive"
	case wire.TypeUpdate:
		return "update"
	default:
		return "unknown"
	}
}
