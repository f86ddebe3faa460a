package peer

import (
	"context"
	"fmt"
	"net/netip"

	"github.com/mgilson/bgpd/metrics"
	"github.com/mgilson/bgpd/transport"
	"github.com/mgilson/bgpd/wire"
)

// apply runs one event through the transition table for the current
// state. Events the table does not list for the current state are
// no-ops: the state does not change and no action runs.
func (p *Peer) apply(ctx context.Context, ev Event) error {
	switch p.State() {
	case Idle:
		return p.applyIdle(ctx, ev)
	case Connect:
		return p.applyConnect(ev)
	case OpenSent:
		return p.applyOpenSent(ev)
	case OpenConfirm:
		return p.applyOpenConfirm(ev)
	case Established:
		return p.applyEstablished(ev)
	default:
		return nil
	}
}

func (p *Peer) applyIdle(ctx context.Context, ev Event) error {
	if ev.Kind != EvManualStart {
		return nil
	}

	conn, err := transport.Connect(ctx, transport.Config{
		Mode:     p.cfg.Mode,
		LocalIP:  p.cfg.LocalIP,
		RemoteIP: p.cfg.RemoteIP,
	})
	if err != nil {
		return fmt.Errorf("peer %s: %w", p.cfg.RemoteIP, err)
	}

	p.conn = conn
	p.setState(Connect)
	p.queue.Enqueue(TcpConnectionConfirmed())
	return nil
}

func (p *Peer) applyConnect(ev Event) error {
	if ev.Kind != EvTcpConnectionConfirmed {
		return nil
	}

	open := wire.NewOpen(p.cfg.LocalAS, p.cfg.LocalIP)
	if err := p.send(wire.Message{Type: wire.TypeOpen, Open: open}); err != nil {
		return err
	}
	p.setState(OpenSent)
	return nil
}

func (p *Peer) applyOpenSent(ev Event) error {
	if ev.Kind != EvBgpOpen {
		return nil
	}

	if err := p.send(wire.Message{Type: wire.TypeKeepalive}); err != nil {
		return err
	}
	p.setState(OpenConfirm)
	return nil
}

func (p *Peer) applyOpenConfirm(ev Event) error {
	if ev.Kind != EvKeepAliveMsg {
		return nil
	}

	p.setState(Established)
	p.queue.Enqueue(EstablishedEvent())
	return nil
}

func (p *Peer) applyEstablished(ev Event) error {
	switch ev.Kind {
	case EvEstablished, EvLocRibChanged:
		p.adjOut.InstallFromLocRib(p.loc, p.cfg.RemoteAS)
		if p.adjOut.DoesContainNewRoute() {
			p.queue.Enqueue(AdjRibOutChanged())
			p.adjOut.UpdateToAllUnchanged()
		}
		metrics.AdjRibOutRoutes.WithLabelValues(p.cfg.RemoteIP.String()).Set(float64(len(p.adjOut.Routes())))

	case EvAdjRibOutChanged:
		for _, u := range p.adjOut.CreateUpdateMessages(p.cfg.LocalIP, p.cfg.LocalAS) {
			if err := p.send(wire.Message{Type: wire.TypeUpdate, Update: u}); err != nil {
				return err
			}
		}

	case EvUpdateMsg:
		p.adjIn.InstallFromUpdate(ev.Update)
		if p.adjIn.DoesContainNewRoute() {
			p.queue.Enqueue(AdjRibInChanged())
			p.adjIn.UpdateToAllUnchanged()
		}
		metrics.AdjRibInRoutes.WithLabelValues(p.cfg.RemoteIP.String()).Set(float64(len(p.adjIn.Routes())))

	case EvAdjRibInChanged:
		p.loc.InstallFromAdjRibIn(p.adjIn)
		if p.loc.DoesContainNewRoute() {
			p.loc.WriteToKernelRoutingTable(p.kt, func(network netip.Prefix, err error) {
				p.log.Warn("kernel route install failed", "network", network, "error", err)
				metrics.KernelInstallErrorsTotal.WithLabelValues(p.cfg.RemoteIP.String()).Inc()
			})
			p.queue.Enqueue(LocRibChanged())
			p.loc.UpdateToAllUnchanged()
		}
		metrics.LocRibRoutes.Set(float64(len(p.loc.Routes())))
	}

	return nil
}
