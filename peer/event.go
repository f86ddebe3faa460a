package peer

import "github.com/mgilson/bgpd/wire"

// EventKind discriminates the Event union driving the FSM.
type EventKind uint8

const (
	EvManualStart EventKind = iota
	EvTcpConnectionConfirmed
	EvBgpOpen
	EvKeepAliveMsg
	EvUpdateMsg
	EvEstablished
	EvLocRibChanged
	EvAdjRibOutChanged
	EvAdjRibInChanged
)

func (k EventKind) String() string {
	switch k {
	case EvManualStart:
		return "ManualStart"
	case EvTcpConnectionConfirmed:
		return "TcpConnectionConfirmed"
	case EvBgpOpen:
		return "BgpOpen"
	case EvKeepAliveMsg:
		return "KeepAliveMsg"
	case EvUpdateMsg:
		return "UpdateMsg"
	case EvEstablished:
		return "Established"
	case EvLocRibChanged:
		return "LocRibChanged"
	case EvAdjRibOutChanged:
		return "AdjRibOutChanged"
	case EvAdjRibInChanged:
		return "AdjRibInChanged"
	default:
		return "Unknown"
	}
}

// Event is one input to the FSM. Only the field matching Kind is
// meaningful.
type Event struct {
	Kind      EventKind
	Open      wire.Open
	Keepalive wire.Keepalive
	Update    wire.Update
}

func ManualStart() Event                  { return Event{Kind: EvManualStart} }
func TcpConnectionConfirmed() Event       { return Event{Kind: EvTcpConnectionConfirmed} }
func BgpOpen(o wire.Open) Event           { return Event{Kind: EvBgpOpen, Open: o} }
func KeepAliveMsg(k wire.Keepalive) Event { return Event{Kind: EvKeepAliveMsg, Keepalive: k} }
func UpdateMsg(u wire.Update) Event       { return Event{Kind: EvUpdateMsg, Update: u} }
func EstablishedEvent() Event             { return Event{Kind: EvEstablished} }
func LocRibChanged() Event                { return Event{Kind: EvLocRibChanged} }
func AdjRibOutChanged() Event             { return Event{Kind: EvAdjRibOutChanged} }
func AdjRibInChanged() Event              { return Event{Kind: EvAdjRibInChanged} }
