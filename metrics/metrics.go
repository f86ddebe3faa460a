// Package metrics exposes Prometheus counters and gauges for the peer
// state machine, the wire protocol, and the RIB pipeline: package-level
// vecs plus a single Register call at startup.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	StateTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgpd_peer_state_transitions_total",
			Help: "Peer FSM transitions by resulting state.",
		},
		[]string{"peer", "state"},
	)

	PeerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bgpd_peer_state",
			Help: "Current FSM state per peer (0=Idle,1=Connect,2=OpenSent,3=OpenConfirm,4=Established).",
		},
		[]string{"peer"},
	)

	MessagesReceivedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgpd_messages_received_total",
			Help: "BGP messages received by type.",
		},
		[]string{"peer", "type"},
	)

	MessagesSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgpd_messages_sent_total",
			Help: "BGP messages sent by type.",
		},
		[]string{"peer", "type"},
	)

	LocRibRoutes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bgpd_loc_rib_routes",
			Help: "Routes currently held in LocRib.",
		},
	)

	AdjRibOutRoutes = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bgpd_adj_rib_out_routes",
			Help: "Routes currently selected for advertisement per peer.",
		},
		[]string{"peer"},
	)

	AdjRibInRoutes = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bgpd_adj_rib_in_routes",
			Help: "Routes currently held per peer, pre-selection.",
		},
		[]string{"peer"},
	)

	KernelInstallErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgpd_kernel_install_errors_total",
			Help: "Routes that failed kernel installation (logged and swallowed).",
		},
		[]string{"peer"},
	)
)

// Register adds every metric to prometheus's default registry. Call
// once at process startup.
func Register() {
	prometheus.MustRegister(
		StateTransitionsTotal,
		PeerState,
		MessagesReceivedTotal,
		MessagesSentTotal,
		LocRibRoutes,
		AdjRibOutRoutes,
		AdjRibInRoutes,
		KernelInstallErrorsTotal,
	)
}
