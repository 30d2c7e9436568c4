package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Registry = prometheus.NewRegistry()

	AnnouncesSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lanshare",
			Name:      "announces_sent_total",
			Help:      "Multicast announce datagrams sent.",
		},
	)

	DatagramsReceived = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lanshare",
			Name:      "datagrams_received_total",
			Help:      "Multicast datagrams received by the listen loop.",
		},
	)

	DecodeErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lanshare",
			Name:      "decode_errors_total",
			Help:      "Malformed announce payloads dropped.",
		},
	)

	PeersRegistered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lanshare",
			Name:      "peers_registered_total",
			Help:      "Peers confirmed and added to the registry.",
		},
	)

	RegisterFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lanshare",
			Name:      "register_failures_total",
			Help:      "Reachability confirmations that failed.",
		},
	)
)

func init() {
	Registry.MustRegister(
		AnnouncesSent,
		DatagramsReceived,
		DecodeErrors,
		PeersRegistered,
		RegisterFailures,
	)
}

// Handler serves the metrics endpoint for the host process.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
