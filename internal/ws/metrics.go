package ws

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	Connections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ws_connections",
			Help: "Open websocket connections",
		},
	)
	Broadcasts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_broadcasts_total",
			Help: "Messages fanned out by the relay, by kind",
		},
		[]string{"kind"},
	)
	Dropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_dropped_clients_total",
			Help: "Clients disconnected because their send buffer was full",
		},
	)
)

func init() {
	prometheus.MustRegister(Connections)
	prometheus.MustRegister(Broadcasts)
	prometheus.MustRegister(Dropped)
}
