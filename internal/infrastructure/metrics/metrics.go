package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes the counters and gauges the session manager and transport
// layer feed. A single instance is registered against the default registry.
type Metrics struct {
	ActiveRooms      prometheus.Gauge
	ConnectedClients prometheus.Gauge
	MembersJoined    prometheus.Counter
	MembersLeft      prometheus.Counter
	RoomsCreated     prometheus.Counter
	RoomsDeleted     *prometheus.CounterVec
	MessagesRelayed  prometheus.Counter
	JoinRejections   *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		ActiveRooms: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "multisala_active_rooms",
			Help: "Number of rooms currently registered, empty ones included.",
		}),
		ConnectedClients: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "multisala_connected_clients",
			Help: "Number of live WebSocket connections.",
		}),
		MembersJoined: promauto.NewCounter(prometheus.CounterOpts{
			Name: "multisala_members_joined_total",
			Help: "Total successful room joins.",
		}),
		MembersLeft: promauto.NewCounter(prometheus.CounterOpts{
			Name: "multisala_members_left_total",
			Help: "Total members removed by leave or disconnect.",
		}),
		RoomsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "multisala_rooms_created_total",
			Help: "Total rooms created.",
		}),
		RoomsDeleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "multisala_rooms_deleted_total",
			Help: "Total rooms deleted, by reason.",
		}, []string{"reason"}),
		MessagesRelayed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "multisala_messages_relayed_total",
			Help: "Total chat messages fanned out.",
		}),
		JoinRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "multisala_join_rejections_total",
			Help: "Total rejected join attempts, by reason.",
		}, []string{"reason"}),
	}
}
