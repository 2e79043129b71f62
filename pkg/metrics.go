package pkg

import "github.com/prometheus/client_golang/prometheus"

var (
	GameServerSessionsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "landlord_server_sessions",
		Help: "A gauge of live sessions connected to the game server.",
	})

	GameServerInFlightGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "landlord_server_in_flight_requests",
		Help: "A gauge of requests being handled by the game server.",
	})

	GameServerRequestsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "landlord_server_requests_total",
		Help: "A counter for requests to the game server.",
	}, []string{"code", "method"})

	playersSeatedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "landlord_server_players_seated_total",
		Help: "A counter for seats successfully claimed.",
	})

	roomsSealedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "landlord_server_rooms_sealed_total",
		Help: "A counter for rooms that reached capacity.",
	})

	droppedSendsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "landlord_server_dropped_sends_total",
		Help: "A counter for outbound messages dropped on closed or saturated sessions.",
	})
)

func init() {
	prometheus.MustRegister(
		GameServerSessionsGauge,
		GameServerInFlightGauge,
		GameServerRequestsCounter,
		playersSeatedCounter,
		roomsSealedCounter,
		droppedSendsCounter,
	)
}
