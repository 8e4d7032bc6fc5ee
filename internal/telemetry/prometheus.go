package telemetry

import "github.com/prometheus/client_golang/prometheus"

const prepsyncNamespace string = "prepsync"

var (
	promRoomsTotal        prometheus.Gauge
	promParticipantsTotal prometheus.Gauge

	signalingMessageCounter *prometheus.CounterVec
)

func init() {
	promRoomsTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: prepsyncNamespace,
		Subsystem: "signaling",
		Name:      "rooms_total",
	})

	promParticipantsTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: prepsyncNamespace,
		Subsystem: "signaling",
		Name:      "participants_total",
	})

	signalingMessageCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: prepsyncNamespace,
			Subsystem: "signaling",
			Name:      "messages_received",
		},
		[]string{"event"},
	)

	prometheus.MustRegister(promRoomsTotal)
	prometheus.MustRegister(promParticipantsTotal)
	prometheus.MustRegister(signalingMessageCounter)
}

func RoomOpened() {
	promRoomsTotal.Inc()
}

func RoomClosed() {
	promRoomsTotal.Dec()
}

func ParticipantJoined() {
	promParticipantsTotal.Inc()
}

func ParticipantLeft() {
	promParticipantsTotal.Dec()
}

func SignalingMessageReceived(event string) {
	signalingMessageCounter.WithLabelValues(event).Inc()
}
