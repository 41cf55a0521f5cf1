package moderation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_transitions_total",
			Help: "Review state transitions by target state",
		},
		[]string{"to"},
	)

	subscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moderation_event_subscribers",
			Help: "Open moderation event streams",
		},
	)
)
