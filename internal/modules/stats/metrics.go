package stats

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var cacheLookups = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "stats_cache_lookups_total",
		Help: "Aggregate cache lookups by result",
	},
	[]string{"result"},
)
