package inference

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	generationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chemibot_generations_total",
			Help: "Total number of generation calls by outcome.",
		},
		[]string{"status"},
	)

	generationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chemibot_generation_duration_seconds",
			Help:    "Time spent inside the backend per generation.",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	modelLoadSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chemibot_model_load_duration_seconds",
		Help: "Duration of the last successful model load.",
	})

	modelLoaded = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chemibot_model_loaded",
		Help: "1 once the model has been loaded in this process.",
	})
)
