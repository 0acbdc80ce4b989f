package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	persistenceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chemibot_persistence_failures_total",
		Help: "Store operations that failed and were degraded.",
	}, []string{"op"})

	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chemibot_answer_cache_hits_total",
		Help: "Predictions served from the answer cache.",
	})

	authAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chemibot_auth_attempts_total",
		Help: "Signup and login attempts by outcome.",
	}, []string{"action", "outcome"})
)
