package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leggal_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leggal_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	MessagesClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leggal_messages_classified_total",
			Help: "Chat messages by classification result",
		},
		[]string{"result"}, // "conversational" or "actionable"
	)

	TasksCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leggal_tasks_created_total",
			Help: "Tasks created by source",
		},
		[]string{"source"}, // "chat", "api" or "webhook"
	)

	LLMFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leggal_llm_fallbacks_total",
			Help: "Model calls that degraded to the deterministic fallback",
		},
		[]string{"stage"}, // "analyze" or "answer"
	)

	UsersRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leggal_users_registered_total",
			Help: "Total users registered",
		},
	)

	SimilaritySearches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leggal_similarity_searches_total",
			Help: "Total similarity search queries",
		},
	)

	// Rate limit metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leggal_rate_limit_hits_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"endpoint"},
	)
)
