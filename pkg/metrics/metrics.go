// Package metrics holds the process-wide Prometheus collectors served on
// /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eezlegal",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "code"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "eezlegal",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	LLMRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eezlegal",
		Name:      "llm_requests_total",
		Help:      "Language model calls by purpose and outcome.",
	}, []string{"purpose", "outcome"})

	LLMTokens = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "eezlegal",
		Name:      "llm_tokens_total",
		Help:      "Tokens reported by the language model provider.",
	})

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "eezlegal",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the chat rate limiter.",
	})

	PaymentsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eezlegal",
		Name:      "payments_completed_total",
		Help:      "Subscriptions activated, by plan.",
	}, []string{"plan"})
)

const (
	PurposeChat     = "chat"
	PurposeDocument = "document"

	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
	OutcomeFailure  = "failure"
)
