// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "food_share",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status code.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "food_share",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	PostsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "food_share",
		Name:      "posts_created_total",
		Help:      "Food posts created by donors.",
	})

	PostTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "food_share",
		Name:      "post_transitions_total",
		Help:      "Post status transitions by outcome.",
	}, []string{"action", "result"})

	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "food_share",
		Name:      "login_attempts_total",
		Help:      "Login attempts by result.",
	}, []string{"result"})

	RecoveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "food_share",
		Name:      "password_recoveries_total",
		Help:      "Password recovery requests by result.",
	}, []string{"result"})
)
