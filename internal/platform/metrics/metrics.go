// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics owns the Prometheus collectors exported on /metrics.

Collectors are registered on an injected [prometheus.Registerer] so tests can
use a private registry. A nil *Metrics is valid and records nothing.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "yomitube"

// # Outcome Labels

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"

	// Refresh rotation failure reasons. They are exported here only; the API
	// itself answers every failed rotation with the same 401.
	RotationExpired = "expired"
	RotationInvalid = "invalid"
	RotationReused  = "reused"
	RotationGone    = "account_gone"
)

// Metrics groups every collector the service updates.
type Metrics struct {
	logins          *prometheus.CounterVec
	rotations       *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	uploadsFailures prometheus.Counter
	gatherer        prometheus.Gatherer
}

/*
New creates the collectors and registers them on registry.

Parameters:
  - registry: *prometheus.Registry (prometheus.NewRegistry() in main and tests)

Returns:
  - *Metrics: Ready-to-use collectors
*/
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),

		rotations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "refresh_rotations_total",
			Help:      "Refresh token rotations by outcome and failure reason.",
		}, []string{"outcome", "reason"}),

		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route pattern, method and status.",
		}, []string{"route", "method", "status"}),

		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),

		uploadsFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "media",
			Name:      "upload_failures_total",
			Help:      "Media uploads that failed softly.",
		}),

		gatherer: registry,
	}

	registry.MustRegister(m.logins, m.rotations, m.httpRequests, m.httpDuration, m.uploadsFailures)
	return m
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveLogin records a login attempt.
func (m *Metrics) ObserveLogin(success bool) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(outcome(success)).Inc()
}

// ObserveRotation records a refresh rotation. reason is empty on success.
func (m *Metrics) ObserveRotation(reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		m.rotations.WithLabelValues(OutcomeSuccess, "").Inc()
		return
	}
	m.rotations.WithLabelValues(OutcomeFailure, reason).Inc()
}

// ObserveUploadFailure counts a soft upload failure.
func (m *Metrics) ObserveUploadFailure() {
	if m == nil {
		return
	}
	m.uploadsFailures.Inc()
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func outcome(success bool) string {
	if success {
		return OutcomeSuccess
	}
	return OutcomeFailure
}
