// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yomitube/internal/platform/metrics"
)

/*
TestMetrics_Counters verifies each observer lands on the expected series.
*/
func TestMetrics_Counters(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	m.ObserveLogin(true)
	m.ObserveLogin(false)
	m.ObserveLogin(false)
	m.ObserveRotation("")
	m.ObserveRotation(metrics.RotationReused)
	m.ObserveRequest("/api/v1/history", http.MethodGet, http.StatusOK, 20*time.Millisecond)

	count, err := testutil.GatherAndCount(registry, "yomitube_auth_logins_total")
	assert.NoError(t, err)
	assert.Equal(t, 2, count, "one series per outcome")

	count, err = testutil.GatherAndCount(registry, "yomitube_auth_refresh_rotations_total")
	assert.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = testutil.GatherAndCount(registry, "yomitube_http_requests_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_Handler(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	m.ObserveUploadFailure()

	recorder := httptest.NewRecorder()
	m.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "yomitube_media_upload_failures_total 1")
}

/*
TestMetrics_NilSafe allows services to run without a registry.
*/
func TestMetrics_NilSafe(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.ObserveLogin(true)
		m.ObserveRotation(metrics.RotationExpired)
		m.ObserveUploadFailure()
		m.ObserveRequest("/", http.MethodGet, http.StatusOK, time.Millisecond)
	})
}
