// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomitube/internal/platform/ctxutil"
	"github.com/taibuivan/yomitube/internal/platform/middleware"
	"github.com/taibuivan/yomitube/internal/platform/sec"
)

// # Fakes

type stubVerifier struct {
	valid map[string]*sec.AuthClaims
}

func (v *stubVerifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	if claims, ok := v.valid[token]; ok {
		return claims, nil
	}
	return nil, sec.ErrTokenExpired
}

type stubRevocations struct {
	revoked map[string]bool
	err     error
}

func (r *stubRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	return r.revoked[tokenID], r.err
}

func newVerifier() *stubVerifier {
	claims := &sec.AuthClaims{UserID: "user-1", Kind: sec.TokenAccess}
	claims.ID = "jti-1"
	return &stubVerifier{valid: map[string]*sec.AuthClaims{"good": claims}}
}

// echoUser writes the caller id or "anonymous".
var echoUser = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
	userID := ctxutil.GetUserID(request.Context())
	if userID == "" {
		userID = "anonymous"
	}
	_, _ = writer.Write([]byte(userID))
})

/*
TestAuthenticate_Sources covers header, cookie and anonymous callers.
*/
func TestAuthenticate_Sources(t *testing.T) {
	handler := middleware.Authenticate(newVerifier(), nil)(echoUser)

	tests := []struct {
		name   string
		setup  func(*http.Request)
		status int
		body   string
	}{
		{"anonymous", func(*http.Request) {}, http.StatusOK, "anonymous"},
		{"bearer_header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") }, http.StatusOK, "user-1"},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "accessToken", Value: "good"}) }, http.StatusOK, "user-1"},
		{"bad_header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer stale") }, http.StatusUnauthorized, ""},
		{"malformed_header", func(r *http.Request) { r.Header.Set("Authorization", "Token good") }, http.StatusUnauthorized, ""},
		{"stale_cookie_is_anonymous", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "accessToken", Value: "stale"}) }, http.StatusOK, "anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(request)
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.status, recorder.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, recorder.Body.String())
			}
		})
	}
}

/*
TestAuthenticate_RevokedToken rejects a token whose jti is on the denylist.
*/
func TestAuthenticate_RevokedToken(t *testing.T) {
	handler := middleware.Authenticate(newVerifier(), &stubRevocations{revoked: map[string]bool{"jti-1": true}})(echoUser)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer good")
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuthenticate_DenylistUnavailable(t *testing.T) {
	handler := middleware.Authenticate(newVerifier(), &stubRevocations{err: errors.New("redis down")})(echoUser)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer good")
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestRequireAuth(t *testing.T) {
	handler := middleware.Authenticate(newVerifier(), nil)(middleware.RequireAuth(echoUser))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"success":false`)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer good")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestStructuredLogger_CarriesUserID verifies the finished-request line names the caller.
*/
func TestStructuredLogger_CarriesUserID(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	handler := middleware.RequestID()(
		middleware.StructuredLogger(logger)(
			middleware.Authenticate(newVerifier(), nil)(echoUser),
		),
	)

	request := httptest.NewRequest(http.MethodGet, "/history", nil)
	request.Header.Set("Authorization", "Bearer good")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
	assert.Contains(t, logs.String(), `"msg":"http_request_finished"`)
	assert.Contains(t, logs.String(), `"user_id":"user-1"`)
}

func TestPanicRecovery(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := middleware.PanicRecovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "boom")
}

type corsConfig struct {
	dev     bool
	origins []string
}

func (c corsConfig) IsDevelopment() bool      { return c.dev }
func (c corsConfig) AllowedOrigins() []string { return c.origins }

func TestCORS_AllowList(t *testing.T) {
	handler := middleware.CORS(corsConfig{origins: []string{"https://app.yomitube.app"}})(echoUser)

	allowed := httptest.NewRequest(http.MethodOptions, "/", nil)
	allowed.Header.Set("Origin", "https://app.yomitube.app")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, allowed)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "https://app.yomitube.app", recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", recorder.Header().Get("Access-Control-Allow-Credentials"))

	denied := httptest.NewRequest(http.MethodGet, "/", nil)
	denied.Header.Set("Origin", "https://evil.example")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, denied)
	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
}

type recordingObserver struct {
	route  string
	status int
}

func (o *recordingObserver) ObserveRequest(route, _ string, status int, _ time.Duration) {
	o.route = route
	o.status = status
}

/*
TestMetrics_UsesRoutePattern keeps label cardinality bounded by chi patterns.
*/
func TestMetrics_UsesRoutePattern(t *testing.T) {
	observer := &recordingObserver{}
	router := chi.NewRouter()
	router.Use(middleware.Metrics(observer))
	router.Get("/channels/{username}", func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusNotFound)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/channels/alice", nil))

	assert.Equal(t, "/channels/{username}", observer.route)
	assert.Equal(t, http.StatusNotFound, observer.status)
}

func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", middleware.RealIP(request))
}
