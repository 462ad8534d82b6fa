// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomitube/internal/platform/middleware"
	"github.com/taibuivan/yomitube/internal/users/auth"
)

func newAuthRouter(t *testing.T) (*serviceFixture, http.Handler) {
	t.Helper()
	fx := newServiceFixture(t)
	handler := auth.NewHandler(fx.service, t.TempDir())

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(fx.codec, fx.denylist))
	router.Mount("/auth", handler.Routes())
	return fx, router
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Code       string          `json:"code"`
}

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func TestHandler_RegisterMultipart(t *testing.T) {
	_, router := newAuthRouter(t)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	for field, value := range map[string]string{
		"fullName": "Alice Liddell",
		"email":    "alice@example.com",
		"username": "Alice",
		"password": "correct-horse",
	} {
		require.NoError(t, form.WriteField(field, value))
	}
	part, err := form.CreateFormFile("avatar", "me.PNG")
	require.NoError(t, err)
	_, _ = part.Write([]byte("png-bytes"))
	require.NoError(t, form.Close())

	request := httptest.NewRequest(http.MethodPost, "/auth/register", &body)
	request.Header.Set("Content-Type", form.FormDataContentType())
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	payload := decodeEnvelope(t, recorder)
	assert.True(t, payload.Success)
	assert.Equal(t, http.StatusCreated, payload.StatusCode)
	assert.Contains(t, string(payload.Data), `"username":"alice"`)
	assert.Contains(t, string(payload.Data), `.png`)
	assert.NotContains(t, string(payload.Data), "password")
	assert.NotContains(t, string(payload.Data), "refreshToken")
}

func TestHandler_RegisterWithoutAvatar(t *testing.T) {
	_, router := newAuthRouter(t)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	_ = form.WriteField("fullName", "Alice")
	_ = form.WriteField("email", "alice@example.com")
	_ = form.WriteField("username", "alice")
	_ = form.WriteField("password", "correct-horse")
	require.NoError(t, form.Close())

	request := httptest.NewRequest(http.MethodPost, "/auth/register", &body)
	request.Header.Set("Content-Type", form.FormDataContentType())
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Avatar file is required")
}

/*
TestHandler_SessionLifecycle walks login, refresh, replay, and logout over HTTP.
*/
func TestHandler_SessionLifecycle(t *testing.T) {
	fx, router := newAuthRouter(t)
	fx.accounts.seed(t, "user-1", "alice", "alice@example.com", "correct-horse")

	// ── Login ─────────────────────────────────────────────────────────
	login := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"alice@example.com","password":"correct-horse"}`))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, login)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	cookies := recorder.Result().Cookies()
	access := cookieByName(cookies, "accessToken")
	refresh := cookieByName(cookies, "refreshToken")
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	assert.True(t, refresh.HttpOnly)
	assert.True(t, refresh.Secure)
	assert.Equal(t, http.SameSiteStrictMode, refresh.SameSite)
	assert.Contains(t, recorder.Body.String(), `"accessToken"`)

	// ── Refresh via cookie ────────────────────────────────────────────
	rotate := httptest.NewRequest(http.MethodPost, "/auth/refresh-token", nil)
	rotate.AddCookie(refresh)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, rotate)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	rotated := cookieByName(recorder.Result().Cookies(), "refreshToken")
	require.NotNil(t, rotated)
	assert.NotEqual(t, refresh.Value, rotated.Value)

	// ── Replay via body ───────────────────────────────────────────────
	replay := httptest.NewRequest(http.MethodPost, "/auth/refresh-token", strings.NewReader(`{"refreshToken":"`+refresh.Value+`"}`))
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, replay)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	payload := decodeEnvelope(t, recorder)
	assert.False(t, payload.Success)
	assert.Equal(t, "Invalid refresh token", payload.Message)

	// ── Logout ────────────────────────────────────────────────────────
	logout := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	logout.Header.Set("Authorization", "Bearer "+access.Value)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, logout)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	cleared := cookieByName(recorder.Result().Cookies(), "accessToken")
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)

	// The logged-out access token is now refused.
	change := httptest.NewRequest(http.MethodPost, "/auth/change-password", strings.NewReader(`{}`))
	change.Header.Set("Authorization", "Bearer "+access.Value)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, change)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	// So is the rotated refresh token.
	after := httptest.NewRequest(http.MethodPost, "/auth/refresh-token", nil)
	after.AddCookie(rotated)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, after)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestHandler_ProtectedRoutesRequireAuth(t *testing.T) {
	_, router := newAuthRouter(t)

	for _, path := range []string{"/auth/logout", "/auth/change-password"} {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, path, nil))
		assert.Equal(t, http.StatusUnauthorized, recorder.Code, path)
	}
}
