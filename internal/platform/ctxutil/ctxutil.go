// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil reads and writes the per-request values that middleware
// attaches to a [context.Context]: correlation id, logger and caller claims.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/yomitube/internal/platform/ctxkey"
	"github.com/taibuivan/yomitube/internal/platform/sec"
)

// lookup returns the typed value under key, or the zero value of T.
func lookup[T any](ctx context.Context, key any) T {
	value, _ := ctx.Value(key).(T)
	return value
}

// WithRequestID attaches the X-Request-ID correlation value.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID returns the correlation value, or "" outside a request.
func GetRequestID(ctx context.Context) string {
	return lookup[string](ctx, ctxkey.KeyRequestID)
}

// WithLogger attaches the request-scoped logger built by the logging middleware.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger returns the request-scoped logger, falling back to [slog.Default]
// for background work and tests.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger := lookup[*slog.Logger](ctx, ctxkey.KeyLogger); logger != nil {
		return logger
	}
	return slog.Default()
}

// WithAuthUser attaches verified access-token claims.
func WithAuthUser(ctx context.Context, claims *sec.AuthClaims) context.Context {
	return context.WithValue(ctx, ctxkey.KeyUser, claims)
}

// GetAuthUser returns the caller claims, or nil for anonymous requests.
func GetAuthUser(ctx context.Context) *sec.AuthClaims {
	return lookup[*sec.AuthClaims](ctx, ctxkey.KeyUser)
}

// GetUserID returns the caller's account id, or "" for anonymous requests.
func GetUserID(ctx context.Context) string {
	if claims := GetAuthUser(ctx); claims != nil {
		return claims.UserID
	}
	return ""
}
