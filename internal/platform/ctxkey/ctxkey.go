// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey defines typed context keys used by middleware and handlers.
//
// The key type is unexported, so no other package can construct a colliding key.
package ctxkey

type key uint8

const (
	// KeyRequestID carries the X-Request-ID correlation value.
	KeyRequestID key = iota + 1

	// KeyUser carries the authenticated caller claims ([sec.AuthClaims]).
	KeyUser

	// KeyLogger carries the per-request [*log/slog.Logger].
	KeyLogger

	// KeyPrincipal carries the mutable caller slot read by the request logger.
	KeyPrincipal
)
