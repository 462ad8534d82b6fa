// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, header names, cookie names and cache keys that are
shared between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Security: token issuer, cookie configuration and denylist keys.
  - Transport: header names and upload limits.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "yomitube-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	// Multipart uploads (avatar, cover) go through the same server, so it is generous.
	DefaultReadTimeout = 30 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// StartupTimeout bounds connecting to dependencies at boot.
	StartupTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "yomitube.app"

	// AccessTokenCookieName is the cookie carrying the short-lived access token.
	AccessTokenCookieName = "accessToken"

	// RefreshTokenCookieName is the cookie carrying the persisted refresh token.
	RefreshTokenCookieName = "refreshToken"

	// TokenCookiePath scopes both session cookies.
	TokenCookiePath = "/"
)

// # HTTP Headers

const (
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderContentType   = "Content-Type"

	// ContentTypeJSON is the only body encoding the API emits.
	ContentTypeJSON = "application/json; charset=utf-8"
)

// # Uploads

const (
	// MaxUploadBytes bounds a multipart request body (avatar + cover together).
	MaxUploadBytes = 16 << 20

	// MaxUploadMemory is the in-memory share of a multipart form; the rest spills to disk.
	MaxUploadMemory = 4 << 20
)

// # JSON Field Identifiers

const (
	FieldStatus  = "status"
	FieldChecks  = "checks"
	FieldApp     = "app"
	FieldVersion = "version"
)

// # Database Schemas

const (
	SchemaUsers   = "users"
	SchemaContent = "content"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	// RedisPrefixRevokedAccess keys access-token ids (jti) revoked by logout.
	RedisPrefixRevokedAccess = "auth:revoked_access:"
)
