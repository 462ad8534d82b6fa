// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/taibuivan/yomitube/internal/platform/apperr"
	"github.com/taibuivan/yomitube/internal/platform/constants"
	"github.com/taibuivan/yomitube/internal/platform/ctxkey"
	"github.com/taibuivan/yomitube/internal/platform/ctxutil"
	"github.com/taibuivan/yomitube/internal/platform/respond"
	"github.com/taibuivan/yomitube/internal/platform/sec"
)

// TokenVerifier verifies access tokens. [*sec.TokenCodec] satisfies it.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// RevocationChecker reports whether an access token id was revoked by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Principal is a mutable slot shared between [StructuredLogger] and
// [Authenticate] so the request log line can carry the caller id.
type Principal struct {
	UserID string
}

func withPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, ctxkey.KeyPrincipal, principal)
}

func principalFrom(ctx context.Context) *Principal {
	principal, _ := ctx.Value(ctxkey.KeyPrincipal).(*Principal)
	return principal
}

// Authenticate resolves the caller from an access token.
//
// # Flow
//  1. Read 'Authorization: Bearer <token>', falling back to the access token cookie.
//  2. No token: the request proceeds as anonymous.
//  3. Header token that fails verification or was revoked: 401.
//  4. Cookie token that fails verification: the request proceeds as anonymous,
//     so an expired cookie never blocks the refresh endpoint.
//  5. Inject [*sec.AuthClaims] into the request context for downstream use.
//
// # Parameters
//   - verifier: The TokenVerifier instance.
//   - revocations: Denylist of logged-out access tokens (may be nil).
func Authenticate(verifier TokenVerifier, revocations RevocationChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			tokenStr, fromHeader, err := extractAccessToken(request)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if tokenStr == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Token Verification ─────────────────────────────────────────
			claims, verifyErr := verifier.VerifyToken(tokenStr)
			if verifyErr == nil && revocations != nil {
				revoked, checkErr := revocations.IsRevoked(request.Context(), claims.ID)
				if checkErr != nil {
					respond.Error(writer, request, apperr.Internal(checkErr))
					return
				}
				if revoked {
					verifyErr = sec.ErrTokenInvalid
				}
			}

			if verifyErr != nil {
				if fromHeader {
					respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token").WithCause(verifyErr))
					return
				}
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			if principal := principalFrom(request.Context()); principal != nil {
				principal.UserID = claims.UserID
			}
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// extractAccessToken returns the raw token and whether it came from the header.
func extractAccessToken(request *http.Request) (string, bool, error) {
	if authHeader := request.Header.Get(constants.HeaderAuthorization); authHeader != "" {
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return "", true, apperr.Unauthorized("Invalid authorization format")
		}
		return parts[1], true, nil
	}

	if cookie, err := request.Cookie(constants.AccessTokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, false, nil
	}

	return "", false, nil
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}
