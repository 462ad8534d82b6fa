// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/yomitube/internal/platform/apperr"
	"github.com/taibuivan/yomitube/internal/platform/ctxutil"
	"github.com/taibuivan/yomitube/internal/platform/metrics"
	"github.com/taibuivan/yomitube/internal/platform/sec"
)

// TokenIssuer mints and verifies session tokens. [*sec.TokenCodec] satisfies it.
type TokenIssuer interface {
	Mint(kind sec.TokenKind, userID string) (string, time.Time, error)
	Verify(kind sec.TokenKind, token string) (*sec.AuthClaims, error)
}

// Observer receives authentication outcomes. [*metrics.Metrics] satisfies it.
type Observer interface {
	ObserveLogin(success bool)
	ObserveRotation(reason string)
}

type noopObserver struct{}

func (noopObserver) ObserveLogin(bool)      {}
func (noopObserver) ObserveRotation(string) {}

// TokenPair is the result of issuing or rotating a session.
type TokenPair struct {
	UserID           string    `json:"-"`
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken"`
	AccessExpiresAt  time.Time `json:"-"`
	RefreshExpiresAt time.Time `json:"-"`
}

// SessionManager owns the single live refresh token of every account.
//
// # Invariants
//
//   - An account holds at most one refresh token; issuing a new pair replaces it.
//   - A rotation succeeds only for the currently stored token, and consumes it.
//   - Every rotation failure reaches the client as the same 401.
type SessionManager struct {
	store    SessionStore
	tokens   TokenIssuer
	observer Observer
}

// NewSessionManager wires the session store and token codec. observer may be nil.
func NewSessionManager(store SessionStore, tokens TokenIssuer, observer Observer) *SessionManager {
	if observer == nil {
		observer = noopObserver{}
	}
	return &SessionManager{store: store, tokens: tokens, observer: observer}
}

/*
Issue mints a fresh access/refresh pair and makes the refresh token the account's live one.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *TokenPair: Both tokens and their expiries
  - error: Minting or persistence failures
*/
func (manager *SessionManager) Issue(context context.Context, userID string) (*TokenPair, error) {
	pair, err := manager.mint(userID)
	if err != nil {
		return nil, err
	}

	if err := manager.store.SetRefreshToken(context, userID, pair.RefreshToken); err != nil {
		return nil, fmt.Errorf("session_issue_persist_failed: %w", err)
	}

	return pair, nil
}

/*
Rotate exchanges a presented refresh token for a new pair.

# Flow

 1. Verify signature, kind and expiry of the presented token.
 2. Load the account's stored token; a missing account fails.
 3. Compare presented against stored; a mismatch is a replay.
 4. Mint a new pair and compare-and-swap it in. Losing the swap is also a replay.

Parameters:
  - context: context.Context
  - presented: string (raw refresh token)

Returns:
  - *TokenPair: The new pair
  - error: apperr.Unauthorized("Invalid refresh token") for every token failure,
    with the specific reason kept as the internal cause
*/
func (manager *SessionManager) Rotate(context context.Context, presented string) (*TokenPair, error) {
	logger := ctxutil.GetLogger(context)

	// ── 1. Token Verification ─────────────────────────────────────────
	if presented == "" {
		return nil, manager.reject(metrics.RotationInvalid, sec.ErrTokenInvalid)
	}

	claims, err := manager.tokens.Verify(sec.TokenRefresh, presented)
	if err != nil {
		if errors.Is(err, sec.ErrTokenExpired) {
			return nil, manager.reject(metrics.RotationExpired, err)
		}
		return nil, manager.reject(metrics.RotationInvalid, err)
	}

	// ── 2. Stored Token Lookup ────────────────────────────────────────
	stored, err := manager.store.FindRefreshToken(context, claims.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, manager.reject(metrics.RotationGone, ErrAccountGone)
		}
		return nil, fmt.Errorf("session_rotate_lookup_failed: %w", err)
	}

	// ── 3. Replay Detection ───────────────────────────────────────────
	if stored == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) != 1 {
		logger.WarnContext(context, "refresh_token_reuse_detected", slog.String("user_id", claims.UserID))
		return nil, manager.reject(metrics.RotationReused, ErrRefreshReused)
	}

	// ── 4. Compare-and-Swap ───────────────────────────────────────────
	pair, err := manager.mint(claims.UserID)
	if err != nil {
		return nil, err
	}

	swapped, err := manager.store.SwapRefreshToken(context, claims.UserID, presented, pair.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("session_rotate_swap_failed: %w", err)
	}
	if !swapped {
		logger.WarnContext(context, "refresh_token_rotation_race_lost", slog.String("user_id", claims.UserID))
		return nil, manager.reject(metrics.RotationReused, ErrRefreshReused)
	}

	manager.observer.ObserveRotation("")
	return pair, nil
}

/*
Revoke clears the account's live refresh token. Idempotent.
*/
func (manager *SessionManager) Revoke(context context.Context, userID string) error {
	if err := manager.store.ClearRefreshToken(context, userID); err != nil {
		return fmt.Errorf("session_revoke_failed: %w", err)
	}
	return nil
}

func (manager *SessionManager) mint(userID string) (*TokenPair, error) {
	access, accessExp, err := manager.tokens.Mint(sec.TokenAccess, userID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("session_mint_access_failed: %w", err))
	}

	refresh, refreshExp, err := manager.tokens.Mint(sec.TokenRefresh, userID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("session_mint_refresh_failed: %w", err))
	}

	return &TokenPair{
		UserID:           userID,
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (manager *SessionManager) reject(reason string, cause error) error {
	manager.observer.ObserveRotation(reason)
	return apperr.Unauthorized(msgInvalidRefreshToken).WithCause(cause)
}
