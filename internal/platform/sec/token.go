// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. The [TokenCodec] is built once at startup from an immutable
// [TokenConfig] and shared by the session layer and the auth middleware.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// # Token Kinds

// TokenKind distinguishes the two classes of session token.
type TokenKind string

const (
	// TokenAccess is the short-lived, self-verifying credential.
	TokenAccess TokenKind = "access"

	// TokenRefresh is the long-lived credential persisted against the account.
	TokenRefresh TokenKind = "refresh"
)

// # Errors

var (
	// ErrTokenExpired is returned for a correctly signed token past its expiry.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid covers bad signatures, malformed input, wrong kind and wrong issuer.
	ErrTokenInvalid = errors.New("token invalid")
)

// AuthClaims represents the payload embedded inside both token kinds.
//
// The account id travels as both 'sub' and the abbreviated 'uid' claim so the
// middleware can rebuild the caller identity without a database round-trip.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID string    `json:"uid"`
	Kind   TokenKind `json:"knd"`
}

// TokenConfig is the immutable input of [NewTokenCodec].
type TokenConfig struct {
	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
	Issuer        string

	// Clock overrides time.Now; tests use it to step past expiry.
	Clock func() time.Time
}

type kindParams struct {
	secret []byte
	ttl    time.Duration
}

// TokenCodec mints and verifies HS256 tokens with an independent key per kind.
//
// # Concurrency
//
// TokenCodec holds no mutable state and is safe for concurrent use.
type TokenCodec struct {
	kinds  map[TokenKind]kindParams
	issuer string
	clock  func() time.Time
}

/*
NewTokenCodec validates cfg and builds a [TokenCodec].

Parameters:
  - cfg: TokenConfig (secrets, lifetimes, issuer)

Returns:
  - *TokenCodec: Ready-to-use codec
  - error: Empty or shared secrets, non-positive lifetimes
*/
func NewTokenCodec(cfg TokenConfig) (*TokenCodec, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("sec: token secrets must not be empty")
	}

	// A shared key would let an access token be replayed as a refresh token.
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("sec: access and refresh secrets must differ")
	}

	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("sec: token lifetimes must be positive")
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	return &TokenCodec{
		kinds: map[TokenKind]kindParams{
			TokenAccess:  {secret: []byte(cfg.AccessSecret), ttl: cfg.AccessTTL},
			TokenRefresh: {secret: []byte(cfg.RefreshSecret), ttl: cfg.RefreshTTL},
		},
		issuer: cfg.Issuer,
		clock:  clock,
	}, nil
}

/*
Mint signs a new token of the given kind for userID.

Every token carries a random 'jti', so two tokens minted for the same account
within the same second are still distinct strings.

Returns:
  - string: Signed compact JWT
  - time.Time: Expiry instant
  - error: Unknown kind or signing failure
*/
func (codec *TokenCodec) Mint(kind TokenKind, userID string) (string, time.Time, error) {
	params, ok := codec.kinds[kind]
	if !ok {
		return "", time.Time{}, fmt.Errorf("sec: unknown token kind %q", kind)
	}

	issuedAt := codec.clock()
	expiresAt := issuedAt.Add(params.ttl)

	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    codec.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: userID,
		Kind:   kind,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(params.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

/*
Verify checks signature, expiry, issuer and kind of token.

Returns:
  - *AuthClaims: Decoded claims on success
  - error: [ErrTokenExpired] or [ErrTokenInvalid]
*/
func (codec *TokenCodec) Verify(kind TokenKind, token string) (*AuthClaims, error) {
	params, ok := codec.kinds[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrTokenInvalid, kind)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(codec.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(codec.clock),
	)

	claims := &AuthClaims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return params.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	if !parsed.Valid || claims.Kind != kind || claims.UserID == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// VerifyToken verifies an access token. It satisfies the middleware's TokenVerifier.
func (codec *TokenCodec) VerifyToken(token string) (*AuthClaims, error) {
	return codec.Verify(TokenAccess, token)
}
