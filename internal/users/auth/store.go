// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # Account Data Access

// AccountRepository defines the data access contract for user accounts and
// the single refresh token persisted against each of them.
type AccountRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given normalized email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByUsername returns the account with the given normalized username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		Create persists a brand-new account.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: apperr.Conflict on a duplicate username or email
	*/
	Create(context context.Context, user *User) error

	/*
		UpdatePassword replaces only the account's password hash.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - newHash: string

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	UpdatePassword(context context.Context, userID, newHash string) error

	SessionStore
}

// SessionStore is the slice of account storage that holds the live refresh token.
type SessionStore interface {

	/*
		FindRefreshToken returns the refresh token currently stored for the account.

		Returns:
		  - string: The stored token, or "" when the account has no live session
		  - error: apperr.NotFound when the account does not exist
	*/
	FindRefreshToken(context context.Context, userID string) (string, error)

	/*
		SetRefreshToken overwrites the stored refresh token unconditionally.

		Returns:
		  - error: apperr.NotFound when the account does not exist
	*/
	SetRefreshToken(context context.Context, userID, token string) error

	/*
		SwapRefreshToken replaces the stored token with next only if it still equals expected.

		The comparison and the write happen as one atomic statement, so of two
		concurrent swaps from the same expected value exactly one succeeds.

		Returns:
		  - bool: true when this call performed the swap
		  - error: Persistence failures
	*/
	SwapRefreshToken(context context.Context, userID, expected, next string) (bool, error)

	/*
		ClearRefreshToken removes the stored refresh token. Clearing an already
		empty slot, or a missing account, is not an error.
	*/
	ClearRefreshToken(context context.Context, userID string) error
}

// # Volatile Data Access

// AccessDenylist records access tokens revoked by logout until they expire on their own.
type AccessDenylist interface {

	/*
		Revoke denies the token id until expiresAt.

		Parameters:
		  - context: context.Context
		  - tokenID: string (jti claim)
		  - expiresAt: time.Time (exp claim)

		Returns:
		  - error: Persistence failures
	*/
	Revoke(context context.Context, tokenID string, expiresAt time.Time) error

	/*
		IsRevoked reports whether the token id is denied.
	*/
	IsRevoked(context context.Context, tokenID string) (bool, error)
}
