// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements account identity and the session-token lifecycle.

It defines the core account entity and the logic for registration, credential
verification, access/refresh token issuance and refresh-token rotation.

# Architecture

  - [CredentialVerifier]: resolves an account by username or email and checks the password.
  - [SessionManager]: mints token pairs, persists the single live refresh token, rotates it.
  - [Service]: the use cases exposed over HTTP (register, login, logout, refresh, change password).
  - Repositories: Postgres for accounts, Redis for the access-token denylist.
*/
package auth

import (
	"errors"
	"time"
)

// # Domain Entities

// User represents a registered account.
//
// Secrets (password hash, refresh token) never leave the server: the hash is
// excluded from JSON and the refresh token is not part of the entity at all.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	PasswordHash string    `json:"-"`
	Avatar       string    `json:"avatar"`
	CoverImage   string    `json:"coverImage"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// # Internal Causes
//
// These sentinels are attached to client-facing errors with WithCause. They are
// for logs and tests; the API never reveals which one fired.

var (
	// ErrInvalidCredential marks a password that does not match the stored hash.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrRefreshReused marks a verified refresh token that is not the account's current one.
	ErrRefreshReused = errors.New("refresh token reused")

	// ErrAccountGone marks a refresh token whose account no longer exists.
	ErrAccountGone = errors.New("account no longer exists")
)

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldFullName        = "fullName"
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldAvatar          = "avatar"
	FieldCoverImage      = "coverImage"
	FieldOldPassword     = "oldPassword"
	FieldNewPassword     = "newPassword"
	FieldConfirmPassword = "confirmPassword"
	FieldRefreshToken    = "refreshToken"
)
