// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/taibuivan/yomitube/internal/platform/apperr"
	"github.com/taibuivan/yomitube/internal/platform/sec"
	"github.com/taibuivan/yomitube/pkg/normalize"
)

// CredentialStore is the lookup surface the verifier needs.
type CredentialStore interface {
	FindByEmail(context context.Context, email string) (*User, error)
	FindByUsername(context context.Context, username string) (*User, error)
}

// CredentialVerifier resolves an account by identifier and checks its password.
type CredentialVerifier struct {
	store CredentialStore
}

// NewCredentialVerifier constructs a verifier over the given store.
func NewCredentialVerifier(store CredentialStore) *CredentialVerifier {
	return &CredentialVerifier{store: store}
}

/*
Verify authenticates identifier and password.

Description: The identifier is normalized first. One containing "@" is looked
up as an email, anything else as a username.

Parameters:
  - context: context.Context
  - identifier: string (username or email)
  - password: string (plaintext)

Returns:
  - *User: The matched account
  - error: apperr.NotFound for an unknown identifier, apperr.Unauthorized
    (cause [ErrInvalidCredential]) for a wrong password
*/
func (verifier *CredentialVerifier) Verify(context context.Context, identifier, password string) (*User, error) {
	identifier = normalize.Identifier(identifier)
	if identifier == "" {
		return nil, apperr.ValidationError(msgIdentifierRequired)
	}

	var (
		user *User
		err  error
	)
	if normalize.LooksLikeEmail(identifier) {
		user, err = verifier.store.FindByEmail(context, identifier)
	} else {
		user, err = verifier.store.FindByUsername(context, identifier)
	}
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("User")
		}
		return nil, err
	}

	if err := matchPassword(password, user.PasswordHash, msgInvalidCredentials); err != nil {
		return nil, err
	}

	return user, nil
}

// matchPassword maps a hash comparison onto the client-facing error taxonomy.
func matchPassword(plain, hash, message string) error {
	err := sec.VerifyPassword(plain, hash)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sec.ErrPasswordMismatch):
		return apperr.Unauthorized(message).WithCause(ErrInvalidCredential)
	default:
		return apperr.Internal(fmt.Errorf("auth_verifier_compare_failed: %w", err))
	}
}
