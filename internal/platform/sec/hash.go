// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor applied to new hashes.
const PasswordCost = bcrypt.DefaultCost

// ErrPasswordMismatch means the hash is well formed but belongs to another password.
var ErrPasswordMismatch = errors.New("password mismatch")

// HashPassword hashes a plain-text password with bcrypt.
//
// Passwords over 72 bytes are rejected by bcrypt rather than silently truncated.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

/*
VerifyPassword compares a plain-text password with a stored hash in constant time.

Returns:
  - nil: The password matches
  - ErrPasswordMismatch: The password does not match
  - error: The stored hash is unreadable
*/
func VerifyPassword(plainTextPassword, existingHash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrPasswordMismatch
	default:
		return fmt.Errorf("sec: unreadable password hash: %w", err)
	}
}
