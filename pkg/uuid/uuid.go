// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid provides time-ordered unique identifiers for the platform.

It wraps the standard UUID library to specifically generate Version 7 values,
which are optimized for database performance.

Advantages:

  - Sortable: Naturally ordered by creation time (millisecond precision).
  - Friendly: Prevents index fragmentation in PostgreSQL (B-tree optimal).
  - Compact: 128-bit storage, compatible with standard 'uuid' types.

Accounts and videos use it for their primary keys.
*/
package uuid

import "github.com/google/uuid"

const canonicalLength = 36

// # Generators

// New generates a new UUIDv7 string.
func New() string {

	// Entropy failure is an unrecoverable system-level error.
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}
	return id.String()
}

// Valid reports whether s is a UUID of any version in the hyphenated
// 36-character form. Braced, URN and unhyphenated forms are rejected.
func Valid(s string) bool {
	return len(s) == canonicalLength && uuid.Validate(s) == nil
}
