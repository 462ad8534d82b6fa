// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package normalize canonicalizes user-supplied identifiers before they are
stored or compared.

Usernames and emails are unique case-insensitively: "Alice", "ALICE" and
"alice" name the same account. Folding happens once, at the service boundary,
so the database only ever sees the canonical form.
*/
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Identifier trims, NFKC-normalizes and case-folds s.
//
// NFKC first collapses compatibility forms (full-width letters, ligatures)
// so that visually identical handles fold to the same key.
func Identifier(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	return cases.Fold().String(norm.NFKC.String(trimmed))
}

// Username canonicalizes an account handle.
func Username(s string) string {
	return Identifier(s)
}

// Email canonicalizes an email address. The whole address is folded, local part included.
func Email(s string) string {
	return Identifier(s)
}

// LooksLikeEmail reports whether a login identifier should be resolved by email.
func LooksLikeEmail(identifier string) bool {
	return strings.Contains(identifier, "@")
}
