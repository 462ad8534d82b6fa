// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomitube/internal/platform/apperr"
	"github.com/taibuivan/yomitube/internal/platform/validate"
)

// fieldErrors runs the chain and returns the collected details, or nil on success.
func fieldErrors(t *testing.T, chain func(*validate.Validator)) []apperr.FieldError {
	t.Helper()

	v := &validate.Validator{}
	chain(v)

	err := v.Err()
	if err == nil {
		assert.False(t, v.HasErrors())
		return nil
	}

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	return appErr.Details
}

/*
TestValidator_Rules runs each rule on its boundary inputs.
*/
func TestValidator_Rules(t *testing.T) {
	cases := []struct {
		name    string
		chain   func(*validate.Validator)
		message string // "" when the chain must pass
	}{
		{"required_ok", func(v *validate.Validator) { v.Required("fullName", "Alice Liddell") }, ""},
		{"required_empty", func(v *validate.Validator) { v.Required("fullName", "") }, "This field is required"},
		{"required_blank", func(v *validate.Validator) { v.Required("fullName", " \t ") }, "This field is required"},

		{"max_len_counts_runes", func(v *validate.Validator) { v.MaxLen("fullName", strings.Repeat("é", 10), 10) }, ""},
		{"max_len_exceeded", func(v *validate.Validator) { v.MaxLen("fullName", "abcdef", 5) }, "Maximum 5 characters"},
		{"min_len_exceeded", func(v *validate.Validator) { v.MinLen("password", "abc", 8) }, "Minimum 8 characters"},

		{"max_bytes_ascii_at_limit", func(v *validate.Validator) { v.MaxBytes("password", strings.Repeat("a", 72), 72) }, ""},
		{"max_bytes_multibyte_over", func(v *validate.Validator) { v.MaxBytes("password", strings.Repeat("é", 40), 72) }, "Maximum 72 bytes"},

		{"email_bare", func(v *validate.Validator) { v.Email("email", "alice@example.com") }, ""},
		{"email_no_at", func(v *validate.Validator) { v.Email("email", "alice.example.com") }, "Must be a valid email address"},
		{"email_no_domain", func(v *validate.Validator) { v.Email("email", "alice@") }, "Must be a valid email address"},
		{"email_display_name", func(v *validate.Validator) { v.Email("email", "Alice <alice@example.com>") }, "Must be a valid email address"},

		{"username_normalized", func(v *validate.Validator) { v.Username("username", "alice_l.99") }, ""},
		{"username_uppercase", func(v *validate.Validator) { v.Username("username", "Alice") }, "Only lowercase letters, digits, '.' and '_' are allowed"},

		{"uuid_v7", func(v *validate.Validator) { v.UUID("videoId", "0190f7a2-7c1e-7d3a-9b55-2f8e6c0d4a11") }, ""},
		{"uuid_unhyphenated", func(v *validate.Validator) { v.UUID("videoId", "0190f7a27c1e7d3a9b552f8e6c0d4a11") }, "Must be a valid UUID"},

		{"custom_passed", func(v *validate.Validator) { v.Custom("confirmPassword", false, "Passwords do not match") }, ""},
		{"custom_failed", func(v *validate.Validator) { v.Custom("confirmPassword", true, "Passwords do not match") }, "Passwords do not match"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			details := fieldErrors(t, tc.chain)
			if tc.message == "" {
				assert.Empty(t, details)
				return
			}
			require.Len(t, details, 1)
			assert.Equal(t, tc.message, details[0].Message)
		})
	}
}

/*
TestValidator_CollectsEveryFailure checks that a chain reports all failing
fields in call order instead of stopping at the first.
*/
func TestValidator_CollectsEveryFailure(t *testing.T) {
	details := fieldErrors(t, func(v *validate.Validator) {
		v.Required("username", "").
			Email("email", "alice@example.com").
			MinLen("password", "short", 8).
			UUID("videoId", "nope")
	})

	fields := make([]string, 0, len(details))
	for _, detail := range details {
		fields = append(fields, detail.Field)
	}
	assert.Equal(t, []string{"username", "password", "videoId"}, fields)
}

func TestRequiredError(t *testing.T) {
	err := validate.RequiredError("avatar", "Avatar file is required")

	assert.Equal(t, "VALIDATION_ERROR", err.Code)
	require.Len(t, err.Details, 1)
	assert.Equal(t, apperr.FieldError{Field: "avatar", Message: "Avatar file is required"}, err.Details[0])
}
