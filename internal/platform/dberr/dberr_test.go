// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomitube/internal/platform/apperr"
	"github.com/taibuivan/yomitube/internal/platform/dberr"
)

/*
TestWrap_Classification maps pgx errors onto the application taxonomy.
*/
func TestWrap_Classification(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    string
		message string
	}{
		{"no_rows", pgx.ErrNoRows, apperr.CodeNotFound, "Account not found"},
		{"wrapped_no_rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), apperr.CodeNotFound, "Account not found"},
		{"unique_username", &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "account_username_key"}, apperr.CodeConflict, "Username is already taken"},
		{"unique_email", &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "account_email_key"}, apperr.CodeConflict, "Email is already registered"},
		{"check", &pgconn.PgError{Code: pgerrcode.CheckViolation}, apperr.CodeValidation, "Account violates a data rule"},
		{"other", errors.New("connection reset"), apperr.CodeInternal, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ae := apperr.As(dberr.Wrap(tt.err, "Account", "account_lookup"))
			require.NotNil(t, ae)
			assert.Equal(t, tt.code, ae.Code)
			assert.Equal(t, tt.message, ae.Message)
		})
	}
}

func TestWrap_Nil(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "Account", "noop"))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, dberr.IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation})))
	assert.False(t, dberr.IsUniqueViolation(errors.New("x")))
}
