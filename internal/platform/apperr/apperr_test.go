// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomitube/internal/platform/apperr"
)

/*
TestAppError_StatusMapping verifies each constructor maps to its HTTP status.
*/
func TestAppError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    *apperr.AppError
		status int
		code   string
	}{
		{"validation", apperr.ValidationError("bad"), http.StatusBadRequest, apperr.CodeValidation},
		{"unauthorized", apperr.Unauthorized("no"), http.StatusUnauthorized, apperr.CodeUnauthorized},
		{"not_found", apperr.NotFound("Channel"), http.StatusNotFound, apperr.CodeNotFound},
		{"conflict", apperr.Conflict("dup"), http.StatusConflict, apperr.CodeConflict},
		{"internal", apperr.Internal(errors.New("boom")), http.StatusInternalServerError, apperr.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

/*
TestAppError_WithCause keeps the client view but exposes the cause to errors.Is.
*/
func TestAppError_WithCause(t *testing.T) {
	sentinel := errors.New("refresh token reused")
	base := apperr.Unauthorized("Invalid refresh token")

	err := base.WithCause(sentinel)

	assert.Equal(t, "Invalid refresh token", err.Error())
	assert.ErrorIs(t, err, sentinel)
	assert.Nil(t, base.Cause, "original must not be mutated")
}

/*
TestAppError_AsThroughWrapping verifies extraction through fmt.Errorf chains.
*/
func TestAppError_AsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("account_service_failed: %w", apperr.NotFound("Account"))

	ae := apperr.As(wrapped)
	require.NotNil(t, ae)
	assert.Equal(t, "Account not found", ae.Message)
	assert.True(t, apperr.IsNotFound(wrapped))
	assert.False(t, apperr.HasCode(wrapped, apperr.CodeConflict))
	assert.Nil(t, apperr.As(errors.New("plain")))
}
