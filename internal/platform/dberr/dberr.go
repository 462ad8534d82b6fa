// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/yomitube/internal/platform/apperr"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// # Parameters
//   - err: Error returned by pgx
//   - resource: Human-readable entity name used in NotFound messages ("Account", "Video")
//   - action: snake_case tag kept on the internal cause for logs
func Wrap(err error, resource, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	// 2. Constraint violations carry a SQLSTATE the client can act on
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return apperr.Conflict(conflictMessage(resource, pgErr)).WithCause(err)
		case pgerrcode.CheckViolation:
			return apperr.ValidationError(resource + " violates a data rule").WithCause(err)
		case pgerrcode.ForeignKeyViolation:
			return apperr.NotFound(resource).WithCause(err)
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// IsUniqueViolation reports whether err is a Postgres 23505.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// conflictMessage names the duplicated column when the constraint follows the
// "<table>_<column>_key" convention Postgres uses for UNIQUE columns.
func conflictMessage(resource string, pgErr *pgconn.PgError) string {
	switch pgErr.ConstraintName {
	case "account_username_key":
		return "Username is already taken"
	case "account_email_key":
		return "Email is already registered"
	default:
		return resource + " already exists"
	}
}
