// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yomitube/internal/platform/database/schema"
	"github.com/taibuivan/yomitube/internal/platform/dberr"
	"github.com/taibuivan/yomitube/internal/users/auth"
)

// # Repository Implementations

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new Postgres implementation for profile management.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

/*
FindByID retrieves an account from the users.account table.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *auth.User: Hydrated identity entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		auth.AccountColumns, schema.UserAccount.Table, schema.UserAccount.ID)

	user, err := auth.ScanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Account", "postgres_account_find_by_id_failed")
	}

	return user, nil
}

/*
UpdateDetails overwrites fullname and/or email in one statement.

Description: COALESCE keeps the stored value for nil fields. A duplicate email
trips account_email_key and surfaces as apperr.Conflict.
*/
func (repository *PostgresAccountRepository) UpdateDetails(context context.Context, id string, changes DetailsChanges) (*auth.User, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = COALESCE($2, %s), %s = COALESCE($3, %s), %s = now()
		WHERE %s = $1
		RETURNING %s`,
		schema.UserAccount.Table,
		schema.UserAccount.FullName, schema.UserAccount.FullName,
		schema.UserAccount.Email, schema.UserAccount.Email,
		schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
		auth.AccountColumns,
	)

	user, err := auth.ScanUser(repository.pool.QueryRow(context, query, id, changes.FullName, changes.Email))
	if err != nil {
		return nil, dberr.Wrap(err, "Account", "postgres_account_update_details_failed")
	}

	return user, nil
}

// UpdateAvatar replaces avatarurl.
func (repository *PostgresAccountRepository) UpdateAvatar(context context.Context, id, url string) (*auth.User, error) {
	return repository.updateColumn(context, schema.UserAccount.AvatarURL, id, url, "postgres_account_update_avatar_failed")
}

// UpdateCover replaces coverimageurl.
func (repository *PostgresAccountRepository) UpdateCover(context context.Context, id, url string) (*auth.User, error) {
	return repository.updateColumn(context, schema.UserAccount.CoverURL, id, url, "postgres_account_update_cover_failed")
}

func (repository *PostgresAccountRepository) updateColumn(context context.Context, column, id, value, action string) (*auth.User, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = now() WHERE %s = $1 RETURNING %s`,
		schema.UserAccount.Table, column, schema.UserAccount.UpdatedAt, schema.UserAccount.ID, auth.AccountColumns)

	user, err := auth.ScanUser(repository.pool.QueryRow(context, query, id, value))
	if err != nil {
		return nil, dberr.Wrap(err, "Account", action)
	}

	return user, nil
}
