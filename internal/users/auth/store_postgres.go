// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yomitube/internal/platform/database/schema"
	"github.com/taibuivan/yomitube/internal/platform/dberr"
)

// AccountColumns is the comma-separated column list scanned by [ScanUser].
var AccountColumns = strings.Join(schema.UserAccount.Columns(), ", ")

var (
	selectAccountQuery = fmt.Sprintf(`SELECT %s FROM %s`, AccountColumns, schema.UserAccount.Table)

	insertAccountQuery = fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		schema.UserAccount.Table, AccountColumns)
)

/*
ScanUser hydrates a [User] from a row selected with [AccountColumns].

Parameters:
  - row: pgx.Row

Returns:
  - *User: Hydrated entity
  - error: pgx scan errors (including pgx.ErrNoRows)
*/
func ScanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.PasswordHash,
		&user.Avatar,
		&user.CoverImage,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// # Account Repository

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL implementation of the AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

/*
Create persists a new account record into the users.account table.

Description: Initializes timestamps when not provided. Unique violations on
username or email surface as apperr.Conflict.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict or database errors
*/
func (repository *PostgresAccountRepository) Create(context context.Context, user *User) error {
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, insertAccountQuery,
		user.ID,
		user.Username,
		user.Email,
		user.FullName,
		user.PasswordHash,
		user.Avatar,
		user.CoverImage,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "Account", "postgres_account_repo_create_failed")
	}

	return nil
}

/*
FindByID retrieves an account by its primary key.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.findOne(context, schema.UserAccount.ID, id, "postgres_account_repo_find_by_id_failed")
}

/*
FindByEmail retrieves an account by its normalized email address.
*/
func (repository *PostgresAccountRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findOne(context, schema.UserAccount.Email, email, "postgres_account_repo_find_by_email_failed")
}

/*
FindByUsername retrieves an account by its normalized username.
*/
func (repository *PostgresAccountRepository) FindByUsername(context context.Context, username string) (*User, error) {
	return repository.findOne(context, schema.UserAccount.Username, username, "postgres_account_repo_find_by_username_failed")
}

func (repository *PostgresAccountRepository) findOne(context context.Context, column, value, action string) (*User, error) {
	query := fmt.Sprintf(`%s WHERE %s = $1`, selectAccountQuery, column)

	user, err := ScanUser(repository.pool.QueryRow(context, query, value))
	if err != nil {
		return nil, dberr.Wrap(err, "Account", action)
	}

	return user, nil
}

/*
UpdatePassword replaces the password hash of an account.

Parameters:
  - context: context.Context
  - userID: string
  - newHash: string (bcrypt)

Returns:
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAccountRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = now() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.Password, schema.UserAccount.UpdatedAt, schema.UserAccount.ID)

	return repository.execOne(context, query, "postgres_account_repo_update_password_failed", userID, newHash)
}

// # Session Slot

/*
FindRefreshToken returns the stored refresh token, or "" when none is live.
*/
func (repository *PostgresAccountRepository) FindRefreshToken(context context.Context, userID string) (string, error) {
	query := fmt.Sprintf(`SELECT COALESCE(%s, '') FROM %s WHERE %s = $1`,
		schema.UserAccount.RefreshToken, schema.UserAccount.Table, schema.UserAccount.ID)

	var token string
	if err := repository.pool.QueryRow(context, query, userID).Scan(&token); err != nil {
		return "", dberr.Wrap(err, "Account", "postgres_account_repo_find_refresh_token_failed")
	}

	return token, nil
}

/*
SetRefreshToken overwrites the stored refresh token.
*/
func (repository *PostgresAccountRepository) SetRefreshToken(context context.Context, userID, token string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.RefreshToken, schema.UserAccount.ID)

	return repository.execOne(context, query, "postgres_account_repo_set_refresh_token_failed", userID, token)
}

/*
SwapRefreshToken is a compare-and-swap on the refresh token column.

Description: The row lock taken by UPDATE serializes concurrent swaps; the
loser re-evaluates the WHERE clause against the winner's value and matches
nothing.

Parameters:
  - context: context.Context
  - userID: string
  - expected: string (token the caller presented)
  - next: string (freshly minted token)

Returns:
  - bool: true when exactly one row was swapped
  - error: Database errors
*/
func (repository *PostgresAccountRepository) SwapRefreshToken(context context.Context, userID, expected, next string) (bool, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = $3 WHERE %s = $1 AND %s = $2`,
		schema.UserAccount.Table, schema.UserAccount.RefreshToken, schema.UserAccount.ID, schema.UserAccount.RefreshToken)

	tag, err := repository.pool.Exec(context, query, userID, expected, next)
	if err != nil {
		return false, dberr.Wrap(err, "Account", "postgres_account_repo_swap_refresh_token_failed")
	}

	return tag.RowsAffected() == 1, nil
}

/*
ClearRefreshToken nulls the refresh token column. Idempotent.
*/
func (repository *PostgresAccountRepository) ClearRefreshToken(context context.Context, userID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NULL WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.RefreshToken, schema.UserAccount.ID)

	if _, err := repository.pool.Exec(context, query, userID); err != nil {
		return dberr.Wrap(err, "Account", "postgres_account_repo_clear_refresh_token_failed")
	}

	return nil
}

// execOne runs a single-row UPDATE and maps zero affected rows to NotFound.
func (repository *PostgresAccountRepository) execOne(context context.Context, query, action string, args ...any) error {
	tag, err := repository.pool.Exec(context, query, args...)
	if err != nil {
		return dberr.Wrap(err, "Account", action)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Account", action)
	}
	return nil
}
