// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/yomitube/internal/platform/apperr"
	"github.com/taibuivan/yomitube/internal/platform/ctxutil"
	"github.com/taibuivan/yomitube/internal/platform/media"
	"github.com/taibuivan/yomitube/internal/platform/sec"
	"github.com/taibuivan/yomitube/internal/platform/validate"
	"github.com/taibuivan/yomitube/pkg/normalize"
	"github.com/taibuivan/yomitube/pkg/uuid"
)

// # Contracts & Types

// Uploader moves a staged local file to object storage. [*media.Uploader] satisfies it.
//
// Upload returns nil on any failure and always disposes of the local file.
type Uploader interface {
	Upload(ctx context.Context, localPath string) *media.Asset
}

// Service implements the account and session use cases.
type Service struct {
	accounts AccountRepository
	verifier *CredentialVerifier
	sessions *SessionManager
	denylist AccessDenylist
	uploader Uploader
	observer Observer
}

// NewService constructs a new [Service]. observer may be nil.
func NewService(
	accounts AccountRepository,
	sessions *SessionManager,
	denylist AccessDenylist,
	uploader Uploader,
	observer Observer,
) *Service {
	if observer == nil {
		observer = noopObserver{}
	}
	return &Service{
		accounts: accounts,
		verifier: NewCredentialVerifier(accounts),
		sessions: sessions,
		denylist: denylist,
		uploader: uploader,
		observer: observer,
	}
}

// # Registration Flow

// RegisterInput holds the data required to create an account.
//
// AvatarPath and CoverPath are staged local files; empty means not provided.
type RegisterInput struct {
	FullName   string
	Email      string
	Username   string
	Password   string
	AvatarPath string
	CoverPath  string
}

/*
Register validates, uploads media, hashes, and persists a brand new account.

# Flow

 1. Validate and normalize fields.
 2. Reject an existing username or email.
 3. Upload the avatar (required) and the cover (optional).
 4. Hash the password and persist.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - error: Validation, Conflict or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// ── 1. Validation ─────────────────────────────────────────────────
	username := normalize.Username(input.Username)
	email := normalize.Email(input.Email)

	validator := &validate.Validator{}
	validator.
		Required(FieldFullName, input.FullName).
		MaxLen(FieldFullName, input.FullName, FullNameMaxLength).
		Required(FieldEmail, email).
		Email(FieldEmail, email).
		Required(FieldUsername, username).
		Username(FieldUsername, username).
		MinLen(FieldUsername, username, UsernameMinLength).
		MaxLen(FieldUsername, username, UsernameMaxLength).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, PasswordMinLength).
		MaxBytes(FieldPassword, input.Password, PasswordMaxBytes)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// ── 2. Uniqueness ─────────────────────────────────────────────────
	if exists, err := service.exists(context, username, email); err != nil {
		return nil, err
	} else if exists {
		return nil, apperr.Conflict(msgUserExists)
	}

	// ── 3. Hashing ────────────────────────────────────────────────────
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_hash_failed: %w", err))
	}

	// ── 4. Media ──────────────────────────────────────────────────────
	if input.AvatarPath == "" {
		return nil, validate.RequiredError(FieldAvatar, msgAvatarRequired)
	}
	avatar := service.uploader.Upload(context, input.AvatarPath)
	if avatar == nil {
		return nil, validate.RequiredError(FieldAvatar, msgAvatarRequired)
	}

	uploaded := []string{avatar.Key}
	coverURL := ""
	if input.CoverPath != "" {
		if cover := service.uploader.Upload(context, input.CoverPath); cover != nil {
			coverURL = cover.URL
			uploaded = append(uploaded, cover.Key)
		}
	}

	// ── 5. Persistence ────────────────────────────────────────────────
	user := &User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		FullName:     input.FullName,
		PasswordHash: hashedPassword,
		Avatar:       avatar.URL,
		CoverImage:   coverURL,
	}

	if err := service.accounts.Create(context, user); err != nil {
		// Objects stay in the bucket; the keys let an operator sweep them.
		ctxutil.GetLogger(context).WarnContext(context, "registration_media_orphaned",
			slog.Any("object_keys", uploaded),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "account_registered", slog.String("user_id", user.ID))
	return user, nil
}

// exists reports whether either identifier is already taken.
func (service *Service) exists(context context.Context, username, email string) (bool, error) {
	if _, err := service.accounts.FindByUsername(context, username); err == nil {
		return true, nil
	} else if !apperr.IsNotFound(err) {
		return false, err
	}

	if _, err := service.accounts.FindByEmail(context, email); err == nil {
		return true, nil
	} else if !apperr.IsNotFound(err) {
		return false, err
	}

	return false, nil
}

// # Session Flow

// LoginResult is the account together with its freshly issued session.
type LoginResult struct {
	User   *User
	Tokens *TokenPair
}

/*
Login verifies credentials and issues a new session, replacing any previous one.

Parameters:
  - context: context.Context
  - identifier: string (username or email)
  - password: string

Returns:
  - *LoginResult: Account and tokens
  - error: NotFound, Unauthorized, or issuance errors
*/
func (service *Service) Login(context context.Context, identifier, password string) (*LoginResult, error) {
	if password == "" {
		return nil, validate.RequiredError(FieldPassword, "Password is required")
	}

	user, err := service.verifier.Verify(context, identifier, password)
	if err != nil {
		service.observer.ObserveLogin(false)
		return nil, err
	}

	tokens, err := service.sessions.Issue(context, user.ID)
	if err != nil {
		return nil, err
	}

	service.observer.ObserveLogin(true)
	return &LoginResult{User: user, Tokens: tokens}, nil
}

/*
Logout clears the refresh token and denies the presented access token until it expires.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims (of the access token used for this request)

Returns:
  - error: Persistence failures
*/
func (service *Service) Logout(context context.Context, claims *sec.AuthClaims) error {
	if err := service.sessions.Revoke(context, claims.UserID); err != nil {
		return err
	}

	if service.denylist != nil && claims.ExpiresAt != nil {
		if err := service.denylist.Revoke(context, claims.ID, claims.ExpiresAt.Time); err != nil {
			return apperr.Internal(fmt.Errorf("auth_service_logout_denylist_failed: %w", err))
		}
	}

	return nil
}

/*
Refresh rotates the presented refresh token.

Returns:
  - *TokenPair: The new pair
  - error: apperr.Unauthorized for any token failure
*/
func (service *Service) Refresh(context context.Context, presented string) (*TokenPair, error) {
	return service.sessions.Rotate(context, presented)
}

// # Credential Management

// ChangePasswordInput carries the three password fields of the change form.
type ChangePasswordInput struct {
	OldPassword     string
	NewPassword     string
	ConfirmPassword string
}

/*
ChangePassword replaces the account password after re-checking the old one.

Description: A mismatched confirmation is rejected before any lookup. The
current session is left untouched.

Parameters:
  - context: context.Context
  - userID: string
  - input: ChangePasswordInput

Returns:
  - error: Validation, Unauthorized (wrong old password), or storage errors
*/
func (service *Service) ChangePassword(context context.Context, userID string, input ChangePasswordInput) error {
	validator := &validate.Validator{}
	validator.
		Required(FieldOldPassword, input.OldPassword).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, PasswordMinLength).
		MaxBytes(FieldNewPassword, input.NewPassword, PasswordMaxBytes).
		Custom(FieldConfirmPassword, input.NewPassword != input.ConfirmPassword, msgPasswordMismatch)
	if err := validator.Err(); err != nil {
		return err
	}

	user, err := service.accounts.FindByID(context, userID)
	if err != nil {
		return err
	}

	if err := matchPassword(input.OldPassword, user.PasswordHash, msgInvalidOldPassword); err != nil {
		return err
	}

	hashedPassword, err := sec.HashPassword(input.NewPassword)
	if err != nil {
		return apperr.Internal(fmt.Errorf("auth_service_hash_failed: %w", err))
	}

	return service.accounts.UpdatePassword(context, userID, hashedPassword)
}
