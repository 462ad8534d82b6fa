// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/yomitube/internal/platform/apperr"
	"github.com/taibuivan/yomitube/internal/platform/ctxutil"
	"github.com/taibuivan/yomitube/internal/platform/validate"
	"github.com/taibuivan/yomitube/internal/users/auth"
	"github.com/taibuivan/yomitube/pkg/normalize"
)

// # Service Layer

// Service orchestrates profile reads and updates for the signed-in user.
type Service struct {
	accountRepository AccountRepository
	uploader          Uploader
}

// NewService constructs a new [Service] with its dependencies.
func NewService(accountRepo AccountRepository, uploader Uploader) *Service {
	return &Service{accountRepository: accountRepo, uploader: uploader}
}

// # Profile Management

/*
GetCurrentUser retrieves the caller's own account.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated account
  - error: Not found or execution failures
*/
func (service *Service) GetCurrentUser(context context.Context, userID string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_current_user_failed: %w", err)
	}
	return user, nil
}

// UpdateDetailsInput defines the mutable identity fields. Nil means unchanged.
type UpdateDetailsInput struct {
	FullName *string
	Email    *string
}

/*
UpdateAccountDetails changes the display name and/or email.

Description: At least one field must be present. The email is normalized
like at registration; uniqueness is enforced by storage.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateDetailsInput

Returns:
  - *auth.User: The updated account
  - error: Validation, Conflict, or storage errors
*/
func (service *Service) UpdateAccountDetails(context context.Context, userID string, input UpdateDetailsInput) (*auth.User, error) {
	if input.FullName == nil && input.Email == nil {
		return nil, apperr.ValidationError("At least one of fullName or email is required")
	}

	var changes DetailsChanges
	validator := &validate.Validator{}

	if input.FullName != nil {
		fullName := strings.TrimSpace(*input.FullName)
		validator.
			Required(auth.FieldFullName, fullName).
			MaxLen(auth.FieldFullName, fullName, auth.FullNameMaxLength)
		changes.FullName = &fullName
	}

	if input.Email != nil {
		email := normalize.Email(*input.Email)
		validator.
			Required(auth.FieldEmail, email).
			Email(auth.FieldEmail, email)
		changes.Email = &email
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.accountRepository.UpdateDetails(context, userID, changes)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_details_failed: %w", err)
	}

	return user, nil
}

// # Media

/*
UpdateAvatar uploads a new avatar and points the account at it.

Parameters:
  - context: context.Context
  - userID: string
  - localPath: string (staged upload; "" when the field was missing)

Returns:
  - *auth.User: The updated account
  - error: Validation (missing file or failed upload) or storage errors
*/
func (service *Service) UpdateAvatar(context context.Context, userID, localPath string) (*auth.User, error) {
	url, err := service.upload(context, localPath, auth.FieldAvatar, "Avatar file is missing")
	if err != nil {
		return nil, err
	}

	user, err := service.accountRepository.UpdateAvatar(context, userID, url)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_avatar_failed: %w", err)
	}

	return user, nil
}

/*
UpdateCover uploads a new cover image and points the account at it.
*/
func (service *Service) UpdateCover(context context.Context, userID, localPath string) (*auth.User, error) {
	url, err := service.upload(context, localPath, auth.FieldCoverImage, "Cover image file is missing")
	if err != nil {
		return nil, err
	}

	user, err := service.accountRepository.UpdateCover(context, userID, url)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_cover_failed: %w", err)
	}

	return user, nil
}

func (service *Service) upload(context context.Context, localPath, field, missingMessage string) (string, error) {
	if localPath == "" {
		return "", validate.RequiredError(field, missingMessage)
	}

	asset := service.uploader.Upload(context, localPath)
	if asset == nil {
		ctxutil.GetLogger(context).WarnContext(context, "account_media_upload_rejected", slog.String("field", field))
		return "", validate.RequiredError(field, "Error while uploading "+field)
	}

	return asset.URL, nil
}
