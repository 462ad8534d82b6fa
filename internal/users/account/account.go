// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles the signed-in user's own profile.

It lets a user read their account, change the display name or email, and
replace the avatar or cover image.

# Architecture

  - Domain: This package depends on the auth package for the User entity.
  - Media: Images are pushed through the soft-failing media uploader.
*/
package account

import (
	"context"

	"github.com/taibuivan/yomitube/internal/platform/media"
	"github.com/taibuivan/yomitube/internal/users/auth"
)

// # Domain Types

// DetailsChanges carries the profile fields to overwrite. Nil means unchanged.
type DetailsChanges struct {
	FullName *string
	Email    *string
}

// Uploader moves a staged local file to object storage. [*media.Uploader] satisfies it.
type Uploader interface {
	Upload(ctx context.Context, localPath string) *media.Asset
}

// # Repository Contracts

// AccountRepository defines the persistence contract for profile updates.
type AccountRepository interface {
	/*
		FindByID retrieves an account by its unique ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *auth.User: Hydrated entity
		  - error: apperr.NotFound or database failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		UpdateDetails overwrites the non-nil fields and returns the updated account.

		Parameters:
		  - context: context.Context
		  - id: string
		  - changes: DetailsChanges

		Returns:
		  - *auth.User: Updated entity
		  - error: apperr.Conflict when the email is taken, apperr.NotFound
	*/
	UpdateDetails(context context.Context, id string, changes DetailsChanges) (*auth.User, error)

	// UpdateAvatar replaces the avatar URL and returns the updated account.
	UpdateAvatar(context context.Context, id, url string) (*auth.User, error)

	// UpdateCover replaces the cover image URL and returns the updated account.
	UpdateCover(context context.Context, id, url string) (*auth.User, error)
}
