// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Account Constraints

const (
	// UsernameMinLength and UsernameMaxLength bound a normalized handle.
	UsernameMinLength = 3
	UsernameMaxLength = 30

	// PasswordMinLength is the shortest accepted plaintext password.
	PasswordMinLength = 8

	// PasswordMaxBytes is bcrypt's input limit, counted in UTF-8 bytes.
	PasswordMaxBytes = 72

	// FullNameMaxLength bounds the display name.
	FullNameMaxLength = 100
)

// # Client Messages

const (
	msgInvalidCredentials  = "Invalid user credentials"
	msgInvalidRefreshToken = "Invalid refresh token"
	msgUserExists          = "User with email or username already exists"
	msgAvatarRequired      = "Avatar file is required"
	msgInvalidOldPassword  = "Invalid old password"
	msgPasswordMismatch    = "New password and confirm password do not match"
	msgIdentifierRequired  = "Username or email is required"
)
