// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema holds the table and column names used by the Postgres repositories.
package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table        string
	ID           string
	Username     string
	Email        string
	FullName     string
	Password     string
	AvatarURL    string
	CoverURL     string
	RefreshToken string
	WatchHistory string
	CreatedAt    string
	UpdatedAt    string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:        "users.account",
	ID:           "id",
	Username:     "username",
	Email:        "email",
	FullName:     "fullname",
	Password:     "passwordhash",
	AvatarURL:    "avatarurl",
	CoverURL:     "coverimageurl",
	RefreshToken: "refreshtoken",
	WatchHistory: "watchhistory",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

// Columns returns the columns of a full account row, in scan order.
// Neither the refresh token nor the watch history is part of it.
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.FullName, t.Password,
		t.AvatarURL, t.CoverURL, t.CreatedAt, t.UpdatedAt,
	}
}
