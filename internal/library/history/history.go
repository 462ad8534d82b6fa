// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package history turns an account's ordered list of watched video ids into
full video entries, each carrying a summary of the video's owner.

# Hydration Rules

  - Output order follows the stored order; a repeated id yields a repeated entry.
  - Ids that no longer resolve to a video are dropped silently.
  - Every id is queried once, however many times it appears.
*/
package history

import (
	"context"
	"time"
)

// # Domain Entities

// Owner is the public summary of the account that uploaded a video.
type Owner struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// Item is one hydrated history entry.
type Item struct {
	ID          string    `json:"id"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	OwnerID     string    `json:"-"`
	Owner       *Owner    `json:"owner"`
}

// # Repository Contracts

// Repository defines the persistence contract for watch history.
type Repository interface {

	/*
		WatchHistory returns the account's watched video ids in stored order.

		Returns:
		  - []string: Video ids, possibly repeated
		  - error: apperr.NotFound when the account does not exist
	*/
	WatchHistory(context context.Context, userID string) ([]string, error)

	// FindVideos returns the videos among ids that exist, in any order.
	FindVideos(context context.Context, ids []string) ([]Item, error)

	// FindOwners returns the owner summaries among ids that exist, in any order.
	FindOwners(context context.Context, ids []string) ([]Owner, error)

	// VideoExists reports whether a video with the id exists.
	VideoExists(context context.Context, id string) (bool, error)

	// AppendWatchHistory appends videoID to the end of the account's history.
	AppendWatchHistory(context context.Context, userID, videoID string) error
}
