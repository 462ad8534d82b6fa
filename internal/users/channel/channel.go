// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package channel exposes an account as a channel: its public identity plus
subscription counts and whether the viewer subscribes to it.

# Consistency

The identity row and the three derived values are read through one [Reader]
bound to a single snapshot, so the counts in a [Profile] agree with each other
even while subscriptions change concurrently.
*/
package channel

import (
	"context"
	"time"
)

// # Domain Entities

// Profile is the public view of a channel.
type Profile struct {
	ID                        string    `json:"id"`
	Username                  string    `json:"username"`
	FullName                  string    `json:"fullName"`
	Email                     string    `json:"email"`
	Avatar                    string    `json:"avatar"`
	CoverImage                string    `json:"coverImage"`
	SubscribersCount          int64     `json:"subscribersCount"`
	ChannelsSubscribedToCount int64     `json:"channelsSubscribedToCount"`
	IsSubscribed              bool      `json:"isSubscribed"`
	CreatedAt                 time.Time `json:"createdAt"`
}

// # Repository Contracts

// Reader answers the queries that make up one [Profile]. All calls on a Reader
// observe the same snapshot.
type Reader interface {
	// FindChannel returns identity fields only; the derived fields are zero.
	FindChannel(context context.Context, username string) (*Profile, error)

	// CountSubscribers counts edges whose channel is channelID.
	CountSubscribers(context context.Context, channelID string) (int64, error)

	// CountSubscriptions counts edges whose subscriber is channelID.
	CountSubscriptions(context context.Context, channelID string) (int64, error)

	// IsSubscribed reports whether the edge (subscriberID, channelID) exists.
	IsSubscribed(context context.Context, subscriberID, channelID string) (bool, error)
}

// Repository defines the persistence contract for subscription edges.
type Repository interface {

	/*
		ReadSnapshot runs fn against a Reader pinned to one consistent snapshot.

		Returns:
		  - error: fn's error or storage failures
	*/
	ReadSnapshot(context context.Context, fn func(Reader) error) error

	/*
		FindChannelID resolves a normalized username to an account id.

		Returns:
		  - string: Account id
		  - error: apperr.NotFound when no such channel exists
	*/
	FindChannelID(context context.Context, username string) (string, error)

	// Subscribe inserts the edge. Inserting an existing edge is not an error.
	Subscribe(context context.Context, subscriberID, channelID string) error

	// Unsubscribe deletes the edge. Deleting a missing edge is not an error.
	Unsubscribe(context context.Context, subscriberID, channelID string) error
}
