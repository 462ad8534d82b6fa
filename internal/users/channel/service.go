// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package channel

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/yomitube/internal/platform/apperr"
	"github.com/taibuivan/yomitube/internal/platform/ctxutil"
	"github.com/taibuivan/yomitube/pkg/normalize"
)

// Service aggregates channel profiles and manages subscriptions.
type Service struct {
	repository Repository
}

// NewService constructs a new [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

/*
GetProfile builds the channel profile for username as seen by viewerID.

Description: An anonymous viewer ("") is never subscribed. The identity lookup
and all three derived values are read from one snapshot.

Parameters:
  - context: context.Context
  - username: string (normalized before lookup)
  - viewerID: string ("" for anonymous)

Returns:
  - *Profile: Identity plus derived values
  - error: Validation for an empty username, NotFound for an unknown channel
*/
func (service *Service) GetProfile(context context.Context, username, viewerID string) (*Profile, error) {
	username = normalize.Username(username)
	if username == "" {
		return nil, apperr.ValidationError("Username is missing")
	}

	var profile *Profile
	err := service.repository.ReadSnapshot(context, func(reader Reader) error {
		found, err := reader.FindChannel(context, username)
		if err != nil {
			return err
		}

		if found.SubscribersCount, err = reader.CountSubscribers(context, found.ID); err != nil {
			return err
		}
		if found.ChannelsSubscribedToCount, err = reader.CountSubscriptions(context, found.ID); err != nil {
			return err
		}
		if viewerID != "" {
			if found.IsSubscribed, err = reader.IsSubscribed(context, viewerID, found.ID); err != nil {
				return err
			}
		}

		profile = found
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("channel_service_get_profile_failed: %w", err)
	}

	return profile, nil
}

/*
Subscribe makes viewerID a subscriber of username and returns the fresh profile.

Description: Subscribing twice is a no-op. Subscribing to oneself is rejected.
*/
func (service *Service) Subscribe(context context.Context, viewerID, username string) (*Profile, error) {
	channelID, err := service.resolveTarget(context, viewerID, username)
	if err != nil {
		return nil, err
	}

	if err := service.repository.Subscribe(context, viewerID, channelID); err != nil {
		return nil, fmt.Errorf("channel_service_subscribe_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "channel_subscribed",
		slog.String("subscriber_id", viewerID),
		slog.String("channel_id", channelID),
	)
	return service.GetProfile(context, username, viewerID)
}

/*
Unsubscribe removes the subscription of viewerID to username. Idempotent.
*/
func (service *Service) Unsubscribe(context context.Context, viewerID, username string) (*Profile, error) {
	channelID, err := service.resolveTarget(context, viewerID, username)
	if err != nil {
		return nil, err
	}

	if err := service.repository.Unsubscribe(context, viewerID, channelID); err != nil {
		return nil, fmt.Errorf("channel_service_unsubscribe_failed: %w", err)
	}

	return service.GetProfile(context, username, viewerID)
}

func (service *Service) resolveTarget(context context.Context, viewerID, username string) (string, error) {
	username = normalize.Username(username)
	if username == "" {
		return "", apperr.ValidationError("Username is missing")
	}

	channelID, err := service.repository.FindChannelID(context, username)
	if err != nil {
		return "", err
	}

	if channelID == viewerID {
		return "", apperr.ValidationError("Cannot subscribe to your own channel")
	}

	return channelID, nil
}
