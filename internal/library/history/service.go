// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package history

import (
	"context"
	"fmt"

	"github.com/taibuivan/yomitube/internal/platform/apperr"
	"github.com/taibuivan/yomitube/internal/platform/validate"
	"github.com/taibuivan/yomitube/pkg/slice"
)

const fieldVideoID = "videoId"

// Service reads and records watch history.
type Service struct {
	repository Repository
}

// NewService constructs a new [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

/*
GetHistory returns the caller's hydrated watch history.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []Item: Hydrated entries in watch order (never nil)
  - error: NotFound for an unknown account, storage failures
*/
func (service *Service) GetHistory(context context.Context, userID string) ([]Item, error) {
	ids, err := service.repository.WatchHistory(context, userID)
	if err != nil {
		return nil, fmt.Errorf("history_service_load_failed: %w", err)
	}

	return service.Hydrate(context, ids)
}

/*
Hydrate resolves ids to items, keeping input order.

# Flow

 1. Query each distinct id once.
 2. Query each distinct owner of the found videos once.
 3. Walk the input in order, skipping ids with no video; the first owner row
    per id wins.

Parameters:
  - context: context.Context
  - ids: []string

Returns:
  - []Item: One entry per resolvable input id
  - error: Storage failures (missing rows are not failures)
*/
func (service *Service) Hydrate(context context.Context, ids []string) ([]Item, error) {
	items := make([]Item, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}

	// ── 1. Videos ─────────────────────────────────────────────────────
	videos, err := service.repository.FindVideos(context, slice.Unique(ids))
	if err != nil {
		return nil, fmt.Errorf("history_service_find_videos_failed: %w", err)
	}
	videoByID := slice.Index(videos, func(video Item) string { return video.ID })

	// ── 2. Owners ─────────────────────────────────────────────────────
	ownerIDs := slice.Unique(slice.Map(videos, func(video Item) string { return video.OwnerID }))
	owners, err := service.repository.FindOwners(context, ownerIDs)
	if err != nil {
		return nil, fmt.Errorf("history_service_find_owners_failed: %w", err)
	}
	ownerByID := slice.Index(owners, func(owner Owner) string { return owner.ID })

	// ── 3. Ordered Merge ──────────────────────────────────────────────
	for _, id := range ids {
		video, ok := videoByID[id]
		if !ok {
			continue
		}
		if owner, ok := ownerByID[video.OwnerID]; ok {
			video.Owner = &owner
		}
		items = append(items, video)
	}

	return items, nil
}

/*
RecordView appends videoID to the caller's watch history.

Returns:
  - error: Validation for a malformed id, NotFound for an unknown video
*/
func (service *Service) RecordView(context context.Context, userID, videoID string) error {
	if err := (&validate.Validator{}).UUID(fieldVideoID, videoID).Err(); err != nil {
		return err
	}

	exists, err := service.repository.VideoExists(context, videoID)
	if err != nil {
		return fmt.Errorf("history_service_video_lookup_failed: %w", err)
	}
	if !exists {
		return apperr.NotFound("Video")
	}

	if err := service.repository.AppendWatchHistory(context, userID, videoID); err != nil {
		return fmt.Errorf("history_service_append_failed: %w", err)
	}

	return nil
}
