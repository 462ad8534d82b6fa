// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yomitube/internal/platform/database/schema"
	"github.com/taibuivan/yomitube/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new Postgres implementation of the history Repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
WatchHistory reads the watchhistory array of an account.
*/
func (repository *PostgresRepository) WatchHistory(context context.Context, userID string) ([]string, error) {
	query := fmt.Sprintf(`SELECT %s::text[] FROM %s WHERE %s = $1`,
		schema.UserAccount.WatchHistory, schema.UserAccount.Table, schema.UserAccount.ID)

	var ids []string
	if err := repository.pool.QueryRow(context, query, userID).Scan(&ids); err != nil {
		return nil, dberr.Wrap(err, "Account", "postgres_history_watch_history_failed")
	}

	return ids, nil
}

/*
FindVideos loads every video whose id is in ids.

Parameters:
  - context: context.Context
  - ids: []string (distinct)

Returns:
  - []Item: Found videos with OwnerID set and Owner nil
  - error: Database errors
*/
func (repository *PostgresRepository) FindVideos(context context.Context, ids []string) ([]Item, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ANY($1::text[]::uuid[])`,
		strings.Join([]string{
			schema.ContentVideo.ID, schema.ContentVideo.OwnerID, schema.ContentVideo.VideoFileURL,
			schema.ContentVideo.ThumbnailURL, schema.ContentVideo.Title, schema.ContentVideo.Description,
			schema.ContentVideo.Duration, schema.ContentVideo.Views, schema.ContentVideo.IsPublished,
			schema.ContentVideo.CreatedAt,
		}, ", "),
		schema.ContentVideo.Table, schema.ContentVideo.ID)

	rows, err := repository.pool.Query(context, query, ids)
	if err != nil {
		return nil, dberr.Wrap(err, "Video", "postgres_history_find_videos_failed")
	}
	defer rows.Close()

	videos := make([]Item, 0, len(ids))
	for rows.Next() {
		var video Item
		if err := rows.Scan(
			&video.ID,
			&video.OwnerID,
			&video.VideoFile,
			&video.Thumbnail,
			&video.Title,
			&video.Description,
			&video.Duration,
			&video.Views,
			&video.IsPublished,
			&video.CreatedAt,
		); err != nil {
			return nil, dberr.Wrap(err, "Video", "postgres_history_scan_video_failed")
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "Video", "postgres_history_iterate_videos_failed")
	}

	return videos, nil
}

/*
FindOwners loads the public summary of every account whose id is in ids.
*/
func (repository *PostgresRepository) FindOwners(context context.Context, ids []string) ([]Owner, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = ANY($1::text[]::uuid[])`,
		schema.UserAccount.ID, schema.UserAccount.FullName, schema.UserAccount.Username, schema.UserAccount.AvatarURL,
		schema.UserAccount.Table, schema.UserAccount.ID)

	rows, err := repository.pool.Query(context, query, ids)
	if err != nil {
		return nil, dberr.Wrap(err, "Account", "postgres_history_find_owners_failed")
	}
	defer rows.Close()

	owners := make([]Owner, 0, len(ids))
	for rows.Next() {
		var owner Owner
		if err := rows.Scan(&owner.ID, &owner.FullName, &owner.Username, &owner.Avatar); err != nil {
			return nil, dberr.Wrap(err, "Account", "postgres_history_scan_owner_failed")
		}
		owners = append(owners, owner)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "Account", "postgres_history_iterate_owners_failed")
	}

	return owners, nil
}

/*
VideoExists checks content.video for the id.
*/
func (repository *PostgresRepository) VideoExists(context context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		schema.ContentVideo.Table, schema.ContentVideo.ID)

	var exists bool
	if err := repository.pool.QueryRow(context, query, id).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "Video", "postgres_history_video_exists_failed")
	}

	return exists, nil
}

/*
AppendWatchHistory appends one id to the end of the watchhistory array.
*/
func (repository *PostgresRepository) AppendWatchHistory(context context.Context, userID, videoID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = array_append(%s, $2::text::uuid), %s = now() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.WatchHistory, schema.UserAccount.WatchHistory,
		schema.UserAccount.UpdatedAt, schema.UserAccount.ID)

	tag, err := repository.pool.Exec(context, query, userID, videoID)
	if err != nil {
		return dberr.Wrap(err, "Account", "postgres_history_append_failed")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Account", "postgres_history_append_failed")
	}

	return nil
}
