// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package channel

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yomitube/internal/platform/database/schema"
	"github.com/taibuivan/yomitube/internal/platform/dberr"
	"github.com/taibuivan/yomitube/internal/platform/postgres"
)

var (
	findChannelQuery = fmt.Sprintf(`SELECT %s, %s, %s, %s, %s, %s, %s FROM %s WHERE %s = $1`,
		schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.FullName, schema.UserAccount.Email,
		schema.UserAccount.AvatarURL, schema.UserAccount.CoverURL, schema.UserAccount.CreatedAt,
		schema.UserAccount.Table, schema.UserAccount.Username)

	// Served by subscription_channelid_idx.
	countSubscribersQuery = fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1`,
		schema.UserSubscription.Table, schema.UserSubscription.ChannelID)

	// Served by the (subscriberid, channelid) primary key.
	countSubscriptionsQuery = fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1`,
		schema.UserSubscription.Table, schema.UserSubscription.SubscriberID)

	isSubscribedQuery = fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`,
		schema.UserSubscription.Table, schema.UserSubscription.SubscriberID, schema.UserSubscription.ChannelID)
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new Postgres implementation of the channel Repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
ReadSnapshot runs fn inside a REPEATABLE READ, READ ONLY transaction.
*/
func (repository *PostgresRepository) ReadSnapshot(context context.Context, fn func(Reader) error) error {
	return postgres.ReadSnapshot(context, repository.pool, func(querier postgres.Querier) error {
		return fn(&snapshotReader{querier: querier})
	})
}

/*
FindChannelID resolves a username to an account id.
*/
func (repository *PostgresRepository) FindChannelID(context context.Context, username string) (string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.UserAccount.ID, schema.UserAccount.Table, schema.UserAccount.Username)

	var id string
	if err := repository.pool.QueryRow(context, query, username).Scan(&id); err != nil {
		return "", dberr.Wrap(err, "Channel", "postgres_channel_find_id_failed")
	}

	return id, nil
}

/*
Subscribe inserts a subscription edge; ON CONFLICT makes it idempotent.
*/
func (repository *PostgresRepository) Subscribe(context context.Context, subscriberID, channelID string) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		schema.UserSubscription.Table, schema.UserSubscription.SubscriberID, schema.UserSubscription.ChannelID)

	if _, err := repository.pool.Exec(context, query, subscriberID, channelID); err != nil {
		return dberr.Wrap(err, "Channel", "postgres_channel_subscribe_failed")
	}

	return nil
}

/*
Unsubscribe deletes a subscription edge if present.
*/
func (repository *PostgresRepository) Unsubscribe(context context.Context, subscriberID, channelID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.UserSubscription.Table, schema.UserSubscription.SubscriberID, schema.UserSubscription.ChannelID)

	if _, err := repository.pool.Exec(context, query, subscriberID, channelID); err != nil {
		return dberr.Wrap(err, "Channel", "postgres_channel_unsubscribe_failed")
	}

	return nil
}

// # Snapshot Reader

type snapshotReader struct {
	querier postgres.Querier
}

func (reader *snapshotReader) FindChannel(context context.Context, username string) (*Profile, error) {
	profile := &Profile{}
	err := reader.querier.QueryRow(context, findChannelQuery, username).Scan(
		&profile.ID,
		&profile.Username,
		&profile.FullName,
		&profile.Email,
		&profile.Avatar,
		&profile.CoverImage,
		&profile.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Channel", "postgres_channel_find_failed")
	}
	return profile, nil
}

func (reader *snapshotReader) CountSubscribers(context context.Context, channelID string) (int64, error) {
	return reader.count(context, countSubscribersQuery, channelID, "postgres_channel_count_subscribers_failed")
}

func (reader *snapshotReader) CountSubscriptions(context context.Context, channelID string) (int64, error) {
	return reader.count(context, countSubscriptionsQuery, channelID, "postgres_channel_count_subscriptions_failed")
}

func (reader *snapshotReader) IsSubscribed(context context.Context, subscriberID, channelID string) (bool, error) {
	var exists bool
	if err := reader.querier.QueryRow(context, isSubscribedQuery, subscriberID, channelID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "Subscription", "postgres_channel_is_subscribed_failed")
	}
	return exists, nil
}

func (reader *snapshotReader) count(context context.Context, query, id, action string) (int64, error) {
	var total int64
	if err := reader.querier.QueryRow(context, query, id).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, "Subscription", action)
	}
	return total, nil
}
