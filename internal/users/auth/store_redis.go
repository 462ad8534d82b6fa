// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/yomitube/internal/platform/constants"
	redisstore "github.com/taibuivan/yomitube/internal/platform/redis"
)

// RedisAccessDenylist implements [AccessDenylist] using Redis keys that expire
// together with the token they deny.
type RedisAccessDenylist struct {
	client *redis.Client
}

// NewAccessDenylist creates a new Redis-backed AccessDenylist.
func NewAccessDenylist(client *redis.Client) *RedisAccessDenylist {
	return &RedisAccessDenylist{client: client}
}

/*
Revoke stores the token id until the token's own expiry.

Description: A token that has already expired needs no entry and is skipped.

Parameters:
  - context: context.Context
  - tokenID: string
  - expiresAt: time.Time

Returns:
  - error: Execution errors
*/
func (repository *RedisAccessDenylist) Revoke(context context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if tokenID == "" || ttl <= 0 {
		return nil
	}

	if err := repository.client.Set(context, redisstore.Key(constants.RedisPrefixRevokedAccess, tokenID), 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis_access_denylist_set_failed: %w", err)
	}

	return nil
}

/*
IsRevoked reports whether the token id is on the denylist.

Parameters:
  - context: context.Context
  - tokenID: string

Returns:
  - bool: true when denied
  - error: Connectivity errors
*/
func (repository *RedisAccessDenylist) IsRevoked(context context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}

	count, err := repository.client.Exists(context, redisstore.Key(constants.RedisPrefixRevokedAccess, tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis_access_denylist_exists_failed: %w", err)
	}

	return count > 0, nil
}
