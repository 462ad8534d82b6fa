// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package redis_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisstore "github.com/taibuivan/yomitube/internal/platform/redis"
)

/*
TestNewClient_PingsOnStartup connects to an in-process Redis and survives a ping.
*/
func TestNewClient_PingsOnStartup(t *testing.T) {
	server := miniredis.RunT(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	client, err := redisstore.NewClient(context.Background(), "redis://"+server.Addr()+"/0", logger)
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, redisstore.Ping(context.Background(), client))

	server.Close()
	assert.Error(t, redisstore.Ping(context.Background(), client))
}

func TestNewClient_InvalidURL(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := redisstore.NewClient(context.Background(), "://nope", logger)
	assert.Error(t, err)
}

func TestKey_Namespaced(t *testing.T) {
	assert.Equal(t, "yomitube-api:auth:revoked_access:abc", redisstore.Key("auth:revoked_access:", "abc"))
}
