// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package channel_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomitube/internal/platform/apperr"
	"github.com/taibuivan/yomitube/internal/platform/ctxutil"
	"github.com/taibuivan/yomitube/internal/platform/sec"
	"github.com/taibuivan/yomitube/internal/users/channel"
)

// # Fakes

type edge struct{ subscriber, channel string }

// memoryGraph is an in-memory Repository; its snapshot is the map itself.
type memoryGraph struct {
	accounts  map[string]string // username -> id
	edges     map[edge]bool
	snapshots int
	countErr  error
}

func newGraph() *memoryGraph {
	return &memoryGraph{
		accounts: map[string]string{"chan": "c", "u1": "u1", "u2": "u2", "u3": "u3", "x": "x"},
		edges:    map[edge]bool{},
	}
}

func (g *memoryGraph) ReadSnapshot(_ context.Context, fn func(channel.Reader) error) error {
	g.snapshots++
	return fn(g)
}

func (g *memoryGraph) FindChannel(_ context.Context, username string) (*channel.Profile, error) {
	id, ok := g.accounts[username]
	if !ok {
		return nil, apperr.NotFound("Channel")
	}
	return &channel.Profile{ID: id, Username: username}, nil
}

func (g *memoryGraph) CountSubscribers(_ context.Context, channelID string) (int64, error) {
	if g.countErr != nil {
		return 0, g.countErr
	}
	var total int64
	for e := range g.edges {
		if e.channel == channelID {
			total++
		}
	}
	return total, nil
}

func (g *memoryGraph) CountSubscriptions(_ context.Context, channelID string) (int64, error) {
	var total int64
	for e := range g.edges {
		if e.subscriber == channelID {
			total++
		}
	}
	return total, nil
}

func (g *memoryGraph) IsSubscribed(_ context.Context, subscriberID, channelID string) (bool, error) {
	return g.edges[edge{subscriberID, channelID}], nil
}

func (g *memoryGraph) FindChannelID(_ context.Context, username string) (string, error) {
	id, ok := g.accounts[username]
	if !ok {
		return "", apperr.NotFound("Channel")
	}
	return id, nil
}

func (g *memoryGraph) Subscribe(_ context.Context, subscriberID, channelID string) error {
	g.edges[edge{subscriberID, channelID}] = true
	return nil
}

func (g *memoryGraph) Unsubscribe(_ context.Context, subscriberID, channelID string) error {
	delete(g.edges, edge{subscriberID, channelID})
	return nil
}

// # Service

/*
TestGetProfile_DerivedValues covers two subscribers of c and c's own subscriptions.
*/
func TestGetProfile_DerivedValues(t *testing.T) {
	graph := newGraph()
	graph.edges[edge{"u1", "c"}] = true
	graph.edges[edge{"u2", "c"}] = true
	graph.edges[edge{"c", "x"}] = true
	service := channel.NewService(graph)
	ctx := context.Background()

	tests := []struct {
		viewer     string
		subscribed bool
	}{
		{"u1", true},
		{"u2", true},
		{"u3", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run("viewer_"+tt.viewer, func(t *testing.T) {
			profile, err := service.GetProfile(ctx, "Chan", tt.viewer)
			require.NoError(t, err)

			assert.Equal(t, "c", profile.ID)
			assert.Equal(t, int64(2), profile.SubscribersCount)
			assert.Equal(t, int64(1), profile.ChannelsSubscribedToCount)
			assert.Equal(t, tt.subscribed, profile.IsSubscribed)
		})
	}

	assert.Equal(t, len(tests), graph.snapshots)
}

func TestGetProfile_Failures(t *testing.T) {
	ctx := context.Background()

	_, err := channel.NewService(newGraph()).GetProfile(ctx, "  ", "")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = channel.NewService(newGraph()).GetProfile(ctx, "ghost", "")
	assert.True(t, apperr.IsNotFound(err))

	broken := newGraph()
	broken.countErr = errors.New("snapshot aborted")
	_, err = channel.NewService(broken).GetProfile(ctx, "chan", "")
	assert.ErrorContains(t, err, "snapshot aborted")
}

func TestSubscribe(t *testing.T) {
	graph := newGraph()
	service := channel.NewService(graph)
	ctx := context.Background()

	profile, err := service.Subscribe(ctx, "u1", "chan")
	require.NoError(t, err)
	assert.True(t, profile.IsSubscribed)
	assert.Equal(t, int64(1), profile.SubscribersCount)

	// Idempotent.
	profile, err = service.Subscribe(ctx, "u1", "chan")
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.SubscribersCount)

	profile, err = service.Unsubscribe(ctx, "u1", "chan")
	require.NoError(t, err)
	assert.False(t, profile.IsSubscribed)
	assert.Zero(t, profile.SubscribersCount)

	_, err = service.Unsubscribe(ctx, "u1", "chan")
	assert.NoError(t, err)
}

func TestSubscribe_Rejections(t *testing.T) {
	graph := newGraph()
	service := channel.NewService(graph)
	ctx := context.Background()

	_, err := service.Subscribe(ctx, "c", "chan")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = service.Subscribe(ctx, "u1", "ghost")
	assert.True(t, apperr.IsNotFound(err))

	assert.Empty(t, graph.edges)
}

// # HTTP

func TestHandler_Routes(t *testing.T) {
	graph := newGraph()
	handler := channel.NewHandler(channel.NewService(graph))

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if userID := request.Header.Get("X-Test-User"); userID != "" {
				request = request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: userID}))
			}
			next.ServeHTTP(writer, request)
		})
	})
	router.Mount("/channels", handler.Routes())

	// Anonymous subscribe is refused.
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/channels/chan/subscription", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	subscribe := httptest.NewRequest(http.MethodPost, "/channels/chan/subscription", nil)
	subscribe.Header.Set("X-Test-User", "u1")
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, subscribe)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	// Anonymous profile read works and is never subscribed.
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/channels/chan", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"subscribersCount":1`)
	assert.Contains(t, recorder.Body.String(), `"isSubscribed":false`)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/channels/ghost", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
