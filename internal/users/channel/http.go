// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package channel

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yomitube/internal/platform/ctxutil"
	"github.com/taibuivan/yomitube/internal/platform/middleware"
	requestutil "github.com/taibuivan/yomitube/internal/platform/request"
	"github.com/taibuivan/yomitube/internal/platform/respond"
)

// Handler implements channel profile and subscription endpoints.
type Handler struct {
	channelService *Service
}

// NewHandler constructs a new channel [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{channelService: service}
}

// Routes returns a [chi.Router] configured with channel endpoints.
//
// # Endpoints
//   - GET    /{username}              : Channel profile (auth optional).
//   - POST   /{username}/subscription : Subscribe.
//   - DELETE /{username}/subscription : Unsubscribe.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{username}", handler.getProfile)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/{username}/subscription", handler.subscribe)
		r.Delete("/{username}/subscription", handler.unsubscribe)
	})

	return router
}

/*
GET /api/v1/channels/{username}.

Response:
  - 200: Profile
  - 404: Unknown channel
*/
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	profile, err := handler.channelService.GetProfile(
		request.Context(),
		requestutil.Param(request, "username"),
		ctxutil.GetUserID(request.Context()),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile, "User channel fetched successfully")
}

/*
POST /api/v1/channels/{username}/subscription.
*/
func (handler *Handler) subscribe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.channelService.Subscribe(request.Context(), userID, requestutil.Param(request, "username"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile, "Subscribed successfully")
}

/*
DELETE /api/v1/channels/{username}/subscription.
*/
func (handler *Handler) unsubscribe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.channelService.Unsubscribe(request.Context(), userID, requestutil.Param(request, "username"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile, "Unsubscribed successfully")
}
