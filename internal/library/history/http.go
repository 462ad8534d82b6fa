// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package history

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yomitube/internal/platform/middleware"
	requestutil "github.com/taibuivan/yomitube/internal/platform/request"
	"github.com/taibuivan/yomitube/internal/platform/respond"
)

// Handler implements watch history endpoints.
type Handler struct {
	historyService *Service
}

// NewHandler constructs a new history [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{historyService: service}
}

// Routes returns a [chi.Router] configured with history endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.getHistory)
	router.Post("/{videoID}", handler.recordView)

	return router
}

/*
GET /api/v1/history.

Response:
  - 200: []Item in watch order
*/
func (handler *Handler) getHistory(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	items, err := handler.historyService.GetHistory(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, items, "Watch history fetched successfully")
}

/*
POST /api/v1/history/{videoID}.

Response:
  - 201: Empty object
  - 400: Malformed id
  - 404: Unknown video
*/
func (handler *Handler) recordView(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.historyService.RecordView(request.Context(), userID, requestutil.Param(request, "videoID")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, struct{}{}, "View recorded")
}
