// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yomitube/internal/platform/middleware"
	requestutil "github.com/taibuivan/yomitube/internal/platform/request"
	"github.com/taibuivan/yomitube/internal/platform/respond"
	"github.com/taibuivan/yomitube/internal/platform/validate"
	"github.com/taibuivan/yomitube/internal/users/auth"
)

// Handler implements the HTTP layer for the caller's own account.
//
// # Security
//
// Every endpoint requires an authenticated caller.
type Handler struct {
	accountService *Service
	uploadDir      string
}

// NewHandler constructs a new account [Handler]. uploadDir stages multipart files.
func NewHandler(service *Service, uploadDir string) *Handler {
	return &Handler{accountService: service, uploadDir: uploadDir}
}

// Routes returns a [chi.Router] configured with the account domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/current-user", handler.getCurrentUser)
	router.Patch("/update-account", handler.updateAccount)
	router.Patch("/avatar", handler.updateAvatar)
	router.Patch("/cover-image", handler.updateCover)

	return router
}

/*
GET /api/v1/users/current-user.

Response:
  - 200: User: The caller's account
  - 401: Authentication required
*/
func (handler *Handler) getCurrentUser(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetCurrentUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user, "Current user fetched successfully")
}

// updateAccountRequest uses pointers so absent keys stay unchanged.
type updateAccountRequest struct {
	FullName *string `json:"fullName"`
	Email    *string `json:"email"`
}

/*
PATCH /api/v1/users/update-account.

Response:
  - 200: User: The updated account
  - 400: Nothing to update or invalid fields
  - 409: Email already registered
*/
func (handler *Handler) updateAccount(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateAccountRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.accountService.UpdateAccountDetails(request.Context(), userID, UpdateDetailsInput{
		FullName: input.FullName,
		Email:    input.Email,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user, "Account details updated successfully")
}

/*
PATCH /api/v1/users/avatar (multipart field "avatar").
*/
func (handler *Handler) updateAvatar(writer http.ResponseWriter, request *http.Request) {
	handler.replaceImage(writer, request, auth.FieldAvatar, handler.accountService.UpdateAvatar, "Avatar image updated successfully")
}

/*
PATCH /api/v1/users/cover-image (multipart field "coverImage").
*/
func (handler *Handler) updateCover(writer http.ResponseWriter, request *http.Request) {
	handler.replaceImage(writer, request, auth.FieldCoverImage, handler.accountService.UpdateCover, "Cover image updated successfully")
}

type imageUpdater func(ctx context.Context, userID, localPath string) (*auth.User, error)

func (handler *Handler) replaceImage(writer http.ResponseWriter, request *http.Request, field string, update imageUpdater, message string) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := requestutil.ParseMultipart(writer, request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	localPath, err := requestutil.SaveFormFile(request, field, handler.uploadDir)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if localPath != "" {
		defer os.Remove(localPath)
	}

	user, err := update(request.Context(), userID, localPath)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user, message)
}
