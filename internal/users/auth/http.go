// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yomitube/internal/platform/constants"
	"github.com/taibuivan/yomitube/internal/platform/middleware"
	requestutil "github.com/taibuivan/yomitube/internal/platform/request"
	"github.com/taibuivan/yomitube/internal/platform/respond"
	"github.com/taibuivan/yomitube/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// Registration, login, logout, token refresh and password change. Session
// tokens travel both in the response body and as HttpOnly cookies.
type Handler struct {
	authService *Service
	uploadDir   string
}

// NewHandler constructs a new [Handler]. uploadDir stages multipart files.
func NewHandler(service *Service, uploadDir string) *Handler {
	return &Handler{authService: service, uploadDir: uploadDir}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register        : Creates a new account (multipart).
//   - POST /login           : Authenticates and issues a session.
//   - POST /refresh-token   : Rotates the refresh token.
//   - POST /logout          : Ends the session.
//   - POST /change-password : Replaces the password.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh-token", handler.refresh)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
		r.Post("/change-password", handler.changePassword)
	})

	return router
}

// # Request Payloads

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword     string `json:"oldPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type sessionResponse struct {
	User         *User  `json:"user,omitempty"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

/*
Register handles the creation of a new account.

POST /api/v1/auth/register

Request:
  - Body: multipart/form-data (fullName, email, username, password, avatar, coverImage)

Response:
  - 201: User: Created account
  - 400: Validation failure or missing avatar
  - 409: Username or email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	if err := requestutil.ParseMultipart(writer, request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	avatarPath, err := requestutil.SaveFormFile(request, FieldAvatar, handler.uploadDir)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer removeStaged(avatarPath)

	coverPath, err := requestutil.SaveFormFile(request, FieldCoverImage, handler.uploadDir)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer removeStaged(coverPath)

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		FullName:   request.FormValue(FieldFullName),
		Email:      request.FormValue(FieldEmail),
		Username:   request.FormValue(FieldUsername),
		Password:   request.FormValue(FieldPassword),
		AvatarPath: avatarPath,
		CoverPath:  coverPath,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user, "User registered successfully")
}

/*
Login authenticates an account and establishes a session.

POST /api/v1/auth/login

Request:
  - Body: loginRequest (username or email, password)

Response:
  - 200: sessionResponse, plus accessToken/refreshToken cookies
  - 401: Wrong password
  - 404: Unknown account
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	identifier := input.Username
	if identifier == "" {
		identifier = input.Email
	}

	result, err := handler.authService.Login(request.Context(), identifier, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setSessionCookies(writer, result.Tokens)
	respond.OK(writer, sessionResponse{
		User:         result.User,
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
	}, "User logged in successfully")
}

/*
Refresh rotates the session.

POST /api/v1/auth/refresh-token

Description: Reads the refresh token from its cookie, falling back to the
JSON body for clients that do not keep cookies.

Response:
  - 200: sessionResponse (tokens only), plus rotated cookies
  - 401: Invalid refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	presented := requestutil.Cookie(request, constants.RefreshTokenCookieName)
	if presented == "" {
		var input refreshRequest
		if err := requestutil.DecodeOptionalJSON(request, &input); err != nil {
			respond.Error(writer, request, validate.ErrInvalidJSON)
			return
		}
		presented = input.RefreshToken
	}

	tokens, err := handler.authService.Refresh(request.Context(), presented)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setSessionCookies(writer, tokens)
	respond.OK(writer, sessionResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, "Access token refreshed")
}

/*
Logout terminates the current session.

POST /api/v1/auth/logout

Response:
  - 200: Empty object; both session cookies are cleared
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), claims); err != nil {
		respond.Error(writer, request, err)
		return
	}

	clearSessionCookies(writer)
	respond.OK(writer, struct{}{}, "User logged out")
}

/*
ChangePassword replaces the caller's password.

POST /api/v1/auth/change-password

Request:
  - Body: changePasswordRequest

Response:
  - 200: Empty object
  - 400: Missing fields or mismatched confirmation
  - 401: Wrong old password
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	err = handler.authService.ChangePassword(request.Context(), userID, ChangePasswordInput{
		OldPassword:     input.OldPassword,
		NewPassword:     input.NewPassword,
		ConfirmPassword: input.ConfirmPassword,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, struct{}{}, "Password changed successfully")
}

// # Cookies

func setSessionCookies(writer http.ResponseWriter, tokens *TokenPair) {
	http.SetCookie(writer, sessionCookie(constants.AccessTokenCookieName, tokens.AccessToken, tokens.AccessExpiresAt))
	http.SetCookie(writer, sessionCookie(constants.RefreshTokenCookieName, tokens.RefreshToken, tokens.RefreshExpiresAt))
}

func clearSessionCookies(writer http.ResponseWriter) {
	for _, name := range []string{constants.AccessTokenCookieName, constants.RefreshTokenCookieName} {
		cookie := sessionCookie(name, "", time.Time{})
		cookie.MaxAge = -1
		http.SetCookie(writer, cookie)
	}
}

func sessionCookie(name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     constants.TokenCookiePath,
		Expires:  expires,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}

// removeStaged deletes a staged upload the uploader never consumed.
func removeStaged(path string) {
	if path != "" {
		_ = os.Remove(path)
	}
}
