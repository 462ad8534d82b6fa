// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction, body decoding,
multipart file staging and caller identity, ensuring consistent error handling.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yomitube/internal/platform/apperr"
	"github.com/taibuivan/yomitube/internal/platform/constants"
	"github.com/taibuivan/yomitube/internal/platform/ctxutil"
	"github.com/taibuivan/yomitube/internal/platform/sec"
	"github.com/taibuivan/yomitube/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
DecodeOptionalJSON behaves like [DecodeJSON] but accepts an empty body.
*/
func DecodeOptionalJSON(request *http.Request, target any) error {
	if request.Body == nil || request.ContentLength == 0 {
		return nil
	}
	err := json.NewDecoder(request.Body).Decode(target)
	if err != nil && !errors.Is(err, io.EOF) {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Cookie returns the value of the named cookie, or "" if absent.
*/
func Cookie(request *http.Request, name string) string {
	cookie, err := request.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

/*
RequiredClaims ensures the request is authenticated and returns the user claims.

Returns:
  - *sec.AuthClaims: The authenticated user claims
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return claims, nil
}

/*
RequiredUserID returns the User ID of the currently logged-in user.

Returns:
  - string: User UUID
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredUserID(request *http.Request) (string, error) {
	claims, err := RequiredClaims(request)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// # Multipart

/*
ParseMultipart bounds and parses a multipart/form-data body.

Returns:
  - error: validate.ErrInvalidForm for oversized or malformed bodies
*/
func ParseMultipart(writer http.ResponseWriter, request *http.Request) error {
	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxUploadBytes)
	if err := request.ParseMultipartForm(constants.MaxUploadMemory); err != nil {
		return validate.ErrInvalidForm
	}
	return nil
}

/*
SaveFormFile stages the uploaded file for field into dir and returns its local path.

The caller owns the returned file and is expected to hand it to the media
uploader, which removes it. A missing field yields ("", nil).

Parameters:
  - request: *http.Request (already parsed by [ParseMultipart])
  - field: string (form field name)
  - dir: string (staging directory)

Returns:
  - string: Local path of the staged file
  - error: Filesystem failures
*/
func SaveFormFile(request *http.Request, field, dir string) (string, error) {
	file, header, err := request.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", validate.ErrInvalidForm
	}
	defer file.Close()

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("request_upload_dir_failed: %w", err)
	}

	// Keep only the extension from the client-controlled name.
	extension := strings.ToLower(filepath.Ext(header.Filename))
	staged, err := os.CreateTemp(dir, field+"-*"+extension)
	if err != nil {
		return "", fmt.Errorf("request_upload_stage_failed: %w", err)
	}
	defer staged.Close()

	if _, err := io.Copy(staged, file); err != nil {
		_ = os.Remove(staged.Name())
		return "", fmt.Errorf("request_upload_copy_failed: %w", err)
	}

	return staged.Name(), nil
}
