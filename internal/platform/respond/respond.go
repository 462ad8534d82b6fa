// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond provides HTTP response helpers used by all API handlers.
//
// # Architecture
//
// This package centralizes the presentation logic for HTTP responses.
// Every response leaves through one of two envelopes:
//
//	success: {"statusCode", "data", "message", "success": true}
//	failure: {"statusCode", "message", "success": false, "errors", "code"}
//
// Handlers never write JSON themselves.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/taibuivan/yomitube/internal/platform/apperr"
	"github.com/taibuivan/yomitube/internal/platform/constants"
	"github.com/taibuivan/yomitube/internal/platform/ctxutil"
)

// Envelope is the JSON body of every non-error response.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// ErrorEnvelope is the JSON body of every error response.
type ErrorEnvelope struct {
	StatusCode int                 `json:"statusCode"`
	Message    string              `json:"message"`
	Success    bool                `json:"success"`
	Errors     []apperr.FieldError `json:"errors"`
	Code       string              `json:"code"`
}

// JSON writes payload with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// Status writes data in the success envelope with an explicit status code.
// 'success' mirrors the status class so a degraded readiness check reads false.
func Status(writer http.ResponseWriter, statusCode int, data any, message string) {
	JSON(writer, statusCode, Envelope{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    statusCode < http.StatusBadRequest,
	})
}

// OK writes a 200 response.
func OK(writer http.ResponseWriter, data any, message string) {
	Status(writer, http.StatusOK, data, message)
}

// Created writes a 201 response.
func Created(writer http.ResponseWriter, data any, message string) {
	Status(writer, http.StatusCreated, data, message)
}

// Error converts any Go error into the failure envelope.
//
// Errors that are not an [apperr.AppError] are treated as Internal. The cause
// of a 5xx is logged with the request id and never written to the client.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	ctx := request.Context()
	logger := ctxutil.GetLogger(ctx)

	appError := apperr.As(err)
	if appError == nil {
		logger.ErrorContext(ctx, "unhandled_error_swallowed",
			slog.String("error", err.Error()),
			slog.String("request_id", ctxutil.GetRequestID(ctx)),
		)
		appError = apperr.Internal(err)
	}

	if appError.HTTPStatus >= http.StatusInternalServerError {
		logger.ErrorContext(ctx, "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", ctxutil.GetRequestID(ctx)),
			slog.Any("cause", appError.Cause),
		)
	} else if appError.Cause != nil {
		logger.DebugContext(ctx, "api_client_error",
			slog.String("code", appError.Code),
			slog.Any("cause", appError.Cause),
		)
	}

	details := appError.Details
	if details == nil {
		details = []apperr.FieldError{}
	}

	JSON(writer, appError.HTTPStatus, ErrorEnvelope{
		StatusCode: appError.HTTPStatus,
		Message:    appError.Message,
		Success:    false,
		Errors:     details,
		Code:       appError.Code,
	})
}
