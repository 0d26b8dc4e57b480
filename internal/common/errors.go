// Package common defines shared constants and sentinel errors used across
// the HTTP layer, services, repositories and the recorder. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorValidation   = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// Recording session errors.
	ErrNoRecording       = errors.New("no audio recorded")
	ErrAlreadyRecording  = errors.New("recording already in progress")
	ErrDeviceUnavailable = errors.New("audio device unavailable")
)
