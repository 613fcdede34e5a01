// Package common contains shared constants and sentinel errors used across
// AuthKeeper components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Validation errors, reported before any store access.
	ErrInvalidInput = errors.New("invalid input")
	ErrWeakPassword = errors.New("password too short")

	// Operation-level errors exposed to transport.
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrUserNotFound       = errors.New("user not found")

	// StoreUnavailable hides infrastructure failures from callers;
	// details are logged, never returned.
	ErrStoreUnavailable = errors.New("store unavailable")

	// Token lifecycle errors (invalid, forged, or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
