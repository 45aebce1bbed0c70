// Package repository holds the storage backends of the user and report
// stores and of the refresh-token sessions.  The sentinel errors below are
// shared by every backend so callers can use errors.Is regardless of which
// one is configured.
package repository

import "errors"

// ErrNotFound is returned by Load when the backing store has never been
// written (missing file, empty table).  Callers seed or start empty.
var ErrNotFound = errors.New("store not found")

// ErrInvalidRefresh is returned when a refresh token is unknown, expired
// or revoked.
var ErrInvalidRefresh = errors.New("invalid refresh token")

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")
