// Package service provides business logic for the arcadia chat server:
// accounts and sessions, two-factor authentication, rooms and moderation,
// the follow graph, and websocket fan-out.
package service

import "errors"

// Sentinel errors surfaced to the controller boundary, where they are mapped
// to HTTP statuses. Anything else is treated as an internal error.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)
