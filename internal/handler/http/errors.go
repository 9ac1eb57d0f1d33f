// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Jonas Evenstad

package http

import "errors"

// Sentinel validation errors for inbound session requests. Callers can
// match against them with [errors.Is]; all of them map to 400.
var (
	// ErrMissingSessionID is returned when a request carries no
	// sessionId, neither in the query string nor in the body.
	ErrMissingSessionID = errors.New("missing sessionId")

	// ErrNoUpdatesProvided is returned when a sync request carries an
	// empty updates object.
	ErrNoUpdatesProvided = errors.New("no updates provided")

	// ErrUnknownField is returned when a sync update names a field that
	// is not part of the session document.
	ErrUnknownField = errors.New("unknown document field")

	// ErrInvalidFieldShape is returned when an array-shaped field
	// arrives as something else. The document schema forbids open-ended
	// maps; map-backed fields must be sent in their array form.
	ErrInvalidFieldShape = errors.New("invalid field shape")
)
