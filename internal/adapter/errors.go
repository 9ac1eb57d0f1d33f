package adapter

import "errors"

var (
	// ErrNotFound — no document exists for the tenant (404). Triggers
	// create-on-demand during adapter initialization; not an error the
	// application ever sees.
	ErrNotFound = errors.New("session not found")

	// ErrConflict — the document was modified concurrently (409).
	// Retryable.
	ErrConflict = errors.New("session write conflict")

	// ErrUnavailable — transient failure at the store (503).
	// Retryable.
	ErrUnavailable = errors.New("session store unavailable")

	// ErrBadRequest — malformed request body (400). A caller bug,
	// never retried.
	ErrBadRequest = errors.New("bad session request")

	// ErrInternalServerError — unclassified server-side failure (500).
	ErrInternalServerError = errors.New("session store internal error")

	// ErrNetwork — the request never produced a usable response
	// (transport failure or timeout). Retryable.
	ErrNetwork = errors.New("session store unreachable")
)

// IsRetryable reports whether a failed sync attempt is worth its single
// retry: write conflicts, transient store failures, and transport-level
// errors. Everything else is logged and given up on.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrUnavailable) ||
		errors.Is(err, ErrNetwork)
}
