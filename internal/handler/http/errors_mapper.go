package http

import (
	"errors"
	"net/http"

	"github.com/evenstad/julekalender/internal/store"
)

var errorStatusMap = map[error]int{
	ErrMissingSessionID:  http.StatusBadRequest,
	ErrNoUpdatesProvided: http.StatusBadRequest,
	ErrUnknownField:      http.StatusBadRequest,
	ErrInvalidFieldShape: http.StatusBadRequest,

	store.ErrSessionNotFound:  http.StatusNotFound,
	store.ErrSessionExists:    http.StatusConflict,
	store.ErrVersionConflict:  http.StatusConflict,
	store.ErrStoreUnavailable: http.StatusServiceUnavailable,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
