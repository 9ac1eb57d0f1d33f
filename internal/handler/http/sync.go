package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/evenstad/julekalender/internal/logger"
	"github.com/evenstad/julekalender/internal/utils"
	"github.com/evenstad/julekalender/models"
)

func (h *Handler) syncSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.syncSession").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		http.Error(w, ErrMissingSessionID.Error(), statusFromError(ErrMissingSessionID))
		return
	}

	if err := validateUpdates(req.Updates); err != nil {
		log.Warn().Err(err).Str("session_id", req.SessionID).Msg("rejected sync request")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	session, err := h.storages.Sessions.ApplyUpdates(r.Context(), req.SessionID, req.Updates)
	if err != nil {
		log.Err(err).Str("func", "*Handler.syncSession").Msg("error applying updates")
		http.Error(w, "error applying updates", statusFromError(err))
		return
	}

	utils.WriteJSON(w, sessionResponse(session), http.StatusOK)
}

// validateUpdates checks a partial update against the field table:
// every field must exist in the document schema, and fields stored as
// arrays must arrive in array shape. Open-ended maps are not part of
// the document schema.
func validateUpdates(updates map[string]any) error {
	if len(updates) == 0 {
		return ErrNoUpdatesProvided
	}

	for field, value := range updates {
		spec, ok := models.FieldByRemote(field)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}

		if spec.Kind == models.KindValue {
			continue
		}
		if _, ok = value.([]any); !ok {
			return fmt.Errorf("%w: %s must be an array", ErrInvalidFieldShape, field)
		}
	}

	return nil
}
