package models

// CreateSessionRequest is the body of POST /session.
type CreateSessionRequest struct {
	// SessionID is the tenant identifier the document will be created
	// under. Derived client-side from the family credential.
	SessionID string `json:"sessionId"`
}

// SyncRequest is the body of PATCH /session/sync: a partial update
// carrying only the fields that changed since the last sync.
type SyncRequest struct {
	SessionID string `json:"sessionId"`

	// Updates maps remote field names to their new values. Every key
	// must be a known field of the session document.
	Updates map[string]any `json:"updates"`
}

// SessionResponse is returned by GET /session, POST /session and
// PATCH /session/sync: the tenant's full document plus bookkeeping.
type SessionResponse struct {
	SessionID string          `json:"sessionId"`
	Document  SessionDocument `json:"document"`
	Version   int64           `json:"version"`
	UpdatedAt string          `json:"updatedAt"`
}

// DeleteSessionResponse confirms an administrative session removal.
type DeleteSessionResponse struct {
	SessionID string `json:"sessionId"`
	Deleted   bool   `json:"deleted"`
}
