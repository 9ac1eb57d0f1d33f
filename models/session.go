package models

import "time"

// SessionDocument is a tenant's full persisted state: a flat set of named
// fields keyed by remote field name. Values are plain JSON values
// (bool, float64, string, []any, map[string]any) as produced by
// encoding/json.
//
// A document is created once per tenant with the defaults from the field
// table and afterwards mutated only through partial field updates.
type SessionDocument map[string]any

// Clone returns a shallow copy of the document. Field values are shared;
// callers that mutate nested values must copy them first.
func (d SessionDocument) Clone() SessionDocument {
	out := make(SessionDocument, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Session is the server-side persistence record for one tenant document.
type Session struct {
	// SessionID is the opaque tenant identifier derived from the family
	// credential. Primary key.
	SessionID string `json:"sessionId"`

	// Document is the tenant's current state.
	Document SessionDocument `json:"document"`

	// Version increments on every applied update and backs the
	// optimistic conflict check on PATCH.
	Version int64 `json:"version"`

	// UpdatedAt is the timestamp of the last modification.
	UpdatedAt time.Time `json:"updatedAt"`
}
