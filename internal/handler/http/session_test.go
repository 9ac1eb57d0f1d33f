// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Jonas Evenstad

package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/evenstad/julekalender/internal/logger"
	"github.com/evenstad/julekalender/internal/mock"
	"github.com/evenstad/julekalender/internal/store"
	"github.com/evenstad/julekalender/models"
)

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

// newTestHandler builds a Handler over the in-memory session store.
func newTestHandler(t *testing.T) (*Handler, *store.MemorySessionRepository) {
	t.Helper()
	repo := store.NewMemorySessionRepository()
	h := NewHandler(&store.Storages{Sessions: repo}, logger.Nop())
	return h, repo
}

// newMockedHandler builds a Handler over a mocked repository for
// injecting backend failures the in-memory store cannot produce.
func newMockedHandler(t *testing.T) (*Handler, *mock.MockSessionRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mock.NewMockSessionRepository(ctrl)
	h := NewHandler(&store.Storages{Sessions: repo}, logger.Nop())
	return h, repo
}

func do(t *testing.T, h *Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.Init().ServeHTTP(rec, req)
	return rec
}

func decodeSession(t *testing.T, rec *httptest.ResponseRecorder) models.SessionResponse {
	t.Helper()
	var sr models.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sr))
	return sr
}

// ─────────────────────────────────────────────
// POST /session
// ─────────────────────────────────────────────

func TestCreateSession_Success(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/session", `{"sessionId":"abc123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	sr := decodeSession(t, rec)
	assert.Equal(t, "abc123", sr.SessionID)
	assert.Equal(t, int64(1), sr.Version)

	// a new document starts with the documented defaults
	assert.Equal(t, true, sr.Document["soundsEnabled"])
	assert.Equal(t, false, sr.Document["authenticated"])
	assert.Equal(t, []any{}, sr.Document["submittedCodes"])
}

func TestCreateSession_SetsYearLongCookie(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/session", `{"sessionId":"abc123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	c := cookies[0]
	assert.Equal(t, sessionCookieName, c.Name)
	assert.Equal(t, "abc123", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, int(sessionCookieMaxAge.Seconds()), c.MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	// the game reads the cookie client-side on boot
	assert.False(t, c.HttpOnly)
	// plain http in tests
	assert.False(t, c.Secure)
}

func TestCreateSession_Duplicate(t *testing.T) {
	h, _ := newTestHandler(t)

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/session", `{"sessionId":"abc123"}`).Code)
	assert.Equal(t, http.StatusConflict, do(t, h, http.MethodPost, "/session", `{"sessionId":"abc123"}`).Code)
}

func TestCreateSession_BadRequest(t *testing.T) {
	h, _ := newTestHandler(t)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/session", `{broken`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/session", `{}`).Code)
}

// ─────────────────────────────────────────────
// GET /session
// ─────────────────────────────────────────────

func TestGetSession_Success(t *testing.T) {
	h, _ := newTestHandler(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/session", `{"sessionId":"abc123"}`).Code)

	rec := do(t, h, http.MethodGet, "/session?sessionId=abc123", "")
	require.Equal(t, http.StatusOK, rec.Code)

	sr := decodeSession(t, rec)
	assert.Equal(t, "abc123", sr.SessionID)
	assert.NotEmpty(t, sr.UpdatedAt)
}

func TestGetSession_NotFound(t *testing.T) {
	h, _ := newTestHandler(t)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/session?sessionId=missing", "").Code)
}

func TestGetSession_MissingID(t *testing.T) {
	h, _ := newTestHandler(t)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/session", "").Code)
}

// ─────────────────────────────────────────────
// DELETE /session
// ─────────────────────────────────────────────

func TestDeleteSession_Success(t *testing.T) {
	h, _ := newTestHandler(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/session", `{"sessionId":"abc123"}`).Code)

	rec := do(t, h, http.MethodDelete, "/session?sessionId=abc123", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var dr models.DeleteSessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dr))
	assert.True(t, dr.Deleted)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/session?sessionId=abc123", "").Code)
}

func TestDeleteSession_NotFound(t *testing.T) {
	h, _ := newTestHandler(t)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/session?sessionId=missing", "").Code)
}

// ─────────────────────────────────────────────
// Backend failures
// ─────────────────────────────────────────────

func TestGetSession_StoreUnavailable(t *testing.T) {
	h, repo := newMockedHandler(t)

	repo.EXPECT().
		Get(gomock.Any(), "abc123").
		Return(models.Session{}, store.ErrStoreUnavailable)

	assert.Equal(t, http.StatusServiceUnavailable, do(t, h, http.MethodGet, "/session?sessionId=abc123", "").Code)
}

func TestTraceIDHeaderIsSet(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := do(t, h, http.MethodGet, "/session?sessionId=missing", "")
	assert.NotEmpty(t, rec.Header().Get(traceIDHeader))
}
