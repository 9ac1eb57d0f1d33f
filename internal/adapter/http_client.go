package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/evenstad/julekalender/models"
)

// HTTPClientConfig configures the HTTP implementation of [SessionStore].
type HTTPClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

type httpSessionStore struct {
	client *resty.Client
}

// NewHTTPSessionStore builds a [SessionStore] speaking the session
// store's HTTP/JSON protocol. A cookie jar is attached so the session
// cookie set on document creation rides along on subsequent requests,
// though every call still addresses the tenant explicitly by id — a
// stale cookie from a previously selected tenant must never win.
func NewHTTPSessionStore(cfg HTTPClientConfig) SessionStore {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	if jar, err := cookiejar.New(nil); err == nil {
		cli.SetCookieJar(jar)
	}

	return &httpSessionStore{client: cli}
}

func (h *httpSessionStore) GetSession(ctx context.Context, tenantID string) (models.SessionDocument, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetQueryParam("sessionId", tenantID).
		Get("/session")
	if err != nil {
		return nil, fmt.Errorf("%w: get session: %w", ErrNetwork, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return decodeSessionDocument(resp.Body())
}

func (h *httpSessionStore) CreateSession(ctx context.Context, tenantID string) (models.SessionDocument, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.CreateSessionRequest{SessionID: tenantID}).
		Post("/session")
	if err != nil {
		return nil, fmt.Errorf("%w: create session: %w", ErrNetwork, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return decodeSessionDocument(resp.Body())
}

func (h *httpSessionStore) SyncSession(ctx context.Context, tenantID string, updates map[string]any) (models.SessionDocument, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.SyncRequest{SessionID: tenantID, Updates: updates}).
		Patch("/session/sync")
	if err != nil {
		return nil, fmt.Errorf("%w: sync session: %w", ErrNetwork, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return decodeSessionDocument(resp.Body())
}

func (h *httpSessionStore) DeleteSession(ctx context.Context, tenantID string) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetQueryParam("sessionId", tenantID).
		Delete("/session")
	if err != nil {
		return fmt.Errorf("%w: delete session: %w", ErrNetwork, err)
	}

	return mapHTTPError(resp)
}

func decodeSessionDocument(body []byte) (models.SessionDocument, error) {
	var sr models.SessionResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("decode session response: %w", err)
	}
	if sr.Document == nil {
		sr.Document = models.SessionDocument{}
	}
	return sr.Document, nil
}
