// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Jonas Evenstad

package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/evenstad/julekalender/models"
)

// MemorySessionRepository keeps session documents in a map. It backs
// zero-config deployments and the handler tests.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

// NewMemorySessionRepository returns an empty in-memory repository.
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string]models.Session)}
}

func (m *MemorySessionRepository) Get(_ context.Context, sessionID string) (models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return models.Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return cloneSession(s), nil
}

func (m *MemorySessionRepository) Create(_ context.Context, sessionID string, doc models.SessionDocument) (models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[sessionID]; ok {
		return models.Session{}, fmt.Errorf("%w: %s", ErrSessionExists, sessionID)
	}

	s := models.Session{
		SessionID: sessionID,
		Document:  doc.Clone(),
		Version:   1,
		UpdatedAt: time.Now().UTC(),
	}
	m.sessions[sessionID] = s

	return cloneSession(s), nil
}

func (m *MemorySessionRepository) ApplyUpdates(_ context.Context, sessionID string, updates map[string]any) (models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return models.Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	doc := s.Document.Clone()
	for field, value := range updates {
		doc[field] = value
	}

	s.Document = doc
	s.Version++
	s.UpdatedAt = time.Now().UTC()
	m.sessions[sessionID] = s

	return cloneSession(s), nil
}

func (m *MemorySessionRepository) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[sessionID]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	delete(m.sessions, sessionID)

	return nil
}

func (m *MemorySessionRepository) Close() error { return nil }

func cloneSession(s models.Session) models.Session {
	s.Document = s.Document.Clone()
	return s
}
