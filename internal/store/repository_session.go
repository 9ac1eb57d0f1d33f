// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Jonas Evenstad

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"

	"github.com/evenstad/julekalender/internal/logger"
	"github.com/evenstad/julekalender/models"
)

// sessionRepository is the SQL-backed implementation of
// [SessionRepository]. It works against the "sessions" table on both
// PostgreSQL and SQLite; the wrapped [DB] supplies the placeholder
// format and error classification for the active dialect.
//
// All methods obtain a context-scoped logger via [logger.FromContext]
// for structured, request-level tracing of database interactions.
type sessionRepository struct {
	*DB
}

// NewSessionRepository constructs a [SessionRepository] backed by the
// provided database connection.
func NewSessionRepository(db *DB, log *logger.Logger) SessionRepository {
	log.Debug().Msg("creating session repository")
	return &sessionRepository{db}
}

func (r *sessionRepository) Get(ctx context.Context, sessionID string) (models.Session, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectSessionQuery(r.placeholder, sessionID)
	if err != nil {
		return models.Session{}, fmt.Errorf("error building select query: %w", err)
	}

	s, err := r.scanSession(r.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		log.Err(err).Str("func", "*sessionRepository.Get").Msg("error reading session")
		return models.Session{}, r.storeError("error reading session", err)
	}

	return s, nil
}

func (r *sessionRepository) Create(ctx context.Context, sessionID string, doc models.SessionDocument) (models.Session, error) {
	log := logger.FromContext(ctx)

	raw, err := json.Marshal(doc)
	if err != nil {
		return models.Session{}, fmt.Errorf("error encoding document: %w", err)
	}

	now := time.Now().UTC()
	query, args, err := buildInsertSessionQuery(r.placeholder, sessionID, string(raw), now)
	if err != nil {
		return models.Session{}, fmt.Errorf("error building insert query: %w", err)
	}

	if _, err = r.ExecContext(ctx, query, args...); err != nil {
		if postgresError(err) == pgerrcode.UniqueViolation || sqliteConstraintViolation(err) {
			return models.Session{}, fmt.Errorf("%w: %s", ErrSessionExists, sessionID)
		}
		log.Err(err).Str("func", "*sessionRepository.Create").Msg("error inserting session")
		return models.Session{}, r.storeError("error inserting session", err)
	}

	return models.Session{
		SessionID: sessionID,
		Document:  doc.Clone(),
		Version:   1,
		UpdatedAt: now,
	}, nil
}

// ApplyUpdates merges the field updates into the stored document under
// optimistic concurrency: the UPDATE is guarded by the version read
// just before, and zero affected rows surfaces as
// [ErrVersionConflict] for the client to retry.
func (r *sessionRepository) ApplyUpdates(ctx context.Context, sessionID string, updates map[string]any) (models.Session, error) {
	log := logger.FromContext(ctx)

	current, err := r.Get(ctx, sessionID)
	if err != nil {
		return models.Session{}, err
	}

	doc := current.Document.Clone()
	for field, value := range updates {
		doc[field] = value
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return models.Session{}, fmt.Errorf("error encoding document: %w", err)
	}

	now := time.Now().UTC()
	query, args, err := buildUpdateSessionQuery(r.placeholder, sessionID, string(raw), current.Version, now)
	if err != nil {
		return models.Session{}, fmt.Errorf("error building update query: %w", err)
	}

	res, err := r.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.ApplyUpdates").Msg("error updating session")
		return models.Session{}, r.storeError("error updating session", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return models.Session{}, r.storeError("error updating session", err)
	}
	if affected == 0 {
		log.Warn().Str("session_id", sessionID).Int64("version", current.Version).Msg("session write lost a version race")
		return models.Session{}, fmt.Errorf("%w: %s", ErrVersionConflict, sessionID)
	}

	return models.Session{
		SessionID: sessionID,
		Document:  doc,
		Version:   current.Version + 1,
		UpdatedAt: now,
	}, nil
}

func (r *sessionRepository) Delete(ctx context.Context, sessionID string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteSessionQuery(r.placeholder, sessionID)
	if err != nil {
		return fmt.Errorf("error building delete query: %w", err)
	}

	res, err := r.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.Delete").Msg("error deleting session")
		return r.storeError("error deleting session", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return r.storeError("error deleting session", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	return nil
}

func (r *sessionRepository) Close() error {
	return r.DB.Close()
}

func (r *sessionRepository) scanSession(row *sql.Row) (models.Session, error) {
	var (
		s   models.Session
		raw string
	)
	if err := row.Scan(&s.SessionID, &raw, &s.Version, &s.UpdatedAt); err != nil {
		return models.Session{}, err
	}

	if err := json.Unmarshal([]byte(raw), &s.Document); err != nil {
		return models.Session{}, fmt.Errorf("error decoding document: %w", err)
	}

	return s, nil
}

// storeError wraps transient driver failures in [ErrStoreUnavailable]
// so the transport layer can report them retryable.
func (r *sessionRepository) storeError(op string, err error) error {
	if r.retryable(err) {
		return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
	}

	return fmt.Errorf("%s: %w", op, err)
}
