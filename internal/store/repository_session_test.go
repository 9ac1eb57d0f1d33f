// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Jonas Evenstad

package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/evenstad/julekalender/internal/logger"
	"github.com/evenstad/julekalender/models"
)

func newTestSessionRepo(t *testing.T) (*sessionRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	repo := &sessionRepository{
		DB: &DB{
			DB:                 db,
			dialect:            "pgx",
			placeholder:        sq.Dollar,
			errorClassificator: NewPostgresErrorClassifier(),
			logger:             l,
		},
	}
	return repo, mock, db
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func sessionRow(sessionID, document string, version int64) *sqlmock.Rows {
	return sqlmock.
		NewRows([]string{"session_id", "document", "version", "updated_at"}).
		AddRow(sessionID, document, version, time.Now().UTC())
}

func TestSessionGet_Success(t *testing.T) {
	repo, mock, db := newTestSessionRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT .+ FROM sessions").
		WithArgs("abc123").
		WillReturnRows(sessionRow("abc123", `{"soundsEnabled":false}`, 3))

	s, err := repo.Get(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Version != 3 {
		t.Errorf("expected version 3, got %d", s.Version)
	}
	if v, ok := s.Document["soundsEnabled"].(bool); !ok || v {
		t.Errorf("expected soundsEnabled=false, got %v", s.Document["soundsEnabled"])
	}
}

func TestSessionGet_NotFound(t *testing.T) {
	repo, mock, db := newTestSessionRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT .+ FROM sessions").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionGet_ConnectionLossIsRetryable(t *testing.T) {
	repo, mock, db := newTestSessionRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT .+ FROM sessions").
		WithArgs("abc123").
		WillReturnError(pgError(pgerrcode.ConnectionFailure))

	_, err := repo.Get(context.Background(), "abc123")
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestSessionGet_CorruptDocument(t *testing.T) {
	repo, mock, db := newTestSessionRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT .+ FROM sessions").
		WithArgs("abc123").
		WillReturnRows(sessionRow("abc123", `{broken`, 1))

	_, err := repo.Get(context.Background(), "abc123")
	if err == nil {
		t.Fatal("expected decode error, got nil")
	}
}

func TestSessionCreate_Success(t *testing.T) {
	repo, mock, db := newTestSessionRepo(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO sessions").
		WithArgs("abc123", sqlmock.AnyArg(), 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s, err := repo.Create(context.Background(), "abc123", models.DefaultDocument())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Version != 1 {
		t.Errorf("expected version 1, got %d", s.Version)
	}
	if s.SessionID != "abc123" {
		t.Errorf("expected session id abc123, got %s", s.SessionID)
	}
}

func TestSessionCreate_AlreadyExists(t *testing.T) {
	repo, mock, db := newTestSessionRepo(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO sessions").
		WithArgs("abc123", sqlmock.AnyArg(), 1, sqlmock.AnyArg()).
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.Create(context.Background(), "abc123", models.DefaultDocument())
	if !errors.Is(err, ErrSessionExists) {
		t.Fatalf("expected ErrSessionExists, got %v", err)
	}
}

func TestSessionApplyUpdates_Success(t *testing.T) {
	repo, mock, db := newTestSessionRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT .+ FROM sessions").
		WithArgs("abc123").
		WillReturnRows(sessionRow("abc123", `{"soundsEnabled":true}`, 3))
	mock.ExpectExec("UPDATE sessions").
		WithArgs(sqlmock.AnyArg(), int64(4), sqlmock.AnyArg(), "abc123", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s, err := repo.ApplyUpdates(context.Background(), "abc123", map[string]any{"soundsEnabled": false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Version != 4 {
		t.Errorf("expected version 4, got %d", s.Version)
	}
	if v, ok := s.Document["soundsEnabled"].(bool); !ok || v {
		t.Errorf("expected merged soundsEnabled=false, got %v", s.Document["soundsEnabled"])
	}
}

func TestSessionApplyUpdates_VersionConflict(t *testing.T) {
	repo, mock, db := newTestSessionRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT .+ FROM sessions").
		WithArgs("abc123").
		WillReturnRows(sessionRow("abc123", `{}`, 3))
	mock.ExpectExec("UPDATE sessions").
		WithArgs(sqlmock.AnyArg(), int64(4), sqlmock.AnyArg(), "abc123", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.ApplyUpdates(context.Background(), "abc123", map[string]any{"dagbokLastRead": float64(5)})
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
}

func TestSessionApplyUpdates_MissingSession(t *testing.T) {
	repo, mock, db := newTestSessionRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT .+ FROM sessions").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.ApplyUpdates(context.Background(), "missing", map[string]any{"soundsEnabled": true})
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionDelete_Success(t *testing.T) {
	repo, mock, db := newTestSessionRepo(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM sessions").
		WithArgs("abc123").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "abc123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSessionDelete_NotFound(t *testing.T) {
	repo, mock, db := newTestSessionRepo(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM sessions").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
