// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Jonas Evenstad

package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

const sessionsTable = "sessions"

var sessionColumns = []string{"session_id", "document", "version", "updated_at"}

// The builders parameterise the placeholder format so the same
// repository runs against PostgreSQL ($1) and SQLite (?).

func buildSelectSessionQuery(ph sq.PlaceholderFormat, sessionID string) (string, []any, error) {
	return sq.StatementBuilder.PlaceholderFormat(ph).
		Select(sessionColumns...).
		From(sessionsTable).
		Where(sq.Eq{"session_id": sessionID}).
		ToSql()
}

func buildInsertSessionQuery(ph sq.PlaceholderFormat, sessionID, document string, now time.Time) (string, []any, error) {
	return sq.StatementBuilder.PlaceholderFormat(ph).
		Insert(sessionsTable).
		Columns(sessionColumns...).
		Values(sessionID, document, 1, now).
		ToSql()
}

// buildUpdateSessionQuery guards the write with the version the caller
// read. Zero affected rows means a concurrent writer got there first.
func buildUpdateSessionQuery(ph sq.PlaceholderFormat, sessionID, document string, expectedVersion int64, now time.Time) (string, []any, error) {
	return sq.StatementBuilder.PlaceholderFormat(ph).
		Update(sessionsTable).
		Set("document", document).
		Set("version", expectedVersion+1).
		Set("updated_at", now).
		Where(sq.Eq{"session_id": sessionID, "version": expectedVersion}).
		ToSql()
}

func buildDeleteSessionQuery(ph sq.PlaceholderFormat, sessionID string) (string, []any, error) {
	return sq.StatementBuilder.PlaceholderFormat(ph).
		Delete(sessionsTable).
		Where(sq.Eq{"session_id": sessionID}).
		ToSql()
}
