// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Jonas Evenstad

// Package tenant derives the opaque tenant identifier that keys one
// family's state universe in the session store.
//
// The same family credential must always map to the same identifier on
// every device, so the derivation is a pure one-way function with a
// fixed application salt. The derived id is remembered locally on a
// best-effort basis so a later start can recover the tenant without the
// credential; a failed write never breaks derivation itself.
package tenant

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/evenstad/julekalender/internal/logger"
)

// Fixed derivation parameters. Changing any of them remaps every
// existing tenant to a new document, so they are frozen.
const (
	derivationSalt       = "julekalender-session-v1"
	derivationIterations = 4096
	derivationKeyLen     = 16
)

// identityFileName is the fallback persistent slot for the derived id,
// next to the local adapter's state inside the client state directory.
const identityFileName = "session-id"

// DeriveTenantID maps a family credential to its tenant identifier:
// PBKDF2-SHA256 over the credential with a fixed application salt,
// hex-encoded to 32 characters. Deterministic and one-way; distinct
// credentials collide only with negligible probability.
func DeriveTenantID(credential string) string {
	key := pbkdf2.Key([]byte(credential), []byte(derivationSalt), derivationIterations, derivationKeyLen, sha256.New)
	return hex.EncodeToString(key)
}

// IdentityStore persists the derived tenant id across process restarts.
// All writes are best-effort: storage may be unavailable or read-only,
// and identity derivation must keep working regardless.
type IdentityStore struct {
	path   string
	logger *logger.Logger
}

// NewIdentityStore creates a store writing under stateDir. The directory
// is created lazily on first Remember.
func NewIdentityStore(stateDir string, log *logger.Logger) *IdentityStore {
	return &IdentityStore{
		path:   filepath.Join(stateDir, identityFileName),
		logger: log,
	}
}

// Remember persists tenantID. Failures (quota, permissions, disabled
// storage) are logged and swallowed.
func (s *IdentityStore) Remember(tenantID string) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		s.logger.Warn().Err(err).Msg("identity store unavailable, keeping id in memory only")
		return
	}
	if err := os.WriteFile(s.path, []byte(tenantID+"\n"), 0o600); err != nil {
		s.logger.Warn().Err(err).Msg("failed to persist tenant id")
	}
}

// Recall returns the previously remembered tenant id, or "" when none
// was stored or the slot is unreadable.
func (s *IdentityStore) Recall() string {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

// Forget removes the remembered id. Used by the administrative
// account-removal path.
func (s *IdentityStore) Forget() {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn().Err(err).Msg("failed to forget tenant id")
	}
}
