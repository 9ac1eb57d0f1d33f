// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Jonas Evenstad

// Package manager exposes the typed, domain-specific storage API the
// rest of the game calls: sound settings, submitted codes, badges,
// unlocks, crisis state and so on. It owns adapter selection and
// lifetime and is the only caller of the storage adapter contract.
package manager

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/evenstad/julekalender/internal/adapter"
	"github.com/evenstad/julekalender/internal/config"
	"github.com/evenstad/julekalender/internal/fieldmap"
	"github.com/evenstad/julekalender/internal/logger"
	"github.com/evenstad/julekalender/internal/storage"
	"github.com/evenstad/julekalender/internal/tenant"
	"github.com/evenstad/julekalender/models"
)

// Internal storage keys. These are the only keys the application ever
// touches; they mirror the field table in models.
const (
	keyAuthenticated      = "authenticated"
	keySubmittedCodes     = "submitted-codes"
	keyViewedEmails       = "viewed-emails"
	keySoundsEnabled      = "sounds-enabled"
	keyMusicEnabled       = "music-enabled"
	keyBonusOppdrag       = "bonus-oppdrag-badges"
	keyEventyrBadges      = "eventyr-badges"
	keyEarnedBadges       = "earned-badges"
	keyTopicUnlocks       = "topic-unlocks"
	keyUnlockedFiles      = "unlocked-files"
	keyUnlockedModules    = "unlocked-modules"
	keyCollectedSymbols   = "collected-symbols"
	keySolvedDecryptions  = "solved-decryptions"
	keyDecryptionAttempts = "decryption-attempts"
	keyFailedAttempts     = "failed-attempts"
	keyCrisisStatus       = "crisis-status"
	keySantaLetters       = "santa-letters"
	keyPlayerNames        = "player-names"
	keyDagbokLastRead     = "dagbok-last-read"
)

// StorageManager is the storage facade. It holds exactly one active
// adapter at a time: the file-backed local adapter in local mode, or a
// per-tenant remote sync adapter in remote mode. Switching tenants
// constructs a fresh remote adapter and discards the old one only after
// its pending syncs have drained.
type StorageManager struct {
	cfg      *config.ClientConfig
	logger   *logger.Logger
	registry *storage.Registry
	store    adapter.SessionStore
	identity *tenant.IdentityStore

	mu       sync.Mutex
	active   storage.Adapter
	remote   *storage.RemoteSyncAdapter
	tenantID string
}

// New constructs the facade for the configured mode. In local mode the
// adapter is usable immediately; in remote mode callers select a tenant
// with [StorageManager.UseTenant] before state-changing calls. A nil
// store lets remote mode build its own HTTP client from the config;
// tests inject a fake.
func New(cfg *config.ClientConfig, store adapter.SessionStore, log *logger.Logger) *StorageManager {
	m := &StorageManager{
		cfg:      cfg,
		logger:   log,
		registry: storage.NewRegistry(),
		identity: tenant.NewIdentityStore(cfg.StatePath, log),
	}

	if cfg.Mode == config.ModeRemote {
		if store == nil {
			store = adapter.NewHTTPSessionStore(adapter.HTTPClientConfig{
				BaseURL: cfg.ServerAddress,
				Timeout: cfg.RequestTimeout,
			})
		}
		m.store = store
		return m
	}

	m.active = storage.NewLocalAdapter(cfg.StatePath, log)
	return m
}

// UseTenant derives the tenant id from the family credential, remembers
// it best-effort, and activates a fresh remote adapter for it. Pending
// writes of a previously active tenant are drained before its adapter
// is discarded, so a write racing the switch is never lost. No-op in
// local mode.
func (m *StorageManager) UseTenant(ctx context.Context, credential string) error {
	if m.store == nil {
		return nil
	}

	tenantID := tenant.DeriveTenantID(credential)
	m.identity.Remember(tenantID)

	m.mu.Lock()
	old := m.remote
	m.mu.Unlock()

	if old != nil {
		if err := old.Drain(ctx); err != nil {
			return fmt.Errorf("drain previous tenant: %w", err)
		}
		old.Close()
	}

	next := storage.NewRemoteSyncAdapter(storage.RemoteConfig{
		TenantID:    tenantID,
		RetryDelay:  m.cfg.RetryDelay,
		InitTimeout: m.cfg.RequestTimeout,
	}, m.store, m.registry, m.logger)

	if err := next.WaitReady(ctx); err != nil {
		next.Close()
		return fmt.Errorf("initialize tenant session: %w", err)
	}

	m.mu.Lock()
	m.remote = next
	m.active = next
	m.tenantID = tenantID
	m.mu.Unlock()

	m.logger.Info().Str("tenant", tenantID).Msg("tenant activated")
	return nil
}

// TenantID returns the active tenant id, or "" in local mode.
func (m *StorageManager) TenantID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tenantID
}

// adapter returns the active adapter, or nil before a tenant was
// selected in remote mode; callers degrade to defaults rather than
// panic.
func (m *StorageManager) adapter() storage.Adapter {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

func (m *StorageManager) get(key string, def any) any {
	a := m.adapter()
	if a == nil {
		return def
	}
	return a.Get(key, def)
}

func (m *StorageManager) set(key string, value any) {
	a := m.adapter()
	if a == nil {
		m.logger.Warn().Str("key", key).Msg("write before tenant selection dropped")
		return
	}
	a.Set(key, value)
}

// ── flags ───────────────────────────────────────────────────────────────────

func (m *StorageManager) Authenticated() bool {
	v, _ := m.get(keyAuthenticated, false).(bool)
	return v
}

func (m *StorageManager) SetAuthenticated(v bool) { m.set(keyAuthenticated, v) }

func (m *StorageManager) SoundsEnabled() bool {
	v, ok := m.get(keySoundsEnabled, true).(bool)
	return !ok || v
}

func (m *StorageManager) SetSoundsEnabled(v bool) { m.set(keySoundsEnabled, v) }

func (m *StorageManager) MusicEnabled() bool {
	v, ok := m.get(keyMusicEnabled, true).(bool)
	return !ok || v
}

func (m *StorageManager) SetMusicEnabled(v bool) { m.set(keyMusicEnabled, v) }

// ── submitted codes ─────────────────────────────────────────────────────────

// SubmittedCodes returns the list of code submissions, each an object
// with "kode" and "dato".
func (m *StorageManager) SubmittedCodes() []any {
	list, _ := m.get(keySubmittedCodes, []any{}).([]any)
	return list
}

// AddSubmittedCode records one code submission. Re-submitting the same
// code on the same date is a no-op; the stored list never carries two
// items with the same natural key. Reports whether the item was added.
func (m *StorageManager) AddSubmittedCode(kode, dato string) bool {
	return m.addKeyedItem(keySubmittedCodes, map[string]any{"kode": kode, "dato": dato})
}

// HasSubmittedCode reports whether the given code was submitted on any
// date.
func (m *StorageManager) HasSubmittedCode(kode string) bool {
	for _, item := range m.SubmittedCodes() {
		if entry, ok := item.(map[string]any); ok && entry["kode"] == kode {
			return true
		}
	}
	return false
}

// ── emails ──────────────────────────────────────────────────────────────────

// MarkEmailViewed records that the email was opened. Idempotent.
func (m *StorageManager) MarkEmailViewed(emailID string) bool {
	return m.addKeyedItem(keyViewedEmails, map[string]any{"emailId": emailID})
}

// UnreadEmailCount counts unread items against the total number of
// emails currently unlocked for the tenant.
func (m *StorageManager) UnreadEmailCount(totalUnlocked int) int {
	viewed, _ := m.get(keyViewedEmails, []any{}).([]any)
	if n := totalUnlocked - len(viewed); n > 0 {
		return n
	}
	return 0
}

// ── badges ──────────────────────────────────────────────────────────────────

func (m *StorageManager) AddEarnedBadge(badgeID, dato string) bool {
	return m.addKeyedItem(keyEarnedBadges, map[string]any{"badgeId": badgeID, "dato": dato})
}

func (m *StorageManager) EarnedBadges() []any {
	list, _ := m.get(keyEarnedBadges, []any{}).([]any)
	return list
}

func (m *StorageManager) AddBonusOppdragBadge(dag int) bool {
	return m.addKeyedItem(keyBonusOppdrag, map[string]any{"dag": float64(dag)})
}

func (m *StorageManager) AddEventyrBadge(dag int) bool {
	return m.addKeyedItem(keyEventyrBadges, map[string]any{"dag": float64(dag)})
}

// ── unlocks and collections ─────────────────────────────────────────────────

// UnlockTopic records that a topic was unlocked on the given calendar
// day. Unlocking an already-unlocked topic overwrites its day.
func (m *StorageManager) UnlockTopic(topic string, dag int) {
	unlocks, _ := m.get(keyTopicUnlocks, map[string]any{}).(map[string]any)
	next := make(map[string]any, len(unlocks)+1)
	for k, v := range unlocks {
		next[k] = v
	}
	next[topic] = float64(dag)
	m.set(keyTopicUnlocks, next)
}

// TopicUnlocks returns topic → unlock day.
func (m *StorageManager) TopicUnlocks() map[string]any {
	unlocks, _ := m.get(keyTopicUnlocks, map[string]any{}).(map[string]any)
	return unlocks
}

func (m *StorageManager) UnlockFile(fileID string) bool {
	return m.addKeyedItem(keyUnlockedFiles, map[string]any{"fileId": fileID})
}

func (m *StorageManager) UnlockModule(moduleID string) bool {
	return m.addKeyedItem(keyUnlockedModules, map[string]any{"moduleId": moduleID})
}

func (m *StorageManager) CollectSymbol(symbolID string) bool {
	return m.addKeyedItem(keyCollectedSymbols, map[string]any{"symbolId": symbolID})
}

// ── decryptions ─────────────────────────────────────────────────────────────

func (m *StorageManager) MarkDecryptionSolved(oppgaveID string) bool {
	return m.addKeyedItem(keySolvedDecryptions, map[string]any{"oppgaveId": oppgaveID})
}

// RecordDecryptionAttempt bumps the attempt counter for the puzzle and
// returns the new count.
func (m *StorageManager) RecordDecryptionAttempt(oppgaveID string) int {
	return m.bumpCounter(keyDecryptionAttempts, oppgaveID)
}

// RecordFailedAttempt bumps the failed-attempt counter for the puzzle
// and returns the new count.
func (m *StorageManager) RecordFailedAttempt(oppgaveID string) int {
	return m.bumpCounter(keyFailedAttempts, oppgaveID)
}

func (m *StorageManager) bumpCounter(key, id string) int {
	counters, _ := m.get(key, map[string]any{}).(map[string]any)
	next := make(map[string]any, len(counters)+1)
	for k, v := range counters {
		next[k] = v
	}

	count := 1
	if prev, ok := next[id].(float64); ok {
		count = int(prev) + 1
	}
	next[id] = float64(count)
	m.set(key, next)
	return count
}

// ── crisis ──────────────────────────────────────────────────────────────────

// CrisisStatus returns crisis id → status.
func (m *StorageManager) CrisisStatus() map[string]any {
	status, _ := m.get(keyCrisisStatus, map[string]any{}).(map[string]any)
	return status
}

// ResolveCrisis marks the crisis resolved.
func (m *StorageManager) ResolveCrisis(crisisID string) {
	status := m.CrisisStatus()
	next := make(map[string]any, len(status)+1)
	for k, v := range status {
		next[k] = v
	}
	next[crisisID] = "resolved"
	m.set(keyCrisisStatus, next)
}

// ── letters, names, diary ───────────────────────────────────────────────────

func (m *StorageManager) AddSantaLetter(navn, tekst, dato string) bool {
	return m.addKeyedItem(keySantaLetters, map[string]any{"navn": navn, "tekst": tekst, "dato": dato})
}

func (m *StorageManager) SantaLetters() []any {
	list, _ := m.get(keySantaLetters, []any{}).([]any)
	return list
}

func (m *StorageManager) SetPlayerNames(names []string) {
	items := make([]any, 0, len(names))
	for _, n := range names {
		items = append(items, map[string]any{"navn": n})
	}
	m.set(keyPlayerNames, items)
}

func (m *StorageManager) PlayerNames() []string {
	list, _ := m.get(keyPlayerNames, []any{}).([]any)
	names := make([]string, 0, len(list))
	for _, item := range list {
		if entry, ok := item.(map[string]any); ok {
			if n, ok := entry["navn"].(string); ok {
				names = append(names, n)
			}
		}
	}
	return names
}

// FetchPlayerNames reads the player names straight from the remote
// document, bypassing the cache. Unlike background syncs this call is
// explicitly awaited, bounded by the configured request timeout, and
// surfaces its failure to the caller. Local mode answers from storage.
func (m *StorageManager) FetchPlayerNames(ctx context.Context) ([]string, error) {
	if m.store == nil {
		return m.PlayerNames(), nil
	}

	m.mu.Lock()
	tenantID := m.tenantID
	m.mu.Unlock()
	if tenantID == "" {
		return nil, fmt.Errorf("no tenant selected")
	}

	ctx, cancel := context.WithTimeout(ctx, m.cfg.RequestTimeout)
	defer cancel()

	doc, err := m.store.GetSession(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("fetch player names: %w", err)
	}

	list, _ := doc["playerNames"].([]any)
	names := make([]string, 0, len(list))
	for _, item := range list {
		if entry, ok := item.(map[string]any); ok {
			if n, ok := entry["navn"].(string); ok {
				names = append(names, n)
			}
		}
	}
	return names, nil
}

func (m *StorageManager) DagbokLastRead() int {
	v, _ := m.get(keyDagbokLastRead, float64(0)).(float64)
	return int(v)
}

func (m *StorageManager) SetDagbokLastRead(dag int) {
	m.set(keyDagbokLastRead, float64(dag))
}

// ── bulk operations ─────────────────────────────────────────────────────────

// Export serializes every tracked key into one JSON object.
func (m *StorageManager) Export() ([]byte, error) {
	snapshot := make(map[string]any, len(models.Fields))
	a := m.adapter()
	if a == nil {
		return nil, fmt.Errorf("no active storage adapter")
	}

	for _, f := range models.Fields {
		if a.Has(f.Key) {
			snapshot[f.Key] = a.Get(f.Key, nil)
		}
	}
	return json.Marshal(snapshot)
}

// Import replays a previously exported snapshot, overwriting tracked
// keys present in the payload and leaving all others untouched.
func (m *StorageManager) Import(raw []byte) error {
	var snapshot map[string]any
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return fmt.Errorf("decode import payload: %w", err)
	}

	for key, value := range snapshot {
		if _, known := models.FieldByKey(key); !known {
			m.logger.Warn().Str("key", key).Msg("skipping unknown key in import")
			continue
		}
		m.set(key, value)
	}
	return nil
}

// ResetProgress wipes every tracked key.
func (m *StorageManager) ResetProgress() {
	if a := m.adapter(); a != nil {
		a.Clear()
	}
}

// DeleteAccount removes the tenant's remote document and the locally
// remembered identity. Administrative path; errors surface.
func (m *StorageManager) DeleteAccount(ctx context.Context) error {
	m.mu.Lock()
	tenantID := m.tenantID
	m.mu.Unlock()

	if m.store != nil && tenantID != "" {
		if err := m.store.DeleteSession(ctx, tenantID); err != nil {
			return fmt.Errorf("delete remote session: %w", err)
		}
	}
	m.identity.Forget()
	if a := m.adapter(); a != nil {
		a.Clear()
	}
	return nil
}

// Drain awaits the active adapter's pending syncs.
func (m *StorageManager) Drain(ctx context.Context) error {
	m.mu.Lock()
	remote := m.remote
	m.mu.Unlock()

	if remote == nil {
		return nil
	}
	return remote.Drain(ctx)
}

// DrainAll awaits pending syncs across every adapter constructed during
// this process, including ones discarded by tenant switches.
func (m *StorageManager) DrainAll(ctx context.Context) error {
	return m.registry.DrainAll(ctx)
}

// Close drains nothing and stops the active remote worker. Call
// [StorageManager.Drain] first when pending writes matter.
func (m *StorageManager) Close() {
	m.mu.Lock()
	remote := m.remote
	m.mu.Unlock()

	if remote != nil {
		remote.Close()
	}
}

// addKeyedItem appends item to the list under key unless an equivalent
// item — same natural key per the field table — is already present.
func (m *StorageManager) addKeyedItem(key string, item map[string]any) bool {
	spec, ok := models.FieldByKey(key)
	if !ok {
		return false
	}

	list, _ := m.get(key, []any{}).([]any)
	naturalID := fieldmap.DeriveItemID(spec, item)
	for _, existing := range list {
		entry, ok := existing.(map[string]any)
		if !ok {
			continue
		}
		if fieldmap.DeriveItemID(spec, entry) == naturalID {
			return false
		}
	}

	m.set(key, append(list, item))
	return true
}
