package manager

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evenstad/julekalender/internal/adapter"
	"github.com/evenstad/julekalender/internal/config"
	"github.com/evenstad/julekalender/internal/logger"
	"github.com/evenstad/julekalender/models"
)

// fakeStore is a minimal in-memory session store for facade tests.
type fakeStore struct {
	mu   sync.Mutex
	docs map[string]models.SessionDocument
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: make(map[string]models.SessionDocument)}
}

func (f *fakeStore) GetSession(_ context.Context, tenantID string) (models.SessionDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[tenantID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", adapter.ErrNotFound, tenantID)
	}
	return doc.Clone(), nil
}

func (f *fakeStore) CreateSession(_ context.Context, tenantID string) (models.SessionDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[tenantID] = models.DefaultDocument()
	return f.docs[tenantID].Clone(), nil
}

func (f *fakeStore) SyncSession(_ context.Context, tenantID string, updates map[string]any) (models.SessionDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[tenantID]
	if !ok {
		return nil, adapter.ErrNotFound
	}
	for k, v := range updates {
		doc[k] = v
	}
	return doc.Clone(), nil
}

func (f *fakeStore) DeleteSession(_ context.Context, tenantID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, tenantID)
	return nil
}

func localManager(t *testing.T) *StorageManager {
	t.Helper()
	return New(&config.ClientConfig{
		Mode:           config.ModeLocal,
		StatePath:      t.TempDir(),
		RequestTimeout: time.Second,
		RetryDelay:     time.Millisecond,
	}, nil, logger.Nop())
}

func remoteManager(t *testing.T, store adapter.SessionStore) *StorageManager {
	t.Helper()
	m := New(&config.ClientConfig{
		Mode:           config.ModeRemote,
		ServerAddress:  "http://unused",
		StatePath:      t.TempDir(),
		RequestTimeout: time.Second,
		RetryDelay:     time.Millisecond,
	}, store, logger.Nop())
	t.Cleanup(m.Close)
	return m
}

func TestLocalMode_SetGetWithoutNetwork(t *testing.T) {
	m := localManager(t)

	// local-only mode: no tenant, no network, storage works immediately
	m.SetDagbokLastRead(3)
	assert.Equal(t, 3, m.DagbokLastRead())
	assert.Equal(t, "", m.TenantID())
}

func TestSoundAndMusicDefaults(t *testing.T) {
	m := localManager(t)

	assert.True(t, m.SoundsEnabled())
	assert.True(t, m.MusicEnabled())

	m.SetSoundsEnabled(false)
	m.SetMusicEnabled(false)
	assert.False(t, m.SoundsEnabled())
	assert.False(t, m.MusicEnabled())
}

func TestAddSubmittedCode_DuplicateSuppression(t *testing.T) {
	m := localManager(t)

	assert.True(t, m.AddSubmittedCode("DAY1", "2025-12-01"))
	assert.False(t, m.AddSubmittedCode("DAY1", "2025-12-01"))

	require.Len(t, m.SubmittedCodes(), 1)
	assert.True(t, m.HasSubmittedCode("DAY1"))
	assert.False(t, m.HasSubmittedCode("DAY2"))
}

func TestUnreadEmailCount(t *testing.T) {
	m := localManager(t)

	assert.Equal(t, 5, m.UnreadEmailCount(5))

	m.MarkEmailViewed("mail-1")
	m.MarkEmailViewed("mail-2")
	m.MarkEmailViewed("mail-2") // idempotent

	assert.Equal(t, 3, m.UnreadEmailCount(5))
	assert.Equal(t, 0, m.UnreadEmailCount(1))
}

func TestBadges(t *testing.T) {
	m := localManager(t)

	assert.True(t, m.AddEarnedBadge("stjerne", "2025-12-06"))
	assert.False(t, m.AddEarnedBadge("stjerne", "2025-12-06"))
	assert.True(t, m.AddBonusOppdragBadge(14))
	assert.False(t, m.AddBonusOppdragBadge(14))
	assert.True(t, m.AddEventyrBadge(2))

	assert.Len(t, m.EarnedBadges(), 1)
}

func TestTopicUnlocks(t *testing.T) {
	m := localManager(t)

	m.UnlockTopic("julenissen", 3)
	m.UnlockTopic("reinsdyr", 7)
	m.UnlockTopic("julenissen", 9) // re-unlock overwrites the day

	unlocks := m.TopicUnlocks()
	assert.Equal(t, float64(9), unlocks["julenissen"])
	assert.Equal(t, float64(7), unlocks["reinsdyr"])
}

func TestCounters(t *testing.T) {
	m := localManager(t)

	assert.Equal(t, 1, m.RecordDecryptionAttempt("oppgave-1"))
	assert.Equal(t, 2, m.RecordDecryptionAttempt("oppgave-1"))
	assert.Equal(t, 1, m.RecordFailedAttempt("oppgave-1"))

	assert.True(t, m.MarkDecryptionSolved("oppgave-1"))
	assert.False(t, m.MarkDecryptionSolved("oppgave-1"))
}

func TestCrisisResolution(t *testing.T) {
	m := localManager(t)

	m.ResolveCrisis("strømbrudd")

	assert.Equal(t, "resolved", m.CrisisStatus()["strømbrudd"])
}

func TestExportImport_RoundTrip(t *testing.T) {
	m := localManager(t)
	m.SetDagbokLastRead(12)
	m.AddSubmittedCode("DAY1", "2025-12-01")
	m.UnlockTopic("julenissen", 3)

	raw, err := m.Export()
	require.NoError(t, err)

	var snapshot map[string]any
	require.NoError(t, json.Unmarshal(raw, &snapshot))
	assert.Contains(t, snapshot, "dagbok-last-read")

	fresh := localManager(t)
	require.NoError(t, fresh.Import(raw))

	assert.Equal(t, 12, fresh.DagbokLastRead())
	assert.True(t, fresh.HasSubmittedCode("DAY1"))
	assert.Equal(t, float64(3), fresh.TopicUnlocks()["julenissen"])
}

func TestImport_RejectsGarbage(t *testing.T) {
	m := localManager(t)
	assert.Error(t, m.Import([]byte("{broken")))
}

func TestRemoteMode_WritesBeforeTenantSelectionDegrade(t *testing.T) {
	m := remoteManager(t, newFakeStore())

	m.SetDagbokLastRead(5) // dropped, logged
	assert.Equal(t, 0, m.DagbokLastRead())
	assert.True(t, m.SoundsEnabled())
}

func TestRemoteMode_CrossDeviceRestore(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()

	device1 := remoteManager(t, store)
	require.NoError(t, device1.UseTenant(ctx, "familie-hansen"))
	require.True(t, device1.AddSubmittedCode("DAY1", "2025-12-01"))
	require.NoError(t, device1.Drain(ctx))

	device2 := remoteManager(t, store)
	require.NoError(t, device2.UseTenant(ctx, "familie-hansen"))

	assert.Equal(t, device1.TenantID(), device2.TenantID())
	assert.True(t, device2.HasSubmittedCode("DAY1"))
}

func TestRemoteMode_TenantSwitchIsolation(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()

	m := remoteManager(t, store)
	require.NoError(t, m.UseTenant(ctx, "familie-hansen"))
	m.SetDagbokLastRead(24)
	require.NoError(t, m.Drain(ctx))

	// switch drains the old tenant before discarding it
	require.NoError(t, m.UseTenant(ctx, "familie-olsen"))
	assert.Equal(t, 0, m.DagbokLastRead())

	// switching back restores the first family's state
	require.NoError(t, m.UseTenant(ctx, "familie-hansen"))
	assert.Equal(t, 24, m.DagbokLastRead())

	require.NoError(t, m.DrainAll(ctx))
}

func TestFetchPlayerNames_RemoteAndLocal(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()

	m := remoteManager(t, store)
	require.NoError(t, m.UseTenant(ctx, "familie-hansen"))
	m.SetPlayerNames([]string{"Mia", "Oskar"})
	require.NoError(t, m.Drain(ctx))

	names, err := m.FetchPlayerNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mia", "Oskar"}, names)

	local := localManager(t)
	local.SetPlayerNames([]string{"Linnea"})
	names, err = local.FetchPlayerNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Linnea"}, names)
}

func TestFetchPlayerNames_NoTenant(t *testing.T) {
	m := remoteManager(t, newFakeStore())
	_, err := m.FetchPlayerNames(context.Background())
	assert.Error(t, err)
}

func TestDeleteAccount(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()

	m := remoteManager(t, store)
	require.NoError(t, m.UseTenant(ctx, "familie-hansen"))
	m.SetDagbokLastRead(3)
	require.NoError(t, m.Drain(ctx))

	require.NoError(t, m.DeleteAccount(ctx))

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Empty(t, store.docs)
}
