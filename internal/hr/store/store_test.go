package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rh-insights/rh-insights-backend/internal/hr/domain"
	"github.com/rh-insights/rh-insights-backend/pkg/logger"
)

// memPersister records saves for assertions.
type memPersister struct {
	mu    sync.Mutex
	saved []domain.Snapshot
	snap  *domain.Snapshot
	fail  bool
}

func (m *memPersister) Load(_ context.Context) (domain.Snapshot, bool, error) {
	if m.snap == nil {
		return domain.Empty(), false, nil
	}
	return *m.snap, true, nil
}

func (m *memPersister) Save(_ context.Context, snap domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("disk full")
	}
	m.saved = append(m.saved, snap)
	return nil
}

func (m *memPersister) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}

func newTestStore(t *testing.T, p Persister, debounce time.Duration) *Store {
	t.Helper()
	return New(p, debounce, logger.Nop())
}

func TestStore_LoadMissingBlobStartsEmpty(t *testing.T) {
	st := newTestStore(t, &memPersister{}, time.Second)
	st.Load(context.Background())

	snap := st.Snapshot()
	assert.Empty(t, snap.Employees)
	assert.NotNil(t, snap.Users)
}

func TestStore_LoadStripsSession(t *testing.T) {
	persisted := domain.Empty()
	persisted.CurrentUser = &domain.User{Email: "stale@example.com"}
	st := newTestStore(t, &memPersister{snap: &persisted}, time.Second)
	st.Load(context.Background())

	assert.Nil(t, st.Snapshot().CurrentUser)
}

func TestStore_UpdateDebouncesSaves(t *testing.T) {
	p := &memPersister{}
	st := newTestStore(t, p, 50*time.Millisecond)

	for i := 0; i < 5; i++ {
		err := st.Update(func(snap *domain.Snapshot) error {
			snap.Departments = append(snap.Departments, "D")
			return nil
		})
		require.NoError(t, err)
	}

	assert.Equal(t, 0, p.saveCount(), "no save inside the quiet period")

	assert.Eventually(t, func() bool {
		return p.saveCount() == 1
	}, time.Second, 10*time.Millisecond, "burst must collapse into one save")
}

func TestStore_FlushSavesImmediately(t *testing.T) {
	p := &memPersister{}
	st := newTestStore(t, p, time.Hour)

	require.NoError(t, st.Update(func(snap *domain.Snapshot) error {
		snap.Entities = append(snap.Entities, "Siège")
		return nil
	}))
	require.Equal(t, 0, p.saveCount())

	st.Flush(context.Background())
	require.Equal(t, 1, p.saveCount())
	assert.Equal(t, []string{"Siège"}, p.saved[0].Entities)
}

func TestStore_SaveFailureKeepsMemoryAuthoritative(t *testing.T) {
	p := &memPersister{fail: true}
	st := newTestStore(t, p, time.Hour)

	require.NoError(t, st.Update(func(snap *domain.Snapshot) error {
		snap.Departments = append(snap.Departments, "Finance")
		return nil
	}))
	st.Flush(context.Background())

	assert.Equal(t, []string{"Finance"}, st.Snapshot().Departments)
}

func TestStore_UpdateErrorStillPropagates(t *testing.T) {
	st := newTestStore(t, &memPersister{}, time.Hour)

	sentinel := errors.New("rejected")
	err := st.Update(func(snap *domain.Snapshot) error { return sentinel })
	assert.ErrorIs(t, err, sentinel)
}

func TestStore_SubscribeAndCancel(t *testing.T) {
	st := newTestStore(t, &memPersister{}, time.Hour)

	calls := 0
	cancel := st.Subscribe(func() { calls++ })

	require.NoError(t, st.Update(func(*domain.Snapshot) error { return nil }))
	assert.Equal(t, 1, calls)

	cancel()
	require.NoError(t, st.Update(func(*domain.Snapshot) error { return nil }))
	assert.Equal(t, 1, calls)
}

func TestStore_SnapshotIsDeepCopy(t *testing.T) {
	st := newTestStore(t, &memPersister{}, time.Hour)
	require.NoError(t, st.Update(func(snap *domain.Snapshot) error {
		snap.Employees = append(snap.Employees, domain.Employee{Matricule: "M001", Noms: "Original"})
		return nil
	}))

	snap := st.Snapshot()
	snap.Employees[0].Noms = "Mutated"

	st.View(func(s *domain.Snapshot) {
		assert.Equal(t, "Original", s.Employees[0].Noms)
	})
}

func TestFilePersister_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "db.json")
	p := NewFilePersister(path, 3)

	snap := domain.Empty()
	snap.Employees = append(snap.Employees, domain.Employee{Matricule: "M001", Noms: "KOUAM Jean"})
	require.NoError(t, p.Save(context.Background(), snap))

	loaded, found, err := p.Load(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, loaded.Employees, 1)
	assert.Equal(t, "KOUAM Jean", loaded.Employees[0].Noms)
}

func TestFilePersister_MissingFile(t *testing.T) {
	p := NewFilePersister(filepath.Join(t.TempDir(), "nope.json"), 3)
	_, found, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
}
