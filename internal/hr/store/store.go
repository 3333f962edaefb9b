// Package store holds the in-memory aggregate state of the
// application and its persistence adapter. The store is the single
// owner of every collection; handlers and services mutate it only
// through Update, which serializes writers and schedules a debounced
// save. The in-memory state stays authoritative for the session even
// when persistence fails.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/rh-insights/rh-insights-backend/internal/hr/domain"
	"github.com/rh-insights/rh-insights-backend/pkg/logger"
)

// Persister saves and restores the full snapshot blob.
type Persister interface {
	// Load returns the persisted snapshot. found=false means no blob
	// exists yet (first run) and is not an error.
	Load(ctx context.Context) (snap domain.Snapshot, found bool, err error)
	// Save rewrites the whole blob.
	Save(ctx context.Context, snap domain.Snapshot) error
}

// Store is the aggregate root: single writer, many readers, with a
// subscriber list notified after every mutation.
type Store struct {
	mu   sync.RWMutex
	data domain.Snapshot

	persister Persister
	debounce  time.Duration
	log       *logger.Logger

	timerMu   sync.Mutex
	saveTimer *time.Timer

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

// New creates a store backed by the given persister. debounce is the
// quiet period coalescing rapid successive mutations into one write.
func New(p Persister, debounce time.Duration, log *logger.Logger) *Store {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Store{
		data:      domain.Empty(),
		persister: p,
		debounce:  debounce,
		log:       log.WithComponent("store"),
		subs:      make(map[int]func()),
	}
}

// Load restores the persisted blob. A missing blob starts the store
// empty; a corrupt blob is logged and also starts the store empty —
// the blob model has no partial recovery.
func (s *Store) Load(ctx context.Context) {
	snap, found, err := s.persister.Load(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("could not load data, starting with empty store")
		return
	}
	if !found {
		s.log.Info().Msg("no persisted data found, starting with empty store")
		return
	}

	// Sessions never survive a restart.
	snap.CurrentUser = nil

	s.mu.Lock()
	s.data = normalize(snap)
	s.mu.Unlock()

	s.log.Info().
		Int("employees", len(snap.Employees)).
		Int("users", len(snap.Users)).
		Msg("store loaded")
}

// View runs fn with read access to the snapshot. fn must not retain or
// mutate the snapshot.
func (s *Store) View(fn func(snap *domain.Snapshot)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.data)
}

// Update runs fn with exclusive write access, then notifies
// subscribers and schedules a debounced save. The error returned by fn
// aborts neither — pure in-memory mutations cannot half-fail — it is
// simply passed through so services can surface validation results
// decided under the lock.
func (s *Store) Update(fn func(snap *domain.Snapshot) error) error {
	s.mu.Lock()
	err := fn(&s.data)
	s.mu.Unlock()

	s.notify()
	return err
}

// Snapshot returns a deep copy of the current state with the session
// pointer stripped, suitable for the /api/data blob endpoints.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.RLock()
	snap := s.data.Clone()
	s.mu.RUnlock()

	snap.CurrentUser = nil
	return snap
}

// Replace overwrites the entire state, as the POST /api/data endpoint
// does. The incoming currentUser is always discarded.
func (s *Store) Replace(snap domain.Snapshot) {
	snap.CurrentUser = nil

	s.mu.Lock()
	s.data = normalize(snap)
	s.mu.Unlock()

	s.notify()
}

// Subscribe registers fn to run after every mutation. The returned
// cancel func removes the subscription.
func (s *Store) Subscribe(fn func()) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// Flush performs an immediate save, cancelling any pending debounce
// timer. Called on shutdown so the quiet-period window does not lose
// the last mutations.
func (s *Store) Flush(ctx context.Context) {
	s.timerMu.Lock()
	if s.saveTimer != nil {
		s.saveTimer.Stop()
		s.saveTimer = nil
	}
	s.timerMu.Unlock()

	s.save(ctx)
}

// notify wakes subscribers synchronously and (re)arms the save timer.
// Each new mutation simply resets the timer; only the trailing edge of
// a burst reaches the persister.
func (s *Store) notify() {
	s.subMu.Lock()
	for _, fn := range s.subs {
		fn()
	}
	s.subMu.Unlock()

	s.timerMu.Lock()
	if s.saveTimer != nil {
		s.saveTimer.Stop()
	}
	s.saveTimer = time.AfterFunc(s.debounce, func() {
		s.save(context.Background())
	})
	s.timerMu.Unlock()
}

// save serializes the whole store. Persistence failures are logged and
// swallowed: the in-memory store remains the source of truth and the
// user is never asked to retry.
func (s *Store) save(ctx context.Context) {
	snap := s.Snapshot()

	if err := s.persister.Save(ctx, snap); err != nil {
		s.log.Error().Err(err).Msg("could not save data, in-memory state remains authoritative")
	}
}

// normalize re-establishes the invariants Empty() gives a fresh store:
// nil collections become empty ones so JSON round-trips stay stable.
func normalize(snap domain.Snapshot) domain.Snapshot {
	empty := domain.Empty()
	if snap.Employees == nil {
		snap.Employees = empty.Employees
	}
	if snap.OpenPositions == nil {
		snap.OpenPositions = empty.OpenPositions
	}
	if snap.Users == nil {
		snap.Users = empty.Users
	}
	if snap.SalaryHistory == nil {
		snap.SalaryHistory = empty.SalaryHistory
	}
	if snap.FunctionHistory == nil {
		snap.FunctionHistory = empty.FunctionHistory
	}
	if snap.ContractHistory == nil {
		snap.ContractHistory = empty.ContractHistory
	}
	if snap.DepartmentHistory == nil {
		snap.DepartmentHistory = empty.DepartmentHistory
	}
	if snap.EntityHistory == nil {
		snap.EntityHistory = empty.EntityHistory
	}
	if snap.WorkLocationHistory == nil {
		snap.WorkLocationHistory = empty.WorkLocationHistory
	}
	if snap.Departments == nil {
		snap.Departments = empty.Departments
	}
	if snap.Entities == nil {
		snap.Entities = empty.Entities
	}
	if snap.WorkLocations == nil {
		snap.WorkLocations = empty.WorkLocations
	}
	return snap
}
