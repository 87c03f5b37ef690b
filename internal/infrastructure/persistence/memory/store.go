// Package memory implements the authoritative in-memory employee store.
// All state lives in process memory; a SnapshotRepository receives
// best-effort write-behind copies after each commit. A write failure is
// logged and never rolls back the in-memory state.
package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/zv-rewards/zv-rewards-hub/internal/domain/employee"
	"github.com/zv-rewards/zv-rewards-hub/internal/domain/shared"
	"github.com/zv-rewards/zv-rewards-hub/pkg/circuitbreaker"
	"github.com/zv-rewards/zv-rewards-hub/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// EMPLOYEE STORE IMPLEMENTATION
// Single-writer-per-key: у каждого ID свой мьютекс, мутации одного
// сотрудника сериализуются, разные сотрудники не блокируют друг друга.
// ══════════════════════════════════════════════════════════════════════════════

// Store implements employee.Store.
type Store struct {
	// mu guards the maps themselves, not individual states.
	mu     sync.RWMutex
	states map[string]*employee.State
	seeds  map[string]*employee.State
	locks  map[string]*sync.Mutex

	snapshots employee.SnapshotRepository
	breaker   *circuitbreaker.CircuitBreaker
	retrier   *retry.Retrier
	logger    *slog.Logger

	// saveTimeout bounds each background write-behind attempt.
	saveTimeout time.Duration

	// wg tracks in-flight background saves for graceful shutdown.
	wg sync.WaitGroup
}

// Option configures the Store.
type Option func(*Store)

// WithSnapshotRepository sets the write-behind persistence port.
func WithSnapshotRepository(repo employee.SnapshotRepository) Option {
	return func(s *Store) { s.snapshots = repo }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithSaveTimeout sets the per-save timeout for background writes.
func WithSaveTimeout(d time.Duration) Option {
	return func(s *Store) { s.saveTimeout = d }
}

// WithCircuitBreaker guards the write-behind path: when persistence
// degrades, saves are skipped instead of piling up goroutines.
func WithCircuitBreaker(cb *circuitbreaker.CircuitBreaker) Option {
	return func(s *Store) { s.breaker = cb }
}

// NewStore creates a Store seeded with the given states. The seed copies are
// retained for ResetToSeed.
func NewStore(seed []*employee.State, opts ...Option) *Store {
	s := &Store{
		states:      make(map[string]*employee.State, len(seed)),
		seeds:       make(map[string]*employee.State, len(seed)),
		locks:       make(map[string]*sync.Mutex, len(seed)),
		retrier:     retry.SnapshotRetrier(),
		logger:      slog.Default(),
		saveTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "memory_store")

	for _, state := range seed {
		s.states[state.ID] = state.Clone()
		s.seeds[state.ID] = state.Clone()
		s.locks[state.ID] = &sync.Mutex{}
	}
	return s
}

// WarmUp replaces seeded states with previously persisted ones, when the
// persistence port has them. Unknown IDs from the port are ignored.
func (s *Store) WarmUp(ctx context.Context) error {
	if s.snapshots == nil {
		return nil
	}

	persisted, err := s.snapshots.LoadAll(ctx)
	if err != nil {
		return shared.WrapError("store", "WarmUp", shared.ErrPersistenceFailed, "failed to load snapshots", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	restored := 0
	for id, state := range persisted {
		if _, known := s.states[id]; !known {
			continue
		}
		s.states[id] = state.Clone()
		restored++
	}
	s.logger.Info("store warmed up", "restored", restored, "total", len(s.states))
	return nil
}

// Get returns a deep copy of the employee state.
func (s *Store) Get(ctx context.Context, id string) (*employee.State, error) {
	s.mu.RLock()
	state, ok := s.states[id]
	s.mu.RUnlock()
	if !ok {
		return nil, shared.ErrEmployeeNotFound
	}
	return state.Clone(), nil
}

// Replace atomically swaps in a new state and schedules a background save.
func (s *Store) Replace(ctx context.Context, id string, state *employee.State) error {
	lock, err := s.lockFor(id)
	if err != nil {
		return err
	}
	lock.Lock()
	defer lock.Unlock()

	if err := state.Validate(); err != nil {
		return err
	}

	committed := state.Clone()
	s.mu.Lock()
	s.states[id] = committed
	s.mu.Unlock()

	s.scheduleSave(id, committed.Clone())
	return nil
}

// Update runs a read-modify-write cycle under this ID's lock. The mutator
// receives a deep copy; the returned state is committed. A mutator error
// aborts the commit and is returned unchanged.
func (s *Store) Update(ctx context.Context, id string, mutate employee.Mutator) (*employee.State, error) {
	lock, err := s.lockFor(id)
	if err != nil {
		return nil, err
	}
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	current := s.states[id]
	s.mu.RUnlock()

	next, err := mutate(current.Clone())
	if err != nil {
		return nil, err
	}
	if next == nil {
		return nil, shared.NewDomainError("store", "Update", shared.ErrInvalidInput, "mutator returned nil state")
	}
	next.UpdatedAt = time.Now().UTC()

	committed := next.Clone()
	s.mu.Lock()
	s.states[id] = committed
	s.mu.Unlock()

	s.scheduleSave(id, committed.Clone())
	return next, nil
}

// ResetToSeed restores the seed snapshot for this ID.
func (s *Store) ResetToSeed(ctx context.Context, id string) (*employee.State, error) {
	lock, err := s.lockFor(id)
	if err != nil {
		return nil, err
	}
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	seed, ok := s.seeds[id]
	s.mu.RUnlock()
	if !ok {
		return nil, shared.ErrEmployeeNotFound
	}

	committed := seed.Clone()
	committed.UpdatedAt = time.Now().UTC()
	s.mu.Lock()
	s.states[id] = committed
	s.mu.Unlock()

	s.logger.Info("employee reset to seed", "employee_id", id)
	s.scheduleSave(id, committed.Clone())
	return committed.Clone(), nil
}

// ImportSnapshot validates the document and replaces the state wholesale.
// A malformed document leaves the state untouched.
func (s *Store) ImportSnapshot(ctx context.Context, id string, doc []byte) (*employee.State, error) {
	lock, err := s.lockFor(id)
	if err != nil {
		return nil, err
	}
	lock.Lock()
	defer lock.Unlock()

	state, err := employee.UnmarshalSnapshot(id, doc)
	if err != nil {
		return nil, err
	}

	committed := state.Clone()
	committed.UpdatedAt = time.Now().UTC()
	s.mu.Lock()
	s.states[id] = committed
	s.mu.Unlock()

	s.logger.Info("snapshot imported",
		"employee_id", id,
		"points", int(committed.Points),
		"level", int(committed.Level),
	)
	s.scheduleSave(id, committed.Clone())
	return committed.Clone(), nil
}

// ExportSnapshot serializes the current state into a portable document.
func (s *Store) ExportSnapshot(ctx context.Context, id string) ([]byte, error) {
	state, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return employee.MarshalSnapshot(state)
}

// IDs returns all known employee IDs, sorted.
func (s *Store) IDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.states))
	for id := range s.states {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// All returns deep copies of all states.
func (s *Store) All(ctx context.Context) ([]*employee.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	states := make([]*employee.State, 0, len(s.states))
	for _, state := range s.states {
		states = append(states, state.Clone())
	}
	return states, nil
}

// Close waits for in-flight background saves to finish.
func (s *Store) Close() {
	s.wg.Wait()
}

// lockFor returns the per-ID mutex.
func (s *Store) lockFor(id string) (*sync.Mutex, error) {
	s.mu.RLock()
	lock, ok := s.locks[id]
	s.mu.RUnlock()
	if !ok {
		return nil, shared.ErrEmployeeNotFound
	}
	return lock, nil
}

// scheduleSave fires a background write-behind save. Failures are retried
// with backoff, then logged and dropped: память остаётся источником истины.
func (s *Store) scheduleSave(id string, state *employee.State) {
	if s.snapshots == nil {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.saveTimeout)
		defer cancel()

		save := func(ctx context.Context) error {
			return s.retrier.Do(ctx, func(ctx context.Context) error {
				return retry.Retryable(s.snapshots.Save(ctx, id, state))
			})
		}

		var err error
		if s.breaker != nil {
			err = s.breaker.Execute(ctx, save)
		} else {
			err = save(ctx)
		}
		if err != nil {
			s.logger.Warn("write-behind save failed",
				"employee_id", id,
				"error", err,
			)
		}
	}()
}
