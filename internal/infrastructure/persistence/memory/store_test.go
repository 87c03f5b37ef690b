package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zv-rewards/zv-rewards-hub/internal/domain/employee"
	"github.com/zv-rewards/zv-rewards-hub/internal/domain/shared"
)

func newSeedState(t *testing.T, id, name string, points employee.Points) *employee.State {
	t.Helper()
	state, err := employee.NewState(employee.NewStateParams{
		ID:      id,
		Profile: employee.Profile{Name: name, Role: "engineer"},
		Points:  points,
	})
	require.NoError(t, err)
	return state
}

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	return NewStore([]*employee.State{
		newSeedState(t, "emp-1", "Анна", 420),
		newSeedState(t, "emp-2", "Дмитрий", 850),
	}, opts...)
}

func TestStore_GetReturnsClone(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.Get(ctx, "emp-1")
	require.NoError(t, err)

	// Мутация копии не должна протекать в хранилище.
	first.AddPoints(1000)
	first.AdjustKPI(employee.KPIProductivity, 30)

	second, err := store.Get(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, employee.Points(420), second.Points)
	assert.Equal(t, employee.KPIValue(50), second.KPIs[employee.KPIProductivity])
}

func TestStore_GetUnknownID(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "ghost")
	require.ErrorIs(t, err, shared.ErrEmployeeNotFound)
}

func TestStore_UpdateCommitsMutation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	updated, err := store.Update(ctx, "emp-1", func(state *employee.State) (*employee.State, error) {
		state.AddPoints(100)
		return state, nil
	})
	require.NoError(t, err)
	assert.Equal(t, employee.Points(520), updated.Points)
	assert.False(t, updated.UpdatedAt.IsZero())

	stored, err := store.Get(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, employee.Points(520), stored.Points)
	assert.Equal(t, employee.Level(2), stored.Level)
}

func TestStore_UpdateMutatorErrorAborts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := store.Update(ctx, "emp-1", func(state *employee.State) (*employee.State, error) {
		state.AddPoints(100)
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	stored, err := store.Get(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, employee.Points(420), stored.Points)
}

func TestStore_UpdateNilStateRejected(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Update(context.Background(), "emp-1", func(state *employee.State) (*employee.State, error) {
		return nil, nil
	})
	require.Error(t, err)
}

func TestStore_UpdateUnknownID(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Update(context.Background(), "ghost", func(state *employee.State) (*employee.State, error) {
		return state, nil
	})
	require.ErrorIs(t, err, shared.ErrEmployeeNotFound)
}

func TestStore_UpdateCancelledContext(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Update(ctx, "emp-1", func(state *employee.State) (*employee.State, error) {
		return state, nil
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestStore_ConcurrentUpdatesSerialized(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := store.Update(ctx, "emp-1", func(state *employee.State) (*employee.State, error) {
				state.AddPoints(10)
				return state, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := store.Get(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, employee.Points(420+workers*10), stored.Points)
}

func TestStore_ResetToSeed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Update(ctx, "emp-1", func(state *employee.State) (*employee.State, error) {
		state.AddPoints(300)
		state.UnlockBadge(employee.BadgeConsistency)
		return state, nil
	})
	require.NoError(t, err)

	restored, err := store.ResetToSeed(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, employee.Points(420), restored.Points)
	assert.Empty(t, restored.Badges)

	_, err = store.ResetToSeed(ctx, "ghost")
	require.ErrorIs(t, err, shared.ErrEmployeeNotFound)
}

func TestStore_ImportExportRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc, err := store.ExportSnapshot(ctx, "emp-2")
	require.NoError(t, err)

	imported, err := store.ImportSnapshot(ctx, "emp-1", doc)
	require.NoError(t, err)
	assert.Equal(t, employee.Points(850), imported.Points)

	stored, err := store.Get(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "Дмитрий", stored.Profile.Name)
}

func TestStore_ImportInvalidDocumentLeavesState(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.ImportSnapshot(ctx, "emp-1", []byte(`{"points": 1}`))
	require.Error(t, err)
	require.ErrorIs(t, err, shared.ErrInvalidFormat)

	stored, err := store.Get(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, employee.Points(420), stored.Points)
}

func TestStore_IDsSorted(t *testing.T) {
	store := newTestStore(t)

	ids, err := store.IDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"emp-1", "emp-2"}, ids)
}

func TestStore_AllReturnsClones(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	states, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, states, 2)

	for _, state := range states {
		state.AddPoints(999)
	}

	stored, err := store.Get(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, employee.Points(420), stored.Points)
}

// fakeSnapshotRepo хранит снапшоты в памяти для проверки write-behind и прогрева.
type fakeSnapshotRepo struct {
	mu     sync.Mutex
	states map[string]*employee.State
	loaded map[string]*employee.State

	// failures fails this many Save calls before succeeding.
	failures int
	err      error
}

func (r *fakeSnapshotRepo) Load(ctx context.Context, id string) (*employee.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.states[id]
	if !ok {
		return nil, shared.ErrEmployeeNotFound
	}
	return state.Clone(), nil
}

func (r *fakeSnapshotRepo) Save(ctx context.Context, id string, state *employee.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failures > 0 {
		r.failures--
		return errors.New("transient save failure")
	}
	if r.err != nil {
		return r.err
	}
	if r.states == nil {
		r.states = make(map[string]*employee.State)
	}
	r.states[id] = state.Clone()
	return nil
}

func (r *fakeSnapshotRepo) LoadAll(ctx context.Context) (map[string]*employee.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return r.loaded, nil
}

func TestStore_WarmUpRestoresPersisted(t *testing.T) {
	persisted := newSeedState(t, "emp-1", "Анна", 1200)
	repo := &fakeSnapshotRepo{loaded: map[string]*employee.State{
		"emp-1": persisted,
		"ghost": newSeedState(t, "ghost", "Призрак", 10),
	}}
	store := newTestStore(t, WithSnapshotRepository(repo))
	ctx := context.Background()

	require.NoError(t, store.WarmUp(ctx))

	// Известный ID восстановлен, неизвестный из порта проигнорирован.
	state, err := store.Get(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, employee.Points(1200), state.Points)

	_, err = store.Get(ctx, "ghost")
	require.ErrorIs(t, err, shared.ErrEmployeeNotFound)
}

func TestStore_WarmUpWithoutRepoIsNoOp(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.WarmUp(context.Background()))
}

func TestStore_WarmUpPropagatesLoadFailure(t *testing.T) {
	repo := &fakeSnapshotRepo{err: errors.New("connection refused")}
	store := newTestStore(t, WithSnapshotRepository(repo))

	err := store.WarmUp(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrPersistenceFailed)
}

func TestStore_WriteBehindSavesAfterUpdate(t *testing.T) {
	repo := &fakeSnapshotRepo{}
	store := newTestStore(t, WithSnapshotRepository(repo))
	ctx := context.Background()

	_, err := store.Update(ctx, "emp-1", func(state *employee.State) (*employee.State, error) {
		state.AddPoints(50)
		return state, nil
	})
	require.NoError(t, err)

	// Close дожидается фоновых сохранений.
	store.Close()

	repo.mu.Lock()
	saved := repo.states["emp-1"]
	repo.mu.Unlock()
	require.NotNil(t, saved)
	assert.Equal(t, employee.Points(470), saved.Points)
}

func TestStore_WriteBehindRetriesTransientFailure(t *testing.T) {
	repo := &fakeSnapshotRepo{failures: 1}
	store := newTestStore(t, WithSnapshotRepository(repo))
	ctx := context.Background()

	_, err := store.Update(ctx, "emp-1", func(state *employee.State) (*employee.State, error) {
		state.AddPoints(30)
		return state, nil
	})
	require.NoError(t, err)

	store.Close()

	// Первая попытка сохранения падает, повтор доносит снапшот.
	repo.mu.Lock()
	saved := repo.states["emp-1"]
	repo.mu.Unlock()
	require.NotNil(t, saved)
	assert.Equal(t, employee.Points(450), saved.Points)
}
