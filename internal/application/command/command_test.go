package command

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zv-rewards/zv-rewards-hub/internal/domain/employee"
	"github.com/zv-rewards/zv-rewards-hub/internal/domain/shared"
	"github.com/zv-rewards/zv-rewards-hub/internal/infrastructure/persistence/memory"
)

// capturePublisher collects published events for assertions.
type capturePublisher struct {
	mu     sync.Mutex
	events []shared.Event
}

func (p *capturePublisher) Publish(event shared.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) Types() []shared.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]shared.EventType, len(p.events))
	for i, e := range p.events {
		types[i] = e.EventType()
	}
	return types
}

func (p *capturePublisher) Has(eventType shared.EventType) bool {
	for _, t := range p.Types() {
		if t == eventType {
			return true
		}
	}
	return false
}

// newTestStore builds a memory-only store with a single employee carrying
// one near-complete challenge.
func newTestStore(t *testing.T, points employee.Points) (*memory.Store, string, string) {
	t.Helper()

	challenge, err := employee.NewChallenge("ch-1", "Шесть ревью", "", employee.KPICollaboration, 120, 2)
	require.NoError(t, err)

	state, err := employee.NewState(employee.NewStateParams{
		ID:         "emp-1",
		Profile:    employee.Profile{Name: "Анна Ковалёва", Role: "designer"},
		Points:     points,
		Challenges: []employee.Challenge{challenge},
	})
	require.NoError(t, err)

	return memory.NewStore([]*employee.State{state}), state.ID, challenge.ID
}

// newSingleStateStore wraps a prepared state in a memory-only store.
func newSingleStateStore(state *employee.State) *memory.Store {
	return memory.NewStore([]*employee.State{state})
}
