package query

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zv-rewards/zv-rewards-hub/internal/domain/employee"
	"github.com/zv-rewards/zv-rewards-hub/internal/infrastructure/persistence/memory"
)

func seedEmployee(t *testing.T, id, name string, points employee.Points) *employee.State {
	t.Helper()
	state, err := employee.NewState(employee.NewStateParams{
		ID:      id,
		Profile: employee.Profile{Name: name, Role: "engineer"},
		Points:  points,
	})
	require.NoError(t, err)
	return state
}

func seedStore(t *testing.T) *memory.Store {
	t.Helper()
	return memory.NewStore([]*employee.State{
		seedEmployee(t, "emp-1", "Анна", 420),
		seedEmployee(t, "emp-2", "Дмитрий", 850),
		seedEmployee(t, "emp-3", "Мария", 310),
	})
}
