package leaderboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zv-rewards/zv-rewards-hub/internal/domain/employee"
)

func mkState(t *testing.T, id, name string, points employee.Points) *employee.State {
	t.Helper()
	state, err := employee.NewState(employee.NewStateParams{
		ID:      id,
		Profile: employee.Profile{Name: name},
		Points:  points,
	})
	require.NoError(t, err)
	return state
}

func TestNewRanking_Ordering(t *testing.T) {
	states := []*employee.State{
		mkState(t, "emp-1", "Анна", 420),
		mkState(t, "emp-2", "Дмитрий", 850),
		mkState(t, "emp-3", "Мария", 310),
	}

	ranking := NewRanking(states)
	require.Equal(t, 3, ranking.Len())

	entries := ranking.All()
	assert.Equal(t, "emp-2", entries[0].EmployeeID)
	assert.Equal(t, Rank(1), entries[0].Rank)
	assert.Equal(t, "emp-1", entries[1].EmployeeID)
	assert.Equal(t, "emp-3", entries[2].EmployeeID)
	assert.Equal(t, Rank(3), entries[2].Rank)
}

func TestNewRanking_TieBreaks(t *testing.T) {
	// Equal points: name ascending, then ID ascending
	states := []*employee.State{
		mkState(t, "emp-9", "Борис", 500),
		mkState(t, "emp-2", "Алия", 500),
		mkState(t, "emp-1", "Борис", 500),
	}

	ranking := NewRanking(states)
	entries := ranking.All()

	assert.Equal(t, "emp-2", entries[0].EmployeeID) // Алия before Борис
	assert.Equal(t, "emp-1", entries[1].EmployeeID) // same name, lower ID first
	assert.Equal(t, "emp-9", entries[2].EmployeeID)
}

func TestNewRanking_SkipsNilStates(t *testing.T) {
	ranking := NewRanking([]*employee.State{nil, mkState(t, "emp-1", "Анна", 100), nil})
	assert.Equal(t, 1, ranking.Len())
}

func TestRanking_TopAndLookup(t *testing.T) {
	ranking := NewRanking([]*employee.State{
		mkState(t, "emp-1", "Анна", 420),
		mkState(t, "emp-2", "Дмитрий", 850),
	})

	top := ranking.Top(1)
	require.Len(t, top, 1)
	assert.Equal(t, "emp-2", top[0].EmployeeID)

	assert.Len(t, ranking.Top(10), 2)
	assert.Nil(t, ranking.Top(0))

	assert.Equal(t, Rank(2), ranking.GetRank("emp-1"))
	assert.Equal(t, Rank(0), ranking.GetRank("ghost"))
	assert.Nil(t, ranking.GetByID("ghost"))
}

func TestRanking_ApplyPrevious(t *testing.T) {
	previous := NewRanking([]*employee.State{
		mkState(t, "emp-1", "Анна", 900),
		mkState(t, "emp-2", "Дмитрий", 850),
	})

	current := NewRanking([]*employee.State{
		mkState(t, "emp-1", "Анна", 900),
		mkState(t, "emp-2", "Дмитрий", 950),
		mkState(t, "emp-3", "Мария", 100),
	})
	current.ApplyPrevious(previous)

	dmitry := current.GetByID("emp-2")
	assert.Equal(t, RankChange(1), dmitry.RankChange)
	assert.Equal(t, RankDirectionUp, dmitry.Direction())

	anna := current.GetByID("emp-1")
	assert.Equal(t, RankChange(-1), anna.RankChange)
	assert.Equal(t, RankDirectionDown, anna.Direction())

	maria := current.GetByID("emp-3")
	assert.True(t, maria.IsNew)
}

func TestRanking_ApplyPreviousNilMarksAllNew(t *testing.T) {
	current := NewRanking([]*employee.State{mkState(t, "emp-1", "Анна", 1)})
	current.ApplyPrevious(nil)
	assert.True(t, current.GetByID("emp-1").IsNew)
}

func TestRankChange(t *testing.T) {
	assert.Equal(t, RankDirectionUp, RankChange(2).Direction())
	assert.Equal(t, RankDirectionDown, RankChange(-1).Direction())
	assert.Equal(t, RankDirectionStable, RankChange(0).Direction())
	assert.Equal(t, 3, RankChange(-3).Abs())
}
