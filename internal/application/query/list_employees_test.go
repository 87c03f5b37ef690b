package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zv-rewards/zv-rewards-hub/internal/infrastructure/persistence/memory"
)

func TestListEmployees_SortsByName(t *testing.T) {
	handler := NewListEmployeesHandler(seedStore(t))

	result, err := handler.Handle(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Employees, 3)
	assert.Equal(t, 3, result.TotalCount)
	assert.Equal(t, "Анна", result.Employees[0].Name)
	assert.Equal(t, "Дмитрий", result.Employees[1].Name)
	assert.Equal(t, "Мария", result.Employees[2].Name)
	assert.Equal(t, 420, result.Employees[0].Points)
	assert.Equal(t, 2, result.Employees[1].Level)
}

func TestListEmployees_EmptyStore(t *testing.T) {
	handler := NewListEmployeesHandler(memory.NewStore(nil))

	result, err := handler.Handle(context.Background())
	require.NoError(t, err)

	assert.Empty(t, result.Employees)
	assert.Equal(t, 0, result.TotalCount)
}
