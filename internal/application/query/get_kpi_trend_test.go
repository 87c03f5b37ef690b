package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zv-rewards/zv-rewards-hub/internal/domain/employee"
	"github.com/zv-rewards/zv-rewards-hub/internal/domain/shared"
)

func TestGetKPITrend_AllKeys(t *testing.T) {
	store := seedStore(t)
	handler := NewGetKPITrendHandler(store)
	ctx := context.Background()

	_, err := store.Update(ctx, "emp-1", func(state *employee.State) (*employee.State, error) {
		state.AdjustKPI(employee.KPIProductivity, 10)
		state.PushKPISnapshot(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
		state.AdjustKPI(employee.KPIProductivity, 5)
		state.PushKPISnapshot(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
		return state, nil
	})
	require.NoError(t, err)

	result, err := handler.Handle(ctx, GetKPITrendQuery{EmployeeID: "emp-1"})
	require.NoError(t, err)

	assert.Equal(t, "emp-1", result.EmployeeID)
	assert.Empty(t, result.Key)
	require.Len(t, result.Points, 2)
	assert.Equal(t, 60, result.Points[0].Values[string(employee.KPIProductivity)])
	assert.Equal(t, 65, result.Points[1].Values[string(employee.KPIProductivity)])
	// Без фильтра в каждой точке все шесть индикаторов.
	assert.Len(t, result.Points[0].Values, 6)
	assert.Equal(t, 65, result.Current[string(employee.KPIProductivity)])
	assert.Len(t, result.Current, 6)
}

func TestGetKPITrend_SingleKeyFilter(t *testing.T) {
	store := seedStore(t)
	handler := NewGetKPITrendHandler(store)
	ctx := context.Background()

	_, err := store.Update(ctx, "emp-1", func(state *employee.State) (*employee.State, error) {
		state.AdjustKPI(employee.KPIWellbeing, -7)
		state.PushKPISnapshot(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
		return state, nil
	})
	require.NoError(t, err)

	result, err := handler.Handle(ctx, GetKPITrendQuery{
		EmployeeID: "emp-1",
		Key:        string(employee.KPIWellbeing),
	})
	require.NoError(t, err)

	require.Len(t, result.Points, 1)
	assert.Len(t, result.Points[0].Values, 1)
	assert.Equal(t, 43, result.Points[0].Values[string(employee.KPIWellbeing)])
	assert.Len(t, result.Current, 1)
}

func TestGetKPITrend_EmptyHistory(t *testing.T) {
	handler := NewGetKPITrendHandler(seedStore(t))

	result, err := handler.Handle(context.Background(), GetKPITrendQuery{EmployeeID: "emp-2"})
	require.NoError(t, err)

	assert.Empty(t, result.Points)
	assert.Len(t, result.Current, 6)
}

func TestGetKPITrend_UnknownKey(t *testing.T) {
	handler := NewGetKPITrendHandler(seedStore(t))

	_, err := handler.Handle(context.Background(), GetKPITrendQuery{
		EmployeeID: "emp-1",
		Key:        "charisma",
	})
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
}

func TestGetKPITrend_UnknownEmployee(t *testing.T) {
	handler := NewGetKPITrendHandler(seedStore(t))

	_, err := handler.Handle(context.Background(), GetKPITrendQuery{EmployeeID: "ghost"})
	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
}
