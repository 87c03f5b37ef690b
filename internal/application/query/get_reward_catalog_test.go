package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zv-rewards/zv-rewards-hub/internal/domain/employee"
	"github.com/zv-rewards/zv-rewards-hub/internal/domain/shared"
)

func catalogFixture() []employee.Reward {
	return []employee.Reward{
		{ID: "coffee", Name: "Кофе с руководителем", Cost: 100, Category: "social"},
		{ID: "day-off", Name: "Дополнительный выходной", Cost: 500, Category: "time"},
	}
}

func TestGetRewardCatalog_WithoutEmployee(t *testing.T) {
	handler := NewGetRewardCatalogHandler(seedStore(t), catalogFixture())

	result, err := handler.Handle(context.Background(), GetRewardCatalogQuery{})
	require.NoError(t, err)

	require.Len(t, result.Rewards, 2)
	assert.Equal(t, "coffee", result.Rewards[0].ID)
	assert.Equal(t, 100, result.Rewards[0].Cost)
	assert.Nil(t, result.Rewards[0].Affordable)
	assert.Nil(t, result.EmployeePoints)
}

func TestGetRewardCatalog_MarksAffordability(t *testing.T) {
	handler := NewGetRewardCatalogHandler(seedStore(t), catalogFixture())

	// У Анны 420 очков: кофе доступен, выходной - нет.
	result, err := handler.Handle(context.Background(), GetRewardCatalogQuery{EmployeeID: "emp-1"})
	require.NoError(t, err)

	require.NotNil(t, result.EmployeePoints)
	assert.Equal(t, 420, *result.EmployeePoints)
	require.NotNil(t, result.Rewards[0].Affordable)
	assert.True(t, *result.Rewards[0].Affordable)
	require.NotNil(t, result.Rewards[1].Affordable)
	assert.False(t, *result.Rewards[1].Affordable)
}

func TestGetRewardCatalog_NilCatalogUsesDefault(t *testing.T) {
	handler := NewGetRewardCatalogHandler(seedStore(t), nil)

	result, err := handler.Handle(context.Background(), GetRewardCatalogQuery{})
	require.NoError(t, err)

	assert.NotEmpty(t, result.Rewards)
}

func TestGetRewardCatalog_UnknownEmployee(t *testing.T) {
	handler := NewGetRewardCatalogHandler(seedStore(t), catalogFixture())

	_, err := handler.Handle(context.Background(), GetRewardCatalogQuery{EmployeeID: "ghost"})
	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
}
