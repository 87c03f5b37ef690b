package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBackend = errors.New("backend unavailable")

func failing(ctx context.Context) error { return errBackend }

func succeeding(ctx context.Context) error { return nil }

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb := New("test", WithFailureThreshold(3))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := cb.Execute(ctx, failing)
		require.ErrorIs(t, err, errBackend)
	}
	assert.True(t, cb.IsOpen())

	// Пока цепь открыта, вызовы блокируются без обращения к функции.
	err := cb.Execute(ctx, succeeding)
	require.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreaker_SuccessResetsFailureStreak(t *testing.T) {
	cb := New("test", WithFailureThreshold(3))
	ctx := context.Background()

	require.Error(t, cb.Execute(ctx, failing))
	require.Error(t, cb.Execute(ctx, failing))
	require.NoError(t, cb.Execute(ctx, succeeding))
	require.Error(t, cb.Execute(ctx, failing))
	require.Error(t, cb.Execute(ctx, failing))

	assert.True(t, cb.IsClosed())
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb := New("test",
		WithFailureThreshold(1),
		WithSuccessThreshold(2),
		WithTimeout(10*time.Millisecond),
		WithMaxHalfOpenRequests(5),
	)
	ctx := context.Background()

	require.Error(t, cb.Execute(ctx, failing))
	assert.True(t, cb.IsOpen())

	time.Sleep(20 * time.Millisecond)

	// После таймаута пробные запросы проходят; два успеха закрывают цепь.
	require.NoError(t, cb.Execute(ctx, succeeding))
	assert.Equal(t, StateHalfOpen, cb.State())
	require.NoError(t, cb.Execute(ctx, succeeding))
	assert.True(t, cb.IsClosed())
}

func TestCircuitBreaker_FailureInHalfOpenReopens(t *testing.T) {
	cb := New("test",
		WithFailureThreshold(1),
		WithTimeout(10*time.Millisecond),
	)
	ctx := context.Background()

	require.Error(t, cb.Execute(ctx, failing))
	time.Sleep(20 * time.Millisecond)

	require.Error(t, cb.Execute(ctx, failing))
	assert.True(t, cb.IsOpen())
}

func TestCircuitBreaker_ExecuteWithFallback(t *testing.T) {
	cb := New("test", WithFailureThreshold(1))
	ctx := context.Background()

	require.Error(t, cb.Execute(ctx, failing))
	require.True(t, cb.IsOpen())

	fallbackCalled := false
	err := cb.ExecuteWithFallback(ctx, succeeding, func(err error) error {
		fallbackCalled = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, fallbackCalled)
}

func TestCircuitBreaker_OnStateChange(t *testing.T) {
	transitions := make([]string, 0, 2)
	cb := New("snapshot-store",
		WithFailureThreshold(1),
		WithOnStateChange(func(name string, from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		}),
	)

	require.Error(t, cb.Execute(context.Background(), failing))
	assert.Equal(t, []string{"closed->open"}, transitions)
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb := New("test", WithFailureThreshold(1))
	require.Error(t, cb.Execute(context.Background(), failing))
	require.True(t, cb.IsOpen())

	cb.Reset()
	assert.True(t, cb.IsClosed())
	assert.Equal(t, Counts{}, cb.Counts())
}

func TestCircuitBreaker_CustomIsFailure(t *testing.T) {
	benign := errors.New("not found")
	cb := New("test",
		WithFailureThreshold(1),
		WithIsFailure(func(err error) bool { return !errors.Is(err, benign) }),
	)
	ctx := context.Background()

	// Ошибка, не считающаяся сбоем, не открывает цепь.
	require.ErrorIs(t, cb.Execute(ctx, func(ctx context.Context) error { return benign }), benign)
	assert.True(t, cb.IsClosed())
}
