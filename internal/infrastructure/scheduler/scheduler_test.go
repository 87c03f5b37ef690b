package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingJob считает запуски и возвращает заданную ошибку.
type countingJob struct {
	name string
	runs atomic.Int64
	err  error
}

func (j *countingJob) Name() string        { return j.name }
func (j *countingJob) Description() string { return "test job" }

func (j *countingJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	return j.err
}

func TestIntervalSchedule_Next(t *testing.T) {
	schedule := NewIntervalSchedule(10 * time.Minute)
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.Add(10*time.Minute), schedule.Next(now))
	assert.Equal(t, "@every 10m0s", schedule.String())
}

func TestScheduler_RegisterValidation(t *testing.T) {
	s := NewScheduler(Config{})

	require.ErrorIs(t, s.Register(nil, NewIntervalSchedule(time.Minute)), ErrNilJob)
	require.ErrorIs(t, s.Register(&countingJob{name: "a"}, nil), ErrNilSchedule)

	require.NoError(t, s.Register(&countingJob{name: "a"}, NewIntervalSchedule(time.Minute)))
	err := s.Register(&countingJob{name: "a"}, NewIntervalSchedule(time.Minute))
	require.ErrorIs(t, err, ErrDuplicateJob)
}

func TestScheduler_RunNow(t *testing.T) {
	s := NewScheduler(Config{})
	job := &countingJob{name: "rebuild"}
	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))

	result, err := s.RunNow(context.Background(), "rebuild")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "rebuild", result.JobName)
	assert.Equal(t, int64(1), job.runs.Load())

	last, ok := s.LastRun("rebuild")
	require.True(t, ok)
	assert.True(t, last.Success)
}

func TestScheduler_RunNowRecordsFailure(t *testing.T) {
	s := NewScheduler(Config{})
	job := &countingJob{name: "flush", err: errors.New("storage down")}
	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))

	result, err := s.RunNow(context.Background(), "flush")
	require.NoError(t, err)
	assert.False(t, result.Success)
	require.Error(t, result.Error)

	last, ok := s.LastRun("flush")
	require.True(t, ok)
	assert.False(t, last.Success)
}

func TestScheduler_RunNowUnknownJob(t *testing.T) {
	s := NewScheduler(Config{})

	_, err := s.RunNow(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrJobNotFound)
}

func TestScheduler_LastRunUnknownJob(t *testing.T) {
	s := NewScheduler(Config{})

	_, ok := s.LastRun("ghost")
	assert.False(t, ok)
}

func TestScheduler_StartTwice(t *testing.T) {
	s := NewScheduler(Config{Tick: 50 * time.Millisecond})
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	require.ErrorIs(t, s.Start(context.Background()), ErrAlreadyRunning)
}

func TestScheduler_RunsDueJobs(t *testing.T) {
	s := NewScheduler(Config{Tick: 10 * time.Millisecond})
	job := &countingJob{name: "periodic"}
	require.NoError(t, s.Register(job, NewIntervalSchedule(20*time.Millisecond)))

	require.NoError(t, s.Start(context.Background()))

	deadline := time.Now().Add(2 * time.Second)
	for job.runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	s.Stop()

	assert.GreaterOrEqual(t, job.runs.Load(), int64(1))
}

func TestScheduler_StopIsIdempotent(t *testing.T) {
	s := NewScheduler(Config{Tick: 50 * time.Millisecond})
	require.NoError(t, s.Start(context.Background()))

	s.Stop()
	s.Stop()
}
