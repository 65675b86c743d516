package jobs_test

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/eartune/internal/jobs"
	"github.com/vytor/eartune/internal/testutil/mocks"
	"github.com/vytor/eartune/internal/worker"
)

func TestStreakSweepJob_UsesYesterdayAsCutoff(t *testing.T) {
	profiles := new(mocks.MockProfileRepository)
	now := time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC)
	cutoff := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	job := &jobs.StreakSweepJob{Profiles: profiles, Now: func() time.Time { return now }}

	profiles.On("LapsedStreaks", mock.Anything, cutoff).Return([]int64{3, 8}, nil)
	profiles.On("ResetStreak", mock.Anything, int64(3), cutoff, now).Return(true, nil)
	profiles.On("ResetStreak", mock.Anything, int64(8), cutoff, now).Return(false, nil)

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, "streak_sweep", job.Name())
	profiles.AssertExpectations(t)
}

func TestStreakSweepJob_HonoursLocation(t *testing.T) {
	profiles := new(mocks.MockProfileRepository)
	// Already March 11th in UTC+2.
	now := time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC)
	job := &jobs.StreakSweepJob{
		Profiles: profiles,
		Location: time.FixedZone("EET", 2*60*60),
		Now:      func() time.Time { return now },
	}

	profiles.On("LapsedStreaks", mock.Anything, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)).Return([]int64{}, nil)

	require.NoError(t, job.Run(context.Background()))
	profiles.AssertExpectations(t)
	profiles.AssertNotCalled(t, "ResetStreak", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

type recordingLocker struct {
	mu     sync.Mutex
	held   map[int64]bool
	locked []int64
}

func (l *recordingLocker) Lock(userID int64) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.held[userID] = true
	l.locked = append(l.locked, userID)
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, userID)
	}
}

func (l *recordingLocker) isHeld(userID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held[userID]
}

func TestStreakSweepJob_ResetsUnderUserLock(t *testing.T) {
	profiles := new(mocks.MockProfileRepository)
	locks := &recordingLocker{held: map[int64]bool{}}
	job := &jobs.StreakSweepJob{Profiles: profiles, Locks: locks}

	profiles.On("LapsedStreaks", mock.Anything, mock.Anything).Return([]int64{5, 9}, nil)
	for _, id := range []int64{5, 9} {
		userID := id
		profiles.On("ResetStreak", mock.Anything, userID, mock.Anything, mock.Anything).
			Run(func(mock.Arguments) {
				assert.True(t, locks.isHeld(userID), "user %d reset without its lock", userID)
			}).
			Return(true, nil)
	}

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, []int64{5, 9}, locks.locked)
	assert.False(t, locks.isHeld(5))
	assert.False(t, locks.isHeld(9))
	profiles.AssertExpectations(t)
}

func TestStreakSweepJob_PropagatesErrors(t *testing.T) {
	profiles := new(mocks.MockProfileRepository)
	job := &jobs.StreakSweepJob{Profiles: profiles}

	profiles.On("LapsedStreaks", mock.Anything, mock.Anything).Return(nil, stderrors.New("disk I/O error"))

	assert.Error(t, job.Run(context.Background()))
}

func TestStreakSweepJob_StopsOnResetError(t *testing.T) {
	profiles := new(mocks.MockProfileRepository)
	job := &jobs.StreakSweepJob{Profiles: profiles}

	profiles.On("LapsedStreaks", mock.Anything, mock.Anything).Return([]int64{1, 2}, nil)
	profiles.On("ResetStreak", mock.Anything, int64(1), mock.Anything, mock.Anything).Return(false, stderrors.New("database is locked"))

	assert.ErrorContains(t, job.Run(context.Background()), "database is locked")
	profiles.AssertNotCalled(t, "ResetStreak", mock.Anything, int64(2), mock.Anything, mock.Anything)
}

type signalJob struct {
	done chan struct{}
}

func (j *signalJob) Name() string { return "signal" }

func (j *signalJob) Run(context.Context) error {
	close(j.done)
	return nil
}

func TestScheduler_TriggerRunsOnPool(t *testing.T) {
	pool := worker.NewPool(1, 2)
	pool.Start(context.Background())
	defer pool.Stop()

	s := jobs.NewScheduler(pool, time.UTC)
	job := &signalJob{done: make(chan struct{})}
	s.Trigger(job)

	select {
	case <-job.done:
	case <-time.After(2 * time.Second):
		t.Fatal("triggered job did not run")
	}
}

func TestScheduler_Add(t *testing.T) {
	s := jobs.NewScheduler(worker.NewPool(1, 1), time.UTC)

	require.NoError(t, s.Add("5 0 * * *", &signalJob{done: make(chan struct{})}))
	assert.Error(t, s.Add("not a schedule", &signalJob{done: make(chan struct{})}))

	s.Start()
	defer s.Stop(context.Background())

	next := s.Next()
	require.Len(t, next, 1)
	assert.Equal(t, 0, next[0].Hour())
	assert.Equal(t, 5, next[0].Minute())
}
