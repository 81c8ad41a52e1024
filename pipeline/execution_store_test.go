package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockTimeProvider struct {
	currentTime time.Time
}

func (mtp *mockTimeProvider) Now() time.Time {
	return mtp.currentTime
}

func (mtp *mockTimeProvider) Add(d time.Duration) {
	mtp.currentTime = mtp.currentTime.Add(d)
}

func useMockTime(t *testing.T) *mockTimeProvider {
	t.Helper()
	mtp := &mockTimeProvider{currentTime: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	timeProvider = mtp
	t.Cleanup(func() { timeProvider = &realTimeProvider{} })
	return mtp
}

func TestExecutionLifecycle(t *testing.T) {
	tests := []struct {
		name       string
		stepErr    error
		wantStatus ExecutionStatus
		wantMsg    string
	}{
		{name: "success", wantStatus: StatusSucceeded},
		{name: "failure", stepErr: errors.New("backend down"), wantStatus: StatusFailed, wantMsg: "backend down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mtp := useMockTime(t)
			store := NewExecutionStore()

			run, err := store.Begin("Auth", "auth")
			require.NoError(t, err)
			assert.Equal(t, StatusRunning, run.Status)
			assert.Equal(t, mtp.Now(), run.StartTime)
			assert.Zero(t, run.Duration())

			mtp.Add(1500 * time.Millisecond)
			require.NoError(t, run.Finish(tt.stepErr))

			assert.Equal(t, tt.wantStatus, run.Status)
			assert.Equal(t, tt.wantMsg, run.ErrorMessage)
			assert.Equal(t, 1500*time.Millisecond, run.Duration())
			assert.Equal(t, []*ExecutionResult{run}, store.Executions())
		})
	}
}

func TestExecutionCannotFinishTwice(t *testing.T) {
	useMockTime(t)
	store := NewExecutionStore()

	run, err := store.Begin("Domain", "domain")
	require.NoError(t, err)
	require.NoError(t, run.Finish(nil))

	assert.Error(t, run.Finish(nil))
	assert.Error(t, run.Finish(errors.New("late failure")))
	assert.Equal(t, StatusSucceeded, run.Status)
	assert.Empty(t, run.ErrorMessage)
}

func TestExecutionCannotStartTwice(t *testing.T) {
	useMockTime(t)
	store := NewExecutionStore()

	run, err := store.Begin("Domain", "domain")
	require.NoError(t, err)
	assert.Error(t, run.Start())
}

func TestExecutionStoreOrderAndCounts(t *testing.T) {
	useMockTime(t)
	store := NewExecutionStore()

	names := []string{"Domain", "Auth", "Users List", "Register User"}
	for i, name := range names {
		run, err := store.Begin(name, name)
		require.NoError(t, err)
		var stepErr error
		if i == 3 {
			stepErr = errors.New("no user selected")
		}
		require.NoError(t, run.Finish(stepErr))
	}

	all := store.Executions()
	require.Len(t, all, 4)
	for i, run := range all {
		assert.Equal(t, names[i], run.StepID)
	}

	recent := store.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "Users List", recent[0].StepID)
	assert.Equal(t, "Register User", recent[1].StepID)
	assert.Nil(t, store.Recent(0))
	assert.Len(t, store.Recent(10), 4)

	succeeded, failed := store.Counts()
	assert.Equal(t, 3, succeeded)
	assert.Equal(t, 1, failed)

	// the returned slice is a copy
	all[0] = nil
	assert.NotNil(t, store.Executions()[0])
}

func TestExecutionStoreReset(t *testing.T) {
	useMockTime(t)
	store := NewExecutionStore()
	_, err := store.Begin("Domain", "domain")
	require.NoError(t, err)

	store.Reset()

	assert.Empty(t, store.Executions())
	succeeded, failed := store.Counts()
	assert.Zero(t, succeeded)
	assert.Zero(t, failed)
}
