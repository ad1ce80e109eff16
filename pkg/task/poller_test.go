package task

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aura-platform/aura-cli/pkg/api"
)

// scriptedStatus returns a StatusFunc that replays the given outcomes in
// order, then repeats the last one.
func scriptedStatus(t *testing.T, outcomes ...any) (StatusFunc, *int) {
	t.Helper()

	calls := 0

	fn := func(_ context.Context, taskID string) (*api.TaskStatus, error) {
		idx := calls
		if idx >= len(outcomes) {
			idx = len(outcomes) - 1
		}

		calls++

		switch v := outcomes[idx].(type) {
		case api.TaskState:
			return &api.TaskStatus{TaskID: taskID, Status: v}, nil
		case error:
			return nil, v
		default:
			t.Fatalf("unexpected outcome type %T", v)

			return nil, nil
		}
	}

	return fn, &calls
}

func TestAwaitReturnsCompleted(t *testing.T) {
	fn, calls := scriptedStatus(t,
		api.TaskStatePending,
		api.TaskStateInProgress,
		api.TaskStateCompleted,
	)

	var seen []api.TaskState

	status, err := Await(context.Background(), fn, "t1", Options{
		Interval:    -1,
		MaxAttempts: 10,
		OnProgress:  func(st *api.TaskStatus) { seen = append(seen, st.Status) },
	})

	require.NoError(t, err)
	assert.Equal(t, api.TaskStateCompleted, status.Status)
	assert.Equal(t, 3, *calls, "polling must stop at the first terminal status")
	assert.Equal(t, []api.TaskState{
		api.TaskStatePending,
		api.TaskStateInProgress,
		api.TaskStateCompleted,
	}, seen)
}

func TestAwaitReturnsFailedWithoutError(t *testing.T) {
	fn, calls := scriptedStatus(t, api.TaskStatePending, api.TaskStateFailed)

	status, err := Await(context.Background(), fn, "t1", Options{Interval: -1, MaxAttempts: 10})

	require.NoError(t, err, "a failed task is a legitimate terminal outcome")
	assert.Equal(t, api.TaskStateFailed, status.Status)
	assert.Equal(t, 2, *calls)
}

func TestAwaitTimesOutAfterBudget(t *testing.T) {
	fn, calls := scriptedStatus(t, api.TaskStatePending)

	progressCalls := 0

	status, err := Await(context.Background(), fn, "t1", Options{
		Interval:    -1,
		MaxAttempts: 3,
		OnProgress:  func(*api.TaskStatus) { progressCalls++ },
	})

	require.Error(t, err)
	assert.Nil(t, status)
	assert.Equal(t, 3, *calls)
	assert.Equal(t, 3, progressCalls)

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, 3, timeoutErr.Attempts)
	assert.Contains(t, err.Error(), "3 attempts")
}

func TestAwaitToleratesTransientErrors(t *testing.T) {
	fn, calls := scriptedStatus(t,
		errors.New("connection reset"),
		errors.New("connection reset"),
		api.TaskStateCompleted,
	)

	status, err := Await(context.Background(), fn, "t1", Options{Interval: -1, MaxAttempts: 5})

	require.NoError(t, err, "transient errors within the budget must not surface")
	assert.Equal(t, api.TaskStateCompleted, status.Status)
	assert.Equal(t, 3, *calls)
}

func TestAwaitPropagatesLastErrorOnExhaustion(t *testing.T) {
	cause := errors.New("backend unreachable")
	fn, calls := scriptedStatus(t, cause)

	status, err := Await(context.Background(), fn, "t1", Options{Interval: -1, MaxAttempts: 4})

	require.Error(t, err)
	assert.Nil(t, status)
	assert.Equal(t, 4, *calls)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "4 attempts")
}

func TestAwaitStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	fn := func(context.Context, string) (*api.TaskStatus, error) {
		cancel()

		return &api.TaskStatus{Status: api.TaskStatePending}, nil
	}

	start := time.Now()

	status, err := Await(ctx, fn, "t1", Options{Interval: time.Hour, MaxAttempts: 10})

	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, status)
	assert.Less(t, time.Since(start), time.Second, "cancellation must not wait out the interval")
}

func TestAwaitRejectsEmptyTaskID(t *testing.T) {
	fn, calls := scriptedStatus(t, api.TaskStateCompleted)

	_, err := Await(context.Background(), fn, "", Options{})

	require.Error(t, err)
	assert.Equal(t, 0, *calls)
}

func TestAwaitConcurrentPollsAreIndependent(t *testing.T) {
	// Two tasks polled concurrently must not share attempt counters.
	results := make(chan error, 2)

	for i := 0; i < 2; i++ {
		taskID := fmt.Sprintf("t%d", i)

		go func() {
			fn, _ := scriptedStatus(t, api.TaskStatePending, api.TaskStatePending, api.TaskStateCompleted)

			_, err := Await(context.Background(), fn, taskID, Options{Interval: -1, MaxAttempts: 3})
			results <- err
		}()
	}

	for i := 0; i < 2; i++ {
		assert.NoError(t, <-results)
	}
}
