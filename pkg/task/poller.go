// Package task polls asynchronous backend tasks until they finish.
package task

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aura-platform/aura-cli/pkg/api"
)

const (
	// DefaultInterval is the pause between status queries.
	DefaultInterval = time.Second

	// DefaultMaxAttempts bounds the number of status queries.
	DefaultMaxAttempts = 60
)

// StatusFunc queries the current status of a task. (*api.Client).GetTaskStatus
// satisfies it.
type StatusFunc func(ctx context.Context, taskID string) (*api.TaskStatus, error)

// Options tunes a single Await call. The zero value uses the defaults.
type Options struct {
	// Interval is the pause between status queries. Zero uses
	// DefaultInterval; negative polls without pausing.
	Interval time.Duration

	// MaxAttempts bounds the number of status queries before giving up.
	MaxAttempts int

	// OnProgress, when set, is invoked with every successfully fetched
	// status, terminal ones included.
	OnProgress func(status *api.TaskStatus)

	// Log, when set, records each poll at debug level.
	Log logrus.FieldLogger
}

// TimeoutError is returned when the attempt budget is exhausted without the
// task reaching a terminal status.
type TimeoutError struct {
	TaskID   string
	Attempts int
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("task %s did not reach a terminal status after %d attempts", e.TaskID, e.Attempts)
}

// Await polls fn until the task reaches a terminal status (completed or
// failed), the attempt budget is exhausted, or ctx is cancelled. A failed
// task is a legitimate outcome and is returned without an error; transient
// query errors are tolerated and only the last one is surfaced once the
// budget runs out. Each call owns its own attempt counter and timer, so
// concurrent Awaits for different tasks do not interfere.
func Await(ctx context.Context, fn StatusFunc, taskID string, opts Options) (*api.TaskStatus, error) {
	if taskID == "" {
		return nil, fmt.Errorf("task id must not be empty")
	}

	interval := opts.Interval
	if interval == 0 {
		interval = DefaultInterval
	}

	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		status, err := fn(ctx, taskID)
		if err != nil {
			lastErr = err

			if opts.Log != nil {
				opts.Log.WithError(err).WithFields(logrus.Fields{
					"task_id": taskID,
					"attempt": attempt,
				}).Debug("Status query failed, will retry")
			}
		} else {
			lastErr = nil

			if opts.OnProgress != nil {
				opts.OnProgress(status)
			}

			if status.Status.Terminal() {
				return status, nil
			}

			if opts.Log != nil {
				opts.Log.WithFields(logrus.Fields{
					"task_id": taskID,
					"attempt": attempt,
					"status":  status.Status,
				}).Debug("Task not finished yet")
			}
		}

		if attempt == maxAttempts {
			break
		}

		if err := wait(ctx, interval); err != nil {
			return nil, err
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("task %s: %d attempts exhausted: %w", taskID, maxAttempts, lastErr)
	}

	return nil, &TimeoutError{TaskID: taskID, Attempts: maxAttempts}
}

// wait sleeps for the interval or returns early when ctx is cancelled.
func wait(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
