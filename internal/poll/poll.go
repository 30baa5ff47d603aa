// internal/poll/poll.go
package poll

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultInterval is used when a caller passes a non-positive poll interval.
const DefaultInterval = 500 * time.Millisecond

// Outcome discriminates the three branches of a Result.
type Outcome int

const (
	// Success means the condition held before the deadline.
	Success Outcome = iota
	// TimedOut means the deadline passed without the condition holding.
	TimedOut
	// Errored means the check failed with a non-transient error or ctx ended.
	Errored
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case TimedOut:
		return "timed_out"
	case Errored:
		return "error"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is produced by every bounded wait. Value is only meaningful for Success
// and Err only for Errored.
type Result[T any] struct {
	Outcome  Outcome
	Value    T
	Err      error
	Attempts int
	Elapsed  time.Duration
}

func (r Result[T]) Ok() bool { return r.Outcome == Success }

// Predicate inspects browser state once. Returning ok == false means "not yet".
type Predicate[T any] func(ctx context.Context) (value T, ok bool, err error)

// Option tunes a single Poll call.
type Option func(*options)

type options struct {
	transient func(error) bool
	onAttempt func(attempt int, err error)
}

// WithTransient sets the classifier for errors that count as "not yet" rather than failure.
func WithTransient(fn func(error) bool) Option {
	return func(o *options) { o.transient = fn }
}

// WithAttemptHook is called after every evaluation that did not succeed.
func WithAttemptHook(fn func(attempt int, err error)) Option {
	return func(o *options) { o.onAttempt = fn }
}

// Poll evaluates pred until it reports ok, the timeout elapses, or pred returns an
// error the transient classifier does not absorb.
//
// The deadline is computed once from the monotonic clock. Sleeps are clipped to it,
// so Poll returns within timeout plus one interval even when pred never succeeds.
// The predicate runs under a context that expires at that same bound, which keeps
// a slow driver call from stretching the wait.
func Poll[T any](ctx context.Context, timeout, interval time.Duration, pred Predicate[T], opts ...Option) Result[T] {
	o := options{transient: func(error) bool { return false }}
	for _, opt := range opts {
		opt(&o)
	}
	if interval <= 0 {
		interval = DefaultInterval
	}

	start := time.Now()
	deadline := start.Add(timeout)

	predCtx, cancel := context.WithDeadline(ctx, deadline.Add(interval))
	defer cancel()

	var res Result[T]
	for {
		res.Attempts++
		value, ok, err := pred(predCtx)

		switch {
		case err != nil && ctx.Err() != nil:
			// The caller cancelled; report that rather than whatever the driver said.
			res.Outcome, res.Err = Errored, ctx.Err()
			res.Elapsed = time.Since(start)
			return res
		case err != nil && errors.Is(err, context.DeadlineExceeded) && predCtx.Err() != nil:
			// Our own hard bound cut the predicate short.
			res.Outcome = TimedOut
			res.Elapsed = time.Since(start)
			return res
		case err != nil && !o.transient(err):
			res.Outcome, res.Err = Errored, err
			res.Elapsed = time.Since(start)
			return res
		case err == nil && ok:
			res.Outcome, res.Value = Success, value
			res.Elapsed = time.Since(start)
			return res
		}

		if o.onAttempt != nil {
			o.onAttempt(res.Attempts, err)
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			res.Outcome = TimedOut
			res.Elapsed = time.Since(start)
			return res
		}

		wait := interval
		if remaining < wait {
			wait = remaining
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			res.Outcome, res.Err = Errored, ctx.Err()
			res.Elapsed = time.Since(start)
			return res
		case <-timer.C:
		}
	}
}

// Until is Poll for boolean conditions.
func Until(ctx context.Context, timeout, interval time.Duration, cond func(ctx context.Context) (bool, error), opts ...Option) Result[bool] {
	return Poll(ctx, timeout, interval, func(ctx context.Context) (bool, bool, error) {
		ok, err := cond(ctx)
		return ok, ok, err
	}, opts...)
}

// Sleep waits for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
