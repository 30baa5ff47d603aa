// internal/interact/gate.go
package interact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/storefront-e2e/internal/poll"
	"github.com/xkilldash9x/storefront-e2e/internal/webdriver"
)

// Condition is an observable effect of an action, e.g. "the cart badge reads 1".
type Condition func(ctx context.Context) (bool, error)

// Action is a state-changing step whose effect must be verified.
type Action struct {
	Name string
	// Perform does the interaction, usually a Clicker.Click.
	Perform func(ctx context.Context) error
	Effect  Condition
	// Fallback, when set, mutates page state directly. It runs at most once,
	// after every attempt failed to confirm.
	Fallback func(ctx context.Context) error

	MaxAttempts    int
	ConfirmTimeout time.Duration
	RetryDelay     time.Duration
}

// ActionAttempt drives one pass of the retry loop.
type ActionAttempt struct {
	Number          int
	Max             int
	DelayBeforeNext time.Duration
}

func (a ActionAttempt) Last() bool { return a.Number >= a.Max }

// ActionReport describes how an action was eventually confirmed.
type ActionReport struct {
	Attempts        int
	FallbackApplied bool
	Elapsed         time.Duration
}

// Gate verifies that actions had their intended effect.
type Gate struct {
	timing Timing
	logger *zap.Logger
}

// NewGate builds a Gate bounded by the attempts and timeouts in timing.
func NewGate(timing Timing, logger *zap.Logger) *Gate {
	return &Gate{timing: timing, logger: logger.Named("gate")}
}

// ConfirmEffect polls cond until it holds or timeout elapses. It returns true only
// if cond itself returned true during this call. Transient lookup errors count as
// false; any other error is returned.
func (g *Gate) ConfirmEffect(ctx context.Context, cond Condition, timeout time.Duration) (bool, error) {
	if cond == nil {
		return false, fmt.Errorf("confirm effect: nil condition")
	}
	if timeout <= 0 {
		timeout = g.timing.ConfirmTimeout
	}

	res := poll.Until(ctx, timeout, g.timing.PollInterval, cond, poll.WithTransient(webdriver.IsTransient))
	switch res.Outcome {
	case poll.Success:
		return true, nil
	case poll.TimedOut:
		return false, nil
	default:
		return false, res.Err
	}
}

// Run performs a, confirming its effect after every attempt.
//
//	Attempt(n) -> confirmed                      : done
//	Attempt(n) -> not confirmed, n < max         : wait, Attempt(n+1)
//	Attempt(max) -> not confirmed, fallback set  : fallback once, confirm once more
//	otherwise                                    : ActionNotConfirmedError
//
// An ElementNotReadyError from Perform counts as a failed attempt. Any other
// Perform error is returned straight away.
func (g *Gate) Run(ctx context.Context, a Action) (ActionReport, error) {
	if a.Perform == nil || a.Effect == nil {
		return ActionReport{}, fmt.Errorf("action %q needs both Perform and Effect", a.Name)
	}
	maxAttempts := a.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = g.timing.ConfirmAttempts
	}
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	delay := a.RetryDelay
	if delay <= 0 {
		delay = g.timing.RetryDelay
	}

	logger := g.logger.With(zap.String("action", a.Name))
	start := time.Now()
	report := ActionReport{}
	var lastErr error

	for n := 1; n <= maxAttempts; n++ {
		attempt := ActionAttempt{Number: n, Max: maxAttempts, DelayBeforeNext: delay}
		if attempt.Last() {
			attempt.DelayBeforeNext = 0
		}
		report.Attempts = n

		if err := a.Perform(ctx); err != nil {
			var notReady *ElementNotReadyError
			if !errors.As(err, &notReady) {
				report.Elapsed = time.Since(start)
				return report, fmt.Errorf("action %q attempt %d: %w", a.Name, n, err)
			}
			lastErr = err
			logger.Debug("Action target not ready.", zap.Int("attempt", n), zap.Int("max_attempts", maxAttempts), zap.Error(err))
		} else {
			confirmed, err := g.ConfirmEffect(ctx, a.Effect, a.ConfirmTimeout)
			if err != nil {
				report.Elapsed = time.Since(start)
				return report, fmt.Errorf("confirming action %q: %w", a.Name, err)
			}
			if confirmed {
				report.Elapsed = time.Since(start)
				if n > 1 {
					logger.Info("Action confirmed after retry.", zap.Int("attempt", n))
				}
				return report, nil
			}
			lastErr = nil
			logger.Debug("Action effect not observed.", zap.Int("attempt", n), zap.Int("max_attempts", maxAttempts))
		}

		if attempt.DelayBeforeNext > 0 {
			if err := poll.Sleep(ctx, attempt.DelayBeforeNext); err != nil {
				report.Elapsed = time.Since(start)
				return report, err
			}
		}
	}

	if a.Fallback != nil {
		logger.Warn("Action unconfirmed after all attempts, applying state fallback.", zap.Int("attempts", maxAttempts))
		report.FallbackApplied = true
		if err := a.Fallback(ctx); err != nil {
			if ctx.Err() != nil {
				report.Elapsed = time.Since(start)
				return report, ctx.Err()
			}
			lastErr = fmt.Errorf("fallback: %w", err)
		} else {
			confirmed, err := g.ConfirmEffect(ctx, a.Effect, a.ConfirmTimeout)
			if err != nil {
				report.Elapsed = time.Since(start)
				return report, fmt.Errorf("confirming action %q after fallback: %w", a.Name, err)
			}
			if confirmed {
				report.Elapsed = time.Since(start)
				logger.Warn("Action confirmed only through the state fallback.")
				return report, nil
			}
		}
	}

	report.Elapsed = time.Since(start)
	failure := &ActionNotConfirmedError{
		Action:          a.Name,
		Attempts:        report.Attempts,
		FallbackApplied: report.FallbackApplied,
		Elapsed:         report.Elapsed,
		Cause:           lastErr,
	}
	logger.Error("Action not confirmed.", zap.Error(failure))
	return report, failure
}

// Retry calls fn until it succeeds or attempts are used up, sleeping delay between
// tries. It returns the last error.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func(ctx context.Context) error) error {
	if attempts <= 0 {
		attempts = 1
	}
	var err error
	for n := 1; n <= attempts; n++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if n < attempts {
			if sleepErr := poll.Sleep(ctx, delay); sleepErr != nil {
				return sleepErr
			}
		}
	}
	return fmt.Errorf("after %d attempts: %w", attempts, err)
}
