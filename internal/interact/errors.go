// internal/interact/errors.go
package interact

import (
	"fmt"
	"strings"
	"time"

	"github.com/xkilldash9x/storefront-e2e/internal/webdriver"
)

// ElementNotReadyError is returned when an element never reached the required
// condition within the wait. Callers may retry with a longer wait or another locator.
type ElementNotReadyError struct {
	Locator   webdriver.Locator
	Condition string
	Waited    time.Duration
	Elapsed   time.Duration
	Attempts  int
	// Fallback holds the error of the script click tried after the wait expired, if any.
	Fallback error
}

func (e *ElementNotReadyError) Error() string {
	msg := fmt.Sprintf("element %s not %s after %s (%d checks)", e.Locator, e.Condition, e.Waited, e.Attempts)
	if e.Fallback != nil {
		msg += fmt.Sprintf("; script fallback failed: %v", e.Fallback)
	}
	return msg
}

func (e *ElementNotReadyError) Unwrap() error { return e.Fallback }

// InteractionFailedError is returned once native, scroll+native and script clicks have all failed.
type InteractionFailedError struct {
	Locator  webdriver.Locator
	Attempts []StrategyAttempt
	Elapsed  time.Duration
	Err      error
}

func (e *InteractionFailedError) Error() string {
	tried := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		tried[i] = a.Strategy.String()
	}
	return fmt.Sprintf("click on %s failed after [%s] in %s: %v",
		e.Locator, strings.Join(tried, " -> "), e.Elapsed.Round(time.Millisecond), e.Err)
}

func (e *InteractionFailedError) Unwrap() error { return e.Err }

// ActionNotConfirmedError means an action's expected effect never showed up,
// even after every retry and the optional fallback. It aborts the scenario.
type ActionNotConfirmedError struct {
	Action          string
	Attempts        int
	FallbackApplied bool
	Elapsed         time.Duration
	Cause           error
}

func (e *ActionNotConfirmedError) Error() string {
	msg := fmt.Sprintf("action %q not confirmed after %d attempts in %s", e.Action, e.Attempts, e.Elapsed.Round(time.Millisecond))
	if e.FallbackApplied {
		msg += " (fallback applied)"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ActionNotConfirmedError) Unwrap() error { return e.Cause }
