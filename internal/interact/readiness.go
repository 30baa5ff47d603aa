// internal/interact/readiness.go
package interact

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/storefront-e2e/internal/poll"
	"github.com/xkilldash9x/storefront-e2e/internal/webdriver"
)

// Timing holds the waits used by the interaction layer. It is fixed at session start.
type Timing struct {
	Explicit        time.Duration
	PollInterval    time.Duration
	ConfirmTimeout  time.Duration
	ConfirmAttempts int
	RetryDelay      time.Duration
}

// DefaultTiming mirrors the configuration defaults.
func DefaultTiming() Timing {
	return Timing{
		Explicit:        15 * time.Second,
		PollInterval:    250 * time.Millisecond,
		ConfirmTimeout:  10 * time.Second,
		ConfirmAttempts: 3,
		RetryDelay:      time.Second,
	}
}

const (
	conditionPresent   = "present"
	conditionVisible   = "visible"
	conditionClickable = "clickable"
	conditionGone      = "gone"
)

// Readiness waits for elements to become usable.
type Readiness struct {
	drv    webdriver.Driver
	timing Timing
	logger *zap.Logger
}

// NewReadiness builds a Readiness that waits up to timing.Explicit by default.
func NewReadiness(drv webdriver.Driver, timing Timing, logger *zap.Logger) *Readiness {
	return &Readiness{drv: drv, timing: timing, logger: logger.Named("readiness")}
}

// Timing returns the waits this instance was built with.
func (r *Readiness) Timing() Timing { return r.timing }

func (r *Readiness) resolve(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return r.timing.Explicit
	}
	return timeout
}

// first returns the first element matching loc that satisfies accept.
func (r *Readiness) first(loc webdriver.Locator, accept func(context.Context, webdriver.Element) (bool, error)) poll.Predicate[webdriver.Element] {
	return func(ctx context.Context) (webdriver.Element, bool, error) {
		els, err := r.drv.FindElements(ctx, loc)
		if err != nil || len(els) == 0 {
			return nil, false, err
		}
		el := els[0]
		if accept == nil {
			return el, true, nil
		}
		ok, err := accept(ctx, el)
		if err != nil || !ok {
			return nil, false, err
		}
		return el, true, nil
	}
}

func isVisible(ctx context.Context, el webdriver.Element) (bool, error) {
	return el.IsDisplayed(ctx)
}

func isClickable(ctx context.Context, el webdriver.Element) (bool, error) {
	visible, err := el.IsDisplayed(ctx)
	if err != nil || !visible {
		return false, err
	}
	return el.IsEnabled(ctx)
}

func (r *Readiness) wait(ctx context.Context, loc webdriver.Locator, condition string, timeout time.Duration, pred poll.Predicate[webdriver.Element]) (webdriver.Element, error) {
	timeout = r.resolve(timeout)
	res := poll.Poll(ctx, timeout, r.timing.PollInterval, pred, poll.WithTransient(webdriver.IsTransient))

	switch res.Outcome {
	case poll.Success:
		return res.Value, nil
	case poll.TimedOut:
		r.logger.Debug("Element did not become ready.",
			zap.Stringer("locator", loc),
			zap.String("condition", condition),
			zap.Duration("waited", timeout),
			zap.Int("checks", res.Attempts))
		return nil, &ElementNotReadyError{
			Locator:   loc,
			Condition: condition,
			Waited:    timeout,
			Elapsed:   res.Elapsed,
			Attempts:  res.Attempts,
		}
	default:
		return nil, fmt.Errorf("waiting for %s to be %s: %w", loc, condition, res.Err)
	}
}

// WaitPresent waits until at least one element matches loc, visible or not.
func (r *Readiness) WaitPresent(ctx context.Context, loc webdriver.Locator, timeout time.Duration) (webdriver.Element, error) {
	return r.wait(ctx, loc, conditionPresent, timeout, r.first(loc, nil))
}

// WaitVisible waits until the first element matching loc exists and is rendered.
func (r *Readiness) WaitVisible(ctx context.Context, loc webdriver.Locator, timeout time.Duration) (webdriver.Element, error) {
	return r.wait(ctx, loc, conditionVisible, timeout, r.first(loc, isVisible))
}

// WaitClickable waits until the first element matching loc is visible and enabled.
func (r *Readiness) WaitClickable(ctx context.Context, loc webdriver.Locator, timeout time.Duration) (webdriver.Element, error) {
	return r.wait(ctx, loc, conditionClickable, timeout, r.first(loc, isClickable))
}

// WaitAnyVisible tries each alternative in order on every poll and returns the
// first visible match together with the locator that found it.
func (r *Readiness) WaitAnyVisible(ctx context.Context, timeout time.Duration, alts ...webdriver.Locator) (webdriver.Element, webdriver.Locator, error) {
	if len(alts) == 0 {
		return nil, webdriver.Locator{}, fmt.Errorf("no locators given")
	}

	type match struct {
		el  webdriver.Element
		loc webdriver.Locator
	}
	timeout = r.resolve(timeout)
	res := poll.Poll(ctx, timeout, r.timing.PollInterval, func(ctx context.Context) (match, bool, error) {
		for _, loc := range alts {
			el, ok, err := r.first(loc, isVisible)(ctx)
			if err != nil && !webdriver.IsTransient(err) {
				return match{}, false, err
			}
			if ok {
				return match{el: el, loc: loc}, true, nil
			}
		}
		return match{}, false, nil
	}, poll.WithTransient(webdriver.IsTransient))

	switch res.Outcome {
	case poll.Success:
		return res.Value.el, res.Value.loc, nil
	case poll.TimedOut:
		return nil, alts[0], &ElementNotReadyError{
			Locator:   alts[0],
			Condition: conditionVisible + " (any of " + webdriver.Alternatives(alts).String() + ")",
			Waited:    timeout,
			Elapsed:   res.Elapsed,
			Attempts:  res.Attempts,
		}
	default:
		return nil, alts[0], fmt.Errorf("waiting for any of %s: %w", webdriver.Alternatives(alts), res.Err)
	}
}

// WaitGone waits until nothing matching loc is displayed.
func (r *Readiness) WaitGone(ctx context.Context, loc webdriver.Locator, timeout time.Duration) error {
	timeout = r.resolve(timeout)
	res := poll.Until(ctx, timeout, r.timing.PollInterval, func(ctx context.Context) (bool, error) {
		els, err := r.drv.FindElements(ctx, loc)
		if err != nil {
			return false, err
		}
		for _, el := range els {
			visible, err := el.IsDisplayed(ctx)
			if webdriver.IsTransient(err) {
				continue
			}
			if err != nil {
				return false, err
			}
			if visible {
				return false, nil
			}
		}
		return true, nil
	}, poll.WithTransient(webdriver.IsTransient))

	switch res.Outcome {
	case poll.Success:
		return nil
	case poll.TimedOut:
		return &ElementNotReadyError{Locator: loc, Condition: conditionGone, Waited: timeout, Elapsed: res.Elapsed, Attempts: res.Attempts}
	default:
		return fmt.Errorf("waiting for %s to disappear: %w", loc, res.Err)
	}
}

// IsPresent reports whether loc currently matches anything. Absence is not an error.
func (r *Readiness) IsPresent(ctx context.Context, loc webdriver.Locator) (bool, error) {
	els, err := r.drv.FindElements(ctx, loc)
	if webdriver.IsTransient(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("looking up %s: %w", loc, err)
	}
	return len(els) > 0, nil
}

// IsVisible reports whether the first match of loc is currently displayed.
func (r *Readiness) IsVisible(ctx context.Context, loc webdriver.Locator) (bool, error) {
	_, ok, err := r.first(loc, isVisible)(ctx)
	if webdriver.IsTransient(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking visibility of %s: %w", loc, err)
	}
	return ok, nil
}

// WaitTitleContains waits until the document title contains fragment, case-insensitively.
func (r *Readiness) WaitTitleContains(ctx context.Context, fragment string, timeout time.Duration) (string, error) {
	timeout = r.resolve(timeout)
	want := strings.ToLower(fragment)
	res := poll.Poll(ctx, timeout, r.timing.PollInterval, func(ctx context.Context) (string, bool, error) {
		title, err := r.drv.Title(ctx)
		if err != nil {
			return "", false, err
		}
		return title, strings.Contains(strings.ToLower(title), want), nil
	})

	switch res.Outcome {
	case poll.Success:
		return res.Value, nil
	case poll.TimedOut:
		return "", fmt.Errorf("page title did not contain %q within %s", fragment, timeout)
	default:
		return "", fmt.Errorf("reading page title: %w", res.Err)
	}
}
